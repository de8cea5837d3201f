package stats

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts tokens with tiktoken's cl100k_base encoding.
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
	mu       sync.RWMutex
}

// NewTokenCounter loads the cl100k_base encoding.
func NewTokenCounter() (Counter, error) {
	slog.Debug("Initializing TokenCounter with cl100k_base encoding")

	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cl100k_base encoding: %w", err)
	}

	return &TokenCounter{encoding: encoding}, nil
}

// Count returns the number of tokens in text. Safe for concurrent use.
func (tc *TokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}

	tc.mu.RLock()
	defer tc.mu.RUnlock()

	return len(tc.encoding.Encode(text, nil, nil))
}

// Name returns the unit name.
func (tc *TokenCounter) Name() string {
	return "tokens"
}

// WordCounter counts whitespace-separated words.
type WordCounter struct{}

// NewWordCounter returns a WordCounter.
func NewWordCounter() Counter {
	return WordCounter{}
}

// Count returns the number of words in text.
func (WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

// Name returns the unit name.
func (WordCounter) Name() string {
	return "words"
}

// CharCounter counts runes.
type CharCounter struct{}

// NewCharCounter returns a CharCounter.
func NewCharCounter() Counter {
	return CharCounter{}
}

// Count returns the number of runes in text.
func (CharCounter) Count(text string) int {
	return utf8.RuneCountInString(text)
}

// Name returns the unit name.
func (CharCounter) Name() string {
	return "characters"
}
