// Package matcher implements the compound matcher: every registered pattern source is
// joined into one alternation, compiled once, and run over the input in a single
// left-to-right pass.
//
// Scan returns spans that partition the input. Matched spans are what the compound
// pattern found; everything in between is literal filler. When several alternatives
// could match at the same position the first listed alternative that succeeds wins,
// which is the backtracking engine's native precedence (not longest-match).
package matcher

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/chriscorrea/textspan/internal/pattern"
)

// Span is a contiguous slice of the input text.
type Span struct {
	Offset  int    // byte offset into the input
	Text    string // raw text, exactly as it appears in the input
	Matched bool   // true for pattern matches, false for literal filler
}

// End returns the byte offset just past the span.
func (s Span) End() int {
	return s.Offset + len(s.Text)
}

// Matcher scans text with the compound alternation of a set of pattern sources.
// A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	source string
	re     *regexp2.Regexp
}

// Compound joins pattern sources into a single alternation group.
func Compound(keys []string) string {
	return "(" + strings.Join(keys, "|") + ")"
}

// New compiles the compound pattern for keys with opts.
// With no keys the matcher treats every input as one literal span.
// A nil compiler compiles without memoization.
func New(keys []string, opts pattern.Options, compiler pattern.Compiler) (*Matcher, error) {
	if len(keys) == 0 {
		return &Matcher{}, nil
	}
	if compiler == nil {
		compiler = pattern.Direct
	}

	source := Compound(keys)
	re, err := compiler.Compile(source, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build compound pattern: %w", err)
	}

	slog.Debug("Compound pattern compiled", "alternatives", len(keys), "sourceLength", len(source))
	return &Matcher{source: source, re: re}, nil
}

// Source returns the compound pattern source, or "" when no keys were given.
func (m *Matcher) Source() string {
	return m.source
}

// Scan splits text into ordered, gapless, non-overlapping spans whose texts
// concatenate back to text. Zero-width matches are never emitted; the scan resumes
// one character past them. Adjacent literal filler is merged into a single span.
func (m *Matcher) Scan(text string) ([]Span, error) {
	if text == "" {
		return nil, nil
	}
	if m.re == nil {
		return []Span{{Offset: 0, Text: text}}, nil
	}

	// regexp2 works on runes; offsets maps each rune index to its byte offset so spans
	// slice the original string and stay lossless even for invalid UTF-8
	runes := []rune(text)
	offsets := make([]int, 0, len(runes)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))

	var spans []Span
	literalStart := 0
	pos := 0

	for pos <= len(runes) {
		match, err := m.re.FindRunesMatchStartingAt(runes, pos)
		if err != nil {
			return nil, fmt.Errorf("failed to scan text at offset %d: %w", offsets[pos], err)
		}
		if match == nil {
			break
		}

		if match.Length == 0 {
			pos = match.Index + 1
			continue
		}

		if match.Index > literalStart {
			spans = append(spans, Span{
				Offset: offsets[literalStart],
				Text:   text[offsets[literalStart]:offsets[match.Index]],
			})
		}

		end := match.Index + match.Length
		spans = append(spans, Span{
			Offset:  offsets[match.Index],
			Text:    text[offsets[match.Index]:offsets[end]],
			Matched: true,
		})

		pos = end
		literalStart = end
	}

	if literalStart < len(runes) {
		spans = append(spans, Span{
			Offset: offsets[literalStart],
			Text:   text[offsets[literalStart]:],
		})
	}

	slog.Debug("Scan completed", "textLength", len(text), "spans", len(spans))
	return spans, nil
}
