package descriptor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dlclark/regexp2"

	"github.com/chriscorrea/textspan/internal/pattern"
)

// Resolver finds the descriptor that owns a piece of matched text.
type Resolver interface {
	Resolve(text string) (*Descriptor, error)
}

type entry struct {
	desc *Descriptor
	re   *regexp2.Regexp // key anchored to the whole text
}

// anchored wraps a pattern source so it only matches an entire string.
// \A and \z are used because ^ and $ move to line boundaries in multiline mode.
func anchored(key string) string {
	return `\A(?:` + key + `)\z`
}

// Table is an insertion-ordered mapping from pattern source to descriptor.
// It is immutable after NewTable returns and safe for concurrent reads.
type Table struct {
	keys    []string
	entries map[string]entry
	opts    pattern.Options
}

// NewTable builds a table from descriptors in caller priority order.
//
// When two descriptors share a pattern source the later one replaces the earlier
// one, while the key keeps the position of its first insertion. Every key is compiled
// eagerly with opts; the first malformed descriptor aborts the build with a
// *ConfigurationError. A nil compiler compiles without memoization.
func NewTable(descs []*Descriptor, opts pattern.Options, compiler pattern.Compiler) (*Table, error) {
	if compiler == nil {
		compiler = pattern.Direct
	}

	t := &Table{
		keys:    make([]string, 0, len(descs)),
		entries: make(map[string]entry, len(descs)),
		opts:    opts,
	}

	for i, d := range descs {
		if d == nil {
			return nil, &ConfigurationError{Index: i, Name: "nil", Err: errors.New("descriptor is nil")}
		}

		key, err := d.Key()
		if err != nil {
			return nil, &ConfigurationError{Index: i, Name: d.Label(), Err: err}
		}
		if err := d.Interaction.Validate(); err != nil {
			return nil, &ConfigurationError{Index: i, Name: d.Label(), Err: err}
		}

		if _, err := compiler.Compile(key, opts); err != nil {
			return nil, &ConfigurationError{Index: i, Name: d.Label(), Err: fmt.Errorf("%w: %v", ErrInvalidPattern, err)}
		}
		re, err := compiler.Compile(anchored(key), opts)
		if err != nil {
			return nil, &ConfigurationError{Index: i, Name: d.Label(), Err: fmt.Errorf("%w: %v", ErrInvalidPattern, err)}
		}

		if prev, exists := t.entries[key]; exists {
			slog.Debug("Descriptor replaces earlier entry", "pattern", key, "previous", prev.desc.Label(), "replacement", d.Label())
		} else {
			t.keys = append(t.keys, key)
		}
		t.entries[key] = entry{desc: d, re: re}
	}

	slog.Debug("Descriptor table built", "descriptors", len(descs), "keys", len(t.keys))
	return t, nil
}

// Keys returns the pattern sources in insertion order.
func (t *Table) Keys() []string {
	keys := make([]string, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// Len returns the number of distinct pattern sources.
func (t *Table) Len() int {
	return len(t.keys)
}

// Options returns the regex options the table was compiled with.
func (t *Table) Options() pattern.Options {
	return t.opts
}

// Lookup returns the descriptor registered under an exact pattern source.
func (t *Table) Lookup(key string) (*Descriptor, bool) {
	e, ok := t.entries[key]
	if !ok {
		return nil, false
	}
	return e.desc, true
}

// Resolve returns the descriptor owning text.
//
// An exact key match wins first; this is how fixed-string custom patterns resolve.
// Otherwise every key's pattern is re-tested against text in insertion order and
// the first one that matches the whole of text wins, so a pattern that only
// matches part of it is passed over. A *ResolutionError is returned when nothing
// matches.
func (t *Table) Resolve(text string) (*Descriptor, error) {
	if e, ok := t.entries[text]; ok {
		return e.desc, nil
	}

	for _, key := range t.keys {
		e := t.entries[key]
		ok, err := e.re.MatchString(text)
		if err != nil {
			slog.Debug("Re-test failed", "pattern", key, "error", err)
			continue
		}
		if ok {
			return e.desc, nil
		}
	}

	return nil, &ResolutionError{Text: text}
}
