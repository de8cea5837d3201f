// Package pattern provides the built-in pattern registry and regex options for textspan.
//
// Built-in categories (email, phone, URL) map to fixed pattern strings that are
// process-wide constants. Every pattern compiled for a parse pass, built-in or
// custom, goes through Compile with a single Options value so that one option set
// governs the whole pass.
package pattern

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Category identifies a built-in pattern family, or Custom for caller-supplied regexes.
type Category int

const (
	// Custom descriptors carry their own pattern string
	Custom Category = iota
	// Email matches addresses such as jane@example.com
	Email
	// Phone matches phone numbers with an optional country code
	Phone
	// URL matches http(s) links and www. hosts
	URL
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case Custom:
		return "custom"
	case Email:
		return "email"
	case Phone:
		return "phone"
	case URL:
		return "url"
	default:
		return "unknown"
	}
}

// ParseCategory converts a category name into a Category.
// The empty string is treated as custom.
func ParseCategory(name string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "custom":
		return Custom, nil
	case "email":
		return Email, nil
	case "phone":
		return Phone, nil
	case "url", "link":
		return URL, nil
	default:
		return Custom, fmt.Errorf("unknown pattern category %q", name)
	}
}

// Built-in pattern sources. These are pragmatic surface-syntax matchers, not grammars.
const (
	EmailPattern = `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`
	PhonePattern = `(?<!\d)(?:\+\d{1,3}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}(?!\d)`
	URLPattern   = `(?:https?://|www\.)[^\s<>"']*[^\s<>"'.,;:!?)\]}]`
)

// Builtin returns the pattern source for a built-in category.
// It reports false for Custom and unknown categories.
func Builtin(c Category) (string, bool) {
	switch c {
	case Email:
		return EmailPattern, true
	case Phone:
		return PhonePattern, true
	case URL:
		return URLPattern, true
	default:
		return "", false
	}
}

// Options holds the global regex flags applied uniformly to every pattern of a parse pass.
// Descriptors cannot override them individually. The zero value matches
// case-sensitively in single-line mode.
type Options struct {
	Multiline  bool // ^ and $ match at line boundaries
	IgnoreCase bool // case-insensitive matching
	DotAll     bool // . also matches newlines
	// Unicode is passed through to the engine but changes nothing in the default
	// (non-ECMAScript) syntax, where \w, \d and \s already match any Unicode letter,
	// digit or space.
	Unicode bool
	// MatchTimeout bounds a single match attempt; zero keeps the engine default (no limit)
	MatchTimeout time.Duration
}

// DefaultOptions returns single-line, case-sensitive options.
func DefaultOptions() Options {
	return Options{}
}

// Flags converts the options into regexp2 option bits.
func (o Options) Flags() regexp2.RegexOptions {
	flags := regexp2.None
	if o.Multiline {
		flags |= regexp2.Multiline
	}
	if o.IgnoreCase {
		flags |= regexp2.IgnoreCase
	}
	if o.DotAll {
		flags |= regexp2.Singleline
	}
	if o.Unicode {
		flags |= regexp2.Unicode
	}
	return flags
}

// Compile compiles expr with the given options.
func Compile(expr string, opts Options) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(expr, opts.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern %q: %w", expr, err)
	}
	if opts.MatchTimeout > 0 {
		re.MatchTimeout = opts.MatchTimeout
	}
	return re, nil
}

// Compiler compiles pattern sources. Both Cache and CompileFunc satisfy it.
type Compiler interface {
	Compile(expr string, opts Options) (*regexp2.Regexp, error)
}

// CompileFunc adapts a plain function to the Compiler interface.
type CompileFunc func(expr string, opts Options) (*regexp2.Regexp, error)

// Compile calls f(expr, opts).
func (f CompileFunc) Compile(expr string, opts Options) (*regexp2.Regexp, error) {
	return f(expr, opts)
}

// Direct compiles every pattern without memoization.
var Direct Compiler = CompileFunc(Compile)
