package descriptor

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingPattern is returned for a custom descriptor without a pattern string
	ErrMissingPattern = errors.New("custom descriptor has no pattern")
	// ErrInvalidPattern wraps regex syntax errors found while building a table
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrInvalidInteraction is returned for incomplete interaction configurations
	ErrInvalidInteraction = errors.New("invalid interaction")
	// ErrUnknownCategory is returned for category values outside the registry
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnresolved marks a matched span that no descriptor claims
	ErrUnresolved = errors.New("match not resolvable to a descriptor")
)

// ConfigurationError reports a malformed descriptor. It is raised before any
// scanning happens and is meant for the integrating application.
type ConfigurationError struct {
	Index int    // position in the caller's descriptor list
	Name  string // descriptor label
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("descriptor %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ResolutionError reports a matched span that cannot be traced to any descriptor.
// Callers recover from it by treating the span as literal text.
type ResolutionError struct {
	Text string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnresolved, e.Text)
}

func (e *ResolutionError) Unwrap() error {
	return ErrUnresolved
}
