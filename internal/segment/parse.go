package segment

import (
	"fmt"
	"log/slog"

	"github.com/chriscorrea/textspan/internal/descriptor"
	"github.com/chriscorrea/textspan/internal/matcher"
	"github.com/chriscorrea/textspan/internal/pattern"
)

// Options holds the per-call configuration of a parse pass.
type Options struct {
	Regex              pattern.Options         // one option set for every pattern of the pass
	DefaultStyle       *descriptor.Style       // style for literals and unstyled descriptors
	DefaultInteraction *descriptor.Interaction // interaction for descriptors without one

	// NewResolver overrides how matches are traced back to descriptors; nil uses the table
	NewResolver func(*descriptor.Table) descriptor.Resolver
	// Compiler compiles pattern sources; nil compiles without memoization
	Compiler pattern.Compiler
	Logger   *slog.Logger
}

// DefaultOptions returns options with default regex flags and no default style or interaction.
func DefaultOptions() Options {
	return Options{Regex: pattern.DefaultOptions()}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Parse runs one synchronous parse pass over text.
//
// Configuration problems (a custom descriptor without a pattern, malformed regex,
// incomplete interaction) abort the pass with a *descriptor.ConfigurationError
// before any scanning. A match that cannot be resolved to a descriptor is emitted
// as literal text; it never fails the pass.
func Parse(text string, descs []*descriptor.Descriptor, opts Options) ([]Segment, error) {
	log := opts.logger()

	if err := opts.DefaultInteraction.Validate(); err != nil {
		return nil, &descriptor.ConfigurationError{Index: -1, Name: "default interaction", Err: err}
	}

	table, err := descriptor.NewTable(descs, opts.Regex, opts.Compiler)
	if err != nil {
		return nil, err
	}

	m, err := matcher.New(table.Keys(), opts.Regex, opts.Compiler)
	if err != nil {
		return nil, fmt.Errorf("failed to create matcher: %w", err)
	}

	spans, err := m.Scan(text)
	if err != nil {
		return nil, fmt.Errorf("failed to scan text: %w", err)
	}

	var resolver descriptor.Resolver = table
	if opts.NewResolver != nil {
		resolver = opts.NewResolver(table)
	}

	segs := make([]Segment, 0, len(spans))
	unresolved := 0
	for _, span := range spans {
		if !span.Matched {
			segs = append(segs, literal(span, opts))
			continue
		}

		d, err := resolver.Resolve(span.Text)
		if err == nil && d == nil {
			err = &descriptor.ResolutionError{Text: span.Text}
		}
		if err != nil {
			log.Debug("Match treated as literal", "offset", span.Offset, "text", span.Text, "error", err)
			unresolved++
			segs = append(segs, literal(span, opts))
			continue
		}

		segs = append(segs, Emit(span, d, opts))
	}

	log.Debug("Parse completed", "textLength", len(text), "segments", len(segs), "unresolved", unresolved)
	return segs, nil
}

// Parser runs parse passes with a shared compile cache. Descriptor tables are
// rebuilt on every call; only compiled patterns are memoized.
// A Parser is safe for concurrent use.
type Parser struct {
	opts Options
}

// NewParser creates a Parser. When opts.Compiler is nil a fresh pattern.Cache is used.
func NewParser(opts Options) *Parser {
	if opts.Compiler == nil {
		opts.Compiler = pattern.NewCache()
	}
	return &Parser{opts: opts}
}

// Parse runs a parse pass over text with the parser's options.
func (p *Parser) Parse(text string, descs []*descriptor.Descriptor) ([]Segment, error) {
	return Parse(text, descs, p.opts)
}

// Options returns the parser's options.
func (p *Parser) Options() Options {
	return p.opts
}
