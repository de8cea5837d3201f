// Package segment turns text and an ordered descriptor list into typed segments.
//
// A parse pass builds the descriptor table, compiles the compound pattern, scans the
// text once, resolves every match to its descriptor and emits one Segment per span.
// Literal segments carry the default style; annotated segments carry the resolved
// descriptor, style, interaction configuration and tap target.
//
// Usage Example:
//
//	segs, err := segment.Parse("Contact a@b.com", []*descriptor.Descriptor{
//		{Category: pattern.Email},
//	}, segment.DefaultOptions())
//	// segs[0] is the literal "Contact ", segs[1] the annotated "a@b.com"
package segment

import (
	"strings"

	"github.com/chriscorrea/textspan/internal/descriptor"
	"github.com/chriscorrea/textspan/internal/matcher"
)

// Kind distinguishes plain-text runs from annotated runs.
type Kind int

const (
	// Literal segments are unmatched text
	Literal Kind = iota
	// Annotated segments are matches with resolved metadata
	Annotated
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Annotated:
		return "annotated"
	default:
		return "unknown"
	}
}

// Segment is one rendered-ready unit of output.
type Segment struct {
	Kind   Kind
	Text   string // display text
	Raw    string // input text covered by the segment
	Offset int    // byte offset of Raw in the input

	Pattern     string // pattern source of the owning descriptor, empty for literals
	Style       *descriptor.Style
	Descriptor  *descriptor.Descriptor
	Interaction *descriptor.Interaction
	Target      string // tap target, empty for literals
}

// IsAnnotated reports whether the segment came from a resolved match.
func (s Segment) IsAnnotated() bool {
	return s.Kind == Annotated
}

// literal emits a plain segment for span.
func literal(span matcher.Span, opts Options) Segment {
	return Segment{
		Kind:   Literal,
		Text:   span.Text,
		Raw:    span.Text,
		Offset: span.Offset,
		Style:  opts.DefaultStyle,
	}
}

// Emit merges a resolved descriptor, the matched span and the global defaults
// into an annotated segment.
func Emit(span matcher.Span, d *descriptor.Descriptor, opts Options) Segment {
	// the descriptor already passed table construction, so Key cannot fail here
	key, _ := d.Key()
	t := d.Apply(span.Text, key)

	style := d.Style
	if style == nil {
		style = opts.DefaultStyle
	}
	interaction := d.Interaction
	if interaction == nil {
		interaction = opts.DefaultInteraction
	}

	return Segment{
		Kind:        Annotated,
		Text:        t.Display,
		Raw:         span.Text,
		Offset:      span.Offset,
		Pattern:     key,
		Style:       style,
		Descriptor:  d,
		Interaction: interaction,
		Target:      t.Value,
	}
}

// Join concatenates the raw text of segs, reproducing the parsed input.
func Join(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Raw)
	}
	return b.String()
}

// Display concatenates the display text of segs.
func Display(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

// AnnotatedOnly returns only the annotated segments of segs.
func AnnotatedOnly(segs []Segment) []Segment {
	var out []Segment
	for _, s := range segs {
		if s.IsAnnotated() {
			out = append(out, s)
		}
	}
	return out
}
