// Package stats summarizes an annotated document: how many segments each pattern
// produced and how large the input and its annotated text are.
//
// Size is measured with a Counter; the default counts tokens with tiktoken's
// cl100k_base encoding, with word and character counters available.
//
// Usage Example:
//
//	c, _ := stats.NewCounter(stats.Words)
//	s := stats.Summarize(segs, c)
//	fmt.Print(s)
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chriscorrea/textspan/internal/segment"
)

// Counter measures text in some unit.
type Counter interface {
	// Count returns the number of units (tokens, words, or characters) in text.
	Count(text string) int
	// Name returns a human-readable name for the unit
	Name() string
}

// CountingMethod selects a Counter.
type CountingMethod int

const (
	// Tokens uses tiktoken with cl100k_base encoding (default)
	Tokens CountingMethod = iota
	// Words counts whitespace-separated words
	Words
	// Characters counts runes including whitespace
	Characters
)

// String returns the string representation of the counting method.
func (cm CountingMethod) String() string {
	switch cm {
	case Tokens:
		return "tokens"
	case Words:
		return "words"
	case Characters:
		return "characters"
	default:
		return "unknown"
	}
}

// ParseCountingMethod converts a unit name into a CountingMethod.
func ParseCountingMethod(name string) (CountingMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "tokens", "token":
		return Tokens, nil
	case "words", "word":
		return Words, nil
	case "characters", "chars", "char":
		return Characters, nil
	default:
		return Tokens, fmt.Errorf("unknown counting method %q", name)
	}
}

// NewCounter returns the Counter for method. Only token counting can fail, when
// the encoding cannot be loaded.
func NewCounter(method CountingMethod) (Counter, error) {
	switch method {
	case Words:
		return NewWordCounter(), nil
	case Characters:
		return NewCharCounter(), nil
	default:
		return NewTokenCounter()
	}
}

// Group counts the annotated segments of one pattern.
type Group struct {
	Category string `json:"category"`
	Name     string `json:"name,omitempty"`
	Pattern  string `json:"pattern"`
	Count    int    `json:"count"`
	Unique   int    `json:"unique"`
}

// Summary describes one parsed document.
type Summary struct {
	Unit      string  `json:"unit"`
	Total     int     `json:"total"`     // size of the whole input
	Annotated int     `json:"annotated"` // size of the annotated text alone
	Segments  int     `json:"segments"`
	Matches   int     `json:"matches"`
	Groups    []Group `json:"groups"`
}

// Summarize counts segs, grouping annotated segments by pattern in first-seen order.
func Summarize(segs []segment.Segment, c Counter) Summary {
	s := Summary{
		Unit:     c.Name(),
		Total:    c.Count(segment.Join(segs)),
		Segments: len(segs),
	}

	index := make(map[string]int)
	seen := make(map[string]map[string]bool)
	var annotated strings.Builder
	for _, seg := range segs {
		if !seg.IsAnnotated() {
			continue
		}
		s.Matches++
		if annotated.Len() > 0 {
			annotated.WriteByte('\n')
		}
		annotated.WriteString(seg.Raw)

		i, ok := index[seg.Pattern]
		if !ok {
			g := Group{Pattern: seg.Pattern}
			if d := seg.Descriptor; d != nil {
				g.Category = d.Category.String()
				g.Name = d.Name
			}
			i = len(s.Groups)
			index[seg.Pattern] = i
			seen[seg.Pattern] = make(map[string]bool)
			s.Groups = append(s.Groups, g)
		}
		s.Groups[i].Count++
		if !seen[seg.Pattern][seg.Raw] {
			seen[seg.Pattern][seg.Raw] = true
			s.Groups[i].Unique++
		}
	}
	s.Annotated = c.Count(annotated.String())

	return s
}

// Top returns the groups ordered by descending count; ties keep first-seen order.
func (s Summary) Top() []Group {
	groups := append([]Group(nil), s.Groups...)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	return groups
}

// String renders the summary as a short report.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d segments, %d matches, %d %s (%d annotated)\n",
		s.Segments, s.Matches, s.Total, s.Unit, s.Annotated)
	for _, g := range s.Top() {
		label := g.Category
		if g.Name != "" {
			label += " (" + g.Name + ")"
		}
		fmt.Fprintf(&b, "  %-24s %d matches, %d unique\n", label, g.Count, g.Unique)
	}
	return b.String()
}
