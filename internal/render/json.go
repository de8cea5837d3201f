package render

import (
	"encoding/json"
	"io"

	"github.com/chriscorrea/textspan/internal/descriptor"
	"github.com/chriscorrea/textspan/internal/segment"
)

// Record is the JSON form of a segment.
type Record struct {
	Kind        string                  `json:"kind"`
	Text        string                  `json:"text"`
	Raw         string                  `json:"raw"`
	Offset      int                     `json:"offset"`
	Category    string                  `json:"category,omitempty"`
	Name        string                  `json:"name,omitempty"`
	Pattern     string                  `json:"pattern,omitempty"`
	Target      string                  `json:"target,omitempty"`
	URIs        []string                `json:"uris,omitempty"`
	Style       *descriptor.Style       `json:"style,omitempty"`
	Interaction *descriptor.Interaction `json:"interaction,omitempty"`
}

// Records converts segments into their JSON form.
func Records(segs []segment.Segment) []Record {
	records := make([]Record, 0, len(segs))
	for _, seg := range segs {
		rec := Record{
			Kind:   seg.Kind.String(),
			Text:   seg.Text,
			Raw:    seg.Raw,
			Offset: seg.Offset,
			Style:  seg.Style,
		}
		if seg.IsAnnotated() && seg.Descriptor != nil {
			rec.Category = seg.Descriptor.Category.String()
			rec.Name = seg.Descriptor.Name
			rec.Pattern = seg.Pattern
			rec.Target = seg.Target
			rec.URIs = links(seg)
			rec.Interaction = seg.Interaction
		}
		records = append(records, rec)
	}
	return records
}

func renderJSON(w io.Writer, segs []segment.Segment) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(Records(segs))
}
