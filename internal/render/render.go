// Package render lays out parsed segments for output: plain text, ANSI-styled
// terminal text, JSON records, HTML and Markdown.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/chriscorrea/textspan/internal/launch"
	"github.com/chriscorrea/textspan/internal/segment"
)

// Format defines the output format for rendered segments
type Format int

const (
	// plain display text (default)
	Text Format = iota
	// display text styled with terminal escape sequences
	ANSI
	// JSON array of segment records
	JSON
	// HTML fragment with anchors for launchable segments
	HTML
	// Markdown with links for launchable segments
	Markdown
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case Text:
		return "text"
	case ANSI:
		return "ansi"
	case JSON:
		return "json"
	case HTML:
		return "html"
	case Markdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// ParseFormat converts a format name into a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return Text, nil
	case "ansi", "color", "colour":
		return ANSI, nil
	case "json":
		return JSON, nil
	case "html":
		return HTML, nil
	case "markdown", "md":
		return Markdown, nil
	default:
		return Text, fmt.Errorf("unknown output format %q", name)
	}
}

// Render writes segs to w in format f.
func Render(w io.Writer, segs []segment.Segment, f Format) error {
	switch f {
	case Text:
		_, err := io.WriteString(w, segment.Display(segs))
		return err
	case ANSI:
		return renderANSI(w, segs)
	case JSON:
		return renderJSON(w, segs)
	case HTML:
		return renderHTML(w, segs)
	case Markdown:
		return renderMarkdown(w, segs)
	default:
		return fmt.Errorf("unsupported output format %v", f)
	}
}

// ToString renders segs into a string.
func ToString(segs []segment.Segment, f Format) (string, error) {
	var b strings.Builder
	if err := Render(&b, segs, f); err != nil {
		return "", err
	}
	return b.String(), nil
}

// links returns every URI a segment can open: its own target first, then its social profile.
func links(seg segment.Segment) []string {
	uris := launch.URIs(seg)
	if in := seg.Interaction; seg.IsAnnotated() && in != nil && in.SocialProfile {
		uris = append(uris, launch.ProfileURIs(in.Platform, in.Username)...)
	}
	return uris
}
