package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chriscorrea/textspan/internal/descriptor"
	"github.com/chriscorrea/textspan/internal/segment"
)

// renderANSI styles each segment with lipgloss. The renderer detects the color
// profile of w, so redirected output degrades to plain text.
func renderANSI(w io.Writer, segs []segment.Segment) error {
	r := lipgloss.NewRenderer(w)

	var b strings.Builder
	for _, seg := range segs {
		if d := seg.Descriptor; seg.IsAnnotated() && d != nil && d.Render != nil {
			b.WriteString(d.Render(seg.Text, seg.Pattern))
			continue
		}

		text := seg.Text
		if seg.Style != nil {
			text = styleFor(r, seg.Style).Render(text)
		}
		if seg.IsAnnotated() {
			text = withIcons(text, seg.Interaction)
		}
		b.WriteString(text)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// styleFor maps a descriptor style onto a lipgloss style.
func styleFor(r *lipgloss.Renderer, s *descriptor.Style) lipgloss.Style {
	st := r.NewStyle()
	if s.Foreground != "" {
		st = st.Foreground(lipgloss.Color(s.Foreground))
	}
	if s.Background != "" {
		st = st.Background(lipgloss.Color(s.Background))
	}
	return st.Bold(s.Bold).Italic(s.Italic).Underline(s.Underline)
}

// withIcons places the enabled capability icons before or after text.
func withIcons(text string, in *descriptor.Interaction) string {
	if in == nil {
		return text
	}

	var icons []string
	if in.Copy && in.CopyIcon != "" {
		icons = append(icons, in.CopyIcon)
	}
	if in.Share && in.ShareIcon != "" {
		icons = append(icons, in.ShareIcon)
	}
	if in.SocialProfile && in.ProfileIcon != "" {
		icons = append(icons, in.ProfileIcon)
	}
	if len(icons) == 0 {
		return text
	}

	joined := strings.Join(icons, "")
	if in.IconAfter {
		return text + " " + joined
	}
	return joined + " " + text
}
