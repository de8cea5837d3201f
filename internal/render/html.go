package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/chriscorrea/textspan/internal/descriptor"
	"github.com/chriscorrea/textspan/internal/segment"
)

func renderHTML(w io.Writer, segs []segment.Segment) error {
	_, err := fmt.Fprintf(w, "<div class=\"textspan\" style=\"white-space: pre-wrap\">%s</div>\n", htmlBody(segs, false))
	return err
}

// renderMarkdown renders segments as HTML and converts the result, so markdown
// metacharacters in the text are escaped by the converter.
func renderMarkdown(w io.Writer, segs []segment.Segment) error {
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(htmlBody(segs, true))
	if err != nil {
		return fmt.Errorf("failed to convert segments to Markdown: %w", err)
	}
	_, err = io.WriteString(w, strings.TrimSpace(markdown)+"\n")
	return err
}

// htmlBody writes escaped segment text; launchable segments become anchors.
// With breaks set, newlines become <br> so line structure survives conversion.
func htmlBody(segs []segment.Segment, breaks bool) string {
	var b strings.Builder
	for _, seg := range segs {
		text := html.EscapeString(seg.Text)
		if breaks {
			text = strings.ReplaceAll(text, "\n", "<br>")
		}

		if !seg.IsAnnotated() || seg.Descriptor == nil {
			b.WriteString(text)
			continue
		}

		class := "textspan-" + seg.Descriptor.Category.String()
		style := inlineStyle(seg.Style)
		attrs := fmt.Sprintf(" class=\"%s\"", html.EscapeString(class))
		if style != "" {
			attrs += fmt.Sprintf(" style=\"%s\"", html.EscapeString(style))
		}

		if uris := links(seg); len(uris) > 0 {
			fmt.Fprintf(&b, "<a href=\"%s\"%s>%s</a>", html.EscapeString(uris[0]), attrs, text)
		} else {
			fmt.Fprintf(&b, "<span%s>%s</span>", attrs, text)
		}
	}
	return b.String()
}

func inlineStyle(s *descriptor.Style) string {
	if s == nil {
		return ""
	}
	var rules []string
	if s.Foreground != "" {
		rules = append(rules, "color: "+s.Foreground)
	}
	if s.Background != "" {
		rules = append(rules, "background-color: "+s.Background)
	}
	if s.Bold {
		rules = append(rules, "font-weight: bold")
	}
	if s.Italic {
		rules = append(rules, "font-style: italic")
	}
	if s.Underline {
		rules = append(rules, "text-decoration: underline")
	}
	return strings.Join(rules, "; ")
}
