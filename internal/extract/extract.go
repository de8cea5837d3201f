// Package extract turns HTML documents into text worth annotating: the readable
// main content, the elements under a CSS selector, or the whole page.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Options selects which part of an HTML document is kept and how.
type Options struct {
	Selector string   // CSS selector; overrides All and readability
	All      bool     // keep the whole page instead of the main content
	BaseURL  *url.URL // page location, resolves relative links during readability extraction
	Markdown bool     // produce Markdown, keeping link targets in the text
}

// minReadableLength matches readability's own character threshold; shorter
// picks are replaced by the page's main landmark
const minReadableLength = 500

// landmarks are tried in order when readability's pick is too short
var landmarks = []string{"main", "[role=main]", "article", "body"}

// blockElements start and end on their own line in plain text output
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "dd": true,
	"div": true, "dl": true, "dt": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true, "main": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true,
}

// skippedElements never contribute text
var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true, "head": true,
}

// FromHTML extracts text from HTML content.
func FromHTML(content io.Reader, opts Options) (string, error) {
	fragment, err := selectHTML(content, opts)
	if err != nil {
		return "", err
	}

	if opts.Markdown {
		return convertToMarkdown(fragment)
	}
	return plainText(fragment)
}

// selectHTML returns the HTML fragment chosen by opts.
func selectHTML(content io.Reader, opts Options) (string, error) {
	if opts.Selector != "" {
		return extractWithSelector(content, opts.Selector)
	}

	if opts.All {
		html, err := io.ReadAll(content)
		if err != nil {
			return "", fmt.Errorf("failed to read HTML content: %w", err)
		}
		return string(html), nil
	}

	return extractMainContent(content, opts.BaseURL)
}

// extractMainContent uses go-readability to find the main article content.
// On short pages readability can settle on a footer or sidebar, so a pick under
// minReadableLength falls back to the first non-empty landmark element.
func extractMainContent(content io.Reader, baseURL *url.URL) (string, error) {
	if baseURL == nil {
		baseURL = &url.URL{}
	}

	html, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read HTML content: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(html), baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract main content: %w", err)
	}
	if article.Length >= minReadableLength {
		return article.Content, nil
	}

	if fragment, name, ok := landmarkContent(html); ok {
		slog.Debug("Readability result too short, using landmark", "length", article.Length, "landmark", name)
		return fragment, nil
	}
	return article.Content, nil
}

// landmarkContent returns the outer HTML of the first landmark element with text
func landmarkContent(html []byte) (string, string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", "", false
	}

	for _, selector := range landmarks {
		s := doc.Find(selector).First()
		if s.Length() == 0 || strings.TrimSpace(s.Text()) == "" {
			continue
		}
		fragment, err := goquery.OuterHtml(s)
		if err != nil {
			continue
		}
		return fragment, selector, true
	}
	return "", "", false
}

// extractWithSelector collects the outer HTML of every element matching selector
func extractWithSelector(content io.Reader, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(selector)
	if selection.Length() == 0 {
		return "", fmt.Errorf("no elements found matching selector: %s", selector)
	}

	var parts []string
	selection.Each(func(_ int, s *goquery.Selection) {
		if html, err := goquery.OuterHtml(s); err == nil {
			parts = append(parts, html)
		}
	})
	if len(parts) == 0 {
		return "", fmt.Errorf("failed to extract HTML from selection")
	}

	return strings.Join(parts, "\n"), nil
}

// plainText renders an HTML fragment as text, one line per block element.
func plainText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var b strings.Builder
	writeText(&b, doc.Selection)
	return tidy(b.String()), nil
}

func writeText(b *strings.Builder, s *goquery.Selection) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		name := goquery.NodeName(c)
		switch {
		case name == "#text":
			b.WriteString(c.Text())
		case skippedElements[name]:
		case name == "br":
			b.WriteString("\n")
		case blockElements[name]:
			b.WriteString("\n")
			writeText(b, c)
			b.WriteString("\n")
		default:
			writeText(b, c)
		}
	})
}

// tidy collapses runs of whitespace inside lines and keeps at most one blank line
// between paragraphs.
func tidy(text string) string {
	var lines []string
	blank := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = len(lines) > 0
			continue
		}
		if blank {
			lines = append(lines, "")
			blank = false
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// convertToMarkdown converts an HTML fragment to clean Markdown
func convertToMarkdown(fragment string) (string, error) {
	converter := md.NewConverter("", true, nil)

	markdown, err := converter.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}

	cleaned := strings.TrimSpace(markdown)
	for strings.Contains(cleaned, "\n\n\n") {
		cleaned = strings.ReplaceAll(cleaned, "\n\n\n", "\n\n")
	}
	return cleaned, nil
}
