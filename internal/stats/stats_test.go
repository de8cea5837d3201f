package stats

import (
	"strings"
	"testing"

	"github.com/chriscorrea/textspan/internal/descriptor"
	"github.com/chriscorrea/textspan/internal/pattern"
	"github.com/chriscorrea/textspan/internal/segment"
)

func TestWordCounter(t *testing.T) {
	counter := NewWordCounter()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty string", "", 0},
		{"single word", "hello", 1},
		{"multiple words", "hello world test", 3},
		{"whitespace handling", "  hello   world  ", 2},
		{"unicode words", "café naïve résumé", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := counter.Count(tt.text); result != tt.expected {
				t.Errorf("WordCounter.Count(%q) = %d, want %d", tt.text, result, tt.expected)
			}
		})
	}

	if counter.Name() != "words" {
		t.Errorf("WordCounter.Name() = %q, want %q", counter.Name(), "words")
	}
}

func TestCharCounter(t *testing.T) {
	counter := NewCharCounter()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty string", "", 0},
		{"multiple chars", "hello", 5},
		{"unicode chars", "café", 4},
		{"whitespace included", "a b", 3},
		{"emoji", "hello 👋", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := counter.Count(tt.text); result != tt.expected {
				t.Errorf("CharCounter.Count(%q) = %d, want %d", tt.text, result, tt.expected)
			}
		})
	}
}

func TestTokenCounter(t *testing.T) {
	counter, err := NewTokenCounter()
	if err != nil {
		// the encoding is downloaded on first use
		t.Skipf("cl100k_base encoding unavailable: %v", err)
	}

	if counter.Count("") != 0 {
		t.Errorf("TokenCounter.Count(\"\") should be 0")
	}
	if n := counter.Count("hello world"); n <= 0 || n > 3 {
		t.Errorf("TokenCounter.Count(\"hello world\") = %d, want 1-3", n)
	}
	if counter.Name() != "tokens" {
		t.Errorf("TokenCounter.Name() = %q, want tokens", counter.Name())
	}
}

func TestParseCountingMethod(t *testing.T) {
	tests := []struct {
		name     string
		expected CountingMethod
		wantErr  bool
	}{
		{"", Tokens, false},
		{"tokens", Tokens, false},
		{"Words", Words, false},
		{"chars", Characters, false},
		{"bytes", Tokens, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCountingMethod(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCountingMethod(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseCountingMethod(%q) = %v, want %v", tt.name, got, tt.expected)
			}
			if !tt.wantErr && got.String() == "unknown" {
				t.Errorf("%v has no name", got)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	text := "mail a@b.com or a@b.com, or c@d.org; site www.example.com"
	segs, err := segment.Parse(text, []*descriptor.Descriptor{
		{Category: pattern.URL},
		{Category: pattern.Email, Name: "mail"},
	}, segment.DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	s := Summarize(segs, NewWordCounter())

	if s.Unit != "words" {
		t.Errorf("Unit = %q, want words", s.Unit)
	}
	if s.Total != 8 {
		t.Errorf("Total = %d, want 8", s.Total)
	}
	if s.Matches != 4 {
		t.Errorf("Matches = %d, want 4", s.Matches)
	}
	if s.Annotated != 4 {
		t.Errorf("Annotated = %d, want 4", s.Annotated)
	}
	if s.Segments != len(segs) {
		t.Errorf("Segments = %d, want %d", s.Segments, len(segs))
	}

	if len(s.Groups) != 2 {
		t.Fatalf("Groups = %+v, want 2 groups", s.Groups)
	}
	// first-seen order: the email appears before the url
	email, url := s.Groups[0], s.Groups[1]
	if email.Category != "email" || email.Name != "mail" || email.Count != 3 || email.Unique != 2 {
		t.Errorf("email group = %+v", email)
	}
	if url.Category != "url" || url.Count != 1 || url.Unique != 1 {
		t.Errorf("url group = %+v", url)
	}

	top := s.Top()
	if top[0].Category != "email" {
		t.Errorf("Top()[0] = %+v, want email group", top[0])
	}

	report := s.String()
	if !strings.Contains(report, "4 matches") || !strings.Contains(report, "email (mail)") {
		t.Errorf("String() = %q", report)
	}
}

func TestSummarizeNoMatches(t *testing.T) {
	segs, err := segment.Parse("nothing here", nil, segment.DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	s := Summarize(segs, NewCharCounter())
	if s.Total != 12 || s.Matches != 0 || s.Annotated != 0 || len(s.Groups) != 0 {
		t.Errorf("Summarize() = %+v", s)
	}
}
