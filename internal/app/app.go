// Package app contains the core application logic for the textspan CLI tool.
// It handles the main business logic separated from CLI concerns.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/chriscorrea/textspan/internal/config"
	"github.com/chriscorrea/textspan/internal/extract"
	"github.com/chriscorrea/textspan/internal/fetch"
	"github.com/chriscorrea/textspan/internal/launch"
	"github.com/chriscorrea/textspan/internal/render"
	"github.com/chriscorrea/textspan/internal/segment"
	"github.com/chriscorrea/textspan/internal/spinner"
	"github.com/chriscorrea/textspan/internal/stats"
)

// HTMLMode decides when sources go through HTML extraction
type HTMLMode int

const (
	// extract sources whose content type is HTML (default)
	HTMLAuto HTMLMode = iota
	// extract every source
	HTMLAlways
	// annotate the raw source text, markup included
	HTMLNever
)

// String returns the string representation of the mode
func (m HTMLMode) String() string {
	switch m {
	case HTMLAuto:
		return "auto"
	case HTMLAlways:
		return "always"
	case HTMLNever:
		return "never"
	default:
		return "unknown"
	}
}

// Config holds all configuration options for the textspan application.
type Config struct {
	Sources []string // URLs, file paths, or "-" for stdin

	// extraction
	HTML       HTMLMode
	Selector   string // CSS selector for content extraction
	IncludeAll bool   // keep the whole page instead of the readable main content
	Markdown   bool   // extract HTML as Markdown, keeping link targets

	Settings *config.Config // patterns, regex options and defaults
	Format   render.Format

	// actions on the Nth annotated segment (1-based, 0 = none)
	Copy    int
	Share   int
	Open    int
	Profile int

	DryRun bool // record actions instead of performing them

	Stats    bool
	StatUnit stats.CountingMethod

	Quiet bool // suppress info messages
	Debug bool

	// collaborators; nil means the real implementation
	Fetcher      *fetch.Fetcher
	Capabilities launch.Capabilities
	Diagnostics  io.Writer // warnings, progress and stats; defaults to stderr
}

func (c Config) diagnostics() io.Writer {
	if c.Diagnostics != nil {
		return c.Diagnostics
	}
	return os.Stderr
}

// Run executes the textspan pipeline and returns the rendered output.
//
// Processing Pipeline:
// 1. Fetch every source and extract text from HTML (collectText)
// 2. Parse the combined text into segments
// 3. Perform the requested actions on annotated segments
// 4. Render the segments in the chosen format
//
// ctx allows for cancellation of fetches and launched actions.
func Run(ctx context.Context, cfg Config) (string, error) {
	if len(cfg.Sources) == 0 {
		return "", fmt.Errorf("no sources provided")
	}
	if cfg.Settings == nil {
		cfg.Settings = config.DefaultConfig()
	}

	// step 1: fetch and combine content from all sources
	text, err := collectText(ctx, cfg)
	if err != nil {
		return "", err
	}

	// step 2: parse
	descs, err := cfg.Settings.Descriptors()
	if err != nil {
		return "", fmt.Errorf("failed to build descriptors: %w", err)
	}
	opts := cfg.Settings.SegmentOptions()
	opts.Logger = slog.Default()

	segs, err := segment.Parse(text, descs, opts)
	if err != nil {
		return "", fmt.Errorf("failed to parse text: %w", err)
	}
	slog.Debug("Parsed text", "segments", len(segs), "annotated", len(segment.AnnotatedOnly(segs)))

	// step 3: actions
	if err := runActions(ctx, cfg, segs); err != nil {
		return "", err
	}

	if cfg.Stats {
		if err := writeStats(cfg, segs); err != nil {
			return "", err
		}
	}

	// step 4: render
	out, err := render.ToString(segs, cfg.Format)
	if err != nil {
		return "", fmt.Errorf("failed to render %s output: %w", cfg.Format, err)
	}
	return out, nil
}

// collectText processes all sources and joins their text with blank lines.
// A failing source is skipped with a warning; failing every source is an error.
func collectText(ctx context.Context, cfg Config) (string, error) {
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = fetch.New()
	}

	var sp *spinner.Spinner
	if !cfg.Quiet && spinner.Interactive(cfg.diagnostics()) {
		sp = spinner.New(cfg.diagnostics())
		defer sp.Stop()
	}

	var combined strings.Builder
	for _, source := range cfg.Sources {
		if sp != nil {
			sp.Start(ctx, "Fetching "+source)
		}

		text, err := processSource(ctx, fetcher, source, cfg)
		if sp != nil {
			sp.Stop()
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return "", err
			}
			if !cfg.Quiet {
				fmt.Fprintf(cfg.diagnostics(), "Warning: failed to process source %q: %v\n", source, err)
			}
			continue
		}

		if combined.Len() > 0 {
			combined.WriteString("\n\n")
		}
		combined.WriteString(text)
	}

	if combined.Len() == 0 {
		return "", fmt.Errorf("no content extracted from any source")
	}
	return combined.String(), nil
}

// processSource fetches one source and, for HTML, extracts its text.
func processSource(ctx context.Context, fetcher *fetch.Fetcher, source string, cfg Config) (string, error) {
	doc, err := fetcher.Fetch(ctx, source)
	if err != nil {
		return "", fmt.Errorf("failed to fetch content: %w", err)
	}

	extractHTML := cfg.HTML == HTMLAlways || (cfg.HTML == HTMLAuto && doc.IsHTML())
	if !extractHTML {
		if cfg.Selector != "" {
			slog.Debug("Selector ignored for non-HTML source", "source", source, "contentType", doc.ContentType)
		}
		if strings.TrimSpace(doc.Text()) == "" {
			return "", fmt.Errorf("source is empty")
		}
		return doc.Text(), nil
	}

	text, err := extract.FromHTML(strings.NewReader(doc.Text()), extract.Options{
		Selector: cfg.Selector,
		All:      cfg.IncludeAll,
		BaseURL:  doc.URL,
		Markdown: cfg.Markdown,
	})
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no content extracted")
	}
	return text, nil
}

// runActions performs the copy, share and open requests against the chosen capabilities.
func runActions(ctx context.Context, cfg Config, segs []segment.Segment) error {
	if cfg.Copy == 0 && cfg.Share == 0 && cfg.Open == 0 && cfg.Profile == 0 {
		return nil
	}

	caps := cfg.Capabilities
	var recorder *launch.Recorder
	if cfg.DryRun {
		recorder = &launch.Recorder{}
		caps = recorder
	} else if caps == nil {
		caps = launch.System{}
	}
	launcher := launch.New(caps)

	annotated := segment.AnnotatedOnly(segs)
	actions := []struct {
		name  string
		index int
		run   func(context.Context, segment.Segment) error
	}{
		{"copy", cfg.Copy, launcher.Copy},
		{"share", cfg.Share, launcher.Share},
		{"open", cfg.Open, launcher.Tap},
		{"open the profile of", cfg.Profile, launcher.OpenProfile},
	}
	for _, a := range actions {
		if a.index == 0 {
			continue
		}
		if a.index < 0 || a.index > len(annotated) {
			return fmt.Errorf("cannot %s match %d: %d matches found", a.name, a.index, len(annotated))
		}
		seg := annotated[a.index-1]
		if err := a.run(ctx, seg); err != nil {
			return fmt.Errorf("failed to %s %q: %w", a.name, seg.Raw, err)
		}
		slog.Debug("Performed action", "action", a.name, "match", a.index, "text", seg.Raw)
	}

	if recorder != nil && !cfg.Quiet {
		for _, call := range recorder.Calls() {
			fmt.Fprintf(cfg.diagnostics(), "would %s: %s\n", call.Action, call.Value)
		}
	}
	return nil
}

// writeStats reports the match summary on the diagnostics writer.
func writeStats(cfg Config, segs []segment.Segment) error {
	counter, err := stats.NewCounter(cfg.StatUnit)
	if err != nil {
		return fmt.Errorf("failed to create %s counter: %w", cfg.StatUnit, err)
	}
	_, err = fmt.Fprint(cfg.diagnostics(), stats.Summarize(segs, counter))
	return err
}
