package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/chriscorrea/textspan/internal/app"
	"github.com/chriscorrea/textspan/internal/config"
	"github.com/chriscorrea/textspan/internal/descriptor"
	"github.com/chriscorrea/textspan/internal/render"
	"github.com/chriscorrea/textspan/internal/stats"
)

// buildConfig constructs an app.Config from command flags and arguments
func buildConfig(cmd *cobra.Command, args []string, stdoutIsTerminal bool) (app.Config, error) {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	formatName, _ := flags.GetString("format")
	htmlMode, _ := flags.GetString("html")
	selector, _ := flags.GetString("selector")
	includeAll, _ := flags.GetBool("include-all")
	markdown, _ := flags.GetBool("markdown")
	copyIndex, _ := flags.GetInt("copy")
	shareIndex, _ := flags.GetInt("share")
	openIndex, _ := flags.GetInt("open")
	profileIndex, _ := flags.GetInt("profile")
	dryRun, _ := flags.GetBool("dry-run")
	showStats, _ := flags.GetBool("stats")
	statUnit, _ := flags.GetString("stat-unit")
	quiet, _ := flags.GetBool("quiet")
	debug, _ := flags.GetBool("debug")

	settings, err := config.Load(configPath)
	if err != nil {
		return app.Config{}, err
	}

	applyPatternFlags(cmd, settings)
	applyRegexFlags(cmd, settings)

	// an explicit action implies its capability when the config grants none
	if (copyIndex > 0 || shareIndex > 0) && settings.DefaultInteraction == nil {
		settings.DefaultInteraction = &descriptor.Interaction{Copy: copyIndex > 0, Share: shareIndex > 0}
	}

	if err := settings.Validate(); err != nil {
		return app.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	// determine output format: styled on a terminal, plain text otherwise
	format := render.Text
	if formatName != "" {
		if format, err = render.ParseFormat(formatName); err != nil {
			return app.Config{}, err
		}
	} else if stdoutIsTerminal {
		format = render.ANSI
	}

	var mode app.HTMLMode
	switch htmlMode {
	case "", "auto":
		mode = app.HTMLAuto
	case "always":
		mode = app.HTMLAlways
	case "never":
		mode = app.HTMLNever
	default:
		return app.Config{}, fmt.Errorf("invalid --html value %q (use auto, always or never)", htmlMode)
	}

	unit, err := stats.ParseCountingMethod(statUnit)
	if err != nil {
		return app.Config{}, err
	}

	// no arguments reads stdin
	sources := args
	if len(sources) == 0 {
		sources = []string{"-"}
	}

	return app.Config{
		Sources:    sources,
		HTML:       mode,
		Selector:   selector,
		IncludeAll: includeAll,
		Markdown:   markdown,
		Settings:   settings,
		Format:     format,
		Copy:       copyIndex,
		Share:      shareIndex,
		Open:       openIndex,
		Profile:    profileIndex,
		DryRun:     dryRun,
		Stats:      showStats,
		StatUnit:   unit,
		Quiet:      quiet,
		Debug:      debug,
	}, nil
}

// applyPatternFlags replaces the configured patterns when any pattern flag is given.
// Built-in categories come first, in the order email, phone, url, then custom patterns.
// An empty --pattern registers the empty pattern, which never annotates anything.
func applyPatternFlags(cmd *cobra.Command, settings *config.Config) {
	flags := cmd.Flags()
	email, _ := flags.GetBool("email")
	phone, _ := flags.GetBool("phone")
	url, _ := flags.GetBool("url")
	// read the raw slice: GetStringArray turns a lone "" back into an empty list
	var custom []string
	if flags.Changed("pattern") {
		if v, ok := flags.Lookup("pattern").Value.(pflag.SliceValue); ok {
			custom = v.GetSlice()
		}
	}

	if !email && !phone && !url && len(custom) == 0 {
		return
	}

	var patterns []config.Pattern
	if email {
		patterns = append(patterns, config.Pattern{Type: "email"})
	}
	if phone {
		patterns = append(patterns, config.Pattern{Type: "phone"})
	}
	if url {
		patterns = append(patterns, config.Pattern{Type: "url"})
	}
	for _, expr := range custom {
		patterns = append(patterns, config.CustomPattern(expr))
	}
	settings.Patterns = patterns
}

// applyRegexFlags overrides regex options for flags set on the command line
func applyRegexFlags(cmd *cobra.Command, settings *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("ignore-case") {
		settings.Regex.IgnoreCase, _ = flags.GetBool("ignore-case")
	}
	if flags.Changed("multiline") {
		settings.Regex.Multiline, _ = flags.GetBool("multiline")
	}
	if flags.Changed("dotall") {
		settings.Regex.DotAll, _ = flags.GetBool("dotall")
	}
	if flags.Changed("unicode") {
		settings.Regex.Unicode, _ = flags.GetBool("unicode")
	}
	if flags.Changed("timeout") {
		settings.Regex.Timeout, _ = flags.GetDuration("timeout")
	}
}

// loadEnvFile loads KEY=value pairs from path without overriding the environment
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No env file", "path", path)
			return nil
		}
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	slog.Debug("Loaded env file", "path", path)
	return nil
}

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

var rootCmd = &cobra.Command{
	Use:   "textspan [sources...]",
	Short: "A CLI tool for finding and annotating emails, phone numbers, URLs and custom patterns",
	Long: `Textspan splits text into plain and annotated spans. Emails, phone numbers, URLs and
custom regular expressions are detected in one pass and rendered as styled terminal
text, JSON, HTML or Markdown. Sources may include URLs, local files, or standard input;
HTML sources are reduced to their readable text first.

Examples:
  textspan notes.txt
  textspan --format json https://example.com/contact
  textspan --pattern '@\w+' --pattern '#\w+' tweets.txt
  cat mail.txt | textspan --email --copy 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		setupLogger(debug)

		envFile, _ := cmd.Flags().GetString("env-file")
		if err := loadEnvFile(envFile); err != nil {
			return err
		}

		cfg, err := buildConfig(cmd, args, term.IsTerminal(int(os.Stdout.Fd())))
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		// create context with signal handling for graceful shutdown
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := app.Run(ctx, cfg)
		if err != nil {
			return fmt.Errorf("textspan failed: %w", err)
		}

		fmt.Print(result)
		return nil
	},
}

func init() {
	registerFlags(rootCmd)
}

// registerFlags declares every textspan flag on cmd
func registerFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringP("config", "c", "", "Path to a YAML config file (default: $TEXTSPAN_CONFIG or ~/.config/textspan/config.yaml)")
	flags.String("env-file", ".env", "Load environment variables from this file when it exists")

	// patterns
	flags.Bool("email", false, "Annotate email addresses")
	flags.Bool("phone", false, "Annotate phone numbers")
	flags.Bool("url", false, "Annotate URLs")
	flags.StringArrayP("pattern", "p", nil, "Annotate matches of a custom regular expression (repeatable; \"\" never matches)")

	// regex options
	flags.BoolP("ignore-case", "I", false, "Match case-insensitively")
	flags.BoolP("multiline", "m", false, "Let ^ and $ match at line boundaries")
	flags.Bool("dotall", false, "Let . match newlines")
	flags.Bool("unicode", false, "Pass the unicode flag to the regex engine (classes are unicode-aware regardless)")
	flags.Duration("timeout", 0, "Abort a scan that takes longer than this")

	// extraction
	flags.String("html", "auto", "HTML extraction: auto, always or never")
	flags.StringP("selector", "s", "", "CSS selector for HTML content extraction")
	flags.BoolP("include-all", "i", false, "Keep the whole HTML page instead of its readable main content")
	flags.Bool("markdown", false, "Extract HTML as Markdown so link targets are annotated too")

	// output
	flags.StringP("format", "f", "", "Output format: text, ansi, json, html or markdown (default: ansi on a terminal, text otherwise)")
	flags.Bool("stats", false, "Print a match summary to stderr")
	flags.String("stat-unit", "tokens", "Unit for --stats sizes: tokens, words or characters")

	// actions
	flags.Int("copy", 0, "Copy the target of the Nth match to the clipboard")
	flags.Int("share", 0, "Share the target of the Nth match")
	flags.Int("open", 0, "Open the Nth match (mailto:, tel: or the URL)")
	flags.Int("profile", 0, "Open the social profile configured for the Nth match")
	flags.Bool("dry-run", false, "Print actions instead of performing them")

	// other flags
	flags.BoolP("quiet", "q", false, "Suppress output messages")
	flags.BoolP("debug", "D", false, "Enable debug logging")
	_ = flags.MarkHidden("debug")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
