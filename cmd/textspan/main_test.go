package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/chriscorrea/textspan/internal/app"
	"github.com/chriscorrea/textspan/internal/render"
	"github.com/chriscorrea/textspan/internal/stats"
)

func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	// keep the user's config and environment out of the test
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, name := range []string{
		"TEXTSPAN_CONFIG", "TEXTSPAN_IGNORE_CASE", "TEXTSPAN_MULTILINE",
		"TEXTSPAN_DOTALL", "TEXTSPAN_UNICODE", "TEXTSPAN_TIMEOUT",
	} {
		t.Setenv(name, "")
	}

	cmd := &cobra.Command{Use: "textspan"}
	registerFlags(cmd)
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("failed to parse flags %v: %v", args, err)
	}
	return cmd
}

func TestBuildConfig_Defaults(t *testing.T) {
	cmd := newTestCommand(t)

	cfg, err := buildConfig(cmd, nil, false)
	if err != nil {
		t.Fatalf("buildConfig() unexpected error: %v", err)
	}

	if len(cfg.Sources) != 1 || cfg.Sources[0] != "-" {
		t.Errorf("Sources = %v, want stdin", cfg.Sources)
	}
	if cfg.Format != render.Text {
		t.Errorf("Format = %v, want text when stdout is not a terminal", cfg.Format)
	}
	if cfg.HTML != app.HTMLAuto {
		t.Errorf("HTML = %v, want auto", cfg.HTML)
	}
	if cfg.StatUnit != stats.Tokens {
		t.Errorf("StatUnit = %v, want tokens", cfg.StatUnit)
	}
	if len(cfg.Settings.Patterns) != 3 {
		t.Errorf("Patterns = %+v, want the three built-ins", cfg.Settings.Patterns)
	}
}

func TestBuildConfig_TerminalDefaultsToANSI(t *testing.T) {
	cmd := newTestCommand(t)

	cfg, err := buildConfig(cmd, []string{"notes.txt"}, true)
	if err != nil {
		t.Fatalf("buildConfig() unexpected error: %v", err)
	}
	if cfg.Format != render.ANSI {
		t.Errorf("Format = %v, want ansi on a terminal", cfg.Format)
	}

	cmd = newTestCommand(t, "--format", "json")
	cfg, err = buildConfig(cmd, nil, true)
	if err != nil {
		t.Fatalf("buildConfig() unexpected error: %v", err)
	}
	if cfg.Format != render.JSON {
		t.Errorf("Format = %v, want explicit json", cfg.Format)
	}
}

func TestBuildConfig_PatternFlags(t *testing.T) {
	cmd := newTestCommand(t, "--url", "--email", "-p", `@\w+`, "--pattern", `#\w+`)

	cfg, err := buildConfig(cmd, nil, false)
	if err != nil {
		t.Fatalf("buildConfig() unexpected error: %v", err)
	}

	var got []string
	for _, p := range cfg.Settings.Patterns {
		if p.Regex != nil {
			got = append(got, *p.Regex)
			continue
		}
		got = append(got, p.Type)
	}
	expected := []string{"email", "url", `@\w+`, `#\w+`}
	if len(got) != len(expected) {
		t.Fatalf("Patterns = %v, want %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Patterns[%d] = %q, want %q", i, got[i], expected[i])
		}
	}
}

func TestBuildConfig_EmptyPattern(t *testing.T) {
	cmd := newTestCommand(t, "--pattern", "")

	cfg, err := buildConfig(cmd, nil, false)
	if err != nil {
		t.Fatalf("buildConfig() unexpected error: %v", err)
	}

	patterns := cfg.Settings.Patterns
	if len(patterns) != 1 || patterns[0].Regex == nil || *patterns[0].Regex != "" {
		t.Fatalf("Patterns = %+v, want only the empty custom pattern", patterns)
	}

	descs, err := cfg.Settings.Descriptors()
	if err != nil {
		t.Fatalf("Descriptors() unexpected error: %v", err)
	}
	if key, err := descs[0].Key(); err != nil || key != "" {
		t.Errorf("Key() = %q, %v, want the empty pattern", key, err)
	}
}

func TestBuildConfig_RegexFlags(t *testing.T) {
	cmd := newTestCommand(t, "-I", "--multiline", "--dotall", "--unicode", "--timeout", "3s")

	cfg, err := buildConfig(cmd, nil, false)
	if err != nil {
		t.Fatalf("buildConfig() unexpected error: %v", err)
	}

	r := cfg.Settings.Regex
	if !r.IgnoreCase || !r.Multiline || !r.DotAll || !r.Unicode || r.Timeout != 3*time.Second {
		t.Errorf("Regex = %+v", r)
	}
}

func TestBuildConfig_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "textspan.yaml")
	body := "regex:\n  ignore_case: true\npatterns:\n  - regex: 'TICKET-\\d+'\n    name: ticket\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cmd := newTestCommand(t, "--config", path)
	cfg, err := buildConfig(cmd, nil, false)
	if err != nil {
		t.Fatalf("buildConfig() unexpected error: %v", err)
	}
	if !cfg.Settings.Regex.IgnoreCase {
		t.Error("config file should enable case-insensitive matching")
	}
	if len(cfg.Settings.Patterns) != 1 || cfg.Settings.Patterns[0].Name != "ticket" {
		t.Errorf("Patterns = %+v", cfg.Settings.Patterns)
	}
}

func TestBuildConfig_ActionsGrantCapabilities(t *testing.T) {
	cmd := newTestCommand(t, "--copy", "2")

	cfg, err := buildConfig(cmd, nil, false)
	if err != nil {
		t.Fatalf("buildConfig() unexpected error: %v", err)
	}
	in := cfg.Settings.DefaultInteraction
	if in == nil || !in.Copy || in.Share {
		t.Errorf("DefaultInteraction = %+v, want copy only", in)
	}
	if cfg.Copy != 2 {
		t.Errorf("Copy = %d, want 2", cfg.Copy)
	}
}

func TestBuildConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"--format", "yaml"}},
		{"unknown html mode", []string{"--html", "sometimes"}},
		{"unknown stat unit", []string{"--stat-unit", "bytes"}},
		{"malformed pattern", []string{"--pattern", "(unclosed"}},
		{"missing config file", []string{"--config", "/nonexistent/textspan.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newTestCommand(t, tt.args...)
			if _, err := buildConfig(cmd, nil, false); err == nil {
				t.Errorf("buildConfig(%v) expected error", tt.args)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TEXTSPAN_TEST_VALUE=loaded\n"), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv("TEXTSPAN_TEST_VALUE", "")
	os.Unsetenv("TEXTSPAN_TEST_VALUE")

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile() unexpected error: %v", err)
	}
	if got := os.Getenv("TEXTSPAN_TEST_VALUE"); got != "loaded" {
		t.Errorf("TEXTSPAN_TEST_VALUE = %q, want loaded", got)
	}
}
