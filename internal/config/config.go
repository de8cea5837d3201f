// Package config loads textspan's pattern configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chriscorrea/textspan/internal/descriptor"
	"github.com/chriscorrea/textspan/internal/pattern"
	"github.com/chriscorrea/textspan/internal/segment"
)

// Config holds the pattern list and the options of a parse pass
type Config struct {
	Regex RegexConfig `yaml:"regex"`

	// Defaults for literals and for patterns that set none
	DefaultStyle       *descriptor.Style       `yaml:"default_style"`
	DefaultInteraction *descriptor.Interaction `yaml:"default_interaction"`

	// Patterns in registration order
	Patterns []Pattern `yaml:"patterns"`
}

// RegexConfig mirrors pattern.Options
type RegexConfig struct {
	IgnoreCase bool          `yaml:"ignore_case"`
	Multiline  bool          `yaml:"multiline"`
	DotAll     bool          `yaml:"dot_all"`
	Unicode    bool          `yaml:"unicode"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Options converts the regex section into engine options.
func (r RegexConfig) Options() pattern.Options {
	return pattern.Options{
		IgnoreCase:   r.IgnoreCase,
		Multiline:    r.Multiline,
		DotAll:       r.DotAll,
		Unicode:      r.Unicode,
		MatchTimeout: r.Timeout,
	}
}

// Pattern is one configured descriptor.
type Pattern struct {
	Type     string  `yaml:"type"`  // email, phone, url or custom
	Regex    *string `yaml:"regex"` // nil when absent; "" registers the empty pattern
	Name     string  `yaml:"name"`
	Disabled bool    `yaml:"disabled"`

	Style       *descriptor.Style       `yaml:"style"`
	Interaction *descriptor.Interaction `yaml:"interaction"`

	// Replacement templates ("$1", "${user}") for display text and tap target
	Display string `yaml:"display"`
	Value   string `yaml:"value"`
}

// CustomPattern returns a custom pattern matching expr.
func CustomPattern(expr string) Pattern {
	return Pattern{Regex: &expr}
}

// DefaultConfig returns the default configuration: case-sensitive matching of
// URLs, emails and phone numbers.
func DefaultConfig() *Config {
	return &Config{
		Regex: RegexConfig{
			Timeout: 5 * time.Second,
		},
		Patterns: []Pattern{
			{Type: "url"},
			{Type: "email"},
			{Type: "phone"},
		},
	}
}

// Load loads configuration from file and environment. An empty path searches
// TEXTSPAN_CONFIG and the standard locations; a missing file there is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = getConfigPath()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil && (explicit || !os.IsNotExist(err)) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if path := os.Getenv("TEXTSPAN_CONFIG"); path != "" {
		return path
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "textspan", "config.yaml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "textspan", "config.yaml")
	}

	return ""
}

// loadFromFile loads configuration from a YAML file. A file that lists patterns
// replaces the default pattern list rather than appending to it.
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - the path comes from the command line, env var or standard locations
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file Config
	file.Regex = cfg.Regex
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.Regex = file.Regex
	if file.DefaultStyle != nil {
		cfg.DefaultStyle = file.DefaultStyle
	}
	if file.DefaultInteraction != nil {
		cfg.DefaultInteraction = file.DefaultInteraction
	}
	if file.Patterns != nil {
		cfg.Patterns = file.Patterns
	}
	return nil
}

// loadFromEnv overrides the regex options from environment variables
func loadFromEnv(cfg *Config) error {
	flags := []struct {
		name string
		dst  *bool
	}{
		{"TEXTSPAN_IGNORE_CASE", &cfg.Regex.IgnoreCase},
		{"TEXTSPAN_MULTILINE", &cfg.Regex.Multiline},
		{"TEXTSPAN_DOTALL", &cfg.Regex.DotAll},
		{"TEXTSPAN_UNICODE", &cfg.Regex.Unicode},
	}
	for _, f := range flags {
		v := os.Getenv(f.name)
		if v == "" {
			continue
		}
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			*f.dst = true
		case "false", "0", "no":
			*f.dst = false
		default:
			return fmt.Errorf("invalid %s value: %q (use true/false)", f.name, v)
		}
	}

	if timeout := os.Getenv("TEXTSPAN_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid TEXTSPAN_TIMEOUT: %w", err)
		}
		cfg.Regex.Timeout = d
	}

	return nil
}

// Validate checks option ranges and that every enabled pattern builds a valid descriptor.
func (c *Config) Validate() error {
	if c.Regex.Timeout < 0 {
		return errors.New("regex.timeout must be non-negative")
	}

	if err := normalizeInteraction(c.DefaultInteraction); err != nil {
		return fmt.Errorf("default_interaction: %w", err)
	}

	opts := c.Regex.Options()
	for i, p := range c.Patterns {
		if p.Disabled {
			continue
		}
		d, err := p.descriptor(opts)
		if err != nil {
			return fmt.Errorf("pattern %d (%s): %w", i, p.label(), err)
		}
		key, err := d.Key()
		if err != nil {
			return fmt.Errorf("pattern %d (%s): %w", i, p.label(), err)
		}
		if _, err := pattern.Compile(key, opts); err != nil {
			return fmt.Errorf("pattern %d (%s): %w", i, p.label(), err)
		}
	}

	return nil
}

// Descriptors converts the enabled patterns into descriptors, in order.
func (c *Config) Descriptors() ([]*descriptor.Descriptor, error) {
	opts := c.Regex.Options()
	descs := make([]*descriptor.Descriptor, 0, len(c.Patterns))
	for i, p := range c.Patterns {
		if p.Disabled {
			continue
		}
		d, err := p.descriptor(opts)
		if err != nil {
			return nil, fmt.Errorf("pattern %d (%s): %w", i, p.label(), err)
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// SegmentOptions returns parse options carrying the configured regex flags and defaults.
func (c *Config) SegmentOptions() segment.Options {
	opts := segment.DefaultOptions()
	opts.Regex = c.Regex.Options()
	opts.DefaultStyle = c.DefaultStyle
	opts.DefaultInteraction = c.DefaultInteraction
	return opts
}

func (p Pattern) descriptor(opts pattern.Options) (*descriptor.Descriptor, error) {
	category, err := pattern.ParseCategory(p.Type)
	if err != nil {
		return nil, err
	}
	if category != pattern.Custom && p.Regex != nil {
		return nil, fmt.Errorf("regex is only allowed for custom patterns, not %s", category)
	}

	if err := normalizeInteraction(p.Interaction); err != nil {
		return nil, err
	}

	d := &descriptor.Descriptor{
		Category:    category,
		Name:        p.Name,
		Style:       p.Style,
		Interaction: p.Interaction,
	}
	if p.Regex != nil {
		d.Pattern = *p.Regex
		d.HasPattern = true
	}
	if p.Display != "" || p.Value != "" {
		d.Transform = descriptor.ReplaceTransform(p.Display, p.Value, opts)
	}
	return d, nil
}

func (p Pattern) label() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Type != "" {
		return p.Type
	}
	return "custom"
}

// normalizeInteraction canonicalizes the platform name ("x" becomes twitter).
func normalizeInteraction(in *descriptor.Interaction) error {
	if in == nil {
		return nil
	}
	if in.Platform != "" {
		platform, err := descriptor.ParsePlatform(string(in.Platform))
		if err != nil {
			return err
		}
		in.Platform = platform
	}
	return in.Validate()
}
