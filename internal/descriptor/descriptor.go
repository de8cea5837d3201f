// Package descriptor defines match descriptors and the ordered descriptor table.
//
// A Descriptor names one pattern to match (a built-in category or a custom regex)
// and carries the presentation and interaction metadata attached to its matches.
// The Table maps pattern sources to descriptors and resolves matched text back to
// the descriptor that owns it.
package descriptor

import (
	"fmt"
	"strings"

	"github.com/chriscorrea/textspan/internal/pattern"
)

// Style is presentation data handed to the rendering collaborator.
// The core never interprets it.
type Style struct {
	Name       string `json:"name,omitempty" yaml:"name"`
	Foreground string `json:"foreground,omitempty" yaml:"foreground"`
	Background string `json:"background,omitempty" yaml:"background"`
	Bold       bool   `json:"bold,omitempty" yaml:"bold"`
	Italic     bool   `json:"italic,omitempty" yaml:"italic"`
	Underline  bool   `json:"underline,omitempty" yaml:"underline"`
}

// Transformed holds the display and tap-target strings produced by a TransformFunc.
// Empty fields fall back to the raw matched text.
type Transformed struct {
	Display string
	Value   string
}

// TransformFunc rewrites a match into display and value strings.
type TransformFunc func(text, pattern string) Transformed

// RenderFunc is a custom render hook consumed by the rendering collaborator.
type RenderFunc func(text, pattern string) string

// Descriptor describes one pattern and how to present and handle its matches.
// Exactly one of Category (when not Custom) or Pattern is the match key. A custom
// descriptor with an empty Pattern has no key unless HasPattern marks the empty
// pattern as intentional.
// Descriptors are referenced by segments, never copied, and must not be mutated
// once handed to a parse pass.
type Descriptor struct {
	Category pattern.Category
	Pattern  string // custom regex, used when Category is Custom
	Name     string // optional label for logs and output

	// HasPattern registers Pattern even when it is the empty string.
	HasPattern bool

	Style       *Style
	Interaction *Interaction
	OnTap       func(target string)
	Transform   TransformFunc
	Render      RenderFunc
}

// Key returns the pattern source that identifies this descriptor in a Table.
func (d *Descriptor) Key() (string, error) {
	if src, ok := pattern.Builtin(d.Category); ok {
		return src, nil
	}
	if d.Category != pattern.Custom {
		return "", fmt.Errorf("%w: %d", ErrUnknownCategory, int(d.Category))
	}
	if d.Pattern == "" && !d.HasPattern {
		return "", ErrMissingPattern
	}
	return d.Pattern, nil
}

// Label returns Name, or the category name when Name is empty.
func (d *Descriptor) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Category.String()
}

// Apply runs the descriptor's transform, if any, and fills empty results with text.
func (d *Descriptor) Apply(text, key string) Transformed {
	out := Transformed{Display: text, Value: text}
	if d.Transform == nil {
		return out
	}
	t := d.Transform(text, key)
	if t.Display != "" {
		out.Display = t.Display
	}
	if t.Value != "" {
		out.Value = t.Value
	}
	return out
}

// Platform is a social network reachable through a profile deep link.
type Platform string

const (
	Twitter   Platform = "twitter"
	Instagram Platform = "instagram"
	Facebook  Platform = "facebook"
	LinkedIn  Platform = "linkedin"
	GitHub    Platform = "github"
	TikTok    Platform = "tiktok"
	YouTube   Platform = "youtube"
)

var platforms = []Platform{Twitter, Instagram, Facebook, LinkedIn, GitHub, TikTok, YouTube}

// ParsePlatform converts a platform name into a Platform. "x" is accepted for Twitter.
func ParsePlatform(name string) (Platform, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "x" {
		return Twitter, nil
	}
	for _, p := range platforms {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown social platform %q", name)
}

// Interaction is the bundle of capability flags attached to annotated segments.
// Icon fields are opaque; only their presence and the IconAfter position flag matter here.
type Interaction struct {
	Copy          bool     `json:"copy,omitempty" yaml:"copy"`
	Share         bool     `json:"share,omitempty" yaml:"share"`
	SocialProfile bool     `json:"social_profile,omitempty" yaml:"social_profile"`
	Platform      Platform `json:"platform,omitempty" yaml:"platform"`
	Username      string   `json:"username,omitempty" yaml:"username"`

	CopyIcon    string `json:"copy_icon,omitempty" yaml:"copy_icon"`
	ShareIcon   string `json:"share_icon,omitempty" yaml:"share_icon"`
	ProfileIcon string `json:"profile_icon,omitempty" yaml:"profile_icon"`
	IconAfter   bool   `json:"icon_after,omitempty" yaml:"icon_after"`
}

// Validate checks that a social profile interaction names its platform and username.
func (i *Interaction) Validate() error {
	if i == nil || !i.SocialProfile {
		return nil
	}
	if i.Platform == "" {
		return fmt.Errorf("%w: social profile requires a platform", ErrInvalidInteraction)
	}
	if strings.TrimSpace(i.Username) == "" {
		return fmt.Errorf("%w: social profile requires a username", ErrInvalidInteraction)
	}
	return nil
}

// Enabled reports whether any capability is switched on.
func (i *Interaction) Enabled() bool {
	return i != nil && (i.Copy || i.Share || i.SocialProfile)
}
