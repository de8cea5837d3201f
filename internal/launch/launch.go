package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chriscorrea/textspan/internal/segment"
)

var (
	// ErrNotEnabled is returned when a segment's interaction does not allow the action
	ErrNotEnabled = errors.New("action not enabled for segment")
	// ErrNoTarget is returned when a segment has nothing to open
	ErrNoTarget = errors.New("segment has no launchable target")
)

// Action names a side effect triggered from a segment.
type Action int

const (
	Open Action = iota
	Copy
	Share
)

// String returns the string representation of the action.
func (a Action) String() string {
	switch a {
	case Open:
		return "open"
	case Copy:
		return "copy"
	case Share:
		return "share"
	default:
		return "unknown"
	}
}

// Capabilities is implemented by the host platform.
type Capabilities interface {
	Copy(ctx context.Context, text string) error
	Share(ctx context.Context, text string) error
	Open(ctx context.Context, uri string) error
	// CanOpen reports whether a handler is available for the URI's scheme
	CanOpen(uri string) bool
}

// Launcher routes segment interactions to platform capabilities.
type Launcher struct {
	caps Capabilities
}

// New creates a Launcher backed by caps.
func New(caps Capabilities) *Launcher {
	return &Launcher{caps: caps}
}

// Tap activates seg: the descriptor's OnTap callback when present, otherwise the
// first openable URI of the segment.
func (l *Launcher) Tap(ctx context.Context, seg segment.Segment) error {
	if !seg.IsAnnotated() || seg.Descriptor == nil {
		return ErrNoTarget
	}
	if seg.Descriptor.OnTap != nil {
		seg.Descriptor.OnTap(seg.Target)
		return nil
	}
	return l.openFirst(ctx, URIs(seg))
}

// Copy copies the segment's target when its interaction enables copying.
func (l *Launcher) Copy(ctx context.Context, seg segment.Segment) error {
	if seg.Interaction == nil || !seg.Interaction.Copy {
		return fmt.Errorf("%w: copy", ErrNotEnabled)
	}
	if err := l.caps.Copy(ctx, seg.Target); err != nil {
		return fmt.Errorf("failed to copy %q: %w", seg.Target, err)
	}
	return nil
}

// Share shares the segment's target when its interaction enables sharing.
func (l *Launcher) Share(ctx context.Context, seg segment.Segment) error {
	if seg.Interaction == nil || !seg.Interaction.Share {
		return fmt.Errorf("%w: share", ErrNotEnabled)
	}
	if err := l.caps.Share(ctx, seg.Target); err != nil {
		return fmt.Errorf("failed to share %q: %w", seg.Target, err)
	}
	return nil
}

// OpenProfile opens the social profile configured on the segment's interaction.
func (l *Launcher) OpenProfile(ctx context.Context, seg segment.Segment) error {
	in := seg.Interaction
	if in == nil || !in.SocialProfile {
		return fmt.Errorf("%w: social profile", ErrNotEnabled)
	}
	return l.openFirst(ctx, ProfileURIs(in.Platform, in.Username))
}

// openFirst opens the first URI a handler is available for. A failing handler
// falls through to the next candidate.
func (l *Launcher) openFirst(ctx context.Context, uris []string) error {
	var lastErr error
	for _, uri := range uris {
		if !l.caps.CanOpen(uri) {
			slog.Debug("No handler for URI", "uri", uri)
			continue
		}
		err := l.caps.Open(ctx, uri)
		if err == nil {
			return nil
		}
		slog.Debug("Open failed, trying next candidate", "uri", uri, "error", err)
		lastErr = err
	}
	if lastErr != nil {
		return fmt.Errorf("failed to open segment target: %w", lastErr)
	}
	return ErrNoTarget
}
