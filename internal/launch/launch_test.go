package launch

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriscorrea/textspan/internal/descriptor"
	"github.com/chriscorrea/textspan/internal/pattern"
	"github.com/chriscorrea/textspan/internal/segment"
)

func annotated(category pattern.Category, target string, in *descriptor.Interaction) segment.Segment {
	return segment.Segment{
		Kind:        segment.Annotated,
		Text:        target,
		Raw:         target,
		Target:      target,
		Descriptor:  &descriptor.Descriptor{Category: category, Pattern: "x"},
		Interaction: in,
	}
}

func TestURIs(t *testing.T) {
	tests := []struct {
		name     string
		seg      segment.Segment
		expected []string
	}{
		{"email", annotated(pattern.Email, "a@b.com", nil), []string{"mailto:a@b.com"}},
		{"phone", annotated(pattern.Phone, "+1 (555) 123-4567", nil), []string{"tel:+15551234567"}},
		{"url with scheme", annotated(pattern.URL, "http://go.dev", nil), []string{"http://go.dev"}},
		{"url without scheme", annotated(pattern.URL, "www.go.dev", nil), []string{"https://www.go.dev"}},
		{"custom url target", annotated(pattern.Custom, "https://pkg.go.dev", nil), []string{"https://pkg.go.dev"}},
		{"custom plain target", annotated(pattern.Custom, "@bob", nil), nil},
		{"literal", segment.Segment{Kind: segment.Literal, Raw: "a@b.com", Text: "a@b.com"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, URIs(tt.seg))
		})
	}
}

func TestProfileURIs(t *testing.T) {
	assert.Equal(t,
		[]string{"twitter://user?screen_name=gopher", "https://twitter.com/gopher"},
		ProfileURIs(descriptor.Twitter, "@gopher"))
	assert.Equal(t, []string{"https://github.com/octocat"}, ProfileURIs(descriptor.GitHub, "octocat"))
	assert.Nil(t, ProfileURIs(descriptor.GitHub, " "))
	assert.Nil(t, ProfileURIs(descriptor.Platform("myspace"), "tom"))
}

func TestLauncher_TapOpensFirstAvailable(t *testing.T) {
	rec := &Recorder{Schemes: []string{"mailto"}}
	l := New(rec)

	require.NoError(t, l.Tap(context.Background(), annotated(pattern.Email, "a@b.com", nil)))
	assert.Equal(t, []Call{{Action: Open, Value: "mailto:a@b.com"}}, rec.Calls())

	err := l.Tap(context.Background(), annotated(pattern.URL, "https://go.dev", nil))
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestLauncher_TapCallback(t *testing.T) {
	rec := &Recorder{}
	l := New(rec)

	var tapped string
	seg := annotated(pattern.Custom, "@bob", nil)
	seg.Descriptor.OnTap = func(target string) { tapped = target }

	require.NoError(t, l.Tap(context.Background(), seg))
	assert.Equal(t, "@bob", tapped)
	assert.Empty(t, rec.Calls())

	err := l.Tap(context.Background(), segment.Segment{Kind: segment.Literal})
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestLauncher_CopyAndShare(t *testing.T) {
	rec := &Recorder{}
	l := New(rec)
	ctx := context.Background()

	enabled := annotated(pattern.Email, "a@b.com", &descriptor.Interaction{Copy: true, Share: true})
	require.NoError(t, l.Copy(ctx, enabled))
	require.NoError(t, l.Share(ctx, enabled))
	assert.Equal(t, []Call{{Action: Copy, Value: "a@b.com"}, {Action: Share, Value: "a@b.com"}}, rec.Calls())

	disabled := annotated(pattern.Email, "a@b.com", &descriptor.Interaction{})
	assert.ErrorIs(t, l.Copy(ctx, disabled), ErrNotEnabled)
	assert.ErrorIs(t, l.Share(ctx, disabled), ErrNotEnabled)
	assert.ErrorIs(t, l.Copy(ctx, annotated(pattern.Email, "a@b.com", nil)), ErrNotEnabled)

	failing := &Recorder{Err: errors.New("no clipboard")}
	err := New(failing).Copy(ctx, enabled)
	assert.ErrorContains(t, err, "no clipboard")
}

func TestLauncher_OpenProfileFallback(t *testing.T) {
	ctx := context.Background()
	in := &descriptor.Interaction{SocialProfile: true, Platform: descriptor.Instagram, Username: "gopher"}
	seg := annotated(pattern.Custom, "@gopher", in)

	native := &Recorder{}
	require.NoError(t, New(native).OpenProfile(ctx, seg))
	assert.Equal(t, []Call{{Action: Open, Value: "instagram://user?username=gopher"}}, native.Calls())

	webOnly := &Recorder{Schemes: []string{"https"}}
	require.NoError(t, New(webOnly).OpenProfile(ctx, seg))
	assert.Equal(t, []Call{{Action: Open, Value: "https://www.instagram.com/gopher"}}, webOnly.Calls())

	broken := &Recorder{Err: errors.New("boom")}
	err := New(broken).OpenProfile(ctx, seg)
	assert.ErrorContains(t, err, "boom")
	assert.Len(t, broken.Calls(), 2)

	assert.ErrorIs(t, New(native).OpenProfile(ctx, annotated(pattern.Custom, "@x", nil)), ErrNotEnabled)
}

func TestSystem(t *testing.T) {
	var copied string
	orig := clipboardWriteAll
	clipboardWriteAll = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { clipboardWriteAll = orig })

	var sys System
	require.NoError(t, sys.Share(context.Background(), "hello"))
	assert.Equal(t, "hello", copied)

	assert.True(t, sys.CanOpen("https://go.dev"))
	assert.True(t, sys.CanOpen("mailto:a@b.com"))
	assert.False(t, sys.CanOpen("twitter://user?screen_name=x"))
}

func TestSystem_OpenOutlivesContext(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}

	marker := filepath.Join(t.TempDir(), "opened")
	orig := opener
	opener = func(string) (string, []string) {
		// the uri arrives as $0; write it once the caller has moved on
		return "sh", []string{"-c", `sleep 0.3; printf '%s' "$0" > '` + marker + `'`}
	}
	t.Cleanup(func() { opener = orig })

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, System{}.Open(ctx, "https://go.dev"))
	cancel()

	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(marker)
		return err == nil && string(data) == "https://go.dev"
	}, 5*time.Second, 50*time.Millisecond, "opener was killed when its context was cancelled")
}

func TestSystem_OpenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, System{}.Open(ctx, "https://go.dev"), context.Canceled)
}

func TestOpenerCommand(t *testing.T) {
	name, args := openerCommand("darwin")
	assert.Equal(t, "open", name)
	assert.Empty(t, args)

	name, args = openerCommand("windows")
	assert.Equal(t, "rundll32", name)
	assert.Equal(t, []string{"url.dll,FileProtocolHandler"}, args)

	name, _ = openerCommand("linux")
	assert.Equal(t, "xdg-open", name)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "copy", Copy.String())
	assert.Equal(t, "share", Share.String())
	assert.Equal(t, "unknown", Action(9).String())
}
