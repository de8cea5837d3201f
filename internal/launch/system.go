package launch

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
)

// clipboardWriteAll and opener are swapped in tests
var (
	clipboardWriteAll = clipboard.WriteAll
	opener            = openerCommand
)

// System implements Capabilities with the desktop clipboard and the platform opener.
// Desktop platforms have no share sheet, so Share places the text on the clipboard.
type System struct{}

// Copy writes text to the system clipboard.
func (System) Copy(_ context.Context, text string) error {
	return clipboardWriteAll(text)
}

// Share hands text to the clipboard.
func (s System) Share(ctx context.Context, text string) error {
	return s.Copy(ctx, text)
}

// Open launches uri with the platform opener without waiting for it to exit.
// ctx only guards the launch: once started, the opener outlives cancellation.
func (System) Open(ctx context.Context, uri string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, args := opener(runtime.GOOS)
	// #nosec G204 - uri is passed as a single argument, never through a shell
	cmd := exec.Command(name, append(args, uri)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// CanOpen reports true for schemes desktop openers handle out of the box.
func (System) CanOpen(uri string) bool {
	switch scheme(uri) {
	case "http", "https", "mailto", "tel":
		return true
	default:
		return false
	}
}

func openerCommand(goos string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		return "xdg-open", nil
	}
}

func scheme(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// Call is one capability invocation captured by a Recorder.
type Call struct {
	Action Action
	Value  string
}

// Recorder implements Capabilities by recording calls instead of performing them.
// It backs dry runs and tests.
type Recorder struct {
	// Schemes lists the URI schemes CanOpen accepts; nil accepts every scheme
	Schemes []string
	// Err is returned from every call when set
	Err error

	mu    sync.Mutex
	calls []Call
}

func (r *Recorder) record(a Action, v string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Action: a, Value: v})
	return r.Err
}

// Copy records a copy call.
func (r *Recorder) Copy(_ context.Context, text string) error { return r.record(Copy, text) }

// Share records a share call.
func (r *Recorder) Share(_ context.Context, text string) error { return r.record(Share, text) }

// Open records an open call.
func (r *Recorder) Open(_ context.Context, uri string) error { return r.record(Open, uri) }

// CanOpen checks uri's scheme against Schemes.
func (r *Recorder) CanOpen(uri string) bool {
	if r.Schemes == nil {
		return true
	}
	s := scheme(uri)
	for _, allowed := range r.Schemes {
		if strings.EqualFold(allowed, s) {
			return true
		}
	}
	return false
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}
