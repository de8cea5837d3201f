// Package spinner draws a one-line progress indicator on stderr while sources
// are fetched.
package spinner

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Spinner animates a frame and a message on a single terminal line.
type Spinner struct {
	frames []string
	delay  time.Duration
	writer io.Writer

	mu      sync.Mutex
	message string
	cancel  context.CancelFunc
	done    chan struct{}
}

// New returns an idle spinner writing to w.
func New(w io.Writer) *Spinner {
	return &Spinner{
		frames: []string{"◜", "◠", "◝", "◞", "◡", "◟"},
		delay:  100 * time.Millisecond,
		writer: w,
	}
}

// Interactive reports whether w is a terminal, the only place a spinner belongs.
func Interactive(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Start begins animating message until Stop is called or ctx ends.
// Starting a running spinner only replaces its message.
func (s *Spinner) Start(ctx context.Context, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.message = message
	if s.done != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
}

// Update replaces the message shown next to the frame.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Active reports whether the spinner is running.
func (s *Spinner) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done != nil
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.done == nil {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	cancel()
	<-done

	if Interactive(s.writer) {
		fmt.Fprint(s.writer, "\r\033[2K")
	} else {
		fmt.Fprint(s.writer, "\r")
	}
}

func (s *Spinner) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			message := s.message
			s.mu.Unlock()

			fmt.Fprintf(s.writer, "\r%s %s", s.frames[frame%len(s.frames)], message)
		}
	}
}
