// Package progress provides CLI progress indicators. Output goes to stderr
// to keep stdout clean for piping, and TTY detection ensures proper formatting
// in both interactive and scripted usage.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// interval is the time between spinner frames.
const interval = 100 * time.Millisecond

// Spinner provides visual feedback for indeterminate operations such as a
// TeX run, showing users that work is in progress even when completion
// time is unknown. It animates itself until Stop is called.
type Spinner struct {
	w      io.Writer
	isTTY  bool
	frames []string

	mu      sync.Mutex
	label   string
	frame   int
	running bool
	done    chan struct{}
	stopped chan struct{}
}

// NewSpinner creates a spinner that writes to stderr.
func NewSpinner(label string) *Spinner {
	return newSpinner(os.Stderr, label, term.IsTerminal(int(os.Stderr.Fd())))
}

func newSpinner(w io.Writer, label string, isTTY bool) *Spinner {
	return &Spinner{
		w:      w,
		label:  label,
		isTTY:  isTTY,
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start displays the spinner and begins animating it.
func (s *Spinner) Start() {
	if !s.isTTY {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.done = make(chan struct{})
	s.stopped = make(chan struct{})
	s.draw()
	go s.loop(s.done, s.stopped)
}

// SetLabel replaces the text shown next to the spinner.
func (s *Spinner) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
	if s.running {
		s.draw()
	}
}

// Stop clears the spinner line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	stopped := s.stopped
	s.mu.Unlock()

	<-stopped
	fmt.Fprintf(s.w, "\r\033[K")
}

func (s *Spinner) loop(done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			s.mu.Lock()
			if s.running {
				s.frame = (s.frame + 1) % len(s.frames)
				s.draw()
			}
			s.mu.Unlock()
		}
	}
}

// draw must be called with s.mu held.
func (s *Spinner) draw() {
	fmt.Fprintf(s.w, "\r\033[K%s %s...", s.frames[s.frame], s.label)
}
