package main

import (
	"fmt"
	"io"
	"sync"

	"launchkey/launcher"
)

// EventSink abstracts the display layer so the Bubble Tea TUI and the
// headless test mode receive the same launcher events.
type EventSink interface {
	Activated(accepted bool)
	SessionState(active bool)
	SessionDone(r launcher.Result)
	CancelRequested()
}

type nopSink struct{}

func (nopSink) Activated(bool)              {}
func (nopSink) SessionState(bool)           {}
func (nopSink) SessionDone(launcher.Result) {}
func (nopSink) CancelRequested()            {}

// lineSink writes one line per event, for scripted runs.
type lineSink struct {
	mu sync.Mutex
	w  io.Writer
}

// Write lets other tracers share the sink's output without interleaving.
func (s *lineSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *lineSink) printf(format string, args ...any) {
	s.mu.Lock()
	fmt.Fprintf(s.w, format+"\n", args...)
	s.mu.Unlock()
}

func (s *lineSink) Activated(accepted bool) {
	if accepted {
		s.printf("ACTIVATED")
	} else {
		s.printf("DROPPED")
	}
}

func (s *lineSink) SessionState(active bool) {
	if active {
		s.printf("SESSION_START")
	}
}

func (s *lineSink) SessionDone(r launcher.Result) {
	if r.Choice != "" {
		s.printf("SESSION_DONE %s %s", r.Ending, r.Choice)
		return
	}
	s.printf("SESSION_DONE %s", r.Ending)
}

func (s *lineSink) CancelRequested() {
	s.printf("CANCEL_REQUESTED")
}
