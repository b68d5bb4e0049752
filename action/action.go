// Package action performs launcher items: open an application or a URL.
package action

import (
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/pkg/browser"

	"launchkey/log"
)

type Kind int

const (
	KindApp Kind = iota
	KindURL
)

func (k Kind) String() string {
	switch k {
	case KindApp:
		return "app"
	case KindURL:
		return "url"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind accepts the configuration spelling of a kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "app":
		return KindApp, nil
	case "url":
		return KindURL, nil
	}
	return 0, fmt.Errorf("unknown action type %q (expected app or url)", s)
}

// Descriptor is what a launcher item does when chosen.
type Descriptor struct {
	Kind   Kind
	Target string
}

func App(name string) Descriptor { return Descriptor{Kind: KindApp, Target: name} }
func URL(url string) Descriptor  { return Descriptor{Kind: KindURL, Target: url} }

func (d Descriptor) String() string {
	return d.Kind.String() + ":" + d.Target
}

// Performer carries out a descriptor without blocking the caller.
type Performer interface {
	Perform(d Descriptor)
}

func init() {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Launcher is the OS-backed Performer.
type Launcher struct{}

func NewLauncher() *Launcher { return &Launcher{} }

// Perform starts the action in the background. Failures are logged; the
// caller never observes them.
func (l *Launcher) Perform(d Descriptor) {
	go func() {
		if err := perform(d); err != nil {
			log.Errorf("perform %s: %v", d, err)
		}
	}()
}

func perform(d Descriptor) error {
	switch d.Kind {
	case KindApp:
		return start(appCommand(d.Target))
	case KindURL:
		return browser.OpenURL(d.Target)
	default:
		return fmt.Errorf("unknown action kind %v", d.Kind)
	}
}

// start spawns cmd detached and reaps it in the background.
func start(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}
	go cmd.Wait()
	return nil
}

// Recorder is a Performer that only remembers what it was asked to do.
type Recorder struct {
	mu    sync.Mutex
	calls []Descriptor
	seen  chan Descriptor
}

func NewRecorder() *Recorder {
	return &Recorder{seen: make(chan Descriptor, 16)}
}

func (r *Recorder) Perform(d Descriptor) {
	r.mu.Lock()
	r.calls = append(r.calls, d)
	r.mu.Unlock()
	select {
	case r.seen <- d:
	default:
	}
}

func (r *Recorder) Calls() []Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Descriptor(nil), r.calls...)
}

// Seen delivers each recorded descriptor as it arrives.
func (r *Recorder) Seen() <-chan Descriptor { return r.seen }
