//go:build darwin || windows

package hotkey

import (
	"fmt"
	"sync"

	"golang.design/x/hotkey"

	"launchkey/chord"
)

// xSource registers the chord as a global hotkey and replays its
// keydown/keyup as presses and releases of every chord key. The cancel key
// is a second global hotkey, registered only while armed, because a
// registered hotkey is swallowed system-wide.
type xSource struct {
	chord  chord.Chord
	cancel chord.Key
	events chan chord.Event
	stop   chan struct{}
	once   sync.Once

	mu         sync.Mutex
	hk         *hotkey.Hotkey
	cancelHK   *hotkey.Hotkey
	cancelDone chan struct{}
}

// New creates a source using golang.design/x/hotkey (Cocoa/Win32).
func New(c chord.Chord, cancel chord.Key) Source {
	return &xSource{
		chord:  c,
		cancel: cancel,
		events: make(chan chord.Event, eventBuffer),
		stop:   make(chan struct{}),
	}
}

func (s *xSource) Register() error {
	mods, key, err := toHotkey(s.chord)
	if err != nil {
		return err
	}
	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("registering %s: %w", s.chord, err)
	}
	s.mu.Lock()
	s.hk = hk
	s.mu.Unlock()
	go s.forward(hk, s.stop, s.chord)
	return nil
}

// forward turns hotkey keydown/keyup into per-key events until done closes.
// Keys it pressed but never released are released on the way out, since the
// keyup of an unregistered hotkey is never delivered.
func (s *xSource) forward(hk *hotkey.Hotkey, done <-chan struct{}, keys chord.Chord) {
	down := false
	defer func() {
		if down {
			s.releaseAll(keys)
		}
	}()
	for {
		select {
		case <-done:
			return
		case _, ok := <-hk.Keydown():
			if !ok {
				return
			}
			down = true
			for _, k := range keys {
				s.emit(chord.Event{Key: k, Down: true}, done)
			}
		case _, ok := <-hk.Keyup():
			if !ok {
				return
			}
			down = false
			for i := len(keys) - 1; i >= 0; i-- {
				s.emit(chord.Event{Key: keys[i]}, done)
			}
		}
	}
}

func (s *xSource) emit(ev chord.Event, done <-chan struct{}) {
	select {
	case s.events <- ev:
	case <-done:
	}
}

// releaseAll queues releases without blocking; a full buffer drops them.
func (s *xSource) releaseAll(keys chord.Chord) {
	for i := len(keys) - 1; i >= 0; i-- {
		select {
		case s.events <- chord.Event{Key: keys[i]}:
		default:
		}
	}
}

func (s *xSource) ArmCancel(armed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if armed == (s.cancelHK != nil) {
		return
	}
	if !armed {
		close(s.cancelDone)
		s.cancelHK.Unregister()
		s.cancelHK = nil
		return
	}

	mods, key, err := toHotkey(chord.Chord{s.cancel})
	if err != nil {
		return
	}
	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return
	}
	s.cancelHK = hk
	s.cancelDone = make(chan struct{})
	go s.forward(hk, s.cancelDone, chord.Chord{s.cancel})
}

func (s *xSource) Unregister() {
	s.once.Do(func() {
		s.ArmCancel(false)
		close(s.stop)
		s.mu.Lock()
		if s.hk != nil {
			s.hk.Unregister()
		}
		s.mu.Unlock()
	})
}

func (s *xSource) Events() <-chan chord.Event {
	return s.events
}

func toHotkey(c chord.Chord) ([]hotkey.Modifier, hotkey.Key, error) {
	var mods []hotkey.Modifier
	for _, k := range c.Modifiers() {
		m, ok := modifiers[k]
		if !ok {
			return nil, 0, fmt.Errorf("modifier %q not supported on this platform", k)
		}
		mods = append(mods, m)
	}
	trigger := c.Trigger()
	if trigger == "" {
		return nil, 0, fmt.Errorf("hotkey %s needs a non-modifier key", c)
	}
	key, ok := keys[trigger]
	if !ok {
		return nil, 0, fmt.Errorf("key %q not supported on this platform", trigger)
	}
	return mods, key, nil
}

// Diagnose checks hotkey availability and returns a status message.
func Diagnose() (string, error) {
	return "hotkey support available (global hotkey registration)", nil
}
