package hotkey

import "launchkey/chord"

type Fake struct {
	events chan chord.Event
}

func NewFake() *Fake {
	return &Fake{events: make(chan chord.Event, eventBuffer)}
}

func (f *Fake) Register() error            { return nil }
func (f *Fake) Unregister()                {}
func (f *Fake) Events() <-chan chord.Event { return f.events }

func (f *Fake) SimPress(k chord.Key)   { f.events <- chord.Event{Key: k, Down: true} }
func (f *Fake) SimRelease(k chord.Key) { f.events <- chord.Event{Key: k} }

// SimChord presses every key of c in order, then releases them in reverse.
func (f *Fake) SimChord(c chord.Chord) {
	for _, k := range c {
		f.SimPress(k)
	}
	for i := len(c) - 1; i >= 0; i-- {
		f.SimRelease(c[i])
	}
}
