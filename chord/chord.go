// Package chord recognizes key combinations from a raw press/release stream.
package chord

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyChord = errors.New("empty chord")

// Chord is an ordered set of keys that must be held together.
type Chord []Key

// Parse reads a hotkey string such as "<ctrl>+/" or "ctrl+shift+k".
func Parse(s string) (Chord, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmptyChord
	}
	var c Chord
	for _, part := range strings.Split(s, "+") {
		k, err := ParseKey(part)
		if err != nil {
			return nil, fmt.Errorf("parsing hotkey %q: %w", s, err)
		}
		if c.Contains(k) {
			return nil, fmt.Errorf("parsing hotkey %q: %q repeated", s, k)
		}
		c = append(c, k)
	}
	return c, nil
}

func (c Chord) Contains(k Key) bool {
	for _, ck := range c {
		if ck == k {
			return true
		}
	}
	return false
}

// Modifiers returns the modifier keys of c in order.
func (c Chord) Modifiers() []Key {
	var mods []Key
	for _, k := range c {
		if k.IsModifier() {
			mods = append(mods, k)
		}
	}
	return mods
}

// Trigger returns the last non-modifier key, or "" for a modifier-only chord.
func (c Chord) Trigger() Key {
	for i := len(c) - 1; i >= 0; i-- {
		if !c[i].IsModifier() {
			return c[i]
		}
	}
	return ""
}

func (c Chord) String() string {
	parts := make([]string, len(c))
	for i, k := range c {
		switch {
		case k == Plus:
			parts[i] = "<plus>"
		case len(k) > 1:
			parts[i] = "<" + string(k) + ">"
		default:
			parts[i] = string(k)
		}
	}
	return strings.Join(parts, "+")
}

// Recognizer tracks which keys of a chord are down and calls onActivate on
// the press that completes the chord. Press and Release must be called from
// a single goroutine in event order.
type Recognizer struct {
	chord      Chord
	held       map[Key]bool
	onActivate func()
}

func NewRecognizer(c Chord, onActivate func()) *Recognizer {
	return &Recognizer{
		chord:      c,
		held:       make(map[Key]bool, len(c)),
		onActivate: onActivate,
	}
}

// Press records k as down. Keys outside the chord and repeated presses of a
// held key leave the state untouched, so a held chord fires only once.
func (r *Recognizer) Press(k Key) error {
	if !k.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKey, k)
	}
	if !r.chord.Contains(k) || r.held[k] {
		return nil
	}
	r.held[k] = true
	if len(r.held) == len(r.chord) && r.onActivate != nil {
		r.onActivate()
	}
	return nil
}

// Release records k as up. Releasing a key that is not held is a no-op.
func (r *Recognizer) Release(k Key) error {
	if !k.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKey, k)
	}
	delete(r.held, k)
	return nil
}

// Feed dispatches e to Press or Release.
func (r *Recognizer) Feed(e Event) error {
	if e.Down {
		return r.Press(e.Key)
	}
	return r.Release(e.Key)
}

// Held returns the chord keys currently down, in chord order.
func (r *Recognizer) Held() []Key {
	var keys []Key
	for _, k := range r.chord {
		if r.held[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// Reset forgets all held keys.
func (r *Recognizer) Reset() {
	clear(r.held)
}
