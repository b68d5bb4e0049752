//go:build !linux && !darwin && !windows

package hotkey

import (
	"errors"

	"launchkey/chord"
)

var errUnsupported = errors.New("no key source for this platform")

type unsupportedSource struct{ events chan chord.Event }

func New(_ chord.Chord, _ chord.Key) Source {
	return &unsupportedSource{events: make(chan chord.Event)}
}

func (s *unsupportedSource) Register() error            { return errUnsupported }
func (s *unsupportedSource) Unregister()                {}
func (s *unsupportedSource) Events() <-chan chord.Event { return s.events }

func Diagnose() (string, error) { return "", errUnsupported }
