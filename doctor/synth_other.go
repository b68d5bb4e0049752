//go:build !darwin && !linux && !windows

package doctor

import (
	"errors"

	"launchkey/chord"
)

func typeChord(chord.Chord) error {
	return errors.New("key synthesis not supported on this platform")
}
