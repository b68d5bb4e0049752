// Package hotkey delivers raw key press/release events to the launcher.
package hotkey

import "launchkey/chord"

// Source is a stream of physical key transitions. Events are delivered in
// order on a single channel; consumers must keep up, since a slow reader
// stalls the device goroutines.
type Source interface {
	Register() error
	Unregister()
	Events() <-chan chord.Event
}

// CancelArmer is implemented by sources that can only observe the cancel key
// by grabbing it globally. The launcher arms it while a picker is open.
type CancelArmer interface {
	ArmCancel(armed bool)
}

const eventBuffer = 64
