// Package shutdown waits for the process to be asked to stop.
package shutdown

import (
	"os"
	"os/signal"
)

func notify(ch chan os.Signal) {
	signal.Notify(ch, signals...)
}

// Wait blocks until a termination signal arrives or one of done closes. It
// returns the signal, or nil when done fired first.
func Wait(done ...<-chan struct{}) os.Signal {
	sigChan := make(chan os.Signal, 1)
	notify(sigChan)
	defer signal.Stop(sigChan)

	fired := make(chan struct{}, 1)
	stop := make(chan struct{})
	defer close(stop)
	for _, d := range done {
		if d == nil {
			continue
		}
		go func(d <-chan struct{}) {
			select {
			case <-d:
				select {
				case fired <- struct{}{}:
				default:
				}
			case <-stop:
			}
		}(d)
	}

	select {
	case sig := <-sigChan:
		return sig
	case <-fired:
		return nil
	}
}
