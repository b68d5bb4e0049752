// Package dispatch runs the launcher body one invocation at a time.
//
// Producers call Signal from the key event goroutine; it never blocks. A
// capacity-1 inbox coalesces bursts, and a single worker drains it. The
// worker additionally holds a mutex for the whole body, so "one session at a
// time" holds even if something other than the inbox triggers a run.
package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"launchkey/log"
)

type Stats struct {
	Accepted uint64
	Dropped  uint64
	Sessions uint64
	Skipped  uint64
}

type Dispatcher struct {
	inbox chan struct{}
	guard sync.Mutex
	body  func(ctx context.Context)

	inFlight atomic.Bool
	accepted atomic.Uint64
	dropped  atomic.Uint64
	sessions atomic.Uint64
	skipped  atomic.Uint64

	observerMu sync.Mutex
	observers  []func(active bool)
}

func New(body func(ctx context.Context)) *Dispatcher {
	return &Dispatcher{
		inbox: make(chan struct{}, 1),
		body:  body,
	}
}

// Signal requests one run of the body. It reports false when a request is
// already pending; the pending request stands in for this one.
func (d *Dispatcher) Signal() bool {
	select {
	case d.inbox <- struct{}{}:
		d.accepted.Add(1)
		return true
	default:
		d.dropped.Add(1)
		log.Info("activation_dropped")
		return false
	}
}

// Run is the worker loop. It blocks until ctx is done, running the body once
// per received request.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.inbox:
			d.runOnce(ctx)
		}
	}
}

// runOnce executes the body under the guard. The guard is released on every
// exit path, including a panic escaping the body.
func (d *Dispatcher) runOnce(ctx context.Context) {
	if !d.guard.TryLock() {
		d.skipped.Add(1)
		log.Warn("launcher already running, ignoring request")
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("launcher panic: %v\n%s", r, debug.Stack())
		}
		d.inFlight.Store(false)
		d.guard.Unlock()
		d.notify(false)
	}()
	d.inFlight.Store(true)
	d.notify(true)

	d.sessions.Add(1)
	d.body(ctx)
}

// InFlight reports whether a session currently holds the guard.
func (d *Dispatcher) InFlight() bool {
	return d.inFlight.Load()
}

// OnStateChange registers fn to be called with true when a session starts
// and false when it ends. Callbacks run on the worker goroutine and must not
// block.
func (d *Dispatcher) OnStateChange(fn func(active bool)) {
	d.observerMu.Lock()
	d.observers = append(d.observers, fn)
	d.observerMu.Unlock()
}

func (d *Dispatcher) notify(active bool) {
	d.observerMu.Lock()
	obs := d.observers
	d.observerMu.Unlock()
	for _, fn := range obs {
		observe(fn, active)
	}
}

// observe calls fn, logging a panic instead of letting it reach the worker.
func observe(fn func(bool), active bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("state observer panic (active=%v): %v\n%s", active, r, debug.Stack())
		}
	}()
	fn(active)
}

func (d *Dispatcher) Stats() Stats {
	return Stats{
		Accepted: d.accepted.Load(),
		Dropped:  d.dropped.Load(),
		Sessions: d.sessions.Load(),
		Skipped:  d.skipped.Load(),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("accepted=%d dropped=%d sessions=%d skipped=%d", s.Accepted, s.Dropped, s.Sessions, s.Skipped)
}
