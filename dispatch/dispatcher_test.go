package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func startWorker(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestBurstBeforeWorkerRunsOnce(t *testing.T) {
	var runs atomic.Int32
	d := New(func(context.Context) { runs.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Signal()
		}()
	}
	wg.Wait()

	st := d.Stats()
	if st.Accepted != 1 || st.Dropped != 19 {
		t.Fatalf("stats = %v, want accepted=1 dropped=19", st)
	}

	startWorker(t, d)
	waitFor(t, "session", func() bool { return runs.Load() == 1 })
	time.Sleep(20 * time.Millisecond)
	if n := runs.Load(); n != 1 {
		t.Errorf("runs = %d, want 1", n)
	}
}

func TestSignalsDuringSessionQueueAtMostOne(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 4)
	var runs atomic.Int32
	d := New(func(context.Context) {
		runs.Add(1)
		started <- struct{}{}
		<-release
	})
	startWorker(t, d)

	d.Signal()
	<-started

	for i := 0; i < 10; i++ {
		d.Signal()
	}
	if st := d.Stats(); st.Accepted != 2 || st.Dropped != 9 {
		t.Fatalf("stats = %v, want accepted=2 dropped=9", st)
	}

	release <- struct{}{}
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("queued request never ran")
	}
	release <- struct{}{}

	waitFor(t, "idle", func() bool { return !d.InFlight() })
	time.Sleep(20 * time.Millisecond)
	if n := runs.Load(); n != 2 {
		t.Errorf("runs = %d, want 2", n)
	}
}

func TestSessionsNeverOverlap(t *testing.T) {
	var active, maxActive, runs atomic.Int32
	d := New(func(context.Context) {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		active.Add(-1)
		runs.Add(1)
	})
	startWorker(t, d)

	for i := 0; i < 50; i++ {
		d.Signal()
		time.Sleep(500 * time.Microsecond)
	}
	waitFor(t, "drain", func() bool { return !d.InFlight() && len(d.inbox) == 0 })

	if maxActive.Load() != 1 {
		t.Errorf("max concurrent sessions = %d, want 1", maxActive.Load())
	}
	if runs.Load() == 0 {
		t.Error("no sessions ran")
	}
}

func TestGuardHeldForWholeSession(t *testing.T) {
	var d *Dispatcher
	var sawInFlight atomic.Bool
	done := make(chan struct{})
	d = New(func(context.Context) {
		sawInFlight.Store(d.InFlight() && !d.guard.TryLock())
		close(done)
	})
	startWorker(t, d)

	if d.InFlight() {
		t.Fatal("in flight before any signal")
	}
	d.Signal()
	<-done
	waitFor(t, "release", func() bool { return !d.InFlight() })

	if !sawInFlight.Load() {
		t.Error("guard not held during session body")
	}
	if !d.guard.TryLock() {
		t.Fatal("guard still held after session")
	}
	d.guard.Unlock()
}

func TestGuardReleasedAfterPanic(t *testing.T) {
	calls := make(chan struct{}, 2)
	d := New(func(context.Context) {
		calls <- struct{}{}
		panic("window service exploded")
	})
	startWorker(t, d)

	for i := 0; i < 2; i++ {
		d.Signal()
		select {
		case <-calls:
		case <-time.After(time.Second):
			t.Fatalf("session %d did not run; guard leaked", i+1)
		}
		waitFor(t, "release", func() bool { return !d.InFlight() })
	}
}

func TestGuardSkipsWhenAlreadyHeld(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var runs atomic.Int32
	d := New(func(context.Context) {
		runs.Add(1)
		close(started)
		<-release
	})

	go d.runOnce(context.Background())
	<-started

	// bypass the inbox: a second run while the guard is held must be skipped
	d.runOnce(context.Background())
	close(release)

	waitFor(t, "release", func() bool { return !d.InFlight() })
	if n := runs.Load(); n != 1 {
		t.Errorf("runs = %d, want 1", n)
	}
	if st := d.Stats(); st.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", st.Skipped)
	}
}

func TestStateObserver(t *testing.T) {
	var mu sync.Mutex
	var states []bool
	done := make(chan struct{})
	d := New(func(context.Context) {})
	d.OnStateChange(func(active bool) {
		mu.Lock()
		states = append(states, active)
		if !active {
			close(done)
		}
		mu.Unlock()
	})
	startWorker(t, d)

	d.Signal()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("observer not notified")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(states) != 2 || !states[0] || states[1] {
		t.Errorf("states = %v, want [true false]", states)
	}
}

func TestGuardReleasedWhenObserverPanics(t *testing.T) {
	var runs atomic.Int32
	d := New(func(context.Context) { runs.Add(1) })
	var panicked atomic.Bool
	d.OnStateChange(func(active bool) {
		if active && panicked.CompareAndSwap(false, true) {
			panic("register cancel hotkey failed")
		}
	})

	d.runOnce(context.Background())
	if d.InFlight() {
		t.Fatal("inFlight still set after observer panic")
	}
	d.runOnce(context.Background())

	if n := runs.Load(); n != 2 {
		t.Errorf("runs = %d, want 2", n)
	}
	if st := d.Stats(); st.Skipped != 0 {
		t.Errorf("skipped = %d, want 0", st.Skipped)
	}
}
