package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"launchkey/action"
	"launchkey/chord"
	"launchkey/config"
	"launchkey/dispatch"
	"launchkey/hotkey"
	"launchkey/launcher"
	"launchkey/log"
	"launchkey/window"
)

// dismissTimeout bounds the picker dismissal attempted on shutdown.
const dismissTimeout = 2 * time.Second

// app wires the key source through the recognizers into the dispatcher,
// and the dispatcher into launcher sessions.
type app struct {
	cfg  *config.Config
	src  hotkey.Source
	win  window.Service
	sink EventSink

	acts     action.Performer
	disp     *dispatch.Dispatcher
	launcher *launcher.Launcher
	ctrl     *launcher.Controller

	// cancelStale is set when a session ends; the delivery loop then
	// forgets cancel-key state whose release the source may never send.
	cancelStale atomic.Bool

	wg       sync.WaitGroup
	stopOnce sync.Once
}

func newApp(cfg *config.Config, src hotkey.Source, win window.Service, acts action.Performer, sink EventSink) *app {
	if sink == nil {
		sink = nopSink{}
	}
	a := &app{cfg: cfg, src: src, win: win, sink: sink, acts: acts}
	a.launcher = &launcher.Launcher{
		Window:   win,
		Actions:  acts,
		Items:    cfg.Items,
		Title:    cfg.Picker.Title,
		Prompt:   cfg.Picker.Prompt,
		OnResult: sink.SessionDone,
	}
	a.disp = dispatch.New(func(ctx context.Context) { a.launcher.Run(ctx) })
	a.ctrl = launcher.NewController(a.disp, win, cfg.Picker.Title)

	a.disp.OnStateChange(sink.SessionState)
	a.disp.OnStateChange(func(active bool) {
		if !active {
			a.cancelStale.Store(true)
		}
	})
	if armer, ok := src.(hotkey.CancelArmer); ok {
		a.disp.OnStateChange(armer.ArmCancel)
	}
	return a
}

// start registers the key source and launches the worker and the event
// delivery goroutines. Both stop when ctx is done.
func (a *app) start(ctx context.Context) error {
	if err := a.src.Register(); err != nil {
		return fmt.Errorf("registering hotkey: %w", err)
	}
	log.Startup(a.cfg.Chord().String(), string(a.cfg.CancelKey()), len(a.cfg.Names()))

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		a.disp.Run(ctx)
	}()
	go func() {
		defer a.wg.Done()
		a.deliver(ctx)
	}()
	return nil
}

// deliver feeds every key event, in order, to the activation recognizer and
// to the independent cancel-key recognizer.
func (a *app) deliver(ctx context.Context) {
	activate := chord.NewRecognizer(a.cfg.Chord(), a.activate)
	cancel := chord.NewRecognizer(chord.Chord{a.cfg.CancelKey()}, func() { a.cancel(ctx) })
	events := a.src.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := activate.Feed(ev); err != nil {
				log.Warnf("key event rejected: %v", err)
				continue
			}
			if a.cancelStale.Swap(false) {
				cancel.Reset()
			}
			cancel.Feed(ev)
		}
	}
}

func (a *app) activate() {
	log.Info("hotkey_activated")
	a.sink.Activated(a.disp.Signal())
}

// launch performs an item without showing the picker.
func (a *app) launch(name string) bool {
	d, ok := a.cfg.Items().Lookup(name)
	if !ok {
		log.Warnf("launch of unknown item %q ignored", name)
		return false
	}
	log.Launch(name, d.Kind.String(), d.Target)
	a.acts.Perform(d)
	return true
}

func (a *app) cancel(ctx context.Context) {
	if a.ctrl.OnCancelKey(ctx) {
		a.sink.CancelRequested()
	}
}

// stop closes any open picker and releases the key source. The caller
// cancels the start context first.
func (a *app) stop() {
	a.stopOnce.Do(func() {
		if a.disp.InFlight() {
			ctx, cancel := context.WithTimeout(context.Background(), dismissTimeout)
			a.win.Dismiss(ctx, a.cfg.Picker.Title)
			cancel()
		}
		a.src.Unregister()
		a.wg.Wait()
		st := a.disp.Stats()
		log.Shutdown(st.Sessions, st.Dropped)
	})
}
