// Package launcher runs one launcher invocation end to end: capture focus,
// show the picker, then launch the chosen item or give focus back.
package launcher

import (
	"context"
	"time"

	"launchkey/action"
	"launchkey/log"
	"launchkey/window"
)

type State int

// Capturing and presenting are one state: both happen inside a single
// SnapshotAndPresent call.
const (
	StateIdle State = iota
	StateCapturingPresenting
	StateChosen
	StateCancelled
	StateActing
	StateRestoring
	StateDone
)

var stateNames = [...]string{"idle", "capturing_presenting", "chosen", "cancelled", "acting", "restoring", "done"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Ending says which terminal path a session took.
type Ending int

const (
	Launched Ending = iota
	UnknownItem
	Restored
	RestoreFailed
	NothingToRestore
)

var endingNames = [...]string{"launched", "unknown_item", "restored", "restore_failed", "nothing_to_restore"}

func (e Ending) String() string {
	if int(e) < len(endingNames) {
		return endingNames[e]
	}
	return "unknown"
}

type Result struct {
	Ending   Ending
	Choice   string
	Identity *window.Identity
	// Err is the picker failure, if any; the session still completed.
	Err     error
	Elapsed time.Duration
	// States lists the states entered after idle, in order.
	States []State
}

// Launcher holds the collaborators for sessions. Items is called once per
// session so every picker reflects the configuration as it is now.
type Launcher struct {
	Window  window.Service
	Actions action.Performer
	Items   func() Items
	Title   string
	Prompt  string

	// OnResult, when set, observes every finished session.
	OnResult func(Result)
}

type session struct {
	state    State
	trail    []State
	identity *window.Identity
	choice   string
	chosen   bool
}

func (s *session) enter(st State) {
	log.Debugf("session %s -> %s", s.state, st)
	s.state = st
	s.trail = append(s.trail, st)
}

// Run executes one session. It always returns; every failure degrades to
// doing nothing further.
func (l *Launcher) Run(ctx context.Context) Result {
	start := time.Now()
	s := &session{state: StateIdle}
	log.Info("session_start")
	items := l.Items()

	s.enter(StateCapturingPresenting)
	out, err := l.Window.SnapshotAndPresent(ctx, window.Prompt{
		Title:   l.Title,
		Message: l.Prompt,
		Labels:  items.Names(),
	})
	if err != nil {
		log.Errorf("picker failed: %v", err)
	}
	s.identity = out.Identity
	s.choice, s.chosen = out.Choice, out.Chosen && err == nil
	if s.identity != nil {
		log.Window("focus_captured", s.identity.AppName, s.identity.WindowTitle, s.identity.BundleID)
	}

	res := Result{Choice: s.choice, Identity: s.identity, Err: err}
	if s.chosen {
		s.enter(StateChosen)
		res.Ending = l.act(s, items)
	} else {
		s.enter(StateCancelled)
		res.Choice = ""
		res.Ending = l.restore(ctx, s)
	}
	s.enter(StateDone)
	res.States = s.trail

	res.Elapsed = time.Since(start)
	log.Session(res.Ending.String(), res.Choice, res.Ending == Restored, res.Elapsed)
	if l.OnResult != nil {
		l.OnResult(res)
	}
	return res
}

func (l *Launcher) act(s *session, items Items) Ending {
	d, ok := items.Lookup(s.choice)
	if !ok {
		log.Warnf("chosen item %q not configured, ignoring", s.choice)
		return UnknownItem
	}
	s.enter(StateActing)
	log.Launch(s.choice, d.Kind.String(), d.Target)
	l.Actions.Perform(d)
	return Launched
}

func (l *Launcher) restore(ctx context.Context, s *session) Ending {
	if !s.identity.Usable() {
		return NothingToRestore
	}
	s.enter(StateRestoring)
	if !l.Window.Restore(ctx, *s.identity) {
		log.Warnf("restore_failed: %s", s.identity)
		return RestoreFailed
	}
	return Restored
}
