package window

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Fake is a scriptable Service. Pickers stay open until Choose, Cancel or
// Dismiss resolves them. Calls are recorded, and written to Trace when set.
type Fake struct {
	Activator *FakeActivator
	Trace     io.Writer

	mu         sync.Mutex
	identity   *Identity
	snapErr    error
	presentErr error
	open       *fakePicker
	calls      []string
	dismissals int

	presented chan Prompt
}

type fakePicker struct {
	title  string
	result chan Outcome
}

func NewFake() *Fake {
	return &Fake{
		Activator: &FakeActivator{},
		presented: make(chan Prompt, 16),
	}
}

// SetIdentity sets what the next snapshots report; nil means no focus.
func (f *Fake) SetIdentity(id *Identity) {
	f.mu.Lock()
	f.identity = id
	f.mu.Unlock()
}

// FailSnapshot makes snapshots return err.
func (f *Fake) FailSnapshot(err error) {
	f.mu.Lock()
	f.snapErr = err
	f.mu.Unlock()
}

// FailPresent makes pickers fail immediately with err.
func (f *Fake) FailPresent(err error) {
	f.mu.Lock()
	f.presentErr = err
	f.mu.Unlock()
}

func (f *Fake) record(format string, args ...any) {
	call := fmt.Sprintf(format, args...)
	f.mu.Lock()
	f.calls = append(f.calls, call)
	w := f.Trace
	f.mu.Unlock()
	if w != nil {
		fmt.Fprintln(w, call)
	}
}

func (f *Fake) Snapshot(ctx context.Context) (*Identity, error) {
	f.record("snapshot")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapErr != nil {
		return nil, f.snapErr
	}
	if f.identity == nil {
		return nil, ErrNoFocus
	}
	id := *f.identity
	return &id, nil
}

func (f *Fake) Present(ctx context.Context, p Prompt) (string, bool, error) {
	out, err := f.present(ctx, p, nil)
	return out.Choice, out.Chosen, err
}

func (f *Fake) SnapshotAndPresent(ctx context.Context, p Prompt) (Outcome, error) {
	f.mu.Lock()
	var id *Identity
	if f.snapErr == nil && f.identity != nil {
		cp := *f.identity
		id = &cp
	}
	f.mu.Unlock()
	return f.present(ctx, p, id)
}

func (f *Fake) present(ctx context.Context, p Prompt, id *Identity) (Outcome, error) {
	f.record("present %s [%s]", p.Title, strings.Join(p.Labels, ","))
	if id != nil {
		f.record("captured %s", encodeFields(id.AppName, id.WindowTitle, id.BundleID))
	}

	f.mu.Lock()
	if f.presentErr != nil {
		err := f.presentErr
		f.mu.Unlock()
		return Outcome{Identity: id}, err
	}
	if f.open != nil {
		f.mu.Unlock()
		return Outcome{Identity: id}, errors.New("picker already open")
	}
	pk := &fakePicker{title: p.Title, result: make(chan Outcome, 1)}
	f.open = pk
	f.mu.Unlock()

	select {
	case f.presented <- p:
	default:
	}

	var out Outcome
	var err error
	select {
	case out = <-pk.result:
	case <-ctx.Done():
		err = ctx.Err()
	}

	f.mu.Lock()
	if f.open == pk {
		f.open = nil
	}
	f.mu.Unlock()

	out.Identity = id
	return out, err
}

// Presented delivers each prompt as its picker opens.
func (f *Fake) Presented() <-chan Prompt { return f.presented }

// Choose resolves the open picker with label. It reports false when no
// picker is open.
func (f *Fake) Choose(label string) bool {
	return f.resolve(Outcome{Choice: label, Chosen: true})
}

// Cancel resolves the open picker as cancelled by the user.
func (f *Fake) Cancel() bool {
	return f.resolve(Outcome{})
}

func (f *Fake) resolve(out Outcome) bool {
	f.mu.Lock()
	pk := f.open
	f.open = nil
	f.mu.Unlock()
	if pk == nil {
		return false
	}
	pk.result <- out
	return true
}

func (f *Fake) Restore(ctx context.Context, id Identity) bool {
	f.record("restore %s", id.String())
	return RestoreWith(ctx, f.Activator, id)
}

func (f *Fake) Dismiss(ctx context.Context, title string) bool {
	f.record("dismiss %s", title)
	f.mu.Lock()
	f.dismissals++
	pk := f.open
	if pk != nil && pk.title == title {
		f.open = nil
	} else {
		pk = nil
	}
	f.mu.Unlock()
	if pk != nil {
		pk.result <- Outcome{}
	}
	return true
}

// IsOpen reports whether a picker is currently showing.
func (f *Fake) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open != nil
}

func (f *Fake) Dismissals() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dismissals
}

func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// FakeActivator records activation attempts as "bundle:<id>", "app:<name>"
// and "raise:<app>/<title>". Steps listed in Fail return an error.
type FakeActivator struct {
	mu    sync.Mutex
	Fail  map[string]bool
	calls []string
}

func (a *FakeActivator) step(call string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, call)
	if a.Fail[call] {
		return fmt.Errorf("%s failed", call)
	}
	return nil
}

func (a *FakeActivator) ActivateBundle(_ context.Context, bundleID string) error {
	return a.step("bundle:" + bundleID)
}

func (a *FakeActivator) ActivateApp(_ context.Context, appName string) error {
	return a.step("app:" + appName)
}

func (a *FakeActivator) RaiseWindow(_ context.Context, appName, title string) error {
	return a.step("raise:" + appName + "/" + title)
}

func (a *FakeActivator) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}
