package launcher

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"launchkey/action"
	"launchkey/window"
)

func testItems() Items {
	return Items{
		"gmail":  action.URL("https://mail.google.com/mail/u/0/#inbox"),
		"vscode": action.App("Visual Studio Code"),
	}
}

func notesIdentity() *window.Identity {
	return &window.Identity{
		AppName:     window.Str("Notes"),
		WindowTitle: window.Str("Untitled"),
		BundleID:    window.Str("com.apple.Notes"),
	}
}

type harness struct {
	win      *window.Fake
	rec      *action.Recorder
	launcher *Launcher
	results  chan Result
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		win:     window.NewFake(),
		rec:     action.NewRecorder(),
		results: make(chan Result, 1),
	}
	h.launcher = &Launcher{
		Window:  h.win,
		Actions: h.rec,
		Items:   testItems,
		Title:   "launchkey",
		Prompt:  "Launch:",
	}
	return h
}

// start runs a session in the background and waits for its picker.
func (h *harness) start(t *testing.T) window.Prompt {
	t.Helper()
	go func() { h.results <- h.launcher.Run(context.Background()) }()
	select {
	case p := <-h.win.Presented():
		return p
	case <-time.After(time.Second):
		t.Fatal("picker never opened")
	}
	return window.Prompt{}
}

func (h *harness) result(t *testing.T) Result {
	t.Helper()
	select {
	case r := <-h.results:
		return r
	case <-time.After(time.Second):
		t.Fatal("session did not finish")
	}
	return Result{}
}

func TestChoiceLaunchesWithoutRestore(t *testing.T) {
	h := newHarness(t)
	h.win.SetIdentity(notesIdentity())

	p := h.start(t)
	if !slices.Equal(p.Labels, []string{"gmail", "vscode"}) {
		t.Errorf("labels = %v, want sorted [gmail vscode]", p.Labels)
	}
	if p.Title != "launchkey" || p.Message != "Launch:" {
		t.Errorf("prompt = %+v", p)
	}
	h.win.Choose("vscode")

	r := h.result(t)
	if r.Ending != Launched || r.Choice != "vscode" {
		t.Errorf("result = %+v", r)
	}
	if calls := h.rec.Calls(); len(calls) != 1 || calls[0] != action.App("Visual Studio Code") {
		t.Errorf("perform calls = %v", calls)
	}
	if calls := h.win.Activator.Calls(); len(calls) != 0 {
		t.Errorf("restore attempted after a choice: %v", calls)
	}
}

func TestCancelRestoresBundleFirst(t *testing.T) {
	h := newHarness(t)
	h.win.SetIdentity(notesIdentity())

	h.start(t)
	h.win.Cancel()

	r := h.result(t)
	if r.Ending != Restored {
		t.Errorf("ending = %v, want restored", r.Ending)
	}
	if len(h.rec.Calls()) != 0 {
		t.Errorf("perform called on cancel: %v", h.rec.Calls())
	}
	want := []string{"bundle:com.apple.Notes", "raise:Notes/Untitled"}
	if got := h.win.Activator.Calls(); !slices.Equal(got, want) {
		t.Errorf("activator calls = %v, want %v", got, want)
	}
}

func TestCancelFallsBackToAppName(t *testing.T) {
	h := newHarness(t)
	h.win.SetIdentity(notesIdentity())
	h.win.Activator.Fail = map[string]bool{
		"bundle:com.apple.Notes": true,
		"raise:Notes/Untitled":   true,
	}

	h.start(t)
	h.win.Cancel()

	r := h.result(t)
	if r.Ending != Restored {
		t.Errorf("ending = %v, want restored despite raise failure", r.Ending)
	}
	want := []string{"bundle:com.apple.Notes", "app:Notes", "raise:Notes/Untitled"}
	if got := h.win.Activator.Calls(); !slices.Equal(got, want) {
		t.Errorf("activator calls = %v, want %v", got, want)
	}
}

func TestRestoreFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.win.SetIdentity(notesIdentity())
	h.win.Activator.Fail = map[string]bool{
		"bundle:com.apple.Notes": true,
		"app:Notes":              true,
	}

	h.start(t)
	h.win.Cancel()

	if r := h.result(t); r.Ending != RestoreFailed {
		t.Errorf("ending = %v, want restore_failed", r.Ending)
	}
}

func TestCancelWithoutIdentitySkipsRestore(t *testing.T) {
	tests := []struct {
		name string
		id   *window.Identity
	}{
		{"no focus", nil},
		{"no app name", &window.Identity{WindowTitle: window.Str("x"), BundleID: window.Str("com.x")}},
		{"empty app name", &window.Identity{AppName: window.Str("")}},
	}
	for _, tt := range tests {
		h := newHarness(t)
		h.win.SetIdentity(tt.id)

		h.start(t)
		h.win.Cancel()

		if r := h.result(t); r.Ending != NothingToRestore {
			t.Errorf("%s: ending = %v, want nothing_to_restore", tt.name, r.Ending)
		}
		for _, c := range h.win.Calls() {
			if len(c) >= 7 && c[:7] == "restore" {
				t.Errorf("%s: unexpected restore call %q", tt.name, c)
			}
		}
	}
}

func TestUnknownChoiceIsNoop(t *testing.T) {
	h := newHarness(t)
	h.win.SetIdentity(notesIdentity())

	h.start(t)
	h.win.Choose("slack")

	r := h.result(t)
	if r.Ending != UnknownItem {
		t.Errorf("ending = %v, want unknown_item", r.Ending)
	}
	if len(h.rec.Calls()) != 0 {
		t.Errorf("perform called for unknown item: %v", h.rec.Calls())
	}
	if len(h.win.Activator.Calls()) != 0 {
		t.Errorf("restore attempted for unknown item: %v", h.win.Activator.Calls())
	}
}

func TestPickerErrorTakesCancelPath(t *testing.T) {
	h := newHarness(t)
	h.win.SetIdentity(notesIdentity())
	h.win.FailPresent(errors.New("osascript: execution error"))

	r := h.launcher.Run(context.Background())
	if r.Err == nil {
		t.Error("expected picker error in result")
	}
	if r.Ending != Restored {
		t.Errorf("ending = %v, want restored", r.Ending)
	}
	if len(h.rec.Calls()) != 0 {
		t.Errorf("perform called after picker error")
	}
}

func TestItemsRecomputedPerSession(t *testing.T) {
	h := newHarness(t)
	calls := 0
	h.launcher.Items = func() Items {
		calls++
		return testItems()
	}

	for i := 0; i < 2; i++ {
		h.start(t)
		h.win.Cancel()
		h.result(t)
	}
	if calls != 2 {
		t.Errorf("Items called %d times, want 2", calls)
	}
}

func TestOnResult(t *testing.T) {
	h := newHarness(t)
	var got []Ending
	h.launcher.OnResult = func(r Result) { got = append(got, r.Ending) }

	h.start(t)
	h.win.Choose("gmail")
	h.result(t)

	if !slices.Equal(got, []Ending{Launched}) {
		t.Errorf("OnResult saw %v", got)
	}
}

func TestItemsNamesSorted(t *testing.T) {
	it := Items{
		"xcode":  action.App("Xcode"),
		"claude": action.App("Claude"),
		"github": action.URL("https://github.com"),
	}
	if got := it.Names(); !slices.Equal(got, []string{"claude", "github", "xcode"}) {
		t.Errorf("Names() = %v", got)
	}
	if _, ok := it.Lookup("Claude"); ok {
		t.Error("lookup should be exact-match")
	}
}

func TestSessionStates(t *testing.T) {
	tests := []struct {
		name    string
		resolve func(*window.Fake) bool
		want    []State
	}{
		{"choice", func(w *window.Fake) bool { return w.Choose("vscode") },
			[]State{StateCapturingPresenting, StateChosen, StateActing, StateDone}},
		{"cancel", (*window.Fake).Cancel,
			[]State{StateCapturingPresenting, StateCancelled, StateRestoring, StateDone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.win.SetIdentity(notesIdentity())
			h.start(t)
			tt.resolve(h.win)
			if got := h.result(t).States; !slices.Equal(got, tt.want) {
				t.Errorf("states = %v, want %v", got, tt.want)
			}
		})
	}
}
