package window

import (
	"context"
	"slices"
	"testing"
	"time"
)

func notes() Identity {
	return Identity{
		AppName:     Str("Notes"),
		WindowTitle: Str("Untitled"),
		BundleID:    Str("com.apple.Notes"),
	}
}

func TestRestoreWithOrdering(t *testing.T) {
	tests := []struct {
		name      string
		id        Identity
		fail      []string
		want      bool
		wantCalls []string
	}{
		{
			name:      "bundle succeeds",
			id:        notes(),
			want:      true,
			wantCalls: []string{"bundle:com.apple.Notes", "raise:Notes/Untitled"},
		},
		{
			name:      "bundle fails, app succeeds",
			id:        notes(),
			fail:      []string{"bundle:com.apple.Notes"},
			want:      true,
			wantCalls: []string{"bundle:com.apple.Notes", "app:Notes", "raise:Notes/Untitled"},
		},
		{
			name:      "raise failure does not change result",
			id:        notes(),
			fail:      []string{"bundle:com.apple.Notes", "raise:Notes/Untitled"},
			want:      true,
			wantCalls: []string{"bundle:com.apple.Notes", "app:Notes", "raise:Notes/Untitled"},
		},
		{
			name:      "all activations fail",
			id:        notes(),
			fail:      []string{"bundle:com.apple.Notes", "app:Notes"},
			want:      false,
			wantCalls: []string{"bundle:com.apple.Notes", "app:Notes"},
		},
		{
			name:      "no bundle id",
			id:        Identity{AppName: Str("Warp")},
			want:      true,
			wantCalls: []string{"app:Warp"},
		},
		{
			name:      "empty title skips raise",
			id:        Identity{AppName: Str("Warp"), WindowTitle: Str(""), BundleID: Str("")},
			want:      true,
			wantCalls: []string{"app:Warp"},
		},
		{
			name: "missing app name",
			id:   Identity{WindowTitle: Str("Untitled"), BundleID: Str("com.apple.Notes")},
			want: false,
		},
		{
			name: "empty app name",
			id:   Identity{AppName: Str(""), BundleID: Str("com.apple.Notes")},
			want: false,
		},
	}

	for _, tt := range tests {
		a := &FakeActivator{Fail: map[string]bool{}}
		for _, f := range tt.fail {
			a.Fail[f] = true
		}
		got := RestoreWith(context.Background(), a, tt.id)
		if got != tt.want {
			t.Errorf("%s: RestoreWith = %v, want %v", tt.name, got, tt.want)
		}
		if !slices.Equal(a.Calls(), tt.wantCalls) {
			t.Errorf("%s: calls = %v, want %v", tt.name, a.Calls(), tt.wantCalls)
		}
	}
}

func TestIdentityUsable(t *testing.T) {
	var nilID *Identity
	if nilID.Usable() {
		t.Error("nil identity usable")
	}
	id := notes()
	if !id.Usable() {
		t.Error("full identity not usable")
	}
	if got := nilID.String(); got != "none" {
		t.Errorf("String() = %q", got)
	}
}

func TestFieldCodecRoundTrip(t *testing.T) {
	in := []*string{Str("Notes"), nil, Str("")}
	out, err := decodeFields(encodeFields(in...)+"\n", 3)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] == nil || *out[0] != "Notes" {
		t.Errorf("field 0 = %v", out[0])
	}
	if out[1] != nil {
		t.Errorf("field 1 should be absent, got %q", *out[1])
	}
	if out[2] == nil || *out[2] != "" {
		t.Errorf("field 2 should be present and empty, got %v", out[2])
	}
}

func TestDecodeFieldsErrors(t *testing.T) {
	tests := []struct {
		input string
		n     int
	}{
		{"+a", 2},
		{"+a\x1e+b\x1e-", 2},
		{"a\x1e-", 2},
		{"", 1},
	}
	for _, tt := range tests {
		if _, err := decodeFields(tt.input, tt.n); err == nil {
			t.Errorf("decodeFields(%q, %d) expected error", tt.input, tt.n)
		}
	}
}

func TestFakeDismissResolvesOpenPicker(t *testing.T) {
	f := NewFake()
	f.SetIdentity(&Identity{AppName: Str("Notes")})

	done := make(chan Outcome, 1)
	go func() {
		out, _ := f.SnapshotAndPresent(context.Background(), Prompt{Title: "launchkey", Labels: []string{"a"}})
		done <- out
	}()

	select {
	case <-f.Presented():
	case <-time.After(time.Second):
		t.Fatal("picker never opened")
	}
	if !f.Dismiss(context.Background(), "launchkey") {
		t.Fatal("dismiss reported failure")
	}

	select {
	case out := <-done:
		if out.Chosen {
			t.Error("dismissed picker reported a choice")
		}
		if !out.Identity.Usable() {
			t.Error("identity lost on dismissal")
		}
	case <-time.After(time.Second):
		t.Fatal("dismiss did not unblock picker")
	}

	// dismissing again is a normal outcome
	if !f.Dismiss(context.Background(), "launchkey") {
		t.Error("dismiss of absent picker should succeed")
	}
}
