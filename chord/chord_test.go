package chord

import (
	"errors"
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Chord
		wantErr bool
	}{
		{"<ctrl>+/", Chord{Ctrl, "/"}, false},
		{"ctrl+/", Chord{Ctrl, "/"}, false},
		{"<cmd>+<shift>+K", Chord{Cmd, Shift, "k"}, false},
		{"<ctrl_l>+<alt_r>+<f5>", Chord{Ctrl, Alt, "f5"}, false},
		{"<esc>", Chord{Esc}, false},
		{"ctrl+plus", Chord{Ctrl, Plus}, false},
		{"<cmd>+<plus>", Chord{Cmd, Plus}, false},
		{"", nil, true},
		{"ctrl+", nil, true},
		{"ctrl+ctrl_r", nil, true},
		{"<hyper>+x", nil, true},
		{"f25", nil, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !slices.Equal(got, tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestChordString(t *testing.T) {
	c, err := Parse("ctrl+shift+/")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.String(); got != "<ctrl>+<shift>+/" {
		t.Errorf("String() = %q", got)
	}
	if c.Trigger() != "/" {
		t.Errorf("Trigger() = %q, want /", c.Trigger())
	}
	if !slices.Equal(c.Modifiers(), []Key{Ctrl, Shift}) {
		t.Errorf("Modifiers() = %v", c.Modifiers())
	}
}

type counter struct{ n int }

func (c *counter) fire() { c.n++ }

func newTestRecognizer(t *testing.T, hotkey string) (*Recognizer, *counter) {
	t.Helper()
	c, err := Parse(hotkey)
	if err != nil {
		t.Fatal(err)
	}
	cnt := &counter{}
	return NewRecognizer(c, cnt.fire), cnt
}

func TestRecognizerFiresOnCompletingPress(t *testing.T) {
	r, cnt := newTestRecognizer(t, "ctrl+/")

	r.Press(Ctrl)
	if cnt.n != 0 {
		t.Fatal("fired before chord was complete")
	}
	r.Press("/")
	if cnt.n != 1 {
		t.Fatalf("activations = %d, want 1", cnt.n)
	}
}

func TestRecognizerDoesNotRefireWhileHeld(t *testing.T) {
	r, cnt := newTestRecognizer(t, "ctrl+/")

	r.Press(Ctrl)
	r.Press("/")
	// autorepeat delivers more presses of held keys
	r.Press("/")
	r.Press(Ctrl)
	r.Press("/")
	if cnt.n != 1 {
		t.Errorf("activations = %d, want 1", cnt.n)
	}
}

func TestRecognizerRearm(t *testing.T) {
	r, cnt := newTestRecognizer(t, "ctrl+/")

	r.Press(Ctrl)
	r.Press("/")
	r.Release("/")
	r.Press("/")
	if cnt.n != 2 {
		t.Errorf("activations = %d, want 2", cnt.n)
	}

	r.Release(Ctrl)
	r.Press(Ctrl)
	if cnt.n != 3 {
		t.Errorf("activations = %d, want 3 after re-pressing modifier", cnt.n)
	}
}

func TestRecognizerIgnoresOtherKeys(t *testing.T) {
	r, cnt := newTestRecognizer(t, "ctrl+/")

	r.Press(Ctrl)
	r.Press("a")
	r.Release("a")
	if cnt.n != 0 {
		t.Fatal("fired on non-chord key")
	}
	if !slices.Equal(r.Held(), []Key{Ctrl}) {
		t.Errorf("Held() = %v, want [ctrl]", r.Held())
	}
	r.Press("/")
	if cnt.n != 1 {
		t.Errorf("activations = %d, want 1", cnt.n)
	}
}

func TestRecognizerReleaseUnheldIsNoop(t *testing.T) {
	r, cnt := newTestRecognizer(t, "ctrl+/")

	if err := r.Release("/"); err != nil {
		t.Fatal(err)
	}
	if err := r.Release(Ctrl); err != nil {
		t.Fatal(err)
	}
	if len(r.Held()) != 0 {
		t.Errorf("Held() = %v, want none", r.Held())
	}
	r.Press(Ctrl)
	r.Press("/")
	if cnt.n != 1 {
		t.Errorf("activations = %d, want 1", cnt.n)
	}
}

func TestRecognizerRejectsMalformedKeys(t *testing.T) {
	r, cnt := newTestRecognizer(t, "ctrl+/")

	r.Press(Ctrl)
	for _, k := range []Key{"", "ctrl_l", "CTRL", "nonsense"} {
		if err := r.Press(k); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Press(%q) error = %v, want ErrInvalidKey", k, err)
		}
		if err := r.Release(k); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Release(%q) error = %v, want ErrInvalidKey", k, err)
		}
	}
	if !slices.Equal(r.Held(), []Key{Ctrl}) {
		t.Errorf("malformed events changed state: Held() = %v", r.Held())
	}
	r.Press("/")
	if cnt.n != 1 {
		t.Errorf("activations = %d, want 1", cnt.n)
	}
}

func TestCancelKeyRecognizerIndependent(t *testing.T) {
	chordRec, chordCnt := newTestRecognizer(t, "ctrl+/")
	cancelRec, cancelCnt := newTestRecognizer(t, "esc")

	events := []Event{
		{Ctrl, true}, {Esc, true}, {"/", true}, {Esc, false}, {Esc, true},
	}
	for _, e := range events {
		chordRec.Feed(e)
		cancelRec.Feed(e)
	}
	if chordCnt.n != 1 {
		t.Errorf("chord activations = %d, want 1", chordCnt.n)
	}
	if cancelCnt.n != 2 {
		t.Errorf("cancel activations = %d, want 2", cancelCnt.n)
	}
}

func TestRecognizerReset(t *testing.T) {
	r, cnt := newTestRecognizer(t, "ctrl+shift+k")
	r.Press(Ctrl)
	r.Press(Shift)
	r.Reset()
	if len(r.Held()) != 0 {
		t.Fatalf("Held() after Reset = %v, want none", r.Held())
	}
	r.Press("k")
	if cnt.n != 0 {
		t.Errorf("activations after Reset = %d, want 0", cnt.n)
	}
}

func TestPlusKeyRoundTrip(t *testing.T) {
	c, err := Parse("ctrl+shift+plus")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.String(); got != "<ctrl>+<shift>+<plus>" {
		t.Errorf("String() = %q", got)
	}
	back, err := Parse(c.String())
	if err != nil || !slices.Equal(back, c) {
		t.Errorf("Parse(String()) = %v, %v; want %v", back, err, c)
	}
	if !Plus.Valid() || Plus.IsModifier() {
		t.Errorf("Plus: Valid=%v IsModifier=%v", Plus.Valid(), Plus.IsModifier())
	}
}
