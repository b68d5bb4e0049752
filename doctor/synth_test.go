//go:build darwin || linux || windows

package doctor

import (
	"testing"

	"launchkey/chord"
)

func TestDefaultChordHasKeyCodes(t *testing.T) {
	c, err := chord.Parse("<ctrl>+/")
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range c {
		if k.IsModifier() {
			continue
		}
		if _, ok := keyCode(k); !ok {
			t.Errorf("no key code for %q", k)
		}
	}
}

func TestKeyCodesCoverLettersAndDigits(t *testing.T) {
	for _, r := range "abcdefghijklmnopqrstuvwxyz0123456789" {
		if _, ok := keyCode(chord.Key(string(r))); !ok {
			t.Errorf("no key code for %q", r)
		}
	}
	if _, ok := keyCode("f13"); ok {
		t.Error("f13 should have no code")
	}
}
