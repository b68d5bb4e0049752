package chord

import (
	"errors"
	"fmt"
	"strings"
)

// Key is a canonical key name. Modifiers are named without side
// ("ctrl", not "ctrl_l"); printable keys are their lower-case character.
type Key string

const (
	Ctrl  Key = "ctrl"
	Shift Key = "shift"
	Alt   Key = "alt"
	Cmd   Key = "cmd"
	Esc   Key = "esc"
	Space Key = "space"
	Enter Key = "enter"
	Tab   Key = "tab"
	// Plus is written "plus" in hotkey strings, where "+" separates keys.
	Plus Key = "+"
)

var ErrInvalidKey = errors.New("invalid key")

var aliases = map[string]Key{
	"ctrl": Ctrl, "ctrl_l": Ctrl, "ctrl_r": Ctrl, "control": Ctrl,
	"shift": Shift, "shift_l": Shift, "shift_r": Shift,
	"alt": Alt, "alt_l": Alt, "alt_r": Alt, "alt_gr": Alt, "option": Alt, "opt": Alt,
	"cmd": Cmd, "cmd_l": Cmd, "cmd_r": Cmd, "super": Cmd, "win": Cmd, "meta": Cmd,
	"esc": Esc, "escape": Esc,
	"space": Space,
	"enter": Enter, "return": Enter,
	"tab":  Tab,
	"plus": Plus,
}

// ParseKey canonicalizes a key name. Angle brackets are optional
// ("<ctrl>" and "ctrl" are the same key).
func ParseKey(s string) (Key, error) {
	name := strings.TrimSpace(s)
	if strings.HasPrefix(name, "<") && strings.HasSuffix(name, ">") && len(name) > 2 {
		name = name[1 : len(name)-1]
	}
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidKey)
	}
	if k, ok := aliases[strings.ToLower(name)]; ok {
		return k, nil
	}
	if isFunctionKey(strings.ToLower(name)) {
		return Key(strings.ToLower(name)), nil
	}
	r := []rune(name)
	if len(r) == 1 {
		return Key(strings.ToLower(name)), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKey, s)
}

// IsModifier reports whether k is one of the modifier keys.
func (k Key) IsModifier() bool {
	switch k {
	case Ctrl, Shift, Alt, Cmd:
		return true
	}
	return false
}

// Valid reports whether k is already in canonical form.
func (k Key) Valid() bool {
	c, err := ParseKey(string(k))
	return err == nil && c == k
}

func isFunctionKey(s string) bool {
	if len(s) < 2 || len(s) > 3 || s[0] != 'f' {
		return false
	}
	n := 0
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return false
		}
		n = n*10 + int(c-'0')
	}
	return n >= 1 && n <= 24
}

// Event is one physical key transition.
type Event struct {
	Key  Key
	Down bool
}

func (e Event) String() string {
	if e.Down {
		return "press " + string(e.Key)
	}
	return "release " + string(e.Key)
}
