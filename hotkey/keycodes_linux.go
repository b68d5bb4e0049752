//go:build linux

package hotkey

import "launchkey/chord"

// evdevKeys maps linux/input-event-codes.h KEY_* values to canonical keys.
// Left and right modifiers collapse to the same key.
var evdevKeys = map[uint16]chord.Key{
	1: chord.Esc,
	2: "1", 3: "2", 4: "3", 5: "4", 6: "5", 7: "6", 8: "7", 9: "8", 10: "9", 11: "0",
	12: "-", 13: "=",
	15: chord.Tab,
	16: "q", 17: "w", 18: "e", 19: "r", 20: "t", 21: "y", 22: "u", 23: "i", 24: "o", 25: "p",
	26: "[", 27: "]",
	28: chord.Enter,
	29: chord.Ctrl,
	30: "a", 31: "s", 32: "d", 33: "f", 34: "g", 35: "h", 36: "j", 37: "k", 38: "l",
	39: ";", 40: "'", 41: "`",
	42: chord.Shift,
	43: "\\",
	44: "z", 45: "x", 46: "c", 47: "v", 48: "b", 49: "n", 50: "m",
	51: ",", 52: ".", 53: "/",
	54: chord.Shift,
	56: chord.Alt,
	57: chord.Space,
	59: "f1", 60: "f2", 61: "f3", 62: "f4", 63: "f5", 64: "f6", 65: "f7", 66: "f8", 67: "f9", 68: "f10",
	78: chord.Plus,
	87: "f11", 88: "f12",
	97:  chord.Ctrl,
	100: chord.Alt,
	125: chord.Cmd,
	126: chord.Cmd,
}
