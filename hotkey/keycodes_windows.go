//go:build windows

package hotkey

import (
	"golang.design/x/hotkey"

	"launchkey/chord"
)

// VK_OEM_2
const slashKey hotkey.Key = 0xBF

// VK_ADD (keypad plus)
const plusKey hotkey.Key = 0x6B

var modifiers = map[chord.Key]hotkey.Modifier{
	chord.Ctrl:  hotkey.ModCtrl,
	chord.Shift: hotkey.ModShift,
	chord.Alt:   hotkey.ModAlt,
	chord.Cmd:   hotkey.ModWin,
}
