//go:build darwin

package hotkey

import (
	"golang.design/x/hotkey"

	"launchkey/chord"
)

// kVK_ANSI_Slash
const slashKey hotkey.Key = 0x2C

// kVK_ANSI_KeypadPlus
const plusKey hotkey.Key = 0x45

var modifiers = map[chord.Key]hotkey.Modifier{
	chord.Ctrl:  hotkey.ModCtrl,
	chord.Shift: hotkey.ModShift,
	chord.Alt:   hotkey.ModOption,
	chord.Cmd:   hotkey.ModCmd,
}
