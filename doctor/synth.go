//go:build darwin || linux || windows

package doctor

import (
	"fmt"
	"time"

	"github.com/micmonay/keybd_event"

	"launchkey/chord"
)

var letterCodes = map[chord.Key]int{
	"a": keybd_event.VK_A, "b": keybd_event.VK_B, "c": keybd_event.VK_C, "d": keybd_event.VK_D,
	"e": keybd_event.VK_E, "f": keybd_event.VK_F, "g": keybd_event.VK_G, "h": keybd_event.VK_H,
	"i": keybd_event.VK_I, "j": keybd_event.VK_J, "k": keybd_event.VK_K, "l": keybd_event.VK_L,
	"m": keybd_event.VK_M, "n": keybd_event.VK_N, "o": keybd_event.VK_O, "p": keybd_event.VK_P,
	"q": keybd_event.VK_Q, "r": keybd_event.VK_R, "s": keybd_event.VK_S, "t": keybd_event.VK_T,
	"u": keybd_event.VK_U, "v": keybd_event.VK_V, "w": keybd_event.VK_W, "x": keybd_event.VK_X,
	"y": keybd_event.VK_Y, "z": keybd_event.VK_Z,
	"0": keybd_event.VK_0, "1": keybd_event.VK_1, "2": keybd_event.VK_2, "3": keybd_event.VK_3,
	"4": keybd_event.VK_4, "5": keybd_event.VK_5, "6": keybd_event.VK_6, "7": keybd_event.VK_7,
	"8": keybd_event.VK_8, "9": keybd_event.VK_9,
}

func keyCode(k chord.Key) (int, bool) {
	if c, ok := letterCodes[k]; ok {
		return c, true
	}
	c, ok := rawCodes[k]
	return c, ok
}

// typeChord presses and releases c on a virtual keyboard.
func typeChord(c chord.Chord) error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return fmt.Errorf("virtual keyboard: %w", err)
	}
	// uinput devices need a moment before the desktop sees them
	time.Sleep(settleDelay)

	for _, k := range c {
		switch k {
		case chord.Ctrl:
			kb.HasCTRL(true)
		case chord.Shift:
			kb.HasSHIFT(true)
		case chord.Alt:
			kb.HasALT(true)
		case chord.Cmd:
			kb.HasSuper(true)
		default:
			code, ok := keyCode(k)
			if !ok {
				return fmt.Errorf("no key code for %q", k)
			}
			kb.SetKeys(code)
		}
	}
	return kb.Launching()
}
