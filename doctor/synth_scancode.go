//go:build linux || windows

package doctor

import (
	"time"

	"launchkey/chord"
)

const settleDelay = 2 * time.Second

// Set 1 scan codes, which evdev key codes follow for the main block.
var rawCodes = map[chord.Key]int{
	"/": 53, chord.Space: 57, chord.Enter: 28, chord.Tab: 15, chord.Esc: 1,
	"f1": 59, "f2": 60, "f3": 61, "f4": 62, "f5": 63, "f6": 64,
	"f7": 65, "f8": 66, "f9": 67, "f10": 68, "f11": 87, "f12": 88,
}
