package doctor

import "launchkey/chord"

const settleDelay = 0

// macOS virtual key codes.
var rawCodes = map[chord.Key]int{
	"/": 0x2C, chord.Space: 0x31, chord.Enter: 0x24, chord.Tab: 0x30, chord.Esc: 0x35,
	"f1": 0x7A, "f2": 0x78, "f3": 0x63, "f4": 0x76, "f5": 0x60, "f6": 0x61,
	"f7": 0x62, "f8": 0x64, "f9": 0x65, "f10": 0x6D, "f11": 0x67, "f12": 0x6F,
}
