//go:build !windows

package doctor

import (
	"os"
	"os/exec"

	"golang.org/x/term"
)

// resetTerminal restores cooked mode in case a previous run or the key
// synthesizer left the tty raw.
func resetTerminal() {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		exec.Command("stty", "sane").Run()
	}
}
