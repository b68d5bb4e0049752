//go:build linux

package action

import (
	"os/exec"
	"strings"
)

// appCommand launches a desktop entry by id ("code" or "code.desktop"),
// falling back to running the target as a command when gtk-launch is absent.
func appCommand(name string) *exec.Cmd {
	if _, err := exec.LookPath("gtk-launch"); err == nil {
		return exec.Command("gtk-launch", strings.TrimSuffix(name, ".desktop"))
	}
	return exec.Command(name)
}
