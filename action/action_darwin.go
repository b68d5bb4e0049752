//go:build darwin

package action

import "os/exec"

// appCommand activates the app if running, launching it otherwise.
func appCommand(name string) *exec.Cmd {
	return exec.Command("open", "-a", name)
}
