//go:build windows

package action

import "os/exec"

func appCommand(name string) *exec.Cmd {
	return exec.Command("cmd", "/c", "start", "", name)
}
