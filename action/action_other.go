//go:build !darwin && !linux && !windows

package action

import "os/exec"

func appCommand(name string) *exec.Cmd {
	return exec.Command(name)
}
