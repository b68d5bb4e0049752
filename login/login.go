// Package login registers launchkey to start when the user logs in.
package login

import (
	"errors"
	"os"
)

var ErrUnsupported = errors.New("start on login not supported on this platform")

// passEnv lists variables copied into the login entry so the started
// daemon finds the same config and log directory.
var passEnv = []string{"LAUNCHKEY_CONFIG", "LAUNCHKEY_LOG_PATH"}

// daemonArgs are appended to the executable path in the login entry.
var daemonArgs = []string{"--tui=false"}

func executable() (string, error) {
	return os.Executable()
}
