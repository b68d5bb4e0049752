package log

import (
	"os"
	"path/filepath"
	"runtime"
)

// defaultDir is the per-user log location when neither the flag nor
// LAUNCHKEY_LOG_PATH is set.
func defaultDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Logs", "launchkey"), nil
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "launchkey", "logs"), nil
		}
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "launchkey", "logs"), nil
}
