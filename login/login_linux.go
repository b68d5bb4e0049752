//go:build linux

package login

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const desktopName = "launchkey.desktop"

// autostartPath is $XDG_CONFIG_HOME/autostart/launchkey.desktop.
func autostartPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "autostart", desktopName), nil
}

func Enabled() bool {
	path, err := autostartPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func desktopEntry(exe string) string {
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	b.WriteString("Name=launchkey\n")
	b.WriteString("Comment=Hotkey application launcher\n")

	exec := quoteExec(exe) + " " + strings.Join(daemonArgs, " ")
	var env []string
	for _, key := range passEnv {
		if v := os.Getenv(key); v != "" {
			env = append(env, key+"="+quoteExec(v))
		}
	}
	if len(env) > 0 {
		exec = "env " + strings.Join(env, " ") + " " + exec
	}
	fmt.Fprintf(&b, "Exec=%s\n", exec)
	b.WriteString("NoDisplay=true\n")
	b.WriteString("X-GNOME-Autostart-enabled=true\n")
	return b.String()
}

// quoteExec quotes an Exec argument when it contains characters the
// desktop entry format reserves.
func quoteExec(s string) string {
	if !strings.ContainsAny(s, " \t\"'\\$`") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(s) + `"`
}

func Enable() error {
	exe, err := executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	path, err := autostartPath()
	if err != nil {
		return fmt.Errorf("resolve autostart dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(desktopEntry(exe)), 0644); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}
	return nil
}

func Disable() error {
	path, err := autostartPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove desktop entry: %w", err)
	}
	return nil
}
