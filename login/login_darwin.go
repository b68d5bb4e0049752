//go:build darwin

package login

import (
	"fmt"
	"html"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const agentLabel = "com.launchkey.agent"

func plistPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "LaunchAgents", agentLabel+".plist"), nil
}

func Enabled() bool {
	path, err := plistPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// agentPlist renders a LaunchAgent that runs exe in the Aqua session at
// login, with the pass-through variables that are currently set.
func agentPlist(exe string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
`)
	entry := func(key, value string) {
		fmt.Fprintf(&b, "\t<key>%s</key>\n\t<string>%s</string>\n", key, html.EscapeString(value))
	}
	entry("Label", agentLabel)

	b.WriteString("\t<key>ProgramArguments</key>\n\t<array>\n")
	for _, a := range append([]string{exe}, daemonArgs...) {
		fmt.Fprintf(&b, "\t\t<string>%s</string>\n", html.EscapeString(a))
	}
	b.WriteString("\t</array>\n")

	b.WriteString("\t<key>RunAtLoad</key>\n\t<true/>\n")
	entry("LimitLoadToSessionType", "Aqua")

	var env []string
	for _, key := range passEnv {
		if v := os.Getenv(key); v != "" {
			env = append(env, fmt.Sprintf("\t\t<key>%s</key>\n\t\t<string>%s</string>\n", key, html.EscapeString(v)))
		}
	}
	if len(env) > 0 {
		b.WriteString("\t<key>EnvironmentVariables</key>\n\t<dict>\n")
		b.WriteString(strings.Join(env, ""))
		b.WriteString("\t</dict>\n")
	}
	b.WriteString("</dict>\n</plist>\n")
	return b.String()
}

func launchctl(verb, path string) error {
	domain := fmt.Sprintf("gui/%d", os.Getuid())
	out, err := exec.Command("launchctl", verb, domain, path).CombinedOutput()
	if err != nil {
		return fmt.Errorf("launchctl %s: %w (%s)", verb, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func Enable() error {
	exe, err := executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	path, err := plistPath()
	if err != nil {
		return fmt.Errorf("resolve LaunchAgents dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create LaunchAgents dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(agentPlist(exe)), 0600); err != nil {
		return fmt.Errorf("write plist: %w", err)
	}
	// An agent left loaded by an earlier enable makes bootstrap fail.
	launchctl("bootout", path)
	return launchctl("bootstrap", path)
}

func Disable() error {
	path, err := plistPath()
	if err != nil {
		return err
	}
	if !Enabled() {
		return nil
	}
	launchctl("bootout", path)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove plist: %w", err)
	}
	return nil
}
