//go:build darwin

package login

import (
	"strings"
	"testing"
)

func TestAgentPlist(t *testing.T) {
	t.Setenv("LAUNCHKEY_CONFIG", "/Users/me/a&b.yaml")
	t.Setenv("LAUNCHKEY_LOG_PATH", "")

	got := agentPlist("/Applications/launchkey")
	for _, want := range []string{
		"<string>com.launchkey.agent</string>",
		"<string>/Applications/launchkey</string>\n\t\t<string>--tui=false</string>",
		"<key>LAUNCHKEY_CONFIG</key>\n\t\t<string>/Users/me/a&amp;b.yaml</string>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("plist missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "LAUNCHKEY_LOG_PATH") {
		t.Errorf("unset variable written to plist:\n%s", got)
	}
}

func TestAgentPlistWithoutEnv(t *testing.T) {
	t.Setenv("LAUNCHKEY_CONFIG", "")
	t.Setenv("LAUNCHKEY_LOG_PATH", "")
	if got := agentPlist("/bin/launchkey"); strings.Contains(got, "EnvironmentVariables") {
		t.Errorf("empty environment dict written:\n%s", got)
	}
}
