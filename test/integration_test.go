//go:build integration

package test_test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var testBinary string

func TestMain(m *testing.M) {
	testBinary = os.Getenv("LAUNCHKEY_TEST_BIN")
	if testBinary == "" {
		fmt.Fprintln(os.Stderr, "LAUNCHKEY_TEST_BIN not set; build the binary and point it there")
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func cmds(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func runLaunchkey(t *testing.T, stdin string, args ...string) (out, logDir string) {
	t.Helper()
	logDir = t.TempDir()
	cmdArgs := append([]string{"--logpath", logDir, "--config", filepath.Join(logDir, "absent.yaml")}, args...)

	cmd := exec.Command(testBinary, cmdArgs...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = os.Environ()

	b, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("launchkey exited with error: %v\noutput: %s", err, b)
	}
	return string(b), logDir
}

func readLog(t *testing.T, logDir, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(logDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		t.Fatalf("failed to read %s: %v", filename, err)
	}
	return string(data)
}

func TestLaunchIsLogged(t *testing.T) {
	out, logDir := runLaunchkey(t, cmds("CHORD", "CHOOSE github", "WAIT", "QUIT"), "--test")
	if !strings.Contains(out, "PERFORM url https://github.com") {
		t.Errorf("no perform in output:\n%s", out)
	}
	launches := readLog(t, logDir, "launch_log.txt")
	if !strings.Contains(launches, "\tgithub\turl\thttps://github.com\n") {
		t.Errorf("launch_log.txt = %q", launches)
	}
	diag := readLog(t, logDir, "diagnostics_log.txt")
	for _, want := range []string{"startup", "hotkey_activated", "session_start", "session_done", "shutdown"} {
		if !strings.Contains(diag, want) {
			t.Errorf("diagnostics missing %s", want)
		}
	}
}

func TestCancelRestoresFocus(t *testing.T) {
	out, logDir := runLaunchkey(t, cmds(
		"IDENTITY Notes|Untitled|com.apple.Notes",
		"CHORD", "PICKER", "CANCEL", "WAIT", "QUIT",
	), "--test")
	if !strings.Contains(out, "SESSION_DONE restored") {
		t.Errorf("session not restored:\n%s", out)
	}
	if launches := readLog(t, logDir, "launch_log.txt"); launches != "" {
		t.Errorf("cancelled session logged a launch: %q", launches)
	}
	diag := readLog(t, logDir, "diagnostics_log.txt")
	if !strings.Contains(diag, "cancel_requested") {
		t.Error("expected cancel_requested in diagnostics")
	}
	if !strings.Contains(diag, "app=Notes") {
		t.Error("expected captured identity in diagnostics")
	}
}

func TestBurstRunsOneFollowUp(t *testing.T) {
	out, _ := runLaunchkey(t, cmds(
		"CHORD", "PICKER", "CHORD", "CHORD", "CHORD", "SLEEP 100",
		"DISMISS", "WAIT", "DISMISS", "WAIT", "QUIT",
	), "--test")
	if n := strings.Count(out, "SESSION_START"); n != 2 {
		t.Errorf("sessions started = %d, want 2:\n%s", n, out)
	}
	if !strings.Contains(out, "STATS accepted=2 dropped=2 sessions=2") {
		t.Errorf("unexpected stats:\n%s", out)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := "hotkey: <alt>+k\nitems:\n  notes: {type: app, target: Notes}\n"
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	out, _ := runLaunchkey(t, cmds("CHORD", "CHOOSE notes", "WAIT", "QUIT"), "--test", "--config", path)
	if !strings.Contains(out, "READY <alt>+k") {
		t.Errorf("config hotkey not used:\n%s", out)
	}
	if !strings.Contains(out, "PERFORM app Notes") {
		t.Errorf("config item not launched:\n%s", out)
	}
}

func TestItemsCommand(t *testing.T) {
	out, _ := runLaunchkey(t, "", "items")
	for _, name := range []string{"claude", "gmail", "vscode", "xcode"} {
		if !strings.Contains(out, name) {
			t.Errorf("items output missing %s:\n%s", name, out)
		}
	}
	if strings.Index(out, "claude") > strings.Index(out, "xcode") {
		t.Error("items not sorted")
	}
}
