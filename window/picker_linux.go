//go:build linux

package window

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// picker runs an external list dialog. zenity is preferred; rofi is the
// fallback for minimal window managers.
type picker struct {
	name string
	args func(p Prompt) []string
	// stdin is true when labels are fed one per line on standard input.
	stdin bool

	mu    sync.Mutex
	cmd   *exec.Cmd
	title string
}

func findPicker() (*picker, error) {
	if _, err := exec.LookPath("zenity"); err == nil {
		return &picker{name: "zenity", args: zenityArgs}, nil
	}
	if _, err := exec.LookPath("rofi"); err == nil {
		return &picker{name: "rofi", args: rofiArgs, stdin: true}, nil
	}
	return nil, errors.New("no picker found (install zenity or rofi)")
}

func zenityArgs(p Prompt) []string {
	args := []string{"--list", "--title", p.Title, "--text", p.Message, "--column", p.Title, "--hide-header"}
	return append(args, p.Labels...)
}

func rofiArgs(p Prompt) []string {
	return []string{"-dmenu", "-i", "-p", p.Message, "-window-title", p.Title}
}

// run blocks until the dialog exits. A non-zero exit or empty output is a
// cancellation, not an error.
func (pk *picker) run(ctx context.Context, p Prompt) (string, bool, error) {
	if len(p.Labels) == 0 {
		return "", false, nil
	}
	cmd := exec.CommandContext(ctx, pk.name, pk.args(p)...)
	if pk.stdin {
		cmd.Stdin = strings.NewReader(strings.Join(p.Labels, "\n") + "\n")
	}
	var out strings.Builder
	cmd.Stdout = &out

	pk.mu.Lock()
	if err := cmd.Start(); err != nil {
		pk.mu.Unlock()
		return "", false, fmt.Errorf("starting %s: %w", pk.name, err)
	}
	pk.cmd, pk.title = cmd, p.Title
	pk.mu.Unlock()

	err := cmd.Wait()

	pk.mu.Lock()
	pk.cmd = nil
	pk.mu.Unlock()

	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%s: %w", pk.name, err)
	}
	choice := strings.TrimRight(out.String(), "\r\n")
	if choice == "" {
		return "", false, nil
	}
	return choice, true, nil
}

// dismiss kills the running dialog if it carries title. No dialog is fine.
func (pk *picker) dismiss(title string) bool {
	pk.mu.Lock()
	defer pk.mu.Unlock()
	if pk.cmd == nil || pk.cmd.Process == nil || pk.title != title {
		return true
	}
	if err := pk.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return false
	}
	return true
}
