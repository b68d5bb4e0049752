//go:build darwin

package window

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// focusScript sets appField, titleField and bundleField from the frontmost
// process. Shared by the snapshot and snapshot+present scripts.
const focusScript = `
	set RS to character id 30
	set appField to "-"
	set titleField to "-"
	set bundleField to "-"
	try
		tell application "System Events"
			set fp to first application process whose frontmost is true
			set appField to "+" & (name of fp)
			try
				set b to bundle identifier of fp
				if b is not missing value then set bundleField to "+" & b
			end try
			try
				set w to name of front window of fp
				if w is not missing value then set titleField to "+" & w
			end try
		end tell
	end try`

const snapshotScript = `on run argv` + focusScript + `
	return appField & RS & titleField & RS & bundleField
end run`

// pickerScript expects argv = title, prompt, labels...
const pickerScript = `
	set choiceField to "-"
	if (count of argv) > 2 then
		set labels to items 3 thru -1 of argv
		try
			tell application "System Events"
				activate
				set picked to choose from list labels with title (item 1 of argv) with prompt (item 2 of argv)
			end tell
			if picked is not false then set choiceField to "+" & (item 1 of picked)
		end try
	end if`

const presentScript = `on run argv` + pickerScript + `
	return choiceField
end run`

// snapshotAndPresentScript reads focus and opens the picker in a single
// osascript run, so nothing can take focus in between.
const snapshotAndPresentScript = `on run argv` + focusScript + pickerScript + `
	return appField & RS & titleField & RS & bundleField & RS & choiceField
end run`

const dismissScript = `on run argv
	set dlgTitle to item 1 of argv
	tell application "System Events"
		if not (exists process "System Events") then return "absent"
		tell process "System Events"
			if exists window dlgTitle then
				click button "Cancel" of window dlgTitle
				return "dismissed"
			end if
		end tell
	end tell
	return "absent"
end run`

const activateBundleScript = `on run argv
	tell application id (item 1 of argv) to activate
end run`

const activateAppScript = `on run argv
	tell application (item 1 of argv) to activate
end run`

const raiseWindowScript = `on run argv
	tell application "System Events" to tell process (item 1 of argv)
		perform action "AXRaise" of (first window whose name is (item 2 of argv))
	end tell
end run`

// OSAScript drives System Events through osascript. Arguments are passed
// through argv, never spliced into script text.
type OSAScript struct{}

func New() (Service, error) {
	if _, err := exec.LookPath("osascript"); err != nil {
		return nil, fmt.Errorf("osascript not found: %w", err)
	}
	return &OSAScript{}, nil
}

func runScript(ctx context.Context, script string, args ...string) (string, error) {
	var cmdArgs []string
	for _, line := range strings.Split(script, "\n") {
		cmdArgs = append(cmdArgs, "-e", line)
	}
	cmdArgs = append(cmdArgs, args...)

	out, err := exec.CommandContext(ctx, "osascript", cmdArgs...).Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("osascript: %w: %s", err, strings.TrimSpace(string(ee.Stderr)))
		}
		return "", fmt.Errorf("osascript: %w", err)
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

func promptArgs(p Prompt) []string {
	return append([]string{p.Title, p.Message}, p.Labels...)
}

func (s *OSAScript) Snapshot(ctx context.Context) (*Identity, error) {
	out, err := runScript(ctx, snapshotScript)
	if err != nil {
		return nil, err
	}
	f, err := decodeFields(out, 3)
	if err != nil {
		return nil, err
	}
	if f[0] == nil {
		return nil, ErrNoFocus
	}
	return &Identity{AppName: f[0], WindowTitle: f[1], BundleID: f[2]}, nil
}

func (s *OSAScript) Present(ctx context.Context, p Prompt) (string, bool, error) {
	out, err := runScript(ctx, presentScript, promptArgs(p)...)
	if err != nil {
		return "", false, err
	}
	f, err := decodeFields(out, 1)
	if err != nil {
		return "", false, err
	}
	if f[0] == nil {
		return "", false, nil
	}
	return *f[0], true, nil
}

func (s *OSAScript) SnapshotAndPresent(ctx context.Context, p Prompt) (Outcome, error) {
	out, err := runScript(ctx, snapshotAndPresentScript, promptArgs(p)...)
	if err != nil {
		return Outcome{}, err
	}
	f, err := decodeFields(out, 4)
	if err != nil {
		return Outcome{}, err
	}
	var o Outcome
	if f[0] != nil {
		o.Identity = &Identity{AppName: f[0], WindowTitle: f[1], BundleID: f[2]}
	}
	if f[3] != nil {
		o.Choice, o.Chosen = *f[3], true
	}
	return o, nil
}

func (s *OSAScript) Restore(ctx context.Context, id Identity) bool {
	return RestoreWith(ctx, s, id)
}

func (s *OSAScript) Dismiss(ctx context.Context, title string) bool {
	_, err := runScript(ctx, dismissScript, title)
	return err == nil
}

func (s *OSAScript) ActivateBundle(ctx context.Context, bundleID string) error {
	_, err := runScript(ctx, activateBundleScript, bundleID)
	return err
}

func (s *OSAScript) ActivateApp(ctx context.Context, appName string) error {
	_, err := runScript(ctx, activateAppScript, appName)
	return err
}

func (s *OSAScript) RaiseWindow(ctx context.Context, appName, title string) error {
	_, err := runScript(ctx, raiseWindowScript, appName, title)
	return err
}

// Diagnose reports whether System Events answers.
func Diagnose(ctx context.Context) (string, error) {
	s := &OSAScript{}
	id, err := s.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("reading focus via System Events (grant Accessibility/Automation access): %w", err)
	}
	return "focused window: " + id.String(), nil
}
