// Package window captures and restores the focused window and shows the
// launcher's modal picker.
package window

import (
	"context"
	"errors"

	"launchkey/log"
)

var (
	ErrUnsupported = errors.New("window service not supported on this platform")
	ErrNoFocus     = errors.New("no focused window")
)

// Identity is the window that had focus when the picker opened. Each field
// is nil when the platform could not resolve it; nil and "" differ.
type Identity struct {
	AppName     *string
	WindowTitle *string
	BundleID    *string
}

// Str returns a pointer to s, for building identities.
func Str(s string) *string { return &s }

// Usable reports whether the identity names an application to restore.
func (id *Identity) Usable() bool {
	return id != nil && id.AppName != nil && *id.AppName != ""
}

func (id *Identity) String() string {
	if id == nil {
		return "none"
	}
	s := "app=" + opt(id.AppName)
	s += " title=" + opt(id.WindowTitle)
	s += " bundle=" + opt(id.BundleID)
	return s
}

func opt(p *string) string {
	if p == nil {
		return "-"
	}
	return "'" + *p + "'"
}

// Prompt describes one picker: its window title, the prompt line and the
// labels in presentation order.
type Prompt struct {
	Title   string
	Message string
	Labels  []string
}

// Outcome is the result of SnapshotAndPresent. Identity is nil when focus
// could not be read; Chosen is false when the user cancelled or the picker
// was dismissed.
type Outcome struct {
	Identity *Identity
	Choice   string
	Chosen   bool
}

type Service interface {
	// Snapshot returns the focused window.
	Snapshot(ctx context.Context) (*Identity, error)
	// Present blocks on a modal picker and returns the chosen label.
	Present(ctx context.Context, p Prompt) (choice string, chosen bool, err error)
	// SnapshotAndPresent captures focus and opens the picker as one step,
	// so focus cannot move between the two.
	SnapshotAndPresent(ctx context.Context, p Prompt) (Outcome, error)
	// Restore brings id back to the front and reports whether any
	// activation succeeded.
	Restore(ctx context.Context, id Identity) bool
	// Dismiss closes the picker with the given title. A picker that is
	// already gone counts as success.
	Dismiss(ctx context.Context, title string) bool
}

// Activator is the set of focus primitives Restore is built from.
type Activator interface {
	ActivateBundle(ctx context.Context, bundleID string) error
	ActivateApp(ctx context.Context, appName string) error
	RaiseWindow(ctx context.Context, appName, title string) error
}

type attempt struct {
	name string
	run  func() error
}

// RestoreWith activates id by bundle id first and by app name second,
// stopping at the first that works. When a title was captured it then
// raises that window; that last step is best effort and does not change
// the result.
func RestoreWith(ctx context.Context, a Activator, id Identity) bool {
	if !id.Usable() {
		return false
	}
	app := *id.AppName

	var attempts []attempt
	if id.BundleID != nil && *id.BundleID != "" {
		bundle := *id.BundleID
		attempts = append(attempts, attempt{"bundle " + bundle, func() error { return a.ActivateBundle(ctx, bundle) }})
	}
	attempts = append(attempts, attempt{"app " + app, func() error { return a.ActivateApp(ctx, app) }})

	activated := false
	for _, at := range attempts {
		if err := at.run(); err != nil {
			log.Warnf("restore via %s failed: %v", at.name, err)
			continue
		}
		activated = true
		break
	}
	if !activated {
		return false
	}

	if id.WindowTitle != nil && *id.WindowTitle != "" {
		if err := a.RaiseWindow(ctx, app, *id.WindowTitle); err != nil {
			log.Warnf("raise window %q of %s failed: %v", *id.WindowTitle, app, err)
		}
	}
	return true
}
