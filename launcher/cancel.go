package launcher

import (
	"context"

	"launchkey/log"
)

// Guard reports whether a session is running.
type Guard interface {
	InFlight() bool
}

type Dismisser interface {
	Dismiss(ctx context.Context, title string) bool
}

// Controller turns cancel key presses into picker dismiss requests. It only
// asks; the session sees the cancellation as an absent choice.
type Controller struct {
	guard  Guard
	window Dismisser
	title  string
}

func NewController(g Guard, w Dismisser, title string) *Controller {
	return &Controller{guard: g, window: w, title: title}
}

// OnCancelKey runs on the key event goroutine and never blocks. It reports
// whether a dismiss was requested. The picker may close on its own before
// the request lands; Dismiss treats that as success.
func (c *Controller) OnCancelKey(ctx context.Context) bool {
	if !c.guard.InFlight() {
		return false
	}
	log.Info("cancel_requested")
	go func() {
		if !c.window.Dismiss(ctx, c.title) {
			log.Warn("dismiss_failed")
		}
	}()
	return true
}
