// Package tray shows the launcher's menu bar icon. Only macOS has a tray;
// elsewhere every call is a no-op and Init's channel never fires.
package tray

import (
	"fmt"
	"sync"
	"time"
)

type Item struct {
	Name   string
	Detail string
}

var (
	quitCh    = make(chan struct{})
	closeOnce sync.Once

	openFn func()

	itemMu   sync.Mutex
	items    []Item
	launchFn func(name string)

	hotkey string
	active bool

	loginOn bool
	loginCb func(bool) error
)

func OnOpen(fn func())            { openFn = fn }
func SetHotkey(h string)          { hotkey = h }
func SetLogin(on bool)            { loginOn = on }
func OnLogin(fn func(bool) error) { loginCb = fn }

// SetItems lists the launcher items in the menu; clicking one calls onLaunch
// with its name. Must be called before Init.
func SetItems(list []Item, onLaunch func(name string)) {
	itemMu.Lock()
	items = list
	launchFn = onLaunch
	itemMu.Unlock()
}

func idleTooltip() string {
	if hotkey == "" {
		return "launchkey"
	}
	return "launchkey – " + hotkey + " to launch"
}

// SetActive switches the icon while a picker is open.
func SetActive(on bool) {
	active = on
	updateActiveIcon(on)
}

func SetError(msg string) {
	updateWarningIcon(true)
	updateTooltip("launchkey – " + msg)
	go func() {
		time.Sleep(10 * time.Second)
		updateWarningIcon(false)
		updateTooltip(idleTooltip())
	}()
}

func SetSessions(n uint64) {
	updateSessionsTitle(fmt.Sprintf("Sessions: %d", n))
}

func Quit() {
	closeOnce.Do(func() { close(quitCh) })
}
