//go:build darwin

package tray

import (
	"github.com/energye/systray"
	"golang.design/x/hotkey/mainthread"
)

var (
	mOpen     *systray.MenuItem
	mItems    *systray.MenuItem
	mSessions *systray.MenuItem
	mLogin    *systray.MenuItem
)

func Init() <-chan struct{} {
	start, _ := systray.RunWithExternalLoop(onReady, onExit)
	done := make(chan struct{})
	mainthread.Call(func() {
		start()
		close(done)
	})
	<-done
	return quitCh
}

func updateActiveIcon(on bool) {
	if on {
		systray.SetIcon(iconActiveHi)
		if mOpen != nil {
			mOpen.Disable()
		}
	} else {
		systray.SetTemplateIcon(iconIdleHi, iconIdle)
		if mOpen != nil {
			mOpen.Enable()
		}
	}
}

func updateWarningIcon(on bool) {
	switch {
	case on:
		systray.SetIcon(iconWarnHi)
	case active:
		systray.SetIcon(iconActiveHi)
	default:
		systray.SetTemplateIcon(iconIdleHi, iconIdle)
	}
}

func updateTooltip(msg string) {
	systray.SetTooltip(msg)
}

func updateSessionsTitle(title string) {
	if mSessions != nil {
		mSessions.SetTitle(title)
	}
}

func onReady() {
	systray.SetTemplateIcon(iconIdleHi, iconIdle)
	systray.SetTooltip(idleTooltip())

	title := "Open Launcher"
	if hotkey != "" {
		title += " (" + hotkey + ")"
	}
	mOpen = systray.AddMenuItem(title, "Show the launcher picker")
	mOpen.Click(func() {
		if openFn != nil {
			openFn()
		}
	})

	mItems = systray.AddMenuItem("Launch", "Launch an item directly")
	itemMu.Lock()
	for _, it := range items {
		name := it.Name
		item := mItems.AddSubMenuItem(name, it.Detail)
		item.Click(func() {
			itemMu.Lock()
			fn := launchFn
			itemMu.Unlock()
			if fn != nil {
				fn(name)
			}
		})
	}
	itemMu.Unlock()

	systray.AddSeparator()
	mSessions = systray.AddMenuItem("Sessions: 0", "Launcher sessions run")
	mSessions.Disable()

	mLogin = systray.AddMenuItemCheckbox("Start on Login", "Run launchkey when you log in", loginOn)
	mLogin.Click(func() {
		want := !mLogin.Checked()
		if loginCb != nil {
			if err := loginCb(want); err != nil {
				SetError(err.Error())
				return
			}
		}
		if want {
			mLogin.Check()
		} else {
			mLogin.Uncheck()
		}
	})

	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit launchkey")
	mQuit.Click(func() { Quit() })
	systray.CreateMenu()
}

func onExit() {
	closeOnce.Do(func() { close(quitCh) })
}
