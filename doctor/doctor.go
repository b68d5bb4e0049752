package doctor

import (
	"context"
	"fmt"
	"os"
	"time"

	"launchkey/chord"
	"launchkey/config"
	"launchkey/hotkey"
	"launchkey/shutdown"
	"launchkey/window"
)

const (
	hotkeyTimeout = 10 * time.Second
	windowTimeout = 5 * time.Second
)

type Options struct {
	// Synthesize types the chord through a virtual keyboard instead of
	// waiting for the user to press it.
	Synthesize bool
}

// Run executes interactive diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(cfg *config.Config, opts Options) int {
	resetTerminal()
	go func() {
		shutdown.Wait()
		resetTerminal()
		fmt.Println("\nInterrupted")
		os.Exit(1)
	}()

	fmt.Println("launchkey doctor - interactive system diagnostics")
	fmt.Println("=================================================")

	allPass := checkConfig(cfg)
	if allPass && !checkHotkey(cfg, opts.Synthesize) {
		allPass = false
	}
	if allPass && !checkWindow() {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkConfig(cfg *config.Config) bool {
	fmt.Println()
	fmt.Println("[1/3] Configuration")
	src := cfg.Path
	if src == "" {
		src = "built-in defaults"
	}
	fmt.Printf("  source:     %s\n", src)
	fmt.Printf("  hotkey:     %s\n", cfg.Chord())
	fmt.Printf("  cancel key: %s\n", cfg.CancelKey())
	fmt.Printf("  items:      %d\n", len(cfg.Names()))
	fmt.Println("  PASS: configuration valid")
	return true
}

func checkHotkey(cfg *config.Config, synthesize bool) bool {
	fmt.Println()
	fmt.Println("[2/3] Hotkey detection")

	status, err := hotkey.Diagnose()
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Printf("  %s\n", status)

	src := hotkey.New(cfg.Chord(), cfg.CancelKey())
	if err := src.Register(); err != nil {
		fmt.Printf("  FAIL: could not register hotkey: %v\n", err)
		return false
	}
	defer src.Unregister()

	fired := make(chan struct{}, 1)
	rec := chord.NewRecognizer(cfg.Chord(), func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case ev, ok := <-src.Events():
				if !ok {
					return
				}
				rec.Feed(ev)
			}
		}
	}()

	if synthesize {
		fmt.Printf("Typing %s...\n", cfg.Chord())
		go func() {
			if err := typeChord(cfg.Chord()); err != nil {
				fmt.Printf("  Warning: could not synthesize chord: %v\n", err)
			}
		}()
	} else {
		fmt.Printf("Press %s...\n", cfg.Chord())
	}

	select {
	case <-fired:
		fmt.Println("  PASS: hotkey detected")
		// The chord may leave the terminal in raw mode.
		resetTerminal()
		return true
	case <-time.After(hotkeyTimeout):
		fmt.Println("  FAIL: timeout waiting for hotkey")
		return false
	}
}

func checkWindow() bool {
	fmt.Println()
	fmt.Println("[3/3] Window service")

	ctx, cancel := context.WithTimeout(context.Background(), windowTimeout)
	defer cancel()

	status, err := window.Diagnose(ctx)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Printf("  %s\n", status)

	svc, err := window.New()
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	id, err := svc.Snapshot(ctx)
	switch {
	case err != nil:
		fmt.Printf("  Warning: no focused window to restore (%v)\n", err)
	case !id.Usable():
		fmt.Printf("  Warning: focused window has no application name: %s\n", id)
	default:
		fmt.Printf("  focus would be restored to %s\n", id)
	}
	fmt.Println("  PASS: window service available")
	return true
}
