package main

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"launchkey/action"
	"launchkey/chord"
	"launchkey/config"
	"launchkey/hotkey"
	"launchkey/launcher"
	"launchkey/log"
	"launchkey/window"
)

const testWaitTimeout = 5 * time.Second

// scriptSink reports events as lines and hands finished sessions to WAIT.
type scriptSink struct {
	*lineSink
	done chan launcher.Result
}

func (s *scriptSink) SessionDone(r launcher.Result) {
	s.lineSink.SessionDone(r)
	select {
	case s.done <- r:
	default:
	}
}

// printPerformer reports actions instead of launching anything.
type printPerformer struct{ out *lineSink }

func (p printPerformer) Perform(d action.Descriptor) {
	p.out.printf("PERFORM %s %s", d.Kind, d.Target)
}

// runTestMode drives the launcher headlessly from a line script on in. The
// key source and the window service are fakes; their activity and every
// launcher event is written to out.
//
// Commands: PRESS <key>, RELEASE <key>, CHORD, CANCEL, CHOOSE <name>,
// DISMISS, PICKER (wait for the picker to open), WAIT, SLEEP <ms>, QUIT,
// and IDENTITY <app>|<title>|<bundle> ("-" for an absent field,
// "IDENTITY -" for no focus).
func runTestMode(cfg *config.Config, in io.Reader, out io.Writer) error {
	lines := &lineSink{w: out}
	sink := &scriptSink{lineSink: lines, done: make(chan launcher.Result, 16)}

	keys := hotkey.NewFake()
	win := window.NewFake()
	win.Trace = lines
	a := newApp(cfg, keys, win, printPerformer{out: lines}, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := a.start(ctx); err != nil {
		return err
	}
	lines.printf("READY %s", cfg.Chord())

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		switch cmd {
		case "PRESS":
			keys.SimPress(scriptKey(arg))
		case "RELEASE":
			keys.SimRelease(scriptKey(arg))
		case "CHORD":
			keys.SimChord(cfg.Chord())
		case "CANCEL":
			keys.SimPress(cfg.CancelKey())
			keys.SimRelease(cfg.CancelKey())
		case "CHOOSE":
			if !waitPicker(win) || !win.Choose(arg) {
				lines.printf("NO_PICKER")
			}
		case "DISMISS":
			if !waitPicker(win) || !win.Cancel() {
				lines.printf("NO_PICKER")
			}
		case "PICKER":
			if !waitPicker(win) {
				lines.printf("NO_PICKER")
			}
		case "IDENTITY":
			win.SetIdentity(parseIdentity(arg))
		case "WAIT":
			select {
			case <-sink.done:
			case <-time.After(testWaitTimeout):
				lines.printf("TIMEOUT")
			}
		case "SLEEP":
			if ms, err := strconv.Atoi(arg); err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			}
		case "QUIT":
			cancel()
			a.stop()
			lines.printf("STATS %s", a.disp.Stats())
			return nil
		default:
			log.Warnf("test mode: unknown command %q", line)
			lines.printf("UNKNOWN %s", cmd)
		}
	}
	cancel()
	a.stop()
	return scanner.Err()
}

// scriptKey canonicalizes a key name; unparseable names pass through raw so
// the recognizers see (and reject) them.
func scriptKey(s string) chord.Key {
	if k, err := chord.ParseKey(s); err == nil {
		return k
	}
	return chord.Key(s)
}

// parseIdentity reads "app|title|bundle". A field of "-" is absent and an
// empty field is present but empty; fields left off are absent. A bare "-"
// or nothing at all means no focused window.
func parseIdentity(s string) *window.Identity {
	if s == "" || s == "-" {
		return nil
	}
	parts := strings.SplitN(s, "|", 3)
	id := &window.Identity{}
	fields := []**string{&id.AppName, &id.WindowTitle, &id.BundleID}
	for i, p := range parts {
		if p != "-" {
			*fields[i] = window.Str(p)
		}
	}
	return id
}

func waitPicker(win *window.Fake) bool {
	deadline := time.Now().Add(testWaitTimeout)
	for !win.IsOpen() {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(5 * time.Millisecond)
	}
	return true
}
