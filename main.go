package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"time"

	"golang.org/x/term"

	"launchkey/action"
	"launchkey/config"
	"launchkey/hotkey"
	"launchkey/log"
	"launchkey/login"
	"launchkey/shutdown"
	"launchkey/tray"
	"launchkey/window"
)

var version = "dev"

// initCrashLog points runtime crash output at crash_log.txt in the log
// directory. Errors are ignored; crash logging is best effort.
func initCrashLog(logPath string) {
	dir, err := log.ResolveDir(logPath)
	if err != nil {
		return
	}
	log.SetDir(dir)
	if err := log.EnsureDir(); err != nil {
		return
	}
	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
	debug.SetCrashOutput(crashFile, debug.CrashOptions{})
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// daemonize re-execs the binary detached from the terminal and reports
// whether the caller should exit.
func daemonize() (bool, error) {
	if os.Getenv("_LAUNCHKEY_BG") != "" {
		return false, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return false, err
	}
	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = append(os.Environ(), "_LAUNCHKEY_BG=1")
	devnull, err := os.Open(os.DevNull)
	if err != nil {
		return false, err
	}
	defer devnull.Close()
	cmd.Stdin, cmd.Stdout, cmd.Stderr = devnull, devnull, devnull
	if err := cmd.Start(); err != nil {
		return false, fmt.Errorf("starting background process: %w", err)
	}
	fmt.Printf("launchkey running in background (pid %d)\n", cmd.Process.Pid)
	return true, nil
}

func runDaemon(o *options) error {
	initCrashLog(o.logPath)

	cfg, err := config.Load(config.ResolvePath(o.configPath))
	if err != nil {
		return err
	}

	if o.background {
		exit, err := daemonize()
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
	}

	log.SetVerbose(o.verbose)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	if cfg.Path != "" {
		log.Info("config_loaded: " + cfg.Path)
	}

	if o.test {
		return runTestMode(cfg, os.Stdin, os.Stdout)
	}

	win, err := window.New()
	if err != nil {
		log.Errorf("window service init error: %v", err)
		return fmt.Errorf("window service: %w", err)
	}

	useTUI := o.tui && stdoutIsTerminal() && os.Getenv("_LAUNCHKEY_BG") == ""
	var sink EventSink = nopSink{}
	var tuiDone <-chan struct{}
	if useTUI {
		tuiDone = startTUI(cfg)
		sink = tuiSink{}
	}

	a := newApp(cfg, hotkey.New(cfg.Chord(), cfg.CancelKey()), win, action.NewLauncher(), sink)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := a.start(ctx); err != nil {
		log.Errorf("hotkey register error: %v", err)
		stopTUI()
		return err
	}

	var trayQuit <-chan struct{}
	if !useTUI {
		fmt.Printf("Listening for '%s' to run your launcher.\n", cfg.Hotkey)
		fmt.Printf("Press '%s' to kill a running launcher.\n", cfg.Cancel)
		trayQuit = startTray(a)
	}

	if sig := shutdown.Wait(tuiDone, trayQuit); sig != nil {
		log.Info("signal_received: " + sig.String())
	}

	cancel()
	a.stop()
	stopTUI()
	tray.Quit()
	return nil
}

// startTray shows the menu bar icon where the platform has one.
func startTray(a *app) <-chan struct{} {
	cfg := a.cfg
	items := cfg.Items()
	list := make([]tray.Item, 0, len(items))
	for _, name := range cfg.Names() {
		list = append(list, tray.Item{Name: name, Detail: items[name].String()})
	}
	tray.SetHotkey(cfg.Hotkey)
	tray.SetItems(list, func(name string) { a.launch(name) })
	tray.OnOpen(a.activate)
	tray.SetLogin(login.Enabled())
	tray.OnLogin(setLogin)
	a.disp.OnStateChange(func(active bool) {
		tray.SetActive(active)
		if !active {
			tray.SetSessions(a.disp.Stats().Sessions)
		}
	})
	return tray.Init()
}

func setLogin(on bool) error {
	if on {
		return login.Enable()
	}
	return login.Disable()
}
