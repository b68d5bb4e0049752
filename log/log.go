package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog    zerolog.Logger
	diagFile   *os.File
	launchFile *os.File
	logMu      sync.Mutex
	logReady   bool
	pid        int
	dir        string
	stderrTee  bool
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: --logpath flag
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	// Priority 2: LAUNCHKEY_LOG_PATH environment variable
	envPath := os.Getenv("LAUNCHKEY_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	// Priority 3: Default OS-specific location
	return defaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

// SetVerbose mirrors diagnostics to stderr and enables debug messages.
// Must be called before Init.
func SetVerbose(on bool) {
	stderrTee = on
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	launchPath := filepath.Join(dir, "launch_log.txt")
	launchFile, err = os.OpenFile(launchPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	var out io.Writer = zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	if stderrTee {
		out = zerolog.MultiLevelWriter(out, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		})
	}
	level := zerolog.InfoLevel
	if stderrTee {
		level = zerolog.DebugLevel
	}
	diagLog = zerolog.New(out).Level(level).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	logReady = false
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if launchFile != nil {
		launchFile.Close()
		launchFile = nil
	}
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Debugf(format string, args ...any) {
	if logReady {
		diagLog.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// Window logs a captured window identity. Absent fields are omitted so they
// stay distinguishable from empty ones.
func Window(msg string, app, title, bundle *string) {
	if !logReady {
		return
	}
	ev := diagLog.Info()
	if app != nil {
		ev = ev.Str("app", *app)
	}
	if title != nil {
		ev = ev.Str("title", *title)
	}
	if bundle != nil {
		ev = ev.Str("bundle", *bundle)
	}
	ev.Msg(msg)
}

// Session logs the outcome of one launcher invocation.
func Session(state, choice string, restored bool, elapsed time.Duration) {
	if !logReady {
		return
	}
	ev := diagLog.Info().Str("state", state)
	if choice != "" {
		ev = ev.Str("choice", choice)
	}
	ev.Bool("restored", restored).
		Float64("elapsed_ms", float64(elapsed.Microseconds())/1000).
		Msg("session_done")
}

// Launch appends a performed action to launch_log.txt.
func Launch(name, kind, target string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("item", name).
		Str("kind", kind).
		Str("target", target).
		Msg("launch")

	logMu.Lock()
	defer logMu.Unlock()
	if launchFile == nil {
		return
	}
	line := fmt.Sprintf("%s\t[%d]\t%s\t%s\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, name, kind, target)
	launchFile.WriteString(line)
}

func Startup(hotkey, cancelKey string, items int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("hotkey", hotkey).
		Str("cancel_key", cancelKey).
		Int("items", items).
		Msg("startup")
}

func Shutdown(sessions uint64, dropped uint64) {
	if !logReady {
		return
	}
	diagLog.Info().
		Uint64("sessions", sessions).
		Uint64("dropped", dropped).
		Msg("shutdown")
}
