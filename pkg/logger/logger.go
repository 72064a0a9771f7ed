// Package logger holds the process-wide zerolog instance for the console
// gateway. Init is called once from main; packages that need their own
// context derive a child with With.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the root logger.
type Options struct {
	// Level is the minimum level emitted: trace, debug, info, warn or error.
	// Anything else falls back to info.
	Level string
	// Pretty switches to human-readable console output for local runs.
	// Production deployments leave this off and get JSON lines.
	Pretty bool
	// Output receives the log stream. Nil means os.Stdout.
	Output io.Writer
}

var (
	mu    sync.Mutex
	root  zerolog.Logger
	ready bool
)

// Init builds the root logger. The first call wins; later calls return the
// existing instance unchanged.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if ready {
		return root
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl := levelFrom(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	root = zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
	ready = true
	return root
}

// Get returns the root logger. It panics when Init has not run, which means
// a wiring bug in main.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if !ready {
		panic("logger: Get before Init")
	}
	return root
}

// With derives a child logger tagged with a component name, so log lines can
// be traced back to the subsystem that wrote them.
func With(component string) zerolog.Logger {
	return Get().With().Str("component", component).Logger()
}

// Reset discards the root logger so the next Init rebuilds it. Test helper.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	root = zerolog.Logger{}
	ready = false
}

func levelFrom(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
