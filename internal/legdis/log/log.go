package log

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"

	slogmulti "github.com/samber/slog-multi"
	"github.com/tebeka/atexit"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
)

// Setup installs the default slog logger. Records always go to stderr; when
// logFile is set they are also appended to that file.
func Setup(logFile string, debug bool) {
	initOnce.Do(func() {
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		opts := &slog.HandlerOptions{
			Level:     level,
			AddSource: debug,
		}

		handlers := []slog.Handler{slog.NewTextHandler(os.Stderr, opts)}
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
			if err == nil {
				handlers = append(handlers, slog.NewJSONHandler(f, opts))
				atexit.Register(func() { f.Close() })
			}
			// If file creation fails, stderr alone still works
		}

		slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)))
		initialized.Store(true)
	})
}

func Initialized() bool {
	return initialized.Load()
}

func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		if Initialized() {
			slog.Error(fmt.Sprintf("Panic in %s", name),
				"panic", r,
				"stack", string(debug.Stack()))
		}
		if cleanup != nil {
			cleanup()
		}
	}
}
