// Package logging provides the human-facing charm logger used for progress
// and debug messages. It is configured entirely through LEGDIS_LOG_*
// environment variables.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

const defaultPrefix = "legdis "

// NewLoggerWithWriter creates a logger writing to w.
// LEGDIS_LOG_LEVEL: debug, info, warn, error (default: info)
// LEGDIS_LOG_PREFIX: prefix for log messages (default: "legdis ")
func NewLoggerWithWriter(w io.Writer) *log.Logger {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	level, err := log.ParseLevel(os.Getenv("LEGDIS_LOG_LEVEL"))
	if err != nil {
		level = log.InfoLevel
	}
	lg.SetLevel(level)

	prefix := os.Getenv("LEGDIS_LOG_PREFIX")
	if prefix == "" {
		prefix = defaultPrefix
	}
	return lg.WithPrefix(prefix)
}

// NewLogger creates a logger on stderr.
func NewLogger() *log.Logger {
	return NewLoggerWithWriter(os.Stderr)
}

// IsDebug returns true if debug logging is enabled
func IsDebug() bool {
	return os.Getenv("LEGDIS_LOG_LEVEL") == "debug"
}
