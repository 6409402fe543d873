// Package logger provides modifications to charmbracelet/log's default logger to be used in various files/packages.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a new default charm log that respects the global log level.
// Output goes to stderr so stdout stays free for matches and IPC frames.
func New(prefix string) *log.Logger {
	return NewWithConfig(os.Stderr, prefix, log.GetLevel(), false, false, log.TextFormatter)
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}
