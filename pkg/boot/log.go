// SPDX-License-Identifier: MPL-2.0

package boot

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// ConsolePrefix prefixes console progress lines.
const ConsolePrefix = "components"

// NewConsoleLogger returns an slog logger writing styled lines to w.
func NewConsoleLogger(w io.Writer) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		Prefix: ConsolePrefix,
		Level:  log.InfoLevel,
	})
	return slog.New(handler)
}

// loggers returns the diagnostic logger and the progress logger (nil unless verbose).
func loggers(opts Options, console io.Writer) (logger, progress *slog.Logger) {
	logger = opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if !opts.Verbose {
		return logger, nil
	}
	if opts.Logger != nil {
		return logger, opts.Logger
	}
	return logger, NewConsoleLogger(console)
}
