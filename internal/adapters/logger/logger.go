// Package logger implements ports.Logger on log/slog. Run diagnostics
// (cache hits, report paths, toolchain chatter) are rendered as terse
// styled lines that share the terminal with the stage renderers;
// failed runs are rendered as a cause chain so the notebook, the
// pipeline step and the underlying command error read top-down.
package logger

import (
	"io"
	"log/slog"
	"os"

	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.Logger = (*Logger)(nil)

// Logger implements ports.Logger.
type Logger struct {
	logger *slog.Logger
}

// New creates the default Logger writing styled lines to stderr.
func New() ports.Logger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{logger: slog.New(newHandler(w, slog.LevelInfo))}
}

// Info logs a run diagnostic.
func (l *Logger) Info(msg string) {
	l.logger.Info(msg)
}

// Warn logs a recoverable condition.
func (l *Logger) Warn(msg string) {
	l.logger.Warn(msg)
}

// Error logs a failure as its rendered cause chain.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}
	l.logger.Error(renderCauseChain(causeChain(err)))
}
