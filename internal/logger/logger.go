// Package logger provides the leveled logger used across aspnetlint.
package logger

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

type Logger interface {
	Logf(format string, args ...interface{})
	Log(msg string)
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Spinner displays progress for a long-running operation.
type Spinner interface {
	// Update changes the spinner text while running.
	Update(text string)
	// Stop stops the spinner and prints a success indicator.
	Stop()
	// Fail stops the spinner and prints a failure indicator.
	Fail()
}

// NopSpinner is used when output is non-interactive (tests, piped output).
type NopSpinner struct{}

func (NopSpinner) Update(string) {}
func (NopSpinner) Stop()         {}
func (NopSpinner) Fail()         {}

// CharmLogger writes leveled, key/value friendly lines through
// charmbracelet/log.
type CharmLogger struct {
	l *log.Logger
}

// New returns a logger writing to w. Debug lines are only emitted when
// verbose is set.
func New(w io.Writer, verbose bool) *CharmLogger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	l := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: false,
		Prefix:          "aspnetlint",
	})
	return &CharmLogger{l: l}
}

func (c *CharmLogger) Logf(format string, args ...interface{}) {
	c.l.Info(trimNewline(fmt.Sprintf(format, args...)))
}

func (c *CharmLogger) Log(msg string) { c.l.Info(trimNewline(msg)) }

func (c *CharmLogger) Debugf(format string, args ...interface{}) {
	c.l.Debug(trimNewline(fmt.Sprintf(format, args...)))
}

func (c *CharmLogger) Warnf(format string, args ...interface{}) {
	c.l.Warn(trimNewline(fmt.Sprintf(format, args...)))
}

// With returns a logger that adds keyvals to every line.
func (c *CharmLogger) With(keyvals ...interface{}) *CharmLogger {
	return &CharmLogger{l: c.l.With(keyvals...)}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Logf(string, ...interface{})   {}
func (Nop) Log(string)                    {}
func (Nop) Debugf(string, ...interface{}) {}
func (Nop) Warnf(string, ...interface{})  {}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
