package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// UILogger routes info lines into the active spinner's status text while a
// spinner is attached, and to the wrapped logger otherwise. Warnings always
// reach the wrapped logger.
type UILogger struct {
	base    Logger
	mu      sync.Mutex
	spinner Spinner
}

func NewUILogger(base Logger) *UILogger {
	return &UILogger{base: base}
}

// IsInteractive reports whether stdout is attached to a terminal.
func IsInteractive() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// Attach makes s the target of subsequent info lines until Detach.
func (l *UILogger) Attach(s Spinner) {
	l.mu.Lock()
	l.spinner = s
	l.mu.Unlock()
}

func (l *UILogger) Detach() {
	l.mu.Lock()
	l.spinner = nil
	l.mu.Unlock()
}

func (l *UILogger) current() Spinner {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.spinner
}

func (l *UILogger) Logf(format string, args ...interface{}) {
	if s := l.current(); s != nil {
		s.Update(flatten(fmt.Sprintf(format, args...)))
		return
	}
	l.base.Logf(format, args...)
}

func (l *UILogger) Log(msg string) {
	if s := l.current(); s != nil {
		s.Update(flatten(msg))
		return
	}
	l.base.Log(msg)
}

func (l *UILogger) Debugf(format string, args ...interface{}) {
	if l.current() != nil {
		return
	}
	l.base.Debugf(format, args...)
}

func (l *UILogger) Warnf(format string, args ...interface{}) {
	l.base.Warnf(format, args...)
}

func flatten(text string) string {
	text = strings.TrimSuffix(text, "\n")
	return strings.ReplaceAll(text, "\n", " ")
}
