// Package notify is the user-facing notification surface: short success and
// error messages shown once, outside the rendered views.
package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Notifier shows one-off messages to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Writer prints notifications as single lines.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter returns a Writer printing to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) Success(message string) {
	w.print("✓", message)
}

func (w *Writer) Error(message string) {
	w.print("✗", message)
}

func (w *Writer) print(mark, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintf(w.out, "%s %s\n", mark, message)
}

// Log forwards notifications to a zap logger.
type Log struct {
	logger *zap.Logger
}

// NewLog returns a Notifier writing to logger.
func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Success(message string) {
	l.logger.Info("notification", zap.String("kind", "success"), zap.String("message", message))
}

func (l *Log) Error(message string) {
	l.logger.Warn("notification", zap.String("kind", "error"), zap.String("message", message))
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Error(string)   {}
