package lox

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sambeau/lox/pkg/lox/evaluator"
)

// Logger receives print output; see evaluator.Logger.
type Logger = evaluator.Logger

// StdoutLogger prints to standard output. It is the interpreter default.
func StdoutLogger() Logger {
	return evaluator.DefaultLogger
}

// WriterLogger prints each line to w.
func WriterLogger(w io.Writer) Logger {
	return evaluator.LoggerFunc(func(line string) {
		fmt.Fprintln(w, line)
	})
}

// NullLogger discards print output. Check uses it, since checking never
// runs a program.
func NullLogger() Logger {
	return evaluator.LoggerFunc(func(string) {})
}

// BufferedLogger keeps printed lines in memory. It is safe to read from
// another goroutine while a program runs.
type BufferedLogger struct {
	mu    sync.Mutex
	lines []string
}

func NewBufferedLogger() *BufferedLogger {
	return &BufferedLogger{}
}

func (l *BufferedLogger) LogLine(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
}

// String returns the output as it would have appeared on a terminal.
func (l *BufferedLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.lines) == 0 {
		return ""
	}
	return strings.Join(l.lines, "\n") + "\n"
}

// Lines returns a copy of the printed lines.
func (l *BufferedLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

func (l *BufferedLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
}
