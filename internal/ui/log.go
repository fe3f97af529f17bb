package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Logger prints leveled diagnostics. Verbose and debug levels count how many
// times -v and -d were given. A nil Logger discards everything.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose int
	debug   int
}

// NewLogger creates a new Logger writing to out
func NewLogger(out io.Writer, verbose, debug int) *Logger {
	return &Logger{out: out, verbose: verbose, debug: debug}
}

// Debugf prints a debug message when the debug level is at least level
func (l *Logger) Debugf(level int, format string, args ...any) {
	if l == nil || l.debug < level {
		return
	}
	l.print(color.New(color.FgHiBlack), "debug: "+format, args...)
}

// Verbosef prints a message when the verbosity level is at least level
func (l *Logger) Verbosef(level int, format string, args ...any) {
	if l == nil || l.verbose < level {
		return
	}
	l.print(color.New(color.FgWhite), format, args...)
}

// Warnf prints a warning
func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	l.print(color.New(color.FgYellow), "warning: "+format, args...)
}

func (l *Logger) print(c *color.Color, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c.Fprintf(l.out, format, args...)
	if !strings.HasSuffix(format, "\n") {
		fmt.Fprintln(l.out)
	}
}
