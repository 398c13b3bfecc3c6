package ui

import (
	"fmt"
	"io"
	"os"
)

// Logger writes leveled, color-coded status lines to an injected writer.
// It replaces ad hoc prints so commands and tests control where output goes.
type Logger struct {
	out     io.Writer
	verbose bool
}

// NewLogger creates a Logger writing to out.
func NewLogger(out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	return &Logger{out: out}
}

// SetVerbose enables debug output.
func (l *Logger) SetVerbose(v bool) {
	l.verbose = v
}

// Info prints an informational line.
func (l *Logger) Info(format string, args ...interface{}) {
	fmt.Fprintf(l.out, "%s %s\n", InfoStyle.Render("[INFO]"), fmt.Sprintf(format, args...))
}

// OK prints a success line.
func (l *Logger) OK(format string, args ...interface{}) {
	fmt.Fprintf(l.out, "%s %s\n", SuccessStyle.Render("[OK]"), fmt.Sprintf(format, args...))
}

// Warn prints a warning line.
func (l *Logger) Warn(format string, args ...interface{}) {
	fmt.Fprintf(l.out, "%s %s\n", WarningStyle.Render("[WARNING]"), fmt.Sprintf(format, args...))
}

// Error prints an error line.
func (l *Logger) Error(format string, args ...interface{}) {
	fmt.Fprintf(l.out, "%s %s\n", ErrorStyle.Render("[ERROR]"), fmt.Sprintf(format, args...))
}

// Debug prints a dimmed line when verbose output is enabled.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	fmt.Fprintf(l.out, "%s\n", DimStyle.Render(fmt.Sprintf(format, args...)))
}

// Command prints the external command about to run, dimmed and italic.
func (l *Logger) Command(cmdline string) {
	if !l.verbose {
		return
	}
	fmt.Fprintf(l.out, "  %s\n", CommandStyle.Render("$ "+cmdline))
}
