// Package ui renders xish's user-facing output: colorized error/status
// messages, gated on both an explicit --no-color flag and TTY detection, so
// piped output never carries stray ANSI codes.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/xish-project/xish/internal/logging"
)

// Printer writes xish's color-coded messages to a pair of writers (normally
// os.Stdout/os.Stderr). Color is used only when enabled and the target
// writer is a terminal. Logger is optional (nil-safe) and, when set, mirrors
// every Error/Warn message to the structured debug log (SPEC_FULL.md §7:
// logging is additive, never a replacement for the user-facing message).
type Printer struct {
	Out, Err io.Writer
	NoColor  bool
	Logger   *logging.Logger
}

// NewPrinter returns a Printer for stdout/stderr, honoring noColor and
// mirroring Error/Warn messages to logger (nil-safe; pass logging.New(false)
// or nil outside --debug).
func NewPrinter(noColor bool, logger *logging.Logger) *Printer {
	return &Printer{Out: os.Stdout, Err: os.Stderr, NoColor: noColor, Logger: logger}
}

// IsInteractive reports whether fd behaves like an interactive terminal —
// used to decide whether a confirmation prompt (survey.Confirm) is safe to
// show, and whether Error/Warn/Info output should be colorized.
func IsInteractive(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

func (p *Printer) colorEnabled(w io.Writer) bool {
	if p.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return IsInteractive(f.Fd())
}

func (p *Printer) paint(w io.Writer, c *color.Color, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.colorEnabled(w) {
		fmt.Fprintln(w, c.Sprint(msg))
		return
	}
	fmt.Fprintln(w, msg)
}

// Error prints the message in red to stderr — used for parse/syntax
// errors, fork/exec failures, and built-in failures (SPEC_FULL.md §7) — and,
// when a Logger is set, mirrors it at error level. No prefix is added: the
// caller supplies the full text.
func (p *Printer) Error(format string, args ...interface{}) {
	p.paint(p.Err, color.New(color.FgRed), format, args...)
	p.Logger.Error(fmt.Sprintf(format, args...))
}

// Warn prints a yellow message to stdout — used for job-stopped notices —
// and, when a Logger is set, mirrors it at warn level.
func (p *Printer) Warn(format string, args ...interface{}) {
	p.paint(p.Out, color.New(color.FgYellow), format, args...)
	p.Logger.Warn(fmt.Sprintf(format, args...))
}

// Info prints a green message to stdout. Job-started and job-done lines are
// printed through Plain, not Info.
func (p *Printer) Info(format string, args ...interface{}) {
	p.paint(p.Out, color.New(color.FgGreen), format, args...)
}

// Plain prints an uncolored message to stdout (job listing lines use a
// fixed tab-separated format mandated by SPEC_FULL.md §4.E and are never
// colorized, status word included — see jobtable.Table.Render).
func (p *Printer) Plain(format string, args ...interface{}) {
	fmt.Fprintf(p.Out, format, args...)
}
