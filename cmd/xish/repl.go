package main

import (
	"bufio"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/xish-project/xish/internal/config"
	"github.com/xish-project/xish/internal/executor"
	"github.com/xish-project/xish/internal/jobtable"
	"github.com/xish-project/xish/internal/lexer"
	"github.com/xish-project/xish/internal/logging"
	"github.com/xish-project/xish/internal/shellenv"
	"github.com/xish-project/xish/internal/syntax"
	"github.com/xish-project/xish/internal/ui"
)

// runShell loads configuration, bootstraps the environment, and either runs
// a single command (-c/--command) or starts the interactive REPL.
func runShell(debugFlag, noColor bool, command string) error {
	shellenv.Bootstrap()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if debugFlag {
		cfg.Debug = true
	}
	if noColor {
		cfg.Color = false
	}

	logger := logging.New(cfg.Debug)
	defer logger.Sync()
	printer := ui.NewPrinter(!cfg.Color, logger)

	ignoreJobControlSignals()

	jobs := jobtable.New(logger, printer)
	ex := executor.New(cfg, logger, printer, jobs, false)

	if command != "" {
		runLine(ex, printer, bufio.NewReader(strings.NewReader(command+"\n")))
		return nil
	}

	repl(ex, cfg, printer)
	return nil
}

// ignoreJobControlSignals arranges for SIGINT, SIGTSTP, and SIGTTOU to be
// harmless to the shell process itself (mirroring the reference
// implementation's signal(SIG_IGN) calls in main()), while leaving every
// exec'd child free to handle them normally. signal.Notify installs a real
// Go-runtime handler rather than SIG_IGN at the OS level; POSIX resets a
// caught signal's disposition to default across exec (unlike SIG_IGN, which
// would survive exec and wrongly propagate to children), so draining the
// channel here is enough — no per-child reset is needed or possible through
// os/exec.
func ignoreJobControlSignals() {
	ch := make(chan os.Signal, 8)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTSTP, syscall.SIGTTOU)
	go func() {
		for range ch {
		}
	}()
}

type stdoutPrompter struct{ printer *ui.Printer }

func (p stdoutPrompter) Prompt() {
	p.printer.Plain("%s", shellenv.ContinuationPrompt)
}

// runLine scans and runs one logical line from r, used for both
// -c/--command and as the core of repl's loop body. It returns false only
// when r is exhausted before a line begins.
func runLine(ex *executor.Executor, printer *ui.Printer, r *bufio.Reader) bool {
	lx := lexer.New(r, stdoutPrompter{printer})
	tokens, err := lx.Scan()
	if err != nil {
		switch {
		case errors.Is(err, lexer.ErrEOF):
			return false
		case errors.Is(err, lexer.ErrUnterminated):
			printer.Error("xish: unexpected end of file")
		default:
			printer.Error("%v", err)
		}
		return true
	}

	if err := syntax.Check(tokens); err != nil {
		printer.Error("%v", err)
		return true
	}

	ex.LaunchJobs(tokens)
	return true
}

func repl(ex *executor.Executor, cfg *config.Config, printer *ui.Printer) {
	stdin := bufio.NewReader(os.Stdin)
	printer.Plain("%s", shellenv.Prompt(cfg))

	for {
		more := runLine(ex, printer, stdin)

		ex.Jobs().Reconcile()
		ex.Jobs().Render(false)
		ex.Jobs().PruneDone()

		if !more || ex.ShouldExit() {
			break
		}
		printer.Plain("%s", shellenv.Prompt(cfg))
	}
	printer.Plain("\n")
}
