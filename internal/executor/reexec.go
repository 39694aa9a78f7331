package executor

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/xish-project/xish/internal/config"
	"github.com/xish-project/xish/internal/jobtable"
	"github.com/xish-project/xish/internal/logging"
	"github.com/xish-project/xish/internal/ui"
)

// RunReexecChild is cmd/xish's entry point when it is invoked with
// ReexecFlag: instead of starting the interactive REPL, decode payloadArg
// and finish whatever job the parent could not safely fork to continue,
// then return the exit status the process should report.
func RunReexecChild(cfg *config.Config, logger *logging.Logger, printer *ui.Printer, payloadArg string) int {
	payload, err := decodePayload(payloadArg)
	if err != nil {
		printer.Error("%v", err)
		return 1
	}

	switch payload.Mode {
	case reexecBracket:
		signal.Ignore(syscall.SIGTTOU)
		e := New(cfg, logger, printer, jobtable.New(logger, printer), true)
		return e.LaunchJobs(payload.Tokens)

	case reexecBackgroundAndOr:
		signal.Ignore(syscall.SIGTTOU)
		e := New(cfg, logger, printer, jobtable.New(logger, printer), true)
		return e.controlJob(payload.Tokens, true)

	case reexecPipelineSegment:
		return runPipelineSegmentChild(printer, payload)

	default:
		printer.Error("xish: unknown internal exec mode %q", payload.Mode)
		return 1
	}
}

// runPipelineSegmentChild reproduces the reference implementation's
// executeCommand() behavior for a builtin invoked as a non-leading stage of
// a pipeline or backgrounded without job control: cd/exit/fg/bg would mutate
// state this doomed child can never report back to the parent shell, so
// they just exit 0; jobs and pwd can still produce real, if child-local,
// output.
func runPipelineSegmentChild(printer *ui.Printer, payload reexecPayload) int {
	if len(payload.Tokens) == 0 {
		return 0
	}

	switch payload.Tokens[0].Value {
	case "cd", "exit", "fg", "bg":
		return 0
	case "jobs":
		for _, line := range payload.JobLines {
			printer.Plain("%s\n", line)
		}
		return 0
	case "pwd":
		cwd, err := os.Getwd()
		if err != nil {
			printer.Error("pwd: %v", err)
			return 1
		}
		printer.Plain("%s\n", cwd)
		return 0
	default:
		printer.Error("xish: %s: not a builtin", payload.Tokens[0].Value)
		return 1
	}
}
