// Package executor runs a parsed token stream: pipelines, redirections,
// process groups, job control, and the built-in commands. It implements the
// three mutually-recursive operations of the reference shell — launchJobs
// (';' and '&'), controlJob ('&&' and '||'), and launchCommands ('|') — over
// token.Token slices instead of null-terminated C arrays.
package executor

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"go.uber.org/zap"

	"github.com/xish-project/xish/internal/config"
	"github.com/xish-project/xish/internal/jobtable"
	"github.com/xish-project/xish/internal/logging"
	"github.com/xish-project/xish/internal/token"
	"github.com/xish-project/xish/internal/ui"
)

// Executor holds everything a running job needs: the shell's configuration,
// its job table, and whether this process is itself a subshell (a
// bracketed `( ... )` or a backgrounded andor chain re-exec'd into its own
// process — SPEC_FULL.md §4.F). A subshell never owns the terminal and has
// no job control of its own (spec.md §4.F/§4.G).
type Executor struct {
	cfg    *config.Config
	logger *logging.Logger
	printer *ui.Printer
	jobs   *jobtable.Table

	isSubshell bool

	// requestExit is set by the `exit` builtin when run at the top level;
	// the REPL checks it after each LaunchJobs call.
	requestExit bool
}

// New returns an Executor. jobs may be a fresh, empty table (as it always is
// for subshells, which have no visibility into the parent's job table).
func New(cfg *config.Config, logger *logging.Logger, printer *ui.Printer, jobs *jobtable.Table, isSubshell bool) *Executor {
	return &Executor{cfg: cfg, logger: logger, printer: printer, jobs: jobs, isSubshell: isSubshell}
}

// ShouldExit reports whether the `exit` builtin has been invoked.
func (e *Executor) ShouldExit() bool {
	return e.requestExit
}

// Jobs returns the executor's job table, for the REPL's between-prompts
// reap-and-render cycle.
func (e *Executor) Jobs() *jobtable.Table {
	return e.jobs
}

// LaunchJobs splits tokens on ';' and '&' at bracket depth zero and runs
// each resulting segment, either as a foreground andor chain (controlJob)
// or — when backgrounded — directly, unless the segment itself contains
// '&&'/'||', in which case it needs its own subshell to evaluate that chain
// in the background without blocking the caller (the reference shell's
// "needcontrol" case).
func (e *Executor) LaunchJobs(tokens []token.Token) int {
	if e.isSubshell {
		signal.Ignore(syscall.SIGTTOU)
	}

	begin := 0
	exitStatus := 0
	for begin < len(tokens) {
		divider := findDivider(tokens, begin, token.BACKGROUND, token.SEMICOLON)
		isForeground := divider == len(tokens) || tokens[divider].Kind == token.SEMICOLON
		segment := tokens[begin:divider]
		needControl := !isForeground && findDivider(segment, 0, token.AND, token.OR) < len(segment)

		switch {
		case len(segment) == 0:
			// empty segment, e.g. a stray ';' or '&' — nothing to run.
		case needControl:
			pid, pgid, err := e.launchBackgroundSubshell(segment)
			if err != nil {
				e.printer.Error("%v", err)
			} else {
				e.logger.Debug("background andor subshell launched", zap.Int("pid", pid))
				e.jobs.Add(renderCommand(segment), pgid, jobtable.Running)
			}
		default:
			exitStatus = e.controlJob(segment, isForeground)
		}

		begin = divider + 1
		if e.requestExit {
			break
		}
	}
	return exitStatus
}

// controlJob splits segment on '&&' and '||' at bracket depth zero,
// short-circuiting each subsequent part according to the previous part's
// exit status, and runs each part either as a direct builtin invocation
// (when it's eligible — foreground and pipe-free) or through launchCommands.
func (e *Executor) controlJob(segment []token.Token, foreground bool) int {
	begin := 0
	exitStatus := 0

	for begin < len(segment) {
		divider := findDivider(segment, begin, token.AND, token.OR)

		if begin > 0 {
			prevOp := segment[begin-1].Kind
			skip := (prevOp == token.AND && exitStatus != 0) || (prevOp == token.OR && exitStatus == 0)
			if skip {
				begin = divider + 1
				continue
			}
		}

		part := segment[begin:divider]

		if foreground && isInternalSegment(part) {
			exitStatus = e.runForegroundInternal(part)
			begin = divider + 1
			continue
		}

		lastPid, pgid, err := e.launchCommands(part)
		if err != nil {
			e.printer.Error("%v", err)
			exitStatus = -1
			begin = divider + 1
			continue
		}

		if foreground {
			stopped, status := waitProcessGroup(lastPid, pgid, e.isSubshell)
			exitStatus = status
			if stopped {
				e.jobs.Add(renderCommand(part), pgid, jobtable.JustStopped)
			}
		} else if !e.isSubshell {
			e.jobs.Add(renderCommand(part), pgid, jobtable.Running)
		}

		begin = divider + 1
	}

	return exitStatus
}

// launchCommands splits part on '|' at bracket depth zero, wiring each
// command's stdout to the next command's stdin, and starts every command in
// the same new process group (the first command's pid becomes the group's
// pgid, exactly as the reference implementation's launchCommands does via
// fork+setpgid — here realized with os/exec and SysProcAttr.Setpgid). It
// returns the last command's pid and the pipeline's pgid for the caller to
// wait on.
func (e *Executor) launchCommands(part []token.Token) (lastPid, pgid int, err error) {
	begin := 0
	var prevPipeRead *os.File
	groupPgid := unix.Getpgrp()

	for begin < len(part) {
		divider := findDivider(part, begin, token.PIPE, token.PIPE)
		segment := part[begin:divider]

		redirs, rerr := openRedirections(segment)
		if rerr != nil {
			if prevPipeRead != nil {
				prevPipeRead.Close()
			}
			return 0, 0, rerr
		}
		cmdTokens := stripRedirections(segment)

		cmd, berr := e.buildCmd(cmdTokens)
		if berr != nil {
			redirs.close()
			if prevPipeRead != nil {
				prevPipeRead.Close()
			}
			return 0, 0, berr
		}

		switch {
		case prevPipeRead != nil:
			cmd.Stdin = prevPipeRead
		case redirs.stdin != nil:
			cmd.Stdin = redirs.stdin
		default:
			cmd.Stdin = os.Stdin
		}

		var pipeWrite, nextPipeRead *os.File
		switch {
		case divider < len(part):
			pr, pw, perr := os.Pipe()
			if perr != nil {
				redirs.close()
				if prevPipeRead != nil {
					prevPipeRead.Close()
				}
				return 0, 0, perr
			}
			cmd.Stdout = pw
			pipeWrite, nextPipeRead = pw, pr
		case redirs.stdout != nil:
			cmd.Stdout = redirs.stdout
		default:
			cmd.Stdout = os.Stdout
		}
		cmd.Stderr = os.Stderr

		pgidArg := groupPgid
		if begin == 0 && !e.isSubshell {
			pgidArg = 0
		}
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: pgidArg}

		startErr := cmd.Start()

		if prevPipeRead != nil {
			prevPipeRead.Close()
		}
		if pipeWrite != nil {
			pipeWrite.Close()
		}
		redirs.close()

		if startErr != nil {
			if nextPipeRead != nil {
				nextPipeRead.Close()
			}
			return 0, 0, fmt.Errorf("xish: %s: %w", cmdTokens[0].Value, startErr)
		}

		if begin == 0 && !e.isSubshell {
			groupPgid = cmd.Process.Pid
		}
		lastPid = cmd.Process.Pid
		prevPipeRead = nextPipeRead
		begin = divider + 1
	}

	return lastPid, groupPgid, nil
}

// buildCmd turns one pipeline segment's (already redirector-stripped) tokens
// into a runnable *exec.Cmd: a bracketed subshell or a builtin name must
// re-exec this binary to keep running Go code in the child (buildCmd itself
// never calls fork — os/exec always performs a combined fork+exec); anything
// else is handed directly to execvp's Go equivalent.
func (e *Executor) buildCmd(cmdTokens []token.Token) (*exec.Cmd, error) {
	if len(cmdTokens) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	if cmdTokens[0].Kind == token.LPAREN {
		inner := cmdTokens[1 : len(cmdTokens)-1]
		return e.reexecCmd(reexecBracket, inner, nil)
	}

	if cmdTokens[0].Kind == token.WORD && isBuiltinName(cmdTokens[0].Value) {
		return e.reexecCmd(reexecPipelineSegment, cmdTokens, e.jobs.RenderLines())
	}

	args := make([]string, 0, len(cmdTokens)-1)
	for _, t := range cmdTokens[1:] {
		args = append(args, t.Value)
	}
	return exec.Command(cmdTokens[0].Value, args...), nil
}

func (e *Executor) reexecCmd(mode reexecMode, tokens []token.Token, jobLines []string) (*exec.Cmd, error) {
	payload, err := encodePayload(reexecPayload{Mode: mode, Tokens: tokens, JobLines: jobLines})
	if err != nil {
		return nil, err
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("xish: cannot resolve own executable for subshell: %w", err)
	}
	return exec.Command(exe, ReexecFlag, payload), nil
}

// launchBackgroundSubshell re-execs this binary to evaluate segment's
// '&&'/'||' chain as a foreground andor chain inside its own new process
// group, detached from the shell's own job control.
func (e *Executor) launchBackgroundSubshell(segment []token.Token) (pid, pgid int, err error) {
	cmd, err := e.reexecCmd(reexecBackgroundAndOr, segment, nil)
	if err != nil {
		return 0, 0, err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: 0}

	if err := cmd.Start(); err != nil {
		return 0, 0, err
	}
	return cmd.Process.Pid, cmd.Process.Pid, nil
}

// runForegroundInternal applies segment's redirections to the shell's real
// stdio, runs the builtin in-process, and restores stdio — the mirror of the
// reference implementation's internalCommand(), which dup/dup2's around the
// call instead of execve'ing a child.
func (e *Executor) runForegroundInternal(segment []token.Token) int {
	redirs, err := openRedirections(segment)
	if err != nil {
		e.printer.Error("%v", err)
		return -1
	}
	defer redirs.close()

	savedStdin, err1 := unix.Dup(unix.Stdin)
	savedStdout, err2 := unix.Dup(unix.Stdout)
	if err1 != nil || err2 != nil {
		e.printer.Error("xish: failed to save stdio for builtin")
		return -1
	}
	defer func() {
		unix.Dup2(savedStdin, unix.Stdin)
		unix.Dup2(savedStdout, unix.Stdout)
		unix.Close(savedStdin)
		unix.Close(savedStdout)
	}()

	if redirs.stdin != nil {
		unix.Dup2(int(redirs.stdin.Fd()), unix.Stdin)
	}
	if redirs.stdout != nil {
		unix.Dup2(int(redirs.stdout.Fd()), unix.Stdout)
	}

	return e.runInternal(stripRedirections(segment))
}

// renderCommand joins tokens back into the display string xish shows in
// job listings (the reference implementation's addJob() does the same
// space-joining over each param's literal word/glyph).
func renderCommand(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Glyph()
	}
	return strings.Join(parts, " ")
}
