package executor

import (
	"os"
	"strconv"

	"github.com/AlecAivazis/survey/v2"

	"github.com/xish-project/xish/internal/jobtable"
	"github.com/xish-project/xish/internal/shellenv"
	"github.com/xish-project/xish/internal/token"
	"github.com/xish-project/xish/internal/ui"
)

// builtinNames is the closed set of commands the shell itself implements
// rather than handing to execvp (spec.md §6 / SPEC_FULL.md §4.G).
var builtinNames = map[string]bool{
	"cd":   true,
	"exit": true,
	"pwd":  true,
	"jobs": true,
	"fg":   true,
	"bg":   true,
}

func isBuiltinName(name string) bool {
	return builtinNames[name]
}

// isInternalSegment reports whether segment is a single, pipe-free builtin
// invocation eligible to run directly in the shell's own process
// (SPEC_FULL.md §4.G / reference isInternal()): the only case where a
// builtin can actually mutate shell state (the working directory, the job
// table, the running flag).
func isInternalSegment(segment []token.Token) bool {
	if len(segment) == 0 || segment[0].Kind != token.WORD || !isBuiltinName(segment[0].Value) {
		return false
	}
	for _, tok := range segment[1:] {
		if tok.Kind == token.PIPE {
			return false
		}
	}
	return true
}

// runInternal executes a builtin directly in the shell process and returns
// its exit status. Redirections have already been applied to the process's
// real stdio by the caller and will be restored afterward.
func (e *Executor) runInternal(segment []token.Token) int {
	name := segment[0].Value
	switch name {
	case "exit":
		return e.builtinExit()
	case "cd":
		return e.builtinCd(segment)
	case "pwd":
		return e.builtinPwd()
	case "jobs":
		return e.builtinJobs()
	case "fg":
		return e.builtinFg(segment)
	case "bg":
		return e.builtinBg(segment)
	default:
		return -1
	}
}

// builtinExit requests that the REPL stop after this job finishes. If jobs
// are stopped and the shell is configured to ask first (the default — see
// internal/config), it shows an interactive confirmation; declining cancels
// the exit request entirely, leaving the shell running.
func (e *Executor) builtinExit() int {
	if e.cfg != nil && e.cfg.ConfirmExitWithStoppedJobs && e.jobs.HasStopped() {
		stoppedCount := 0
		for i := 1; i <= e.jobs.Len(); i++ {
			if job, ok := e.jobs.Get(i); ok && (job.Status == jobtable.Stopped || job.Status == jobtable.JustStopped) {
				stoppedCount++
			}
		}
		if !confirmExit(e.printer, stoppedCount, os.Stdin.Fd()) {
			return 0
		}
	}
	e.requestExit = true
	return 0
}

// builtinCd changes the process's working directory. cd/pwd operate on real
// OS process state (every subsequently exec'd command must inherit the new
// cwd), so this is one of the few places xish reaches for os directly
// rather than an abstraction layer — see DESIGN.md.
func (e *Executor) builtinCd(segment []token.Token) int {
	var target string
	if len(segment) > 1 {
		target = segment[1].Value
	} else {
		target = os.Getenv("HOME")
	}
	if target == "" {
		e.printer.Error("cd: HOME not set")
		return -1
	}
	if err := os.Chdir(target); err != nil {
		e.printer.Error("cd: %s: %v", target, err)
		return -1
	}
	return 0
}

func (e *Executor) builtinPwd() int {
	cwd, err := os.Getwd()
	if err != nil {
		e.printer.Error("pwd: %v", err)
		return -1
	}
	e.printer.Plain("%s\n", cwd)
	return 0
}

func (e *Executor) builtinJobs() int {
	if e.isSubshell {
		e.printer.Error("jobs: no job control")
		return -1
	}
	e.jobs.Reconcile()
	e.jobs.Render(true)
	e.jobs.PruneDone()
	return 0
}

func (e *Executor) builtinFg(segment []token.Token) int {
	if e.isSubshell {
		e.printer.Error("fg: no job control")
		return -1
	}
	idx, ok := resolveJobIndex(segment, e.jobs.LastIndex)
	if !ok {
		e.printer.Error("no such job")
		return -1
	}
	job, ok := e.jobs.Get(idx)
	if !ok {
		e.printer.Error("no such job")
		return -1
	}

	stopped, _ := waitProcessGroup(0, job.Pgid, e.isSubshell)
	if stopped {
		job.Status = jobtable.JustStopped
	} else {
		e.jobs.Remove(idx)
	}
	return 0
}

func (e *Executor) builtinBg(segment []token.Token) int {
	if e.isSubshell {
		e.printer.Error("bg: no job control")
		return -1
	}
	idx, ok := resolveJobIndex(segment, e.jobs.LastStoppedIndex)
	if !ok {
		e.printer.Error("no such job")
		return -1
	}
	job, ok := e.jobs.Get(idx)
	if !ok {
		e.printer.Error("no such job")
		return -1
	}
	sendContinue(job.Pgid)
	e.printer.Plain("[%d] %s\n", idx, job.Command)
	return 0
}

func resolveJobIndex(segment []token.Token, defaultIndex func() (int, bool)) (int, bool) {
	if len(segment) == 1 {
		return defaultIndex()
	}
	n, err := strconv.Atoi(segment[1].Value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// confirmExit prints the reference shell's job-table-aware warning
// unconditionally, then — only when stdin looks like a real terminal — asks
// the user to confirm via survey.Confirm. A non-interactive stdin (piped
// input, a script, a test harness) never attempts the prompt at all and
// exits immediately, matching the reference shell's unconditional exit(0);
// relying on AskOne to error out on a non-tty stdin would risk it blocking
// on the pipe instead.
func confirmExit(printer *ui.Printer, stoppedCount int, stdinFd uintptr) bool {
	if stoppedCount == 0 {
		return true
	}
	printer.Warn("xish: you have stopped jobs")
	if !ui.IsInteractive(stdinFd) {
		return true
	}
	confirmed := false
	prompt := &survey.Confirm{
		Message: shellenv.ExitConfirmPrompt(stoppedCount),
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return true
	}
	return confirmed
}

