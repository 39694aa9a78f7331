package executor

import (
	"os"

	"golang.org/x/sys/unix"
)

// takeTerminal hands terminal ownership to pgid, mirroring the reference
// shell's tcsetpgrp(STDIN_FILENO, pgid) — but only when this process is
// itself in control of a terminal; subshells (which never owned the
// terminal in the first place) skip this, matching issubshell's guard in
// waitProcessGroup().
func takeTerminal(pgid int, isSubshell bool) {
	if isSubshell {
		return
	}
	unix.IoctlSetPointerInt(unix.Stdin, unix.TIOCSPGRP, pgid)
}

// restoreTerminal hands the terminal back to the shell's own process group.
func restoreTerminal(isSubshell bool) {
	if isSubshell {
		return
	}
	unix.IoctlSetPointerInt(unix.Stdin, unix.TIOCSPGRP, unix.Getpgrp())
}

// sendContinue resumes a stopped process group without waiting on it —
// used by the `bg` builtin, which (unlike `fg`) does not take the terminal
// or block.
func sendContinue(pgid int) {
	unix.Kill(-pgid, unix.SIGCONT)
}

// waitProcessGroup sends SIGCONT to pgid, brings it to the foreground, and
// waits until every member has exited or any one member has stopped. It
// returns true if a member stopped; otherwise it returns false along with
// the exit status of lastPid, the group's last-launched member (-1 if it was
// killed by a signal).
// This mirrors the reference implementation's waitProcessGroup(): one
// waitpid(-pgid, ...) loop draining every group member, tracking the exit
// status of lastPid specifically since that is the pipeline's reported
// status.
func waitProcessGroup(lastPid, pgid int, isSubshell bool) (stopped bool, exitStatus int) {
	takeTerminal(pgid, isSubshell)
	unix.Kill(-pgid, unix.SIGCONT)

	var flags int
	if !isSubshell {
		flags = unix.WUNTRACED
	}

	var lastStatus unix.WaitStatus
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-pgid, &ws, flags, nil)
		if err != nil || pid <= 0 {
			break
		}
		if ws.Stopped() {
			lastStatus = ws
			stopped = true
			break
		}
		if pid == lastPid {
			lastStatus = ws
		}
	}

	restoreTerminal(isSubshell)

	if stopped {
		os.Stdout.WriteString("\n")
		return true, 0
	}
	if lastStatus.Exited() {
		exitStatus = lastStatus.ExitStatus()
	} else {
		exitStatus = -1
	}
	return false, exitStatus
}
