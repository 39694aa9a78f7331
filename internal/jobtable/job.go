// Package jobtable tracks background and stopped process groups across
// prompts: reaping, classification, display, and pruning.
package jobtable

import "github.com/google/uuid"

// Status is a job's lifecycle state.
type Status int

const (
	None Status = iota
	Running
	Done
	Stopped
	// JustStopped is a one-shot marker that upgrades to Stopped the next
	// time it is rendered, so the "Stopped" line prints exactly once.
	JustStopped
)

func (s Status) String() string {
	switch s {
	case None:
		return ""
	case Running:
		return "Running"
	case Done:
		return "Done"
	case Stopped, JustStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Job is one managed background or stopped process group.
type Job struct {
	// Command is the command text as originally typed, for user-facing
	// listings.
	Command string
	Pgid    int
	Status  Status

	// SessionID correlates a job's log lines across its lifetime; it has
	// no bearing on shell semantics (the 1-based table index is still
	// what users type to fg/bg/jobs) — see SPEC_FULL.md §3.
	SessionID uuid.UUID
}

func newJob(command string, pgid int, status Status) Job {
	return Job{Command: command, Pgid: pgid, Status: status, SessionID: uuid.New()}
}
