package jobtable

import (
	"fmt"

	"golang.org/x/sys/unix"

	"go.uber.org/zap"

	"github.com/xish-project/xish/internal/logging"
	"github.com/xish-project/xish/internal/ui"
)

// Table is an ordered, 1-based-indexed sequence of Jobs. It is a
// single-writer type: only the shell's main goroutine ever touches it
// (SPEC_FULL.md §5) — no locking is needed or provided.
//
// Invariant: len(jobs) always equals the highest in-use 1-based index (0
// when empty); trailing None slots are trimmed on Remove, but middle
// None slots persist so that job numbers stay stable within a session
// (SPEC_FULL.md §3 / spec.md §3).
type Table struct {
	jobs    []Job
	logger  *logging.Logger
	printer *ui.Printer
}

// New returns an empty job table. logger may be nil (treated as a no-op);
// printer must not be nil.
func New(logger *logging.Logger, printer *ui.Printer) *Table {
	return &Table{logger: logger, printer: printer}
}

// Add appends a new entry and, for a Running job, prints "[n] pgid"
// immediately (spec.md §4.E). It returns the job's 1-based index.
func (t *Table) Add(command string, pgid int, status Status) int {
	job := newJob(command, pgid, status)
	t.jobs = append(t.jobs, job)
	idx := len(t.jobs)

	if status == Running {
		t.printer.Plain("[%d] %d\n", idx, pgid)
	}
	t.logger.Debug("job added",
		zap.Int("index", idx),
		zap.Int("pgid", pgid),
		zap.String("status", status.String()),
		zap.String("job_id", job.SessionID.String()))

	return idx
}

// Get returns the job at 1-based index and whether it exists and is
// in-use.
func (t *Table) Get(index int) (*Job, bool) {
	i := index - 1
	if i < 0 || i >= len(t.jobs) || t.jobs[i].Status == None {
		return nil, false
	}
	return &t.jobs[i], true
}

// Len reports the current table length, including any middle None slots
// kept for index stability: the highest in-use 1-based index, not a count
// of live jobs.
func (t *Table) Len() int {
	return len(t.jobs)
}

// LastIndex returns the 1-based index of the last in-use entry, used by
// `fg` with no argument.
func (t *Table) LastIndex() (int, bool) {
	for i := len(t.jobs) - 1; i >= 0; i-- {
		if t.jobs[i].Status != None {
			return i + 1, true
		}
	}
	return 0, false
}

// LastStoppedIndex returns the 1-based index of the last Stopped entry,
// used by `bg` with no argument.
func (t *Table) LastStoppedIndex() (int, bool) {
	for i := len(t.jobs) - 1; i >= 0; i-- {
		if t.jobs[i].Status == Stopped || t.jobs[i].Status == JustStopped {
			return i + 1, true
		}
	}
	return 0, false
}

// HasStopped reports whether any entry is currently Stopped or
// JustStopped — used by the `exit` built-in's confirmation prompt
// (SPEC_FULL.md §4.G).
func (t *Table) HasStopped() bool {
	for _, j := range t.jobs {
		if j.Status == Stopped || j.Status == JustStopped {
			return true
		}
	}
	return false
}

// Remove frees the slot at 1-based index (marking it None) and, if it was
// the trailing entry, trims any now-trailing None slots.
func (t *Table) Remove(index int) {
	i := index - 1
	if i < 0 || i >= len(t.jobs) {
		return
	}
	t.jobs[i] = Job{}

	if i == len(t.jobs)-1 {
		last := i
		for last >= 0 && t.jobs[last].Status == None {
			last--
		}
		t.jobs = t.jobs[:last+1]
	}
}

// Reconcile performs one round of non-blocking, untraced, continuation-
// reporting reaps against every in-use process group, reclassifying each
// as spec.md §4.E describes: stopped → JustStopped, continued → Running,
// "no children left" (wait returns ECHILD) → Done. Exited/signaled reports
// for individual group members are consumed silently — only the group's
// complete disappearance (ECHILD) marks the job Done, matching the
// reference implementation's waitpid loop exactly.
func (t *Table) Reconcile() {
	for i := range t.jobs {
		job := &t.jobs[i]
		if job.Status == None {
			continue
		}

		for {
			var ws unix.WaitStatus
			wpid, err := unix.Wait4(-job.Pgid, &ws, unix.WNOHANG|unix.WUNTRACED|unix.WCONTINUED, nil)
			if err != nil {
				job.Status = Done
				t.logger.Debug("job reaped as done", zap.Int("pgid", job.Pgid),
					zap.String("job_id", job.SessionID.String()))
				break
			}
			if wpid <= 0 {
				break
			}
			switch {
			case ws.Stopped():
				job.Status = JustStopped
				t.logger.Debug("job stopped", zap.Int("pgid", job.Pgid),
					zap.String("job_id", job.SessionID.String()))
			case ws.Continued():
				job.Status = Running
				t.logger.Debug("job continued", zap.Int("pgid", job.Pgid),
					zap.String("job_id", job.SessionID.String()))
			}
		}
	}
}

// Render prints every in-use entry as "[n] Status\t\tcommand". When
// includeActive is false, Running and Stopped entries are suppressed (only
// Done and the one-shot JustStopped are shown) — this is the difference
// between the main loop's between-prompts poll and the `jobs` built-in's
// full listing. A rendered JustStopped entry upgrades to Stopped so the
// "Stopped" line prints exactly once.
func (t *Table) Render(includeActive bool) {
	for i := range t.jobs {
		job := &t.jobs[i]
		if job.Status == None {
			continue
		}
		if !includeActive && (job.Status == Running || job.Status == Stopped) {
			continue
		}
		t.printer.Plain("[%d] %s\t\t%s\n", i+1, job.Status.String(), job.Command)
		if job.Status == JustStopped {
			job.Status = Stopped
		}
	}
}

// RenderLines returns the same lines Render would print, without printing
// them or mutating any JustStopped entry — used to hand a snapshot of the
// table across the process boundary to a re-exec'd pipeline child (which has
// no access to the parent's live Table), since the "jobs" builtin run there
// can only ever report a stale view anyway (SPEC_FULL.md §4.F).
func (t *Table) RenderLines() []string {
	lines := make([]string, 0, len(t.jobs))
	for i := range t.jobs {
		job := &t.jobs[i]
		if job.Status == None {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%d] %s\t\t%s", i+1, job.Status.String(), job.Command))
	}
	return lines
}

// PruneDone removes every Done entry.
func (t *Table) PruneDone() {
	for i := range t.jobs {
		if t.jobs[i].Status == Done {
			t.Remove(i + 1)
		}
	}
}

// Clear removes every entry.
func (t *Table) Clear() {
	t.jobs = nil
}
