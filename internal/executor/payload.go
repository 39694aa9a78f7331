package executor

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/xish-project/xish/internal/token"
)

// ReexecFlag is the hidden CLI flag cmd/xish recognizes to re-enter the
// binary as a "child role" process instead of starting the REPL. Go cannot
// safely fork() a running Go program (goroutines and the GC would be left in
// an undefined state in the child), so the bracketed-subshell and
// builtin-inside-a-pipeline cases — which the reference shell realizes by
// forking and continuing to run C code in the child — are instead realized
// by re-executing this same binary with the remaining work serialized across
// the process boundary (SPEC_FULL.md §4.F).
const ReexecFlag = "--xish-exec-child"

// reexecPayload is the data a re-exec'd child needs to finish the job the
// parent could not safely fork to continue: either recurse into LaunchJobs
// as a subshell, or perform one of the builtins that only make sense to run
// in a doomed child (SPEC_FULL.md §4.G — cd/exit/fg/bg mutate state the
// child can never report back, so they just exit 0; jobs/pwd can still
// produce real output).
type reexecMode string

const (
	// reexecBracket runs tokens (the contents between a matched '(' ')',
	// already stripped of the parens) through a fresh LaunchJobs as a
	// subshell — the bracketed-subshell case.
	reexecBracket reexecMode = "bracket"
	// reexecPipelineSegment runs a single command's tokens the way the
	// reference shell's executeCommand() does in a forked pipeline child:
	// a bare builtin name just exits 0 (its effect can never reach the
	// parent anyway), jobs/pwd still produce real output. buildCmd sends
	// only builtin names in this mode; any other name is reported as not a
	// builtin and the child exits 1.
	reexecPipelineSegment reexecMode = "pipeline-segment"
	// reexecBackgroundAndOr runs a backgrounded segment that itself
	// contains && or || — the "needcontrol" case — as its own subshell's
	// foreground andor chain.
	reexecBackgroundAndOr reexecMode = "background-andor"
)

type reexecPayload struct {
	Mode reexecMode
	// Tokens is the command/segment's tokens. For reexecPipelineSegment
	// these have already been stripped of any redirection operators
	// (those were applied to the child's stdio before this payload was
	// built); for the other two modes redirections are handled by the
	// recursive call inside the child.
	Tokens []token.Token
	// JobLines is a pre-rendered snapshot of the parent's job table, used
	// only by the "jobs" builtin when it runs inside a re-exec'd child.
	JobLines []string
}

func encodePayload(p reexecPayload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("xish: failed to encode subshell payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func decodePayload(s string) (reexecPayload, error) {
	var p reexecPayload
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return p, fmt.Errorf("xish: failed to decode subshell payload: %w", err)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("xish: failed to unmarshal subshell payload: %w", err)
	}
	return p, nil
}
