// Package shellenv bootstraps the environment variables xish's own child
// processes and prompt expect (SHELL, EUID, USER) and renders the prompt
// string from a user-configurable format.
package shellenv

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"strings"

	"github.com/xish-project/xish/internal/config"
)

// ContinuationPrompt is printed when the lexer asks for another line to
// complete a quoted string, escaped newline, or unbalanced bracket.
const ContinuationPrompt = "> "

// Bootstrap sets SHELL, EUID, and USER in the process environment, mirroring
// the reference shell's setEnvVars(): SHELL resolves to this executable's
// own path (via os.Executable, the Go analogue of reading /proc/self/exe),
// EUID to the numeric effective user id, and USER to the controlling
// login name. Failures are non-fatal: the shell still runs, just without
// that variable set, matching the source's nonfatalError(...) handling.
func Bootstrap() {
	if exe, err := os.Executable(); err == nil {
		os.Setenv("SHELL", exe)
	}
	os.Setenv("EUID", strconv.Itoa(os.Geteuid()))
	if u, err := user.Current(); err == nil && u.Username != "" {
		os.Setenv("USER", u.Username)
	}
}

// Prompt renders cfg.PromptFormat, substituting {user}, {host}, and {cwd}.
// Any piece that cannot be determined is rendered as an empty string rather
// than aborting — the reference shell falls back to a fixed default prompt
// when hostname/cwd lookups fail; here each placeholder degrades
// independently instead.
func Prompt(cfg *config.Config) string {
	format := config.DefaultPromptFormat
	if cfg != nil && cfg.PromptFormat != "" {
		format = cfg.PromptFormat
	}

	user := os.Getenv("USER")
	host, _ := os.Hostname()
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}

	r := strings.NewReplacer(
		"{user}", user,
		"{host}", host,
		"{cwd}", cwd,
	)
	return r.Replace(format)
}

// ExitConfirmPrompt is the message shown when the user runs `exit` while
// jobs remain stopped (SPEC_FULL.md §4.G) — a feature the reference shell
// does not have, since it always exits immediately.
func ExitConfirmPrompt(stoppedCount int) string {
	if stoppedCount == 1 {
		return "You have a stopped job. Exit anyway?"
	}
	return fmt.Sprintf("You have %d stopped jobs. Exit anyway?", stoppedCount)
}
