package executor

import (
	"os"

	"github.com/xish-project/xish/internal/token"
)

// redirections holds the files a command segment's stdin/stdout should be
// replaced with, if any.
type redirections struct {
	stdin, stdout *os.File
}

func (r *redirections) close() {
	if r.stdin != nil {
		r.stdin.Close()
	}
	if r.stdout != nil {
		r.stdout.Close()
	}
}

// openRedirections scans segment right-to-left looking for <, >, and >>
// operators at bracket depth zero, opening the target file the first time it
// encounters each direction. Scanning backward means the *last*-occurring
// redirection of a given direction in source order wins — e.g. in
// `cmd > a.txt > b.txt` only b.txt is opened for stdout — matching the
// reference implementation's dupFiles(), which scans from the end and only
// opens a new descriptor while the corresponding in/out variable still holds
// the original standard descriptor.
func openRedirections(segment []token.Token) (*redirections, error) {
	var out redirections
	depth := 0

	for i := len(segment) - 1; i > 0; i-- {
		tok := segment[i]
		switch tok.Kind {
		case token.LPAREN:
			depth--
		case token.RPAREN:
			depth++
		default:
			if depth != 0 || !tok.Kind.IsRedirection() || i+1 >= len(segment) {
				continue
			}
			target := segment[i+1].Value
			switch tok.Kind {
			case token.REDIR_OUT_TRUNC:
				if out.stdout == nil {
					f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
					if err != nil {
						out.close()
						return nil, err
					}
					out.stdout = f
				}
			case token.REDIR_OUT_APPEND:
				if out.stdout == nil {
					f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
					if err != nil {
						out.close()
						return nil, err
					}
					out.stdout = f
				}
			case token.REDIR_IN:
				if out.stdin == nil {
					f, err := os.OpenFile(target, os.O_RDONLY, 0)
					if err != nil {
						out.close()
						return nil, err
					}
					out.stdin = f
				}
			}
		}
	}

	return &out, nil
}

// stripRedirections returns segment with every redirection operator and its
// filename argument removed, preserving bracket depth tracking so a
// redirection inside a nested subshell is left untouched (it belongs to the
// inner command, not this one — though in practice a subshell token is
// always alone in its segment).
func stripRedirections(segment []token.Token) []token.Token {
	out := make([]token.Token, 0, len(segment))
	depth := 0
	for i := 0; i < len(segment); i++ {
		tok := segment[i]
		switch tok.Kind {
		case token.LPAREN:
			depth++
			out = append(out, tok)
		case token.RPAREN:
			depth--
			out = append(out, tok)
		default:
			if depth == 0 && tok.Kind.IsRedirection() {
				i++ // also skip the filename argument
				continue
			}
			out = append(out, tok)
		}
	}
	return out
}
