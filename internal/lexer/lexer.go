// Package lexer turns a character stream into the flat token sequence the
// syntax checker and executor operate on. It handles quoting, escaping,
// comments, multi-line continuation, and inline $NAME expansion.
package lexer

import (
	"bufio"
	"errors"
	"io"

	"github.com/xish-project/xish/internal/env"
	"github.com/xish-project/xish/internal/token"
)

// ErrEOF is returned when EOF is read in the initial, word-empty BETWEEN
// state: a clean place to end the shell.
var ErrEOF = errors.New("xish: eof")

// ErrUnterminated is returned when EOF interrupts an open construct (an
// unterminated quote, a dangling escape, an unclosed paren, or a word still
// being accumulated). The caller drops the line; it does not terminate the
// shell on its own — the next read will surface ErrEOF once the underlying
// source is truly exhausted.
var ErrUnterminated = errors.New("xish: unexpected eof")

// ContinuationPrompter is invoked whenever the lexer hits a newline inside
// an unterminated construct (open quote, trailing backslash, open paren).
type ContinuationPrompter interface {
	Prompt()
}

type state int

const (
	stateBetween state = iota
	stateWord
	stateEscape
	stateQuotes
	stateSpecial
	stateEnv
)

// Lexer is a single-use scanner for one logical (possibly multi-line)
// command. Create a fresh Lexer per Scan call.
type Lexer struct {
	src      io.RuneReader
	prompter ContinuationPrompter

	state    state
	previous state // ESCAPE's return state: stateWord or stateQuotes

	depth int // bracket nesting depth, tracked outside quotes/escape
	line  int

	tokens  *token.List
	cur     *token.WordBuilder // builder for the token currently being built
	envName *token.WordBuilder // builder for the $NAME currently being read

	pending   rune
	hasPending bool
}

// New returns a Lexer reading from src, invoking prompter.Prompt() on every
// continuation newline. If src already implements io.RuneReader (as a
// shared *bufio.Reader does), it is used directly instead of being wrapped
// again — callers that create a fresh Lexer per logical line (the normal
// pattern) should pass the same *bufio.Reader each time, so that bytes it
// has already buffered past the last line's newline are not discarded
// between calls.
func New(src io.Reader, prompter ContinuationPrompter) *Lexer {
	rr, ok := src.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(src)
	}
	return &Lexer{
		src:      rr,
		prompter: prompter,
		state:    stateBetween,
		line:     1,
		tokens:   token.NewList(0),
		cur:      token.NewWordBuilder(0),
		envName:  token.NewWordBuilder(0),
	}
}

// Scan reads one logical line and returns its tokens. Errors are exactly
// ErrEOF, ErrUnterminated, or token.ErrBufferExhausted (the lexer's
// MEMORY_ERROR equivalent) — on the latter, the rest of the physical line
// has already been discarded so the next prompt starts clean.
func (l *Lexer) Scan() ([]token.Token, error) {
	for {
		r, err := l.nextRune()
		if err != nil {
			if l.tokens.Len() == 0 && l.state == stateBetween {
				return nil, ErrEOF
			}
			return nil, ErrUnterminated
		}

		done, lexErr := l.step(r)
		if lexErr != nil {
			l.flushLine()
			return nil, lexErr
		}
		if done {
			return l.tokens.Tokens(), nil
		}
	}
}

func (l *Lexer) nextRune() (rune, error) {
	if l.hasPending {
		l.hasPending = false
		return l.pending, nil
	}
	r, _, err := l.src.ReadRune()
	return r, err
}

// reprocess schedules r to be re-read as the very next rune, without
// consuming new input — used by the ENV and SPECIAL states when they
// discover their construct has ended on a character that must still be
// processed under a different state.
func (l *Lexer) reprocess(r rune) {
	l.pending = r
	l.hasPending = true
}

// flushLine discards the remainder of the current physical line so a
// buffer-exhaustion error leaves the terminal in a clean state for the next
// prompt.
func (l *Lexer) flushLine() {
	for {
		r, err := l.nextRune()
		if err != nil || r == '\n' {
			return
		}
	}
}

// step processes one input rune against the current state. It returns
// done=true when a full logical line has been scanned (the newline-at-depth-0
// case), or a non-nil error on buffer exhaustion.
func (l *Lexer) step(r rune) (done bool, err error) {
	switch l.state {
	case stateBetween:
		return l.stepBetween(r, false)
	case stateWord:
		return l.stepBetween(r, true)
	case stateEscape:
		return l.stepEscape(r)
	case stateQuotes:
		return l.stepQuotes(r)
	case stateSpecial:
		return l.stepSpecial(r)
	case stateEnv:
		return l.stepEnv(r)
	default:
		panic("xish: lexer: unreachable state")
	}
}

// stepBetween implements both the BETWEEN and WORD rows of the transition
// table: they differ only in whether a WORD token is already open
// (inWord) when an ordinary character is seen, and in what "end the current
// token" means once one is open. Collapsing them here avoids the duplicated
// branches the Design Notes call out in the C source.
func (l *Lexer) stepBetween(r rune, inWord bool) (bool, error) {
	switch r {
	case '\n':
		if l.depth > 0 {
			// Unterminated construct (open paren): prompt and keep
			// accumulating — the newline is consumed, not appended.
			l.line++
			l.prompter.Prompt()
			return false, nil
		}
		if inWord {
			l.endCurrent()
		}
		return true, nil

	case '\\':
		if !inWord {
			if err := l.openToken(token.WORD); err != nil {
				return false, err
			}
		}
		l.previous = stateWord
		l.state = stateEscape
		return false, nil

	case '#':
		if inWord {
			l.endCurrent()
		}
		l.flushLine()
		return true, nil

	case '"':
		if inWord {
			l.endCurrent()
		}
		if err := l.openToken(token.WORD); err != nil {
			return false, err
		}
		l.state = stateQuotes
		return false, nil

	case '$':
		if !inWord {
			if err := l.openToken(token.WORD); err != nil {
				return false, err
			}
		}
		l.envName.Reset()
		l.state = stateEnv
		return false, nil
	}

	if !inWord && isSpace(r) {
		return false, nil
	}

	if kind := token.CharKind(r); kind != token.WORD {
		if kind == token.LPAREN {
			l.depth++
		} else if kind == token.RPAREN {
			l.depth--
		}
		if inWord {
			l.endCurrent()
		}
		if err := l.openToken(kind); err != nil {
			return false, err
		}
		if err := l.cur.AppendRune(r); err != nil {
			return false, err
		}
		// Left unfinalized: stepSpecial finishes the token, either by
		// extending it to a two-character operator or by closing it as
		// single-character and re-processing r under BETWEEN.
		l.state = stateSpecial
		return false, nil
	}

	if inWord && isSpace(r) {
		l.endCurrent()
		l.state = stateBetween
		return false, nil
	}

	if !inWord {
		if err := l.openToken(token.WORD); err != nil {
			return false, err
		}
	}
	if err := l.cur.AppendRune(r); err != nil {
		return false, err
	}
	l.state = stateWord
	return false, nil
}

func (l *Lexer) stepEscape(r rune) (bool, error) {
	l.state = l.previous
	if r == '\n' {
		l.line++
		l.prompter.Prompt()
		return false, nil
	}
	if err := l.cur.AppendRune(r); err != nil {
		return false, err
	}
	return false, nil
}

func (l *Lexer) stepQuotes(r rune) (bool, error) {
	switch r {
	case '"':
		l.state = stateBetween
		l.endCurrent()
		return false, nil
	case '\\':
		l.previous = stateQuotes
		l.state = stateEscape
		return false, nil
	case '\n':
		// Resolved open question (SPEC_FULL.md 4.B): newline inside an
		// open quote is literal, kept in the payload, not a silent
		// continuation. It still triggers the continuation prompt,
		// since the construct (the quote) remains open.
		l.line++
		l.prompter.Prompt()
		if err := l.cur.AppendRune(r); err != nil {
			return false, err
		}
		return false, nil
	default:
		if err := l.cur.AppendRune(r); err != nil {
			return false, err
		}
		return false, nil
	}
}

func (l *Lexer) stepSpecial(r rune) (bool, error) {
	prevKind := l.tokens.Last().Kind
	if promoted, ok := token.Promote(prevKind, r); ok {
		l.tokens.Last().Kind = promoted
		if err := l.cur.AppendRune(r); err != nil {
			return false, err
		}
		l.finalizeCurrent()
		l.state = stateBetween
		return false, nil
	}
	l.finalizeCurrent()
	l.state = stateBetween
	l.reprocess(r)
	return false, nil
}

func (l *Lexer) stepEnv(r rune) (bool, error) {
	if env.IsNameRune(r) {
		if err := l.envName.AppendRune(r); err != nil {
			return false, err
		}
		return false, nil
	}
	if l.envName.Len() == 0 {
		// A '$' not followed by a name rune is literal.
		if err := l.cur.AppendRune('$'); err != nil {
			return false, err
		}
	} else if value, ok := env.Lookup(l.envName.String()); ok {
		for _, vr := range value {
			if err := l.cur.AppendRune(vr); err != nil {
				return false, err
			}
		}
	}
	l.state = stateWord
	l.reprocess(r)
	return false, nil
}

func (l *Lexer) openToken(kind token.Kind) error {
	l.cur.Reset()
	return l.tokens.Append(token.Token{Kind: kind, Line: l.line})
}

func (l *Lexer) finalizeCurrent() {
	if t := l.tokens.Last(); t != nil {
		t.Value = l.cur.String()
	}
	l.cur.Reset()
}

func (l *Lexer) endCurrent() {
	l.finalizeCurrent()
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}
