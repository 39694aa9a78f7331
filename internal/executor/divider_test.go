package executor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xish-project/xish/internal/token"
)

func tok(kind token.Kind, value string) token.Token {
	return token.Token{Kind: kind, Value: value}
}

func TestFindDividerFindsFirstMatch(t *testing.T) {
	toks := []token.Token{
		tok(token.WORD, "a"),
		tok(token.SEMICOLON, ""),
		tok(token.WORD, "b"),
		tok(token.BACKGROUND, ""),
		tok(token.WORD, "c"),
	}
	idx := findDivider(toks, 0, token.BACKGROUND, token.SEMICOLON)
	require.Equal(t, 1, idx)
}

func TestFindDividerNoneReturnsLength(t *testing.T) {
	toks := []token.Token{tok(token.WORD, "a"), tok(token.WORD, "b")}
	idx := findDivider(toks, 0, token.PIPE, token.PIPE)
	require.Equal(t, len(toks), idx)
}

func TestFindDividerRespectsBeginOffset(t *testing.T) {
	toks := []token.Token{
		tok(token.WORD, "a"),
		tok(token.SEMICOLON, ""),
		tok(token.WORD, "b"),
		tok(token.SEMICOLON, ""),
		tok(token.WORD, "c"),
	}
	idx := findDivider(toks, 2, token.SEMICOLON, token.SEMICOLON)
	require.Equal(t, 3, idx)
}

func TestFindDividerSkipsOverBracketedDepth(t *testing.T) {
	toks := []token.Token{
		tok(token.LPAREN, ""),
		tok(token.WORD, "a"),
		tok(token.PIPE, ""),
		tok(token.WORD, "b"),
		tok(token.RPAREN, ""),
		tok(token.PIPE, ""),
		tok(token.WORD, "c"),
	}
	idx := findDivider(toks, 0, token.PIPE, token.PIPE)
	require.Equal(t, 5, idx)
}

func TestFindDividerMatchesEitherKind(t *testing.T) {
	toks := []token.Token{tok(token.WORD, "a"), tok(token.OR, ""), tok(token.WORD, "b")}
	idx := findDivider(toks, 0, token.AND, token.OR)
	require.Equal(t, 1, idx)
}
