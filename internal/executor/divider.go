package executor

import "github.com/xish-project/xish/internal/token"

// findDivider returns the index, relative to the whole slice, of the first
// occurrence of div1 or div2 at bracket depth zero, starting at begin. It
// returns len(tokens) if no such divider exists — the caller then treats the
// remainder of the slice as the final segment.
func findDivider(tokens []token.Token, begin int, div1, div2 token.Kind) int {
	depth := 0
	for i := begin; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		default:
			if depth == 0 && (tokens[i].Kind == div1 || tokens[i].Kind == div2) {
				return i
			}
		}
	}
	return len(tokens)
}
