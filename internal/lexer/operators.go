package lexer

import (
	"strings"

	"github.com/schiffy91/btrc/internal/token"
)

// scanOperator implements the grammar's longest-first maximal-munch scan
// (spec.md §4.2): the grammar.GrammarInfo already sorted Operators longest
// first at load time, so trying them in order and taking the first match
// is correct without any special-casing here.
func (l *Lexer) scanOperator(pos token.Position) (token.Token, bool) {
	rest := l.input[l.position:]
	for _, op := range l.g.Operators {
		if strings.HasPrefix(rest, op) {
			kind, ok := l.g.OperatorKind(op)
			if !ok {
				continue
			}
			for range []rune(op) {
				l.readChar()
			}
			return token.Token{Kind: kind, Literal: op, Pos: pos}, true
		}
	}
	return token.Token{}, false
}
