package parser

import (
	"github.com/schiffy91/btrc/internal/lexer"
	"github.com/schiffy91/btrc/internal/token"
)

// Cursor is an immutable navigation abstraction over a token stream,
// adapted from go-dws's internal/parser/cursor.go TokenCursor: every
// operation returns a new cursor rather than mutating curToken/peekToken
// fields, which makes the generic-vs-less-than and cast-vs-parenthesized
// trial parses in this package (spec.md §4.3) safe to abandon without
// unwinding hand-rolled state.
type Cursor struct {
	lex     *lexer.Lexer
	tokens  []token.Token
	index   int
	current token.Token
}

// NewCursor creates a cursor positioned at the first token of l.
func NewCursor(l *lexer.Lexer) *Cursor {
	first := l.NextToken()
	toks := make([]token.Token, 1, 32)
	toks[0] = first
	return &Cursor{lex: l, tokens: toks, index: 0, current: first}
}

func (c *Cursor) Current() token.Token { return c.current }

func (c *Cursor) Peek(n int) token.Token {
	if n < 0 {
		return c.current
	}
	target := c.index + n
	for target >= len(c.tokens) {
		last := c.tokens[len(c.tokens)-1]
		if last.Kind == token.EOF {
			break
		}
		c.tokens = append(c.tokens, c.lex.NextToken())
	}
	if target < len(c.tokens) {
		return c.tokens[target]
	}
	return c.tokens[len(c.tokens)-1]
}

// Advance returns a new cursor positioned at the next token.
func (c *Cursor) Advance() *Cursor {
	c.Peek(1)
	newIndex := c.index + 1
	if newIndex >= len(c.tokens) {
		newIndex = len(c.tokens) - 1
	}
	return &Cursor{lex: c.lex, tokens: c.tokens, index: newIndex, current: c.tokens[newIndex]}
}

func (c *Cursor) Is(k token.Kind) bool { return c.current.Kind == k }

func (c *Cursor) PeekIs(n int, k token.Kind) bool { return c.Peek(n).Kind == k }

// Mark is a lightweight saved position for backtracking trial parses.
type Mark struct{ index int }

func (c *Cursor) Mark() Mark { return Mark{c.index} }

func (c *Cursor) ResetTo(m Mark) *Cursor {
	if m.index < 0 || m.index >= len(c.tokens) {
		return c
	}
	return &Cursor{lex: c.lex, tokens: c.tokens, index: m.index, current: c.tokens[m.index]}
}

func (c *Cursor) IsEOF() bool { return c.current.Kind == token.EOF }

func (c *Cursor) Position() token.Position { return c.current.Pos }
