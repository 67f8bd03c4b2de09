// Package lexer implements the grammar-driven scanner described in
// spec.md §4.2. It is structurally adapted from go-dws's
// internal/lexer/lexer.go (rune-at-a-time UTF-8 scanning, column counted
// in runes not bytes, save/restore state for backtracking) but is driven
// entirely by a *grammar.GrammarInfo instead of a hardcoded keyword table:
// no keyword or operator string appears as a literal in this file.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/schiffy91/btrc/internal/diag"
	"github.com/schiffy91/btrc/internal/grammar"
	"github.com/schiffy91/btrc/internal/token"
)

// Lexer is a deterministic single-pass scanner over UTF-8 source text.
type Lexer struct {
	g      *grammar.GrammarInfo
	input  string
	file   string
	errors diag.Bag
	buffer []token.Token

	position     int
	readPosition int
	line         int
	column       int
	ch           rune
}

// State captures a Lexer's position for save/restore backtracking, used
// by the Parser's trial parses (e.g. the `a < b` vs `Name<T>` disambiguation
// in spec.md §4.3).
type State struct {
	position     int
	readPosition int
	line         int
	column       int
	ch           rune
	buffer       []token.Token
}

// New creates a Lexer over input, using g to resolve keyword and operator
// kinds. \r\n is normalized to \n per spec.md §6.2 before scanning begins.
func New(g *grammar.GrammarInfo, input, file string) *Lexer {
	if len(input) >= 3 && input[0] == 0xEF && input[1] == 0xBB && input[2] == 0xBF {
		input = input[3:]
	}
	input = normalizeNewlines(input)
	l := &Lexer{g: g, input: input, file: file, line: 1, column: 0}
	l.readChar()
	return l
}

func normalizeNewlines(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' {
			if i+1 < len(s) && s[i+1] == '\n' {
				continue
			}
			out = append(out, '\n')
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

func (l *Lexer) Errors() []*diag.Diagnostic { return l.errors.Errors() }

func (l *Lexer) addError(pos token.Position, format string, args ...any) {
	l.errors.Addf(diag.Lexer, pos, l.input, format, args...)
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.column++
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
	l.column++
	if r == utf8.RuneError && size == 1 {
		l.addError(l.currentPos(), "invalid UTF-8 encoding")
	}
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.column, Offset: l.position, File: l.file}
}

// Save captures the current scan position for later restoration.
func (l *Lexer) Save() State {
	buf := make([]token.Token, len(l.buffer))
	copy(buf, l.buffer)
	return State{position: l.position, readPosition: l.readPosition, line: l.line, column: l.column, ch: l.ch, buffer: buf}
}

// Restore returns the lexer to a previously Saved position.
func (l *Lexer) Restore(s State) {
	l.position, l.readPosition, l.line, l.column, l.ch = s.position, s.readPosition, s.line, s.column, s.ch
	l.buffer = s.buffer
}

// Peek returns the token n positions ahead without consuming it.
func (l *Lexer) Peek(n int) token.Token {
	for len(l.buffer) <= n {
		l.buffer = append(l.buffer, l.scan())
	}
	return l.buffer[n]
}

// NextToken returns and consumes the next token in the stream.
func (l *Lexer) NextToken() token.Token {
	if len(l.buffer) > 0 {
		tok := l.buffer[0]
		l.buffer = l.buffer[1:]
		return tok
	}
	return l.scan()
}

// All tokenizes the entire remaining input, terminating in EOF. Used by
// `btrc --emit-tokens` and by tests.
func (l *Lexer) All() []token.Token {
	var toks []token.Token
	for {
		t := l.NextToken()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) scan() token.Token {
	l.skipWhitespaceAndComments()
	pos := l.currentPos()

	if l.ch == 0 {
		return token.Token{Kind: token.EOF, Literal: "", Pos: pos}
	}

	if l.ch == 'f' && l.peekChar() == '"' {
		l.readChar()
		return l.scanFString(pos)
	}
	if isIdentStart(l.ch) {
		return l.scanIdentifierOrKeyword(pos)
	}
	if isDigit(l.ch) {
		return l.scanNumber(pos)
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		return l.scanNumber(pos)
	}
	switch l.ch {
	case '"':
		return l.scanString(pos)
	case '\'':
		return l.scanChar(pos)
	}

	if tok, ok := l.scanOperator(pos); ok {
		return tok
	}

	lit := string(l.ch)
	l.addError(pos, "illegal character: %q", lit)
	l.readChar()
	return token.Token{Kind: token.ILLEGAL, Literal: lit, Pos: pos}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

// skipBlockComment consumes a /* ... */ comment. Nesting is supported:
// "/* outer /* inner */ still outer */" is one comment. This is the
// implementer's choice spec.md §4.2 leaves open; nesting was picked
// because it composes better with commented-out code that itself
// contains block comments.
func (l *Lexer) skipBlockComment() {
	start := l.currentPos()
	l.readChar() // '/'
	l.readChar() // '*'
	depth := 1
	for depth > 0 {
		if l.ch == 0 {
			l.addError(start, "unterminated block comment")
			return
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			depth++
			continue
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			depth--
			continue
		}
		l.readChar()
	}
}

func (l *Lexer) scanIdentifierOrKeyword(pos token.Position) token.Token {
	var sb []rune
	for isIdentPart(l.ch) {
		sb = append(sb, l.ch)
		l.readChar()
	}
	// Identifiers normalize to NFC before keyword/symbol lookup, so two
	// byte-distinct spellings of the same identifier (combining-mark vs.
	// precomposed form) resolve to one symbol rather than two (spec.md §6.2
	// identifier equality).
	lit := norm.NFC.String(string(sb))
	if kind, ok := l.g.KeywordKind(lit); ok {
		return token.Token{Kind: kind, Literal: lit, Pos: pos}
	}
	return token.Token{Kind: token.IDENT, Literal: lit, Pos: pos}
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }
func isDigit(r rune) bool      { return r >= '0' && r <= '9' }
