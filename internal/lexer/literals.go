package lexer

import (
	"strings"

	"github.com/schiffy91/btrc/internal/token"
)

// scanNumber implements spec.md §4.2's integer and float literal classes:
// decimal/0x/0b/0o integers with an optional suffix, and d.d / .d / d. /
// exponent-form floats with an optional 'f' suffix.
func (l *Lexer) scanNumber(pos token.Position) token.Token {
	var sb strings.Builder

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		sb.WriteRune(l.ch)
		l.readChar()
		sb.WriteRune(l.ch)
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '_' {
			sb.WriteRune(l.ch)
			l.readChar()
		}
		return token.Token{Kind: token.INT, Literal: sb.String(), Pos: pos}
	}
	if l.ch == '0' && (l.peekChar() == 'b' || l.peekChar() == 'B') {
		sb.WriteRune(l.ch)
		l.readChar()
		sb.WriteRune(l.ch)
		l.readChar()
		for l.ch == '0' || l.ch == '1' || l.ch == '_' {
			sb.WriteRune(l.ch)
			l.readChar()
		}
		return token.Token{Kind: token.INT, Literal: sb.String(), Pos: pos}
	}
	if l.ch == '0' && (l.peekChar() == 'o' || l.peekChar() == 'O') {
		sb.WriteRune(l.ch)
		l.readChar()
		sb.WriteRune(l.ch)
		l.readChar()
		for (l.ch >= '0' && l.ch <= '7') || l.ch == '_' {
			sb.WriteRune(l.ch)
			l.readChar()
		}
		return token.Token{Kind: token.INT, Literal: sb.String(), Pos: pos}
	}

	for isDigit(l.ch) || l.ch == '_' {
		sb.WriteRune(l.ch)
		l.readChar()
	}

	isFloat := false
	if l.ch == '.' && l.peekChar() != '.' {
		isFloat = true
		sb.WriteRune(l.ch)
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		isFloat = true
		sb.WriteRune(l.ch)
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			sb.WriteRune(l.ch)
			l.readChar()
		}
		for isDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
	if l.ch == 'f' || l.ch == 'F' {
		isFloat = true
		sb.WriteRune(l.ch)
		l.readChar()
	}

	kind := token.INT
	if isFloat {
		kind = token.FLOAT
	}
	return token.Token{Kind: kind, Literal: sb.String(), Pos: pos}
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// scanString reads a double-quoted string literal with C escapes.
func (l *Lexer) scanString(pos token.Position) token.Token {
	var sb strings.Builder
	l.readChar() // opening quote
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			sb.WriteString(l.readEscape())
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	if l.ch == 0 {
		l.addError(pos, "unterminated string literal")
	} else {
		l.readChar() // closing quote
	}
	return token.Token{Kind: token.STRING, Literal: sb.String(), Pos: pos}
}

// scanChar reads a single-quoted character literal with C escapes.
func (l *Lexer) scanChar(pos token.Position) token.Token {
	var sb strings.Builder
	l.readChar() // opening quote
	if l.ch == '\\' {
		sb.WriteString(l.readEscape())
	} else if l.ch != 0 {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	if l.ch != '\'' {
		l.addError(pos, "unterminated or multi-character char literal")
	} else {
		l.readChar()
	}
	return token.Token{Kind: token.CHAR, Literal: sb.String(), Pos: pos}
}

func (l *Lexer) readEscape() string {
	l.readChar() // consume '\'
	switch l.ch {
	case 'n':
		l.readChar()
		return "\n"
	case 't':
		l.readChar()
		return "\t"
	case 'r':
		l.readChar()
		return "\r"
	case '0':
		l.readChar()
		return "\x00"
	case '\\':
		l.readChar()
		return "\\"
	case '\'':
		l.readChar()
		return "'"
	case '"':
		l.readChar()
		return "\""
	default:
		ch := l.ch
		l.readChar()
		return "\\" + string(ch)
	}
}

// scanFString reads the raw body of an f"..." literal. Per spec.md §4.2,
// the Lexer returns the raw text including {...} chunks verbatim; the
// Parser re-enters a nested mini-lexer on '{' to split text from
// expression chunks, tracking brace depth so a literal '{' can be escaped
// as "{{" without being mistaken for a chunk start.
func (l *Lexer) scanFString(pos token.Position) token.Token {
	var sb strings.Builder
	l.readChar() // opening quote
	depth := 0
	for {
		if l.ch == 0 {
			l.addError(pos, "unterminated f-string literal")
			break
		}
		if depth == 0 && l.ch == '"' {
			break
		}
		if l.ch == '{' {
			if depth == 0 && l.peekChar() == '{' {
				sb.WriteString("{{")
				l.readChar()
				l.readChar()
				continue
			}
			depth++
		} else if l.ch == '}' {
			if depth == 0 && l.peekChar() == '}' {
				sb.WriteString("}}")
				l.readChar()
				l.readChar()
				continue
			}
			if depth > 0 {
				depth--
			}
		} else if l.ch == '\\' && depth == 0 {
			sb.WriteString(l.readEscape())
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	if l.ch == '"' {
		l.readChar()
	}
	return token.Token{Kind: token.FSTRING, Literal: sb.String(), Pos: pos}
}
