package parser

import (
	"strings"

	"github.com/schiffy91/btrc/internal/ast"
	"github.com/schiffy91/btrc/internal/token"
)

// parseFStringBody splits the lexer's raw f-string body into text and
// expression chunks (spec.md §4.2: this is the parser's responsibility, a
// nested mini-lexer re-entered on `{` with brace-depth tracking). Each
// embedded expression is parsed by recursively invoking this package's own
// Parser over the substring, so the full expression grammar -- including
// nested f-strings -- is available inside `{ }`.
func (p *Parser) parseFStringBody(pos token.Position, raw string) ast.Expr {
	var chunks []ast.FStringChunk
	var text strings.Builder
	runes := []rune(raw)

	flushText := func() {
		if text.Len() > 0 {
			chunks = append(chunks, ast.NewTextChunk(pos, text.String()))
			text.Reset()
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '{':
			if i+1 < len(runes) && runes[i+1] == '{' {
				text.WriteRune('{')
				i++
				continue
			}
			flushText()
			depth := 1
			j := i + 1
			start := j
			for j < len(runes) && depth > 0 {
				if runes[j] == '{' {
					depth++
				} else if runes[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				j++
			}
			inner := string(runes[start:j])
			i = j

			exprSrc, format := splitFormatSpec(inner)
			sub := New(p.g, exprSrc, p.file)
			value := sub.parseExpr()
			p.errors.Extend(sub.errors)
			chunks = append(chunks, ast.NewExprChunk(pos, value, format))
		case '}':
			if i+1 < len(runes) && runes[i+1] == '}' {
				text.WriteRune('}')
				i++
				continue
			}
			text.WriteRune(r)
		default:
			text.WriteRune(r)
		}
	}
	flushText()
	return ast.NewFString(pos, chunks)
}

// splitFormatSpec separates `expr` from an optional trailing `:format`
// at the top nesting level (colons inside brackets/parens don't count).
func splitFormatSpec(s string) (expr, format string) {
	depth := 0
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ':':
			if depth == 0 {
				return s[:i], s[i+1:]
			}
		}
	}
	return s, ""
}
