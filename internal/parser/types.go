package parser

import "github.com/schiffy91/btrc/internal/ast"

// parseType parses a type-position node. Disambiguation of tuple type vs
// parenthesized grouping type follows spec.md §4.3: a parenthesized list
// with `,` is a tuple type, a single parenthesized type is grouping.
func (p *Parser) parseType() ast.TypeExpr {
	pos := p.c.Position()

	if p.c.Is(p.k.lparen) {
		p.c = p.c.Advance()
		first := p.parseType()
		if p.c.Is(p.k.comma) {
			elems := []ast.TypeExpr{first}
			for p.c.Is(p.k.comma) {
				p.c = p.c.Advance()
				elems = append(elems, p.parseType())
			}
			p.expect(p.k.rparen, "')'")
			return p.parsePointerAndNullable(ast.NewTupleType(pos, elems))
		}
		p.expect(p.k.rparen, "')'")
		return p.parsePointerAndNullable(first)
	}

	if p.c.Is(p.k.funcKw) {
		p.c = p.c.Advance()
		p.expect(p.k.lparen, "'('")
		var params []ast.TypeExpr
		for !p.c.Is(p.k.rparen) && !p.c.IsEOF() {
			params = append(params, p.parseType())
			if p.c.Is(p.k.comma) {
				p.c = p.c.Advance()
				continue
			}
			break
		}
		p.expect(p.k.rparen, "')'")
		var result ast.TypeExpr
		if p.c.Is(p.k.arrow) {
			p.c = p.c.Advance()
			result = p.parseType()
		} else {
			result = ast.NewPrimitiveType(pos, "void")
		}
		return p.parsePointerAndNullable(ast.NewFuncType(pos, params, result))
	}

	name := p.typeNameLiteral()
	var base ast.TypeExpr = ast.NewPrimitiveType(pos, name)

	if p.c.Is(p.k.lt) {
		if args, ok := p.tryParseGenericArgs(); ok {
			base = ast.NewGenericType(pos, name, args)
		}
	}

	return p.parsePointerAndNullable(base)
}

// typeNameLiteral consumes a primitive keyword or identifier naming a type.
func (p *Parser) typeNameLiteral() string {
	tok := p.c.Current()
	switch tok.Kind {
	case p.k.voidKw, p.k.ident:
		p.c = p.c.Advance()
		return tok.Literal
	default:
		// int/float/double/bool/char/string are lexed as their own
		// grammar-defined keyword kinds; any of them is a valid
		// primitive type name and carries its own literal text.
		p.c = p.c.Advance()
		return tok.Literal
	}
}

// parsePointerAndNullable consumes trailing `*` and `?` suffixes, which can
// be combined and repeated (e.g. `int**?`).
func (p *Parser) parsePointerAndNullable(t ast.TypeExpr) ast.TypeExpr {
	for {
		if p.c.Is(p.k.star) {
			pos := p.c.Position()
			p.c = p.c.Advance()
			t = ast.NewPointerType(pos, t)
			continue
		}
		if p.c.Is(p.k.question) {
			pos := p.c.Position()
			p.c = p.c.Advance()
			t = ast.NewNullableType(pos, t)
			continue
		}
		break
	}
	return t
}

// tryParseGenericArgs attempts to parse `< T1, T2, ... >` as generic type
// arguments on a trial branch (spec.md §4.3: `a < b` vs `Name<T>`). In type
// position this is never ambiguous with a relational expression, but the
// same trial-and-rollback mechanism is reused here for a single code path.
func (p *Parser) tryParseGenericArgs() ([]ast.TypeExpr, bool) {
	mark := p.c.Mark()
	p.c = p.c.Advance() // consume '<'
	var args []ast.TypeExpr
	for !p.c.Is(p.k.gt) {
		if p.c.IsEOF() || p.c.Is(p.k.semicolon) || p.c.Is(p.k.lbrace) {
			p.c = p.c.ResetTo(mark)
			return nil, false
		}
		args = append(args, p.parseType())
		if p.c.Is(p.k.comma) {
			p.c = p.c.Advance()
			continue
		}
		break
	}
	if !p.c.Is(p.k.gt) {
		p.c = p.c.ResetTo(mark)
		return nil, false
	}
	p.c = p.c.Advance()
	return args, true
}
