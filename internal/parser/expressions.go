package parser

import (
	"strconv"
	"strings"

	"github.com/schiffy91/btrc/internal/ast"
	"github.com/schiffy91/btrc/internal/token"
)

// parseExpr is the expression grammar's entry point: null-coalesce is the
// lowest-precedence operator below assignment, which this package treats as
// a statement-level construct (spec.md §4.3 precedence chain).
func (p *Parser) parseExpr() ast.Expr {
	return p.parseNullCoalesce()
}

func (p *Parser) parseNullCoalesce() ast.Expr {
	left := p.parseTernary()
	for p.c.Is(p.k.qq) {
		pos := p.c.Position()
		p.c = p.c.Advance()
		right := p.parseTernary()
		left = ast.NewNullCoalesce(pos, left, right)
	}
	return left
}

func (p *Parser) parseTernary() ast.Expr {
	cond := p.parseLogOr()
	if p.c.Is(p.k.question) {
		pos := p.c.Position()
		p.c = p.c.Advance()
		thenExpr := p.parseExpr()
		p.expect(p.k.colon, "':'")
		elseExpr := p.parseTernary()
		return ast.NewTernary(pos, cond, thenExpr, elseExpr)
	}
	return cond
}

func (p *Parser) parseLogOr() ast.Expr {
	left := p.parseLogAnd()
	for p.c.Is(p.k.oror) {
		pos := p.c.Position()
		p.c = p.c.Advance()
		right := p.parseLogAnd()
		left = ast.NewBinary(pos, ast.LogOr, left, right)
	}
	return left
}

func (p *Parser) parseLogAnd() ast.Expr {
	left := p.parseBitOr()
	for p.c.Is(p.k.andand) {
		pos := p.c.Position()
		p.c = p.c.Advance()
		right := p.parseBitOr()
		left = ast.NewBinary(pos, ast.LogAnd, left, right)
	}
	return left
}

func (p *Parser) parseBitOr() ast.Expr {
	left := p.parseBitXor()
	for p.c.Is(p.k.pipe) {
		pos := p.c.Position()
		p.c = p.c.Advance()
		right := p.parseBitXor()
		left = ast.NewBinary(pos, ast.BitOr, left, right)
	}
	return left
}

func (p *Parser) parseBitXor() ast.Expr {
	left := p.parseBitAnd()
	for p.c.Is(p.k.caret) {
		pos := p.c.Position()
		p.c = p.c.Advance()
		right := p.parseBitAnd()
		left = ast.NewBinary(pos, ast.BitXor, left, right)
	}
	return left
}

func (p *Parser) parseBitAnd() ast.Expr {
	left := p.parseEquality()
	for p.c.Is(p.k.amp) {
		pos := p.c.Position()
		p.c = p.c.Advance()
		right := p.parseEquality()
		left = ast.NewBinary(pos, ast.BitAnd, left, right)
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for {
		var op ast.BinaryOp
		switch {
		case p.c.Is(p.k.eq):
			op = ast.Eq
		case p.c.Is(p.k.ne):
			op = ast.Ne
		default:
			return left
		}
		pos := p.c.Position()
		p.c = p.c.Advance()
		right := p.parseRelational()
		left = ast.NewBinary(pos, op, left, right)
	}
}

// parseRelational also handles `is`/`as` (spec.md's type-test/cast family
// sits at relational precedence). Their right-hand side is a type, encoded
// as an Ident carrying the type's display text so it fits the Binary
// node's expr-typed Right field; the Analyzer recognizes Is/As specially.
func (p *Parser) parseRelational() ast.Expr {
	left := p.parseShift()
	for {
		var op ast.BinaryOp
		switch {
		case p.c.Is(p.k.lt):
			op = ast.Lt
		case p.c.Is(p.k.gt):
			op = ast.Gt
		case p.c.Is(p.k.le):
			op = ast.Le
		case p.c.Is(p.k.ge):
			op = ast.Ge
		case p.c.Is(p.k.isKw):
			op = ast.Is
		case p.c.Is(p.k.asKw):
			op = ast.As
		default:
			return left
		}
		pos := p.c.Position()
		p.c = p.c.Advance()
		if op == ast.Is || op == ast.As {
			t := p.parseType()
			left = ast.NewBinary(pos, op, left, ast.NewIdent(pos, ast.TypeExprName(t)))
			continue
		}
		right := p.parseShift()
		left = ast.NewBinary(pos, op, left, right)
	}
}

func (p *Parser) parseShift() ast.Expr {
	left := p.parseAdditive()
	for {
		var op ast.BinaryOp
		switch {
		case p.c.Is(p.k.shl):
			op = ast.Shl
		case p.c.Is(p.k.shr):
			op = ast.Shr
		default:
			return left
		}
		pos := p.c.Position()
		p.c = p.c.Advance()
		right := p.parseAdditive()
		left = ast.NewBinary(pos, op, left, right)
	}
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for {
		var op ast.BinaryOp
		switch {
		case p.c.Is(p.k.plus):
			op = ast.Add
		case p.c.Is(p.k.minus):
			op = ast.Sub
		default:
			return left
		}
		pos := p.c.Position()
		p.c = p.c.Advance()
		right := p.parseMultiplicative()
		left = ast.NewBinary(pos, op, left, right)
	}
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for {
		var op ast.BinaryOp
		switch {
		case p.c.Is(p.k.star):
			op = ast.Mul
		case p.c.Is(p.k.slash):
			op = ast.Div
		case p.c.Is(p.k.percent):
			op = ast.Mod
		default:
			return left
		}
		pos := p.c.Position()
		p.c = p.c.Advance()
		right := p.parseUnary()
		left = ast.NewBinary(pos, op, left, right)
	}
}

func (p *Parser) parseUnary() ast.Expr {
	pos := p.c.Position()
	switch {
	case p.c.Is(p.k.minus):
		p.c = p.c.Advance()
		return ast.NewUnary(pos, ast.Neg, p.parseUnary(), false)
	case p.c.Is(p.k.bang):
		p.c = p.c.Advance()
		return ast.NewUnary(pos, ast.Not, p.parseUnary(), false)
	case p.c.Is(p.k.tilde):
		p.c = p.c.Advance()
		return ast.NewUnary(pos, ast.BitNot, p.parseUnary(), false)
	case p.c.Is(p.k.inc):
		p.c = p.c.Advance()
		return ast.NewUnary(pos, ast.PreInc, p.parseUnary(), false)
	case p.c.Is(p.k.dec):
		p.c = p.c.Advance()
		return ast.NewUnary(pos, ast.PreDec, p.parseUnary(), false)
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()
	for {
		pos := p.c.Position()
		switch {
		case p.c.Is(p.k.dot):
			p.c = p.c.Advance()
			nameTok, _ := p.expect(p.k.ident, "a member name")
			e = ast.NewMember(pos, e, nameTok.Literal, false)
		case p.c.Is(p.k.qdot):
			p.c = p.c.Advance()
			nameTok, _ := p.expect(p.k.ident, "a member name")
			e = ast.NewMember(pos, e, nameTok.Literal, true)
		case p.c.Is(p.k.arrow):
			p.c = p.c.Advance()
			nameTok, _ := p.expect(p.k.ident, "a member name")
			e = ast.NewArrow(pos, e, nameTok.Literal)
		case p.c.Is(p.k.lbracket):
			p.c = p.c.Advance()
			idx := p.parseExpr()
			p.expect(p.k.rbracket, "']'")
			e = ast.NewIndex(pos, e, idx)
		case p.c.Is(p.k.lparen):
			args := p.parseArgList()
			e = ast.NewCall(pos, e, args)
		case p.c.Is(p.k.inc):
			p.c = p.c.Advance()
			e = ast.NewUnary(pos, ast.PostInc, e, true)
		case p.c.Is(p.k.dec):
			p.c = p.c.Advance()
			e = ast.NewUnary(pos, ast.PostDec, e, true)
		default:
			return e
		}
	}
}

func (p *Parser) parseArgList() []ast.Expr {
	p.expect(p.k.lparen, "'('")
	var args []ast.Expr
	for !p.c.Is(p.k.rparen) && !p.c.IsEOF() {
		args = append(args, p.parseExpr())
		if p.c.Is(p.k.comma) {
			p.c = p.c.Advance()
			continue
		}
		break
	}
	p.expect(p.k.rparen, "')'")
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.c.Current()
	pos := tok.Pos

	switch {
	case tok.Kind == p.k.intLit:
		p.c = p.c.Advance()
		v, _ := parseIntLiteral(tok.Literal)
		return ast.NewIntLiteral(pos, v)
	case tok.Kind == p.k.floatLit:
		p.c = p.c.Advance()
		v, _ := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(tok.Literal, "f"), "F"), 64)
		return ast.NewFloatLiteral(pos, v)
	case tok.Kind == p.k.charLit:
		p.c = p.c.Advance()
		r := []rune(tok.Literal)
		var v int32
		if len(r) > 0 {
			v = r[0]
		}
		return ast.NewCharLiteral(pos, v)
	case tok.Kind == p.k.stringLit:
		p.c = p.c.Advance()
		return ast.NewStringLiteral(pos, tok.Literal)
	case tok.Kind == p.k.fstringLit:
		p.c = p.c.Advance()
		return p.parseFStringBody(pos, tok.Literal)
	case tok.Kind == p.k.true_:
		p.c = p.c.Advance()
		return ast.NewBoolLiteral(pos, true)
	case tok.Kind == p.k.false_:
		p.c = p.c.Advance()
		return ast.NewBoolLiteral(pos, false)
	case tok.Kind == p.k.null:
		p.c = p.c.Advance()
		return ast.NewNullLiteral(pos)
	case tok.Kind == p.k.this:
		p.c = p.c.Advance()
		return ast.NewIdent(pos, "this")
	case tok.Kind == p.k.super:
		p.c = p.c.Advance()
		return ast.NewIdent(pos, "super")
	case tok.Kind == p.k.ident:
		p.c = p.c.Advance()
		return ast.NewIdent(pos, tok.Literal)
	case tok.Kind == p.k.newKw:
		return p.parseNew()
	case tok.Kind == p.k.del:
		p.c = p.c.Advance()
		return ast.NewDelete(pos, p.parseUnary())
	case tok.Kind == p.k.sizeofKw:
		p.c = p.c.Advance()
		p.expect(p.k.lparen, "'('")
		t := p.parseType()
		p.expect(p.k.rparen, "')'")
		return ast.NewSizeofExpr(pos, t)
	case tok.Kind == p.k.castKw:
		return p.parseCastKeyword()
	case tok.Kind == p.k.lparen:
		return p.parseParenOrLambdaOrCast()
	}

	p.errorf(pos, "unexpected token %q in expression", tok.Literal)
	p.c = p.c.Advance()
	return ast.NewNullLiteral(pos)
}

func (p *Parser) parseNew() ast.Expr {
	pos := p.c.Position()
	p.c = p.c.Advance() // 'new'
	classType := p.parseType()
	var args []ast.Expr
	if p.c.Is(p.k.lparen) {
		args = p.parseArgList()
	}
	return ast.NewNew(pos, classType, args)
}

func (p *Parser) parseCastKeyword() ast.Expr {
	pos := p.c.Position()
	p.c = p.c.Advance() // 'cast'
	p.expect(p.k.lt, "'<'")
	t := p.parseType()
	p.expect(p.k.gt, "'>'")
	p.expect(p.k.lparen, "'('")
	value := p.parseExpr()
	p.expect(p.k.rparen, "')'")
	return ast.NewCast(pos, t, value)
}

// parseParenOrLambdaOrCast resolves the three-way ambiguity spec.md §4.3
// assigns to a leading `(`: a C-style cast `(Type)expr`, a lambda's
// parameter list `(params) => ...`, or a grouped/tuple expression.
func (p *Parser) parseParenOrLambdaOrCast() ast.Expr {
	pos := p.c.Position()

	if lam, ok := p.tryParseLambda(pos); ok {
		return lam
	}
	if cast, ok := p.tryParseCastParen(pos); ok {
		return cast
	}

	p.c = p.c.Advance() // '('
	first := p.parseExpr()
	if p.c.Is(p.k.comma) {
		elems := []ast.Expr{first}
		for p.c.Is(p.k.comma) {
			p.c = p.c.Advance()
			elems = append(elems, p.parseExpr())
		}
		p.expect(p.k.rparen, "')'")
		return ast.NewTupleExpr(pos, elems)
	}
	p.expect(p.k.rparen, "')'")
	return first
}

// tryParseLambda attempts `(params) => expr` or `(params) => { stmts }`.
func (p *Parser) tryParseLambda(pos token.Position) (ast.Expr, bool) {
	mark := p.c.Mark()
	if ok := p.tryConsumeParamListSkeleton(); !ok {
		p.c = p.c.ResetTo(mark)
		return nil, false
	}
	if !p.c.Is(p.k.fatArrow) {
		p.c = p.c.ResetTo(mark)
		return nil, false
	}
	p.c = p.c.ResetTo(mark)
	params := p.parseParamList()
	p.expect(p.k.fatArrow, "'=>'")
	if p.c.Is(p.k.lbrace) {
		body := p.parseBlockBody()
		return ast.NewLambdaExpr(pos, params, nil, body, false), true
	}
	body := []ast.Stmt{ast.NewExprStmt(pos, p.parseExpr())}
	return ast.NewLambdaExpr(pos, params, nil, body, true), true
}

// tryConsumeParamListSkeleton scans a `(...)` group without validating full
// parameter syntax, just balance, to probe for a following `=>`.
func (p *Parser) tryConsumeParamListSkeleton() bool {
	if !p.c.Is(p.k.lparen) {
		return false
	}
	depth := 0
	for i := 0; ; i++ {
		tok := p.c.Peek(i)
		if tok.Kind == token.EOF {
			return false
		}
		if tok.Kind == p.k.lparen {
			depth++
		}
		if tok.Kind == p.k.rparen {
			depth--
			if depth == 0 {
				return true
			}
		}
	}
}

// tryParseCastParen attempts `(Type)expr`: valid iff the parenthesized
// content parses as a type and the token after `)` can start a unary
// expression (spec.md §4.3).
func (p *Parser) tryParseCastParen(pos token.Position) (ast.Expr, bool) {
	mark := p.c.Mark()
	p.c = p.c.Advance() // '('
	if !p.canStartType() {
		p.c = p.c.ResetTo(mark)
		return nil, false
	}
	t := p.parseType()
	if !p.c.Is(p.k.rparen) {
		p.c = p.c.ResetTo(mark)
		return nil, false
	}
	p.c = p.c.Advance() // ')'
	if !p.canStartUnary() {
		p.c = p.c.ResetTo(mark)
		return nil, false
	}
	value := p.parseUnary()
	return ast.NewCast(pos, t, value), true
}

func (p *Parser) canStartUnary() bool {
	k := p.c.Current().Kind
	switch k {
	case p.k.minus, p.k.bang, p.k.tilde, p.k.inc, p.k.dec, p.k.ident, p.k.intLit, p.k.floatLit,
		p.k.charLit, p.k.stringLit, p.k.fstringLit, p.k.true_, p.k.false_, p.k.null,
		p.k.this, p.k.super, p.k.newKw, p.k.del, p.k.sizeofKw, p.k.castKw, p.k.lparen:
		return true
	}
	return false
}

func parseIntLiteral(lit string) (int64, error) {
	clean := strings.ReplaceAll(lit, "_", "")
	switch {
	case strings.HasPrefix(clean, "0x"), strings.HasPrefix(clean, "0X"):
		return strconv.ParseInt(clean[2:], 16, 64)
	case strings.HasPrefix(clean, "0b"), strings.HasPrefix(clean, "0B"):
		return strconv.ParseInt(clean[2:], 2, 64)
	case strings.HasPrefix(clean, "0o"), strings.HasPrefix(clean, "0O"):
		return strconv.ParseInt(clean[2:], 8, 64)
	default:
		return strconv.ParseInt(clean, 10, 64)
	}
}
