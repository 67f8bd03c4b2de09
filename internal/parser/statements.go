package parser

import "github.com/schiffy91/btrc/internal/ast"

func (p *Parser) parseStmt() ast.Stmt {
	switch {
	case p.c.Is(p.k.varKw), p.c.Is(p.k.letKw), p.c.Is(p.k.constKw):
		return p.parseVarDeclStmt()
	case p.c.Is(p.k.ifKw):
		return p.parseIf()
	case p.c.Is(p.k.forKw):
		return p.parseFor()
	case p.c.Is(p.k.whileKw):
		return p.parseWhile()
	case p.c.Is(p.k.doKw):
		return p.parseDoWhile()
	case p.c.Is(p.k.switchKw):
		return p.parseSwitch()
	case p.c.Is(p.k.tryKw):
		return p.parseTry()
	case p.c.Is(p.k.throwKw):
		return p.parseThrow()
	case p.c.Is(p.k.spawnKw):
		return p.parseSpawn()
	case p.c.Is(p.k.release):
		return p.parseRelease()
	case p.c.Is(p.k.returnKw):
		return p.parseReturn()
	case p.c.Is(p.k.breakKw):
		pos := p.c.Position()
		p.c = p.c.Advance()
		p.expect(p.k.semicolon, "';'")
		return ast.NewBreak(pos)
	case p.c.Is(p.k.continueKw):
		pos := p.c.Position()
		p.c = p.c.Advance()
		p.expect(p.k.semicolon, "';'")
		return ast.NewContinue(pos)
	case p.c.Is(p.k.lbrace):
		pos := p.c.Position()
		return ast.NewBlock(pos, p.parseBlockBody())
	}

	if s, ok := p.tryParseTypedVarDecl(); ok {
		return s
	}
	return p.parseSimpleStmt()
}

// tryParseTypedVarDecl attempts `Type name [= init];` as a local variable
// declaration on a trial branch, backtracking to an expression statement
// when the trial does not confirm a declaration (e.g. `x = 1;` where `x`
// parses as a type name but isn't followed by another identifier).
func (p *Parser) tryParseTypedVarDecl() (ast.Stmt, bool) {
	if !p.canStartType() {
		return nil, false
	}
	mark := p.c.Mark()
	pos := p.c.Position()
	declType := p.parseType()
	if !p.c.Is(p.k.ident) {
		p.c = p.c.ResetTo(mark)
		return nil, false
	}
	nameTok := p.c.Current()
	p.c = p.c.Advance()
	if !p.c.Is(p.k.assign) && !p.c.Is(p.k.semicolon) {
		p.c = p.c.ResetTo(mark)
		return nil, false
	}
	var init ast.Expr
	if p.c.Is(p.k.assign) {
		p.c = p.c.Advance()
		init = p.parseExpr()
	}
	p.expect(p.k.semicolon, "';'")
	return ast.NewVarDecl(pos, declType, nameTok.Literal, init), true
}

// canStartType reports whether the current token can begin a type in
// statement position (spec.md §4.3's `Type name [= init];` local declaration
// form). Every primitive-type keyword lexes as its own grammar-defined kind
// (see buildKindSet), not token.IDENT, so each must be listed explicitly
// alongside a user type name (ident) or `void`.
func (p *Parser) canStartType() bool {
	k := p.c.Current().Kind
	switch k {
	case p.k.ident, p.k.voidKw, p.k.intKw, p.k.floatKw, p.k.doubleKw, p.k.boolKw, p.k.charKw, p.k.stringKw, p.k.mutexKw:
		return true
	default:
		return false
	}
}

func (p *Parser) parseVarDeclStmt() ast.Stmt {
	pos := p.c.Position()
	p.c = p.c.Advance() // var/let/const
	nameTok, _ := p.expect(p.k.ident, "a variable name")
	declType := ast.NewPrimitiveType(pos, "var")
	var init ast.Expr
	if p.c.Is(p.k.assign) {
		p.c = p.c.Advance()
		init = p.parseExpr()
	}
	p.expect(p.k.semicolon, "';'")
	return ast.NewVarDecl(pos, declType, nameTok.Literal, init)
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.c.Position()
	p.c = p.c.Advance() // 'if'
	p.expect(p.k.lparen, "'('")
	cond := p.parseExpr()
	p.expect(p.k.rparen, "')'")
	thenBody := p.parseStmtOrBlock()
	var elseBody []ast.Stmt
	if p.c.Is(p.k.elseKw) {
		p.c = p.c.Advance()
		elseBody = p.parseStmtOrBlock()
	}
	return ast.NewIf(pos, cond, thenBody, elseBody)
}

func (p *Parser) parseStmtOrBlock() []ast.Stmt {
	if p.c.Is(p.k.lbrace) {
		return p.parseBlockBody()
	}
	return []ast.Stmt{p.parseStmt()}
}

// parseFor disambiguates C-style for from for-in by the presence of `in`
// after the loop variable binding (spec.md §4.3).
func (p *Parser) parseFor() ast.Stmt {
	pos := p.c.Position()
	p.c = p.c.Advance() // 'for'
	p.expect(p.k.lparen, "'('")

	mark := p.c.Mark()
	if p.canStartType() || p.c.Is(p.k.varKw) || p.c.Is(p.k.letKw) {
		isSugar := p.c.Is(p.k.varKw) || p.c.Is(p.k.letKw)
		if isSugar {
			p.c = p.c.Advance()
		} else {
			p.parseType()
		}
		if p.c.Is(p.k.ident) {
			varTok := p.c.Current()
			p.c = p.c.Advance()
			if p.c.Is(p.k.inKw) {
				p.c = p.c.Advance()
				iterable := p.parseExpr()
				p.expect(p.k.rparen, "')'")
				body := p.parseStmtOrBlock()
				return ast.NewForIn(pos, varTok.Literal, iterable, body)
			}
		}
	}
	p.c = p.c.ResetTo(mark)

	var init ast.Stmt
	if !p.c.Is(p.k.semicolon) {
		if s, ok := p.tryParseTypedVarDecl(); ok {
			init = s
		} else {
			init = p.parseSimpleStmt()
		}
	} else {
		p.c = p.c.Advance()
	}
	var cond ast.Expr
	if !p.c.Is(p.k.semicolon) {
		cond = p.parseExpr()
	}
	p.expect(p.k.semicolon, "';'")
	var post ast.Stmt
	if !p.c.Is(p.k.rparen) {
		post = ast.NewExprStmt(p.c.Position(), p.parseExpr())
	}
	p.expect(p.k.rparen, "')'")
	body := p.parseStmtOrBlock()
	return ast.NewCFor(pos, init, cond, post, body)
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.c.Position()
	p.c = p.c.Advance()
	p.expect(p.k.lparen, "'('")
	cond := p.parseExpr()
	p.expect(p.k.rparen, "')'")
	body := p.parseStmtOrBlock()
	return ast.NewWhile(pos, cond, body)
}

func (p *Parser) parseDoWhile() ast.Stmt {
	pos := p.c.Position()
	p.c = p.c.Advance() // 'do'
	body := p.parseStmtOrBlock()
	p.expect(p.k.whileKw, "'while'")
	p.expect(p.k.lparen, "'('")
	cond := p.parseExpr()
	p.expect(p.k.rparen, "')'")
	p.expect(p.k.semicolon, "';'")
	return ast.NewDoWhile(pos, body, cond)
}

func (p *Parser) parseSwitch() ast.Stmt {
	pos := p.c.Position()
	p.c = p.c.Advance() // 'switch'
	p.expect(p.k.lparen, "'('")
	subject := p.parseExpr()
	p.expect(p.k.rparen, "')'")
	p.expect(p.k.lbrace, "'{'")
	var cases []ast.Case
	var defaultBody []ast.Stmt
	for !p.c.Is(p.k.rbrace) && !p.c.IsEOF() {
		if p.c.Is(p.k.caseKw) {
			p.c = p.c.Advance()
			var values []ast.Expr
			for {
				values = append(values, p.parseExpr())
				if p.c.Is(p.k.comma) {
					p.c = p.c.Advance()
					continue
				}
				break
			}
			p.expect(p.k.colon, "':'")
			var body []ast.Stmt
			for !p.c.Is(p.k.caseKw) && !p.c.Is(p.k.defaultKw) && !p.c.Is(p.k.rbrace) && !p.c.IsEOF() {
				body = append(body, p.parseStmt())
			}
			cases = append(cases, ast.Case{Values: values, Body: body})
			continue
		}
		if p.c.Is(p.k.defaultKw) {
			p.c = p.c.Advance()
			p.expect(p.k.colon, "':'")
			for !p.c.Is(p.k.caseKw) && !p.c.Is(p.k.rbrace) && !p.c.IsEOF() {
				defaultBody = append(defaultBody, p.parseStmt())
			}
			continue
		}
		p.c = p.c.Advance()
	}
	p.expect(p.k.rbrace, "'}'")
	return ast.NewSwitch(pos, subject, cases, defaultBody)
}

func (p *Parser) parseTry() ast.Stmt {
	pos := p.c.Position()
	p.c = p.c.Advance() // 'try'
	tryBody := p.parseBlockBody()
	var catches []ast.CatchClause
	for p.c.Is(p.k.catchKw) {
		p.c = p.c.Advance()
		p.expect(p.k.lparen, "'('")
		exType := p.parseType()
		var binding string
		if p.c.Is(p.k.ident) {
			binding = p.c.Current().Literal
			p.c = p.c.Advance()
		}
		p.expect(p.k.rparen, "')'")
		body := p.parseBlockBody()
		catches = append(catches, ast.CatchClause{ExceptionType: exType, Binding: binding, Body: body})
	}
	var finallyBody []ast.Stmt
	if p.c.Is(p.k.finallyKw) {
		p.c = p.c.Advance()
		finallyBody = p.parseBlockBody()
	}
	return ast.NewTryCatchFinally(pos, tryBody, catches, finallyBody)
}

func (p *Parser) parseThrow() ast.Stmt {
	pos := p.c.Position()
	p.c = p.c.Advance()
	value := p.parseExpr()
	p.expect(p.k.semicolon, "';'")
	return ast.NewThrow(pos, value)
}

// parseSpawn parses `spawn call;`. The grammar restricts the operand to a
// call expression (a thread needs an entry point, not a value); anything
// else is rejected with a diagnostic rather than silently accepted.
func (p *Parser) parseSpawn() ast.Stmt {
	pos := p.c.Position()
	p.c = p.c.Advance()
	value := p.parseExpr()
	if _, ok := value.(*ast.Call); !ok {
		p.errorf(pos, "'spawn' requires a function call")
	}
	p.expect(p.k.semicolon, "';'")
	return ast.NewSpawn(pos, value)
}

// parseRelease parses `release expr;`, an explicit early ARC decrement
// (spec.md §4.5's keep/release model).
func (p *Parser) parseRelease() ast.Stmt {
	pos := p.c.Position()
	p.c = p.c.Advance()
	value := p.parseExpr()
	p.expect(p.k.semicolon, "';'")
	return ast.NewRelease(pos, value)
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.c.Position()
	p.c = p.c.Advance()
	var value ast.Expr
	if !p.c.Is(p.k.semicolon) {
		value = p.parseExpr()
	}
	p.expect(p.k.semicolon, "';'")
	return ast.NewReturn(pos, value)
}

// parseSimpleStmt parses an assignment or a bare expression statement.
func (p *Parser) parseSimpleStmt() ast.Stmt {
	pos := p.c.Position()
	target := p.parseExpr()

	op, isAssign := p.currentAssignOp()
	if isAssign {
		p.c = p.c.Advance()
		value := p.parseExpr()
		p.expect(p.k.semicolon, "';'")
		return ast.NewAssign(pos, target, op, value)
	}

	p.expect(p.k.semicolon, "';'")
	return ast.NewExprStmt(pos, target)
}

func (p *Parser) currentAssignOp() (ast.AssignOp, bool) {
	switch p.c.Current().Kind {
	case p.k.assign:
		return ast.Set, true
	case p.k.plusEq:
		return ast.AddSet, true
	case p.k.minusEq:
		return ast.SubSet, true
	case p.k.starEq:
		return ast.MulSet, true
	case p.k.slashEq:
		return ast.DivSet, true
	case p.k.percentEq:
		return ast.ModSet, true
	case p.k.ampEq:
		return ast.AndSet, true
	case p.k.pipeEq:
		return ast.OrSet, true
	case p.k.caretEq:
		return ast.XorSet, true
	case p.k.shlEq:
		return ast.ShlSet, true
	case p.k.shrEq:
		return ast.ShrSet, true
	}
	return 0, false
}
