package parser

import (
	"github.com/schiffy91/btrc/internal/ast"
	"github.com/schiffy91/btrc/internal/token"
)

// parseDecl parses one top-level declaration, recovering in panic mode on
// failure so that batched diagnostics (spec.md §4.3) can surface every
// error in a single pass instead of stopping at the first one.
func (p *Parser) parseDecl() (d ast.Decl) {
	defer func() {
		if r := recover(); r != nil {
			p.recover()
			d = nil
		}
	}()

	switch {
	case p.c.Is(p.k.include):
		return p.parseIncludeDecl()
	case p.c.Is(p.k.class):
		return p.parseClassDecl()
	case p.c.Is(p.k.interfaceKw):
		return p.parseInterfaceDecl()
	case p.c.Is(p.k.enum):
		return p.parseEnumDecl()
	case p.c.Is(p.k.struct_):
		return p.parseStructDecl()
	case p.c.Is(p.k.extern):
		return p.parseExternDecl()
	case p.c.Is(p.k.typedef):
		return p.parseTypedefDecl()
	case p.c.Is(p.k.funcKw):
		return p.parseFunctionDecl()
	default:
		return p.parseGlobalDecl()
	}
}

func (p *Parser) parseIncludeDecl() ast.Decl {
	pos := p.c.Position()
	p.c = p.c.Advance() // 'include'
	tok, ok := p.expect(p.k.stringLit, "a quoted include path")
	if !ok {
		return nil
	}
	p.expect(p.k.semicolon, "';'")
	return ast.NewIncludeDecl(pos, tok.Literal)
}

func (p *Parser) parseTypeParams() []string {
	if !p.c.Is(p.k.lt) {
		return nil
	}
	p.c = p.c.Advance()
	var names []string
	for !p.c.Is(p.k.gt) && !p.c.IsEOF() {
		tok, _ := p.expect(p.k.ident, "a type parameter name")
		names = append(names, tok.Literal)
		if p.c.Is(p.k.comma) {
			p.c = p.c.Advance()
			continue
		}
		break
	}
	p.expect(p.k.gt, "'>'")
	return names
}

func (p *Parser) parseClassDecl() ast.Decl {
	pos := p.c.Position()
	p.c = p.c.Advance() // 'class'
	nameTok, _ := p.expect(p.k.ident, "a class name")
	typeParams := p.parseTypeParams()

	var super string
	var interfaces []string
	if p.c.Is(p.k.colon) {
		p.c = p.c.Advance()
		for {
			tok, _ := p.expect(p.k.ident, "a base class or interface name")
			if super == "" {
				super = tok.Literal
			} else {
				interfaces = append(interfaces, tok.Literal)
			}
			if p.c.Is(p.k.comma) {
				p.c = p.c.Advance()
				continue
			}
			break
		}
	}

	p.expect(p.k.lbrace, "'{'")
	var members []ast.Member
	for !p.c.Is(p.k.rbrace) && !p.c.IsEOF() {
		m := p.parseMember()
		if m != nil {
			members = append(members, m)
		}
	}
	p.expect(p.k.rbrace, "'}'")
	return ast.NewClassDecl(pos, nameTok.Literal, typeParams, super, interfaces, members)
}

func (p *Parser) parseAccess() ast.Access {
	if p.c.Is(p.k.private) {
		p.c = p.c.Advance()
		return ast.Private
	}
	if p.c.Is(p.k.public) {
		p.c = p.c.Advance()
	}
	return ast.Public
}

// parseMember parses one class-body member: field, method, constructor
// (introduced by `new`), destructor (`delete`), or property.
func (p *Parser) parseMember() ast.Member {
	pos := p.c.Position()
	access := p.parseAccess()
	isStatic := p.skipIf(p.k.static)
	isVirtual := p.skipIf(p.k.virtual)
	isOverride := p.skipIf(p.k.override)
	isAbstract := p.skipIf(p.k.abstract)

	if p.c.Is(p.k.newKw) {
		p.c = p.c.Advance()
		params := p.parseParamList()
		var initList []ast.Expr
		if p.c.Is(p.k.colon) {
			p.c = p.c.Advance()
			for {
				initList = append(initList, p.parseExpr())
				if p.c.Is(p.k.comma) {
					p.c = p.c.Advance()
					continue
				}
				break
			}
		}
		body := p.parseBlockBody()
		return ast.NewCtorMember(pos, params, initList, body, access)
	}

	if p.c.Is(p.k.del) {
		p.c = p.c.Advance()
		p.expect(p.k.lparen, "'('")
		p.expect(p.k.rparen, "')'")
		body := p.parseBlockBody()
		return ast.NewDtorMember(pos, body)
	}

	returnType := p.parseType()
	nameTok, _ := p.expect(p.k.ident, "a member name")

	if p.c.Is(p.k.lparen) {
		params := p.parseParamList()
		var body []ast.Stmt
		if isAbstract {
			p.expect(p.k.semicolon, "';' after an abstract method signature")
		} else {
			body = p.parseBlockBody()
		}
		return ast.NewMethodMember(pos, returnType, nameTok.Literal, params, body,
			isStatic, isVirtual, isOverride, isAbstract, access)
	}

	if p.c.Is(p.k.lbrace) {
		return p.parseProperty(pos, returnType, nameTok.Literal, access)
	}

	var init ast.Expr
	if p.c.Is(p.k.assign) {
		p.c = p.c.Advance()
		init = p.parseExpr()
	}
	p.expect(p.k.semicolon, "';'")
	return ast.NewFieldMember(pos, returnType, nameTok.Literal, init, access)
}

func (p *Parser) parseProperty(pos token.Position, propType ast.TypeExpr, name string, access ast.Access) ast.Member {
	p.c = p.c.Advance() // '{'
	var getter, setter []ast.Stmt
	var setterParam *ast.Param
	isAuto := false

	for !p.c.Is(p.k.rbrace) && !p.c.IsEOF() {
		if p.c.Current().Literal == "get" {
			p.c = p.c.Advance()
			if p.c.Is(p.k.semicolon) {
				p.c = p.c.Advance()
				isAuto = true
				continue
			}
			getter = p.parseBlockBody()
			continue
		}
		if p.c.Current().Literal == "set" {
			p.c = p.c.Advance()
			if p.c.Is(p.k.lparen) {
				p.c = p.c.Advance()
				ptype := propType
				ptok, _ := p.expect(p.k.ident, "a setter parameter name")
				setterParam = &ast.Param{Type: ptype, Name: ptok.Literal}
				p.expect(p.k.rparen, "')'")
			}
			if p.c.Is(p.k.semicolon) {
				p.c = p.c.Advance()
				isAuto = true
				continue
			}
			setter = p.parseBlockBody()
			continue
		}
		p.c = p.c.Advance()
	}
	p.expect(p.k.rbrace, "'}'")
	return ast.NewPropertyMember(pos, propType, name, getter, setterParam, setter, isAuto, access)
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect(p.k.lparen, "'('")
	var params []ast.Param
	for !p.c.Is(p.k.rparen) && !p.c.IsEOF() {
		isKeep := p.skipIf(p.k.keep)
		ptype := p.parseType()
		nameTok, _ := p.expect(p.k.ident, "a parameter name")
		var def ast.Expr
		if p.c.Is(p.k.assign) {
			p.c = p.c.Advance()
			def = p.parseExpr()
		}
		params = append(params, ast.Param{Type: ptype, Name: nameTok.Literal, Default: def, IsKeep: isKeep})
		if p.c.Is(p.k.comma) {
			p.c = p.c.Advance()
			continue
		}
		break
	}
	p.expect(p.k.rparen, "')'")
	return params
}

func (p *Parser) parseBlockBody() []ast.Stmt {
	p.expect(p.k.lbrace, "'{'")
	var stmts []ast.Stmt
	for !p.c.Is(p.k.rbrace) && !p.c.IsEOF() {
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(p.k.rbrace, "'}'")
	return stmts
}

func (p *Parser) parseInterfaceDecl() ast.Decl {
	pos := p.c.Position()
	p.c = p.c.Advance() // 'interface'
	nameTok, _ := p.expect(p.k.ident, "an interface name")
	p.expect(p.k.lbrace, "'{'")
	var methods []ast.MethodSig
	for !p.c.Is(p.k.rbrace) && !p.c.IsEOF() {
		returnType := p.parseType()
		mnameTok, _ := p.expect(p.k.ident, "a method name")
		params := p.parseParamList()
		p.expect(p.k.semicolon, "';'")
		methods = append(methods, ast.MethodSig{ReturnType: returnType, Name: mnameTok.Literal, Params: params})
	}
	p.expect(p.k.rbrace, "'}'")
	return ast.NewInterfaceDecl(pos, nameTok.Literal, methods)
}

func (p *Parser) parseEnumDecl() ast.Decl {
	pos := p.c.Position()
	p.c = p.c.Advance() // 'enum'
	nameTok, _ := p.expect(p.k.ident, "an enum name")
	p.expect(p.k.lbrace, "'{'")
	var variants []ast.EnumVariant
	for !p.c.Is(p.k.rbrace) && !p.c.IsEOF() {
		vnameTok, _ := p.expect(p.k.ident, "a variant name")
		var payload []ast.TypeExpr
		if p.c.Is(p.k.lparen) {
			p.c = p.c.Advance()
			for !p.c.Is(p.k.rparen) && !p.c.IsEOF() {
				payload = append(payload, p.parseType())
				if p.c.Is(p.k.comma) {
					p.c = p.c.Advance()
					continue
				}
				break
			}
			p.expect(p.k.rparen, "')'")
		}
		variants = append(variants, ast.EnumVariant{Name: vnameTok.Literal, Payload: payload})
		if p.c.Is(p.k.comma) {
			p.c = p.c.Advance()
			continue
		}
		break
	}
	p.expect(p.k.rbrace, "'}'")
	return ast.NewEnumDecl(pos, nameTok.Literal, variants)
}

func (p *Parser) parseStructDecl() ast.Decl {
	pos := p.c.Position()
	p.c = p.c.Advance() // 'struct'
	nameTok, _ := p.expect(p.k.ident, "a struct name")
	p.expect(p.k.lbrace, "'{'")
	var fields []ast.StructField
	for !p.c.Is(p.k.rbrace) && !p.c.IsEOF() {
		ftype := p.parseType()
		fnameTok, _ := p.expect(p.k.ident, "a field name")
		p.expect(p.k.semicolon, "';'")
		fields = append(fields, ast.StructField{Type: ftype, Name: fnameTok.Literal})
	}
	p.expect(p.k.rbrace, "'}'")
	return ast.NewStructDecl(pos, nameTok.Literal, fields)
}

func (p *Parser) parseExternDecl() ast.Decl {
	pos := p.c.Position()
	p.c = p.c.Advance() // 'extern'
	returnType := p.parseType()
	nameTok, _ := p.expect(p.k.ident, "a function name")
	params := p.parseParamList()
	p.expect(p.k.semicolon, "';'")
	return ast.NewExternDecl(pos, returnType, nameTok.Literal, params)
}

func (p *Parser) parseTypedefDecl() ast.Decl {
	pos := p.c.Position()
	p.c = p.c.Advance() // 'typedef'
	nameTok, _ := p.expect(p.k.ident, "a typedef name")
	p.expect(p.k.assign, "'='")
	aliased := p.parseType()
	p.expect(p.k.semicolon, "';'")
	return ast.NewTypedefDecl(pos, nameTok.Literal, aliased)
}

func (p *Parser) parseFunctionDecl() ast.Decl {
	pos := p.c.Position()
	p.c = p.c.Advance() // 'func'
	isStatic := p.skipIf(p.k.static)
	returnType := p.parseType()
	nameTok, _ := p.expect(p.k.ident, "a function name")
	params := p.parseParamList()
	body := p.parseBlockBody()
	return ast.NewFunctionDecl(pos, returnType, nameTok.Literal, params, body, isStatic)
}

// parseGlobalDecl parses a top-level `Type name [= init];` declaration, or
// a `Type name(params) { ... }` function declaration, the fallback
// production when no other leading keyword matched.
func (p *Parser) parseGlobalDecl() ast.Decl {
	pos := p.c.Position()
	declType := p.parseType()
	nameTok, ok := p.expect(p.k.ident, "a global variable name")
	if !ok {
		p.recover()
		return nil
	}
	if p.c.Is(p.k.lparen) {
		params := p.parseParamList()
		body := p.parseBlockBody()
		return ast.NewFunctionDecl(pos, declType, nameTok.Literal, params, body, false)
	}
	var init ast.Expr
	if p.c.Is(p.k.assign) {
		p.c = p.c.Advance()
		init = p.parseExpr()
	}
	p.expect(p.k.semicolon, "';'")
	return ast.NewGlobalDecl(pos, declType, nameTok.Literal, init)
}
