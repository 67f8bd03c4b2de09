// Package parser implements the hand-written recursive-descent parser for
// btrc (spec.md §4.3). No parser generator is used, matching go-dws's
// internal/parser package, whose Cursor/combinator/error-recovery shapes
// this package adapts.
package parser

import (
	"github.com/schiffy91/btrc/internal/ast"
	"github.com/schiffy91/btrc/internal/diag"
	"github.com/schiffy91/btrc/internal/grammar"
	"github.com/schiffy91/btrc/internal/lexer"
	"github.com/schiffy91/btrc/internal/token"
)

// kindSet caches every grammar-defined token kind the parser needs, resolved
// once at construction time via grammar.GrammarInfo.MustKind. No keyword or
// operator string literal appears anywhere else in this package
// (spec.md §4.1's "hardcoding forbidden" contract).
type kindSet struct {
	class, interfaceKw, enum, struct_, extern, typedef, include                token.Kind
	public, private, static, virtual, override, abstract, final                token.Kind
	newKw, del, this, super, null, true_, false_                               token.Kind
	ifKw, elseKw, forKw, whileKw, doKw, switchKw, caseKw, defaultKw             token.Kind
	breakKw, continueKw, returnKw, tryKw, catchKw, finallyKw, throwKw           token.Kind
	varKw, letKw, constKw, funcKw, voidKw, keep, release, lambdaKw             token.Kind
	intKw, floatKw, doubleKw, boolKw, charKw, stringKw                         token.Kind
	inKw, rangeKw, sizeofKw, castKw, asKw, isKw                                 token.Kind
	spawnKw, mutexKw                                                            token.Kind
	lparen, rparen, lbrace, rbrace, lbracket, rbracket                         token.Kind
	comma, dot, semicolon, colon, arrow, fatArrow, question, qdot, qq          token.Kind
	assign, plusEq, minusEq, starEq, slashEq, percentEq                        token.Kind
	ampEq, pipeEq, caretEq, shlEq, shrEq                                       token.Kind
	plus, minus, star, slash, percent, tilde, bang                            token.Kind
	amp, pipe, caret, shl, shr                                                 token.Kind
	lt, gt, le, ge, eq, ne, andand, oror                                       token.Kind
	inc, dec, ellipsis                                                        token.Kind
	ident, intLit, floatLit, charLit, stringLit, fstringLit                   token.Kind
}

func buildKindSet(g *grammar.GrammarInfo) kindSet {
	return kindSet{
		class: g.MustKind("class"), interfaceKw: g.MustKind("interface"), enum: g.MustKind("enum"),
		struct_: g.MustKind("struct"), extern: g.MustKind("extern"), typedef: g.MustKind("typedef"),
		include: g.MustKind("include"), public: g.MustKind("public"), private: g.MustKind("private"),
		static: g.MustKind("static"), virtual: g.MustKind("virtual"), override: g.MustKind("override"),
		abstract: g.MustKind("abstract"), final: g.MustKind("final"), newKw: g.MustKind("new"),
		del: g.MustKind("delete"), this: g.MustKind("this"), super: g.MustKind("super"),
		null: g.MustKind("null"), true_: g.MustKind("true"), false_: g.MustKind("false"),
		ifKw: g.MustKind("if"), elseKw: g.MustKind("else"), forKw: g.MustKind("for"),
		whileKw: g.MustKind("while"), doKw: g.MustKind("do"), switchKw: g.MustKind("switch"),
		caseKw: g.MustKind("case"), defaultKw: g.MustKind("default"), breakKw: g.MustKind("break"),
		continueKw: g.MustKind("continue"), returnKw: g.MustKind("return"), tryKw: g.MustKind("try"),
		catchKw: g.MustKind("catch"), finallyKw: g.MustKind("finally"), throwKw: g.MustKind("throw"),
		varKw: g.MustKind("var"), letKw: g.MustKind("let"), constKw: g.MustKind("const"),
		funcKw: g.MustKind("func"), voidKw: g.MustKind("void"), keep: g.MustKind("keep"),
		release: g.MustKind("release"), lambdaKw: g.MustKind("lambda"), inKw: g.MustKind("in"),
		intKw: g.MustKind("int"), floatKw: g.MustKind("float"), doubleKw: g.MustKind("double"),
		boolKw: g.MustKind("bool"), charKw: g.MustKind("char"), stringKw: g.MustKind("string"),
		rangeKw: g.MustKind("range"), sizeofKw: g.MustKind("sizeof"), castKw: g.MustKind("cast"),
		asKw: g.MustKind("as"), isKw: g.MustKind("is"),
		spawnKw: g.MustKind("spawn"), mutexKw: g.MustKind("mutex"),
		lparen: g.MustKind("("), rparen: g.MustKind(")"), lbrace: g.MustKind("{"), rbrace: g.MustKind("}"),
		lbracket: g.MustKind("["), rbracket: g.MustKind("]"), comma: g.MustKind(","), dot: g.MustKind("."),
		semicolon: g.MustKind(";"), colon: g.MustKind(":"), arrow: g.MustKind("->"), fatArrow: g.MustKind("=>"),
		question: g.MustKind("?"), qdot: g.MustKind("?."), qq: g.MustKind("??"),
		assign: g.MustKind("="), plusEq: g.MustKind("+="), minusEq: g.MustKind("-="), starEq: g.MustKind("*="),
		slashEq: g.MustKind("/="), percentEq: g.MustKind("%="), ampEq: g.MustKind("&="), pipeEq: g.MustKind("|="),
		caretEq: g.MustKind("^="), shlEq: g.MustKind("<<="), shrEq: g.MustKind(">>="),
		plus: g.MustKind("+"), minus: g.MustKind("-"), star: g.MustKind("*"), slash: g.MustKind("/"),
		percent: g.MustKind("%"), tilde: g.MustKind("~"), bang: g.MustKind("!"),
		amp: g.MustKind("&"), pipe: g.MustKind("|"), caret: g.MustKind("^"), shl: g.MustKind("<<"), shr: g.MustKind(">>"),
		lt: g.MustKind("<"), gt: g.MustKind(">"), le: g.MustKind("<="), ge: g.MustKind(">="),
		eq: g.MustKind("=="), ne: g.MustKind("!="), andand: g.MustKind("&&"), oror: g.MustKind("||"),
		inc: g.MustKind("++"), dec: g.MustKind("--"), ellipsis: g.MustKind("..."),
		ident: token.IDENT, intLit: token.INT, floatLit: token.FLOAT, charLit: token.CHAR,
		stringLit: token.STRING, fstringLit: token.FSTRING,
	}
}

// Parser holds the cursor and accumulated diagnostics for one compilation
// unit. It is not safe for concurrent use, matching go-dws's Parser.
type Parser struct {
	g      *grammar.GrammarInfo
	k      kindSet
	c      *Cursor
	errors diag.Bag
	source string
	file   string
}

// New constructs a Parser over src, tokenized with g.
func New(g *grammar.GrammarInfo, src, file string) *Parser {
	l := lexer.New(g, src, file)
	return &Parser{g: g, k: buildKindSet(g), c: NewCursor(l), source: src, file: file}
}

func (p *Parser) Errors() []*diag.Diagnostic { return p.errors.All() }

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.errors.Add(diag.New(diag.Parser, pos, p.source, format, args...))
}

// Parse parses the whole token stream into a Program, lexer diagnostics
// included (spec.md §4.3 output is an AST regardless of lexer errors so
// later stages can still be exercised in --emit-ast dumps).
func (p *Parser) Parse() (*ast.Program, []*diag.Diagnostic) {
	prog := &ast.Program{}
	for !p.c.IsEOF() {
		d := p.parseDecl()
		if d != nil {
			prog.Decls = append(prog.Decls, d)
		}
	}
	ll := p.c.lex.Errors()
	all := append(append([]*diag.Diagnostic{}, ll...), p.errors.All()...)
	return prog, all
}

func (p *Parser) advance() token.Token {
	tok := p.c.Current()
	p.c = p.c.Advance()
	return tok
}

func (p *Parser) expect(k token.Kind, what string) (token.Token, bool) {
	if p.c.Is(k) {
		return p.advance(), true
	}
	p.errorf(p.c.Position(), "expected %s, found %q", what, p.c.Current().Literal)
	return token.Token{}, false
}

// recover implements panic-mode recovery (spec.md §4.3): skip tokens until
// the next `;`, `}`, or a token that can start a top-level declaration.
func (p *Parser) recover() {
	for !p.c.IsEOF() {
		if p.c.Is(p.k.semicolon) {
			p.c = p.c.Advance()
			return
		}
		if p.c.Is(p.k.rbrace) {
			return
		}
		if p.startsDecl() {
			return
		}
		p.c = p.c.Advance()
	}
}

func (p *Parser) startsDecl() bool {
	k := p.c.Current().Kind
	return k == p.k.class || k == p.k.interfaceKw || k == p.k.enum || k == p.k.struct_ ||
		k == p.k.extern || k == p.k.typedef || k == p.k.include || k == p.k.funcKw
}

func posErr(p *Parser, format string, args ...any) {
	p.errorf(p.c.Position(), format, args...)
}

// skipIf advances past the current token if it matches k, reporting whether
// it did. Used for the optional modifier keywords in member declarations.
func (p *Parser) skipIf(k token.Kind) bool {
	if p.c.Is(k) {
		p.c = p.c.Advance()
		return true
	}
	return false
}
