// Package ast defines the Abstract Syntax Tree node types for btrc.
// Node shapes are defined declaratively in grammar/btrc.asdl; this file
// and its siblings (decls.go, stmts.go, exprs.go, types.go) follow that
// declaration by hand, since each node also carries token.Position
// plumbing and a NewXxx constructor ASDL's field lists don't determine on
// their own. cmd/genast reads grammar/btrc.asdl and writes nodes_gen.go,
// a set of compile-time assertions that every constructor the grammar
// declares still exists here and implements the right marker interface —
// that file is the one actually forbidden to hand-edit (spec.md §6.4).
//
// Adapted from go-dws's internal/ast/ast.go: the same Node/Expression/
// Statement interface split and discriminated-union-by-Go-type dispatch,
// generalized to the node families grammar/btrc.asdl declares instead of
// go-dws's DWScript-specific node set.
package ast

import "github.com/schiffy91/btrc/internal/token"

// Node is the base interface every AST node implements.
type Node interface {
	Pos() token.Position
	String() string
}

// Decl is any top-level declaration.
type Decl interface {
	Node
	declNode()
}

// Member is any class member (field, method, constructor, destructor,
// property).
type Member interface {
	Node
	memberNode()
}

// Stmt is any statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is any expression.
type Expr interface {
	Node
	exprNode()
	// Type returns the resolved type set by the Analyzer, or nil before
	// analysis runs. Every expression node has one after analysis
	// (spec.md §3 invariant: type totality).
	Type() Type
	SetType(Type)
}

// TypeExpr is any type-position node (PrimitiveType, PointerType, ...).
type TypeExpr interface {
	Node
	typeNode()
}

// Program is the root AST node: an ordered list of top-level declarations,
// include directives textually expanded in place after parsing, before
// analysis, by internal/pipeline's expandIncludes (spec.md §6.2).
type Program struct {
	Decls []Decl
}

func (p *Program) Pos() token.Position {
	if len(p.Decls) > 0 {
		return p.Decls[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

func (p *Program) String() string {
	s := ""
	for _, d := range p.Decls {
		s += d.String() + "\n"
	}
	return s
}

// baseExpr factors the Type()/SetType() bookkeeping shared by every
// expression node so individual node types don't repeat it.
type baseExpr struct {
	resolvedType Type
}

func (b *baseExpr) Type() Type     { return b.resolvedType }
func (b *baseExpr) SetType(t Type) { b.resolvedType = t }
func (b *baseExpr) exprNode()      {}
