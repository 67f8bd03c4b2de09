package ast

import (
	"strings"

	"github.com/schiffy91/btrc/internal/token"
)

// Type is the resolved semantic type attached to an expression node by the
// Analyzer (spec.md §3: "TypeTable: canonical type representatives").
// It is a plain interface, not sealed to this package, because the
// concrete representatives (class types, generic instances, the
// subrange-free primitive set) live in internal/semantic, which imports
// ast — defining them here would create an import cycle.
type Type interface {
	String() string
}

// errorType is the sentinel type assigned to an expression the Analyzer
// could not resolve, so that dependent analyses can treat it as valid
// without re-reporting the same error across every use (spec.md §7).
type errorType struct{}

func (errorType) String() string { return "<error>" }

// ErrorTypeValue is the single shared sentinel instance.
var ErrorTypeValue Type = errorType{}

// TypeExpr marks a syntactic type node (as opposed to a resolved
// semantic Type): PrimitiveType, PointerType, NullableType, GenericType,
// FuncType, TupleType.
type baseType struct{ pos token.Position }

func (b *baseType) Pos() token.Position { return b.pos }
func (b *baseType) typeNode()           {}

type PrimitiveType struct {
	baseType
	Name string
}

func NewPrimitiveType(pos token.Position, name string) *PrimitiveType {
	return &PrimitiveType{baseType{pos}, name}
}
func (t *PrimitiveType) String() string { return t.Name }

type PointerType struct {
	baseType
	Pointee TypeExpr
}

func NewPointerType(pos token.Position, pointee TypeExpr) *PointerType {
	return &PointerType{baseType{pos}, pointee}
}
func (t *PointerType) String() string { return t.Pointee.String() + "*" }

type NullableType struct {
	baseType
	Base TypeExpr
}

func NewNullableType(pos token.Position, base TypeExpr) *NullableType {
	return &NullableType{baseType{pos}, base}
}
func (t *NullableType) String() string { return t.Base.String() + "?" }

type GenericType struct {
	baseType
	Name string
	Args []TypeExpr
}

func NewGenericType(pos token.Position, name string, args []TypeExpr) *GenericType {
	return &GenericType{baseType{pos}, name, args}
}

func (t *GenericType) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Name + "<" + strings.Join(parts, ",") + ">"
}

type FuncType struct {
	baseType
	Params []TypeExpr
	Result TypeExpr
}

func NewFuncType(pos token.Position, params []TypeExpr, result TypeExpr) *FuncType {
	return &FuncType{baseType{pos}, params, result}
}

func (t *FuncType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	res := "void"
	if t.Result != nil {
		res = t.Result.String()
	}
	return "func(" + strings.Join(parts, ",") + ")->" + res
}

type TupleType struct {
	baseType
	Elements []TypeExpr
}

func NewTupleType(pos token.Position, elements []TypeExpr) *TupleType {
	return &TupleType{baseType{pos}, elements}
}

func (t *TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// TypeExprName returns a best-effort display name for a type-position
// node, used by diagnostics that need to name a type without walking the
// full resolved Type (e.g. before analysis has run).
func TypeExprName(t TypeExpr) string {
	if t == nil {
		return "<unknown>"
	}
	return t.String()
}
