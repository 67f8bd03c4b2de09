// Package semantic implements the two-pass Analyzer (spec.md §4.4): pass 1
// registers every top-level declaration and class member in a symbol
// table; pass 2 walks statements and expressions, resolving a Type for
// every expression and binding every identifier to a Symbol. It is
// adapted from go-dws's internal/semantic package: the same
// SymbolTable/outer-scope-chain shape and two-pass analyzer.go split,
// generalized from DWScript's case-insensitive lookup (this language's
// identifiers are case-sensitive, per grammar/btrc.ebnf) and extended with
// class inheritance, generics, operator overloading, and nullability.
package semantic

import (
	"fmt"
	"strings"

	"github.com/schiffy91/btrc/internal/ast"
)

// Primitive names the built-in scalar types. They implement ast.Type
// directly (no wrapper struct) since their identity is exactly their name.
type Primitive string

const (
	TInt    Primitive = "int"
	TFloat  Primitive = "float"
	TDouble Primitive = "double"
	TBool   Primitive = "bool"
	TChar   Primitive = "char"
	TString Primitive = "string"
	TVoid   Primitive = "void"
)

func (p Primitive) String() string { return string(p) }

var primitives = map[string]Primitive{
	"int": TInt, "float": TFloat, "double": TDouble, "bool": TBool,
	"char": TChar, "string": TString, "void": TVoid,
}

// ClassType represents a declared class. Super/Interfaces are resolved to
// their ClassType/InterfaceType after pass 1 completes for the whole
// module, since classes may reference each other in any order
// (spec.md §4.4: "forward references between top-level declarations are
// permitted").
type ClassType struct {
	Name       string
	Decl       *ast.ClassDecl
	Super      *ClassType
	Interfaces []*InterfaceType
	Fields     map[string]*FieldInfo
	Methods    map[string]*MethodInfo
	TypeParams []string
}

func (c *ClassType) String() string { return c.Name }

// IsSubclassOf reports whether c is other or descends from it, walking the
// single-inheritance chain (spec.md §4.6: single-inheritance dispatch).
func (c *ClassType) IsSubclassOf(other *ClassType) bool {
	for cur := c; cur != nil; cur = cur.Super {
		if cur == other {
			return true
		}
	}
	return false
}

type FieldInfo struct {
	Type   ast.Type
	Access ast.Access
}

type MethodInfo struct {
	Decl       *ast.MethodMember
	ReturnType ast.Type
	ParamTypes []ast.Type
	IsVirtual  bool
	IsOverride bool
	IsAbstract bool
}

type InterfaceType struct {
	Name    string
	Decl    *ast.InterfaceDecl
	Methods map[string]*MethodInfo
}

func (i *InterfaceType) String() string { return i.Name }

type EnumType struct {
	Name     string
	Decl     *ast.EnumDecl
	Variants map[string]*ast.EnumVariant
}

func (e *EnumType) String() string { return e.Name }

type StructType struct {
	Name   string
	Decl   *ast.StructDecl
	Fields map[string]ast.Type
}

func (s *StructType) String() string { return s.Name }

// PointerType is the semantic (resolved) counterpart of ast.PointerType.
type PointerType struct{ Pointee ast.Type }

func (p *PointerType) String() string { return p.Pointee.String() + "*" }

// NullableType is the semantic counterpart of ast.NullableType.
type NullableType struct{ Base ast.Type }

func (n *NullableType) String() string { return n.Base.String() + "?" }

// MutexType is the builtin `mutex` type (SPEC_FULL.md's Thread support
// supplement to spec.md §5): an opaque synchronization primitive with
// `lock()`/`unlock()` methods, resolved directly by name rather than
// through the class registry since it has no user-written declaration.
type MutexType struct{}

func (*MutexType) String() string { return "mutex" }

// GenericInstance records one concrete instantiation `G<T1,...>` of a
// generic class, collected by the Analyzer across the whole module and
// later driving monomorphization in the IR Generator (spec.md §4.4's
// "Generic instance collection").
type GenericInstance struct {
	Generic *ClassType
	Args    []ast.Type
}

func (g *GenericInstance) String() string {
	parts := make([]string, len(g.Args))
	for i, a := range g.Args {
		parts[i] = a.String()
	}
	return g.Generic.Name + "<" + strings.Join(parts, ",") + ">"
}

// Key returns a stable dedup key for instance collection.
func (g *GenericInstance) Key() string { return g.String() }

type FuncType struct {
	Params []ast.Type
	Result ast.Type
}

func (f *FuncType) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return "func(" + strings.Join(parts, ",") + ")->" + f.Result.String()
}

type TupleType struct{ Elements []ast.Type }

func (t *TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// TypeParamType stands in for an unresolved generic type parameter (e.g.
// `T` inside `class Box<T>`) until the IR Generator's monomorphization
// pass substitutes a concrete GenericInstance argument for it.
type TypeParamType struct{ Name string }

func (t TypeParamType) String() string { return t.Name }

// nullType is the type of the `null` literal before it unifies with a
// context type; it is assignable to any NullableType or PointerType.
type nullType struct{}

func (nullType) String() string { return "<null>" }

var NullTypeValue ast.Type = nullType{}

func sameType(a, b ast.Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

func fmtErr(format string, args ...any) error { return fmt.Errorf(format, args...) }
