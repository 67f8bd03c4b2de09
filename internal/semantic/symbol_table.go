package semantic

import "github.com/schiffy91/btrc/internal/ast"

// Symbol is one named entity visible in a Scope: a variable, a function
// (possibly one of several overloads), a type name, or a class member.
type Symbol struct {
	Name      string
	Type      ast.Type
	Overloads []*FuncType // additional signatures when Name resolves to more than one function
	IsConst   bool
	Const     *ast.ClassDecl // set when the symbol names a class, for member lookup
}

// scopeLike is satisfied by both *Scope and *ClassScope, letting a plain
// Scope's outer link point at either a normal enclosing scope or a class
// scope (whose Lookup additionally walks the ancestor chain).
type scopeLike interface {
	Lookup(name string) (*Symbol, bool)
	Define(sym *Symbol)
}

// Scope is one lexical level of the symbol table. Lookup order per
// spec.md §4.4 is local, then enclosing scopes out to the module scope;
// class scopes additionally search ancestor class scopes before the
// enclosing module (ClassScope below overrides Lookup for that).
type Scope struct {
	symbols map[string]*Symbol
	outer   scopeLike
}

func NewScope(outer scopeLike) *Scope {
	return &Scope{symbols: make(map[string]*Symbol), outer: outer}
}

// Define enters name in this scope. A redefinition in the SAME scope is
// reported by the caller (the Analyzer), not here; Define always
// overwrites so pass 1 can re-register after recovering from an error.
func (s *Scope) Define(sym *Symbol) { s.symbols[sym.Name] = sym }

// Lookup searches this scope, then delegates to the outer scope.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	if sym, ok := s.symbols[name]; ok {
		return sym, true
	}
	if s.outer != nil {
		return s.outer.Lookup(name)
	}
	return nil, false
}

// LookupLocal searches only this scope, used to detect a duplicate
// definition within the same declaration list.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// ClassScope is a Scope whose Lookup additionally walks the class's
// ancestor chain (fields and methods inherited from Super) before
// falling through to the enclosing module scope, matching spec.md §4.4:
// "(local, class body, ancestors, enclosing module)".
type ClassScope struct {
	*Scope
	class *ClassType
}

func NewClassScope(outer scopeLike, class *ClassType) *ClassScope {
	return &ClassScope{Scope: NewScope(outer), class: class}
}

func (cs *ClassScope) Lookup(name string) (*Symbol, bool) {
	if sym, ok := cs.Scope.LookupLocal(name); ok {
		return sym, true
	}
	for c := cs.class; c != nil; c = c.Super {
		if f, ok := c.Fields[name]; ok {
			return &Symbol{Name: name, Type: f.Type}, true
		}
		if m, ok := c.Methods[name]; ok {
			return &Symbol{Name: name, Type: &FuncType{Params: m.ParamTypes, Result: m.ReturnType}}, true
		}
	}
	if cs.Scope.outer != nil {
		return cs.Scope.outer.Lookup(name)
	}
	return nil, false
}
