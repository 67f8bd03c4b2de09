package semantic

import (
	"github.com/schiffy91/btrc/internal/ast"
	"github.com/schiffy91/btrc/internal/diag"
	"github.com/schiffy91/btrc/internal/token"
)

// Analyzer runs the two passes spec.md §4.4 describes over one parsed
// Program and accumulates diagnostics. It is not safe for concurrent use.
type Analyzer struct {
	global     *Scope
	classes    map[string]*ClassType
	interfaces map[string]*InterfaceType
	enums      map[string]*EnumType
	structs    map[string]*StructType
	typedefs   map[string]ast.Type
	generics   map[string]*GenericInstance // keyed by GenericInstance.Key()
	typeParams map[string]bool            // in-scope type parameters while resolving a generic class's own body
	errors     diag.Bag
	source     string
	file       string
}

// Result is everything downstream stages (the IR Generator) need out of
// semantic analysis: the annotated Program (types are attached directly to
// its Expr nodes via SetType) plus the class/interface/enum registries and
// the collected generic instantiation set.
type Result struct {
	Program    *ast.Program
	Classes    map[string]*ClassType
	Interfaces map[string]*InterfaceType
	Enums      map[string]*EnumType
	Structs    map[string]*StructType
	Generics   map[string]*GenericInstance
}

func NewAnalyzer(source, file string) *Analyzer {
	return &Analyzer{
		global:     NewScope(nil),
		classes:    make(map[string]*ClassType),
		interfaces: make(map[string]*InterfaceType),
		enums:      make(map[string]*EnumType),
		structs:    make(map[string]*StructType),
		typedefs:   make(map[string]ast.Type),
		generics:   make(map[string]*GenericInstance),
		source:     source,
		file:       file,
	}
}

func (a *Analyzer) Errors() []*diag.Diagnostic { return a.errors.All() }

func (a *Analyzer) errorf(pos token.Position, format string, args ...any) {
	a.errors.Addf(diag.Semantic, pos, a.source, format, args...)
}

func (a *Analyzer) warnf(pos token.Position, format string, args ...any) {
	a.errors.Warnf(diag.Semantic, pos, a.source, format, args...)
}

// Analyze runs pass 1 (declaration registration) then pass 2 (body
// analysis); pass 2 runs even when pass 1 reported errors. Per spec.md
// §4.4's failure semantics the Analyzer always
// accumulates every diagnostic it can from both passes; the caller decides
// whether to proceed to IR generation based on a.errors.HasErrors().
func (a *Analyzer) Analyze(prog *ast.Program) *Result {
	a.registerTypeStubs(prog)
	a.resolveTypeBodies(prog)
	a.registerFunctionsAndGlobals(prog)
	a.analyzeBodies(prog)

	return &Result{
		Program:    prog,
		Classes:    a.classes,
		Interfaces: a.interfaces,
		Enums:      a.enums,
		Structs:    a.structs,
		Generics:   a.generics,
	}
}

// registerTypeStubs creates a placeholder type object for every class,
// interface, enum, and struct declared at module scope, so that forward
// references between top-level declarations resolve regardless of
// declaration order (spec.md §4.4).
func (a *Analyzer) registerTypeStubs(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.ClassDecl:
			a.classStub(decl.Name).Decl = decl
			a.classStub(decl.Name).TypeParams = decl.TypeParams
		case *ast.InterfaceDecl:
			a.interfaces[decl.Name] = &InterfaceType{Name: decl.Name, Decl: decl, Methods: map[string]*MethodInfo{}}
		case *ast.EnumDecl:
			a.enums[decl.Name] = &EnumType{Name: decl.Name, Decl: decl, Variants: map[string]*ast.EnumVariant{}}
		case *ast.StructDecl:
			a.structs[decl.Name] = &StructType{Name: decl.Name, Decl: decl, Fields: map[string]ast.Type{}}
		}
	}
}

func (a *Analyzer) classStub(name string) *ClassType {
	if c, ok := a.classes[name]; ok {
		return c
	}
	c := &ClassType{Name: name, Fields: map[string]*FieldInfo{}, Methods: map[string]*MethodInfo{}}
	a.classes[name] = c
	return c
}

// resolveTypeBodies fills in the member/variant/field details of every
// stub created by registerTypeStubs, now that every type name in the
// module is known.
func (a *Analyzer) resolveTypeBodies(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.ClassDecl:
			a.resolveClassBody(decl)
		case *ast.InterfaceDecl:
			a.resolveInterfaceBody(decl)
		case *ast.EnumDecl:
			e := a.enums[decl.Name]
			for i := range decl.Variants {
				v := &decl.Variants[i]
				e.Variants[v.Name] = v
			}
		case *ast.StructDecl:
			s := a.structs[decl.Name]
			for _, f := range decl.Fields {
				s.Fields[f.Name] = a.resolveType(f.Type)
			}
		}
	}
}

func (a *Analyzer) resolveClassBody(decl *ast.ClassDecl) {
	c := a.classes[decl.Name]
	if len(decl.TypeParams) > 0 {
		a.typeParams = make(map[string]bool, len(decl.TypeParams))
		for _, tp := range decl.TypeParams {
			a.typeParams[tp] = true
		}
		defer func() { a.typeParams = nil }()
	}
	if decl.Super != "" {
		if super, ok := a.classes[decl.Super]; ok {
			c.Super = super
		} else {
			a.errorf(decl.Pos(), "class %q extends unknown class %q", decl.Name, decl.Super)
		}
	}
	for _, ifaceName := range decl.Interfaces {
		if iface, ok := a.interfaces[ifaceName]; ok {
			c.Interfaces = append(c.Interfaces, iface)
		}
	}
	for _, m := range decl.Members {
		switch member := m.(type) {
		case *ast.FieldMember:
			c.Fields[member.Name] = &FieldInfo{Type: a.resolveType(member.FieldType), Access: member.Access}
		case *ast.PropertyMember:
			c.Fields[member.Name] = &FieldInfo{Type: a.resolveType(member.PropType), Access: member.Access}
		case *ast.MethodMember:
			c.Methods[member.Name] = &MethodInfo{
				Decl:       member,
				ReturnType: a.resolveType(member.ReturnType),
				ParamTypes: a.resolveParamTypes(member.Params),
				IsVirtual:  member.IsVirtual,
				IsOverride: member.IsOverride,
				IsAbstract: member.IsAbstract,
			}
		}
	}
	a.validateOverrides(c, decl)
}

// validateOverrides checks parameter-type invariance and return-type
// compatibility for every `override` method against the direct Super, and
// that the class (abstract or not) declares every abstract method of its
// direct Super; abstract methods further up the chain are not checked
// (spec.md §4.4).
func (a *Analyzer) validateOverrides(c *ClassType, decl *ast.ClassDecl) {
	if c.Super == nil {
		return
	}
	for name, m := range c.Methods {
		if !m.IsOverride {
			continue
		}
		base, ok := c.Super.Methods[name]
		if !ok {
			a.errorf(m.Decl.Pos(), "method %q marked override but %q declares no such virtual method", name, c.Super.Name)
			continue
		}
		if !sameType(base.ReturnType, m.ReturnType) {
			a.errorf(m.Decl.Pos(), "override %q return type %s is incompatible with %s", name, m.ReturnType, base.ReturnType)
		}
		if len(base.ParamTypes) != len(m.ParamTypes) {
			a.errorf(m.Decl.Pos(), "override %q parameter count does not match base declaration", name)
			continue
		}
		for i := range base.ParamTypes {
			if !sameType(base.ParamTypes[i], m.ParamTypes[i]) {
				a.errorf(m.Decl.Pos(), "override %q parameter %d type is not invariant with base declaration", name, i)
			}
		}
	}
	if c.Super != nil {
		for name, m := range c.Super.Methods {
			if !m.IsAbstract {
				continue
			}
			if _, implemented := c.Methods[name]; !implemented {
				a.errorf(decl.Pos(), "class %q must implement abstract method %q inherited from %q", decl.Name, name, c.Super.Name)
			}
		}
	}
}

func (a *Analyzer) resolveInterfaceBody(decl *ast.InterfaceDecl) {
	iface := a.interfaces[decl.Name]
	for _, sig := range decl.Methods {
		iface.Methods[sig.Name] = &MethodInfo{
			ReturnType: a.resolveType(sig.ReturnType),
			ParamTypes: a.resolveParamTypes(sig.Params),
		}
	}
}

func (a *Analyzer) resolveParamTypes(params []ast.Param) []ast.Type {
	out := make([]ast.Type, len(params))
	for i, p := range params {
		out[i] = a.resolveType(p.Type)
	}
	return out
}

func (a *Analyzer) registerFunctionsAndGlobals(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			ft := &FuncType{Params: a.resolveParamTypes(decl.Params), Result: a.resolveType(decl.ReturnType)}
			a.defineOverload(decl.Name, ft)
		case *ast.ExternDecl:
			ft := &FuncType{Params: a.resolveParamTypes(decl.Params), Result: a.resolveType(decl.ReturnType)}
			a.defineOverload(decl.Name, ft)
		case *ast.GlobalDecl:
			t := a.resolveType(decl.DeclType)
			if decl.Init != nil {
				a.analyzeExpr(decl.Init, a.global)
				if isVarInferred(decl.DeclType) {
					t = decl.Init.Type()
				}
			}
			a.global.Define(&Symbol{Name: decl.Name, Type: t})
		case *ast.TypedefDecl:
			a.typedefs[decl.Name] = a.resolveType(decl.Aliased)
		}
	}
}

func (a *Analyzer) defineOverload(name string, ft *FuncType) {
	if sym, ok := a.global.LookupLocal(name); ok {
		sym.Overloads = append(sym.Overloads, ft)
		return
	}
	a.global.Define(&Symbol{Name: name, Type: ft})
}

func isVarInferred(t ast.TypeExpr) bool {
	p, ok := t.(*ast.PrimitiveType)
	return ok && p.Name == "var"
}
