package ir

import (
	"sort"
	"strconv"

	"github.com/schiffy91/btrc/internal/ast"
	"github.com/schiffy91/btrc/internal/semantic"
)

// monomorphizeGenerics emits one specialized struct, and one specialized
// function per method/constructor, for every distinct GenericInstance the
// Analyzer collected (spec.md §4.5 "Generic monomorphization"). Lowering an
// instance's own body can reference another generic instantiation (e.g. a
// List<T> field inside a Box<T>) that was never directly instantiated by
// source code, so this runs as a work-list loop over g.res.Generics until no
// new instance appears: a transitive fixed point, per spec.md §4.5.
func (g *Generator) monomorphizeGenerics() {
	done := map[string]bool{}
	for {
		pending := g.pendingGenericInstances(done)
		if len(pending) == 0 {
			return
		}
		for _, key := range pending {
			done[key] = true
			g.monomorphizeInstance(g.res.Generics[key])
		}
	}
}

func (g *Generator) pendingGenericInstances(done map[string]bool) []string {
	keys := make([]string, 0, len(g.res.Generics))
	for k := range g.res.Generics {
		if !done[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// monomorphizeInstance emits the struct and method set for one concrete
// instantiation, substituting gi.Generic.TypeParams[i] with gi.Args[i]
// everywhere lowerType/lowerTypeExpr looks up a name (spec.md §4.5: inherited
// fields in declaration order, then the class's own fields, mirroring
// lowerClassStruct/lowerClassMembers but keyed to the substituted name
// instead of the generic class's bare name).
func (g *Generator) monomorphizeInstance(gi *semantic.GenericInstance) {
	generic := gi.Generic
	subst := make(map[string]ast.Type, len(generic.TypeParams))
	for i, tp := range generic.TypeParams {
		if i < len(gi.Args) {
			subst[tp] = gi.Args[i]
		}
	}
	name := monomorphName(gi)

	prevSubst := g.subst
	g.subst = subst
	defer func() { g.subst = prevSubst }()

	// The header prefix (__rc, __vtable, __type_name, __destroy) matches
	// lowerClassStruct's root-class layout field for field, even though a
	// monomorphized instance never gets a populated vtable or destructor:
	// btrc_retain/btrc_release cast any class-typed object to the same
	// btrc_object header, so every struct that can reach them needs the
	// same prefix, not just classes with virtual methods.
	fields := []StructField{
		{Name: "__rc", Type: PrimitiveType{Name: "int"}},
		{Name: "__vtable", Type: PointerType{Pointee: PrimitiveType{Name: "void"}}},
		{Name: "__type_name", Type: PrimitiveType{Name: "const char *"}},
		{Name: "__destroy", Type: FuncPtrType{}},
	}
	for _, fname := range sortedFieldKeys(generic.Fields) {
		fields = append(fields, StructField{Name: fname, Type: g.lowerType(generic.Fields[fname].Type)})
	}
	g.mod.Structs = append(g.mod.Structs, &StructDecl{Name: name, Fields: fields})

	if generic.Decl == nil {
		return
	}
	self := Param{Name: "self", Type: PointerType{Pointee: StructRefType{Name: name}}}
	for _, m := range generic.Decl.Members {
		switch member := m.(type) {
		case *ast.MethodMember:
			if member.IsAbstract {
				continue
			}
			proto := &FuncProto{Name: name + "_" + member.Name, Result: lowerTypeExpr(g, member.ReturnType)}
			proto.Params = append(proto.Params, self)
			for _, p := range member.Params {
				proto.Params = append(proto.Params, Param{Name: p.Name, Type: lowerTypeExpr(g, p.Type)})
			}
			g.mod.Prototypes = append(g.mod.Prototypes, proto)
			g.mod.Functions = append(g.mod.Functions, &FuncDef{Proto: proto, Body: g.withClassContext(generic, member.Params, member.Body)})
		case *ast.CtorMember:
			g.lowerGenericCtor(name, generic, member, self)
		}
	}
}

// lowerGenericCtor mirrors lowerCtor but targets a monomorphized struct name
// rather than a plain class, and skips the vtable-pointer store since
// generic instances never carry virtual dispatch (monomorphizeInstance's
// caller only reaches here for classes with TypeParams, which emitVtables
// never builds a vtable for).
func (g *Generator) lowerGenericCtor(name string, generic *semantic.ClassType, ctor *ast.CtorMember, self Param) {
	initProto := &FuncProto{Name: name + "_init", Result: PrimitiveType{Name: "void"}}
	initProto.Params = append(initProto.Params, self)
	for _, p := range ctor.Params {
		initProto.Params = append(initProto.Params, Param{Name: p.Name, Type: lowerTypeExpr(g, p.Type)})
	}
	body := []Stmt{
		&Assign{Target: Member{Base: Var{Name: "self"}, Field: "__rc", Arrow: true}, Value: Literal{Text: "1"}},
		&Assign{Target: Member{Base: Var{Name: "self"}, Field: "__type_name", Arrow: true}, Value: Literal{Text: strconv.Quote(name)}},
	}
	body = append(body, g.withClassContext(generic, ctor.Params, ctor.Body)...)
	g.mod.Prototypes = append(g.mod.Prototypes, initProto)
	g.mod.Functions = append(g.mod.Functions, &FuncDef{Proto: initProto, Body: body})

	newProto := &FuncProto{Name: name + "_new", Result: PointerType{Pointee: StructRefType{Name: name}}}
	newProto.Params = initProto.Params[1:]
	args := []Expr{Var{Name: "obj"}}
	for _, p := range ctor.Params {
		args = append(args, Var{Name: p.Name})
	}
	newBody := []Stmt{
		&VarDecl{Name: "obj", Type: newProto.Result, Init: Call{Target: Var{Name: "btrc_alloc"}, Args: []Expr{Sizeof{Of: StructRefType{Name: name}}}}},
		&ExprStmt{Value: Call{Target: Var{Name: initProto.Name}, Args: args}},
		&Return{Value: Var{Name: "obj"}},
	}
	g.mod.RequireHelper("alloc")
	g.mod.Prototypes = append(g.mod.Prototypes, newProto)
	g.mod.Functions = append(g.mod.Functions, &FuncDef{Proto: newProto, Body: newBody})
}
