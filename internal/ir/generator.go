package ir

import (
	"sort"
	"strconv"
	"strings"

	"github.com/schiffy91/btrc/internal/ast"
	"github.com/schiffy91/btrc/internal/semantic"
)

// Generator lowers a checked semantic.Result to an ir.Module. It owns the
// Module exclusively until Generate returns it (spec.md §3 ownership:
// "IR modules are exclusively owned by the IR Generator, then by the
// Optimizer, then by the Emitter").
type Generator struct {
	res    *semantic.Result
	mod    *Module
	lambda int // counter for lifted-lambda naming
	spawn  int // counter for spawn-site capture-struct/trampoline naming
	subst  map[string]ast.Type // active type-parameter substitution while lowering a monomorphized generic instance

	// keepParams names the `keep`-annotated parameters of whichever
	// function/method/constructor body is currently being lowered
	// (spec.md §4.5 ARC): storing one of these directly into a field
	// transfers the reference the caller already retained on the
	// caller's behalf, so lowerAssign skips the usual store-time retain.
	keepParams map[string]bool

	// fields names the fields (own and inherited) of whichever class's
	// member body is currently being lowered, so a bare identifier that
	// names one rewrites to self->field (spec.md §4.4 resolves a bare name
	// against class body before the enclosing module); nil while lowering
	// a free function, where no identifier can denote a field. A local or
	// parameter that shadows a field name is not modeled — the semantic
	// Analyzer's own scope already resolves shadowing correctly, but this
	// lowering pass re-derives field-ness purely from the name, a known,
	// narrow gap noted in DESIGN.md.
	fields map[string]bool
}

// withKeepParams lowers body with keepParams populated from params, restoring
// the previous set afterward (constructors/methods never nest, but this
// keeps the invariant cheap to maintain if that ever changes).
func (g *Generator) withKeepParams(params []ast.Param, body []ast.Stmt) []Stmt {
	prev := g.keepParams
	g.keepParams = map[string]bool{}
	for _, p := range params {
		if p.IsKeep {
			g.keepParams[p.Name] = true
		}
	}
	out := g.lowerBlock(body)
	g.keepParams = prev
	return out
}

// withClassContext lowers a method/constructor/destructor/property body
// with both keepParams and fields populated for class, so field references
// and keep-parameter stores inside it resolve correctly.
func (g *Generator) withClassContext(class *semantic.ClassType, params []ast.Param, body []ast.Stmt) []Stmt {
	prevFields := g.fields
	g.fields = classFieldSet(class)
	out := g.withKeepParams(params, body)
	g.fields = prevFields
	return out
}

func classFieldSet(class *semantic.ClassType) map[string]bool {
	set := map[string]bool{}
	for c := class; c != nil; c = c.Super {
		for fname := range c.Fields {
			set[fname] = true
		}
	}
	return set
}

func NewGenerator(res *semantic.Result) *Generator {
	return &Generator{res: res, mod: NewModule()}
}

func (g *Generator) Generate() *Module {
	g.emitStructShells()
	g.emitVtables()
	g.lowerGlobals()
	g.lowerFunctions()
	g.lowerClassMembers()
	g.monomorphizeGenerics()
	return g.mod
}

// lowerGlobals lowers every top-level GlobalDecl (a file-scope variable
// declaration outside any class or function) to a static C global, appended
// after the vtable singletons emitVtables already added to g.mod.Globals.
func (g *Generator) lowerGlobals() {
	for _, d := range g.res.Program.Decls {
		gd, ok := d.(*ast.GlobalDecl)
		if !ok {
			continue
		}
		var init Expr
		if gd.Init != nil {
			init = g.lowerExpr(gd.Init)
		}
		g.mod.Globals = append(g.mod.Globals, &GlobalDecl{Name: gd.Name, Type: lowerTypeExpr(g, gd.DeclType), Init: init})
	}
}

// emitStructShells emits one StructDecl per class, in an order where a
// class always follows its Super. A class's struct repeats its Super's
// layout (the root's __rc/__vtable/__type_name/__destroy header, then each
// ancestor's interface pointers and fields), then adds its own interface
// pointers and fields. Within one class, fields are laid out in name
// order, not in source declaration order.
func (g *Generator) emitStructShells() {
	names := sortedClassNames(g.res.Classes)
	emitted := make(map[string]bool)
	var emit func(name string)
	emit = func(name string) {
		if emitted[name] {
			return
		}
		class := g.res.Classes[name]
		emitted[name] = true
		if len(class.TypeParams) > 0 {
			return // generic classes are only emitted per concrete instance, by monomorphizeGenerics
		}
		if class.Super != nil {
			emit(class.Super.Name)
		}
		g.mod.Structs = append(g.mod.Structs, g.lowerClassStruct(class))
	}
	for _, n := range names {
		emit(n)
	}

	for _, name := range sortedStructNames(g.res.Structs) {
		s := g.res.Structs[name]
		fields := make([]StructField, 0, len(s.Fields))
		for _, fname := range sortedTypeKeys(s.Fields) {
			fields = append(fields, StructField{Name: fname, Type: g.lowerType(s.Fields[fname])})
		}
		g.mod.Structs = append(g.mod.Structs, &StructDecl{Name: s.Name, Fields: fields})
	}
}

func (g *Generator) lowerClassStruct(class *semantic.ClassType) *StructDecl {
	var fields []StructField
	if class.Super != nil {
		// A derived struct starts with its Super's whole layout (header,
		// interface slots, fields), so a derived pointer is usable as a base.
		fields = append(fields, g.lowerClassStruct(class.Super).Fields...)
	} else {
		fields = append(fields, StructField{Name: "__rc", Type: PrimitiveType{Name: "int"}})
		// __vtable is untyped (void*, cast to the right ClassName_VTable*
		// at each call site in lowerCall) rather than naming one fixed
		// _VTable struct here: a class with no virtual methods of its own
		// still gets the field (left NULL; btrc_alloc zero-fills), so the
		// field's existence never depends on whether this particular
		// hierarchy happens to need virtual dispatch.
		fields = append(fields, StructField{Name: "__vtable", Type: PointerType{Pointee: PrimitiveType{Name: "void"}}})
		// __type_name backs exception-type matching in lowerTry's catch
		// dispatch (btrc_exception_is) and is also the only runtime type
		// tag available for `is`/`as` (spec.md §4.5).
		fields = append(fields, StructField{Name: "__type_name", Type: PrimitiveType{Name: "const char *"}})
		// __destroy lets btrc_release (a single generic function with no
		// per-class knowledge) run the class's own destructor body before
		// freeing: set in lowerCtor to the nearest ancestor's ClassName_destroy,
		// or left NULL (btrc_alloc zero-fills) when nothing in the chain
		// declares one, in which case release just frees the memory.
		fields = append(fields, StructField{Name: "__destroy", Type: FuncPtrType{}})
	}
	// Interface satisfaction (spec.md §4.5): one vtable-pointer field per
	// implemented interface, set at construction from that interface's
	// per-class itable instance (emitVtables).
	for _, iface := range class.Interfaces {
		fields = append(fields, StructField{Name: interfaceVTableFieldName(iface), Type: PointerType{Pointee: StructRefType{Name: iface.Name + "_VTable"}}})
	}
	for _, fname := range sortedFieldKeys(class.Fields) {
		fields = append(fields, StructField{Name: fname, Type: g.lowerType(class.Fields[fname].Type)})
	}
	return &StructDecl{Name: class.Name, Fields: fields}
}

// interfaceVTableFieldName names the struct field carrying the vtable
// pointer for one implemented interface; prefixed distinctly from __vtable
// (the class's own virtual-method dispatch table) since a class can
// implement several interfaces alongside its own override chain.
func interfaceVTableFieldName(iface *semantic.InterfaceType) string {
	return "__itable_" + iface.Name
}

// emitVtables emits, for each class, a vtable struct (one function-pointer
// field per virtual method collected from the whole ancestor chain) and a
// statically initialized instance overwriting inherited slots the class
// overrides and appending slots for methods it first declares
// (spec.md §4.5 "Vtable construction").
func (g *Generator) emitVtables() {
	emittedInterfaces := map[string]bool{}
	for _, name := range sortedClassNames(g.res.Classes) {
		class := g.res.Classes[name]
		if len(class.TypeParams) > 0 {
			continue // no virtual dispatch through an uninstantiated generic class
		}
		slots := g.virtualSlots(class)
		if len(slots) > 0 {
			fields := make([]StructField, len(slots))
			compound := make([]CompoundField, len(slots))
			for i, slot := range slots {
				fields[i] = StructField{Name: slot, Type: FuncPtrType{}}
				owner := g.methodOwner(class, slot)
				compound[i] = CompoundField{Name: slot, Value: Var{Name: owner + "_" + slot}}
			}
			g.mod.Structs = append(g.mod.Structs, &StructDecl{Name: class.Name + "_VTable", Fields: fields})
			// A real static global, not a function: lowerCtor takes its
			// address (&ClassName_vtable_instance) to populate self's
			// __vtable field, which only type-checks against a genuine
			// ClassName_VTable* — a function's address is a function
			// pointer, never that.
			g.mod.Globals = append(g.mod.Globals, &GlobalDecl{
				Name: class.Name + "_vtable_instance",
				Type: StructRefType{Name: class.Name + "_VTable"},
				Init: Compound{Of: StructRefType{Name: class.Name + "_VTable"}, Fields: compound},
			})
		}

		for _, iface := range class.Interfaces {
			if !emittedInterfaces[iface.Name] {
				emittedInterfaces[iface.Name] = true
				ifaceNames := sortedMethodKeys(iface.Methods)
				ifaceFields := make([]StructField, len(ifaceNames))
				for i, n := range ifaceNames {
					ifaceFields[i] = StructField{Name: n, Type: FuncPtrType{}}
				}
				g.mod.Structs = append(g.mod.Structs, &StructDecl{Name: iface.Name + "_VTable", Fields: ifaceFields})
			}
			ifaceNames := sortedMethodKeys(iface.Methods)
			ifaceCompound := make([]CompoundField, len(ifaceNames))
			for i, n := range ifaceNames {
				ifaceCompound[i] = CompoundField{Name: n, Value: Var{Name: class.Name + "_" + n}}
			}
			g.mod.Globals = append(g.mod.Globals, &GlobalDecl{
				Name: class.Name + "_" + iface.Name + "_itable_instance",
				Type: StructRefType{Name: iface.Name + "_VTable"},
				Init: Compound{Of: StructRefType{Name: iface.Name + "_VTable"}, Fields: ifaceCompound},
			})
		}
	}
}

// virtualSlots returns the ordered set of virtual method names visible on
// class, inherited slots first (oldest ancestor first) so vtable layout is
// stable across the hierarchy.
func (g *Generator) virtualSlots(class *semantic.ClassType) []string {
	var chain []*semantic.ClassType
	for c := class; c != nil; c = c.Super {
		chain = append([]*semantic.ClassType{c}, chain...)
	}
	seen := map[string]bool{}
	var slots []string
	for _, c := range chain {
		for _, mname := range sortedMethodKeys(c.Methods) {
			m := c.Methods[mname]
			if !m.IsVirtual && !m.IsOverride && !m.IsAbstract {
				continue
			}
			if !seen[mname] {
				seen[mname] = true
				slots = append(slots, mname)
			}
		}
	}
	return slots
}

// dtorOwner finds the nearest class in the ancestor chain (including class
// itself) that declares a destructor, for populating the __destroy field
// that btrc_release calls generically.
func (g *Generator) dtorOwner(class *semantic.ClassType) (string, bool) {
	for c := class; c != nil; c = c.Super {
		if c.Decl == nil {
			continue
		}
		for _, m := range c.Decl.Members {
			if _, ok := m.(*ast.DtorMember); ok {
				return c.Name, true
			}
		}
	}
	return "", false
}

// methodOwner finds the nearest ancestor (including class itself) that
// declares method name, for vtable-slot initialization.
func (g *Generator) methodOwner(class *semantic.ClassType, name string) string {
	for c := class; c != nil; c = c.Super {
		if _, ok := c.Methods[name]; ok {
			return c.Name
		}
	}
	return class.Name
}

// lowerFunctions lowers every top-level FunctionDecl to a free FuncDef.
func (g *Generator) lowerFunctions() {
	for _, d := range g.res.Program.Decls {
		fn, ok := d.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		proto := &FuncProto{Name: fn.Name, Result: lowerTypeExpr(g, fn.ReturnType), Static: fn.IsStatic}
		for _, p := range fn.Params {
			proto.Params = append(proto.Params, Param{Name: p.Name, Type: lowerTypeExpr(g, p.Type)})
		}
		body := g.withKeepParams(fn.Params, fn.Body)
		g.mod.Prototypes = append(g.mod.Prototypes, proto)
		g.mod.Functions = append(g.mod.Functions, &FuncDef{Proto: proto, Body: body})
	}
}

// lowerClassMembers lowers every class's methods, constructors, destructor,
// and properties to free functions taking an explicit self pointer
// (spec.md §4.5: "Methods become free functions named ClassName_methodName
// taking an explicit self pointer as the first parameter").
func (g *Generator) lowerClassMembers() {
	for _, name := range sortedClassNames(g.res.Classes) {
		class := g.res.Classes[name]
		if class.Decl == nil || len(class.TypeParams) > 0 {
			continue // generic class bodies are lowered per instance by monomorphizeGenerics
		}
		self := Param{Name: "self", Type: PointerType{Pointee: StructRefType{Name: class.Name}}}
		for _, m := range class.Decl.Members {
			switch member := m.(type) {
			case *ast.MethodMember:
				if member.IsAbstract {
					continue
				}
				proto := &FuncProto{Name: class.Name + "_" + member.Name, Result: lowerTypeExpr(g, member.ReturnType)}
				proto.Params = append(proto.Params, self)
				for _, p := range member.Params {
					proto.Params = append(proto.Params, Param{Name: p.Name, Type: lowerTypeExpr(g, p.Type)})
				}
				g.mod.Prototypes = append(g.mod.Prototypes, proto)
				g.mod.Functions = append(g.mod.Functions, &FuncDef{Proto: proto, Body: g.withClassContext(class, member.Params, member.Body)})
			case *ast.CtorMember:
				g.lowerCtor(class, member, self)
			case *ast.DtorMember:
				g.lowerDtor(class, member, self)
			case *ast.PropertyMember:
				g.lowerProperty(class, member, self)
			}
		}
	}
}

func (g *Generator) lowerCtor(class *semantic.ClassType, ctor *ast.CtorMember, self Param) {
	initProto := &FuncProto{Name: class.Name + "_init", Result: PrimitiveType{Name: "void"}}
	initProto.Params = append(initProto.Params, self)
	for _, p := range ctor.Params {
		initProto.Params = append(initProto.Params, Param{Name: p.Name, Type: lowerTypeExpr(g, p.Type)})
	}
	body := []Stmt{
		&Assign{Target: Member{Base: Var{Name: "self"}, Field: "__rc", Arrow: true}, Value: Literal{Text: "1"}},
		&Assign{Target: Member{Base: Var{Name: "self"}, Field: "__type_name", Arrow: true}, Value: Literal{Text: strconv.Quote(class.Name)}},
	}
	if owner, ok := g.dtorOwner(class); ok {
		body = append(body, &Assign{Target: Member{Base: Var{Name: "self"}, Field: "__destroy", Arrow: true}, Value: Var{Name: owner + "_destroy"}})
	}
	// emitVtables only emits class.Name+"_vtable_instance" when class's own
	// virtualSlots is non-empty; skip the assignment otherwise rather than
	// reference an instance that was never generated. __vtable is void*
	// (lowerClassStruct), so the pointer-to-ClassName_VTable conversion
	// here needs no cast.
	if len(g.virtualSlots(class)) > 0 {
		body = append(body, &Assign{Target: Member{Base: Var{Name: "self"}, Field: "__vtable", Arrow: true}, Value: UnaryOp{Op: "&", Operand: Var{Name: class.Name + "_vtable_instance"}}})
	}
	for _, iface := range class.Interfaces {
		body = append(body, &Assign{
			Target: Member{Base: Var{Name: "self"}, Field: interfaceVTableFieldName(iface), Arrow: true},
			Value:  UnaryOp{Op: "&", Operand: Var{Name: class.Name + "_" + iface.Name + "_itable_instance"}},
		})
	}
	body = append(body, g.withClassContext(class, ctor.Params, ctor.Body)...)
	g.mod.Prototypes = append(g.mod.Prototypes, initProto)
	g.mod.Functions = append(g.mod.Functions, &FuncDef{Proto: initProto, Body: body})

	newProto := &FuncProto{Name: class.Name + "_new", Result: PointerType{Pointee: StructRefType{Name: class.Name}}}
	newProto.Params = initProto.Params[1:]
	args := []Expr{Var{Name: "obj"}}
	for _, p := range ctor.Params {
		args = append(args, Var{Name: p.Name})
	}
	newBody := []Stmt{
		&VarDecl{Name: "obj", Type: newProto.Result, Init: Call{Target: Var{Name: "btrc_alloc"}, Args: []Expr{Sizeof{Of: StructRefType{Name: class.Name}}}}},
		&ExprStmt{Value: Call{Target: Var{Name: initProto.Name}, Args: args}},
		&Return{Value: Var{Name: "obj"}},
	}
	g.mod.RequireHelper("alloc")
	g.mod.Prototypes = append(g.mod.Prototypes, newProto)
	g.mod.Functions = append(g.mod.Functions, &FuncDef{Proto: newProto, Body: newBody})
}

func (g *Generator) lowerDtor(class *semantic.ClassType, dtor *ast.DtorMember, self Param) {
	proto := &FuncProto{Name: class.Name + "_destroy", Result: PrimitiveType{Name: "void"}}
	proto.Params = append(proto.Params, self)
	body := g.withClassContext(class, nil, dtor.Body)
	body = append(body, &ExprStmt{Value: Call{Target: Var{Name: "free"}, Args: []Expr{Var{Name: "self"}}}})
	g.mod.Prototypes = append(g.mod.Prototypes, proto)
	g.mod.Functions = append(g.mod.Functions, &FuncDef{Proto: proto, Body: body})
}

// lowerProperty rewrites `obj.prop`/`obj.prop = v` call sites at
// expression-lowering time (lower_expr.go); here it lowers the getter and
// setter to paired free functions (spec.md §4.5: "Properties become
// paired getter/setter functions").
func (g *Generator) lowerProperty(class *semantic.ClassType, prop *ast.PropertyMember, self Param) {
	propType := lowerTypeExpr(g, prop.PropType)
	if len(prop.Getter) > 0 {
		proto := &FuncProto{Name: class.Name + "_get_" + prop.Name, Result: propType}
		proto.Params = append(proto.Params, self)
		g.mod.Prototypes = append(g.mod.Prototypes, proto)
		g.mod.Functions = append(g.mod.Functions, &FuncDef{Proto: proto, Body: g.withClassContext(class, nil, prop.Getter)})
	}
	if len(prop.Setter) > 0 {
		paramName := "value"
		if prop.SetterParam != nil {
			paramName = prop.SetterParam.Name
		}
		proto := &FuncProto{Name: class.Name + "_set_" + prop.Name, Result: PrimitiveType{Name: "void"}}
		proto.Params = append(proto.Params, self, Param{Name: paramName, Type: propType})
		g.mod.Prototypes = append(g.mod.Prototypes, proto)
		g.mod.Functions = append(g.mod.Functions, &FuncDef{Proto: proto, Body: g.withClassContext(class, []ast.Param{{Name: paramName}}, prop.Setter)})
	}
}

// lowerType maps a resolved semantic.Type to its C representation. Outside
// monomorphizeGenerics, g.subst is nil and semantic.TypeParamType never
// appears except inside a generic class's own (not-yet-instantiated) body,
// which emitStructShells/lowerClassMembers skip entirely; see
// monomorphizeInstance for the substituted case.
func (g *Generator) lowerType(t ast.Type) Type {
	switch v := t.(type) {
	case semantic.Primitive:
		return PrimitiveType{Name: cPrimitiveName(string(v))}
	case *semantic.ClassType:
		return PointerType{Pointee: StructRefType{Name: v.Name}}
	case *semantic.InterfaceType:
		return PointerType{Pointee: StructRefType{Name: v.Name + "_VTable"}}
	case *semantic.StructType:
		return StructRefType{Name: v.Name}
	case *semantic.EnumType:
		return PrimitiveType{Name: v.Name}
	case *semantic.PointerType:
		return PointerType{Pointee: g.lowerType(v.Pointee)}
	case *semantic.NullableType:
		return g.lowerType(v.Base) // nullable pointers/classes are already C pointers; nullable primitives are boxed at use sites
	case *semantic.GenericInstance:
		g.requireGenericInstance(v)
		return StructRefType{Name: monomorphName(v)}
	case semantic.TypeParamType:
		if real, ok := g.subst[v.Name]; ok {
			return g.lowerType(real)
		}
		return PrimitiveType{Name: "void"}
	case *semantic.FuncType:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = g.lowerType(p)
		}
		return FuncPtrType{Params: params, Result: g.lowerType(v.Result)}
	case *semantic.MutexType:
		g.mod.RequireHelper("thread")
		return StructRefType{Name: "btrc_mutex"}
	default:
		return PrimitiveType{Name: "void"}
	}
}

// requireGenericInstance registers gi in the shared Generics set so a
// monomorphization discovered only while lowering another instance's body
// (e.g. a field of type Box<T> inside List<T>) still gets its own
// specialization pass (spec.md §4.5's transitive fixed point).
func (g *Generator) requireGenericInstance(gi *semantic.GenericInstance) {
	if g.res.Generics == nil {
		g.res.Generics = map[string]*semantic.GenericInstance{}
	}
	g.res.Generics[gi.Key()] = gi
}

func lowerTypeExpr(g *Generator, t ast.TypeExpr) Type {
	// TypeExpr nodes carry no resolved semantic.Type of their own once
	// pass 2 is done with an expression; prototypes instead re-resolve
	// through the same name tables the Analyzer built, mirroring
	// resolveType but without diagnostics (already reported in pass 2).
	switch v := t.(type) {
	case nil:
		return PrimitiveType{Name: "void"}
	case *ast.PrimitiveType:
		if real, ok := g.subst[v.Name]; ok {
			return g.lowerType(real)
		}
		if c, ok := g.res.Classes[v.Name]; ok {
			return PointerType{Pointee: StructRefType{Name: c.Name}}
		}
		if _, ok := g.res.Structs[v.Name]; ok {
			return StructRefType{Name: v.Name}
		}
		if _, ok := g.res.Enums[v.Name]; ok {
			return PrimitiveType{Name: v.Name}
		}
		return PrimitiveType{Name: cPrimitiveName(v.Name)}
	case *ast.PointerType:
		return PointerType{Pointee: lowerTypeExpr(g, v.Pointee)}
	case *ast.NullableType:
		return lowerTypeExpr(g, v.Base)
	case *ast.GenericType:
		return StructRefType{Name: v.Name + "_" + strings.Join(typeArgNames(v.Args), "_")}
	case *ast.FuncType:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = lowerTypeExpr(g, p)
		}
		return FuncPtrType{Params: params, Result: lowerTypeExpr(g, v.Result)}
	default:
		return PrimitiveType{Name: "void"}
	}
}

func typeArgNames(args []ast.TypeExpr) []string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = strings.ReplaceAll(a.String(), "*", "p")
	}
	return names
}

func cPrimitiveName(name string) string {
	switch name {
	case "int":
		return "int"
	case "float":
		return "float"
	case "double":
		return "double"
	case "bool":
		return "_Bool"
	case "char":
		return "char"
	case "string":
		return "char*"
	case "void":
		return "void"
	default:
		return name
	}
}

func monomorphName(gi *semantic.GenericInstance) string {
	parts := make([]string, len(gi.Args))
	for i, a := range gi.Args {
		parts[i] = strings.ReplaceAll(a.String(), "*", "p")
	}
	return gi.Generic.Name + "_" + strings.Join(parts, "_")
}

func sortedClassNames(m map[string]*semantic.ClassType) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedStructNames(m map[string]*semantic.StructType) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedTypeKeys(m map[string]ast.Type) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedFieldKeys(m map[string]*semantic.FieldInfo) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedMethodKeys(m map[string]*semantic.MethodInfo) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
