package semantic

import "github.com/schiffy91/btrc/internal/ast"

// analyzeBodies is pass 2 (spec.md §4.4): walk every function, method,
// constructor, destructor, and property body, resolving a Type onto
// every expression and binding every identifier to a Symbol.
func (a *Analyzer) analyzeBodies(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			scope := NewScope(a.global)
			a.defineParams(decl.Params, scope)
			a.analyzeStmts(decl.Body, NewScope(scope), a.resolveType(decl.ReturnType))
		case *ast.ClassDecl:
			a.analyzeClassBody(decl)
		}
	}
}

func (a *Analyzer) defineParams(params []ast.Param, scope scopeLike) {
	for _, p := range params {
		scope.Define(&Symbol{Name: p.Name, Type: a.resolveType(p.Type)})
	}
}

func (a *Analyzer) analyzeClassBody(decl *ast.ClassDecl) {
	class := a.classes[decl.Name]
	classScope := NewClassScope(a.global, class)
	classScope.Define(&Symbol{Name: "this", Type: &PointerType{Pointee: class}})

	for _, m := range decl.Members {
		switch member := m.(type) {
		case *ast.MethodMember:
			if member.IsAbstract {
				continue
			}
			scope := NewScope(classScope)
			a.defineParams(member.Params, scope)
			a.analyzeStmts(member.Body, NewScope(scope), a.resolveType(member.ReturnType))
		case *ast.CtorMember:
			scope := NewScope(classScope)
			a.defineParams(member.Params, scope)
			for _, init := range member.InitList {
				a.analyzeExpr(init, scope)
			}
			a.analyzeStmts(member.Body, NewScope(scope), TVoid)
		case *ast.DtorMember:
			scope := NewScope(classScope)
			a.analyzeStmts(member.Body, NewScope(scope), TVoid)
		case *ast.PropertyMember:
			propType := a.resolveType(member.PropType)
			if len(member.Getter) > 0 {
				a.analyzeStmts(member.Getter, NewScope(classScope), propType)
			}
			if len(member.Setter) > 0 {
				setScope := NewScope(classScope)
				paramName := "value"
				if member.SetterParam != nil {
					paramName = member.SetterParam.Name
				}
				setScope.Define(&Symbol{Name: paramName, Type: propType})
				a.analyzeStmts(member.Setter, NewScope(setScope), TVoid)
			}
		case *ast.FieldMember:
			if member.Init != nil {
				a.analyzeExpr(member.Init, classScope)
			}
		}
	}
}

func (a *Analyzer) analyzeStmts(body []ast.Stmt, scope scopeLike, retType ast.Type) {
	for _, s := range body {
		a.analyzeStmt(s, scope, retType)
	}
}

func (a *Analyzer) analyzeStmt(s ast.Stmt, scope scopeLike, retType ast.Type) {
	switch st := s.(type) {
	case *ast.VarDecl:
		declType := a.resolveType(st.DeclType)
		if st.Init != nil {
			a.analyzeExpr(st.Init, scope)
			if isVarInferred(st.DeclType) {
				declType = st.Init.Type()
			} else if !a.assignableTo(st.Init.Type(), declType) {
				a.errorf(st.Pos(), "cannot initialize %s with value of type %s", declType, st.Init.Type())
			}
		}
		scope.Define(&Symbol{Name: st.Name, Type: declType})
	case *ast.Assign:
		a.analyzeExpr(st.Target, scope)
		a.analyzeExpr(st.Value, scope)
		if st.Target.Type() != nil && st.Value.Type() != nil && !a.assignableTo(st.Value.Type(), st.Target.Type()) {
			a.errorf(st.Pos(), "cannot assign %s to %s", st.Value.Type(), st.Target.Type())
		}
	case *ast.ExprStmt:
		a.analyzeExpr(st.Value, scope)
	case *ast.If:
		a.analyzeExpr(st.Cond, scope)
		a.analyzeStmts(st.ThenBody, NewScope(scope), retType)
		if st.ElseBody != nil {
			a.analyzeStmts(st.ElseBody, NewScope(scope), retType)
		}
	case *ast.CFor:
		forScope := NewScope(scope)
		if st.Init != nil {
			a.analyzeStmt(st.Init, forScope, retType)
		}
		if st.Cond != nil {
			a.analyzeExpr(st.Cond, forScope)
		}
		if st.Post != nil {
			a.analyzeStmt(st.Post, forScope, retType)
		}
		a.analyzeStmts(st.Body, NewScope(forScope), retType)
	case *ast.ForIn:
		a.analyzeExpr(st.Iterable, scope)
		loopScope := NewScope(scope)
		loopScope.Define(&Symbol{Name: st.Var, Type: a.elementType(st.Iterable)})
		a.analyzeStmts(st.Body, loopScope, retType)
	case *ast.While:
		a.analyzeExpr(st.Cond, scope)
		a.analyzeStmts(st.Body, NewScope(scope), retType)
	case *ast.DoWhile:
		a.analyzeStmts(st.Body, NewScope(scope), retType)
		a.analyzeExpr(st.Cond, scope)
	case *ast.Switch:
		a.analyzeExpr(st.Subject, scope)
		for _, c := range st.Cases {
			for _, v := range c.Values {
				a.analyzeExpr(v, scope)
			}
			a.analyzeStmts(c.Body, NewScope(scope), retType)
		}
		if st.DefaultBody != nil {
			a.analyzeStmts(st.DefaultBody, NewScope(scope), retType)
		}
	case *ast.TryCatchFinally:
		a.analyzeStmts(st.TryBody, NewScope(scope), retType)
		for _, c := range st.Catches {
			catchScope := NewScope(scope)
			if c.Binding != "" {
				catchScope.Define(&Symbol{Name: c.Binding, Type: a.resolveType(c.ExceptionType)})
			}
			a.analyzeStmts(c.Body, catchScope, retType)
		}
		if st.FinallyBody != nil {
			a.analyzeStmts(st.FinallyBody, NewScope(scope), retType)
		}
	case *ast.Throw:
		a.analyzeExpr(st.Value, scope)
	case *ast.Spawn:
		a.analyzeExpr(st.Call, scope)
	case *ast.Return:
		if st.Value != nil {
			a.analyzeExpr(st.Value, scope)
			if retType != nil && st.Value.Type() != nil && !a.assignableTo(st.Value.Type(), retType) {
				a.errorf(st.Pos(), "cannot return %s from a function returning %s", st.Value.Type(), retType)
			}
		}
	case *ast.Block:
		a.analyzeStmts(st.Body, NewScope(scope), retType)
	case *ast.Break, *ast.Continue:
		// nothing to resolve
	}
}

// elementType determines the per-iteration variable type of a for-in loop
// (spec.md §4.8: collections and ranges). A RangeExpr iterates ints
// directly; any other iterable must resolve to a single-type-argument
// generic instance (Array<T>, Set<T>) whose Args[0] is the element type.
func (a *Analyzer) elementType(iterable ast.Expr) ast.Type {
	if _, ok := iterable.(*ast.RangeExpr); ok {
		return TInt
	}
	t := iterable.Type()
	if gi, ok := t.(*GenericInstance); ok && len(gi.Args) > 0 {
		return gi.Args[len(gi.Args)-1]
	}
	a.errorf(iterable.Pos(), "type %s is not iterable", t)
	return ast.ErrorTypeValue
}
