package semantic

import "github.com/schiffy91/btrc/internal/ast"

// dunderName maps an overloadable BinaryOp to the method name a class
// must declare to participate in it (spec.md §4.6: "__add__", "__sub__",
// etc). Declaring these as ordinary methods, rather than adding dedicated
// `operator` syntax, is documented in DESIGN.md as a parser simplification.
func dunderName(op ast.BinaryOp) string {
	switch op {
	case ast.Add:
		return "__add__"
	case ast.Sub:
		return "__sub__"
	case ast.Mul:
		return "__mul__"
	case ast.Div:
		return "__div__"
	case ast.Mod:
		return "__mod__"
	case ast.Eq:
		return "__eq__"
	case ast.Ne:
		return "__ne__"
	case ast.Lt:
		return "__lt__"
	case ast.Gt:
		return "__gt__"
	case ast.Le:
		return "__le__"
	case ast.Ge:
		return "__ge__"
	}
	return ""
}

func unaryDunderName(op ast.UnaryOp) string {
	if op == ast.Neg {
		return "__neg__"
	}
	return ""
}

func (a *Analyzer) analyzeBinary(expr *ast.Binary, scope scopeLike) {
	a.analyzeExpr(expr.Left, scope)

	if expr.Op == ast.Is || expr.Op == ast.As {
		// Right is a type name smuggled through an Ident node (the
		// Binary ASDL shape has no type-typed slot, see DESIGN.md).
		ident, ok := expr.Right.(*ast.Ident)
		if !ok {
			expr.SetType(ast.ErrorTypeValue)
			return
		}
		named := a.resolveNamedType(ident.Name, expr.Pos())
		if expr.Op == ast.Is {
			expr.SetType(TBool)
		} else {
			expr.SetType(named)
		}
		return
	}

	a.analyzeExpr(expr.Right, scope)
	lt, rt := expr.Left.Type(), expr.Right.Type()

	if class, ok := classOf(lt); ok {
		if name := dunderName(expr.Op); name != "" {
			if m, ok := class.Methods[name]; ok {
				expr.SetType(m.ReturnType)
				return
			}
		}
		a.errorf(expr.Pos(), "class %s does not overload operator %s", class.Name, expr.Op)
		expr.SetType(ast.ErrorTypeValue)
		return
	}

	switch expr.Op {
	case ast.LogAnd, ast.LogOr:
		expr.SetType(TBool)
	case ast.Eq, ast.Ne, ast.Lt, ast.Gt, ast.Le, ast.Ge:
		expr.SetType(TBool)
	default:
		expr.SetType(widen(lt, rt))
	}
}

func (a *Analyzer) analyzeUnary(expr *ast.Unary, scope scopeLike) {
	a.analyzeExpr(expr.Operand, scope)
	t := expr.Operand.Type()
	if class, ok := classOf(t); ok {
		if name := unaryDunderName(expr.Op); name != "" {
			if m, ok := class.Methods[name]; ok {
				expr.SetType(m.ReturnType)
				return
			}
		}
	}
	switch expr.Op {
	case ast.Not:
		expr.SetType(TBool)
	default:
		expr.SetType(t)
	}
}

func classOf(t ast.Type) (*ClassType, bool) {
	switch v := t.(type) {
	case *ClassType:
		return v, true
	case *PointerType:
		return classOf(v.Pointee)
	default:
		return nil, false
	}
}

func (a *Analyzer) analyzeCall(expr *ast.Call, scope scopeLike) {
	for _, arg := range expr.Args {
		a.analyzeExpr(arg, scope)
	}

	if ident, ok := expr.Target.(*ast.Ident); ok {
		sym, found := scope.Lookup(ident.Name)
		if !found {
			a.errorf(expr.Pos(), "call to undefined function %q", ident.Name)
			ident.SetType(ast.ErrorTypeValue)
			expr.SetType(ast.ErrorTypeValue)
			return
		}
		ft := a.selectOverload(sym, expr.Args)
		ident.SetType(ft)
		expr.SetType(ft.Result)
		return
	}

	a.analyzeExpr(expr.Target, scope)
	if ft, ok := expr.Target.Type().(*FuncType); ok {
		expr.SetType(ft.Result)
		return
	}
	a.errorf(expr.Pos(), "cannot call a value of type %s", expr.Target.Type())
	expr.SetType(ast.ErrorTypeValue)
}

// selectOverload picks the best matching signature among sym's overloads
// by arity and then by assignability of each argument (spec.md §4.4:
// "overload resolution via implicit conversions"). It falls back to the
// first same-arity candidate, or sym's primary Type, when nothing matches
// exactly, so analysis never stalls on an unresolved call.
func (a *Analyzer) selectOverload(sym *Symbol, args []ast.Expr) *FuncType {
	candidates := []*FuncType{}
	if ft, ok := sym.Type.(*FuncType); ok {
		candidates = append(candidates, ft)
	}
	candidates = append(candidates, sym.Overloads...)

	var sameArity *FuncType
	for _, c := range candidates {
		if len(c.Params) != len(args) {
			continue
		}
		if sameArity == nil {
			sameArity = c
		}
		match := true
		for i, p := range c.Params {
			if !a.assignableTo(args[i].Type(), p) {
				match = false
				break
			}
		}
		if match {
			return c
		}
	}
	if sameArity != nil {
		return sameArity
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return &FuncType{Result: ast.ErrorTypeValue}
}
