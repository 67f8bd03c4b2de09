package semantic

import (
	"github.com/schiffy91/btrc/internal/ast"
	"github.com/schiffy91/btrc/internal/token"
)

// analyzeExpr resolves e's Type (and the Type of every sub-expression),
// binding identifiers against scope. It always leaves e with a non-nil
// Type, using ast.ErrorTypeValue when resolution fails, so later passes
// never have to nil-check (spec.md §3's type-totality invariant).
func (a *Analyzer) analyzeExpr(e ast.Expr, scope scopeLike) {
	switch expr := e.(type) {
	case *ast.IntLiteral:
		expr.SetType(TInt)
	case *ast.FloatLiteral:
		expr.SetType(TDouble)
	case *ast.CharLiteral:
		expr.SetType(TChar)
	case *ast.StringLiteral:
		expr.SetType(TString)
	case *ast.BoolLiteral:
		expr.SetType(TBool)
	case *ast.NullLiteral:
		expr.SetType(NullTypeValue)
	case *ast.Ident:
		if sym, ok := scope.Lookup(expr.Name); ok {
			expr.SetType(sym.Type)
		} else {
			a.errorf(expr.Pos(), "undefined identifier %q", expr.Name)
			expr.SetType(ast.ErrorTypeValue)
		}
	case *ast.Member:
		a.analyzeMember(expr, scope)
	case *ast.Arrow:
		a.analyzeArrow(expr, scope)
	case *ast.Index:
		a.analyzeIndex(expr, scope)
	case *ast.Call:
		a.analyzeCall(expr, scope)
	case *ast.Unary:
		a.analyzeUnary(expr, scope)
	case *ast.Binary:
		a.analyzeBinary(expr, scope)
	case *ast.Ternary:
		a.analyzeExpr(expr.Cond, scope)
		a.analyzeExpr(expr.ThenExpr, scope)
		a.analyzeExpr(expr.ElseExpr, scope)
		expr.SetType(a.unify(expr.ThenExpr.Type(), expr.ElseExpr.Type()))
	case *ast.Cast:
		a.analyzeExpr(expr.Value, scope)
		expr.SetType(a.resolveType(expr.TargetType))
	case *ast.SizeofExpr:
		expr.SetType(TInt)
	case *ast.New:
		for _, arg := range expr.Args {
			a.analyzeExpr(arg, scope)
		}
		classType := a.resolveType(expr.ClassType)
		expr.SetType(classType)
	case *ast.Delete:
		a.analyzeExpr(expr.Value, scope)
		expr.SetType(TVoid)
	case *ast.LambdaExpr:
		a.analyzeLambda(expr, scope)
	case *ast.FString:
		for _, c := range expr.Chunks {
			if ec, ok := c.(*ast.ExprChunk); ok {
				a.analyzeExpr(ec.Value, scope)
			}
		}
		expr.SetType(TString)
	case *ast.TupleExpr:
		elems := make([]ast.Type, len(expr.Elements))
		for i, el := range expr.Elements {
			a.analyzeExpr(el, scope)
			elems[i] = el.Type()
		}
		expr.SetType(&TupleType{Elements: elems})
	case *ast.TuplePattern:
		a.analyzeExpr(expr.Value, scope)
		tup, _ := expr.Value.Type().(*TupleType)
		for i, name := range expr.Bindings {
			t := ast.Type(ast.ErrorTypeValue)
			if tup != nil && i < len(tup.Elements) {
				t = tup.Elements[i]
			}
			scope.Define(&Symbol{Name: name, Type: t})
		}
		expr.SetType(TVoid)
	case *ast.RangeExpr:
		a.analyzeExpr(expr.Lo, scope)
		a.analyzeExpr(expr.Hi, scope)
		if expr.Step != nil {
			a.analyzeExpr(expr.Step, scope)
		}
		expr.SetType(TInt)
	case *ast.NullCoalesce:
		a.analyzeExpr(expr.Lhs, scope)
		a.analyzeExpr(expr.Rhs, scope)
		expr.SetType(a.unify(unwrapNullable(expr.Lhs.Type()), expr.Rhs.Type()))
	default:
		// Node types with no narrower rule (shouldn't occur once every
		// ASDL expr variant is handled above) still get a type.
		if e != nil {
			e.SetType(ast.ErrorTypeValue)
		}
	}
}

func (a *Analyzer) analyzeMember(expr *ast.Member, scope scopeLike) {
	a.analyzeExpr(expr.Base, scope)
	target, wasNullable := a.unwrapPointerOrNullable(expr.Base.Type())
	if wasNullable && !expr.Optional {
		a.warnf(expr.Pos(), "accessing %q on a nullable value without '?.'", expr.Name)
	}
	result := a.lookupMember(target, expr.Name, expr.Pos())
	if expr.Optional {
		result = &NullableType{Base: result}
	}
	expr.SetType(result)
}

func (a *Analyzer) analyzeArrow(expr *ast.Arrow, scope scopeLike) {
	a.analyzeExpr(expr.Base, scope)
	ptr, ok := expr.Base.Type().(*PointerType)
	if !ok {
		a.errorf(expr.Pos(), "'->' requires a pointer operand, got %s", expr.Base.Type())
		expr.SetType(ast.ErrorTypeValue)
		return
	}
	expr.SetType(a.lookupMember(ptr.Pointee, expr.Name, expr.Pos()))
}

func (a *Analyzer) analyzeIndex(expr *ast.Index, scope scopeLike) {
	a.analyzeExpr(expr.Base, scope)
	a.analyzeExpr(expr.Index, scope)
	if gi, ok := expr.Base.Type().(*GenericInstance); ok && len(gi.Args) > 0 {
		expr.SetType(gi.Args[len(gi.Args)-1])
		return
	}
	a.errorf(expr.Pos(), "type %s cannot be indexed", expr.Base.Type())
	expr.SetType(ast.ErrorTypeValue)
}

func (a *Analyzer) analyzeLambda(expr *ast.LambdaExpr, scope scopeLike) {
	lambdaScope := NewScope(scope)
	a.defineParams(expr.Params, lambdaScope)
	retType := a.resolveType(expr.ReturnType)
	a.analyzeStmts(expr.Body, lambdaScope, retType)
	params := make([]ast.Type, len(expr.Params))
	for i, p := range expr.Params {
		params[i] = a.resolveType(p.Type)
	}
	expr.SetType(&FuncType{Params: params, Result: retType})
}

// unwrapPointerOrNullable strips one layer of PointerType or NullableType,
// reporting whether the stripped layer was a NullableType (so the caller
// can require '?.' at that access site, spec.md §4.6).
func (a *Analyzer) unwrapPointerOrNullable(t ast.Type) (ast.Type, bool) {
	switch v := t.(type) {
	case *PointerType:
		return v.Pointee, false
	case *NullableType:
		return v.Base, true
	default:
		return t, false
	}
}

func unwrapNullable(t ast.Type) ast.Type {
	if n, ok := t.(*NullableType); ok {
		return n.Base
	}
	return t
}

// lookupMember resolves name as a field or method of t, walking t's
// ancestor chain for a ClassType (spec.md §4.4 class-scope lookup order).
func (a *Analyzer) lookupMember(t ast.Type, name string, pos token.Position) ast.Type {
	switch v := t.(type) {
	case *ClassType:
		for c := v; c != nil; c = c.Super {
			if f, ok := c.Fields[name]; ok {
				return f.Type
			}
			if m, ok := c.Methods[name]; ok {
				return &FuncType{Params: m.ParamTypes, Result: m.ReturnType}
			}
		}
	case *InterfaceType:
		if m, ok := v.Methods[name]; ok {
			return &FuncType{Params: m.ParamTypes, Result: m.ReturnType}
		}
	case *StructType:
		if f, ok := v.Fields[name]; ok {
			return f
		}
	case *EnumType:
		if _, ok := v.Variants[name]; ok {
			return v
		}
	case *GenericInstance:
		return a.lookupMember(v.Generic, name, pos)
	case *MutexType:
		switch name {
		case "lock", "unlock":
			return &FuncType{Result: TVoid}
		}
	}
	a.errorf(pos, "type %s has no member %q", t, name)
	return ast.ErrorTypeValue
}
