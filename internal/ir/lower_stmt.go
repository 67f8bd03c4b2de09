package ir

import (
	"strconv"

	"github.com/schiffy91/btrc/internal/ast"
)

func (g *Generator) lowerBlock(body []ast.Stmt) []Stmt {
	out := make([]Stmt, 0, len(body))
	for _, s := range body {
		out = append(out, g.lowerStmt(s)...)
	}
	return out
}

// lowerStmt returns a slice because some source statements (try/catch,
// for-in) lower to more than one IR statement, or to a differently shaped
// single RawC block.
func (g *Generator) lowerStmt(s ast.Stmt) []Stmt {
	switch st := s.(type) {
	case *ast.VarDecl:
		var init Expr
		if st.Init != nil {
			init = g.lowerExpr(st.Init)
		}
		return []Stmt{&VarDecl{Name: st.Name, Type: g.lowerType(resolvedOf(st.Init)), Init: init}}
	case *ast.Assign:
		return g.lowerAssign(st)
	case *ast.ExprStmt:
		return []Stmt{&ExprStmt{Value: g.lowerExpr(st.Value)}}
	case *ast.If:
		return []Stmt{&If{Cond: g.lowerExpr(st.Cond), ThenBody: g.lowerBlock(st.ThenBody), ElseBody: g.lowerBlock(st.ElseBody)}}
	case *ast.CFor:
		var init, post []Stmt
		if st.Init != nil {
			init = g.lowerStmt(st.Init)
		}
		if st.Post != nil {
			post = g.lowerStmt(st.Post)
		}
		var initStmt, postStmt Stmt
		if len(init) > 0 {
			initStmt = init[0]
		}
		if len(post) > 0 {
			postStmt = post[0]
		}
		var cond Expr
		if st.Cond != nil {
			cond = g.lowerExpr(st.Cond)
		}
		return []Stmt{&For{Init: initStmt, Cond: cond, Post: postStmt, Body: g.lowerBlock(st.Body)}}
	case *ast.ForIn:
		return g.lowerForIn(st)
	case *ast.While:
		return []Stmt{&While{Cond: g.lowerExpr(st.Cond), Body: g.lowerBlock(st.Body)}}
	case *ast.DoWhile:
		return []Stmt{&DoWhile{Body: g.lowerBlock(st.Body), Cond: g.lowerExpr(st.Cond)}}
	case *ast.Switch:
		cases := make([]SwitchCase, len(st.Cases))
		for i, c := range st.Cases {
			values := make([]Expr, len(c.Values))
			for j, v := range c.Values {
				values[j] = g.lowerExpr(v)
			}
			cases[i] = SwitchCase{Values: values, Body: g.lowerBlock(c.Body)}
		}
		return []Stmt{&Switch{Subject: g.lowerExpr(st.Subject), Cases: cases, DefaultBody: g.lowerBlock(st.DefaultBody)}}
	case *ast.TryCatchFinally:
		return g.lowerTry(st)
	case *ast.Throw:
		g.mod.RequireHelper("trycatch")
		return []Stmt{&ExprStmt{Value: Call{Target: Var{Name: "btrc_throw"}, Args: []Expr{g.lowerExpr(st.Value)}}}}
	case *ast.Release:
		g.mod.RequireHelper("arc")
		return []Stmt{&ExprStmt{Value: Call{Target: Var{Name: "btrc_release"}, Args: []Expr{g.lowerExpr(st.Value)}}}}
	case *ast.Spawn:
		call, ok := st.Call.(*ast.Call)
		if !ok {
			return nil
		}
		return g.lowerSpawn(call)
	case *ast.Return:
		if st.Value == nil {
			return []Stmt{&Return{}}
		}
		return []Stmt{&Return{Value: g.lowerExpr(st.Value)}}
	case *ast.Break:
		return []Stmt{&Break{}}
	case *ast.Continue:
		return []Stmt{&Continue{}}
	case *ast.Block:
		return []Stmt{&Block{Body: g.lowerBlock(st.Body)}}
	default:
		return nil
	}
}

// lowerForIn lowers `for v in iterable { ... }` to the index-driven loop
// spec.md §4.5 specifies: `for (int __i = 0; __i < iter.iterLen(); ++__i)`.
// A RangeExpr iterable instead becomes a stepped integer for loop.
func (g *Generator) lowerForIn(st *ast.ForIn) []Stmt {
	if rng, ok := st.Iterable.(*ast.RangeExpr); ok {
		step := Expr(Literal{Text: "1"})
		if rng.Step != nil {
			step = g.lowerExpr(rng.Step)
		}
		return []Stmt{&For{
			Init: &VarDecl{Name: st.Var, Type: PrimitiveType{Name: "int"}, Init: g.lowerExpr(rng.Lo)},
			Cond: BinOp{Op: "<", Left: Var{Name: st.Var}, Right: g.lowerExpr(rng.Hi)},
			Post: &Assign{Target: Var{Name: st.Var}, Value: BinOp{Op: "+", Left: Var{Name: st.Var}, Right: step}},
			Body: g.lowerBlock(st.Body),
		}}
	}

	g.mod.RequireHelper("iter")
	iterVar := "__i"
	body := append([]Stmt{
		&VarDecl{Name: st.Var, Init: Call{Target: Member{Base: g.lowerExpr(st.Iterable), Field: "iterGet"}, Args: []Expr{Var{Name: iterVar}}}},
	}, g.lowerBlock(st.Body)...)
	return []Stmt{&For{
		Init: &VarDecl{Name: iterVar, Type: PrimitiveType{Name: "int"}, Init: Literal{Text: "0"}},
		Cond: BinOp{Op: "<", Left: Var{Name: iterVar}, Right: Call{Target: Member{Base: g.lowerExpr(st.Iterable), Field: "iterLen"}, Args: nil}},
		Post: &Assign{Target: Var{Name: iterVar}, Value: BinOp{Op: "+", Left: Var{Name: iterVar}, Right: Literal{Text: "1"}}},
		Body: body,
	}}
}

// lowerTry lowers try/catch/finally onto the "trycatch" Helper Registry
// category's setjmp/longjmp scaffold (spec.md §4.5). It pushes a jump-buffer
// frame, runs the try body under setjmp; a non-zero return means a throw
// landed here via longjmp, so the else branch dispatches to whichever catch
// clause's declared exception type matches btrc_current_exception, or
// rethrows past this frame if none does. finallyBody is appended once,
// after the if/else, so it runs exactly once on both the normal and
// exception paths. ARC releases for locals allocated inside the try body
// are not yet threaded through the longjmp unwind path, a known gap
// recorded in DESIGN.md.
func (g *Generator) lowerTry(st *ast.TryCatchFinally) []Stmt {
	g.mod.RequireHelper("trycatch")

	setjmpCall := Call{Target: Var{Name: "setjmp"}, Args: []Expr{Member{Base: Call{Target: Var{Name: "btrc_jmp_current"}}, Field: "buf", Arrow: true}}}

	tryBody := append(g.lowerBlock(st.TryBody), &ExprStmt{Value: Call{Target: Var{Name: "btrc_jmp_pop"}}})

	var finally []Stmt
	if st.FinallyBody != nil {
		finally = g.lowerBlock(st.FinallyBody)
	}

	catchBody := []Stmt{&ExprStmt{Value: Call{Target: Var{Name: "btrc_jmp_pop"}}}}
	catchBody = append(catchBody, g.lowerCatches(st.Catches, finally)...)

	body := []Stmt{
		&ExprStmt{Value: Call{Target: Var{Name: "btrc_jmp_push"}}},
		&If{
			Cond:     BinOp{Op: "==", Left: setjmpCall, Right: Literal{Text: "0"}},
			ThenBody: tryBody,
			ElseBody: catchBody,
		},
	}
	body = append(body, finally...)
	return body
}

// lowerCatches builds the nested type-dispatch chain that picks which catch
// clause handles the exception currently in btrc_current_exception,
// rethrowing (propagating to the next outer jmp frame, already popped by
// the caller) if no catch clause's declared type matches. The rethrow path
// runs finally first, since control never reaches the copy lowerTry
// appends after the if/else.
func (g *Generator) lowerCatches(catches []ast.CatchClause, finally []Stmt) []Stmt {
	if len(catches) == 0 {
		rethrow := &ExprStmt{Value: Call{Target: Var{Name: "btrc_throw"}, Args: []Expr{Call{Target: Var{Name: "btrc_current_exception"}}}}}
		return append(append([]Stmt{}, finally...), rethrow)
	}
	c := catches[0]
	excType := lowerTypeExpr(g, c.ExceptionType)
	body := g.lowerBlock(c.Body)
	if c.Binding != "" {
		body = append([]Stmt{&VarDecl{Name: c.Binding, Type: excType, Init: Cast{To: excType, Value: Call{Target: Var{Name: "btrc_current_exception"}}}}}, body...)
	}
	return []Stmt{&If{
		Cond:     Call{Target: Var{Name: "btrc_exception_is"}, Args: []Expr{Call{Target: Var{Name: "btrc_current_exception"}}, Literal{Text: strconv.Quote(ast.TypeExprName(c.ExceptionType))}}},
		ThenBody: body,
		ElseBody: g.lowerCatches(catches[1:], finally),
	}}
}

// lowerAssign lowers a plain assignment, inserting retain/release around a
// field store of a class-typed value (spec.md §4.5 ARC): the incoming value
// is retained before the field's previous owner is released, so an
// accidental self-assignment (`obj.field = obj.field`) never drops the
// refcount to zero before the retain lands. Assignments to locals or
// parameters are left bare; a non-`keep` local's release at scope exit is a
// known, disclosed gap (DESIGN.md).
func (g *Generator) lowerAssign(st *ast.Assign) []Stmt {
	target := g.lowerExpr(st.Target)
	value := g.lowerAssignValue(st)
	if st.Op == ast.Set {
		if g.isFieldTarget(st.Target) {
			if _, ok := classOfExprType(st.Target.Type()); ok {
				g.mod.RequireHelper("arc")
				stmts := []Stmt{}
				if !g.isKeepParamRef(st.Value) {
					stmts = append(stmts, &ExprStmt{Value: Call{Target: Var{Name: "btrc_retain"}, Args: []Expr{value}}})
				}
				stmts = append(stmts,
					&ExprStmt{Value: Call{Target: Var{Name: "btrc_release"}, Args: []Expr{target}}},
					&Assign{Target: target, Value: value},
				)
				return stmts
			}
		}
	}
	return []Stmt{&Assign{Target: target, Value: value}}
}

// isFieldTarget reports whether e denotes a class field store: an explicit
// `obj.field` Member, or a bare identifier naming one of the current
// class's own/inherited fields (lowerExpr's *ast.Ident case rewrites the
// latter to self->field too, so both forms need the same ARC treatment).
func (g *Generator) isFieldTarget(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.Member:
		return true
	case *ast.Ident:
		return g.fields[v.Name]
	}
	return false
}

// isKeepParamRef reports whether e is a bare reference to a `keep`
// parameter of the function/method/constructor currently being lowered:
// storing it into a field transfers the reference the caller already
// retained, so the usual store-time retain would leak it.
func (g *Generator) isKeepParamRef(e ast.Expr) bool {
	id, ok := e.(*ast.Ident)
	return ok && g.keepParams[id.Name]
}

func (g *Generator) lowerAssignValue(st *ast.Assign) Expr {
	if st.Op == ast.Set {
		return g.lowerExpr(st.Value)
	}
	return BinOp{Op: compoundOpText(st.Op), Left: g.lowerExpr(st.Target), Right: g.lowerExpr(st.Value)}
}

func compoundOpText(op ast.AssignOp) string {
	switch op {
	case ast.AddSet:
		return "+"
	case ast.SubSet:
		return "-"
	case ast.MulSet:
		return "*"
	case ast.DivSet:
		return "/"
	case ast.ModSet:
		return "%"
	case ast.AndSet:
		return "&"
	case ast.OrSet:
		return "|"
	case ast.XorSet:
		return "^"
	case ast.ShlSet:
		return "<<"
	case ast.ShrSet:
		return ">>"
	default:
		return "="
	}
}

func resolvedOf(e ast.Expr) ast.Type {
	if e == nil {
		return nil
	}
	return e.Type()
}
