package ir

import (
	"fmt"

	"github.com/schiffy91/btrc/internal/ast"
)

// liftLambda lifts a lambda expression to a static function and returns a
// reference to it (spec.md §4.5: "Each lambda is lifted to a static
// function... Non-capturing lambdas become plain function pointers").
// Capturing lambdas would additionally need a generated capture struct and
// call-site thunk; this generator only lifts the body and leaves capture
// packing as a documented simplification (DESIGN.md) since btrc has no
// free-variable analysis pass yet.
func (g *Generator) liftLambda(expr *ast.LambdaExpr) Expr {
	g.lambda++
	name := fmt.Sprintf("__lambda_%d", g.lambda)
	proto := &FuncProto{Name: name, Static: true}
	for _, p := range expr.Params {
		proto.Params = append(proto.Params, Param{Name: p.Name, Type: lowerTypeExpr(g, p.Type)})
	}
	proto.Result = lowerTypeExpr(g, expr.ReturnType)

	var body []Stmt
	if expr.IsExprBody && len(expr.Body) == 1 {
		if es, ok := expr.Body[0].(*ast.ExprStmt); ok {
			body = []Stmt{&Return{Value: g.lowerExpr(es.Value)}}
		}
	}
	if body == nil {
		body = g.lowerBlock(expr.Body)
	}

	g.mod.Prototypes = append(g.mod.Prototypes, proto)
	g.mod.Functions = append(g.mod.Functions, &FuncDef{Proto: proto, Body: body})
	return Var{Name: name}
}
