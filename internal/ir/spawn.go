package ir

import (
	"fmt"

	"github.com/schiffy91/btrc/internal/ast"
)

// lowerSpawn lowers `spawn target(args...);` (SPEC_FULL.md's Thread support
// supplement to spec.md §5). Since the spawned call outlives the statement
// that started it, its arguments cannot simply reference the caller's
// stack: this generates a per-call-site capture struct holding a copy of
// each argument, and a trampoline function matching pthread's
// `void *(*)(void *)` start-routine signature that unpacks the struct and
// invokes target, mirroring liftLambda's "lift to a static function" shape
// in lambda.go but for a thread entry point instead of a closure.
func (g *Generator) lowerSpawn(call *ast.Call) []Stmt {
	g.mod.RequireHelper("thread")

	ident, ok := call.Target.(*ast.Ident)
	if !ok {
		return []Stmt{&ExprStmt{Value: g.lowerExpr(call)}}
	}
	g.spawn++
	n := g.spawn
	argsType := fmt.Sprintf("__btrc_spawn_args_%d", n)
	thunkName := fmt.Sprintf("__btrc_spawn_thunk_%d", n)
	varName := fmt.Sprintf("__btrc_spawn_vars_%d", n)
	argsPtrType := PointerType{Pointee: StructRefType{Name: argsType}}

	fields := make([]StructField, len(call.Args))
	inits := make([]CompoundField, len(call.Args))
	callArgs := make([]Expr, len(call.Args))
	for i, a := range call.Args {
		fname := fmt.Sprintf("arg%d", i)
		fields[i] = StructField{Name: fname, Type: g.lowerType(resolvedOf(a))}
		inits[i] = CompoundField{Name: fname, Value: g.lowerExpr(a)}
		callArgs[i] = Member{Base: Cast{To: argsPtrType, Value: Var{Name: "arg"}}, Field: fname, Arrow: true}
	}
	g.mod.Structs = append(g.mod.Structs, &StructDecl{Name: argsType, Fields: fields})

	thunkProto := &FuncProto{
		Name:   thunkName,
		Static: true,
		Params: []Param{{Name: "arg", Type: PointerType{Pointee: PrimitiveType{Name: "void"}}}},
		Result: PointerType{Pointee: PrimitiveType{Name: "void"}},
	}
	thunkBody := []Stmt{
		&ExprStmt{Value: Call{Target: Var{Name: ident.Name}, Args: callArgs}},
		&ExprStmt{Value: Call{Target: Var{Name: "free"}, Args: []Expr{Var{Name: "arg"}}}},
		&Return{Value: Var{Name: "NULL"}},
	}
	g.mod.Prototypes = append(g.mod.Prototypes, thunkProto)
	g.mod.Functions = append(g.mod.Functions, &FuncDef{Proto: thunkProto, Body: thunkBody})

	return []Stmt{
		&VarDecl{Name: varName, Type: argsPtrType,
			Init: Cast{To: argsPtrType, Value: Call{Target: Var{Name: "btrc_alloc"}, Args: []Expr{Sizeof{Of: StructRefType{Name: argsType}}}}}},
		&Assign{Target: UnaryOp{Op: "*", Operand: Var{Name: varName}}, Value: Compound{Of: StructRefType{Name: argsType}, Fields: inits}},
		&Spawn{Trampoline: thunkName, Args: Cast{To: PointerType{Pointee: PrimitiveType{Name: "void"}}, Value: Var{Name: varName}}},
	}
}
