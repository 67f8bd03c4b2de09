package ir

import (
	"fmt"
	"strconv"

	"github.com/schiffy91/btrc/internal/ast"
	"github.com/schiffy91/btrc/internal/semantic"
)

func (g *Generator) lowerExpr(e ast.Expr) Expr {
	switch expr := e.(type) {
	case *ast.IntLiteral:
		return Literal{Text: strconv.FormatInt(expr.Value, 10)}
	case *ast.FloatLiteral:
		return Literal{Text: strconv.FormatFloat(expr.Value, 'g', -1, 64)}
	case *ast.CharLiteral:
		return Literal{Text: fmt.Sprintf("'%c'", expr.Value)}
	case *ast.StringLiteral:
		return Literal{Text: strconv.Quote(expr.Value)}
	case *ast.BoolLiteral:
		if expr.Value {
			return Literal{Text: "1"}
		}
		return Literal{Text: "0"}
	case *ast.NullLiteral:
		return Literal{Text: "NULL"}
	case *ast.Ident:
		// A bare name that's one of the current class's own or inherited
		// fields (spec.md §4.4: class body resolves before the enclosing
		// module) reads through self rather than as a local/parameter.
		if g.fields[expr.Name] {
			return Member{Base: Var{Name: "self"}, Field: expr.Name, Arrow: true}
		}
		return Var{Name: expr.Name}
	case *ast.Member:
		return g.lowerMember(expr)
	case *ast.Arrow:
		return Member{Base: g.lowerExpr(expr.Base), Field: expr.Name, Arrow: true}
	case *ast.Index:
		return Index{Base: g.lowerExpr(expr.Base), Index: g.lowerExpr(expr.Index)}
	case *ast.Call:
		return g.lowerCall(expr)
	case *ast.Unary:
		return g.lowerUnary(expr)
	case *ast.Binary:
		return g.lowerBinary(expr)
	case *ast.Ternary:
		return Ternary{Cond: g.lowerExpr(expr.Cond), Then: g.lowerExpr(expr.ThenExpr), Else: g.lowerExpr(expr.ElseExpr)}
	case *ast.Cast:
		return Cast{To: lowerTypeExpr(g, expr.TargetType), Value: g.lowerExpr(expr.Value)}
	case *ast.SizeofExpr:
		return Sizeof{Of: lowerTypeExpr(g, expr.Operand)}
	case *ast.New:
		return g.lowerNew(expr)
	case *ast.Delete:
		return g.lowerDelete(expr)
	case *ast.LambdaExpr:
		return g.liftLambda(expr)
	case *ast.FString:
		return g.lowerFString(expr)
	case *ast.TupleExpr:
		fields := make([]CompoundField, len(expr.Elements))
		for i, el := range expr.Elements {
			fields[i] = CompoundField{Name: fmt.Sprintf("f%d", i), Value: g.lowerExpr(el)}
		}
		return Compound{Fields: fields}
	case *ast.RangeExpr:
		return g.lowerExpr(expr.Lo) // standalone range only meaningful inside for-in, handled there
	case *ast.NullCoalesce:
		g.mod.RequireHelper("nullcoalesce")
		return Call{Target: Var{Name: "btrc_coalesce"}, Args: []Expr{g.lowerExpr(expr.Lhs), g.lowerExpr(expr.Rhs)}}
	default:
		return Literal{Text: "0"}
	}
}

// lowerMember rewrites property access per spec.md §4.5 ("obj.prop ...
// rewritten to calls") and leaves plain field access as a C `.`/`->`
// member expression (class instances are always accessed through a
// pointer, so `.` on a class-typed base lowers to `->`).
func (g *Generator) lowerMember(expr *ast.Member) Expr {
	base := g.lowerExpr(expr.Base)
	if class, ok := classOfExprType(expr.Base.Type()); ok {
		if g.isProperty(class, expr.Name) {
			return Call{Target: Var{Name: class.Name + "_get_" + expr.Name}, Args: []Expr{base}}
		}
		return Member{Base: base, Field: expr.Name, Arrow: true}
	}
	return Member{Base: base, Field: expr.Name}
}

func (g *Generator) isProperty(class *semantic.ClassType, name string) bool {
	for c := class; c != nil; c = c.Super {
		if c.Decl == nil {
			continue
		}
		for _, m := range c.Decl.Members {
			if prop, ok := m.(*ast.PropertyMember); ok && prop.Name == name {
				return true
			}
		}
	}
	return false
}

func classOfExprType(t ast.Type) (*semantic.ClassType, bool) {
	switch v := t.(type) {
	case *semantic.ClassType:
		return v, true
	case *semantic.PointerType:
		return classOfExprType(v.Pointee)
	default:
		return nil, false
	}
}

func (g *Generator) lowerCall(expr *ast.Call) Expr {
	if member, ok := expr.Target.(*ast.Member); ok {
		if class, ok := classOfExprType(member.Base.Type()); ok {
			base := g.lowerExpr(member.Base)
			args := append([]Expr{base}, g.lowerArgs(expr.Args)...)
			if g.isVirtualSlot(class, member.Name) {
				// self->__vtable is declared void* (lowerClassStruct);
				// cast it to the call site's own static class's _VTable*
				// so the field access resolves against a _VTable type
				// that declares member.Name, even when class overrides or
				// extends the slot set below the root.
				vtable := Cast{
					To:    PointerType{Pointee: StructRefType{Name: class.Name + "_VTable"}},
					Value: Member{Base: base, Field: "__vtable", Arrow: true},
				}
				return Call{Target: Member{Base: vtable, Field: member.Name, Arrow: true}, Args: args}
			}
			return Call{Target: Var{Name: class.Name + "_" + member.Name}, Args: args}
		}
	}
	return Call{Target: g.lowerExpr(expr.Target), Args: g.lowerArgs(expr.Args)}
}

// isVirtualSlot reports whether name dispatches through __vtable: the
// nearest class in class's ancestor chain (class itself first) that
// declares name marks it virtual, override, or abstract (spec.md §4.6). A non-virtual method call stays a direct, statically
// resolved ClassName_methodName call.
func (g *Generator) isVirtualSlot(class *semantic.ClassType, name string) bool {
	for c := class; c != nil; c = c.Super {
		if m, ok := c.Methods[name]; ok {
			return m.IsVirtual || m.IsOverride || m.IsAbstract
		}
	}
	return false
}

func (g *Generator) lowerArgs(args []ast.Expr) []Expr {
	out := make([]Expr, len(args))
	for i, a := range args {
		out[i] = g.lowerExpr(a)
	}
	return out
}

// lowerBinary rewrites operator overloads to the matching dunder free
// function (spec.md §4.5: "a + b with a user type becomes
// ClassName_add(a, b)").
func (g *Generator) lowerBinary(expr *ast.Binary) Expr {
	if expr.Op == ast.Is || expr.Op == ast.As {
		if expr.Op == ast.Is {
			return Call{Target: Var{Name: "btrc_instanceof"}, Args: []Expr{g.lowerExpr(expr.Left)}}
		}
		return Cast{To: g.lowerType(expr.Type()), Value: g.lowerExpr(expr.Left)}
	}
	if class, ok := classOfExprType(expr.Left.Type()); ok {
		if name := binaryDunderFree(expr.Op); name != "" {
			return Call{Target: Var{Name: class.Name + "_" + name}, Args: []Expr{g.lowerExpr(expr.Left), g.lowerExpr(expr.Right)}}
		}
	}
	return BinOp{Op: expr.Op.String(), Left: g.lowerExpr(expr.Left), Right: g.lowerExpr(expr.Right)}
}

func binaryDunderFree(op ast.BinaryOp) string {
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

func (g *Generator) lowerUnary(expr *ast.Unary) Expr {
	if expr.Op == ast.Neg {
		if class, ok := classOfExprType(expr.Operand.Type()); ok {
			return Call{Target: Var{Name: class.Name + "___neg__"}, Args: []Expr{g.lowerExpr(expr.Operand)}}
		}
	}
	return UnaryOp{Op: expr.Op.String(), Operand: g.lowerExpr(expr.Operand), Postfix: expr.Postfix}
}

// lowerNew lowers `new T(args)` to `T_new(args)` (spec.md §4.5).
func (g *Generator) lowerNew(expr *ast.New) Expr {
	name := ast.TypeExprName(expr.ClassType)
	return Call{Target: Var{Name: name + "_new"}, Args: g.lowerArgs(expr.Args)}
}

// lowerDelete lowers `delete e` to a release call that decrements the
// reference count and destroys the object once it reaches zero
// (spec.md §4.5).
func (g *Generator) lowerDelete(expr *ast.Delete) Expr {
	g.mod.RequireHelper("arc")
	return Call{Target: Var{Name: "btrc_release"}, Args: []Expr{g.lowerExpr(expr.Value)}}
}

// lowerFString lowers an f-string to a single btrc_format call whose
// format string joins the text chunks and one conversion per expression
// chunk, with the expression values as the remaining arguments; the call's
// value is the heap-allocated result string. No fixed-size buffer and no
// preceding statements are emitted.
func (g *Generator) lowerFString(expr *ast.FString) Expr {
	g.mod.RequireHelper("strings")
	args := []Expr{}
	format := ""
	for _, c := range expr.Chunks {
		switch chunk := c.(type) {
		case *ast.TextChunk:
			format += chunk.Text
		case *ast.ExprChunk:
			format += "%" + fstringSpecifier(chunk)
			args = append(args, g.lowerExpr(chunk.Value))
		}
	}
	call := Call{Target: Var{Name: "btrc_format"}, Args: append([]Expr{Literal{Text: strconv.Quote(format)}}, args...)}
	return call
}

func fstringSpecifier(c *ast.ExprChunk) string {
	if c.Format != "" {
		return c.Format
	}
	switch c.Value.Type().(type) {
	case semantic.Primitive:
		switch c.Value.Type().(semantic.Primitive) {
		case semantic.TFloat, semantic.TDouble:
			return "f"
		case semantic.TString:
			return "s"
		case semantic.TChar:
			return "c"
		}
	}
	return "d"
}
