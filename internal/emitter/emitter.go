// Package emitter implements the C Emitter stage (spec.md §4.7): a
// deterministic recursive walk over an ir.Module that renders exactly one
// textual form per node, never inspecting semantic types and never
// rewriting structure (all of that already happened in the IR Generator).
//
// The walk is adapted from go-dws's Disassembler
// (_examples/CWBudde-go-dws/internal/bytecode/disasm.go): an io.Writer-
// targeted renderer with one method per node shape, switching on type
// rather than interpreting a flat instruction stream, since the IR here is
// already a tree.
package emitter

import (
	"fmt"
	"io"
	"strings"

	"github.com/schiffy91/btrc/internal/helpers"
	"github.com/schiffy91/btrc/internal/ir"
)

// Emitter renders one ir.Module to a single C translation unit.
type Emitter struct {
	w   io.Writer
	mod *ir.Module
}

func New(w io.Writer, mod *ir.Module) *Emitter { return &Emitter{w: w, mod: mod} }

// Emit writes the module in the order spec.md §4.7 fixes: preamble
// includes, helper fragments for live categories, type declarations,
// function prototypes, type definitions, function definitions.
func (e *Emitter) Emit() error {
	live := helpers.Closure(e.mod.Helpers)

	e.writeIncludes(live)
	e.writeHelperFragments(live)
	e.writeTypeDeclarations()
	e.writeFunctionPrototypes()
	e.writeTypeDefinitions()
	e.writeGlobals()
	e.writeFunctionDefinitions()
	return nil
}

func (e *Emitter) printf(format string, args ...any) { fmt.Fprintf(e.w, format, args...) }

func (e *Emitter) writeIncludes(live []string) {
	e.printf("#include <stdio.h>\n")
	e.printf("#include <stdlib.h>\n")
	e.printf("#include <string.h>\n")
	needsVarargs := false
	needsJmp := false
	needsThread := false
	for _, cat := range live {
		switch cat {
		case "strings":
			needsVarargs = true
		case "trycatch":
			needsJmp = true
		case "thread":
			needsThread = true
		}
	}
	if needsVarargs {
		e.printf("#include <stdarg.h>\n")
	}
	if needsJmp {
		e.printf("#include <setjmp.h>\n")
	}
	if needsThread {
		e.printf("#ifndef _WIN32\n#include <pthread.h>\n#endif\n")
	}
	e.printf("\n")
}

func (e *Emitter) writeHelperFragments(live []string) {
	if len(live) == 0 {
		return
	}
	e.printf("/* -- helper fragments: %s -- */\n", strings.Join(live, ", "))
	e.printf("%s\n", helpers.Render(live))
}

// writeTypeDeclarations forward-declares every struct name so mutually
// referencing structs (e.g. a class field pointing back to its own vtable
// struct) compile regardless of emission order.
func (e *Emitter) writeTypeDeclarations() {
	for _, s := range e.mod.Structs {
		e.printf("typedef struct %s %s;\n", s.Name, s.Name)
	}
	for _, td := range e.mod.Typedefs {
		e.printf("typedef %s;\n", e.renderDecl(td.Aliased, td.Name))
	}
	e.printf("\n")
}

func (e *Emitter) writeFunctionPrototypes() {
	for _, ext := range e.mod.Externs {
		params := make([]string, len(ext.Params))
		for i, p := range ext.Params {
			params[i] = e.renderType(p)
		}
		e.printf("extern %s %s(%s);\n", e.renderType(ext.Result), ext.Name, strings.Join(params, ", "))
	}
	for _, proto := range e.mod.Prototypes {
		e.printf("%s;\n", e.renderProtoHeader(proto))
	}
	e.printf("\n")
}

func (e *Emitter) writeTypeDefinitions() {
	for _, s := range e.mod.Structs {
		e.printf("struct %s {\n", s.Name)
		for _, f := range s.Fields {
			e.printf("    %s;\n", e.renderDecl(f.Type, f.Name))
		}
		e.printf("};\n\n")
	}
}

// writeGlobals renders each vtable singleton as a real static struct
// instance (not a function), so taking its address elsewhere in the module
// yields a genuine pointer to a populated VTable struct rather than a
// function pointer. Placed after writeTypeDefinitions (the VTable struct
// layouts must be complete) and before writeFunctionDefinitions (a global
// initializer referencing a method by name only needs its prototype, which
// writeFunctionPrototypes already emitted).
func (e *Emitter) writeGlobals() {
	for _, g := range e.mod.Globals {
		if g.Init == nil {
			e.printf("static %s;\n", e.renderDecl(g.Type, g.Name))
			continue
		}
		e.printf("static %s = %s;\n", e.renderDecl(g.Type, g.Name), e.renderExpr(g.Init))
	}
	if len(e.mod.Globals) > 0 {
		e.printf("\n")
	}
}

func (e *Emitter) writeFunctionDefinitions() {
	for _, fn := range e.mod.Functions {
		e.printf("%s {\n", e.renderProtoHeader(fn.Proto))
		for _, s := range fn.Body {
			e.writeStmt(s, 1)
		}
		e.printf("}\n\n")
	}
}

func (e *Emitter) renderProtoHeader(proto *ir.FuncProto) string {
	params := make([]string, len(proto.Params))
	for i, p := range proto.Params {
		params[i] = e.renderDecl(p.Type, p.Name)
	}
	if len(params) == 0 {
		params = []string{"void"}
	}
	prefix := ""
	if proto.Static {
		prefix = "static "
	}
	return fmt.Sprintf("%s%s %s(%s)", prefix, e.renderType(proto.Result), proto.Name, strings.Join(params, ", "))
}

// renderType renders a Type in prefix position (e.g. for a cast or a
// standalone declarator-less context); renderDecl renders a Type together
// with the identifier it qualifies, since C's declarator syntax interleaves
// the two for function-pointer and array types.
func (e *Emitter) renderType(t ir.Type) string {
	switch v := t.(type) {
	case nil:
		return "void"
	case ir.PrimitiveType:
		return v.Name
	case ir.PointerType:
		return e.renderType(v.Pointee) + " *"
	case ir.StructRefType:
		return v.Name
	case ir.FuncPtrType:
		params := make([]string, len(v.Params))
		for i, p := range v.Params {
			params[i] = e.renderType(p)
		}
		return fmt.Sprintf("%s (*)(%s)", e.renderType(v.Result), strings.Join(params, ", "))
	default:
		return "void"
	}
}

func (e *Emitter) renderDecl(t ir.Type, name string) string {
	if fp, ok := t.(ir.FuncPtrType); ok {
		params := make([]string, len(fp.Params))
		for i, p := range fp.Params {
			params[i] = e.renderType(p)
		}
		return fmt.Sprintf("%s (*%s)(%s)", e.renderType(fp.Result), name, strings.Join(params, ", "))
	}
	return e.renderType(t) + " " + name
}

func (e *Emitter) indent(depth int) { e.printf("%s", strings.Repeat("    ", depth)) }

func (e *Emitter) writeStmt(s ir.Stmt, depth int) {
	e.indent(depth)
	switch st := s.(type) {
	case *ir.VarDecl:
		if st.Init != nil {
			e.printf("%s = %s;\n", e.renderDecl(st.Type, st.Name), e.renderExpr(st.Init))
		} else {
			e.printf("%s;\n", e.renderDecl(st.Type, st.Name))
		}
	case *ir.Assign:
		e.printf("%s = %s;\n", e.renderExpr(st.Target), e.renderExpr(st.Value))
	case *ir.ExprStmt:
		e.printf("%s;\n", e.renderExpr(st.Value))
	case *ir.If:
		e.printf("if (%s) {\n", e.renderExpr(st.Cond))
		for _, body := range st.ThenBody {
			e.writeStmt(body, depth+1)
		}
		e.indent(depth)
		if len(st.ElseBody) > 0 {
			e.printf("} else {\n")
			for _, body := range st.ElseBody {
				e.writeStmt(body, depth+1)
			}
			e.indent(depth)
		}
		e.printf("}\n")
	case *ir.For:
		e.printf("for (%s; %s; %s) {\n", e.renderInlineStmt(st.Init), e.renderOptExpr(st.Cond), e.renderInlineStmt(st.Post))
		for _, body := range st.Body {
			e.writeStmt(body, depth+1)
		}
		e.indent(depth)
		e.printf("}\n")
	case *ir.While:
		e.printf("while (%s) {\n", e.renderExpr(st.Cond))
		for _, body := range st.Body {
			e.writeStmt(body, depth+1)
		}
		e.indent(depth)
		e.printf("}\n")
	case *ir.DoWhile:
		e.printf("do {\n")
		for _, body := range st.Body {
			e.writeStmt(body, depth+1)
		}
		e.indent(depth)
		e.printf("} while (%s);\n", e.renderExpr(st.Cond))
	case *ir.Switch:
		e.printf("switch (%s) {\n", e.renderExpr(st.Subject))
		for _, c := range st.Cases {
			for _, v := range c.Values {
				e.indent(depth + 1)
				e.printf("case %s:\n", e.renderExpr(v))
			}
			for _, body := range c.Body {
				e.writeStmt(body, depth+2)
			}
			e.indent(depth + 2)
			e.printf("break;\n")
		}
		if len(st.DefaultBody) > 0 {
			e.indent(depth + 1)
			e.printf("default:\n")
			for _, body := range st.DefaultBody {
				e.writeStmt(body, depth+2)
			}
			e.indent(depth + 2)
			e.printf("break;\n")
		}
		e.indent(depth)
		e.printf("}\n")
	case *ir.Return:
		if st.Value == nil {
			e.printf("return;\n")
		} else {
			e.printf("return %s;\n", e.renderExpr(st.Value))
		}
	case *ir.Break:
		e.printf("break;\n")
	case *ir.Continue:
		e.printf("continue;\n")
	case *ir.Block:
		e.printf("{\n")
		for _, body := range st.Body {
			e.writeStmt(body, depth+1)
		}
		e.indent(depth)
		e.printf("}\n")
	case *ir.RawC:
		e.printf("%s\n", st.Text)
	case *ir.Spawn:
		e.printf("btrc_spawn(%s, %s);\n", st.Trampoline, e.renderExpr(st.Args))
	default:
		e.printf("/* unknown statement */\n")
	}
}

// renderInlineStmt renders a for-loop's init/post clause without its
// trailing semicolon or indentation, since C's for-header packs all three
// clauses onto one line.
func (e *Emitter) renderInlineStmt(s ir.Stmt) string {
	switch st := s.(type) {
	case nil:
		return ""
	case *ir.VarDecl:
		if st.Init != nil {
			return fmt.Sprintf("%s = %s", e.renderDecl(st.Type, st.Name), e.renderExpr(st.Init))
		}
		return e.renderDecl(st.Type, st.Name)
	case *ir.Assign:
		return fmt.Sprintf("%s = %s", e.renderExpr(st.Target), e.renderExpr(st.Value))
	case *ir.ExprStmt:
		return e.renderExpr(st.Value)
	default:
		return ""
	}
}

func (e *Emitter) renderOptExpr(expr ir.Expr) string {
	if expr == nil {
		return ""
	}
	return e.renderExpr(expr)
}

func (e *Emitter) renderExpr(expr ir.Expr) string {
	switch v := expr.(type) {
	case ir.BinOp:
		return fmt.Sprintf("(%s %s %s)", e.renderExpr(v.Left), v.Op, e.renderExpr(v.Right))
	case ir.UnaryOp:
		if v.Postfix {
			return fmt.Sprintf("(%s%s)", e.renderExpr(v.Operand), v.Op)
		}
		return fmt.Sprintf("(%s%s)", v.Op, e.renderExpr(v.Operand))
	case ir.Call:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = e.renderExpr(a)
		}
		return fmt.Sprintf("%s(%s)", e.renderExpr(v.Target), strings.Join(args, ", "))
	case ir.Member:
		if v.Arrow {
			return fmt.Sprintf("%s->%s", e.renderExpr(v.Base), v.Field)
		}
		return fmt.Sprintf("%s.%s", e.renderExpr(v.Base), v.Field)
	case ir.Index:
		return fmt.Sprintf("%s[%s]", e.renderExpr(v.Base), e.renderExpr(v.Index))
	case ir.Cast:
		// Outer parens (beyond the cast's own) so a postfix operator applied
		// to the cast result (e.g. the vtable-pointer cast in a virtual
		// call, Member{Arrow:true} over a Cast base) binds to the whole
		// cast rather than to Value alone.
		return fmt.Sprintf("((%s)(%s))", e.renderType(v.To), e.renderExpr(v.Value))
	case ir.Literal:
		return v.Text
	case ir.Var:
		return v.Name
	case ir.Sizeof:
		return fmt.Sprintf("sizeof(%s)", e.renderType(v.Of))
	case ir.Ternary:
		return fmt.Sprintf("(%s ? %s : %s)", e.renderExpr(v.Cond), e.renderExpr(v.Then), e.renderExpr(v.Else))
	case ir.Compound:
		fields := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = fmt.Sprintf(".%s = %s", f.Name, e.renderExpr(f.Value))
		}
		return fmt.Sprintf("(%s){ %s }", e.renderType(v.Of), strings.Join(fields, ", "))
	default:
		return "0"
	}
}
