package semantic

import (
	"github.com/schiffy91/btrc/internal/ast"
	"github.com/schiffy91/btrc/internal/token"
)

// resolveType maps a syntactic TypeExpr produced by the parser to its
// resolved semantic Type, looking up class/interface/enum/struct/typedef
// names against the registries pass 1 built. An unknown name resolves to
// ast.ErrorTypeValue with a diagnostic, per spec.md §7's failure semantics
// (downstream analysis treats it as valid rather than cascading).
func (a *Analyzer) resolveType(t ast.TypeExpr) ast.Type {
	switch texpr := t.(type) {
	case nil:
		return primitives["void"]
	case *ast.PrimitiveType:
		if texpr.Name == "var" {
			return primitives["void"]
		}
		if p, ok := primitives[texpr.Name]; ok {
			return p
		}
		return a.resolveNamedType(texpr.Name, texpr.Pos())
	case *ast.GenericType:
		args := make([]ast.Type, len(texpr.Args))
		for i, arg := range texpr.Args {
			args[i] = a.resolveType(arg)
		}
		generic, ok := a.classes[texpr.Name]
		if !ok {
			a.errorf(texpr.Pos(), "unknown generic type %q", texpr.Name)
			return ast.ErrorTypeValue
		}
		gi := &GenericInstance{Generic: generic, Args: args}
		if existing, ok := a.generics[gi.Key()]; ok {
			return existing
		}
		a.generics[gi.Key()] = gi
		return gi
	case *ast.PointerType:
		return &PointerType{Pointee: a.resolveType(texpr.Pointee)}
	case *ast.NullableType:
		return &NullableType{Base: a.resolveType(texpr.Base)}
	case *ast.FuncType:
		params := make([]ast.Type, len(texpr.Params))
		for i, p := range texpr.Params {
			params[i] = a.resolveType(p)
		}
		return &FuncType{Params: params, Result: a.resolveType(texpr.Result)}
	case *ast.TupleType:
		elems := make([]ast.Type, len(texpr.Elements))
		for i, e := range texpr.Elements {
			elems[i] = a.resolveType(e)
		}
		return &TupleType{Elements: elems}
	default:
		return ast.ErrorTypeValue
	}
}

func (a *Analyzer) resolveNamedType(name string, pos token.Position) ast.Type {
	if a.typeParams[name] {
		return TypeParamType{Name: name}
	}
	if name == "mutex" {
		return &MutexType{}
	}
	if c, ok := a.classes[name]; ok {
		return c
	}
	if i, ok := a.interfaces[name]; ok {
		return i
	}
	if e, ok := a.enums[name]; ok {
		return e
	}
	if s, ok := a.structs[name]; ok {
		return s
	}
	if td, ok := a.typedefs[name]; ok {
		return td
	}
	a.errorf(pos, "unknown type %q", name)
	return ast.ErrorTypeValue
}
