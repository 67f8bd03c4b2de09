package semantic

import "github.com/schiffy91/btrc/internal/ast"

var numericRank = map[Primitive]int{
	TChar: 0, TInt: 1, TFloat: 2, TDouble: 3,
}

func isNumeric(t ast.Type) bool {
	p, ok := t.(Primitive)
	if !ok {
		return false
	}
	_, ok = numericRank[p]
	return ok
}

// widen returns the common numeric type of a binary operation's operands,
// promoting to the wider of the two ranks (spec.md §4.6 numeric
// conversions: char -> int -> float -> double).
func widen(a, b ast.Type) ast.Type {
	pa, aok := a.(Primitive)
	pb, bok := b.(Primitive)
	if !aok || !bok {
		return a
	}
	if numericRank[pa] >= numericRank[pb] {
		return pa
	}
	return pb
}

// assignableTo reports whether a value of type from can be used where a
// value of type to is expected, applying spec.md §4.4's implicit
// conversions: numeric widening, T -> T?, derived-pointer -> base-pointer
// (including a derived class value to a base class, since class values are
// pointers in the emitted C), and null -> any nullable or pointer type.
func (a *Analyzer) assignableTo(from, to ast.Type) bool {
	if from == nil || to == nil {
		return true
	}
	if sameType(from, to) {
		return true
	}
	if _, isNull := from.(nullType); isNull {
		switch to.(type) {
		case *NullableType, *PointerType:
			return true
		}
		return false
	}
	if toNullable, ok := to.(*NullableType); ok {
		return a.assignableTo(from, toNullable.Base)
	}
	if fromPtr, ok := from.(*PointerType); ok {
		if toPtr, ok := to.(*PointerType); ok {
			fromClass, fok := fromPtr.Pointee.(*ClassType)
			toClass, tok := toPtr.Pointee.(*ClassType)
			if fok && tok {
				return fromClass.IsSubclassOf(toClass)
			}
			return sameType(fromPtr.Pointee, toPtr.Pointee)
		}
	}
	if fromClass, ok := from.(*ClassType); ok {
		if toClass, ok := to.(*ClassType); ok {
			return fromClass.IsSubclassOf(toClass)
		}
	}
	if isNumeric(from) && isNumeric(to) {
		return numericRank[to.(Primitive)] >= numericRank[from.(Primitive)]
	}
	return false
}

// unify returns a type both a and b can convert to, used for ternary and
// null-coalesce expressions; it widens numerics and otherwise falls back
// to the left operand's type when no common supertype is evident.
func (an *Analyzer) unify(a, b ast.Type) ast.Type {
	if sameType(a, b) {
		return a
	}
	if isNumeric(a) && isNumeric(b) {
		return widen(a, b)
	}
	if an.assignableTo(b, a) {
		return a
	}
	if an.assignableTo(a, b) {
		return b
	}
	return a
}
