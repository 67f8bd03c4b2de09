package ast

import "github.com/schiffy91/btrc/internal/token"

// UnaryOp is the operator of a Unary expression. Pre/Post increment and
// decrement are distinct operators rather than Neg/postfix combinations
// because their lowering (spec.md §5: IR generation) differs from the
// arithmetic unary operators.
type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
	BitNot
	PreInc
	PreDec
	PostInc
	PostDec
)

func (op UnaryOp) String() string {
	switch op {
	case Neg:
		return "-"
	case Not:
		return "!"
	case BitNot:
		return "~"
	case PreInc, PostInc:
		return "++"
	case PreDec, PostDec:
		return "--"
	}
	return "?"
}

// BinaryOp is the operator of a Binary expression.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Shl
	Shr
	BitAnd
	BitOr
	BitXor
	Lt
	Gt
	Le
	Ge
	Eq
	Ne
	LogAnd
	LogOr
	Is
	As
)

func (op BinaryOp) String() string {
	names := map[BinaryOp]string{
		Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
		Shl: "<<", Shr: ">>", BitAnd: "&", BitOr: "|", BitXor: "^",
		Lt: "<", Gt: ">", Le: "<=", Ge: ">=", Eq: "==", Ne: "!=",
		LogAnd: "&&", LogOr: "||", Is: "is", As: "as",
	}
	if s, ok := names[op]; ok {
		return s
	}
	return "?"
}

// OverloadableOps lists the binary operators a class can overload by
// declaring the matching dunder-named method (__add__, __eq__, ..., see
// semantic's dunderName); each comparison is its own method. Compound
// assignments such as `+=` do not dispatch to these methods.
var OverloadableOps = []BinaryOp{Add, Sub, Mul, Div, Mod, Eq, Ne, Lt, Gt, Le, Ge}

type IntLiteral struct {
	baseExpr
	pos   token.Position
	Value int64
}

func NewIntLiteral(pos token.Position, value int64) *IntLiteral {
	return &IntLiteral{pos: pos, Value: value}
}
func (e *IntLiteral) Pos() token.Position { return e.pos }
func (e *IntLiteral) String() string      { return "intlit" }

type FloatLiteral struct {
	baseExpr
	pos   token.Position
	Value float64
}

func NewFloatLiteral(pos token.Position, value float64) *FloatLiteral {
	return &FloatLiteral{pos: pos, Value: value}
}
func (e *FloatLiteral) Pos() token.Position { return e.pos }
func (e *FloatLiteral) String() string      { return "floatlit" }

type CharLiteral struct {
	baseExpr
	pos   token.Position
	Value int32
}

func NewCharLiteral(pos token.Position, value int32) *CharLiteral {
	return &CharLiteral{pos: pos, Value: value}
}
func (e *CharLiteral) Pos() token.Position { return e.pos }
func (e *CharLiteral) String() string      { return "charlit" }

type StringLiteral struct {
	baseExpr
	pos   token.Position
	Value string
}

func NewStringLiteral(pos token.Position, value string) *StringLiteral {
	return &StringLiteral{pos: pos, Value: value}
}
func (e *StringLiteral) Pos() token.Position { return e.pos }
func (e *StringLiteral) String() string      { return "strlit" }

type BoolLiteral struct {
	baseExpr
	pos   token.Position
	Value bool
}

func NewBoolLiteral(pos token.Position, value bool) *BoolLiteral {
	return &BoolLiteral{pos: pos, Value: value}
}
func (e *BoolLiteral) Pos() token.Position { return e.pos }
func (e *BoolLiteral) String() string      { return "boollit" }

type NullLiteral struct {
	baseExpr
	pos token.Position
}

func NewNullLiteral(pos token.Position) *NullLiteral { return &NullLiteral{pos: pos} }
func (e *NullLiteral) Pos() token.Position           { return e.pos }
func (e *NullLiteral) String() string                { return "null" }

type Ident struct {
	baseExpr
	pos  token.Position
	Name string
}

func NewIdent(pos token.Position, name string) *Ident { return &Ident{pos: pos, Name: name} }
func (e *Ident) Pos() token.Position                  { return e.pos }
func (e *Ident) String() string                       { return e.Name }

// Member is a `.` access; Optional marks `?.` null-conditional access
// (spec.md §4.6 nullable types).
type Member struct {
	baseExpr
	pos      token.Position
	Base     Expr
	Name     string
	Optional bool
}

func NewMember(pos token.Position, base Expr, name string, optional bool) *Member {
	return &Member{pos: pos, Base: base, Name: name, Optional: optional}
}
func (e *Member) Pos() token.Position { return e.pos }
func (e *Member) String() string      { return "member ." + e.Name }

// Arrow is a `->` access on an explicit pointer receiver.
type Arrow struct {
	baseExpr
	pos  token.Position
	Base Expr
	Name string
}

func NewArrow(pos token.Position, base Expr, name string) *Arrow {
	return &Arrow{pos: pos, Base: base, Name: name}
}
func (e *Arrow) Pos() token.Position { return e.pos }
func (e *Arrow) String() string      { return "arrow ->" + e.Name }

type Index struct {
	baseExpr
	pos   token.Position
	Base  Expr
	Index Expr
}

func NewIndex(pos token.Position, base, index Expr) *Index {
	return &Index{pos: pos, Base: base, Index: index}
}
func (e *Index) Pos() token.Position { return e.pos }
func (e *Index) String() string      { return "index" }

type Call struct {
	baseExpr
	pos    token.Position
	Target Expr
	Args   []Expr
}

func NewCall(pos token.Position, target Expr, args []Expr) *Call {
	return &Call{pos: pos, Target: target, Args: args}
}
func (e *Call) Pos() token.Position { return e.pos }
func (e *Call) String() string      { return "call" }

type Unary struct {
	baseExpr
	pos     token.Position
	Op      UnaryOp
	Operand Expr
	Postfix bool
}

func NewUnary(pos token.Position, op UnaryOp, operand Expr, postfix bool) *Unary {
	return &Unary{pos: pos, Op: op, Operand: operand, Postfix: postfix}
}
func (e *Unary) Pos() token.Position { return e.pos }
func (e *Unary) String() string      { return "unary " + e.Op.String() }

type Binary struct {
	baseExpr
	pos   token.Position
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func NewBinary(pos token.Position, op BinaryOp, left, right Expr) *Binary {
	return &Binary{pos: pos, Op: op, Left: left, Right: right}
}
func (e *Binary) Pos() token.Position { return e.pos }
func (e *Binary) String() string      { return "binary " + e.Op.String() }

type Ternary struct {
	baseExpr
	pos                token.Position
	Cond               Expr
	ThenExpr, ElseExpr Expr
}

func NewTernary(pos token.Position, cond, thenExpr, elseExpr Expr) *Ternary {
	return &Ternary{pos: pos, Cond: cond, ThenExpr: thenExpr, ElseExpr: elseExpr}
}
func (e *Ternary) Pos() token.Position { return e.pos }
func (e *Ternary) String() string      { return "ternary" }

type Cast struct {
	baseExpr
	pos        token.Position
	TargetType TypeExpr
	Value      Expr
}

func NewCast(pos token.Position, targetType TypeExpr, value Expr) *Cast {
	return &Cast{pos: pos, TargetType: targetType, Value: value}
}
func (e *Cast) Pos() token.Position { return e.pos }
func (e *Cast) String() string      { return "cast" }

type SizeofExpr struct {
	baseExpr
	pos     token.Position
	Operand TypeExpr
}

func NewSizeofExpr(pos token.Position, operand TypeExpr) *SizeofExpr {
	return &SizeofExpr{pos: pos, Operand: operand}
}
func (e *SizeofExpr) Pos() token.Position { return e.pos }
func (e *SizeofExpr) String() string      { return "sizeof" }

type New struct {
	baseExpr
	pos       token.Position
	ClassType TypeExpr
	Args      []Expr
}

func NewNew(pos token.Position, classType TypeExpr, args []Expr) *New {
	return &New{pos: pos, ClassType: classType, Args: args}
}
func (e *New) Pos() token.Position { return e.pos }
func (e *New) String() string      { return "new" }

type Delete struct {
	baseExpr
	pos   token.Position
	Value Expr
}

func NewDelete(pos token.Position, value Expr) *Delete {
	return &Delete{pos: pos, Value: value}
}
func (e *Delete) Pos() token.Position { return e.pos }
func (e *Delete) String() string      { return "delete" }

// LambdaExpr supports both block-bodied and expression-bodied forms
// (spec.md §4.7); IsExprBody selects which one Body holds (a single
// implicit-return ExprStmt when true).
type LambdaExpr struct {
	baseExpr
	pos        token.Position
	Params     []Param
	ReturnType TypeExpr
	Body       []Stmt
	IsExprBody bool
}

func NewLambdaExpr(pos token.Position, params []Param, returnType TypeExpr, body []Stmt, isExprBody bool) *LambdaExpr {
	return &LambdaExpr{pos: pos, Params: params, ReturnType: returnType, Body: body, IsExprBody: isExprBody}
}
func (e *LambdaExpr) Pos() token.Position { return e.pos }
func (e *LambdaExpr) String() string      { return "lambda" }

type FStringChunk interface {
	Node
	fstringChunkNode()
}

type baseChunk struct{ pos token.Position }

func (b *baseChunk) Pos() token.Position { return b.pos }
func (b *baseChunk) fstringChunkNode()   {}

type TextChunk struct {
	baseChunk
	Text string
}

func NewTextChunk(pos token.Position, text string) *TextChunk {
	return &TextChunk{baseChunk{pos}, text}
}
func (c *TextChunk) String() string { return c.Text }

type ExprChunk struct {
	baseChunk
	Value  Expr
	Format string
}

func NewExprChunk(pos token.Position, value Expr, format string) *ExprChunk {
	return &ExprChunk{baseChunk{pos}, value, format}
}
func (c *ExprChunk) String() string { return "{expr}" }

type FString struct {
	baseExpr
	pos    token.Position
	Chunks []FStringChunk
}

func NewFString(pos token.Position, chunks []FStringChunk) *FString {
	return &FString{pos: pos, Chunks: chunks}
}
func (e *FString) Pos() token.Position { return e.pos }
func (e *FString) String() string      { return "fstring" }

type TupleExpr struct {
	baseExpr
	pos      token.Position
	Elements []Expr
}

func NewTupleExpr(pos token.Position, elements []Expr) *TupleExpr {
	return &TupleExpr{pos: pos, Elements: elements}
}
func (e *TupleExpr) Pos() token.Position { return e.pos }
func (e *TupleExpr) String() string      { return "tupleexpr" }

// TuplePattern is the destructuring-assignment target `(a, b) = f()`
// (spec.md §4.8: tuples).
type TuplePattern struct {
	baseExpr
	pos      token.Position
	Bindings []string
	Value    Expr
}

func NewTuplePattern(pos token.Position, bindings []string, value Expr) *TuplePattern {
	return &TuplePattern{pos: pos, Bindings: bindings, Value: value}
}
func (e *TuplePattern) Pos() token.Position { return e.pos }
func (e *TuplePattern) String() string      { return "tuplepattern" }

type RangeExpr struct {
	baseExpr
	pos      token.Position
	Lo, Hi   Expr
	Step     Expr
}

func NewRangeExpr(pos token.Position, lo, hi, step Expr) *RangeExpr {
	return &RangeExpr{pos: pos, Lo: lo, Hi: hi, Step: step}
}
func (e *RangeExpr) Pos() token.Position { return e.pos }
func (e *RangeExpr) String() string      { return "range" }

type NullCoalesce struct {
	baseExpr
	pos      token.Position
	Lhs, Rhs Expr
}

func NewNullCoalesce(pos token.Position, lhs, rhs Expr) *NullCoalesce {
	return &NullCoalesce{pos: pos, Lhs: lhs, Rhs: rhs}
}
func (e *NullCoalesce) Pos() token.Position { return e.pos }
func (e *NullCoalesce) String() string      { return "??" }
