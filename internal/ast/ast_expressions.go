package ast

// Literal expressions. The `number` transform (package transform)
// produces F64Literal nodes when substituting a constant for a free
// variable occurrence (spec §4.C).
type (
	F64Literal  struct {
		Src   SourceRange
		Value float64
	}
	BoolLiteral struct {
		Src   SourceRange
		Value bool
	}
	TextLiteral struct {
		Src   SourceRange
		Value string
	}
)

func (l *F64Literal) Range() SourceRange  { return l.Src }
func (l *F64Literal) Accept(v Visitor)    { v.VisitF64Literal(l) }
func (*F64Literal) expressionNode()        {}
func (l *BoolLiteral) Range() SourceRange { return l.Src }
func (l *BoolLiteral) Accept(v Visitor)   { v.VisitBoolLiteral(l) }
func (*BoolLiteral) expressionNode()       {}
func (l *TextLiteral) Range() SourceRange { return l.Src }
func (l *TextLiteral) Accept(v Visitor)   { v.VisitTextLiteral(l) }
func (*TextLiteral) expressionNode()       {}

// Vec4Lit is a `(x, y, z, w)` literal with 1 to 4 component
// expressions; missing trailing components default to 0 at evaluation
// time. len(Comps) becomes the resulting Vec4's Arity, which drives the
// writer's single-component trailing-comma rule (SPEC_FULL.md
// "Supplemented features" #1).
type Vec4Lit struct {
	Src   SourceRange
	Comps []Expression // len 1..4
}

func (l *Vec4Lit) Range() SourceRange { return l.Src }
func (l *Vec4Lit) Accept(v Visitor)   { v.VisitVec4Lit(l) }
func (*Vec4Lit) expressionNode()       {}

// Mat4Lit is a 4x4 matrix literal, row-major, 16 component expressions.
type Mat4Lit struct {
	Src   SourceRange
	Comps [16]Expression
}

func (l *Mat4Lit) Range() SourceRange { return l.Src }
func (l *Mat4Lit) Accept(v Visitor)   { v.VisitMat4Lit(l) }
func (*Mat4Lit) expressionNode()       {}

// Swizzle selects and reorders up to 4 components of a Vec4 expression
// by name (x/y/z/w), e.g. `xy v`, `zyx v`. SelectedComponents holds the
// 0-3 source indices in output order (length 1..4). Evaluated standalone
// it produces a Vec4 whose arity is len(SelectedComponents); evaluated
// directly as a Call argument it instead expands into that many
// separate F64 arguments (spec §4.E "CallArg ... swizzle expansion",
// §8 end-to-end scenario 4).
type Swizzle struct {
	Src                SourceRange
	SelectedComponents  []int // each in [0,3]
	Expr               Expression
}

func (s *Swizzle) Range() SourceRange { return s.Src }
func (s *Swizzle) Accept(v Visitor)   { v.VisitSwizzle(s) }
func (*Swizzle) expressionNode()       {}

// Norm is the vec4 norm operator `|v|`.
type Norm struct {
	Src  SourceRange
	Expr Expression
}

func (n *Norm) Range() SourceRange { return n.Src }
func (n *Norm) Accept(v Visitor)   { v.VisitNorm(n) }
func (*Norm) expressionNode()       {}

// BinOpKind enumerates arithmetic/boolean binary operators.
type BinOpKind int

const (
	BinAdd BinOpKind = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinPow
	BinDot // vec4 dot product written `.`
	BinAnd
	BinOr
)

func (op BinOpKind) String() string {
	return [...]string{"+", "-", "*", "/", "%", "^", ".", "&&", "||"}[op]
}

// BinOp is a binary arithmetic/boolean expression.
type BinOp struct {
	Src         SourceRange
	Op          BinOpKind
	Left, Right Expression
}

func (b *BinOp) Range() SourceRange { return b.Src }
func (b *BinOp) Accept(v Visitor)   { v.VisitBinOp(b) }
func (*BinOp) expressionNode()       {}

// CompareOp enumerates comparison operators.
type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

func (op CompareOp) String() string {
	return [...]string{"==", "!=", "<", "<=", ">", ">="}[op]
}

// Compare is a comparison expression; result type is Bool, or
// Secret(Bool) when the left operand is secret (spec §4.E "Compare").
type Compare struct {
	Src         SourceRange
	Op          CompareOp
	Left, Right Expression
}

func (c *Compare) Range() SourceRange { return c.Src }
func (c *Compare) Accept(v Visitor)   { v.VisitCompare(c) }
func (*Compare) expressionNode()       {}

// UnOpKind enumerates unary operators.
type UnOpKind int

const (
	UnNeg UnOpKind = iota
	UnNot
)

// UnOp is a unary expression: numeric negation or boolean not.
type UnOp struct {
	Src  SourceRange
	Op   UnOpKind
	Expr Expression
}

func (u *UnOp) Range() SourceRange { return u.Src }
func (u *UnOp) Accept(v Visitor)   { v.VisitUnOp(u) }
func (*UnOp) expressionNode()       {}

// LinkLit is a `link { ... }` literal: each item is either a primitive
// expression or a nested accumulator loop (spec §3.2, §4.F.3 "link").
type LinkLit struct {
	Src   SourceRange
	Items []Expression
}

func (l *LinkLit) Range() SourceRange { return l.Src }
func (l *LinkLit) Accept(v Visitor)   { v.VisitLinkLit(l) }
func (*LinkLit) expressionNode()       {}

// ObjectEntry is one `key: value` pair in an ObjectLit.
type ObjectEntry struct {
	Key   string
	Value Expression
}

// ObjectLit is a `{ key: value, ... }` literal.
type ObjectLit struct {
	Src     SourceRange
	Entries []ObjectEntry
}

func (o *ObjectLit) Range() SourceRange { return o.Src }
func (o *ObjectLit) Accept(v Visitor)   { v.VisitObjectLit(o) }
func (*ObjectLit) expressionNode()       {}

// ArrayLit is a `[a, b, c]` literal.
type ArrayLit struct {
	Src   SourceRange
	Items []Expression
}

func (a *ArrayLit) Range() SourceRange { return a.Src }
func (a *ArrayLit) Accept(v Visitor)   { v.VisitArrayLit(a) }
func (*ArrayLit) expressionNode()       {}

// ArrayFill is `[fill; n]`: an array of n copies of fill.
type ArrayFill struct {
	Src  SourceRange
	Fill Expression
	N    Expression
}

func (a *ArrayFill) Range() SourceRange { return a.Src }
func (a *ArrayFill) Accept(v Visitor)   { v.VisitArrayFill(a) }
func (*ArrayFill) expressionNode()       {}
