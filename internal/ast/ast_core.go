// Package ast defines Dyon's expression tree (spec §3.4). Every node
// carries a SourceRange for error reporting; nodes with a resolved
// target (a call's target function index, an item's stack slot) cache
// it in an interior-mutable, single-assignment Cell: package lifetime
// fills Call.Resolved, and package runtime fills Item.ResolvedSlot on
// the item's first lookup.
//
// Source parsing is out of scope (spec §1): nothing in this package
// reads text. Callers — the lifetime checker's own tests, the runtime's
// tests, and any future parser — construct these nodes directly.
package ast

// SourceRange locates a node in its originating source text. It is
// opaque positional data: this package never interprets it, only
// carries it through to error messages.
type SourceRange struct {
	File        string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Node is the interface implemented by every AST node.
type Node interface {
	Range() SourceRange
	Accept(v Visitor)
}

// Expression is every node that produces a value (Dyon has no separate
// statement grammar: a Block is a sequence of expressions, and a
// statement is simply an expression whose value is discarded).
type Expression interface {
	Node
	expressionNode()
}

// Cell is an interior-mutable, single-assignment slot (spec §3.4
// "Resolved indices ... held in interior-mutable single-assignment
// cells"). A zero Cell is unresolved.
type Cell[T any] struct {
	value T
	set   bool
}

// Set fills the cell on its first call. Later calls are no-ops,
// whatever value they pass: the first value stays in place.
func (c *Cell[T]) Set(v T) {
	if !c.set {
		c.value, c.set = v, true
		return
	}
}

// Get returns the resolved value and whether the cell has been filled.
func (c *Cell[T]) Get() (T, bool) { return c.value, c.set }

// MustGet returns the resolved value, panicking if the cell was never
// filled.
func (c *Cell[T]) MustGet() T {
	if !c.set {
		panic("ast: Cell read before resolution")
	}
	return c.value
}

// Block is a sequence of expressions; its value and flow are those of
// its last expression (spec §4.E "Block/TrueBlock/...").
type Block struct {
	Src   SourceRange
	Exprs []Expression
}

func (b *Block) Range() SourceRange { return b.Src }
func (b *Block) Accept(v Visitor)   { v.VisitBlock(b) }
func (*Block) expressionNode()      {}

// IdKind distinguishes the three shapes a property-chain segment can
// take: a literal string key, a literal numeric index, or an arbitrary
// pre-evaluated expression.
type IdKind int

const (
	IdString IdKind = iota
	IdF64
	IdExpr
)

// Id is one segment of an Item's property-access chain: `.foo`, `[3]`,
// or `[expr]`, each optionally suffixed with `?` (spec §3.4 "Item").
type Id struct {
	Kind IdKind
	Str  string
	Num  float64
	Expr Expression
	Try  bool // trailing `?` on this segment
}

// Item is a variable reference, optionally followed by a chain of
// property/index accesses (spec §3.4, §4.F.2). ResolvedSlot caches the
// local-stack slot index the runtime finds on the item's first lookup;
// Current
// marks a `current` binding looked up via the current-variable stack
// instead of the local stack.
type Item struct {
	Src          SourceRange
	Name         string
	Ids          []Id
	Current      bool
	Try          bool // trailing `?` when Ids is empty
	ResolvedSlot Cell[int]
}

func (i *Item) Range() SourceRange { return i.Src }
func (i *Item) Accept(v Visitor)   { v.VisitItem(i) }
func (*Item) expressionNode()      {}

// AssignOp enumerates Dyon's assignment operators.
type AssignOp int

const (
	OpSet AssignOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
)

func (op AssignOp) String() string {
	switch op {
	case OpSet:
		return ":="
	case OpAdd:
		return "+="
	case OpSub:
		return "-="
	case OpMul:
		return "*="
	case OpDiv:
		return "/="
	case OpRem:
		return "%="
	default:
		return "?="
	}
}

// Assign is an assignment expression: `left op right`. When Op is
// OpSet and Left is a bare Item with no Ids, this introduces a new
// local binding rather than mutating an existing slot (spec §4.F.2).
type Assign struct {
	Src         SourceRange
	Op          AssignOp
	Left, Right Expression
}

func (a *Assign) Range() SourceRange { return a.Src }
func (a *Assign) Accept(v Visitor)   { v.VisitAssign(a) }
func (*Assign) expressionNode()      {}
