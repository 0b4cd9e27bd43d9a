package ast

import "github.com/dyon-lang/dyon/internal/typesystem"

// ResolvedCall is the call-target resolution the lifetime checker
// writes into a Call's Cell: which of the four FnIndex kinds (spec §6)
// the name resolved to, plus the module-relative index where
// applicable.
type ResolvedCall struct {
	Kind  CallKind
	Index int // meaning depends on Kind: intrinsic id, or module-relative loaded index
}

type CallKind int

const (
	CallUnresolved CallKind = iota
	CallIntrinsic
	CallExternalVoid
	CallExternalReturn
	CallLoaded
)

// Call is a named function call: `name(args...)`, optionally qualified
// by a module alias (`alias::name(args...)`).
type Call struct {
	Src      SourceRange
	Alias    string // "" if unqualified
	Name     string
	Args     []Expression
	Resolved Cell[ResolvedCall]
}

func (c *Call) Range() SourceRange { return c.Src }
func (c *Call) Accept(v Visitor)   { v.VisitCall(c) }
func (*Call) expressionNode()       {}

// CallClosure invokes a closure value held in an Item: `item(args...)`.
type CallClosure struct {
	Src  SourceRange
	Item *Item
	Args []Expression
}

func (c *CallClosure) Range() SourceRange { return c.Src }
func (c *CallClosure) Accept(v Visitor)   { v.VisitCallClosure(c) }
func (*CallClosure) expressionNode()       {}

// ClosureArg is one parameter of a Closure literal.
type ClosureArg struct {
	Name string
	Ty   typesystem.Type // nil if not annotated (defaults to Any)
}

// Closure is a closure literal: `\(args) = body` or `\(args) -> ret { body }`.
// Body is a single expression (a Block if the source used braces).
// Currents names the `current` bindings this closure's callee (if any)
// must see re-resolved at call time (spec §4.F.2 "Closure call").
type Closure struct {
	Src      SourceRange
	Args     []ClosureArg
	Currents []string
	Ret      typesystem.Type // nil: inferred by the checker
	Body     Expression
}

func (c *Closure) Range() SourceRange { return c.Src }
func (c *Closure) Accept(v Visitor)   { v.VisitClosure(c) }
func (*Closure) expressionNode()       {}

// Grab is the `grab <expr>` operator, valid only inside a Closure body.
// Level is the `'k` scope-depth prefix (0 = immediately enclosing
// scope). When a closure literal is evaluated, the runtime finds its
// grabs with transform.CollectGrabSites, evaluates each one whose Level
// matches its closure depth, and stores the value keyed by this node;
// evaluating the Grab inside the body looks that value up (spec §4.C).
type Grab struct {
	Src   SourceRange
	Level int
	Expr  Expression
}

func (g *Grab) Range() SourceRange { return g.Src }
func (g *Grab) Accept(v Visitor)   { v.VisitGrab(g) }
func (*Grab) expressionNode()       {}

// Go spawns Call as a new task, returning a Thread handle. The called
// function must declare a non-void return type (spec §4.E "Go").
type Go struct {
	Src  SourceRange
	Call *Call
}

func (g *Go) Range() SourceRange { return g.Src }
func (g *Go) Accept(v Visitor)   { v.VisitGo(g) }
func (*Go) expressionNode()       {}

// In attaches a receiver channel to a named function: `in f`.
type In struct {
	Src SourceRange
	Fn  string
}

func (i *In) Range() SourceRange { return i.Src }
func (i *In) Accept(v Visitor)   { v.VisitIn(i) }
func (*In) expressionNode()       {}
