package runtime

import "github.com/dyon-lang/dyon/internal/ast"

// ClosureDef is the resolved shape of an ast.Closure: its parameter
// list, declared currents, and body, kept separate from the AST node
// itself so Closure (a Value) doesn't need to import ast at the
// package's value layer in a way that would tangle with transform's
// rewriting passes running over the same nodes.
type ClosureDef struct {
	Node     *ast.Closure
	NumArgs  int
	Currents []string
}

func NewClosureDef(n *ast.Closure) *ClosureDef {
	return &ClosureDef{Node: n, NumArgs: len(n.Args), Currents: n.Currents}
}

// GrabValues maps a Grab AST node to its closure-construction-time
// resolved value (spec §4.C "grab lifter"). A closure's GrabValues
// holds both its own directly-written grabs and every deeper-nested
// grab whose `'k` level was satisfied at this closure's own
// construction, so that further-nested closures inherit them without
// re-resolving; it is defined here (not value.go) so the Closure value
// struct can reference it without value.go itself importing ast.
type GrabValues map[*ast.Grab]Value
