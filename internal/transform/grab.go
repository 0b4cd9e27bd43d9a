// Package transform holds the AST-to-AST static passes that run
// between a loaded Module and the lifetime checker: inferring omitted
// loop ends from `x[n]` usage, substituting named constants, and
// collecting the `grab` expressions a closure must capture at
// construction time (spec §4.C "AST transforms").
package transform

import "github.com/dyon-lang/dyon/internal/ast"

// GrabSite is one `grab` expression reachable from a body, tagged with
// how many nested Closure literals separate it from that body: Depth 0
// means it sits directly in the body itself; Depth d means reaching it
// required descending through d nested closure literals. A Grab's own
// Level field (the `'k` prefix) names how many enclosing-scope
// boundaries it wants to cross counting from its own immediately
// enclosing closure; it should be resolved at whichever ancestor
// closure's construction sees Depth == Level for it (spec §4.C "grab
// lifter ... Supports a level prefix `'k` to grab from the k-th
// enclosing scope").
type GrabSite struct {
	Node  *ast.Grab
	Depth int
}

// CollectGrabSites walks every expression reachable from body,
// including through nested Closure literals (each crossing adds one to
// Depth), returning every Grab found tagged with its depth from body.
func CollectGrabSites(body ast.Expression) []GrabSite {
	var out []GrabSite
	walkForGrabSites(body, 0, &out)
	return out
}

// CollectGrabs returns the Grab nodes reachable from body without
// crossing into any nested closure literal (Depth 0): the ones that
// belong to body's own closure, captured at its own construction time.
// A grab inside a nested closure literal belongs to that closure's own
// capture set, collected independently when *it* is constructed (spec
// §4.F.2: "Grab ... inside a closure it is lifted away pre-execution").
func CollectGrabs(body ast.Expression) []*ast.Grab {
	sites := CollectGrabSites(body)
	var out []*ast.Grab
	for _, s := range sites {
		if s.Depth == 0 {
			out = append(out, s.Node)
		}
	}
	return out
}

func walkForGrabSites(e ast.Expression, depth int, out *[]GrabSite) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Grab:
		*out = append(*out, GrabSite{Node: n, Depth: depth})
	case *ast.Block:
		walkBlockForGrabSites(n, depth, out)
	case *ast.Item:
		for _, id := range n.Ids {
			if id.Kind == ast.IdExpr {
				walkForGrabSites(id.Expr, depth, out)
			}
		}
	case *ast.Assign:
		walkForGrabSites(n.Left, depth, out)
		walkForGrabSites(n.Right, depth, out)
	case *ast.Vec4Lit:
		for _, c := range n.Comps {
			walkForGrabSites(c, depth, out)
		}
	case *ast.Mat4Lit:
		for _, c := range n.Comps {
			walkForGrabSites(c, depth, out)
		}
	case *ast.Swizzle:
		walkForGrabSites(n.Expr, depth, out)
	case *ast.Norm:
		walkForGrabSites(n.Expr, depth, out)
	case *ast.BinOp:
		walkForGrabSites(n.Left, depth, out)
		walkForGrabSites(n.Right, depth, out)
	case *ast.Compare:
		walkForGrabSites(n.Left, depth, out)
		walkForGrabSites(n.Right, depth, out)
	case *ast.UnOp:
		walkForGrabSites(n.Expr, depth, out)
	case *ast.LinkLit:
		for _, it := range n.Items {
			walkForGrabSites(it, depth, out)
		}
	case *ast.ObjectLit:
		for _, entry := range n.Entries {
			walkForGrabSites(entry.Value, depth, out)
		}
	case *ast.ArrayLit:
		for _, it := range n.Items {
			walkForGrabSites(it, depth, out)
		}
	case *ast.ArrayFill:
		walkForGrabSites(n.Fill, depth, out)
		walkForGrabSites(n.N, depth, out)
	case *ast.Call:
		for _, a := range n.Args {
			walkForGrabSites(a, depth, out)
		}
	case *ast.CallClosure:
		walkForGrabSites(n.Item, depth, out)
		for _, a := range n.Args {
			walkForGrabSites(a, depth, out)
		}
	case *ast.Closure:
		walkForGrabSites(n.Body, depth+1, out)
	case *ast.Go:
		for _, a := range n.Call.Args {
			walkForGrabSites(a, depth, out)
		}
	case *ast.In:
		// No sub-expressions.
	case *ast.CFor:
		walkForGrabSites(n.Init, depth, out)
		walkForGrabSites(n.Cond, depth, out)
		walkForGrabSites(n.Step, depth, out)
		walkBlockForGrabSites(n.Block, depth, out)
	case *ast.RangeFor:
		walkForGrabSites(n.Start, depth, out)
		walkForGrabSites(n.End, depth, out)
		walkBlockForGrabSites(n.Block, depth, out)
	case *ast.Accumulator:
		walkForGrabSites(n.Start, depth, out)
		walkForGrabSites(n.End, depth, out)
		walkBlockForGrabSites(n.Block, depth, out)
	case *ast.ForIn:
		walkForGrabSites(n.Collection, depth, out)
		walkBlockForGrabSites(n.Block, depth, out)
	case *ast.AccumulatorIn:
		walkForGrabSites(n.Collection, depth, out)
		walkBlockForGrabSites(n.Block, depth, out)
	case *ast.If:
		walkForGrabSites(n.Cond, depth, out)
		walkBlockForGrabSites(n.TrueBlock, depth, out)
		for _, ei := range n.ElseIfs {
			walkForGrabSites(ei.Cond, depth, out)
			walkBlockForGrabSites(ei.Block, depth, out)
		}
		walkBlockForGrabSites(n.ElseBlock, depth, out)
	case *ast.TryExpr:
		walkForGrabSites(n.Expr, depth, out)
	case *ast.Try:
		walkForGrabSites(n.Expr, depth, out)
	case *ast.Return:
		walkForGrabSites(n.Expr, depth, out)
	case *ast.ReturnVoid, *ast.Break, *ast.Continue,
		*ast.F64Literal, *ast.BoolLiteral, *ast.TextLiteral:
		// Leaves.
	}
}

func walkBlockForGrabSites(b *ast.Block, depth int, out *[]GrabSite) {
	if b == nil {
		return
	}
	for _, e := range b.Exprs {
		walkForGrabSites(e, depth, out)
	}
}
