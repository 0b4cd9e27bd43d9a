package transform

import "github.com/dyon-lang/dyon/internal/ast"

// Infer searches body for the first dereference of name in the shape
// `x[name]` or `x[name][...]` and, if found, returns `len(x)` as the
// loop end that dereference implies — the same search a parser runs
// against a ranged loop's own body when the source omits an explicit
// end (spec §4.C "infer (inferred length)"). It returns nil when no
// such use is found, or when name is itself rebound (by `:=` or a
// nested loop counter) before any qualifying use.
func Infer(body *ast.Block, name string) ast.Expression {
	var decls []string
	item := inferBlock(body, name, &decls)
	if item == nil {
		return nil
	}
	return &ast.Call{Src: item.Src, Name: "len", Args: []ast.Expression{item}}
}

// inferExpr walks one expression looking for the first qualifying
// `x[name]` use, returning the truncated Item naming x. Closures and
// grabs are opaque: a loop end never reaches into a closure body,
// matching the original's `Closure(_) => {}` / `Grab(_) => {}` arms.
func inferExpr(e ast.Expression, name string, decls *[]string) *ast.Item {
	switch n := e.(type) {
	case *ast.LinkLit:
		for _, it := range n.Items {
			if r := inferExpr(it, name, decls); r != nil {
				return r
			}
		}
	case *ast.Item:
		return inferItem(n, name, decls)
	case *ast.Assign:
		if r := inferExpr(n.Left, name, decls); r != nil {
			return r
		}
		if r := inferExpr(n.Right, name, decls); r != nil {
			return r
		}
	case *ast.ObjectLit:
		for _, entry := range n.Entries {
			if r := inferExpr(entry.Value, name, decls); r != nil {
				return r
			}
		}
	case *ast.ArrayLit:
		for _, it := range n.Items {
			if r := inferExpr(it, name, decls); r != nil {
				return r
			}
		}
	case *ast.ArrayFill:
		if r := inferExpr(n.Fill, name, decls); r != nil {
			return r
		}
		if r := inferExpr(n.N, name, decls); r != nil {
			return r
		}
	case *ast.Return:
		return inferExpr(n.Expr, name, decls)
	case *ast.ReturnVoid, *ast.Break, *ast.Continue:
		// no sub-expressions
	case *ast.Block:
		return inferBlock(n, name, decls)
	case *ast.Go:
		return inferCall(n.Call, name, decls)
	case *ast.Call:
		return inferCall(n, name, decls)
	case *ast.CallClosure:
		return inferCallClosure(n, name, decls)
	case *ast.Vec4Lit:
		for _, c := range n.Comps {
			if r := inferExpr(c, name, decls); r != nil {
				return r
			}
		}
	case *ast.Mat4Lit:
		for _, c := range n.Comps {
			if r := inferExpr(c, name, decls); r != nil {
				return r
			}
		}
	case *ast.CFor:
		// TODO: declaring the counter with the same name here probably
		// leads to a bug (the original's own comment on `For`): Init's
		// binding is never pushed to decls before scanning Cond/Step/
		// Block, so a CFor whose Init shadows name is not detected.
		if r := inferExpr(n.Init, name, decls); r != nil {
			return r
		}
		if r := inferExpr(n.Cond, name, decls); r != nil {
			return r
		}
		if r := inferExpr(n.Step, name, decls); r != nil {
			return r
		}
		return inferBlock(n.Block, name, decls)
	case *ast.RangeFor:
		return inferForN(n.Name, n.Start, n.End, n.Block, name, decls)
	case *ast.Accumulator:
		return inferForN(n.Name, n.Start, n.End, n.Block, name, decls)
	case *ast.ForIn:
		return inferExpr(n.Collection, name, decls)
	case *ast.AccumulatorIn:
		return inferExpr(n.Collection, name, decls)
	case *ast.If:
		if r := inferExpr(n.Cond, name, decls); r != nil {
			return r
		}
		if r := inferBlock(n.TrueBlock, name, decls); r != nil {
			return r
		}
		for _, ei := range n.ElseIfs {
			if r := inferExpr(ei.Cond, name, decls); r != nil {
				return r
			}
			if r := inferBlock(ei.Block, name, decls); r != nil {
				return r
			}
		}
		if n.ElseBlock != nil {
			return inferBlock(n.ElseBlock, name, decls)
		}
	case *ast.Try:
		return inferExpr(n.Expr, name, decls)
	case *ast.TryExpr:
		return inferExpr(n.Expr, name, decls)
	case *ast.Swizzle:
		return inferExpr(n.Expr, name, decls)
	case *ast.Norm:
		return inferExpr(n.Expr, name, decls)
	case *ast.BinOp:
		if r := inferExpr(n.Left, name, decls); r != nil {
			return r
		}
		return inferExpr(n.Right, name, decls)
	case *ast.Compare:
		if r := inferExpr(n.Left, name, decls); r != nil {
			return r
		}
		return inferExpr(n.Right, name, decls)
	case *ast.UnOp:
		return inferExpr(n.Expr, name, decls)
	case *ast.Closure, *ast.Grab, *ast.In, *ast.F64Literal, *ast.BoolLiteral, *ast.TextLiteral:
		// opaque / no sub-expressions to search
	}
	return nil
}

// inferItem implements infer_item: an Item with at least one Id whose
// Kind is IdExpr naming `name` directly qualifies, truncated to the
// segments before that index. A name appearing anywhere in decls
// (declared after the point this index would need to exist) disqualifies
// it rather than recursing further into that id's expression.
func inferItem(item *ast.Item, name string, decls *[]string) *ast.Item {
	if len(item.Ids) == 0 {
		return nil
	}
	for i, id := range item.Ids {
		if id.Kind != ast.IdExpr {
			continue
		}
		if inner, ok := id.Expr.(*ast.Item); ok {
			if inner.Name == name {
				trunc := *item
				trunc.Ids = item.Ids[:i]
				return &trunc
			}
			for j := len(*decls) - 1; j >= 0; j-- {
				if (*decls)[j] == inner.Name {
					return nil
				}
			}
			if r := inferExpr(id.Expr, name, decls); r != nil {
				return r
			}
		} else {
			if r := inferExpr(id.Expr, name, decls); r != nil {
				return r
			}
			break
		}
	}
	return nil
}

func inferCall(call *ast.Call, name string, decls *[]string) *ast.Item {
	for _, a := range call.Args {
		if r := inferExpr(a, name, decls); r != nil {
			return r
		}
	}
	return nil
}

func inferCallClosure(call *ast.CallClosure, name string, decls *[]string) *ast.Item {
	if r := inferItem(call.Item, name, decls); r != nil {
		return r
	}
	for _, a := range call.Args {
		if r := inferExpr(a, name, decls); r != nil {
			return r
		}
	}
	return nil
}

// inferForN implements infer_for_n: a nested ranged loop whose own
// counter shadows name stops the search; otherwise its counter is
// pushed onto decls only for the extent of its own start/end/block
// scan, then popped (spec: "must not descend into scopes that rebind
// n").
func inferForN(loopName string, start, end ast.Expression, body *ast.Block, name string, decls *[]string) *ast.Item {
	if loopName == name {
		return nil
	}
	*decls = append(*decls, loopName)
	st := len(*decls)
	defer func() { *decls = (*decls)[:st-1] }()

	if start != nil {
		if r := inferExpr(start, name, decls); r != nil {
			return r
		}
	}
	if end != nil {
		if r := inferExpr(end, name, decls); r != nil {
			return r
		}
	}
	return inferBlock(body, name, decls)
}

// inferBlock implements infer_block: each Assign's right side is
// checked before its left, and a bare `x := ...` declares x (pushed to
// decls for the remainder of the block) before the left side itself is
// searched. The declarations a block adds are popped when the block
// ends.
func inferBlock(block *ast.Block, name string, decls *[]string) *ast.Item {
	st := len(*decls)
	defer func() { *decls = (*decls)[:st] }()

	for _, e := range block.Exprs {
		if assign, ok := e.(*ast.Assign); ok {
			if r := inferExpr(assign.Right, name, decls); r != nil {
				return r
			}
			if item, ok := assign.Left.(*ast.Item); ok {
				if item.Name == name {
					return nil
				}
				if len(item.Ids) == 0 && assign.Op == ast.OpSet {
					*decls = append(*decls, item.Name)
				}
			}
			if r := inferExpr(assign.Left, name, decls); r != nil {
				return r
			}
			continue
		}
		if r := inferExpr(e, name, decls); r != nil {
			return r
		}
	}
	return nil
}

// FillLoopEnds walks fn's body and, for every RangeFor/Accumulator with
// no explicit End, tries Infer against that loop's own body; a
// successful inference replaces the nil End in place. Loops that stay
// uninferred keep End nil, which the lifetime checker rejects (spec
// §4.C: "Rewrite into len(x)" is the only resolution for an omitted
// end — there is no other default).
func FillLoopEnds(fn *ast.Fn) {
	fillLoopEndsBlock(fn.Body)
}

func fillLoopEndsBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, e := range b.Exprs {
		fillLoopEndsExpr(e)
	}
}

func fillLoopEndsExpr(e ast.Expression) {
	switch n := e.(type) {
	case *ast.RangeFor:
		if n.End == nil {
			n.End = Infer(n.Block, n.Name)
		}
		fillLoopEndsBlock(n.Block)
	case *ast.Accumulator:
		if n.End == nil {
			n.End = Infer(n.Block, n.Name)
		}
		fillLoopEndsBlock(n.Block)
	case *ast.CFor:
		fillLoopEndsExpr(n.Init)
		fillLoopEndsExpr(n.Cond)
		fillLoopEndsExpr(n.Step)
		fillLoopEndsBlock(n.Block)
	case *ast.ForIn:
		fillLoopEndsExpr(n.Collection)
		fillLoopEndsBlock(n.Block)
	case *ast.AccumulatorIn:
		fillLoopEndsExpr(n.Collection)
		fillLoopEndsBlock(n.Block)
	case *ast.Block:
		fillLoopEndsBlock(n)
	case *ast.Assign:
		fillLoopEndsExpr(n.Left)
		fillLoopEndsExpr(n.Right)
	case *ast.If:
		fillLoopEndsExpr(n.Cond)
		fillLoopEndsBlock(n.TrueBlock)
		for _, ei := range n.ElseIfs {
			fillLoopEndsExpr(ei.Cond)
			fillLoopEndsBlock(ei.Block)
		}
		if n.ElseBlock != nil {
			fillLoopEndsBlock(n.ElseBlock)
		}
	case *ast.Return:
		fillLoopEndsExpr(n.Expr)
	case *ast.Try:
		fillLoopEndsExpr(n.Expr)
	case *ast.TryExpr:
		fillLoopEndsExpr(n.Expr)
	case *ast.Call:
		for _, a := range n.Args {
			fillLoopEndsExpr(a)
		}
	case *ast.Go:
		for _, a := range n.Call.Args {
			fillLoopEndsExpr(a)
		}
	case *ast.CallClosure:
		for _, a := range n.Args {
			fillLoopEndsExpr(a)
		}
	case *ast.BinOp:
		fillLoopEndsExpr(n.Left)
		fillLoopEndsExpr(n.Right)
	case *ast.Compare:
		fillLoopEndsExpr(n.Left)
		fillLoopEndsExpr(n.Right)
	case *ast.UnOp:
		fillLoopEndsExpr(n.Expr)
	case *ast.ArrayFill:
		fillLoopEndsExpr(n.Fill)
		fillLoopEndsExpr(n.N)
	case *ast.ArrayLit:
		for _, it := range n.Items {
			fillLoopEndsExpr(it)
		}
	case *ast.ObjectLit:
		for _, entry := range n.Entries {
			fillLoopEndsExpr(entry.Value)
		}
	case *ast.LinkLit:
		for _, it := range n.Items {
			fillLoopEndsExpr(it)
		}
	case *ast.Vec4Lit:
		for _, c := range n.Comps {
			fillLoopEndsExpr(c)
		}
	case *ast.Mat4Lit:
		for _, c := range n.Comps {
			fillLoopEndsExpr(c)
		}
	case *ast.Swizzle:
		fillLoopEndsExpr(n.Expr)
	case *ast.Norm:
		fillLoopEndsExpr(n.Expr)
	}
}
