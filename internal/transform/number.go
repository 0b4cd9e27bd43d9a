package transform

import "github.com/dyon-lang/dyon/internal/ast"

// Number substitutes every unqualified occurrence of name (an Item
// with no Ids) with the literal val, returning a new expression tree
// (spec §4.C "number (constant substitution)"). Closures and grabs are
// left untouched, matching the original: a closure captures its own
// environment at construction time, so substituting into its body here
// would bypass that capture discipline.
func Number(expr ast.Expression, name string, val float64) ast.Expression {
	if expr == nil {
		return nil
	}
	switch n := expr.(type) {
	case *ast.LinkLit:
		items := make([]ast.Expression, len(n.Items))
		for i, it := range n.Items {
			items[i] = Number(it, name, val)
		}
		return &ast.LinkLit{Src: n.Src, Items: items}
	case *ast.BinOp:
		return &ast.BinOp{Src: n.Src, Op: n.Op, Left: Number(n.Left, name, val), Right: Number(n.Right, name, val)}
	case *ast.Item:
		if len(n.Ids) == 0 && n.Name == name {
			return &ast.F64Literal{Src: n.Src, Value: val}
		}
		newIds := make([]ast.Id, len(n.Ids))
		for i, id := range n.Ids {
			if id.Kind == ast.IdExpr {
				newIds[i] = ast.Id{Kind: ast.IdExpr, Try: id.Try, Expr: Number(id.Expr, name, val)}
			} else {
				newIds[i] = id
			}
		}
		cp := *n
		cp.Ids = newIds
		return &cp
	case *ast.Block:
		return numberBlock(n, name, val)
	case *ast.Assign:
		return &ast.Assign{Src: n.Src, Op: n.Op, Left: Number(n.Left, name, val), Right: Number(n.Right, name, val)}
	case *ast.ObjectLit:
		entries := make([]ast.ObjectEntry, len(n.Entries))
		for i, e := range n.Entries {
			entries[i] = ast.ObjectEntry{Key: e.Key, Value: Number(e.Value, name, val)}
		}
		return &ast.ObjectLit{Src: n.Src, Entries: entries}
	case *ast.Call:
		return numberCall(n, name, val)
	case *ast.ArrayLit:
		items := make([]ast.Expression, len(n.Items))
		for i, it := range n.Items {
			items[i] = Number(it, name, val)
		}
		return &ast.ArrayLit{Src: n.Src, Items: items}
	case *ast.ArrayFill:
		return &ast.ArrayFill{Src: n.Src, Fill: Number(n.Fill, name, val), N: Number(n.N, name, val)}
	case *ast.Return:
		return &ast.Return{Src: n.Src, Expr: Number(n.Expr, name, val)}
	case *ast.ReturnVoid, *ast.Break, *ast.Continue:
		return expr
	case *ast.Go:
		call := numberCall(n.Call, name, val)
		return &ast.Go{Src: n.Src, Call: call}
	case *ast.Vec4Lit:
		comps := make([]ast.Expression, len(n.Comps))
		for i, c := range n.Comps {
			comps[i] = Number(c, name, val)
		}
		return &ast.Vec4Lit{Src: n.Src, Comps: comps}
	case *ast.Mat4Lit:
		var comps [16]ast.Expression
		for i, c := range n.Comps {
			comps[i] = Number(c, name, val)
		}
		return &ast.Mat4Lit{Src: n.Src, Comps: comps}
	case *ast.CFor:
		// The original only substitutes Init when Init's own Assign
		// target shares name (treating that case as a re-declaration
		// worth numbering its right side against the *outer* val);
		// otherwise every part, including Init, is substituted normally.
		if assign, ok := n.Init.(*ast.Assign); ok {
			if item, ok := assign.Left.(*ast.Item); ok && item.Name == name {
				return &ast.CFor{
					Src: n.Src, Label: n.Label,
					Init:  &ast.Assign{Src: assign.Src, Op: assign.Op, Left: assign.Left, Right: Number(assign.Right, name, val)},
					Cond:  n.Cond, Step: n.Step, Block: n.Block,
				}
			}
		}
		return &ast.CFor{
			Src: n.Src, Label: n.Label,
			Init: Number(n.Init, name, val), Cond: Number(n.Cond, name, val), Step: Number(n.Step, name, val),
			Block: numberBlock(n.Block, name, val),
		}
	case *ast.RangeFor:
		return numberRangeFor(n, name, val)
	case *ast.Accumulator:
		return numberAccumulator(n, name, val)
	case *ast.ForIn:
		return &ast.ForIn{
			Src: n.Src, Label: n.Label, Name: n.Name,
			Collection: Number(n.Collection, name, val),
			Block:      numberBlock(n.Block, name, val),
		}
	case *ast.AccumulatorIn:
		return &ast.AccumulatorIn{
			Src: n.Src, Kind: n.Kind, Label: n.Label, Name: n.Name,
			Collection: Number(n.Collection, name, val),
			Block:      numberBlock(n.Block, name, val),
		}
	case *ast.If:
		elseIfs := make([]ast.ElseIf, len(n.ElseIfs))
		for i, ei := range n.ElseIfs {
			elseIfs[i] = ast.ElseIf{Cond: Number(ei.Cond, name, val), Block: numberBlock(ei.Block, name, val)}
		}
		var elseBlock *ast.Block
		if n.ElseBlock != nil {
			elseBlock = numberBlock(n.ElseBlock, name, val)
		}
		return &ast.If{
			Src: n.Src, Cond: Number(n.Cond, name, val), TrueBlock: numberBlock(n.TrueBlock, name, val),
			ElseIfs: elseIfs, ElseBlock: elseBlock,
		}
	case *ast.Compare:
		return &ast.Compare{Src: n.Src, Op: n.Op, Left: Number(n.Left, name, val), Right: Number(n.Right, name, val)}
	case *ast.Norm:
		return &ast.Norm{Src: n.Src, Expr: Number(n.Expr, name, val)}
	case *ast.UnOp:
		return &ast.UnOp{Src: n.Src, Op: n.Op, Expr: Number(n.Expr, name, val)}
	case *ast.F64Literal, *ast.BoolLiteral, *ast.TextLiteral:
		return expr
	case *ast.Try:
		return &ast.Try{Src: n.Src, Expr: Number(n.Expr, name, val)}
	case *ast.Swizzle:
		return &ast.Swizzle{Src: n.Src, SelectedComponents: n.SelectedComponents, Expr: Number(n.Expr, name, val)}
	case *ast.Closure:
		return expr
	case *ast.CallClosure:
		args := make([]ast.Expression, len(n.Args))
		for i, a := range n.Args {
			args[i] = Number(a, name, val)
		}
		return &ast.CallClosure{Src: n.Src, Item: n.Item, Args: args}
	case *ast.Grab:
		return expr
	case *ast.TryExpr:
		return &ast.TryExpr{Src: n.Src, Expr: Number(n.Expr, name, val)}
	case *ast.In:
		return expr
	default:
		return expr
	}
}

func numberCall(call *ast.Call, name string, val float64) *ast.Call {
	args := make([]ast.Expression, len(call.Args))
	for i, a := range call.Args {
		args[i] = Number(a, name, val)
	}
	return &ast.Call{Src: call.Src, Alias: call.Alias, Name: call.Name, Args: args}
}

func numberRangeFor(n *ast.RangeFor, name string, val float64) *ast.RangeFor {
	if n.Name == name {
		return n
	}
	var start ast.Expression
	if n.Start != nil {
		start = Number(n.Start, name, val)
	}
	return &ast.RangeFor{
		Src: n.Src, Label: n.Label, Name: n.Name,
		Start: start, End: Number(n.End, name, val),
		Block: numberBlock(n.Block, name, val),
	}
}

func numberAccumulator(n *ast.Accumulator, name string, val float64) *ast.Accumulator {
	if n.Name == name {
		return n
	}
	var start ast.Expression
	if n.Start != nil {
		start = Number(n.Start, name, val)
	}
	return &ast.Accumulator{
		Src: n.Src, Kind: n.Kind, Label: n.Label, Name: n.Name,
		Start: start, End: Number(n.End, name, val),
		Block: numberBlock(n.Block, name, val),
	}
}

// numberBlock ports number_block: once a statement assigns directly to
// name (any AssignOp, not just `:=` — this is the original's own
// asymmetry against infer_block's `OpSet`-only check, carried over
// rather than reconciled, see DESIGN.md Open Questions), every
// following statement in the block is cloned as-is instead of
// substituted into.
func numberBlock(block *ast.Block, name string, val float64) *ast.Block {
	exprs := make([]ast.Expression, len(block.Exprs))
	justClone := false
	for i, e := range block.Exprs {
		if justClone {
			exprs[i] = e
			continue
		}
		if assign, ok := e.(*ast.Assign); ok {
			if item, ok := assign.Left.(*ast.Item); ok && item.Name == name {
				exprs[i] = &ast.Assign{Src: assign.Src, Op: assign.Op, Left: assign.Left, Right: Number(assign.Right, name, val)}
				justClone = true
				continue
			}
		}
		exprs[i] = Number(e, name, val)
	}
	return &ast.Block{Src: block.Src, Exprs: exprs}
}
