package runtime

import "github.com/dyon-lang/dyon/internal/ast"

// exprEvaluator is a one-shot ast.Visitor: Eval constructs one per
// call, dispatches through node.Accept, and reads the three result
// fields back out. This keeps the interpreter's per-node-kind logic in
// focused evalXxx methods (split across files the way funxy's own
// expressions_*.go/statements_*.go are split) while still routing every
// dispatch through the Visitor contract the ast package defines, rather
// than a parallel type switch.
type exprEvaluator struct {
	ast.BaseVisitor
	rt    *Runtime
	side  Side
	value Value
	flow  Flow
	err   error
}

// Eval evaluates expr for the given Side and returns its value (nil if
// the expression produced no value, e.g. a bare `break`), the resulting
// control flow, and any hard runtime error.
func (rt *Runtime) Eval(expr ast.Expression, side Side) (Value, Flow, error) {
	ev := &exprEvaluator{rt: rt, side: side, flow: ContinueFlow}
	expr.Accept(ev)
	return ev.value, ev.flow, ev.err
}

// EvalR is Eval with Side always Right, the overwhelmingly common case.
func (rt *Runtime) EvalR(expr ast.Expression) (Value, Flow, error) {
	return rt.Eval(expr, SideRight)
}

func (ev *exprEvaluator) set(v Value, f Flow, err error) {
	ev.value, ev.flow, ev.err = v, f, err
}

func (ev *exprEvaluator) VisitBlock(n *ast.Block)         { ev.set(ev.rt.EvalBlock(n)) }
func (ev *exprEvaluator) VisitItem(n *ast.Item)           { ev.set(ev.rt.evalItem(n, ev.side)) }
func (ev *exprEvaluator) VisitAssign(n *ast.Assign)       { ev.set(ev.rt.evalAssign(n)) }
func (ev *exprEvaluator) VisitF64Literal(n *ast.F64Literal) {
	ev.set(F64{Value: n.Value}, ContinueFlow, nil)
}
func (ev *exprEvaluator) VisitBoolLiteral(n *ast.BoolLiteral) {
	ev.set(Bool{Value: n.Value}, ContinueFlow, nil)
}
func (ev *exprEvaluator) VisitTextLiteral(n *ast.TextLiteral) {
	ev.set(Text{Value: n.Value}, ContinueFlow, nil)
}
func (ev *exprEvaluator) VisitVec4Lit(n *ast.Vec4Lit)   { ev.set(ev.rt.evalVec4Lit(n)) }
func (ev *exprEvaluator) VisitMat4Lit(n *ast.Mat4Lit)   { ev.set(ev.rt.evalMat4Lit(n)) }
func (ev *exprEvaluator) VisitSwizzle(n *ast.Swizzle)   { ev.set(ev.rt.evalSwizzle(n)) }
func (ev *exprEvaluator) VisitNorm(n *ast.Norm)         { ev.set(ev.rt.evalNorm(n)) }
func (ev *exprEvaluator) VisitBinOp(n *ast.BinOp)       { ev.set(ev.rt.evalBinOp(n)) }
func (ev *exprEvaluator) VisitCompare(n *ast.Compare)   { ev.set(ev.rt.evalCompare(n)) }
func (ev *exprEvaluator) VisitUnOp(n *ast.UnOp)         { ev.set(ev.rt.evalUnOp(n)) }
func (ev *exprEvaluator) VisitLinkLit(n *ast.LinkLit)   { ev.set(ev.rt.evalLinkLit(n)) }
func (ev *exprEvaluator) VisitObjectLit(n *ast.ObjectLit) { ev.set(ev.rt.evalObjectLit(n)) }
func (ev *exprEvaluator) VisitArrayLit(n *ast.ArrayLit) { ev.set(ev.rt.evalArrayLit(n)) }
func (ev *exprEvaluator) VisitArrayFill(n *ast.ArrayFill) { ev.set(ev.rt.evalArrayFill(n)) }
func (ev *exprEvaluator) VisitCall(n *ast.Call)         { ev.set(ev.rt.evalCall(n)) }
func (ev *exprEvaluator) VisitCallClosure(n *ast.CallClosure) { ev.set(ev.rt.evalCallClosure(n)) }
func (ev *exprEvaluator) VisitClosure(n *ast.Closure)   { ev.set(ev.rt.evalClosureLit(n)) }
func (ev *exprEvaluator) VisitGrab(n *ast.Grab) { ev.set(ev.rt.evalGrab(n)) }
func (ev *exprEvaluator) VisitGo(n *ast.Go)     { ev.set(ev.rt.evalGo(n)) }
func (ev *exprEvaluator) VisitIn(n *ast.In)     { ev.set(ev.rt.evalIn(n)) }
func (ev *exprEvaluator) VisitCFor(n *ast.CFor) { ev.set(ev.rt.evalCFor(n)) }
func (ev *exprEvaluator) VisitRangeFor(n *ast.RangeFor) { ev.set(ev.rt.evalRangeFor(n)) }
func (ev *exprEvaluator) VisitAccumulator(n *ast.Accumulator) { ev.set(ev.rt.evalAccumulator(n)) }
func (ev *exprEvaluator) VisitForIn(n *ast.ForIn) { ev.set(ev.rt.evalForIn(n)) }
func (ev *exprEvaluator) VisitAccumulatorIn(n *ast.AccumulatorIn) {
	ev.set(ev.rt.evalAccumulatorIn(n))
}
func (ev *exprEvaluator) VisitIf(n *ast.If)           { ev.set(ev.rt.evalIf(n)) }
func (ev *exprEvaluator) VisitTryExpr(n *ast.TryExpr) { ev.set(ev.rt.evalTryExpr(n)) }
func (ev *exprEvaluator) VisitTry(n *ast.Try)         { ev.set(ev.rt.evalTry(n)) }
func (ev *exprEvaluator) VisitReturn(n *ast.Return) {
	v, flow, err := ev.rt.EvalR(n.Expr)
	if err != nil || flow.Escapes() {
		ev.set(v, flow, err)
		return
	}
	ev.rt.setReturnSlot(v)
	ev.set(nil, ReturnFlow, nil)
}
func (ev *exprEvaluator) VisitReturnVoid(n *ast.ReturnVoid) {
	ev.set(nil, ReturnFlow, nil)
}
func (ev *exprEvaluator) VisitBreak(n *ast.Break) {
	ev.set(nil, BreakFlow(n.Label), nil)
}
func (ev *exprEvaluator) VisitContinue(n *ast.Continue) {
	ev.set(nil, ContinueLoopFlow(n.Label), nil)
}

// EvalBlock runs each expression in sequence, discarding all but the
// last value, and stops early on any escaping Flow (spec §4.E
// "Block/TrueBlock/...": value and flow are those of the last
// expression, or of whichever one escapes first).
func (rt *Runtime) EvalBlock(b *ast.Block) (Value, Flow, error) {
	var v Value
	var flow = ContinueFlow
	for _, e := range b.Exprs {
		var err error
		v, flow, err = rt.EvalR(e)
		if err != nil {
			return nil, ContinueFlow, err
		}
		if flow.Escapes() {
			return v, flow, nil
		}
	}
	return v, flow, nil
}

func (rt *Runtime) errorf(src ast.SourceRange, format string, args ...interface{}) error {
	return errorfAt(rt.StackTrace(), format, args...)
}
