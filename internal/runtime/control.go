package runtime

import (
	"math"

	"github.com/dyon-lang/dyon/internal/ast"
)

func (rt *Runtime) evalIf(n *ast.If) (Value, Flow, error) {
	cond, flow, err := rt.EvalR(n.Cond)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}
	b, ok := rt.Resolve(cond).(Bool)
	if !ok {
		return nil, ContinueFlow, rt.errorf(n.Src, "Expected bool, found %s", TypeName(cond))
	}
	if b.Value {
		return rt.EvalBlock(n.TrueBlock)
	}
	for _, ei := range n.ElseIfs {
		c, flow, err := rt.EvalR(ei.Cond)
		if err != nil || flow.Escapes() {
			return nil, flow, err
		}
		cb, ok := rt.Resolve(c).(Bool)
		if !ok {
			return nil, ContinueFlow, rt.errorf(n.Src, "Expected bool, found %s", TypeName(c))
		}
		if cb.Value {
			return rt.EvalBlock(ei.Block)
		}
	}
	if n.ElseBlock != nil {
		return rt.EvalBlock(n.ElseBlock)
	}
	return Void{}, ContinueFlow, nil
}

// evalTryExpr implements the `\ expr ?` block form (spec §4.F.2
// "TryExpr"): snapshot stack lengths, evaluate, and on a hard error
// roll back to the snapshot and wrap Err instead of propagating.
func (rt *Runtime) evalTryExpr(n *ast.TryExpr) (Value, Flow, error) {
	snapStack, snapLocal, snapCurrent := len(rt.Stack), len(rt.LocalStack), len(rt.CurrentStack)
	snapCall := len(rt.CallStack)

	v, flow, err := rt.EvalR(n.Expr)
	if err != nil {
		rt.Stack = rt.Stack[:snapStack]
		rt.LocalStack = rt.LocalStack[:snapLocal]
		rt.CurrentStack = rt.CurrentStack[:snapCurrent]
		rt.CallStack = rt.CallStack[:snapCall]
		if len(rt.frameStack) > snapCall {
			rt.frameStack = rt.frameStack[:snapCall]
		}
		return ErrValue(Text{Value: err.Error()}), ContinueFlow, nil
	}
	if flow.Escapes() {
		return v, flow, nil
	}
	return OkValue(rt.Resolve(v)), ContinueFlow, nil
}

// evalTry implements the postfix `expr?` operator by delegating to
// tryMsg on the evaluated value.
func (rt *Runtime) evalTry(n *ast.Try) (Value, Flow, error) {
	v, flow, err := rt.EvalR(n.Expr)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}
	return rt.tryMsg(rt.Resolve(v), n.Src)
}

// tryMsg implements `try_msg` (spec §4.F.2 "Try (postfix ?)"): maps a
// Result/Option/Bool/F64 to either its unwrapped success value
// (Continue) or an early Err-return (Return flow, value left nil since
// the Err has already been written to the reserved return slot).
func (rt *Runtime) tryMsg(v Value, src ast.SourceRange) (Value, Flow, error) {
	switch x := v.(type) {
	case Result:
		if x.Ok {
			return x.Val, ContinueFlow, nil
		}
		return rt.tryFail(x.Val, src)
	case Option:
		if x.IsSet {
			return x.Some, ContinueFlow, nil
		}
		return rt.tryFail(Text{Value: "Expected some(_), found none()"}, src)
	case Bool:
		if !x.Value {
			return rt.tryFail(Text{Value: "Must be `true`"}, src)
		}
		if len(x.Secret) == 0 {
			return rt.tryFail(Text{Value: "Expected true, perhaps an array is empty?"}, src)
		}
		return x, ContinueFlow, nil
	case F64:
		if math.IsNaN(x.Value) {
			return rt.tryFail(Text{Value: "Expected number, found NaN"}, src)
		}
		if len(x.Secret) == 0 {
			return rt.tryFail(Text{Value: "Expected number, perhaps an array is empty?"}, src)
		}
		return x, ContinueFlow, nil
	default:
		return nil, ContinueFlow, rt.errorf(src, "`?` cannot be applied to %s", TypeName(v))
	}
}

// tryFail implements `?`'s Err path: requires the enclosing function to
// have reserved a return slot, appends a trace frame, and returns with
// FlowReturn so the caller unwinds without executing anything further
// in the current block.
func (rt *Runtime) tryFail(errVal Value, src ast.SourceRange) (Value, Flow, error) {
	if !rt.hasReturnSlot() {
		return nil, ContinueFlow, rt.errorf(src, "Requires `->` on function to use `?`")
	}
	traced := Text{Value: rt.StackTrace() + "\n" + inspectErr(errVal)}
	rt.setReturnSlot(ErrValue(traced))
	return nil, ReturnFlow, nil
}

func inspectErr(v Value) string {
	if t, ok := v.(Text); ok {
		return t.Value
	}
	return Inspect(v)
}
