package runtime

import (
	"github.com/dyon-lang/dyon/internal/ast"
	"github.com/dyon-lang/dyon/internal/module"
)

// callFrame extends Call with the bookkeeping evalCall needs to unwind
// the value stack precisely back to "just the return value, if any"
// once the body finishes (spec §3.5, §4.F.2 "Call").
type callFrame struct {
	Call
	HasRet     bool
	ReturnSlot int // stack index of the reserved Return sentinel; valid iff HasRet
	ArgCount   int
}

// pushFrame parallels Runtime.CallStack with the extra bookkeeping;
// CallStack itself stays the plain spec-shaped Call record for
// StackTrace, while frameStack carries the return-slot/arg-count data
// only calls.go needs.
func (rt *Runtime) pushFrame(name, file string, index int, hasRet bool, argCount int) *callFrame {
	f := &callFrame{
		Call: Call{
			FnName: name, File: file, Index: index,
			StackLen: len(rt.Stack), LocalLen: len(rt.LocalStack), CurrentLen: len(rt.CurrentStack),
		},
		HasRet:   hasRet,
		ArgCount: argCount,
	}
	rt.CallStack = append(rt.CallStack, f.Call)
	rt.frameStack = append(rt.frameStack, f)
	return f
}

func (rt *Runtime) popFrame() *callFrame {
	n := len(rt.frameStack)
	f := rt.frameStack[n-1]
	rt.frameStack = rt.frameStack[:n-1]
	rt.CallStack = rt.CallStack[:len(rt.CallStack)-1]
	rt.LocalStack = rt.LocalStack[:f.LocalLen]
	rt.CurrentStack = rt.CurrentStack[:f.CurrentLen]
	return f
}

// setReturnSlot writes v into the innermost active frame's reserved
// return slot; used by `return expr` (spec §4.F.2 "Try"/"Return").
func (rt *Runtime) setReturnSlot(v Value) {
	if len(rt.frameStack) == 0 {
		return
	}
	f := rt.frameStack[len(rt.frameStack)-1]
	if f.HasRet {
		// Resolved now: a Ref into the frame would dangle once it pops.
		rt.Stack[f.ReturnSlot] = rt.Resolve(v)
	}
}

// hasReturnSlot reports whether the innermost active frame reserved a
// return slot, the check `try` (postfix `?`) needs before propagating
// an Err upward (spec §4.F.2 "Try": "Requires `->` on function").
func (rt *Runtime) hasReturnSlot() bool {
	if len(rt.frameStack) == 0 {
		return false
	}
	return rt.frameStack[len(rt.frameStack)-1].HasRet
}

func (rt *Runtime) evalCall(c *ast.Call) (Value, Flow, error) {
	if c.Alias != "" {
		return rt.evalAliasedCall(c)
	}
	relative := 0
	if len(rt.frameStack) > 0 {
		relative = rt.frameStack[len(rt.frameStack)-1].Index
	}
	target := rt.Module.FindFunction(c.Name, relative)
	switch target.Kind {
	case module.FnIntrinsic:
		return rt.callIntrinsic(target.Index, c)
	case module.FnExternalVoid, module.FnExternalReturn:
		return rt.callExternal(target, c)
	case module.FnLoaded:
		return rt.callLoaded(target.Index, c)
	default:
		return nil, ContinueFlow, rt.errorf(c.Src, "Could not find function `%s`", c.Name)
	}
}

// evalAliasedCall resolves `alias::name(args)` calls (spec §6
// "UseLookup"), mirroring the checker's typeAliasedCall resolution:
// validated against Module.Uses (the alias must actually have
// registered this name), then dispatched through the same flat
// Prelude/Intrinsics seam a bare call uses. It never falls through to
// Module's own byName table of locally loaded functions — an alias
// always names a function belonging to another module, and
// typeAliasedCall itself never resolves one to CallLoaded, only to an
// external or intrinsic dispatch.
func (rt *Runtime) evalAliasedCall(c *ast.Call) (Value, Flow, error) {
	if _, ok := rt.Module.Uses.Resolve(c.Alias, c.Name); !ok {
		return nil, ContinueFlow, rt.errorf(c.Src, "Could not find function `%s::%s`", c.Alias, c.Name)
	}
	if _, ok := rt.Module.Prelude.Lookup(c.Name); ok {
		return rt.callExternal(module.FnIndex{}, c)
	}
	if rt.Module.Intrinsics != nil {
		if idx, ok := rt.Module.Intrinsics.IndexOf(c.Name); ok {
			return rt.callIntrinsic(idx, c)
		}
	}
	return nil, ContinueFlow, rt.errorf(c.Src, "Could not find function `%s::%s`", c.Alias, c.Name)
}

// evalArgs evaluates a call's argument list left to right. A Swizzle
// argument expands into one F64 per selected component instead of a
// single Vec4, the "direct Call argument" half of ast.Swizzle's dual
// evaluation (the standalone half lives in evalSwizzle).
func (rt *Runtime) evalArgs(args []ast.Expression) ([]Value, Flow, error) {
	out := make([]Value, 0, len(args))
	for _, a := range args {
		if sw, ok := a.(*ast.Swizzle); ok {
			v, flow, err := rt.EvalR(sw.Expr)
			if err != nil || flow.Escapes() {
				return nil, flow, err
			}
			vec, ok := rt.Resolve(v).(Vec4)
			if !ok {
				return nil, ContinueFlow, rt.errorf(sw.Src, "Expected vec4, found %s", TypeName(v))
			}
			for _, sel := range sw.SelectedComponents {
				out = append(out, F64{Value: vec.Component(sel)})
			}
			continue
		}
		v, flow, err := rt.EvalR(a)
		if err != nil || flow.Escapes() {
			return nil, flow, err
		}
		out = append(out, rt.Resolve(v))
	}
	return out, ContinueFlow, nil
}

func (rt *Runtime) callIntrinsic(index int, c *ast.Call) (Value, Flow, error) {
	args, flow, err := rt.evalArgs(c.Args)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}
	boxed := make([]interface{}, len(args))
	for i, a := range args {
		boxed[i] = a
	}
	res, err := rt.Module.Intrinsics.Call(index, boxed)
	if err != nil {
		return nil, ContinueFlow, errorfAt(rt.StackTrace(), "%v", err)
	}
	if res == nil {
		return nil, ContinueFlow, nil
	}
	return res.(Value), ContinueFlow, nil
}

// callExternal invokes a host-provided function declared in the
// Prelude. Hosts register the actual Go function elsewhere (the
// embedding layer, pkg/embed); from the interpreter's view an extern
// looks exactly like an intrinsic call, so it reuses the same
// Intrinsics seam keyed by name (spec §6: "ExternalVoid(f) /
// ExternalReturn(f)" are both just "ask the host", no separate
// dispatch table needed on this side).
func (rt *Runtime) callExternal(target module.FnIndex, c *ast.Call) (Value, Flow, error) {
	args, flow, err := rt.evalArgs(c.Args)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}
	idx, ok := rt.Module.Intrinsics.IndexOf(c.Name)
	if !ok {
		return nil, ContinueFlow, rt.errorf(c.Src, "Extern `%s` has no host implementation", c.Name)
	}
	boxed := make([]interface{}, len(args))
	for i, a := range args {
		boxed[i] = a
	}
	res, err := rt.Module.Intrinsics.Call(idx, boxed)
	if err != nil {
		return nil, ContinueFlow, errorfAt(rt.StackTrace(), "%v", err)
	}
	if res == nil {
		return nil, ContinueFlow, nil
	}
	return res.(Value), ContinueFlow, nil
}

func (rt *Runtime) callLoaded(index int, c *ast.Call) (Value, Flow, error) {
	fn := rt.Module.Functions[index]
	args, flow, err := rt.evalArgs(c.Args)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}

	retSlot := -1
	if fn.Def.HasRet {
		retSlot = rt.Push(Return{})
	}
	argBase := len(rt.Stack)
	for _, a := range args {
		rt.Push(a)
	}

	rt.broadcastToChannel(index, args)

	f := rt.pushFrame(fn.Def.Name, fn.File, index, fn.Def.HasRet, len(args))
	f.ReturnSlot = retSlot
	for i, a := range fn.Def.Args {
		if i < len(args) {
			rt.LocalStack = append(rt.LocalStack, localEntry{Name: a.Name, Slot: argBase + i})
		}
	}

	bodyVal, bodyFlow, err := rt.EvalBlock(fn.Def.Body)
	if err != nil {
		rt.popFrame()
		return nil, ContinueFlow, err
	}
	if bodyFlow.Kind == FlowContinue && fn.Def.HasRet {
		rt.setReturnSlot(bodyVal)
	}
	if bodyFlow.Kind != FlowReturn && bodyFlow.Kind != FlowContinue {
		rt.popFrame()
		return nil, ContinueFlow, rt.errorf(c.Src, "`break`/`continue` escaped function `%s`", fn.Def.Name)
	}

	popped := rt.popFrame()
	rt.Stack = rt.Stack[:popped.StackLen]
	rt.Stack = rt.Stack[:len(rt.Stack)-popped.ArgCount]
	if popped.HasRet {
		result := rt.Stack[popped.ReturnSlot]
		rt.Stack = rt.Stack[:popped.ReturnSlot]
		return result, ContinueFlow, nil
	}
	return nil, ContinueFlow, nil
}

// broadcastToChannel feeds a deep-cloned snapshot of args to every live
// `in` receiver attached to fnIndex (spec §4.F.4).
func (rt *Runtime) broadcastToChannel(fnIndex int, args []Value) {
	ch, ok := rt.channels[fnIndex]
	if !ok || !ch.HasSenders.Load() {
		return
	}
	cloned := make([]Value, len(args))
	for i, a := range args {
		cloned[i] = DeepClone(rt.Stack, a)
	}
	arr := NewArray(cloned)
	ch.Broadcast(arr)
}

func (rt *Runtime) evalIn(n *ast.In) (Value, Flow, error) {
	relative := 0
	if len(rt.frameStack) > 0 {
		relative = rt.frameStack[len(rt.frameStack)-1].Index
	}
	target := rt.Module.FindFunction(n.Fn, relative)
	if target.Kind != module.FnLoaded {
		return nil, ContinueFlow, rt.errorf(n.Src, "Expected loaded function")
	}
	recv := rt.channel(target.Index).NewReceiver()
	return NewIn(recv), ContinueFlow, nil
}

func (rt *Runtime) evalGo(n *ast.Go) (Value, Flow, error) {
	args, flow, err := rt.evalArgs(n.Call.Args)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}
	cloned := make([]Value, len(args))
	for i, a := range args {
		cloned[i] = DeepClone(rt.Stack, a)
	}

	relative := 0
	if len(rt.frameStack) > 0 {
		relative = rt.frameStack[len(rt.frameStack)-1].Index
	}
	target := rt.Module.FindFunction(n.Call.Name, relative)
	if target.Kind != module.FnLoaded {
		return nil, ContinueFlow, rt.errorf(n.Src, "`go` requires a loaded function")
	}
	fn := rt.Module.Functions[target.Index]
	mod := rt.Module

	handle := Spawn(func() (Value, error) {
		sub := New(mod)
		sub.Rand = rt.Rand
		retSlot := -1
		if fn.Def.HasRet {
			retSlot = sub.Push(Return{})
		}
		for _, a := range cloned {
			sub.Push(a)
		}
		f := sub.pushFrame(fn.Def.Name, fn.File, target.Index, fn.Def.HasRet, len(cloned))
		f.ReturnSlot = retSlot
		bodyVal, bodyFlow, err := sub.EvalBlock(fn.Def.Body)
		if err != nil {
			return nil, err
		}
		if bodyFlow.Kind == FlowContinue && fn.Def.HasRet {
			sub.setReturnSlot(bodyVal)
		}
		popped := sub.popFrame()
		if popped.HasRet {
			return DeepClone(sub.Stack, sub.Stack[popped.ReturnSlot]), nil
		}
		return Void{}, nil
	})

	return NewThread(handle), ContinueFlow, nil
}
