package runtime

import "github.com/dyon-lang/dyon/internal/ast"

func (rt *Runtime) evalVec4Lit(n *ast.Vec4Lit) (Value, Flow, error) {
	var comps [4]float64
	for i, c := range n.Comps {
		v, flow, err := rt.EvalR(c)
		if err != nil || flow.Escapes() {
			return nil, flow, err
		}
		f, ok := rt.Resolve(v).(F64)
		if !ok {
			return nil, ContinueFlow, rt.errorf(n.Src, "Expected number, found %s", TypeName(v))
		}
		comps[i] = f.Value
	}
	return Vec4{X: comps[0], Y: comps[1], Z: comps[2], W: comps[3], Arity: len(n.Comps)}, ContinueFlow, nil
}

func (rt *Runtime) evalMat4Lit(n *ast.Mat4Lit) (Value, Flow, error) {
	var m Mat4
	for i, c := range n.Comps {
		v, flow, err := rt.EvalR(c)
		if err != nil || flow.Escapes() {
			return nil, flow, err
		}
		f, ok := rt.Resolve(v).(F64)
		if !ok {
			return nil, ContinueFlow, rt.errorf(n.Src, "Expected number, found %s", TypeName(v))
		}
		m.M[i] = f.Value
	}
	return m, ContinueFlow, nil
}

// evalSwizzle is the standalone evaluation of `xy v`-style swizzles: it
// assembles the selected components into a Vec4 whose Arity equals the
// number selected, so the writer reuses the Vec4-literal-arity rule for
// printing it (spec §4.E "Swizzle"; ast.Swizzle's doc comment covers
// the dual evaluation this implements). Swizzle as a direct Call
// argument is special-cased by evalArgs instead, never reaching here.
func (rt *Runtime) evalSwizzle(n *ast.Swizzle) (Value, Flow, error) {
	v, flow, err := rt.EvalR(n.Expr)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}
	vec, ok := rt.Resolve(v).(Vec4)
	if !ok {
		return nil, ContinueFlow, rt.errorf(n.Src, "Expected vec4, found %s", TypeName(v))
	}
	var comps [4]float64
	for i, sel := range n.SelectedComponents {
		if i >= 4 {
			break
		}
		comps[i] = vec.Component(sel)
	}
	return Vec4{X: comps[0], Y: comps[1], Z: comps[2], W: comps[3], Arity: len(n.SelectedComponents)}, ContinueFlow, nil
}

func (rt *Runtime) evalLinkLit(n *ast.LinkLit) (Value, Flow, error) {
	link := NewLink()
	for _, item := range n.Items {
		v, flow, err := rt.EvalR(item)
		if err != nil || flow.Escapes() {
			return nil, flow, err
		}
		resolved := rt.Resolve(v)
		switch resolved.(type) {
		case Bool, F64, Text:
			link = link.AppendOne(resolved)
		default:
			return nil, ContinueFlow, rt.errorf(n.Src, "`push` rejects non-primitive value %s", TypeName(resolved))
		}
	}
	return link, ContinueFlow, nil
}

func (rt *Runtime) evalObjectLit(n *ast.ObjectLit) (Value, Flow, error) {
	obj := NewObject()
	for _, e := range n.Entries {
		v, flow, err := rt.EvalR(e.Value)
		if err != nil || flow.Escapes() {
			return nil, flow, err
		}
		obj.Fields[e.Key] = rt.Resolve(v)
	}
	return obj, ContinueFlow, nil
}

func (rt *Runtime) evalArrayLit(n *ast.ArrayLit) (Value, Flow, error) {
	items := make([]Value, 0, len(n.Items))
	for _, item := range n.Items {
		v, flow, err := rt.EvalR(item)
		if err != nil || flow.Escapes() {
			return nil, flow, err
		}
		items = append(items, rt.Resolve(v))
	}
	return NewArray(items), ContinueFlow, nil
}

func (rt *Runtime) evalArrayFill(n *ast.ArrayFill) (Value, Flow, error) {
	fillVal, flow, err := rt.EvalR(n.Fill)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}
	fillVal = rt.Resolve(fillVal)
	nv, flow, err := rt.EvalR(n.N)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}
	nf, ok := rt.Resolve(nv).(F64)
	if !ok {
		return nil, ContinueFlow, rt.errorf(n.Src, "Expected number, found %s", TypeName(nv))
	}
	count := int(nf.Value)
	items := make([]Value, count)
	for i := range items {
		items[i] = DeepClone(rt.Stack, fillVal)
	}
	return NewArray(items), ContinueFlow, nil
}
