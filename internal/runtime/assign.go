package runtime

import "github.com/dyon-lang/dyon/internal/ast"

// evalAssign implements spec §4.F.2's Assign rule: for compound ops,
// evaluate right first (so the left side's raw slot isn't invalidated
// by anything right's evaluation pushes), then left as LeftInsert(false),
// then combine in place. For Set with a bare new-name Item, declare a
// local (and current) binding instead of writing through one.
func (rt *Runtime) evalAssign(a *ast.Assign) (Value, Flow, error) {
	rightVal, flow, err := rt.EvalR(a.Right)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}
	rightVal = rt.Resolve(rightVal)

	item, isItem := a.Left.(*ast.Item)

	if a.Op == ast.OpSet && isItem && len(item.Ids) == 0 {
		slot := rt.Push(rightVal)
		rt.LocalStack = append(rt.LocalStack, localEntry{Name: item.Name, Slot: slot})
		if item.Current {
			rt.CurrentStack = append(rt.CurrentStack, currentEntry{Name: item.Name, Slot: slot})
		}
		return Void{}, ContinueFlow, nil
	}

	if !isItem {
		return nil, ContinueFlow, rt.errorf(a.Src, "Assignment target must be an item")
	}

	if a.Op == ast.OpSet {
		return rt.assignSet(item, rightVal)
	}
	return rt.assignCompound(a.Op, item, rightVal)
}

func (rt *Runtime) assignSet(item *ast.Item, rightVal Value) (Value, Flow, error) {
	slot, err := rt.resolveSlot(item)
	if err != nil {
		return nil, ContinueFlow, err
	}
	if len(item.Ids) == 0 {
		rt.Stack[slot] = rightVal
		return Void{}, ContinueFlow, nil
	}
	base := rt.Resolve(rt.Stack[slot])
	updated, err := rt.writePath(base, item.Ids, 0, rightVal, true, item.Src)
	if err != nil {
		return nil, ContinueFlow, err
	}
	rt.Stack[slot] = updated
	return Void{}, ContinueFlow, nil
}

func (rt *Runtime) assignCompound(op ast.AssignOp, item *ast.Item, rightVal Value) (Value, Flow, error) {
	slot, err := rt.resolveSlot(item)
	if err != nil {
		return nil, ContinueFlow, err
	}

	combine := func(cur Value) (Value, error) {
		return rt.combineAssign(op, cur, rightVal, item.Src)
	}

	if len(item.Ids) == 0 {
		cur := rt.Resolve(rt.Stack[slot])
		if _, ok := cur.(Return); ok {
			return nil, ContinueFlow, rt.errorf(item.Src, "Cannot apply `%s` to an uninitialized value", op.String())
		}
		next, err := combine(cur)
		if err != nil {
			return nil, ContinueFlow, err
		}
		rt.Stack[slot] = next
		return Void{}, ContinueFlow, nil
	}

	base := rt.Resolve(rt.Stack[slot])
	cur, err := rt.readPath(base, item.Ids, 0, item.Src)
	if err != nil {
		return nil, ContinueFlow, err
	}
	if _, ok := cur.(Return); ok {
		return nil, ContinueFlow, rt.errorf(item.Src, "Cannot apply `%s` to an uninitialized value", op.String())
	}
	next, err := combine(cur)
	if err != nil {
		return nil, ContinueFlow, err
	}
	updated, err := rt.writePath(base, item.Ids, 0, next, false, item.Src)
	if err != nil {
		return nil, ContinueFlow, err
	}
	rt.Stack[slot] = updated
	return Void{}, ContinueFlow, nil
}

func (rt *Runtime) combineAssign(op ast.AssignOp, cur, rhs Value, src ast.SourceRange) (Value, error) {
	switch l := cur.(type) {
	case F64:
		r, ok := rhs.(F64)
		if !ok {
			return nil, rt.errorf(src, "Expected number, found %s", TypeName(rhs))
		}
		return F64{Value: arith(op, l.Value, r.Value), Secret: mergeSecret(l.Secret, r.Secret)}, nil
	case Text:
		r, ok := rhs.(Text)
		if !ok || op != ast.OpAdd {
			return nil, rt.errorf(src, "Expected string concatenation")
		}
		return Text{Value: l.Value + r.Value}, nil
	case Vec4:
		r, ok := rhs.(Vec4)
		if !ok {
			return nil, rt.errorf(src, "Expected vec4, found %s", TypeName(rhs))
		}
		return NewVec4(
			arith(op, l.X, r.X), arith(op, l.Y, r.Y),
			arith(op, l.Z, r.Z), arith(op, l.W, r.W),
		), nil
	case *Link:
		r, ok := rhs.(*Link)
		if !ok || op != ast.OpAdd {
			return nil, rt.errorf(src, "Expected link concatenation")
		}
		return l.Append(r), nil
	case *Array:
		r, ok := rhs.(*Array)
		if !ok || op != ast.OpAdd {
			return nil, rt.errorf(src, "Expected array concatenation")
		}
		items := make([]Value, 0, len(l.Items)+len(r.Items))
		items = append(items, l.Items...)
		items = append(items, r.Items...)
		return NewArray(items), nil
	default:
		return nil, rt.errorf(src, "Cannot apply `%s` to %s", op.String(), TypeName(cur))
	}
}

func arith(op ast.AssignOp, a, b float64) float64 {
	switch op {
	case ast.OpAdd:
		return a + b
	case ast.OpSub:
		return a - b
	case ast.OpMul:
		return a * b
	case ast.OpDiv:
		return a / b
	case ast.OpRem:
		return mod(a, b)
	default:
		return b
	}
}
