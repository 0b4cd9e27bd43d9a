package runtime

import (
	"github.com/dyon-lang/dyon/internal/ast"
	"github.com/dyon-lang/dyon/internal/config"
)

// lookupLocal finds name's stack slot by scanning local_stack from the
// end, shadowing earlier entries (spec §4.F.1: "name shadows earlier
// entries").
func (rt *Runtime) lookupLocal(item *ast.Item) (int, bool) {
	for i := len(rt.LocalStack) - 1; i >= 0; i-- {
		if rt.LocalStack[i].Name == item.Name {
			return rt.LocalStack[i].Slot, true
		}
	}
	return 0, false
}

// lookupCurrent searches current_stack right-to-left (spec §4.F.1).
func (rt *Runtime) lookupCurrent(item *ast.Item) (int, bool) {
	for i := len(rt.CurrentStack) - 1; i >= 0; i-- {
		if rt.CurrentStack[i].Name == item.Name {
			return rt.CurrentStack[i].Slot, true
		}
	}
	return 0, false
}

func (rt *Runtime) resolveSlot(item *ast.Item) (int, error) {
	var slot int
	var ok bool
	if item.Current {
		slot, ok = rt.lookupCurrent(item)
	} else {
		slot, ok = rt.lookupLocal(item)
	}
	if !ok {
		return 0, rt.errorf(item.Src, "Could not find `%s`", item.Name)
	}
	if config.DebugResolveGuard {
		if cached, set := item.ResolvedSlot.Get(); set && cached != slot {
			panic("dyon runtime: debug-resolve guard mismatch for " + item.Name)
		}
	}
	item.ResolvedSlot.Set(slot)
	return slot, nil
}

// evalItem implements spec §4.F.2's Item rule: with no Ids, either
// apply `try_msg` (Try set) or hand back a Ref to the slot; with Ids,
// a Right-side read walks the property chain functionally (readPath),
// while a LeftInsert evaluation defers the actual mutation to
// evalAssign, which calls writePath directly — Dyon's containers are
// immutable-with-copy-on-write in this tree rather than raw mutable
// pointers, so "the left-hand slot" is the base local's slot, not an
// interior pointer (see writePath).
func (rt *Runtime) evalItem(item *ast.Item, side Side) (Value, Flow, error) {
	slot, err := rt.resolveSlot(item)
	if err != nil {
		return nil, ContinueFlow, err
	}

	if len(item.Ids) == 0 {
		if item.Try {
			return rt.tryMsg(rt.Resolve(rt.Stack[slot]), item.Src)
		}
		return Ref{Index: slot}, ContinueFlow, nil
	}

	if side == SideLeftInsert {
		return UnsafeRef{Index: slot}, ContinueFlow, nil
	}

	v, err := rt.readPath(rt.Resolve(rt.Stack[slot]), item.Ids, 0, item.Src)
	if err != nil {
		return nil, ContinueFlow, err
	}
	return v, ContinueFlow, nil
}

// readPath walks the property chain for a read (spec §4.F.2
// "item_lookup"), resolving through Refs at every non-final hop and
// honoring per-segment `?`.
func (rt *Runtime) readPath(container Value, ids []ast.Id, i int, src ast.SourceRange) (Value, error) {
	if i == len(ids) {
		return container, nil
	}
	next, err := rt.stepInto(container, ids[i], false, src)
	if err != nil {
		return nil, err
	}
	next = rt.Resolve(next)
	if ids[i].Try {
		v, flow, err := rt.tryMsg(next, src)
		if err != nil {
			return nil, err
		}
		if flow.Kind != FlowContinue {
			return nil, rt.errorf(src, "try failed inside property chain")
		}
		next = v
	}
	return rt.readPath(next, ids, i+1, src)
}

// stepInto reads one id segment out of container without mutating it;
// insert controls whether a missing object key yields a Return
// sentinel (read-only probe ahead of a write) instead of erroring.
func (rt *Runtime) stepInto(container Value, id ast.Id, insert bool, src ast.SourceRange) (Value, error) {
	switch c := container.(type) {
	case *Object:
		key, err := rt.resolveKey(id, src)
		if err != nil {
			return nil, err
		}
		v, ok := c.Fields[key]
		if !ok {
			if insert {
				return Return{}, nil
			}
			return nil, rt.errorf(src, "Object has no key `%s`", key)
		}
		return v, nil
	case *Array:
		idx, err := rt.resolveIndex(id, src)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(c.Items) {
			return nil, rt.errorf(src, "Out of bounds `%d`", idx)
		}
		return c.Items[idx], nil
	default:
		return nil, rt.errorf(src, "Look up requires object or array, found %s", TypeName(container))
	}
}

// writePath returns a new top-level container with newVal spliced in
// along ids[i:], uniquifying every container on the path before
// mutating it (copy-on-write, spec §3.1 invariant: "writers that might
// be aliased must uniquify first"). The caller (evalAssign) writes the
// returned value back into the base local's stack slot.
func (rt *Runtime) writePath(container Value, ids []ast.Id, i int, newVal Value, insert bool, src ast.SourceRange) (Value, error) {
	id := ids[i]
	last := i == len(ids)-1

	switch c := container.(type) {
	case *Object:
		key, err := rt.resolveKey(id, src)
		if err != nil {
			return nil, err
		}
		uniq := Uniquify(c).(*Object)
		if last {
			if _, ok := uniq.Fields[key]; !ok && !insert {
				return nil, rt.errorf(src, "Object has no key `%s`", key)
			}
			uniq.Fields[key] = newVal
			return uniq, nil
		}
		child, ok := uniq.Fields[key]
		if !ok {
			return nil, rt.errorf(src, "Object has no key `%s`", key)
		}
		updated, err := rt.writePath(rt.Resolve(child), ids, i+1, newVal, insert, src)
		if err != nil {
			return nil, err
		}
		uniq.Fields[key] = updated
		return uniq, nil
	case *Array:
		idx, err := rt.resolveIndex(id, src)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(c.Items) {
			return nil, rt.errorf(src, "Out of bounds `%d`", idx)
		}
		uniq := Uniquify(c).(*Array)
		if last {
			uniq.Items[idx] = newVal
			return uniq, nil
		}
		updated, err := rt.writePath(rt.Resolve(uniq.Items[idx]), ids, i+1, newVal, insert, src)
		if err != nil {
			return nil, err
		}
		uniq.Items[idx] = updated
		return uniq, nil
	default:
		return nil, rt.errorf(src, "Look up requires object or array, found %s", TypeName(container))
	}
}

func (rt *Runtime) resolveKey(id ast.Id, src ast.SourceRange) (string, error) {
	switch id.Kind {
	case ast.IdString:
		return id.Str, nil
	case ast.IdExpr:
		v, _, err := rt.EvalR(id.Expr)
		if err != nil {
			return "", err
		}
		t, ok := rt.Resolve(v).(Text)
		if !ok {
			return "", rt.errorf(src, "Expected string")
		}
		return t.Value, nil
	default:
		return "", rt.errorf(src, "Expected string")
	}
}

func (rt *Runtime) resolveIndex(id ast.Id, src ast.SourceRange) (int, error) {
	switch id.Kind {
	case ast.IdF64:
		return int(id.Num), nil
	case ast.IdExpr:
		v, _, err := rt.EvalR(id.Expr)
		if err != nil {
			return 0, err
		}
		f, ok := rt.Resolve(v).(F64)
		if !ok {
			return 0, rt.errorf(src, "Expected number")
		}
		return int(f.Value), nil
	default:
		return 0, rt.errorf(src, "Expected number")
	}
}
