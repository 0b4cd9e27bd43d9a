package runtime

// DeepClone fully materializes v, resolving any Ref/UnsafeRef it
// reaches through stack and recursively cloning containers, so the
// result shares nothing mutable with its source (spec §5 "the spawned
// task receives a fresh Runtime with deep-cloned argument values").
// Primitive and already-immutable values (Bool, F64, Text share their
// Go string header which is itself immutable) return unchanged.
func DeepClone(stack []Value, v Value) Value {
	switch x := v.(type) {
	case Ref:
		return DeepClone(stack, stack[x.Index])
	case UnsafeRef:
		return DeepClone(stack, stack[x.Index])
	case *Array:
		items := make([]Value, len(x.Items))
		for i, it := range x.Items {
			items[i] = DeepClone(stack, it)
		}
		return &Array{Items: items}
	case *Object:
		fields := make(map[string]Value, len(x.Fields))
		for k, val := range x.Fields {
			fields[k] = DeepClone(stack, val)
		}
		return &Object{Fields: fields}
	case *Link:
		segs := make([][]Value, len(x.Segments))
		for i, s := range x.Segments {
			seg := make([]Value, len(s))
			for j, it := range s {
				seg[j] = DeepClone(stack, it)
			}
			segs[i] = seg
		}
		return &Link{Segments: segs}
	case Option:
		if !x.IsSet {
			return x
		}
		return Option{Some: DeepClone(stack, x.Some), IsSet: true}
	case Result:
		return Result{Val: DeepClone(stack, x.Val), Ok: x.Ok}
	case *Closure:
		grabbed := make(GrabValues, len(x.Grabbed))
		for node, g := range x.Grabbed {
			grabbed[node] = DeepClone(stack, g)
		}
		return &Closure{Def: x.Def, Grabbed: grabbed}
	default:
		return v
	}
}

// Uniquify returns a Value safe to mutate in place without affecting
// any other alias: containers get a shallow copy of their own backing
// slice/map (their *elements* are shared, matching the grounding
// source's Arc::make_mut which clones the container's spine but not
// every element transitively). Scalars return unchanged, since they
// have no backing store to alias.
func Uniquify(v Value) Value {
	switch x := v.(type) {
	case *Array:
		items := make([]Value, len(x.Items))
		copy(items, x.Items)
		return &Array{Items: items}
	case *Object:
		fields := make(map[string]Value, len(x.Fields))
		for k, val := range x.Fields {
			fields[k] = val
		}
		return &Object{Fields: fields}
	default:
		return v
	}
}
