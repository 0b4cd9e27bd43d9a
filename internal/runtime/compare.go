package runtime

import "github.com/dyon-lang/dyon/internal/ast"

// evalCompare implements spec §4.G: structural equality on
// arrays/objects/options/results, ordering only on F64/Text, equality
// only on Bool/Vec4. A secret-f64 operand compared with a plain f64
// lifts the result to Secret(Bool).
func (rt *Runtime) evalCompare(c *ast.Compare) (Value, Flow, error) {
	lv, flow, err := rt.EvalR(c.Left)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}
	rv, flow, err := rt.EvalR(c.Right)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}
	lv, rv = rt.Resolve(lv), rt.Resolve(rv)

	if lf, ok := lv.(F64); ok {
		if rf, ok := rv.(F64); ok {
			res, err := compareOrdered(c.Op, lf.Value, rf.Value)
			if err != nil {
				return nil, ContinueFlow, rt.errorf(c.Src, "%v", err)
			}
			return Bool{Value: res, Secret: mergeSecret(lf.Secret, rf.Secret)}, ContinueFlow, nil
		}
	}
	if lt, ok := lv.(Text); ok {
		if rtx, ok := rv.(Text); ok {
			var res bool
			switch c.Op {
			case ast.CmpEq:
				res = lt.Value == rtx.Value
			case ast.CmpNe:
				res = lt.Value != rtx.Value
			case ast.CmpLt:
				res = lt.Value < rtx.Value
			case ast.CmpLe:
				res = lt.Value <= rtx.Value
			case ast.CmpGt:
				res = lt.Value > rtx.Value
			case ast.CmpGe:
				res = lt.Value >= rtx.Value
			}
			return Bool{Value: res}, ContinueFlow, nil
		}
	}

	eq, ok := rt.structuralEqual(lv, rv)
	if ok {
		switch c.Op {
		case ast.CmpEq:
			return Bool{Value: eq}, ContinueFlow, nil
		case ast.CmpNe:
			return Bool{Value: !eq}, ContinueFlow, nil
		}
	}

	return nil, ContinueFlow, rt.errorf(c.Src, "Cannot compare %s %s %s", TypeName(lv), c.Op, TypeName(rv))
}

func compareOrdered(op ast.CompareOp, a, b float64) (bool, error) {
	switch op {
	case ast.CmpEq:
		return a == b, nil
	case ast.CmpNe:
		return a != b, nil
	case ast.CmpLt:
		return a < b, nil
	case ast.CmpLe:
		return a <= b, nil
	case ast.CmpGt:
		return a > b, nil
	case ast.CmpGe:
		return a >= b, nil
	default:
		return false, nil
	}
}

// structuralEqual reports (equal, comparable). comparable is false for
// type combinations §4.G forbids comparing at all (mismatched types
// outside the numeric/text special cases above).
func (rt *Runtime) structuralEqual(a, b Value) (bool, bool) {
	switch x := a.(type) {
	case Bool:
		y, ok := b.(Bool)
		if !ok {
			return false, false
		}
		return x.Value == y.Value, true
	case Vec4:
		y, ok := b.(Vec4)
		if !ok {
			return false, false
		}
		return x.X == y.X && x.Y == y.Y && x.Z == y.Z && x.W == y.W, true
	case *Array:
		y, ok := b.(*Array)
		if !ok {
			return false, false
		}
		if len(x.Items) != len(y.Items) {
			return false, true
		}
		for i := range x.Items {
			eq, comparable := rt.structuralEqual(rt.Resolve(x.Items[i]), rt.Resolve(y.Items[i]))
			if !comparable || !eq {
				return false, true
			}
		}
		return true, true
	case *Object:
		y, ok := b.(*Object)
		if !ok {
			return false, false
		}
		if len(x.Fields) != len(y.Fields) {
			return false, true
		}
		for k, v := range x.Fields {
			yv, ok := y.Fields[k]
			if !ok {
				return false, true
			}
			eq, comparable := rt.structuralEqual(rt.Resolve(v), rt.Resolve(yv))
			if !comparable || !eq {
				return false, true
			}
		}
		return true, true
	case Option:
		y, ok := b.(Option)
		if !ok {
			return false, false
		}
		if x.IsSet != y.IsSet {
			return false, true
		}
		if !x.IsSet {
			return true, true
		}
		eq, comparable := rt.structuralEqual(rt.Resolve(x.Some), rt.Resolve(y.Some))
		return eq && comparable, true
	case Result:
		y, ok := b.(Result)
		if !ok {
			return false, false
		}
		if x.Ok != y.Ok {
			return false, true
		}
		eq, comparable := rt.structuralEqual(rt.Resolve(x.Val), rt.Resolve(y.Val))
		return eq && comparable, true
	default:
		return false, false
	}
}
