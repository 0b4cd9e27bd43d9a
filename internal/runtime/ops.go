package runtime

import (
	"math"

	"github.com/dyon-lang/dyon/internal/ast"
)

func mod(a, b float64) float64 { return math.Mod(a, b) }

// evalBinOp implements the arithmetic/boolean binary operators.
// Secret propagates through arithmetic the same way it does through
// comparisons (SUPPLEMENTED in SPEC_FULL.md: "Secret propagation
// through arithmetic" — the distilled spec's §4.G only calls out
// comparisons explicitly, but the grounding source's binary-op
// evaluation combines the Secret chain of both F64 operands
// unconditionally).
func (rt *Runtime) evalBinOp(b *ast.BinOp) (Value, Flow, error) {
	lv, flow, err := rt.EvalR(b.Left)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}
	rv, flow, err := rt.EvalR(b.Right)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}
	lv, rv = rt.Resolve(lv), rt.Resolve(rv)

	switch b.Op {
	case ast.BinAnd, ast.BinOr:
		lb, ok1 := lv.(Bool)
		rb, ok2 := rv.(Bool)
		if !ok1 || !ok2 {
			return nil, ContinueFlow, rt.errorf(b.Src, "Expected bool %s bool", b.Op)
		}
		var res bool
		if b.Op == ast.BinAnd {
			res = lb.Value && rb.Value
		} else {
			res = lb.Value || rb.Value
		}
		return Bool{Value: res, Secret: mergeSecret(lb.Secret, rb.Secret)}, ContinueFlow, nil
	case ast.BinDot:
		return rt.vec4Dot(lv, rv, b.Src)
	}

	lf, ok1 := lv.(F64)
	rf, ok2 := rv.(F64)
	if ok1 && ok2 {
		v := F64{Secret: mergeSecret(lf.Secret, rf.Secret)}
		switch b.Op {
		case ast.BinAdd:
			v.Value = lf.Value + rf.Value
		case ast.BinSub:
			v.Value = lf.Value - rf.Value
		case ast.BinMul:
			v.Value = lf.Value * rf.Value
		case ast.BinDiv:
			v.Value = lf.Value / rf.Value
		case ast.BinRem:
			v.Value = mod(lf.Value, rf.Value)
		case ast.BinPow:
			v.Value = math.Pow(lf.Value, rf.Value)
		}
		return v, ContinueFlow, nil
	}

	lvec, ok1 := lv.(Vec4)
	rvec, ok2 := rv.(Vec4)
	if ok1 && ok2 && b.Op != ast.BinPow {
		return Vec4{
			X: vecOp(b.Op, lvec.X, rvec.X), Y: vecOp(b.Op, lvec.Y, rvec.Y),
			Z: vecOp(b.Op, lvec.Z, rvec.Z), W: vecOp(b.Op, lvec.W, rvec.W),
			Arity: 4,
		}, ContinueFlow, nil
	}
	if ok1 && !ok2 {
		if rs, ok := rv.(F64); ok {
			return Vec4{
				X: vecOp(b.Op, lvec.X, rs.Value), Y: vecOp(b.Op, lvec.Y, rs.Value),
				Z: vecOp(b.Op, lvec.Z, rs.Value), W: vecOp(b.Op, lvec.W, rs.Value),
				Arity: 4,
			}, ContinueFlow, nil
		}
	}

	if lt, ok1 := lv.(Text); ok1 && b.Op == ast.BinAdd {
		if rt2, ok2 := rv.(Text); ok2 {
			return Text{Value: lt.Value + rt2.Value}, ContinueFlow, nil
		}
	}
	if ll, ok1 := lv.(*Link); ok1 && b.Op == ast.BinAdd {
		if rl, ok2 := rv.(*Link); ok2 {
			return ll.Append(rl), ContinueFlow, nil
		}
	}
	if la, ok1 := lv.(*Array); ok1 && b.Op == ast.BinAdd {
		if ra, ok2 := rv.(*Array); ok2 {
			items := make([]Value, 0, len(la.Items)+len(ra.Items))
			items = append(items, la.Items...)
			items = append(items, ra.Items...)
			return NewArray(items), ContinueFlow, nil
		}
	}

	return nil, ContinueFlow, rt.errorf(b.Src, "Cannot apply `%s` to %s and %s", b.Op, TypeName(lv), TypeName(rv))
}

func vecOp(op ast.BinOpKind, a, b float64) float64 {
	switch op {
	case ast.BinAdd:
		return a + b
	case ast.BinSub:
		return a - b
	case ast.BinMul:
		return a * b
	case ast.BinDiv:
		return a / b
	case ast.BinRem:
		return mod(a, b)
	default:
		return a
	}
}

func (rt *Runtime) vec4Dot(lv, rv Value, src ast.SourceRange) (Value, Flow, error) {
	l, ok1 := lv.(Vec4)
	r, ok2 := rv.(Vec4)
	if !ok1 || !ok2 {
		return nil, ContinueFlow, rt.errorf(src, "Expected vec4 . vec4")
	}
	return F64{Value: l.X*r.X + l.Y*r.Y + l.Z*r.Z + l.W*r.W}, ContinueFlow, nil
}

// evalUnOp implements negation and boolean not.
func (rt *Runtime) evalUnOp(u *ast.UnOp) (Value, Flow, error) {
	v, flow, err := rt.EvalR(u.Expr)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}
	v = rt.Resolve(v)
	switch u.Op {
	case ast.UnNeg:
		switch x := v.(type) {
		case F64:
			return F64{Value: -x.Value, Secret: x.Secret}, ContinueFlow, nil
		case Vec4:
			return Vec4{X: -x.X, Y: -x.Y, Z: -x.Z, W: -x.W, Arity: x.Arity}, ContinueFlow, nil
		default:
			return nil, ContinueFlow, rt.errorf(u.Src, "Cannot negate %s", TypeName(v))
		}
	case ast.UnNot:
		b, ok := v.(Bool)
		if !ok {
			return nil, ContinueFlow, rt.errorf(u.Src, "Expected bool, found %s", TypeName(v))
		}
		return Bool{Value: !b.Value, Secret: b.Secret}, ContinueFlow, nil
	default:
		return nil, ContinueFlow, rt.errorf(u.Src, "Unknown unary operator")
	}
}

// evalNorm returns a vec4's Euclidean length as an f64, or an f64's
// absolute value (spec GLOSSARY "Norm").
func (rt *Runtime) evalNorm(n *ast.Norm) (Value, Flow, error) {
	v, flow, err := rt.EvalR(n.Expr)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}
	v = rt.Resolve(v)
	switch x := v.(type) {
	case F64:
		return F64{Value: math.Abs(x.Value), Secret: x.Secret}, ContinueFlow, nil
	case Vec4:
		length := math.Sqrt(x.X*x.X + x.Y*x.Y + x.Z*x.Z + x.W*x.W)
		if length == 0 {
			return F64{Value: 0}, ContinueFlow, nil
		}
		return F64{Value: length}, ContinueFlow, nil
	default:
		return nil, ContinueFlow, rt.errorf(n.Src, "Expected number or vec4, found %s", TypeName(v))
	}
}
