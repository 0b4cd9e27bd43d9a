package runtime

import (
	"math"

	"github.com/dyon-lang/dyon/internal/ast"
)

// collectionItems resolves a ForIn/AccumulatorIn's collection expression
// to the slice of values it iterates. Array and Link are both ordered
// sequences; iterating a Link flattens its segments up front since the
// original's `for_in.rs` has no separate rope-walking fast path.
func (rt *Runtime) collectionItems(expr ast.Expression, src ast.SourceRange) ([]Value, Flow, error) {
	v, flow, err := rt.EvalR(expr)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}
	switch c := rt.Resolve(v).(type) {
	case *Array:
		return c.Items, ContinueFlow, nil
	case *Link:
		return c.Items(), ContinueFlow, nil
	default:
		return nil, ContinueFlow, rt.errorf(src, "Expected array or link, found %s", TypeName(v))
	}
}

// evalForIn implements the bare collection loop `for x in coll { ... }`
// (spec §3.4 "ForIn"), always Void.
func (rt *Runtime) evalForIn(n *ast.ForIn) (Value, Flow, error) {
	items, flow, err := rt.collectionItems(n.Collection, n.Src)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}

	stackLen, localLen, currentLen := len(rt.Stack), len(rt.LocalStack), len(rt.CurrentStack)
	for _, item := range items {
		rt.Push(DeepClone(rt.Stack, item))
		rt.LocalStack = append(rt.LocalStack, localEntry{Name: n.Name, Slot: len(rt.Stack) - 1})

		_, bodyFlow, berr := rt.EvalBlock(n.Block)
		rt.truncateLoop(stackLen, localLen, currentLen)

		if berr != nil {
			return nil, ContinueFlow, berr
		}
		switch loopReact(bodyFlow, n.Label) {
		case loopEscape:
			return nil, bodyFlow, nil
		case loopStop:
			return Void{}, ContinueFlow, nil
		}
	}
	return Void{}, ContinueFlow, nil
}

// evalAccumulatorIn is the collection-loop counterpart of
// evalAccumulator, sharing the same ten-kind dispatch and secret-chain
// conventions; only the iteration source differs (a materialized
// collection rather than a numeric range, so the chained index is the
// item's position rather than a loop counter value).
func (rt *Runtime) evalAccumulatorIn(n *ast.AccumulatorIn) (Value, Flow, error) {
	items, flow, err := rt.collectionItems(n.Collection, n.Src)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}

	var (
		sum, prod       float64 = 0, 1
		sumVec, prodVec         = [4]float64{}, [4]float64{1, 1, 1, 1}
		best                    = math.NaN()
		bestSecret       []int
		boolVal          = n.Kind == ast.AccAll
		boolSecret       []int
		sifted           []Value
		link             = NewLink()
	)

	stackLen, localLen, currentLen := len(rt.Stack), len(rt.LocalStack), len(rt.CurrentStack)
	for idx, item := range items {
		rt.Push(DeepClone(rt.Stack, item))
		rt.LocalStack = append(rt.LocalStack, localEntry{Name: n.Name, Slot: len(rt.Stack) - 1})

		bodyVal, bodyFlow, berr := rt.EvalBlock(n.Block)
		rt.truncateLoop(stackLen, localLen, currentLen)

		if berr != nil {
			return nil, ContinueFlow, berr
		}
		ctrl := loopReact(bodyFlow, n.Label)
		if ctrl == loopEscape {
			return nil, bodyFlow, nil
		}
		if ctrl == loopStop {
			break
		}

		v := rt.Resolve(bodyVal)
		switch n.Kind {
		case ast.AccSum:
			f, ok := v.(F64)
			if !ok {
				return nil, ContinueFlow, rt.errorf(n.Src, "Expected number, found %s", TypeName(v))
			}
			sum += f.Value
		case ast.AccProd:
			f, ok := v.(F64)
			if !ok {
				return nil, ContinueFlow, rt.errorf(n.Src, "Expected number, found %s", TypeName(v))
			}
			prod *= f.Value
		case ast.AccSumVec4:
			vec, ok := v.(Vec4)
			if !ok {
				return nil, ContinueFlow, rt.errorf(n.Src, "Expected vec4, found %s", TypeName(v))
			}
			sumVec[0] += vec.X
			sumVec[1] += vec.Y
			sumVec[2] += vec.Z
			sumVec[3] += vec.W
		case ast.AccProdVec4:
			vec, ok := v.(Vec4)
			if !ok {
				return nil, ContinueFlow, rt.errorf(n.Src, "Expected vec4, found %s", TypeName(v))
			}
			prodVec[0] *= vec.X
			prodVec[1] *= vec.Y
			prodVec[2] *= vec.Z
			prodVec[3] *= vec.W
		case ast.AccMin:
			f, ok := v.(F64)
			if !ok {
				return nil, ContinueFlow, rt.errorf(n.Src, "Expected number, found %s", TypeName(v))
			}
			if math.IsNaN(best) || f.Value < best {
				best, bestSecret = f.Value, chainSecret(f.Secret, idx)
			}
		case ast.AccMax:
			f, ok := v.(F64)
			if !ok {
				return nil, ContinueFlow, rt.errorf(n.Src, "Expected number, found %s", TypeName(v))
			}
			if math.IsNaN(best) || f.Value > best {
				best, bestSecret = f.Value, chainSecret(f.Secret, idx)
			}
		case ast.AccAny:
			b, ok := v.(Bool)
			if !ok {
				return nil, ContinueFlow, rt.errorf(n.Src, "Expected boolean, found %s", TypeName(v))
			}
			if b.Value {
				boolVal, boolSecret = true, chainSecret(b.Secret, idx)
				return Bool{Value: boolVal, Secret: boolSecret}, ContinueFlow, nil
			}
		case ast.AccAll:
			b, ok := v.(Bool)
			if !ok {
				return nil, ContinueFlow, rt.errorf(n.Src, "Expected boolean, found %s", TypeName(v))
			}
			if !b.Value {
				boolVal, boolSecret = false, chainSecret(b.Secret, idx)
				return Bool{Value: boolVal, Secret: boolSecret}, ContinueFlow, nil
			}
		case ast.AccSift:
			sifted = append(sifted, v)
		case ast.AccLink:
			l, ok := v.(*Link)
			if !ok {
				return nil, ContinueFlow, rt.errorf(n.Src, "Expected link, found %s", TypeName(v))
			}
			link = link.Append(l)
		}
	}

	switch n.Kind {
	case ast.AccSum:
		return F64{Value: sum}, ContinueFlow, nil
	case ast.AccProd:
		return F64{Value: prod}, ContinueFlow, nil
	case ast.AccSumVec4:
		return NewVec4(sumVec[0], sumVec[1], sumVec[2], sumVec[3]), ContinueFlow, nil
	case ast.AccProdVec4:
		return NewVec4(prodVec[0], prodVec[1], prodVec[2], prodVec[3]), ContinueFlow, nil
	case ast.AccMin, ast.AccMax:
		return F64{Value: best, Secret: bestSecret}, ContinueFlow, nil
	case ast.AccAny, ast.AccAll:
		return Bool{Value: boolVal, Secret: boolSecret}, ContinueFlow, nil
	case ast.AccSift:
		return NewArray(sifted), ContinueFlow, nil
	case ast.AccLink:
		return link, ContinueFlow, nil
	default:
		return Void{}, ContinueFlow, nil
	}
}
