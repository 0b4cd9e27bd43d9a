package runtime

import (
	"math"

	"github.com/dyon-lang/dyon/internal/ast"
)

// loopControl is how a loop should react to the Flow produced by one
// iteration's body.
type loopControl int

const (
	loopNext   loopControl = iota // carry on to the next iteration
	loopStop                      // this loop's own normal exit (a break matched its label)
	loopEscape                    // propagate bodyFlow to the caller unchanged
)

// loopReact classifies bodyFlow against a loop's own label, the shared
// decision behind every for_n/for_in variant's break_!/continue_! macros
// in the grounding source.
func loopReact(bodyFlow Flow, label string) loopControl {
	switch bodyFlow.Kind {
	case FlowContinue:
		return loopNext
	case FlowReturn:
		return loopEscape
	case FlowBreak:
		if bodyFlow.MatchesLoop(label) {
			return loopStop
		}
		return loopEscape
	case FlowContinueLoop:
		if bodyFlow.MatchesLoop(label) {
			return loopNext
		}
		return loopEscape
	default:
		return loopEscape
	}
}

func (rt *Runtime) truncateLoop(stackLen, localLen, currentLen int) {
	rt.Stack = rt.Stack[:stackLen]
	rt.LocalStack = rt.LocalStack[:localLen]
	rt.CurrentStack = rt.CurrentStack[:currentLen]
}

// evalRange evaluates a ranged loop's optional start (default 0) and
// required end expression to plain floats.
func (rt *Runtime) evalRange(startExpr, endExpr ast.Expression, src ast.SourceRange) (start, end float64, flow Flow, err error) {
	if startExpr != nil {
		v, fl, e := rt.EvalR(startExpr)
		if e != nil || fl.Escapes() {
			return 0, 0, fl, e
		}
		f, ok := rt.Resolve(v).(F64)
		if !ok {
			return 0, 0, ContinueFlow, rt.errorf(src, "Expected number from for start, found %s", TypeName(v))
		}
		start = f.Value
	}
	ev, fl, e := rt.EvalR(endExpr)
	if e != nil || fl.Escapes() {
		return 0, 0, fl, e
	}
	endF, ok := rt.Resolve(ev).(F64)
	if !ok {
		return 0, 0, ContinueFlow, rt.errorf(src, "Expected number from for end, found %s", TypeName(ev))
	}
	return start, endF.Value, ContinueFlow, nil
}

// evalRangeFor implements the bare ranged loop (spec §3.4 "ForN"):
// always Void, break/continue labeled per loopReact.
func (rt *Runtime) evalRangeFor(n *ast.RangeFor) (Value, Flow, error) {
	start, end, flow, err := rt.evalRange(n.Start, n.End, n.Src)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}

	stackLen, localLen, currentLen := len(rt.Stack), len(rt.LocalStack), len(rt.CurrentStack)
	for i := start; i < end; i++ {
		rt.Push(F64{Value: i})
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

// evalCFor implements the general C-style loop (spec §3.4 "For"). Init
// and Step are ordinary expressions (typically Assign); Init's binding
// lives for the whole loop and is torn down once the loop exits.
func (rt *Runtime) evalCFor(n *ast.CFor) (Value, Flow, error) {
	outerStack, outerLocal, outerCurrent := len(rt.Stack), len(rt.LocalStack), len(rt.CurrentStack)

	if n.Init != nil {
		_, flow, err := rt.EvalR(n.Init)
		if err != nil || flow.Escapes() {
			rt.truncateLoop(outerStack, outerLocal, outerCurrent)
			return nil, flow, err
		}
	}

	for {
		condVal, flow, err := rt.EvalR(n.Cond)
		if err != nil || flow.Escapes() {
			rt.truncateLoop(outerStack, outerLocal, outerCurrent)
			return nil, flow, err
		}
		b, ok := rt.Resolve(condVal).(Bool)
		if !ok {
			rt.truncateLoop(outerStack, outerLocal, outerCurrent)
			return nil, ContinueFlow, rt.errorf(n.Src, "Expected bool, found %s", TypeName(condVal))
		}
		if !b.Value {
			break
		}

		bodyStack, bodyLocal, bodyCurrent := len(rt.Stack), len(rt.LocalStack), len(rt.CurrentStack)
		_, bodyFlow, berr := rt.EvalBlock(n.Block)
		rt.truncateLoop(bodyStack, bodyLocal, bodyCurrent)

		if berr != nil {
			rt.truncateLoop(outerStack, outerLocal, outerCurrent)
			return nil, ContinueFlow, berr
		}
		switch loopReact(bodyFlow, n.Label) {
		case loopEscape:
			rt.truncateLoop(outerStack, outerLocal, outerCurrent)
			return nil, bodyFlow, nil
		case loopStop:
			rt.truncateLoop(outerStack, outerLocal, outerCurrent)
			return Void{}, ContinueFlow, nil
		}

		if n.Step != nil {
			_, stepFlow, serr := rt.EvalR(n.Step)
			if serr != nil || stepFlow.Escapes() {
				rt.truncateLoop(outerStack, outerLocal, outerCurrent)
				return nil, stepFlow, serr
			}
		}
	}

	rt.truncateLoop(outerStack, outerLocal, outerCurrent)
	return Void{}, ContinueFlow, nil
}

// evalAccumulator implements all ten ranged-loop accumulator families
// (spec §4.F.3) in one dispatch, sharing the same iteration skeleton as
// evalRangeFor. Secret on Bool/F64 results carries the chain of
// iteration indices that produced the value: min/max replace the chain
// whenever a new best is found (chainSecret of the body value's own
// secret plus the current index, matching for_n.rs's min_n_expr/
// max_n_expr); any/all set it once, on the short-circuiting iteration.
func (rt *Runtime) evalAccumulator(n *ast.Accumulator) (Value, Flow, error) {
	start, end, flow, err := rt.evalRange(n.Start, n.End, n.Src)
	if err != nil || flow.Escapes() {
		return nil, flow, err
	}

	var (
		sum, prod        float64 = 0, 1
		sumVec, prodVec          = [4]float64{}, [4]float64{1, 1, 1, 1}
		best                     = math.NaN()
		bestSecret        []int
		boolVal           = n.Kind == ast.AccAll // seed: any=false, all=true
		boolSecret        []int
		sifted            []Value
		link              = NewLink()
	)

	stackLen, localLen, currentLen := len(rt.Stack), len(rt.LocalStack), len(rt.CurrentStack)
	for i := start; i < end; i++ {
		rt.Push(F64{Value: i})
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
				best, bestSecret = f.Value, chainSecret(f.Secret, int(i))
			}
		case ast.AccMax:
			f, ok := v.(F64)
			if !ok {
				return nil, ContinueFlow, rt.errorf(n.Src, "Expected number, found %s", TypeName(v))
			}
			if math.IsNaN(best) || f.Value > best {
				best, bestSecret = f.Value, chainSecret(f.Secret, int(i))
			}
		case ast.AccAny:
			b, ok := v.(Bool)
			if !ok {
				return nil, ContinueFlow, rt.errorf(n.Src, "Expected boolean, found %s", TypeName(v))
			}
			if b.Value {
				boolVal, boolSecret = true, chainSecret(b.Secret, int(i))
				goto doneEarly
			}
		case ast.AccAll:
			b, ok := v.(Bool)
			if !ok {
				return nil, ContinueFlow, rt.errorf(n.Src, "Expected boolean, found %s", TypeName(v))
			}
			if !b.Value {
				boolVal, boolSecret = false, chainSecret(b.Secret, int(i))
				goto doneEarly
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
doneEarly:

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
