package runtime

import (
	"fmt"
	"testing"

	"github.com/dyon-lang/dyon/internal/ast"
	"github.com/dyon-lang/dyon/internal/module"
)

// testIntrinsics is a minimal Intrinsics stub covering exactly what
// the scenarios below call: printing (captured rather than written to
// stdout) and the Result/Option constructors, which have no dedicated
// AST literal and are modeled as ordinary calls (spec §6 "the standard
// library of built-in functions ... only the call interface is
// specified").
type testIntrinsics struct {
	names   []string
	printed []string
}

func newTestIntrinsics() *testIntrinsics {
	return &testIntrinsics{names: []string{"println", "clone", "err", "ok", "some", "none"}}
}

func (t *testIntrinsics) IndexOf(name string) (int, bool) {
	for i, n := range t.names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func (t *testIntrinsics) Call(index int, args []interface{}) (interface{}, error) {
	switch t.names[index] {
	case "println":
		t.printed = append(t.printed, Inspect(args[0].(Value)))
		return nil, nil
	case "clone":
		return args[0], nil
	case "err":
		return ErrValue(args[0].(Value)), nil
	case "ok":
		return OkValue(args[0].(Value)), nil
	case "some":
		return SomeValue(args[0].(Value)), nil
	case "none":
		return NoneValue(), nil
	default:
		return nil, fmt.Errorf("unknown intrinsic index %d", index)
	}
}

// newTestRuntime builds a Module containing fns (main among them,
// conventionally last or named "main") plus the shared testIntrinsics,
// and a Runtime ready to execute against it.
func newTestRuntime(fns ...*ast.Fn) (*Runtime, *testIntrinsics) {
	ti := newTestIntrinsics()
	mod := module.NewModule(module.NewPrelude(), module.NewUseLookup(), ti)
	for _, fn := range fns {
		mod.AddFunction(fn, "test.dyon")
	}
	return New(mod), ti
}

// runMain evaluates `main()` to completion and returns its result
// value (resolved through any Ref) plus the captured stdout lines.
func runMain(t *testing.T, fns ...*ast.Fn) (Value, []string) {
	t.Helper()
	rt, ti := newTestRuntime(fns...)
	v, flow, err := rt.evalCall(&ast.Call{Name: "main"})
	if err != nil {
		t.Fatalf("main() errored: %v", err)
	}
	if flow.Escapes() {
		t.Fatalf("main() escaped with flow %+v", flow)
	}
	return rt.Resolve(v), ti.printed
}

func block(exprs ...ast.Expression) *ast.Block {
	return &ast.Block{Exprs: exprs}
}

func item(name string) *ast.Item { return &ast.Item{Name: name} }

func call(name string, args ...ast.Expression) *ast.Call {
	return &ast.Call{Name: name, Args: args}
}

func assign(op ast.AssignOp, left, right ast.Expression) *ast.Assign {
	return &ast.Assign{Op: op, Left: left, Right: right}
}

func fn(name string, body *ast.Block) *ast.Fn {
	return &ast.Fn{Name: name, Body: body}
}

// TestSumLoop covers spec §8's sum-loop scenario: `a := sum i 0..3 {
// clone(i) }; println(a)` should accumulate 0+1+2 = 3. main is declared
// with `->` and returns a, so the test can inspect the value itself.
func TestSumLoop(t *testing.T) {
	acc := &ast.Accumulator{
		Kind:  ast.AccSum,
		Name:  "i",
		End:   &ast.F64Literal{Value: 3},
		Block: block(call("clone", item("i"))),
	}
	main := &ast.Fn{Name: "main", HasRet: true, Body: block(
		assign(ast.OpSet, item("a"), acc),
		call("println", item("a")),
		&ast.Return{Expr: item("a")},
	)}

	result, printed := runMain(t, main)

	f, ok := result.(F64)
	if !ok {
		t.Fatalf("main() returned %s, want f64", TypeName(result))
	}
	if f.Value != 3 {
		t.Errorf("sum = %v, want 3", f.Value)
	}
	if len(printed) != 1 || printed[0] != "3" {
		t.Errorf("printed %v, want [\"3\"]", printed)
	}
}

// TestMinWithWitness covers spec §8's min-with-indices scenario: `a :=
// min i 0..3 { if i == 1 { 0 } else { 10 } }` should settle on 0, with
// Secret carrying [1] (only the deciding iteration index, since the
// winning body value itself carried no secret of its own).
func TestMinWithWitness(t *testing.T) {
	body := block(&ast.If{
		Cond:      &ast.Compare{Op: ast.CmpEq, Left: item("i"), Right: &ast.F64Literal{Value: 1}},
		TrueBlock: block(&ast.F64Literal{Value: 0}),
		ElseBlock: block(&ast.F64Literal{Value: 10}),
	})
	acc := &ast.Accumulator{
		Kind:  ast.AccMin,
		Name:  "i",
		End:   &ast.F64Literal{Value: 3},
		Block: body,
	}
	main := &ast.Fn{Name: "main", HasRet: true, Body: block(
		assign(ast.OpSet, item("a"), acc),
		call("println", item("a")),
		&ast.Return{Expr: item("a")},
	)}

	result, printed := runMain(t, main)

	f, ok := result.(F64)
	if !ok {
		t.Fatalf("main() returned %s, want f64", TypeName(result))
	}
	if f.Value != 0 {
		t.Errorf("min = %v, want 0", f.Value)
	}
	if len(f.Secret) != 1 || f.Secret[0] != 1 {
		t.Errorf("min secret chain = %v, want [1]", f.Secret)
	}
	if len(printed) != 1 || printed[0] != "0" {
		t.Errorf("printed %v, want [\"0\"]", printed)
	}
}

// TestTryPropagation covers spec §8's try-propagation scenario: `f`
// tries an Err value and returns early with an Err whose text is the
// call stack at the `?` (`main`, then `f`) followed by the message;
// main returns what f gave it.
func TestTryPropagation(t *testing.T) {
	f := &ast.Fn{
		Name:   "f",
		HasRet: true,
		Body: block(
			assign(ast.OpSet, item("x"), &ast.Try{Expr: call("err", &ast.TextLiteral{Value: "boom"})}),
			&ast.Return{Expr: item("x")},
		),
	}
	main := &ast.Fn{Name: "main", HasRet: true, Body: block(
		assign(ast.OpSet, item("y"), call("f")),
		call("println", item("y")),
		&ast.Return{Expr: item("y")},
	)}

	result, printed := runMain(t, f, main)

	res, ok := result.(Result)
	if !ok {
		t.Fatalf("main() returned %s, want result", TypeName(result))
	}
	if res.Ok {
		t.Fatalf("f() succeeded, want Err propagated from the `?`")
	}
	trace, ok := res.Val.(Text)
	if !ok {
		t.Fatalf("err payload is %s, want text trace", TypeName(res.Val))
	}
	if !containsAll(trace.Value, "In function `f`", "boom") {
		t.Errorf("trace = %q, want it to name function `f` and the original message", trace.Value)
	}
	if len(printed) != 1 {
		t.Errorf("printed %v, want one line", printed)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !contains(s, sub) {
			return false
		}
	}
	return true
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

// TestSwizzleVec4 covers spec §8's swizzle scenario: `v := (1,2,3,4); a
// := xy v` should produce a 2-component Vec4 whose X/Y are 1/2, which
// main returns.
func TestSwizzleVec4(t *testing.T) {
	vecLit := &ast.Vec4Lit{Comps: []ast.Expression{
		&ast.F64Literal{Value: 1}, &ast.F64Literal{Value: 2},
		&ast.F64Literal{Value: 3}, &ast.F64Literal{Value: 4},
	}}
	swiz := &ast.Swizzle{SelectedComponents: []int{0, 1}, Expr: item("v")}
	main := &ast.Fn{Name: "main", HasRet: true, Body: block(
		assign(ast.OpSet, item("v"), vecLit),
		assign(ast.OpSet, item("a"), swiz),
		call("println", item("a")),
		&ast.Return{Expr: item("a")},
	)}

	result, printed := runMain(t, main)

	vec, ok := result.(Vec4)
	if !ok {
		t.Fatalf("main() returned %s, want vec4", TypeName(result))
	}
	if vec.X != 1 || vec.Y != 2 || vec.Arity != 2 {
		t.Errorf("swizzle = %+v, want X=1 Y=2 Arity=2", vec)
	}
	if len(printed) != 1 {
		t.Errorf("printed %v, want one line", printed)
	}
}

// TestClosureGrab covers spec §8's closure+grab scenario: inside each
// `for i 0..3` iteration, a closure grabs the loop variable and adds
// its argument to it; calling it with 10 should print 10, 11, 12.
func TestClosureGrab(t *testing.T) {
	closureLit := &ast.Closure{
		Args: []ast.ClosureArg{{Name: "x"}},
		Body: &ast.BinOp{
			Op:    ast.BinAdd,
			Left:  &ast.Grab{Expr: item("i")},
			Right: item("x"),
		},
	}
	loopBody := block(
		assign(ast.OpSet, item("f"), closureLit),
		call("println", &ast.CallClosure{
			Item: item("f"),
			Args: []ast.Expression{&ast.F64Literal{Value: 10}},
		}),
	)
	rangeFor := &ast.RangeFor{
		Name:  "i",
		End:   &ast.F64Literal{Value: 3},
		Block: loopBody,
	}
	main := fn("main", block(rangeFor))

	_, printed := runMain(t, main)

	want := []string{"10", "11", "12"}
	if len(printed) != len(want) {
		t.Fatalf("printed %v, want %v", printed, want)
	}
	for i, w := range want {
		if printed[i] != w {
			t.Errorf("printed[%d] = %q, want %q", i, printed[i], w)
		}
	}
}

// TestClosureGrabLevelBubbles covers spec §4.C's `'k` level prefix: a
// closure nested two deep (`mid` inside the loop, `inner` inside
// `mid`) grabs the loop variable with `grab '1 i`. Plain `grab i`
// inside `inner` would capture far too late (when `inner` is
// constructed, during a call to `mid`, by which point `i`'s binding
// from the loop iteration that built `mid` is gone); `'1` bubbles the
// capture up to `mid`'s own construction, where `i` is still in scope.
func TestClosureGrabLevelBubbles(t *testing.T) {
	innerClosure := &ast.Closure{
		Body: &ast.Grab{Level: 1, Expr: item("i")},
	}
	midClosure := &ast.Closure{
		Body: block(
			assign(ast.OpSet, item("inner"), innerClosure),
			call("println", &ast.CallClosure{Item: item("inner")}),
		),
	}
	loopBody := block(
		assign(ast.OpSet, item("mid"), midClosure),
		&ast.CallClosure{Item: item("mid")},
	)
	rangeFor := &ast.RangeFor{
		Name:  "i",
		End:   &ast.F64Literal{Value: 3},
		Block: loopBody,
	}
	main := fn("main", block(rangeFor))

	_, printed := runMain(t, main)

	want := []string{"0", "1", "2"}
	if len(printed) != len(want) {
		t.Fatalf("printed %v, want %v", printed, want)
	}
	for i, w := range want {
		if printed[i] != w {
			t.Errorf("printed[%d] = %q, want %q", i, printed[i], w)
		}
	}
}
