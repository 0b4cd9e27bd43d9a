package lifetime

import (
	"strings"
	"testing"

	"github.com/dyon-lang/dyon/internal/ast"
	"github.com/dyon-lang/dyon/internal/module"
	"github.com/dyon-lang/dyon/internal/typesystem"
)

func block(exprs ...ast.Expression) *ast.Block { return &ast.Block{Exprs: exprs} }
func item(name string) *ast.Item               { return &ast.Item{Name: name} }

func newTestModule(fns ...*ast.Fn) *module.Module {
	prelude := module.NewPrelude()
	prelude.Add(module.ExternSig{Name: "println", Args: []string{"any"}, HasRet: false})
	prelude.Add(module.ExternSig{Name: "clone", Args: []string{"any"}, HasRet: true, Ret: "any"})
	mod := module.NewModule(prelude, module.NewUseLookup(), nil)
	for _, fn := range fns {
		mod.AddFunction(fn, "test.dyon")
	}
	return mod
}

func wantTag(t *testing.T, err error, tag int) {
	t.Helper()
	if err == nil {
		t.Fatalf("Check succeeded, want error #%d", tag)
	}
	te, ok := err.(*typesystem.TypeError)
	if !ok {
		t.Fatalf("Check error is %T (%v), want *typesystem.TypeError", err, err)
	}
	if te.Tag != tag {
		t.Fatalf("Check error tag = #%d (%v), want #%d", te.Tag, err, tag)
	}
}

// TestSumLoopTypechecks covers spec §8's sum-loop scenario: `a := sum i
// 0..3 { clone(i) }; println(a)` type-checks cleanly as a Void main.
func TestSumLoopTypechecks(t *testing.T) {
	acc := &ast.Accumulator{
		Kind:  ast.AccSum,
		Name:  "i",
		End:   &ast.F64Literal{Value: 3},
		Block: block(&ast.Call{Name: "clone", Args: []ast.Expression{item("i")}}),
	}
	main := &ast.Fn{Name: "main", Body: block(
		&ast.Assign{Op: ast.OpSet, Left: item("a"), Right: acc},
		&ast.Call{Name: "println", Args: []ast.Expression{item("a")}},
	)}

	if err := Check(newTestModule(main)); err != nil {
		t.Fatalf("Check() = %v, want nil", err)
	}
}

// TestUnusedResultErrors covers Phase 2's Block lint (#1100): a bare
// non-void expression statement before the block's last one is an error.
func TestUnusedResultErrors(t *testing.T) {
	main := &ast.Fn{Name: "main", Body: block(
		&ast.F64Literal{Value: 1}, // unused
		&ast.F64Literal{Value: 2},
	)}
	wantTag(t, Check(newTestModule(main)), tagUnusedResult)
}

// TestIfConditionMustBeBool covers Phase 2's If rule (#1400).
func TestIfConditionMustBeBool(t *testing.T) {
	main := &ast.Fn{Name: "main", Body: block(
		&ast.If{
			Cond:      &ast.F64Literal{Value: 1},
			TrueBlock: block(),
		},
	)}
	wantTag(t, Check(newTestModule(main)), tagIfCond)
}

// TestCallArgMismatchAgainstLoaded covers the Call rule's #100 branch:
// a loaded function's declared parameter type rejects the argument.
func TestCallArgMismatchAgainstLoaded(t *testing.T) {
	callee := &ast.Fn{
		Name: "needsBool",
		Args: []ast.FnArg{{Name: "b", Ty: typesystem.Bool{}}},
		Body: block(&ast.Assign{Op: ast.OpSet, Left: item("x"), Right: &ast.F64Literal{Value: 0}}),
	}
	main := &ast.Fn{Name: "main", Body: block(
		&ast.Call{Name: "needsBool", Args: []ast.Expression{&ast.F64Literal{Value: 1}}},
	)}
	wantTag(t, Check(newTestModule(callee, main)), tagCallArgLocal)
}

// TestGrabOfVoidErrors covers Grab's #325 rule inside a closure body.
func TestGrabOfVoidErrors(t *testing.T) {
	main := &ast.Fn{Name: "main", Body: block(
		&ast.Assign{Op: ast.OpSet, Left: item("v"), Right: &ast.F64Literal{Value: 1}},
		&ast.Assign{Op: ast.OpSet, Left: item("f"), Right: &ast.Closure{
			Body: &ast.Grab{Expr: &ast.Assign{Op: ast.OpSet, Left: item("w"), Right: item("v")}},
		}},
	)}
	err := Check(newTestModule(main))
	wantTag(t, err, tagGrabVoid)
	if !strings.Contains(err.Error(), "void") {
		t.Errorf("error = %v, want it to mention void", err)
	}
}

// TestSwizzleRequiresVec4 covers Swizzle's #1200 rule.
func TestSwizzleRequiresVec4(t *testing.T) {
	main := &ast.Fn{Name: "main", Body: block(
		&ast.Assign{Op: ast.OpSet, Left: item("a"), Right: &ast.F64Literal{Value: 1}},
		&ast.Assign{Op: ast.OpSet, Left: item("b"), Right: &ast.Swizzle{SelectedComponents: []int{0, 1}, Expr: item("a")}},
	)}
	wantTag(t, Check(newTestModule(main)), tagSwizzleNotVec4)
}

// TestReturnMismatchAgainstFn covers Return vs. the enclosing Fn's
// declared type (#1200, this port's collapsed inference/consistency tag).
func TestReturnMismatchAgainstFn(t *testing.T) {
	fn := &ast.Fn{
		Name:   "f",
		HasRet: true,
		Ret:    typesystem.Bool{},
		Body:   block(&ast.Return{Expr: &ast.F64Literal{Value: 1}}),
	}
	wantTag(t, Check(newTestModule(fn)), tagReturnVsFn)
}

// TestGoRequiresNonVoidReturn covers Go's #900 rule.
func TestGoRequiresNonVoidReturn(t *testing.T) {
	voidFn := &ast.Fn{Name: "work", Body: block(
		&ast.Assign{Op: ast.OpSet, Left: item("x"), Right: &ast.F64Literal{Value: 0}},
	)}
	main := &ast.Fn{Name: "main", Body: block(
		&ast.Go{Call: &ast.Call{Name: "work"}},
	)}
	wantTag(t, Check(newTestModule(voidFn, main)), tagGoRequiresRet)
}
