package transform

import (
	"testing"

	"github.com/dyon-lang/dyon/internal/ast"
)

func block(exprs ...ast.Expression) *ast.Block {
	return &ast.Block{Exprs: exprs}
}

func item(name string) *ast.Item { return &ast.Item{Name: name} }

// indexed builds `arr[idx]`: a single Id segment whose Kind is IdExpr.
func indexed(arr, idxExpr ast.Expression) *ast.Item {
	base, ok := arr.(*ast.Item)
	if !ok {
		panic("indexed: base must be an Item")
	}
	cp := *base
	cp.Ids = []ast.Id{{Kind: ast.IdExpr, Expr: idxExpr}}
	return &cp
}

// TestInferFindsIndexUse covers spec §4.C's inference rule: the first
// `x[i]` use inside a loop's own body becomes that loop's end, `len(x)`.
func TestInferFindsIndexUse(t *testing.T) {
	body := block(&ast.Call{Name: "clone", Args: []ast.Expression{indexed(item("x"), item("i"))}})

	got := Infer(body, "i")

	call, ok := got.(*ast.Call)
	if !ok {
		t.Fatalf("Infer returned %T, want *ast.Call", got)
	}
	if call.Name != "len" {
		t.Fatalf("Infer call name = %q, want \"len\"", call.Name)
	}
	arg, ok := call.Args[0].(*ast.Item)
	if !ok || arg.Name != "x" {
		t.Fatalf("Infer len() argument = %#v, want Item(x)", call.Args[0])
	}
}

// TestInferNoUseReturnsNil covers the "None" case: no qualifying
// dereference anywhere in the body.
func TestInferNoUseReturnsNil(t *testing.T) {
	body := block(&ast.Call{Name: "println", Args: []ast.Expression{item("i")}})
	if got := Infer(body, "i"); got != nil {
		t.Fatalf("Infer = %#v, want nil (no x[i] use present)", got)
	}
}

// TestInferStopsAtShadowingDecl covers the "must not descend into
// scopes that rebind n" rule applied to a nested loop whose counter
// rebinds the index name itself.
func TestInferStopsAtShadowingDecl(t *testing.T) {
	inner := &ast.RangeFor{
		Name:  "i", // shadows the outer "i" we're inferring for
		End:   &ast.F64Literal{Value: 3},
		Block: block(&ast.Call{Name: "clone", Args: []ast.Expression{indexed(item("x"), item("i"))}}),
	}
	body := block(inner)

	if got := Infer(body, "i"); got != nil {
		t.Fatalf("Infer = %#v, want nil (inner loop shadows i, use is not the outer one)", got)
	}
}

// TestFillLoopEndsInPlace covers FillLoopEnds's driver role: a RangeFor
// with End == nil gets one filled in from its own body.
func TestFillLoopEndsInPlace(t *testing.T) {
	loop := &ast.RangeFor{
		Name:  "i",
		Block: block(&ast.Call{Name: "clone", Args: []ast.Expression{indexed(item("x"), item("i"))}}),
	}
	fn := &ast.Fn{Name: "main", Body: block(loop)}

	FillLoopEnds(fn)

	if loop.End == nil {
		t.Fatalf("FillLoopEnds left End nil")
	}
	call, ok := loop.End.(*ast.Call)
	if !ok || call.Name != "len" {
		t.Fatalf("loop.End = %#v, want len(...) call", loop.End)
	}
}

// TestNumberSubstitutesBareItem covers spec §4.C's constant
// substitution: every unqualified `n` occurrence becomes the literal.
func TestNumberSubstitutesBareItem(t *testing.T) {
	expr := &ast.BinOp{Op: ast.BinAdd, Left: item("n"), Right: &ast.F64Literal{Value: 1}}

	got := Number(expr, "n", 5)

	bin, ok := got.(*ast.BinOp)
	if !ok {
		t.Fatalf("Number returned %T, want *ast.BinOp", got)
	}
	lit, ok := bin.Left.(*ast.F64Literal)
	if !ok || lit.Value != 5 {
		t.Fatalf("substituted left = %#v, want F64Literal(5)", bin.Left)
	}
}

// TestNumberStopsAfterRedeclaration covers number_block's "just clone"
// behavior: once a block statement assigns directly to the target
// name, every following statement is left untouched instead of
// substituted into (this port's carried-over asymmetry with Infer's
// declaration tracking, see DESIGN.md).
func TestNumberStopsAfterRedeclaration(t *testing.T) {
	redecl := &ast.Assign{Op: ast.OpSet, Left: item("n"), Right: &ast.F64Literal{Value: 9}}
	after := &ast.Call{Name: "clone", Args: []ast.Expression{item("n")}}
	body := block(redecl, after)

	got := numberBlock(body, "n", 5)

	if len(got.Exprs) != 2 {
		t.Fatalf("numberBlock produced %d statements, want 2", len(got.Exprs))
	}
	if got.Exprs[1] != ast.Expression(after) {
		t.Errorf("statement after redeclaration was rewritten, want it left untouched by identity")
	}
}

// TestCollectGrabsStopsAtNestedClosure covers CollectGrabs's boundary:
// a grab inside a nested closure literal belongs to that closure's own
// capture set, not the outer one's.
func TestCollectGrabsStopsAtNestedClosure(t *testing.T) {
	outerGrab := &ast.Grab{Expr: item("a")}
	innerGrab := &ast.Grab{Expr: item("b")}
	nested := &ast.Closure{Body: innerGrab}
	body := &ast.BinOp{Op: ast.BinAdd, Left: outerGrab, Right: nested}

	grabs := CollectGrabs(body)

	if len(grabs) != 1 || grabs[0] != outerGrab {
		t.Fatalf("CollectGrabs = %#v, want exactly [outerGrab]", grabs)
	}
}

// TestCollectGrabSitesTagsDepth covers the `'k` level prefix's
// groundwork: a grab nested through two closure literals is tagged
// Depth 2, one nested through one is Depth 1, and one in the top body
// is Depth 0 — regardless of each Grab's own Level field, which is
// only interpreted later by the runtime.
func TestCollectGrabSitesTagsDepth(t *testing.T) {
	level2 := &ast.Grab{Level: 2, Expr: item("c")}
	level1 := &ast.Grab{Level: 1, Expr: item("b")}
	level0 := &ast.Grab{Expr: item("a")}
	innermost := &ast.Closure{Body: level2}
	middle := &ast.Closure{Body: &ast.BinOp{Op: ast.BinAdd, Left: level1, Right: innermost}}
	body := &ast.BinOp{Op: ast.BinAdd, Left: level0, Right: middle}

	sites := CollectGrabSites(body)

	depths := map[*ast.Grab]int{}
	for _, s := range sites {
		depths[s.Node] = s.Depth
	}
	if depths[level0] != 0 {
		t.Errorf("level0 depth = %d, want 0", depths[level0])
	}
	if depths[level1] != 1 {
		t.Errorf("level1 depth = %d, want 1", depths[level1])
	}
	if depths[level2] != 2 {
		t.Errorf("level2 depth = %d, want 2", depths[level2])
	}
}
