package embed_test

import (
	"testing"

	"github.com/dyon-lang/dyon/internal/ast"
	"github.com/dyon-lang/dyon/internal/module"
	"github.com/dyon-lang/dyon/internal/runtime"
	"github.com/dyon-lang/dyon/internal/typesystem"
	"github.com/dyon-lang/dyon/pkg/embed"
)

func TestPushPopRoundTrip(t *testing.T) {
	v, err := embed.Push(3.5)
	if err != nil {
		t.Fatalf("Push(3.5) = %v", err)
	}
	if _, ok := v.(runtime.F64); !ok {
		t.Fatalf("Push(3.5) = %T, want runtime.F64", v)
	}

	got, err := embed.Pop[float64](v)
	if err != nil {
		t.Fatalf("Pop[float64] = %v", err)
	}
	if got != 3.5 {
		t.Fatalf("Pop[float64] = %v, want 3.5", got)
	}

	if _, err := embed.Pop[string](v); err == nil {
		t.Fatalf("Pop[string] on an f64 value succeeded, want a mismatch error")
	}
}

func TestPushPopVec4(t *testing.T) {
	v, err := embed.PushVec4([3]float32{1, 2, 3})
	if err != nil {
		t.Fatalf("PushVec4 = %v", err)
	}
	if v.X != 1 || v.Y != 2 || v.Z != 3 || v.W != 0 {
		t.Fatalf("PushVec4([3]float32{1,2,3}) = %+v, want X=1 Y=2 Z=3 W=0", v)
	}

	back, err := embed.PopVec4[[3]float32](v)
	if err != nil {
		t.Fatalf("PopVec4 = %v", err)
	}
	if back != [3]float32{1, 2, 3} {
		t.Fatalf("PopVec4 round trip = %v, want [1 2 3]", back)
	}
}

func TestPushPopVec4ByteConversion(t *testing.T) {
	v, err := embed.PushVec4([4]uint8{0, 128, 255, 255})
	if err != nil {
		t.Fatalf("PushVec4 = %v", err)
	}
	if v.X != 0 || v.W != 1 {
		t.Fatalf("PushVec4 byte conversion = %+v, want X=0 W=1", v)
	}

	back, err := embed.PopVec4[[4]uint8](v)
	if err != nil {
		t.Fatalf("PopVec4 = %v", err)
	}
	if back[0] != 0 || back[3] != 255 {
		t.Fatalf("PopVec4 byte round trip = %v, want [0 ... 255]", back)
	}
}

// TestHostRunCallsRegisteredFunc covers the host-embedding seam end to
// end: a Go function registered on a Host is callable from a loaded
// Dyon function, and Run type-checks then evaluates it.
func TestHostRunCallsRegisteredFunc(t *testing.T) {
	host := embed.NewHost()
	if err := host.RegisterFunc("double", func(x float64) float64 { return x * 2 }); err != nil {
		t.Fatalf("RegisterFunc = %v", err)
	}

	main := &ast.Fn{
		Name:   "main",
		HasRet: true,
		Ret:    typesystem.F64{},
		Body: &ast.Block{Exprs: []ast.Expression{
			&ast.Return{Expr: &ast.Call{Name: "double", Args: []ast.Expression{&ast.F64Literal{Value: 21}}}},
		}},
	}
	mod := module.NewModule(module.NewPrelude(), module.NewUseLookup(), host)
	mod.AddFunction(main, "host_test.dyon")

	result, err := embed.Run(mod, "main")
	if err != nil {
		t.Fatalf("Run = %v", err)
	}

	got, err := embed.Pop[float64](result)
	if err != nil {
		t.Fatalf("Pop[float64](result) = %v", err)
	}
	if got != 42 {
		t.Fatalf("result = %v, want 42", got)
	}
}

// TestRunSurfacesTypeError covers Run's type-check gate: a program the
// checker rejects never reaches the runtime at all.
func TestRunSurfacesTypeError(t *testing.T) {
	main := &ast.Fn{Name: "main", Body: &ast.Block{Exprs: []ast.Expression{
		&ast.If{
			Cond:      &ast.F64Literal{Value: 1},
			TrueBlock: &ast.Block{},
		},
	}}}
	mod := module.NewModule(module.NewPrelude(), module.NewUseLookup(), nil)
	mod.AddFunction(main, "host_test.dyon")

	if _, err := embed.Run(mod, "main"); err == nil {
		t.Fatalf("Run succeeded, want the If-condition type error to surface")
	}
}

func TestPushHostWrapsOpaqueValue(t *testing.T) {
	type widget struct{ N int }
	v := embed.PushHost(&widget{N: 7})
	ho, ok := v.(*runtime.HostObject)
	if !ok {
		t.Fatalf("PushHost = %T, want *runtime.HostObject", v)
	}
	w, ok := ho.Value.(*widget)
	if !ok || w.N != 7 {
		t.Fatalf("PushHost round trip = %#v, want widget{N:7}", ho.Value)
	}
}
