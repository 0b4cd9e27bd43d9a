package typesystem

import "testing"

func TestGoesWithUnreachable(t *testing.T) {
	types := []Type{Bool{}, F64{}, Str{}, Void{}, Any{}, Array{Elem: F64{}}}
	for _, ty := range types {
		if !GoesWith(Unreachable{}, ty) {
			t.Errorf("Unreachable.GoesWith(%s) = false, want true", ty.Description())
		}
		if !GoesWith(ty, Unreachable{}) {
			t.Errorf("%s.GoesWith(Unreachable) = false, want true", ty.Description())
		}
	}
}

func TestGoesWithAny(t *testing.T) {
	if !GoesWith(Any{}, Bool{}) {
		t.Errorf("Any.GoesWith(Bool) = false, want true")
	}
	if GoesWith(Any{}, Void{}) {
		t.Errorf("Any.GoesWith(Void) = true, want false")
	}
}

func TestGoesWithVoid(t *testing.T) {
	if !GoesWith(Void{}, Void{}) {
		t.Errorf("Void.GoesWith(Void) = false, want true")
	}
	if GoesWith(Void{}, Any{}) {
		t.Errorf("Void.GoesWith(Any) = true, want false")
	}
}

func TestGoesWithSecret(t *testing.T) {
	// Secret(f64) required admits plain f64 actual.
	if !GoesWith(Secret{Elem: F64{}}, F64{}) {
		t.Errorf("Secret[f64].GoesWith(f64) = false, want true")
	}
	// The opposite is not true: plain f64 required does not admit
	// Secret(f64) actual without going through the Secret-actual branch,
	// which only narrows, never widens the requirement.
	if GoesWith(F64{}, Secret{Elem: F64{}}) {
		t.Errorf("f64.GoesWith(Secret[f64]) = true, want false")
	}
}

func TestGoesWithAdHocInversion(t *testing.T) {
	foo := AdHoc{Name: "Foo", Elem: Str{}}
	if !GoesWith(Str{}, foo) {
		t.Errorf("str.GoesWith(Foo str) = false, want true (inverted ad-hoc order)")
	}
}

func TestGoesWithContainers(t *testing.T) {
	if !GoesWith(ArrayOf(F64{}), ArrayOf(F64{})) {
		t.Errorf("[f64].GoesWith([f64]) = false, want true")
	}
	if GoesWith(ArrayOf(F64{}), ArrayOf(Str{})) {
		t.Errorf("[f64].GoesWith([str]) = true, want false")
	}
}

func TestAmbiguous(t *testing.T) {
	if !Ambiguous(AdHoc{Name: "Foo", Elem: Str{}}, Str{}) {
		t.Errorf("Ambiguous(Foo str, str) = false, want true")
	}
	if Ambiguous(Bool{}, Str{}) {
		t.Errorf("Ambiguous(bool, str) = true, want false")
	}
}

func TestAddAssign(t *testing.T) {
	if AddAssign(Void{}, F64{}) {
		t.Errorf("AddAssign(void, f64) = true, want false")
	}
	if !AddAssign(F64{}, F64{}) {
		t.Errorf("AddAssign(f64, f64) = false, want true")
	}
	a := AdHoc{Name: "Meters", Elem: F64{}}
	b := AdHoc{Name: "Seconds", Elem: F64{}}
	if AddAssign(a, b) {
		t.Errorf("AddAssign(Meters f64, Seconds f64) = true, want false")
	}
}

func TestBindTyVarsIdentity(t *testing.T) {
	ty := F64{}
	got, err := BindTyVars(ty, ty, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ty {
		t.Errorf("BindTyVars with empty names did not return self unchanged")
	}
}

func TestBindTyVarsBindsName(t *testing.T) {
	names := []string{T}
	slots := make([]*string, 1)
	required := AdHoc{Name: T, Elem: F64{}}
	actual := AdHoc{Name: "Meters", Elem: F64{}}
	got, err := BindTyVars(required, actual, names, slots)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	adhoc, ok := got.(AdHoc)
	if !ok || adhoc.Name != "Meters" {
		t.Errorf("BindTyVars did not bind T to Meters: %#v", got)
	}
	if slots[0] == nil || *slots[0] != "Meters" {
		t.Errorf("slot not filled with observed name")
	}
}

func TestDescription(t *testing.T) {
	cases := []struct {
		ty   Type
		want string
	}{
		{ArrayOf(F64{}), "[f64]"},
		{OptionOf(Str{}), "opt[str]"},
		{AdHoc{Name: "Foo", Elem: Str{}}, "Foo str"},
		{Closure{Args: []Type{F64{}, Str{}}, Ret: Bool{}}, `\(f64, str) -> bool`},
	}
	for _, c := range cases {
		if got := c.ty.Description(); got != c.want {
			t.Errorf("Description() = %q, want %q", got, c.want)
		}
	}
}
