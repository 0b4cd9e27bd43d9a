package typesystem

// GoesWith reports whether `required` goes with `actual`: a directional,
// non-symmetric compatibility check, matching the original source's
// `Type::goes_with` convention (see DESIGN.md component B). Type itself
// carries no methods beyond Description, so the algebra lives in one
// free-function family independent of the variant declarations.
func GoesWith(required, actual Type) bool {
	// Ad-hoc vs non-ad-hoc: invert order (original source's comment:
	// "Invert the order because of complex ad-hoc logic").
	if _, actualIsAdHoc := actual.(AdHoc); actualIsAdHoc {
		if _, requiredIsAdHoc := required.(AdHoc); !requiredIsAdHoc {
			return GoesWith(actual, required)
		}
	}

	if actualSecret, ok := actual.(Secret); ok {
		if reqSecret, ok := required.(Secret); ok {
			return GoesWith(reqSecret.Elem, actualSecret.Elem)
		}
		return GoesWith(required, actualSecret.Elem)
	}

	if _, ok := required.(Unreachable); ok {
		return true
	}
	if _, ok := actual.(Unreachable); ok {
		return true
	}

	switch req := required.(type) {
	case Any:
		_, void := actual.(Void)
		return !void
	case Void:
		_, ok := actual.(Void)
		return ok
	case Array:
		if otherArr, ok := actual.(Array); ok {
			return GoesWith(req.Elem, otherArr.Elem)
		}
		_, any := actual.(Any)
		return any
	case ObjectTy:
		if _, ok := actual.(ObjectTy); ok {
			return true
		}
		_, any := actual.(Any)
		return any
	case Option:
		if otherOpt, ok := actual.(Option); ok {
			return GoesWith(req.Elem, otherOpt.Elem)
		}
		_, any := actual.(Any)
		return any
	case Result:
		if otherRes, ok := actual.(Result); ok {
			return GoesWith(req.Elem, otherRes.Elem)
		}
		_, any := actual.(Any)
		return any
	case Thread:
		if otherThr, ok := actual.(Thread); ok {
			return GoesWith(req.Elem, otherThr.Elem)
		}
		_, any := actual.(Any)
		return any
	case In:
		if otherIn, ok := actual.(In); ok {
			return GoesWith(req.Elem, otherIn.Elem)
		}
		_, any := actual.(Any)
		return any
	case Closure:
		otherCl, ok := actual.(Closure)
		if !ok {
			_, any := actual.(Any)
			return any
		}
		if len(req.Args) != len(otherCl.Args) {
			return false
		}
		for i := range req.Args {
			if !GoesWith(req.Args[i], otherCl.Args[i]) {
				return false
			}
		}
		return GoesWith(req.Ret, otherCl.Ret)
	case Secret:
		// A plain actual goes with a Secret requirement on the same
		// element type (a secret actual was handled above).
		return GoesWith(req.Elem, actual)
	case AdHoc:
		if otherAdHoc, ok := actual.(AdHoc); ok {
			return req.Name == otherAdHoc.Name && GoesWith(req.Elem, otherAdHoc.Elem)
		}
		if _, void := actual.(Void); void {
			return false
		}
		return GoesWith(req.Elem, actual)
	default:
		// Bool, F64, Str, Vec4, Mat4, Link, Unreachable:
		// same-kind ground types compare structurally; Any actual is
		// always acceptable.
		if sameKind(required, actual) {
			return true
		}
		_, any := actual.(Any)
		return any
	}
}

// sameKind compares two ground (argument-less) type variants by dynamic
// type identity — used for the Bool/F64/Str/Vec4/Mat4/Link/Unreachable
// leaf cases where no recursion is needed.
func sameKind(a, b Type) bool {
	switch a.(type) {
	case Bool:
		_, ok := b.(Bool)
		return ok
	case F64:
		_, ok := b.(F64)
		return ok
	case Str:
		_, ok := b.(Str)
		return ok
	case Vec4:
		_, ok := b.(Vec4)
		return ok
	case Mat4:
		_, ok := b.(Mat4)
		return ok
	case Link:
		_, ok := b.(Link)
		return ok
	case Unreachable:
		_, ok := b.(Unreachable)
		return ok
	default:
		return false
	}
}

// Ambiguous reports whether `refine` could collide with `self` under
// further refinement: e.g. `Foo str` is ambiguous with `str`, since more
// information about `str` could later reveal it to be `Bar str`.
func Ambiguous(self, refine Type) bool {
	switch s := self.(type) {
	case AdHoc:
		if r, ok := refine.(AdHoc); ok && s.Name == r.Name {
			return Ambiguous(s.Elem, r.Elem)
		}
		return GoesWith(s.Elem, refine)
	case Array:
		if r, ok := refine.(Array); ok {
			return Ambiguous(s.Elem, r.Elem)
		}
	case Option:
		if r, ok := refine.(Option); ok {
			return Ambiguous(s.Elem, r.Elem)
		}
	case Result:
		if r, ok := refine.(Result); ok {
			return Ambiguous(s.Elem, r.Elem)
		}
	case Thread:
		if r, ok := refine.(Thread); ok {
			return Ambiguous(s.Elem, r.Elem)
		}
	case In:
		if r, ok := refine.(In); ok {
			return Ambiguous(s.Elem, r.Elem)
		}
	}
	if _, any := refine.(Any); any {
		switch self.(type) {
		case Bool, F64, Str, Vec4, Mat4, Link, Array, Option, Result, Thread, Secret, In:
			return true
		}
	}
	return false
}

// AddAssign reports whether `+=`/`-=` is permitted between these two
// types: permitted unless either side is Void or the two sides are
// ad-hoc types with different names.
func AddAssign(a, b Type) bool {
	aAdHoc, aIsAdHoc := a.(AdHoc)
	bAdHoc, bIsAdHoc := b.(AdHoc)
	switch {
	case aIsAdHoc && bIsAdHoc:
		if aAdHoc.Name != bAdHoc.Name {
			return false
		}
		if !GoesWith(aAdHoc.Elem, bAdHoc.Elem) {
			return false
		}
		return AddAssign(aAdHoc.Elem, bAdHoc.Elem)
	case aIsAdHoc || bIsAdHoc:
		return false
	}
	if _, void := a.(Void); void {
		return false
	}
	if _, void := b.(Void); void {
		return false
	}
	return true
}

// BindTyVars walks `self` (the declared/required type, possibly
// containing ad-hoc names drawn from `names`) in parallel with `refine`
// (the actual type observed at a call site), filling `slots` (indexed
// like `names`) with the concrete ad-hoc name bound to each type
// variable. It returns the type to compare the caller's argument
// against, with any bound variable substituted by its observed name.
//
// An attempt to bind the same variable to two different, non-ambiguous
// names is a type error (tagged #1500/#1600 to match the original
// source's error numbering).
func BindTyVars(self, refine Type, names []string, slots []*string) (Type, error) {
	if len(names) == 0 {
		return self, nil
	}
	selfAdHoc, selfIsAdHoc := self.(AdHoc)
	if !selfIsAdHoc {
		return self, nil
	}
	refineAdHoc, refineIsAdHoc := refine.(AdHoc)
	if refineIsAdHoc {
		for i, n := range names {
			if selfAdHoc.Name != n {
				continue
			}
			newInner, err := BindTyVars(selfAdHoc.Elem, refineAdHoc.Elem, names, slots)
			if err != nil {
				return nil, err
			}
			if slots[i] != nil {
				if *slots[i] != refineAdHoc.Name && GoesWith(newInner, refineAdHoc.Elem) && !Ambiguous(newInner, refineAdHoc.Elem) {
					return nil, &TypeError{Tag: 1500, Message: "Expected `" + *slots[i] + "`, found `" + refineAdHoc.Name + "`"}
				}
				return AdHoc{Name: *slots[i], Elem: newInner}, nil
			}
			bound := refineAdHoc.Name
			slots[i] = &bound
			inner, err := BindTyVars(selfAdHoc.Elem, refineAdHoc.Elem, names, slots)
			if err != nil {
				return nil, err
			}
			return AdHoc{Name: bound, Elem: inner}, nil
		}
		inner, err := BindTyVars(selfAdHoc.Elem, refineAdHoc.Elem, names, slots)
		if err != nil {
			return nil, err
		}
		return AdHoc{Name: selfAdHoc.Name, Elem: inner}, nil
	}

	for i, n := range names {
		if selfAdHoc.Name != n {
			continue
		}
		newInner, err := BindTyVars(selfAdHoc.Elem, refine, names, slots)
		if err != nil {
			return nil, err
		}
		if slots[i] != nil {
			if GoesWith(newInner, refine) && !Ambiguous(newInner, refine) {
				return nil, &TypeError{Tag: 1600, Message: "Expected `" + *slots[i] + "`, found no ad-hoc type"}
			}
		}
		break
	}
	return BindTyVars(selfAdHoc.Elem, refine, names, slots)
}
