// Package typesystem implements Dyon's ad-hoc static type algebra: the
// `Type` variant set and the directional compatibility relations used by
// the lifetime/type checker (package lifetime) to propagate and refine
// types over the AST.
//
// Unlike a Hindley-Milner system, Dyon never solves a set of unification
// constraints; it only ever asks "does this required type go with that
// actual type", optionally narrowing ad-hoc generics along the way.
package typesystem

import "strings"

// Type is the interface implemented by every Dyon type variant.
type Type interface {
	// Description renders the human-readable type name, e.g. "[f64]",
	// "opt[str]", "Foo str", `\(f64, str) -> bool`.
	Description() string
	typeNode()
}

// Concrete, argument-less ground types.
type (
	Unreachable struct{}
	Void        struct{}
	Any         struct{}
	Bool        struct{}
	F64         struct{}
	Vec4        struct{}
	Mat4        struct{}
	Str         struct{}
	Link        struct{}
	ObjectTy    struct{}
)

func (Unreachable) typeNode() {}
func (Void) typeNode()        {}
func (Any) typeNode()         {}
func (Bool) typeNode()        {}
func (F64) typeNode()         {}
func (Vec4) typeNode()        {}
func (Mat4) typeNode()        {}
func (Str) typeNode()         {}
func (Link) typeNode()        {}
func (ObjectTy) typeNode()    {}

func (Unreachable) Description() string { return "unreachable" }
func (Void) Description() string        { return "void" }
func (Any) Description() string         { return "any" }
func (Bool) Description() string        { return "bool" }
func (F64) Description() string         { return "f64" }
func (Vec4) Description() string        { return "vec4" }
func (Mat4) Description() string        { return "mat4" }
func (Str) Description() string         { return "str" }
func (Link) Description() string        { return "link" }
func (ObjectTy) Description() string    { return "{}" }

// Array is a homogeneous array type.
type Array struct{ Elem Type }

func (Array) typeNode() {}
func (a Array) Description() string {
	if _, ok := a.Elem.(Any); ok {
		return "[]"
	}
	return "[" + a.Elem.Description() + "]"
}

// Option wraps an inner type, or Any for a bare `opt`.
type Option struct{ Elem Type }

func (Option) typeNode() {}
func (o Option) Description() string {
	if _, ok := o.Elem.(Any); ok {
		return "opt"
	}
	return "opt[" + o.Elem.Description() + "]"
}

// Result wraps an inner ok-type, or Any for a bare `res`.
type Result struct{ Elem Type }

func (Result) typeNode() {}
func (r Result) Description() string {
	if _, ok := r.Elem.(Any); ok {
		return "res"
	}
	return "res[" + r.Elem.Description() + "]"
}

// Secret wraps Bool or F64 only.
type Secret struct{ Elem Type }

func (Secret) typeNode() {}
func (s Secret) Description() string {
	switch s.Elem.(type) {
	case Bool:
		return "sec[bool]"
	case F64:
		return "sec[f64]"
	default:
		return "sec[?]"
	}
}

// Thread is a join-handle type.
type Thread struct{ Elem Type }

func (Thread) typeNode() {}
func (t Thread) Description() string {
	if _, ok := t.Elem.(Any); ok {
		return "thr"
	}
	return "thr[" + t.Elem.Description() + "]"
}

// In is a channel receiver type.
type In struct{ Elem Type }

func (In) typeNode() {}
func (i In) Description() string {
	if _, ok := i.Elem.(Any); ok {
		return "in"
	}
	return "in[" + i.Elem.Description() + "]"
}

// AdHoc is a named wrapper type, distinct from its Elem for type checking
// purposes but identical at runtime.
type AdHoc struct {
	Name string
	Elem Type
}

func (AdHoc) typeNode() {}
func (a AdHoc) Description() string { return a.Name + " " + a.Elem.Description() }

// Closure is a function-value type: argument types plus return type.
type Closure struct {
	Args []Type
	Ret  Type
}

func (Closure) typeNode() {}
func (c Closure) Description() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.Description()
	}
	return `\(` + strings.Join(parts, ", ") + ") -> " + c.Ret.Description()
}

// ArrayOf, OptionOf, ResultOf, ThreadOf, InOf are convenience
// constructors for the "any"-elem default used by the source grammar
// when no inner type annotation is written.
func ArrayOf(t Type) Type  { return Array{Elem: t} }
func OptionOf(t Type) Type { return Option{Elem: t} }
func ResultOf(t Type) Type { return Result{Elem: t} }
func ThreadOf(t Type) Type { return Thread{Elem: t} }
func InOf(t Type) Type     { return In{Elem: t} }

// AnyArray, AnyOption, AnyResult, AnyThread, AnyIn are the bare-keyword
// defaults ("arr", "opt", "res", "thr", "in" with no `[...]`).
func AnyArray() Type  { return Array{Elem: Any{}} }
func AnyOption() Type { return Option{Elem: Any{}} }
func AnyResult() Type { return Result{Elem: Any{}} }
func AnyThread() Type { return Thread{Elem: Any{}} }
func AnyIn() Type     { return In{Elem: Any{}} }

// T is the ad-hoc type-variable name used by AllExt (mirrors the
// original source's single reusable `T` ad-hoc name for quantified
// extern signatures).
const T = "T"

// AllExt quantifies an extern signature over a single fresh ad-hoc name
// T, turning e.g. `(vec4, vec4) -> vec4` into `all T { (T vec4, T vec4)
// -> T vec4 }`, so Secret and plain values alike match an extern
// declared with ordinary types. Nothing in this module calls it.
func AllExt(args []Type, ret Type) (names []string, wrappedArgs []Type, wrappedRet Type) {
	wrappedArgs = make([]Type, len(args))
	for i, a := range args {
		wrappedArgs[i] = AdHoc{Name: T, Elem: a}
	}
	return []string{T}, wrappedArgs, AdHoc{Name: T, Elem: ret}
}
