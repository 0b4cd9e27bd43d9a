// Package module defines the external collaborator interfaces the
// interpreter and lifetime checker depend on but never construct
// themselves: a loaded Module of functions, a Prelude of extern
// signatures, and the name-resolution tables that connect `use`
// aliases and call sites to concrete function indices (spec §1 "out of
// scope: the source parser"; §6 "External interfaces"). Nothing in this
// package parses source text; it only describes the shape a loader
// hands to the runtime.
package module

import (
	"fmt"

	"github.com/dyon-lang/dyon/internal/ast"
	"github.com/dyon-lang/dyon/internal/typesystem"
)

// FnIndexKind is the resolved kind of a call target (spec §6 "Module").
type FnIndexKind int

const (
	FnNone FnIndexKind = iota
	FnIntrinsic
	FnExternalVoid
	FnExternalReturn
	FnLoaded
)

// FnIndex is what Module.FindFunction returns for a call site.
type FnIndex struct {
	Kind  FnIndexKind
	Index int
}

// Function is one loaded, checked function body plus its resolved
// index within the owning Module.
type Function struct {
	Def      *ast.Fn
	Index    int
	File     string
	Currents []ast.CurrentArg
}

// ExternSig is one entry of the Prelude: the signature of a function
// the host provides (an intrinsic or an extern), keyed by name (spec
// §6 "Prelude"). Void externs have HasRet false.
type ExternSig struct {
	Name     string   `yaml:"name"`
	Args     []string `yaml:"args"`   // type descriptions, checker-facing only
	HasRet   bool     `yaml:"has_ret"`
	Ret      string   `yaml:"ret"`
	Currents []string `yaml:"currents"`
}

// ResolvedType converts the loosely-typed yaml-loaded signature into
// the checker's typesystem.Type vocabulary. Unknown type names resolve
// to typesystem.Any{}.
func (s ExternSig) ResolvedType(name string) typesystem.Type {
	switch name {
	case "bool":
		return typesystem.Bool{}
	case "f64", "number":
		return typesystem.F64{}
	case "str", "string":
		return typesystem.Str{}
	case "vec4":
		return typesystem.Vec4{}
	case "mat4":
		return typesystem.Mat4{}
	case "[]", "array":
		return typesystem.AnyArray()
	case "{}", "object":
		return typesystem.ObjectTy{}
	case "link":
		return typesystem.Link{}
	default:
		return typesystem.Any{}
	}
}

// Prelude is the set of extern/intrinsic signatures the checker
// consults by name, loadable from a YAML manifest the way funxy's own
// internal/ext/config.go loads its extension manifest — the natural
// home for gopkg.in/yaml.v3 in this tree, since externs are exactly the
// kind of host-supplied, data-described contract a manifest fits.
type Prelude struct {
	sigs map[string]ExternSig
}

func NewPrelude() *Prelude { return &Prelude{sigs: map[string]ExternSig{}} }

func (p *Prelude) Add(sig ExternSig) { p.sigs[sig.Name] = sig }

func (p *Prelude) Lookup(name string) (ExternSig, bool) {
	s, ok := p.sigs[name]
	return s, ok
}

// UseLookup maps a `use` alias to the function-name → absolute-index
// table of the module it refers to (spec §4.E "UseLookup").
type UseLookup struct {
	byAlias map[string]map[string]int
}

func NewUseLookup() *UseLookup { return &UseLookup{byAlias: map[string]map[string]int{}} }

func (u *UseLookup) Register(alias, fnName string, index int) {
	m, ok := u.byAlias[alias]
	if !ok {
		m = map[string]int{}
		u.byAlias[alias] = m
	}
	m[fnName] = index
}

func (u *UseLookup) Resolve(alias, fnName string) (int, bool) {
	m, ok := u.byAlias[alias]
	if !ok {
		return 0, false
	}
	idx, ok := m[fnName]
	return idx, ok
}

// Module is a loaded, checked collection of functions plus the tables
// needed to resolve calls at runtime (spec §6 "Module"). It is the
// single collaborator type the interpreter and checker both treat as
// opaque: nothing in this tree constructs one from source text, only
// by hand (tests) or by a host's own loader built on top of this
// package.
type Module struct {
	Functions []*Function
	Prelude   *Prelude
	Uses      *UseLookup
	Intrinsics Intrinsics

	byName map[string]int
}

func NewModule(prelude *Prelude, uses *UseLookup, intrinsics Intrinsics) *Module {
	return &Module{Prelude: prelude, Uses: uses, Intrinsics: intrinsics, byName: map[string]int{}}
}

// AddFunction appends fn, assigning it the next index.
func (m *Module) AddFunction(fn *ast.Fn, file string) int {
	idx := len(m.Functions)
	fn.ResolvedIndex = idx
	m.Functions = append(m.Functions, &Function{Def: fn, Index: idx, File: file, Currents: fn.Currents})
	m.byName[fn.Name] = idx
	return idx
}

// FindFunction resolves a call by name relative to the calling
// function's index, matching spec §6's FnIndex variant set exactly:
// the Prelude's declared externs first (they carry a signature the
// checker can hold a call to), then the rest of the host's Intrinsics
// table (names with no declared signature, checked untyped the way
// funxy's own dispatcher checks its builtin table before user
// functions), then loaded functions. A name the host implements via
// Intrinsics AND declares in the Prelude still dispatches through the
// same Intrinsics.Call at runtime (Prelude only adds a signature for
// the checker); only the FnIndex.Kind the checker sees differs.
func (m *Module) FindFunction(name string, relative int) FnIndex {
	if sig, ok := m.Prelude.Lookup(name); ok {
		if sig.HasRet {
			return FnIndex{Kind: FnExternalReturn}
		}
		return FnIndex{Kind: FnExternalVoid}
	}
	if m.Intrinsics != nil {
		if i, ok := m.Intrinsics.IndexOf(name); ok {
			return FnIndex{Kind: FnIntrinsic, Index: i}
		}
	}
	if idx, ok := m.byName[name]; ok {
		return FnIndex{Kind: FnLoaded, Index: idx}
	}
	_ = relative
	return FnIndex{Kind: FnNone}
}

// Intrinsics dispatches calls to built-in functions by name (spec §1
// "the standard library of built-in functions ... only the call
// interface is specified"); this package only defines the seam, never
// a library of builtins behind it.
type Intrinsics interface {
	// IndexOf returns the stable dispatch index for name, if it names
	// an intrinsic.
	IndexOf(name string) (int, bool)
	// Call invokes the intrinsic at index with args already resolved
	// to concrete values, returning its result (nil for void) or an
	// error formatted the way Errorf below formats one.
	Call(index int, args []interface{}) (interface{}, error)
}

// Errorf formats a hard runtime error with a stack trace prefix, the
// shape spec §6 "Source-range error format" requires:
// "<stack trace>\n<message>".
func Errorf(trace string, format string, args ...interface{}) error {
	return fmt.Errorf("%s\n%s", trace, fmt.Sprintf(format, args...))
}
