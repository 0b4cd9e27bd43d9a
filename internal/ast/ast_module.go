package ast

import "github.com/dyon-lang/dyon/internal/typesystem"

// FnArg is one declared parameter of a Fn.
type FnArg struct {
	Name string
	Ty   typesystem.Type
}

// CurrentArg is one declared `current` parameter: a name this function
// expects to find on the caller's current-variable stack (spec §4.F.1,
// GLOSSARY "Current variable").
type CurrentArg struct {
	Name string
	Ty   typesystem.Type
}

// Fn is a top-level function definition. HasRet distinguishes a
// function declared `-> ty` (able to use `return`/`?`) from one with no
// return arrow (implicitly Void, spec §7 "Try (postfix ?)" requires the
// reserved return slot only the arrow grants).
type Fn struct {
	Src      SourceRange
	Name     string
	Args     []FnArg
	Currents []CurrentArg
	HasRet   bool
	Ret      typesystem.Type // Void if !HasRet
	Body     *Block

	// ResolvedIndex is this function's module-relative slot, assigned
	// by the loader that builds the Module (spec §3.5, §6), not by the
	// lifetime checker.
	ResolvedIndex int
}

func (f *Fn) Range() SourceRange { return f.Src }
func (f *Fn) Accept(v Visitor)   { v.VisitFn(f) }

// Use declares a module import with an alias, e.g. `use "math" as m`.
// Resolution of the path to a loaded Module is an external collaborator
// concern (spec §1); this node only records the alias/name pair the
// checker's UseLookup consults.
type Use struct {
	Src   SourceRange
	Alias string
	Path  string
}

func (u *Use) Range() SourceRange { return u.Src }
func (u *Use) Accept(v Visitor)   { v.VisitUse(u) }

// Source is the top-level unit the checker and runtime operate over: a
// set of function definitions plus the `use` declarations naming their
// external dependencies.
type Source struct {
	File  string
	Uses  []*Use
	Fns   []*Fn
}
