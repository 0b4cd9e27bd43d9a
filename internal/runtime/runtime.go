package runtime

import (
	"fmt"
	"math/rand"

	"github.com/dyon-lang/dyon/internal/module"
)

// Call is one frame of the call stack: enough to unwind the stack/
// local/current slices back to where they stood before the call, and
// to format a stack trace entry (spec §4.F "Call").
type Call struct {
	FnName    string
	File      string
	Index     int
	StackLen  int
	LocalLen  int
	CurrentLen int
}

// localEntry names a local variable's slot on the value stack; the
// lifetime checker guarantees lookups by name resolve to one of these
// (spec GLOSSARY "Local stack").
type localEntry struct {
	Name string
	Slot int
}

type currentEntry struct {
	Name string
	Slot int
}

// Runtime holds all mutable state for one program execution: the value
// stack, call/local/current stacks, and the module being executed
// against, mirroring the grounding source's Runtime struct field for
// field (it omits `ret`, which `module.Prelude` carries instead as a
// named intrinsic constant rather than a Runtime field).
type Runtime struct {
	Stack        []Value
	CallStack    []Call
	LocalStack   []localEntry
	CurrentStack []currentEntry

	Module *module.Module
	Rand   *rand.Rand

	// channels is the per-function fan-in set backing `in` expressions
	// and the per-call argument broadcast, keyed by absolute function
	// index (spec §4.F.4).
	channels map[int]*FnChannel

	// frameStack parallels CallStack with the return-slot/arg-count
	// bookkeeping calls.go needs; see callFrame.
	frameStack []*callFrame

	// grabStack holds the active closure calls' resolved `grab` values,
	// innermost last, so VisitGrab can resolve a Grab node mid-body. Each
	// frame is already the closure's complete GrabValues map (its own
	// grabs plus everything inherited from enclosing closures), so a
	// lookup normally only needs the top frame; the full walk stays as a
	// defensive fallback.
	grabStack []GrabValues
}

// New creates a Runtime ready to execute against mod.
func New(mod *module.Module) *Runtime {
	return &Runtime{
		Module:   mod,
		Rand:     rand.New(rand.NewSource(1)),
		channels: map[int]*FnChannel{},
	}
}

// Push appends a value to the stack and returns its slot index.
func (rt *Runtime) Push(v Value) int {
	rt.Stack = append(rt.Stack, v)
	return len(rt.Stack) - 1
}

// Pop removes and returns the top of the stack. Panics like the
// grounding source's `panic!(TINVOTS)` ("this is never supposed to
// happen") if the stack is empty, since a well-typed program checked
// by the lifetime pass never pops past what it pushed.
func (rt *Runtime) Pop() Value {
	n := len(rt.Stack)
	if n == 0 {
		panic("dyon runtime: stack underflow (this is never supposed to happen)")
	}
	v := rt.Stack[n-1]
	rt.Stack = rt.Stack[:n-1]
	return v
}

// Resolve follows a Ref/UnsafeRef to the value it aliases; any other
// value resolves to itself (spec GLOSSARY "Ref").
func (rt *Runtime) Resolve(v Value) Value {
	switch r := v.(type) {
	case Ref:
		return rt.Stack[r.Index]
	case UnsafeRef:
		return rt.Stack[r.Index]
	default:
		return v
	}
}

// ResolveIndex follows a Ref/UnsafeRef stored at a known stack slot one
// hop to the slot backing the value; any other slot resolves to itself.
func (rt *Runtime) ResolveIndex(slot int) int {
	switch r := rt.Stack[slot].(type) {
	case Ref:
		return r.Index
	case UnsafeRef:
		return r.Index
	default:
		return slot
	}
}

func (rt *Runtime) channel(fnIndex int) *FnChannel {
	c, ok := rt.channels[fnIndex]
	if !ok {
		c = &FnChannel{}
		rt.channels[fnIndex] = c
	}
	return c
}

// StackTrace renders the call stack bottom to top, one frame per line,
// the same shape the grounding source's stack_trace produces for error
// messages (spec §9 "error reporting").
func (rt *Runtime) StackTrace() string {
	s := ""
	for _, c := range rt.CallStack {
		s += fmt.Sprintf("In function `%s`\n", c.FnName)
	}
	return s
}
