package embed

import (
	"fmt"
	"reflect"

	"github.com/dyon-lang/dyon/internal/ast"
	"github.com/dyon-lang/dyon/internal/lifetime"
	"github.com/dyon-lang/dyon/internal/module"
	"github.com/dyon-lang/dyon/internal/runtime"
)

// Host is a module.Intrinsics implementation a program builds up by
// registering Go functions before running a Module, the Go analogue of
// funvibe-funxy/pkg/embed/vm.go's VM.bindings map — generalized here
// from "inject into a compiled bytecode program's globals" (this port
// has no compiler) to "answer module.Module's own Intrinsics seam
// directly" (spec §6 "Runtime operations for host integration").
type Host struct {
	names []string
	fns   []func(args []interface{}) (interface{}, error)
	index map[string]int
}

// NewHost returns an empty Host ready for Register/RegisterFunc calls.
func NewHost() *Host {
	return &Host{index: map[string]int{}}
}

// Register binds name to a raw intrinsic implementation: args arrive
// already resolved to runtime.Value (boxed in interface{} the way
// internal/runtime/calls.go's callIntrinsic/callExternal box them),
// and the return value must itself be a runtime.Value, or nil for a
// void extern.
func (h *Host) Register(name string, fn func(args []interface{}) (interface{}, error)) {
	idx, ok := h.index[name]
	if !ok {
		idx = len(h.fns)
		h.names = append(h.names, name)
		h.fns = append(h.fns, nil)
		h.index[name] = idx
	}
	h.fns[idx] = fn
}

// RegisterFunc binds name to an ordinary typed Go function, marshalling
// each Dyon argument to the function's declared parameter type via
// reflection and its single return value back via pushReflect — the
// same adapter role funxy's VM.hostCallHandler plays for an
// arbitrarily-typed bound Go func, generalized from Funxy's Object
// conversion to this port's runtime.Value set. fn may have at most two
// return values; a second value, if present, is assumed to be
// an error and is returned as such to the caller.
func (h *Host) RegisterFunc(name string, fn interface{}) error {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return fmt.Errorf("embed: RegisterFunc(%q): %T is not a function", name, fn)
	}
	if ft.NumOut() > 2 {
		return fmt.Errorf("embed: RegisterFunc(%q): too many return values", name)
	}

	h.Register(name, func(args []interface{}) (interface{}, error) {
		if len(args) != ft.NumIn() {
			return nil, fmt.Errorf("%s: expected %d arguments, got %d", name, ft.NumIn(), len(args))
		}
		in := make([]reflect.Value, ft.NumIn())
		for i, a := range args {
			v, ok := a.(runtime.Value)
			if !ok {
				return nil, fmt.Errorf("%s: argument %d is not a dyon value", name, i)
			}
			goVal, err := popReflect(v, ft.In(i))
			if err != nil {
				return nil, fmt.Errorf("%s: argument %d: %w", name, i, err)
			}
			in[i] = reflect.ValueOf(goVal)
		}

		out := fv.Call(in)
		if len(out) == 0 {
			return nil, nil
		}
		if len(out) == 2 {
			if errVal, ok := out[1].Interface().(error); ok && errVal != nil {
				return nil, errVal
			}
		}
		return pushReflect(out[0])
	})
	return nil
}

// IndexOf implements module.Intrinsics.
func (h *Host) IndexOf(name string) (int, bool) {
	idx, ok := h.index[name]
	return idx, ok
}

// Call implements module.Intrinsics.
func (h *Host) Call(index int, args []interface{}) (interface{}, error) {
	fn := h.fns[index]
	if fn == nil {
		return nil, fmt.Errorf("embed: intrinsic %q registered with no implementation", h.names[index])
	}
	return fn(args)
}

// Run type-checks mod (spec §4.E) and evaluates the niladic function
// named fnName against a fresh Runtime, the shape cmd/dyonhost's demo
// and embed_test.go both drive: build a Module by hand, register
// intrinsics, Run("main").
func Run(mod *module.Module, fnName string) (runtime.Value, error) {
	if err := lifetime.Check(mod); err != nil {
		return nil, err
	}
	rt := runtime.New(mod)
	v, flow, err := rt.EvalR(&ast.Call{Name: fnName})
	if err != nil {
		return nil, err
	}
	if flow.Escapes() {
		return nil, fmt.Errorf("embed: `%s` exited via unhandled break/continue/return", fnName)
	}
	return v, nil
}
