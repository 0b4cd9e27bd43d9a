// Package embed is the host-facing embedding API: converting between
// Go values and the runtime's Value universe, registering host
// functions callable from loaded Dyon functions, and formatting a
// finished run's result or error for a terminal (spec §6 "Runtime
// operations for host integration").
//
// Nothing here parses source text (spec §1 "out of scope: the source
// parser") — a host builds an *ast.Fn tree by hand or with its own
// loader, registers a Host as the module's module.Intrinsics, and runs
// it through internal/lifetime and internal/runtime directly. This
// package only carries values across that boundary.
//
// Grounded on funvibe-funxy/pkg/embed/marshaller.go's reflect-driven
// Marshaller.ToValue/FromValue, generalized from an Object interface
// to this port's concrete runtime.Value variants and from ad-hoc
// interface{} conversion to Go generics where the call site already
// knows the target type.
package embed

import (
	"fmt"
	"reflect"

	"github.com/dyon-lang/dyon/internal/runtime"
)

// Push converts a host value into a runtime.Value (spec §6 "push<T>").
// T must be one of the ground Go types a Dyon value can represent, or
// runtime.Value itself (passed through unchanged).
func Push[T any](val T) (runtime.Value, error) {
	switch v := any(val).(type) {
	case runtime.Value:
		return v, nil
	case bool:
		return runtime.Bool{Value: v}, nil
	case float64:
		return runtime.F64{Value: v}, nil
	case float32:
		return runtime.F64{Value: float64(v)}, nil
	case int:
		return runtime.F64{Value: float64(v)}, nil
	case int64:
		return runtime.F64{Value: float64(v)}, nil
	case string:
		return runtime.Text{Value: v}, nil
	default:
		return nil, fmt.Errorf("embed: Push: no conversion from %T to a dyon value", val)
	}
}

// Pop converts a runtime.Value back into a host value of type T (spec
// §6 "pop<T>"). Returns an error rather than panicking on a mismatched
// variant, since a host-registered function's argument types are not
// checked until call time (spec §6 "Host error").
func Pop[T any](v runtime.Value) (T, error) {
	var zero T
	switch any(zero).(type) {
	case bool:
		b, ok := v.(runtime.Bool)
		if !ok {
			return zero, fmt.Errorf("embed: Pop: expected bool, found %s", runtime.TypeName(v))
		}
		return any(b.Value).(T), nil
	case float64:
		f, ok := v.(runtime.F64)
		if !ok {
			return zero, fmt.Errorf("embed: Pop: expected f64, found %s", runtime.TypeName(v))
		}
		return any(f.Value).(T), nil
	case float32:
		f, ok := v.(runtime.F64)
		if !ok {
			return zero, fmt.Errorf("embed: Pop: expected f64, found %s", runtime.TypeName(v))
		}
		return any(float32(f.Value)).(T), nil
	case int:
		f, ok := v.(runtime.F64)
		if !ok {
			return zero, fmt.Errorf("embed: Pop: expected f64, found %s", runtime.TypeName(v))
		}
		return any(int(f.Value)).(T), nil
	case int64:
		f, ok := v.(runtime.F64)
		if !ok {
			return zero, fmt.Errorf("embed: Pop: expected f64, found %s", runtime.TypeName(v))
		}
		return any(int64(f.Value)).(T), nil
	case string:
		s, ok := v.(runtime.Text)
		if !ok {
			return zero, fmt.Errorf("embed: Pop: expected str, found %s", runtime.TypeName(v))
		}
		return any(s.Value).(T), nil
	case runtime.Value:
		return any(v).(T), nil
	default:
		return zero, fmt.Errorf("embed: Pop: no conversion from a dyon value to %T", zero)
	}
}

// PushHost wraps an opaque Go value as a runtime.HostObject (spec §6
// "Host objects" / original's RustObject), the same treatment the
// grounding source's Marshaller.ToValue gives a pointer or an
// otherwise-unrepresentable Go kind.
func PushHost(val interface{}) runtime.Value {
	return &runtime.HostObject{Value: val}
}

// popReflect is Pop's untyped cousin, used by RegisterFunc
// where the target type is only known at registration time via
// reflection rather than as a type parameter.
func popReflect(v runtime.Value, target reflect.Type) (interface{}, error) {
	switch target.Kind() {
	case reflect.Bool:
		b, ok := v.(runtime.Bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, found %s", runtime.TypeName(v))
		}
		return b.Value, nil
	case reflect.Float64:
		f, ok := v.(runtime.F64)
		if !ok {
			return nil, fmt.Errorf("expected f64, found %s", runtime.TypeName(v))
		}
		return f.Value, nil
	case reflect.Float32:
		f, ok := v.(runtime.F64)
		if !ok {
			return nil, fmt.Errorf("expected f64, found %s", runtime.TypeName(v))
		}
		return float32(f.Value), nil
	case reflect.Int, reflect.Int64, reflect.Int32:
		f, ok := v.(runtime.F64)
		if !ok {
			return nil, fmt.Errorf("expected f64, found %s", runtime.TypeName(v))
		}
		return reflect.ValueOf(f.Value).Convert(target).Interface(), nil
	case reflect.String:
		s, ok := v.(runtime.Text)
		if !ok {
			return nil, fmt.Errorf("expected str, found %s", runtime.TypeName(v))
		}
		return s.Value, nil
	default:
		if target == reflect.TypeOf((*runtime.Value)(nil)).Elem() {
			return v, nil
		}
		if host, ok := v.(*runtime.HostObject); ok {
			return host.Value, nil
		}
		return nil, fmt.Errorf("no conversion from a dyon value to %s", target)
	}
}

// pushReflect is Push's untyped cousin, converting a reflect.Value
// result (as RegisterFunc gets back from calling the bound Go
// function) into a runtime.Value.
func pushReflect(rv reflect.Value) (runtime.Value, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return runtime.Bool{Value: rv.Bool()}, nil
	case reflect.Float32, reflect.Float64:
		return runtime.F64{Value: rv.Float()}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return runtime.F64{Value: float64(rv.Int())}, nil
	case reflect.String:
		return runtime.Text{Value: rv.String()}, nil
	default:
		if v, ok := rv.Interface().(runtime.Value); ok {
			return v, nil
		}
		return PushHost(rv.Interface()), nil
	}
}
