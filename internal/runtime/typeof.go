package runtime

import "github.com/dyon-lang/dyon/internal/typesystem"

// TypeOf reports the runtime type of a resolved value, used by error
// messages (`expected(var, type_name)`, spec §6) and by intrinsics that
// need to branch on a value's shape.
func TypeOf(v Value) typesystem.Type {
	switch x := v.(type) {
	case Void:
		return typesystem.Void{}
	case Bool:
		if len(x.Secret) > 0 {
			return typesystem.Secret{Elem: typesystem.Bool{}}
		}
		return typesystem.Bool{}
	case F64:
		if len(x.Secret) > 0 {
			return typesystem.Secret{Elem: typesystem.F64{}}
		}
		return typesystem.F64{}
	case Vec4:
		return typesystem.Vec4{}
	case Mat4:
		return typesystem.Mat4{}
	case Text:
		return typesystem.Str{}
	case *Array:
		return typesystem.AnyArray()
	case *Object:
		return typesystem.ObjectTy{}
	case *Link:
		return typesystem.Link{}
	case Option:
		return typesystem.AnyOption()
	case Result:
		return typesystem.AnyResult()
	case Thread:
		return typesystem.AnyThread()
	case In:
		return typesystem.AnyIn()
	case *Closure:
		return typesystem.Closure{}
	case *HostObject:
		return typesystem.Any{}
	default:
		return typesystem.Any{}
	}
}

// TypeName is the human-facing name used in "Expected <name>" error
// messages, matching the grounding source's lazy_static type-name
// table (text_type, f64_type, vec4_type, ...).
func TypeName(v Value) string {
	switch v.(type) {
	case Void:
		return "void"
	case Bool:
		return "boolean"
	case F64:
		return "number"
	case Vec4:
		return "vec4"
	case Mat4:
		return "mat4"
	case Text:
		return "string"
	case *Array:
		return "array"
	case *Object:
		return "object"
	case *Link:
		return "link"
	case Option:
		return "option"
	case Result:
		return "result"
	case Thread:
		return "thread"
	case In:
		return "in"
	case *Closure:
		return "closure"
	case *HostObject:
		return "rust_object"
	case Ref:
		return "ref"
	case UnsafeRef:
		return "unsafe_ref"
	default:
		return "unknown"
	}
}
