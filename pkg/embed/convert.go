package embed

import (
	"fmt"

	"github.com/dyon-lang/dyon/internal/runtime"
)

// PushVec4 converts a host vector value into a runtime.Vec4 (spec §6
// "Vec4 embedding contract"): [f32;2|3|4], [f64;2|3|4], [u32;2], and
// [u8;4] are the admitted shapes, matching the original's ConvertVec4
// trait impls one for one (tuples of the same arities are represented
// here as the equivalent fixed-size array, Go having no tuple types).
// Missing trailing components are zero; byte components divide by
// 255.0.
func PushVec4(val interface{}) (runtime.Vec4, error) {
	switch v := val.(type) {
	case [2]float32:
		return runtime.Vec4{X: float64(v[0]), Y: float64(v[1]), Arity: 2}, nil
	case [3]float32:
		return runtime.Vec4{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2]), Arity: 3}, nil
	case [4]float32:
		return runtime.Vec4{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2]), W: float64(v[3]), Arity: 4}, nil
	case [2]float64:
		return runtime.Vec4{X: v[0], Y: v[1], Arity: 2}, nil
	case [3]float64:
		return runtime.Vec4{X: v[0], Y: v[1], Z: v[2], Arity: 3}, nil
	case [4]float64:
		return runtime.Vec4{X: v[0], Y: v[1], Z: v[2], W: v[3], Arity: 4}, nil
	case [2]uint32:
		return runtime.Vec4{X: float64(v[0]), Y: float64(v[1]), Arity: 2}, nil
	case [4]uint8:
		return runtime.Vec4{
			X: float64(v[0]) / 255.0, Y: float64(v[1]) / 255.0,
			Z: float64(v[2]) / 255.0, W: float64(v[3]) / 255.0,
			Arity: 4,
		}, nil
	default:
		return runtime.Vec4{}, fmt.Errorf("embed: PushVec4: no conversion from %T", val)
	}
}

// PopVec4 converts a runtime.Vec4 back into a host vector of type T,
// the reciprocal of PushVec4 (spec §6's same ConvertVec4 contract,
// "pop" direction).
func PopVec4[T any](v runtime.Vec4) (T, error) {
	var zero T
	switch any(zero).(type) {
	case [2]float32:
		return any([2]float32{float32(v.X), float32(v.Y)}).(T), nil
	case [3]float32:
		return any([3]float32{float32(v.X), float32(v.Y), float32(v.Z)}).(T), nil
	case [4]float32:
		return any([4]float32{float32(v.X), float32(v.Y), float32(v.Z), float32(v.W)}).(T), nil
	case [2]float64:
		return any([2]float64{v.X, v.Y}).(T), nil
	case [3]float64:
		return any([3]float64{v.X, v.Y, v.Z}).(T), nil
	case [4]float64:
		return any([4]float64{v.X, v.Y, v.Z, v.W}).(T), nil
	case [2]uint32:
		return any([2]uint32{uint32(v.X), uint32(v.Y)}).(T), nil
	case [4]uint8:
		clamp := func(f float64) uint8 {
			b := f * 255.0
			if b < 0 {
				return 0
			}
			if b > 255 {
				return 255
			}
			return uint8(b)
		}
		return any([4]uint8{clamp(v.X), clamp(v.Y), clamp(v.Z), clamp(v.W)}).(T), nil
	default:
		return zero, fmt.Errorf("embed: PopVec4: no conversion from vec4 to %T", zero)
	}
}

// PushMat4 converts a host row-major 4x4 array into a runtime.Mat4
// (spec §6's analogous Mat4 trait).
func PushMat4(val interface{}) (runtime.Mat4, error) {
	switch v := val.(type) {
	case [16]float32:
		var m runtime.Mat4
		for i, f := range v {
			m.M[i] = float64(f)
		}
		return m, nil
	case [16]float64:
		return runtime.Mat4{M: v}, nil
	case [4][4]float32:
		var m runtime.Mat4
		for r := 0; r < 4; r++ {
			for c := 0; c < 4; c++ {
				m.M[r*4+c] = float64(v[r][c])
			}
		}
		return m, nil
	case [4][4]float64:
		var m runtime.Mat4
		for r := 0; r < 4; r++ {
			for c := 0; c < 4; c++ {
				m.M[r*4+c] = v[r][c]
			}
		}
		return m, nil
	default:
		return runtime.Mat4{}, fmt.Errorf("embed: PushMat4: no conversion from %T", val)
	}
}

// PopMat4 converts a runtime.Mat4 back into a host matrix of type T.
func PopMat4[T any](m runtime.Mat4) (T, error) {
	var zero T
	switch any(zero).(type) {
	case [16]float32:
		var out [16]float32
		for i, f := range m.M {
			out[i] = float32(f)
		}
		return any(out).(T), nil
	case [16]float64:
		return any(m.M).(T), nil
	case [4][4]float32:
		var out [4][4]float32
		for r := 0; r < 4; r++ {
			for c := 0; c < 4; c++ {
				out[r][c] = float32(m.M[r*4+c])
			}
		}
		return any(out).(T), nil
	case [4][4]float64:
		var out [4][4]float64
		for r := 0; r < 4; r++ {
			for c := 0; c < 4; c++ {
				out[r][c] = m.M[r*4+c]
			}
		}
		return any(out).(T), nil
	default:
		return zero, fmt.Errorf("embed: PopMat4: no conversion from mat4 to %T", zero)
	}
}
