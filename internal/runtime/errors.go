package runtime

import "github.com/dyon-lang/dyon/internal/module"

// errorfAt formats a hard runtime error with the current stack trace
// prefixed, matching spec §6's "<stack trace>\n<message>" format.
func errorfAt(trace string, format string, args ...interface{}) error {
	return module.Errorf(trace, format, args...)
}

// expected formats the standard "wrong type" error (spec §6
// "expected(var, type_name)").
func (rt *Runtime) expected(v Value, wantType string) error {
	return errorfAt(rt.StackTrace(), "Expected %s, found %s", wantType, TypeName(rt.Resolve(v)))
}
