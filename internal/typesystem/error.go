package typesystem

import "fmt"

// TypeError is a type-checker error carrying the numeric tag that keys
// it to the rule that fired (spec §4.E "Error messages"). The tag is
// part of the contract for the test suite, so it is never renumbered
// once assigned to a rule.
type TypeError struct {
	Tag     int
	Message string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("Type mismatch (#%d):\n%s", e.Tag, e.Message)
}

// NewTypeError constructs a tagged type error.
func NewTypeError(tag int, format string, args ...interface{}) *TypeError {
	return &TypeError{Tag: tag, Message: fmt.Sprintf(format, args...)}
}
