package cleanse

import (
	"errors"
	"fmt"
)

// UnknownTagError is returned when a caller-supplied tag name does not map
// to any entry in the known-tag enumeration (tag.go's knownTags).
type UnknownTagError struct {
	Name string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("cleanse: unknown tag %q", e.Name)
}

func (e *UnknownTagError) Is(target error) bool {
	var ute *UnknownTagError
	if errors.As(target, &ute) {
		return e.Name == ute.Name
	}
	return false
}

// EncodingError describes input that is not UTF-8. ParseDocument and
// ParseFragment do not return it: their preprocessing step drops bytes that
// are not part of a valid UTF-8 sequence and parses the rest.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cleanse: invalid input encoding: %s", e.Reason)
}

// TypeError describes a caller-supplied value of the wrong shape, for APIs
// that in a dynamically typed host would accept a mismatched argument
// without a compile error. No function in this package returns it:
// Serializable's methods are unexported, so only *Document and
// *DocumentFragment satisfy it.
type TypeError struct {
	Expected string
	Got      string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("cleanse: expected %s, got %s", e.Expected, e.Got)
}

// ParseError wraps a failure from the underlying HTML5 parser, or a
// resource bound (max input size, max node count) tripped during parsing.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cleanse: parse failed: %s: %s", e.Reason, e.Err.Error())
	}
	return fmt.Sprintf("cleanse: parse failed: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
