package value

import (
	"fmt"

	"github.com/oeed/stop/internal/locator"
)

// RuntimeErrorKind classifies a RuntimeError for callers that want to
// branch on the failure without string matching.
type RuntimeErrorKind int

const (
	UnknownVariable RuntimeErrorKind = iota
	InvalidType
	InvalidExpression
	IncorrectArgumentCount
	IndexOutOfBounds
	KeyNotFound
	InvalidAssignment
)

// RuntimeError is any failure raised while evaluating a parsed program:
// a variable that was never bound, a value used at the wrong type, an
// out-of-range index, a call with the wrong argument count, and so on.
type RuntimeError struct {
	Kind    RuntimeErrorKind
	Message string
	At      locator.Offset
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Location returns the offset at which evaluation failed.
func (e *RuntimeError) Location() locator.Offset {
	return e.At
}

func newRuntimeError(kind RuntimeErrorKind, at locator.Offset, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...), At: at}
}

// NewUnknownVariable reports a lookup that found no binding in any
// scope, local or global.
func NewUnknownVariable(name string, at locator.Offset) *RuntimeError {
	return newRuntimeError(UnknownVariable, at, "unknown variable '%s'", name)
}

// NewInvalidType reports a value used where a different type, expected,
// was required.
func NewInvalidType(expected string, at locator.Offset) *RuntimeError {
	return newRuntimeError(InvalidType, at, "invalid type, expected type %s", expected)
}

// NewInvalidExpression reports an expression shape that is invalid in
// context, such as the right-hand side of an assignment being neither
// an identifier nor an index.
func NewInvalidExpression(expected string, at locator.Offset) *RuntimeError {
	return newRuntimeError(InvalidExpression, at, "invalid expression, expected %s", expected)
}

// NewIncorrectArgumentCount reports a call whose argument count does
// not match the called function's declared parameter count.
func NewIncorrectArgumentCount(functionName string, expected, received int, at locator.Offset) *RuntimeError {
	return newRuntimeError(IncorrectArgumentCount, at,
		"invalid number of arguments in call to '%s', received: %d, expected: %d", functionName, received, expected)
}

// NewIndexOutOfBounds reports a list index outside [0, length).
func NewIndexOutOfBounds(index, length int, at locator.Offset) *RuntimeError {
	return newRuntimeError(IndexOutOfBounds, at, "index out of bounds, index: %d, length: %d", index, length)
}

// NewKeyNotFound reports a map access with no entry for key.
func NewKeyNotFound(key string, at locator.Offset) *RuntimeError {
	return newRuntimeError(KeyNotFound, at, "key '%s' not found", key)
}

// NewInvalidAssignment reports an assignment whose target could not be
// resolved to a storage location at all (distinct from InvalidExpression,
// which covers the parse-adjacent shape check on the target expression).
func NewInvalidAssignment(at locator.Offset) *RuntimeError {
	return newRuntimeError(InvalidAssignment, at, "invalid assignment target")
}
