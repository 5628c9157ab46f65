package ast

import (
	"fmt"

	"github.com/oeed/stop/internal/locator"
)

// ParseError is any failure building the syntax tree above the token
// layer: a missing expression or statement where one was required, a
// malformed identifier position, or a duplicate map key. A *token.Error
// encountered while scanning a lexeme propagates as itself; only
// failures detected at this layer are reported as a ParseError.
type ParseError struct {
	Kind    ParseErrorKind
	Message string
	At      locator.Offset
}

// ParseErrorKind classifies a ParseError for callers that want to branch
// on the failure without string matching.
type ParseErrorKind int

const (
	MissingExpression ParseErrorKind = iota
	MissingStatement
	MissingIdentifier
	DuplicateKey
)

func (e *ParseError) Error() string {
	return e.Message
}

// Location returns the offset at which parsing failed.
func (e *ParseError) Location() locator.Offset {
	return e.At
}

func newParseError(kind ParseErrorKind, at locator.Offset, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: kind, Message: fmt.Sprintf(format, args...), At: at}
}

// ErrMissingExpression reports that an expression was required but none
// could be parsed at the given position.
func ErrMissingExpression(at locator.Offset) *ParseError {
	return newParseError(MissingExpression, at, "expected an expression")
}

// ErrMissingStatement reports that a statement was required but none
// could be parsed at the given position.
func ErrMissingStatement(at locator.Offset) *ParseError {
	return newParseError(MissingStatement, at, "expected a statement")
}

// ErrMissingIdentifier reports that an identifier was required in a
// binding position (a function name, a parameter) but one was not found.
func ErrMissingIdentifier(at locator.Offset) *ParseError {
	return newParseError(MissingIdentifier, at, "expected an identifier")
}

// ErrDuplicateKey reports that a map literal repeated a key.
func ErrDuplicateKey(at locator.Offset, key string) *ParseError {
	return newParseError(DuplicateKey, at, "duplicate map key %q", key)
}
