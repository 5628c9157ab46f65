// Package diagnostic renders pipeline errors into the user-facing
// strings spec.md's CLI section specifies, and picks the process exit
// code that goes with them.
package diagnostic

import (
	"fmt"

	"github.com/oeed/stop/internal/ast"
	"github.com/oeed/stop/internal/locator"
	"github.com/oeed/stop/internal/token"
	"github.com/oeed/stop/internal/value"
)

// Exit codes, distinguishing failures by pipeline stage the way the
// original CLI's three-way error taxonomy does.
const (
	ExitSuccess      = 0
	ExitSyntaxError  = 1
	ExitRuntimeError = 2
)

// Format renders err as "syntax error at <locator>: <message>" for a
// lexing or parsing failure, "runtime error at <locator>: <message>"
// for an evaluation failure, or err's own message for anything else
// (a file-read failure, say). The second result is the matching exit code.
func Format(source string, err error) (string, int) {
	switch e := err.(type) {
	case *token.Error:
		return syntaxError(source, e.Location(), e.Error()), ExitSyntaxError
	case *ast.ParseError:
		return syntaxError(source, e.Location(), e.Error()), ExitSyntaxError
	case *value.RuntimeError:
		return fmt.Sprintf("runtime error at %s: %s", locator.Describe(source, e.Location()), e.Error()), ExitRuntimeError
	default:
		return err.Error(), ExitRuntimeError
	}
}

func syntaxError(source string, at locator.Offset, message string) string {
	return fmt.Sprintf("syntax error at %s: %s", locator.Describe(source, at), message)
}
