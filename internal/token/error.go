package token

import (
	"fmt"

	"github.com/oeed/stop/internal/locator"
)

// Error is a lexing-time failure: an invalid identifier start, a malformed
// number, an unterminated string, or an expected literal that was not
// found at the cursor.
type Error struct {
	Message string
	At      locator.Offset
}

func (e *Error) Error() string {
	return e.Message
}

// Location returns the cursor position at the point of failure.
func (e *Error) Location() locator.Offset {
	return e.At
}

func (s *Stream) errorf(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), At: s.Location()}
}
