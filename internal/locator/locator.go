// Package locator maps a byte offset into Stop source text to a
// human-readable (line, col) description, for use in diagnostics.
package locator

import "fmt"

// Offset is a source position: either a byte index into the original
// source string, or the absence of one, meaning "end of file". It is the
// type every AST node and every pipeline error carries for diagnostics.
type Offset struct {
	pos int
	ok  bool
}

// AtByte returns an offset pointing at the given byte index.
func AtByte(pos int) Offset {
	return Offset{pos: pos, ok: true}
}

// EOF returns the "after the last byte" offset.
func EOF() Offset {
	return Offset{}
}

// IsEOF reports whether the offset denotes end of file.
func (o Offset) IsEOF() bool {
	return !o.ok
}

// Byte returns the byte index and true, or (0, false) for EOF.
func (o Offset) Byte() (int, bool) {
	return o.pos, o.ok
}

// Describe renders offset as "line L, col C" (both 1-based) relative to
// source, or "end of file" when offset is EOF. Line terminators count as a
// single position, matching the reverse token stream's byte cursor.
func Describe(source string, offset Offset) string {
	pos, ok := offset.Byte()
	if !ok {
		return "end of file"
	}

	line, col := 0, 0
	for i := 0; i < len(source); i++ {
		if i == pos {
			return fmt.Sprintf("line %d, col %d", line+1, col+1)
		}
		if source[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	if pos == len(source) {
		return fmt.Sprintf("line %d, col %d", line+1, col+1)
	}
	return "end of file"
}
