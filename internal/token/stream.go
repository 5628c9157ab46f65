package token

import (
	"strconv"

	"github.com/oeed/stop/internal/locator"
)

// Stream presents source as a sequence of lexemes consumed from the end of
// the string toward the beginning. next holds the inclusive byte index of
// the next character to consider; -1 means the stream is exhausted.
type Stream struct {
	source string
	next   int
}

// New returns a stream positioned at the last byte of source, or already
// exhausted if source is empty.
func New(source string) *Stream {
	s := &Stream{source: source, next: len(source) - 1}
	return s
}

// Location snapshots the cursor as a diagnostic offset.
func (s *Stream) Location() locator.Offset {
	if s.next < 0 {
		return locator.EOF()
	}
	return locator.AtByte(s.next)
}

// IsEmpty reports whether the cursor has been exhausted.
func (s *Stream) IsEmpty() bool {
	return s.next < 0
}

// PeekN returns the n trailing characters ending at the cursor (inclusive),
// in forward byte order, without consuming them. It reports false if fewer
// than n characters remain.
func (s *Stream) PeekN(n int) (string, bool) {
	if s.next < 0 || n > s.next+1 {
		return "", false
	}
	start := s.next + 1 - n
	return s.source[start : s.next+1], true
}

// ConsumeN is like PeekN but also advances the cursor past the returned
// substring.
func (s *Stream) ConsumeN(n int) (string, bool) {
	str, ok := s.PeekN(n)
	if !ok {
		return "", false
	}
	if s.next >= n {
		s.next -= n
	} else {
		s.next = -1
	}
	return str, true
}

// PeekChar is the one-character specialization of PeekN.
func (s *Stream) PeekChar() (byte, bool) {
	str, ok := s.PeekN(1)
	if !ok {
		return 0, false
	}
	return str[0], true
}

// ConsumeChar is the one-character specialization of ConsumeN.
func (s *Stream) ConsumeChar() (byte, bool) {
	str, ok := s.ConsumeN(1)
	if !ok {
		return 0, false
	}
	return str[0], true
}

// SkipNoop consumes whitespace and "\\" line comments to a fixed point.
// Exported for callers (the parser) that need to peek at the next
// significant character without committing to a particular Try call.
func (s *Stream) SkipNoop() {
	s.skipNoop()
}

// skipNoop consumes whitespace and "\\" line comments to a fixed point.
func (s *Stream) skipNoop() {
	for {
		if c, ok := s.PeekChar(); ok && isASCIIWhitespace(c) {
			s.ConsumeChar()
			continue
		}
		if str, ok := s.PeekN(2); ok && str == `\\` {
			for {
				c, ok := s.ConsumeChar()
				if !ok || c == '\n' {
					break
				}
			}
			continue
		}
		break
	}
}

// TryChars consumes the exact literal str if it is next in the stream.
func (s *Stream) TryChars(str string) (string, error) {
	s.skipNoop()
	if peeked, ok := s.PeekN(len(str)); ok && peeked == str {
		s.ConsumeN(len(str))
		return str, nil
	}
	return "", s.errorf("expected %q", str)
}

// TryGrammar matches a single piece of grammar punctuation.
func (s *Stream) TryGrammar(g Grammar) (Grammar, error) {
	if _, err := s.TryChars(g.String()); err != nil {
		return 0, err
	}
	return g, nil
}

// TryOperator matches a single operator symbol.
func (s *Stream) TryOperator(op Operator) (Operator, error) {
	if _, err := s.TryChars(op.String()); err != nil {
		return 0, err
	}
	return op, nil
}

// TryKeyword matches a keyword, requiring that the character immediately
// preceding it in the source not be a valid identifier-continuation
// character, so that e.g. "xif" never tokenizes as "x" plus keyword "if".
func (s *Stream) TryKeyword(k Keyword) (Keyword, error) {
	s.skipNoop()
	lit := k.String()
	peeked, ok := s.PeekN(len(lit))
	if !ok || peeked != lit {
		return 0, s.errorf("expected keyword %q", lit)
	}
	if extended, ok := s.PeekN(len(lit) + 1); ok {
		before := extended[0]
		if isIdentContinue(before) {
			return 0, s.errorf("invalid keyword: %c%s ran together with an identifier", before, lit)
		}
	}
	s.ConsumeN(len(lit))
	return k, nil
}

// TryIdentifierOpt recognizes an ASCII identifier. Because the stream is
// read right-to-left, the character inspected first is the rightmost
// character of the eventual lexeme, and that is the one the "valid
// identifier start" rule applies to; growth continues leftward while
// each newly inspected character is a valid continuation character (a
// letter, digit, or underscore). So "2mY_var" is a valid identifier (its
// rightmost character, 'r', is a letter) while "var2" is not (its
// rightmost character, '2', is a digit).
func (s *Stream) TryIdentifierOpt() (string, bool, error) {
	s.skipNoop()
	for n := 1; ; n++ {
		window, ok := s.PeekN(n)
		if !ok {
			if n == 1 {
				return "", false, nil
			}
			lexeme, _ := s.ConsumeN(n - 1)
			return lexeme, true, nil
		}
		c := window[0]
		if n == 1 {
			if !isIdentStart(c) {
				return "", false, s.errorf("invalid first character %q of identifier, must only be alphabetic or _", c)
			}
			continue
		}
		if !isIdentContinue(c) {
			lexeme, _ := s.ConsumeN(n - 1)
			return lexeme, true, nil
		}
	}
}

// TryNumberOpt recognizes a decimal number literal: digits with at most
// one '.'. Growth is right-to-left like TryIdentifierOpt, so a '.' as
// the rightmost character would manifest as a trailing decimal point in
// forward reading and is rejected outright.
func (s *Stream) TryNumberOpt() (float64, bool, error) {
	s.skipNoop()
	hadDecimal := false
	for n := 1; ; n++ {
		window, ok := s.PeekN(n)
		if !ok {
			if n == 1 {
				return 0, false, nil
			}
			return s.finishNumber(n - 1)
		}
		c := window[0]
		switch {
		case isASCIIDigit(c):
			continue
		case c == '.':
			if n == 1 {
				return 0, false, s.errorf("number cannot end in decimal")
			}
			if hadDecimal {
				return 0, false, s.errorf("invalid number, cannot have multiple decimals")
			}
			hadDecimal = true
			continue
		case n == 1:
			return 0, false, nil
		default:
			return s.finishNumber(n - 1)
		}
	}
}

func (s *Stream) finishNumber(n int) (float64, bool, error) {
	lexeme, _ := s.PeekN(n)
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return 0, false, s.errorf("invalid number literal %q", lexeme)
	}
	s.ConsumeN(n)
	return value, true, nil
}

// TryStringOpt recognizes a `"..."` literal with no escape sequences,
// returning its interior content. It returns ("", false, nil) if the next
// lexeme isn't a string at all, and an error for an unterminated string.
func (s *Stream) TryStringOpt() (string, bool, error) {
	s.skipNoop()
	if _, err := s.TryChars(Quote.String()); err != nil {
		return "", false, nil
	}
	for n := 1; ; n++ {
		window, ok := s.PeekN(n)
		if !ok {
			return "", false, s.errorf("unterminated string literal")
		}
		if window[0] == '"' {
			content, _ := s.ConsumeN(n - 1)
			s.ConsumeChar() // the opening quote
			return content, true, nil
		}
	}
}
