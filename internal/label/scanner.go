package label

import (
	"fmt"
	"strings"
)

// scanner walks a label string one segment at a time.
type scanner struct {
	src string
	pos int
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '.' || c == '_' || c == '-'
}

func (s *scanner) done() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte {
	if s.done() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) consume(prefix string) bool {
	if strings.HasPrefix(s.src[s.pos:], prefix) {
		s.pos += len(prefix)
		return true
	}
	return false
}

// word consumes a maximal run of [A-Za-z0-9._-].
func (s *scanner) word() string {
	start := s.pos
	for !s.done() && isWordByte(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// path consumes words joined by single slashes. It returns "" without error
// when no word starts at the current position. A slash must be followed by
// another word, so "a/" and "a//b" are rejected.
func (s *scanner) path() (string, error) {
	start := s.pos
	if s.word() == "" {
		return "", nil
	}
	for s.peek() == '/' {
		if strings.HasPrefix(s.src[s.pos:], "//") {
			return "", s.fail("empty path segment")
		}
		s.pos++
		if s.word() == "" {
			return "", s.fail("path may not end with '/'")
		}
	}
	return s.src[start:s.pos], nil
}

func (s *scanner) fail(format string, args ...any) *SyntaxError {
	return &SyntaxError{Value: s.src, Offset: s.pos, Msg: fmt.Sprintf(format, args...)}
}
