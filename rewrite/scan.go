package rewrite

import "strings"

// maxInterpolationDepth caps recursion on nested template interpolation.
const maxInterpolationDepth = 64

// bracketState tracks the four kinds of nesting independently. Counters are
// signed, so a stray closer goes negative instead of wrapping.
type bracketState struct {
	parens   int
	braces   int
	brackets int
	angles   int
}

// balanced reports whether all four counters are zero.
func (b bracketState) balanced() bool {
	return b.parens == 0 && b.braces == 0 && b.brackets == 0 && b.angles == 0
}

// count updates the counter matching c, if any.
func (b *bracketState) count(c byte) {
	switch c {
	case '(':
		b.parens++
	case ')':
		b.parens--
	case '{':
		b.braces++
	case '}':
		b.braces--
	case '[':
		b.brackets++
	case ']':
		b.brackets--
	case '<':
		b.angles++
	case '>':
		b.angles--
	}
}

// advance consumes source at position i: a whole quoted literal when i sits
// on a quote character, otherwise a single character counted into the
// bracket state. Returns the next scan position.
func (b *bracketState) advance(source string, i int) int {
	if isQuote(source[i]) {
		return skipQuoted(source, i, 0)
	}
	b.count(source[i])
	return i + 1
}

func isQuote(c byte) bool {
	return c == '"' || c == '\'' || c == '`'
}

// skipQuoted returns the position just after the string or template literal
// opening at i. Any '\' escapes the character after it, so a quote preceded
// by a backslash never terminates the literal. Inside a backtick template an
// unescaped ${ opens an interpolation skipped as a brace-balanced region. An
// unterminated literal swallows the rest of the source.
func skipQuoted(source string, i, depth int) int {
	quote := source[i]
	i++
	for i < len(source) {
		c := source[i]
		if c == quote && source[i-1] != '\\' {
			return i + 1
		}
		if quote == '`' && c == '$' && source[i-1] != '\\' &&
			i+1 < len(source) && source[i+1] == '{' && depth < maxInterpolationDepth {
			i = skipInterpolation(source, i+2, depth+1)
			continue
		}
		i++
	}
	return len(source)
}

// skipInterpolation consumes a ${...} body starting just past the opening
// brace and returns the position after the brace that rebalances it. Nested
// quoted literals are skipped recursively.
func skipInterpolation(source string, i, depth int) int {
	level := 1
	for i < len(source) && level > 0 {
		c := source[i]
		switch {
		case isQuote(c):
			i = skipQuoted(source, i, depth)
		case c == '{':
			level++
			i++
		case c == '}':
			level--
			i++
		default:
			i++
		}
	}
	return i
}

// seekLiteral advances from pos until lit occurs verbatim at a position
// where the running bracket state is balanced, consuming the state along the
// way. Returns the position of the occurrence, or false if none exists
// before the end of source.
func (b *bracketState) seekLiteral(source string, pos int, lit string) (int, bool) {
	for pos < len(source) {
		if b.balanced() && strings.HasPrefix(source[pos:], lit) {
			return pos, true
		}
		pos = b.advance(source, pos)
	}
	return 0, false
}

// seekBoundary finds the conservative end of a trailing capture: the first
// balanced ';' or '\n' at or after pos, or the end of source.
func (b *bracketState) seekBoundary(source string, pos int) int {
	for pos < len(source) {
		c := source[pos]
		if b.balanced() && (c == ';' || c == '\n') {
			return pos
		}
		pos = b.advance(source, pos)
	}
	return len(source)
}
