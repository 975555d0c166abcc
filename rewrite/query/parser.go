package query

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnterminated reports a ":[" with no closing ']' before end of input.
	ErrUnterminated = errors.New("unterminated placeholder")
	// ErrDuplicateName reports a named placeholder repeated within one pattern.
	ErrDuplicateName = errors.New("duplicate placeholder name")
)

// Parse converts a pattern string into its token sequence. Pattern text is a
// sequence of literal runs interspersed with :[name] groups, where name is
// any run of characters excluding ']'. A ":[" that never closes is an error
// rather than a degraded literal, since matching assumes well-formed tokens.
func Parse(pattern string) (Pattern, error) {
	var (
		tokens  []Token
		names   []string
		literal strings.Builder
	)
	seen := map[string]bool{}

	flushLiteral := func() {
		if literal.Len() > 0 {
			tokens = append(tokens, Literal{Text: literal.String()})
			literal.Reset()
		}
	}

	i := 0
	for i < len(pattern) {
		if pattern[i] == ':' && i+1 < len(pattern) && pattern[i+1] == '[' {
			end := strings.IndexByte(pattern[i+2:], ']')
			if end < 0 {
				return Pattern{}, fmt.Errorf("offset %d: %w", i, ErrUnterminated)
			}
			name := pattern[i+2 : i+2+end]
			flushLiteral()
			ph := Placeholder{Name: name}
			tokens = append(tokens, ph)
			if !ph.Anonymous() {
				if seen[name] {
					return Pattern{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
				}
				seen[name] = true
				names = append(names, name)
			}
			i += end + 3
			continue
		}
		literal.WriteByte(pattern[i])
		i++
	}
	flushLiteral()

	return Pattern{Tokens: tokens, Names: names}, nil
}
