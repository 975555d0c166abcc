package query

import "fmt"

// AnonymousName is the placeholder name that matches without capturing.
const AnonymousName = "_"

// Token is one element of a parsed pattern: a literal run or a placeholder.
type Token interface {
	String() string
}

// Literal represents a verbatim text run between placeholders.
type Literal struct {
	Text string
}

// String returns a string representation of the Literal
func (l Literal) String() string {
	return fmt.Sprintf("Literal(%q)", l.Text)
}

// Placeholder represents a :[name] hole in the pattern.
type Placeholder struct {
	Name string
}

// Anonymous reports whether the placeholder matches without capturing.
func (p Placeholder) Anonymous() bool {
	return p.Name == AnonymousName || p.Name == ""
}

// String returns a string representation of the Placeholder
func (p Placeholder) String() string {
	if p.Anonymous() {
		return "Placeholder(_)"
	}
	return fmt.Sprintf("Placeholder(%q)", p.Name)
}

// Pattern is the parsed form of a pattern string. Names lists the distinct
// non-anonymous placeholder names in first-appearance order.
type Pattern struct {
	Tokens []Token
	Names  []string
}

// HasPlaceholders reports whether the pattern contains any placeholder token.
func (p Pattern) HasPlaceholders() bool {
	for _, tok := range p.Tokens {
		if _, ok := tok.(Placeholder); ok {
			return true
		}
	}
	return false
}
