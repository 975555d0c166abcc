package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srclift/srep/rewrite/query"
)

func TestFindMatchesLiteral(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		source   string
		pattern  string
		expected []Match
	}{
		{
			name:    "overlapping occurrences all reported",
			source:  "aaa",
			pattern: "aa",
			expected: []Match{
				{Start: 0, End: 2, Text: "aa", Captures: map[string]string{}},
				{Start: 1, End: 3, Text: "aa", Captures: map[string]string{}},
			},
		},
		{
			name:    "separate occurrences",
			source:  "a b a",
			pattern: "a",
			expected: []Match{
				{Start: 0, End: 1, Text: "a", Captures: map[string]string{}},
				{Start: 4, End: 5, Text: "a", Captures: map[string]string{}},
			},
		},
		{
			name:     "no occurrence",
			source:   "xyz",
			pattern:  "aa",
			expected: nil,
		},
		{
			name:     "empty pattern matches nothing",
			source:   "abc",
			pattern:  "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := FindMatches(tt.source, tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.source, got.Source)
			assert.Equal(t, tt.expected, got.Matches)
		})
	}
}

func TestFindMatches(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		source   string
		pattern  string
		expected []Match
	}{
		{
			name:    "nested call does not split capture",
			source:  "foo(bar(baz), qux)",
			pattern: "foo(:[a], :[b])",
			expected: []Match{
				{
					Start: 0, End: 18, Text: "foo(bar(baz), qux)",
					Captures: map[string]string{"a": "bar(baz)", "b": "qux"},
				},
			},
		},
		{
			name:    "comma inside string does not affect match",
			source:  `let s = "a, b"; f(x, y)`,
			pattern: "f(:[a], :[b])",
			expected: []Match{
				{
					Start: 16, End: 23, Text: "f(x, y)",
					Captures: map[string]string{"a": "x", "b": "y"},
				},
			},
		},
		{
			name:    "capture spans a string argument",
			source:  `g("a, b", c)`,
			pattern: "g(:[x], :[y])",
			expected: []Match{
				{
					Start: 0, End: 12, Text: `g("a, b", c)`,
					Captures: map[string]string{"x": `"a, b"`, "y": "c"},
				},
			},
		},
		{
			name:    "capture spans a template with interpolation",
			source:  "send(`${fn(a, b)}`, x)",
			pattern: "send(:[m], :[r])",
			expected: []Match{
				{
					Start: 0, End: 22, Text: "send(`${fn(a, b)}`, x)",
					Captures: map[string]string{"m": "`${fn(a, b)}`", "r": "x"},
				},
			},
		},
		{
			name:    "angle bracket nesting",
			source:  "Map<string, List<int>>",
			pattern: "Map<:[k], :[v]>",
			expected: []Match{
				{
					Start: 0, End: 22, Text: "Map<string, List<int>>",
					Captures: map[string]string{"k": "string", "v": "List<int>"},
				},
			},
		},
		{
			name:    "multiple matches never overlap",
			source:  "add(1, 2) add(3, 4)",
			pattern: "add(:[x], :[y])",
			expected: []Match{
				{
					Start: 0, End: 9, Text: "add(1, 2)",
					Captures: map[string]string{"x": "1", "y": "2"},
				},
				{
					Start: 10, End: 19, Text: "add(3, 4)",
					Captures: map[string]string{"x": "3", "y": "4"},
				},
			},
		},
		{
			name:    "trailing capture stops at balanced semicolon",
			source:  "return a + b; more()",
			pattern: "return :[expr]",
			expected: []Match{
				{
					Start: 0, End: 12, Text: "return a + b",
					Captures: map[string]string{"expr": "a + b"},
				},
			},
		},
		{
			name:    "trailing capture stops at newline",
			source:  "let a = 1\nlet b = 2",
			pattern: "let :[n] = :[v]",
			expected: []Match{
				{
					Start: 0, End: 9, Text: "let a = 1",
					Captures: map[string]string{"n": "a", "v": "1"},
				},
				{
					Start: 10, End: 19, Text: "let b = 2",
					Captures: map[string]string{"n": "b", "v": "2"},
				},
			},
		},
		{
			name:    "trailing capture runs to end of source",
			source:  "return x",
			pattern: "return :[expr]",
			expected: []Match{
				{
					Start: 0, End: 8, Text: "return x",
					Captures: map[string]string{"expr": "x"},
				},
			},
		},
		{
			name:    "leading placeholder starts at cursor",
			source:  "x = 1; y = 2;",
			pattern: ":[lhs] = :[rhs];",
			expected: []Match{
				{
					Start: 0, End: 6, Text: "x = 1;",
					Captures: map[string]string{"lhs": "x", "rhs": "1"},
				},
				{
					Start: 6, End: 13, Text: " y = 2;",
					Captures: map[string]string{"lhs": " y", "rhs": "2"},
				},
			},
		},
		{
			name:    "failed anchor retries further",
			source:  "f(a f(b)",
			pattern: "f(:[a])",
			expected: []Match{
				{
					Start: 4, End: 8, Text: "f(b)",
					Captures: map[string]string{"a": "b"},
				},
			},
		},
		{
			name:    "anchor needs no balance",
			source:  "g(f(x))",
			pattern: "f(:[a])",
			expected: []Match{
				{
					Start: 2, End: 6, Text: "f(x)",
					Captures: map[string]string{"a": "x"},
				},
			},
		},
		{
			name:    "empty capture",
			source:  "f()",
			pattern: "f(:[a])",
			expected: []Match{
				{
					Start: 0, End: 3, Text: "f()",
					Captures: map[string]string{"a": ""},
				},
			},
		},
		{
			name:    "adjacent placeholders bind the last",
			source:  "k = v;",
			pattern: ":[a]:[b];",
			expected: []Match{
				{
					Start: 0, End: 6, Text: "k = v;",
					Captures: map[string]string{"b": "k = v"},
				},
			},
		},
		{
			name:    "anonymous placeholder captures nothing",
			source:  "console.log(x);",
			pattern: "console.log(:[_])",
			expected: []Match{
				{
					Start: 0, End: 14, Text: "console.log(x)",
					Captures: map[string]string{},
				},
			},
		},
		{
			name:     "no anchor occurrence",
			source:   "abc",
			pattern:  "f(:[a])",
			expected: nil,
		},
		{
			name:     "closer never balances",
			source:   "f(x",
			pattern:  "f(:[a])",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := FindMatches(tt.source, tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.source, got.Source)
			assert.Equal(t, tt.expected, got.Matches)
		})
	}
}

// Every match must carry its exact source span, adjacent matches from a
// placeholder pattern must not overlap, and gaps plus matched text must
// reconstruct the source.
func TestFindMatchesInvariants(t *testing.T) {
	t.Parallel()
	cases := []struct {
		source  string
		pattern string
	}{
		{"foo(bar(baz), qux)", "foo(:[a], :[b])"},
		{"add(1, 2) add(3, 4) add(5, 6)", "add(:[x], :[y])"},
		{"x = 1; y = 2; z = 3;", ":[lhs] = :[rhs];"},
		{"console.log(a); console.log(b);", "console.log(:[_])"},
		{"let a = 1\nlet b = 2\nlet c = 3", "let :[n] = :[v]"},
	}

	for _, tc := range cases {
		got, err := FindMatches(tc.source, tc.pattern)
		require.NoError(t, err)
		require.NotEmpty(t, got.Matches, "pattern %q", tc.pattern)

		reconstructed := ""
		last := 0
		for i, m := range got.Matches {
			assert.Equal(t, tc.source[m.Start:m.End], m.Text)
			if i > 0 {
				assert.GreaterOrEqual(t, m.Start, got.Matches[i-1].End)
			}
			reconstructed += tc.source[last:m.Start] + m.Text
			last = m.End
		}
		reconstructed += tc.source[last:]
		assert.Equal(t, tc.source, reconstructed)
	}
}

func TestFindMatchesParseError(t *testing.T) {
	t.Parallel()

	_, err := FindMatches("source text", "f(:[a")
	assert.ErrorIs(t, err, query.ErrUnterminated)

	_, err = FindMatches("source text", ":[a] :[a]")
	assert.ErrorIs(t, err, query.ErrDuplicateName)
}
