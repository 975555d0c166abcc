// Package rewrite implements structural find and replace over source text
// using :[name] placeholder patterns, honoring bracket nesting and
// string/template quoting without parsing the language.
package rewrite

import (
	"strings"

	"github.com/srclift/srep/rewrite/query"
)

// Match is one located pattern occurrence. End is exclusive and Text is
// always source[Start:End].
type Match struct {
	Start    int               `json:"start"`
	End      int               `json:"end"`
	Text     string            `json:"text"`
	Captures map[string]string `json:"captures"`
}

// MatchResult pairs the scanned source with its matches, ascending by start
// offset.
type MatchResult struct {
	Source  string  `json:"source"`
	Matches []Match `json:"matches"`
}

// FindMatches scans source for occurrences of pattern. The only error is a
// malformed pattern.
//
// A pattern without placeholders degrades to plain substring search and the
// cursor advances one character per hit, so overlapping occurrences are all
// reported. With placeholders, matches never overlap: scanning resumes at
// each match end.
func FindMatches(source, pattern string) (MatchResult, error) {
	pat, err := query.Parse(pattern)
	if err != nil {
		return MatchResult{}, err
	}
	result := MatchResult{Source: source}
	if !pat.HasPlaceholders() {
		result.Matches = findLiteral(source, pat.Tokens)
		return result, nil
	}
	result.Matches = findStructural(source, pat.Tokens)
	return result, nil
}

// findLiteral reports every occurrence of the pattern's literal text,
// overlaps included. An empty pattern matches nothing.
func findLiteral(source string, tokens []query.Token) []Match {
	var text strings.Builder
	for _, tok := range tokens {
		text.WriteString(tok.(query.Literal).Text)
	}
	lit := text.String()
	if lit == "" {
		return nil
	}

	var matches []Match
	cursor := 0
	for {
		idx := strings.Index(source[cursor:], lit)
		if idx < 0 {
			break
		}
		start := cursor + idx
		matches = append(matches, Match{
			Start:    start,
			End:      start + len(lit),
			Text:     lit,
			Captures: map[string]string{},
		})
		cursor = start + 1
	}
	return matches
}

// findStructural runs the placeholder-aware scan from a cursor at 0 until it
// reaches the end of source. A failed attempt resumes one character past its
// start; a successful match resumes at its end.
func findStructural(source string, tokens []query.Token) []Match {
	var matches []Match
	cursor := 0
	for cursor < len(source) {
		start, ok := nextStart(source, tokens, cursor)
		if !ok {
			break
		}
		m, ok := matchAt(source, tokens, start)
		if !ok {
			cursor = start + 1
			continue
		}
		matches = append(matches, m)
		cursor = m.End
		if m.End == m.Start {
			// zero-width match, force progress
			cursor++
		}
	}
	return matches
}

// nextStart locates the next candidate match start at or after cursor. A
// leading literal anchors on its next verbatim occurrence, with no balance
// requirement at this first anchor; a leading placeholder starts at the
// cursor itself.
func nextStart(source string, tokens []query.Token, cursor int) (int, bool) {
	lit, ok := tokens[0].(query.Literal)
	if !ok {
		return cursor, true
	}
	idx := strings.Index(source[cursor:], lit.Text)
	if idx < 0 {
		return 0, false
	}
	return cursor + idx, true
}

// matchAt attempts to match the full token sequence anchored at start. The
// bracket state is fresh per attempt and threaded through every seek, so a
// capture's nesting carries into the search for the literal that ends it.
func matchAt(source string, tokens []query.Token, start int) (Match, bool) {
	captures := map[string]string{}
	var state bracketState
	pos := start

	next := 0
	if lit, ok := tokens[0].(query.Literal); ok {
		pos += len(lit.Text)
		next = 1
	}
	captureStart := pos

	// pending is the placeholder awaiting its terminating literal. Adjacent
	// placeholders overwrite it, so the last of a run captures the whole
	// span between literals.
	var pending query.Placeholder
	havePending := false

	for _, tok := range tokens[next:] {
		switch tok := tok.(type) {
		case query.Placeholder:
			pending = tok
			havePending = true
		case query.Literal:
			at, ok := state.seekLiteral(source, pos, tok.Text)
			if !ok {
				return Match{}, false
			}
			if havePending && !pending.Anonymous() {
				captures[pending.Name] = source[captureStart:at]
			}
			pos = at + len(tok.Text)
			captureStart = pos
			havePending = false
		}
	}

	// A trailing placeholder captures up to the first balanced ';' or '\n',
	// or the end of source. This approximates a statement end; it is not
	// expression parsing.
	if havePending {
		end := state.seekBoundary(source, pos)
		if !pending.Anonymous() {
			captures[pending.Name] = source[captureStart:end]
		}
		pos = end
	}

	return Match{
		Start:    start,
		End:      pos,
		Text:     source[start:pos],
		Captures: captures,
	}, true
}
