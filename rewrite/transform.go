package rewrite

import (
	"strings"

	"github.com/srclift/srep/rewrite/query"
)

// Change records one applied rewrite: source[Start:End] held Before and was
// replaced by After.
type Change struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// TransformResult is the rewritten text plus the ordered change log.
type TransformResult struct {
	Result  string   `json:"result"`
	Changes []Change `json:"changes"`
}

// Transform rewrites every occurrence of sourcePattern in source using
// targetPattern, substituting each match's captures into the target's
// placeholders. With no matches the source comes back unchanged with an
// empty change list. Overlapping matches from a placeholder-free pattern are
// applied leftmost first; a match starting inside an already rewritten span
// is dropped.
//
// Transform is not idempotent when the rewritten text still satisfies
// sourcePattern; re-running it is a caller's choice, not a defect.
func Transform(source, sourcePattern, targetPattern string) (TransformResult, error) {
	found, err := FindMatches(source, sourcePattern)
	if err != nil {
		return TransformResult{}, err
	}

	changes := make([]Change, 0, len(found.Matches))
	var out strings.Builder
	last := 0
	for _, m := range found.Matches {
		if m.Start < last {
			continue
		}
		after := query.ApplyCaptures(targetPattern, m.Captures)
		out.WriteString(source[last:m.Start])
		out.WriteString(after)
		changes = append(changes, Change{
			Start:  m.Start,
			End:    m.End,
			Before: m.Text,
			After:  after,
		})
		last = m.End
	}
	out.WriteString(source[last:])

	return TransformResult{Result: out.String(), Changes: changes}, nil
}
