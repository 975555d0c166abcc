// Package formatter renders matches and rewrite changes for terminal review.
package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/srclift/srep/rewrite"
)

const tabWidth = 8

var (
	matchStyle  = color.New(color.FgGreen, color.Bold)
	ruleStyle   = color.New(color.FgYellow, color.Bold)
	fileStyle   = color.New(color.FgCyan, color.Bold)
	lineStyle   = color.New(color.FgHiBlue, color.Bold)
	deleteStyle = color.New(color.FgRed)
	insertStyle = color.New(color.FgGreen)
)

// SourceText indexes a file's content for offset-to-position lookups.
type SourceText struct {
	Lines  []string
	starts []int
}

// NewSourceText splits src into lines and records each line's byte offset.
func NewSourceText(src string) *SourceText {
	lines := strings.Split(src, "\n")
	starts := make([]int, len(lines))
	offset := 0
	for i, line := range lines {
		starts[i] = offset
		offset += len(line) + 1
	}
	return &SourceText{Lines: lines, starts: starts}
}

// Position converts a byte offset into a 1-based line and column. Offsets
// past the end of the text map onto the last line.
func (s *SourceText) Position(offset int) (line, column int) {
	i := sort.Search(len(s.starts), func(i int) bool { return s.starts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - s.starts[i] + 1
}

// Line returns the 1-based line n without its trailing newline, or an
// empty string when n is out of range.
func (s *SourceText) Line(n int) string {
	if n < 1 || n > len(s.Lines) {
		return ""
	}
	return s.Lines[n-1]
}

// FormatMatches renders each match with its location, a snippet of the
// matched line with the span underlined, and any captures.
func FormatMatches(path, src string, matches []rewrite.Match) string {
	text := NewSourceText(src)
	var builder strings.Builder
	for i, m := range matches {
		line, column := text.Position(m.Start)
		builder.WriteString(matchStyle.Sprintf("match %d\n", i+1))
		builder.WriteString(lineStyle.Sprintf("%s--> ", strings.Repeat(" ", lineNumWidth(line))))
		builder.WriteString(fileStyle.Sprintf("%s:%d:%d", path, line, column))
		builder.WriteString("\n")
		builder.WriteString(formatSnippet(text, line, column, m.End-m.Start))
		writeCaptures(&builder, m.Captures)
		builder.WriteString("\n")
	}
	return builder.String()
}

// FormatFileChanges renders the changes each rule produced for one file as
// removed and inserted lines. Change offsets refer to the text the rule ran
// against, which for rules after the first is the previous rule's output.
func FormatFileChanges(path string, results []rewrite.RuleResult) string {
	var builder strings.Builder
	for _, res := range results {
		for _, change := range res.Changes {
			builder.WriteString(matchStyle.Sprint("rewrite: "))
			builder.WriteString(ruleStyle.Sprintf("%s\n", res.Rule.Name))
			builder.WriteString(lineStyle.Sprint(" --> "))
			builder.WriteString(fileStyle.Sprint(path))
			builder.WriteString(lineStyle.Sprintf(" @ %d..%d", change.Start, change.End))
			builder.WriteString("\n")
			writeDiff(&builder, change.Before, change.After)
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

func formatSnippet(text *SourceText, line, column, width int) string {
	raw := text.Line(line)
	lineNum := fmt.Sprintf("%d", line)
	padding := strings.Repeat(" ", len(lineNum)+1)

	var builder strings.Builder
	builder.WriteString(lineStyle.Sprintf("%s|\n", padding))
	builder.WriteString(lineStyle.Sprintf("%s | ", lineNum))
	builder.WriteString(expandTabs(raw))
	builder.WriteString("\n")

	// the underline stops at the end of the first matched line
	span := width
	if rest := len(raw) - (column - 1); span > rest {
		span = rest
	}
	if span < 1 {
		span = 1
	}
	builder.WriteString(lineStyle.Sprintf("%s| ", padding))
	builder.WriteString(strings.Repeat(" ", calculateVisualColumn(raw, column)))
	builder.WriteString(ruleStyle.Sprint("^" + strings.Repeat("~", span-1)))
	builder.WriteString("\n")
	return builder.String()
}

func writeCaptures(builder *strings.Builder, captures map[string]string) {
	if len(captures) == 0 {
		return
	}
	names := make([]string, 0, len(captures))
	for name := range captures {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		builder.WriteString("  ")
		builder.WriteString(ruleStyle.Sprintf(":[%s]", name))
		builder.WriteString(fmt.Sprintf(" = %q\n", captures[name]))
	}
}

func writeDiff(builder *strings.Builder, before, after string) {
	for _, line := range splitLines(before) {
		builder.WriteString(deleteStyle.Sprintf("- %s\n", line))
	}
	for _, line := range splitLines(after) {
		builder.WriteString(insertStyle.Sprintf("+ %s\n", line))
	}
}

// splitLines splits s for diff display. A trailing newline is dropped so it
// does not render as an extra empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func lineNumWidth(line int) int {
	return len(fmt.Sprintf("%d", line))
}

func expandTabs(line string) string {
	var expanded strings.Builder
	for i := 0; i < len(line); i++ {
		if line[i] == '\t' {
			spaceCount := tabWidth - (expanded.Len() % tabWidth)
			expanded.WriteString(strings.Repeat(" ", spaceCount))
		} else {
			expanded.WriteByte(line[i])
		}
	}
	return expanded.String()
}

// calculateVisualColumn maps a 1-based byte column onto the on-screen
// column after tab expansion.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 == column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}
