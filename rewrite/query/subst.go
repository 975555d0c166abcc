package query

import "strings"

// ApplyCaptures substitutes captured values into a rewrite template. Each
// :[name] group whose name is present in captures is replaced by its value;
// groups with absent names are emitted verbatim, as is a ":[" that never
// closes. Substitution never fails.
func ApplyCaptures(target string, captures map[string]string) string {
	var out strings.Builder
	i := 0
	for i < len(target) {
		if target[i] == ':' && i+1 < len(target) && target[i+1] == '[' {
			if end := strings.IndexByte(target[i+2:], ']'); end >= 0 {
				name := target[i+2 : i+2+end]
				if val, ok := captures[name]; ok {
					out.WriteString(val)
				} else {
					out.WriteString(target[i : i+end+3])
				}
				i += end + 3
				continue
			}
		}
		out.WriteByte(target[i])
		i++
	}
	return out.String()
}
