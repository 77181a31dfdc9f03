package repair

import "strings"

// rewriteOutsideStrings applies fn to every run of s that lies outside a JSON
// double-quoted string literal. String literals, including their quotes, are
// copied verbatim. An unterminated literal extends to the end of s.
func rewriteOutsideStrings(s string, fn func(string) string) string {
	var out strings.Builder
	out.Grow(len(s))

	start := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
				out.WriteString(s[start : i+1])
				start = i + 1
			}
			continue
		}

		if c == '"' {
			out.WriteString(fn(s[start:i]))
			start = i
			inString = true
		}
	}

	if inString {
		out.WriteString(s[start:])
	} else {
		out.WriteString(fn(s[start:]))
	}

	return out.String()
}
