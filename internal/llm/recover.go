package llm

import "strings"

// FindJSONObject returns the outermost balanced {...} substring of reply.
// Braces inside JSON strings are ignored. When the first opening brace never
// closes, the search continues from the next one.
func FindJSONObject(reply string) (string, bool) {
	for start := strings.IndexByte(reply, '{'); start >= 0; {
		if end, ok := matchBrace(reply, start); ok {
			return reply[start : end+1], true
		}
		next := strings.IndexByte(reply[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
