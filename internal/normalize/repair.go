package normalize

import "strings"

// boilerplatePrefixes are known lead-ins the extraction step sometimes
// prepends to the structured blob.
var boilerplatePrefixes = []string{
	"here is the extracted data:",
	"here is the extraction:",
	"extracted data:",
	"extracted:",
	"output:",
	"result:",
	"json:",
}

// CleanBlob strips boilerplate prefixes and code-fence markers around the
// embedded structured payload.
func CleanBlob(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, p := range boilerplatePrefixes {
		if strings.HasPrefix(lower, p) {
			s = strings.TrimSpace(s[len(p):])
			lower = strings.ToLower(s)
		}
	}
	return stripCodeFence(s)
}

func stripCodeFence(s string) string {
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

// RepairJSON performs the bounded repair for truncated payloads: cut back
// to the last complete closing delimiter outside any string, then append
// closers for any openers still unmatched in the kept prefix. Returns the
// candidate and whether a repair was possible at all.
func RepairJSON(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	lastCloser := -1
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
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '}', ']':
			lastCloser = i
		}
	}
	if lastCloser < 0 {
		return "", false
	}
	s = s[:lastCloser+1]

	// rebuild the open-delimiter stack over the kept prefix
	var stack []byte
	inString, escaped = false, false
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
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var b strings.Builder
	b.WriteString(s)
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String(), true
}
