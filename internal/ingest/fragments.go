package ingest

// SplitFragments extracts independently-bracketed JSON array fragments
// from a raw byte stream. The upstream crawler appends its output, so a
// single file may hold several concatenated arrays, possibly separated
// by junk. Fragments are returned in encounter order; content inside
// string literals is never mistaken for brackets.
func SplitFragments(data []byte) [][]byte {
	var fragments [][]byte

	depth := 0
	start := -1
	inString := false
	escaped := false

	for i, b := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '[':
			if depth == 0 {
				start = i
			}
			depth++
		case ']':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					fragments = append(fragments, data[start:i+1])
					start = -1
				}
			}
		}
	}

	return fragments
}
