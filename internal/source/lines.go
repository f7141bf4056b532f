package source

import "bytes"

// Line returns the text of the 1-based line n without its terminator.
func Line(content []byte, n int) string {
	if n < 1 {
		return ""
	}
	for i := 1; i < n; i++ {
		idx := bytes.IndexByte(content, '\n')
		if idx < 0 {
			return ""
		}
		content = content[idx+1:]
	}
	if idx := bytes.IndexByte(content, '\n'); idx >= 0 {
		content = content[:idx]
	}
	return string(bytes.TrimRight(content, "\r"))
}
