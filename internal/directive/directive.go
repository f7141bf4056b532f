// Package directive reads the in-source suppression directives that silence
// diagnostics: C# warning pragmas and aspnetlint:ignore comments.
//
// Supported forms:
//
//	#pragma warning disable ASP0030        disables ASP0030 until restored
//	#pragma warning disable                disables every rule
//	#pragma warning restore ASP0030
//	// aspnetlint:ignore                   on its own line: ignores every rule on the
//	                                       next code line, attribute lines skipped
//	x(); // aspnetlint:ignore ASP0030      trailing: ignores ASP0030 on this line only
//	// aspnetlint:ignore ASP0030 - reason  ignores one rule
//
// Rule ids are matched case-insensitively.
package directive

import (
	"bufio"
	"bytes"
	"strings"
)

const ignorePrefix = "aspnetlint:ignore"

// all stands for "every rule" in pragmas and ignore comments without ids.
const all = "*"

type region struct {
	start, end int // lines, end exclusive; 0 means open to end of file
}

// Map answers whether a rule is suppressed on a given line of one file. It is
// immutable once built.
type Map struct {
	regions map[string][]region
	ignores map[int][]string
}

// Parse scans content for directives.
func Parse(content []byte) *Map {
	m := &Map{
		regions: make(map[string][]region),
		ignores: make(map[int][]string),
	}
	open := make(map[string]int)

	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	// pending holds the ids of standalone ignore comments waiting for the
	// next code line; depth tracks attribute lists spanning several lines.
	var pending []string
	depth := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if ids, disable, ok := parsePragma(text); ok {
			if len(ids) == 0 {
				ids = []string{all}
			}
			for _, id := range ids {
				if disable {
					if _, already := open[id]; !already {
						open[id] = line
					}
					continue
				}
				if id == all {
					// a bare restore closes every open region
					for openID, start := range open {
						m.regions[openID] = append(m.regions[openID], region{start: start, end: line})
					}
					clear(open)
					continue
				}
				if start, ok := open[id]; ok {
					m.regions[id] = append(m.regions[id], region{start: start, end: line})
					delete(open, id)
				}
			}
			continue
		}
		ids, trailing, ok := parseIgnore(text)
		if ok && len(ids) == 0 {
			ids = []string{all}
		}
		switch {
		case ok && !trailing:
			pending = append(pending, ids...)
			continue
		case ok:
			m.ignores[line] = append(m.ignores[line], ids...)
		}
		if pending == nil {
			continue
		}
		if depth > 0 || strings.HasPrefix(text, "[") {
			var only bool
			if depth, only = scanAttributes(text, depth); only {
				continue
			}
		}
		if text == "" || strings.HasPrefix(text, "//") || strings.HasPrefix(text, "/*") || strings.HasPrefix(text, "*") {
			continue
		}
		m.ignores[line] = append(m.ignores[line], pending...)
		pending = nil
	}
	for id, start := range open {
		m.regions[id] = append(m.regions[id], region{start: start})
	}
	return m
}

// scanAttributes walks text as a continuation of attribute lists open to
// depth. It reports the depth at the end of the line and whether the line
// holds nothing but attributes and comments.
func scanAttributes(text string, depth int) (int, bool) {
	inString := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '[':
			depth++
		case c == ']' && depth > 0:
			depth--
		case depth == 0 && strings.HasPrefix(text[i:], "//"):
			return depth, true
		case depth == 0 && c != ' ' && c != '\t':
			return 0, false
		}
	}
	return depth, true
}

// Suppressed reports whether rule id is silenced on line (1-based).
func (m *Map) Suppressed(id string, line int) bool {
	if m == nil {
		return false
	}
	id = strings.ToUpper(id)
	for _, key := range []string{id, all} {
		for _, r := range m.regions[key] {
			if line > r.start && (r.end == 0 || line < r.end) {
				return true
			}
		}
	}
	return matches(m.ignores[line], id)
}

// Empty reports whether the file has no directives at all.
func (m *Map) Empty() bool {
	return m == nil || (len(m.regions) == 0 && len(m.ignores) == 0)
}

func matches(ids []string, id string) bool {
	for _, x := range ids {
		if x == all || x == id {
			return true
		}
	}
	return false
}

// parsePragma recognises "#pragma warning disable|restore [ids]".
func parsePragma(text string) (ids []string, disable bool, ok bool) {
	if !strings.HasPrefix(text, "#") {
		return nil, false, false
	}
	fields := strings.Fields(strings.TrimSpace(strings.TrimPrefix(text, "#")))
	if len(fields) < 3 || fields[0] != "pragma" || fields[1] != "warning" {
		return nil, false, false
	}
	switch fields[2] {
	case "disable":
		disable = true
	case "restore":
	default:
		return nil, false, false
	}
	rest := strings.Join(fields[3:], " ")
	if idx := strings.Index(rest, "//"); idx >= 0 {
		rest = rest[:idx]
	}
	return splitIDs(rest), disable, true
}

// parseIgnore recognises a line that is, or ends with, an
// "// aspnetlint:ignore [ids] [- reason]" comment. trailing is set when code
// precedes the comment.
func parseIgnore(text string) (ids []string, trailing bool, ok bool) {
	idx := strings.Index(text, "//")
	for idx >= 0 {
		comment := strings.TrimSpace(text[idx+2:])
		if strings.HasPrefix(comment, ignorePrefix) {
			trailing = strings.TrimSpace(text[:idx]) != ""
			rest := strings.TrimPrefix(comment, ignorePrefix)
			if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
				return nil, false, false
			}
			rest = strings.TrimSpace(rest)
			if rest == "-" || strings.HasPrefix(rest, "- ") {
				return nil, trailing, true
			}
			if i := strings.Index(rest, " - "); i >= 0 {
				rest = rest[:i]
			}
			return splitIDs(rest), trailing, true
		}
		next := strings.Index(text[idx+2:], "//")
		if next < 0 {
			break
		}
		idx += 2 + next
	}
	return nil, false, false
}

func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		ids = append(ids, strings.ToUpper(part))
	}
	return ids
}
