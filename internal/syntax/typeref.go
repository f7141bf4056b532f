package syntax

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/z77ma/aspnetcore/internal/source"
)

// NameSegment is one dotted component of a type name. Arity is the number of
// type arguments (0 for non-generic names).
type NameSegment struct {
	Name  string
	Arity int
}

// MetadataName renders the segment the way assemblies name it: Hub`1.
func (s NameSegment) MetadataName() string {
	if s.Arity == 0 {
		return s.Name
	}
	return s.Name + "`" + strconv.Itoa(s.Arity)
}

// TypeRef is a type as written in source.
type TypeRef struct {
	// Text is the source text with whitespace removed.
	Text string
	// Alias is the qualifier before "::", e.g. "global".
	Alias    string
	Segments []NameSegment
	Span     source.Span
}

// IsVoid reports whether the reference is the void keyword.
func (r TypeRef) IsVoid() bool {
	return r.Text == "void"
}

// MetadataName joins the segments with dots, e.g. Microsoft.AspNetCore.SignalR.Hub`1.
func (r TypeRef) MetadataName() string {
	parts := make([]string, len(r.Segments))
	for i, s := range r.Segments {
		parts[i] = s.MetadataName()
	}
	return strings.Join(parts, ".")
}

// ParseTypeRef splits the text of a type reference into name segments.
// Tuple, pointer and function-pointer types produce no segments.
func ParseTypeRef(text string) TypeRef {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	ref := TypeRef{Text: compact}
	rest := compact
	if idx := strings.Index(rest, "::"); idx >= 0 {
		ref.Alias = rest[:idx]
		rest = rest[idx+2:]
	}
	rest = strings.TrimRight(rest, "?*")
	for strings.HasSuffix(rest, "]") {
		open := strings.LastIndexByte(rest, '[')
		if open < 0 {
			break
		}
		rest = strings.TrimRight(rest[:open], "?")
	}
	if rest == "" || strings.HasPrefix(rest, "(") || strings.Contains(rest, "*") {
		return ref
	}

	depth := 0
	start := 0
	var segments []NameSegment
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '<':
			depth++
		case '>':
			depth--
		case '.':
			if depth == 0 {
				segments = append(segments, parseSegment(rest[start:i]))
				start = i + 1
			}
		}
	}
	segments = append(segments, parseSegment(rest[start:]))
	for _, s := range segments {
		if s.Name == "" {
			return ref
		}
	}
	ref.Segments = segments
	return ref
}

func parseSegment(s string) NameSegment {
	open := strings.IndexByte(s, '<')
	if open < 0 {
		return NameSegment{Name: strings.TrimPrefix(s, "@")}
	}
	seg := NameSegment{Name: strings.TrimPrefix(s[:open], "@"), Arity: 1}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ',':
			if depth == 1 {
				seg.Arity++
			}
		}
	}
	return seg
}
