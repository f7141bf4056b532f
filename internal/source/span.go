package source

import (
	"fmt"
)

// Pos is a location inside a file. Offset is a byte offset; Line and Column
// are 1-based, Column counts bytes.
type Pos struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open byte range [Start, End) in File.
type Span struct {
	File  string `json:"file" yaml:"file"`
	Start Pos    `json:"start" yaml:"start"`
	End   Pos    `json:"end" yaml:"end"`
}

func (s Span) Empty() bool {
	return s.Start.Offset == s.End.Offset
}

func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start.Offset < s.Start.Offset {
		s.Start = other.Start
	}
	if other.End.Offset > s.End.Offset {
		s.End = other.End
	}
	return s
}

// Text returns the bytes of content covered by the span.
func (s Span) Text(content []byte) string {
	if s.Start.Offset < 0 || s.End.Offset > len(content) || s.Start.Offset > s.End.Offset {
		return ""
	}
	return string(content[s.Start.Offset:s.End.Offset])
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Start.Line, s.Start.Column)
}
