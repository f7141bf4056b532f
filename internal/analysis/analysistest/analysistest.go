// Package analysistest runs an analyzer over inline C# sources and checks
// its diagnostics against spans marked in the source with [| and |].
//
//	class HomeController : ControllerBase
//	{
//	    public [|async void|] OnClick() { }
//	}
package analysistest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z77ma/aspnetcore/internal/analysis"
	"github.com/z77ma/aspnetcore/internal/diag"
	"github.com/z77ma/aspnetcore/internal/symbols"
	"github.com/z77ma/aspnetcore/internal/syntax"
)

// WebReferences are the references of a default ASP.NET Core web project.
var WebReferences = []string{"Microsoft.NET.Sdk.Web"}

// Source is one input file. Text may carry [|...|] markup.
type Source struct {
	Path string
	Text string
}

// Marked is a span expected by markup, in byte offsets of the stripped text.
type Marked struct {
	Start, End int
}

const (
	openMark  = "[|"
	closeMark = "|]"
)

// Strip removes the markup from text and returns the marked spans.
func Strip(text string) (string, []Marked, error) {
	var b strings.Builder
	var spans []Marked
	open := -1
	for i := 0; i < len(text); {
		switch {
		case strings.HasPrefix(text[i:], openMark):
			if open >= 0 {
				return "", nil, fmt.Errorf("nested %s at offset %d", openMark, i)
			}
			open = b.Len()
			i += len(openMark)
		case strings.HasPrefix(text[i:], closeMark):
			if open < 0 {
				return "", nil, fmt.Errorf("unmatched %s at offset %d", closeMark, i)
			}
			spans = append(spans, Marked{Start: open, End: b.Len()})
			open = -1
			i += len(closeMark)
		default:
			b.WriteByte(text[i])
			i++
		}
	}
	if open >= 0 {
		return "", nil, fmt.Errorf("unterminated %s", openMark)
	}
	return b.String(), spans, nil
}

// Compile parses srcs, stripping markup, and binds them against refs using
// the default catalog. It also returns the marked spans per path.
func Compile(t testing.TB, refs []string, srcs ...Source) (*symbols.Compilation, map[string][]Marked) {
	t.Helper()
	catalog, err := symbols.DefaultCatalog()
	require.NoError(t, err)

	parser := syntax.NewParser()
	marks := make(map[string][]Marked)
	files := make([]*syntax.File, 0, len(srcs))
	for i, src := range srcs {
		path := src.Path
		if path == "" {
			path = fmt.Sprintf("Test%d.cs", i)
		}
		text, spans, err := Strip(src.Text)
		require.NoError(t, err, path)
		f, err := parser.Parse(context.Background(), path, []byte(text))
		require.NoError(t, err, path)
		files = append(files, f)
		marks[path] = spans
	}
	return symbols.NewCompilation("Test", files, refs, catalog), marks
}

// Diagnostics runs a over srcs and returns what it reports, without
// checking markup.
func Diagnostics(t testing.TB, a analysis.Analyzer, refs []string, srcs ...Source) []diag.Diagnostic {
	t.Helper()
	comp, _ := Compile(t, refs, srcs...)
	got, err := analysis.NewDriver([]analysis.Analyzer{a}).Run(context.Background(), []*symbols.Compilation{comp})
	require.NoError(t, err)
	return got
}

// Run runs a over srcs and asserts that it reports exactly one diagnostic per
// marked span and nothing else. It returns the diagnostics for further
// checks.
func Run(t testing.TB, a analysis.Analyzer, refs []string, srcs ...Source) []diag.Diagnostic {
	t.Helper()
	comp, marks := Compile(t, refs, srcs...)
	got, err := analysis.NewDriver([]analysis.Analyzer{a}).Run(context.Background(), []*symbols.Compilation{comp})
	require.NoError(t, err)

	contents := make(map[string][]byte)
	for _, f := range comp.Files() {
		contents[f.Path] = f.Content
	}
	var want, have []string
	for path, spans := range marks {
		for _, m := range spans {
			want = append(want, describe(path, m.Start, m.End, contents[path]))
		}
	}
	for _, d := range got {
		have = append(have, describe(d.Span.File, d.Span.Start.Offset, d.Span.End.Offset, contents[d.Span.File]))
	}
	assert.ElementsMatch(t, want, have, "diagnostic spans")
	return got
}

func describe(path string, start, end int, content []byte) string {
	text := ""
	if start >= 0 && end <= len(content) && start <= end {
		text = string(content[start:end])
	}
	return fmt.Sprintf("%s[%d:%d] %q", path, start, end, text)
}
