// Package ui renders lint reports and drives the interactive spinner.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/z77ma/aspnetcore/internal/config"
	"github.com/z77ma/aspnetcore/internal/diag"
	"github.com/z77ma/aspnetcore/internal/lint"
	"github.com/z77ma/aspnetcore/internal/source"
)

// TextOptions tune the text renderer.
type TextOptions struct {
	ShowSource bool
	Color      bool
}

// Render writes r to w in format: text, json or yaml.
func Render(w io.Writer, r *lint.Report, format string, opts TextOptions) error {
	switch format {
	case "", "text":
		return RenderText(w, r, opts)
	case "json":
		return RenderJSON(w, r)
	case "yaml":
		return RenderYAML(w, r)
	}
	return fmt.Errorf("%w: %q", config.ErrUnsupportedFormat, format)
}

func RenderJSON(w io.Writer, r *lint.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(withEmptyDiagnostics(r))
}

func RenderYAML(w io.Writer, r *lint.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(withEmptyDiagnostics(r)); err != nil {
		return err
	}
	return enc.Close()
}

// withEmptyDiagnostics makes a clean report serialize an empty list rather
// than null.
func withEmptyDiagnostics(r *lint.Report) *lint.Report {
	if r.Diagnostics != nil {
		return r
	}
	cp := *r
	cp.Diagnostics = []diag.Diagnostic{}
	return &cp
}

type textStyles struct {
	severity map[diag.Severity]lipgloss.Style
	location lipgloss.Style
	gutter   lipgloss.Style
	caret    lipgloss.Style
	help     lipgloss.Style
	summary  lipgloss.Style
}

func newTextStyles(color bool) textStyles {
	plain := lipgloss.NewStyle()
	if !color {
		return textStyles{
			severity: map[diag.Severity]lipgloss.Style{},
			location: plain, gutter: plain, caret: plain, help: plain, summary: plain,
		}
	}
	return textStyles{
		severity: map[diag.Severity]lipgloss.Style{
			diag.SevError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
			diag.SevWarning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
			diag.SevInfo:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		},
		location: lipgloss.NewStyle().Bold(true),
		gutter:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		caret:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		summary:  lipgloss.NewStyle().Bold(true),
	}
}

// RenderText writes one block per diagnostic followed by a summary line:
//
//	Web/HomeController.cs:7:12: warning ASP0030: Method 'Index' is ...
//	   7 |     public async void Index() { }
//	     |            ^^^^^^^^^^
//	     = help: Change the return type to Task
func RenderText(w io.Writer, r *lint.Report, opts TextOptions) error {
	st := newTextStyles(opts.Color)
	var b strings.Builder
	for _, d := range r.Diagnostics {
		sev := d.Severity.String()
		if style, ok := st.severity[d.Severity]; ok {
			sev = style.Render(sev)
		}
		loc := fmt.Sprintf("%s:%d:%d", displayPath(r.RootPath, d.Span.File), d.Span.Start.Line, d.Span.Start.Column)
		fmt.Fprintf(&b, "%s: %s %s: %s\n", st.location.Render(loc), sev, d.ID, d.Message)
		if opts.ShowSource {
			if content, ok := r.Source(d.Span.File); ok && d.Span.Start.Line > 0 {
				writeSnippet(&b, st, d.Span, content)
			}
		}
		if d.Suggestion != "" {
			fmt.Fprintf(&b, "%s %s\n", st.gutter.Render(strings.Repeat(" ", gutterWidth(d.Span))+" ="), st.help.Render("help: "+d.Suggestion))
		}
		if opts.ShowSource || d.Suggestion != "" {
			b.WriteString("\n")
		}
	}
	b.WriteString(st.summary.Render(summary(r)))
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// displayPath shortens path to be relative to root when it lies below it.
func displayPath(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

func gutterWidth(s source.Span) int {
	return len(fmt.Sprint(s.Start.Line)) + 1
}

func writeSnippet(b *strings.Builder, st textStyles, s source.Span, content []byte) {
	line := source.Line(content, s.Start.Line)
	startCol := clamp(s.Start.Column-1, 0, len(line))
	endCol := len(line)
	if s.End.Line == s.Start.Line {
		endCol = clamp(s.End.Column-1, startCol, len(line))
	}

	shown := expandTabs(line)
	pad := runewidth.StringWidth(expandTabs(line[:startCol]))
	width := runewidth.StringWidth(expandTabs(line[:endCol])) - pad
	if width < 1 {
		width = 1
	}

	gw := gutterWidth(s)
	fmt.Fprintf(b, "%s %s\n", st.gutter.Render(fmt.Sprintf("%*d |", gw, s.Start.Line)), shown)
	fmt.Fprintf(b, "%s %s%s\n", st.gutter.Render(strings.Repeat(" ", gw)+" |"), strings.Repeat(" ", pad), st.caret.Render(strings.Repeat("^", width)))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func summary(r *lint.Report) string {
	files := 0
	for _, p := range r.Projects {
		files += p.Files
	}
	if len(r.Diagnostics) == 0 {
		return fmt.Sprintf("No issues found in %s (%s)", plural(len(r.Projects), "project"), plural(files, "file"))
	}
	var parts []string
	for _, sev := range []diag.Severity{diag.SevError, diag.SevWarning, diag.SevInfo} {
		if n := r.Counts[sev.String()]; n > 0 {
			parts = append(parts, plural(n, sev.String()))
		}
	}
	if n := r.Counts[diag.SevNone.String()]; n > 0 {
		parts = append(parts, plural(n, "note"))
	}
	return fmt.Sprintf("Found %s in %s (%s)", strings.Join(parts, ", "), plural(len(r.Projects), "project"), plural(files, "file"))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
