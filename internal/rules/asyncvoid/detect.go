package asyncvoid

import (
	"github.com/z77ma/aspnetcore/internal/diag"
	"github.com/z77ma/aspnetcore/internal/source"
	"github.com/z77ma/aspnetcore/internal/symbols"
)

// inspect reports m when it is async and returns void. The span runs from
// the last modifier, normally async, to the end of the return type.
func inspect(m *symbols.MethodSymbol, role Role) (diag.Diagnostic, bool) {
	if m == nil || !m.IsAsync || !m.ReturnsVoid {
		return diag.Diagnostic{}, false
	}
	last, ok := m.Decl.LastModifier()
	if !ok || m.Decl.ReturnType == nil {
		return diag.Diagnostic{}, false
	}
	span := source.Span{
		File:  last.Span.File,
		Start: last.Span.Start,
		End:   m.Decl.ReturnType.Span.End,
	}
	typeName := ""
	if m.ContainingType != nil {
		typeName = m.ContainingType.Name()
	}
	return diag.Create(rule, span, m.Name, role, typeName).WithSuggestion(suggestion), true
}
