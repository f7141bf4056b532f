// Package asyncvoid reports async void methods in types that ASP.NET Core
// invokes: controllers, SignalR hubs, MVC filters and Razor page handlers.
// The framework awaits what these methods return; async void gives it
// nothing to await.
package asyncvoid

import (
	"github.com/z77ma/aspnetcore/internal/analysis"
	"github.com/z77ma/aspnetcore/internal/diag"
	"github.com/z77ma/aspnetcore/internal/syntax"
)

type Analyzer struct{}

func New() *Analyzer { return &Analyzer{} }

func (*Analyzer) Name() string { return "asyncvoid" }

func (*Analyzer) Descriptors() []diag.Descriptor { return []diag.Descriptor{rule} }

func (*Analyzer) Initialize(ctx *analysis.AnalysisContext) {
	ctx.RegisterCompilationStartAction(func(start *analysis.CompilationStartContext) {
		// All roles need the full shared framework (MVC, Razor Pages, SignalR).
		// A project referencing only part of it is not analyzed.
		wk, ok := resolveWellKnownTypes(start.Compilation())
		if !ok {
			return
		}
		start.RegisterSyntaxNodeAction(func(nc *analysis.SyntaxNodeContext) {
			analyzeType(nc, wk)
		}, syntax.KindClass, syntax.KindRecord)
	})
}

func analyzeType(nc *analysis.SyntaxNodeContext, wk *wellKnownTypes) {
	decl := nc.Node()
	if !decl.Kind.IsClassShaped() {
		return
	}
	comp := nc.Compilation()
	t, ok := comp.DeclaredType(decl)
	if !ok {
		return
	}
	role, filter := classify(t, wk)
	if role == RoleNone {
		return
	}
	for m := range candidates(comp, decl.Members, filter) {
		sym, ok := comp.DeclaredMethod(m)
		if !ok {
			continue
		}
		if d, ok := inspect(sym, role); ok {
			nc.ReportDiagnostic(d)
		}
	}
}
