// Package analysis hosts analyzers: it hands each compilation to the
// analyzers' start actions and then feeds every matching declaration to the
// node actions they registered, collecting what they report.
package analysis

import (
	"context"

	"github.com/z77ma/aspnetcore/internal/diag"
	"github.com/z77ma/aspnetcore/internal/symbols"
	"github.com/z77ma/aspnetcore/internal/syntax"
)

// Analyzer is a rule implementation. Initialize is called once per driver;
// everything else happens in the actions it registers.
type Analyzer interface {
	Name() string
	Descriptors() []diag.Descriptor
	Initialize(ctx *AnalysisContext)
}

// AnalysisContext collects an analyzer's start actions.
type AnalysisContext struct {
	startActions []func(*CompilationStartContext)
}

// RegisterCompilationStartAction runs fn once for every compilation before
// any of its declarations are visited.
func (a *AnalysisContext) RegisterCompilationStartAction(fn func(*CompilationStartContext)) {
	a.startActions = append(a.startActions, fn)
}

type nodeAction struct {
	fn    func(*SyntaxNodeContext)
	kinds []syntax.Kind
}

func (a nodeAction) matches(k syntax.Kind) bool {
	for _, want := range a.kinds {
		if want == k {
			return true
		}
	}
	return false
}

// CompilationStartContext is handed to start actions.
type CompilationStartContext struct {
	ctx         context.Context
	compilation *symbols.Compilation
	actions     []nodeAction
}

func (c *CompilationStartContext) Compilation() *symbols.Compilation { return c.compilation }

func (c *CompilationStartContext) Context() context.Context { return c.ctx }

// RegisterSyntaxNodeAction runs fn for every declaration of one of kinds in
// the compilation. Calls may happen concurrently and in any order.
func (c *CompilationStartContext) RegisterSyntaxNodeAction(fn func(*SyntaxNodeContext), kinds ...syntax.Kind) {
	if len(kinds) == 0 {
		return
	}
	c.actions = append(c.actions, nodeAction{fn: fn, kinds: kinds})
}

// SyntaxNodeContext is handed to node actions.
type SyntaxNodeContext struct {
	ctx         context.Context
	node        *syntax.Decl
	compilation *symbols.Compilation
	report      func(diag.Diagnostic)
}

func (c *SyntaxNodeContext) Node() *syntax.Decl { return c.node }

func (c *SyntaxNodeContext) Compilation() *symbols.Compilation { return c.compilation }

func (c *SyntaxNodeContext) Context() context.Context { return c.ctx }

// ReportDiagnostic hands d to the driver. Safe for concurrent use.
func (c *SyntaxNodeContext) ReportDiagnostic(d diag.Diagnostic) { c.report(d) }
