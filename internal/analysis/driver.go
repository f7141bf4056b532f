package analysis

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/z77ma/aspnetcore/internal/diag"
	"github.com/z77ma/aspnetcore/internal/directive"
	"github.com/z77ma/aspnetcore/internal/logger"
	"github.com/z77ma/aspnetcore/internal/source"
	"github.com/z77ma/aspnetcore/internal/symbols"
	"github.com/z77ma/aspnetcore/internal/syntax"
)

// ErrAnalyzerFailure marks a panic raised inside an analyzer action.
var ErrAnalyzerFailure = errors.New("analyzer failure")

// FailureDescriptor describes the diagnostic reported in place of an
// analyzer that panicked.
var FailureDescriptor = diag.Descriptor{
	ID:              "AD0001",
	Title:           "Analyzer failure",
	MessageFormat:   "Analyzer '%s' failed and was skipped for '%s': %v",
	Category:        "Compiler",
	DefaultSeverity: diag.SevWarning,
}

type registered struct {
	analyzer     Analyzer
	startActions []func(*CompilationStartContext)
}

// Driver runs a fixed set of analyzers over compilations.
type Driver struct {
	analyzers   []registered
	concurrency int
	severities  map[string]diag.Severity
	suppress    bool
	generated   bool
	log         logger.Logger
}

type Option func(*Driver)

// WithConcurrency bounds the number of node actions running at once.
// Values below one select GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(d *Driver) { d.concurrency = n }
}

// WithSeverities overrides the severity of rules by ID. SevNone drops the
// rule's diagnostics.
func WithSeverities(s map[string]diag.Severity) Option {
	return func(d *Driver) { d.severities = s }
}

// WithSuppressions toggles honouring pragma and ignore directives.
func WithSuppressions(enabled bool) Option {
	return func(d *Driver) { d.suppress = enabled }
}

// WithGeneratedCode makes node actions visit declarations in generated files
// and keeps diagnostics located there. By default generated code only
// contributes symbols.
func WithGeneratedCode(analyze bool) Option {
	return func(d *Driver) { d.generated = analyze }
}

func WithLogger(l logger.Logger) Option {
	return func(d *Driver) { d.log = l }
}

func NewDriver(analyzers []Analyzer, opts ...Option) *Driver {
	d := &Driver{suppress: true, log: logger.Nop{}}
	for _, opt := range opts {
		opt(d)
	}
	if d.concurrency < 1 {
		d.concurrency = runtime.GOMAXPROCS(0)
	}
	for _, a := range analyzers {
		ac := &AnalysisContext{}
		a.Initialize(ac)
		d.analyzers = append(d.analyzers, registered{analyzer: a, startActions: ac.startActions})
	}
	return d
}

// Descriptors lists the descriptors of every analyzer, in registration order.
func (d *Driver) Descriptors() []diag.Descriptor {
	var out []diag.Descriptor
	for _, r := range d.analyzers {
		out = append(out, r.analyzer.Descriptors()...)
	}
	return out
}

// Run analyzes every compilation and returns the sorted diagnostics. An
// analyzer that panics is reported once as an AD0001 diagnostic and skipped
// for the rest of that compilation; other analyzers and compilations go on.
// The only error returned is the context's.
func (d *Driver) Run(ctx context.Context, compilations []*symbols.Compilation) ([]diag.Diagnostic, error) {
	bag := diag.NewBag()
	for _, comp := range compilations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := d.runCompilation(ctx, comp, bag); err != nil {
			return nil, err
		}
	}
	items := d.filter(compilations, bag.Items())
	diag.Sort(items)
	return items, nil
}

// failures records the analyzers that panicked within one compilation.
type failures struct {
	mu  sync.Mutex
	set map[*registered]bool
}

func (f *failures) failed(r *registered) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set[r]
}

// mark records r and reports whether it was the first failure of r.
func (f *failures) mark(r *registered) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.set[r] {
		return false
	}
	f.set[r] = true
	return true
}

func (d *Driver) runCompilation(ctx context.Context, comp *symbols.Compilation, bag *diag.Bag) error {
	type work struct {
		owner  *registered
		action nodeAction
	}
	fails := &failures{set: make(map[*registered]bool)}
	var actions []work
	for i := range d.analyzers {
		r := &d.analyzers[i]
		for _, start := range r.startActions {
			sc := &CompilationStartContext{ctx: ctx, compilation: comp}
			if err := d.guard(r, comp, bag, fails, func() { start(sc) }); err != nil {
				return err
			}
			if fails.failed(r) {
				break
			}
			for _, a := range sc.actions {
				actions = append(actions, work{owner: r, action: a})
			}
		}
	}
	if len(actions) == 0 {
		d.log.Debugf("compilation %s: no analyzer applies", comp.Name())
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for _, f := range comp.Files() {
		if f.Generated && !d.generated {
			continue
		}
		syntax.Walk(f, func(decl *syntax.Decl) bool {
			for _, w := range actions {
				if !w.action.matches(decl.Kind) {
					continue
				}
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					if fails.failed(w.owner) {
						return nil
					}
					nc := &SyntaxNodeContext{
						ctx:         gctx,
						node:        decl,
						compilation: comp,
						report:      bag.Add,
					}
					return d.guard(w.owner, comp, bag, fails, func() { w.action.fn(nc) })
				})
			}
			return true
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// errgroup cancels gctx only on error; a cancelled parent surfaces here.
	return ctx.Err()
}

// guard runs fn, turning a panic into an AD0001 diagnostic. Panics carrying
// a context error are returned instead so cancellation is never swallowed.
func (d *Driver) guard(r *registered, comp *symbols.Compilation, bag *diag.Bag, fails *failures, fn func()) (err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if e, ok := p.(error); ok && (errors.Is(e, context.Canceled) || errors.Is(e, context.DeadlineExceeded)) {
			err = e
			return
		}
		if !fails.mark(r) {
			return
		}
		name := r.analyzer.Name()
		d.log.Warnf("%v", fmt.Errorf("%w: %s in %s: %v", ErrAnalyzerFailure, name, comp.Name(), p))
		bag.Add(diag.Create(FailureDescriptor, source.Span{File: comp.Name()}, name, comp.Name(), p))
	}()
	fn()
	return nil
}

// filter drops diagnostics located in generated code, then applies severity
// overrides and in-source suppressions.
func (d *Driver) filter(compilations []*symbols.Compilation, items []diag.Diagnostic) []diag.Diagnostic {
	var maps map[string]*directive.Map
	generated := make(map[string]bool)
	if d.suppress {
		maps = make(map[string]*directive.Map)
	}
	for _, comp := range compilations {
		for _, f := range comp.Files() {
			if f.Generated && !d.generated {
				generated[f.Path] = true
			}
			if maps == nil {
				continue
			}
			if m := directive.Parse(f.Content); !m.Empty() {
				maps[f.Path] = m
			}
		}
	}

	out := items[:0]
	for _, it := range items {
		if generated[it.Span.File] {
			continue
		}
		if sev, ok := d.severities[it.ID]; ok {
			if sev == diag.SevNone {
				continue
			}
			it.Severity = sev
		}
		if m := maps[it.Span.File]; m != nil && m.Suppressed(it.ID, it.Span.Start.Line) {
			continue
		}
		out = append(out, it)
	}
	return out
}
