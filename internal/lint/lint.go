// Package lint ties discovery, loading and analysis together into one run
// over a directory tree.
package lint

import (
	"context"
	"errors"
	"fmt"

	"github.com/z77ma/aspnetcore/internal/analysis"
	"github.com/z77ma/aspnetcore/internal/config"
	"github.com/z77ma/aspnetcore/internal/diag"
	"github.com/z77ma/aspnetcore/internal/logger"
	"github.com/z77ma/aspnetcore/internal/symbols"
	"github.com/z77ma/aspnetcore/internal/workspace"
)

// ErrDiagnosticsFound is returned by callers when a report meets the
// configured failure threshold.
var ErrDiagnosticsFound = errors.New("diagnostics found")

// ProjectSummary describes one analyzed project.
type ProjectSummary struct {
	Name       string   `json:"name" yaml:"name"`
	File       string   `json:"file,omitempty" yaml:"file,omitempty"`
	References []string `json:"references" yaml:"references"`
	// Files counts the analyzed sources; generated ones only when included.
	Files int `json:"files" yaml:"files"`
}

// Report is the outcome of a run.
type Report struct {
	RootPath    string            `json:"root_path" yaml:"root_path"`
	Projects    []ProjectSummary  `json:"projects" yaml:"projects"`
	Diagnostics []diag.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Counts      map[string]int    `json:"counts" yaml:"counts"`

	// sources maps analyzed file paths to their content for rendering.
	sources map[string][]byte
}

// Source returns the content of an analyzed file.
func (r *Report) Source(path string) ([]byte, bool) {
	b, ok := r.sources[path]
	return b, ok
}

// Exceeds reports whether any diagnostic is at or above threshold.
func (r *Report) Exceeds(threshold diag.Severity) bool {
	return diag.HasAtLeast(r.Diagnostics, threshold)
}

// Linter runs the registered analyzers over ASP.NET Core projects.
type Linter struct {
	cfg       *config.Config
	log       logger.Logger
	catalog   *symbols.Catalog
	analyzers []analysis.Analyzer
}

// New builds a linter from cfg. Catalog files named in cfg are layered over
// the built-in catalog.
func New(cfg *config.Config, analyzers []analysis.Analyzer, log logger.Logger) (*Linter, error) {
	if log == nil {
		log = logger.Nop{}
	}
	catalog, err := symbols.DefaultCatalog()
	if err != nil {
		return nil, err
	}
	for _, path := range cfg.Catalog.Files {
		extra, err := symbols.LoadCatalogFile(path)
		if err != nil {
			return nil, err
		}
		catalog = catalog.Merge(extra)
		log.Debugf("loaded catalog %s", path)
	}
	return &Linter{cfg: cfg, log: log, catalog: catalog, analyzers: analyzers}, nil
}

// Run analyzes every project found under root.
func (l *Linter) Run(ctx context.Context, root string) (*Report, error) {
	projects, err := workspace.Discover(ctx, root, workspace.Options{
		ExcludeDirs:  l.cfg.Analysis.ExcludePaths,
		ExcludeGlobs: l.cfg.Analysis.ExcludeGlobs,
		Frameworks:   l.cfg.Analysis.Frameworks,
		Logger:       l.log,
	})
	if err != nil {
		return nil, err
	}
	l.log.Logf("Found %d project(s)", len(projects))

	loader := workspace.NewLoader(l.catalog,
		workspace.WithConcurrency(l.cfg.Analysis.Concurrency),
		workspace.WithLogger(l.log),
	)
	report := &Report{
		RootPath: root,
		Counts:   make(map[string]int),
		sources:  make(map[string][]byte),
	}
	comps := make([]*symbols.Compilation, 0, len(projects))
	for _, p := range projects {
		l.log.Logf("Loading %s", p.Name)
		comp, err := loader.Load(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("failed to load project %s: %w", p.Name, err)
		}
		comps = append(comps, comp)
		analyzed := 0
		for _, f := range comp.Files() {
			report.sources[f.Path] = f.Content
			if !f.Generated || l.cfg.Analysis.IncludeGenerated {
				analyzed++
			}
		}
		report.Projects = append(report.Projects, ProjectSummary{
			Name:       p.Name,
			File:       p.File,
			References: p.References,
			Files:      analyzed,
		})
	}

	l.log.Logf("Analyzing %d project(s)", len(comps))
	driver := analysis.NewDriver(l.analyzers,
		analysis.WithConcurrency(l.cfg.Analysis.Concurrency),
		analysis.WithSeverities(l.cfg.Severities()),
		analysis.WithSuppressions(l.cfg.Analysis.Suppressions),
		analysis.WithGeneratedCode(l.cfg.Analysis.IncludeGenerated),
		analysis.WithLogger(l.log),
	)
	diags, err := driver.Run(ctx, comps)
	if err != nil {
		return nil, err
	}
	report.Diagnostics = diags
	for _, d := range diags {
		report.Counts[d.Severity.String()]++
	}
	return report, nil
}
