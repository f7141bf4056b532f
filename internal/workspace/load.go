package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"golang.org/x/sync/errgroup"

	"github.com/z77ma/aspnetcore/internal/logger"
	"github.com/z77ma/aspnetcore/internal/symbols"
	"github.com/z77ma/aspnetcore/internal/syntax"
)

// Loader parses projects into compilations.
type Loader struct {
	parser      *syntax.Parser
	catalog     *symbols.Catalog
	concurrency int
	log         logger.Logger
}

type LoaderOption func(*Loader)

// WithConcurrency bounds the number of files parsed at once.
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) { l.concurrency = n }
}

func WithLogger(log logger.Logger) LoaderOption {
	return func(l *Loader) { l.log = log }
}

func NewLoader(catalog *symbols.Catalog, opts ...LoaderOption) *Loader {
	l := &Loader{parser: syntax.NewParser(), catalog: catalog, log: logger.Nop{}}
	for _, opt := range opts {
		opt(l)
	}
	if l.concurrency < 1 {
		l.concurrency = runtime.GOMAXPROCS(0)
	}
	return l
}

// Load parses the sources of p concurrently and binds them into one
// compilation. Generated files are bound like any other and marked on
// syntax.File. Files that cannot be read or parsed are logged and left out;
// only cancellation fails the load.
func (l *Loader) Load(ctx context.Context, p Project) (*symbols.Compilation, error) {
	files := make([]*syntax.File, len(p.Sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, path := range p.Sources {
		g.Go(func() error {
			f, err := l.loadFile(gctx, path)
			switch {
			case err == nil:
				files[i] = f
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			default:
				l.log.Warnf("skipping %s: %v", path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kept := files[:0]
	for _, f := range files {
		if f != nil {
			kept = append(kept, f)
		}
	}
	l.log.Debugf("project %s: %d of %d files loaded", p.Name, len(kept), len(p.Sources))
	return symbols.NewCompilation(p.Name, kept, p.References, l.catalog), nil
}

// LoadAll loads every project in order.
func (l *Loader) LoadAll(ctx context.Context, projects []Project) ([]*symbols.Compilation, error) {
	out := make([]*symbols.Compilation, 0, len(projects))
	for _, p := range projects {
		c, err := l.Load(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (l *Loader) loadFile(ctx context.Context, path string) (*syntax.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := l.parser.Parse(ctx, path, content)
	if err != nil {
		return nil, err
	}
	if f.Generated = IsGenerated(path, content); f.Generated {
		l.log.Debugf("%s is generated", path)
	}
	if f.HasErrors {
		l.log.Debugf("%s has syntax errors", path)
	}
	return f, nil
}

// IsGenerated reports whether a C# file was produced by a tool: by name
// (*.g.cs, *.g.i.cs, *.designer.cs, *.generated.cs), by an <auto-generated>
// header, or by enry's generated-code heuristics.
func IsGenerated(path string, content []byte) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, suffix := range []string{".g.cs", ".g.i.cs", ".designer.cs", ".generated.cs"} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	head := content
	if len(head) > 1024 {
		head = head[:1024]
	}
	if strings.Contains(strings.ToLower(string(head)), "<auto-generated") {
		return true
	}
	return enry.IsGenerated(path, content)
}
