package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-enry/go-enry/v2"

	"github.com/z77ma/aspnetcore/internal/logger"
)

// Options tune discovery.
type Options struct {
	// ExcludeDirs are directory names never descended into.
	ExcludeDirs []string
	// ExcludeGlobs are doublestar patterns matched against slash-separated
	// paths relative to the root.
	ExcludeGlobs []string
	// Frameworks are the references of the loose project.
	Frameworks []string
	Logger     logger.Logger
}

// Discover walks root and groups C# files into projects. A file belongs to
// the projects whose directory is the deepest one containing it; files
// outside every project directory form the loose project. root may also
// name a single .csproj or .cs file.
func Discover(ctx context.Context, root string, opts Options) ([]Project, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop{}
	}
	for _, g := range opts.ExcludeGlobs {
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid exclude pattern %q", g)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", root, err)
	}
	walkRoot := root
	var only string
	if !info.IsDir() {
		walkRoot = filepath.Dir(root)
		only = root
	}

	var projectFiles, sources []string
	scanner := NewCsprojScanner()
	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, _ := filepath.Rel(walkRoot, path)
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if path != walkRoot && skipDir(d.Name(), rel, opts) {
				return filepath.SkipDir
			}
			return nil
		}
		if excluded(rel, opts.ExcludeGlobs) {
			log.Debugf("excluded %s", rel)
			return nil
		}
		switch {
		case scanner.Detect(path):
			projectFiles = append(projectFiles, path)
		case isCSharp(path):
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if only != "" {
		if scanner.Detect(only) {
			projectFiles = []string{only}
		} else {
			projectFiles = nil
			sources = []string{only}
		}
	}

	projects, err := buildProjects(projectFiles, sources, opts, log)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoProjects, root)
	}
	return projects, nil
}

func buildProjects(projectFiles, sources []string, opts Options, log logger.Logger) ([]Project, error) {
	scanner := NewCsprojScanner()
	parsed := make(map[string]*Csproj)
	var projects []*Project
	for _, file := range projectFiles {
		c, err := scanner.Scan(file)
		if err != nil {
			log.Warnf("skipping project %s: %v", file, err)
			continue
		}
		parsed[filepath.Clean(file)] = c
		projects = append(projects, &Project{
			Name: strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)),
			Dir:  filepath.Dir(file),
			File: file,
		})
	}
	for _, p := range projects {
		p.References = transitiveReferences(p.File, parsed, scanner, log)
	}

	loose := &Project{Name: LooseProjectName, References: append([]string(nil), opts.Frameworks...)}
	for _, src := range sources {
		owners := owningProjects(src, projects)
		if len(owners) == 0 {
			if loose.Dir == "" {
				loose.Dir = filepath.Dir(src)
			} else {
				loose.Dir = commonDir(loose.Dir, filepath.Dir(src))
			}
			loose.Sources = append(loose.Sources, src)
			continue
		}
		for _, p := range owners {
			p.Sources = append(p.Sources, src)
		}
	}

	var out []Project
	for _, p := range projects {
		if len(p.Sources) == 0 {
			log.Debugf("project %s has no C# sources", p.Name)
			continue
		}
		sort.Strings(p.Sources)
		out = append(out, *p)
	}
	if len(loose.Sources) > 0 {
		sort.Strings(loose.Sources)
		out = append(out, *loose)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsLoose() != out[j].IsLoose() {
			return !out[i].IsLoose()
		}
		return out[i].File < out[j].File
	})
	return out, nil
}

// transitiveReferences collects the references of a project and of the
// projects it references.
func transitiveReferences(file string, parsed map[string]*Csproj, scanner *CsprojScanner, log logger.Logger) []string {
	seen := make(map[string]bool)
	var refs []string
	var visit func(path string)
	visit = func(path string) {
		path = filepath.Clean(path)
		if seen[path] {
			return
		}
		seen[path] = true
		c, ok := parsed[path]
		if !ok {
			var err error
			if c, err = scanner.Scan(path); err != nil {
				log.Debugf("unreadable project reference %s: %v", path, err)
				return
			}
			parsed[path] = c
		}
		for _, r := range c.References() {
			refs = appendUniqueString(refs, r)
		}
		for _, ref := range c.ProjectReferences {
			visit(ref)
		}
	}
	visit(file)
	return refs
}

// owningProjects returns the projects with the deepest directory containing
// src.
func owningProjects(src string, projects []*Project) []*Project {
	var owners []*Project
	depth := -1
	for _, p := range projects {
		if !within(src, p.Dir) {
			continue
		}
		d := len(p.Dir)
		switch {
		case d > depth:
			owners = []*Project{p}
			depth = d
		case d == depth:
			owners = append(owners, p)
		}
	}
	return owners
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func commonDir(a, b string) string {
	for !within(b, a) {
		parent := filepath.Dir(a)
		if parent == a {
			return a
		}
		a = parent
	}
	return a
}

func skipDir(name, rel string, opts Options) bool {
	for _, ex := range opts.ExcludeDirs {
		if name == ex {
			return true
		}
	}
	if enry.IsDotFile(name) || enry.IsVendor(rel+"/") {
		return true
	}
	return excluded(rel, opts.ExcludeGlobs)
}

func excluded(rel string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}

// isCSharp checks the extension only; .cs is shared with Smalltalk change
// sets, so every candidate language is considered.
func isCSharp(path string) bool {
	for _, lang := range enry.GetLanguagesByExtension(path, nil, nil) {
		if lang == "C#" {
			return true
		}
	}
	return false
}
