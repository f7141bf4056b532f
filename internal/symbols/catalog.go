package symbols

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// TypeInfo describes a type declared in a referenced assembly.
type TypeInfo struct {
	Name       string   `yaml:"name"`
	Kind       string   `yaml:"kind"`
	Base       string   `yaml:"base,omitempty"`
	Interfaces []string `yaml:"interfaces,omitempty"`
}

// Catalog is the reference metadata a compilation can bind to: which
// assemblies an SDK, shared framework or package brings in, and which types
// each assembly declares.
type Catalog struct {
	SDKs       map[string][]string   `yaml:"sdks"`
	Frameworks map[string][]string   `yaml:"frameworks"`
	Packages   map[string][]string   `yaml:"packages"`
	Assemblies map[string][]TypeInfo `yaml:"assemblies"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultCatalog returns the catalog shipped with the binary. The returned
// value is shared and must not be modified.
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = ParseCatalog(embeddedCatalog)
	})
	return defaultCatalog, defaultErr
}

// ParseCatalog decodes a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for asm, types := range c.Assemblies {
		for i, t := range types {
			if t.Name == "" {
				return nil, fmt.Errorf("assembly %s: type %d has no name", asm, i)
			}
			if _, err := parseTypeKind(t.Kind); err != nil {
				return nil, fmt.Errorf("assembly %s: type %s: %w", asm, t.Name, err)
			}
		}
	}
	return &c, nil
}

// LoadCatalogFile reads a YAML catalog from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// Merge returns a new catalog with the entries of other layered over c.
// Assembly type lists are appended; map entries of other replace those of c.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	out := &Catalog{
		SDKs:       mergeLists(c.SDKs, other.SDKs),
		Frameworks: mergeLists(c.Frameworks, other.Frameworks),
		Packages:   mergeLists(c.Packages, other.Packages),
		Assemblies: make(map[string][]TypeInfo, len(c.Assemblies)+len(other.Assemblies)),
	}
	for k, v := range c.Assemblies {
		out.Assemblies[k] = append([]TypeInfo(nil), v...)
	}
	for k, v := range other.Assemblies {
		out.Assemblies[k] = append(out.Assemblies[k], v...)
	}
	return out
}

func mergeLists(base, over map[string][]string) map[string][]string {
	out := make(map[string][]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// ResolveAssemblies expands SDK, framework, package and assembly names into
// the sorted set of assemblies they reference. Unknown names are dropped.
func (c *Catalog) ResolveAssemblies(refs []string) []string {
	seen := make(map[string]bool)
	assemblies := make(map[string]bool)
	var expand func(name string)
	expand = func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		if _, ok := c.Assemblies[name]; ok {
			assemblies[name] = true
		}
		for _, group := range []map[string][]string{c.SDKs, c.Frameworks, c.Packages} {
			for _, n := range group[name] {
				expand(n)
			}
		}
	}
	for _, r := range refs {
		expand(r)
	}

	out := make([]string, 0, len(assemblies))
	for a := range assemblies {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
