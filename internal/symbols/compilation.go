// Package symbols binds parsed C# files and reference metadata into a
// compilation that answers the semantic questions analyzers ask: what type
// does a declaration declare, what does it inherit, and what does a method
// return.
package symbols

import (
	"strings"

	"github.com/z77ma/aspnetcore/internal/syntax"
)

// Compilation is one compiled unit: a project's files plus its references.
// It is immutable once created and safe for concurrent use.
type Compilation struct {
	name       string
	files      []*syntax.File
	references []string

	source   map[string]*TypeSymbol
	metadata map[string]*TypeSymbol
	declared map[*syntax.Decl]*TypeSymbol
	global   *syntax.Scope
}

// NewCompilation binds files against the assemblies refs resolve to in
// catalog. refs may name SDKs, shared frameworks, packages or assemblies.
func NewCompilation(name string, files []*syntax.File, refs []string, catalog *Catalog) *Compilation {
	c := &Compilation{
		name:     name,
		files:    files,
		source:   make(map[string]*TypeSymbol),
		metadata: make(map[string]*TypeSymbol),
		declared: make(map[*syntax.Decl]*TypeSymbol),
		global:   &syntax.Scope{},
	}
	if catalog != nil {
		c.references = catalog.ResolveAssemblies(refs)
		c.bindMetadata(catalog)
	}
	c.declareSource()
	c.bindSource()
	return c
}

func (c *Compilation) Name() string { return c.name }

func (c *Compilation) Files() []*syntax.File { return c.files }

// References returns the referenced assembly names.
func (c *Compilation) References() []string { return c.references }

// GetTypeByMetadataName looks a type up by its metadata name in source and
// then in referenced assemblies.
func (c *Compilation) GetTypeByMetadataName(name string) (*TypeSymbol, bool) {
	t := c.byName(name)
	return t, t != nil
}

// DeclaredType returns the symbol declared by a type declaration of this
// compilation.
func (c *Compilation) DeclaredType(d *syntax.Decl) (*TypeSymbol, bool) {
	if d == nil || !d.Kind.IsType() {
		return nil, false
	}
	t, ok := c.declared[d]
	return t, ok
}

// DeclaredMethod returns the symbol of a method declaration. Declarations
// with a malformed header or outside this compilation do not resolve.
func (c *Compilation) DeclaredMethod(d *syntax.Decl) (*MethodSymbol, bool) {
	if d == nil || d.Kind != syntax.KindMethod || d.HasError || d.Name.IsZero() || d.ReturnType == nil {
		return nil, false
	}
	containing, ok := c.declared[d.Parent]
	if !ok {
		return nil, false
	}
	return &MethodSymbol{
		Name:           d.Name.Text,
		IsAsync:        d.HasModifier("async"),
		ReturnsVoid:    d.ReturnType.IsVoid(),
		ReturnType:     d.ReturnType.Text,
		ContainingType: containing,
		Decl:           d,
	}, true
}

func (c *Compilation) byName(name string) *TypeSymbol {
	if t, ok := c.source[name]; ok {
		return t
	}
	return c.metadata[name]
}

func (c *Compilation) bindMetadata(catalog *Catalog) {
	type pending struct {
		sym  *TypeSymbol
		info TypeInfo
	}
	var all []pending
	for _, asm := range c.references {
		for _, info := range catalog.Assemblies[asm] {
			kind, _ := parseTypeKind(info.Kind)
			sym := &TypeSymbol{
				name:         simpleName(info.Name),
				metadataName: info.Name,
				kind:         kind,
				assembly:     asm,
			}
			c.metadata[info.Name] = sym
			all = append(all, pending{sym, info})
		}
	}
	for _, p := range all {
		if p.info.Base != "" {
			p.sym.baseType = c.metadata[p.info.Base]
		}
		for _, name := range p.info.Interfaces {
			if iface, ok := c.metadata[name]; ok {
				p.sym.interfaces = append(p.sym.interfaces, iface)
			}
		}
	}
}

// declareSource creates a symbol for every named type declaration. Partial
// declarations share one symbol.
func (c *Compilation) declareSource() {
	for _, f := range c.files {
		for _, u := range f.GlobalUsings {
			if u.Alias != "" {
				if c.global.Aliases == nil {
					c.global.Aliases = make(map[string]string)
				}
				c.global.Aliases[u.Alias] = u.Target
			} else if !u.Static {
				c.global.Usings = append(c.global.Usings, u.Target)
			}
		}
		syntax.Walk(f, func(d *syntax.Decl) bool {
			if !d.Kind.IsType() || d.Name.IsZero() {
				return false
			}
			key := d.MetadataName()
			sym, ok := c.source[key]
			if !ok {
				sym = &TypeSymbol{
					name:         d.Name.Text,
					metadataName: key,
					kind:         typeKindOf(d.Kind),
				}
				if d.Parent != nil {
					sym.containing = c.declared[d.Parent]
				}
				c.source[key] = sym
			}
			sym.decls = append(sym.decls, d)
			c.declared[d] = sym
			return true
		})
	}
}

func (c *Compilation) bindSource() {
	for _, sym := range c.source {
		for _, d := range sym.decls {
			for _, ref := range d.Bases {
				base := c.lookup(ref, d)
				if base == nil || base == sym {
					continue
				}
				switch {
				case base.kind == TypeInterface:
					sym.interfaces = appendUnique(sym.interfaces, base)
				case sym.kind == TypeClass && sym.baseType == nil:
					sym.baseType = base
				}
			}
			for _, a := range d.Attributes {
				if attr := c.lookupAttribute(a.Name, d); attr != nil {
					sym.attributes = appendUnique(sym.attributes, attr)
				}
			}
		}
	}
}

// lookup resolves a type reference written inside declaration from. It
// searches containing types, then each enclosing namespace with its using
// directives from the innermost outwards, then global usings.
func (c *Compilation) lookup(ref syntax.TypeRef, from *syntax.Decl) *TypeSymbol {
	if len(ref.Segments) == 0 {
		return nil
	}
	name := ref.MetadataName()
	if ref.Alias != "" {
		if ref.Alias == "global" {
			return c.byName(name)
		}
		if target, ok := c.alias(ref.Alias, from.Scope); ok {
			return c.byName(target + "." + name)
		}
		return nil
	}

	for p := from.Parent; p != nil; p = p.Parent {
		if t := c.byName(p.MetadataName() + "." + name); t != nil {
			return t
		}
	}

	first := ref.Segments[0]
	rest := ""
	if len(ref.Segments) > 1 {
		rest = name[len(first.MetadataName()):]
	}
	scopes := []*syntax.Scope{}
	for s := from.Scope; s != nil; s = s.Parent {
		scopes = append(scopes, s)
	}
	scopes = append(scopes, c.global)

	for i, s := range scopes {
		if t := c.byName(qualify(s.Namespace, name)); t != nil {
			return t
		}
		if first.Arity == 0 {
			if target, ok := s.Aliases[first.Name]; ok {
				return c.byName(target + rest)
			}
		}
		if rest == "" {
			for _, ns := range s.Usings {
				if t := c.byName(ns + "." + name); t != nil {
					return t
				}
			}
		}
		// namespace levels between this scope and the next one out
		if i+1 < len(scopes) {
			outer := scopes[i+1].Namespace
			for ns := parentNamespace(s.Namespace); len(ns) > len(outer); ns = parentNamespace(ns) {
				if t := c.byName(qualify(ns, name)); t != nil {
					return t
				}
			}
		}
	}
	return nil
}

// lookupAttribute resolves an attribute name, preferring the form with the
// Attribute suffix as the C# compiler does.
func (c *Compilation) lookupAttribute(ref syntax.TypeRef, from *syntax.Decl) *TypeSymbol {
	if n := len(ref.Segments); n > 0 && !strings.HasSuffix(ref.Segments[n-1].Name, "Attribute") {
		suffixed := ref
		suffixed.Segments = append([]syntax.NameSegment(nil), ref.Segments...)
		suffixed.Segments[n-1].Name += "Attribute"
		if t := c.lookup(suffixed, from); t != nil {
			return t
		}
	}
	return c.lookup(ref, from)
}

func (c *Compilation) alias(name string, scope *syntax.Scope) (string, bool) {
	for s := scope; s != nil; s = s.Parent {
		if target, ok := s.Aliases[name]; ok {
			return target, true
		}
	}
	target, ok := c.global.Aliases[name]
	return target, ok
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}

func parentNamespace(ns string) string {
	if idx := strings.LastIndexByte(ns, '.'); idx >= 0 {
		return ns[:idx]
	}
	return ""
}

func simpleName(metadataName string) string {
	name := metadataName
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.IndexByte(name, '`'); idx >= 0 {
		name = name[:idx]
	}
	return name
}

func appendUnique(list []*TypeSymbol, t *TypeSymbol) []*TypeSymbol {
	for _, x := range list {
		if x == t {
			return list
		}
	}
	return append(list, t)
}
