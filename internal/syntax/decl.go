// Package syntax turns C# source into an immutable declaration model.
//
// Files are parsed with tree-sitter and converted eagerly; the tree-sitter
// tree is released before Parse returns. The resulting File and Decl values
// are never mutated afterwards, so analyzers may read them from any number
// of goroutines.
package syntax

import (
	"strings"

	"github.com/z77ma/aspnetcore/internal/source"
)

// Token is a piece of source text with its location.
type Token struct {
	Text string
	Span source.Span
}

func (t Token) IsZero() bool {
	return t.Text == ""
}

// Using is a using directive.
type Using struct {
	Global bool
	Static bool
	// Alias is set for "using Alias = Target;".
	Alias  string
	Target string
}

// Scope holds the using directives visible inside a namespace body. The root
// scope of a file has an empty Namespace.
type Scope struct {
	Namespace string
	Usings    []string
	Aliases   map[string]string
	Parent    *Scope
}

func (s *Scope) addUsing(u Using) {
	switch {
	case u.Alias != "":
		if s.Aliases == nil {
			s.Aliases = make(map[string]string)
		}
		s.Aliases[u.Alias] = u.Target
	case u.Static:
		// static usings import members, not types
	default:
		s.Usings = append(s.Usings, u.Target)
	}
}

// Attribute is an attribute applied to a declaration.
type Attribute struct {
	Name TypeRef
}

// Decl is a declaration: a type or a member of a type.
type Decl struct {
	Kind       Kind
	Name       Token
	Modifiers  []Token
	Attributes []Attribute
	// Bases is the base list of a type declaration in source order.
	Bases []TypeRef
	// Arity is the number of type parameters.
	Arity int
	// ReturnType is set for methods.
	ReturnType *TypeRef
	// Members of a type declaration in declaration order.
	Members []*Decl
	// Parent is the containing type declaration, nil for top-level types.
	Parent *Decl
	Scope  *Scope
	File   *File
	Span   source.Span
	// HasError is set when the declaration header (name, return type) has
	// syntax errors or missing tokens.
	HasError bool
}

// HasModifier reports whether the declaration carries the given modifier keyword.
func (d *Decl) HasModifier(text string) bool {
	for _, m := range d.Modifiers {
		if m.Text == text {
			return true
		}
	}
	return false
}

// LastModifier returns the modifier written last, the one right before the
// return type of a method.
func (d *Decl) LastModifier() (Token, bool) {
	if len(d.Modifiers) == 0 {
		return Token{}, false
	}
	return d.Modifiers[len(d.Modifiers)-1], true
}

// Namespace returns the namespace the declaration is in.
func (d *Decl) Namespace() string {
	if d.Scope == nil {
		return ""
	}
	return d.Scope.Namespace
}

// MetadataName returns the name of a type declaration qualified with its
// namespace and containing types, e.g. App.Outer.Inner`1.
func (d *Decl) MetadataName() string {
	var parts []string
	for cur := d; cur != nil; cur = cur.Parent {
		parts = append(parts, NameSegment{Name: cur.Name.Text, Arity: cur.Arity}.MetadataName())
	}
	if ns := d.Namespace(); ns != "" {
		parts = append(parts, ns)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// File is a parsed source file.
type File struct {
	Path    string
	Content []byte
	// Decls are the top-level type declarations in source order.
	Decls        []*Decl
	Scope        *Scope
	GlobalUsings []Using
	// HasErrors is set when tree-sitter produced error or missing nodes anywhere.
	HasErrors bool
	// Generated marks tool-produced files. Their declarations still bind
	// into the compilation.
	Generated bool
}

// Walk visits every declaration of f in pre-order. Returning false from fn
// skips the declaration's members.
func Walk(f *File, fn func(*Decl) bool) {
	for _, d := range f.Decls {
		walk(d, fn)
	}
}

func walk(d *Decl, fn func(*Decl) bool) {
	if !fn(d) {
		return
	}
	for _, m := range d.Members {
		walk(m, fn)
	}
}
