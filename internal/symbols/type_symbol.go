package symbols

import (
	"fmt"

	"github.com/z77ma/aspnetcore/internal/syntax"
)

// TypeKind classifies a type symbol.
type TypeKind uint8

const (
	TypeClass TypeKind = iota + 1
	TypeInterface
	TypeStruct
	TypeEnum
	TypeDelegate
)

func (k TypeKind) String() string {
	switch k {
	case TypeClass:
		return "class"
	case TypeInterface:
		return "interface"
	case TypeStruct:
		return "struct"
	case TypeEnum:
		return "enum"
	case TypeDelegate:
		return "delegate"
	}
	return "unknown"
}

func parseTypeKind(s string) (TypeKind, error) {
	switch s {
	case "class", "":
		return TypeClass, nil
	case "interface":
		return TypeInterface, nil
	case "struct":
		return TypeStruct, nil
	case "enum":
		return TypeEnum, nil
	case "delegate":
		return TypeDelegate, nil
	}
	return 0, fmt.Errorf("unknown type kind %q", s)
}

func typeKindOf(k syntax.Kind) TypeKind {
	switch k {
	case syntax.KindInterface:
		return TypeInterface
	case syntax.KindStruct, syntax.KindRecordStruct:
		return TypeStruct
	case syntax.KindEnum:
		return TypeEnum
	case syntax.KindDelegate:
		return TypeDelegate
	}
	return TypeClass
}

// maxAncestry bounds walks over base types. Erroneous source can declare
// inheritance cycles.
const maxAncestry = 64

// TypeSymbol is a named type, declared in source or in a referenced assembly.
// Symbols are fully bound when the compilation is created and never change
// afterwards.
type TypeSymbol struct {
	name         string
	metadataName string
	kind         TypeKind
	assembly     string
	decls        []*syntax.Decl
	containing   *TypeSymbol
	baseType     *TypeSymbol
	interfaces   []*TypeSymbol
	attributes   []*TypeSymbol
}

// Name is the simple name without arity.
func (t *TypeSymbol) Name() string { return t.name }

// MetadataName is the namespace-qualified name with arity, e.g.
// Microsoft.AspNetCore.SignalR.Hub`1.
func (t *TypeSymbol) MetadataName() string { return t.metadataName }

func (t *TypeSymbol) Kind() TypeKind { return t.kind }

// Assembly is the declaring assembly, empty for source types.
func (t *TypeSymbol) Assembly() string { return t.assembly }

func (t *TypeSymbol) IsFromSource() bool { return t.assembly == "" }

// Declarations returns the source declarations of the type; partial types
// have more than one.
func (t *TypeSymbol) Declarations() []*syntax.Decl { return t.decls }

func (t *TypeSymbol) ContainingType() *TypeSymbol { return t.containing }

// BaseType returns the direct base class, or nil.
func (t *TypeSymbol) BaseType() *TypeSymbol { return t.baseType }

// Interfaces returns the directly implemented interfaces.
func (t *TypeSymbol) Interfaces() []*TypeSymbol { return t.interfaces }

// Attributes returns the attribute types applied directly to the type.
func (t *TypeSymbol) Attributes() []*TypeSymbol { return t.attributes }

func (t *TypeSymbol) String() string { return t.metadataName }

// InheritsFrom reports whether other is a strict ancestor of t in the base
// class chain.
func (t *TypeSymbol) InheritsFrom(other *TypeSymbol) bool {
	if t == nil || other == nil {
		return false
	}
	cur := t.baseType
	for i := 0; cur != nil && i < maxAncestry; i++ {
		if cur == other {
			return true
		}
		cur = cur.baseType
	}
	return false
}

// InheritsFromOrEquals is InheritsFrom that also accepts t itself.
func (t *TypeSymbol) InheritsFromOrEquals(other *TypeSymbol) bool {
	return t != nil && (t == other || t.InheritsFrom(other))
}

// AllInterfaces returns every interface t implements: directly, through its
// base classes and through interface inheritance. Order is first-seen.
func (t *TypeSymbol) AllInterfaces() []*TypeSymbol {
	if t == nil {
		return nil
	}
	seen := make(map[*TypeSymbol]bool)
	var out []*TypeSymbol
	var visit func(iface *TypeSymbol)
	visit = func(iface *TypeSymbol) {
		if seen[iface] {
			return
		}
		seen[iface] = true
		out = append(out, iface)
		for _, parent := range iface.interfaces {
			visit(parent)
		}
	}
	cur := t
	for i := 0; cur != nil && i < maxAncestry; i++ {
		for _, iface := range cur.interfaces {
			visit(iface)
		}
		cur = cur.baseType
	}
	return out
}

// Implements reports whether t implements iface.
func (t *TypeSymbol) Implements(iface *TypeSymbol) bool {
	if t == nil || iface == nil {
		return false
	}
	for _, i := range t.AllInterfaces() {
		if i == iface {
			return true
		}
	}
	return false
}

// HasAttribute reports whether an attribute of type attr, or of a type
// derived from attr, is applied to t. With inherit set, attributes applied
// to base classes count as well.
func (t *TypeSymbol) HasAttribute(attr *TypeSymbol, inherit bool) bool {
	if t == nil || attr == nil {
		return false
	}
	cur := t
	for i := 0; cur != nil && i < maxAncestry; i++ {
		for _, a := range cur.attributes {
			if a.InheritsFromOrEquals(attr) {
				return true
			}
		}
		if !inherit {
			break
		}
		cur = cur.baseType
	}
	return false
}
