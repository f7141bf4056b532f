package syntax

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	csharp "github.com/smacker/go-tree-sitter/csharp"

	"github.com/z77ma/aspnetcore/internal/source"
)

// Parser parses C# files. A tree-sitter parser is created per Parse call,
// so a single Parser may be shared by concurrent callers.
type Parser struct {
	lang *sitter.Language
}

func NewParser() *Parser {
	return &Parser{lang: csharp.GetLanguage()}
}

// Parse builds the declaration model of one file.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*File, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.lang)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	f := &File{
		Path:      path,
		Content:   content,
		Scope:     &Scope{},
		HasErrors: root.HasError(),
	}
	b := &builder{file: f, content: content}
	b.visitContainer(root, f.Scope)
	return f, nil
}

// builder converts one tree-sitter tree into Decls.
type builder struct {
	file    *File
	content []byte
}

// visitContainer handles compilation units and namespace bodies.
func (b *builder) visitContainer(n *sitter.Node, scope *Scope) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch t := child.Type(); {
		case t == "using_directive":
			u, ok := parseUsing(child.Content(b.content))
			if !ok {
				continue
			}
			if u.Global {
				b.file.GlobalUsings = append(b.file.GlobalUsings, u)
				continue
			}
			scope.addUsing(u)
		case t == "namespace_declaration":
			ns := &Scope{Namespace: joinNamespace(scope.Namespace, b.nameText(child)), Parent: scope}
			if body := b.body(child); body != nil {
				b.visitContainer(body, ns)
			}
		case t == "file_scoped_namespace_declaration":
			ns := &Scope{Namespace: joinNamespace(scope.Namespace, b.nameText(child)), Parent: scope}
			// Older grammars nest the namespace members, newer ones make
			// them siblings of the declaration. Handle both.
			b.visitContainer(child, ns)
			scope = ns
		case strings.HasPrefix(t, "preproc"):
			b.visitContainer(child, scope)
		default:
			if d := b.declaration(child, scope, nil); d != nil && d.Kind.IsType() {
				b.file.Decls = append(b.file.Decls, d)
			}
		}
	}
}

// declaration converts a declaration node, or returns nil when n is not one.
func (b *builder) declaration(n *sitter.Node, scope *Scope, parent *Decl) *Decl {
	kind := kindOf(n.Type(), hasToken(n, "struct"))
	if kind == KindInvalid {
		return nil
	}
	d := &Decl{
		Kind:   kind,
		Parent: parent,
		Scope:  scope,
		File:   b.file,
		Span:   b.span(n),
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "modifier":
			d.Modifiers = append(d.Modifiers, b.token(c))
		case "attribute_list":
			d.Attributes = append(d.Attributes, b.attributes(c)...)
		case "base_list":
			d.Bases = b.bases(c)
		case "type_parameter_list":
			d.Arity = countNamed(c, "type_parameter")
		}
	}

	name := n.ChildByFieldName("name")
	if name != nil && !name.IsMissing() {
		d.Name = b.token(name)
	}
	d.HasError = name != nil && (name.IsMissing() || name.HasError())

	switch {
	case kind == KindEnum:
	case kind.IsType():
		if body := b.body(n); body != nil {
			b.members(body, d)
		}
	case kind == KindMethod:
		if rt := b.returnType(n, name); rt != nil {
			ref := b.typeRef(rt)
			d.ReturnType = &ref
			d.HasError = d.HasError || rt.IsMissing() || rt.HasError()
		} else {
			d.HasError = true
		}
		if name == nil {
			d.HasError = true
		}
	}
	return d
}

func (b *builder) members(body *sitter.Node, d *Decl) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)
		if strings.HasPrefix(c.Type(), "preproc") {
			b.members(c, d)
			continue
		}
		if m := b.declaration(c, d.Scope, d); m != nil {
			d.Members = append(d.Members, m)
		}
	}
}

// returnType finds the return type of a method. Grammar versions disagree on
// the field name, so fall back to the first named child ahead of the name.
func (b *builder) returnType(n, name *sitter.Node) *sitter.Node {
	for _, field := range []string{"returns", "type"} {
		if rt := n.ChildByFieldName(field); rt != nil {
			return rt
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "attribute_list", "modifier", "comment":
			continue
		}
		if name != nil && c.StartByte() >= name.StartByte() {
			return nil
		}
		return c
	}
	return nil
}

func (b *builder) body(n *sitter.Node) *sitter.Node {
	if body := n.ChildByFieldName("body"); body != nil {
		return body
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "declaration_list" {
			return c
		}
	}
	return nil
}

func (b *builder) attributes(list *sitter.Node) []Attribute {
	var out []Attribute
	for i := 0; i < int(list.NamedChildCount()); i++ {
		c := list.NamedChild(i)
		switch c.Type() {
		case "attribute_target_specifier":
			// [return: X] and friends target something else
			return nil
		case "attribute":
			name := c.ChildByFieldName("name")
			if name == nil && c.NamedChildCount() > 0 {
				name = c.NamedChild(0)
			}
			if name != nil {
				out = append(out, Attribute{Name: b.typeRef(name)})
			}
		}
	}
	return out
}

func (b *builder) bases(list *sitter.Node) []TypeRef {
	var out []TypeRef
	for i := 0; i < int(list.NamedChildCount()); i++ {
		c := list.NamedChild(i)
		switch c.Type() {
		case "comment", "argument_list":
			continue
		case "primary_constructor_base_type":
			if t := c.ChildByFieldName("type"); t != nil {
				c = t
			} else if c.NamedChildCount() > 0 {
				c = c.NamedChild(0)
			}
		}
		out = append(out, b.typeRef(c))
	}
	return out
}

func (b *builder) nameText(n *sitter.Node) string {
	name := n.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return ParseTypeRef(name.Content(b.content)).Text
}

func (b *builder) typeRef(n *sitter.Node) TypeRef {
	ref := ParseTypeRef(n.Content(b.content))
	ref.Span = b.span(n)
	return ref
}

func (b *builder) token(n *sitter.Node) Token {
	return Token{Text: n.Content(b.content), Span: b.span(n)}
}

func (b *builder) span(n *sitter.Node) source.Span {
	start, end := n.StartPoint(), n.EndPoint()
	return source.Span{
		File:  b.file.Path,
		Start: source.Pos{Offset: int(n.StartByte()), Line: int(start.Row) + 1, Column: int(start.Column) + 1},
		End:   source.Pos{Offset: int(n.EndByte()), Line: int(end.Row) + 1, Column: int(end.Column) + 1},
	}
}

func hasToken(n *sitter.Node, text string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); !c.IsNamed() && c.Type() == text {
			return true
		}
	}
	return false
}

func countNamed(n *sitter.Node, nodeType string) int {
	count := 0
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == nodeType {
			count++
		}
	}
	return count
}

func joinNamespace(outer, inner string) string {
	switch {
	case outer == "":
		return inner
	case inner == "":
		return outer
	}
	return outer + "." + inner
}

// parseUsing reads a using directive from its source text. Working on text
// keeps it independent of how the grammar version shapes the node.
func parseUsing(text string) (Using, bool) {
	var u Using
	text = strings.TrimSpace(text)
	text = strings.TrimSpace(strings.TrimSuffix(text, ";"))
	fields := strings.Fields(text)
	i := 0
	if i < len(fields) && fields[i] == "global" {
		u.Global = true
		i++
	}
	if i >= len(fields) || fields[i] != "using" {
		return u, false
	}
	i++
	for i < len(fields) && (fields[i] == "static" || fields[i] == "unsafe") {
		u.Static = u.Static || fields[i] == "static"
		i++
	}
	rest := strings.Join(fields[i:], "")
	if idx := strings.IndexByte(rest, '='); idx >= 0 {
		u.Alias = rest[:idx]
		rest = rest[idx+1:]
	}
	u.Target = strings.TrimPrefix(rest, "global::")
	return u, u.Target != ""
}
