package syntax

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *File {
	t.Helper()
	f, err := NewParser().Parse(context.Background(), "test.cs", []byte(src))
	require.NoError(t, err)
	return f
}

func collect(f *File) []*Decl {
	var out []*Decl
	Walk(f, func(d *Decl) bool {
		out = append(out, d)
		return true
	})
	return out
}

func TestParseClassWithBasesAndAttributes(t *testing.T) {
	f := parse(t, `
using Microsoft.AspNetCore.Mvc;

namespace App.Controllers
{
    [ApiController]
    [Route("api/[controller]")]
    public class OrdersController : ControllerBase, IDisposable
    {
        public void Dispose() {}
    }
}
`)
	require.Len(t, f.Decls, 1)
	cls := f.Decls[0]
	assert.Equal(t, KindClass, cls.Kind)
	assert.Equal(t, "OrdersController", cls.Name.Text)
	assert.Equal(t, "App.Controllers", cls.Namespace())
	assert.Equal(t, "App.Controllers.OrdersController", cls.MetadataName())
	assert.True(t, cls.HasModifier("public"))

	require.Len(t, cls.Bases, 2)
	assert.Equal(t, "ControllerBase", cls.Bases[0].Text)
	assert.Equal(t, "IDisposable", cls.Bases[1].Text)

	require.Len(t, cls.Attributes, 2)
	assert.Equal(t, "ApiController", cls.Attributes[0].Name.Text)
	assert.Equal(t, "Route", cls.Attributes[1].Name.Text)

	require.NotNil(t, cls.Scope.Parent)
	assert.Equal(t, []string{"Microsoft.AspNetCore.Mvc"}, cls.Scope.Parent.Usings)
}

func TestParseMethodModifiersAndReturnType(t *testing.T) {
	src := `class C
{
    public static async void Handle() { }
    private async Task<int> CountAsync() => 1;
    void Plain() { }
}
`
	f := parse(t, src)
	require.Len(t, f.Decls, 1)
	members := f.Decls[0].Members
	require.Len(t, members, 3)

	handle := members[0]
	assert.Equal(t, KindMethod, handle.Kind)
	assert.Equal(t, "Handle", handle.Name.Text)
	require.Len(t, handle.Modifiers, 3)
	assert.Equal(t, []string{"public", "static", "async"}, []string{
		handle.Modifiers[0].Text, handle.Modifiers[1].Text, handle.Modifiers[2].Text,
	})
	require.NotNil(t, handle.ReturnType)
	assert.True(t, handle.ReturnType.IsVoid())
	assert.False(t, handle.HasError)

	last, ok := handle.LastModifier()
	require.True(t, ok)
	assert.Equal(t, "async", last.Text)
	assert.Equal(t, "async", last.Span.Text(f.Content))
	assert.Equal(t, "void", handle.ReturnType.Span.Text(f.Content))
	assert.Equal(t, 3, last.Span.Start.Line)

	count := members[1]
	require.NotNil(t, count.ReturnType)
	assert.Equal(t, "Task<int>", count.ReturnType.Text)
	assert.False(t, count.ReturnType.IsVoid())

	plain := members[2]
	assert.Empty(t, plain.Modifiers)
	require.NotNil(t, plain.ReturnType)
	assert.True(t, plain.ReturnType.IsVoid())
}

func TestParseMemberKinds(t *testing.T) {
	f := parse(t, `class C
{
    private int _count;
    public string Name { get; set; }
    public C() { }
    public void Run() { }
    class Nested { }
}
`)
	require.Len(t, f.Decls, 1)
	var kinds []Kind
	for _, m := range f.Decls[0].Members {
		kinds = append(kinds, m.Kind)
	}
	assert.Equal(t, []Kind{KindField, KindProperty, KindConstructor, KindMethod, KindClass}, kinds)

	nested := f.Decls[0].Members[4]
	assert.Same(t, f.Decls[0], nested.Parent)
	assert.Equal(t, "C.Nested", nested.MetadataName())

	all := collect(f)
	assert.Len(t, all, 6)
}

func TestParseFileScopedNamespaceAndUsings(t *testing.T) {
	f := parse(t, `global using Microsoft.AspNetCore.SignalR;
using Mvc = Microsoft.AspNetCore.Mvc;
using static System.Math;

namespace App.Hubs;

public class ChatHub : Hub<IChatClient>
{
}
`)
	require.Len(t, f.GlobalUsings, 1)
	assert.Equal(t, "Microsoft.AspNetCore.SignalR", f.GlobalUsings[0].Target)
	assert.Equal(t, "Microsoft.AspNetCore.Mvc", f.Scope.Aliases["Mvc"])
	assert.Empty(t, f.Scope.Usings)

	require.Len(t, f.Decls, 1)
	hub := f.Decls[0]
	assert.Equal(t, "App.Hubs", hub.Namespace())
	require.Len(t, hub.Bases, 1)
	require.Len(t, hub.Bases[0].Segments, 1)
	assert.Equal(t, "Hub`1", hub.Bases[0].MetadataName())
}

func TestParseRecordAndGenericType(t *testing.T) {
	f := parse(t, `namespace A.B
{
    namespace C
    {
        public record Person(string Name);
        public record struct Point(int X, int Y);
        public class Box<T> { }
    }
}
`)
	require.Len(t, f.Decls, 3)
	assert.Equal(t, KindRecord, f.Decls[0].Kind)
	assert.True(t, f.Decls[0].Kind.IsClassShaped())
	assert.Equal(t, KindRecordStruct, f.Decls[1].Kind)
	assert.False(t, f.Decls[1].Kind.IsClassShaped())
	assert.Equal(t, "A.B.C.Box`1", f.Decls[2].MetadataName())
}

func TestParseUsing(t *testing.T) {
	tests := []struct {
		text string
		want Using
		ok   bool
	}{
		{"using System;", Using{Target: "System"}, true},
		{"global using System.Linq;", Using{Global: true, Target: "System.Linq"}, true},
		{"using static System.Math;", Using{Static: true, Target: "System.Math"}, true},
		{"using Mvc = Microsoft.AspNetCore.Mvc;", Using{Alias: "Mvc", Target: "Microsoft.AspNetCore.Mvc"}, true},
		{"using X = global::Foo.Bar;", Using{Alias: "X", Target: "Foo.Bar"}, true},
		{"namespace Foo;", Using{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := parseUsing(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
