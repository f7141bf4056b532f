package asyncvoid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z77ma/aspnetcore/internal/analysis/analysistest"
	"github.com/z77ma/aspnetcore/internal/symbols"
	"github.com/z77ma/aspnetcore/internal/syntax"
)

const usings = `using System.Threading.Tasks;
using Microsoft.AspNetCore.Mvc;
using Microsoft.AspNetCore.Mvc.Filters;
using Microsoft.AspNetCore.Mvc.RazorPages;
using Microsoft.AspNetCore.SignalR;
`

func src(body string) analysistest.Source {
	return analysistest.Source{Path: "Test.cs", Text: usings + body}
}

func typeDecl(t *testing.T, comp *symbols.Compilation, name string) *syntax.Decl {
	t.Helper()
	var found *syntax.Decl
	for _, f := range comp.Files() {
		syntax.Walk(f, func(d *syntax.Decl) bool {
			if found == nil && d.Kind.IsType() && d.Name.Text == name {
				found = d
			}
			return found == nil
		})
	}
	require.NotNil(t, found, name)
	return found
}

func TestClassify(t *testing.T) {
	comp, _ := analysistest.Compile(t, analysistest.WebReferences, src(`
public class Home : ControllerBase { }
public class Mvc : Controller { }
[ApiController] public class Annotated { }
[Controller] public class Marked { }
public class InheritsMark : Marked { }
public class Chat : Hub { }
public class TypedChat : Hub<IChatClient> { }
public interface IChatClient { }
public class Audit : IActionFilter { }
public class AsyncAudit : IAsyncResourceFilter { }
public class Logging : ActionFilterAttribute { }
public class Index : PageModel { }
public class Plain { }
public class PageAndFilter : PageModel, IExceptionFilter { }
public record Api : ControllerBase;
`))
	wk, ok := resolveWellKnownTypes(comp)
	require.True(t, ok)

	tests := []struct {
		name       string
		want       Role
		wantFilter bool
	}{
		{name: "Home", want: RoleRequestHandler},
		{name: "Mvc", want: RoleRequestHandler},
		{name: "Annotated", want: RoleRequestHandler},
		{name: "Marked", want: RoleRequestHandler},
		{name: "InheritsMark", want: RoleRequestHandler},
		{name: "Chat", want: RoleMessagingHub},
		{name: "TypedChat", want: RoleMessagingHub},
		{name: "Audit", want: RoleRequestFilter},
		{name: "AsyncAudit", want: RoleRequestFilter},
		{name: "Logging", want: RoleRequestFilter},
		{name: "Index", want: RolePageHandler, wantFilter: true},
		{name: "Plain", want: RoleNone},
		{name: "PageAndFilter", want: RoleRequestFilter},
		{name: "Api", want: RoleRequestHandler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, ok := comp.DeclaredType(typeDecl(t, comp, tt.name))
			require.True(t, ok)
			role, filter := classify(sym, wk)
			assert.Equal(t, tt.want, role)
			assert.Equal(t, tt.wantFilter, filter != nil)
		})
	}

	role, filter := classify(nil, wk)
	assert.Equal(t, RoleNone, role)
	assert.Nil(t, filter)
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "controller", RoleRequestHandler.String())
	assert.Equal(t, "hub", RoleMessagingHub.String())
	assert.Equal(t, "filter", RoleRequestFilter.String())
	assert.Equal(t, "page model", RolePageHandler.String())
	assert.Equal(t, "none", RoleNone.String())
}

func TestResolveWellKnownTypesNeedsFramework(t *testing.T) {
	for _, refs := range [][]string{nil, {"Microsoft.NET.Sdk"}, {"Microsoft.AspNetCore.SignalR"}, {"Microsoft.AspNetCore.Mvc.Core"}} {
		comp, _ := analysistest.Compile(t, refs)
		_, ok := resolveWellKnownTypes(comp)
		assert.False(t, ok, "%v", refs)
	}
	comp, _ := analysistest.Compile(t, []string{"Microsoft.AspNetCore.Mvc", "Microsoft.AspNetCore.SignalR"})
	_, ok := resolveWellKnownTypes(comp)
	assert.True(t, ok)
}

func TestIsPageHandlerMethod(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"OnGet", true},
		{"OnPost", true},
		{"OnPut", true},
		{"OnDelete", true},
		{"OnPatch", true},
		{"OnHead", true},
		{"OnOptions", true},
		{"OnGetAsync", true},
		{"OnPostDeleteAsync", true},
		{"OnGet2", true},
		{"OnGet_Items", true},
		{"Get", false},
		{"HandleGet", false},
		{"On", false},
		{"OnClick", false},
		{"Ongoing", false},
		{"OnGetaway", false},
		{"onGet", false},
		{"OnGET", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPageHandlerMethod(&symbols.MethodSymbol{Name: tt.name}))
		})
	}
	assert.False(t, isPageHandlerMethod(nil))
}

func TestCandidates(t *testing.T) {
	comp, _ := analysistest.Compile(t, analysistest.WebReferences, src(`
public class Index : PageModel
{
    public int Count;
    public string Name { get; set; }
    public void OnGet() { }
    public Index() { }
    public void Helper() { }
    public class Nested { }
    public async Task OnPostAsync() { }
}
`))
	decl := typeDecl(t, comp, "Index")

	names := func(filter methodFilter) []string {
		var out []string
		for m := range candidates(comp, decl.Members, filter) {
			out = append(out, m.Name.Text)
		}
		return out
	}
	assert.Equal(t, []string{"OnGet", "Helper", "OnPostAsync"}, names(nil))
	assert.Equal(t, []string{"OnGet", "OnPostAsync"}, names(isPageHandlerMethod))

	// the sequence is not memoized and can be consumed again or partially
	seq := candidates(comp, decl.Members, nil)
	for m := range seq {
		assert.Equal(t, "OnGet", m.Name.Text)
		break
	}
	count := 0
	for range seq {
		count++
	}
	assert.Equal(t, 3, count)
}

func TestInspect(t *testing.T) {
	comp, _ := analysistest.Compile(t, analysistest.WebReferences, src(`
public class Home : ControllerBase
{
    public static async void Handle() { }
    public async Task Run() { }
    public async ValueTask RunValue() { }
    public async Task<int> Count() { return 1; }
    public void Sync() { }
    async void Bare() { }
}
`))
	home := typeDecl(t, comp, "Home")
	method := func(name string) *symbols.MethodSymbol {
		for _, m := range home.Members {
			if m.Name.Text == name {
				sym, ok := comp.DeclaredMethod(m)
				require.True(t, ok, name)
				return sym
			}
		}
		t.Fatalf("method %s not found", name)
		return nil
	}

	d, ok := inspect(method("Handle"), RoleRequestHandler)
	require.True(t, ok)
	content := home.File.Content
	assert.Equal(t, "async void", d.Span.Text(content))
	assert.Equal(t, RuleID, d.ID)
	assert.Equal(t, "Usage", d.Category)
	assert.Equal(t, "Method 'Handle' is async void in controller 'Home'; return Task so the framework can observe completion and exceptions", d.Message)
	assert.Equal(t, suggestion, d.Suggestion)

	d, ok = inspect(method("Bare"), RoleRequestHandler)
	require.True(t, ok)
	assert.Equal(t, "async void", d.Span.Text(content))

	for _, name := range []string{"Run", "RunValue", "Count", "Sync"} {
		_, ok := inspect(method(name), RoleRequestHandler)
		assert.False(t, ok, name)
	}
	_, ok = inspect(nil, RoleRequestHandler)
	assert.False(t, ok)
}

func TestDescriptor(t *testing.T) {
	d := Descriptor()
	assert.Equal(t, "ASP0030", d.ID)
	assert.Equal(t, "Usage", d.Category)
	assert.Equal(t, "asyncvoid", New().Name())
	assert.Len(t, New().Descriptors(), 1)
}
