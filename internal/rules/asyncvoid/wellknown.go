package asyncvoid

import "github.com/z77ma/aspnetcore/internal/symbols"

const (
	controllerBaseName      = "Microsoft.AspNetCore.Mvc.ControllerBase"
	controllerAttributeName = "Microsoft.AspNetCore.Mvc.ControllerAttribute"
	hubName                 = "Microsoft.AspNetCore.SignalR.Hub"
	pageModelName           = "Microsoft.AspNetCore.Mvc.RazorPages.PageModel"
)

// filterNames are the MVC filter interfaces. Page filters are left out: every
// PageModel implements them, and page models get their own role.
var filterNames = []string{
	"Microsoft.AspNetCore.Mvc.Filters.IActionFilter",
	"Microsoft.AspNetCore.Mvc.Filters.IAsyncActionFilter",
	"Microsoft.AspNetCore.Mvc.Filters.IResultFilter",
	"Microsoft.AspNetCore.Mvc.Filters.IAsyncResultFilter",
	"Microsoft.AspNetCore.Mvc.Filters.IExceptionFilter",
	"Microsoft.AspNetCore.Mvc.Filters.IAsyncExceptionFilter",
	"Microsoft.AspNetCore.Mvc.Filters.IAuthorizationFilter",
	"Microsoft.AspNetCore.Mvc.Filters.IAsyncAuthorizationFilter",
	"Microsoft.AspNetCore.Mvc.Filters.IResourceFilter",
	"Microsoft.AspNetCore.Mvc.Filters.IAsyncResourceFilter",
}

// wellKnownTypes are the framework types roles are derived from, resolved
// once per compilation.
type wellKnownTypes struct {
	controllerBase      *symbols.TypeSymbol
	controllerAttribute *symbols.TypeSymbol
	hub                 *symbols.TypeSymbol
	pageModel           *symbols.TypeSymbol
	filters             []*symbols.TypeSymbol
}

// resolveWellKnownTypes fails unless every type resolves, which is the case
// exactly when the compilation references ASP.NET Core MVC, Razor Pages and
// SignalR.
func resolveWellKnownTypes(comp *symbols.Compilation) (*wellKnownTypes, bool) {
	var ok bool
	wk := &wellKnownTypes{}
	for _, r := range []struct {
		name string
		dst  **symbols.TypeSymbol
	}{
		{controllerBaseName, &wk.controllerBase},
		{controllerAttributeName, &wk.controllerAttribute},
		{hubName, &wk.hub},
		{pageModelName, &wk.pageModel},
	} {
		if *r.dst, ok = comp.GetTypeByMetadataName(r.name); !ok {
			return nil, false
		}
	}
	for _, name := range filterNames {
		t, ok := comp.GetTypeByMetadataName(name)
		if !ok {
			return nil, false
		}
		wk.filters = append(wk.filters, t)
	}
	return wk, true
}
