package asyncvoid

import "github.com/z77ma/aspnetcore/internal/symbols"

// Role is what a type is to the framework.
type Role uint8

const (
	RoleNone Role = iota
	RoleRequestHandler
	RoleMessagingHub
	RoleRequestFilter
	RolePageHandler
)

func (r Role) String() string {
	switch r {
	case RoleRequestHandler:
		return "controller"
	case RoleMessagingHub:
		return "hub"
	case RoleRequestFilter:
		return "filter"
	case RolePageHandler:
		return "page model"
	}
	return "none"
}

// methodFilter narrows the methods of a classified type. A nil filter keeps
// every method.
type methodFilter func(*symbols.MethodSymbol) bool

type roleRule struct {
	role    Role
	matches func(*symbols.TypeSymbol, *wellKnownTypes) bool
	filter  methodFilter
}

// roleRules are evaluated in order and the first match wins. The page rule
// comes last so a type that also plays one of the broad roles is scanned in
// full.
var roleRules = []roleRule{
	{role: RoleRequestHandler, matches: isController},
	{role: RoleMessagingHub, matches: isHub},
	{role: RoleRequestFilter, matches: isFilter},
	{role: RolePageHandler, matches: isPageModel, filter: isPageHandlerMethod},
}

// classify returns the role of t and the filter for its methods.
func classify(t *symbols.TypeSymbol, wk *wellKnownTypes) (Role, methodFilter) {
	if t == nil {
		return RoleNone, nil
	}
	for _, r := range roleRules {
		if r.matches(t, wk) {
			return r.role, r.filter
		}
	}
	return RoleNone, nil
}

func isController(t *symbols.TypeSymbol, wk *wellKnownTypes) bool {
	return t.InheritsFrom(wk.controllerBase) || t.HasAttribute(wk.controllerAttribute, true)
}

func isHub(t *symbols.TypeSymbol, wk *wellKnownTypes) bool {
	return t.InheritsFrom(wk.hub)
}

func isFilter(t *symbols.TypeSymbol, wk *wellKnownTypes) bool {
	for _, f := range wk.filters {
		if t.Implements(f) {
			return true
		}
	}
	return false
}

func isPageModel(t *symbols.TypeSymbol, wk *wellKnownTypes) bool {
	return t.InheritsFrom(wk.pageModel)
}
