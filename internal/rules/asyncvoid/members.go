package asyncvoid

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/z77ma/aspnetcore/internal/symbols"
	"github.com/z77ma/aspnetcore/internal/syntax"
)

var handlerVerbs = []string{"Get", "Post", "Put", "Delete", "Patch", "Head", "Options"}

// candidates yields the methods among members that filter accepts, in
// declaration order. Each iteration walks members afresh.
func candidates(comp *symbols.Compilation, members []*syntax.Decl, filter methodFilter) iter.Seq[*syntax.Decl] {
	return func(yield func(*syntax.Decl) bool) {
		for _, m := range members {
			if m.Kind != syntax.KindMethod {
				continue
			}
			if filter != nil {
				sym, _ := comp.DeclaredMethod(m)
				if !filter(sym) {
					continue
				}
			}
			if !yield(m) {
				return
			}
		}
	}
}

// isPageHandlerMethod matches Razor Pages handler names: On, an HTTP verb,
// then nothing or a word starting in upper case (OnGet, OnPostAsync,
// OnGetDetails). Unresolved methods never match.
func isPageHandlerMethod(m *symbols.MethodSymbol) bool {
	if m == nil {
		return false
	}
	rest, ok := strings.CutPrefix(m.Name, "On")
	if !ok {
		return false
	}
	for _, verb := range handlerVerbs {
		tail, ok := strings.CutPrefix(rest, verb)
		if !ok {
			continue
		}
		if tail == "" {
			return true
		}
		r, _ := utf8.DecodeRuneInString(tail)
		return !unicode.IsLower(r)
	}
	return false
}
