package symbols

import "github.com/z77ma/aspnetcore/internal/syntax"

// MethodSymbol is the resolved view of a method declaration.
type MethodSymbol struct {
	Name string
	// IsAsync is set for methods declared with the async modifier.
	IsAsync bool
	// ReturnsVoid is set when the method produces no value at all. Methods
	// returning Task or ValueTask do not return void.
	ReturnsVoid    bool
	ReturnType     string
	ContainingType *TypeSymbol
	Decl           *syntax.Decl
}
