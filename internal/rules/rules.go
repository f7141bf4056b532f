// Package rules lists the analyzers aspnetlint ships.
package rules

import (
	"github.com/z77ma/aspnetcore/internal/analysis"
	"github.com/z77ma/aspnetcore/internal/rules/asyncvoid"
)

// All returns a fresh instance of every analyzer.
func All() []analysis.Analyzer {
	return []analysis.Analyzer{
		asyncvoid.New(),
	}
}
