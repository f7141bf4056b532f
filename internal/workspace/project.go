// Package workspace finds the C# projects under a directory and loads them
// into compilations.
package workspace

import "errors"

// ErrNoProjects is returned when discovery finds no C# sources.
var ErrNoProjects = errors.New("no C# sources found")

// LooseProjectName names the project of C# files no project file owns.
const LooseProjectName = "(no project)"

// Project is one compilation's worth of inputs.
type Project struct {
	Name string `json:"name" yaml:"name"`
	Dir  string `json:"dir" yaml:"dir"`
	// File is the .csproj path, empty for the loose project.
	File       string   `json:"file,omitempty" yaml:"file,omitempty"`
	References []string `json:"references" yaml:"references"`
	Sources    []string `json:"sources" yaml:"sources"`
}

// IsLoose reports whether the project collects files outside any project.
func (p Project) IsLoose() bool { return p.File == "" }
