// Package diag defines rule descriptors and the diagnostics analyzers emit.
package diag

import (
	"fmt"

	"github.com/z77ma/aspnetcore/internal/source"
)

// Descriptor is the immutable metadata of a rule. Analyzers declare it once
// and stamp it on every diagnostic they create.
type Descriptor struct {
	ID              string   `json:"id" yaml:"id"`
	Title           string   `json:"title" yaml:"title"`
	MessageFormat   string   `json:"message_format" yaml:"message_format"`
	Category        string   `json:"category" yaml:"category"`
	DefaultSeverity Severity `json:"default_severity" yaml:"default_severity"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	HelpURI         string   `json:"help_uri,omitempty" yaml:"help_uri,omitempty"`
}

// Diagnostic is a single finding.
type Diagnostic struct {
	ID         string      `json:"id" yaml:"id"`
	Severity   Severity    `json:"severity" yaml:"severity"`
	Category   string      `json:"category" yaml:"category"`
	Message    string      `json:"message" yaml:"message"`
	Span       source.Span `json:"span" yaml:"span"`
	Suggestion string      `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	HelpURI    string      `json:"help_uri,omitempty" yaml:"help_uri,omitempty"`
}

// Create builds a diagnostic for d at span, formatting MessageFormat with args.
func Create(d Descriptor, span source.Span, args ...any) Diagnostic {
	msg := d.MessageFormat
	if len(args) > 0 {
		msg = fmt.Sprintf(d.MessageFormat, args...)
	}
	return Diagnostic{
		ID:       d.ID,
		Severity: d.DefaultSeverity,
		Category: d.Category,
		Message:  msg,
		Span:     span,
		HelpURI:  d.HelpURI,
	}
}

func (d Diagnostic) WithSuggestion(s string) Diagnostic {
	d.Suggestion = s
	return d
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Span, d.Severity, d.ID, d.Message)
}
