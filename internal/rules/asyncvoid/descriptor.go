package asyncvoid

import "github.com/z77ma/aspnetcore/internal/diag"

// RuleID identifies the diagnostic.
const RuleID = "ASP0030"

const suggestion = "Change the return type to Task"

var rule = diag.Descriptor{
	ID:              RuleID,
	Title:           "Do not declare async void methods in types the framework invokes",
	MessageFormat:   "Method '%s' is async void in %s '%s'; return Task so the framework can observe completion and exceptions",
	Category:        "Usage",
	DefaultSeverity: diag.SevWarning,
	Description: "Controllers, SignalR hubs, MVC filters and Razor page handlers are invoked by the framework, " +
		"which awaits the returned task. An async void method returns before its work completes and its " +
		"exceptions escape to the synchronization context, where they usually crash the process.",
}

// Descriptor returns the rule metadata.
func Descriptor() diag.Descriptor { return rule }
