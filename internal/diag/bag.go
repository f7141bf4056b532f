package diag

import (
	"sort"
	"sync"
)

// Bag collects diagnostics from concurrent reporters.
type Bag struct {
	mu    sync.Mutex
	items []Diagnostic
}

func NewBag() *Bag {
	return &Bag{}
}

func (b *Bag) Add(d Diagnostic) {
	b.mu.Lock()
	b.items = append(b.items, d)
	b.mu.Unlock()
}

func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items returns a copy of the collected diagnostics.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

// HasAtLeast reports whether any diagnostic is at or above sev.
func (b *Bag) HasAtLeast(sev Severity) bool {
	return HasAtLeast(b.Items(), sev)
}

// HasAtLeast reports whether any of items is at or above sev.
// SevNone as a threshold never matches.
func HasAtLeast(items []Diagnostic, sev Severity) bool {
	if sev == SevNone {
		return false
	}
	for i := range items {
		if items[i].Severity >= sev {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by file, start, end, severity (desc) and ID so
// output is deterministic regardless of reporting order.
func Sort(items []Diagnostic) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i], items[j]
		if di.Span.File != dj.Span.File {
			return di.Span.File < dj.Span.File
		}
		if di.Span.Start.Offset != dj.Span.Start.Offset {
			return di.Span.Start.Offset < dj.Span.Start.Offset
		}
		if di.Span.End.Offset != dj.Span.End.Offset {
			return di.Span.End.Offset < dj.Span.End.Offset
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.ID < dj.ID
	})
}
