// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package martmeta handles the mart catalog metadata the pipeline routes against.
package martmeta

// Entry describes one mart artifact in the catalog.
type Entry struct {
	Name        string `json:"name"`        // short identifier, e.g. "revenue"
	Path        string `json:"path"`        // SQL file path relative to the catalog root
	Description string `json:"description"` // what the mart contains, used for routing
}

// Registry is the full read-only set of known marts for one invocation.
type Registry struct {
	Entries []Entry
}

// Lookup returns the entry whose Path or Name equals the given value exactly.
// Matching is case-sensitive; there is no fuzzy fallback.
func (r *Registry) Lookup(pathOrName string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Path == pathOrName || e.Name == pathOrName {
			return e, true
		}
	}
	return Entry{}, false
}

// Paths returns the catalog paths in declaration order.
func (r *Registry) Paths() []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Path
	}
	return out
}
