// Package search implements cyclic substring search over track names.
package search

import "strings"

// Names supplies the display names to search, in playlist order.
type Names interface {
	DisplayNames() []string
}

// Navigator remembers the last query and the last match so that repeated
// FindNext calls walk through every match in turn, wrapping at the end of
// the list.
//
// Navigator is not safe for concurrent use.
type Navigator struct {
	source    Names
	lastQuery string
	lastMatch int
}

// NewNavigator creates a Navigator over source with no query.
func NewNavigator(source Names) *Navigator {
	return &Navigator{source: source, lastMatch: -1}
}

// Query returns the stored (lowercased) query.
func (n *Navigator) Query() string {
	return n.lastQuery
}

// Start stores query (lowercased), forgets the previous match and finds the
// first match from the top of the list.
func (n *Navigator) Start(query string) (int, bool) {
	n.lastQuery = strings.ToLower(query)
	n.lastMatch = -1
	return n.FindNext()
}

// FindNext returns the next index whose display name contains the query,
// starting after the last match and wrapping around.
//
// Returns false without changing state when the query is empty or nothing
// matches after a full cycle.
func (n *Navigator) FindNext() (int, bool) {
	if n.lastQuery == "" {
		return -1, false
	}

	names := n.source.DisplayNames()
	count := len(names)
	if count == 0 {
		return -1, false
	}

	start := (n.lastMatch + 1) % count
	for i := 0; i < count; i++ {
		idx := (start + i) % count
		if strings.Contains(strings.ToLower(names[idx]), n.lastQuery) {
			n.lastMatch = idx
			return idx, true
		}
	}
	return -1, false
}
