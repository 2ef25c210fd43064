package filter

import "strings"

// All is the "no filter" sentinel for the city and company selectors.
const All = "all"

// State is the current filter selection: a free-text query matched as a
// caseless substring of the name, plus exact caseless city and company
// selectors. An empty string or All disables a selector.
type State struct {
	Query   string
	City    string
	Company string
}

// queryActive reports whether the trimmed query participates in filtering.
func (s State) queryActive() bool {
	return strings.TrimSpace(s.Query) != ""
}

// selectorActive reports whether a discrete selector value participates.
func selectorActive(v string) bool {
	return v != "" && !strings.EqualFold(v, All)
}

// Active reports whether any predicate is active.
func (s State) Active() bool {
	return s.queryActive() || selectorActive(s.City) || selectorActive(s.Company)
}

// Reset clears every selection.
func (s *State) Reset() {
	s.Query = ""
	s.City = ""
	s.Company = ""
}
