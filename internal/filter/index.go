// Package filter derives the visible subset of the roster from the search
// query and the discrete city/company selectors.
//
// The package is pure: every computation is a function of its declared
// inputs, which makes memoization safe without locks. The expensive parts
// (case folding, subset scans) are computed once per input change:
//   - Index pre-folds every name once per roster change, so keystrokes
//     never pay for repeated case conversion
//   - Pipeline caches its last inputs and output, recomputing only when a
//     declared input changed
//   - Deferred decouples keystroke echo from recomputation cost by lagging
//     the query that drives the pipeline behind the one being typed
package filter

import (
	"golang.org/x/text/cases"

	"github.com/crewdash/crewdash/internal/roster"
)

// folder performs Unicode case folding for caseless matching.
var folder = cases.Fold()

// Fold returns the case-folded form of s used for all caseless comparisons.
func Fold(s string) string {
	return folder.String(s)
}

// Index holds the case-folded name of every roster record, positionally
// aligned with the roster it was built from. It is rebuilt wholesale on
// every roster change and never patched in place.
type Index []string

// BuildIndex folds every name in r. len(result) == len(r) always.
func BuildIndex(r roster.Roster) Index {
	idx := make(Index, len(r))
	for i, p := range r {
		idx[i] = Fold(p.Name)
	}
	return idx
}
