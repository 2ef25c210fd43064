package filter

import (
	"strings"

	"github.com/crewdash/crewdash/internal/roster"
)

// Apply computes the ordered subsequence of r satisfying every active
// predicate. Predicates compose with AND; relative order is preserved
// (stable filter, never re-sorted). idx must be the index built from r.
//
// With no active predicate the input roster is returned as-is (identity).
func Apply(r roster.Roster, idx Index, s State) roster.Roster {
	if !s.Active() {
		return r
	}

	query := Fold(strings.TrimSpace(s.Query))
	city := Fold(s.City)
	company := Fold(s.Company)
	matchQuery := query != ""
	matchCity := selectorActive(s.City)
	matchCompany := selectorActive(s.Company)

	out := make(roster.Roster, 0, len(r))
	for i, p := range r {
		if matchQuery && !strings.Contains(idx[i], query) {
			continue
		}
		if matchCity && Fold(p.City) != city {
			continue
		}
		if matchCompany && Fold(p.Company) != company {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Pipeline memoizes Apply: it recomputes only when the roster generation,
// the settled query, or a selector changed since the last computation.
//
// The roster generation stands in for the (roster, index) pair: the session
// bumps it exactly when the roster is replaced or mutated, and the index is
// rebuilt at the same moment.
type Pipeline struct {
	valid   bool
	lastGen uint64
	lastKey State
	lastOut roster.Roster

	// resultGen increments every time the output actually changes, giving
	// downstream consumers (the aggregation engine) a cheap change signal.
	resultGen uint64
}

// Run returns the visible subset for the given inputs, reusing the cached
// output when nothing changed.
func (p *Pipeline) Run(r roster.Roster, gen uint64, idx Index, s State) roster.Roster {
	key := State{Query: strings.TrimSpace(s.Query), City: s.City, Company: s.Company}
	if p.valid && p.lastGen == gen && p.lastKey == key {
		return p.lastOut
	}

	p.lastOut = Apply(r, idx, s)
	p.lastGen = gen
	p.lastKey = key
	p.valid = true
	p.resultGen++
	return p.lastOut
}

// ResultGen returns the generation of the last computed output.
func (p *Pipeline) ResultGen() uint64 {
	return p.resultGen
}

// Invalidate discards the memoized output.
func (p *Pipeline) Invalidate() {
	p.valid = false
	p.lastOut = nil
}
