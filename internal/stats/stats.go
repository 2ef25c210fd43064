// Package stats derives aggregate statistics from the roster and from the
// currently visible subset.
package stats

import (
	"math"
	"sort"

	"github.com/crewdash/crewdash/internal/roster"
)

// TopNSize is how many entries the top-ranked views keep.
const TopNSize = 5

// CountEntry is one aggregation bucket: a grouping key and how many records
// fell into it. Count is always >= 1; absent keys never produce a bucket.
type CountEntry struct {
	Key   string
	Count int
}

// KeyFunc extracts the grouping key from a record. ok=false marks the field
// as absent, excluding the record from every bucket.
type KeyFunc func(p *roster.Person) (key string, ok bool)

// CityKey groups by city; absent cities are skipped.
func CityKey(p *roster.Person) (string, bool) {
	return p.City, p.City != ""
}

// CompanyKey groups by company; absent companies are skipped.
func CompanyKey(p *roster.Person) (string, bool) {
	return p.Company, p.Company != ""
}

// CountBy groups entries by exact string equality of the extracted key,
// skipping absent keys. The result is sorted by count descending; ties keep
// first-seen-key order (stable, never re-sorted by key name).
func CountBy(entries roster.Roster, key KeyFunc) []CountEntry {
	counts := make(map[string]int, len(entries))
	order := make([]string, 0, len(entries))

	for _, p := range entries {
		k, ok := key(p)
		if !ok {
			continue
		}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	out := make([]CountEntry, 0, len(order))
	for _, k := range order {
		out = append(out, CountEntry{Key: k, Count: counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// TopN returns the first n entries of a ranked aggregate.
func TopN(entries []CountEntry, n int) []CountEntry {
	if n >= len(entries) {
		return entries
	}
	return entries[:n]
}

// Coverage is the share of the roster that survives filtering, as a rounded
// percentage. Defined as 0 for an empty roster.
func Coverage(filtered, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(filtered) / float64(total) * 100))
}

// Summary is the full aggregate bundle the dashboard displays.
type Summary struct {
	// Full-roster aggregates.
	CityCounts    []CountEntry
	CompanyCounts []CountEntry

	// Aggregates over the currently visible subset.
	FilteredCityCounts    []CountEntry
	FilteredCompanyCounts []CountEntry

	Total    int
	Filtered int
}

// UniqueCities is the number of distinct cities across the full roster.
// Roster-wide: invariant under any filter change.
func (s Summary) UniqueCities() int {
	return len(s.CityCounts)
}

// UniqueCompanies is the number of distinct companies across the full
// roster, invariant under any filter change.
func (s Summary) UniqueCompanies() int {
	return len(s.CompanyCounts)
}

// Coverage is the rounded percentage of the roster currently visible.
func (s Summary) Coverage() int {
	return Coverage(s.Filtered, s.Total)
}

// TopCities returns the top-ranked cities of the visible subset.
func (s Summary) TopCities() []CountEntry {
	return TopN(s.FilteredCityCounts, TopNSize)
}

// TopCompanies returns the top-ranked companies of the visible subset.
func (s Summary) TopCompanies() []CountEntry {
	return TopN(s.FilteredCompanyCounts, TopNSize)
}

// Compute builds the summary for a roster and its visible subset.
func Compute(full, filtered roster.Roster) Summary {
	return Summary{
		CityCounts:            CountBy(full, CityKey),
		CompanyCounts:         CountBy(full, CompanyKey),
		FilteredCityCounts:    CountBy(filtered, CityKey),
		FilteredCompanyCounts: CountBy(filtered, CompanyKey),
		Total:                 len(full),
		Filtered:              len(filtered),
	}
}

// Engine memoizes Compute on the roster and filter-result generations, so
// aggregates recompute only when one of their inputs changed.
type Engine struct {
	valid       bool
	lastRoster  uint64
	lastFilter  uint64
	lastSummary Summary
}

// Run returns the summary for the given inputs, reusing the cached one when
// neither generation moved.
func (e *Engine) Run(full, filtered roster.Roster, rosterGen, filterGen uint64) Summary {
	if e.valid && e.lastRoster == rosterGen && e.lastFilter == filterGen {
		return e.lastSummary
	}
	e.lastSummary = Compute(full, filtered)
	e.lastRoster = rosterGen
	e.lastFilter = filterGen
	e.valid = true
	return e.lastSummary
}

// Invalidate discards the memoized summary.
func (e *Engine) Invalidate() {
	e.valid = false
}
