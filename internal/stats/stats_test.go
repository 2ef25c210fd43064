package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdash/crewdash/internal/roster"
)

func testRoster() roster.Roster {
	return roster.Roster{
		{Key: "1", Name: "Ann", Email: "a@x.com", City: "NY", Company: "Acme"},
		{Key: "2", Name: "Bob", Email: "b@x.com", City: "NY", Company: "Zeta"},
		{Key: "3", Name: "Cara", Email: "c@x.com", City: "Berlin", Company: "Acme"},
		{Key: "4", Name: "Drew", Email: "d@x.com"}, // no city, no company
	}
}

func TestCountBy_SkipsAbsentAndSortsDescending(t *testing.T) {
	counts := CountBy(testRoster(), CityKey)

	require.Len(t, counts, 2, "records without a city produce no bucket")
	assert.Equal(t, CountEntry{Key: "NY", Count: 2}, counts[0])
	assert.Equal(t, CountEntry{Key: "Berlin", Count: 1}, counts[1])

	sum := 0
	for _, c := range counts {
		sum += c.Count
	}
	assert.LessOrEqual(t, sum, len(testRoster()))
}

func TestCountBy_TiesKeepFirstSeenOrder(t *testing.T) {
	r := roster.Roster{
		{Key: "1", Name: "a", Email: "a@x.com", City: "Zurich"},
		{Key: "2", Name: "b", Email: "b@x.com", City: "Austin"},
		{Key: "3", Name: "c", Email: "c@x.com", City: "Madrid"},
	}

	counts := CountBy(r, CityKey)
	require.Len(t, counts, 3)
	assert.Equal(t, "Zurich", counts[0].Key, "ties stay in first-seen order, not key order")
	assert.Equal(t, "Austin", counts[1].Key)
	assert.Equal(t, "Madrid", counts[2].Key)
}

func TestCountBy_Empty(t *testing.T) {
	assert.Empty(t, CountBy(nil, CityKey))
}

func TestTopN(t *testing.T) {
	entries := []CountEntry{{"a", 5}, {"b", 4}, {"c", 3}, {"d", 2}, {"e", 1}, {"f", 1}}

	top := TopN(entries, TopNSize)
	require.Len(t, top, 5)
	assert.Equal(t, "a", top[0].Key)

	assert.Len(t, TopN(entries[:2], TopNSize), 2)
	assert.Empty(t, TopN(nil, TopNSize))
}

func TestCoverage(t *testing.T) {
	assert.Equal(t, 0, Coverage(0, 0), "empty roster defines coverage as 0")
	assert.Equal(t, 100, Coverage(4, 4))
	assert.Equal(t, 50, Coverage(2, 4))
	assert.Equal(t, 33, Coverage(1, 3))
	assert.Equal(t, 67, Coverage(2, 3))
}

func TestSummary_UniqueCountsAreRosterWide(t *testing.T) {
	full := testRoster()

	// Unique counts must not move when the filtered subset changes.
	for _, filtered := range []roster.Roster{full, full[:1], nil} {
		s := Compute(full, filtered)
		assert.Equal(t, 2, s.UniqueCities())
		assert.Equal(t, 2, s.UniqueCompanies())
	}
}

func TestSummary_FilteredAggregates(t *testing.T) {
	full := testRoster()
	s := Compute(full, full[:1])

	require.Len(t, s.FilteredCityCounts, 1)
	assert.Equal(t, CountEntry{Key: "NY", Count: 1}, s.FilteredCityCounts[0])
	assert.Equal(t, 25, s.Coverage())
	assert.Equal(t, []CountEntry{{Key: "NY", Count: 1}}, s.TopCities())
}

func TestEngine_Memoizes(t *testing.T) {
	full := testRoster()
	var e Engine

	s1 := e.Run(full, full, 1, 1)
	s2 := e.Run(full, full, 1, 1)
	assert.Equal(t, s1, s2)

	// Either generation moving forces a recompute with the new inputs.
	s3 := e.Run(full, full[:1], 1, 2)
	assert.Equal(t, 1, s3.Filtered)

	s4 := e.Run(full[:2], full[:2], 2, 3)
	assert.Equal(t, 2, s4.Total)
}
