// Package session holds the dashboard's live state: the roster, the filter
// selection, and the fetch/display state machine.
//
// All mutation goes through a fixed set of entry points (publish-cached,
// begin-loading/refreshing, fetch-success, fetch-failure, delete,
// filter-change, reset); there are no ambient globals. The session owns the
// memoized filter pipeline and aggregation engine, so reads (Visible,
// Summary) are cheap when nothing changed.
package session

import (
	"fmt"

	"github.com/crewdash/crewdash/internal/filter"
	"github.com/crewdash/crewdash/internal/roster"
	"github.com/crewdash/crewdash/internal/stats"
)

// State is the fetch/display state machine position.
type State int

const (
	// StateIdle is the initial position before activation.
	StateIdle State = iota
	// StateLoading is a blocking fetch with no data to show.
	StateLoading
	// StateRefreshing is a background fetch with cached data on display.
	StateRefreshing
	// StateDisplaying means data is on display and no fetch is outstanding.
	StateDisplaying
	// StateError means a fetch failed with no data left to show.
	StateError
)

// String returns the label for a State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateRefreshing:
		return "refreshing"
	case StateDisplaying:
		return "displaying"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// DataSource says where the roster on display came from.
type DataSource int

const (
	// SourceNone means no roster is held.
	SourceNone DataSource = iota
	// SourceCache means the roster came from the local cache.
	SourceCache
	// SourceRemote means the roster came from a successful fetch.
	SourceRemote
)

// Session is the single owner of the live roster and filter state.
type Session struct {
	data   roster.Roster
	index  filter.Index
	gen    uint64
	state  State
	source DataSource

	filters filter.State

	// notice is a secondary, non-blocking warning shown alongside data
	// (e.g. "viewing last saved roster" after a failed refresh).
	notice string

	// errMsg is the blocking error shown when no data is left at all.
	errMsg string

	pipeline filter.Pipeline
	engine   stats.Engine
}

// New creates an idle session.
func New() *Session {
	return &Session{state: StateIdle}
}

// replaceRoster installs a new roster wholesale, rebuilding the search
// index and bumping the generation so memoized consumers recompute.
func (s *Session) replaceRoster(data roster.Roster) {
	s.data = data
	s.index = filter.BuildIndex(data)
	s.gen++
}

// PublishCached puts a cached roster on display without touching the
// error or filter state. Used at activation before any fetch resolves.
func (s *Session) PublishCached(data roster.Roster) {
	s.replaceRoster(data)
	s.source = SourceCache
	s.state = StateDisplaying
}

// BeginLoading enters the blocking-load state (no data to show yet).
func (s *Session) BeginLoading() {
	s.state = StateLoading
	s.errMsg = ""
}

// BeginRefreshing enters the background-refresh state; whatever is on
// display stays interactive.
func (s *Session) BeginRefreshing() {
	s.state = StateRefreshing
}

// ApplyFetchSuccess replaces the live roster with a fresh fetch result and
// clears any cached-data notice or error.
func (s *Session) ApplyFetchSuccess(data roster.Roster) {
	s.replaceRoster(data)
	s.source = SourceRemote
	s.state = StateDisplaying
	s.notice = ""
	s.errMsg = ""
}

// ApplyFetchFailure records a failed fetch, with msg being the
// failure-class-specific user message.
//
// With data on display the failure degrades to a non-blocking notice and
// the (possibly stale) roster stays interactive. With nothing to show, the
// roster and every filter selection are cleared: there is nothing
// meaningful left to filter.
func (s *Session) ApplyFetchFailure(msg string) {
	if s.HasData() {
		s.state = StateDisplaying
		s.notice = "Viewing last saved roster. " + msg
		return
	}
	s.data = nil
	s.index = nil
	s.gen++
	s.source = SourceNone
	s.filters.Reset()
	s.state = StateError
	s.errMsg = msg
}

// Delete removes exactly one record by reference identity. Returns whether
// a record was removed.
func (s *Session) Delete(p *roster.Person) bool {
	out, ok := s.data.Delete(p)
	if !ok {
		return false
	}
	s.replaceRoster(out)
	return true
}

// SetQuery installs the settled search query. The two-tier deferral of the
// raw keystroke value happens upstream (filter.Deferred); the session only
// ever sees promoted values.
func (s *Session) SetQuery(q string) {
	s.filters.Query = q
}

// SetCity sets the city selector ("" or filter.All disables it).
func (s *Session) SetCity(city string) {
	s.filters.City = city
}

// SetCompany sets the company selector ("" or filter.All disables it).
func (s *Session) SetCompany(company string) {
	s.filters.Company = company
}

// ResetFilters clears every filter selection.
func (s *Session) ResetFilters() {
	s.filters.Reset()
}

// Visible returns the ordered subset of the roster satisfying the current
// filters. Memoized: repeated calls with unchanged state are free.
func (s *Session) Visible() roster.Roster {
	return s.pipeline.Run(s.data, s.gen, s.index, s.filters)
}

// Summary returns the aggregate statistics bundle for the current view.
func (s *Session) Summary() stats.Summary {
	visible := s.Visible()
	return s.engine.Run(s.data, visible, s.gen, s.pipeline.ResultGen())
}

// Roster returns the full live roster.
func (s *Session) Roster() roster.Roster { return s.data }

// HasData reports whether any roster is held.
func (s *Session) HasData() bool { return len(s.data) > 0 }

// State returns the state machine position.
func (s *Session) State() State { return s.state }

// Source returns where the roster on display came from.
func (s *Session) Source() DataSource { return s.source }

// UsingCachedData reports whether cached (possibly stale) data is shown.
func (s *Session) UsingCachedData() bool { return s.source == SourceCache }

// Notice returns the non-blocking warning line, if any.
func (s *Session) Notice() string { return s.notice }

// ErrorMessage returns the blocking error message, if any.
func (s *Session) ErrorMessage() string { return s.errMsg }

// Filters returns the current filter selection.
func (s *Session) Filters() filter.State { return s.filters }

// Generation returns the roster generation, bumped on every replacement or
// mutation. Memoized consumers key off it.
func (s *Session) Generation() uint64 { return s.gen }
