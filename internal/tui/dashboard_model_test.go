package tui

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdash/crewdash/internal/cache"
	"github.com/crewdash/crewdash/internal/fetch"
	"github.com/crewdash/crewdash/internal/roster"
	"github.com/crewdash/crewdash/internal/session"
)

const rosterBody = `{
	"success": true,
	"count": 3,
	"data": [
		{"id": 1, "name": "Ann", "email": "a@x.com",
		 "address": {"city": "NY"}, "company": {"name": "Acme"}},
		{"id": 2, "name": "Bob", "email": "b@x.com",
		 "address": {"city": "NY"}, "company": {"name": "Zeta"}},
		{"id": 3, "name": "Johanna", "email": "j@x.com",
		 "address": {"city": "Berlin"}, "company": {"name": "Acme"}}
	]
}`

func testOrchestrator(t *testing.T, handler http.HandlerFunc) (*fetch.Orchestrator, *cache.Store) {
	t.Helper()
	store, err := cache.NewStore(t.TempDir(), true, cache.DefaultTTL)
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := fetch.NewClientWithHTTP(srv.URL, srv.Client())
	return fetch.NewOrchestrator(client, store), store
}

func serveRoster(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte(rosterBody))
}

// drain executes a command tree and feeds every resulting message back into
// the model, returning the settled model.
func drain(t *testing.T, m *Model, cmd tea.Cmd) *Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(t, m, c)
		}
		return m
	}
	if _, ok := msg.(spinner.TickMsg); ok {
		// Don't loop forever on spinner ticks.
		return m
	}
	upd, next := m.Update(msg)
	m = upd.(*Model)
	if _, wasLoad := msg.(rosterLoadedMsg); wasLoad {
		return drain(t, m, next)
	}
	return m
}

func TestModel_BlockingLoadThenDisplay(t *testing.T) {
	orch, _ := testOrchestrator(t, serveRoster)
	m := NewModel(context.Background(), orch)

	cmd := m.Init()
	assert.Equal(t, session.StateLoading, m.Session().State())
	require.NotNil(t, cmd, "an empty cache demands a blocking fetch")

	m = drain(t, m, cmd)
	assert.Equal(t, session.StateDisplaying, m.Session().State())
	assert.Len(t, m.Session().Roster(), 3)
	assert.Equal(t, 3, m.list.ItemCount())
}

func TestModel_StaleCachePublishesThenRefreshes(t *testing.T) {
	orch, store := testOrchestrator(t, serveRoster)
	old := roster.Roster{{Key: "9", Name: "Old", Email: "o@x.com"}}
	require.NoError(t, store.WriteAt(old, time.Now().Add(-10*time.Minute)))

	m := NewModel(context.Background(), orch)
	cmd := m.Init()

	// The stale roster is on display immediately, filters usable.
	assert.Equal(t, session.StateRefreshing, m.Session().State())
	assert.True(t, m.Session().UsingCachedData())
	assert.Len(t, m.Session().Roster(), 1)

	m = drain(t, m, cmd)
	assert.Equal(t, session.StateDisplaying, m.Session().State())
	assert.Len(t, m.Session().Roster(), 3, "background refresh replaced the stale data")
	assert.False(t, m.Session().UsingCachedData())
}

func TestModel_StaleGenerationIsIgnored(t *testing.T) {
	orch, _ := testOrchestrator(t, serveRoster)
	m := NewModel(context.Background(), orch)
	m = drain(t, m, m.Init())
	require.Len(t, m.Session().Roster(), 3)

	// A result from a superseded fetch generation must not mutate state.
	upd, _ := m.Update(rosterLoadedMsg{gen: m.fetchGen - 1, data: roster.Roster{}})
	m = upd.(*Model)
	assert.Len(t, m.Session().Roster(), 3)
}

func TestModel_CancelledFetchIsSwallowed(t *testing.T) {
	orch, _ := testOrchestrator(t, serveRoster)
	m := NewModel(context.Background(), orch)
	m = drain(t, m, m.Init())

	upd, _ := m.Update(rosterLoadedMsg{gen: m.fetchGen, err: context.Canceled})
	m = upd.(*Model)
	assert.Equal(t, session.StateDisplaying, m.Session().State())
	assert.Empty(t, m.Session().Notice(), "an abort is not surfaced as an error")
}

func TestModel_ClientTimeoutSurfacesAsFailure(t *testing.T) {
	orch, _ := testOrchestrator(t, serveRoster)
	m := NewModel(context.Background(), orch)
	m = drain(t, m, m.Init())
	require.Equal(t, session.StateDisplaying, m.Session().State())

	// An http.Client timeout arrives classified but unwraps to a deadline
	// error underneath; it must surface, not vanish as an abort.
	timeout := &fetch.Error{
		Class: fetch.ClassNetwork,
		Err:   fmt.Errorf("Get %q: %w", "http://roster.invalid", context.DeadlineExceeded),
	}
	upd, _ := m.Update(rosterLoadedMsg{gen: m.fetchGen, err: timeout})
	m = upd.(*Model)

	assert.Equal(t, session.StateDisplaying, m.Session().State())
	assert.Contains(t, m.Session().Notice(), "last saved roster")
	assert.Contains(t, m.Session().Notice(), "Unable to reach the roster service")
}

func TestModel_FailureWithCachedDataShowsNotice(t *testing.T) {
	failing := func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}
	orch, store := testOrchestrator(t, failing)
	require.NoError(t, store.WriteAt(
		roster.Roster{{Key: "1", Name: "Ann", Email: "a@x.com"}},
		time.Now().Add(-10*time.Minute)))

	m := NewModel(context.Background(), orch)
	m = drain(t, m, m.Init())

	assert.Equal(t, session.StateDisplaying, m.Session().State())
	assert.Len(t, m.Session().Roster(), 1, "cached data survives the failed refresh")
	assert.Contains(t, m.Session().Notice(), "last saved roster")
}

func TestModel_FailureWithoutDataShowsError(t *testing.T) {
	failing := func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}
	orch, _ := testOrchestrator(t, failing)

	m := NewModel(context.Background(), orch)
	m = drain(t, m, m.Init())

	assert.Equal(t, session.StateError, m.Session().State())
	assert.Contains(t, m.Session().ErrorMessage(), "HTTP 503")
	assert.Contains(t, m.View(), "HTTP 503")
}

func TestModel_DeferredQueryPromotion(t *testing.T) {
	orch, _ := testOrchestrator(t, serveRoster)
	m := NewModel(context.Background(), orch)
	m = drain(t, m, m.Init())

	// Focus the search box and type "an".
	upd, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m = upd.(*Model)
	require.True(t, m.searchFocus)

	upd, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = upd.(*Model)
	upd, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = upd.(*Model)

	// The keystrokes are echoed but the pipeline still sees the old query.
	assert.Equal(t, "an", m.searchInput.Value())
	assert.Equal(t, 3, m.list.ItemCount(), "recomputation lags the keystroke")

	// A promotion for the superseded first keystroke is dropped.
	upd, _ = m.Update(promoteQueryMsg{gen: m.deferred.Gen() - 1})
	m = upd.(*Model)
	assert.Equal(t, 3, m.list.ItemCount())

	// The latest promotion catches up.
	upd, _ = m.Update(promoteQueryMsg{gen: m.deferred.Gen()})
	m = upd.(*Model)
	assert.Equal(t, 2, m.list.ItemCount())
	assert.Equal(t, "an", m.Session().Filters().Query)
}

func TestModel_DeleteSelectedRow(t *testing.T) {
	orch, _ := testOrchestrator(t, serveRoster)
	m := NewModel(context.Background(), orch)
	m = drain(t, m, m.Init())
	require.Equal(t, 3, m.list.ItemCount())

	upd, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = upd.(*Model)

	assert.Len(t, m.Session().Roster(), 2)
	assert.Equal(t, 2, m.list.ItemCount())
	assert.Contains(t, m.status, "Removed Ann")
}

func TestModel_DeleteLastOfCityClearsSelector(t *testing.T) {
	orch, _ := testOrchestrator(t, serveRoster)
	m := NewModel(context.Background(), orch)
	m = drain(t, m, m.Init())

	// Cycle the city selector to Berlin (options sort alphabetically),
	// leaving Johanna as the only visible row, then delete her.
	upd, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = upd.(*Model)
	require.Equal(t, "Berlin", m.Session().Filters().City)
	require.Equal(t, 1, m.list.ItemCount())

	upd, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = upd.(*Model)

	assert.False(t, m.Session().Filters().Active(),
		"a selection with no members left is cleared, not left dangling")
	assert.Equal(t, 2, m.list.ItemCount())
}

func TestModel_ResetFilters(t *testing.T) {
	orch, _ := testOrchestrator(t, serveRoster)
	m := NewModel(context.Background(), orch)
	m = drain(t, m, m.Init())

	upd, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = upd.(*Model)
	require.True(t, m.Session().Filters().Active())

	upd, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'R'}})
	m = upd.(*Model)
	assert.False(t, m.Session().Filters().Active())
	assert.Equal(t, 3, m.list.ItemCount())
}

func TestModel_ViewShowsAggregates(t *testing.T) {
	orch, _ := testOrchestrator(t, serveRoster)
	m := NewModel(context.Background(), orch)
	m = drain(t, m, m.Init())

	view := m.View()
	assert.Contains(t, view, "crewdash")
	assert.Contains(t, view, "NY")
	assert.Contains(t, view, "Acme")
	assert.Contains(t, view, "Ann")
}
