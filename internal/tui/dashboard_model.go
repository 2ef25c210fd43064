// Package tui implements the interactive roster dashboard.
//
// The dashboard is a single Bubble Tea model wrapping the session state
// container: a search box whose keystrokes are echoed immediately but whose
// query settles into the filter pipeline through a short debounce, discrete
// city/company selectors, live aggregate panels, and a windowed list that
// handles rosters of any size.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/crewdash/crewdash/internal/fetch"
	"github.com/crewdash/crewdash/internal/filter"
	"github.com/crewdash/crewdash/internal/logging"
	"github.com/crewdash/crewdash/internal/roster"
	"github.com/crewdash/crewdash/internal/session"
	listview "github.com/crewdash/crewdash/internal/tui/list"
)

// queryDebounce is how long the search input must stay quiet before the
// committed query is promoted into the filter pipeline.
const queryDebounce = 150 * time.Millisecond

// Default dimensions before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// chromeHeight is the number of terminal lines the dashboard chrome (title,
// stats, search, selectors, footer) occupies around the list window.
const chromeHeight = 12

// minListHeight is the smallest window the list is ever given.
const minListHeight = 5

// rosterLoadedMsg carries a resolved fetch. gen ties the result to the
// fetch that produced it; stale generations are dropped unapplied.
type rosterLoadedMsg struct {
	gen  uint64
	data roster.Roster
	err  error
}

// promoteQueryMsg asks the model to settle the search query typed as of
// generation gen.
type promoteQueryMsg struct {
	gen uint64
}

// Model is the dashboard's Bubble Tea model.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	sess *session.Session
	orch *fetch.Orchestrator

	deferred    filter.Deferred
	searchInput textinput.Model
	searchFocus bool

	spin spinner.Model
	list *listview.Model[*roster.Person]

	// Selector cycling state. Index -1 selects "all".
	cityOptions    []string
	companyOptions []string
	cityIdx        int
	companyIdx     int

	// fetchGen guards against post-cancellation mutation: results carrying
	// an older generation are ignored even if the transport never aborted.
	fetchGen uint64
	fetching bool

	status   string
	width    int
	height   int
	quitting bool
}

// NewModel creates the dashboard model. The supplied context bounds every
// fetch the dashboard starts; tearing the model down cancels it.
func NewModel(ctx context.Context, orch *fetch.Orchestrator) *Model {
	ctx, cancel := context.WithCancel(ctx)

	ti := textinput.New()
	ti.Placeholder = "type to search names"
	ti.CharLimit = 64
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:         ctx,
		cancel:      cancel,
		sess:        session.New(),
		orch:        orch,
		searchInput: ti,
		spin:        sp,
		cityIdx:     -1,
		companyIdx:  -1,
		width:       defaultWidth,
		height:      defaultHeight,
	}
	m.list = listview.New(nil, 1, m.listHeight(), m.width, m.renderRow)
	m.list.SetKeyFunc(func(p *roster.Person) string { return p.Key })
	m.list.SetDeleteFunc(m.deletePerson)
	return m
}

// Session exposes the underlying state container, for tests.
func (m *Model) Session() *session.Session {
	return m.sess
}

// listHeight is the list window cap for the current terminal size.
func (m *Model) listHeight() int {
	h := m.height - chromeHeight
	if h < minListHeight {
		h = minListHeight
	}
	return h
}

// Init activates the dashboard: publish cached data if any, then start
// whichever fetch the activation plan calls for.
func (m *Model) Init() tea.Cmd {
	act := m.orch.Activate(m.ctx)

	if act.FromCache() {
		m.sess.PublishCached(act.Cached)
		m.syncDerived()
	}

	switch act.Plan {
	case fetch.PlanBlockingFetch:
		m.sess.BeginLoading()
		return tea.Batch(m.spin.Tick, m.startFetch())
	case fetch.PlanBackgroundRefresh:
		m.sess.BeginRefreshing()
		return m.startFetch()
	case fetch.PlanNone:
		return nil
	default:
		return nil
	}
}

// startFetch begins a fetch tied to a fresh generation. Exactly one fetch
// is considered live at a time: starting a new one orphans any outstanding
// result.
func (m *Model) startFetch() tea.Cmd {
	m.fetchGen++
	m.fetching = true
	gen := m.fetchGen
	ctx := m.ctx
	orch := m.orch
	return func() tea.Msg {
		data, err := orch.Refresh(ctx)
		return rosterLoadedMsg{gen: gen, data: data, err: err}
	}
}

// Update handles all dashboard messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuildList()
		return m, nil

	case rosterLoadedMsg:
		return m.handleRosterLoaded(msg)

	case promoteQueryMsg:
		if m.deferred.Promote(msg.gen) {
			m.sess.SetQuery(m.deferred.Settled())
			m.syncList()
		}
		return m, nil

	case spinner.TickMsg:
		if m.sess.State() != session.StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleRosterLoaded applies a resolved fetch, unless it belongs to a
// superseded generation or was aborted.
func (m *Model) handleRosterLoaded(msg rosterLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.fetchGen {
		// A newer lifecycle owns the screen; this result must not touch
		// any state.
		return m, nil
	}
	m.fetching = false

	if msg.err != nil {
		if fetch.IsCancelled(msg.err) {
			// An abort is swallowed silently.
			return m, nil
		}
		m.sess.ApplyFetchFailure(userMessage(msg.err))
		m.syncDerived()
		return m, nil
	}

	m.sess.ApplyFetchSuccess(msg.data)
	m.syncDerived()
	return m, nil
}

// userMessage maps a fetch error to its failure-class-specific text.
func userMessage(err error) string {
	var fe *fetch.Error
	if errors.As(err, &fe) {
		return fe.UserMessage()
	}
	return "Loading the roster failed. Reload to try again."
}

// handleKey routes keyboard input. While the search box is focused most
// keys belong to it; otherwise keys drive the dashboard and the list.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchFocus {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.cancel()
		return m, tea.Quit

	case "/":
		if m.filtersEnabled() {
			m.searchFocus = true
			m.searchInput.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case "c":
		if m.filtersEnabled() {
			m.cycleCity()
		}
		return m, nil

	case "o":
		if m.filtersEnabled() {
			m.cycleCompany()
		}
		return m, nil

	case "R":
		m.resetFilters()
		return m, nil

	case "r":
		return m.manualRefresh()

	case "e":
		m.exportView(false)
		return m, nil

	case "E":
		m.exportView(true)
		return m, nil

	case "esc":
		if m.sess.Filters().Active() {
			m.resetFilters()
		}
		return m, nil

	default:
		upd, cmd := m.list.Update(msg)
		if lm, ok := upd.(*listview.Model[*roster.Person]); ok {
			m.list = lm
		}
		return m, cmd
	}
}

// handleSearchKey feeds keystrokes to the search input, echoing them
// immediately and scheduling a deferred promotion of the new query.
func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searchFocus = false
		m.searchInput.Blur()
		if m.deferred.Flush() {
			m.sess.SetQuery(m.deferred.Settled())
			m.syncList()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	gen := m.deferred.Set(m.searchInput.Value())
	promote := tea.Tick(queryDebounce, func(time.Time) tea.Msg {
		return promoteQueryMsg{gen: gen}
	})
	return m, tea.Batch(cmd, promote)
}

// filtersEnabled reports whether filtering is interactive: everything
// except a blocking load with no data.
func (m *Model) filtersEnabled() bool {
	return m.sess.State() != session.StateLoading && m.sess.HasData()
}

// manualRefresh re-enters the fetch lifecycle by hand.
func (m *Model) manualRefresh() (tea.Model, tea.Cmd) {
	if m.fetching {
		return m, nil
	}
	if m.sess.HasData() {
		m.sess.BeginRefreshing()
		return m, m.startFetch()
	}
	m.sess.BeginLoading()
	return m, tea.Batch(m.spin.Tick, m.startFetch())
}

// cycleCity advances the city selector: all -> option 0 -> ... -> all.
func (m *Model) cycleCity() {
	m.cityIdx++
	if m.cityIdx >= len(m.cityOptions) {
		m.cityIdx = -1
	}
	if m.cityIdx < 0 {
		m.sess.SetCity(filter.All)
	} else {
		m.sess.SetCity(m.cityOptions[m.cityIdx])
	}
	m.syncList()
}

// cycleCompany advances the company selector.
func (m *Model) cycleCompany() {
	m.companyIdx++
	if m.companyIdx >= len(m.companyOptions) {
		m.companyIdx = -1
	}
	if m.companyIdx < 0 {
		m.sess.SetCompany(filter.All)
	} else {
		m.sess.SetCompany(m.companyOptions[m.companyIdx])
	}
	m.syncList()
}

// resetFilters clears the search box and both selectors.
func (m *Model) resetFilters() {
	m.searchInput.SetValue("")
	m.deferred.Set("")
	m.deferred.Flush()
	m.cityIdx = -1
	m.companyIdx = -1
	m.sess.ResetFilters()
	m.syncList()
}

// deletePerson removes one record by reference identity.
func (m *Model) deletePerson(p *roster.Person) {
	if m.sess.Delete(p) {
		m.status = fmt.Sprintf("Removed %s from the roster.", p.Name)
		m.syncDerived()
	}
}

// exportView writes the visible (or full) roster to a date-stamped CSV in
// the working directory and reports the outcome in the status line.
func (m *Model) exportView(full bool) {
	entries := m.sess.Visible()
	label := "filtered"
	if full || !m.sess.Filters().Active() {
		entries = m.sess.Roster()
		label = "full"
	}

	res, err := exportRoster(entries, label)
	if err != nil {
		logger := logging.FromContext(m.ctx)
		logger.Error().
			Str("component", "tui").
			Err(err).
			Msg("export failed")
		m.status = "Export failed: " + err.Error()
		return
	}
	m.status = res.Message
}

// syncDerived refreshes everything computed from the roster: selector
// options, the list contents, and (implicitly) the memoized aggregates.
func (m *Model) syncDerived() {
	sum := m.sess.Summary()

	m.cityOptions = optionKeys(sum.CityCounts)
	m.companyOptions = optionKeys(sum.CompanyCounts)

	// A selection whose option vanished from the roster (last member
	// deleted) is cleared rather than left dangling in the filter row.
	filters := m.sess.Filters()
	m.cityIdx = indexOf(m.cityOptions, filters.City)
	if m.cityIdx < 0 && filters.City != "" && filters.City != filter.All {
		m.sess.SetCity(filter.All)
	}
	m.companyIdx = indexOf(m.companyOptions, filters.Company)
	if m.companyIdx < 0 && filters.Company != "" && filters.Company != filter.All {
		m.sess.SetCompany(filter.All)
	}

	m.syncList()
}

// syncList pushes the current visible subset into the windowed list.
func (m *Model) syncList() {
	m.list.SetItems(m.sess.Visible())
}

// rebuildList recreates the list window for the current terminal size.
func (m *Model) rebuildList() {
	selected := m.list.Selected()
	m.list = listview.New(m.sess.Visible(), 1, m.listHeight(), m.width, m.renderRow)
	m.list.SetKeyFunc(func(p *roster.Person) string { return p.Key })
	m.list.SetDeleteFunc(m.deletePerson)
	m.list.SetSelected(selected)
}

// optionKeys extracts selector options from a full-roster aggregate,
// sorted alphabetically for predictable cycling.
func optionKeys(entries []statsEntry) []string {
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	sort.Strings(keys)
	return keys
}

// indexOf finds the selector index of value, -1 when inactive or missing.
func indexOf(options []string, value string) int {
	if value == "" || value == filter.All {
		return -1
	}
	for i, o := range options {
		if o == value {
			return i
		}
	}
	return -1
}
