package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/crewdash/crewdash/internal/export"
	"github.com/crewdash/crewdash/internal/filter"
	"github.com/crewdash/crewdash/internal/roster"
	"github.com/crewdash/crewdash/internal/session"
	"github.com/crewdash/crewdash/internal/stats"
)

// statsEntry aliases the aggregation bucket type for the view layer.
type statsEntry = stats.CountEntry

// Column widths for the roster rows.
const (
	colWidthName    = 24
	colWidthEmail   = 30
	colWidthCity    = 16
	colWidthCompany = 22
)

// Dashboard styles.
//
//nolint:gochecknoglobals // lipgloss styles are conventionally package-level
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	statValue     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// exportRoster writes entries to a date-stamped CSV in the working
// directory.
func exportRoster(entries roster.Roster, label string) (export.Result, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return export.Result{}, err
	}
	return export.Write(entries, label, cwd)
}

// View renders the dashboard.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.sess.State() {
	case session.StateLoading:
		return fmt.Sprintf("\n  %s Loading roster…\n", m.spin.View())
	case session.StateError:
		return "\n  " + errorStyle.Render(m.sess.ErrorMessage()) + "\n\n" +
			"  " + helpStyle.Render("r refresh · q quit") + "\n"
	case session.StateIdle:
		return ""
	case session.StateRefreshing, session.StateDisplaying:
		// Fall through to the dashboard below.
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString(m.filterView())
	b.WriteString(m.listView())
	b.WriteString(m.footerView())
	return b.String()
}

// headerView renders the title plus the aggregate stat panels.
func (m *Model) headerView() string {
	sum := m.sess.Summary()

	title := titleStyle.Render("crewdash") + statStyle.Render("  ·  people roster")
	if m.sess.State() == session.StateRefreshing {
		title += noticeStyle.Render("  (refreshing…)")
	} else if m.sess.UsingCachedData() {
		title += noticeStyle.Render("  (cached)")
	}

	statLine := fmt.Sprintf("%s %s   %s %s   %s %s   %s %s   %s %s",
		statStyle.Render("total"), statValue.Render(fmt.Sprintf("%d", sum.Total)),
		statStyle.Render("visible"), statValue.Render(fmt.Sprintf("%d (%d%%)", sum.Filtered, sum.Coverage())),
		statStyle.Render("cities"), statValue.Render(fmt.Sprintf("%d", sum.UniqueCities())),
		statStyle.Render("companies"), statValue.Render(fmt.Sprintf("%d", sum.UniqueCompanies())),
		statStyle.Render("state"), statValue.Render(m.sess.State().String()),
	)

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(topPanel("Top cities", sum.TopCities())),
		panelStyle.Render(topPanel("Top companies", sum.TopCompanies())),
	)

	return title + "\n" + statLine + "\n" + panels + "\n"
}

// topPanel renders one ranked aggregate panel.
func topPanel(title string, entries []statsEntry) string {
	var b strings.Builder
	b.WriteString(statValue.Render(title))
	if len(entries) == 0 {
		b.WriteString("\n" + statStyle.Render("(none)"))
		return b.String()
	}
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("\n%-18s %s", truncate(e.Key, 18), statValue.Render(fmt.Sprintf("%d", e.Count))))
	}
	return b.String()
}

// filterView renders the search box and the two selectors.
func (m *Model) filterView() string {
	city := m.sess.Filters().City
	if city == "" || city == filter.All {
		city = "all"
	}
	company := m.sess.Filters().Company
	if company == "" || company == filter.All {
		company = "all"
	}

	search := m.searchInput.View()
	if !m.searchFocus && m.searchInput.Value() == "" {
		search = statStyle.Render("/ to search")
	}

	return fmt.Sprintf("%s   %s %s   %s %s\n",
		search,
		statStyle.Render("city:"), statValue.Render(city),
		statStyle.Render("company:"), statValue.Render(company),
	)
}

// listView renders the windowed roster rows.
func (m *Model) listView() string {
	if m.list.ItemCount() == 0 {
		return "\n" + statStyle.Render("  no records match the current filters") + "\n\n"
	}
	return "\n" + m.list.View() + "\n\n"
}

// footerView renders the notice/status line and the key help.
func (m *Model) footerView() string {
	var b strings.Builder
	if notice := m.sess.Notice(); notice != "" {
		b.WriteString(noticeStyle.Render(notice) + "\n")
	}
	if m.status != "" {
		b.WriteString(statStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render(
		"/ search · c city · o company · R clear · x delete · e export view · E export all · r refresh · q quit"))
	return b.String()
}

// renderRow renders one roster row at the fixed row height.
func (m *Model) renderRow(p *roster.Person, selected bool) string {
	line := fmt.Sprintf("%-*s %-*s %-*s %-*s",
		colWidthName, truncate(p.Name, colWidthName),
		colWidthEmail, truncate(p.Email, colWidthEmail),
		colWidthCity, truncate(p.DisplayCity(), colWidthCity),
		colWidthCompany, truncate(p.DisplayCompany(), colWidthCompany),
	)
	if selected {
		return selectedStyle.Render("> " + line)
	}
	return "  " + line
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
