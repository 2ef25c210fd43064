package listview_test

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	listview "github.com/crewdash/crewdash/internal/tui/list"
)

type row struct {
	key  string
	name string
}

func makeRows(n int) []*row {
	rows := make([]*row, n)
	for i := range rows {
		rows[i] = &row{key: fmt.Sprintf("k%d", i), name: fmt.Sprintf("row %d", i)}
	}
	return rows
}

func newModel(rows []*row, maxHeight int) *listview.Model[*row] {
	m := listview.New(rows, 1, maxHeight, 80, func(r *row, selected bool) string {
		if selected {
			return "> " + r.name
		}
		return "  " + r.name
	})
	m.SetKeyFunc(func(r *row) string { return r.key })
	return m
}

func TestWindowHeight_CappedAtMax(t *testing.T) {
	m := newModel(makeRows(1000), 20)
	assert.Equal(t, 20, m.WindowHeight())

	small := newModel(makeRows(3), 20)
	assert.Equal(t, 3, small.WindowHeight(), "window shrinks to fit small result sets")
}

func TestView_MaterializesOnlyWindowPlusOverscan(t *testing.T) {
	m := newModel(makeRows(10000), 20)

	from, to := m.MaterializedRange()
	assert.LessOrEqual(t, to-from, 20+2*5+1, "render cost stays O(window), not O(items)")

	view := m.View()
	assert.NotContains(t, view, "row 9000", "far-away rows are never materialized")
}

func TestView_EmitsAtMostWindowHeightLines(t *testing.T) {
	m := newModel(makeRows(100), 20)

	lines := strings.Split(m.View(), "\n")
	assert.Len(t, lines, 20, "overscan rows are materialized but never printed")
	assert.LessOrEqual(t, len(lines), m.WindowHeight())
	assert.Contains(t, lines[0], "row 0")
	assert.Contains(t, lines[19], "row 19")

	// Same cap holds mid-list, where overscan extends in both directions.
	m.SetSelected(50)
	lines = strings.Split(m.View(), "\n")
	assert.Len(t, lines, 20)
	assert.Contains(t, m.View(), "row 50")
}

func TestNavigation_KeepsSelectionVisible(t *testing.T) {
	m := newModel(makeRows(100), 20)

	upd, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	m = upd.(*listview.Model[*row])
	assert.Equal(t, 99, m.Selected())
	assert.Equal(t, 100, m.VisibleTo())
	assert.Equal(t, 80, m.VisibleFrom())

	upd, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	m = upd.(*listview.Model[*row])
	assert.Equal(t, 79, m.Selected())
	assert.LessOrEqual(t, m.VisibleFrom(), 79)
	assert.Greater(t, m.VisibleTo(), 79)

	upd, _ = m.Update(tea.KeyMsg{Type: tea.KeyHome})
	m = upd.(*listview.Model[*row])
	assert.Equal(t, 0, m.Selected())
	assert.Equal(t, 0, m.VisibleFrom())
}

func TestRowKey_StableWithPositionalFallback(t *testing.T) {
	rows := []*row{{key: "a", name: "A"}, {key: "", name: "B"}}
	m := newModel(rows, 10)

	assert.Equal(t, "a", m.RowKey(0))
	assert.Equal(t, "row-1", m.RowKey(1), "keyless rows fall back to position")
	assert.Empty(t, m.RowKey(99))
}

func TestSetItems_PreservesSelectionByKey(t *testing.T) {
	rows := makeRows(50)
	m := newModel(rows, 10)
	m.SetSelected(30)

	// Remove an earlier row; the selected record shifts position but the
	// cursor follows its key, not its index.
	shorter := append([]*row{}, rows[:10]...)
	shorter = append(shorter, rows[11:]...)
	m.SetItems(shorter)

	require.Equal(t, 29, m.Selected())
	assert.Equal(t, "k30", m.RowKey(m.Selected()))
}

func TestSetItems_ClampsWhenKeyGone(t *testing.T) {
	rows := makeRows(10)
	m := newModel(rows, 10)
	m.SetSelected(9)

	m.SetItems(rows[:3])
	assert.Equal(t, 2, m.Selected())

	m.SetItems(nil)
	assert.Equal(t, 0, m.Selected())
	assert.Empty(t, m.View())
}

func TestDelete_CallsBackWithExactReference(t *testing.T) {
	// Two rows sharing all visible fields; only pointer identity differs.
	a := &row{key: "dup", name: "Dup"}
	b := &row{key: "dup", name: "Dup"}
	m := newModel([]*row{a, b}, 10)

	var deleted *row
	m.SetDeleteFunc(func(r *row) { deleted = r })
	m.SetSelected(1)

	upd, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	_ = upd

	require.NotNil(t, deleted)
	assert.Same(t, b, deleted, "the callback receives the exact record reference")
}

func TestDelete_NoCallbackNoPanic(t *testing.T) {
	m := newModel(makeRows(2), 10)
	assert.NotPanics(t, func() {
		_, _ = m.Update(tea.KeyMsg{Type: tea.KeyDelete})
	})
}
