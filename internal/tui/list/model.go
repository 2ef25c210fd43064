package listview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// defaultOverscan is the number of extra rows materialized above and below
// the visible window for smooth scrolling.
const defaultOverscan = 5

// RenderFunc renders one item. selected marks the cursor row.
type RenderFunc[T any] func(item T, selected bool) string

// KeyFunc derives a stable identity key for an item. Return "" to fall back
// to the item's position.
type KeyFunc[T any] func(item T) string

// DeleteFunc is invoked with the exact item reference the user asked to
// remove. The list does not mutate its own items; the owner is expected to
// delete the record and call SetItems with the result.
type DeleteFunc[T any] func(item T)

// Model is a generic windowed list: fixed row height, a capped window, and
// stable per-row keys.
type Model[T any] struct {
	items      []T
	renderFunc RenderFunc[T]
	keyFunc    KeyFunc[T]
	onDelete   DeleteFunc[T]

	selected    int
	visibleFrom int
	visibleTo   int

	// rowHeight is the fixed height of every row in terminal lines.
	rowHeight int

	// maxHeight caps the window height in terminal lines.
	maxHeight int

	width    int
	overscan int
}

// New creates a windowed list over items with the given fixed row height
// and maximum window height (both in terminal lines).
func New[T any](items []T, rowHeight, maxHeight, width int, renderFunc RenderFunc[T]) *Model[T] {
	if rowHeight < 1 {
		rowHeight = 1
	}
	m := &Model[T]{
		items:      items,
		renderFunc: renderFunc,
		rowHeight:  rowHeight,
		maxHeight:  maxHeight,
		width:      width,
		overscan:   defaultOverscan,
	}
	m.updateVisibleRange()
	return m
}

// SetKeyFunc installs the stable-key derivation for rows.
func (m *Model[T]) SetKeyFunc(fn KeyFunc[T]) {
	m.keyFunc = fn
}

// SetDeleteFunc installs the delete callback.
func (m *Model[T]) SetDeleteFunc(fn DeleteFunc[T]) {
	m.onDelete = fn
}

// SetItems replaces the list contents. The cursor is preserved by identity
// key where possible, otherwise clamped to the nearest valid position.
func (m *Model[T]) SetItems(items []T) {
	prevKey := ""
	if m.selected >= 0 && m.selected < len(m.items) {
		prevKey = m.RowKey(m.selected)
	}

	m.items = items

	if prevKey != "" {
		for i := range m.items {
			if m.RowKey(i) == prevKey {
				m.selected = i
				m.updateVisibleRange()
				return
			}
		}
	}
	if m.selected >= len(m.items) {
		m.selected = len(m.items) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.updateVisibleRange()
}

// RowKey returns the stable identity key for the row at index i, falling
// back to the position when the item has no identity of its own.
func (m *Model[T]) RowKey(i int) string {
	if i < 0 || i >= len(m.items) {
		return ""
	}
	if m.keyFunc != nil {
		if key := m.keyFunc(m.items[i]); key != "" {
			return key
		}
	}
	return fmt.Sprintf("row-%d", i)
}

// WindowHeight is the rendered window height in terminal lines:
// min(count * rowHeight, maxHeight).
func (m *Model[T]) WindowHeight() int {
	h := len(m.items) * m.rowHeight
	if h > m.maxHeight {
		return m.maxHeight
	}
	return h
}

// windowRows is how many whole rows fit in the window.
func (m *Model[T]) windowRows() int {
	rows := m.maxHeight / m.rowHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Init implements tea.Model.
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// Update handles navigation, deletion, and resize messages.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg), nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.updateVisibleRange()
		return m, nil
	}
	return m, nil
}

// handleKeyMsg processes keyboard input for navigation and deletion.
//
//nolint:gocognit,exhaustive // Key handling inherently branches per navigation key.
func (m *Model[T]) handleKeyMsg(msg tea.KeyMsg) tea.Model {
	if len(m.items) == 0 {
		return m
	}

	switch msg.Type {
	case tea.KeyUp:
		m.MoveCursor(-1)

	case tea.KeyDown:
		m.MoveCursor(1)

	case tea.KeyPgUp:
		m.MoveCursor(-m.windowRows())

	case tea.KeyPgDown:
		m.MoveCursor(m.windowRows())

	case tea.KeyHome:
		m.SetSelected(0)

	case tea.KeyEnd:
		m.SetSelected(len(m.items) - 1)

	case tea.KeyDelete:
		m.deleteSelected()

	case tea.KeyRunes:
		if len(msg.Runes) > 0 {
			switch msg.Runes[0] {
			case 'j':
				m.MoveCursor(1)
			case 'k':
				m.MoveCursor(-1)
			case 'x':
				m.deleteSelected()
			}
		}

	default:
		// Other keys belong to the parent model.
	}

	return m
}

// deleteSelected hands the exact selected item reference to the delete
// callback. Identity, not value: duplicates elsewhere in the list survive.
func (m *Model[T]) deleteSelected() {
	if m.onDelete == nil || m.selected < 0 || m.selected >= len(m.items) {
		return
	}
	m.onDelete(m.items[m.selected])
}

// MoveCursor moves the selection by delta rows, clamped to valid bounds.
func (m *Model[T]) MoveCursor(delta int) {
	m.SetSelected(m.selected + delta)
}

// SetSelected sets the selected row, clamped to valid bounds.
func (m *Model[T]) SetSelected(index int) {
	if len(m.items) == 0 {
		m.selected = 0
		m.updateVisibleRange()
		return
	}

	switch {
	case index < 0:
		m.selected = 0
	case index >= len(m.items):
		m.selected = len(m.items) - 1
	default:
		m.selected = index
	}
	m.updateVisibleRange()
}

// updateVisibleRange recalculates the window so the selected row is always
// inside it.
func (m *Model[T]) updateVisibleRange() {
	if len(m.items) == 0 {
		m.visibleFrom = 0
		m.visibleTo = 0
		return
	}

	rows := m.windowRows()
	if rows > len(m.items) {
		rows = len(m.items)
	}

	from := m.visibleFrom
	if m.selected < from {
		from = m.selected
	}
	if m.selected >= from+rows {
		from = m.selected - rows + 1
	}
	if from+rows > len(m.items) {
		from = len(m.items) - rows
	}
	if from < 0 {
		from = 0
	}

	m.visibleFrom = from
	m.visibleTo = from + rows
}

// View materializes the rows intersecting the window plus overscan, but
// emits only the window rows: the printed block is never taller than
// WindowHeight lines.
func (m *Model[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}

	renderFrom, renderTo := m.MaterializedRange()

	var b strings.Builder
	for i := renderFrom; i < renderTo; i++ {
		line := m.renderFunc(m.items[i], i == m.selected)
		if i < m.visibleFrom || i >= m.visibleTo {
			continue
		}
		if i > m.visibleFrom {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}

// MaterializedRange returns the row index range [from, to) actually
// rendered by View, including overscan.
func (m *Model[T]) MaterializedRange() (from, to int) {
	from = m.visibleFrom - m.overscan
	if from < 0 {
		from = 0
	}
	to = m.visibleTo + m.overscan
	if to > len(m.items) {
		to = len(m.items)
	}
	return from, to
}

// ItemCount returns the total number of items.
func (m *Model[T]) ItemCount() int { return len(m.items) }

// Selected returns the selected row index.
func (m *Model[T]) Selected() int { return m.selected }

// SelectedItem returns the selected item, or nil for an empty list.
func (m *Model[T]) SelectedItem() *T {
	if len(m.items) == 0 || m.selected < 0 || m.selected >= len(m.items) {
		return nil
	}
	return &m.items[m.selected]
}

// VisibleFrom returns the first windowed row index (inclusive).
func (m *Model[T]) VisibleFrom() int { return m.visibleFrom }

// VisibleTo returns the last windowed row index (exclusive).
func (m *Model[T]) VisibleTo() int { return m.visibleTo }

// Width returns the viewport width.
func (m *Model[T]) Width() int { return m.width }
