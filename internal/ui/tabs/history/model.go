// Package history provides the activity tab listing recent API calls.
package history

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/iiko-checker-tui/internal/app"
	"github.com/j-veylop/iiko-checker-tui/internal/models"
	"github.com/j-veylop/iiko-checker-tui/internal/ui/components"
	"github.com/j-veylop/iiko-checker-tui/internal/ui/styles"
)

// RecordSource provides the logged calls.
type RecordSource interface {
	// Records returns the log newest first.
	Records() []models.CallRecord
	Active() *models.CallRecord
	// Durations returns call durations in milliseconds, oldest first.
	Durations() []float64
}

// keyMap defines the key bindings specific to the activity tab.
type keyMap struct {
	Select key.Binding
	Clear  key.Binding
	Up     key.Binding
	Down   key.Binding
}

// defaultKeyMap returns the default key bindings for the activity tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "show call"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear log"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

const chartHeight = 8

// Model represents the activity tab state.
type Model struct {
	state     *app.State
	source    RecordSource
	keys      keyMap
	table     table.Model
	threshold time.Duration

	ids    []string
	width  int
	height int
}

// New creates a new activity model. threshold is drawn on the latency chart;
// zero hides it.
func New(state *app.State, source RecordSource, threshold time.Duration) *Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = styles.TableHeaderStyle
	s.Selected = styles.TableSelectedStyle
	t.SetStyles(s)

	return &Model{
		state:     state,
		source:    source,
		keys:      defaultKeyMap(),
		table:     t,
		threshold: threshold,
	}
}

// columns sizes the table for the given width; the path column takes the rest.
func columns(width int) []table.Column {
	fixed := 2 + 7 + 7 + 9 + 8
	path := max(width-fixed-14, 16)
	return []table.Column{
		{Title: "", Width: 2},
		{Title: "Method", Width: 7},
		{Title: "Status", Width: 7},
		{Title: "Path", Width: path},
		{Title: "Time", Width: 9},
		{Title: "Dur", Width: 8},
	}
}

// Init initializes the activity tab.
func (m *Model) Init() tea.Cmd {
	m.syncRows()
	return nil
}

// Update handles messages for the activity tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	m.syncRows()

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Select):
		if len(m.ids) == 0 {
			return m, func() tea.Msg { return app.TabSwitchMsg{Tab: app.TabConsole} }
		}
		cursor := m.table.Cursor()
		if cursor < 0 || cursor >= len(m.ids) {
			return m, nil
		}
		id := m.ids[cursor]
		return m, func() tea.Msg { return app.SelectRecordMsg{ID: id} }

	case key.Matches(keyMsg, m.keys.Clear):
		if len(m.ids) == 0 {
			return m, nil
		}
		return m, func() tea.Msg { return app.ClearActivityMsg{} }
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(keyMsg)
	return m, cmd
}

// syncRows rebuilds the table from the log, keeping the cursor in range.
func (m *Model) syncRows() {
	records := m.source.Records()
	active := m.source.Active()

	rows := make([]table.Row, 0, len(records))
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		marker := ""
		if active != nil && rec.ID == active.ID {
			marker = "●"
		}
		rows = append(rows, table.Row{
			marker,
			rec.Method,
			strconv.Itoa(rec.Status),
			rec.Path(),
			rec.Time(),
			components.FormatDuration(rec.DurationMs),
		})
		ids = append(ids, rec.ID)
	}

	m.ids = ids
	m.table.SetRows(rows)
	if cursor := m.table.Cursor(); cursor >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// SetSize sets the available size for the activity tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	m.table.SetColumns(columns(width))
	m.table.SetWidth(max(width-4, 20))

	tableHeight := height - 6
	if m.showChart() {
		tableHeight -= chartHeight + 3
	}
	m.table.SetHeight(max(tableHeight, 3))
}

func (m *Model) showChart() bool {
	return m.height >= 30
}

// InputFocused always reports false; the tab has no text input.
func (m *Model) InputFocused() bool {
	return false
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Select,
		m.keys.Clear,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Select, m.keys.Clear},
		{m.keys.Up, m.keys.Down},
	}
}
