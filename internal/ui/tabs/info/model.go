// Package info provides the tab showing configuration, session and archive
// details.
package info

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/iiko-checker-tui/internal/app"
	"github.com/j-veylop/iiko-checker-tui/internal/config"
	"github.com/j-veylop/iiko-checker-tui/internal/models"
)

// recentLimit is the number of archived calls listed on the archive card.
const recentLimit = 5

// StatsSource queries the call archive.
type StatsSource interface {
	ArchiveStats() (*models.ArchiveStats, error)
	RecentArchived(limit int) ([]models.CallRecord, error)
}

// statsLoadedMsg carries the result of an archive query.
type statsLoadedMsg struct {
	stats  *models.ArchiveStats
	recent []models.CallRecord
	err    error
}

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	Refresh key.Binding
	Copy    key.Binding
	Up      key.Binding
	Down    key.Binding
}

// defaultKeyMap returns the default key bindings for the info tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh stats"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy base url"),
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

// Model represents the info tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	source   StatsSource
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model

	stats    *models.ArchiveStats
	recent   []models.CallRecord
	statsErr error
	loaded   bool
}

// New creates a new info model. source may be nil when no archive exists.
func New(state *app.State, cfg *config.Config, source StatsSource) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		source:   source,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init loads the archive stats.
func (m *Model) Init() tea.Cmd {
	return m.loadStats()
}

func (m *Model) loadStats() tea.Cmd {
	if m.source == nil {
		return nil
	}
	source := m.source
	return func() tea.Msg {
		stats, err := source.ArchiveStats()
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		recent, err := source.RecentArchived(recentLimit)
		return statsLoadedMsg{stats: stats, recent: recent, err: err}
	}
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.stats = msg.stats
		m.recent = msg.recent
		m.statsErr = msg.err
		m.loaded = true
		return m, nil

	case app.ArchiveUpdatedMsg:
		return m, m.loadStats()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadStats()
		case key.Matches(msg, m.keys.Copy):
			if m.config == nil {
				return m, nil
			}
			baseURL := m.config.BaseURL
			return m, func() tea.Msg {
				return app.CopyToClipboardMsg{Text: baseURL, Label: "base URL"}
			}
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// InputFocused always reports false; the tab has no text input.
func (m *Model) InputFocused() bool {
	return false
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Refresh,
		m.keys.Copy,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Refresh, m.keys.Copy},
		{m.keys.Up, m.keys.Down},
	}
}
