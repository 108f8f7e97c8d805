// Package console provides the tab that runs iiko operations and shows the
// active call.
package console

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/iiko-checker-tui/internal/app"
	"github.com/j-veylop/iiko-checker-tui/internal/models"
	"github.com/j-veylop/iiko-checker-tui/internal/ui/components"
)

// RecordSource provides the call record currently shown.
type RecordSource interface {
	Active() *models.CallRecord
}

// keyMap defines the key bindings specific to the console tab.
type keyMap struct {
	EditLogin     key.Binding
	Submit        key.Binding
	Cancel        key.Binding
	Authenticate  key.Binding
	Organizations key.Binding
	Terminals     key.Binding
	Nomenclature  key.Binding
	Up            key.Binding
	Down          key.Binding
	PrevOrg       key.Binding
	NextOrg       key.Binding
	CopyResponse  key.Binding
	CopyRequest   key.Binding
	ScrollUp      key.Binding
	ScrollDown    key.Binding
}

// defaultKeyMap returns the default key bindings for the console tab.
func defaultKeyMap() keyMap {
	return keyMap{
		EditLogin: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit api login"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run selected"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stop editing"),
		),
		Authenticate: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "get access token"),
		),
		Organizations: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "get organizations"),
		),
		Terminals: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "get terminal groups"),
		),
		Nomenclature: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "get nomenclature"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevOrg: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev organization"),
		),
		NextOrg: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next organization"),
		),
		CopyResponse: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy response"),
		),
		CopyRequest: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy request"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll response"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll response"),
		),
	}
}

// Model represents the console tab state.
type Model struct {
	state    *app.State
	source   RecordSource
	keys     keyMap
	login    textinput.Model
	request  components.JSONPanel
	response components.JSONPanel
	latency  components.LatencyBar

	shownID string
	shown   bool
	cursor  int
	width   int
	height  int
}

// New creates a new console model. The login input starts focused when no
// login has been configured.
func New(state *app.State, source RecordSource, slowThreshold time.Duration) *Model {
	ti := textinput.New()
	ti.Placeholder = "apiLogin"
	ti.Prompt = "› "
	ti.CharLimit = 128
	ti.SetValue(state.APILogin())

	m := &Model{
		state:    state,
		source:   source,
		keys:     defaultKeyMap(),
		login:    ti,
		request:  components.NewJSONPanel("Request"),
		response: components.NewJSONPanel("Response"),
		latency:  components.NewLatencyBar(slowThreshold),
	}

	if state.APILogin() == "" {
		m.login.Focus()
	}

	return m
}

// Init initializes the console tab.
func (m *Model) Init() tea.Cmd {
	if m.login.Focused() {
		return textinput.Blink
	}
	return nil
}

// Update handles messages for the console tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.login.Focused() {
			cmd = m.handleLoginKey(msg)
		} else {
			cmd = m.handleKeyMsg(msg)
		}
	case app.CallRecordedMsg:
		m.syncActive()
	default:
		if m.login.Focused() {
			m.login, cmd = m.login.Update(msg)
		}
	}

	return m, cmd
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		login := m.login.Value()
		m.login.Blur()
		m.cursor = 0
		return tea.Sequence(
			func() tea.Msg { return app.SetAPILoginMsg{Login: login} },
			runCmd(app.OpAuthenticate),
		)

	case key.Matches(msg, m.keys.Cancel):
		m.login.SetValue(m.state.APILogin())
		m.login.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.login, cmd = m.login.Update(msg)
	return cmd
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.EditLogin):
		m.login.CursorEnd()
		return m.login.Focus()

	case key.Matches(msg, m.keys.Authenticate):
		return runCmd(app.OpAuthenticate)
	case key.Matches(msg, m.keys.Organizations):
		return runCmd(app.OpOrganizations)
	case key.Matches(msg, m.keys.Terminals):
		return runCmd(app.OpTerminalGroups)
	case key.Matches(msg, m.keys.Nomenclature):
		return runCmd(app.OpNomenclature)

	case key.Matches(msg, m.keys.Submit):
		return runCmd(app.Operations[m.cursor])

	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor - 1 + len(app.Operations)) % len(app.Operations)
	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % len(app.Operations)

	case key.Matches(msg, m.keys.PrevOrg):
		return m.cycleOrganization(-1)
	case key.Matches(msg, m.keys.NextOrg):
		return m.cycleOrganization(1)

	case key.Matches(msg, m.keys.CopyResponse):
		return m.copyCmd(false)
	case key.Matches(msg, m.keys.CopyRequest):
		return m.copyCmd(true)

	case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
		m.syncActive()
		var cmd tea.Cmd
		m.response, cmd = m.response.Update(msg)
		return cmd
	}

	return nil
}

func runCmd(op app.Operation) tea.Cmd {
	return func() tea.Msg {
		return app.RunOperationMsg{Op: op}
	}
}

// cycleOrganization moves the selection by delta, wrapping around.
func (m *Model) cycleOrganization(delta int) tea.Cmd {
	orgs := m.state.Organizations()
	if len(orgs) == 0 || m.state.Busy() {
		return nil
	}

	idx := 0
	selected := m.state.SelectedOrganizationID()
	for i, org := range orgs {
		if org.ID == selected {
			idx = i
			break
		}
	}

	next := orgs[(idx+delta+len(orgs))%len(orgs)]
	return func() tea.Msg {
		return app.SelectOrganizationMsg{ID: next.ID}
	}
}

// copyCmd copies the rendered response, or the request when request is set.
func (m *Model) copyCmd(request bool) tea.Cmd {
	m.syncActive()
	if !m.shown {
		return nil
	}

	text, label := m.response.Text(), "response"
	if request {
		text, label = m.request.Text(), "request"
	}
	return func() tea.Msg {
		return app.CopyToClipboardMsg{Text: text, Label: label}
	}
}

// syncActive reloads the panels when the active record changed.
func (m *Model) syncActive() *models.CallRecord {
	rec := m.source.Active()
	if rec == nil {
		m.shown = false
		m.shownID = ""
		return nil
	}
	if !m.shown || rec.ID != m.shownID {
		m.request.SetValue(rec.RequestBody)
		m.response.SetValue(rec.ResponseBody)
		m.shownID = rec.ID
		m.shown = true
	}
	return rec
}

// SetSize sets the available size for the console tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.login.Width = max(sidebarWidth-8, 10)

	detailWidth := m.detailWidth()
	requestHeight := max(height/4, 5)
	responseHeight := max(height-requestHeight-6, 5)

	m.request.SetSize(detailWidth, requestHeight)
	m.response.SetSize(detailWidth, responseHeight)
}

// InputFocused reports whether the login input owns the keyboard.
func (m *Model) InputFocused() bool {
	return m.login.Focused()
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.EditLogin,
		m.keys.Authenticate,
		m.keys.Organizations,
		m.keys.Terminals,
		m.keys.Nomenclature,
		m.keys.PrevOrg,
		m.keys.NextOrg,
		m.keys.CopyResponse,
		m.keys.CopyRequest,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.EditLogin, m.keys.Submit, m.keys.Cancel},
		{m.keys.Authenticate, m.keys.Organizations, m.keys.Terminals, m.keys.Nomenclature},
		{m.keys.Up, m.keys.Down, m.keys.PrevOrg, m.keys.NextOrg},
		{m.keys.CopyResponse, m.keys.CopyRequest, m.keys.ScrollUp, m.keys.ScrollDown},
	}
}
