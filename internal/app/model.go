package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/iiko-checker-tui/internal/iiko"
	"github.com/j-veylop/iiko-checker-tui/internal/models"
	"github.com/j-veylop/iiko-checker-tui/internal/services"
	"github.com/j-veylop/iiko-checker-tui/internal/ui/components"
	"github.com/j-veylop/iiko-checker-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabConsole is the ID for the console tab.
	TabConsole TabID = iota
	// TabActivity is the ID for the activity log tab.
	TabActivity
	// TabInfo is the ID for the info tab.
	TabInfo
)

// String returns the string representation of the TabID.
func (t TabID) String() string {
	switch t {
	case TabConsole:
		return "Console"
	case TabActivity:
		return "Activity"
	case TabInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding

	// InputFocused reports whether a text input owns the keyboard. Global
	// shortcuts other than ctrl+c are suspended while it does.
	InputFocused() bool
}

// KeyMap defines the global keybindings.
type KeyMap struct {
	Tab1      key.Binding
	Tab2      key.Binding
	Tab3      key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Escape    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab1:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "console")),
		Tab2:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "activity")),
		Tab3:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "info")),
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3},
		{k.NextTab, k.PrevTab},
		{k.Help, k.Quit, k.ForceQuit},
	}
}

// Styles defines the application styles.
type Styles struct {
	// Tab bar styles
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style

	// Notification styles
	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	// Content styles
	Content lipgloss.Style
	Toast   lipgloss.Style

	// Common styles
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	success := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warning := lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FF8C00"}
	errorColor := lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}
	info := lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"}

	s := Styles{}
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(subtle)
	s.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 2)
	s.InactiveTab = lipgloss.NewStyle().Foreground(subtle).Padding(0, 2)

	s.NotificationSuccess = lipgloss.NewStyle().Foreground(success).Padding(0, 1)
	s.NotificationError = lipgloss.NewStyle().Foreground(errorColor).Bold(true).Padding(0, 1)
	s.NotificationWarning = lipgloss.NewStyle().Foreground(warning).Padding(0, 1)
	s.NotificationInfo = lipgloss.NewStyle().Foreground(info).Padding(0, 1)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Toast = styles.ToastStyle

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	s.Subtle = lipgloss.NewStyle().Foreground(subtle)
	s.Highlight = lipgloss.NewStyle().Foreground(highlight)

	return s
}

// Model is the main application model.
type Model struct {
	// Tab management
	activeTab TabID
	tabs      []Tab
	tabNames  []string

	// Shared state
	state      *State
	services   *services.Manager
	controller *Controller
	keymap     KeyMap
	styles     Styles

	// UI components
	spinner components.PendingSpinner

	// Window dimensions
	width  int
	height int

	// UI state
	showHelp bool
	ready    bool

	// Service subscription
	eventChannel chan services.ServiceEvent
}

// NewModel initializes a new application model. The controller talks to the
// manager's iiko client and journals through the manager; a nil manager
// leaves the model without a controller.
func NewModel(mgr *services.Manager) *Model {
	state := NewState()

	m := &Model{
		activeTab: TabConsole,
		tabNames:  []string{"Console", "Activity", "Info"},
		tabs:      make([]Tab, 3),
		state:     state,
		services:  mgr,
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   components.NewPendingSpinner(),
	}

	if mgr != nil {
		m.controller = NewController(state, mgr.Client(), mgr)
	}

	return m
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// IsReady returns true if the model is ready (window size received).
func (m *Model) IsReady() bool {
	return m.ready
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick(),
		defaultTickCmd(),
	}

	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services))
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)

	case tea.KeyMsg:
		cmd, handled := m.handleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	default:
		cmds = append(cmds, m.handleAppMsg(msg)...)
	}

	if _, isKey := msg.(tea.KeyMsg); isKey {
		cmds = append(cmds, m.updateActiveTab(msg))
	} else {
		cmds = append(cmds, m.updateAllTabs(msg)...)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		cmds = append(cmds, defaultTickCmd())
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEventMsg(msg)...)
	case RunOperationMsg:
		cmds = append(cmds, m.handleRunOperation(msg))
	case CallCompletedMsg:
		cmds = append(cmds, m.handleCallCompleted(msg)...)
	case SetAPILoginMsg:
		if m.controller != nil {
			m.controller.SetAPILogin(msg.Login)
		}
	case SelectOrganizationMsg:
		if m.controller != nil && m.controller.SelectOrganization(msg.ID) {
			if org := m.state.SelectedOrganization(); org != nil {
				cmds = append(cmds, notifyInfoCmd("Organization: "+org.Label()))
			}
		}
	case SelectRecordMsg:
		if m.controller != nil && m.controller.SelectRecord(msg.ID) {
			m.activeTab = TabConsole
			m.updateTabSizes()
		}
	case ClearActivityMsg:
		if m.controller != nil {
			m.controller.ClearActivity()
			cmds = append(cmds, notifyInfoCmd("Activity log cleared"))
		}
	case CopyToClipboardMsg:
		cmds = append(cmds, copyToClipboardCmd(msg.Text, msg.Label))
	case ClipboardResultMsg:
		cmds = append(cmds, m.handleClipboardResult(msg))
	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case TabSwitchMsg:
		m.activeTab = msg.Tab
		m.updateTabSizes()
	}
	return cmds
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

func (m *Model) handleServiceEventMsg(msg ServiceEventMsg) []tea.Cmd {
	var cmds []tea.Cmd
	if cmd := m.handleServiceEvent(msg.Event); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.eventChannel != nil {
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	}
	return cmds
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.ArchivedEvent:
		id := e.Record.ID
		return func() tea.Msg { return ArchiveUpdatedMsg{RecordID: id} }

	case services.SlowCallEvent:
		return notifyWarningCmd(fmt.Sprintf("Slow call: %s %s took %s",
			e.Record.Method, e.Record.Path(), components.FormatDuration(e.Record.DurationMs)))

	case services.ErrorEvent:
		return notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}

	return nil
}

func (m *Model) handleRunOperation(msg RunOperationMsg) tea.Cmd {
	if m.controller == nil {
		return nil
	}

	cmd := m.controller.Run(msg.Op)
	if cmd == nil {
		return notifyWarningCmd(m.disabledReason(msg.Op))
	}

	m.state.SetLoadingNotification(msg.Op.String() + "...")
	return cmd
}

// disabledReason explains why op could not start.
func (m *Model) disabledReason(op Operation) string {
	if pending := m.state.Pending(); pending != OpNone {
		return fmt.Sprintf("%s is still running", pending)
	}
	switch op {
	case OpAuthenticate:
		return "Enter an API login first"
	case OpOrganizations:
		return "Get an access token first"
	case OpTerminalGroups, OpNomenclature:
		if !m.state.IsAuthenticated() {
			return "Get an access token first"
		}
		return "Select an organization first"
	default:
		return "Nothing to run"
	}
}

func (m *Model) handleCallCompleted(msg CallCompletedMsg) []tea.Cmd {
	if m.controller == nil {
		return nil
	}

	rec, ok := m.controller.Complete(msg)
	m.state.ClearLoadingNotification()

	recorded := func() tea.Msg {
		return CallRecordedMsg{RecordID: rec.ID, Op: msg.Op, Status: rec.Status, Success: ok}
	}

	return []tea.Cmd{m.outcomeNotification(msg.Op, rec, ok), recorded}
}

func (m *Model) outcomeNotification(op Operation, rec models.CallRecord, ok bool) tea.Cmd {
	if ok {
		switch op {
		case OpAuthenticate:
			return notifySuccessCmd("Authenticated")
		case OpOrganizations:
			n := len(m.state.Organizations())
			if n == 0 {
				return notifyWarningCmd("No organizations available for this login")
			}
			return notifySuccessCmd(fmt.Sprintf("Loaded %d organization(s)", n))
		default:
			return notifySuccessCmd(fmt.Sprintf("%s: %d in %s", op, rec.Status, components.FormatDuration(rec.DurationMs)))
		}
	}

	desc := iiko.ErrorDescription(rec.ResponseBody)
	if desc == "" {
		desc = "unexpected response"
	}
	return notifyErrorCmd(fmt.Sprintf("%s failed (%d): %s", op, rec.Status, desc))
}

func (m *Model) handleClipboardResult(msg ClipboardResultMsg) tea.Cmd {
	if !msg.Success {
		return notifyErrorCmd(msg.Error.Error())
	}
	return notifySuccessCmd(fmt.Sprintf("Copied %s to clipboard", msg.Label))
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = m.tabs[m.activeTab].Update(msg)
		return cmd
	}
	return nil
}

// updateAllTabs delivers a non-key message to every tab so inactive tabs see
// command results and records.
func (m *Model) updateAllTabs(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for i, tab := range m.tabs {
		if tab == nil {
			continue
		}
		var cmd tea.Cmd
		m.tabs[i], cmd = tab.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func (m *Model) updateTabSizes() {
	contentHeight := m.height - 5
	contentHeight = max(0, contentHeight)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

func (m *Model) inputFocused() bool {
	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		return m.tabs[m.activeTab].InputFocused()
	}
	return false
}

// handleKeyMsg handles global keys. It reports whether the key was consumed;
// unconsumed keys go to the active tab.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return tea.Quit, true
	}
	if m.inputFocused() {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil, true

	case key.Matches(msg, m.keymap.Escape):
		if m.showHelp {
			m.showHelp = false
			return nil, true
		}

	case key.Matches(msg, m.keymap.Tab1):
		m.switchTab(TabConsole)
		return nil, true

	case key.Matches(msg, m.keymap.Tab2):
		m.switchTab(TabActivity)
		return nil, true

	case key.Matches(msg, m.keymap.Tab3):
		m.switchTab(TabInfo)
		return nil, true

	case key.Matches(msg, m.keymap.NextTab):
		if !m.showHelp && len(m.tabs) > 0 {
			m.switchTab(TabID((int(m.activeTab) + 1) % len(m.tabs)))
		}
		return nil, true

	case key.Matches(msg, m.keymap.PrevTab):
		if !m.showHelp && len(m.tabs) > 0 {
			m.switchTab(TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs)))
		}
		return nil, true
	}

	return nil, m.showHelp
}

func (m *Model) switchTab(id TabID) {
	m.activeTab = id
	m.updateTabSizes()
}

// View renders the application UI.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(m.spinner.Centered("Loading...", m.width, max(m.height-3, 1)))
		return b.String()
	}

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		b.WriteString(m.tabs[m.activeTab].View())
	} else {
		b.WriteString(m.renderPlaceholder())
	}

	mainView := b.String()

	if m.showHelp {
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	if notifications := m.renderNotifications(); len(notifications) > 0 {
		return m.overlayToasts(mainView, notifications)
	}

	return mainView
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := strings.Split(mainView, "\n")
	overlayLines := strings.Split(overlay, "\n")

	overlayWidth := lipgloss.Width(overlay)

	y := max((m.height-len(overlayLines))/2, 0)
	x := max((m.width-overlayWidth)/2, 0)

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]
		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		if lipgloss.Width(left) < x {
			left += strings.Repeat(" ", x-lipgloss.Width(left))
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderNavbar() string {
	var tabs []string

	for i, name := range m.tabNames {
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, name)))
		}
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	status := m.renderSessionStatus()

	gap := m.width - lipgloss.Width(tabBar) - lipgloss.Width(status) - 4
	if gap > 0 {
		tabBar = tabBar + strings.Repeat(" ", gap) + status
	} else {
		tabBar = tabBar + " " + status
	}

	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

func (m *Model) renderSessionStatus() string {
	var parts []string

	if pending := m.state.Pending(); pending != OpNone {
		parts = append(parts, m.spinner.Label(pending.String()))
	}

	if m.state.IsAuthenticated() {
		parts = append(parts, styles.AuthenticatedBadgeStyle.Render("Authenticated"))
	} else {
		parts = append(parts, styles.UnauthorizedBadgeStyle.Render("Unauthorized"))
	}

	return strings.Join(parts, " ")
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	var toasts []string
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style = m.styles.NotificationSuccess
			prefix = "[OK]"
		case NotificationError:
			style = m.styles.NotificationError
			prefix = "[ERR]"
		case NotificationWarning:
			style = m.styles.NotificationWarning
			prefix = "[WARN]"
		case NotificationInfo:
			style = m.styles.NotificationInfo
			prefix = "[INFO]"
		case NotificationLoading:
			style = m.styles.NotificationInfo
			prefix = m.spinner.Frame()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	if len(toasts) == 0 {
		return mainView
	}

	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := strings.Split(mainView, "\n")

	toastWidth := lipgloss.Width(toastStack)
	startX := max(m.width-toastWidth-2, 0)

	startY := 2

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		mainLineWidth := lipgloss.Width(mainLine)

		if mainLineWidth < startX {
			mainLines[lineIdx] = mainLine + strings.Repeat(" ", startX-mainLineWidth) + toastLine
		} else {
			mainLines[lineIdx] = ansi.Truncate(mainLine, startX, "") + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderHelp() string {
	var lines []string

	lines = append(lines, m.styles.Title.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Navigation"))
	lines = append(lines, "  1-3        Switch tabs")
	lines = append(lines, "  Tab        Next tab")
	lines = append(lines, "  Shift+Tab  Previous tab")
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("General"))
	lines = append(lines, "  ?          Toggle help")
	lines = append(lines, "  q          Quit")
	lines = append(lines, "  Ctrl+C     Quit, even while typing")
	lines = append(lines, "")

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		tabHelp := m.tabs[m.activeTab].ShortHelp()
		if len(tabHelp) > 0 {
			lines = append(lines, m.styles.Highlight.Render(fmt.Sprintf("%s Tab", m.tabNames[m.activeTab])))
			for _, binding := range tabHelp {
				lines = append(lines, "  "+styles.HelpKeyStyle.Width(11).Render(binding.Help().Key)+
					styles.HelpDescStyle.Render(binding.Help().Desc))
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"Tab %d: %s\n\n%s",
		m.activeTab+1,
		m.activeTab,
		m.styles.Subtle.Render("This tab is not available."),
	)
	return m.styles.Content.Render(content)
}
