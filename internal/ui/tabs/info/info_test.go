package info

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/iiko-checker-tui/internal/app"
	"github.com/j-veylop/iiko-checker-tui/internal/config"
	"github.com/j-veylop/iiko-checker-tui/internal/models"
	"github.com/j-veylop/iiko-checker-tui/internal/services"
)

type fakeStats struct {
	stats  *models.ArchiveStats
	recent []models.CallRecord
	err    error
	calls  int
}

func (f *fakeStats) ArchiveStats() (*models.ArchiveStats, error) {
	f.calls++
	return f.stats, f.err
}

func (f *fakeStats) RecentArchived(limit int) ([]models.CallRecord, error) {
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:           config.DefaultBaseURL,
		Timeout:           60 * time.Second,
		SlowCallThreshold: 5 * time.Second,
		LogLevel:          "info",
	}
}

func newTestInfo(t *testing.T, source StatsSource) (*Model, *app.State) {
	t.Helper()
	state := app.NewState()
	m := New(state, testConfig(), source)
	m.SetSize(100, 200)
	return m, state
}

// load runs Init and feeds its result back, as the program would.
func load(t *testing.T, m *Model) {
	t.Helper()
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init should return a stats command")
	}
	m.Update(cmd())
}

func TestModel_InitWithoutSource(t *testing.T) {
	m, _ := newTestInfo(t, nil)
	if m.Init() != nil {
		t.Error("Init without a stats source should return nil")
	}
	if !strings.Contains(m.View(), "Archive disabled") {
		t.Error("view should report the archive as disabled")
	}
	if m.InputFocused() {
		t.Error("info tab has no input")
	}
}

func TestModel_ViewConfigAndSession(t *testing.T) {
	m, state := newTestInfo(t, nil)
	state.SetAPILogin("demo-login")
	state.SetToken("abcd1234efgh5678")
	state.SetOrganizations([]models.Organization{{ID: "org-1", Name: "Cafe"}})

	view := m.View()
	for _, want := range []string{
		config.DefaultBaseURL,
		"1m0s",
		"demo-login",
		"abcd…5678",
		"Cafe",
		"About iikochk",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
	if strings.Contains(view, "abcd1234efgh5678") {
		t.Error("View should not print the full token")
	}
}

func TestModel_ArchiveStats(t *testing.T) {
	source := &fakeStats{stats: &models.ArchiveStats{
		TotalCalls:     4,
		ErrorCount:     1,
		AvgDurationMs:  250,
		LastRecordedAt: time.Now(),
	}, recent: []models.CallRecord{{
		ID:        "rec-1",
		Timestamp: time.Now(),
		Method:    "GET",
		URL:       config.DefaultBaseURL + "/organizations",
		Status:    401,
	}}}
	m, _ := newTestInfo(t, source)
	load(t, m)

	view := m.View()
	for _, want := range []string{"Total Calls", "4", "1 (25.0%)", "250ms", "RECENT", "/organizations", "401"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestModel_ArchiveErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "disabled", err: services.ErrArchiveDisabled, want: "Archive disabled"},
		{name: "failure", err: errors.New("database is locked"), want: "database is locked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestInfo(t, &fakeStats{err: tt.err})
			load(t, m)
			if !strings.Contains(m.View(), tt.want) {
				t.Errorf("View should contain %q", tt.want)
			}
		})
	}
}

func TestModel_Reload(t *testing.T) {
	source := &fakeStats{stats: &models.ArchiveStats{}}
	m, _ := newTestInfo(t, source)
	load(t, m)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if cmd == nil {
		t.Fatal("r should reload stats")
	}
	cmd()

	_, cmd = m.Update(app.ArchiveUpdatedMsg{RecordID: "rec-1"})
	if cmd == nil {
		t.Fatal("a newly archived call should reload stats")
	}
	cmd()

	if source.calls != 3 {
		t.Errorf("ArchiveStats called %d times, want 3", source.calls)
	}
}

func TestModel_CopyBaseURL(t *testing.T) {
	m, _ := newTestInfo(t, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if cmd == nil {
		t.Fatal("c should copy the base URL")
	}
	msg, ok := cmd().(app.CopyToClipboardMsg)
	if !ok || msg.Text != config.DefaultBaseURL {
		t.Errorf("got %#v, want copy of %q", msg, config.DefaultBaseURL)
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"short", "****"},
		{"12345678", "****"},
		{"123456789", "1234…6789"},
	}
	for _, tt := range tests {
		if got := maskToken(tt.token); got != tt.want {
			t.Errorf("maskToken(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestModel_Help(t *testing.T) {
	m, _ := newTestInfo(t, nil)
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help bindings should not be empty")
	}
}

// idleTab stands in for the console and activity tabs.
type idleTab struct{}

func (idleTab) Init() tea.Cmd                       { return nil }
func (t idleTab) Update(tea.Msg) (app.Tab, tea.Cmd) { return t, nil }
func (idleTab) View() string                        { return "" }
func (idleTab) SetSize(int, int)                    {}
func (idleTab) ShortHelp() []key.Binding            { return nil }
func (idleTab) FullHelp() [][]key.Binding           { return nil }
func (idleTab) InputFocused() bool                  { return false }

// runCmd executes cmd and feeds every resulting message back into root.
func runCmd(root *app.Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			runCmd(root, c)
		}
	default:
		root.Update(msg)
	}
}

func TestRootModel_LoadsStatsWhileInfoInactive(t *testing.T) {
	cfg := testConfig()
	cfg.ArchivePath = filepath.Join(t.TempDir(), "calls.db")
	mgr, err := services.NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })

	root := app.NewModel(mgr)
	infoTab := New(root.GetState(), cfg, mgr)
	root.SetTabs([]app.Tab{idleTab{}, idleTab{}, infoTab})
	root.Update(tea.WindowSizeMsg{Width: 100, Height: 200})

	runCmd(root, infoTab.Init())
	if !infoTab.loaded {
		t.Fatal("initial stats never reached the info tab")
	}

	rec := mgr.Record("POST", "https://api-ru.iiko.services/api/1/access_token", 200, nil, nil, 40)
	mgr.Record("POST", "https://api-ru.iiko.services/api/1/organizations", 200, nil, nil, 60)

	if root.GetActiveTab() != app.TabConsole {
		t.Fatalf("active tab = %v, want Console", root.GetActiveTab())
	}
	_, cmd := root.Update(app.ArchiveUpdatedMsg{RecordID: rec.ID})
	runCmd(root, cmd)

	if infoTab.stats == nil || infoTab.stats.TotalCalls != 2 {
		t.Fatalf("stats = %+v, want 2 archived calls", infoTab.stats)
	}

	root.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	if view := root.View(); !strings.Contains(view, "Total Calls") {
		t.Error("info tab should render the loaded stats")
	}
}
