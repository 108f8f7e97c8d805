package history

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/iiko-checker-tui/internal/app"
	"github.com/j-veylop/iiko-checker-tui/internal/services/activity"
)

const base = "https://api-ru.iiko.services/api/1"

func newTestHistory(t *testing.T) (*Model, *activity.Log) {
	t.Helper()
	log := activity.New()
	m := New(app.NewState(), log, 5*time.Second)
	m.SetSize(120, 40)
	return m, log
}

func TestNew(t *testing.T) {
	m, _ := newTestHistory(t)
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init should not return a command")
	}
	if m.InputFocused() {
		t.Error("activity tab has no input")
	}
}

func TestModel_ViewEmpty(t *testing.T) {
	m, _ := newTestHistory(t)
	if view := m.View(); !strings.Contains(view, "No calls yet") {
		t.Error("empty log should show the placeholder")
	}
}

func TestModel_View(t *testing.T) {
	m, log := newTestHistory(t)
	log.Record("POST", base+"/access_token", 200, nil, map[string]any{"token": "abc"}, 120)
	log.Record("GET", base+"/organizations", 401, nil, map[string]any{"errorDescription": "bad"}, 2300)

	view := m.View()
	for _, want := range []string{"Method", "Status", "/access_token", "/organizations", "401", "2.3s", "2 of 20 calls", "1 failed", "latency ms"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestModel_SelectRow(t *testing.T) {
	m, log := newTestHistory(t)
	first := log.Record("POST", base+"/access_token", 200, nil, nil, 10)
	second := log.Record("GET", base+"/organizations", 200, nil, nil, 20)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if sel := cmd().(app.SelectRecordMsg); sel.ID != second.ID {
		t.Errorf("enter on the first row selected %q, want newest %q", sel.ID, second.ID)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if sel := cmd().(app.SelectRecordMsg); sel.ID != first.ID {
		t.Errorf("enter on the second row selected %q, want %q", sel.ID, first.ID)
	}
}

func TestModel_Clear(t *testing.T) {
	m, log := newTestHistory(t)

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}); cmd != nil {
		t.Error("x on an empty log should do nothing")
	}

	log.Record("POST", base+"/access_token", 200, nil, nil, 10)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if _, ok := cmd().(app.ClearActivityMsg); !ok {
		t.Error("x should request clearing the log")
	}
}

func TestModel_CursorClampedAfterEviction(t *testing.T) {
	m, log := newTestHistory(t)
	for range 3 {
		log.Record("GET", base+"/organizations", 200, nil, nil, 10)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})

	log.Clear()
	log.Record("GET", base+"/organizations", 200, nil, nil, 10)
	m.syncRows()

	if m.table.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", m.table.Cursor())
	}
}

func TestModel_EnterOnEmptyLogOpensConsole(t *testing.T) {
	m, _ := newTestHistory(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on an empty log should open the console")
	}
	if sw, ok := cmd().(app.TabSwitchMsg); !ok || sw.Tab != app.TabConsole {
		t.Errorf("got %#v, want TabSwitchMsg to the console", sw)
	}
}

func TestModel_SmallHeightHidesChart(t *testing.T) {
	m, log := newTestHistory(t)
	m.SetSize(100, 20)
	log.Record("POST", base+"/access_token", 200, nil, nil, 10)
	log.Record("GET", base+"/organizations", 200, nil, nil, 20)

	if strings.Contains(m.View(), "latency ms") {
		t.Error("chart should be hidden on short terminals")
	}
}

func TestModel_Help(t *testing.T) {
	m, _ := newTestHistory(t)
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help bindings should not be empty")
	}
}
