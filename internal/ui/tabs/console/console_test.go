package console

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/iiko-checker-tui/internal/app"
	"github.com/j-veylop/iiko-checker-tui/internal/models"
	"github.com/j-veylop/iiko-checker-tui/internal/services/activity"
)

const tokenURL = "https://api-ru.iiko.services/api/1/access_token"

func newTestConsole(t *testing.T, login string) (*Model, *app.State, *activity.Log) {
	t.Helper()
	state := app.NewState()
	state.SetAPILogin(login)
	log := activity.New()
	m := New(state, log, 5*time.Second)
	m.SetSize(120, 40)
	return m, state, log
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew_FocusesEmptyLogin(t *testing.T) {
	m, _, _ := newTestConsole(t, "")
	if !m.InputFocused() {
		t.Error("login input should be focused when no login is configured")
	}
	if m.Init() == nil {
		t.Error("Init should start the cursor blink while focused")
	}

	m, _, _ = newTestConsole(t, "demo")
	if m.InputFocused() {
		t.Error("login input should not be focused when a login is configured")
	}
	if m.login.Value() != "demo" {
		t.Errorf("login = %q, want demo", m.login.Value())
	}
}

func TestModel_SubmitLogin(t *testing.T) {
	m, _, _ := newTestConsole(t, "")

	m.Update(runeKey("demo"))
	if m.login.Value() != "demo" {
		t.Fatalf("login = %q, want demo", m.login.Value())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should produce a command")
	}
	if m.InputFocused() {
		t.Error("enter should leave the input")
	}
}

func TestModel_CancelLogin(t *testing.T) {
	m, _, _ := newTestConsole(t, "demo")

	m.Update(runeKey("e"))
	if !m.InputFocused() {
		t.Fatal("e should focus the login input")
	}
	m.Update(runeKey("xyz"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if m.InputFocused() {
		t.Error("esc should leave the input")
	}
	if m.login.Value() != "demo" {
		t.Errorf("login = %q, esc should restore demo", m.login.Value())
	}
}

func TestModel_OperationKeys(t *testing.T) {
	tests := []struct {
		key  string
		want app.Operation
	}{
		{"a", app.OpAuthenticate},
		{"o", app.OpOrganizations},
		{"t", app.OpTerminalGroups},
		{"m", app.OpNomenclature},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, _, _ := newTestConsole(t, "demo")
			_, cmd := m.Update(runeKey(tt.key))
			if cmd == nil {
				t.Fatal("expected a command")
			}
			run, ok := cmd().(app.RunOperationMsg)
			if !ok || run.Op != tt.want {
				t.Errorf("got %#v, want RunOperationMsg{%v}", run, tt.want)
			}
		})
	}
}

func TestModel_CursorRunsSelected(t *testing.T) {
	m, _, _ := newTestConsole(t, "demo")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	run := cmd().(app.RunOperationMsg)
	if run.Op != app.OpTerminalGroups {
		t.Errorf("Op = %v, want terminal groups", run.Op)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if run := cmd().(app.RunOperationMsg); run.Op != app.OpNomenclature {
		t.Errorf("Op = %v, cursor should wrap to nomenclature", run.Op)
	}
}

func TestModel_CycleOrganization(t *testing.T) {
	m, state, _ := newTestConsole(t, "demo")

	if _, cmd := m.Update(runeKey("]")); cmd != nil {
		t.Error("no organizations loaded, ] should do nothing")
	}

	state.SetOrganizations([]models.Organization{{ID: "org-1", Name: "Cafe"}, {ID: "org-2", Name: "Bar"}})

	_, cmd := m.Update(runeKey("]"))
	if sel := cmd().(app.SelectOrganizationMsg); sel.ID != "org-2" {
		t.Errorf("] selected %q, want org-2", sel.ID)
	}

	_, cmd = m.Update(runeKey("["))
	if sel := cmd().(app.SelectOrganizationMsg); sel.ID != "org-2" {
		t.Errorf("[ selected %q, want org-2 (wrap around)", sel.ID)
	}
}

func TestModel_Copy(t *testing.T) {
	m, _, log := newTestConsole(t, "demo")

	if _, cmd := m.Update(runeKey("y")); cmd != nil {
		t.Error("nothing to copy without an active record")
	}

	log.Record("POST", tokenURL, 200, map[string]any{"apiLogin": "demo"}, map[string]any{"token": "abc123"}, 120)

	_, cmd := m.Update(runeKey("y"))
	copyMsg := cmd().(app.CopyToClipboardMsg)
	if copyMsg.Label != "response" || copyMsg.Text != "{\n  \"token\": \"abc123\"\n}" {
		t.Errorf("copy response = %+v", copyMsg)
	}

	_, cmd = m.Update(runeKey("Y"))
	copyMsg = cmd().(app.CopyToClipboardMsg)
	if copyMsg.Label != "request" || copyMsg.Text != "{\n  \"apiLogin\": \"demo\"\n}" {
		t.Errorf("copy request = %+v", copyMsg)
	}
}

func TestModel_View(t *testing.T) {
	m, state, log := newTestConsole(t, "demo")

	view := m.View()
	for _, want := range []string{"API LOGIN", "Get Access Token", "Get Nomenclature", "No call selected", "Run Get Organizations first"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}

	log.Record("POST", tokenURL, 200, map[string]any{"apiLogin": "demo"}, map[string]any{"token": "abc123"}, 120)
	state.SetToken("abc123")
	state.SetOrganizations([]models.Organization{{ID: "org-1", Name: "Cafe"}})

	view = m.View()
	for _, want := range []string{"POST", "200", "Access token received", "REQUEST", "RESPONSE", "abc123", "Cafe", "120ms"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestModel_ViewErrorRecord(t *testing.T) {
	m, _, log := newTestConsole(t, "demo")
	log.Record("POST", tokenURL, 401, nil, map[string]any{"errorDescription": "Login is not authorized"}, 90)

	if view := m.View(); !strings.Contains(view, "Login is not authorized") {
		t.Error("View should show the error description")
	}
}

func TestModel_Stacked(t *testing.T) {
	m, _, _ := newTestConsole(t, "demo")
	m.SetSize(60, 40)
	if !m.stacked() {
		t.Error("narrow terminals should stack the layout")
	}
	if m.View() == "" {
		t.Error("View returned empty string")
	}
}

func TestModel_Help(t *testing.T) {
	m, _, _ := newTestConsole(t, "demo")
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help bindings should not be empty")
	}
}
