package console

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/iiko-checker-tui/internal/app"
	"github.com/j-veylop/iiko-checker-tui/internal/iiko"
	"github.com/j-veylop/iiko-checker-tui/internal/models"
	"github.com/j-veylop/iiko-checker-tui/internal/ui/styles"
)

const (
	sidebarWidth = 36
	stackedBelow = 90
)

var opKeys = map[app.Operation]string{
	app.OpAuthenticate:   "a",
	app.OpOrganizations:  "o",
	app.OpTerminalGroups: "t",
	app.OpNomenclature:   "m",
}

// View renders the console tab.
func (m *Model) View() string {
	rec := m.syncActive()

	sidebar := m.renderSidebar()
	detail := m.renderDetail(rec)

	var content string
	if m.stacked() {
		content = lipgloss.JoinVertical(lipgloss.Left, sidebar, detail)
	} else {
		content = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", detail)
	}

	return styles.DocStyle.
		Width(m.width).
		MaxHeight(m.height).
		Render(content)
}

func (m *Model) stacked() bool {
	return m.width < stackedBelow
}

func (m *Model) detailWidth() int {
	if m.stacked() {
		return max(m.width-2, 20)
	}
	return max(m.width-sidebarWidth-3, 20)
}

func (m *Model) renderSidebar() string {
	var rows []string

	rows = append(rows, styles.SectionStyle.Render("API LOGIN"))
	rows = append(rows, m.login.View())
	if !m.login.Focused() {
		rows = append(rows, styles.HelpStyle.Render("e to edit"))
	} else {
		rows = append(rows, styles.HelpStyle.Render("enter to authenticate, esc to cancel"))
	}
	rows = append(rows, "")

	rows = append(rows, styles.SectionStyle.Render("OPERATIONS"))
	for i, op := range app.Operations {
		rows = append(rows, m.renderOperation(op, i == m.cursor))
	}
	rows = append(rows, "")

	rows = append(rows, styles.SectionStyle.Render("ORGANIZATION"))
	rows = append(rows, m.renderOrganization()...)

	width := sidebarWidth
	if m.stacked() {
		width = max(m.width-2, 20)
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderOperation(op app.Operation, selected bool) string {
	prefix := "  "
	if selected {
		prefix = styles.SelectedListItemStyle.Render("▸ ")
	}

	keyHint := styles.HelpKeyStyle.Render(opKeys[op])
	label := op.String()

	switch {
	case m.state.Pending() == op:
		label = styles.WarningTextStyle.Render(label + " …")
	case m.state.CanRun(op):
		label = styles.ValueStyle.Render(label)
	default:
		label = styles.HelpStyle.Render(label)
	}

	return fmt.Sprintf("%s%s %s", prefix, keyHint, label)
}

func (m *Model) renderOrganization() []string {
	if !m.state.OrganizationsLoaded() {
		return []string{styles.HelpStyle.Render("Run Get Organizations first")}
	}

	orgs := m.state.Organizations()
	if len(orgs) == 0 {
		return []string{styles.WarningTextStyle.Render("No organizations available")}
	}

	selected := m.state.SelectedOrganization()
	if selected == nil {
		return []string{styles.HelpStyle.Render("None selected, use [ and ]")}
	}

	pos := 0
	for i, org := range orgs {
		if org.ID == selected.ID {
			pos = i + 1
			break
		}
	}

	lines := []string{
		styles.SelectedListItemStyle.Render(truncate(selected.Label(), sidebarWidth-6)),
		styles.HelpStyle.Render(truncate(selected.ID, sidebarWidth-6)),
	}
	if len(orgs) > 1 {
		lines = append(lines, styles.HelpStyle.Render(fmt.Sprintf("[ %d of %d ]", pos, len(orgs))))
	}
	return lines
}

func (m *Model) renderDetail(rec *models.CallRecord) string {
	width := m.detailWidth()

	if rec == nil {
		empty := lipgloss.JoinVertical(lipgloss.Left,
			styles.SubTitleStyle.Render("No call selected"),
			"",
			styles.HelpStyle.Render("Run an operation to see its request and response here."),
		)
		return styles.BlurredBorderStyle.Width(width).Render(empty)
	}

	var rows []string
	rows = append(rows, m.renderRecordHeader(rec))
	rows = append(rows, m.latency.View(rec.DurationMs, min(width-4, 40)))
	if summary := summarize(rec); summary != "" {
		rows = append(rows, styles.InfoTextStyle.Render(summary))
	}
	rows = append(rows, m.request.View(false))
	rows = append(rows, m.response.View(true))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderRecordHeader(rec *models.CallRecord) string {
	method := styles.GetMethodStyle(rec.Method).Render(rec.Method)
	status := styles.GetStatusStyle(rec.Status).Render(fmt.Sprintf("%d", rec.Status))
	when := styles.HelpStyle.Render(rec.Time())

	url := truncate(rec.URL, max(m.detailWidth()-24, 10))
	return fmt.Sprintf("%s %s %s  %s", method, status, styles.ValueStyle.Render(url), when)
}

// summarize describes the payload of a successful call in one line.
func summarize(rec *models.CallRecord) string {
	if rec.Status != http.StatusOK {
		if desc := iiko.ErrorDescription(rec.ResponseBody); desc != "" {
			return desc
		}
		return ""
	}

	switch rec.Path() {
	case iiko.EndpointAccessToken:
		if _, ok := iiko.TokenFrom(rec.ResponseBody); ok {
			return "Access token received"
		}
	case iiko.EndpointOrganizations:
		if orgs, ok := iiko.OrganizationsFrom(rec.ResponseBody); ok {
			return fmt.Sprintf("%d organization(s)", len(orgs))
		}
	case iiko.EndpointTerminalGroups:
		if groups, ok := iiko.TerminalGroupsFrom(rec.ResponseBody); ok {
			items := 0
			for _, g := range groups {
				items += len(g.Items)
			}
			return fmt.Sprintf("%d terminal group(s) in %d organization(s)", items, len(groups))
		}
	}
	return ""
}

func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) > width-1 {
		r = r[:width-1]
	}
	return strings.TrimRight(string(r), " ") + "…"
}
