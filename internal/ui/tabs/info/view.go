package info

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/iiko-checker-tui/internal/services"
	"github.com/j-veylop/iiko-checker-tui/internal/ui/components"
	"github.com/j-veylop/iiko-checker-tui/internal/ui/styles"
	"github.com/j-veylop/iiko-checker-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderSessionCard(),
		m.renderArchiveCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration, session and archive")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 80)
}

func (m *Model) renderCard(title string, rows ...string) string {
	content := append([]string{styles.CardTitleStyle.Render(title), ""}, rows...)
	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, content...),
	)
}

func (m *Model) renderConfigCard() string {
	if m.config == nil {
		return m.renderCard("Configuration", styles.HelpStyle.Render("Configuration not loaded"))
	}

	archive := "disabled"
	retention := "-"
	if m.config.ArchiveEnabled() {
		archive = m.config.ArchivePath
		retention = "forever"
		if m.config.ArchiveRetention > 0 {
			retention = m.config.ArchiveRetention.String()
		}
	}

	logFile := m.config.LogFile
	if logFile == "" {
		logFile = "off"
	}

	return m.renderCard("Configuration",
		renderRow("Base URL", m.config.BaseURL),
		renderRow("Timeout", m.config.Timeout.String()),
		renderRow("Slow Call", m.config.SlowCallThreshold.String()),
		renderRow("Archive", archive),
		renderRow("Retention", retention),
		renderRow("Log File", logFile),
		renderRow("Log Level", m.config.LogLevel),
		"",
		styles.HelpStyle.Render("Press 'c' to copy the base URL"),
	)
}

func (m *Model) renderSessionCard() string {
	session := m.state.Session()

	login := session.APILogin
	if login == "" {
		login = "not set"
	}

	token := styles.WarningTextStyle.Render("none")
	if session.Token != "" {
		token = styles.SuccessTextStyle.Render(maskToken(session.Token))
	}

	org := "none"
	if selected := m.state.SelectedOrganization(); selected != nil {
		org = selected.Label()
	}

	orgCount := "not loaded"
	if m.state.OrganizationsLoaded() {
		orgCount = strconv.Itoa(len(m.state.Organizations()))
	}

	return m.renderCard("Session",
		renderRow("API Login", login),
		renderRow("Token", token),
		renderRow("Phase", m.state.Phase().String()),
		renderRow("Organization", org),
		renderRow("Organizations", orgCount),
	)
}

func (m *Model) renderArchiveCard() string {
	switch {
	case m.source == nil || errors.Is(m.statsErr, services.ErrArchiveDisabled):
		return m.renderCard("Archive",
			styles.HelpStyle.Render("Archive disabled, set ARCHIVE_PATH to keep calls across runs"))
	case m.statsErr != nil:
		return m.renderCard("Archive", styles.ErrorTextStyle.Render(m.statsErr.Error()))
	case !m.loaded || m.stats == nil:
		return m.renderCard("Archive", styles.HelpStyle.Render("Loading..."))
	}

	last := "never"
	if !m.stats.LastRecordedAt.IsZero() {
		last = m.stats.LastRecordedAt.Local().Format("2006-01-02 15:04:05")
	}

	rows := []string{
		renderRow("Total Calls", strconv.Itoa(m.stats.TotalCalls)),
		renderRow("Errors", fmt.Sprintf("%d (%.1f%%)", m.stats.ErrorCount, m.stats.ErrorRate())),
		renderRow("Avg Duration", components.FormatDuration(int(m.stats.AvgDurationMs))),
		renderRow("Last Call", last),
	}

	if len(m.recent) > 0 {
		rows = append(rows, "", styles.SectionStyle.Render("RECENT"))
		for _, rec := range m.recent {
			rows = append(rows, fmt.Sprintf("%s %s %s %s",
				styles.HelpStyle.Render(rec.Timestamp.Local().Format("01-02 15:04")),
				styles.GetMethodStyle(rec.Method).Render(rec.Method),
				styles.GetStatusStyle(rec.Status).Render(strconv.Itoa(rec.Status)),
				rec.Path(),
			))
		}
	}

	return m.renderCard("Archive", rows...)
}

func (m *Model) renderAboutCard() string {
	return m.renderCard("About iikochk",
		renderRow("Version", version.GetVersion()),
		renderRow("Build Date", version.GetDate()),
		renderRow("Git Commit", version.GetCommit()),
		renderRow("Go Version", runtime.Version()),
		renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	)
}

// renderRow renders a key-value row.
func renderRow(label, value string) string {
	return styles.LabelStyle.Render(label+":") + " " + styles.ValueStyle.Render(value)
}

// maskToken keeps the first and last four characters of a token.
func maskToken(token string) string {
	r := []rune(token)
	if len(r) <= 8 {
		return "****"
	}
	return string(r[:4]) + "…" + string(r[len(r)-4:])
}
