package history

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/iiko-checker-tui/internal/services/activity"
	"github.com/j-veylop/iiko-checker-tui/internal/ui/components"
	"github.com/j-veylop/iiko-checker-tui/internal/ui/styles"
)

// View renders the activity tab.
func (m *Model) View() string {
	m.syncRows()

	if len(m.ids) == 0 {
		return m.renderEmpty()
	}

	sections := []string{
		m.renderHeader(),
		m.table.View(),
	}

	if m.showChart() {
		sections = append(sections, "", m.renderChart())
	}

	return styles.DocStyle.
		Width(m.width).
		MaxHeight(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Activity"),
		styles.HelpStyle.Render("No calls yet."),
		styles.HelpStyle.Render("Run an operation from the Console tab to fill the log."),
		styles.HelpStyle.Render("Press enter to open the Console."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	records := m.source.Records()

	errors := 0
	for _, rec := range records {
		if rec.IsError() {
			errors++
		}
	}

	title := styles.TitleStyle.Render("Activity")
	count := styles.HelpStyle.Render(fmt.Sprintf("%d of %d calls", len(records), activity.Capacity))

	var errText string
	if errors > 0 {
		errText = styles.ErrorTextStyle.Render(fmt.Sprintf("%d failed", errors))
	} else {
		errText = styles.SuccessTextStyle.Render("no failures")
	}

	spark := styles.InfoTextStyle.Render(components.RenderSparkline(m.source.Durations(), 20))

	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", count, "  ", errText, "  ", spark)
}

func (m *Model) renderChart() string {
	thresholdMs := float64(m.threshold.Milliseconds())
	chart := components.RenderLatencyChart(m.source.Durations(), thresholdMs, max(m.width-16, 20), chartHeight)
	return styles.CardStyle.Render(chart)
}
