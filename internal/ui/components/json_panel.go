package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/iiko-checker-tui/internal/render"
	"github.com/j-veylop/iiko-checker-tui/internal/ui/styles"
)

// JSONPanel is a titled, scrollable view of one JSON payload.
type JSONPanel struct {
	viewport viewport.Model
	title    string
	text     string
}

// NewJSONPanel creates an empty panel.
func NewJSONPanel(title string) JSONPanel {
	return JSONPanel{
		viewport: viewport.New(0, 0),
		title:    title,
	}
}

// SetValue renders v and scrolls back to the top.
func (p *JSONPanel) SetValue(v any) {
	p.text = render.Text(v)
	p.viewport.SetContent(styles.JSONStyle.Render(p.text))
	p.viewport.GotoTop()
}

// Text returns the rendered JSON exactly as it would be copied.
func (p JSONPanel) Text() string {
	return p.text
}

// SetSize sets the outer size of the panel including its title line.
func (p *JSONPanel) SetSize(width, height int) {
	p.viewport.Width = max(width-4, 0)
	p.viewport.Height = max(height-3, 1)
}

// Update forwards scrolling keys to the viewport.
func (p JSONPanel) Update(msg tea.Msg) (JSONPanel, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the title and the visible part of the payload.
func (p JSONPanel) View(focused bool) string {
	border := styles.BlurredBorderStyle
	if focused {
		border = styles.FocusedBorderStyle
	}

	header := styles.SectionStyle.Render(strings.ToUpper(p.title))
	if p.viewport.TotalLineCount() > p.viewport.Height {
		header += styles.HelpStyle.Render(fmt.Sprintf(" (%d%%)", int(p.viewport.ScrollPercent()*100)))
	}

	return border.Width(p.viewport.Width + 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, p.viewport.View()),
	)
}
