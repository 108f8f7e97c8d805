package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/iiko-checker-tui/internal/ui/styles"
)

// PendingSpinner animates while a call is in flight. The label is passed at
// render time so the same spinner serves the navbar, toasts and the startup
// screen.
type PendingSpinner struct {
	model      spinner.Model
	labelStyle lipgloss.Style
}

// NewPendingSpinner creates a spinner in the primary color.
func NewPendingSpinner() PendingSpinner {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return PendingSpinner{
		model:      s,
		labelStyle: lipgloss.NewStyle().Foreground(styles.TextSecondary),
	}
}

// Tick starts the animation.
func (p PendingSpinner) Tick() tea.Cmd {
	return p.model.Tick
}

// Update advances the animation on the spinner's own tick messages.
func (p PendingSpinner) Update(msg tea.Msg) (PendingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	p.model, cmd = p.model.Update(msg)
	return p, cmd
}

// Frame renders the current animation frame.
func (p PendingSpinner) Frame() string {
	return p.model.View()
}

// Label renders the frame followed by label. An empty label renders the
// frame alone.
func (p PendingSpinner) Label(label string) string {
	if label == "" {
		return p.Frame()
	}
	return p.Frame() + " " + p.labelStyle.Render(label)
}

// Centered renders Label(label) in the middle of a width x height box.
func (p PendingSpinner) Centered(label string, width, height int) string {
	return styles.CenterBoth(p.Label(label), width, height)
}
