package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/iiko-checker-tui/internal/ui/styles"
)

// LatencyBar renders a call duration against the slow-call threshold.
type LatencyBar struct {
	progress  progress.Model
	threshold time.Duration
}

// NewLatencyBar creates a bar whose full width equals threshold. A zero
// threshold falls back to one second.
func NewLatencyBar(threshold time.Duration) LatencyBar {
	if threshold <= 0 {
		threshold = time.Second
	}
	p := progress.New(
		progress.WithScaledGradient("#51cf66", "#ff6b6b"),
		progress.WithWidth(20),
		progress.WithoutPercentage(),
	)
	return LatencyBar{progress: p, threshold: threshold}
}

// Threshold returns the duration drawn as a full bar.
func (b LatencyBar) Threshold() time.Duration {
	return b.threshold
}

// Ratio returns durationMs as a fraction of the threshold, capped at 1.
func (b LatencyBar) Ratio(durationMs int) float64 {
	ratio := float64(durationMs) / float64(b.threshold.Milliseconds())
	return max(0, min(ratio, 1))
}

// View renders the bar followed by the formatted duration.
func (b LatencyBar) View(durationMs, width int) string {
	barWidth := max(width-10, 5)
	b.progress.Width = barWidth

	bar := b.progress.ViewAs(b.Ratio(durationMs))

	style := styles.SuccessTextStyle
	switch {
	case durationMs >= int(b.threshold.Milliseconds()):
		style = styles.ErrorTextStyle
	case b.Ratio(durationMs) >= 0.5:
		style = styles.WarningTextStyle
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", style.Render(FormatDuration(durationMs)))
}

// FormatDuration renders milliseconds as "850ms" or "7.2s".
func FormatDuration(durationMs int) string {
	if durationMs < 1000 {
		return fmt.Sprintf("%dms", durationMs)
	}
	return fmt.Sprintf("%.1fs", float64(durationMs)/1000)
}
