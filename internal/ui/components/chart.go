// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/iiko-checker-tui/internal/ui/styles"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.SlateBlue),
	)
}

// RenderLatencyChart plots call durations in milliseconds, oldest first. A
// positive thresholdMs is drawn as a second, flat series.
func RenderLatencyChart(durations []float64, thresholdMs float64, width, height int) string {
	if len(durations) < 2 {
		return styles.HelpStyle.Render("Make at least two calls to see latency")
	}

	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	caption := fmt.Sprintf("latency ms, last %d calls", len(durations))
	if thresholdMs <= 0 {
		return RenderLineChart(durations, width, height, caption)
	}

	threshold := make([]float64, len(durations))
	for i := range threshold {
		threshold[i] = thresholdMs
	}

	return asciigraph.PlotMany([][]float64{durations, threshold},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption+", slow threshold in red"),
		asciigraph.SeriesColors(asciigraph.SlateBlue, asciigraph.Red),
	)
}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Sample values to fit width
	var result strings.Builder
	step := float64(len(values)) / float64(width)
	if step < 1 {
		step = 1
	}

	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		normalized := int((val / maxVal) * float64(len(sparkChars)-1))
		normalized = max(0, min(normalized, len(sparkChars)-1))
		result.WriteRune(sparkChars[normalized])
	}

	return result.String()
}
