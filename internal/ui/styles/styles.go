// Package styles defines the visual styling for the application.
package styles

import (
	"net/http"

	"github.com/charmbracelet/lipgloss"
)

// Color definitions for the iiko Checker theme.
var (
	// Primary colors
	Primary   = lipgloss.Color("63")  // Indigo
	Secondary = lipgloss.Color("141") // Lavender
	Subtle    = lipgloss.Color("240") // Gray

	// Status colors
	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
	Warning = lipgloss.Color("220") // Yellow
	Info    = lipgloss.Color("39")  // Blue

	// Background colors
	BgDark   = lipgloss.Color("235")
	BgLight  = lipgloss.Color("237")
	BgAccent = lipgloss.Color("236")

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	// JSON payloads
	JSONColor = lipgloss.Color("78")

	// ToastStyle for floating notifications.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// DocStyle wraps the content area of every tab.
var DocStyle = lipgloss.NewStyle().
	Padding(0, 1)

// CardTitleStyle is used for card headings.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary)

// SectionStyle is used for uppercase sidebar section labels.
var SectionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextSecondary)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(0, 1)

// FocusedBorderStyle creates a focused border.
var FocusedBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Primary).
	Padding(0, 1)

// BlurredBorderStyle creates an unfocused border.
var BlurredBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(0, 1)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpKeyStyle styles keyboard shortcut keys.
var HelpKeyStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// HelpDescStyle styles help descriptions.
var HelpDescStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(1, 3).
	Background(BgDark)

// LabelStyle styles the left column of key/value rows.
var LabelStyle = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Width(18)

// ValueStyle styles the right column of key/value rows.
var ValueStyle = lipgloss.NewStyle().
	Foreground(TextPrimary)

// SelectedListItemStyle styles selected list items.
var SelectedListItemStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// TableHeaderStyle styles table headers.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(Subtle)

// TableSelectedStyle styles selected table rows.
var TableSelectedStyle = lipgloss.NewStyle().
	Background(BgAccent).
	Foreground(TextPrimary).
	Bold(true)

// JSONStyle renders pretty-printed payloads.
var JSONStyle = lipgloss.NewStyle().
	Foreground(JSONColor)

// ErrorTextStyle for error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(Error)

// SuccessTextStyle for success messages.
var SuccessTextStyle = lipgloss.NewStyle().
	Foreground(Success)

// WarningTextStyle for warning messages.
var WarningTextStyle = lipgloss.NewStyle().
	Foreground(Warning)

// InfoTextStyle for info messages.
var InfoTextStyle = lipgloss.NewStyle().
	Foreground(Info)

// BadgeBaseStyle is the base for navbar badges.
var BadgeBaseStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Bold(true)

// AuthenticatedBadgeStyle marks a session holding a token.
var AuthenticatedBadgeStyle = BadgeBaseStyle.
	Foreground(Success).
	Border(lipgloss.RoundedBorder(), false, true).
	BorderForeground(Success)

// UnauthorizedBadgeStyle marks a session without a token.
var UnauthorizedBadgeStyle = BadgeBaseStyle.
	Foreground(Error).
	Border(lipgloss.RoundedBorder(), false, true).
	BorderForeground(Error)

// MethodGetStyle and MethodPostStyle color HTTP verbs.
var (
	MethodGetStyle  = lipgloss.NewStyle().Foreground(Info).Bold(true)
	MethodPostStyle = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
)

// GetStatusStyle returns green for 2xx/3xx and red for 4xx/5xx.
func GetStatusStyle(status int) lipgloss.Style {
	if status >= 400 {
		return ErrorTextStyle.Bold(true)
	}
	return SuccessTextStyle.Bold(true)
}

// GetMethodStyle returns the style for an HTTP method.
func GetMethodStyle(method string) lipgloss.Style {
	if method == http.MethodGet {
		return MethodGetStyle
	}
	return MethodPostStyle
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}
