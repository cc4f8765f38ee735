package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/charliek/syslogdash/internal/dashboard"
	"github.com/charliek/syslogdash/internal/domain"
)

// Colors
var (
	// Connection colors
	liveColor = lipgloss.Color("10") // Green
	downColor = lipgloss.Color("9")  // Red

	// UI colors
	headerBg    = lipgloss.Color("235")
	statusBg    = lipgloss.Color("236")
	helpBg      = lipgloss.Color("234")
	errorColor  = lipgloss.Color("9")
	warnColor   = lipgloss.Color("11")
	dimColor    = lipgloss.Color("8")
	accentColor = lipgloss.Color("14")

	// Severity colors, indexed by severity value
	severityColorList = []lipgloss.Color{
		lipgloss.Color("201"), // Emergency
		lipgloss.Color("196"), // Alert
		lipgloss.Color("160"), // Critical
		lipgloss.Color("9"),   // Error
		lipgloss.Color("11"),  // Warning
		lipgloss.Color("14"),  // Notice
		lipgloss.Color("10"),  // Info
		lipgloss.Color("8"),   // Debug
	}
)

// Styles
var (
	liveStyle = lipgloss.NewStyle().
			Foreground(liveColor).
			Bold(true)

	downStyle = lipgloss.NewStyle().
			Foreground(downColor).
			Bold(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(warnColor).
			Bold(true).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	// Header style
	headerStyle = lipgloss.NewStyle().
			Background(headerBg).
			Padding(0, 1)

	// Status bar style
	statusStyle = lipgloss.NewStyle().
			Background(statusBg).
			Padding(0, 1)

	// Help overlay style
	helpStyle = lipgloss.NewStyle().
			Background(helpBg).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	// Detail and confirmation dialogs
	modalStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor)

	confirmStyle = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(errorColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Width(11)

	// Error indicator style
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(errorColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(liveColor)

	// Dim style for secondary text
	dimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	// Severity styles for the detail view and stats line
	severityStyles []lipgloss.Style
)

func init() {
	for _, color := range severityColorList {
		severityStyles = append(severityStyles, lipgloss.NewStyle().Foreground(color).Bold(true))
	}
}

// severityStyle returns the style for a severity
func severityStyle(s domain.Severity) lipgloss.Style {
	if int(s) < len(severityStyles) {
		return severityStyles[s]
	}
	return lipgloss.NewStyle()
}

// notificationStyle returns the style for a notification level
func notificationStyle(level dashboard.Level) lipgloss.Style {
	switch level {
	case dashboard.LevelError:
		return errorStyle
	case dashboard.LevelSuccess:
		return successStyle
	default:
		return dimStyle
	}
}

// tableStyles returns the log table styles
func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	return s
}
