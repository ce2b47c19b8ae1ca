package menu

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	primaryColor = lipgloss.Color("#7D56F4") // Purple
	successColor = lipgloss.Color("#43BF6D") // Green
	errorColor   = lipgloss.Color("#FF5F5F") // Red
	subtleColor  = lipgloss.Color("#626262") // Gray
	textColor    = lipgloss.Color("#FFFFFF") // White
)

var (
	// Column header row above the device table
	headerStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	// Device row under the cursor
	selectedRowStyle = lipgloss.NewStyle().
				Foreground(textColor).
				Background(primaryColor).
				Bold(true)

	rowStyle = lipgloss.NewStyle().
			Foreground(textColor)

	// Transient backend output in the footer
	messageStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// Action failure in the footer
	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(successColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(subtleColor)
)
