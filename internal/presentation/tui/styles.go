package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#6d28d9", Dark: "#a78bfa"}
	subtle = lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#4b5563"}

	paneStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(subtle)
	focusedPaneStyle = paneStyle.BorderForeground(accent)

	titleStyle        = lipgloss.NewStyle().Foreground(subtle)
	focusedTitleStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	headerStyle       = lipgloss.NewStyle().Bold(true)
	selectedStyle     = lipgloss.NewStyle().Foreground(accent)
	mutedStyle        = lipgloss.NewStyle().Foreground(subtle)
)
