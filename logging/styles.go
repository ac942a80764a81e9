package logging

import "github.com/charmbracelet/lipgloss"

// Color palette shared by prompts and console reports
var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorSuccess = lipgloss.Color("#04B575")
	colorWarning = lipgloss.Color("#FFD700")
	colorError   = lipgloss.Color("#FF6B6B")
	colorMuted   = lipgloss.Color("#7D7D7D")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	QuestionMarkStyle = lipgloss.NewStyle().
				Foreground(colorWarning)

	CursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)

	MutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// GetCampaignStatusStyle returns the style used to print a campaign status in reports
func GetCampaignStatusStyle(status string) lipgloss.Style {
	switch status {
	case "completed":
		return SelectedStyle
	case "failed", "error":
		return ErrorStyle
	case "stopped":
		return QuestionMarkStyle
	default:
		return MutedStyle
	}
}
