package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor = lipgloss.Color("#DC2626")
	accentColor  = lipgloss.Color("#3B82F6")
	successColor = lipgloss.Color("#10B981")
	dangerColor  = lipgloss.Color("#EF4444")
	warnColor    = lipgloss.Color("#F59E0B")
	mutedColor   = lipgloss.Color("#64748B")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginBottom(1)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(primaryColor).
				Bold(true)

	listItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(successColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 2).
			MarginRight(2)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 2).
			MarginRight(2)

	noticeStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(dangerColor).
			Padding(1, 3)

	badgeStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true)

	badgeDanger  = badgeStyle.Foreground(lipgloss.Color("#FFFFFF")).Background(dangerColor)
	badgeSuccess = badgeStyle.Foreground(lipgloss.Color("#FFFFFF")).Background(successColor)
	badgeWarn    = badgeStyle.Foreground(lipgloss.Color("#1F2937")).Background(warnColor)
	badgeMuted   = badgeStyle.Foreground(lipgloss.Color("#FFFFFF")).Background(mutedColor)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	chatBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	chatUserStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	chatBotStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	barFillStyle  = lipgloss.NewStyle().Foreground(accentColor)
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#334155"))
)

// performanceBadge colors the server-assigned tier; the category drives
// color-coding only.
func performanceBadge(category string) string {
	switch category {
	case "High":
		return badgeSuccess.Render(category)
	case "Medium":
		return badgeWarn.Render(category)
	case "Low":
		return badgeDanger.Render(category)
	default:
		return badgeMuted.Render(category)
	}
}
