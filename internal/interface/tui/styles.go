package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(lipgloss.Color("170")).
				Bold(true)

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("yellow")).
			Italic(true)

	omittedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	mediaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246")) // Lighter gray that works better in dark terminals

	dateStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238")).
			Padding(0, 1)

	searchHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	searchMatchStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("240")).
				Foreground(lipgloss.Color("yellow")).
				Bold(true)

	searchCurrentMatchStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("226")).
				Foreground(lipgloss.Color("0")).
				Bold(true)

	searchMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	searchSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("120"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// Sender colors, indexed like the HTML viewer's palette
	senderStyles = []lipgloss.Style{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e542a3")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1f7aec")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d5661c")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#35a74b")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7f66ff")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c4532d")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#02a698")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a9671d")),
	}
)
