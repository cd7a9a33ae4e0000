package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Solarized Dark color palette
	base02 = lipgloss.Color("#073642") // background highlights
	base01 = lipgloss.Color("#586e75") // comments / borders
	base0  = lipgloss.Color("#839496") // body text
	base1  = lipgloss.Color("#93a1a1") // emphasized content

	solarBlue   = lipgloss.Color("#268bd2")
	solarCyan   = lipgloss.Color("#2aa198")
	solarGreen  = lipgloss.Color("#859900")
	solarYellow = lipgloss.Color("#b58900")
	solarOrange = lipgloss.Color("#cb4b16")
	solarRed    = lipgloss.Color("#dc322f")

	// Semantic color mappings
	primaryColor   = solarBlue
	secondaryColor = solarCyan
	accentColor    = base1
	mutedColor     = base01
	borderColor    = base01
	successColor   = solarGreen
	errorColor     = solarRed
	warningColor   = solarOrange
	highlightColor = solarYellow

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Background(base02).
			Foreground(base0)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor).
			Width(12)

	valueStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	dimStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	runningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	stoppedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warningColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	bannerStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)
)
