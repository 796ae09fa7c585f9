package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Underline(true)
	tabStyle       = lipgloss.NewStyle().Faint(true)
	headingStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	selectedStyle  = lipgloss.NewStyle().Bold(true).Reverse(true)
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle     = lipgloss.NewStyle().Faint(true)
	doneStyle      = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("229")).Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	boxChecked   = "☑"
	boxUnchecked = "☐"
	starOn       = "★"
	starOff      = "☆"
)
