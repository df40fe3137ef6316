package application

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F5A623")).
			MarginBottom(1)

	itemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("#F5A623")).Bold(true)

	headerStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	selectedHeaderStyle = headerStyle.Foreground(lipgloss.Color("#F5A623")).Underline(true)
	cursorStyle         = lipgloss.NewStyle().Reverse(true)

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
