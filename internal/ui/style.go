package ui

import "github.com/charmbracelet/lipgloss"

// Color scheme shared by both tools.
var (
	SuccessColor = "#10B981" // Emerald green
	ErrorColor   = "#EF4444" // Red
	WarningColor = "#F59E0B" // Amber
	InfoColor    = "#3B82F6" // Blue

	HeaderColor  = "#F9FAFB" // Near white
	DimTextColor = "#9CA3AF" // Dimmed gray
)

// Style definitions
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(HeaderColor)).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(SuccessColor))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ErrorColor))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(WarningColor))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(InfoColor))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(DimTextColor))
)
