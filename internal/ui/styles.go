// Package ui renders the dashboard in the terminal.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/neurotech/internal/dashboard"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorBlue      = lipgloss.Color("75")  // Blue for scheduled work

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)

	// Board column and chat input boxes
	StyleColumn = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1).
			Width(34)

	StyleInputBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)

	StylePrefixAgent = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StylePrefixUser  = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
)

// projectColors maps the palette names stored on projects to terminal colors.
var projectColors = map[string]lipgloss.Color{
	"indigo":  lipgloss.Color("63"),
	"emerald": lipgloss.Color("42"),
	"amber":   lipgloss.Color("214"),
	"rose":    lipgloss.Color("204"),
	"sky":     lipgloss.Color("117"),
	"violet":  lipgloss.Color("141"),
}

// ProjectStyle colors a project name by its palette entry.
func ProjectStyle(color string) lipgloss.Style {
	c, ok := projectColors[color]
	if !ok {
		c = ColorText
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

// StatusStyle picks the accent for a task status.
func StatusStyle(s dashboard.TaskStatus) lipgloss.Style {
	switch s {
	case dashboard.StatusCompleted:
		return StyleSuccess
	case dashboard.StatusScheduled:
		return lipgloss.NewStyle().Foreground(ColorBlue)
	default:
		return StyleWarning
	}
}

// PriorityStyle picks the accent for a priority badge.
func PriorityStyle(p dashboard.Priority) lipgloss.Style {
	switch p {
	case dashboard.PriorityHigh:
		return StyleError.Bold(true)
	case dashboard.PriorityMedium:
		return StyleWarning
	default:
		return StyleSubtle
	}
}

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}
