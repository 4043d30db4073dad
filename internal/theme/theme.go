// Package theme holds shared lipgloss colors and styles.
package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// AlarmHeaderStyle is the banner shown at the top of a firing alarm.
var AlarmHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorRed).
	Padding(0, 1)

// AlarmTitleStyle renders the task title on the alarm screen.
var AlarmTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginTop(1)

// AlarmBodyStyle renders the task description on the alarm screen.
var AlarmBodyStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	MarginTop(1)

// AlarmTimeStyle renders the fire time on the alarm screen.
var AlarmTimeStyle = lipgloss.NewStyle().
	Foreground(ColorOrange).
	MarginTop(1)

// AlarmPanelStyle wraps the whole alarm content area.
var AlarmPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.ThickBorder()).
	BorderForeground(ColorRed)

// HelpStyle is used for keyboard shortcut hints.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)
