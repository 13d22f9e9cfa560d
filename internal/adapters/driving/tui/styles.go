package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the ask view.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Error:      lipgloss.Color("#F38BA8"), // Red
		Border:     lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles for the ask view.
type Styles struct {
	Title   lipgloss.Style
	Scope   lipgloss.Style
	Source  lipgloss.Style
	Score   lipgloss.Style
	Snippet lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Result  lipgloss.Style
}

// DefaultStyles creates styles from the default theme.
func DefaultStyles() *Styles {
	t := DefaultTheme()
	return &Styles{
		Title:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Scope:   lipgloss.NewStyle().Foreground(t.Secondary),
		Source:  lipgloss.NewStyle().Foreground(t.Foreground).Bold(true),
		Score:   lipgloss.NewStyle().Foreground(t.Muted),
		Snippet: lipgloss.NewStyle().Foreground(t.Foreground),
		Muted:   lipgloss.NewStyle().Foreground(t.Muted),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Result: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(t.Border).
			PaddingLeft(1),
	}
}
