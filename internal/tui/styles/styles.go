package styles

import (
	"romcat/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles defines the core UI styles
type Styles struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Row        lipgloss.Style
	Selected   lipgloss.Style
	Indicator  lipgloss.Style
	Help       lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style
	Preview    lipgloss.Style
	SearchText lipgloss.Style
}

// FromTheme builds the styles from the configured theme colors.
func FromTheme(cfg *config.Config) Styles {
	t := cfg.Theme
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Primary)).
			MarginBottom(1),
		Row: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),
		Indicator: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Emphasis)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)),
		Preview: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			MarginLeft(2),
		SearchText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),
	}
}
