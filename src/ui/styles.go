package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Header      lipgloss.Style
	Subtitle    lipgloss.Style
	Box         lipgloss.Style
	BoxFocused  lipgloss.Style
	Tab         lipgloss.Style
	TabActive   lipgloss.Style
	Badge       lipgloss.Style
	Label       lipgloss.Style
	ListHeader  lipgloss.Style
	Help        lipgloss.Style
	Footer      lipgloss.Style
	Accent      lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Busy        lipgloss.Style
	BusyOverlay lipgloss.Style
	Subtle      lipgloss.Style
}

func NewStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AD8CFF")).
			Bold(true).
			Padding(0, 1),

		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")).
			Padding(0, 1),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#555555")),

		BoxFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#AD8CFF")),

		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")).
			Padding(0, 1),

		TabActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00E6B8")).
			Bold(true).
			Underline(true).
			Padding(0, 1),

		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777")).
			Faint(true),

		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AD8CFF")).
			Padding(0, 1),

		ListHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AD8CFF")).
			Bold(true).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777")),

		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777")).
			Faint(true),

		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AD8CFF")),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5C5C")).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3DDC97")).
			Bold(true),

		Busy: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3DDC97")),

		BusyOverlay: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#3DDC97")).
			Padding(0, 2),

		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")),
	}
}
