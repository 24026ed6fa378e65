package transcript

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title       lipgloss.Style
	header      lipgloss.Style
	userLabel   lipgloss.Style
	userText    lipgloss.Style
	botLabel    lipgloss.Style
	interrupted lipgloss.Style
	loading     lipgloss.Style
	empty       lipgloss.Style
	barBracket  lipgloss.Style
	barFill     lipgloss.Style
	barEmpty    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:       lipgloss.NewStyle().Bold(true),
		header:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		userLabel:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		userText:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		botLabel:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		interrupted: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")),
		loading:     lipgloss.NewStyle().Faint(true).Italic(true),
		empty:       lipgloss.NewStyle().Faint(true),
		barBracket:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:     lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:    lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
