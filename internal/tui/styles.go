package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles of the browser.
type Styles struct {
	Title     lipgloss.Style
	Stats     lipgloss.Style
	Label     lipgloss.Style
	ActiveTab lipgloss.Style
	Tab       lipgloss.Style
	Selected  lipgloss.Style
	Item      lipgloss.Style
	Muted     lipgloss.Style
	Available lipgloss.Style
	Lent      lipgloss.Style
	Bookmark  lipgloss.Style
	Error     lipgloss.Style
	Notice    lipgloss.Style
	Panel     lipgloss.Style
	Help      lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Stats:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		ActiveTab: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#7D56F4")),
		Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Item:      lipgloss.NewStyle(),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Available: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Lent:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Bookmark:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#C0392B")).
			Padding(0, 1),
		Notice: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
