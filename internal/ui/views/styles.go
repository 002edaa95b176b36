package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	Prompt        lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Stats         lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	SelectionBg   lipgloss.Style
	PhotoID       lipgloss.Style
	Tags          lipgloss.Style
	User          lipgloss.Style
	PreviewBox    lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1),
		Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Dim:    lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Stats:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Help:   lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(0, 1),
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		PhotoID:     lipgloss.NewStyle().Foreground(lipgloss.Color("37")), // teal
		Tags:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		User:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		PreviewBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}
