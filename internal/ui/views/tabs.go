package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderTabs renders the screen names with the active one highlighted
func RenderTabs(styles *Styles, names []string, active int) string {
	parts := make([]string, len(names))
	for i, name := range names {
		if i == active {
			parts[i] = styles.ActiveTab.Render(name)
		} else {
			parts[i] = styles.Tab.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// RenderStatusBar puts left and right on one line of the given width
func RenderStatusBar(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}
