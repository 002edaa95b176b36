package views

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderCentered places the styled popup in the middle of a width x height area
func (pr *PopupRenderer) RenderCentered(popupContent string, width, height int) string {
	styled := pr.styles.PreviewBox.Render(popupContent)
	if width <= 0 || height <= 0 {
		return styled
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styled,
		lipgloss.WithWhitespaceChars(" "))
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripStyles(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
