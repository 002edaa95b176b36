package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"photogrid/internal/domain"
)

// ResultRenderer renders search results as a list
type ResultRenderer struct {
	styles *Styles
}

// NewResultRenderer creates a new result renderer
func NewResultRenderer(styles *Styles) *ResultRenderer {
	return &ResultRenderer{styles: styles}
}

// RenderList renders one line per photo, the selected one highlighted.
// Every line is padded or truncated to width.
func (r *ResultRenderer) RenderList(photos []domain.Photo, selected, width int) string {
	if len(photos) == 0 {
		return r.styles.Dim.Render("No results")
	}

	lines := make([]string, len(photos))
	for i, p := range photos {
		lines[i] = r.renderPhoto(p, i == selected, width)
	}
	return strings.Join(lines, "\n")
}

func (r *ResultRenderer) renderPhoto(p domain.Photo, isSelected bool, width int) string {
	cursor := "  "
	if isSelected {
		cursor = "▸ "
	}

	id := fmt.Sprintf("#%-9d", p.ID)
	tags := p.Tags
	if tags == "" {
		tags = p.URL
	}
	size := ""
	if p.Width > 0 && p.Height > 0 {
		size = fmt.Sprintf(" %d×%d", p.Width, p.Height)
	}
	user := ""
	if p.User != "" {
		user = " by " + p.User
	}

	line := cursor + r.styles.PhotoID.Render(id) + " " + r.styles.Tags.Render(tags) + r.styles.User.Render(user+size)
	if width > 0 {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
		if pad := width - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
	}
	if isSelected {
		line = r.styles.Highlight.Inherit(r.styles.SelectionBg).Render(stripStyles(line))
	}
	return line
}

// RenderDetails describes one photo for the preview box
func (r *ResultRenderer) RenderDetails(p domain.Photo) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render(fmt.Sprintf("Photo #%d", p.ID)))
	b.WriteString("\n")
	if p.Tags != "" {
		b.WriteString(r.styles.Tags.Render(p.Tags))
		b.WriteString("\n")
	}
	if p.User != "" {
		b.WriteString(r.styles.User.Render("by " + p.User))
		b.WriteString("\n")
	}
	if p.PageURL != "" {
		b.WriteString(r.styles.Dim.Render(p.PageURL))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
