package imageloader

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

const upperHalf = "▀"

// Thumbnail scales img to cols x rows terminal cells, two pixels per cell
func Thumbnail(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 || img.Bounds().Empty() {
		return Placeholder(cols, rows)
	}

	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	var b strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < cols; x++ {
			top := dst.RGBAAt(x, 2*y)
			bottom := dst.RGBAAt(x, 2*y+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(hex(top)).
				Background(hex(bottom)).
				Render(upperHalf))
		}
	}
	return b.String()
}

// Placeholder is drawn in place of an image that is loading or failed
func Placeholder(cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(cols).
		Height(rows).
		MaxWidth(cols).
		MaxHeight(rows).
		Align(lipgloss.Center, lipgloss.Center).
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color("241")).
		Render("no image")
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
