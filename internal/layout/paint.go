package layout

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the pair of background colors used for alternating items
type Palette [2]lipgloss.Color

// Default palettes, one per demo section kind
var (
	Orange = Palette{lipgloss.Color("208"), lipgloss.Color("166")}
	Pink   = Palette{lipgloss.Color("211"), lipgloss.Color("168")}
	Yellow = Palette{lipgloss.Color("220"), lipgloss.Color("178")}
	Teal   = Palette{lipgloss.Color("37"), lipgloss.Color("30")}
)

// Painter draws resolved frames onto a character canvas
type Painter struct {
	Env Environment
	// Palettes holds one palette per section; the last one repeats
	Palettes []Palette
	// Label returns the text drawn inside an item
	Label func(section, item int) string
	// Pages is the horizontal page shown for orthogonally scrolling sections
	Pages map[int]int
	// Selected marks one item with a highlight
	Selected  *IndexPath
	Header    lipgloss.Style
	Text      lipgloss.Style
	Highlight lipgloss.Style
}

// IndexPath addresses one item of a resolved layout
type IndexPath struct {
	Section int
	Item    int
}

type cell struct {
	ch    rune
	style int
}

const (
	styleNone = iota
	styleHeader
	styleHighlight
	styleItem // styleItem + 2*palette + shade
)

// Paint renders frames into lines that are exactly env width columns wide
func (p Painter) Paint(frames []SectionFrame) string {
	cols := int(math.Round(p.Env.Width / p.Env.PointsPerColumn))
	if cols <= 0 || len(frames) == 0 {
		return ""
	}
	last := frames[len(frames)-1].Bounds
	rows := int(math.Ceil((last.Y + last.H) / p.Env.PointsPerRow))
	canvas := make([][]cell, rows)
	for r := range canvas {
		canvas[r] = make([]cell, cols)
		for c := range canvas[r] {
			canvas[r][c] = cell{ch: ' '}
		}
	}

	for _, sf := range frames {
		dx := 0.0
		if sf.Scrolling != ScrollNone {
			dx = -float64(p.Pages[sf.Section]) * sf.GroupSize.W
		}
		if sf.Header != nil {
			row := int(math.Round(sf.Header.Y / p.Env.PointsPerRow))
			p.text(canvas, row, 0, sf.Title, styleHeader)
		}
		palette := p.palette(sf.Section)
		for _, f := range sf.Items {
			c0, r0, c1, r1 := p.cells(f.Rect.Offset(dx, 0))
			style := styleItem + 2*palette + f.Index%2
			if p.Selected != nil && p.Selected.Section == sf.Section && p.Selected.Item == f.Index {
				style = styleHighlight
			}
			fill(canvas, c0, r0, c1, r1, style)
			if p.Label != nil && c1 > c0 {
				label := p.Label(sf.Section, f.Index)
				mid := r0 + (r1-r0-1)/2
				start := c0 + max(0, (c1-c0-len([]rune(label)))/2)
				p.clipText(canvas, mid, start, c1, label, style)
			}
		}
	}

	var b strings.Builder
	for r, row := range canvas {
		if r > 0 {
			b.WriteByte('\n')
		}
		p.renderRow(&b, row)
	}
	return b.String()
}

func (p Painter) palette(section int) int {
	if len(p.Palettes) == 0 {
		return 0
	}
	return min(section, len(p.Palettes)-1)
}

// cells maps r onto the canvas. Item edges start on the next whole cell so
// that insets keep neighbours apart.
func (p Painter) cells(r Rect) (c0, r0, c1, r1 int) {
	c0 = int(math.Ceil(r.X/p.Env.PointsPerColumn - 0.01))
	c1 = int(math.Round((r.X + r.W) / p.Env.PointsPerColumn))
	r0 = int(math.Ceil(r.Y/p.Env.PointsPerRow - 0.01))
	r1 = int(math.Round((r.Y + r.H) / p.Env.PointsPerRow))
	if r1 <= r0 && r.H > 0 {
		r1 = r0 + 1
	}
	if c1 <= c0 && r.W > 0 {
		c1 = c0 + 1
	}
	return
}

func fill(canvas [][]cell, c0, r0, c1, r1, style int) {
	for r := max(r0, 0); r < min(r1, len(canvas)); r++ {
		for c := max(c0, 0); c < min(c1, len(canvas[r])); c++ {
			canvas[r][c] = cell{ch: ' ', style: style}
		}
	}
}

func (p Painter) text(canvas [][]cell, row, col int, s string, style int) {
	if row < 0 || row >= len(canvas) {
		return
	}
	p.clipText(canvas, row, col, len(canvas[row]), s, style)
}

func (p Painter) clipText(canvas [][]cell, row, col, end int, s string, style int) {
	if row < 0 || row >= len(canvas) {
		return
	}
	end = min(end, len(canvas[row]))
	for _, ch := range s {
		if col >= end {
			return
		}
		if col >= 0 {
			canvas[row][col] = cell{ch: ch, style: style}
		}
		col++
	}
}

func (p Painter) style(key int) lipgloss.Style {
	switch key {
	case styleNone:
		return lipgloss.NewStyle()
	case styleHeader:
		return p.Header
	case styleHighlight:
		return p.Highlight
	}
	key -= styleItem
	idx, shade := key/2, key%2
	if idx >= len(p.Palettes) {
		return p.Text
	}
	return p.Text.Background(p.Palettes[idx][shade])
}

// renderRow writes runs of equally styled cells with one lipgloss render each
func (p Painter) renderRow(b *strings.Builder, row []cell) {
	var run []rune
	cur := -1
	flush := func() {
		if len(run) == 0 {
			return
		}
		if cur == styleNone {
			b.WriteString(string(run))
		} else {
			b.WriteString(p.style(cur).Render(string(run)))
		}
		run = run[:0]
	}
	for _, c := range row {
		if c.style != cur {
			flush()
			cur = c.style
		}
		run = append(run, c.ch)
	}
	flush()
}

// NewPainter returns a painter with the default styles
func NewPainter(env Environment, palettes ...Palette) Painter {
	return Painter{
		Env:       env,
		Palettes:  palettes,
		Pages:     map[int]int{},
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Text:      lipgloss.NewStyle().Foreground(lipgloss.Color("16")),
		Highlight: lipgloss.NewStyle().Background(lipgloss.Color("226")).Foreground(lipgloss.Color("16")).Bold(true),
	}
}
