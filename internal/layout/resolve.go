package layout

import "math"

// Environment is the container a layout is resolved in, in points, plus the
// scale used to map points onto terminal cells.
type Environment struct {
	Width           float64
	Height          float64
	PointsPerColumn float64
	PointsPerRow    float64
}

// TerminalEnvironment maps a terminal of columns x rows to points
func TerminalEnvironment(columns, rows int) Environment {
	const ppc, ppr = 8, 32
	return Environment{
		Width:           float64(columns) * ppc,
		Height:          float64(rows) * ppr,
		PointsPerColumn: ppc,
		PointsPerRow:    ppr,
	}
}

// Rect is a frame in points
type Rect struct {
	X, Y, W, H float64
}

// Inset shrinks r by in
func (r Rect) Inset(in Insets) Rect {
	return Rect{
		X: r.X + in.Leading,
		Y: r.Y + in.Top,
		W: math.Max(0, r.W-in.Leading-in.Trailing),
		H: math.Max(0, r.H-in.Top-in.Bottom),
	}
}

// Offset moves r by dx, dy
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Frame is where the item at Index of a section is drawn
type Frame struct {
	Index int
	Rect  Rect
}

// SectionFrame is the resolved geometry of one section
type SectionFrame struct {
	Section   int
	Header    *Rect
	Title     string
	Items     []Frame
	Bounds    Rect
	GroupSize Rect
	Scrolling Scrolling
}

// Pages returns how many group-wide pages an orthogonally scrolling section has
func (sf SectionFrame) Pages() int {
	if sf.Scrolling == ScrollNone || sf.GroupSize.W <= 0 {
		return 1
	}
	return int(math.Max(1, math.Ceil(sf.Bounds.W/sf.GroupSize.W)))
}

// place lays out one instance of g inside rect and returns the item frames,
// at most limit of them.
func place(g Group, rect Rect, limit int) []Rect {
	content := rect.Inset(g.Insets)
	var out []Rect

	if g.Subitem != nil {
		n := g.Count
		if n < 1 {
			n = 1
		}
		for i := 0; i < n && len(out) < limit; i++ {
			var cell Rect
			if g.Axis == Horizontal {
				w := content.W / float64(n)
				cell = Rect{X: content.X + float64(i)*w, Y: content.Y, W: w, H: g.Subitem.Size.Height.Resolve(content.W, content.H)}
			} else {
				h := content.H / float64(n)
				cell = Rect{X: content.X, Y: content.Y + float64(i)*h, W: g.Subitem.Size.Width.Resolve(content.W, content.H), H: h}
			}
			out = append(out, cell.Inset(g.Subitem.Insets))
		}
		return out
	}

	x, y := content.X, content.Y
	for _, sg := range g.Subgroups {
		if len(out) >= limit {
			break
		}
		w := sg.Size.Width.Resolve(content.W, content.H)
		h := sg.Size.Height.Resolve(content.W, content.H)
		out = append(out, place(sg, Rect{X: x, Y: y, W: w, H: h}, limit-len(out))...)
		if g.Axis == Horizontal {
			x += w
		} else {
			y += h
		}
	}
	return out
}

// Resolve computes frames for itemCount items of a section placed at the top
// of env.
func Resolve(section Section, env Environment, itemCount int) SectionFrame {
	return resolveAt(0, section, env, itemCount, 0)
}

func resolveAt(index int, section Section, env Environment, itemCount int, y float64) SectionFrame {
	sf := SectionFrame{Section: index, Scrolling: section.Scrolling}
	top := y

	if section.Header != nil {
		h := section.Header.Size.Height.Resolve(env.Width, env.Height)
		w := section.Header.Size.Width.Resolve(env.Width, env.Height)
		sf.Header = &Rect{X: 0, Y: y, W: w, H: h}
		sf.Title = section.Header.Title
		y += h
	}

	g := section.Group
	gw := g.Size.Width.Resolve(env.Width, env.Height)
	gh := g.Size.Height.Resolve(env.Width, env.Height)
	sf.GroupSize = Rect{W: gw, H: gh}

	capacity := g.Capacity()
	if capacity < 1 {
		capacity = 1
	}

	placed, instance := 0, 0
	for placed < itemCount {
		var origin Rect
		if section.Scrolling == ScrollNone {
			origin = Rect{X: 0, Y: y + float64(instance)*gh, W: gw, H: gh}
		} else {
			origin = Rect{X: float64(instance) * gw, Y: y, W: gw, H: gh}
		}
		for _, r := range place(g, origin, itemCount-placed) {
			sf.Items = append(sf.Items, Frame{Index: placed, Rect: r})
			placed++
		}
		instance++
	}

	if instance == 0 {
		instance = 1
	}
	if section.Scrolling == ScrollNone {
		sf.Bounds = Rect{X: 0, Y: top, W: env.Width, H: y - top + float64(instance)*gh}
	} else {
		sf.Bounds = Rect{X: 0, Y: top, W: float64(instance) * gw, H: y - top + gh}
	}
	return sf
}

// ResolveAll resolves every section the provider knows about, stacking them
// vertically. counts holds the number of items in each section.
func ResolveAll(provider Provider, env Environment, counts []int) []SectionFrame {
	var frames []SectionFrame
	y := 0.0
	for i, n := range counts {
		section, ok := provider(i)
		if !ok {
			break
		}
		sf := resolveAt(i, section, env, n, y)
		frames = append(frames, sf)
		y = sf.Bounds.Y + sf.Bounds.H
	}
	return frames
}
