package ui

import (
	"math/rand/v2"

	"photogrid/internal/layout"
	"photogrid/internal/snapshot"
)

// Screen is one of the top-level tabs
type Screen int

const (
	ScreenSearch Screen = iota
	ScreenGrid
	ScreenSections
	ScreenNested
	screenCount
)

var screenNames = []string{"Photo Search", "Grid", "Multiple Sections", "Nested Groups"}

func (s Screen) String() string {
	if s < 0 || s >= screenCount {
		return "unknown"
	}
	return screenNames[s]
}

// ParseScreen maps a config name to a screen
func ParseScreen(name string) Screen {
	switch name {
	case "grid":
		return ScreenGrid
	case "sections":
		return ScreenSections
	case "nested":
		return ScreenNested
	default:
		return ScreenSearch
	}
}

// demoState is the per-screen state of a layout demo
type demoState struct {
	demo    layout.Demo
	data    *snapshot.DataSource[string, int]
	pages   map[int]int
	section int
	offset  int
}

func newDemoState(d layout.Demo) *demoState {
	ds := &demoState{
		demo:  d,
		data:  snapshot.NewDataSource[string, int](),
		pages: map[int]int{},
	}
	if snap, err := d.Snapshot(); err == nil {
		ds.data.Apply(snap)
	}
	return ds
}

// page moves the focused section by delta pages, staying in range
func (d *demoState) page(delta int, env layout.Environment) {
	frames := d.demo.Frames(d.data.Snapshot(), env)
	if d.section >= len(frames) {
		return
	}
	n := frames[d.section].Pages()
	p := d.pages[d.section] + delta
	if p < 0 {
		p = 0
	}
	if p >= n {
		p = n - 1
	}
	d.pages[d.section] = p
}

func (d *demoState) focus(delta int) {
	n := len(d.demo.Sections)
	if n == 0 {
		return
	}
	d.section = (d.section + delta + n) % n
}

// shuffle reorders the items of every section and applies the result,
// returning the changes the data source computed.
func (d *demoState) shuffle(r *rand.Rand) snapshot.Changes[int] {
	cur := d.data.Snapshot()
	next := snapshot.New[string, int]()
	_ = next.AppendSections(cur.Sections()...)
	for _, sec := range cur.Sections() {
		items := append([]int(nil), cur.Items(sec)...)
		r.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		_ = next.AppendItems(items, sec)
	}
	return d.data.Apply(next)
}
