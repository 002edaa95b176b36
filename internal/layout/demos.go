package layout

import (
	"fmt"
	"strconv"

	"photogrid/internal/snapshot"
)

const itemSpacing = 5

// Demo is one of the layout demonstration screens: a section provider plus
// the identifiers shown in it.
type Demo struct {
	Name     string
	Title    string
	Sections []string
	Items    map[string][]int
	Provider Provider
	Palettes []Palette
}

// Snapshot builds the demo's initial snapshot
func (d Demo) Snapshot() (*snapshot.Snapshot[string, int], error) {
	s := snapshot.New[string, int]()
	if err := s.AppendSections(d.Sections...); err != nil {
		return nil, fmt.Errorf("demo %s: %w", d.Name, err)
	}
	for _, sec := range d.Sections {
		if err := s.AppendItems(d.Items[sec], sec); err != nil {
			return nil, fmt.Errorf("demo %s: %w", d.Name, err)
		}
	}
	return s, nil
}

// Frames resolves the geometry of snap under env
func (d Demo) Frames(snap *snapshot.Snapshot[string, int], env Environment) []SectionFrame {
	counts := make([]int, 0, snap.NumberOfSections())
	for _, sec := range snap.Sections() {
		counts = append(counts, len(snap.Items(sec)))
	}
	return ResolveAll(d.Provider, env, counts)
}

// Render paints snap with item identifiers as labels
func (d Demo) Render(snap *snapshot.Snapshot[string, int], env Environment, pages map[int]int, selected *IndexPath) string {
	p := NewPainter(env, d.Palettes...)
	if pages != nil {
		p.Pages = pages
	}
	p.Selected = selected
	sections := snap.Sections()
	p.Label = func(section, item int) string {
		items := snap.Items(sections[section])
		if item >= len(items) {
			return ""
		}
		return strconv.Itoa(items[item])
	}
	return p.Paint(d.Frames(snap, env))
}

// Demos returns the layout demos in menu order
func Demos() []Demo {
	return []Demo{Grid(), MultipleSections(), NestedGroups()}
}

// Lookup finds a demo by name
func Lookup(name string) (Demo, bool) {
	for _, d := range Demos() {
		if d.Name == name {
			return d, true
		}
	}
	return Demo{}, false
}

func spacedItem(width, height Dimension) Item {
	return Item{Size: Size{Width: width, Height: height}, Insets: Uniform(itemSpacing)}
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

// GridSection is four quarter-width squares per row
func GridSection() Section {
	item := spacedItem(FractionalWidth(0.25), FractionalHeight(1.0))
	group := HorizontalGroup(Size{Width: FractionalWidth(1.0), Height: FractionalWidth(0.25)}, item, 4)
	group.Insets = Insets{Leading: itemSpacing, Trailing: itemSpacing}
	return Section{Group: group}
}

// Grid is a single section of 100 items
func Grid() Demo {
	return Demo{
		Name:     "grid",
		Title:    "Grid",
		Sections: []string{"main"},
		Items:    map[string][]int{"main": seq(1, 100)},
		Provider: Single(GridSection()),
		Palettes: []Palette{Orange},
	}
}

// ColumnSection is a section of the multiple sections demo
type ColumnSection int

const (
	ColumnGrid ColumnSection = iota
	ColumnSingle
)

var columnSections = []ColumnSection{ColumnGrid, ColumnSingle}

func (c ColumnSection) String() string {
	switch c {
	case ColumnGrid:
		return "grid"
	case ColumnSingle:
		return "single"
	default:
		return fmt.Sprintf("section(%d)", int(c))
	}
}

// ColumnCount is the number of items side by side
func (c ColumnSection) ColumnCount() int {
	if c == ColumnGrid {
		return 4
	}
	return 1
}

// MultipleSectionsProvider lays out a 4 column and a 1 column section that
// page horizontally.
func MultipleSectionsProvider(index int) (Section, bool) {
	if index < 0 || index >= len(columnSections) {
		return Section{}, false
	}
	kind := columnSections[index]
	columns := kind.ColumnCount()

	height := FractionalWidth(0.25)
	if columns == 1 {
		height = Absolute(200)
	}
	item := spacedItem(FractionalWidth(1.0), FractionalHeight(1.0))
	group := HorizontalGroup(Size{Width: FractionalWidth(1.0), Height: height}, item, columns)

	title := kind.String()
	if index == 0 {
		title = "YouTube API"
	}
	return Section{
		Group:     group,
		Scrolling: ScrollGroupPaging,
		Header:    &Header{Size: Size{Width: FractionalWidth(1.0), Height: Estimated(44)}, Title: title},
	}, true
}

// MultipleSections shows two differently shaped sections with headers
func MultipleSections() Demo {
	return Demo{
		Name:     "sections",
		Title:    "Multiple Sections",
		Sections: []string{ColumnGrid.String(), ColumnSingle.String()},
		Items: map[string][]int{
			ColumnGrid.String():   seq(1, 12),
			ColumnSingle.String(): seq(13, 14),
		},
		Provider: MultipleSectionsProvider,
		Palettes: []Palette{Orange, Pink},
	}
}

// SectionKind is a section of the nested groups demo
type SectionKind int

const (
	SectionFirst SectionKind = iota
	SectionSecond
	SectionThird
)

var sectionKinds = []SectionKind{SectionFirst, SectionSecond, SectionThird}

func (k SectionKind) String() string {
	switch k {
	case SectionFirst:
		return "first"
	case SectionSecond:
		return "second"
	case SectionThird:
		return "third"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ItemCount is the number of items in each inner group
func (k SectionKind) ItemCount() int {
	if k == SectionFirst {
		return 1
	}
	return 3
}

// NestedGroupHeight is the height of the outer group
func (k SectionKind) NestedGroupHeight() Dimension {
	if k == SectionFirst {
		return FractionalWidth(0.6)
	}
	return FractionalWidth(0.5)
}

// Title is the header text
func (k SectionKind) Title() string {
	switch k {
	case SectionFirst:
		return "Top Channel"
	case SectionSecond:
		return "Second section"
	default:
		return "Third section"
	}
}

// NestedGroupsProvider wraps an inner horizontal group in an outer one per
// section, paging horizontally.
func NestedGroupsProvider(index int) (Section, bool) {
	if index < 0 || index >= len(sectionKinds) {
		return Section{}, false
	}
	kind := sectionKinds[index]

	item := spacedItem(FractionalWidth(1.0), FractionalHeight(1.0))
	inner := HorizontalGroup(Size{Width: FractionalWidth(1.0), Height: FractionalHeight(1.0)}, item, kind.ItemCount())
	nested := NestedGroup(Horizontal, Size{Width: FractionalWidth(1.0), Height: kind.NestedGroupHeight()}, inner)

	return Section{
		Group:     nested,
		Scrolling: ScrollGroupPaging,
		Header:    &Header{Size: Size{Width: FractionalWidth(1.0), Height: Absolute(44)}, Title: kind.Title()},
	}, true
}

// NestedGroups shows three paging sections of nested groups
func NestedGroups() Demo {
	return Demo{
		Name:     "nested",
		Title:    "Nested Groups",
		Sections: []string{SectionFirst.String(), SectionSecond.String(), SectionThird.String()},
		Items: map[string][]int{
			SectionFirst.String():  seq(1, 4),
			SectionSecond.String(): seq(5, 10),
			SectionThird.String():  seq(11, 23),
		},
		Provider: NestedGroupsProvider,
		Palettes: []Palette{Yellow},
	}
}

// PhotoSearchSection is a column of two next to a column of three, repeated
// vertically.
func PhotoSearchSection() Section {
	item := spacedItem(FractionalWidth(1.0), FractionalHeight(1.0))
	column := Size{Width: FractionalWidth(0.5), Height: FractionalHeight(1.0)}
	leading := VerticalGroup(column, item, 2)
	trailing := VerticalGroup(column, item, 3)
	nested := NestedGroup(Horizontal, Size{Width: FractionalWidth(1.0), Height: Absolute(1000)}, leading, trailing)
	return Section{Group: nested}
}
