// Package layout describes compositional grid layouts as plain values.
//
// A section is built from one group; a group holds either a repeated item or a
// sequence of nested groups, stacked horizontally or vertically. Sizes are
// expressed relative to the container (fractional) or in points. Descriptors
// are immutable and produced by pure functions from a section index.
package layout

import "fmt"

// DimensionKind tells how a Dimension is measured
type DimensionKind int

const (
	KindFractionalWidth DimensionKind = iota
	KindFractionalHeight
	KindAbsolute
	KindEstimated
)

// Dimension is one side of a size
type Dimension struct {
	Kind  DimensionKind
	Value float64
}

// FractionalWidth is a fraction of the container width
func FractionalWidth(v float64) Dimension { return Dimension{KindFractionalWidth, v} }

// FractionalHeight is a fraction of the container height
func FractionalHeight(v float64) Dimension { return Dimension{KindFractionalHeight, v} }

// Absolute is a fixed size in points
func Absolute(v float64) Dimension { return Dimension{KindAbsolute, v} }

// Estimated is a size in points that content may refine
func Estimated(v float64) Dimension { return Dimension{KindEstimated, v} }

// Resolve converts d to points for a container of the given size
func (d Dimension) Resolve(width, height float64) float64 {
	switch d.Kind {
	case KindFractionalWidth:
		return d.Value * width
	case KindFractionalHeight:
		return d.Value * height
	default:
		return d.Value
	}
}

func (d Dimension) String() string {
	switch d.Kind {
	case KindFractionalWidth:
		return fmt.Sprintf("fractionalWidth(%g)", d.Value)
	case KindFractionalHeight:
		return fmt.Sprintf("fractionalHeight(%g)", d.Value)
	case KindAbsolute:
		return fmt.Sprintf("absolute(%g)", d.Value)
	case KindEstimated:
		return fmt.Sprintf("estimated(%g)", d.Value)
	default:
		return fmt.Sprintf("dimension(%d, %g)", d.Kind, d.Value)
	}
}

// Size is a width and height
type Size struct {
	Width  Dimension
	Height Dimension
}

// Insets shrink a frame on each edge
type Insets struct {
	Top, Leading, Bottom, Trailing float64
}

// Uniform returns equal insets on every edge
func Uniform(v float64) Insets {
	return Insets{Top: v, Leading: v, Bottom: v, Trailing: v}
}

// Item is a single cell
type Item struct {
	Size   Size
	Insets Insets
}

// Axis is the direction a group lays out its children
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Group arranges either Count copies of Subitem or the Subgroups in order
type Group struct {
	Axis      Axis
	Size      Size
	Insets    Insets
	Subitem   *Item
	Count     int
	Subgroups []Group
}

// HorizontalGroup repeats item count times side by side
func HorizontalGroup(size Size, item Item, count int) Group {
	return Group{Axis: Horizontal, Size: size, Subitem: &item, Count: count}
}

// VerticalGroup repeats item count times top to bottom
func VerticalGroup(size Size, item Item, count int) Group {
	return Group{Axis: Vertical, Size: size, Subitem: &item, Count: count}
}

// NestedGroup arranges subgroups along axis
func NestedGroup(axis Axis, size Size, subgroups ...Group) Group {
	return Group{Axis: axis, Size: size, Subgroups: subgroups}
}

// Capacity is the number of items one instance of the group holds
func (g Group) Capacity() int {
	if g.Subitem != nil {
		return g.Count
	}
	n := 0
	for _, sg := range g.Subgroups {
		n += sg.Capacity()
	}
	return n
}

// Scrolling is how a section scrolls across the main axis
type Scrolling int

const (
	ScrollNone Scrolling = iota
	ScrollContinuous
	ScrollGroupPaging
)

// Header is a boundary item shown above a section
type Header struct {
	Size  Size
	Title string
}

// Section is the layout of one section
type Section struct {
	Group     Group
	Scrolling Scrolling
	Header    *Header
}

// Provider returns the layout of the section at index, or false when there
// is no such section.
type Provider func(index int) (Section, bool)

// Single returns a provider using the same section everywhere
func Single(section Section) Provider {
	return func(int) (Section, bool) { return section, true }
}
