// Package snapshot holds ordered sections of item identifiers and computes the
// changes needed to go from one snapshot to the next.
package snapshot

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateSection is returned when a section identifier is appended twice
	ErrDuplicateSection = errors.New("snapshot: duplicate section")
	// ErrDuplicateItem is returned when an item identifier already exists in the snapshot
	ErrDuplicateItem = errors.New("snapshot: duplicate item")
	// ErrUnknownSection is returned when items are appended to a missing section
	ErrUnknownSection = errors.New("snapshot: unknown section")
)

// IndexPath locates an item inside a snapshot
type IndexPath struct {
	Section int
	Item    int
}

func (p IndexPath) String() string {
	return fmt.Sprintf("[%d,%d]", p.Section, p.Item)
}

// Snapshot is an ordered list of sections, each with an ordered list of
// unique item identifiers. The zero value is an empty snapshot.
type Snapshot[S comparable, I comparable] struct {
	sections []S
	items    map[S][]I
	where    map[I]S
}

// New creates an empty snapshot
func New[S comparable, I comparable]() *Snapshot[S, I] {
	return &Snapshot[S, I]{}
}

func (s *Snapshot[S, I]) init() {
	if s.items == nil {
		s.items = make(map[S][]I)
		s.where = make(map[I]S)
	}
}

// AppendSections adds sections at the end
func (s *Snapshot[S, I]) AppendSections(sections ...S) error {
	s.init()
	for _, sec := range sections {
		if _, ok := s.items[sec]; ok {
			return fmt.Errorf("%w: %v", ErrDuplicateSection, sec)
		}
		s.sections = append(s.sections, sec)
		s.items[sec] = nil
	}
	return nil
}

// AppendItems adds items to the end of section. When section is omitted the
// last section is used.
func (s *Snapshot[S, I]) AppendItems(items []I, section ...S) error {
	s.init()
	var sec S
	switch {
	case len(section) > 0:
		sec = section[0]
		if _, ok := s.items[sec]; !ok {
			return fmt.Errorf("%w: %v", ErrUnknownSection, sec)
		}
	case len(s.sections) > 0:
		sec = s.sections[len(s.sections)-1]
	default:
		return fmt.Errorf("%w: snapshot has no sections", ErrUnknownSection)
	}

	for i, it := range items {
		if _, dup := s.where[it]; dup {
			return fmt.Errorf("%w: %v", ErrDuplicateItem, it)
		}
		for _, prev := range items[:i] {
			if prev == it {
				return fmt.Errorf("%w: %v", ErrDuplicateItem, it)
			}
		}
	}
	for _, it := range items {
		s.where[it] = sec
	}
	s.items[sec] = append(s.items[sec], items...)
	return nil
}

// DeleteAllItems removes every section and item
func (s *Snapshot[S, I]) DeleteAllItems() {
	s.sections = nil
	s.items = nil
	s.where = nil
}

// Sections returns the section identifiers in order
func (s *Snapshot[S, I]) Sections() []S {
	out := make([]S, len(s.sections))
	copy(out, s.sections)
	return out
}

// Items returns the items of section in order
func (s *Snapshot[S, I]) Items(section S) []I {
	items := s.items[section]
	out := make([]I, len(items))
	copy(out, items)
	return out
}

// AllItems returns every item, section by section
func (s *Snapshot[S, I]) AllItems() []I {
	var out []I
	for _, sec := range s.sections {
		out = append(out, s.items[sec]...)
	}
	return out
}

// NumberOfItems returns the total item count
func (s *Snapshot[S, I]) NumberOfItems() int {
	n := 0
	for _, sec := range s.sections {
		n += len(s.items[sec])
	}
	return n
}

// NumberOfSections returns the section count
func (s *Snapshot[S, I]) NumberOfSections() int {
	return len(s.sections)
}

// IndexPath returns the location of item
func (s *Snapshot[S, I]) IndexPath(item I) (IndexPath, bool) {
	sec, ok := s.where[item]
	if !ok {
		return IndexPath{}, false
	}
	si := s.sectionIndex(sec)
	for i, it := range s.items[sec] {
		if it == item {
			return IndexPath{Section: si, Item: i}, true
		}
	}
	return IndexPath{}, false
}

// Clone returns an independent copy
func (s *Snapshot[S, I]) Clone() *Snapshot[S, I] {
	c := New[S, I]()
	for _, sec := range s.sections {
		_ = c.AppendSections(sec)
		_ = c.AppendItems(s.items[sec], sec)
	}
	return c
}

func (s *Snapshot[S, I]) sectionIndex(sec S) int {
	for i, v := range s.sections {
		if v == sec {
			return i
		}
	}
	return -1
}
