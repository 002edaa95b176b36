package snapshot

import "sort"

// ItemChange describes one item-level update
type ItemChange[I comparable] struct {
	Item I
	From IndexPath
	To   IndexPath
}

// Changes is the minimal update list between two snapshots. Deleted items
// carry only From, inserted items only To, moved items both.
type Changes[I comparable] struct {
	SectionDeletes []int
	SectionInserts []int
	Deletes        []ItemChange[I]
	Inserts        []ItemChange[I]
	Moves          []ItemChange[I]
}

// Empty reports whether nothing changed
func (c Changes[I]) Empty() bool {
	return c.Count() == 0
}

// Count returns the number of individual changes
func (c Changes[I]) Count() int {
	return len(c.SectionDeletes) + len(c.SectionInserts) + len(c.Deletes) + len(c.Inserts) + len(c.Moves)
}

type located[S comparable] struct {
	path    IndexPath
	section S
	flat    int
}

func locate[S comparable, I comparable](s *Snapshot[S, I]) (map[I]located[S], []I) {
	loc := make(map[I]located[S])
	var order []I
	flat := 0
	for si, sec := range s.sections {
		for ii, it := range s.items[sec] {
			loc[it] = located[S]{path: IndexPath{Section: si, Item: ii}, section: sec, flat: flat}
			order = append(order, it)
			flat++
		}
	}
	return loc, order
}

// Diff computes the changes that turn old into next. Items keep their place
// when they stay in the same section and in the same relative order as the
// other surviving items; everything else among the survivors is a move.
func Diff[S comparable, I comparable](old, next *Snapshot[S, I]) Changes[I] {
	if old == nil {
		old = New[S, I]()
	}
	if next == nil {
		next = New[S, I]()
	}

	var ch Changes[I]

	newSections := make(map[S]bool, len(next.sections))
	for _, sec := range next.sections {
		newSections[sec] = true
	}
	oldSections := make(map[S]bool, len(old.sections))
	for i, sec := range old.sections {
		oldSections[sec] = true
		if !newSections[sec] {
			ch.SectionDeletes = append(ch.SectionDeletes, i)
		}
	}
	for i, sec := range next.sections {
		if !oldSections[sec] {
			ch.SectionInserts = append(ch.SectionInserts, i)
		}
	}

	oldLoc, oldOrder := locate(old)
	newLoc, newOrder := locate(next)

	for _, it := range oldOrder {
		if _, ok := newLoc[it]; !ok {
			ch.Deletes = append(ch.Deletes, ItemChange[I]{Item: it, From: oldLoc[it].path})
		}
	}

	var survivors []I
	for _, it := range newOrder {
		if _, ok := oldLoc[it]; !ok {
			ch.Inserts = append(ch.Inserts, ItemChange[I]{Item: it, To: newLoc[it].path})
			continue
		}
		survivors = append(survivors, it)
	}

	seq := make([]int, len(survivors))
	for i, it := range survivors {
		seq[i] = oldLoc[it].flat
	}
	stable := longestIncreasing(seq)

	for i, it := range survivors {
		o, n := oldLoc[it], newLoc[it]
		if stable[i] && o.section == n.section {
			continue
		}
		ch.Moves = append(ch.Moves, ItemChange[I]{Item: it, From: o.path, To: n.path})
	}

	return ch
}

// longestIncreasing marks the members of one longest strictly increasing
// subsequence of seq.
func longestIncreasing(seq []int) []bool {
	keep := make([]bool, len(seq))
	if len(seq) == 0 {
		return keep
	}

	tails := []int{}
	prev := make([]int, len(seq))
	for i, v := range seq {
		pos := sort.Search(len(tails), func(k int) bool { return seq[tails[k]] >= v })
		if pos > 0 {
			prev[i] = tails[pos-1]
		} else {
			prev[i] = -1
		}
		if pos == len(tails) {
			tails = append(tails, i)
		} else {
			tails[pos] = i
		}
	}

	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		keep[i] = true
	}
	return keep
}
