package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Photo is a single hit returned by the image search API.
// Two photos are the same list item when their IDs match.
type Photo struct {
	ID         int    `json:"id"`
	URL        string `json:"webformatURL"`
	PreviewURL string `json:"previewURL,omitempty"`
	PageURL    string `json:"pageURL,omitempty"`
	Tags       string `json:"tags,omitempty"`
	User       string `json:"user,omitempty"`
	Width      int    `json:"webformatWidth,omitempty"`
	Height     int    `json:"webformatHeight,omitempty"`
}

// ResultSet is the ordered result of one completed query.
// A new ResultSet replaces the previous one entirely.
type ResultSet struct {
	Seq   uint64
	Term  string
	Items []Photo
}

// Len returns the number of photos in the set
func (rs ResultSet) Len() int {
	return len(rs.Items)
}

// IDs returns the photo identifiers in display order
func (rs ResultSet) IDs() []int {
	ids := make([]int, len(rs.Items))
	for i, p := range rs.Items {
		ids[i] = p.ID
	}
	return ids
}

// NewResultSet builds a result set, dropping repeated IDs (first occurrence wins).
func NewResultSet(seq uint64, term string, photos []Photo) ResultSet {
	seen := make(map[int]struct{}, len(photos))
	items := make([]Photo, 0, len(photos))
	for _, p := range photos {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		items = append(items, p)
	}
	return ResultSet{Seq: seq, Term: term, Items: items}
}

// NormalizeTerm trims surrounding whitespace and composes the text to NFC so that
// visually identical input compares equal.
func NormalizeTerm(raw string) string {
	return norm.NFC.String(strings.TrimSpace(raw))
}

// IsBlank reports whether the term has no content after normalization
func IsBlank(term string) bool {
	return NormalizeTerm(term) == ""
}
