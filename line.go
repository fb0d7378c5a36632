package lhdiff

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Line is a single line of one file version.
type Line struct {
	Number     int    // 1-based position in the file
	Raw        string // text as read
	Normalized string // comparison form produced by the normalizer
}

// FileLines is the fixed, ordered sequence of lines of one file version.
// It is built once per input and never mutated afterwards.
type FileLines struct {
	lines  []Line
	hashes []uint64 // xxhash of each normalized line, used as an equality pre-check
}

// NewFileLines builds a FileLines from raw text lines using the given normalizer.
func NewFileLines(raw []string, normalize func(string) string) *FileLines {
	f := &FileLines{
		lines:  make([]Line, len(raw)),
		hashes: make([]uint64, len(raw)),
	}
	for i, s := range raw {
		norm := normalize(s)
		f.lines[i] = Line{Number: i + 1, Raw: s, Normalized: norm}
		f.hashes[i] = xxhash.Sum64String(norm)
	}
	return f
}

// Len returns the number of lines.
func (f *FileLines) Len() int {
	return len(f.lines)
}

// Line returns the line with the given 1-based number.
// ok is false if the number is out of range.
func (f *FileLines) Line(number int) (Line, bool) {
	if number < 1 || number > len(f.lines) {
		return Line{}, false
	}
	return f.lines[number-1], true
}

// RawLines returns the raw text of every line, in order.
func (f *FileLines) RawLines() []string {
	out := make([]string, len(f.lines))
	for i, l := range f.lines {
		out[i] = l.Raw
	}
	return out
}

// NormalizedLines returns the normalized text of every line, in order.
func (f *FileLines) NormalizedLines() []string {
	out := make([]string, len(f.lines))
	for i, l := range f.lines {
		out[i] = l.Normalized
	}
	return out
}

// LineSet is a set of 1-based line numbers.
type LineSet map[int]struct{}

// NewLineSet returns a set holding the given line numbers.
func NewLineSet(numbers ...int) LineSet {
	s := make(LineSet, len(numbers))
	for _, n := range numbers {
		s[n] = struct{}{}
	}
	return s
}

// rangeSet returns the set {1..n}.
func rangeSet(n int) LineSet {
	s := make(LineSet, n)
	for i := 1; i <= n; i++ {
		s[i] = struct{}{}
	}
	return s
}

// Add inserts n into the set.
func (s LineSet) Add(n int) {
	s[n] = struct{}{}
}

// Remove deletes n from the set.
func (s LineSet) Remove(n int) {
	delete(s, n)
}

// Has reports whether n is in the set.
func (s LineSet) Has(n int) bool {
	_, ok := s[n]
	return ok
}

// Clone returns an independent copy of the set.
func (s LineSet) Clone() LineSet {
	c := make(LineSet, len(s))
	for n := range s {
		c[n] = struct{}{}
	}
	return c
}

// Sorted returns the members in ascending order.
func (s LineSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
