package lhdiff

// matchBlock is a run of equal normalized lines, 0-indexed.
type matchBlock struct {
	oldStart int
	newStart int
	size     int
}

// DiffResult is the output of the unchanged-line detection stage.
type DiffResult struct {
	Unchanged  map[int]int // old line -> new line, 1-indexed
	OldChanged LineSet     // old lines not covered by any match block
	NewChanged LineSet     // new lines not covered by any match block
}

// FindUnchangedLines aligns two sequences of normalized lines with a longest
// common subsequence and reports which lines survive unchanged.
//
// On ties in the LCS table the backtrack advances the new-file index, so the
// result is deterministic for a given input.
func FindUnchangedLines(oldLines, newLines []string) *DiffResult {
	return findUnchanged(newTable(oldLines, newLines, nil, nil))
}

func findUnchanged(t *lcsTable) *DiffResult {
	res := &DiffResult{
		Unchanged:  make(map[int]int),
		OldChanged: rangeSet(len(t.old)),
		NewChanged: rangeSet(len(t.new)),
	}
	for _, b := range t.matchingBlocks() {
		for i := 0; i < b.size; i++ {
			o := b.oldStart + i + 1
			n := b.newStart + i + 1
			res.Unchanged[o] = n
			res.OldChanged.Remove(o)
			res.NewChanged.Remove(n)
		}
	}
	return res
}

// lcsTable holds the sequences under comparison and the DP table over the
// part of them that precedes their common suffix.
type lcsTable struct {
	old, new       []string
	oldSum, newSum []uint64 // optional per-line hashes; nil disables the pre-check
	m, n           int      // table covers old[:m] and new[:n]
	cells          []int32  // (m+1)*(n+1), row-major
}

// newTable fills the LCS table for old and new. Hashes, when provided, must
// be equal for equal lines.
func newTable(old, new []string, oldSum, newSum []uint64) *lcsTable {
	t := &lcsTable{old: old, new: new, oldSum: oldSum, newSum: newSum}

	// The backtrack always pairs a common suffix first, so only the part
	// before it needs a table.
	m, n := len(old), len(new)
	for m > 0 && n > 0 && t.equal(m-1, n-1) {
		m--
		n--
	}
	t.m, t.n = m, n

	w := n + 1
	t.cells = make([]int32, (m+1)*w)
	for i := 1; i <= m; i++ {
		row := t.cells[i*w : (i+1)*w]
		prev := t.cells[(i-1)*w : i*w]
		for j := 1; j <= n; j++ {
			switch {
			case t.equal(i-1, j-1):
				row[j] = prev[j-1] + 1
			case prev[j] >= row[j-1]:
				row[j] = prev[j]
			default:
				row[j] = row[j-1]
			}
		}
	}
	return t
}

// equal reports whether old[i] equals new[j].
func (t *lcsTable) equal(i, j int) bool {
	if t.oldSum != nil && t.newSum != nil && t.oldSum[i] != t.newSum[j] {
		return false
	}
	return t.old[i] == t.new[j]
}

func (t *lcsTable) at(i, j int) int32 {
	return t.cells[i*(t.n+1)+j]
}

// pairs returns the aligned (old, new) index pairs in ascending order.
func (t *lcsTable) pairs() [][2]int {
	var rev [][2]int

	// Common suffix
	for k := len(t.old) - 1; k >= t.m; k-- {
		rev = append(rev, [2]int{k, k - len(t.old) + len(t.new)})
	}

	i, j := t.m, t.n
	for i > 0 && j > 0 {
		switch {
		case t.equal(i-1, j-1):
			rev = append(rev, [2]int{i - 1, j - 1})
			i--
			j--
		case t.at(i-1, j) > t.at(i, j-1):
			i--
		default:
			j--
		}
	}

	out := make([][2]int, len(rev))
	for k, p := range rev {
		out[len(rev)-1-k] = p
	}
	return out
}

// matchingBlocks returns the aligned pairs merged into maximal diagonal runs.
func (t *lcsTable) matchingBlocks() []matchBlock {
	return mergeBlocks(t.pairs())
}

// mergeBlocks folds consecutive diagonal pairs into blocks.
func mergeBlocks(pairs [][2]int) []matchBlock {
	if len(pairs) == 0 {
		return nil
	}

	var blocks []matchBlock
	cur := matchBlock{oldStart: pairs[0][0], newStart: pairs[0][1], size: 1}
	for _, p := range pairs[1:] {
		if cur.oldStart+cur.size == p[0] && cur.newStart+cur.size == p[1] {
			cur.size++
			continue
		}
		blocks = append(blocks, cur)
		cur = matchBlock{oldStart: p[0], newStart: p[1], size: 1}
	}
	return append(blocks, cur)
}
