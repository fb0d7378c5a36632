package lhdiff

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// NormalizedEditDistance returns editDistance/maxLen in [0, 1].
// Two empty strings are at distance 0; one empty string is at distance 1.
func NormalizedEditDistance(a, b string) float64 {
	if a == "" && b == "" {
		return 0
	}
	if a == "" || b == "" {
		return 1
	}
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	return float64(levenshtein.ComputeDistance(a, b)) / float64(maxLen)
}

// concatenate space-joins the given 1-indexed lines. Out-of-range numbers
// are skipped.
func concatenate(lines []string, numbers []int) string {
	var sb strings.Builder
	for _, n := range numbers {
		if n < 1 || n > len(lines) {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(lines[n-1])
	}
	return sb.String()
}

// DetectSplits finds old lines that were broken into a run of consecutive
// new lines. For each unmapped old line (ascending) it grows a run from every
// unused unmapped new line and keeps the longest one; the first run found
// wins on equal length. Only runs of two or more lines are recorded, and
// their lines are claimed in used.
func DetectSplits(oldLines, newLines []string, unmappedOld, unmappedNew LineSet, used *UsedLines, improvement float64) map[int][]int {
	splits := make(map[int][]int)
	newNums := unmappedNew.Sorted()

	for _, oldNum := range unmappedOld.Sorted() {
		if oldNum < 1 || oldNum > len(oldLines) {
			continue
		}
		run := bestSplit(oldLines[oldNum-1], newLines, newNums, used, improvement)
		if len(run) > 1 {
			splits[oldNum] = run
			used.Claim(run...)
		}
	}
	return splits
}

// bestSplit returns the longest run over all start positions in newNums.
func bestSplit(oldLine string, newLines []string, newNums []int, used *UsedLines, improvement float64) []int {
	var best []int
	for start := range newNums {
		if used.Used(newNums[start]) {
			continue
		}
		run := growRun(oldLine, newLines, newNums, start, used, improvement)
		if len(run) > len(best) {
			best = run
		}
	}
	return best
}

// growRun seeds a run at newNums[start] and extends it with the following
// consecutive, unused line numbers while each extension lowers the distance
// to oldLine by at least improvement.
func growRun(oldLine string, newLines []string, newNums []int, start int, used *UsedLines, improvement float64) []int {
	run := []int{newNums[start]}
	prev := NormalizedEditDistance(oldLine, concatenate(newLines, run))

	for _, next := range newNums[start+1:] {
		if used.Used(next) || next != run[len(run)-1]+1 {
			break
		}
		dist := NormalizedEditDistance(oldLine, concatenate(newLines, append(run[:len(run):len(run)], next)))
		if prev-dist < improvement {
			break
		}
		run = append(run, next)
		prev = dist
	}
	return run
}
