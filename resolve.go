package lhdiff

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// LevenshteinSimilarity returns 1 - editDistance/maxLen, clamped at 0.
// Two empty strings are identical (1); one empty string scores 0.
// Lengths and edits count runes.
func LevenshteinSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	dist := levenshtein.ComputeDistance(a, b)
	return math.Max(0, 1-float64(dist)/float64(maxLen))
}

// CosineSimilarity compares the unique token sets of two texts:
// |A∩B| / sqrt(|A|·|B|). It is 0 if either set is empty.
func CosineSimilarity(a, b string) float64 {
	return cosineSets(tokenSet(a), tokenSet(b))
}

func cosineSets(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	common := 0
	for t := range a {
		if _, ok := b[t]; ok {
			common++
		}
	}
	if common == 0 {
		return 0
	}
	return float64(common) / (math.Sqrt(float64(len(a))) * math.Sqrt(float64(len(b))))
}

// CombinedSimilarity weighs the edit similarity of two lines against the
// token overlap of their contexts.
func CombinedSimilarity(oldLine, newLine, oldContext, newContext string) float64 {
	return weigh(LevenshteinSimilarity(oldLine, newLine), CosineSimilarity(oldContext, newContext))
}

// ResolveConflicts picks, for each old line in ascending order, the best
// unused candidate whose combined similarity reaches threshold. Accepted
// candidates are claimed in used. On equal scores the candidate ranked
// earlier wins.
//
// oldLines and newLines are the raw texts; candidate line numbers are
// 1-indexed and those out of range are skipped.
func ResolveConflicts(oldLines, newLines []string, candidates CandidateSet, used *UsedLines, threshold float64, window int) map[int]int {
	return resolve(newTextContext(oldLines, window), newTextContext(newLines, window), candidates, used, threshold)
}

func resolve(old, new *textContext, candidates CandidateSet, used *UsedLines, threshold float64) map[int]int {
	resolved := make(map[int]int)

	oldNums := make([]int, 0, len(candidates))
	for n := range candidates {
		oldNums = append(oldNums, n)
	}
	sort.Ints(oldNums)

	for _, oldNum := range oldNums {
		if !old.inRange(oldNum) {
			continue
		}
		oldText := old.text(oldNum)
		oldCtx := old.contextTokens(oldNum)

		best := -1
		bestScore := -1.0
		for _, newNum := range candidates[oldNum] {
			if used.Used(newNum) || !new.inRange(newNum) {
				continue
			}
			score := weigh(LevenshteinSimilarity(oldText, new.text(newNum)), cosineSets(oldCtx, new.contextTokens(newNum)))
			if score > bestScore && score >= threshold {
				best = newNum
				bestScore = score
			}
		}

		if best >= 0 {
			resolved[oldNum] = best
			used.Claim(best)
		}
	}
	return resolved
}
