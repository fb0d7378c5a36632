package lhdiff

import (
	"sort"
	"strings"
)

const (
	contentWeight = 0.6
	contextWeight = 0.4
)

// LineFeatures are the fingerprints of one line.
type LineFeatures struct {
	Content uint64 // SimHash of the line's own tokens
	Context uint64 // SimHash of the tokens of the surrounding window
}

// CandidateSet maps an old line number to new line numbers ranked by
// descending fingerprint similarity.
type CandidateSet map[int][]int

// contextText space-joins the lines within window of idx (0-indexed),
// excluding idx itself and clipped to the slice bounds.
func contextText(lines []string, idx, window int) string {
	start := max(0, idx-window)
	end := min(len(lines), idx+window+1)

	var sb strings.Builder
	for i := start; i < end; i++ {
		if i == idx {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(lines[i])
	}
	return sb.String()
}

// ComputeLineFeatures fingerprints the given 1-indexed lines. Numbers outside
// lines are skipped.
func ComputeLineFeatures(lines []string, numbers LineSet, window int) map[int]LineFeatures {
	return computeFeatures(lines, numbers, window, TokenHashMD5)
}

func computeFeatures(lines []string, numbers LineSet, window int, th TokenHash) map[int]LineFeatures {
	features := make(map[int]LineFeatures, len(numbers))
	for num := range numbers {
		idx := num - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		features[num] = LineFeatures{
			Content: simHash(Tokenize(lines[idx]), th),
			Context: simHash(Tokenize(contextText(lines, idx, window)), th),
		}
	}
	return features
}

// fingerprintSimilarity converts the two Hamming distances of a line pair
// into a weighted similarity in [0, 1].
func fingerprintSimilarity(a, b LineFeatures) float64 {
	contentSim := 1 - float64(HammingDistance(a.Content, b.Content))/hashBits
	contextSim := 1 - float64(HammingDistance(a.Context, b.Context))/hashBits
	return weigh(contentSim, contextSim)
}

// weigh combines a content and a context similarity. The explicit
// conversions keep the compiler from fusing the multiply-add, so scores are
// bit-identical across architectures.
func weigh(content, context float64) float64 {
	return float64(contentWeight*content) + float64(contextWeight*context)
}

// featureTable is a flat, line-number ordered copy of a feature map.
type featureTable struct {
	numbers []int
	content []uint64
	context []uint64
}

func newFeatureTable(features map[int]LineFeatures) featureTable {
	nums := make([]int, 0, len(features))
	for n := range features {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	t := featureTable{
		numbers: nums,
		content: make([]uint64, len(nums)),
		context: make([]uint64, len(nums)),
	}
	for i, n := range nums {
		f := features[n]
		t.content[i] = f.Content
		t.context[i] = f.Context
	}
	return t
}

// scoredLine is a candidate with its fingerprint similarity.
type scoredLine struct {
	number int
	score  float64
}

// GenerateCandidates ranks, for every old line, all new lines by fingerprint
// similarity and keeps the best k. Ties rank the lower new line first.
func GenerateCandidates(oldFeatures, newFeatures map[int]LineFeatures, k int) CandidateSet {
	candidates := make(CandidateSet, len(oldFeatures))
	if k < 0 {
		k = 0
	}

	right := newFeatureTable(newFeatures)
	scored := make([]scoredLine, len(right.numbers))

	for oldNum, of := range oldFeatures {
		for i, n := range right.numbers {
			nf := LineFeatures{Content: right.content[i], Context: right.context[i]}
			scored[i] = scoredLine{number: n, score: fingerprintSimilarity(of, nf)}
		}

		// right.numbers is ascending, so a stable sort keeps lower lines first on ties.
		sort.SliceStable(scored, func(a, b int) bool {
			return scored[a].score > scored[b].score
		})

		top := make([]int, 0, min(k, len(scored)))
		for _, s := range scored[:min(k, len(scored))] {
			top = append(top, s.number)
		}
		candidates[oldNum] = top
	}
	return candidates
}
