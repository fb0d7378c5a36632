// Package lhdiff maps the lines of an old file version onto a new version.
//
// Unlike a positional diff, lhdiff tracks lines through edits, moves and
// splits. Mapping runs as a fixed pipeline:
//   - Normalization: whitespace and trailing comments are ignored
//   - Unchanged lines: a longest common subsequence over normalized lines
//   - Candidates: SimHash fingerprints of each changed line and its context
//   - Resolution: edit distance and context overlap pick the best candidate
//   - Splits: runs of consecutive new lines that rebuild an old line
//
// Output is deterministic for a given input and configuration.
package lhdiff

import (
	"context"
	"log/slog"
	"sort"
)

// options holds configuration for the mapping pipeline.
type options struct {
	candidates       int
	threshold        float64
	splitImprovement float64
	window           int
	literalAware     bool
	tokenHash        TokenHash
	logger           *slog.Logger
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() *options {
	return &options{
		candidates:       15,
		threshold:        0.5,
		splitImprovement: 0.05,
		window:           4,
		literalAware:     false,
		tokenHash:        TokenHashMD5,
	}
}

// Option configures mapping behavior.
type Option func(*options)

// WithCandidates sets how many fingerprint candidates are kept per old line.
// Values below 1 are ignored.
// Default: 15.
func WithCandidates(k int) Option {
	return func(o *options) {
		if k >= 1 {
			o.candidates = k
		}
	}
}

// WithSimilarityThreshold sets the minimum combined similarity for a 1:1
// mapping of a changed line.
// Default: 0.5.
func WithSimilarityThreshold(t float64) Option {
	return func(o *options) {
		o.threshold = t
	}
}

// WithSplitImprovementThreshold sets the minimum drop in normalized edit
// distance needed to extend a split run by one more line.
// Default: 0.05.
func WithSplitImprovementThreshold(t float64) Option {
	return func(o *options) {
		o.splitImprovement = t
	}
}

// WithContextWindow sets how many lines above and below a line form its
// context. Negative values are ignored.
// Default: 4.
func WithContextWindow(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.window = n
		}
	}
}

// WithLiteralAwareComments makes normalization skip comment markers inside
// quoted literals (see NormalizeLiteralAware).
// Default: false.
func WithLiteralAwareComments(enabled bool) Option {
	return func(o *options) {
		o.literalAware = enabled
	}
}

// WithTokenHash selects the token hash used for SimHash fingerprints.
// Default: TokenHashMD5.
func WithTokenHash(h TokenHash) Option {
	return func(o *options) {
		o.tokenHash = h
	}
}

// WithLogger enables per-stage debug logging.
// Default: nil (no logging).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Result is the line mapping between two file versions. All line numbers
// are 1-indexed.
type Result struct {
	Mappings    map[int]int   // 1:1 mappings, Unchanged plus Resolved
	Splits      map[int][]int // old line -> ascending run of new lines
	Unchanged   map[int]int   // lines equal after normalization
	Resolved    map[int]int   // changed lines matched by similarity
	UnmappedOld LineSet
	UnmappedNew LineSet
}

// Pair is a single 1:1 mapping.
type Pair struct {
	Old, New int
}

// Pairs returns Mappings sorted by old line number.
func (r *Result) Pairs() []Pair {
	pairs := make([]Pair, 0, len(r.Mappings))
	for o, n := range r.Mappings {
		pairs = append(pairs, Pair{Old: o, New: n})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Old < pairs[j].Old })
	return pairs
}

// SplitOrigins returns the old line numbers of Splits in ascending order.
func (r *Result) SplitOrigins() []int {
	keys := make([]int, 0, len(r.Splits))
	for o := range r.Splits {
		keys = append(keys, o)
	}
	sort.Ints(keys)
	return keys
}

// Mapper runs the mapping pipeline with a fixed configuration. A Mapper is
// immutable and safe for concurrent use.
type Mapper struct {
	opts options
}

// New returns a Mapper configured by opts.
func New(opts ...Option) *Mapper {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Mapper{opts: *o}
}

// Map maps the lines of oldLines onto newLines with the given options.
func Map(oldLines, newLines []string, opts ...Option) *Result {
	return New(opts...).Map(oldLines, newLines)
}

// Normalize applies the Mapper's normalizer to a raw line.
func (m *Mapper) Normalize(raw string) string {
	if m.opts.literalAware {
		return NormalizeLiteralAware(raw)
	}
	return Normalize(raw)
}

// Map maps the lines of oldLines onto newLines.
func (m *Mapper) Map(oldLines, newLines []string) *Result {
	return m.MapFiles(NewFileLines(oldLines, m.Normalize), NewFileLines(newLines, m.Normalize))
}

// MapFiles maps two prepared file versions. Their normalized text is used
// as is.
func (m *Mapper) MapFiles(oldFile, newFile *FileLines) *Result {
	o := &m.opts
	oldRaw, newRaw := oldFile.RawLines(), newFile.RawLines()
	m.debug("preprocessed", "old_lines", oldFile.Len(), "new_lines", newFile.Len())

	// Unchanged lines
	diff := findUnchanged(newTable(oldFile.NormalizedLines(), newFile.NormalizedLines(), oldFile.hashes, newFile.hashes))
	m.debug("unchanged lines detected",
		"unchanged", len(diff.Unchanged),
		"old_changed", len(diff.OldChanged),
		"new_changed", len(diff.NewChanged))

	// Candidates
	oldFeatures := computeFeatures(oldRaw, diff.OldChanged, o.window, o.tokenHash)
	newFeatures := computeFeatures(newRaw, diff.NewChanged, o.window, o.tokenHash)
	candidates := GenerateCandidates(oldFeatures, newFeatures, o.candidates)
	m.debug("candidates generated", "lines", len(candidates))

	// Resolution
	used := NewUsedLines()
	resolved := resolve(newTextContext(oldRaw, o.window), newTextContext(newRaw, o.window), candidates, used, o.threshold)
	m.debug("conflicts resolved", "resolved", len(resolved))

	unmappedOld := diff.OldChanged.Clone()
	unmappedNew := diff.NewChanged.Clone()
	for oldNum, newNum := range resolved {
		unmappedOld.Remove(oldNum)
		unmappedNew.Remove(newNum)
	}

	// Splits
	splits := DetectSplits(oldRaw, newRaw, unmappedOld, unmappedNew, used, o.splitImprovement)
	for oldNum, run := range splits {
		unmappedOld.Remove(oldNum)
		for _, n := range run {
			unmappedNew.Remove(n)
		}
	}
	m.debug("splits detected", "splits", len(splits))

	mappings := make(map[int]int, len(diff.Unchanged)+len(resolved))
	for k, v := range diff.Unchanged {
		mappings[k] = v
	}
	for k, v := range resolved {
		mappings[k] = v
	}

	return &Result{
		Mappings:    mappings,
		Splits:      splits,
		Unchanged:   diff.Unchanged,
		Resolved:    resolved,
		UnmappedOld: unmappedOld,
		UnmappedNew: unmappedNew,
	}
}

func (m *Mapper) debug(msg string, args ...any) {
	if m.opts.logger == nil {
		return
	}
	m.opts.logger.Log(context.Background(), slog.LevelDebug, msg, args...)
}
