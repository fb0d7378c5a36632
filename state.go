package lhdiff

// UsedLines records the new-file lines already claimed by a 1:1 mapping or a
// split. One instance is threaded through conflict resolution and split
// detection of a single pipeline run and must not be shared between runs.
type UsedLines struct {
	lines LineSet
}

// NewUsedLines returns an empty accumulator.
func NewUsedLines() *UsedLines {
	return &UsedLines{lines: make(LineSet)}
}

// Claim marks the given new lines as used.
func (u *UsedLines) Claim(numbers ...int) {
	for _, n := range numbers {
		u.lines.Add(n)
	}
}

// Used reports whether n has been claimed.
func (u *UsedLines) Used(n int) bool {
	return u.lines.Has(n)
}

// Len returns the number of claimed lines.
func (u *UsedLines) Len() int {
	return len(u.lines)
}

// textContext caches the per-line context data of one file version that the
// fine-grained stages look up repeatedly.
type textContext struct {
	lines  []string
	window int
	tokens map[int]map[string]struct{} // 0-indexed line -> unique context tokens
}

func newTextContext(lines []string, window int) *textContext {
	return &textContext{
		lines:  lines,
		window: window,
		tokens: make(map[int]map[string]struct{}),
	}
}

// inRange reports whether the 1-indexed line number exists.
func (c *textContext) inRange(number int) bool {
	return number >= 1 && number <= len(c.lines)
}

// text returns the raw text of a 1-indexed line.
func (c *textContext) text(number int) string {
	return c.lines[number-1]
}

// contextTokens returns the unique tokens of the window around a 1-indexed line.
func (c *textContext) contextTokens(number int) map[string]struct{} {
	idx := number - 1
	if set, ok := c.tokens[idx]; ok {
		return set
	}
	set := tokenSet(contextText(c.lines, idx, c.window))
	c.tokens[idx] = set
	return set
}

func tokenSet(text string) map[string]struct{} {
	toks := Tokenize(text)
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}
