// Package render formats line mappings for people and scripts.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dacharyc/lhdiff"
)

// Mappings writes one "old-new" line per 1:1 mapping followed by one
// "old-[n1,n2,...]" line per split, each group ascending by old line.
func Mappings(w io.Writer, r *lhdiff.Result) error {
	var sb strings.Builder
	for _, p := range r.Pairs() {
		fmt.Fprintf(&sb, "%d-%d\n", p.Old, p.New)
	}
	for _, o := range r.SplitOrigins() {
		fmt.Fprintf(&sb, "%d-[%s]\n", o, joinInts(r.Splits[o], ","))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Report configures the detailed report.
type Report struct {
	Old, New []string // raw lines, for showing text next to line numbers
	Width    int      // maximum display width of quoted text; 0 means 60
}

// Write writes the detailed report: all mappings, splits, unmapped lines
// and summary counts. Resolved mappings show an inline character diff
// with deletions as [-x-] and insertions as {+x+}.
func (rep Report) Write(w io.Writer, r *lhdiff.Result) error {
	width := rep.Width
	if width <= 0 {
		width = 60
	}

	var sb strings.Builder
	sb.WriteString("1-to-1 mappings:\n")
	for _, p := range r.Pairs() {
		kind := "="
		if _, ok := r.Resolved[p.Old]; ok {
			kind = "~"
		}
		fmt.Fprintf(&sb, "  %s %d -> %d", kind, p.Old, p.New)
		if kind == "~" && p.Old <= len(rep.Old) && p.New <= len(rep.New) {
			fmt.Fprintf(&sb, "  %s", runewidth.Truncate(inlineDiff(rep.Old[p.Old-1], rep.New[p.New-1]), width, "..."))
		}
		sb.WriteByte('\n')
	}

	if len(r.Splits) > 0 {
		sb.WriteString("\n1-to-many mappings (line splits):\n")
		for _, o := range r.SplitOrigins() {
			fmt.Fprintf(&sb, "  %d -> [%s]", o, joinInts(r.Splits[o], ", "))
			if o <= len(rep.Old) {
				fmt.Fprintf(&sb, "  %s", runewidth.Truncate(strings.TrimSpace(rep.Old[o-1]), width, "..."))
			}
			sb.WriteByte('\n')
		}
	}

	if len(r.UnmappedOld) > 0 {
		fmt.Fprintf(&sb, "\nunmapped old lines:\n  [%s]\n", joinInts(r.UnmappedOld.Sorted(), ", "))
	}
	if len(r.UnmappedNew) > 0 {
		fmt.Fprintf(&sb, "\nunmapped new lines:\n  [%s]\n", joinInts(r.UnmappedNew.Sorted(), ", "))
	}

	sb.WriteString("\nsummary:\n")
	fmt.Fprintf(&sb, "  total mappings: %d\n", len(r.Mappings))
	fmt.Fprintf(&sb, "  unchanged:      %d\n", len(r.Unchanged))
	fmt.Fprintf(&sb, "  resolved:       %d\n", len(r.Resolved))
	fmt.Fprintf(&sb, "  split mappings: %d\n", len(r.Splits))
	fmt.Fprintf(&sb, "  unmapped old:   %d\n", len(r.UnmappedOld))
	fmt.Fprintf(&sb, "  unmapped new:   %d\n", len(r.UnmappedNew))

	_, err := io.WriteString(w, sb.String())
	return err
}

// inlineDiff renders a character diff of two trimmed lines.
func inlineDiff(oldText, newText string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(strings.TrimSpace(oldText), strings.TrimSpace(newText), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			sb.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + d.Text + "+}")
		}
	}
	return sb.String()
}

func joinInts(nums []int, sep string) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, sep)
}
