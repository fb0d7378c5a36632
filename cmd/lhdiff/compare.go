package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/dacharyc/lhdiff"
)

// newCompareCmd contrasts lhdiff's mapping with a plain line diff, which can
// only pair lines that are byte-identical and in order.
func newCompareCmd(cfg *config, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "compare OLD NEW",
		Short: "Compare lhdiff's line mapping with a plain line diff",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cfg.options(stderr)
			if err != nil {
				return err
			}
			oldLines, newLines, err := readPair(args[0], args[1])
			if err != nil {
				return err
			}

			start := time.Now()
			result := lhdiff.Map(oldLines, newLines, opts...)
			lhTime := time.Since(start)

			start = time.Now()
			base := lineDiffStats(oldLines, newLines)
			baseTime := time.Since(start)

			fmt.Fprintf(stdout, "old: %d lines, new: %d lines\n", len(oldLines), len(newLines))
			fmt.Fprintf(stdout, "\nlhdiff:  %v\n", lhTime)
			fmt.Fprintf(stdout, "  mapped old lines: %d (unchanged: %d, resolved: %d, split: %d)\n",
				len(result.Mappings)+len(result.Splits), len(result.Unchanged), len(result.Resolved), len(result.Splits))
			fmt.Fprintf(stdout, "  unmapped: old %d, new %d\n", len(result.UnmappedOld), len(result.UnmappedNew))
			fmt.Fprintf(stdout, "\ngo-diff: %v\n", baseTime)
			fmt.Fprintf(stdout, "  mapped old lines: %d\n", base.equal)
			fmt.Fprintf(stdout, "  unmapped: old %d, new %d\n", base.deleted, base.inserted)
			fmt.Fprintf(stdout, "  change regions: %d\n", base.changeRegions)
			return nil
		},
	}
}

type diffStats struct {
	equal, deleted, inserted int
	changeRegions            int
}

// lineDiffStats counts lines kept, deleted and inserted by a line-mode
// go-diff run.
func lineDiffStats(oldLines, newLines []string) diffStats {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	chars1, chars2, lineArray := dmp.DiffLinesToChars(joinLines(oldLines), joinLines(newLines))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lineArray)

	var s diffStats
	inChange := false
	for _, d := range diffs {
		n := strings.Count(d.Text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			s.equal += n
			inChange = false
		case diffmatchpatch.DiffDelete:
			s.deleted += n
			if !inChange {
				s.changeRegions++
				inChange = true
			}
		case diffmatchpatch.DiffInsert:
			s.inserted += n
			if !inChange {
				s.changeRegions++
				inChange = true
			}
		}
	}
	return s
}

// joinLines terminates every line with "\n" so line counts survive the
// round trip through go-diff.
func joinLines(lines []string) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}
