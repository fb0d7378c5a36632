// Command lhdiff maps the lines of an old file version onto a new one.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dacharyc/lhdiff"
	"github.com/dacharyc/lhdiff/internal/render"
	"github.com/dacharyc/lhdiff/internal/source"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// config holds the flag values shared by all commands.
type config struct {
	candidates     int
	threshold      float64
	splitThreshold float64
	window         int
	literalAware   bool
	hash           string
	verbose        bool
}

func (c *config) options(stderr io.Writer) ([]lhdiff.Option, error) {
	th, ok := lhdiff.ParseTokenHash(c.hash)
	if !ok {
		return nil, fmt.Errorf("unknown --hash %q (want md5 or blake3)", c.hash)
	}

	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	return []lhdiff.Option{
		lhdiff.WithCandidates(c.candidates),
		lhdiff.WithSimilarityThreshold(c.threshold),
		lhdiff.WithSplitImprovementThreshold(c.splitThreshold),
		lhdiff.WithContextWindow(c.window),
		lhdiff.WithLiteralAwareComments(c.literalAware),
		lhdiff.WithTokenHash(th),
		lhdiff.WithLogger(logger),
	}, nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cfg := &config{}

	rootCmd := &cobra.Command{
		Use:          "lhdiff OLD NEW",
		Short:        "Map lines of an old file version onto a new version",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cfg.options(stderr)
			if err != nil {
				return err
			}
			oldLines, newLines, err := readPair(args[0], args[1])
			if err != nil {
				return err
			}

			result := lhdiff.Map(oldLines, newLines, opts...)
			if err := render.Mappings(stdout, result); err != nil {
				return err
			}
			if cfg.verbose {
				fmt.Fprintln(stdout)
				return render.Report{Old: oldLines, New: newLines}.Write(stdout, result)
			}
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&cfg.candidates, "candidates", 15, "fingerprint candidates kept per changed line")
	flags.Float64Var(&cfg.threshold, "threshold", 0.5, "minimum similarity for a 1:1 mapping of a changed line")
	flags.Float64Var(&cfg.splitThreshold, "split-threshold", 0.05, "minimum distance improvement to extend a line split")
	flags.IntVar(&cfg.window, "window", 4, "context lines above and below each line")
	flags.BoolVar(&cfg.literalAware, "literal-aware", false, "ignore comment markers inside quoted literals")
	flags.StringVar(&cfg.hash, "hash", "md5", "token hash for fingerprints (md5 or blake3)")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "log pipeline stages and print a detailed report")

	rootCmd.AddCommand(newCompareCmd(cfg, stdout, stderr))
	return rootCmd
}

// readPair reads both file versions. Read errors are returned unchanged.
func readPair(oldPath, newPath string) ([]string, []string, error) {
	oldLines, err := source.ReadLines(oldPath)
	if err != nil {
		return nil, nil, err
	}
	newLines, err := source.ReadLines(newPath)
	if err != nil {
		return nil, nil, err
	}
	return oldLines, newLines, nil
}
