// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"codeberg.org/inkpost/inkpost/core/generator"
)

const (
	outputPerm = 0o644
	outDirPerm = 0o755
)

var errNoMatches = errors.New("no files match the pattern")

type batchFlags struct {
	renderFlags

	outDir string
	jobs   int
}

func newBatchCmd(global *globalFlags) *cobra.Command {
	flags := &batchFlags{}

	cmd := &cobra.Command{
		Use:   "batch <glob>",
		Short: "Render every file matching a glob",
		Long: `batch renders every file matching the pattern concurrently. Each result is
written next to its input with an .html (or .txt with --text) extension, or
under --out with the directory layout below the pattern's fixed prefix.`,
		Example: `  inkpost batch 'chapters/**/*.txt'
  inkpost batch --out public 'drafts/*.md'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := flags.baseConfig(global)
			if err != nil {
				return err
			}

			n, err := runBatch(cmd.Context(), args[0], base, flags, global)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "rendered %d files\n", n)

			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", "", "directory for the results (default next to each input)")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", runtime.NumCPU(), "files rendered at once")

	return cmd
}

// runBatch renders every match of pattern and returns how many were written.
func runBatch(ctx context.Context, pattern string, base generator.Config, flags *batchFlags, global *globalFlags) (int, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return 0, fmt.Errorf("glob %q: %w", pattern, err)
	}

	root, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	root = filepath.FromSlash(root)

	var written atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(flags.jobs, 1))

	for _, in := range matches {
		dest := outputPath(in, root, flags.outDir, flags.text)
		if dest == in {
			continue
		}

		g.Go(func() error {
			out, err := renderFile(ctx, in, base, &flags.renderFlags, global)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(dest), outDirPerm); err != nil {
				return fmt.Errorf("create %s: %w", filepath.Dir(dest), err)
			}

			if err := os.WriteFile(dest, []byte(out), outputPerm); err != nil {
				return fmt.Errorf("write %s: %w", dest, err)
			}

			written.Add(1)

			log.Info().
				Str("input", in).
				Str("output", dest).
				Msg("Rendered")

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(written.Load()), err
	}

	if written.Load() == 0 {
		return 0, fmt.Errorf("%w: %q", errNoMatches, pattern)
	}

	return int(written.Load()), nil
}

// outputPath swaps the extension of in. With outDir set, the path below root
// is kept so equal names in different directories do not collide.
func outputPath(in, root, outDir string, text bool) string {
	ext := ".html"
	if text {
		ext = ".txt"
	}

	out := strings.TrimSuffix(in, filepath.Ext(in)) + ext
	if outDir == "" {
		return out
	}

	rel, err := filepath.Rel(root, out)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(out)
	}

	return filepath.Join(outDir, rel)
}
