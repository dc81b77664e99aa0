// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"codeberg.org/inkpost/inkpost/core/export"
	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/core/imageurl"
	"codeberg.org/inkpost/inkpost/core/markup"
	"codeberg.org/inkpost/inkpost/core/render"
)

// renderFlags select what a render writes.
type renderFlags struct {
	generator string
	mode      string
	preview   bool
	text      bool
	proxy     string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.generator, "generator", "g", generator.Card, "generator to render with")
	cmd.Flags().StringVar(&f.mode, "mode", "", `chat mode: "auto" or "prefix" (default from the preset)`)
	cmd.Flags().BoolVar(&f.preview, "preview", false, "render for preview, with images behind the proxy")
	cmd.Flags().BoolVar(&f.text, "text", false, "write the plain-text version instead of HTML")
	cmd.Flags().StringVar(&f.proxy, "proxy", imageurl.DefaultProxyBase, "image proxy used with --preview")
	cmd.MarkFlagsMutuallyExclusive("preview", "text")
}

// baseConfig resolves the preset for the selected generator.
func (f *renderFlags) baseConfig(global *globalFlags) (generator.Config, error) {
	if !generator.Known(f.generator) {
		return generator.Config{}, fmt.Errorf("%w: %q", generator.ErrUnknownGenerator, f.generator)
	}

	p, err := loadPresets(global.presetsPath)
	if err != nil {
		return generator.Config{}, err
	}

	cfg, err := p.config(f.generator, global.resolvedTheme())
	if err != nil {
		return generator.Config{}, err
	}

	if f.mode != "" {
		cfg.Mode = markup.ParseMode(f.mode)
	}

	return cfg, nil
}

func newRenderCmd(global *globalFlags) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render one file and print the result",
		Example: `  inkpost render story.txt
  inkpost render -g chatchan --mode prefix log.txt > post.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := flags.baseConfig(global)
			if err != nil {
				return err
			}

			out, err := renderFile(cmd.Context(), args[0], base, flags, global)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)

			return err
		},
	}

	flags.register(cmd)

	return cmd
}

// renderFile renders the file at path as the content of base.
func renderFile(ctx context.Context, path string, base generator.Config, flags *renderFlags, global *globalFlags) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	cfg := base
	cfg.Content = string(data)
	cfg.Sections = nil

	opts := render.Options{
		Target:    imageurl.Export,
		Theme:     global.resolvedTheme(),
		RequestID: path,
	}

	if flags.preview {
		opts.Target = imageurl.Preview
		opts.ProxyBase = flags.proxy
	}

	res, err := render.Render(ctx, cfg, opts)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", path, err)
	}

	for _, w := range res.Warnings {
		log.Warn().
			Str("file", path).
			Err(w).
			Msg("Skipped a rule or block")
	}

	if flags.text {
		return export.PlainText(res.HTML), nil
	}

	return res.HTML, nil
}
