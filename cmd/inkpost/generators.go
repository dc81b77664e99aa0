// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"codeberg.org/inkpost/inkpost/core/generator"
)

func newGeneratorsCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "generators [name]",
		Short: "List generators, or print one generator's effective config as YAML",
		Long: `Without arguments, generators prints every generator name. With a name, it
prints that generator's defaults merged with its preset, ready to copy into the
presets file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				for _, name := range generator.Names() {
					if _, err := fmt.Fprintln(out, name); err != nil {
						return err
					}
				}

				return nil
			}

			name := args[0]
			if !generator.Known(name) {
				return fmt.Errorf("%w: %q", generator.ErrUnknownGenerator, name)
			}

			p, err := loadPresets(global.presetsPath)
			if err != nil {
				return err
			}

			cfg, err := p.config(name, global.resolvedTheme())
			if err != nil {
				return err
			}

			encoded, err := yaml.Marshal(map[string]generator.Config{name: cfg})
			if err != nil {
				return fmt.Errorf("encode %s config: %w", name, err)
			}

			_, err = out.Write(encoded)

			return err
		},
	}
}
