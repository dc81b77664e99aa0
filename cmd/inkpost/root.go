// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"codeberg.org/inkpost/inkpost/core/audit"
	"codeberg.org/inkpost/inkpost/core/theme"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbosity   int
	presetsPath string
	theme       string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "inkpost",
		Short: "Render prose into styled HTML for forum posts",
		Long: `inkpost renders text files with the same generators as the web editor.

Generator presets are read from a YAML file keyed by generator name, by default
$XDG_CONFIG_HOME/inkpost/presets.yaml.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			audit.SetDefaultLogger()
			zerolog.SetGlobalLevel(levelFor(flags.verbosity))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG)")
	cmd.PersistentFlags().StringVar(&flags.presetsPath, "presets", "", "presets file (default is $XDG_CONFIG_HOME/inkpost/presets.yaml)")
	cmd.PersistentFlags().StringVar(&flags.theme, "theme", string(theme.Light), "colour scheme filling colours a preset leaves empty (light or dark)")

	cmd.AddCommand(newRenderCmd(flags), newBatchCmd(flags), newGeneratorsCmd(flags))

	return cmd
}

func levelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity >= 2:
		return zerolog.DebugLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	default:
		return zerolog.WarnLevel
	}
}

func (f *globalFlags) resolvedTheme() theme.Theme {
	return theme.Resolve(theme.NoPreference, theme.Override(f.theme))
}
