// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command inkpost renders prose files to forum HTML without the web editor.
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("inkpost failed")
		os.Exit(1)
	}
}
