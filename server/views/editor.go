// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"codeberg.org/inkpost/inkpost/core/markup"
)

// LanguageOption is one entry of the language selector.
type LanguageOption struct {
	Tag      string
	Name     string
	Selected bool
}

// EditorData is everything the editor page shows.
type EditorData struct {
	Layout LayoutData

	Generators []string
	Generator  string
	Mode       markup.Mode
	Content    string
	// ConfigJSON is the full config as submitted or loaded, for the advanced field.
	ConfigJSON string

	// Rendered is set once a render has run; the outputs below are empty otherwise.
	Rendered bool
	Preview  string // trusted render output
	Export   string
	Text     string
	Warnings []string // already translated

	Languages  []LanguageOption
	ImageProxy string
}
