// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package generator

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"

	"codeberg.org/inkpost/inkpost/core/markup"
	"codeberg.org/inkpost/inkpost/core/style"
	"codeberg.org/inkpost/inkpost/core/theme"
)

// Generator names.
const (
	Banner      = "banner"
	Card        = "card"
	Jelly       = "jelly"
	Chatchan    = "chatchan"
	Bookmarklet = "bookmarklet"
	Viewext     = "viewext"
)

var ErrUnknownGenerator = errors.New("unknown generator")

var names = []string{Banner, Card, Jelly, Chatchan, Bookmarklet, Viewext}

// Names lists the generators in display order.
func Names() []string {
	return append([]string(nil), names...)
}

// Known reports whether name is a generator.
func Known(name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}

	return false
}

// Defaults returns the hard-coded defaults for a generator under theme t.
func Defaults(name string, t theme.Theme) (Config, error) {
	c := Config{
		Generator: name,
		Mode:      markup.ModeAuto,
		Style: style.Settings{
			FontFamily:        "'Pretendard', 'Noto Sans KR', sans-serif",
			FontSize:          15,
			LineHeight:        1.8,
			TextColor:         t.Text(),
			BackgroundColor:   t.Background(),
			QuoteColorEnabled: true,
			QuoteColor:        "#3d7eff",
			ThoughtColor:      "#8a8f98",
			SingleQuoteItalic: true,
			HighlightColor:    "#e5a000",
			EmphasisColor:     "#e0245e",
			UserColor:         "#1f8f5f",
			AIColor:           "#3d7eff",
		},
		AccentColor:  "#3d7eff",
		BorderRadius: 12,
		Width:        720,
		ShowDivider:  true,
	}

	switch name {
	case Banner:
		c.Profile.ShowBackground = true
		c.BorderRadius = 8

	case Card:
		c.Profile.ShowImage = true
		c.Profile.ShowDescription = true
		c.ShowTags = true
		c.AccentColor = "#6c5ce7"
		c.Style.QuoteColor = "#6c5ce7"
		c.BorderRadius = 16

	case Jelly:
		c.Profile.ShowImage = true
		c.AccentColor = "#ff8fb1"
		c.BorderRadius = 24
		c.Style.QuoteColor = "#ff6f9f"
		c.Style.QuoteGradientEnabled = true
		c.Style.QuoteGradientColor = "#a78bfa"
		c.Style.BoldEnabled = true

	case Chatchan:
		c.Profile.ShowImage = true
		c.AccentColor = "#4f7cff"
		c.Style.LineHeight = 1.6
		c.Width = 640

	case Bookmarklet:
		c.HideProfileSection = true
		c.ShowDivider = false
		c.Style.FontSize = 14
		c.BorderRadius = 0

	case Viewext:
		c.Profile.ShowImage = true
		c.ShowTags = true
		c.AccentColor = "#2bb3a3"
		c.Style.QuoteColor = "#2bb3a3"
		c.Width = 900

	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownGenerator, name)
	}

	return c, nil
}

// DecodeJSON merges a JSON-encoded config over the defaults for name.
// Fields missing from data keep their default values.
func DecodeJSON(name string, data []byte, t theme.Theme) (Config, error) {
	c, err := Defaults(name, t)
	if err != nil {
		return Config{}, err
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("decode %s config: %w", name, err)
		}
	}

	c.Generator = name

	return c.Normalize(), nil
}

// DecodeYAML merges a YAML-encoded config over the defaults for name.
//
// The document is converted to JSON first so nested structs merge field by
// field exactly as in [DecodeJSON].
func DecodeYAML(name string, data []byte, t theme.Theme) (Config, error) {
	if len(data) == 0 {
		return DecodeJSON(name, nil, t)
	}

	js, err := yaml.YAMLToJSON(data)
	if err != nil {
		return Config{}, fmt.Errorf("decode %s preset: %w", name, err)
	}

	return DecodeJSON(name, js, t)
}
