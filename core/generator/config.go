// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package generator

import (
	"regexp"
	"strings"

	"codeberg.org/inkpost/inkpost/core/imageurl"
	"codeberg.org/inkpost/inkpost/core/markup"
	"codeberg.org/inkpost/inkpost/core/style"
)

// Bounds applied by [Config.Normalize].
const (
	MinFontSize   = 8
	MaxFontSize   = 48
	MinLineHeight = 1.0
	MaxLineHeight = 3.0
	MinWidth      = 240
	MaxWidth      = 1600
	MaxSections   = 64
	MaxTags       = 32
)

// markdownDataImageRegex matches markdown images whose source is a data: URL.
var markdownDataImageRegex = regexp.MustCompile(`!\[[^\]]*\]\(\s*data:[^)]*\)`)

// Section is one independently edited block of input text.
type Section struct {
	ID      string `json:"id"      yaml:"id"`
	Content string `json:"content" yaml:"content"`
}

// Tag is a coloured label shown under the profile.
type Tag struct {
	Text      string `json:"text"      yaml:"text"`
	Color     string `json:"color"     yaml:"color"`
	TextColor string `json:"textColor" yaml:"textColor"`
}

// Profile is the character header shown above the first section.
type Profile struct {
	Name     string `json:"name"     yaml:"name"`
	Subtitle string `json:"subtitle" yaml:"subtitle"`

	ImageURL  string `json:"imageUrl"         yaml:"imageUrl"`
	ShowImage bool   `json:"showProfileImage" yaml:"showProfileImage"`

	BackgroundURL  string `json:"backgroundUrl"  yaml:"backgroundUrl"`
	ShowBackground bool   `json:"showBackground" yaml:"showBackground"`

	Description     string `json:"description"     yaml:"description"` // markdown
	ShowDescription bool   `json:"showDescription" yaml:"showDescription"`
}

// Config is the complete, flat set of options for one generator.
//
// Content is a convenience for single-section documents; when Sections is
// non-empty it is ignored.
type Config struct {
	Generator string `json:"generator" yaml:"generator"`

	Content          string                   `json:"content"          yaml:"content"`
	Sections         []Section                `json:"sections"         yaml:"sections"`
	WordReplacements []markup.WordReplacement `json:"wordReplacements" yaml:"wordReplacements"`
	Mode             markup.Mode              `json:"mode"             yaml:"mode"`

	Style style.Settings `json:"style" yaml:"style"`

	Profile            Profile `json:"profile"            yaml:"profile"`
	HideProfileSection bool    `json:"hideProfileSection" yaml:"hideProfileSection"`

	Tags     []Tag `json:"tags"     yaml:"tags"`
	ShowTags bool  `json:"showTags" yaml:"showTags"`

	AccentColor  string `json:"accentColor"  yaml:"accentColor"`
	BorderRadius int    `json:"borderRadius" yaml:"borderRadius"`
	Width        int    `json:"width"        yaml:"width"` // px
	ShowDivider  bool   `json:"showDivider"  yaml:"showDivider"`

	FooterText string `json:"footerText" yaml:"footerText"`
	ShowFooter bool   `json:"showFooter" yaml:"showFooter"`

	// Seed makes decorative numbers (chat log numbers) reproducible.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// ShowsProfileSection reports whether any profile chrome may be shown.
func (c Config) ShowsProfileSection() bool {
	return !c.HideProfileSection
}

// ShowsProfileImage reports whether the profile image block is emitted.
func (c Config) ShowsProfileImage() bool {
	return c.ShowsProfileSection() && c.Profile.ShowImage && strings.TrimSpace(c.Profile.ImageURL) != ""
}

// ShowsBackground reports whether the background image block is emitted.
func (c Config) ShowsBackground() bool {
	return c.ShowsProfileSection() && c.Profile.ShowBackground && strings.TrimSpace(c.Profile.BackgroundURL) != ""
}

// ShowsTags reports whether the tag row is emitted.
func (c Config) ShowsTags() bool {
	return c.ShowsProfileSection() && c.ShowTags && len(c.Tags) > 0
}

// ShowsDescription reports whether the character description is emitted.
func (c Config) ShowsDescription() bool {
	return c.ShowsProfileSection() && c.Profile.ShowDescription && strings.TrimSpace(c.Profile.Description) != ""
}

// ShowsFooter reports whether the footer is emitted.
func (c Config) ShowsFooter() bool {
	return c.ShowFooter && strings.TrimSpace(c.FooterText) != ""
}

// Texts returns the content of each section in order.
func (c Config) Texts() []string {
	if len(c.Sections) == 0 {
		return []string{c.Content}
	}

	texts := make([]string, len(c.Sections))
	for i, s := range c.Sections {
		texts[i] = s.Content
	}

	return texts
}

// WithoutDataURLs returns a copy with inline data: images removed.
func (c Config) WithoutDataURLs() Config {
	if imageurl.IsDataURL(c.Profile.ImageURL) {
		c.Profile.ImageURL = ""
	}

	if imageurl.IsDataURL(c.Profile.BackgroundURL) {
		c.Profile.BackgroundURL = ""
	}

	c.Profile.Description = markdownDataImageRegex.ReplaceAllString(c.Profile.Description, "")

	return c
}

// WithoutImages returns a copy with every image URL removed.
func (c Config) WithoutImages() Config {
	c.Profile.ImageURL = ""
	c.Profile.BackgroundURL = ""

	return c
}

// Normalize clamps numeric options into range and caps list lengths.
func (c Config) Normalize() Config {
	s := &c.Style

	if s.FontSize != 0 {
		s.FontSize = min(max(s.FontSize, MinFontSize), MaxFontSize)
	}

	if s.LineHeight != 0 {
		s.LineHeight = min(max(s.LineHeight, MinLineHeight), MaxLineHeight)
	}

	if c.Width != 0 {
		c.Width = min(max(c.Width, MinWidth), MaxWidth)
	}

	c.BorderRadius = max(c.BorderRadius, 0)
	c.Mode = markup.ParseMode(string(c.Mode))

	if len(c.Sections) > MaxSections {
		c.Sections = c.Sections[:MaxSections]
	}

	if len(c.Tags) > MaxTags {
		c.Tags = c.Tags[:MaxTags]
	}

	return c
}

// ContentSize is the total length of all section text in bytes.
func (c Config) ContentSize() int {
	n := 0
	for _, t := range c.Texts() {
		n += len(t)
	}

	return n
}
