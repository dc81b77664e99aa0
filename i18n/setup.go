// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/inkpost/inkpost/server/assets"
)

// poDomain is the gettext domain loaded for each locale.
const poDomain = "inkpost"

var (
	// localesByTag maps canonical BCP 47 tags to their loaded catalogs.
	localesByTag map[string]*gotext.Locale

	// supportedTags lists the base tag, the source language, then every loaded locale.
	supportedTags []language.Tag

	matcher language.Matcher
)

// Setup loads every po/<locale>.po catalog from assets.FS and builds the
// language matcher. File names may use hyphens or underscores ("zh-TW.po",
// "zh_TW.po"); the template po/inkpost.pot is skipped.
//
// The base locale is the matcher's fallback. English, the msgid language, is
// always supported even without a catalog.
//
// Calling Setup again replaces the previously loaded locales.
func Setup() error {
	Logger = log.With().Str("sys", "i18n").Logger()

	if assets.FS == nil {
		return fmt.Errorf("i18n: %w: assets.FS is not set", fs.ErrNotExist)
	}

	entries, err := fs.ReadDir(assets.FS, "po")
	if err != nil {
		return fmt.Errorf("failed to read po directory: %w", err)
	}

	loaded := make(map[string]*gotext.Locale)
	tags := []language.Tag{baseTag, sourceTag}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".po" {
			continue
		}

		t, err := language.Parse(strings.ReplaceAll(strings.TrimSuffix(name, ".po"), "_", "-"))
		if err != nil {
			Logger.Warn().Err(err).Str("file", name).Msg("Skipping invalid locale file")

			continue
		}

		po := gotext.NewPoFS(assets.FS)
		po.ParseFile(path.Join("po", name))

		canonical := t.String()

		loc := gotext.NewLocale("", canonical)
		loc.AddTranslator(poDomain, po)

		loaded[canonical] = loc

		if t != baseTag && t != sourceTag {
			tags = append(tags, t)
		}

		Logger.Info().
			Str("locale", canonical).
			Str("domain", poDomain).
			Msg("Loaded locale")
	}

	if _, ok := loaded[baseTag.String()]; !ok {
		Logger.Warn().Str("locale", BaseLocale).Msg("No catalog for the base locale, falling back to English msgids")
	}

	localesByTag = loaded
	supportedTags = tags
	matcher = language.NewMatcher(tags)

	return nil
}
