// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"slices"

	"golang.org/x/text/language"
)

// BaseLocale is the locale used when nothing better matches.
const BaseLocale = "ko"

var (
	// baseTag is the canonical tag for BaseLocale.
	baseTag = language.Make(BaseLocale)

	// sourceTag is the language msgids are written in. It needs no catalog.
	sourceTag = language.English
)

// Languages returns the supported language tags sorted by tag string.
// The returned slice is a copy.
//
// Setup must be called successfully before using Languages; otherwise it panics.
func Languages() []language.Tag {
	if matcher == nil {
		panic("i18n: Setup must be called before calling Languages")
	}

	out := slices.Clone(supportedTags)
	slices.SortFunc(out, func(a, b language.Tag) int {
		return compareStrings(a.String(), b.String())
	})

	return out
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// isSource reports whether t resolves to the msgid language.
func isSource(t language.Tag) bool {
	base, _ := t.Base()
	src, _ := sourceTag.Base()

	return base == src
}
