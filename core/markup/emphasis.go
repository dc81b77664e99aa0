// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package markup

import (
	"regexp"
	"strings"
)

var (
	// boldItalicRegex matches ***text***.
	boldItalicRegex = regexp.MustCompile(`\*\*\*([^*\n]+?)\*\*\*`)

	// boldRegex matches **text**.
	boldRegex = regexp.MustCompile(`\*\*([^*\n]+?)\*\*`)

	// italicRegex matches *text*.
	italicRegex = regexp.MustCompile(`\*([^*\n]+?)\*`)

	// highlightRegex matches ^text^.
	highlightRegex = regexp.MustCompile(`\^([^^\n]+?)\^`)

	// emphasisRegex matches $text$.
	emphasisRegex = regexp.MustCompile(`\$([^$\n]+?)\$`)
)

// EmphasisStyles holds the CSS declarations used for ^highlight^ and $emphasis$.
type EmphasisStyles struct {
	Highlight string
	Emphasis  string
}

// Emphasize rewrites markdown-like emphasis in already escaped text into
// inline-styled spans. Unpaired markers are left untouched.
func Emphasize(escaped string, styles EmphasisStyles) string {
	if !strings.ContainsAny(escaped, "*^$") {
		return escaped
	}

	out := boldItalicRegex.ReplaceAllString(escaped, `<span style="font-weight:bold;font-style:italic;">${1}</span>`)
	out = boldRegex.ReplaceAllString(out, `<span style="font-weight:bold;">${1}</span>`)
	out = italicRegex.ReplaceAllString(out, `<span style="font-style:italic;">${1}</span>`)
	out = highlightRegex.ReplaceAllString(out, `<span style="`+escapeTemplate(styles.Highlight)+`">${1}</span>`)
	out = emphasisRegex.ReplaceAllString(out, `<span style="`+escapeTemplate(styles.Emphasis)+`">${1}</span>`)

	return out
}

// escapeTemplate protects literal dollar signs in a replacement template.
func escapeTemplate(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
