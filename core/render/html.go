// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package render

import (
	"strings"

	"github.com/a-h/templ"
)

// esc escapes s for use in text or a double-quoted attribute value.
func esc(s string) string {
	return templ.EscapeString(s)
}

// escLines escapes s and turns newlines into <br>.
func escLines(s string) string {
	return strings.ReplaceAll(esc(s), "\n", "<br>")
}

// el wraps inner in a tag carrying an inline style.
func el(tag, css, inner string) string {
	return "<" + tag + ` style="` + esc(css) + `">` + inner + "</" + tag + ">"
}

// img returns a self-contained image tag. src must already be rewritten.
func img(src, alt, css string) string {
	return `<img src="` + esc(src) + `" alt="` + esc(alt) + `" style="` + esc(css) + `">`
}
