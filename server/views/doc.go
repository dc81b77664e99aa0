// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package views holds the HTML pages served by the editor as templ components.

The pages are written in the .templ files; the *_templ.go files next to them
are generated and must not be edited by hand. After changing a .templ file,
regenerate with:

	go tool templ generate

Text and attribute values are escaped by templ. The only markup written
unescaped is render output, which the render package already escapes span by
span.
*/
package views
