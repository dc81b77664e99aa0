// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n translates the editor UI with GNU gettext .po catalogs.

Message ids are the English UI text; do not invent keys:

	i18n.Tr(ctx, "Copy HTML")
	i18n.TrC(ctx, "button", "Save")
	i18n.TrN(ctx, "{{.Count}} section", "{{.Count}} sections", n, "Count", n)

The base locale is Korean, the language of the forums InkPost posts to.
English needs no catalog because msgids are already English.

# Missing translations

A missing translation returns the msgid unchanged. With StrictMissingKeys,
each missing (locale, msgid) pair is logged once and the text is wrapped as
"⟦...⟧".

# Formatting

Placeholders use text/template syntax with alternating key-value pairs:

	i18n.Tr(ctx, "Saved {{.Name}} without images", "Name", name)

# User-facing errors

[UserError] carries a translated message that handlers can show verbatim,
for example as the warning of a degraded save.
*/
package i18n
