// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package markup turns raw post text into typed spans.

Three conventions are recognised:

  - Prose: paragraphs separated by blank lines, with "double quoted" runs as dialogue
    and 'single quoted' runs as inner thought. See [Inline].
  - Chat, prefix mode: lines starting with USER: or AI: open speaker blocks, lines
    starting with - or * are narration. See [Prefix].
  - Chat, auto mode: lines fully wrapped in double quotes are dialogue, everything
    else narration. See [Auto].

Word replacements ([Replace]) run before segmentation and markdown-like emphasis
([Emphasize]) runs after the span text has been escaped.
*/
package markup
