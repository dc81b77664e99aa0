// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package render is the templating engine shared by all generators.

A render takes a [generator.Config] and [Options] and produces one HTML string
that uses inline style attributes only. Each generator contributes a [Skeleton]:
slot functions for the outer wrapper, the profile header, each section, the
spacer between sections and the footer. Segmentation and styling of the text
itself is the same for every generator.

The profile header belongs to the first section only. Preview and export
renders differ in image URLs and nothing else.
*/
package render
