// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package markup

// SpanType classifies a run of text.
type SpanType string

const (
	Narration SpanType = "narration"
	Dialogue  SpanType = "dialogue"
	Thought   SpanType = "thought"
	User      SpanType = "user"
	AI        SpanType = "ai"
)

// Span is a classified run of text.
//
// Open and Close hold the quote characters that delimited Text in inline
// segmentation; they are empty for spans produced by line-based segmentation.
//
// Italic marks a span whose whole text was wrapped in *…* and is set in italics.
type Span struct {
	Type   SpanType
	Text   string
	Open   string
	Close  string
	Italic bool
}

// Mode selects the chat segmentation convention.
type Mode string

const (
	// ModeAuto classifies lines by whether they are fully quoted.
	ModeAuto Mode = "auto"
	// ModePrefix classifies lines by USER:/AI:/-/* prefixes.
	ModePrefix Mode = "prefix"
)

// ParseMode returns the Mode named by s, defaulting to ModeAuto.
func ParseMode(s string) Mode {
	if Mode(s) == ModePrefix {
		return ModePrefix
	}

	return ModeAuto
}
