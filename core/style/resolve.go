// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package style

import (
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/inkpost/inkpost/core/markup"
)

// Settings are the text style options shared by every generator.
type Settings struct {
	FontFamily string  `json:"fontFamily" yaml:"fontFamily"`
	FontSize   int     `json:"fontSize"   yaml:"fontSize"`   // px
	LineHeight float64 `json:"lineHeight" yaml:"lineHeight"` // unitless multiplier

	TextColor       string `json:"textColor"       yaml:"textColor"`
	BackgroundColor string `json:"backgroundColor" yaml:"backgroundColor"`

	QuoteColorEnabled    bool   `json:"quoteColorEnabled"    yaml:"quoteColorEnabled"`
	QuoteColor           string `json:"quoteColor"           yaml:"quoteColor"`
	QuoteGradientEnabled bool   `json:"quoteGradientEnabled" yaml:"quoteGradientEnabled"`
	QuoteGradientColor   string `json:"quoteGradientColor"   yaml:"quoteGradientColor"`
	BoldEnabled          bool   `json:"boldEnabled"          yaml:"boldEnabled"`

	ThoughtColor      string `json:"thoughtColor"      yaml:"thoughtColor"`
	SingleQuoteItalic bool   `json:"singleQuoteItalic" yaml:"singleQuoteItalic"`

	HighlightColor         string `json:"highlightColor"         yaml:"highlightColor"`
	HighlightItalicEnabled bool   `json:"highlightItalicEnabled" yaml:"highlightItalicEnabled"`
	EmphasisColor          string `json:"emphasisColor"          yaml:"emphasisColor"`

	UserColor string `json:"userColor" yaml:"userColor"`
	AIColor   string `json:"aiColor"   yaml:"aiColor"`
}

// Resolve returns the CSS declarations for a span of type t.
//
// Every span carries the shared font size and line height so that mixed
// styles line up.
func Resolve(t markup.SpanType, s Settings) string {
	var b strings.Builder

	b.WriteString(Base(s))

	switch t {
	case markup.Dialogue:
		writeQuoteColor(&b, s)

		if s.BoldEnabled {
			b.WriteString("font-weight:bold;")
		}

	case markup.Thought:
		writeColor(&b, s.ThoughtColor)

		if s.SingleQuoteItalic {
			b.WriteString("font-style:italic;")
		}

	case markup.User:
		writeColor(&b, s.UserColor)

	case markup.AI:
		writeColor(&b, s.AIColor)

	case markup.Narration:
		writeColor(&b, s.TextColor)
	}

	return b.String()
}

// Base returns the size and leading declarations applied to every span.
func Base(s Settings) string {
	var b strings.Builder

	if s.FontSize > 0 {
		fmt.Fprintf(&b, "font-size:%dpx;", s.FontSize)
	}

	if s.LineHeight > 0 {
		b.WriteString("line-height:" + strconv.FormatFloat(s.LineHeight, 'f', -1, 64) + ";")
	}

	return b.String()
}

// Block returns declarations for a paragraph container.
func Block(s Settings) string {
	var b strings.Builder

	b.WriteString("margin:0;")
	b.WriteString(Base(s))

	if family := FontFamily(s.FontFamily); family != "" {
		b.WriteString("font-family:" + family + ";")
	}

	writeColor(&b, s.TextColor)

	return b.String()
}

// Emphasis returns the styles for ^highlight^ and $emphasis$ runs.
func Emphasis(s Settings) markup.EmphasisStyles {
	var hl strings.Builder

	writeColor(&hl, s.HighlightColor)

	if s.HighlightItalicEnabled {
		hl.WriteString("font-style:italic;")
	}

	var em strings.Builder

	writeColor(&em, s.EmphasisColor)
	em.WriteString("font-weight:bold;")

	return markup.EmphasisStyles{Highlight: hl.String(), Emphasis: em.String()}
}

// FontFamily strips characters that could end the declaration or the attribute.
func FontFamily(f string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '"', '<', '>', '{', '}', '\\':
			return -1
		}

		return r
	}, strings.TrimSpace(f))
}

func writeQuoteColor(b *strings.Builder, s Settings) {
	if !s.QuoteColorEnabled {
		return
	}

	from := SafeColor(s.QuoteColor)
	to := SafeColor(s.QuoteGradientColor)

	if s.QuoteGradientEnabled && from != "" && to != "" {
		fmt.Fprintf(b,
			"background:linear-gradient(90deg,%s,%s);-webkit-background-clip:text;background-clip:text;-webkit-text-fill-color:transparent;color:%s;",
			from, to, from)

		return
	}

	writeColor(b, from)
}

func writeColor(b *strings.Builder, c string) {
	if c = SafeColor(c); c != "" {
		b.WriteString("color:" + c + ";")
	}
}
