// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package markup

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// paragraphBreakRegex matches one or more blank lines.
	paragraphBreakRegex = regexp.MustCompile(`\n[ \t\p{Zs}]*\n\s*`)

	// inlineQuoteRegex matches the shortest run between a quote and its closing
	// partner. Quotes do not nest; an opening quote without a partner is not matched.
	inlineQuoteRegex = regexp.MustCompile(`"[^"]*"|“[^”]*”|'[^']*'|‘[^’]*’`)

	// speakerPrefixRegex matches a USER: or AI: line prefix, either colon width.
	speakerPrefixRegex = regexp.MustCompile(`^(?i)(user|ai)[ \t]*[:：][ \t]*`)
)

// dialogueQuotes lists the opening/closing pairs that mark a whole line as
// dialogue in auto mode.
var dialogueQuotes = [][2]string{
	{`"`, `"`},
	{"“", "”"},
	{"＂", "＂"},
}

// Normalize converts line endings to \n and trims trailing whitespace.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	return strings.TrimRight(text, " \t\n")
}

// Paragraphs splits text on blank lines, dropping empty paragraphs.
func Paragraphs(text string) []string {
	text = strings.TrimLeft(Normalize(text), "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []string

	for _, p := range paragraphBreakRegex.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}

	return out
}

// Inline splits a paragraph into narration, dialogue and thought spans.
//
// Dialogue and thought spans carry the text between the quotes; the quotes
// themselves are kept in Open and Close.
func Inline(paragraph string) []Span {
	var spans []Span

	last := 0

	for _, loc := range inlineQuoteRegex.FindAllStringIndex(paragraph, -1) {
		if loc[0] > last {
			spans = append(spans, Span{Type: Narration, Text: paragraph[last:loc[0]]})
		}

		quoted := paragraph[loc[0]:loc[1]]
		open, openSize := utf8.DecodeRuneInString(quoted)
		closing, closeSize := utf8.DecodeLastRuneInString(quoted)

		spanType := Dialogue
		if open == '\'' || open == '‘' {
			spanType = Thought
		}

		spans = append(spans, Span{
			Type:  spanType,
			Text:  quoted[openSize : len(quoted)-closeSize],
			Open:  string(open),
			Close: string(closing),
		})

		last = loc[1]
	}

	if last < len(paragraph) {
		spans = append(spans, Span{Type: Narration, Text: paragraph[last:]})
	}

	return spans
}

// Chat segments chat text with the given mode.
func Chat(text string, mode Mode) []Span {
	if mode == ModePrefix {
		return Prefix(text)
	}

	return Auto(text)
}

// Prefix segments text in prefix mode.
//
// A line starting with USER: or AI: opens a speaker block, and one starting with
// - or * opens a narration block. Other lines continue the open block, or open a
// narration block if there is none. Blank lines close the open block.
//
// The USER:/AI: prefix and the - or * marker are removed from the span text. A
// line wrapped in *…* loses both asterisks and opens an Italic narration span;
// a plain line after it starts a new narration span. Lines starting with ** are
// bold markup, not a marker, and are left to [Emphasize].
func Prefix(text string) []Span {
	var (
		spans []Span
		cur   *Span
	)

	flush := func() {
		if cur != nil {
			spans = append(spans, *cur)
			cur = nil
		}
	}

	open := func(sp Span) {
		flush()

		cur = &sp
	}

	for _, line := range strings.Split(Normalize(text), "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flush()

		case speakerPrefixRegex.MatchString(trimmed):
			m := speakerPrefixRegex.FindStringSubmatch(trimmed)

			speaker := User
			if strings.EqualFold(m[1], "ai") {
				speaker = AI
			}

			open(Span{Type: speaker, Text: trimmed[len(m[0]):]})

		case strings.HasPrefix(trimmed, "-"):
			open(Span{Type: Narration, Text: strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))})

		case strings.HasPrefix(trimmed, "**"):
			open(Span{Type: Narration, Text: trimmed})

		case strings.HasPrefix(trimmed, "*"):
			open(narrationMarker(trimmed))

		case cur != nil && cur.Italic:
			open(Span{Type: Narration, Text: trimmed})

		case cur != nil:
			cur.Text += "\n" + trimmed

		default:
			open(Span{Type: Narration, Text: trimmed})
		}
	}

	flush()

	return spans
}

// narrationMarker strips the * marker from a narration line. A line wrapped in
// a single pair of asterisks is italic as a whole. When the opening * pairs
// with one inside the line, as in "*sits* down", it is emphasis and stays.
func narrationMarker(line string) Span {
	body := line[1:]

	if inner, ok := strings.CutSuffix(body, "*"); ok && strings.TrimSpace(inner) != "" && !strings.Contains(inner, "*") {
		return Span{Type: Narration, Text: strings.TrimSpace(inner), Italic: true}
	}

	if strings.Contains(body, "*") {
		return Span{Type: Narration, Text: line}
	}

	return Span{Type: Narration, Text: strings.TrimSpace(body)}
}

// Auto segments text in auto mode.
//
// Fully quoted lines are dialogue, other lines narration. Consecutive lines of
// the same type merge into one span; a blank line or a change of type ends it.
// Dialogue text keeps its quotes.
func Auto(text string) []Span {
	var (
		spans []Span
		cur   *Span
	)

	flush := func() {
		if cur != nil {
			spans = append(spans, *cur)
			cur = nil
		}
	}

	for _, line := range strings.Split(Normalize(text), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()

			continue
		}

		lineType := Narration
		if isFullyQuoted(trimmed) {
			lineType = Dialogue
		}

		if cur != nil && cur.Type == lineType {
			cur.Text += "\n" + trimmed

			continue
		}

		flush()

		cur = &Span{Type: lineType, Text: trimmed}
	}

	flush()

	return spans
}

func isFullyQuoted(line string) bool {
	for _, q := range dialogueQuotes {
		if len(line) >= len(q[0])+len(q[1]) &&
			strings.HasPrefix(line, q[0]) &&
			strings.HasSuffix(line, q[1]) {
			return true
		}
	}

	return false
}
