// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package export builds the clipboard payload: rich HTML plus a plain-text
// fallback for targets that refuse HTML.
package export

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blankRunRegex matches three or more newlines, possibly with spaces between.
var blankRunRegex = regexp.MustCompile(`\n[ \t]*(\n[ \t]*)+\n`)

// Payload is what a clipboard write receives.
type Payload struct {
	HTML string `json:"html"`
	Text string `json:"text"`
}

// New builds a payload from rendered HTML.
func New(rendered string) Payload {
	return Payload{HTML: rendered, Text: PlainText(rendered)}
}

// PlainText extracts readable text from rendered HTML. Block elements and
// <br> become line breaks, entities are decoded, images are replaced with
// their alt text, and runs of blank lines collapse to one.
func PlainText(rendered string) string {
	var b strings.Builder

	z := html.NewTokenizer(strings.NewReader(rendered))

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF, or malformed input: keep what was extracted so far.
			return finish(b.String())

		case html.TextToken:
			b.Write(z.Text())

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()

			switch tok.DataAtom {
			case atom.Br:
				b.WriteByte('\n')
			case atom.Hr:
				b.WriteString("\n----\n")
			case atom.Img:
				if alt := attr(tok, "alt"); alt != "" {
					b.WriteString("[" + alt + "]")
				}
			case atom.Li:
				if !strings.HasSuffix(b.String(), "\n") {
					b.WriteByte('\n')
				}

				b.WriteString("- ")
			default:
				if isBlock(tok.DataAtom) {
					b.WriteByte('\n')
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if isBlock(atom.Lookup(name)) {
				b.WriteByte('\n')
			}

		case html.CommentToken, html.DoctypeToken:
		}
	}
}

func finish(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}

	s = strings.Join(lines, "\n")
	s = blankRunRegex.ReplaceAllString(s, "\n\n")

	return strings.Trim(s, "\n ")
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Blockquote, atom.Pre, atom.Ul, atom.Ol,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Table, atom.Tr:
		return true
	default:
		return false
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}

	return ""
}
