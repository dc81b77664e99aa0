// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package description renders a character description written in markdown into
HTML whose every element carries its own inline style.

Forum editors drop <style> blocks and class attributes, so goldmark's output is
post-processed with goquery to attach style attributes directly. Raw HTML in the
markdown source is not passed through.
*/
package description

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"codeberg.org/inkpost/inkpost/core/style"
)

// headingScale maps heading tags to font sizes relative to the body text.
var headingScale = map[string]string{
	"h1": "1.6em",
	"h2": "1.4em",
	"h3": "1.25em",
	"h4": "1.1em",
	"h5": "1em",
	"h6": "0.95em",
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Options control the inline styles applied to the rendered description.
type Options struct {
	Style  style.Settings
	Accent string              // links, blockquote rule, table borders
	Image  func(string) string // maps image sources; identity when nil
}

// Render converts markdown into inline-styled HTML. Empty input yields "".
func Render(markdown string, opts Options) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert description markdown: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return "", fmt.Errorf("parse description html: %w", err)
	}

	applyStyles(doc, opts)

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serialize description html: %w", err)
	}

	return strings.TrimSpace(out), nil
}

func applyStyles(doc *goquery.Document, opts Options) {
	accent := style.SafeColor(opts.Accent)
	if accent == "" {
		accent = "#888888"
	}

	text := style.Block(opts.Style)

	for tag, size := range headingScale {
		doc.Find(tag).SetAttr("style",
			fmt.Sprintf("margin:0.8em 0 0.4em;font-size:%s;font-weight:700;line-height:1.4;", size))
	}

	doc.Find("p").SetAttr("style", text+"margin:0 0 0.6em;")
	doc.Find("ul, ol").SetAttr("style", "margin:0 0 0.6em;padding-left:1.4em;")
	doc.Find("li").SetAttr("style", text+"margin:0.2em 0;")
	doc.Find("blockquote").SetAttr("style",
		"margin:0 0 0.6em;padding:0.2em 0.8em;border-left:3px solid "+accent+";opacity:0.9;")
	doc.Find("code").SetAttr("style",
		"font-family:monospace;font-size:0.9em;padding:0 0.25em;border-radius:3px;background:rgba(127,127,127,0.15);")
	doc.Find("pre").SetAttr("style",
		"margin:0 0 0.6em;padding:0.6em;overflow-x:auto;border-radius:4px;background:rgba(127,127,127,0.15);")
	doc.Find("a").SetAttr("style", "color:"+accent+";text-decoration:underline;")
	doc.Find("hr").SetAttr("style", "border:0;border-top:1px solid "+accent+";margin:1em 0;")
	doc.Find("table").SetAttr("style", "border-collapse:collapse;margin:0 0 0.6em;")
	doc.Find("th, td").SetAttr("style", "border:1px solid "+accent+";padding:0.25em 0.5em;")

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); ok && opts.Image != nil {
			img.SetAttr("src", opts.Image(src))
		}

		img.SetAttr("style", "max-width:100%;height:auto;")
	})
}
