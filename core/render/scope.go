// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package render

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"codeberg.org/inkpost/inkpost/core/description"
	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/core/imageurl"
	"codeberg.org/inkpost/inkpost/core/markup"
	"codeberg.org/inkpost/inkpost/core/style"
	"codeberg.org/inkpost/inkpost/core/theme"
)

// logNumberSpan bounds chat log numbers to four digits.
const (
	logNumberMin  = 1000
	logNumberSpan = 9000
	seedMix       = 0x9e3779b97f4a7c15
)

// Scope is everything a skeleton slot may read during one render.
type Scope struct {
	Config  generator.Config
	Theme   theme.Theme
	Palette style.Palette
	Accent  string

	// LogNumber is a decorative number derived from Config.Seed.
	LogNumber int

	images      imageurl.Rewriter
	description string
	warnings    []error
}

func newScope(cfg generator.Config, opts Options) *Scope {
	t := opts.Theme
	if t == "" {
		t = theme.Light
	}

	base := style.SafeColor(cfg.Style.BackgroundColor)
	if !strings.HasPrefix(base, "#") {
		base = t.Background()
	}

	accent := style.SafeColor(cfg.AccentColor)
	if accent == "" {
		accent = style.DerivePalette(base).Border
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^seedMix))

	s := &Scope{
		Config:    cfg,
		Theme:     t,
		Palette:   style.DerivePalette(base),
		Accent:    accent,
		LogNumber: logNumberMin + rng.IntN(logNumberSpan),
		images:    imageurl.Rewriter{Target: opts.Target, ProxyBase: opts.ProxyBase},
	}

	if style.SafeColor(cfg.Style.TextColor) == "" {
		s.Config.Style.TextColor = s.Palette.Text
	}

	if cfg.ShowsDescription() {
		desc, err := description.Render(cfg.Profile.Description, description.Options{
			Style:  s.Config.Style,
			Accent: accent,
			Image:  s.images.URL,
		})
		if err != nil {
			s.warnings = append(s.warnings, err)
		}

		s.description = desc
	}

	return s
}

// Image returns the URL to embed for raw under the current target.
func (s *Scope) Image(raw string) string {
	return s.images.URL(raw)
}

// Radius is the configured corner radius as a CSS length.
func (s *Scope) Radius() string {
	return fmt.Sprintf("%dpx", s.Config.BorderRadius)
}

// Width is the configured maximum width as a CSS length.
func (s *Scope) Width() string {
	if s.Config.Width <= 0 {
		return "100%"
	}

	return fmt.Sprintf("%dpx", s.Config.Width)
}

// Font returns the font-family declaration, if any.
func (s *Scope) Font() string {
	if f := style.FontFamily(s.Config.Style.FontFamily); f != "" {
		return "font-family:" + f + ";"
	}

	return ""
}

// Background returns the background image block, or "" when it is gated off.
func (s *Scope) Background(height int) string {
	if !s.Config.ShowsBackground() {
		return ""
	}

	return img(s.Image(s.Config.Profile.BackgroundURL), "",
		fmt.Sprintf("display:block;width:100%%;height:%dpx;object-fit:cover;", height))
}

// ProfileImage returns the profile image block, or "" when it is gated off.
func (s *Scope) ProfileImage(size int, extra string) string {
	if !s.Config.ShowsProfileImage() {
		return ""
	}

	return img(s.Image(s.Config.Profile.ImageURL), s.Config.Profile.Name,
		fmt.Sprintf("width:%dpx;height:%dpx;border-radius:50%%;object-fit:cover;%s", size, size, extra))
}

// Name returns the character name and subtitle lines.
func (s *Scope) Name(align string) string {
	p := s.Config.Profile
	if !s.Config.ShowsProfileSection() || strings.TrimSpace(p.Name) == "" {
		return ""
	}

	out := el("div",
		"margin:0;font-size:1.4em;font-weight:700;line-height:1.3;text-align:"+align+";"+s.Font(),
		esc(p.Name))

	if sub := strings.TrimSpace(p.Subtitle); sub != "" {
		out += el("div",
			"margin:2px 0 0;font-size:0.9em;opacity:0.75;text-align:"+align+";"+s.Font(),
			esc(sub))
	}

	return out
}

// Tags returns the tag row, or "" when it is gated off.
func (s *Scope) Tags(align string) string {
	if !s.Config.ShowsTags() {
		return ""
	}

	var b strings.Builder

	for _, tag := range s.Config.Tags {
		if strings.TrimSpace(tag.Text) == "" {
			continue
		}

		bg := style.SafeColor(tag.Color)
		if bg == "" {
			bg = s.Palette.Surface
		}

		fg := style.SafeColor(tag.TextColor)
		if fg == "" {
			fg = s.Config.Style.TextColor
		}

		b.WriteString(el("span",
			"display:inline-block;margin:0 4px 4px 0;padding:2px 10px;border-radius:999px;font-size:12px;"+
				"background:"+bg+";color:"+fg+";",
			"#"+esc(strings.TrimPrefix(tag.Text, "#"))))
	}

	if b.Len() == 0 {
		return ""
	}

	return el("div", "margin:8px 0 0;text-align:"+align+";", b.String())
}

// Description returns the rendered character description, or "".
func (s *Scope) Description(css string) string {
	if s.description == "" {
		return ""
	}

	return el("div", css, s.description)
}

// Divider returns a horizontal rule when enabled.
func (s *Scope) Divider() string {
	if !s.Config.ShowDivider {
		return ""
	}

	return `<hr style="` + esc("border:0;border-top:1px solid "+s.Palette.Border+";margin:16px 0;") + `">`
}

// Footer returns the footer text block, or "" when it is gated off.
func (s *Scope) Footer(css string) string {
	if !s.Config.ShowsFooter() {
		return ""
	}

	return el("div", css, escLines(s.Config.FooterText))
}

// paragraphSpacer separates paragraphs with an empty line that editors keep.
func (s *Scope) paragraphSpacer() string {
	return el("p", "margin:0;"+style.Base(s.Config.Style), "<br>")
}

// prose renders text as paragraphs of inline-segmented spans.
func (s *Scope) prose(text string) string {
	paragraphs := markup.Paragraphs(text)
	parts := make([]string, 0, len(paragraphs))

	for _, p := range paragraphs {
		parts = append(parts, el("p", style.Block(s.Config.Style)+s.Font(), s.spans(markup.Inline(p), "")))
	}

	return strings.Join(parts, s.paragraphSpacer())
}

// chat renders text as speaker bubbles and narration paragraphs.
func (s *Scope) chat(text string) string {
	var b strings.Builder

	for _, sp := range markup.Chat(text, s.Config.Mode) {
		switch sp.Type {
		case markup.User:
			b.WriteString(s.bubble("right", style.AdjustColor(s.Palette.Surface, s.bubbleShift()),
				s.spans(markup.Inline(sp.Text), markup.User)))
		case markup.AI:
			b.WriteString(s.bubble("left", s.Palette.Surface, s.spans(markup.Inline(sp.Text), markup.AI)))
		case markup.Dialogue:
			b.WriteString(s.bubble("left", s.Palette.Surface, s.spans([]markup.Span{sp}, "")))
		default:
			css := style.Block(s.Config.Style) + s.Font() + "margin:8px 0;"
			if sp.Italic {
				css += "font-style:italic;"
			}

			b.WriteString(el("p", css, s.spans(markup.Inline(sp.Text), "")))
		}
	}

	return b.String()
}

func (s *Scope) bubbleShift() int {
	if style.IsDark(s.Palette.Background) {
		return 12
	}

	return -12
}

func (s *Scope) bubble(side, bg, inner string) string {
	return el("div", "margin:8px 0;text-align:"+side+";",
		el("div",
			"display:inline-block;max-width:80%;padding:10px 14px;text-align:left;"+
				"border-radius:"+s.Radius()+";background:"+bg+";border:1px solid "+s.Palette.Border+";"+s.Font(),
			inner))
}

// spans renders each span with its resolved style. Narration spans take the
// style of speaker instead when speaker is set.
func (s *Scope) spans(spans []markup.Span, speaker markup.SpanType) string {
	var b strings.Builder

	emphasis := style.Emphasis(s.Config.Style)

	for _, sp := range spans {
		t := sp.Type
		if t == markup.Narration && speaker != "" {
			t = speaker
		}

		inner := esc(sp.Open) + markup.Emphasize(esc(sp.Text), emphasis) + esc(sp.Close)
		b.WriteString(el("span", style.Resolve(t, s.Config.Style), strings.ReplaceAll(inner, "\n", "<br>")))
	}

	return b.String()
}
