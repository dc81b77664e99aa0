// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package render

import (
	"strconv"

	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/core/style"
)

func init() {
	Register(bannerSkeleton)
	Register(cardSkeleton)
	Register(jellySkeleton)
	Register(chatchanSkeleton)
	Register(bookmarkletSkeleton)
	Register(viewextSkeleton)
}

// frame is the outer container most skeletons share.
func frame(s *Scope, extra, inner string) string {
	return el("div",
		"max-width:"+s.Width()+";margin:0 auto;box-sizing:border-box;overflow:hidden;"+
			"background:"+s.Palette.Background+";color:"+s.Config.Style.TextColor+";"+
			"border-radius:"+s.Radius()+";"+s.Font()+extra,
		inner)
}

func padded(padding, inner string) string {
	if inner == "" {
		return ""
	}

	return el("div", "padding:"+padding+";", inner)
}

func footerCSS(align string) string {
	return "padding:12px 24px;font-size:12px;opacity:0.7;text-align:" + align + ";"
}

var bannerSkeleton = Skeleton{
	Name: generator.Banner,
	Kind: Prose,
	Wrap: func(s *Scope, inner string) string {
		return frame(s, "border:1px solid "+s.Palette.Border+";", inner)
	},
	Header: func(s *Scope) string {
		row := s.ProfileImage(64, "vertical-align:middle;margin-right:12px;")
		if name := s.Name("left"); name != "" {
			row = el("div", "display:flex;align-items:center;gap:12px;", row+el("div", "", name))
		}

		return s.Background(220) +
			padded("16px 24px 0", row+s.Tags("left")+s.Description("margin:12px 0 0;")) +
			padded("0 24px", s.Divider())
	},
	Section: func(_ *Scope, _ int, body string) string {
		return el("div", "padding:16px 24px;", body)
	},
	Spacer: func(s *Scope) string {
		return el("div", "height:1px;margin:0 24px;background:"+s.Palette.Border+";", "")
	},
	Footer: func(s *Scope) string {
		return s.Footer(footerCSS("right"))
	},
}

var cardSkeleton = Skeleton{
	Name: generator.Card,
	Kind: Prose,
	Wrap: func(s *Scope, inner string) string {
		return frame(s, "border:1px solid "+s.Palette.Border+";box-shadow:0 6px 18px rgba(0,0,0,0.12);", inner)
	},
	Header: func(s *Scope) string {
		head := s.ProfileImage(120, "display:block;margin:0 auto 12px;border:4px solid "+s.Accent+";") +
			s.Name("center") +
			s.Tags("center") +
			s.Description("margin:16px 0 0;padding:12px 16px;border-radius:"+s.Radius()+
				";background:"+s.Palette.Surface+";text-align:left;")

		return s.Background(160) + padded("24px 28px 0", head) + padded("0 28px", s.Divider())
	},
	Section: func(_ *Scope, _ int, body string) string {
		return el("div", "padding:16px 28px;", body)
	},
	Spacer: func(s *Scope) string {
		return el("div", "margin:8px 28px;text-align:center;color:"+s.Accent+";letter-spacing:6px;", "◆◆◆")
	},
	Footer: func(s *Scope) string {
		return s.Footer(footerCSS("center"))
	},
}

var jellySkeleton = Skeleton{
	Name: generator.Jelly,
	Kind: Prose,
	Wrap: func(s *Scope, inner string) string {
		return frame(s, "padding:16px;background:"+style.AdjustColor(s.Palette.Background, jellyTint(s))+";", inner)
	},
	Header: func(s *Scope) string {
		head := s.ProfileImage(96, "display:block;margin:0 auto 10px;border:3px solid "+s.Accent+";") +
			s.Name("center") + s.Tags("center") + s.Description("margin:12px 0 0;")
		if head == "" && !s.Config.ShowsBackground() {
			return ""
		}

		return jellyBlob(s, s.Background(140)+padded("16px 20px", head))
	},
	Section: func(s *Scope, _ int, body string) string {
		return jellyBlob(s, el("div", "padding:18px 22px;", body))
	},
	Spacer: func(s *Scope) string {
		return el("div", "margin:-4px 0 10px;text-align:center;font-size:10px;color:"+s.Accent+";letter-spacing:8px;", "● ● ●")
	},
	Footer: func(s *Scope) string {
		return s.Footer(footerCSS("center"))
	},
}

func jellyBlob(s *Scope, inner string) string {
	return el("div",
		"margin:0 0 14px;overflow:hidden;border-radius:"+s.Radius()+";background:"+s.Palette.Background+";"+
			"border:2px solid "+s.Accent+";box-shadow:0 4px 0 "+s.Accent+";",
		inner)
}

func jellyTint(s *Scope) int {
	if style.IsDark(s.Palette.Background) {
		return 8
	}

	return -8
}

var chatchanSkeleton = Skeleton{
	Name: generator.Chatchan,
	Kind: Chat,
	Wrap: func(s *Scope, inner string) string {
		return frame(s, "border:1px solid "+s.Palette.Border+";", inner)
	},
	Header: func(s *Scope) string {
		title := "LOG #" + strconv.Itoa(s.LogNumber)
		if s.Config.ShowsProfileSection() && s.Config.Profile.Name != "" {
			title = esc(s.Config.Profile.Name) + " · " + title
		}

		bar := el("div",
			"display:flex;align-items:center;gap:10px;padding:10px 16px;font-weight:700;"+
				"background:"+s.Palette.Surface+";border-bottom:1px solid "+s.Palette.Border+";",
			s.ProfileImage(36, "")+el("span", "", title))

		return bar + s.Background(180) + padded("12px 16px 0", s.Tags("left")+s.Description(""))
	},
	Section: func(_ *Scope, _ int, body string) string {
		return el("div", "padding:12px 16px;", body)
	},
	Spacer: func(s *Scope) string {
		return el("div", "margin:4px 16px;text-align:center;font-size:12px;opacity:0.6;", "· · ·")
	},
	Footer: func(s *Scope) string {
		return s.Footer(footerCSS("center") + "border-top:1px solid " + s.Palette.Border + ";")
	},
}

var bookmarkletSkeleton = Skeleton{
	Name: generator.Bookmarklet,
	Kind: Prose,
	Wrap: func(s *Scope, inner string) string {
		return el("div", "max-width:"+s.Width()+";color:"+s.Config.Style.TextColor+";"+s.Font(), inner)
	},
	Header: func(s *Scope) string {
		return s.Background(120) + s.ProfileImage(48, "") + s.Name("left") + s.Tags("left") +
			s.Description("margin:8px 0;") + s.Divider()
	},
	Spacer: func(s *Scope) string {
		return s.paragraphSpacer()
	},
	Footer: func(s *Scope) string {
		return s.Footer("margin-top:12px;font-size:12px;opacity:0.7;")
	},
}

var viewextSkeleton = Skeleton{
	Name: generator.Viewext,
	Kind: Prose,
	Wrap: func(s *Scope, inner string) string {
		return frame(s, "padding:8px 0;", inner)
	},
	Header: func(s *Scope) string {
		side := s.ProfileImage(140, "display:block;border-radius:"+s.Radius()+";")
		info := s.Name("left") + s.Tags("left") + s.Description("margin:10px 0 0;")

		head := ""

		switch {
		case side != "" && info != "":
			head = el("div", "display:flex;gap:20px;align-items:flex-start;",
				el("div", "flex:0 0 auto;", side)+el("div", "flex:1 1 auto;min-width:0;", info))
		default:
			head = side + info
		}

		return s.Background(200) + padded("16px 24px 0", head) + padded("0 24px", s.Divider())
	},
	Section: func(s *Scope, _ int, body string) string {
		return el("div", "margin:12px 24px;padding:8px 16px;border-left:4px solid "+s.Accent+";", body)
	},
	Spacer: func(s *Scope) string {
		return el("div", "margin:0 24px;border-top:1px dashed "+s.Palette.Border+";", "")
	},
	Footer: func(s *Scope) string {
		return s.Footer(footerCSS("right"))
	},
}
