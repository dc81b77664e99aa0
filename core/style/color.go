// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package style

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// darkThreshold is the packed RGB value below which a colour counts as dark.
const darkThreshold = 0x888888

// Offsets used when deriving surfaces from a base background.
const (
	surfaceOffset = 20
	borderOffset  = 40
)

// cssColorRegex accepts hex, rgb()/rgba() and bare keyword colours.
var cssColorRegex = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|rgba?\([0-9.,%\s]+\)|[a-zA-Z]{3,20})$`)

// Palette is a set of surface colours derived from one base background.
type Palette struct {
	Background string
	Surface    string // message bubbles, cards
	Border     string
	Text       string
}

// AdjustColor adds offset to each RGB channel of a #rgb or #rrggbb colour,
// clamping channels to [0, 255]. Unparseable input is returned unchanged.
func AdjustColor(hex string, offset int) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return hex
	}

	return fmt.Sprintf("#%02x%02x%02x", clamp(r+offset), clamp(g+offset), clamp(b+offset))
}

// IsDark reports whether a hex colour's packed RGB value is below 0x888888.
// Unparseable input is treated as light.
func IsDark(hex string) bool {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return false
	}

	return r<<16|g<<8|b < darkThreshold
}

// DerivePalette lightens surfaces on dark bases and darkens them on light ones.
func DerivePalette(base string) Palette {
	if IsDark(base) {
		return Palette{
			Background: base,
			Surface:    AdjustColor(base, surfaceOffset),
			Border:     AdjustColor(base, borderOffset),
			Text:       "#e8e8e8",
		}
	}

	return Palette{
		Background: base,
		Surface:    AdjustColor(base, -surfaceOffset),
		Border:     AdjustColor(base, -borderOffset),
		Text:       "#222222",
	}
}

// SafeColor returns c if it is a plain CSS colour value, otherwise "".
func SafeColor(c string) string {
	c = strings.TrimSpace(c)
	if !cssColorRegex.MatchString(c) {
		return ""
	}

	return c
}

func parseHex(hex string) (r, g, b int, ok bool) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")

	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}

	if len(h) != 6 {
		return 0, 0, 0, false
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}

	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func clamp(v int) int {
	return min(max(v, 0), 255)
}
