// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package theme resolves the active light/dark theme.

The theme is an ordinary value: it is computed once per request by [Resolve]
and passed explicitly to whatever needs it (generator defaults, the editor
page). Nothing in this package reads or writes global state.
*/
package theme

import "strings"

// Theme is the active colour scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Preference is what the user agent reports about the system colour scheme.
type Preference string

const (
	NoPreference Preference = ""
	PrefersLight Preference = "light"
	PrefersDark  Preference = "dark"
)

// Override is the user's explicit choice in the UI.
type Override string

const (
	FollowSystem Override = "system"
	ForceLight   Override = "light"
	ForceDark    Override = "dark"
)

// Resolve maps the system preference and user override to the active theme.
// An explicit override wins; otherwise the system preference is followed,
// and Light is used when the system says nothing.
func Resolve(system Preference, override Override) Theme {
	switch override {
	case ForceLight:
		return Light
	case ForceDark:
		return Dark
	case FollowSystem:
	}

	if system == PrefersDark {
		return Dark
	}

	return Light
}

// ParsePreference reads a Sec-CH-Prefers-Color-Scheme style value.
func ParsePreference(s string) Preference {
	switch strings.Trim(strings.ToLower(strings.TrimSpace(s)), `"`) {
	case "dark":
		return PrefersDark
	case "light":
		return PrefersLight
	default:
		return NoPreference
	}
}

// ParseOverride reads a stored override, treating unknown values as FollowSystem.
func ParseOverride(s string) Override {
	switch Override(strings.ToLower(strings.TrimSpace(s))) {
	case ForceLight:
		return ForceLight
	case ForceDark:
		return ForceDark
	default:
		return FollowSystem
	}
}

// Background is the default page background for t.
func (t Theme) Background() string {
	if t == Dark {
		return "#1e1f24"
	}

	return "#ffffff"
}

// Text is the default body text colour for t.
func (t Theme) Text() string {
	if t == Dark {
		return "#e6e6e6"
	}

	return "#333333"
}
