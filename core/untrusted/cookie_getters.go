// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"
	"net/url"
	"strings"

	"codeberg.org/inkpost/inkpost/core/cookie"
	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/core/theme"
)

// PrefersColorSchemeHeader is the user agent client hint carrying the system theme.
const PrefersColorSchemeHeader = "Sec-CH-Prefers-Color-Scheme"

// GetTheme resolves the page theme from the client hint and the Theme cookie.
func GetTheme(r *http.Request) theme.Theme {
	system := theme.ParsePreference(r.Header.Get(PrefersColorSchemeHeader))
	override := theme.ParseOverride(GetCookie(r, cookie.ThemeCookie))

	return theme.Resolve(system, override)
}

// GetGenerator returns the generator last opened by the user, or fallback
// when the cookie is missing or names no generator.
func GetGenerator(r *http.Request, fallback string) string {
	if name := GetCookie(r, cookie.GeneratorCookie); generator.Known(name) {
		return name
	}

	return fallback
}

// GetImageProxy returns the user's preview image proxy prefix, or fallback
// unless the cookie holds an absolute https URL.
func GetImageProxy(r *http.Request, fallback string) string {
	value := GetCookie(r, cookie.ImageProxyCookie)
	if value == "" {
		return fallback
	}

	u, err := url.Parse(value)
	if err != nil || u.Scheme != "https" || u.Host == "" || strings.ContainsAny(value, "\"'<> ") {
		return fallback
	}

	return value
}
