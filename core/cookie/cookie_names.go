// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
This package defines the cookie names used by this application.
*/
package cookie

type CookieName string

// Editor preference cookies. None of them carry secrets.
const (
	LangCookie       CookieName = "Lang"      // i18n locale
	ThemeCookie      CookieName = "Theme"     // light, dark or system
	GeneratorCookie  CookieName = "Generator" // last generator opened in the editor
	ImageProxyCookie CookieName = "ImageProxy"
)

// ClientCookie holds the signed client identifier that namespaces stored
// configs. It is issued by the server, so resetting preferences keeps it.
const ClientCookie CookieName = "Client"

// AllCookieNames defines all cookies that can be set by the user.
var AllCookieNames = []CookieName{
	LangCookie,
	ThemeCookie,
	GeneratorCookie,
	ImageProxyCookie,
}

// IsHttpOnly reports whether page scripts may not read the cookie.
//
// The editor script reads Theme to avoid a flash of the wrong theme, so only
// ImageProxy and Client are hidden from it.
func IsHttpOnly(name CookieName) bool {
	return name == ImageProxyCookie || name == ClientCookie
}
