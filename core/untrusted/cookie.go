// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"
	"net/url"
	"time"

	"codeberg.org/inkpost/inkpost/core/cookie"
	"codeberg.org/inkpost/inkpost/server/utils"
)

// CookieSameSite keeps preferences on top-level navigations from other sites.
const CookieSameSite = http.SameSiteLaxMode

// Preferences last a year.
const cookieMaxAge = 365 * 24 * time.Hour

// cookieExpireDelete is any instant in the past.
var cookieExpireDelete = time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC)

func newCookie(name cookie.CookieName, value string, expires time.Time, isSecure bool) http.Cookie {
	return http.Cookie{
		Name:     string(name),
		Value:    value,
		Path:     "/",
		Expires:  expires,
		Secure:   isSecure,
		HttpOnly: cookie.IsHttpOnly(name),
		SameSite: CookieSameSite,
	}
}

// GetCookie returns the unescaped cookie value, or "" when missing or malformed.
func GetCookie(r *http.Request, name cookie.CookieName) string {
	c, err := r.Cookie(string(name))
	if err != nil {
		return ""
	}

	value, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}

	return value
}

// SetCookie stores value, or clears the cookie when value is empty.
func SetCookie(w http.ResponseWriter, r *http.Request, name cookie.CookieName, value string) {
	if value == "" {
		ClearCookie(w, r, name)

		return
	}

	http.SetCookie(w, NewCookie(r, name, value))
}

// NewCookie builds the cookie SetCookie would set, for responses that are not
// written through an http.ResponseWriter such as a websocket handshake.
func NewCookie(r *http.Request, name cookie.CookieName, value string) *http.Cookie {
	c := newCookie(name, url.QueryEscape(value), time.Now().Add(cookieMaxAge), utils.IsConnectionSecure(r))

	return &c
}

func ClearCookie(w http.ResponseWriter, r *http.Request, name cookie.CookieName) {
	c := newCookie(name, "", cookieExpireDelete, utils.IsConnectionSecure(r))
	http.SetCookie(w, &c)
}

func ClearAllCookies(w http.ResponseWriter, r *http.Request) {
	for _, name := range cookie.AllCookieNames {
		ClearCookie(w, r, name)
	}
}
