// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"codeberg.org/inkpost/inkpost/config"
	"codeberg.org/inkpost/inkpost/core/untrusted"
	"codeberg.org/inkpost/inkpost/server/utils"
)

// dynamicCSPDirectivesCount is the number of directives appended in buildCSP.
const dynamicCSPDirectivesCount = 1

var (
	// baseHeaders defines the default headers to be set in responses.
	//
	// Inkpost-Version and Inkpost-Revision are added in SetResponseHeaders.
	// CORP and HSTS are left to the reverse proxy.
	baseHeaders = http.Header{
		"Referrer-Policy":        {"no-referrer"},
		"X-Frame-Options":        {"DENY"},
		"X-Content-Type-Options": {"nosniff"},
		"Permissions-Policy":     {strings.Join(defaultPermissionsPolicy, ", ")},
	}

	// baseCSP holds the directives that do not depend on the request.
	// Rendered fragments carry inline styles, hence 'unsafe-inline'.
	baseCSP = []string{
		"base-uri 'self'",
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"font-src 'self'",
		"connect-src 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
	}

	// defaultPermissionsPolicy defines the default Permissions-Policy header.
	defaultPermissionsPolicy = []string{
		"accelerometer=()",
		"ambient-light-sensor=()",
		"battery=()",
		"camera=()",
		"display-capture=()",
		"document-domain=()",
		"encrypted-media=()",
		"execution-while-not-rendered=()",
		"execution-while-out-of-viewport=()",
		"geolocation=()",
		"gyroscope=()",
		"magnetometer=()",
		"microphone=()",
		"midi=()",
		"navigation-override=()",
		"payment=()",
		"publickey-credentials-get=()",
		"screen-wake-lock=()",
		"sync-xhr=()",
		"usb=()",
		"web-share=()",
		"xr-spatial-tracking=()",
	}
)

// SetResponseHeaders adds default headers to HTTP responses.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	if config.Global.Development.InDevelopment {
		invalidateCacheInDevelopment(headers)
	}

	setCacheControl(headers, r.URL.Path)

	headers.Set("Inkpost-Version", config.BuildVersion)
	headers.Set("Inkpost-Revision", config.Global.Build.Revision())

	if !isAPI(r) {
		headers.Set("Content-Security-Policy", buildCSP(r))
	}

	next.ServeHTTP(w, r)
}

var firstDevResponse atomic.Bool

// invalidateCacheInDevelopment clears the browser cache once per process.
func invalidateCacheInDevelopment(headers http.Header) {
	if firstDevResponse.CompareAndSwap(false, true) {
		headers.Set("Clear-Site-Data", `"cache"`)
	}
}

// setCacheControl sets appropriate cache control headers for static assets.
func setCacheControl(headers http.Header, path string) {
	// Default to only storing in the browser cache and forcing revalidation
	cacheDuration := "private, no-cache"

	// Assets are fingerprinted with the instance cache id (1 week)
	if strings.HasPrefix(path, "/js/") || strings.HasPrefix(path, "/css/") {
		cacheDuration = "max-age=604800"
	}

	if strings.HasPrefix(path, "/api/") {
		cacheDuration = "no-store"
	}

	headers.Set("Cache-Control", cacheDuration)
}

// buildCSP allows preview images from the user's image proxy as well as the
// instance default.
func buildCSP(r *http.Request) string {
	directives := make([]string, len(baseCSP), len(baseCSP)+dynamicCSPDirectivesCount)
	copy(directives, baseCSP)

	imgSrc := "img-src 'self' data:"

	origins := map[string]bool{}

	for _, raw := range []string{config.Global.ProxyBase(), untrusted.GetImageProxy(r, "")} {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}

		if origin := utils.GetOriginFromURL(*u); origin != "" && !origins[origin] {
			origins[origin] = true
			imgSrc += " " + origin
		}
	}

	directives = append(directives, imgSrc)

	return strings.Join(directives, "; ") + ";"
}
