// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package imageurl normalises user-supplied image URLs and rewrites them for the
preview path.

Exported HTML keeps the original URL (protocol-relative URLs gain https:) since
the forums the HTML is pasted into load images directly. The in-app preview
routes remote images through a CORS-friendly proxy instead.
*/
package imageurl

import (
	"net/url"
	"strings"
)

// DefaultProxyBase is prepended to the query-escaped image URL in previews.
const DefaultProxyBase = "https://images.weserv.nl/?url="

// Target selects which rendering path an image URL is produced for.
type Target int

const (
	Export Target = iota
	Preview
)

func (t Target) String() string {
	if t == Preview {
		return "preview"
	}

	return "export"
}

// ParseTarget maps "preview" to Preview and anything else to Export.
func ParseTarget(s string) Target {
	if strings.EqualFold(strings.TrimSpace(s), "preview") {
		return Preview
	}

	return Export
}

// Normalize trims raw and gives protocol-relative URLs an https scheme.
func Normalize(raw string) string {
	u := strings.TrimSpace(raw)
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}

	return u
}

// IsDataURL reports whether raw is an inline data: URL.
func IsDataURL(raw string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(raw)), "data:")
}

// IsRemote reports whether raw points at an http(s) resource.
func IsRemote(raw string) bool {
	u, err := url.Parse(Normalize(raw))
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Rewriter maps image URLs for a rendering target.
type Rewriter struct {
	Target    Target
	ProxyBase string // DefaultProxyBase when empty
}

// URL returns the image URL to embed for the rewriter's target.
//
// Data URLs, relative paths and anything that is not http(s) are never proxied.
func (rw Rewriter) URL(raw string) string {
	u := Normalize(raw)
	if u == "" || rw.Target != Preview || !IsRemote(u) {
		return u
	}

	base := rw.ProxyBase
	if base == "" {
		base = DefaultProxyBase
	}

	if strings.HasPrefix(u, base) {
		return u
	}

	return base + url.QueryEscape(u)
}
