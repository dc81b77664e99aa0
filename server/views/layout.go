// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"net/http"

	"codeberg.org/inkpost/inkpost/config"
	"codeberg.org/inkpost/inkpost/core/theme"
	"codeberg.org/inkpost/inkpost/i18n"
	"codeberg.org/inkpost/inkpost/server/request_context"
)

// LayoutData is shared by every page.
type LayoutData struct {
	Title   string
	Lang    string
	Theme   theme.Theme
	Version string
	// CacheID busts static asset caches across restarts.
	CacheID string
}

// NewLayout fills LayoutData for r from its request context and the server config.
func NewLayout(r *http.Request, title string) LayoutData {
	base, _ := i18n.TagFrom(r.Context()).Base()

	return LayoutData{
		Title:   title,
		Lang:    base.String(),
		Theme:   request_context.FromRequest(r).Theme,
		Version: config.BuildVersion,
		CacheID: config.Global.Instance.FileServerCacheID,
	}
}

func pageTitle(title string) string {
	if title == "" {
		return "InkPost"
	}

	return title + " · InkPost"
}

// assetURL appends the cache buster to a static asset path.
func assetURL(path, cacheID string) string {
	return path + "?v=" + cacheID
}
