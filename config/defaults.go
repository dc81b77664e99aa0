// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"time"

	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/core/imageurl"
	"codeberg.org/inkpost/inkpost/core/store"
	"codeberg.org/inkpost/inkpost/core/upload"
)

const (
	defaultRenderTimeout   = 5 * time.Second
	defaultMaxContentBytes = 512 * 1024

	// Five megabytes, the usual per-origin localStorage budget.
	defaultStoreQuotaBytes = 5 * 1024 * 1024
	defaultUploadBodyBytes = 64 * 1024
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	// Host and Port are filled in by validation unless a unix socket is used.
	cfg.Basic.RepoURL = "https://codeberg.org/inkpost/inkpost"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Render.DefaultGenerator = generator.Card
	cfg.Render.ImageProxy = imageurl.DefaultProxyBase
	cfg.Render.MaxContentBytes = defaultMaxContentBytes
	cfg.Render.Timeout = defaultRenderTimeout

	cfg.Store.Backend = store.KindMemory
	cfg.Store.Path = "./data/inkpost.db"
	cfg.Store.QuotaBytes = defaultStoreQuotaBytes
	cfg.Store.MaxEntries = store.DefaultMaxEntries
	cfg.Store.Compress = true

	cfg.Upload.URLPath = upload.DefaultPaths.URL
	cfg.Upload.DataURLPath = upload.DefaultPaths.IsDataURL
	cfg.Upload.ErrorPath = upload.DefaultPaths.Error
	cfg.Upload.MaxBodyBytes = defaultUploadBodyBytes

	cfg.HTTP.CORSOrigins = []string{"*"}
	cfg.HTTP.RateLimit = 5
	cfg.HTTP.RateBurst = 20
	cfg.HTTP.IPv4Prefix = 32
	cfg.HTTP.IPv6Prefix = 64

	cfg.Development.DumpRenders = false
	cfg.Development.DumpDirectory = "/tmp/inkpost/renders"

	cfg.Internationalization.StrictMissingKeys = false
}
