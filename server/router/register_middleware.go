// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/inkpost/inkpost/config"
	"codeberg.org/inkpost/inkpost/server/middleware"
	"codeberg.org/inkpost/inkpost/server/middleware/limiter"
)

// RegisterMiddleware installs the middleware chain from config.Global.
func (router *Router) RegisterMiddleware() {
	cfg := config.Global.HTTP

	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.NormalizeURL)       // drop trailing slashes
	router.Use(middleware.WithRequestContext) // needed for everything else
	router.Use(middleware.SetResponseHeaders) // all pages need this
	router.Use(middleware.CORS(cfg.CORSOrigins))

	lim := limiter.New(limiter.Options{
		Rate:       cfg.RateLimit,
		Burst:      cfg.RateBurst,
		IPv4Prefix: cfg.IPv4Prefix,
		IPv6Prefix: cfg.IPv6Prefix,
		Exempt:     cfg.RateExempt,
		Paths:      []string{"/api/"},
	})

	if lim.Enabled() {
		router.Use(lim.Middleware)
	}
}
