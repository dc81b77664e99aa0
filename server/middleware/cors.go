// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

const corsMaxAge = 300 // seconds

// CORS allows cross-origin use of the JSON API from origins. Other paths are
// left alone.
func CORS(origins []string) Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Server-Timing", "Retry-After"},
		MaxAge:         corsMaxAge,
	})

	return func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		if !isAPI(r) {
			next.ServeHTTP(w, r)

			return
		}

		c.Handler(next).ServeHTTP(w, r)
	}
}

// isAPI reports whether r targets the JSON API.
func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
