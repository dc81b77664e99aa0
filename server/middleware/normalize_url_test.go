// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		url      string
		status   int
		location string
	}{
		{"root is kept", "/", http.StatusOK, ""},
		{"pprof index is kept", "/debug/pprof/", http.StatusOK, ""},
		{"no trailing slash", "/api/configs/card", http.StatusOK, ""},
		{"trailing slash", "/api/generators/", http.StatusPermanentRedirect, "/api/generators"},
		{"query is kept", "/healthz/?verbose=1", http.StatusPermanentRedirect, "/healthz?verbose=1"},
		{"no scheme-relative redirect", "//evil.example/", http.StatusPermanentRedirect, "/evil.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := Wrap(NormalizeURL, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}
