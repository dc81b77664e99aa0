// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(opts Options) (*Limiter, *time.Time) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	l := New(opts)
	l.now = func() time.Time { return now }

	return l, &now
}

func requestFrom(remote, path string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, nil)
	r.RemoteAddr = remote

	return r
}

func TestAllowBurstThenRefuse(t *testing.T) {
	t.Parallel()

	l, now := newTestLimiter(Options{Rate: 1, Burst: 2, IPv4Prefix: 24, IPv6Prefix: 64})

	for range 2 {
		ok, _, _ := l.Allow(requestFrom("203.0.113.5:1", "/api/render"))
		require.True(t, ok)
	}

	// Same /24, same bucket.
	ok, network, retry := l.Allow(requestFrom("203.0.113.9:1", "/api/render"))
	assert.False(t, ok)
	assert.Equal(t, "203.0.113.0/24", network)
	assert.Equal(t, time.Second, retry)

	ok, _, _ = l.Allow(requestFrom("198.51.100.1:1", "/api/render"))
	assert.True(t, ok, "other networks keep their own bucket")

	*now = now.Add(time.Second)

	ok, _, _ = l.Allow(requestFrom("203.0.113.5:1", "/api/render"))
	assert.True(t, ok, "a token is refilled after one second")
}

func TestAllowExempt(t *testing.T) {
	t.Parallel()

	l, _ := newTestLimiter(Options{Rate: 1, Burst: 1, IPv4Prefix: 32, Exempt: []string{"10.1.0.0/16"}})

	for range 5 {
		ok, _, _ := l.Allow(requestFrom("10.1.2.3:1", "/"))
		assert.True(t, ok)
	}

	assert.Zero(t, l.Len())
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	l, _ := newTestLimiter(Options{Rate: 0.5, Burst: 1, IPv4Prefix: 32, Paths: []string{"/api/"}})

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	serve := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		l.Middleware(rec, requestFrom("192.0.2.1:5", path), next)

		return rec
	}

	assert.Equal(t, http.StatusNoContent, serve("/api/render").Code)

	rec := serve("/api/render")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, serve("/css/editor.css").Code, "paths outside the list are not limited")
}

func TestMiddlewareDisabled(t *testing.T) {
	t.Parallel()

	l := New(Options{})
	rec := httptest.NewRecorder()

	l.Middleware(rec, requestFrom("192.0.2.1:5", "/api/render"), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, l.Len())
}

func TestCleanupDropsIdleBuckets(t *testing.T) {
	t.Parallel()

	l, now := newTestLimiter(Options{Rate: 1, Burst: 1, IPv4Prefix: 32})

	l.Allow(requestFrom("192.0.2.1:1", "/"))
	*now = now.Add(IdleExpiry / 2)
	l.Allow(requestFrom("192.0.2.2:1", "/"))
	require.Equal(t, 2, l.Len())

	assert.Equal(t, 1, l.cleanup(now.Add(IdleExpiry/2+time.Minute)))
	assert.Equal(t, 1, l.Len())
}
