// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	IdleExpiry      = time.Hour       // how long an unused bucket is kept
	CleanupInterval = 5 * time.Minute // minimum time between cleanup sweeps
)

// Options configure a Limiter.
type Options struct {
	Rate       float64  // tokens per second; zero disables limiting
	Burst      int      // bucket size
	IPv4Prefix int      // network grouping for IPv4 clients
	IPv6Prefix int      // network grouping for IPv6 clients
	Exempt     []string // IPs or CIDRs never limited
	Paths      []string // path prefixes to limit; empty limits everything
}

// Limiter holds one token bucket per client network.
type Limiter struct {
	opts Options

	buckets sync.Map // network string -> *bucket

	mu          sync.Mutex
	lastCleanup time.Time

	now func() time.Time
}

type bucket struct {
	limiter *rate.Limiter

	mu         sync.Mutex
	lastAccess time.Time
}

// New creates a Limiter.
func New(opts Options) *Limiter {
	return &Limiter{opts: opts, now: time.Now}
}

// Enabled reports whether requests are limited at all.
func (l *Limiter) Enabled() bool {
	return l.opts.Rate > 0
}

// Allow takes one token for the client behind r. It returns the client
// network and, when refused, how long until a token is available.
func (l *Limiter) Allow(r *http.Request) (bool, string, time.Duration) {
	ip := net.ParseIP(getClientIP(r))
	if ip == nil {
		// Unknown callers share one bucket rather than bypass limiting.
		return l.take("unknown")
	}

	if ipMatchesList(ip, l.opts.Exempt) {
		return true, ip.String(), 0
	}

	return l.take(getNetwork(ip, l.opts.IPv4Prefix, l.opts.IPv6Prefix).String())
}

func (l *Limiter) take(network string) (bool, string, time.Duration) {
	now := l.now()

	fresh := &bucket{limiter: rate.NewLimiter(rate.Limit(l.opts.Rate), l.opts.Burst)}
	value, _ := l.buckets.LoadOrStore(network, fresh)
	b := value.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastAccess = now

	res := b.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, network, 0
	}

	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)

		return false, network, delay
	}

	return true, network, 0
}

// Middleware refuses over-limit requests with 429 and a Retry-After header.
func (l *Limiter) Middleware(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if !l.Enabled() || !l.applies(r.URL.Path) {
		next.ServeHTTP(w, r)

		return
	}

	l.maybeCleanup()

	ok, network, retry := l.Allow(r)
	if !ok {
		log.Warn().
			Str("sys", "limiter").
			Str("network", network).
			Str("path", r.URL.Path).
			Msg("Rate limit exceeded")

		seconds := max(1, int(retry.Round(time.Second)/time.Second))
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)

		return
	}

	next.ServeHTTP(w, r)
}

func (l *Limiter) applies(path string) bool {
	if len(l.opts.Paths) == 0 {
		return true
	}

	for _, prefix := range l.opts.Paths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
