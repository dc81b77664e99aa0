// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"time"

	"github.com/rs/zerolog/log"
)

// maybeCleanup sweeps idle buckets at most once per CleanupInterval.
func (l *Limiter) maybeCleanup() {
	now := l.now()

	l.mu.Lock()

	if l.lastCleanup.IsZero() {
		l.lastCleanup = now
	}

	due := now.Sub(l.lastCleanup) >= CleanupInterval
	if due {
		l.lastCleanup = now
	}

	l.mu.Unlock()

	if due {
		go l.cleanup(now)
	}
}

// cleanup drops buckets unused for IdleExpiry and returns how many it removed.
func (l *Limiter) cleanup(now time.Time) int {
	removed := 0

	l.buckets.Range(func(key, value any) bool {
		b := value.(*bucket)

		b.mu.Lock()
		idle := now.Sub(b.lastAccess) > IdleExpiry
		b.mu.Unlock()

		if idle {
			l.buckets.Delete(key)

			removed++
		}

		return true
	})

	if removed > 0 {
		log.Info().
			Str("sys", "limiter").
			Int("count", removed).
			Dur("dur", time.Since(now)).
			Msg("Cleaned up idle rate limiters")
	}

	return removed
}

// Len is the number of tracked client networks.
func (l *Limiter) Len() int {
	n := 0

	l.buckets.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}
