// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen makes identifiers for requests and chat sections.
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
)

// Request makes a short, log-friendly request ID: an HHMMSS timestamp
// followed by 3 bytes of entropy.
func Request() string {
	var entropy [3]byte

	_, _ = rand.Read(entropy[:])

	return clock(time.Now()) + base64.RawURLEncoding.EncodeToString(entropy[:])
}

// Section makes an opaque, collision-resistant chat section ID.
func Section() string {
	return uuid.NewString()
}

// ValidSection reports whether id looks like an ID made by Section.
func ValidSection(id string) bool {
	return uuid.Validate(id) == nil
}

func clock(t time.Time) string {
	return t.Format("150405")
}
