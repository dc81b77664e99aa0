// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package idgen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequest(t *testing.T) {
	t.Parallel()

	now := time.Now()
	assert.Equal(t, strings.ReplaceAll(now.Format("15:04:05"), ":", ""), clock(now))

	id := Request()
	assert.Len(t, id, 10) // 6 clock digits + 4 base64 chars
}

func TestSection(t *testing.T) {
	t.Parallel()

	a, b := Section(), Section()

	assert.NotEqual(t, a, b)
	assert.True(t, ValidSection(a))
	assert.False(t, ValidSection("section-1"))
}
