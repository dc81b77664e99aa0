// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvExample(t *testing.T) {
	t.Parallel()

	got := envExample()

	assert.Contains(t, got, "## Store\n")
	assert.Contains(t, got, `INKPOST_PORT="8383"`)
	assert.Contains(t, got, "# INKPOST_STORE=memory")
	assert.Contains(t, got, "# INKPOST_CORS_ORIGINS=*")
	assert.NotContains(t, got, "## Build")
	assert.NotContains(t, got, "## Instance")
}

func TestYAMLExample(t *testing.T) {
	t.Parallel()

	got, err := yamlExample()
	require.NoError(t, err)

	assert.Contains(t, got, "\nrender:\n")
	assert.Contains(t, got, "  # timeout: 5s\n")
	assert.NotContains(t, got, "\n  timeout:")
}
