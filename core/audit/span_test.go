// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512", humanizeSize(512))
	assert.Equal(t, "1.50K", humanizeSize(1536))
	assert.Equal(t, "2.00M", humanizeSize(2*bytesInMB))
}

func TestSpanEndIsIdempotent(t *testing.T) {
	t.Parallel()

	span := Span{Kind: Render, Name: "card"}
	span.Begin(context.Background())
	span.End()

	first := span.Duration()

	span.End()
	assert.Equal(t, first, span.Duration())
}

// TestSpanDump is not parallel: it flips package-level dump settings.
func TestSpanDump(t *testing.T) {
	dir := t.TempDir()

	DumpRenders, DumpDirectory = true, dir

	t.Cleanup(func() { DumpRenders, DumpDirectory = false, "" })

	span := Span{Kind: Render, RequestID: "123456abcd", Name: "banner", Body: []byte("<div></div>")}
	span.Log()

	data, err := os.ReadFile(filepath.Join(dir, "123456abcd.html"))
	require.NoError(t, err)
	assert.Equal(t, "<div></div>", string(data))
}
