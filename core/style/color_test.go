// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		hex    string
		offset int
		want   string
	}{
		{"Black clamps at zero", "#000000", -30, "#000000"},
		{"White clamps at 255", "#ffffff", 30, "#ffffff"},
		{"Lighten", "#102030", 16, "#203040"},
		{"Darken", "#102030", -16, "#001020"},
		{"Partial clamp", "#f0100a", 20, "#ff241e"},
		{"Short form", "#abc", 1, "#abbccd"},
		{"Without hash", "336699", 0, "#336699"},
		{"Invalid passes through", "rgba(0,0,0,.5)", 10, "rgba(0,0,0,.5)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, AdjustColor(tt.hex, tt.offset))
		})
	}
}

func TestIsDark(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDark("#000000"))
	assert.True(t, IsDark("#1e1e2e"))
	assert.True(t, IsDark("#887fff"))
	assert.False(t, IsDark("#888888"))
	assert.False(t, IsDark("#ffffff"))
	assert.False(t, IsDark("not a colour"))
}

func TestDerivePalette(t *testing.T) {
	t.Parallel()

	dark := DerivePalette("#101010")
	assert.Equal(t, "#242424", dark.Surface)
	assert.Equal(t, "#383838", dark.Border)

	light := DerivePalette("#f0f0f0")
	assert.Equal(t, "#dcdcdc", light.Surface)
	assert.Equal(t, "#c8c8c8", light.Border)
}

func TestSafeColor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "#fff", SafeColor(" #fff "))
	assert.Equal(t, "rgba(10, 20, 30, 0.5)", SafeColor("rgba(10, 20, 30, 0.5)"))
	assert.Equal(t, "crimson", SafeColor("crimson"))
	assert.Empty(t, SafeColor(`red;" onmouseover="x`))
	assert.Empty(t, SafeColor("url(https://example.com)"))
}
