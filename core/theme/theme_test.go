// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		system   Preference
		override Override
		want     Theme
	}{
		{NoPreference, FollowSystem, Light},
		{PrefersLight, FollowSystem, Light},
		{PrefersDark, FollowSystem, Dark},
		{PrefersDark, ForceLight, Light},
		{PrefersLight, ForceDark, Dark},
		{NoPreference, ForceDark, Dark},
		{PrefersDark, Override("bogus"), Dark},
	}

	for _, tt := range tests {
		t.Run(string(tt.system)+"/"+string(tt.override), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Resolve(tt.system, tt.override))
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, PrefersDark, ParsePreference(`"dark"`))
	assert.Equal(t, PrefersLight, ParsePreference("Light"))
	assert.Equal(t, NoPreference, ParsePreference(""))

	assert.Equal(t, ForceDark, ParseOverride("DARK"))
	assert.Equal(t, FollowSystem, ParseOverride("auto"))
}

func TestColours(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, Light.Background(), Dark.Background())
	assert.NotEqual(t, Light.Text(), Dark.Text())
}
