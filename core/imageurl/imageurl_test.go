// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package imageurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriterURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target Target
		base   string
		raw    string
		want   string
	}{
		{
			name:   "Export keeps the URL and adds a scheme",
			target: Export,
			raw:    "//ac.namu.la/x.png",
			want:   "https://ac.namu.la/x.png",
		},
		{
			name:   "Preview routes through the default proxy",
			target: Preview,
			raw:    "//ac.namu.la/x.png",
			want:   "https://images.weserv.nl/?url=https%3A%2F%2Fac.namu.la%2Fx.png",
		},
		{
			name:   "Preview with a custom proxy",
			target: Preview,
			base:   "https://img.example.org/fetch?src=",
			raw:    "http://example.com/a b.jpg",
			want:   "https://img.example.org/fetch?src=http%3A%2F%2Fexample.com%2Fa+b.jpg",
		},
		{
			name:   "Data URLs are never proxied",
			target: Preview,
			raw:    "data:image/png;base64,AAAA",
			want:   "data:image/png;base64,AAAA",
		},
		{
			name:   "Relative paths are never proxied",
			target: Preview,
			raw:    "/static/me.png",
			want:   "/static/me.png",
		},
		{
			name:   "Already proxied",
			target: Preview,
			raw:    "https://images.weserv.nl/?url=x",
			want:   "https://images.weserv.nl/?url=x",
		},
		{
			name:   "Empty",
			target: Preview,
			raw:    "  ",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rw := Rewriter{Target: tt.target, ProxyBase: tt.base}
			assert.Equal(t, tt.want, rw.URL(tt.raw))
		})
	}
}

func TestPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDataURL(" DATA:image/gif;base64,R0lG"))
	assert.False(t, IsDataURL("https://example.com/data:x"))

	assert.True(t, IsRemote("//ac.namu.la/x.png"))
	assert.False(t, IsRemote("ftp://example.com/x.png"))
	assert.False(t, IsRemote("x.png"))

	assert.Equal(t, Preview, ParseTarget("Preview"))
	assert.Equal(t, Export, ParseTarget(""))
	assert.Equal(t, "preview", Preview.String())
}
