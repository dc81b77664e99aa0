// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package upload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		paths   Paths
		want    Result
		wantErr error
	}{
		{
			name:  "Hosted URL",
			body:  `{"url":"//ac.namu.la/20260101/x.png","isDataUrl":false}`,
			paths: DefaultPaths,
			want:  Result{URL: "https://ac.namu.la/20260101/x.png"},
		},
		{
			name:  "Data URL flagged by endpoint",
			body:  `{"url":"data:image/png;base64,AAAA","isDataUrl":true}`,
			paths: DefaultPaths,
			want:  Result{URL: "data:image/png;base64,AAAA", IsDataURL: true},
		},
		{
			name:  "Data URL detected without flag",
			body:  `{"url":"data:image/gif;base64,R0lG"}`,
			paths: DefaultPaths,
			want:  Result{URL: "data:image/gif;base64,R0lG", IsDataURL: true},
		},
		{
			name:  "Nested path",
			body:  `{"data":{"link":"https://i.example.com/a.jpg"},"success":true}`,
			paths: Paths{URL: "data.link"},
			want:  Result{URL: "https://i.example.com/a.jpg"},
		},
		{
			name:    "Endpoint error",
			body:    `{"error":"file too large"}`,
			paths:   DefaultPaths,
			wantErr: errors.New("upload endpoint: file too large"),
		},
		{
			name:    "Missing URL",
			body:    `{"ok":true}`,
			paths:   DefaultPaths,
			wantErr: ErrNoURL,
		},
		{
			name:    "Not JSON",
			body:    `<html>502</html>`,
			paths:   DefaultPaths,
			wantErr: ErrInvalidResponse,
		},
		{
			name:    "Unsupported scheme",
			body:    `{"url":"javascript:alert(1)"}`,
			paths:   DefaultPaths,
			wantErr: ErrUnsupportedURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decode([]byte(tt.body), tt.paths)
			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, ErrNoURL) || errors.Is(tt.wantErr, ErrInvalidResponse) ||
					errors.Is(tt.wantErr, ErrUnsupportedURL) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
