// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package clientid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	s := NewEphemeralSigner()
	id := New()

	got, err := s.Verify(s.Issue(id, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestVerifyRejects(t *testing.T) {
	t.Parallel()

	s := NewEphemeralSigner()
	other := NewEphemeralSigner()
	id := New()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "v4.public.not-a-token"},
		{"other key", other.Issue(id, time.Now())},
		{"expired", s.Issue(id, time.Now().Add(-Lifetime-time.Hour))},
		{"not a uuid", s.Issue("alice", time.Now())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := s.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestLoadSigner(t *testing.T) {
	t.Parallel()

	hex := NewSecretKeyHex()

	a, err := LoadSigner(hex)
	require.NoError(t, err)

	b, err := LoadSigner(hex)
	require.NoError(t, err)

	id := New()

	got, err := b.Verify(a.Issue(id, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, id, got, "the same key verifies across restarts")

	_, err = LoadSigner("not hex")
	assert.Error(t, err)
}
