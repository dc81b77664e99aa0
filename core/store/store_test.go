// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	mem, err := NewMemory(8, 0, true)
	require.NoError(t, err)

	lite, err := OpenSQLite(":memory:", 0)
	require.NoError(t, err)

	file, err := Open(Options{Kind: KindSQLite, Path: filepath.Join(t.TempDir(), "nested", "inkpost.db")})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = lite.Close()
		_ = file.Close()
	})

	return map[string]Store{"memory": mem, "sqlite": lite, "sqlite-file": file}
}

func TestBackendsRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "card")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "card", []byte(`{"a":1}`)))
			require.NoError(t, s.Set(ctx, "card", []byte(`{"a":2}`)))
			require.NoError(t, s.Set(ctx, "jelly", []byte(`{}`)))

			got, err := s.Get(ctx, "card")
			require.NoError(t, err)
			assert.Equal(t, `{"a":2}`, string(got))

			keys, err := s.Keys(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"card", "jelly"}, keys)

			require.NoError(t, s.Delete(ctx, "card"))

			_, err = s.Get(ctx, "card")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	m, err := NewMemory(2, 0, false)
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "banner", []byte("1")))
	require.NoError(t, m.Set(ctx, "card", []byte("2")))

	_, err = m.Get(ctx, "banner")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "jelly", []byte("3")))

	_, err = m.Get(ctx, "card")
	assert.ErrorIs(t, err, ErrNotFound)

	keys, _ := m.Keys(ctx)
	assert.Equal(t, []string{"banner", "jelly"}, keys)
}

func TestQuota(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		t.Parallel()

		m, err := NewMemory(4, 8, false)
		require.NoError(t, err)

		assert.ErrorIs(t, m.Set(ctx, "big", []byte(strings.Repeat("x", 9))), ErrQuotaExceeded)
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Parallel()

		s, err := OpenSQLite(":memory:", 8)
		require.NoError(t, err)

		t.Cleanup(func() { _ = s.Close() })

		require.NoError(t, s.Set(ctx, "a", []byte("12345")))
		assert.ErrorIs(t, s.Set(ctx, "b", []byte("1234")), ErrQuotaExceeded)

		// Overwriting a key only counts its new size.
		require.NoError(t, s.Set(ctx, "a", []byte("12345678")))
	})

	t.Run("sqlite namespaces", func(t *testing.T) {
		t.Parallel()

		s, err := OpenSQLite(":memory:", 8)
		require.NoError(t, err)

		t.Cleanup(func() { _ = s.Close() })

		require.NoError(t, s.Set(ctx, "root", []byte("12345678")))
		require.NoError(t, s.Set(ctx, Namespaced("alice", "card"), []byte("12345678")))
		require.NoError(t, s.Set(ctx, Namespaced("bob", "card"), []byte("12345678")))

		assert.ErrorIs(t, s.Set(ctx, Namespaced("alice", "jelly"), []byte("1")), ErrQuotaExceeded)
		assert.ErrorIs(t, s.Set(ctx, "other", []byte("1")), ErrQuotaExceeded)
	})
}

func TestNamespaced(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "card", Namespaced("", "card"))
	assert.Equal(t, "alice/autosave:card", Namespaced("alice", "autosave:card"))
	assert.Equal(t, "alice/", namespaceOf("alice/card"))
	assert.Empty(t, namespaceOf("card"))
}

func TestOpenUnknownKind(t *testing.T) {
	t.Parallel()

	_, err := Open(Options{Kind: "redis"})
	assert.ErrorIs(t, err, ErrUnknownKind)
}
