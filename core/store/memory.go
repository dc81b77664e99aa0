// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"codeberg.org/inkpost/inkpost/core/store/lrucache"
)

// DefaultMaxEntries bounds a Memory store when no entry limit is configured.
const DefaultMaxEntries = 256

// Memory is an in-process LRU store.
type Memory struct {
	cache *lrucache.LRUCache
}

// NewMemory creates a Memory store. maxEntries <= 0 selects DefaultMaxEntries.
func NewMemory(maxEntries int, maxBytes int64, compress bool) (*Memory, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	cache, err := lrucache.New(lrucache.Options{MaxEntries: maxEntries, MaxBytes: maxBytes, Compress: compress})
	if err != nil {
		return nil, fmt.Errorf("create memory store: %w", err)
	}

	return &Memory{cache: cache}, nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, ErrNotFound
	}

	return v, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	evicted, err := m.cache.Add(key, value)
	if errors.Is(err, lrucache.ErrTooLarge) {
		return fmt.Errorf("%w: %d byte value", ErrQuotaExceeded, len(value))
	}

	if err != nil {
		return err
	}

	if len(evicted) > 0 {
		log.Debug().
			Str("sys", "store").
			Strs("evicted", evicted).
			Str("key", key).
			Int64("bytes", m.cache.Bytes()).
			Msg("Evicted least recently used configs")
	}

	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.cache.Remove(key)

	return nil
}

// Keys returns keys from the least to the most recently used.
func (m *Memory) Keys(_ context.Context) ([]string, error) {
	return m.cache.Keys(), nil
}

func (m *Memory) Close() error { return nil }
