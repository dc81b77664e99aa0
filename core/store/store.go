// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package store persists generator configs in a key-value store.

Keys are namespaced by the client that owns them: "<client>/<name>". A key
without a separator belongs to the root namespace, which the CLI and tests use.

Two backends implement [Store]:

  - [Memory] keeps values in a size-bounded LRU. When an insertion would exceed
    its entry or byte budget, the least recently used keys are evicted. Only a
    single value larger than the whole budget fails, with [ErrQuotaExceeded].
  - [SQLite] keeps values in a sqlite database with a byte quota per namespace.
    It never evicts on its own; an insertion that would take its namespace over
    quota fails with [ErrQuotaExceeded].

[Persister] sits on top of either backend and owns the recovery policy for a
full store.
*/
package store

import (
	"context"
	"errors"
	"strings"
)

// NamespaceSeparator ends the client part of a key.
const NamespaceSeparator = "/"

// Namespaced prefixes key with the namespace of client. An empty client is
// the root namespace.
func Namespaced(client, key string) string {
	if client == "" {
		return key
	}

	return client + NamespaceSeparator + key
}

// namespaceOf returns the namespace prefix of key including its separator,
// or "" for the root namespace.
func namespaceOf(key string) string {
	i := strings.Index(key, NamespaceSeparator)
	if i < 0 {
		return ""
	}

	return key[:i+len(NamespaceSeparator)]
}

var (
	ErrNotFound      = errors.New("key not found")
	ErrQuotaExceeded = errors.New("store quota exceeded")
	ErrUnknownKind   = errors.New("unknown store backend")
)

// Store is a byte-valued key-value store safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Backend names accepted by [Open].
const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
)

// Options configure [Open].
type Options struct {
	Kind       string
	Path       string // sqlite database file
	QuotaBytes int64  // value bytes per namespace (sqlite) or in total (memory); zero means unbounded
	MaxEntries int    // memory only
	Compress   bool   // memory only
}

// Open constructs the backend selected by opts.Kind.
func Open(opts Options) (Store, error) {
	switch opts.Kind {
	case KindMemory, "":
		return NewMemory(opts.MaxEntries, opts.QuotaBytes, opts.Compress)
	case KindSQLite:
		return OpenSQLite(opts.Path, opts.QuotaBytes)
	default:
		return nil, ErrUnknownKind
	}
}
