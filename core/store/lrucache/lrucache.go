// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe least-recently-used cache of byte values
bounded both by entry count and by total stored bytes.

Whenever an insertion pushes the cache over either bound, entries are evicted from
the least recently used end until both bounds hold again. The entry being inserted
is never evicted by its own insertion; a value larger than the byte budget is
rejected with [ErrTooLarge] instead.

When created with compression enabled, values are stored zstd-compressed whenever
that makes them smaller, and the byte budget is charged for the stored size.
*/
package lrucache

import (
	"container/list"
	"errors"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	ErrInvalidSize = errors.New("must provide a positive size")
	ErrTooLarge    = errors.New("value exceeds the cache byte budget")
)

// Options bound an [LRUCache].
type Options struct {
	MaxEntries int   // Maximum number of entries; must be positive.
	MaxBytes   int64 // Maximum total stored bytes; zero disables the byte bound.
	Compress   bool  // Store values zstd-compressed when it reduces their size.
}

// LRUCache is a bounded least-recently-used byte cache that is safe for concurrent use.
// Instances must be constructed with [New]; the zero value is not ready for use.
type LRUCache struct {
	opts      Options
	evictList *list.List               // front is most recently used
	items     map[string]*list.Element // key -> element holding *entry
	bytes     int64                    // sum of stored value sizes
	lock      sync.Mutex
	zstdEnc   *zstd.Encoder
	zstdDec   *zstd.Decoder
}

type entry struct {
	key        string
	value      []byte
	compressed bool
}

// New creates a cache with the given bounds.
func New(opts Options) (*LRUCache, error) {
	if opts.MaxEntries <= 0 || opts.MaxBytes < 0 {
		return nil, ErrInvalidSize
	}

	c := &LRUCache{
		opts:      opts,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}

	if opts.Compress {
		// Nil writer/reader: block mode via EncodeAll/DecodeAll.
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}

		c.zstdEnc = enc
		c.zstdDec = dec
	}

	return c, nil
}

// Add stores value under key and marks it most recently used.
//
// It returns the keys evicted to make room, oldest first.
func (c *LRUCache) Add(key string, value []byte) ([]string, error) {
	stored, compressed := c.prepare(value)

	if c.opts.MaxBytes > 0 && int64(len(stored)) > c.opts.MaxBytes {
		return nil, ErrTooLarge
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry)
		c.bytes += int64(len(stored) - len(ent.value))
		ent.value = stored
		ent.compressed = compressed

		c.evictList.MoveToFront(el)
	} else {
		c.items[key] = c.evictList.PushFront(&entry{key: key, value: stored, compressed: compressed})
		c.bytes += int64(len(stored))
	}

	var evicted []string

	for c.overBudget() {
		oldest := c.evictList.Back()
		if oldest == nil || oldest.Value.(*entry).key == key {
			break
		}

		evicted = append(evicted, oldest.Value.(*entry).key)
		c.removeElement(oldest)
	}

	return evicted, nil
}

// Get returns a copy of the value for key and marks it most recently used.
func (c *LRUCache) Get(key string) ([]byte, bool) {
	c.lock.Lock()

	el, ok := c.items[key]
	if !ok {
		c.lock.Unlock()

		return nil, false
	}

	c.evictList.MoveToFront(el)
	ent := *el.Value.(*entry)

	c.lock.Unlock()

	return c.decode(ent)
}

// Remove deletes key and reports whether it was present.
func (c *LRUCache) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)

		return true
	}

	return false
}

// Keys returns all keys from the oldest to the newest.
func (c *LRUCache) Keys() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	keys := make([]string, 0, len(c.items))
	for el := c.evictList.Back(); el != nil; el = el.Prev() {
		keys = append(keys, el.Value.(*entry).key)
	}

	return keys
}

// Len returns the number of entries.
func (c *LRUCache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.evictList.Len()
}

// Bytes returns the total stored size of all values.
func (c *LRUCache) Bytes() int64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.bytes
}

func (c *LRUCache) overBudget() bool {
	if c.evictList.Len() > c.opts.MaxEntries {
		return true
	}

	return c.opts.MaxBytes > 0 && c.bytes > c.opts.MaxBytes
}

func (c *LRUCache) removeElement(el *list.Element) {
	ent := el.Value.(*entry)

	c.evictList.Remove(el)
	delete(c.items, ent.key)
	c.bytes -= int64(len(ent.value))
}

// prepare copies value, compressing it when enabled and beneficial.
// Safe to call without the lock: zstd.Encoder supports concurrent EncodeAll.
func (c *LRUCache) prepare(value []byte) ([]byte, bool) {
	if len(value) == 0 {
		return []byte{}, false
	}

	if c.zstdEnc != nil {
		if packed := c.zstdEnc.EncodeAll(value, nil); len(packed) < len(value) {
			return packed, true
		}
	}

	copied := make([]byte, len(value))
	copy(copied, value)

	return copied, false
}

func (c *LRUCache) decode(ent entry) ([]byte, bool) {
	if !ent.compressed {
		copied := make([]byte, len(ent.value))
		copy(copied, ent.value)

		return copied, true
	}

	decoded, err := c.zstdDec.DecodeAll(ent.value, nil)
	if err != nil {
		return nil, false
	}

	return decoded, true
}
