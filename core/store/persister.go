// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/core/theme"
)

// disposableKeyRegex matches keys that may be dropped to free space:
// autosaves, history snapshots and temporary drafts.
var disposableKeyRegex = regexp.MustCompile(`auto|History|Temp`)

// ErrSaveFailed is returned when a save still fails after cleanup.
var ErrSaveFailed = errors.New("config could not be saved")

// SaveReport describes what a successful or failed save had to give up.
type SaveReport struct {
	// Cleaned lists disposable keys deleted to free space.
	Cleaned []string
	// ImagesDropped is set when the config was saved without image URLs.
	ImagesDropped bool
}

// Persister saves and loads generator configs on behalf of clients.
//
// Every key is namespaced by the client, see [Namespaced]. A save never
// stores data: URL images. When the store reports ErrQuotaExceeded, the
// persister deletes the client's keys matching auto|History|Temp, strips all
// image URLs from the config and retries once. Other clients' keys are never
// touched.
type Persister struct {
	store Store
}

// NewPersister wraps s.
func NewPersister(s Store) *Persister {
	return &Persister{store: s}
}

// ConfigKey is the key of a client's saved config for a generator.
func ConfigKey(client, name string) string {
	return Namespaced(client, name)
}

// AutosaveKey is the disposable key used for a client's autosaves of a generator.
func AutosaveKey(client, name string) string {
	return Namespaced(client, "autosave:"+name)
}

// Save persists cfg for client under its generator name.
func (p *Persister) Save(ctx context.Context, client string, cfg generator.Config) (SaveReport, error) {
	return p.save(ctx, client, ConfigKey(client, cfg.Generator), cfg)
}

// Autosave persists cfg under its disposable autosave key. Autosaves are
// first to go when the store is full.
func (p *Persister) Autosave(ctx context.Context, client string, cfg generator.Config) error {
	_, err := p.save(ctx, client, AutosaveKey(client, cfg.Generator), cfg)

	return err
}

func (p *Persister) save(ctx context.Context, client, key string, cfg generator.Config) (SaveReport, error) {
	var report SaveReport

	stripped := cfg.WithoutDataURLs()

	err := p.set(ctx, key, stripped)
	if err == nil || !errors.Is(err, ErrQuotaExceeded) {
		return report, err
	}

	logger := log.With().Str("sys", "store").Str("key", key).Logger()
	logger.Warn().Err(err).Msg("Store full, cleaning up and retrying without images")

	report.Cleaned = p.cleanup(ctx, client)
	report.ImagesDropped = true

	if err := p.set(ctx, key, stripped.WithoutImages()); err != nil {
		logger.Error().Err(err).Msg("Save failed after cleanup")

		return report, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	return report, nil
}

func (p *Persister) set(ctx context.Context, key string, cfg generator.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode %s config: %w", cfg.Generator, err)
	}

	return p.store.Set(ctx, key, data)
}

// cleanup deletes the disposable keys of client and returns those it removed,
// without their namespace.
func (p *Persister) cleanup(ctx context.Context, client string) []string {
	keys, err := p.store.Keys(ctx)
	if err != nil {
		log.Warn().Str("sys", "store").Err(err).Msg("Could not list keys for cleanup")

		return nil
	}

	ns := Namespaced(client, "")

	var removed []string

	for _, k := range keys {
		if namespaceOf(k) != ns {
			continue
		}

		name := strings.TrimPrefix(k, ns)
		if !disposableKeyRegex.MatchString(name) {
			continue
		}

		if err := p.store.Delete(ctx, k); err != nil {
			log.Warn().Str("sys", "store").Str("key", k).Err(err).Msg("Cleanup delete failed")

			continue
		}

		removed = append(removed, name)
	}

	return removed
}

// Load returns the config client stored for name merged over its defaults,
// or the defaults alone when nothing usable is stored. On a store failure the
// defaults come back together with the error.
func (p *Persister) Load(ctx context.Context, client, name string, t theme.Theme) (generator.Config, error) {
	return p.load(ctx, name, ConfigKey(client, name), t)
}

// LoadAutosave is Load for the autosave key.
func (p *Persister) LoadAutosave(ctx context.Context, client, name string, t theme.Theme) (generator.Config, error) {
	return p.load(ctx, name, AutosaveKey(client, name), t)
}

func (p *Persister) load(ctx context.Context, name, key string, t theme.Theme) (generator.Config, error) {
	defaults, err := generator.Defaults(name, t)
	if err != nil {
		return generator.Config{}, err
	}

	data, err := p.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return defaults, nil
	}

	if err != nil {
		return defaults, fmt.Errorf("load %s config: %w", name, err)
	}

	cfg, err := generator.DecodeJSON(name, data, t)
	if err != nil {
		log.Warn().Str("sys", "store").Str("key", key).Err(err).Msg("Discarding unreadable stored config")

		return defaults, nil
	}

	cfg.EnsureSectionIDs()

	return cfg, nil
}
