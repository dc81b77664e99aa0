// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/core/theme"
)

const (
	appDirName  = "inkpost"
	presetsFile = "presets.yaml"
)

// presets maps a generator name to its YAML config document.
type presets map[string][]byte

func defaultPresetsPath() string {
	return filepath.Join(xdg.ConfigHome, appDirName, presetsFile)
}

// loadPresets reads the presets file. A missing default file is not an error;
// a missing file the user named is.
func loadPresets(path string) (presets, error) {
	explicit := path != ""
	if !explicit {
		path = defaultPresetsPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return presets{}, nil
		}

		return nil, fmt.Errorf("read presets %s: %w", path, err)
	}

	var docs map[string]any
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse presets %s: %w", path, err)
	}

	out := make(presets, len(docs))

	for name, doc := range docs {
		if !generator.Known(name) {
			return nil, fmt.Errorf("%w: %q in %s", generator.ErrUnknownGenerator, name, path)
		}

		encoded, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("re-encode preset %q: %w", name, err)
		}

		out[name] = encoded
	}

	log.Debug().
		Str("path", path).
		Int("presets", len(out)).
		Msg("Loaded presets")

	return out, nil
}

// config merges the preset for name over the generator defaults.
func (p presets) config(name string, t theme.Theme) (generator.Config, error) {
	return generator.DecodeYAML(name, p[name], t)
}
