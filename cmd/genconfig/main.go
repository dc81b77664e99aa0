// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig writes example .env and config.yaml files from the
// configuration struct and its defaults.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/inkpost/inkpost/config"
	"codeberg.org/inkpost/inkpost/core/audit"
)

const (
	filePerm = 0o644

	envFileHeader = `# InkPost configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# InkPost configuration (via configuration file)
#
# Copy this file to config.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
)

// uncommented are written live in .env.example.
var uncommented = map[string]bool{"INKPOST_HOST": true, "INKPOST_PORT": true}

func main() {
	outDir := flag.String("out", "deploy", "directory for the generated examples")
	flag.Parse()

	audit.SetDefaultLogger()

	yamlExample, err := yamlExample()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	files := map[string]string{
		".env.example":        envExample(),
		"config.yaml.example": yamlExample,
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("path", *outDir).Msg("Failed to create output directory")
	}

	for name, content := range files {
		path := filepath.Join(*outDir, name)

		if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
		}

		log.Info().Str("path", path).Msg("Generated example")
	}
}

func defaults() *config.ServerConfig {
	cfg := &config.ServerConfig{}
	cfg.SetDefaults()
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8383"

	return cfg
}

// envExample lists every env-tagged field grouped by section, commented out
// except for the listener address.
func envExample() string {
	var sb strings.Builder

	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*defaults())
	typ := val.Type()

	for i := range typ.NumField() {
		section := val.Field(i)
		if section.Kind() != reflect.Struct || typ.Field(i).Name == "Build" {
			continue
		}

		var lines []string

		for j := range section.NumField() {
			tag, ok := section.Type().Field(j).Tag.Lookup("env")
			if !ok {
				continue
			}

			name, _, _ := strings.Cut(tag, ",")
			lines = append(lines, envLine(name, section.Field(j)))
		}

		if len(lines) == 0 {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n%s\n\n", typ.Field(i).Name, strings.Join(lines, "\n"))
	}

	return sb.String()
}

func envLine(name string, value reflect.Value) string {
	if uncommented[name] {
		return fmt.Sprintf("%s=%q", name, fmt.Sprint(value.Interface()))
	}

	switch {
	case value.Kind() == reflect.Slice:
		items := make([]string, value.Len())
		for k := range items {
			items[k] = fmt.Sprint(value.Index(k).Interface())
		}

		return fmt.Sprintf("# %s=%s", name, strings.Join(items, ","))
	case value.Kind() == reflect.String && value.Len() == 0:
		return fmt.Sprintf("# %s=", name)
	default:
		return fmt.Sprintf("# %s=%v", name, value.Interface())
	}
}

// yamlExample marshals the defaults and comments out every leaf so the
// example documents values without pinning them.
func yamlExample() (string, error) {
	var out strings.Builder

	enc := yaml.NewEncoder(&out, config.GetDurationEncoderOption(), yaml.Indent(2), yaml.IndentSequence(true))
	if err := enc.Encode(defaults()); err != nil {
		return "", err
	}

	var sb strings.Builder

	sb.WriteString(yamlFileHeader)

	for line := range strings.SplitSeq(out.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indent), trimmed)
	}

	return sb.String(), nil
}
