// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/core/theme"
)

const presetYAML = `card:
  footerText: Signed by test
  showFooter: true
`

func writeFile(t *testing.T, path, content string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

// execute runs the root command. The commands reconfigure the global logger,
// so callers do not run in parallel.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	presets := writeFile(t, filepath.Join(dir, "presets.yaml"), presetYAML)
	story := writeFile(t, filepath.Join(dir, "story.txt"), "The lantern flickered.")

	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "html with preset",
			args:     []string{"render", "--presets", presets, story},
			contains: []string{"The lantern flickered.", "Signed by test", "<div"},
		},
		{
			name:     "plain text",
			args:     []string{"render", "--presets", presets, "--text", story},
			contains: []string{"The lantern flickered."},
			excludes: []string{"<div"},
		},
		{
			name:     "other generator ignores card preset",
			args:     []string{"render", "--presets", presets, "-g", generator.Banner, story},
			contains: []string{"The lantern flickered."},
			excludes: []string{"Signed by test"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)

			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}

			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	story := writeFile(t, filepath.Join(dir, "story.txt"), "text")
	empty := writeFile(t, filepath.Join(dir, "empty.yaml"), "")
	bad := writeFile(t, filepath.Join(dir, "bad.yaml"), "nope:\n  width: 3\n")

	tests := []struct {
		name string
		args []string
		is   error
	}{
		{name: "unknown generator", args: []string{"render", "--presets", empty, "-g", "nope", story}, is: generator.ErrUnknownGenerator},
		{name: "unknown generator in presets", args: []string{"render", "--presets", bad, story}, is: generator.ErrUnknownGenerator},
		{name: "missing presets file", args: []string{"render", "--presets", filepath.Join(dir, "missing.yaml"), story}, is: os.ErrNotExist},
		{name: "missing input", args: []string{"render", "--presets", empty, filepath.Join(dir, "missing.txt")}, is: os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.ErrorIs(t, err, tt.is)
		})
	}
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, filepath.Join(dir, "empty.yaml"), "")
	writeFile(t, filepath.Join(dir, "in", "a.txt"), "First chapter")
	writeFile(t, filepath.Join(dir, "in", "part", "a.txt"), "Second chapter")
	writeFile(t, filepath.Join(dir, "in", "skip.md"), "Not matched")

	t.Run("next to inputs", func(t *testing.T) {
		out, err := execute(t, "batch", "--presets", empty, filepath.Join(dir, "in", "**", "*.txt"))
		require.NoError(t, err)
		assert.Contains(t, out, "rendered 2 files")

		first, err := os.ReadFile(filepath.Join(dir, "in", "a.html"))
		require.NoError(t, err)
		assert.Contains(t, string(first), "First chapter")

		second, err := os.ReadFile(filepath.Join(dir, "in", "part", "a.html"))
		require.NoError(t, err)
		assert.Contains(t, string(second), "Second chapter")

		assert.NoFileExists(t, filepath.Join(dir, "in", "skip.html"))
	})

	t.Run("out directory keeps layout", func(t *testing.T) {
		outDir := filepath.Join(dir, "out")

		_, err := execute(t, "batch", "--presets", empty, "--text", "-j", "1", "-o", outDir, filepath.Join(dir, "in", "**", "*.txt"))
		require.NoError(t, err)

		text, err := os.ReadFile(filepath.Join(outDir, "part", "a.txt"))
		require.NoError(t, err)
		assert.Contains(t, string(text), "Second chapter")
		assert.NotContains(t, string(text), "<div")
		assert.FileExists(t, filepath.Join(outDir, "a.txt"))
	})

	t.Run("no matches", func(t *testing.T) {
		_, err := execute(t, "batch", "--presets", empty, filepath.Join(dir, "none", "*.txt"))
		require.ErrorIs(t, err, errNoMatches)
	})
}

func TestGenerators(t *testing.T) {
	dir := t.TempDir()
	presets := writeFile(t, filepath.Join(dir, "presets.yaml"), presetYAML)

	out, err := execute(t, "generators", "--presets", presets)
	require.NoError(t, err)
	assert.Equal(t, generator.Names(), strings.Fields(out))

	out, err = execute(t, "generators", "--presets", presets, generator.Card)
	require.NoError(t, err)
	assert.Contains(t, out, "card:")
	assert.Contains(t, out, "footerText: Signed by test")
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		root   string
		outDir string
		text   bool
		want   string
	}{
		{name: "next to input", in: "a/b.txt", root: "a", want: "a/b.html"},
		{name: "text", in: "a/b.md", root: "a", text: true, want: "a/b.txt"},
		{name: "no extension", in: "a/b", root: "a", want: "a/b.html"},
		{name: "out dir keeps layout", in: "a/c/b.txt", root: "a", outDir: "out", want: "out/c/b.html"},
		{name: "outside root falls back to base", in: "x/b.txt", root: "a", outDir: "out", want: "out/b.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := outputPath(filepath.FromSlash(tt.in), filepath.FromSlash(tt.root), filepath.FromSlash(tt.outDir), tt.text)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestLevelAndTheme(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "warn", levelFor(0).String())
	assert.Equal(t, "info", levelFor(1).String())
	assert.Equal(t, "debug", levelFor(3).String())

	assert.Equal(t, theme.Dark, (&globalFlags{theme: "dark"}).resolvedTheme())
	assert.Equal(t, theme.Light, (&globalFlags{theme: "sepia"}).resolvedTheme())
}
