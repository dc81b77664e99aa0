// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package generator defines the configuration model shared by all generators,
their hard-coded defaults, and decoding of stored or submitted configs merged
over those defaults.
*/
package generator
