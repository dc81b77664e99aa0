// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets provides access to the application's embedded static assets:
stylesheets and scripts under assets/, gettext catalogs under po/.
*/
package assets

import "io/fs"

// FS is assigned by package main from its embedded files.
var FS fs.FS
