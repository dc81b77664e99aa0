// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package routes implements the editor pages and the JSON API.

Handlers return an error and are wrapped by middleware.CatchError, which
turns that error into the final response. The live preview websocket is the
exception: it owns its connection and reports errors in-band.
*/
package routes
