// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"
)

var errNoRoute = errors.New("no route for path")

// NotFound answers every path no other route matched.
func NotFound(_ http.ResponseWriter, _ *http.Request) error {
	return statusError{status: http.StatusNotFound, err: errNoRoute}
}
