// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"net/http"
	"strconv"
)

// ErrorData is shown by ErrorPage.
type ErrorData struct {
	Layout     LayoutData
	StatusCode int
	Message    string // already translated
	RequestID  string
}

// statusLine is the heading of an error page, such as "404 Not Found".
func statusLine(code int) string {
	return strconv.Itoa(code) + " " + http.StatusText(code)
}
