// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package upload decodes the response of an image upload endpoint.

Endpoints differ in where they put the resulting URL, so the lookup uses
configurable gjson paths. A response that yields a data: URL (the endpoint
inlined the image instead of hosting it) is flagged so the URL is used in
renders but never persisted.
*/
package upload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"codeberg.org/inkpost/inkpost/core/imageurl"
)

var (
	ErrInvalidResponse = errors.New("upload response is not valid JSON")
	ErrNoURL           = errors.New("upload response contains no image URL")
	ErrUnsupportedURL  = errors.New("upload response URL is neither http(s) nor data:")
)

// Result is the outcome of one image upload.
type Result struct {
	URL       string `json:"url"`
	IsDataURL bool   `json:"isDataUrl"`
}

// Paths locate the result fields in an upload response.
type Paths struct {
	URL       string // gjson path of the image URL
	IsDataURL string // gjson path of an explicit data-URL flag; optional
	Error     string // gjson path of an error message; optional
}

// DefaultPaths match an endpoint answering {url, isDataUrl}.
var DefaultPaths = Paths{URL: "url", IsDataURL: "isDataUrl", Error: "error"}

// Decode extracts a Result from an upload endpoint's JSON response.
func Decode(body []byte, paths Paths) (Result, error) {
	if !gjson.ValidBytes(body) {
		return Result{}, ErrInvalidResponse
	}

	if paths.Error != "" {
		if msg := gjson.GetBytes(body, paths.Error); msg.Exists() && msg.String() != "" && msg.Type != gjson.False {
			return Result{}, fmt.Errorf("upload endpoint: %s", msg.String())
		}
	}

	raw := strings.TrimSpace(gjson.GetBytes(body, paths.URL).String())
	if raw == "" {
		return Result{}, ErrNoURL
	}

	res := Result{URL: imageurl.Normalize(raw), IsDataURL: imageurl.IsDataURL(raw)}

	if paths.IsDataURL != "" {
		if flag := gjson.GetBytes(body, paths.IsDataURL); flag.Exists() {
			res.IsDataURL = res.IsDataURL || flag.Bool()
		}
	}

	if !res.IsDataURL && !imageurl.IsRemote(res.URL) {
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedURL, raw)
	}

	return res, nil
}
