// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"codeberg.org/inkpost/inkpost/config"
	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/core/render"
	"codeberg.org/inkpost/inkpost/core/untrusted"
	"codeberg.org/inkpost/inkpost/i18n"
	"codeberg.org/inkpost/inkpost/server/request_context"
)

// configOverhead is the request body allowance beyond the content limit,
// for everything in a config that is not section text.
const configOverhead = 256 << 10

var (
	errContentTooLarge = errors.New("content exceeds the configured limit")
	errRenderTimeout   = errors.New("render timed out")
	errInvalidBody     = errors.New("request body is not valid JSON")
)

// statusError gives err an HTTP status for middleware.CatchError.
type statusError struct {
	status int
	err    error
}

func (e statusError) Error() string   { return e.err.Error() }
func (e statusError) Unwrap() error   { return e.err }
func (e statusError) StatusCode() int { return e.status }

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}

// bodyLimit bounds request bodies that carry a config.
func bodyLimit() int64 {
	return int64(max(config.Global.Render.MaxContentBytes, 0)) + configOverhead
}

// readBody reads at most limit bytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, i18n.WrapUserError(r.Context(), err, "The submitted content is too large.")
		}

		return nil, fmt.Errorf("read request body: %w", err)
	}

	return body, nil
}

// decodeBody reads a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r, bodyLimit())
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return i18n.WrapUserError(r.Context(), fmt.Errorf("%w: %w", errInvalidBody, err), "The request could not be read.")
	}

	return nil
}

// renderOptions carries the per-request parts of a render: theme, image
// proxy and request id.
func renderOptions(r *http.Request) render.Options {
	rc := request_context.FromRequest(r)

	return render.Options{
		ProxyBase: untrusted.GetImageProxy(r, config.Global.ProxyBase()),
		Theme:     rc.Theme,
		RequestID: rc.RequestID,
	}
}

// checkSize refuses configs whose content exceeds the configured limit.
func checkSize(ctx context.Context, cfg generator.Config) error {
	limit := config.Global.Render.MaxContentBytes
	if limit > 0 && cfg.ContentSize() > limit {
		return i18n.WrapUserError(ctx,
			statusError{status: http.StatusRequestEntityTooLarge, err: errContentTooLarge},
			"The content is longer than {{.Limit}} bytes.", "Limit", limit)
	}

	return nil
}

// renderPair renders cfg for both targets within the configured timeout.
func renderPair(ctx context.Context, cfg generator.Config, opts render.Options) (preview, export render.Result, err error) {
	timeout := config.Global.Render.Timeout
	if timeout <= 0 {
		preview, export = render.Pair(ctx, cfg, opts)

		return preview, export, nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type pair struct{ preview, export render.Result }

	done := make(chan pair, 1)

	go func() {
		p, e := render.Pair(ctx, cfg, opts)
		done <- pair{p, e}
	}()

	select {
	case p := <-done:
		return p.preview, p.export, nil
	case <-ctx.Done():
		return render.Result{}, render.Result{}, i18n.WrapUserError(ctx,
			statusError{status: http.StatusServiceUnavailable, err: fmt.Errorf("%w after %s", errRenderTimeout, timeout.Round(time.Millisecond))},
			"Rendering took too long. Try splitting the content into sections.")
	}
}

// warningMessages translates render warnings for display.
func warningMessages(ctx context.Context, results ...render.Result) []string {
	var out []string

	seen := map[string]bool{}

	for _, res := range results {
		for _, w := range res.Warnings {
			msg := i18n.Tr(ctx, "Skipped a rule or block: {{.Reason}}", "Reason", w.Error())
			if !seen[msg] {
				seen[msg] = true
				out = append(out, msg)
			}
		}
	}

	return out
}
