// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/inkpost/inkpost/core/audit"
	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/core/imageurl"
	"codeberg.org/inkpost/inkpost/core/markup"
	"codeberg.org/inkpost/inkpost/core/theme"
)

// FallbackMessage replaces a render that failed.
const FallbackMessage = "HTML 생성 중 오류가 발생했습니다"

// FallbackHTML is the complete markup shown instead of a failed render.
const FallbackHTML = `<p style="margin:0;padding:12px;color:#d93025;">` + FallbackMessage + `</p>`

var errPanic = errors.New("render panicked")

// Options are the render inputs that are not part of the stored config.
type Options struct {
	Target    imageurl.Target
	ProxyBase string      // preview image proxy; imageurl.DefaultProxyBase when empty
	Theme     theme.Theme // fills colours the config leaves empty
	RequestID string      // tags logs and render dumps
}

// Result is a finished render.
type Result struct {
	HTML string `json:"html"`

	// Sections holds each section's markup in order; the first includes the
	// profile header.
	Sections []string `json:"-"`

	// Warnings are non-fatal problems, such as word replacement rules that
	// failed to compile.
	Warnings []error `json:"-"`

	// Failed is set when HTML is FallbackHTML.
	Failed bool `json:"failed,omitempty"`
}

// Render produces the HTML for cfg. The same cfg and opts always yield the
// same output.
func Render(ctx context.Context, cfg generator.Config, opts Options) (Result, error) {
	sk, ok := Lookup(cfg.Generator)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", generator.ErrUnknownGenerator, cfg.Generator)
	}

	span := audit.Span{
		Kind:      audit.Render,
		Name:      cfg.Generator,
		Method:    opts.Target.String(),
		RequestID: opts.RequestID,
	}

	span.Begin(ctx)

	defer func() {
		span.End()
		span.Log()
	}()

	s := newScope(cfg, opts)
	res := Result{}

	for i, text := range cfg.Texts() {
		replaced, err := markup.Replace(text, cfg.WordReplacements)
		if err != nil && i == 0 {
			// Rules are shared by all sections; report their errors once.
			res.Warnings = append(res.Warnings, err)
		}

		var body string
		if sk.Kind == Chat {
			body = s.chat(replaced)
		} else {
			body = s.prose(replaced)
		}

		if sk.Section != nil {
			body = sk.Section(s, i, body)
		}

		if i == 0 && sk.Header != nil {
			body = sk.Header(s) + body
		}

		res.Sections = append(res.Sections, body)
	}

	spacer := ""
	if sk.Spacer != nil {
		spacer = sk.Spacer(s)
	}

	inner := strings.Join(res.Sections, spacer)
	if sk.Footer != nil {
		inner += sk.Footer(s)
	}

	if sk.Wrap != nil {
		inner = sk.Wrap(s, inner)
	}

	res.HTML = inner
	res.Warnings = append(res.Warnings, s.warnings...)

	for _, w := range res.Warnings {
		log.Warn().
			Str("sys", "render").
			Str("generator", cfg.Generator).
			Str("request_id", opts.RequestID).
			Err(w).
			Msg("Render degraded")
	}

	span.Body = []byte(res.HTML)

	return res, nil
}

// Safe is Render that never fails: errors and panics are logged and the
// result carries FallbackHTML instead.
func Safe(ctx context.Context, cfg generator.Config, opts Options) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("sys", "render").
				Str("generator", cfg.Generator).
				Str("request_id", opts.RequestID).
				Err(fmt.Errorf("%w: %v", errPanic, r)).
				Msg("Render failed")

			res = Result{HTML: FallbackHTML, Failed: true}
		}
	}()

	out, err := Render(ctx, cfg, opts)
	if err != nil {
		log.Error().
			Str("sys", "render").
			Str("generator", cfg.Generator).
			Str("request_id", opts.RequestID).
			Err(err).
			Msg("Render failed")

		return Result{HTML: FallbackHTML, Failed: true, Warnings: []error{err}}
	}

	return out
}

// Pair renders cfg for both targets.
func Pair(ctx context.Context, cfg generator.Config, opts Options) (preview, export Result) {
	opts.Target = imageurl.Preview
	preview = Safe(ctx, cfg, opts)

	opts.Target = imageurl.Export
	export = Safe(ctx, cfg, opts)

	return preview, export
}
