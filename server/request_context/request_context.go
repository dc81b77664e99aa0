// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package request_context carries per-request state through the middleware chain.

It is separate from middleware and routes so both can import it.
*/
package request_context

import (
	"context"
	"net/http"

	"golang.org/x/text/language"

	"codeberg.org/inkpost/inkpost/core/idgen"
	"codeberg.org/inkpost/inkpost/core/theme"
	"codeberg.org/inkpost/inkpost/core/untrusted"
	"codeberg.org/inkpost/inkpost/i18n"
)

// RequestContext is the state of one HTTP request.
type RequestContext struct {
	// RequestID tags logs, spans and render dumps.
	RequestID string

	// RequestError is set by middleware.CatchError when a handler returns one.
	RequestError error

	// StatusCode that was, or will be, written. Defaults to 200.
	StatusCode int

	// Theme resolved from the client hint and the theme cookie.
	Theme theme.Theme

	// Locale selected for translations.
	Locale language.Tag

	// ClientID namespaces stored configs. It is resolved from the Client
	// cookie by the handlers that touch the store.
	ClientID string
}

type requestContextKeyType struct{}

var requestContextKey = requestContextKeyType{}

// WithRequestContext attaches a fresh RequestContext and the request locale to ctx.
func WithRequestContext(ctx context.Context, r *http.Request) context.Context {
	ctx = i18n.WithRequest(ctx, r)

	rc := RequestContext{
		RequestID:  idgen.Request(),
		StatusCode: http.StatusOK,
		Theme:      untrusted.GetTheme(r),
		Locale:     i18n.TagFrom(ctx),
	}

	return context.WithValue(ctx, requestContextKey, &rc)
}

// FromContext always returns a usable pointer, a zero value when ctx carries none.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestContextKey).(*RequestContext); ok {
		return rc
	}

	return &RequestContext{Theme: theme.Light}
}

// FromRequest is FromContext(r.Context()).
func FromRequest(r *http.Request) *RequestContext {
	return FromContext(r.Context())
}
