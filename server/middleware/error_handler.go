// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"encoding/json"
	"errors"
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"codeberg.org/inkpost/inkpost/config"
	"codeberg.org/inkpost/inkpost/core/audit"
	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/i18n"
	"codeberg.org/inkpost/inkpost/server/request_context"
	"codeberg.org/inkpost/inkpost/server/views"
)

// StatusCoder is implemented by errors that choose their own HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// ErrorResponse is the JSON body of a failed API request.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId"`
}

// CatchError wraps HTTP handlers that return an error, providing centralized
// error handling, response buffering, and request logging.
//
// The handler writes into a buffer. When it returns an error without having
// written an error status, the buffer is discarded and an error response is
// written instead: a JSON [ErrorResponse] under /api/, the error page
// elsewhere. A handler that wrote 404 outside the API also gets the error
// page. Otherwise the buffered response is sent as is.
//
// The status for an error is, in order: the error's own [StatusCoder],
// 413 for a request body over its limit, 404 for an unknown generator,
// 400 for an [i18n.UserError] and 500 for anything else.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := request_context.FromRequest(r)

		span := audit.Span{
			Kind:      audit.ToUser,
			RequestID: rc.RequestID,
			Name:      r.URL.Path,
			Method:    r.Method,
		}

		r = r.WithContext(span.Begin(r.Context()))

		recorder := httptest.NewRecorder()

		err := handler(recorder, r)

		rc.RequestError = err

		switch {
		case err != nil && recorder.Code < http.StatusBadRequest:
			rc.StatusCode = statusFor(err)
			writeError(w, r, rc, err)

		case err == nil && recorder.Code == http.StatusNotFound && !isAPI(r):
			rc.StatusCode = http.StatusNotFound
			writeError(w, r, rc, nil)

		default:
			rc.StatusCode = recorder.Code
			maps.Copy(w.Header(), recorder.Header())
			w.WriteHeader(recorder.Code)

			if _, err := recorder.Body.WriteTo(w); err != nil {
				log.Err(err).Str("request_id", rc.RequestID).Msg("Failed to write response body")
			}
		}

		span.End()
		span.StatusCode = rc.StatusCode
		span.Error = rc.RequestError

		if !config.Global.ShouldSkipServerLogging(r.URL.Path) {
			span.Log()
		}
	}
}

func statusFor(err error) int {
	var coder StatusCoder
	if errors.As(err, &coder) {
		return coder.StatusCode()
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}

	if errors.Is(err, generator.ErrUnknownGenerator) {
		return http.StatusNotFound
	}

	if _, ok := i18n.AsUserError(err); ok {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// errorMessage is what the user sees. Internal error text is never shown.
func errorMessage(r *http.Request, status int, err error) string {
	if ue, ok := i18n.AsUserError(err); ok {
		return ue.Error()
	}

	ctx := r.Context()

	switch status {
	case http.StatusNotFound:
		return i18n.Tr(ctx, "The page or generator you asked for does not exist.")
	case http.StatusRequestEntityTooLarge:
		return i18n.Tr(ctx, "The submitted content is too large.")
	case http.StatusTooManyRequests:
		return i18n.Tr(ctx, "Too many requests. Please wait a moment.")
	}

	if status < http.StatusInternalServerError {
		return i18n.Tr(ctx, "The request could not be processed.")
	}

	return i18n.Tr(ctx, "Something went wrong on our side.")
}

func writeError(w http.ResponseWriter, r *http.Request, rc *request_context.RequestContext, err error) {
	message := errorMessage(r, rc.StatusCode, err)

	if isAPI(r) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(rc.StatusCode)

		if encodeErr := json.NewEncoder(w).Encode(ErrorResponse{Error: message, RequestID: rc.RequestID}); encodeErr != nil {
			log.Err(encodeErr).Str("request_id", rc.RequestID).Msg("Failed to write JSON error")
		}

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(rc.StatusCode)

	page := views.ErrorPage(views.ErrorData{
		Layout:     views.NewLayout(r, i18n.Tr(r.Context(), "Error")),
		StatusCode: rc.StatusCode,
		Message:    message,
		RequestID:  rc.RequestID,
	})

	if renderErr := page.Render(r.Context(), w); renderErr != nil {
		log.Err(renderErr).
			Str("request_id", rc.RequestID).
			AnErr("original_error", err).
			Msg("Failed to render the error page")
	}
}
