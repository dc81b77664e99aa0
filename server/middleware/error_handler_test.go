// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/i18n"
	"codeberg.org/inkpost/inkpost/server/request_context"
)

// newRequest creates a request that already went through WithRequestContext.
func newRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()

	r := httptest.NewRequest(method, target, nil)

	return r.WithContext(request_context.WithRequestContext(r.Context(), r))
}

type teapotError struct{}

func (teapotError) Error() string   { return "teapot" }
func (teapotError) StatusCode() int { return http.StatusTeapot }

func TestCatchErrorSuccess(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		w.Header().Set("X-Test", "yes")
		w.WriteHeader(http.StatusCreated)
		_, err := io.WriteString(w, `{"status":"ok"}`)

		return err
	})

	r := newRequest(t, http.MethodPost, "/api/render")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "yes", rec.Header().Get("X-Test"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rc := request_context.FromRequest(r)
	assert.NoError(t, rc.RequestError)
	assert.Equal(t, http.StatusCreated, rc.StatusCode)
}

func TestCatchErrorStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"internal", errors.New("boom"), http.StatusInternalServerError},
		{"unknown generator", fmt.Errorf("load: %w", generator.ErrUnknownGenerator), http.StatusNotFound},
		{"user error", i18n.NewUserError(t.Context(), "Upload failed."), http.StatusBadRequest},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"status coder", teapotError{}, http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
				_, _ = io.WriteString(w, "partial output")

				return tt.err
			})

			r := newRequest(t, http.MethodGet, "/api/configs/card")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)

			require.Equal(t, tt.status, rec.Code)
			assert.NotContains(t, rec.Body.String(), "partial output")

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, request_context.FromRequest(r).RequestID, body.RequestID)
			assert.ErrorIs(t, request_context.FromRequest(r).RequestError, tt.err)
		})
	}
}

func TestCatchErrorHidesInternalMessages(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(http.ResponseWriter, *http.Request) error {
		return errors.New("database password is hunter2")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest(t, http.MethodGet, "/api/generators"))

	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestCatchErrorShowsUserErrors(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(_ http.ResponseWriter, r *http.Request) error {
		return i18n.NewUserError(r.Context(), "Upload failed.")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest(t, http.MethodPost, "/"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "400 Bad Request", doc.Find("h1").Text())
	assert.Contains(t, doc.Find("main").Text(), "Upload failed.")
}

func TestCatchErrorNotFoundPage(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		http.NotFound(w, nil)

		return nil
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest(t, http.MethodGet, "/nowhere"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>404 Not Found</h1>")
}

func TestCatchErrorKeepsHandledErrorStatus(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, "handled")

		return errors.New("conflict")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest(t, http.MethodPut, "/api/configs/card"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "handled", rec.Body.String())
}
