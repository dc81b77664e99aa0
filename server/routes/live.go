// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/inkpost/inkpost/core/audit"
	"codeberg.org/inkpost/inkpost/i18n"
	"codeberg.org/inkpost/inkpost/server/request_context"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
)

// LiveRequest is one message from the editor's live preview.
type LiveRequest struct {
	Generator string          `json:"generator"`
	Config    json.RawMessage `json:"config"`
	// Autosave stores the config under the generator's autosave key.
	Autosave bool `json:"autosave"`
}

// LiveResponse answers a LiveRequest. Error is set instead of the render
// when the request could not be rendered.
type LiveResponse struct {
	Preview  string   `json:"preview,omitempty"`
	HTML     string   `json:"html,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Failed   bool     `json:"failed,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Live upgrades to a websocket and answers every message with a fresh
// render. Each connection is served by its own goroutine.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	rc := request_context.FromRequest(r)

	span := audit.Span{Kind: audit.ToUser, RequestID: rc.RequestID, Name: r.URL.Path, Method: r.Method}
	span.Begin(r.Context())

	client, issued := resolveClient(r)

	var header http.Header
	if issued != nil {
		header = http.Header{"Set-Cookie": {issued.String()}}
	}

	conn, err := h.upgrader.Upgrade(w, r, header)
	if err != nil {
		// Upgrade has already written the HTTP error.
		span.End()
		span.StatusCode = http.StatusBadRequest
		span.Error = err
		span.Log()

		return
	}

	logger := log.With().Str("sys", "live").Str("request_id", rc.RequestID).Logger()
	logger.Debug().Msg("Live preview connected")

	stop := make(chan struct{})
	defer func() {
		close(stop)
		conn.Close()

		span.End()
		span.StatusCode = http.StatusSwitchingProtocols
		span.Log()
	}()

	conn.SetReadLimit(liveReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	writes := make(chan LiveResponse, 1)

	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)

		h.liveWriter(conn, writes, stop, logger)
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("Live preview read failed")
			}

			return
		}

		select {
		case writes <- h.liveRender(r, client, msg, logger):
		case <-writerDone:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// liveWriter owns all writes to conn, so pings never interleave with replies.
func (h *Handler) liveWriter(conn *websocket.Conn, writes <-chan LiveResponse, stop <-chan struct{}, logger zerolog.Logger) {
	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()

	for {
		select {
		case resp := <-writes:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))

			if err := conn.WriteJSON(resp); err != nil {
				logger.Warn().Err(err).Msg("Live preview write failed")

				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))

			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-stop:
			return
		}
	}
}

func (h *Handler) liveRender(r *http.Request, client string, msg []byte, logger zerolog.Logger) LiveResponse {
	var req LiveRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		return LiveResponse{Error: i18n.Tr(r.Context(), "The request could not be read.")}
	}

	cfg, err := decodeConfig(r, req.Generator, req.Config)
	if err != nil {
		return LiveResponse{Error: liveErrorMessage(r, err)}
	}

	res, err := h.render(r, cfg)
	if err != nil {
		return LiveResponse{Error: liveErrorMessage(r, err)}
	}

	if req.Autosave {
		if err := h.persister.Autosave(r.Context(), client, cfg); err != nil {
			logger.Warn().Err(err).Str("generator", cfg.Generator).Msg("Autosave failed")
		}
	}

	return LiveResponse{
		Preview:  res.Preview,
		HTML:     res.HTML,
		Warnings: res.Warnings,
		Failed:   res.Failed,
	}
}

func liveErrorMessage(r *http.Request, err error) string {
	if ue, ok := i18n.AsUserError(err); ok {
		return ue.Error()
	}

	return i18n.Tr(r.Context(), "The preview could not be rendered.")
}
