// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"github.com/gorilla/websocket"

	"codeberg.org/inkpost/inkpost/core/store"
	"codeberg.org/inkpost/inkpost/server/utils"
)

const (
	liveReadLimit   = 1 << 20
	liveBufferBytes = 4096
)

// Handler serves every route that needs the config store.
type Handler struct {
	persister *store.Persister
	upgrader  websocket.Upgrader
}

// New creates a Handler persisting configs through p.
func New(p *store.Persister) *Handler {
	return &Handler{
		persister: p,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  liveBufferBytes,
			WriteBufferSize: liveBufferBytes,
			CheckOrigin:     sameOrigin,
		},
	}
}

// sameOrigin accepts browsers on this host and non-browser clients that send
// no Origin at all.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	return origin == "" || origin == utils.GetOriginFromRequest(r)
}
