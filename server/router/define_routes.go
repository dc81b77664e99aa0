// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"codeberg.org/inkpost/inkpost/config"
	"codeberg.org/inkpost/inkpost/server/assets"
	"codeberg.org/inkpost/inkpost/server/middleware"
	"codeberg.org/inkpost/inkpost/server/routes"
)

// DefineRoutes registers every route. Middleware is added separately by
// RegisterMiddleware.
func (router *Router) DefineRoutes(h *routes.Handler) {
	fileServerHandler := fileServer()

	router.Handle("GET /css/", fileServerHandler)
	router.Handle("GET /js/", fileServerHandler)

	router.HandleFunc("GET /healthz", middleware.CatchError(routes.Healthz))

	// Editor
	// /{$} matches only the root path
	router.HandleFunc("GET /{$}", middleware.CatchError(h.EditorPage))
	router.HandleFunc("POST /{$}", middleware.CatchError(h.EditorSubmit))
	router.HandleFunc("POST /preferences", middleware.CatchError(routes.Preferences))

	// JSON API
	router.HandleFunc("GET /api/generators", middleware.CatchError(h.Generators))
	router.HandleFunc("POST /api/render", middleware.CatchError(h.Render))
	router.HandleFunc("GET /api/configs/{generator}", middleware.CatchError(h.GetConfig))
	router.HandleFunc("PUT /api/configs/{generator}", middleware.CatchError(h.PutConfig))
	router.HandleFunc("POST /api/configs/{generator}/sections", middleware.CatchError(h.AddSection))
	router.HandleFunc("PUT /api/configs/{generator}/sections/{id}", middleware.CatchError(h.UpdateSection))
	router.HandleFunc("DELETE /api/configs/{generator}/sections/{id}", middleware.CatchError(h.DeleteSection))
	router.HandleFunc("POST /api/upload-result", middleware.CatchError(h.UploadResult))

	// The websocket needs the raw connection, which CatchError's buffer cannot hijack.
	router.HandleFunc("GET /api/live", h.Live)

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}

	router.HandleFunc("/", middleware.CatchError(routes.NotFound))
}

// Serve static files from embedded assets.
func fileServer() http.HandlerFunc {
	staticContentFS, err := fs.Sub(assets.FS, "assets")
	if err != nil {
		panic(fmt.Errorf("failed to create sub-filesystem for embedded 'assets' directory: %w", err))
	}

	fileServer := http.FileServer(http.FS(staticContentFS))

	return func(w http.ResponseWriter, r *http.Request) {
		// go:embed content only changes with a new build, so the
		// per-instance cache id is a strong validator.
		w.Header().Set("ETag", `"`+config.Global.Instance.FileServerCacheID+`"`)
		fileServer.ServeHTTP(w, r)
	}
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func registerDebugRoutes(router *Router) {
	if err := flightRecorder.Start(); err != nil {
		panic(err)
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
