// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/inkpost/inkpost/config"
	"codeberg.org/inkpost/inkpost/core/export"
	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/core/imageurl"
	"codeberg.org/inkpost/inkpost/core/store"
	"codeberg.org/inkpost/inkpost/core/upload"
	"codeberg.org/inkpost/inkpost/i18n"
	"codeberg.org/inkpost/inkpost/server/request_context"
	"codeberg.org/inkpost/inkpost/server/utils"
)

// GeneratorInfo describes one generator for API clients.
type GeneratorInfo struct {
	Name     string           `json:"name"`
	Defaults generator.Config `json:"defaults"`
}

// RenderRequest is the body of POST /api/render.
type RenderRequest struct {
	Generator string          `json:"generator"`
	Config    json.RawMessage `json:"config"`
	// Target limits the response to "preview" or "export"; both when empty.
	Target string `json:"target"`
}

// RenderResponse is the result of POST /api/render.
type RenderResponse struct {
	Preview  string   `json:"preview,omitempty"`
	HTML     string   `json:"html,omitempty"`
	Text     string   `json:"text,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Failed   bool     `json:"failed,omitempty"`
}

// SaveResponse is the result of PUT /api/configs/{generator}.
type SaveResponse struct {
	Saved         bool     `json:"saved"`
	ImagesDropped bool     `json:"imagesDropped,omitempty"`
	Cleaned       []string `json:"cleaned,omitempty"`
	Warning       string   `json:"warning,omitempty"`
}

// Generators lists every generator with its defaults for the request theme.
func (h *Handler) Generators(w http.ResponseWriter, r *http.Request) error {
	t := request_context.FromRequest(r).Theme

	infos := make([]GeneratorInfo, 0, len(generator.Names()))

	for _, name := range generator.Names() {
		defaults, err := generator.Defaults(name, t)
		if err != nil {
			return err
		}

		infos = append(infos, GeneratorInfo{Name: name, Defaults: defaults})
	}

	return writeJSON(w, http.StatusOK, infos)
}

// Render renders a submitted config.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) error {
	var req RenderRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}

	cfg, err := decodeConfig(r, req.Generator, req.Config)
	if err != nil {
		return err
	}

	res, err := h.render(r, cfg)
	if err != nil {
		return err
	}

	if req.Target != "" {
		switch imageurl.ParseTarget(req.Target) {
		case imageurl.Preview:
			res.HTML, res.Text = "", ""
		case imageurl.Export:
			res.Preview = ""
		}
	}

	return writeJSON(w, http.StatusOK, res)
}

func (h *Handler) render(r *http.Request, cfg generator.Config) (RenderResponse, error) {
	if err := checkSize(r.Context(), cfg); err != nil {
		return RenderResponse{}, err
	}

	preview, exported, err := renderPair(r.Context(), cfg, renderOptions(r))
	if err != nil {
		return RenderResponse{}, err
	}

	payload := export.New(exported.HTML)

	return RenderResponse{
		Preview:  preview.HTML,
		HTML:     payload.HTML,
		Text:     payload.Text,
		Warnings: warningMessages(r.Context(), preview, exported),
		Failed:   preview.Failed || exported.Failed,
	}, nil
}

// decodeConfig merges raw over the defaults of the named generator.
func decodeConfig(r *http.Request, name string, raw []byte) (generator.Config, error) {
	if name == "" {
		name = config.Global.Render.DefaultGenerator
	}

	cfg, err := generator.DecodeJSON(name, raw, request_context.FromRequest(r).Theme)
	if err != nil {
		if errors.Is(err, generator.ErrUnknownGenerator) {
			return generator.Config{}, err
		}

		return generator.Config{}, i18n.WrapUserError(r.Context(), err, "The config could not be read.")
	}

	cfg.EnsureSectionIDs()

	return cfg, nil
}

// GetConfig returns the stored config, or the autosave with ?autosave=1,
// merged over the generator defaults.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) error {
	name := utils.GetPathVar(r, "generator")
	t := request_context.FromRequest(r).Theme

	load := h.persister.Load
	if utils.GetQueryParam(r, "autosave") == "1" {
		load = h.persister.LoadAutosave
	}

	cfg, err := load(r.Context(), clientID(w, r), name, t)
	if err != nil {
		if errors.Is(err, generator.ErrUnknownGenerator) {
			return err
		}

		// The defaults are still usable.
		log.Warn().
			Str("sys", "store").
			Str("request_id", request_context.FromRequest(r).RequestID).
			Err(err).
			Msg("Serving defaults after a failed load")
	}

	return writeJSON(w, http.StatusOK, cfg)
}

// PutConfig persists a config. A save that fails even after cleanup is
// reported in the response, not as an error status.
func (h *Handler) PutConfig(w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(w, r, bodyLimit())
	if err != nil {
		return err
	}

	cfg, err := decodeConfig(r, utils.GetPathVar(r, "generator"), body)
	if err != nil {
		return err
	}

	resp, err := h.save(w, r, cfg)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, resp)
}

// save persists cfg and turns a degraded or failed save into a warning.
func (h *Handler) save(w http.ResponseWriter, r *http.Request, cfg generator.Config) (SaveResponse, error) {
	report, err := h.persister.Save(r.Context(), clientID(w, r), cfg)

	resp := SaveResponse{
		Saved:         err == nil,
		ImagesDropped: report.ImagesDropped,
		Cleaned:       report.Cleaned,
	}

	switch {
	case errors.Is(err, store.ErrSaveFailed):
		resp.Warning = i18n.Tr(r.Context(), "Storage is full. Your config was not saved, but you can keep editing.")
	case err != nil:
		return SaveResponse{}, err
	case report.ImagesDropped && len(report.Cleaned) > 0:
		resp.Warning = i18n.TrN(r.Context(),
			"Storage was full. {{.Count}} autosave or draft was removed and the config was saved without its images.",
			"Storage was full. {{.Count}} autosaves or drafts were removed and the config was saved without its images.",
			len(report.Cleaned), "Count", len(report.Cleaned))
	case report.ImagesDropped:
		resp.Warning = i18n.Tr(r.Context(), "Storage was full. The config was saved without its images.")
	}

	return resp, nil
}

// UploadResult normalises an image upload endpoint response.
func (h *Handler) UploadResult(w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(w, r, config.Global.Upload.MaxBodyBytes)
	if err != nil {
		return err
	}

	res, err := upload.Decode(body, config.Global.UploadPaths())
	if err != nil {
		return i18n.WrapUserError(r.Context(), err, "The image upload did not return a usable URL.")
	}

	return writeJSON(w, http.StatusOK, res)
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err := w.Write([]byte("ok\n"))

	return err
}
