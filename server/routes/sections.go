// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"

	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/core/idgen"
	"codeberg.org/inkpost/inkpost/i18n"
	"codeberg.org/inkpost/inkpost/server/request_context"
	"codeberg.org/inkpost/inkpost/server/utils"
)

// SectionRequest adds a section or edits one. Position, when set, moves the
// section to that zero-based index.
type SectionRequest struct {
	Content  *string `json:"content"`
	Position *int    `json:"position"`
}

// SectionsResponse is the stored section list after an edit.
type SectionsResponse struct {
	SaveResponse

	Section  *generator.Section  `json:"section,omitempty"`
	Sections []generator.Section `json:"sections"`
}

// AddSection appends a section to the stored config of a generator.
func (h *Handler) AddSection(w http.ResponseWriter, r *http.Request) error {
	var req SectionRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}

	cfg, err := h.loadForEdit(w, r)
	if err != nil {
		return err
	}

	content := ""
	if req.Content != nil {
		content = *req.Content
	}

	added, err := cfg.AddSection(content)
	if err != nil {
		return sectionError(r, err)
	}

	if req.Position != nil {
		if err := cfg.MoveSection(added.ID, *req.Position); err != nil {
			return sectionError(r, err)
		}
	}

	return h.saveSections(w, r, cfg, &added, http.StatusCreated)
}

// UpdateSection replaces a section's content, moves it, or both.
func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) error {
	var req SectionRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}

	id, err := sectionID(r)
	if err != nil {
		return err
	}

	cfg, err := h.loadForEdit(w, r)
	if err != nil {
		return err
	}

	if req.Content != nil {
		if err := cfg.UpdateSection(id, *req.Content); err != nil {
			return sectionError(r, err)
		}
	}

	if req.Position != nil {
		if err := cfg.MoveSection(id, *req.Position); err != nil {
			return sectionError(r, err)
		}
	}

	return h.saveSections(w, r, cfg, nil, http.StatusOK)
}

// DeleteSection removes a section.
func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) error {
	id, err := sectionID(r)
	if err != nil {
		return err
	}

	cfg, err := h.loadForEdit(w, r)
	if err != nil {
		return err
	}

	if err := cfg.RemoveSection(id); err != nil {
		return sectionError(r, err)
	}

	return h.saveSections(w, r, cfg, nil, http.StatusOK)
}

// loadForEdit loads the stored config. Free content without sections becomes
// the first section so the edit keeps it.
//
// A store that cannot be read fails the edit: saving the edit on top of the
// defaults would overwrite the stored config.
func (h *Handler) loadForEdit(w http.ResponseWriter, r *http.Request) (generator.Config, error) {
	name := utils.GetPathVar(r, "generator")
	if !generator.Known(name) {
		return generator.Config{}, generator.ErrUnknownGenerator
	}

	cfg, err := h.persister.Load(r.Context(), clientID(w, r), name, request_context.FromRequest(r).Theme)
	if errors.Is(err, generator.ErrUnknownGenerator) {
		return generator.Config{}, err
	}

	if err != nil {
		return generator.Config{}, i18n.WrapUserError(r.Context(),
			statusError{status: http.StatusServiceUnavailable, err: err},
			"The stored config could not be read, so nothing was changed. Try again later.")
	}

	cfg.EnsureSectionIDs()

	if len(cfg.Sections) == 0 && cfg.Content != "" {
		if _, err := cfg.AddSection(cfg.Content); err != nil {
			return generator.Config{}, sectionError(r, err)
		}

		cfg.Content = ""
	}

	return cfg, nil
}

func (h *Handler) saveSections(w http.ResponseWriter, r *http.Request, cfg generator.Config, section *generator.Section, status int) error {
	if err := checkSize(r.Context(), cfg); err != nil {
		return err
	}

	resp, err := h.save(w, r, cfg)
	if err != nil {
		return err
	}

	sections := cfg.Sections
	if sections == nil {
		sections = []generator.Section{}
	}

	return writeJSON(w, status, SectionsResponse{SaveResponse: resp, Section: section, Sections: sections})
}

func sectionID(r *http.Request) (string, error) {
	id := utils.GetPathVar(r, "id")
	if !idgen.ValidSection(id) {
		return "", statusError{status: http.StatusNotFound, err: generator.ErrSectionNotFound}
	}

	return id, nil
}

func sectionError(r *http.Request, err error) error {
	switch {
	case errors.Is(err, generator.ErrSectionNotFound):
		return statusError{status: http.StatusNotFound, err: err}
	case errors.Is(err, generator.ErrSectionIndex):
		return i18n.WrapUserError(r.Context(), err, "That position is outside the section list.")
	case errors.Is(err, generator.ErrTooManySections):
		return i18n.WrapUserError(r.Context(), err, "A config holds at most {{.Max}} sections.", "Max", generator.MaxSections)
	default:
		return err
	}
}
