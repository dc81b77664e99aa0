// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"codeberg.org/inkpost/inkpost/config"
	"codeberg.org/inkpost/inkpost/core/cookie"
	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/core/markup"
	"codeberg.org/inkpost/inkpost/core/untrusted"
	"codeberg.org/inkpost/inkpost/i18n"
	"codeberg.org/inkpost/inkpost/server/request_context"
	"codeberg.org/inkpost/inkpost/server/utils"
	"codeberg.org/inkpost/inkpost/server/views"
)

// EditorPage shows the editor with the stored config of the last used
// generator, or the one named by ?generator=.
func (h *Handler) EditorPage(w http.ResponseWriter, r *http.Request) error {
	name := utils.GetQueryParam(r, "generator", untrusted.GetGenerator(r, config.Global.Render.DefaultGenerator))
	if !generator.Known(name) {
		return generator.ErrUnknownGenerator
	}

	cfg, err := h.persister.Load(r.Context(), clientID(w, r), name, request_context.FromRequest(r).Theme)
	if err != nil {
		log.Warn().
			Str("sys", "store").
			Str("request_id", request_context.FromRequest(r).RequestID).
			Err(err).
			Msg("Editor opened with defaults after a failed load")
	}

	return writeEditor(w, r, editorData(r, cfg))
}

// EditorSubmit renders the form submission and shows the result on the
// editor page. The form's content replaces the config's sections.
func (h *Handler) EditorSubmit(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit())
	if err := r.ParseForm(); err != nil {
		return i18n.WrapUserError(r.Context(), err, "The form could not be read.")
	}

	name := r.PostFormValue("generator")

	cfg, err := decodeConfig(r, name, []byte(strings.TrimSpace(r.PostFormValue("config"))))
	if err != nil {
		return err
	}

	if content := r.PostFormValue("content"); content != "" {
		cfg.Content = content
		cfg.Sections = nil
	}

	cfg.Mode = markup.ParseMode(r.PostFormValue("mode"))

	res, err := h.render(r, cfg)
	if err != nil {
		return err
	}

	untrusted.SetCookie(w, r, cookie.GeneratorCookie, cfg.Generator)

	if err := h.persister.Autosave(r.Context(), clientID(w, r), cfg); err != nil {
		log.Warn().
			Str("sys", "store").
			Str("request_id", request_context.FromRequest(r).RequestID).
			Err(err).
			Msg("Autosave failed")
	}

	data := editorData(r, cfg)
	data.Rendered = true
	data.Preview = res.Preview
	data.Export = res.HTML
	data.Text = res.Text
	data.Warnings = res.Warnings

	return writeEditor(w, r, data)
}

func writeEditor(w http.ResponseWriter, r *http.Request, data views.EditorData) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	return views.Editor(data).Render(r.Context(), w)
}

func editorData(r *http.Request, cfg generator.Config) views.EditorData {
	encoded, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		encoded = nil
	}

	content := cfg.Content
	if len(cfg.Sections) > 0 {
		content = strings.Join(cfg.Texts(), "\n\n")
	}

	return views.EditorData{
		Layout:     views.NewLayout(r, i18n.Tr(r.Context(), "Editor")),
		Generators: generator.Names(),
		Generator:  cfg.Generator,
		Mode:       cfg.Mode,
		Content:    content,
		ConfigJSON: string(encoded),
		Languages:  languageOptions(i18n.TagFrom(r.Context())),
		ImageProxy: untrusted.GetImageProxy(r, ""),
	}
}

// languageOptions lists the supported languages by their own names.
func languageOptions(current language.Tag) []views.LanguageOption {
	currentBase, _ := current.Base()

	tags := i18n.Languages()
	options := make([]views.LanguageOption, 0, len(tags))

	for _, t := range tags {
		base, _ := t.Base()

		name := display.Self.Name(t)
		if name == "" {
			name = t.String()
		}

		options = append(options, views.LanguageOption{
			Tag:      t.String(),
			Name:     name,
			Selected: base == currentBase,
		})
	}

	slices.SortFunc(options, func(a, b views.LanguageOption) int {
		return strings.Compare(a.Tag, b.Tag)
	})

	return options
}
