// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"golang.org/x/text/language"

	"codeberg.org/inkpost/inkpost/core/cookie"
	"codeberg.org/inkpost/inkpost/core/theme"
	"codeberg.org/inkpost/inkpost/core/untrusted"
	"codeberg.org/inkpost/inkpost/i18n"
	"codeberg.org/inkpost/inkpost/server/utils"
)

// Preferences stores the theme, language and image proxy cookies, or clears
// all of them when "reset" is set, then returns to the page named by the
// "return" field.
func Preferences(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, preferencesBodyLimit)
	if err := r.ParseForm(); err != nil {
		return i18n.WrapUserError(r.Context(), err, "The form could not be read.")
	}

	target := utils.SanitizeReturnPath(utils.GetFormValue(r, "return", "/"))
	if target == "" {
		target = "/"
	}

	if utils.GetFormValue(r, "reset") == "1" {
		untrusted.ClearAllCookies(w, r)
		http.Redirect(w, r, target, http.StatusSeeOther)

		return nil
	}

	if err := setTheme(w, r, utils.GetFormValue(r, "theme")); err != nil {
		return err
	}

	if err := setLanguage(w, r, utils.GetFormValue(r, "lang")); err != nil {
		return err
	}

	if err := setImageProxy(w, r, utils.GetFormValue(r, "imageProxy")); err != nil {
		return err
	}

	http.Redirect(w, r, target, http.StatusSeeOther)

	return nil
}

const preferencesBodyLimit = 8 << 10

func setTheme(w http.ResponseWriter, r *http.Request, value string) error {
	switch theme.Override(value) {
	case "":
		return nil
	case theme.FollowSystem:
		untrusted.ClearCookie(w, r, cookie.ThemeCookie)
	case theme.ForceLight, theme.ForceDark:
		untrusted.SetCookie(w, r, cookie.ThemeCookie, value)
	default:
		return i18n.NewUserError(r.Context(), "Unknown theme {{.Theme}}.", "Theme", value)
	}

	return nil
}

func setLanguage(w http.ResponseWriter, r *http.Request, value string) error {
	if value == "" {
		return nil
	}

	if _, err := language.Parse(value); err != nil {
		return i18n.WrapUserError(r.Context(), err, "Unknown language {{.Lang}}.", "Lang", value)
	}

	untrusted.SetCookie(w, r, cookie.LangCookie, value)

	return nil
}

// setImageProxy accepts an absolute https URL; an empty value restores the
// instance default.
func setImageProxy(w http.ResponseWriter, r *http.Request, value string) error {
	if value == "" {
		untrusted.ClearCookie(w, r, cookie.ImageProxyCookie)

		return nil
	}

	u, err := utils.ParseURL(value, "Image proxy")
	if err != nil || u.Scheme != "https" {
		return i18n.WrapUserError(r.Context(), err, "The image proxy must be an https URL.")
	}

	// ParseURL trims the trailing slash; a proxy prefix needs it kept as typed.
	untrusted.SetCookie(w, r, cookie.ImageProxyCookie, value)

	return nil
}
