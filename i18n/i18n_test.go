// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"codeberg.org/inkpost/inkpost/server/assets"
)

const testCatalog = `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"
"Language: ko\n"
"Plural-Forms: nplurals=1; plural=0;\n"

msgid "Copy HTML"
msgstr "HTML 복사"

msgctxt "button"
msgid "Save"
msgstr "저장"

msgid "{{.Count}} section"
msgid_plural "{{.Count}} sections"
msgstr[0] "섹션 {{.Count}}개"

msgid "<b>bold</b>"
msgstr "<b>굵게</b>"
`

// setup installs a one-catalog FS. Tests touching package state do not run in parallel.
func setup(t *testing.T) {
	t.Helper()

	assets.FS = fstest.MapFS{
		"po/ko.po":       {Data: []byte(testCatalog)},
		"po/inkpost.pot": {Data: []byte("")},
		"po/README":      {Data: []byte("not a catalog")},
	}

	require.NoError(t, Setup())
}

func TestTranslate(t *testing.T) {
	setup(t)

	ko := WithTag(context.Background(), language.Korean)
	en := WithTag(context.Background(), language.AmericanEnglish)
	ja := WithTag(context.Background(), language.Japanese)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Korean", Tr(ko, "Copy HTML"), "HTML 복사"},
		{"English is the msgid", Tr(en, "Copy HTML"), "Copy HTML"},
		{"Unsupported falls back to Korean", Tr(ja, "Copy HTML"), "HTML 복사"},
		{"No tag means base locale", Tr(context.Background(), "Copy HTML"), "HTML 복사"},
		{"Missing key returns msgid", Tr(ko, "Not translated"), "Not translated"},
		{"Context", TrC(ko, "button", "Save"), "저장"},
		{"Plural Korean", TrN(ko, "{{.Count}} section", "{{.Count}} sections", 3, "Count", 3), "섹션 3개"},
		{"Plural English one", TrN(en, "{{.Count}} section", "{{.Count}} sections", 1, "Count", 1), "1 section"},
		{"Plural English many", TrN(en, "{{.Count}} section", "{{.Count}} sections", 4, "Count", 4), "4 sections"},
		{"Placeholder", Tr(en, "Saved {{.Name}}", "Name", "card"), "Saved card"},
		{"Missing placeholder value", Tr(en, "Saved {{.Name}}"), "Saved {{.Name}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestLanguages(t *testing.T) {
	setup(t)

	assert.Equal(t, []language.Tag{language.English, language.Korean}, Languages())
}

func TestFromRequest(t *testing.T) {
	setup(t)

	tests := []struct {
		name   string
		query  string
		cookie string
		accept string
		want   string
	}{
		{"Accept-Language", "", "", "en-US,en;q=0.9", "Copy HTML"},
		{"Cookie beats header", "", "en", "ko-KR", "Copy HTML"},
		{"Query beats cookie", "?lang=ko", "en", "", "HTML 복사"},
		{"Auto ignores cookie", "?lang=auto", "ko", "en", "Copy HTML"},
		{"Nothing", "", "", "", "HTML 복사"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: "Lang", Value: tt.cookie})
			}

			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}

			ctx := WithRequest(context.Background(), r)
			assert.Equal(t, tt.want, Tr(ctx, "Copy HTML"))
		})
	}
}

func TestMsgKeyRendersEscaped(t *testing.T) {
	setup(t)

	var _ templ.Component = MsgKey("foo")

	var buf bytes.Buffer
	require.NoError(t, MsgKey("<b>bold</b>").Render(WithTag(context.Background(), language.Korean), &buf))
	assert.Equal(t, "&lt;b&gt;굵게&lt;/b&gt;", buf.String())
}

func TestUserError(t *testing.T) {
	setup(t)

	cause := errors.New("disk full")
	err := WrapUserError(WithTag(context.Background(), language.Korean), cause, "Copy HTML")

	assert.Equal(t, "HTML 복사", err.Error())
	assert.ErrorIs(t, err, cause)

	found, ok := AsUserError(errors.Join(errors.New("other"), err))
	require.True(t, ok)
	assert.Same(t, err, found)
}
