// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/inkpost/inkpost/config"
	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/core/store"
	"codeberg.org/inkpost/inkpost/i18n"
	"codeberg.org/inkpost/inkpost/server/assets"
	"codeberg.org/inkpost/inkpost/server/middleware"
	"codeberg.org/inkpost/inkpost/server/routes"
)

const testCatalog = `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"
"Language: ko\n"
"Plural-Forms: nplurals=1; plural=0;\n"

msgid "Editor"
msgstr "편집기"
`

func TestMain(m *testing.M) {
	config.Global.SetDefaults()
	config.Global.HTTP.RateLimit = 0
	config.Global.Instance.FileServerCacheID = "test"

	assets.FS = fstest.MapFS{
		"assets/css/editor.css": {Data: []byte("body{}")},
		"assets/js/editor.js":   {Data: []byte("void 0")},
		"po/ko.po":              {Data: []byte(testCatalog)},
	}

	if err := i18n.Setup(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func newServer(t *testing.T) *Router {
	t.Helper()

	s, err := store.NewMemory(store.DefaultMaxEntries, 0, true)
	require.NoError(t, err)

	return newServerWith(store.NewPersister(s))
}

func newServerWith(p *store.Persister) *Router {
	router := NewRouter()
	router.DefineRoutes(routes.New(p))
	router.RegisterMiddleware()

	return router
}

func newRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" && strings.HasPrefix(target, "/api/") {
		r.Header.Set("Content-Type", "application/json")
	}

	return r
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newRequest(method, target, body))

	return rec
}

// browser keeps the cookies a router sets across requests, like one visitor's browser.
type browser struct {
	router  http.Handler
	remote  string
	cookies map[string]*http.Cookie
}

func newBrowser(router http.Handler, remote string) *browser {
	return &browser{router: router, remote: remote, cookies: map[string]*http.Cookie{}}
}

func (b *browser) serve(method, target, body string) *httptest.ResponseRecorder {
	return b.do(newRequest(method, target, body))
}

func (b *browser) submit(target string, form url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return b.do(r)
}

func (b *browser) do(r *http.Request) *httptest.ResponseRecorder {
	r.RemoteAddr = b.remote

	for _, c := range b.cookies {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	rec := httptest.NewRecorder()
	b.router.ServeHTTP(rec, r)

	for _, c := range rec.Result().Cookies() {
		b.cookies[c.Name] = c
	}

	return rec
}

// flakyStore fails reads once broken is set.
type flakyStore struct {
	store.Store

	broken atomic.Bool
}

var errDiskGone = errors.New("disk gone")

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.broken.Load() {
		return nil, errDiskGone
	}

	return f.Store.Get(ctx, key)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec := serve(newServer(t), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Inkpost-Version"))
}

func TestStaticFiles(t *testing.T) {
	t.Parallel()

	rec := serve(newServer(t), http.MethodGet, "/css/editor.css", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())
	assert.Equal(t, `"test"`, rec.Header().Get("ETag"))
}

func TestGenerators(t *testing.T) {
	t.Parallel()

	rec := serve(newServer(t), http.MethodGet, "/api/generators", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var infos []routes.GeneratorInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	require.Len(t, infos, len(generator.Names()))

	for i, info := range infos {
		assert.Equal(t, generator.Names()[i], info.Name)
		assert.Equal(t, info.Name, info.Defaults.Generator)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	body := `{"generator":"card","config":{"content":"\"Hello\" she said.","profile":{"imageUrl":"//img.example/a.png","showProfileImage":true}}}`

	rec := serve(newServer(t), http.MethodPost, "/api/render", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res routes.RenderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	assert.Contains(t, res.Preview, "images.weserv.nl")
	assert.NotContains(t, res.HTML, "images.weserv.nl")
	assert.Contains(t, res.HTML, "https://img.example/a.png")
	assert.Contains(t, res.Text, `"Hello" she said.`)
	assert.False(t, res.Failed)
}

func TestRenderTarget(t *testing.T) {
	t.Parallel()

	rec := serve(newServer(t), http.MethodPost, "/api/render", `{"generator":"banner","config":{"content":"hi"},"target":"preview"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res routes.RenderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Preview)
	assert.Empty(t, res.HTML)
	assert.Empty(t, res.Text)
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"unknown generator", `{"generator":"nope","config":{}}`, http.StatusNotFound},
		{"broken JSON", `{"generator":`, http.StatusBadRequest},
		{"bad config", `{"generator":"card","config":{"width":"wide"}}`, http.StatusBadRequest},
		{"content too large", `{"generator":"card","config":{"content":"` + strings.Repeat("a", 512<<10+1) + `"}}`, http.StatusRequestEntityTooLarge},
	}

	router := newServer(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(router, http.MethodPost, "/api/render", tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var body middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestConfigs(t *testing.T) {
	t.Parallel()

	b := newBrowser(newServer(t), "192.0.2.1:1234")

	rec := b.serve(http.MethodGet, "/api/configs/jelly", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var loaded generator.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loaded))
	assert.Equal(t, "jelly", loaded.Generator)

	rec = b.serve(http.MethodPut, "/api/configs/jelly",
		`{"content":"stored","profile":{"imageUrl":"data:image/png;base64,AAAA","backgroundUrl":"https://img.example/bg.png"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var saved routes.SaveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.True(t, saved.Saved)
	assert.Empty(t, saved.Warning)

	rec = b.serve(http.MethodGet, "/api/configs/jelly", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loaded))
	assert.Equal(t, "stored", loaded.Content)
	assert.Empty(t, loaded.Profile.ImageURL, "data URLs are not persisted")
	assert.Equal(t, "https://img.example/bg.png", loaded.Profile.BackgroundURL)

	assert.Equal(t, http.StatusNotFound, b.serve(http.MethodGet, "/api/configs/nope", "").Code)
}

func TestSections(t *testing.T) {
	t.Parallel()

	b := newBrowser(newServer(t), "192.0.2.1:1234")

	rec := b.serve(http.MethodPut, "/api/configs/chatchan", `{"content":"first","sections":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	decode := func(rec *httptest.ResponseRecorder) routes.SectionsResponse {
		t.Helper()

		var resp routes.SectionsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())

		return resp
	}

	texts := func(resp routes.SectionsResponse) []string {
		out := make([]string, 0, len(resp.Sections))
		for _, s := range resp.Sections {
			out = append(out, s.Content)
		}

		return out
	}

	rec = b.serve(http.MethodPost, "/api/configs/chatchan/sections", `{"content":"second"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	added := decode(rec)
	require.NotNil(t, added.Section)
	assert.True(t, added.Saved)
	assert.Equal(t, []string{"first", "second"}, texts(added))

	rec = b.serve(http.MethodPut, "/api/configs/chatchan/sections/"+added.Section.ID, `{"content":"zweite","position":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"zweite", "first"}, texts(decode(rec)))

	rec = b.serve(http.MethodPut, "/api/configs/chatchan/sections/"+added.Section.ID, `{"position":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = b.serve(http.MethodDelete, "/api/configs/chatchan/sections/"+added.Section.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"first"}, texts(decode(rec)))

	rec = b.serve(http.MethodGet, "/api/configs/chatchan", "")

	var loaded generator.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loaded))
	assert.Equal(t, []string{"first"}, loaded.Texts())

	assert.Equal(t, http.StatusNotFound, b.serve(http.MethodDelete, "/api/configs/chatchan/sections/"+added.Section.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, b.serve(http.MethodDelete, "/api/configs/chatchan/sections/not-an-id", "").Code)
	assert.Equal(t, http.StatusNotFound, b.serve(http.MethodPost, "/api/configs/nope/sections", `{}`).Code)
}

func TestClientsDoNotShareConfigs(t *testing.T) {
	t.Parallel()

	router := newServer(t)
	alice := newBrowser(router, "10.0.0.1:1111")
	bob := newBrowser(router, "192.168.9.9:2222")

	rec := alice.serve(http.MethodPut, "/api/configs/card", `{"content":"alice private diary"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	alice.submit("/", url.Values{"generator": {"card"}, "content": {"alice draft"}})

	for _, target := range []string{"/api/configs/card", "/api/configs/card?autosave=1"} {
		rec = bob.serve(http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "alice", target)
	}

	rec = bob.serve(http.MethodPut, "/api/configs/card", `{"content":"bob's notes"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = alice.serve(http.MethodGet, "/api/configs/card", "")
	assert.Contains(t, rec.Body.String(), "alice private diary")

	// A forged cookie is replaced, not trusted.
	mallory := newBrowser(router, "10.0.0.1:3333")
	mallory.cookies["Client"] = &http.Cookie{Name: "Client", Value: "v4.public.forged"}

	rec = mallory.serve(http.MethodGet, "/api/configs/card", "")
	assert.NotContains(t, rec.Body.String(), "alice")
	assert.NotEqual(t, "v4.public.forged", mallory.cookies["Client"].Value)
}

func TestSectionsKeepStoredConfigWhenStoreFails(t *testing.T) {
	t.Parallel()

	backend, err := store.NewMemory(store.DefaultMaxEntries, 0, false)
	require.NoError(t, err)

	flaky := &flakyStore{Store: backend}
	b := newBrowser(newServerWith(store.NewPersister(flaky)), "192.0.2.1:1234")

	rec := b.serve(http.MethodPut, "/api/configs/card",
		`{"profile":{"name":"Mira"},"sections":[{"content":"one"},{"content":"two"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	flaky.broken.Store(true)

	for _, tt := range []struct{ method, target, body string }{
		{http.MethodPost, "/api/configs/card/sections", `{"content":"new"}`},
		{http.MethodDelete, "/api/configs/card/sections/" + uuid.NewString(), ""},
	} {
		rec = b.serve(tt.method, tt.target, tt.body)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, tt.method)
	}

	flaky.broken.Store(false)

	rec = b.serve(http.MethodGet, "/api/configs/card", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var loaded generator.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loaded))
	assert.Equal(t, "Mira", loaded.Profile.Name)
	assert.Equal(t, []string{"one", "two"}, loaded.Texts())
}

func TestUploadResult(t *testing.T) {
	t.Parallel()

	router := newServer(t)

	rec := serve(router, http.MethodPost, "/api/upload-result", `{"url":"//cdn.example/x.png"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"url":"https://cdn.example/x.png","isDataUrl":false}`, rec.Body.String())

	rec = serve(router, http.MethodPost, "/api/upload-result", `{"error":"quota"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditorPage(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/?generator=chatchan", nil)
	r.Header.Set("Sec-CH-Prefers-Color-Scheme", "dark")

	rec := httptest.NewRecorder()
	newServer(t).ServeHTTP(rec, r)
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, "dark", doc.Find("html").AttrOr("data-theme", ""))
	assert.Equal(t, "chatchan", doc.Find("select[name=generator] option[selected]").AttrOr("value", ""))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "img-src 'self' data:")
}

func TestEditorSubmit(t *testing.T) {
	t.Parallel()

	b := newBrowser(newServer(t), "192.0.2.1:1234")

	form := url.Values{
		"generator": {"banner"},
		"mode":      {"auto"},
		"content":   {`"Hi" *there*`},
	}

	rec := b.submit("/", form)
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, doc.Find("#preview").Text(), `"Hi"`)
	assert.Contains(t, doc.Find("#export-html").Text(), "font-style:italic;")
	assert.Positive(t, doc.Find("select[name=lang] option").Length())

	require.Contains(t, b.cookies, "Generator")
	assert.Equal(t, "banner", b.cookies["Generator"].Value)
	require.Contains(t, b.cookies, "Client")
	assert.True(t, b.cookies["Client"].HttpOnly)

	rec = b.serve(http.MethodGet, "/api/configs/banner?autosave=1", "")
	assert.Contains(t, rec.Body.String(), `\"Hi\" *there*`)
}

func TestPreferences(t *testing.T) {
	t.Parallel()

	form := url.Values{"theme": {"dark"}, "lang": {"en"}, "imageProxy": {"https://proxy.example/?u="}, "return": {"https://evil.example"}}

	r := httptest.NewRequest(http.MethodPost, "/preferences", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	newServer(t).ServeHTTP(rec, r)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cookies := map[string]string{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c.Value
	}

	assert.Equal(t, "dark", cookies["Theme"])
	assert.Equal(t, "en", cookies["Lang"])
	assert.Equal(t, "https://proxy.example/?u=", cookies["ImageProxy"])
}

func TestPreferencesReset(t *testing.T) {
	t.Parallel()

	form := url.Values{"reset": {"1"}, "theme": {"dark"}, "return": {"/?generator=card"}}

	r := httptest.NewRequest(http.MethodPost, "/preferences", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	newServer(t).ServeHTTP(rec, r)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?generator=card", rec.Header().Get("Location"))

	cleared := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		assert.Empty(t, c.Value, c.Name)
		cleared[c.Name] = true
	}

	assert.True(t, cleared["Theme"])
	assert.True(t, cleared["Lang"])
	assert.True(t, cleared["Generator"])
	assert.True(t, cleared["ImageProxy"])
}

func TestPreferencesRejectsPlainHTTPProxy(t *testing.T) {
	t.Parallel()

	form := url.Values{"imageProxy": {"http://proxy.example/"}}

	r := httptest.NewRequest(http.MethodPost, "/preferences", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	newServer(t).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	router := newServer(t)

	page := serve(router, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, page.Code)
	assert.Contains(t, page.Body.String(), "<h1>404 Not Found</h1>")

	api := serve(router, http.MethodGet, "/api/nowhere", "")
	assert.Equal(t, http.StatusNotFound, api.Code)
	assert.Contains(t, api.Header().Get("Content-Type"), "application/json")
}

func TestTrailingSlashRedirect(t *testing.T) {
	t.Parallel()

	rec := serve(newServer(t), http.MethodGet, "/api/generators/", "")

	assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
	assert.Equal(t, "/api/generators", rec.Header().Get("Location"))
}

func TestRateLimit(t *testing.T) {
	saved := config.Global.HTTP
	t.Cleanup(func() { config.Global.HTTP = saved })

	config.Global.HTTP.RateLimit = 0.001
	config.Global.HTTP.RateBurst = 2

	router := newServer(t)

	for range 2 {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/generators", "").Code)
	}

	rec := serve(router, http.MethodGet, "/api/generators", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/healthz", "").Code, "pages are not limited")
}
