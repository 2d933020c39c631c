package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOutputDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":       "<p>Home</p>",
		"about.html":       "<p>About</p>",
		"posts/index.html": "<p>Posts</p>",
		"posts/hello.html": "<p>Hello</p>",
		"notes.txt":        "notes",
		"static/logo.png":  "\x89PNG",
		"data.bin":         "\x00\x01",
	}
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return dir
}

func TestResolve(t *testing.T) {
	dir := newOutputDir(t)
	d := &Dispatcher{OutputDir: dir}

	tests := []struct {
		path     string
		redirect string
		file     string
	}{
		{path: "/", file: "index.html"},
		{path: "/index.html", redirect: "/"},
		{path: "/posts/index.html", redirect: "/posts/"},
		{path: "/about.html", redirect: "/about"},
		{path: "/posts/hello.html", redirect: "/posts/hello"},
		{path: "/posts", redirect: "/posts/"},
		{path: "/posts/", file: "posts/index.html"},
		{path: "/about", file: "about.html"},
		{path: "/posts/hello", file: "posts/hello.html"},
		{path: "/notes.txt", file: "notes.txt"},
		{path: "/static/logo.png", file: "static/logo.png"},
		{path: "/missing", file: "missing"},
		{path: "/../../etc/passwd", file: "etc/passwd"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res := d.Resolve(tt.path)
			assert.Equal(t, tt.redirect, res.Redirect)
			if tt.file == "" {
				assert.Empty(t, res.FilePath)
			} else {
				assert.Equal(t, filepath.Join(dir, filepath.FromSlash(tt.file)), res.FilePath)
			}
		})
	}
}

func serve(t *testing.T, router http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouterServesPages(t *testing.T) {
	router := SetupRouter(newOutputDir(t))

	rec := serve(t, router, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<p>Home</p>", rec.Body.String())

	rec = serve(t, router, http.MethodGet, "/about")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<p>About</p>", rec.Body.String())

	rec = serve(t, router, http.MethodGet, "/posts/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<p>Posts</p>", rec.Body.String())

	rec = serve(t, router, http.MethodGet, "/notes.txt")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = serve(t, router, http.MethodGet, "/static/logo.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = serve(t, router, http.MethodGet, "/data.bin")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
}

func TestRouterRedirects(t *testing.T) {
	router := SetupRouter(newOutputDir(t))

	for path, want := range map[string]string{
		"/index.html":       "/",
		"/about.html":       "/about",
		"/posts":            "/posts/",
		"/posts/index.html": "/posts/",
	} {
		rec := serve(t, router, http.MethodGet, path)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, want, rec.Header().Get("Location"), path)
	}
}

func TestRouterNotFound(t *testing.T) {
	dir := newOutputDir(t)
	router := SetupRouter(dir)

	rec := serve(t, router, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "File Not Found: "+filepath.Join(dir, "missing"), rec.Body.String())
}

func TestRouterHead(t *testing.T) {
	router := SetupRouter(newOutputDir(t))

	rec := serve(t, router, http.MethodHead, "/about")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12", rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Body.String())
}

func TestRouterRejectsOtherMethods(t *testing.T) {
	router := SetupRouter(newOutputDir(t))

	rec := serve(t, router, http.MethodPost, "/")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
