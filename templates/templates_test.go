package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTree writes files under a fresh directory and returns its layouts and
// content subdirectories.
func newTree(t *testing.T, files map[string]string) (layouts, content string) {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return filepath.Join(root, "layouts"), filepath.Join(root, "content")
}

func TestSearchPathFind(t *testing.T) {
	layouts, content := newTree(t, map[string]string{
		"layouts/base.html":    "layout",
		"content/base.html":    "content",
		"content/posts/a.html": "a",
	})
	sp := SearchPath{layouts, content}

	p, err := sp.Find("base.html")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(layouts, "base.html"), p, "earlier directories win")

	p, err = sp.Find("posts/a.html")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(content, "posts", "a.html"), p)

	_, err = sp.Find("../content/base.html")
	assert.True(t, errors.Is(err, ErrTemplateNotFound))

	_, err = sp.Find("posts")
	assert.True(t, errors.Is(err, ErrTemplateNotFound), "directories are not templates")
}

func TestPongo2Render(t *testing.T) {
	layouts, content := newTree(t, map[string]string{
		"content/index.html": `<h1>{{ title }}</h1>{# not rendered #}<p>{{ body }}</p>`,
	})
	engine := NewPongo2(layouts, content)

	out, err := engine.Render("index.html", map[string]interface{}{
		"title": "Hello",
		"body":  "<b>bold</b>",
	})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1><p><b>bold</b></p>", out)
}

func TestPongo2ExtendsAndIncludeAcrossDirectories(t *testing.T) {
	layouts, content := newTree(t, map[string]string{
		"layouts/base.html":   `<title>{{ title }}</title>{% block body %}{% endblock %}`,
		"layouts/footer.html": `<footer>{{ site_name }}</footer>`,
		"content/page.html":   `{% extends "base.html" %}{% block body %}<p>{{ greeting }}</p>{% include "footer.html" %}{% endblock %}`,
	})
	engine := NewPongo2(layouts, content)

	out, err := engine.Render("page.html", map[string]interface{}{
		"title":     "T",
		"greeting":  "Hi",
		"site_name": "Bread",
	})
	require.NoError(t, err)
	assert.Equal(t, "<title>T</title><p>Hi</p><footer>Bread</footer>", out)
}

func TestPongo2NotFound(t *testing.T) {
	layouts, content := newTree(t, nil)
	engine := NewPongo2(layouts, content)

	_, err := engine.Render("missing.html", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplateNotFound))
}

func TestPongo2SyntaxError(t *testing.T) {
	layouts, content := newTree(t, map[string]string{
		"content/broken.html": `{% if %}`,
	})
	engine := NewPongo2(layouts, content)

	_, err := engine.Render("broken.html", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `parse template "broken.html"`)
}

func TestPongo2SortBy(t *testing.T) {
	layouts, content := newTree(t, map[string]string{
		"content/list.html": `{% for p in pages|sortby:"url_path" %}{{ p.url_path }};{% endfor %}`,
	})
	engine := NewPongo2(layouts, content)

	out, err := engine.Render("list.html", map[string]interface{}{
		"pages": []map[string]interface{}{
			{"url_path": "/posts/c"},
			{"url_path": "/posts/a"},
			{"url_path": "/posts/b"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "/posts/a;/posts/b;/posts/c;", out)
}

func TestPlushRender(t *testing.T) {
	layouts, content := newTree(t, map[string]string{
		"layouts/footer.html": `<footer><%= site_name %></footer>`,
		"content/index.html":  `<h1><%= title %></h1><%= partial("footer.html") %>`,
	})
	engine := NewPlush(layouts, content)

	out, err := engine.Render("index.html", map[string]interface{}{
		"title":     "Hello",
		"site_name": "Bread",
	})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1><footer>Bread</footer>", out)
}

func TestPlushNotFound(t *testing.T) {
	layouts, content := newTree(t, nil)

	_, err := NewPlush(layouts, content).Render("missing.html", nil)
	assert.True(t, errors.Is(err, ErrTemplateNotFound))
}
