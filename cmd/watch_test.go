package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jdeanwallace/jinjabread/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProjectFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestShouldIgnoreEvent(t *testing.T) {
	ignored := []string{
		"content/.index.md.swp",
		"content/.DS_Store",
		"content/index.md~",
		"content/index.md.swp",
		"content/index.md.swx",
		"layouts/base.html.tmp",
	}
	for _, p := range ignored {
		assert.True(t, shouldIgnoreEvent(p), p)
	}

	kept := []string{
		"content/index.md",
		"layouts/base.html",
		"static/css/site.css",
		"jinjabread.toml",
	}
	for _, p := range kept {
		assert.False(t, shouldIgnoreEvent(p), p)
	}
}

func TestInOutputDir(t *testing.T) {
	root := t.TempDir()
	w := &siteWatcher{outputDir: filepath.Join(root, "public")}

	assert.True(t, w.inOutputDir(filepath.Join(root, "public")))
	assert.True(t, w.inOutputDir(filepath.Join(root, "public", "posts", "index.html")))
	assert.False(t, w.inOutputDir(filepath.Join(root, "content", "index.md")))
	assert.False(t, w.inOutputDir(filepath.Join(root, "public-old", "index.html")))
	assert.False(t, w.inOutputDir(root))
}

func TestHandleEventFiltersEvents(t *testing.T) {
	root := t.TempDir()
	w := &siteWatcher{outputDir: filepath.Join(root, "public"), rebuild: make(chan struct{}, 1)}
	defer func() {
		if w.timer != nil {
			w.timer.Stop()
		}
	}()

	for _, ev := range []fsnotify.Event{
		{Name: filepath.Join(root, "content", ".index.md.swp"), Op: fsnotify.Write},
		{Name: filepath.Join(root, "public", "index.html"), Op: fsnotify.Write},
		{Name: filepath.Join(root, "content", "index.md"), Op: fsnotify.Chmod},
	} {
		w.handleEvent(ev)
		assert.Nil(t, w.timer, ev.String())
	}

	w.handleEvent(fsnotify.Event{Name: filepath.Join(root, "content", "index.md"), Op: fsnotify.Write})
	assert.NotNil(t, w.timer)
}

func TestTriggerCoalescesBursts(t *testing.T) {
	w := &siteWatcher{rebuild: make(chan struct{}, 1)}

	for i := 0; i < 5; i++ {
		w.trigger()
	}

	require.Eventually(t, func() bool { return len(w.rebuild) == 1 }, 2*time.Second, 10*time.Millisecond)
	<-w.rebuild

	time.Sleep(2 * rebuildDelay)
	assert.Empty(t, w.rebuild, "a burst of events requests a single rebuild")
}

func TestRebuildSiteReloadsConfig(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, config.FileName, `output_dir = "public"`)
	writeProjectFile(t, dir, "content/index.html", "<p>Home</p>")

	cfg, err := buildSite(dir, "")
	require.NoError(t, err)
	w, err := newSiteWatcher(dir, "", cfg)
	require.NoError(t, err)
	defer w.Close()

	var rebuilt *config.Config
	w.onRebuild = func(cfg *config.Config) { rebuilt = cfg }

	writeProjectFile(t, dir, config.FileName, `output_dir = "dist"`)
	w.rebuildSite()

	require.NotNil(t, rebuilt)
	assert.Equal(t, filepath.Join(dir, "dist"), rebuilt.OutputDir)
	assert.Equal(t, filepath.Join(dir, "dist"), w.outputDir)
	assert.FileExists(t, filepath.Join(dir, "dist", "index.html"))
}

func TestRebuildSiteKeepsStateOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "content/index.html", "<p>Home</p>")

	cfg, err := buildSite(dir, "")
	require.NoError(t, err)
	w, err := newSiteWatcher(dir, "", cfg)
	require.NoError(t, err)
	defer w.Close()

	called := false
	w.onRebuild = func(*config.Config) { called = true }

	writeProjectFile(t, dir, config.FileName, `output_dir = `)
	w.rebuildSite()

	assert.False(t, called)
	assert.Equal(t, filepath.Join(dir, "public"), w.outputDir)
}
