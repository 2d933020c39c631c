package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jdeanwallace/jinjabread/config"
	"github.com/pkg/errors"
)

const rebuildDelay = 300 * time.Millisecond

// siteWatcher rebuilds a project whenever its sources change. Bursts of
// events collapse into one rebuild and rebuilds never overlap.
type siteWatcher struct {
	projectDir string
	configFile string
	outputDir  string

	watcher *fsnotify.Watcher
	rebuild chan struct{}

	// onRebuild is called with the reloaded config after every successful
	// rebuild.
	onRebuild func(cfg *config.Config)

	mu    sync.Mutex
	timer *time.Timer
}

func newSiteWatcher(projectDir, configFile string, cfg *config.Config) (*siteWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "fsnotify")
	}
	w := &siteWatcher{
		projectDir: projectDir,
		configFile: configFile,
		outputDir:  filepath.Clean(cfg.OutputDir),
		watcher:    watcher,
		rebuild:    make(chan struct{}, 1),
	}

	for _, dir := range []string{cfg.ContentDir, cfg.LayoutsDir, cfg.StaticDir} {
		if _, err := os.Stat(dir); err != nil {
			slog.Debug("not watching missing directory", "dir", dir)
			continue
		}
		w.addDirsRecursive(dir)
	}
	if cfg.File != "" {
		// Editors often replace the file, so watch its directory.
		if err := watcher.Add(filepath.Dir(cfg.File)); err != nil {
			slog.Warn("watch add failed", "dir", filepath.Dir(cfg.File), "error", err)
		}
	}
	return w, nil
}

func (w *siteWatcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

// Run handles events until ctx is done.
func (w *siteWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", "error", err)
		case <-w.rebuild:
			w.rebuildSite()
		}
	}
}

// rebuildSite reloads the config and regenerates the site. Failures are
// logged and the previous output is kept.
func (w *siteWatcher) rebuildSite() {
	slog.Info("rebuilding site")
	cfg, err := buildSite(w.projectDir, w.configFile)
	if err != nil {
		slog.Error("rebuild failed", "error", err)
		return
	}
	w.outputDir = filepath.Clean(cfg.OutputDir)
	if w.onRebuild != nil {
		w.onRebuild(cfg)
	}
}

func (w *siteWatcher) handleEvent(ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) || w.inOutputDir(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(ev.Name)
		}
	}
	slog.Debug("file change detected", "path", ev.Name, "op", ev.Op.String())
	w.trigger()
}

func (w *siteWatcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(rebuildDelay, func() {
		select {
		case w.rebuild <- struct{}{}:
		default:
		}
	})
}

func (w *siteWatcher) inOutputDir(path string) bool {
	rel, err := filepath.Rel(w.outputDir, filepath.Clean(path))
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *siteWatcher) addDirsRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if w.inOutputDir(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			slog.Warn("watch add failed", "dir", path, "error", err)
		}
		return nil
	})
}

// shouldIgnoreEvent reports editor droppings that never affect the site.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasSuffix(base, ".tmp"):
		return true
	}
	return false
}
