// Package site turns a content tree into an output tree: it matches content
// files to page rules, derives their paths and contexts, renders them and
// copies assets.
package site

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jdeanwallace/jinjabread/config"
	"github.com/jdeanwallace/jinjabread/javascript"
	"github.com/jdeanwallace/jinjabread/markup"
	"github.com/jdeanwallace/jinjabread/templates"
	"github.com/jdeanwallace/jinjabread/utils"
	"github.com/pkg/errors"
)

var (
	// ErrNoPageMatched is returned by MatchPage when no rule applies.
	ErrNoPageMatched = errors.New("no page matched")
	// ErrIndexNotFound is returned when a directory has no index file.
	ErrIndexNotFound = errors.New("index file not found")
)

// Site generates one project.
type Site struct {
	cfg    *config.Config
	engine templates.Engine
	logger *slog.Logger
}

// New prepares a site for cfg. Templates are looked up in the layouts
// directory first, then the content directory.
func New(cfg *config.Config) *Site {
	var engine templates.Engine
	switch cfg.TemplateEngine {
	case config.EnginePlush:
		engine = templates.NewPlush(cfg.LayoutsDir, cfg.ContentDir)
	default:
		engine = templates.NewPongo2(cfg.LayoutsDir, cfg.ContentDir)
	}
	return &Site{
		cfg:    cfg,
		engine: engine,
		logger: slog.Default().With("project", cfg.ProjectDir),
	}
}

// Config returns the site's configuration.
func (s *Site) Config() *config.Config { return s.cfg }

// MatchPage returns a page for contentPath built from the first matching
// rule, or ErrNoPageMatched.
func (s *Site) MatchPage(contentPath string) (Page, error) {
	rel, err := relSlash(s.cfg.ContentDir, contentPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for _, pt := range s.cfg.Pages {
		if pt.Match(rel) {
			return s.newPage(pt, contentPath), nil
		}
	}
	return nil, errors.Wrapf(ErrNoPageMatched, "%s", rel)
}

func (s *Site) newPage(pt config.PageType, contentPath string) Page {
	base := basePage{site: s, pageType: pt, contentPath: contentPath}
	switch pt.Kind {
	case config.KindMarkdown:
		var converter markup.Converter = markup.GoMarkdown{}
		if pt.MarkdownRenderer == config.RendererGoldmark {
			converter = markup.NewGoldmark()
		}
		return &markdownPage{basePage: base, converter: converter}
	default:
		return &plainPage{basePage: base}
	}
}

// Render renders page and applies the configured output filters.
func (s *Site) Render(page Page) (string, error) {
	ctx, err := page.Context()
	if err != nil {
		return "", err
	}
	text, err := s.engine.Render(page.TemplateName(), ctx)
	if err != nil {
		return "", err
	}

	out := page.OutputPath()
	if s.cfg.PrettifyHTML && filepath.Ext(out) == ".html" {
		text = utils.PrettifyHTML(text)
	}
	if s.cfg.MinifyAssets && javascript.CanMinify(out) {
		if text, err = javascript.Minify(out, text); err != nil {
			return "", err
		}
	}
	return text, nil
}

// Generate renders every page and copies every asset of the content
// directory, then copies the static directory. It stops at the first error;
// files already written are left in place.
func (s *Site) Generate() error {
	start := time.Now()
	var (
		pages, assets int
		sitemap       []utils.SitemapEntry
	)

	err := filepath.WalkDir(s.cfg.ContentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.cfg.ContentDir && errors.Is(err, fs.ErrNotExist) {
				s.logger.Debug("content directory not found", "dir", path)
				return filepath.SkipDir
			}
			return errors.WithStack(err)
		}
		if path == s.cfg.ContentDir {
			return nil
		}
		if utils.IsHidden(d.Name()) || (d.IsDir() && path == s.cfg.OutputDir) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		if !utils.IsText(d.Name()) {
			rel, err := relSlash(s.cfg.ContentDir, path)
			if err != nil {
				return errors.WithStack(err)
			}
			if err := copyFile(path, filepath.Join(s.cfg.OutputDir, filepath.FromSlash(rel))); err != nil {
				return err
			}
			s.logger.Debug("copied asset", "path", rel)
			assets++
			return nil
		}

		page, err := s.MatchPage(path)
		if errors.Is(err, ErrNoPageMatched) {
			s.logger.Debug("skipped content file", "path", path, "reason", err)
			return nil
		}
		if err != nil {
			return err
		}
		entry, err := s.writePage(page)
		if err != nil {
			return err
		}
		if filepath.Ext(page.OutputPath()) == ".html" {
			if info, err := d.Info(); err == nil {
				entry.LastMod = info.ModTime()
			}
			sitemap = append(sitemap, entry)
		}
		pages++
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.copyStatic(); err != nil {
		return err
	}

	if s.cfg.Sitemap {
		origin, _ := s.cfg.Context["url_origin"].(string)
		if err := utils.GenerateSitemap(s.cfg.OutputDir, origin, sitemap); err != nil {
			return err
		}
	}

	s.logger.Info("site generated",
		"output", s.cfg.OutputDir,
		"pages", pages,
		"assets", assets,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (s *Site) writePage(page Page) (utils.SitemapEntry, error) {
	text, err := s.Render(page)
	if err != nil {
		return utils.SitemapEntry{}, errors.WithMessagef(err, "page %s", page.ContentPath())
	}

	out := page.OutputPath()
	if err := os.MkdirAll(filepath.Dir(out), os.ModePerm); err != nil {
		return utils.SitemapEntry{}, errors.WithStack(err)
	}
	if err := os.WriteFile(out, []byte(text), 0644); err != nil {
		return utils.SitemapEntry{}, errors.WithStack(err)
	}

	rel, err := relSlash(s.cfg.OutputDir, out)
	if err != nil {
		return utils.SitemapEntry{}, errors.WithStack(err)
	}
	s.logger.Debug("wrote page", "path", rel, "template", page.TemplateName())
	return utils.SitemapEntry{URLPath: URLPath(rel)}, nil
}

// copyStatic mirrors the static directory into <output>/<static dir name>.
func (s *Site) copyStatic() error {
	info, err := os.Stat(s.cfg.StaticDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.WithStack(err)
	}
	if !info.IsDir() {
		return errors.Errorf("static path %s is not a directory", s.cfg.StaticDir)
	}
	dst := filepath.Join(s.cfg.OutputDir, filepath.Base(s.cfg.StaticDir))
	return copyDirContents(s.cfg.StaticDir, dst)
}

// siblingContexts returns the contexts of the pages next to indexPath: files
// matching a rule, and subdirectories whose first index.* file matches one.
func (s *Site) siblingContexts(indexPath string) ([]map[string]interface{}, error) {
	dir := filepath.Dir(indexPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	pages := []map[string]interface{}{}
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)
		if path == indexPath || utils.IsHidden(name) || path == s.cfg.OutputDir {
			continue
		}

		target := path
		if entry.IsDir() {
			target, err = findIndex(path)
			if errors.Is(err, ErrIndexNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
		}

		page, err := s.MatchPage(target)
		if errors.Is(err, ErrNoPageMatched) {
			continue
		}
		if err != nil {
			return nil, err
		}
		ctx, err := page.Context()
		if err != nil {
			return nil, err
		}
		pages = append(pages, ctx)
	}
	return pages, nil
}

// findIndex returns the first index.* file in dir, in name order.
func findIndex(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.WithStack(err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), indexStem+".") {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", errors.Wrapf(ErrIndexNotFound, "%s", dir)
}
