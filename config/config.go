package config

import (
	_ "embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileName is the config file looked up in the project directory when no
// explicit file is given.
const FileName = "jinjabread.toml"

// Template engine names accepted by `template_engine`.
const (
	EngineJinja = "jinja"
	EnginePlush = "plush"
)

var fallbackFileNames = []string{FileName, "jinjabread.yaml", "jinjabread.yml"}

//go:embed defaults.toml
var defaultsTOML []byte

// Config is the resolved, immutable configuration of one project.
type Config struct {
	ProjectDir string
	ContentDir string
	LayoutsDir string
	StaticDir  string
	OutputDir  string

	PrettifyHTML   bool
	MinifyAssets   bool
	Sitemap        bool
	TemplateEngine string

	Context map[string]interface{}
	Pages   []PageType

	// File is the config file that was merged over the defaults, or empty.
	File string
}

// Load merges the built-in defaults with an optional override file.
//
// projectDir defaults to ".". If configFile is empty the project directory is
// searched for jinjabread.toml (or .yaml/.yml) and a missing file is not an
// error. An explicit configFile that does not exist is.
func Load(projectDir, configFile string) (*Config, error) {
	if projectDir == "" {
		projectDir = "."
	}

	manifest, err := parseManifest("defaults.toml", defaultsTOML)
	if err != nil {
		return nil, errors.Wrap(err, "built-in defaults")
	}

	filename := configFile
	if filename == "" {
		filename = findConfigFile(projectDir)
	}
	if filename != "" {
		override, err := loadManifest(filename)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, newError(filename, "config file not found", err)
			}
			return nil, err
		}
		manifest.merge(override)
	}

	cfg, err := resolve(projectDir, manifest)
	if err != nil {
		return nil, err
	}
	cfg.File = filename
	return cfg, nil
}

func findConfigFile(projectDir string) string {
	for _, name := range fallbackFileNames {
		p := filepath.Join(projectDir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func resolve(projectDir string, m *SiteManifest) (*Config, error) {
	cfg := &Config{
		ProjectDir:     projectDir,
		ContentDir:     filepath.Join(projectDir, deref(m.ContentDir)),
		LayoutsDir:     filepath.Join(projectDir, deref(m.LayoutsDir)),
		StaticDir:      filepath.Join(projectDir, deref(m.StaticDir)),
		OutputDir:      filepath.Join(projectDir, deref(m.OutputDir)),
		PrettifyHTML:   m.PrettifyHTML != nil && *m.PrettifyHTML,
		MinifyAssets:   m.MinifyAssets != nil && *m.MinifyAssets,
		Sitemap:        m.Sitemap != nil && *m.Sitemap,
		TemplateEngine: deref(m.TemplateEngine),
		Context:        m.Context,
	}
	if cfg.Context == nil {
		cfg.Context = map[string]interface{}{}
	}

	switch cfg.TemplateEngine {
	case EngineJinja, EnginePlush:
	case "pongo2":
		cfg.TemplateEngine = EngineJinja
	default:
		return nil, newError("", fmt.Sprintf("unknown template engine %q", cfg.TemplateEngine), nil)
	}

	if m.Pages != nil {
		for i, pm := range *m.Pages {
			pt, err := NewPageType(pm)
			if err != nil {
				return nil, newError("", fmt.Sprintf("pages[%d]", i), err)
			}
			cfg.Pages = append(cfg.Pages, pt)
		}
	}
	return cfg, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
