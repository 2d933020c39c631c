package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jdeanwallace/jinjabread/utils"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// config/yaml.go

// SiteManifest is the on-disk shape of a config file. Pointer fields stay nil
// when the key is absent so that a partial file only replaces what it names.
type SiteManifest struct {
	ContentDir     *string                `toml:"content_dir" yaml:"content_dir"`
	LayoutsDir     *string                `toml:"layouts_dir" yaml:"layouts_dir"`
	StaticDir      *string                `toml:"static_dir" yaml:"static_dir"`
	OutputDir      *string                `toml:"output_dir" yaml:"output_dir"`
	PrettifyHTML   *bool                  `toml:"prettify_html" yaml:"prettify_html"`
	MinifyAssets   *bool                  `toml:"minify_assets" yaml:"minify_assets"`
	Sitemap        *bool                  `toml:"sitemap" yaml:"sitemap"`
	TemplateEngine *string                `toml:"template_engine" yaml:"template_engine"`
	Context        map[string]interface{} `toml:"context" yaml:"context"`
	Pages          *[]PageManifest        `toml:"pages" yaml:"pages"`
}

// PageManifest is one entry of the `pages` list.
type PageManifest struct {
	Type             string                 `toml:"type" yaml:"type"`
	LayoutName       string                 `toml:"layout_name" yaml:"layout_name"`
	GlobPattern      string                 `toml:"glob_pattern" yaml:"glob_pattern"`
	MarkdownRenderer string                 `toml:"markdown_renderer" yaml:"markdown_renderer"`
	Context          map[string]interface{} `toml:"context" yaml:"context"`
}

// merge overlays every key present in o.
func (m *SiteManifest) merge(o *SiteManifest) {
	if o.ContentDir != nil {
		m.ContentDir = o.ContentDir
	}
	if o.LayoutsDir != nil {
		m.LayoutsDir = o.LayoutsDir
	}
	if o.StaticDir != nil {
		m.StaticDir = o.StaticDir
	}
	if o.OutputDir != nil {
		m.OutputDir = o.OutputDir
	}
	if o.PrettifyHTML != nil {
		m.PrettifyHTML = o.PrettifyHTML
	}
	if o.MinifyAssets != nil {
		m.MinifyAssets = o.MinifyAssets
	}
	if o.Sitemap != nil {
		m.Sitemap = o.Sitemap
	}
	if o.TemplateEngine != nil {
		m.TemplateEngine = o.TemplateEngine
	}
	if o.Context != nil {
		m.Context = o.Context
	}
	if o.Pages != nil {
		m.Pages = o.Pages
	}
}

// checkYAMLPages strictly decodes every page rule so that misspelt keys are
// reported instead of dropped.
func checkYAMLPages(data []byte) error {
	var raw struct {
		Pages []yaml.MapSlice `yaml:"pages"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.WithStack(err)
	}
	for i, entry := range raw.Pages {
		b, err := yaml.Marshal(entry)
		if err != nil {
			return errors.WithStack(err)
		}
		var pm PageManifest
		if err := yaml.UnmarshalStrict(b, &pm); err != nil {
			return errors.Wrapf(err, "pages[%d]", i)
		}
	}
	return nil
}

func loadManifest(filename string) (*SiteManifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return parseManifest(filename, data)
}

func parseManifest(filename string, data []byte) (*SiteManifest, error) {
	var manifest SiteManifest
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&manifest)
		if err != nil {
			return nil, newError(filename, "malformed TOML", err)
		}
		// Unknown top-level keys are ignored, unknown rule keys are not.
		for _, key := range md.Undecoded() {
			if len(key) == 2 && key[0] == "pages" {
				return nil, newError(filename, fmt.Sprintf("pages: unknown key %q", key[1]), nil)
			}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return nil, newError(filename, "malformed YAML", err)
		}
		if err := checkYAMLPages(data); err != nil {
			return nil, newError(filename, "pages", err)
		}
	default:
		return nil, newError(filename, "unsupported config file extension "+ext, nil)
	}

	manifest.Context = utils.StringMap(manifest.Context)
	if manifest.Pages != nil {
		for i := range *manifest.Pages {
			p := &(*manifest.Pages)[i]
			p.Context = utils.StringMap(p.Context)
		}
	}
	return &manifest, nil
}
