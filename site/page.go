package site

import (
	"path/filepath"
	"strings"

	"github.com/jdeanwallace/jinjabread/config"
	"github.com/jdeanwallace/jinjabread/markup"
	"github.com/jdeanwallace/jinjabread/utils"
	"github.com/pkg/errors"
)

// Context keys computed for every page. Neither the global context, a page
// rule nor front matter can override them.
const (
	KeyFilePath = "file_path"
	KeyURLPath  = "url_path"
	KeyPages    = "pages"
	KeyContent  = "content"
)

// Page is one content file bound to the page rule that matched it.
type Page interface {
	// ContentPath is the source file under the content directory.
	ContentPath() string
	// OutputPath is where the rendered page is written.
	OutputPath() string
	// TemplateName is the template rendered to produce the page.
	TemplateName() string
	// Context is the template context of the page.
	Context() (map[string]interface{}, error)
}

type basePage struct {
	site        *Site
	pageType    config.PageType
	contentPath string
}

func (p *basePage) ContentPath() string { return p.contentPath }

func (p *basePage) relPath() string {
	rel, err := relSlash(p.site.cfg.ContentDir, p.contentPath)
	if err != nil {
		return filepath.ToSlash(filepath.Base(p.contentPath))
	}
	return rel
}

func (p *basePage) mirroredOutputPath() string {
	return filepath.Join(p.site.cfg.OutputDir, filepath.FromSlash(p.relPath()))
}

// layers returns the global context overlaid with the rule's context, and the
// fields computed from the page's location.
func (p *basePage) layers(outputPath string) (map[string]interface{}, map[string]interface{}, error) {
	layered := utils.MergeMaps(p.site.cfg.Context, p.pageType.Context)

	filePath, err := relSlash(p.site.cfg.OutputDir, outputPath)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	computed := map[string]interface{}{
		KeyFilePath: filePath,
		KeyURLPath:  URLPath(filePath),
	}

	if isIndex(p.contentPath) {
		pages, err := p.site.siblingContexts(p.contentPath)
		if err != nil {
			return nil, nil, err
		}
		computed[KeyPages] = pages
	}
	return layered, computed, nil
}

// plainPage renders the content file itself as a template.
type plainPage struct {
	basePage
}

func (p *plainPage) OutputPath() string { return p.mirroredOutputPath() }

func (p *plainPage) TemplateName() string { return p.relPath() }

func (p *plainPage) Context() (map[string]interface{}, error) {
	layered, computed, err := p.layers(p.OutputPath())
	if err != nil {
		return nil, err
	}
	return utils.MergeMaps(layered, computed), nil
}

// markdownPage renders Markdown content into a layout. The Markdown source is
// itself expanded as a template before conversion.
type markdownPage struct {
	basePage
	converter markup.Converter
}

func (p *markdownPage) OutputPath() string {
	out := p.mirroredOutputPath()
	return strings.TrimSuffix(out, filepath.Ext(out)) + filepath.Ext(p.pageType.LayoutName)
}

func (p *markdownPage) TemplateName() string { return p.pageType.LayoutName }

func (p *markdownPage) Context() (map[string]interface{}, error) {
	layered, computed, err := p.layers(p.OutputPath())
	if err != nil {
		return nil, err
	}

	source, err := p.site.engine.Render(p.relPath(), utils.MergeMaps(layered, computed))
	if err != nil {
		return nil, err
	}
	doc, err := markup.Render(p.converter, source)
	if err != nil {
		return nil, errors.Wrapf(err, "markdown %s", p.relPath())
	}

	ctx := utils.MergeMaps(layered, doc.Meta, computed)
	ctx[KeyContent] = doc.HTML
	return ctx, nil
}
