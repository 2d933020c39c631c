package config

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PageKind selects how a matched content file becomes a page.
type PageKind int

const (
	// KindPlain renders the content file itself as a template.
	KindPlain PageKind = iota
	// KindMarkdown renders Markdown content into a layout template.
	KindMarkdown
)

func (k PageKind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindMarkdown:
		return "markdown"
	}
	return fmt.Sprintf("PageKind(%d)", int(k))
}

var pageKinds = map[string]PageKind{
	"plain":                KindPlain,
	"page":                 KindPlain,
	"markdown":             KindMarkdown,
	"markdown-with-layout": KindMarkdown,
}

var defaultGlobs = map[PageKind]string{
	KindPlain:    "**/*",
	KindMarkdown: "**/*.md",
}

// Markdown renderer names accepted by `markdown_renderer`.
const (
	RendererGoMarkdown = "gomarkdown"
	RendererGoldmark   = "goldmark"
)

// ParsePageKind looks up a page kind by its config name.
func ParsePageKind(name string) (PageKind, error) {
	kind, ok := pageKinds[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		names := make([]string, 0, len(pageKinds))
		for n := range pageKinds {
			names = append(names, n)
		}
		sort.Strings(names)
		return 0, fmt.Errorf("unknown page type %q (want one of %s)", name, strings.Join(names, ", "))
	}
	return kind, nil
}

// PageType is one ordered page rule.
type PageType struct {
	Kind             PageKind
	GlobPattern      string
	LayoutName       string
	MarkdownRenderer string
	Context          map[string]interface{}
}

// NewPageType builds a page rule from its manifest entry, filling in the
// kind's default glob and renderer.
func NewPageType(m PageManifest) (PageType, error) {
	if m.Type == "" {
		return PageType{}, fmt.Errorf("page rule is missing a type")
	}
	kind, err := ParsePageKind(m.Type)
	if err != nil {
		return PageType{}, err
	}

	pt := PageType{
		Kind:             kind,
		GlobPattern:      m.GlobPattern,
		LayoutName:       m.LayoutName,
		MarkdownRenderer: m.MarkdownRenderer,
		Context:          m.Context,
	}
	if pt.GlobPattern == "" {
		pt.GlobPattern = defaultGlobs[kind]
	}
	if !doublestar.ValidatePattern(pt.GlobPattern) {
		return PageType{}, fmt.Errorf("invalid glob pattern %q", pt.GlobPattern)
	}
	if pt.Context == nil {
		pt.Context = map[string]interface{}{}
	}

	switch kind {
	case KindMarkdown:
		if pt.LayoutName == "" {
			return PageType{}, fmt.Errorf("markdown page rule requires layout_name")
		}
		switch pt.MarkdownRenderer {
		case "":
			pt.MarkdownRenderer = RendererGoMarkdown
		case RendererGoMarkdown, RendererGoldmark:
		default:
			return PageType{}, fmt.Errorf("unknown markdown renderer %q", pt.MarkdownRenderer)
		}
	case KindPlain:
		if pt.LayoutName != "" {
			return PageType{}, fmt.Errorf("plain page rule does not take layout_name")
		}
		if pt.MarkdownRenderer != "" {
			return PageType{}, fmt.Errorf("plain page rule does not take markdown_renderer")
		}
	}
	return pt, nil
}

// Match reports whether the rule applies to rel, a path relative to the
// content directory. Patterns without a slash also match against the base
// name.
func (pt PageType) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	if ok, _ := doublestar.Match(pt.GlobPattern, rel); ok {
		return true
	}
	if !strings.Contains(pt.GlobPattern, "/") {
		ok, _ := doublestar.Match(pt.GlobPattern, path.Base(rel))
		return ok
	}
	return false
}
