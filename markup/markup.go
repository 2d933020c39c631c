// Package markup turns Markdown documents, optionally headed by a front matter
// block, into HTML plus a metadata mapping.
package markup

import (
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/jdeanwallace/jinjabread/utils"
	"github.com/pkg/errors"
)

// Converter turns Markdown into HTML. Implementations keep no state between
// calls.
type Converter interface {
	Convert(src []byte) (string, error)
}

// Document is a converted Markdown source.
type Document struct {
	HTML string
	Meta map[string]interface{}
}

// Render splits off a leading front matter block (YAML between ---, TOML
// between +++, or JSON) and converts the rest with c.
func Render(c Converter, source string) (*Document, error) {
	meta := map[string]interface{}{}
	body, err := frontmatter.Parse(strings.NewReader(strings.TrimLeft(source, "\r\n")), &meta)
	if err != nil {
		return nil, errors.Wrap(err, "parse front matter")
	}

	html, err := c.Convert(body)
	if err != nil {
		return nil, err
	}
	return &Document{HTML: html, Meta: utils.StringMap(meta)}, nil
}
