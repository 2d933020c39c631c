package markup

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// HighlightStyle is the chroma style used for fenced code blocks.
const HighlightStyle = "dracula"

// Goldmark converts with goldmark and GitHub flavoured extensions. Fenced code
// is highlighted with inline styles and raw HTML in the source is passed
// through.
type Goldmark struct {
	md goldmark.Markdown
}

func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(highlighting.WithStyle(HighlightStyle)),
			),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

func (g *Goldmark) Convert(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Convert(src, &buf); err != nil {
		return "", errors.Wrap(err, "convert markdown")
	}
	return buf.String(), nil
}
