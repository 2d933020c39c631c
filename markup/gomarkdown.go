package markup

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// GoMarkdown converts with gomarkdown, deriving heading IDs from the heading
// text. Its parser is single use, so one is built per call.
type GoMarkdown struct{}

func (GoMarkdown) Convert(src []byte) (string, error) {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.FlagsNone})
	md := append([]byte(nil), src...)
	return string(markdown.ToHTML(md, p, renderer)), nil
}
