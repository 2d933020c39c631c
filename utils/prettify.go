package utils

import (
	"strings"

	"golang.org/x/net/html"
)

const indentUnit = "  "

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Whitespace inside these is significant, so they are emitted on one line
// exactly as written.
var verbatimElements = map[string]bool{
	"pre": true, "textarea": true, "script": true, "style": true,
}

// PrettifyHTML puts every tag, comment and run of text on its own line,
// indented two spaces per open element. Runs of whitespace in text collapse to
// one space. Applying it to its own output returns the output unchanged.
func PrettifyHTML(text string) string {
	z := html.NewTokenizer(strings.NewReader(text))

	var (
		b             strings.Builder
		depth         int
		verbatim      string
		verbatimDepth int
		pending       strings.Builder
	)
	line := func(s string) {
		b.WriteString(strings.Repeat(indentUnit, depth))
		b.WriteString(s)
		b.WriteByte('\n')
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		// TagName lower-cases the underlying buffer, so copy first.
		raw := string(z.Raw())

		if verbatim != "" {
			pending.WriteString(raw)
			if tt == html.StartTagToken || tt == html.EndTagToken {
				name, _ := z.TagName()
				if string(name) == verbatim {
					if tt == html.StartTagToken {
						verbatimDepth++
					} else {
						verbatimDepth--
					}
				}
			}
			if verbatimDepth == 0 {
				line(pending.String())
				pending.Reset()
				verbatim = ""
			}
			continue
		}

		switch tt {
		case html.TextToken:
			if s := strings.Join(strings.Fields(raw), " "); s != "" {
				line(s)
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			n := string(name)
			switch {
			case verbatimElements[n]:
				verbatim = n
				verbatimDepth = 1
				pending.WriteString(raw)
			case voidElements[n]:
				line(raw)
			default:
				line(raw)
				depth++
			}
		case html.EndTagToken:
			if depth > 0 {
				depth--
			}
			line(raw)
		default:
			line(raw)
		}
	}
	if pending.Len() > 0 {
		line(pending.String())
	}
	return b.String()
}
