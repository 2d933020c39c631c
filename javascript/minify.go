package javascript

import (
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/errors"
)

var engines = []api.Engine{
	{Name: api.EngineChrome, Version: "100"},
	{Name: api.EngineFirefox, Version: "100"},
	{Name: api.EngineSafari, Version: "15"},
	{Name: api.EngineEdge, Version: "100"},
}

func loaderFor(filename string) (api.Loader, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".js", ".mjs":
		return api.LoaderJS, true
	case ".css":
		return api.LoaderCSS, true
	}
	return api.LoaderNone, false
}

// CanMinify reports whether Minify handles filename's suffix.
func CanMinify(filename string) bool {
	_, ok := loaderFor(filename)
	return ok
}

// Minify runs rendered JavaScript or CSS through esbuild. Sources with any
// other suffix are returned unchanged.
func Minify(filename, source string) (string, error) {
	loader, ok := loaderFor(filename)
	if !ok {
		return source, nil
	}

	result := api.Transform(source, api.TransformOptions{
		Loader:            loader,
		Sourcefile:        filepath.Base(filename),
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Engines:           engines,
	})

	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		if msg.Location != nil {
			return "", errors.Errorf("minify %s:%d:%d: %s", filename, msg.Location.Line, msg.Location.Column, msg.Text)
		}
		return "", errors.Errorf("minify %s: %s", filename, msg.Text)
	}

	return string(result.Code), nil
}
