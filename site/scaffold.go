package site

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jdeanwallace/jinjabread/config"
	"github.com/pkg/errors"
)

const starterContent = `---
author: me
---
# Hello, World!
This is my new website.
`

const starterLayout = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{ site_name }}</title>
  </head>
  <body>
    {{ content }}
    <p>Created by {{ author }}.</p>
  </body>
</html>
`

// NewProject scaffolds a project in dir: a config file, a Markdown home page
// and a base layout. When mustCreate is set dir must not exist yet. Existing
// files are never overwritten.
func NewProject(dir string, mustCreate bool) error {
	if dir == "" {
		dir = "."
	}
	if mustCreate {
		if err := os.Mkdir(dir, os.ModePerm); err != nil {
			return errors.WithStack(err)
		}
	} else if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return errors.WithStack(err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.WithStack(err)
	}
	starterConfig := fmt.Sprintf(`[context]
  site_name = %q
  url_origin = "http://127.0.0.1:8000"
`, filepath.Base(abs))

	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(dir, config.FileName), starterConfig},
		{filepath.Join(dir, "content", "index.md"), starterContent},
		{filepath.Join(dir, "layouts", "base.html"), starterLayout},
	}
	for _, f := range files {
		if err := writeNewFile(f.path, f.content); err != nil {
			return err
		}
	}
	return nil
}

func writeNewFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return errors.WithStack(err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return errors.WithStack(err)
	}
	return errors.WithStack(f.Close())
}
