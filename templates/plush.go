package templates

import (
	"github.com/gobuffalo/plush"
	"github.com/pkg/errors"
)

// Plush renders plush templates (<%= var %>). Templates can pull in other
// templates from the search path with <%= partial("name") %>.
type Plush struct {
	path SearchPath
}

// NewPlush returns an engine that looks templates up in dirs, in order.
func NewPlush(dirs ...string) *Plush {
	return &Plush{path: SearchPath(dirs)}
}

func (e *Plush) Render(name string, ctx map[string]interface{}) (string, error) {
	source, err := e.path.Read(name)
	if err != nil {
		return "", err
	}

	template, err := plush.Parse(source)
	if err != nil {
		return "", errors.Wrapf(err, "parse template %q", name)
	}

	pctx := plush.NewContextWith(ctx)
	pctx.Set("partialFeeder", e.path.Read)

	out, err := template.Exec(pctx)
	if err != nil {
		return "", errors.Wrapf(err, "render template %q", name)
	}
	return out, nil
}
