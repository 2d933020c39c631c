package templates

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/pkg/errors"
)

var setupPongo2 sync.Once

// Pongo2 renders Jinja-style templates: {{ var }}, {% block %}, {% extends %},
// {% include %}, {# comments #}. Output is not autoescaped.
type Pongo2 struct {
	path SearchPath
	set  *pongo2.TemplateSet
}

// NewPongo2 returns an engine that looks templates up in dirs, in order.
func NewPongo2(dirs ...string) *Pongo2 {
	setupPongo2.Do(func() {
		pongo2.SetAutoescape(false)
		if !pongo2.FilterExists("sortby") {
			if err := pongo2.RegisterFilter("sortby", filterSortBy); err != nil {
				panic(err)
			}
		}
	})
	sp := SearchPath(dirs)
	return &Pongo2{
		path: sp,
		set:  pongo2.NewSet("jinjabread", searchLoader{path: sp}),
	}
}

func (e *Pongo2) Render(name string, ctx map[string]interface{}) (string, error) {
	if _, err := e.path.Find(name); err != nil {
		return "", err
	}
	tpl, err := e.set.FromFile(name)
	if err != nil {
		return "", errors.Wrapf(err, "parse template %q", name)
	}
	out, err := tpl.Execute(pongo2.Context(ctx))
	if err != nil {
		return "", errors.Wrapf(err, "render template %q", name)
	}
	return out, nil
}

// searchLoader resolves every name against the search path, ignoring the
// including template's location.
type searchLoader struct {
	path SearchPath
}

func (l searchLoader) Abs(_, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if p, err := l.path.Find(name); err == nil {
		return p
	}
	if len(l.path) == 0 {
		return name
	}
	return filepath.Join(l.path[0], filepath.FromSlash(name))
}

func (l searchLoader) Get(p string) (io.Reader, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrTemplateNotFound, "%q", p)
		}
		return nil, errors.WithStack(err)
	}
	return bytes.NewReader(data), nil
}

// filterSortBy sorts a list of mappings by one key:
//
//	{% for page in pages|sortby:"url_path" %}
func filterSortBy(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	key := param.String()

	var items []interface{}
	switch list := in.Interface().(type) {
	case []map[string]interface{}:
		for _, m := range list {
			items = append(items, m)
		}
	case []interface{}:
		items = append(items, list...)
	default:
		return in, nil
	}

	field := func(item interface{}) string {
		if m, ok := item.(map[string]interface{}); ok {
			return fmt.Sprint(m[key])
		}
		return fmt.Sprint(item)
	}
	sort.SliceStable(items, func(i, j int) bool { return field(items[i]) < field(items[j]) })
	return pongo2.AsValue(items), nil
}
