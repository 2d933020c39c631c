// Package templates renders named templates against a context, resolving
// names over an ordered list of directories (layouts first, then content).
package templates

import (
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
)

// ErrTemplateNotFound is returned when no search directory holds a template.
var ErrTemplateNotFound = errors.New("template not found")

// Engine renders a template by name.
type Engine interface {
	Render(name string, ctx map[string]interface{}) (string, error)
}

// SearchPath is an ordered list of template directories.
type SearchPath []string

// Find returns the file backing name in the first directory that has it.
// Names are slash separated and cannot climb out of a directory.
func (sp SearchPath) Find(name string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(name))[1:]
	if clean != "" {
		for _, dir := range sp {
			p := filepath.Join(dir, filepath.FromSlash(clean))
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, nil
			}
		}
	}
	return "", errors.Wrapf(ErrTemplateNotFound, "%q", name)
}

// Read returns the source of the named template.
func (sp SearchPath) Read(name string) (string, error) {
	p, err := sp.Find(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(data), nil
}
