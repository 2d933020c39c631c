package site

import (
	"path"
	"path/filepath"
	"strings"
)

const indexStem = "index"

// stem returns the file name without its last suffix.
func stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isIndex(name string) bool {
	return stem(name) == indexStem
}

// URLPath maps an output path, relative to the output directory, to its
// pretty URL:
//
//	index.html       -> /
//	posts/index.html -> /posts/
//	about.html       -> /about
func URLPath(rel string) string {
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "/")
	if stem(rel) == indexStem {
		parent := path.Dir(rel)
		if parent == "." {
			return "/"
		}
		return "/" + parent + "/"
	}
	return "/" + strings.TrimSuffix(rel, path.Ext(rel))
}

// relSlash returns target relative to base, slash separated.
func relSlash(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
