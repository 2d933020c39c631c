package utils

import (
	"mime"
	"path/filepath"
	"strings"
)

// Text types that the platform MIME table may lack.
var knownTypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
	".html":     "text/html",
	".htm":      "text/html",
	".css":      "text/css",
	".js":       "text/javascript",
	".mjs":      "text/javascript",
	".csv":      "text/csv",
	".xml":      "text/xml",
}

// GuessType returns the MIME type for a file name, or "" if unknown.
func GuessType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	if t, ok := knownTypes[ext]; ok {
		return t
	}
	return mime.TypeByExtension(ext)
}

// IsText reports whether name guesses to a text/* type. Everything else is
// treated as a binary asset.
func IsText(name string) bool {
	return strings.HasPrefix(GuessType(name), "text/")
}

// IsHidden reports whether any component of p starts with a dot.
func IsHidden(p string) bool {
	for _, part := range strings.Split(filepath.ToSlash(p), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
