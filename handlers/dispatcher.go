package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jdeanwallace/jinjabread/utils"
)

// Resolution is the outcome of mapping a URL path onto the output directory:
// either a redirect target or a file to serve.
type Resolution struct {
	Redirect string
	FilePath string
}

// Dispatcher serves a generated site with pretty URLs. /about is answered
// from about.html, /posts/ from posts/index.html, and the .html spellings
// redirect to them.
type Dispatcher struct {
	OutputDir string
}

// Resolve maps urlPath to a redirect or a file under the output directory.
// The file is not guaranteed to exist.
func (d *Dispatcher) Resolve(urlPath string) Resolution {
	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}
	clean := path.Clean(urlPath)

	if path.Base(clean) == "index.html" {
		parent := path.Dir(clean)
		if parent != "/" {
			parent += "/"
		}
		return Resolution{Redirect: parent}
	}
	if path.Ext(clean) == ".html" {
		return Resolution{Redirect: strings.TrimSuffix(clean, ".html")}
	}

	filePath := filepath.Join(d.OutputDir, filepath.FromSlash(clean))
	if isDirectory(filePath) && !strings.HasSuffix(urlPath, "/") {
		return Resolution{Redirect: urlPath + "/"}
	}

	if !exists(filePath) && exists(filePath+".html") {
		filePath += ".html"
	} else if isDirectory(filePath) {
		filePath = filepath.Join(filePath, "index.html")
	}
	return Resolution{FilePath: filePath}
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := d.Resolve(r.URL.Path)
	if res.Redirect != "" {
		w.Header().Set("Location", res.Redirect)
		w.WriteHeader(http.StatusFound)
		return
	}

	content, err := os.ReadFile(res.FilePath)
	if err != nil {
		Custom404Handler(w, res.FilePath)
		return
	}

	w.Header().Set("Content-Type", contentType(res.FilePath))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(content)
	}
}

func contentType(filePath string) string {
	ct := utils.GuessType(filePath)
	if ct == "" {
		return "application/octet-stream"
	}
	if strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "charset") {
		ct += "; charset=utf-8"
	}
	return ct
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
