package utils

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// SitemapFile is written at the root of the output directory.
const SitemapFile = "sitemap.xml"

type Sitemap struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	Urls    []Url    `xml:"url"`
}

type Url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// SitemapEntry is one generated page.
type SitemapEntry struct {
	URLPath string
	LastMod time.Time
}

// GenerateSitemap writes sitemap.xml into outputDir.
func GenerateSitemap(outputDir, origin string, entries []SitemapEntry) error {
	xmlOutput, err := GenerateSitemapContent(origin, entries)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return errors.WithStack(err)
	}
	content := xml.Header + xmlOutput + "\n"
	if err := os.WriteFile(filepath.Join(outputDir, SitemapFile), []byte(content), 0644); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// GenerateSitemapContent renders the urlset for entries, sorted by URL path.
// Locations are prefixed with origin when it is set.
func GenerateSitemapContent(origin string, entries []SitemapEntry) (string, error) {
	baseURL := strings.TrimSuffix(origin, "/")
	sitemap := Sitemap{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
	}

	sorted := append([]SitemapEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].URLPath < sorted[j].URLPath })

	for _, entry := range sorted {
		url := Url{Loc: baseURL + entry.URLPath}
		if !entry.LastMod.IsZero() {
			url.LastMod = entry.LastMod.Format("2006-01-02")
		}
		sitemap.Urls = append(sitemap.Urls, url)
	}

	xmlOutput, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return "", errors.WithStack(err)
	}

	return string(xmlOutput), nil
}
