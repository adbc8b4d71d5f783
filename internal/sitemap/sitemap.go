// Package sitemap generates sitemap.xml and robots.txt from the site
// configuration and the set of published pages. Canonical URLs are always
// absolute, joined against the site base URL.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Entry is one sitemap URL.
type Entry struct {
	Loc     string
	LastMod time.Time
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []urlEntry
}

type urlEntry struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod,omitempty"`
}

// Build joins the given paths to the base URL, deduplicates them, and
// returns entries in stable sorted order.
func Build(baseURL string, paths []string, lastMod map[string]time.Time) ([]Entry, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("sitemap: base url %q must be absolute", baseURL)
	}
	seen := map[string]struct{}{}
	var entries []Entry
	for _, p := range paths {
		ref, err := url.Parse(p)
		if err != nil {
			continue
		}
		loc := base.ResolveReference(ref).String()
		if _, dup := seen[loc]; dup {
			continue
		}
		seen[loc] = struct{}{}
		entries = append(entries, Entry{Loc: loc, LastMod: lastMod[p]})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Loc < entries[j].Loc })
	return entries, nil
}

// XML renders the entries as a sitemap.org urlset document.
func XML(entries []Entry) ([]byte, error) {
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, e := range entries {
		ue := urlEntry{Loc: e.Loc}
		if !e.LastMod.IsZero() {
			ue.LastMod = e.LastMod.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, ue)
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("sitemap: marshal: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// Robots renders robots.txt pointing crawlers at the sitemap.
func Robots(baseURL string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", base)
}
