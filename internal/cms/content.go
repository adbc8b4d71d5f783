// Package cms serves the site's static marketing pages from local markdown
// files with YAML front matter. Pages carry optional per-page SEO overrides
// that feed the metadata merge.
package cms

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"timeismoney.app/web/internal/seo"
)

// ErrNotFound reports a missing page for the requested slug/language.
var ErrNotFound = errors.New("cms: page not found")

// Page is a localized static page.
type Page struct {
	Slug      string
	Lang      string
	Title     string
	Summary   string
	Body      string // raw markdown
	HTML      string // rendered, sanitized
	UpdatedAt time.Time
	SEO       seo.PageMeta
}

type frontMatter struct {
	Title       string `yaml:"title"`
	Summary     string `yaml:"summary"`
	Lang        string `yaml:"lang"`
	UpdatedAt   string `yaml:"updated_at"`
	Description string `yaml:"description"`
	Robots      string `yaml:"robots"`
	OGImage     string `yaml:"og_image"`
	OGImageAlt  string `yaml:"og_image_alt"`
	OGType      string `yaml:"og_type"`
}

// Store reads pages from a directory laid out as <dir>/<lang>/<slug>.md,
// with a short-lived in-memory cache in front of the filesystem.
type Store struct {
	dir      string
	fallback string

	mu    sync.RWMutex
	ttl   time.Duration
	cache map[string]cacheEntry
}

type cacheEntry struct {
	page    Page
	expires time.Time
}

// NewStore builds a store rooted at dir, falling back to fallbackLang when a
// page has no translation for the requested language.
func NewStore(dir, fallbackLang string) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = "content/pages"
	}
	if fallbackLang == "" {
		fallbackLang = "en"
	}
	return &Store{
		dir:      dir,
		fallback: fallbackLang,
		ttl:      5 * time.Minute,
		cache:    map[string]cacheEntry{},
	}
}

// SetCacheTTL overrides the cache duration, primarily for tests.
func (s *Store) SetCacheTTL(d time.Duration) {
	if d <= 0 {
		d = time.Minute
	}
	s.mu.Lock()
	s.ttl = d
	s.mu.Unlock()
}

// Get returns the page for slug in lang, trying the fallback language when
// the translation is missing.
func (s *Store) Get(slug, lang string) (Page, error) {
	slug = sanitizeSlug(slug)
	if slug == "" {
		return Page{}, ErrNotFound
	}
	if lang == "" {
		lang = s.fallback
	}

	key := lang + "|" + slug
	if page, ok := s.cached(key); ok {
		return page, nil
	}

	langs := []string{lang}
	if lang != s.fallback {
		langs = append(langs, s.fallback)
	}
	for _, l := range langs {
		page, err := s.read(slug, l)
		if err == nil {
			s.store(key, page)
			return page, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Page{}, err
		}
	}
	return Page{}, ErrNotFound
}

// Slugs lists the page slugs available in the fallback language, for the
// sitemap.
func (s *Store) Slugs() ([]string, error) {
	dir := filepath.Join(s.dir, s.fallback)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var slugs []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(e.Name(), ".md"))
	}
	return slugs, nil
}

func (s *Store) read(slug, lang string) (Page, error) {
	file := filepath.Join(s.dir, lang, slug+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Page{}, ErrNotFound
		}
		return Page{}, err
	}

	fm, body := splitFrontMatter(string(data))
	front := frontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("cms: parse front matter %s: %w", file, err)
		}
	}

	html, err := renderMarkdown(body)
	if err != nil {
		return Page{}, fmt.Errorf("cms: render %s: %w", file, err)
	}

	page := Page{
		Slug:      slug,
		Lang:      firstNonEmpty(strings.TrimSpace(front.Lang), lang),
		Title:     strings.TrimSpace(front.Title),
		Summary:   strings.TrimSpace(front.Summary),
		Body:      body,
		HTML:      html,
		UpdatedAt: parseDate(front.UpdatedAt),
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	if page.UpdatedAt.IsZero() {
		if info, err := os.Stat(file); err == nil {
			page.UpdatedAt = info.ModTime()
		}
	}
	page.SEO = seo.PageMeta{
		Title:       page.Title,
		Description: firstNonEmpty(strings.TrimSpace(front.Description), page.Summary),
		Canonical:   "/" + slug,
		Robots:      strings.TrimSpace(front.Robots),
		OG: seo.OpenGraphOverride{
			Type: strings.TrimSpace(front.OGType),
		},
	}
	if img := strings.TrimSpace(front.OGImage); img != "" {
		page.SEO.OG.Image = &seo.Image{URL: img, Alt: strings.TrimSpace(front.OGImageAlt)}
	}
	return page, nil
}

var sanitizer = bluemonday.UGCPolicy()

func renderMarkdown(body string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return sanitizer.Sanitize(buf.String()), nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimPrefix(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func sanitizeSlug(slug string) string {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsRune(slug, os.PathSeparator) {
		return ""
	}
	return slug
}

func prettifySlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		if runes[0] >= 'a' && runes[0] <= 'z' {
			runes[0] -= 'a' - 'A'
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func (s *Store) cached(key string) (Page, bool) {
	now := time.Now()
	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()
	if !ok || now.After(entry.expires) {
		return Page{}, false
	}
	return entry.page, true
}

func (s *Store) store(key string, page Page) {
	s.mu.Lock()
	s.cache[key] = cacheEntry{page: page, expires: time.Now().Add(s.ttl)}
	s.mu.Unlock()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
