package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"timeismoney.app/web/internal/config"
)

// newTestServer wires a server against the repository's real templates,
// locales and content, with templates reparsed per request.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Name: "timeismoney-web", Mode: config.ModeTest},
		Site: config.SiteConfig{
			Name:        "Time is Money",
			Description: "A browser extension that converts prices into hours of work.",
			BaseURL:     "https://timeismoney.app",
			Locale:      "en_US",
			OGImage:     "https://timeismoney.app/assets/img/og-card.png",
			OGImageAlt:  "Time is Money logo",
		},
		Server: config.ServerConfig{Port: "0"},
		Content: config.ContentConfig{
			TemplatesDir: "../../templates",
			PublicDir:    "../../public",
			PagesDir:     "../../content/pages",
			LocalesDir:   "../../locales",
		},
	}
	srv, err := newServer(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	srv.devMode = true
	if _, err := srv.parseTemplates(); err != nil {
		t.Fatalf("parseTemplates: %v", err)
	}
	return srv.routes()
}

func get(t *testing.T, h http.Handler, path, acceptLang string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if acceptLang != "" {
		req.Header.Set("Accept-Language", acceptLang)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func parseDoc(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "ok" {
		t.Fatalf("expected body 'ok', got %q", got)
	}
}

func TestHomeHeadMetadata(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/", "en")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	doc := parseDoc(t, rec)

	if got := doc.Find("title").Text(); got != "Time is Money" {
		t.Errorf("title = %q", got)
	}
	if got, _ := doc.Find(`meta[name="description"]`).Attr("content"); got == "" {
		t.Error("missing meta description")
	}
	if got, _ := doc.Find(`link[rel="canonical"]`).Attr("href"); got != "https://timeismoney.app" {
		t.Errorf("canonical = %q", got)
	}
	if got, _ := doc.Find(`meta[property="og:title"]`).Attr("content"); got != "Time is Money" {
		t.Errorf("og:title = %q", got)
	}
	if got, _ := doc.Find(`meta[property="og:type"]`).Attr("content"); got != "website" {
		t.Errorf("og:type = %q", got)
	}
	if got, _ := doc.Find(`meta[property="og:image"]`).Attr("content"); got != "https://timeismoney.app/assets/img/og-card.png" {
		t.Errorf("og:image = %q", got)
	}
	if got, _ := doc.Find(`meta[name="twitter:card"]`).Attr("content"); got != "summary_large_image" {
		t.Errorf("twitter:card = %q", got)
	}
	if doc.Find(`meta[name="robots"]`).Length() != 0 {
		t.Error("home page should not carry a robots meta tag")
	}
}

func TestHomeStructuredData(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/", "en")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	doc := parseDoc(t, rec)

	scripts := doc.Find(`script[type="application/ld+json"]`)
	if scripts.Length() != 2 {
		t.Fatalf("expected 2 ld+json scripts, got %d", scripts.Length())
	}
	first := scripts.Eq(0).Text()
	second := scripts.Eq(1).Text()
	if !strings.Contains(first, `"@type":"Organization"`) {
		t.Errorf("first script is not Organization: %s", first)
	}
	if !strings.Contains(second, `"@type":"WebSite"`) {
		t.Errorf("second script is not WebSite: %s", second)
	}
	if !strings.Contains(second, "https://schema.org") {
		t.Errorf("missing schema context: %s", second)
	}
	// The payload must land in the page verbatim, not entity-escaped by
	// the template engine, or crawlers cannot parse it.
	for i, raw := range []string{first, second} {
		if strings.Contains(raw, "&#34;") {
			t.Errorf("script %d is HTML-escaped: %s", i, raw)
		}
		var decoded map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &decoded); err != nil {
			t.Errorf("script %d is not valid JSON: %v", i, err)
		}
	}
}

func TestHomeLocalized(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/", "ja")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Language"); got != "ja" {
		t.Errorf("Content-Language = %q", got)
	}
	doc := parseDoc(t, rec)
	if got, _ := doc.Find("html").Attr("lang"); got != "ja" {
		t.Errorf("html lang = %q", got)
	}
	if !strings.Contains(rec.Body.String(), "仕組み") {
		t.Error("expected localized nav label in body")
	}

	rec = get(t, srv, "/", "en;q=0.8, ja;q=0.3")
	doc = parseDoc(t, rec)
	if got, _ := doc.Find("html").Attr("lang"); got != "en" {
		t.Errorf("html lang = %q", got)
	}
}

func TestContentPageMetadata(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/privacy", "en")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	doc := parseDoc(t, rec)

	if got := doc.Find("title").Text(); got != "Privacy Policy" {
		t.Errorf("title = %q", got)
	}
	if got, _ := doc.Find(`link[rel="canonical"]`).Attr("href"); got != "https://timeismoney.app/privacy" {
		t.Errorf("canonical = %q", got)
	}
	if got, _ := doc.Find(`meta[name="robots"]`).Attr("content"); got != "noindex" {
		t.Errorf("robots = %q", got)
	}
	// Site-wide fields survive the per-page override.
	if got, _ := doc.Find(`meta[property="og:site_name"]`).Attr("content"); got != "Time is Money" {
		t.Errorf("og:site_name = %q", got)
	}
	if doc.Find(`script[type="application/ld+json"]`).Length() != 0 {
		t.Error("structured data should only appear on the front page")
	}
	if doc.Find("article.page h2").Length() == 0 {
		t.Error("expected rendered markdown headings in body")
	}
}

func TestContentPageFallsBackToEnglish(t *testing.T) {
	srv := newTestServer(t)
	// No Japanese translation of the support page exists.
	rec := get(t, srv, "/support", "ja")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	doc := parseDoc(t, rec)
	if got := doc.Find("article.page h1").Text(); got != "Support" {
		t.Errorf("h1 = %q", got)
	}
}

func TestUnknownSlug404(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/no-such-page", "en")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRobotsTxt(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/robots.txt", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "User-agent: *") {
		t.Errorf("missing user-agent line: %s", body)
	}
	if !strings.Contains(body, "Sitemap: https://timeismoney.app/sitemap.xml") {
		t.Errorf("missing sitemap line: %s", body)
	}
}

func TestSitemapXML(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/sitemap.xml", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/xml") {
		t.Errorf("Content-Type = %q", got)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
		t.Errorf("missing urlset namespace: %s", body)
	}
	for _, loc := range []string{
		"<loc>https://timeismoney.app/</loc>",
		"<loc>https://timeismoney.app/privacy</loc>",
		"<loc>https://timeismoney.app/how-it-works</loc>",
	} {
		if !strings.Contains(body, loc) {
			t.Errorf("missing %s in sitemap: %s", loc, body)
		}
	}
}

func TestAssetCaching(t *testing.T) {
	srv := newTestServer(t)
	rec := get(t, srv, "/assets/css/app.css", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag header")
	}
	if got := rec.Header().Get("Cache-Control"); got == "" {
		t.Error("expected Cache-Control header")
	}

	req := httptest.NewRequest(http.MethodGet, "/assets/css/app.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec2 := httptest.NewRecorder()
	srv.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusNotModified {
		t.Fatalf("expected 304 for matching ETag, got %d", rec2.Code)
	}
}
