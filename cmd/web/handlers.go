package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"timeismoney.app/web/internal/cms"
	"timeismoney.app/web/internal/metrics"
	mw "timeismoney.app/web/internal/middleware"
	"timeismoney.app/web/internal/sitemap"
)

// render executes the named page template. In dev mode templates are
// reparsed on each request.
func (s *server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	t := s.tmplCache
	if s.devMode {
		tc, err := s.parseTemplates()
		if err != nil {
			s.renderError(w, r, fmt.Errorf("template parse: %w", err))
			return
		}
		t = tc
	}
	if t == nil {
		s.renderError(w, r, errors.New("template not initialized"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		s.renderError(w, r, fmt.Errorf("template exec %s: %w", name, err))
	}
}

func (s *server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	metrics.RenderErrors.WithLabelValues(r.URL.Path).Inc()
	s.log.Error("render", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	lang := mw.LangFromContext(r.Context())
	vm, err := s.builder.Home(lang)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	metrics.PageViews.WithLabelValues("/").Inc()
	s.analytics.Track("page_view", map[string]any{"page_location": vm.SEO.Canonical})
	s.render(w, r, "home", vm)
}

func (s *server) handleContent(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	lang := mw.LangFromContext(r.Context())

	page, err := s.store.Get(slug, lang)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.renderError(w, r, err)
		return
	}

	vm, err := s.builder.ContentPage("/"+slug, lang, page)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	metrics.PageViews.WithLabelValues("/" + slug).Inc()
	s.analytics.Track("page_view", map[string]any{"page_location": vm.SEO.Canonical})
	s.render(w, r, "content", vm)
}

func (s *server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(sitemap.Robots(s.cfg.Site.BaseURL)))
}

func (s *server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	paths := []string{"/"}
	lastMod := map[string]time.Time{}

	slugs, err := s.store.Slugs()
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	for _, slug := range slugs {
		p := "/" + slug
		paths = append(paths, p)
		if page, err := s.store.Get(slug, s.bundle.Fallback()); err == nil {
			lastMod[p] = page.UpdatedAt
		}
	}

	entries, err := sitemap.Build(s.cfg.Site.BaseURL, paths, lastMod)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	body, err := sitemap.XML(entries)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}
