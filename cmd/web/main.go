package main

import (
	"context"
	"flag"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"timeismoney.app/web/internal/analytics"
	"timeismoney.app/web/internal/cms"
	"timeismoney.app/web/internal/config"
	"timeismoney.app/web/internal/format"
	"timeismoney.app/web/internal/handlers"
	"timeismoney.app/web/internal/i18n"
	mw "timeismoney.app/web/internal/middleware"
)

const analyticsFlushInterval = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	var addr string
	flag.StringVar(&addr, "addr", ":"+cfg.Server.Port, "HTTP listen address")
	flag.Parse()

	// Startup validation replaces any implicit first-use warnings.
	for _, warning := range cfg.Warnings() {
		log.Warn(warning)
	}

	srv, err := newServer(cfg, log)
	if err != nil {
		log.Fatal("startup", zap.Error(err))
	}
	if !srv.devMode {
		// Parse templates once in production.
		tc, err := srv.parseTemplates()
		if err != nil {
			log.Fatal("parse templates", zap.Error(err))
		}
		srv.tmplCache = tc
	}

	go srv.flushAnalyticsLoop(context.Background())

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	log.Info("web listening", zap.String("addr", addr), zap.String("mode", cfg.App.Mode))
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("listen", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.IsProduction() {
		log, _ := zap.NewProduction()
		return log
	}
	log, _ := zap.NewDevelopment()
	return log
}

type server struct {
	cfg       *config.Config
	log       *zap.Logger
	builder   *handlers.Builder
	bundle    *i18n.Bundle
	store     *cms.Store
	analytics *analytics.Client
	devMode   bool
	tmplCache *template.Template
}

func newServer(cfg *config.Config, log *zap.Logger) (*server, error) {
	bundle, err := i18n.Load(cfg.Content.LocalesDir, "en", []string{"en", "ja"})
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}
	ac := analytics.New(cfg.Analytics)
	builder, err := handlers.NewBuilder(cfg.Site, ac)
	if err != nil {
		return nil, err
	}
	return &server{
		cfg:       cfg,
		log:       log,
		builder:   builder,
		bundle:    bundle,
		store:     cms.NewStore(cfg.Content.PagesDir, bundle.Fallback()),
		analytics: ac,
		devMode:   !cfg.IsProduction(),
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// Behind the load balancer RealIP resolves the client from
	// X-Forwarded-For; only trusted proxies may set those headers.
	r.Use(chimw.RealIP)
	r.Use(mw.Locale(s.bundle))
	r.Use(mw.VaryLocale)
	r.Use(mw.Logger(s.log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	assets := http.StripPrefix("/assets", mw.AssetsWithCache(filepath.Join(s.cfg.Content.PublicDir, "assets")))
	r.Handle("/assets/*", assets)

	r.Get("/", s.handleHome)
	r.Get("/robots.txt", s.handleRobots)
	r.Get("/sitemap.xml", s.handleSitemap)
	r.Get("/{slug}", s.handleContent)
	return r
}

func (s *server) flushAnalyticsLoop(ctx context.Context) {
	if !s.analytics.Enabled() {
		return
	}
	ticker := time.NewTicker(analyticsFlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.analytics.Flush(ctx); err != nil {
				s.log.Warn("analytics flush", zap.Error(err))
			}
		}
	}
}

func (s *server) parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"now":     time.Now,
		"t":       s.bundle.T,
		"fmtDate": format.Date,
		"safeJS": func(v string) template.JS {
			return template.JS(v)
		},
	}
	// Recursively discover and parse all .tmpl files; ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(s.cfg.Content.TemplatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", s.cfg.Content.TemplatesDir)
	}
	return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}
