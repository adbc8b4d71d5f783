// Package handlers builds the view models the templates render. All page
// metadata flows through the seo package: site-wide defaults are computed
// once at startup and merged with per-page overrides per request.
package handlers

import (
	"timeismoney.app/web/internal/analytics"
	"timeismoney.app/web/internal/config"
	"timeismoney.app/web/internal/nav"
	"timeismoney.app/web/internal/seo"
)

// SEOSite maps the configuration snapshot to the seo package's site input.
func SEOSite(site config.SiteConfig) seo.Site {
	s := seo.Site{
		Name:        site.Name,
		Description: site.Description,
		BaseURL:     site.BaseURL,
		Locale:      site.Locale,
		TwitterSite: site.TwitterSite,
	}
	if site.OGImage != "" {
		s.DefaultImage = &seo.Image{URL: site.OGImage, Alt: site.OGImageAlt}
	}
	return s
}

// Base carries the layout fields every page shares.
type Base struct {
	Lang        string
	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	SEO         seo.Head
	JSONLD      []seo.Script
	Analytics   analytics.Snapshot
}

// Builder assembles view models from the immutable startup state.
type Builder struct {
	site      config.SiteConfig
	defaults  seo.Meta
	analytics *analytics.Client
}

// NewBuilder validates the site configuration through seo.Defaults and
// returns a builder. A *seo.ConfigError here is fatal at startup.
func NewBuilder(site config.SiteConfig, ac *analytics.Client) (*Builder, error) {
	defaults, err := seo.Defaults(SEOSite(site))
	if err != nil {
		return nil, err
	}
	return &Builder{site: site, defaults: defaults, analytics: ac}, nil
}

// Defaults exposes the resolved site-wide metadata record.
func (b *Builder) Defaults() seo.Meta { return b.defaults }

func (b *Builder) base(path, lang string, page seo.PageMeta) (Base, error) {
	meta, err := seo.Merge(b.defaults, page)
	if err != nil {
		return Base{}, err
	}
	return Base{
		Lang:        lang,
		Path:        path,
		Nav:         nav.Build(path),
		Breadcrumbs: nav.Breadcrumbs(path),
		SEO:         meta.Head(),
		Analytics:   b.analytics.Snapshot(),
	}, nil
}
