// Package seo composes page metadata and schema.org structured data.
//
// Everything here is a pure transformation over immutable value records:
// defaults are derived from site configuration, per-page overrides are merged
// field by field, and the result is converted to a template-facing head view
// model. Concurrent callers need no coordination.
package seo

import (
	"net/url"
	"strings"
)

// Image describes a social-sharing image. An override image replaces the
// default image whole; partial image merging is not meaningful.
type Image struct {
	URL    string
	Alt    string
	Width  int
	Height int
}

// OpenGraph holds the og:* fields for link previews.
type OpenGraph struct {
	Title       string
	Description string
	URL         string
	SiteName    string
	Type        string // "website" or "article"
	Locale      string
	Image       *Image
}

// Twitter holds the Twitter Card fields.
type Twitter struct {
	Card        string // "summary" or "summary_large_image"
	Site        string // @handle
	Title       string
	Description string
	Image       string
}

// Meta is a fully resolved metadata record for one page. Canonical is always
// an absolute URL once the record has passed through Defaults or Merge.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Locale      string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
}

// PageMeta carries per-page overrides. Empty fields inherit from defaults.
// A relative Canonical is resolved against the site base at merge time.
type PageMeta struct {
	Title       string
	Description string
	Canonical   string
	Locale      string
	Robots      string
	OG          OpenGraphOverride
	Twitter     TwitterOverride
}

// OpenGraphOverride mirrors OpenGraph with every field optional.
type OpenGraphOverride struct {
	Title       string
	Description string
	URL         string
	Type        string
	Locale      string
	Image       *Image
}

// TwitterOverride mirrors Twitter with every field optional.
type TwitterOverride struct {
	Card        string
	Title       string
	Description string
	Image       string
}

// Site is the site-wide configuration snapshot the defaults derive from.
type Site struct {
	Name         string
	Description  string
	BaseURL      string // absolute
	Locale       string
	TwitterSite  string // @handle, optional
	DefaultImage *Image
}

const (
	defaultLocale      = "en"
	defaultOGType      = "website"
	defaultTwitterCard = "summary_large_image"
)

// Defaults builds the baseline metadata record from site configuration.
// Name and Description must be non-empty and BaseURL must be a well-formed
// absolute http(s) URL, otherwise a *ConfigError is returned.
func Defaults(site Site) (Meta, error) {
	if strings.TrimSpace(site.Name) == "" {
		return Meta{}, &ConfigError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(site.Description) == "" {
		return Meta{}, &ConfigError{Field: "description", Reason: "must not be empty"}
	}
	base, err := parseAbsoluteURL(site.BaseURL)
	if err != nil {
		return Meta{}, &ConfigError{Field: "base_url", Reason: err.Error()}
	}

	locale := site.Locale
	if locale == "" {
		locale = defaultLocale
	}
	canonical := base.String()

	m := Meta{
		Title:       site.Name,
		Description: site.Description,
		Canonical:   canonical,
		Locale:      locale,
		OG: OpenGraph{
			Title:       site.Name,
			Description: site.Description,
			URL:         canonical,
			SiteName:    site.Name,
			Type:        defaultOGType,
			Locale:      locale,
			Image:       cloneImage(site.DefaultImage),
		},
		Twitter: Twitter{
			Card:        defaultTwitterCard,
			Site:        site.TwitterSite,
			Title:       site.Name,
			Description: site.Description,
		},
	}
	if site.DefaultImage != nil {
		m.Twitter.Image = site.DefaultImage.URL
	}
	return m, nil
}

// Merge combines per-page overrides with the defaults and returns a new
// record; neither input is mutated. Every non-empty override field replaces
// the corresponding default; the override image, when present, replaces the
// default image entirely. OG and Twitter title/description follow the page
// title/description when not overridden themselves. A relative canonical is
// resolved against the defaults' canonical so the output is always absolute.
// Merge fails closed with a *ValidationError if the result would have an
// empty title or description.
func Merge(defaults Meta, page PageMeta) (Meta, error) {
	var bad []string

	canonical := defaults.Canonical
	ogURL := defaults.OG.URL
	if page.Canonical != "" {
		resolved, err := resolveCanonical(defaults.Canonical, page.Canonical)
		if err != nil {
			bad = append(bad, "canonical")
		} else {
			canonical = resolved
			ogURL = resolved
		}
	}

	out := Meta{
		Title:       firstNonEmpty(page.Title, defaults.Title),
		Description: firstNonEmpty(page.Description, defaults.Description),
		Canonical:   canonical,
		Locale:      firstNonEmpty(page.Locale, defaults.Locale),
		Robots:      firstNonEmpty(page.Robots, defaults.Robots),
	}

	out.OG = OpenGraph{
		Title:       firstNonEmpty(page.OG.Title, page.Title, defaults.OG.Title),
		Description: firstNonEmpty(page.OG.Description, page.Description, defaults.OG.Description),
		URL:         firstNonEmpty(page.OG.URL, ogURL),
		SiteName:    defaults.OG.SiteName,
		Type:        firstNonEmpty(page.OG.Type, defaults.OG.Type),
		Locale:      firstNonEmpty(page.OG.Locale, page.Locale, defaults.OG.Locale),
		Image:       cloneImage(defaults.OG.Image),
	}
	if page.OG.Image != nil {
		out.OG.Image = cloneImage(page.OG.Image)
	}

	out.Twitter = Twitter{
		Card:        firstNonEmpty(page.Twitter.Card, defaults.Twitter.Card),
		Site:        defaults.Twitter.Site,
		Title:       firstNonEmpty(page.Twitter.Title, page.Title, defaults.Twitter.Title),
		Description: firstNonEmpty(page.Twitter.Description, page.Description, defaults.Twitter.Description),
		Image:       firstNonEmpty(page.Twitter.Image, defaults.Twitter.Image),
	}
	if page.OG.Image != nil && page.Twitter.Image == "" {
		out.Twitter.Image = page.OG.Image.URL
	}

	if strings.TrimSpace(out.Title) == "" {
		bad = append(bad, "title")
	}
	if strings.TrimSpace(out.Description) == "" {
		bad = append(bad, "description")
	}
	if len(bad) > 0 {
		return Meta{}, &ValidationError{Fields: bad}
	}
	return out, nil
}

// Head is the template-facing head view model. The mapping from Meta is a
// total, lossless field renaming; validation already happened upstream.
type Head struct {
	Title         string
	Description   string
	Canonical     string
	Robots        string
	OGTitle       string
	OGDescription string
	OGURL         string
	OGSiteName    string
	OGType        string
	OGLocale      string
	OGImage       string
	OGImageAlt    string
	TwitterCard   string
	TwitterSite   string
	TwitterTitle  string
	TwitterDesc   string
	TwitterImage  string
}

// Head converts the resolved record to the template-facing view model.
func (m Meta) Head() Head {
	h := Head{
		Title:         m.Title,
		Description:   m.Description,
		Canonical:     m.Canonical,
		Robots:        m.Robots,
		OGTitle:       m.OG.Title,
		OGDescription: m.OG.Description,
		OGURL:         m.OG.URL,
		OGSiteName:    m.OG.SiteName,
		OGType:        m.OG.Type,
		OGLocale:      m.OG.Locale,
		TwitterCard:   m.Twitter.Card,
		TwitterSite:   m.Twitter.Site,
		TwitterTitle:  m.Twitter.Title,
		TwitterDesc:   m.Twitter.Description,
		TwitterImage:  m.Twitter.Image,
	}
	if m.OG.Image != nil {
		h.OGImage = m.OG.Image.URL
		h.OGImageAlt = m.OG.Image.Alt
	}
	return h
}

func parseAbsoluteURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, &ConfigError{Field: "url", Reason: "must be an absolute URL"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &ConfigError{Field: "url", Reason: "scheme must be http or https"}
	}
	return u, nil
}

func resolveCanonical(base, ref string) (string, error) {
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	if r.IsAbs() {
		return r.String(), nil
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return "", &ValidationError{Fields: []string{"canonical"}}
	}
	return b.ResolveReference(r).String(), nil
}

func cloneImage(img *Image) *Image {
	if img == nil {
		return nil
	}
	cp := *img
	return &cp
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
