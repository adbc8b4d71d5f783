package handlers

import (
	"timeismoney.app/web/internal/format"
	"timeismoney.app/web/internal/seo"
)

// Feature is one selling point on the landing page.
type Feature struct {
	TitleKey string
	BodyKey  string
	Icon     string
}

// StoreLink points at a browser extension store listing.
type StoreLink struct {
	Store string // "chrome" or "firefox"
	URL   string
}

// Example is the worked conversion shown in the hero: what a price costs
// in working time at a given wage.
type Example struct {
	Price string
	Wage  string
	Time  string
}

// HomeData is the view model for the landing page.
type HomeData struct {
	Base
	TaglineKey string
	Example    Example
	Features   []Feature
	Stores     []StoreLink
}

var homeFeatures = []Feature{
	{TitleKey: "home.feature.convert.title", BodyKey: "home.feature.convert.body", Icon: "clock"},
	{TitleKey: "home.feature.private.title", BodyKey: "home.feature.private.body", Icon: "lock"},
	{TitleKey: "home.feature.everywhere.title", BodyKey: "home.feature.everywhere.body", Icon: "globe"},
}

// heroExample is a $30 price at a $20/hour wage, in cents.
const (
	heroExamplePrice = 3000
	heroExampleWage  = 2000
)

var storeLinks = []StoreLink{
	{Store: "chrome", URL: "https://chromewebstore.google.com/detail/time-is-money"},
	{Store: "firefox", URL: "https://addons.mozilla.org/firefox/addon/time-is-money"},
}

// Home builds the landing page view model, including the Organization and
// WebSite structured data embedded only on the front page.
func (b *Builder) Home(lang string) (HomeData, error) {
	base, err := b.base("/", lang, seo.PageMeta{})
	if err != nil {
		return HomeData{}, err
	}

	org, err := seo.NewOrganizationSchema(seo.OrganizationData{
		Name:    b.site.Name,
		URL:     b.defaults.Canonical,
		LogoURL: b.site.OGImage,
	})
	if err != nil {
		return HomeData{}, err
	}
	site, err := seo.NewWebSiteSchema(seo.WebSiteData{
		Name: b.site.Name,
		URL:  b.defaults.Canonical,
	})
	if err != nil {
		return HomeData{}, err
	}
	for _, schema := range []any{org, site} {
		script, err := seo.NewScript(schema)
		if err != nil {
			return HomeData{}, err
		}
		base.JSONLD = append(base.JSONLD, script)
	}

	return HomeData{
		Base:       base,
		TaglineKey: "home.tagline",
		Example: Example{
			Price: format.Currency(heroExamplePrice, "USD"),
			Wage:  format.Currency(heroExampleWage, "USD"),
			Time:  format.WorkTime(heroExamplePrice, heroExampleWage),
		},
		Features: homeFeatures,
		Stores:   storeLinks,
	}, nil
}
