package seo

import (
	"fmt"
	"strings"
)

// SchemaContext is the @context every emitted schema carries.
const SchemaContext = "https://schema.org"

// SearchPlaceholder is the token a SearchAction target template must contain
// exactly once.
const SearchPlaceholder = "{search_term_string}"

// OrganizationData is the input for an Organization schema.
type OrganizationData struct {
	Name          string
	URL           string
	LogoURL       string
	ContactPoints []ContactPoint
	Address       *PostalAddress
}

// ContactPoint describes one way to reach the organization.
type ContactPoint struct {
	Telephone         string
	ContactType       string
	AreaServed        string
	AvailableLanguage string
}

// PostalAddress is a schema.org postal address. AddressCountry is the only
// field callers are expected to always fill.
type PostalAddress struct {
	StreetAddress   string
	AddressLocality string
	AddressRegion   string
	PostalCode      string
	AddressCountry  string
}

// WebSiteData is the input for a WebSite schema. Search is optional.
type WebSiteData struct {
	Name   string
	URL    string
	Search *SearchAction
}

// SearchAction pairs a URL template containing SearchPlaceholder with the
// name of the query input it binds.
type SearchAction struct {
	Target         string
	QueryInputName string
}

// NewSearchAction validates the template and returns the action. The template
// must contain exactly one SearchPlaceholder token; violations are reported
// through *SchemaError.
func NewSearchAction(template, queryParam string) (SearchAction, error) {
	errs := &SchemaError{}
	validateSearchTarget(errs, "target", template)
	if strings.TrimSpace(queryParam) == "" {
		errs.add("queryInputName", "must not be empty")
	}
	if err := errs.orNil(); err != nil {
		return SearchAction{}, err
	}
	return SearchAction{Target: template, QueryInputName: queryParam}, nil
}

// OrganizationSchema is the JSON-LD shape of an organization.
type OrganizationSchema struct {
	Context      string               `json:"@context"`
	Type         string               `json:"@type"`
	Name         string               `json:"name"`
	URL          string               `json:"url"`
	Logo         string               `json:"logo,omitempty"`
	ContactPoint []ContactPointSchema `json:"contactPoint,omitempty"`
	Address      *PostalAddressSchema `json:"address,omitempty"`
}

// ContactPointSchema is the JSON-LD shape of a contact point.
type ContactPointSchema struct {
	Type              string `json:"@type"`
	Telephone         string `json:"telephone"`
	ContactType       string `json:"contactType"`
	AreaServed        string `json:"areaServed,omitempty"`
	AvailableLanguage string `json:"availableLanguage,omitempty"`
}

// PostalAddressSchema is the JSON-LD shape of a postal address.
type PostalAddressSchema struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress,omitempty"`
	AddressLocality string `json:"addressLocality,omitempty"`
	AddressRegion   string `json:"addressRegion,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
	AddressCountry  string `json:"addressCountry,omitempty"`
}

// WebSiteSchema is the JSON-LD shape of a web site.
type WebSiteSchema struct {
	Context         string              `json:"@context"`
	Type            string              `json:"@type"`
	Name            string              `json:"name"`
	URL             string              `json:"url"`
	PotentialAction *SearchActionSchema `json:"potentialAction,omitempty"`
}

// SearchActionSchema is the JSON-LD shape of a search action.
type SearchActionSchema struct {
	Type       string `json:"@type"`
	Target     string `json:"target"`
	QueryInput string `json:"query-input"`
}

// NewOrganizationSchema validates the input exhaustively and maps it to its
// JSON-LD shape.
func NewOrganizationSchema(data OrganizationData) (OrganizationSchema, error) {
	if err := ValidateOrganization(data); err != nil {
		return OrganizationSchema{}, err
	}
	s := OrganizationSchema{
		Context: SchemaContext,
		Type:    "Organization",
		Name:    data.Name,
		URL:     data.URL,
		Logo:    data.LogoURL,
	}
	for _, cp := range data.ContactPoints {
		s.ContactPoint = append(s.ContactPoint, ContactPointSchema{
			Type:              "ContactPoint",
			Telephone:         cp.Telephone,
			ContactType:       cp.ContactType,
			AreaServed:        cp.AreaServed,
			AvailableLanguage: cp.AvailableLanguage,
		})
	}
	if data.Address != nil {
		s.Address = &PostalAddressSchema{
			Type:            "PostalAddress",
			StreetAddress:   data.Address.StreetAddress,
			AddressLocality: data.Address.AddressLocality,
			AddressRegion:   data.Address.AddressRegion,
			PostalCode:      data.Address.PostalCode,
			AddressCountry:  data.Address.AddressCountry,
		}
	}
	return s, nil
}

// NewWebSiteSchema validates the input exhaustively and maps it to its
// JSON-LD shape.
func NewWebSiteSchema(data WebSiteData) (WebSiteSchema, error) {
	if err := ValidateWebSite(data); err != nil {
		return WebSiteSchema{}, err
	}
	s := WebSiteSchema{
		Context: SchemaContext,
		Type:    "WebSite",
		Name:    data.Name,
		URL:     data.URL,
	}
	if data.Search != nil {
		s.PotentialAction = &SearchActionSchema{
			Type:       "SearchAction",
			Target:     data.Search.Target,
			QueryInput: "required name=search_term_string",
		}
	}
	return s, nil
}

// ValidateOrganization collects every rule violation in the input. It returns
// nil when the input is valid, otherwise a *SchemaError listing all violated
// field paths.
func ValidateOrganization(data OrganizationData) error {
	errs := &SchemaError{}
	validateRequiredName(errs, data.Name)
	validateRequiredURL(errs, data.URL)
	for i, cp := range data.ContactPoints {
		if strings.TrimSpace(cp.Telephone) == "" {
			errs.add(fmt.Sprintf("contactPoint[%d].telephone", i), "must not be empty")
		}
		if strings.TrimSpace(cp.ContactType) == "" {
			errs.add(fmt.Sprintf("contactPoint[%d].contactType", i), "must not be empty")
		}
	}
	return errs.orNil()
}

// ValidateWebSite collects every rule violation in the input.
func ValidateWebSite(data WebSiteData) error {
	errs := &SchemaError{}
	validateRequiredName(errs, data.Name)
	validateRequiredURL(errs, data.URL)
	if data.Search != nil {
		validateSearchTarget(errs, "potentialAction.target", data.Search.Target)
	}
	return errs.orNil()
}

func validateRequiredName(errs *SchemaError, name string) {
	if strings.TrimSpace(name) == "" {
		errs.add("name", "must not be empty")
	}
}

func validateRequiredURL(errs *SchemaError, raw string) {
	if strings.TrimSpace(raw) == "" {
		errs.add("url", "must not be empty")
		return
	}
	if _, err := parseAbsoluteURL(raw); err != nil {
		errs.add("url", "must be an absolute URL")
	}
}

func validateSearchTarget(errs *SchemaError, path, target string) {
	switch strings.Count(target, SearchPlaceholder) {
	case 1:
		// ok
	case 0:
		errs.add(path, "missing "+SearchPlaceholder+" placeholder")
	default:
		errs.add(path, "more than one "+SearchPlaceholder+" placeholder")
	}
}
