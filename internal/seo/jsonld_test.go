package seo

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestOrganizationSchemaMinimal(t *testing.T) {
	s, err := NewOrganizationSchema(OrganizationData{
		Name:          "Acme",
		URL:           "https://acme.example",
		ContactPoints: []ContactPoint{},
	})
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	out, err := SerializeJSONLD(s)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     "Acme",
		"url":      "https://acme.example",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("minimal organization:\n got %v\nwant %v", got, want)
	}
}

func TestOrganizationSchemaFull(t *testing.T) {
	s, err := NewOrganizationSchema(OrganizationData{
		Name:    "Time is Money",
		URL:     "https://timeismoney.app",
		LogoURL: "https://timeismoney.app/assets/logo.png",
		ContactPoints: []ContactPoint{
			{Telephone: "+1-555-0100", ContactType: "customer support", AreaServed: "US", AvailableLanguage: "en"},
		},
		Address: &PostalAddress{AddressLocality: "Portland", AddressRegion: "OR", AddressCountry: "US"},
	})
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if len(s.ContactPoint) != 1 || s.ContactPoint[0].Type != "ContactPoint" {
		t.Fatalf("contact point not mapped: %+v", s.ContactPoint)
	}
	if s.Address == nil || s.Address.Type != "PostalAddress" || s.Address.AddressCountry != "US" {
		t.Fatalf("address not mapped: %+v", s.Address)
	}
}

func TestValidateOrganizationCollectsAllViolations(t *testing.T) {
	err := ValidateOrganization(OrganizationData{Name: "Acme"})
	var sErr *SchemaError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if got := sErr.Paths(); len(got) != 1 || got[0] != "url" {
		t.Fatalf("expected exactly [url], got %v", got)
	}

	err = ValidateOrganization(OrganizationData{})
	if !errors.As(err, &sErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if got := sErr.Paths(); len(got) != 2 {
		t.Fatalf("expected two violations for missing name and url, got %v", got)
	}
}

func TestValidateOrganizationContactPoints(t *testing.T) {
	err := ValidateOrganization(OrganizationData{
		Name: "Acme",
		URL:  "https://acme.example",
		ContactPoints: []ContactPoint{
			{Telephone: "+1-555-0100", ContactType: "sales"},
			{Telephone: "", ContactType: ""},
		},
	})
	var sErr *SchemaError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	want := []string{"contactPoint[1].telephone", "contactPoint[1].contactType"}
	if got := sErr.Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestValidateOrganizationRejectsRelativeURL(t *testing.T) {
	err := ValidateOrganization(OrganizationData{Name: "Acme", URL: "/about"})
	var sErr *SchemaError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if got := sErr.Paths(); len(got) != 1 || got[0] != "url" {
		t.Fatalf("expected [url], got %v", got)
	}
}

func TestWebSiteSchemaWithSearchAction(t *testing.T) {
	action, err := NewSearchAction("https://x.test/search?q={search_term_string}", "q")
	if err != nil {
		t.Fatalf("search action: %v", err)
	}
	s, err := NewWebSiteSchema(WebSiteData{Name: "X", URL: "https://x.test", Search: &action})
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if s.PotentialAction == nil || s.PotentialAction.Type != "SearchAction" {
		t.Fatalf("potential action missing: %+v", s)
	}
	if s.PotentialAction.QueryInput != "required name=search_term_string" {
		t.Fatalf("query-input wrong: %q", s.PotentialAction.QueryInput)
	}
}

func TestNewSearchActionRequiresPlaceholder(t *testing.T) {
	_, err := NewSearchAction("https://x.test/search", "q")
	var sErr *SchemaError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if got := sErr.Paths(); len(got) != 1 || got[0] != "target" {
		t.Fatalf("expected [target], got %v", got)
	}

	_, err = NewSearchAction("https://x.test/{search_term_string}/{search_term_string}", "q")
	if !errors.As(err, &sErr) {
		t.Fatalf("expected SchemaError for duplicate placeholder, got %v", err)
	}
}

func TestSerializeEscapesScriptClose(t *testing.T) {
	s, err := NewOrganizationSchema(OrganizationData{
		Name: "Acme </script><script>alert(1)</script>",
		URL:  "https://acme.example",
	})
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	out, err := SerializeJSONLD(s)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if strings.Contains(out, "</script>") {
		t.Fatalf("raw </script> leaked into serialized output: %s", out)
	}
	if !strings.Contains(out, `\u003c/script`) {
		t.Fatalf("expected unicode-escaped script close, got: %s", out)
	}
	// Escaping must not change the decoded value.
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["name"] != "Acme </script><script>alert(1)</script>" {
		t.Fatalf("round-trip changed value: %v", got["name"])
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	action, _ := NewSearchAction("https://timeismoney.app/search?q={search_term_string}", "q")
	s, err := NewWebSiteSchema(WebSiteData{Name: "Time is Money", URL: "https://timeismoney.app", Search: &action})
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	out, err := SerializeJSONLD(s)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	var decoded WebSiteSchema
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded, s) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, s)
	}
}

func TestNewScript(t *testing.T) {
	s, _ := NewOrganizationSchema(OrganizationData{Name: "Acme", URL: "https://acme.example"})
	script, err := NewScript(s)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	if script.Type != "application/ld+json" {
		t.Fatalf("expected ld+json type, got %q", script.Type)
	}
	if !strings.Contains(script.Content, `"@type":"Organization"`) {
		t.Fatalf("unexpected content: %s", script.Content)
	}
}
