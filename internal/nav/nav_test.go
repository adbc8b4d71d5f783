package nav

import "testing"

func TestBuildMarksActiveSection(t *testing.T) {
	items := Build("/how-it-works")
	if len(items) != len(Main) {
		t.Fatalf("expected %d items, got %d", len(Main), len(items))
	}
	for _, it := range items {
		want := it.Href == "/how-it-works"
		if it.Active != want {
			t.Fatalf("item %s active=%v, want %v", it.Href, it.Active, want)
		}
	}
}

func TestBreadcrumbsHomeOnly(t *testing.T) {
	crumbs := Breadcrumbs("/")
	if len(crumbs) != 1 || !crumbs[0].Active || crumbs[0].Href != "/" {
		t.Fatalf("unexpected crumbs: %+v", crumbs)
	}
}

func TestBreadcrumbsDeepPath(t *testing.T) {
	crumbs := Breadcrumbs("/support/contact-us")
	if len(crumbs) != 3 {
		t.Fatalf("expected 3 crumbs, got %+v", crumbs)
	}
	if crumbs[1].LabelKey != "nav.support" || crumbs[1].Active {
		t.Fatalf("unexpected section crumb: %+v", crumbs[1])
	}
	if crumbs[2].Label != "Contact us" || !crumbs[2].Active {
		t.Fatalf("unexpected leaf crumb: %+v", crumbs[2])
	}
}
