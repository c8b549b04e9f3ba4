package nav

import (
	"reflect"
	"testing"

	"religionatlas/internal/content"
)

func TestBuild(t *testing.T) {
	links := []content.Link{
		{Label: "Overview", Path: "buddhism/overview"},
		{Label: "Mahāyāna", Path: "/buddhism/mahayana/"},
		{Label: "Tipiṭaka", Path: "https://suttacentral.net"},
		{Label: "Councils", Path: "buddhism/early-buddhism#councils"},
		{Label: "Missing page", Path: "buddhism/does-not-exist"},
	}

	p := Build("", links, "/atlas/")
	if p.Title != DefaultPanelTitle {
		t.Fatalf("Title = %q", p.Title)
	}
	want := []Item{
		{Label: "Overview", Href: "/atlas/buddhism/overview/"},
		{Label: "Mahāyāna", Href: "/atlas/buddhism/mahayana/"},
		{Label: "Tipiṭaka", Href: "https://suttacentral.net", External: true},
		{Label: "Councils", Href: "/atlas/buddhism/early-buddhism/#councils"},
		{Label: "Missing page", Href: "/atlas/buddhism/does-not-exist/"},
	}
	if !reflect.DeepEqual(p.Items, want) {
		t.Fatalf("Items = %+v, want %+v", p.Items, want)
	}
	if p.Empty() {
		t.Fatalf("expected a non-empty panel")
	}

	t.Run("no links", func(t *testing.T) {
		empty := Build("See also", nil, "/")
		if empty.Title != "See also" || !empty.Empty() {
			t.Fatalf("unexpected panel: %+v", empty)
		}
	})
}

func TestJoin(t *testing.T) {
	cases := []struct{ base, rel, want string }{
		{"", "", "/"},
		{"/hi/", "", "/hi/"},
		{"/", "sitemap.xml", "/sitemap.xml"},
		{"/a", "b?q=1", "/a/b/?q=1"},
	}
	for _, tc := range cases {
		if got := Join(tc.base, tc.rel); got != tc.want {
			t.Fatalf("Join(%q, %q) = %q, want %q", tc.base, tc.rel, got, tc.want)
		}
	}
}

func TestBreadcrumbs(t *testing.T) {
	crumbs := Breadcrumbs("/atlas/", "", "buddhism/early-buddhism", map[string]string{
		"buddhism":                "Buddhism",
		"buddhism/early-buddhism": "Early Buddhism",
	})
	want := []Crumb{
		{Label: "Home", Href: "/atlas/"},
		{Label: "Buddhism", Href: "/atlas/buddhism/"},
		{Label: "Early Buddhism", Href: "/atlas/buddhism/early-buddhism/", Current: true},
	}
	if !reflect.DeepEqual(crumbs, want) {
		t.Fatalf("Breadcrumbs = %+v, want %+v", crumbs, want)
	}

	t.Run("labels derived from slugs", func(t *testing.T) {
		crumbs := Breadcrumbs("/", "Start", "hinduism/advaita-vedanta", nil)
		if len(crumbs) != 3 {
			t.Fatalf("expected 3 crumbs, got %+v", crumbs)
		}
		for i, label := range []string{"Start", "Hinduism", "Advaita Vedanta"} {
			if crumbs[i].Label != label {
				t.Fatalf("crumb %d label = %q, want %q", i, crumbs[i].Label, label)
			}
		}
	})

	t.Run("home only", func(t *testing.T) {
		crumbs := Breadcrumbs("/", "", "", nil)
		if len(crumbs) != 1 || !crumbs[0].Current {
			t.Fatalf("expected a single current crumb, got %+v", crumbs)
		}
	})
}
