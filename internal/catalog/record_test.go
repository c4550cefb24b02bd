package catalog_test

import (
	"testing"

	"techscout/internal/catalog"
)

func TestParseCategory(t *testing.T) {
	if cat, ok := catalog.ParseCategory(" Frontend "); !ok || cat != catalog.CategoryFrontend {
		t.Fatalf("expected frontend, got %q ok=%v", cat, ok)
	}
	if cat, ok := catalog.ParseCategory("middleware"); ok || cat != "" {
		t.Fatalf("expected unknown category to be rejected, got %q ok=%v", cat, ok)
	}
}

func TestParseResourceType(t *testing.T) {
	if got := catalog.ParseResourceType("VIDEO"); got != catalog.ResourceVideo {
		t.Fatalf("expected video, got %q", got)
	}
	if got := catalog.ParseResourceType("podcast"); got != catalog.ResourceDocumentation {
		t.Fatalf("expected fallback to documentation, got %q", got)
	}
}

func TestClampPopularity(t *testing.T) {
	cases := []struct{ in, want int }{
		{-5, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{140, 100},
	}
	for _, tc := range cases {
		if got := catalog.ClampPopularity(tc.in); got != tc.want {
			t.Errorf("ClampPopularity(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestRecordNormalize(t *testing.T) {
	rec := catalog.Record{Name: " Vue.js ", Slug: "stale-slug", Popularity: 250}
	rec.Normalize()
	if rec.Name != "Vue.js" {
		t.Errorf("name not trimmed: %q", rec.Name)
	}
	if rec.Slug != "vuedotjs" {
		t.Errorf("slug not rederived from name: %q", rec.Slug)
	}
	if rec.Popularity != 100 {
		t.Errorf("popularity not clamped: %d", rec.Popularity)
	}
}
