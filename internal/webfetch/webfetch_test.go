package webfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"techscout/internal/logging"
)

func newTestFetcher(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Fetcher, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	opts = append([]Option{WithHTTPClient(server.Client())}, opts...)
	return NewFetcher(logging.NewNop(), opts...), server
}

func TestFetchConvertsHTML(t *testing.T) {
	fetcher, server := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><h1>Svelte</h1><p>Cybernetically <strong>enhanced</strong> web apps.</p></body></html>"))
	})

	got, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(got, "# Svelte") {
		t.Fatalf("expected markdown heading, got %q", got)
	}
	if !strings.Contains(got, "**enhanced**") {
		t.Fatalf("expected markdown emphasis, got %q", got)
	}
}

func TestFetchTruncatesLongPages(t *testing.T) {
	long := strings.Repeat("a", 25000)
	fetcher, server := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<p>" + long + "</p>"))
	}, WithMaxChars(20000))

	got, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Fatalf("expected truncation marker at end, got tail %q", got[len(got)-40:])
	}
	if len([]rune(got)) != 20000+len([]rune(TruncationMarker)) {
		t.Fatalf("unexpected truncated length %d", len([]rune(got)))
	}
}

func TestFetchErrorStatus(t *testing.T) {
	fetcher, server := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	if _, err := fetcher.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestFetchRequiresURL(t *testing.T) {
	fetcher := NewFetcher(logging.NewNop())
	if _, err := fetcher.Fetch(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"svelte.dev", "https://svelte.dev"},
		{"https://svelte.dev", "https://svelte.dev"},
		{"http://svelte.dev", "http://svelte.dev"},
		{"  react.dev  ", "https://react.dev"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateShortInputUnchanged(t *testing.T) {
	got, truncated := Truncate("short", 100)
	if truncated || got != "short" {
		t.Fatalf("Truncate = %q, %v", got, truncated)
	}
}
