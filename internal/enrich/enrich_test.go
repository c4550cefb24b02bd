package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"techscout/internal/catalog"
	"techscout/internal/logging"
	"techscout/internal/lookup"
	"techscout/internal/services"
)

type stubInfos struct {
	info lookup.Info
	err  error
}

func (s *stubInfos) Resolve(ctx context.Context, name string) (lookup.Info, error) {
	return s.info, s.err
}

type stubFetcher struct {
	content string
	err     error
	gotURL  string
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) (string, error) {
	s.gotURL = url
	return s.content, s.err
}

type stubScorer struct {
	score int
	err   error
}

func (s *stubScorer) Score(ctx context.Context, name string) (int, error) {
	return s.score, s.err
}

type stubGenerator struct {
	responses []string
	errs      []error
	calls     int
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	i := s.calls
	s.calls++
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	var resp string
	if i < len(s.responses) {
		resp = s.responses[i]
	}
	return resp, err
}

type stubLogos struct {
	url string
}

func (s *stubLogos) Resolve(ctx context.Context, name, slug string) string {
	return s.url
}

const validEnhancement = `{
	"description": "A component framework that compiles away.",
	"category": "frontend",
	"ai_explanation": "Svelte turns components into plain JavaScript at build time.",
	"project_suitability": ["interactive web apps", "dashboards"],
	"learning_difficulty": {"label": "Beginner", "stars": [true, true, false, false, false], "description": "Gentle learning curve."},
	"logo_url": "",
	"learning_resources": [{"url": "https://learn.svelte.dev", "type": "tutorial", "title": "Svelte Tutorial"}]
}`

func fixedClock() time.Time {
	return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
}

func newTestEnricher(infos InfoResolver, fetcher ContentFetcher, scorer PopularityScorer, generator TextGenerator, logos LogoResolver) *Enricher {
	return NewEnricher(infos, fetcher, scorer, generator, logos, logging.NewNop(),
		WithClock(fixedClock),
		WithRetryPolicy(services.RetryPolicy{Sleeper: func(time.Duration) {}}),
	)
}

func TestProcessAssemblesRecord(t *testing.T) {
	fetcher := &stubFetcher{content: "# Svelte\nCompile-time framework."}
	enricher := newTestEnricher(
		&stubInfos{info: lookup.Info{Homepage: "https://svelte.dev", Repo: "https://github.com/sveltejs/svelte"}},
		fetcher,
		&stubScorer{score: 82},
		&stubGenerator{responses: []string{validEnhancement}},
		&stubLogos{url: "https://cdn.simpleicons.org/svelte"},
	)

	record, err := enricher.Process(context.Background(), " Svelte ")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if record.Name != "Svelte" || record.Slug != "svelte" {
		t.Fatalf("identity = %q/%q", record.Name, record.Slug)
	}
	if record.Category != catalog.CategoryFrontend {
		t.Fatalf("category = %q", record.Category)
	}
	if record.Popularity != 82 {
		t.Fatalf("popularity = %d", record.Popularity)
	}
	if record.Homepage != "https://svelte.dev" {
		t.Fatalf("homepage = %q", record.Homepage)
	}
	if record.LogoURL != "https://cdn.simpleicons.org/svelte" {
		t.Fatalf("logo = %q", record.LogoURL)
	}
	if fetcher.gotURL != "https://svelte.dev" {
		t.Fatalf("fetched %q", fetcher.gotURL)
	}
	if len(record.LearningResources) != 1 || record.LearningResources[0].Type != catalog.ResourceTutorial {
		t.Fatalf("resources = %+v", record.LearningResources)
	}
	if !record.UpdatedAt.Equal(fixedClock()) {
		t.Fatalf("updated_at = %v", record.UpdatedAt)
	}
}

func TestProcessScoringFailureUsesDefault(t *testing.T) {
	enricher := newTestEnricher(
		&stubInfos{},
		&stubFetcher{},
		&stubScorer{err: errors.New("offline")},
		&stubGenerator{responses: []string{validEnhancement}},
		&stubLogos{},
	)

	record, err := enricher.Process(context.Background(), "Svelte")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if record.Popularity != 50 {
		t.Fatalf("popularity = %d, want default 50", record.Popularity)
	}
}

func TestProcessLinkFailureNonFatal(t *testing.T) {
	fetcher := &stubFetcher{}
	enricher := newTestEnricher(
		&stubInfos{err: errors.New("offline")},
		fetcher,
		&stubScorer{score: 70},
		&stubGenerator{responses: []string{validEnhancement}},
		&stubLogos{},
	)

	record, err := enricher.Process(context.Background(), "Svelte")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if record.Homepage != "" || record.Repo != "" {
		t.Fatalf("links should be empty, got %q/%q", record.Homepage, record.Repo)
	}
	if fetcher.gotURL != "" {
		t.Fatal("fetch should be skipped without a homepage")
	}
}

func TestProcessEnhancementFailureIsFatal(t *testing.T) {
	enricher := newTestEnricher(
		&stubInfos{},
		&stubFetcher{},
		&stubScorer{score: 70},
		&stubGenerator{responses: []string{`{"category": "frontend"}`}},
		&stubLogos{},
	)

	if _, err := enricher.Process(context.Background(), "Svelte"); err == nil {
		t.Fatal("expected failure when enhancement lacks a description")
	}
}

func TestProcessEnhancementRetriesRateLimit(t *testing.T) {
	rateLimited := services.Wrap(services.ErrRateLimited, "gemini", "generate", "quota", nil)
	gen := &stubGenerator{
		errs:      []error{rateLimited, nil},
		responses: []string{"", validEnhancement},
	}
	enricher := newTestEnricher(&stubInfos{}, &stubFetcher{}, &stubScorer{score: 70}, gen, &stubLogos{})

	record, err := enricher.Process(context.Background(), "Svelte")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if gen.calls != 2 {
		t.Fatalf("generator called %d times, want 2", gen.calls)
	}
	if record.Description == "" {
		t.Fatal("expected description from retried enhancement")
	}
}

func TestProcessLogoSuggestionFallback(t *testing.T) {
	withLogo := strings.Replace(validEnhancement,
		`"logo_url": ""`,
		`"logo_url": "https://svelte.dev/logo.svg"`, 1)
	enricher := newTestEnricher(
		&stubInfos{},
		&stubFetcher{},
		&stubScorer{score: 70},
		&stubGenerator{responses: []string{withLogo}},
		&stubLogos{url: ""},
	)

	record, err := enricher.Process(context.Background(), "Svelte")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if record.LogoURL != "https://svelte.dev/logo.svg" {
		t.Fatalf("logo = %q", record.LogoURL)
	}
}

func TestProcessRejectsEmptyName(t *testing.T) {
	enricher := newTestEnricher(&stubInfos{}, &stubFetcher{}, &stubScorer{}, &stubGenerator{}, &stubLogos{})
	if _, err := enricher.Process(context.Background(), "   "); err == nil {
		t.Fatal("expected validation error")
	}
}
