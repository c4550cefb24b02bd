package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"techscout/internal/catalog"
	"techscout/internal/logging"
	"techscout/internal/lookup"
	"techscout/internal/scoring"
	"techscout/internal/services"
	"techscout/internal/services/gemini"
)

// InfoResolver resolves homepage and repository links.
type InfoResolver interface {
	Resolve(ctx context.Context, name string) (lookup.Info, error)
}

// ContentFetcher downloads a page as bounded markdown.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// PopularityScorer rates adoption on a 0-100 scale.
type PopularityScorer interface {
	Score(ctx context.Context, name string) (int, error)
}

// TextGenerator produces the enhancement payload.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LogoResolver finds a logo URL, empty when none exists.
type LogoResolver interface {
	Resolve(ctx context.Context, name, slug string) string
}

// Enricher drives the per-technology pipeline.
type Enricher struct {
	infos     InfoResolver
	fetcher   ContentFetcher
	scorer    PopularityScorer
	generator TextGenerator
	logos     LogoResolver
	retry     services.RetryPolicy
	logger    *slog.Logger
	now       func() time.Time
}

// Option customizes the enricher.
type Option func(*Enricher)

// WithRetryPolicy overrides the enhancement retry policy.
func WithRetryPolicy(policy services.RetryPolicy) Option {
	return func(e *Enricher) {
		e.retry = policy
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Enricher) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEnricher wires the pipeline's collaborators together.
func NewEnricher(infos InfoResolver, fetcher ContentFetcher, scorer PopularityScorer, generator TextGenerator, logos LogoResolver, logger *slog.Logger, opts ...Option) *Enricher {
	e := &Enricher{
		infos:     infos,
		fetcher:   fetcher,
		scorer:    scorer,
		generator: generator,
		logos:     logos,
		retry:     services.RetryPolicy{},
		logger:    logging.NewComponentLogger(logger, "enrich"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process enriches one technology name into a complete record. The stages
// run in a fixed order; only the enhancement stage can fail the item.
func (e *Enricher) Process(ctx context.Context, name string) (*catalog.Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "enrich", "process", "name required", nil)
	}
	slug := catalog.Slugify(name)
	ctx = services.WithTech(ctx, name)
	logger := logging.WithContext(ctx, e.logger)

	info := e.resolveInfo(ctx, logger, name)
	pageContent := e.fetchContent(ctx, logger, info.Homepage)
	popularity := e.scorePopularity(ctx, logger, name)

	payload, err := e.enhance(ctx, name, info, pageContent)
	if err != nil {
		return nil, fmt.Errorf("enrich %q: %w", name, err)
	}

	record := &catalog.Record{
		Name:       name,
		Slug:       slug,
		Popularity: popularity,
		Homepage:   info.Homepage,
		Repo:       info.Repo,
		UpdatedAt:  e.now().UTC(),
	}
	payload.apply(record)
	record.LogoURL = e.resolveLogo(ctx, name, slug, payload.LogoURL)
	record.Normalize()

	logger.Info("technology enriched",
		logging.String(logging.FieldSlug, record.Slug),
		logging.String("category", string(record.Category)),
		logging.Int("popularity", record.Popularity))
	return record, nil
}

func (e *Enricher) resolveInfo(ctx context.Context, logger *slog.Logger, name string) lookup.Info {
	if e.infos == nil {
		return lookup.Info{}
	}
	info, err := e.infos.Resolve(services.WithStage(ctx, "info"), name)
	if err != nil {
		logger.Warn("link resolution failed, continuing without links", logging.Error(err))
		return lookup.Info{}
	}
	return info
}

func (e *Enricher) fetchContent(ctx context.Context, logger *slog.Logger, homepage string) string {
	if e.fetcher == nil || homepage == "" {
		return ""
	}
	content, err := e.fetcher.Fetch(services.WithStage(ctx, "fetch"), homepage)
	if err != nil {
		logger.Warn("homepage fetch failed, continuing without content", logging.Error(err))
		return ""
	}
	return content
}

func (e *Enricher) scorePopularity(ctx context.Context, logger *slog.Logger, name string) int {
	if e.scorer == nil {
		return scoring.DefaultScore
	}
	score, err := e.scorer.Score(services.WithStage(ctx, "score"), name)
	if err != nil {
		logger.Warn("popularity scoring failed, using default",
			logging.Int("default", scoring.DefaultScore),
			logging.Error(err))
		return scoring.DefaultScore
	}
	return score
}

func (e *Enricher) enhance(ctx context.Context, name string, info lookup.Info, pageContent string) (*enhancement, error) {
	if e.generator == nil {
		return nil, services.Wrap(services.ErrConfiguration, "enrich", "enhance", "no text generator configured", nil)
	}
	ctx = services.WithStage(ctx, "enhance")
	prompt := buildEnhancementPrompt(name, info, pageContent)

	var payload enhancement
	err := services.Retry(ctx, e.retry, func(ctx context.Context) error {
		raw, err := e.generator.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		payload = enhancement{}
		if err := gemini.DecodeModelJSON(raw, &payload); err != nil {
			return err
		}
		return payload.validate()
	})
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

func (e *Enricher) resolveLogo(ctx context.Context, name, slug, suggested string) string {
	if e.logos != nil {
		if url := e.logos.Resolve(services.WithStage(ctx, "logo"), name, slug); url != "" {
			return url
		}
	}
	// Last resort: the enhancement payload's own suggestion, held to the
	// same shape requirement as the model fallback.
	suggested = strings.TrimSpace(suggested)
	if strings.HasPrefix(suggested, "http") && strings.HasSuffix(suggested, ".svg") {
		return suggested
	}
	return ""
}
