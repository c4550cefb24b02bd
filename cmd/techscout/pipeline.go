package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"techscout/internal/config"
	"techscout/internal/discovery"
	"techscout/internal/enrich"
	"techscout/internal/logging"
	"techscout/internal/logos"
	"techscout/internal/lookup"
	"techscout/internal/remotestore"
	"techscout/internal/runner"
	"techscout/internal/scoring"
	"techscout/internal/services/gemini"
	"techscout/internal/snapshot"
	"techscout/internal/webfetch"
)

// pipeline bundles the collaborators both run and check assemble from
// configuration.
type pipeline struct {
	client   *gemini.Client
	source   *discovery.TrendSource
	snapshot *snapshot.Store
	remote   *remotestore.Store
	logger   *slog.Logger
}

func buildPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	client := gemini.NewClient(gemini.Config{
		APIKey:         cfg.Gemini.APIKey,
		BaseURL:        cfg.Gemini.BaseURL,
		Model:          cfg.Gemini.Model,
		TimeoutSeconds: cfg.Gemini.TimeoutSeconds,
	})

	store, err := snapshot.NewStore(cfg.Paths.SnapshotPath, logger)
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		client:   client,
		source:   discovery.NewTrendSource(client, cfg.Discovery.TrendCount, cfg.Discovery.ExtraTechnologies, logger),
		snapshot: store,
		logger:   logger,
	}

	if cfg.RemoteEnabled() {
		remote, err := remotestore.Connect(ctx, remotestore.Config{
			DSN:            cfg.Remote.DSN,
			Table:          cfg.Remote.Table,
			UpsertFunction: cfg.Remote.UpsertFunction,
			TimeoutSeconds: cfg.Remote.TimeoutSeconds,
		}, logger)
		if err != nil {
			logger.Warn("remote store unavailable, continuing with local snapshot only",
				logging.Error(err))
		} else {
			p.remote = remote
		}
	}
	return p, nil
}

func (p *pipeline) close() {
	if p.remote != nil {
		p.remote.Close()
	}
}

// existingSlugs unions the slugs known locally and remotely. Remote read
// failures degrade to the local set.
func (p *pipeline) existingSlugs(ctx context.Context) (map[string]struct{}, error) {
	slugs, err := p.snapshot.Slugs()
	if err != nil {
		return nil, fmt.Errorf("read snapshot slugs: %w", err)
	}
	if p.remote != nil {
		remoteSlugs, err := p.remote.ExistingSlugs(ctx)
		if err != nil {
			p.logger.Warn("remote slug listing failed, using local snapshot only",
				logging.Error(err))
		} else {
			for slug := range remoteSlugs {
				slugs[slug] = struct{}{}
			}
		}
	}
	return slugs, nil
}

// selectCandidates runs discovery and the eligibility filter. A limit of
// zero means every eligible candidate is kept.
func (p *pipeline) selectCandidates(ctx context.Context, limit int) ([]string, error) {
	candidates, err := p.source.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover candidates: %w", err)
	}
	existing, err := p.existingSlugs(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = len(candidates)
	}
	if limit == 0 {
		return nil, nil
	}
	return discovery.SelectEligible(candidates, existing, limit), nil
}

func (p *pipeline) newRunner(cfg *config.Config) *runner.Runner {
	enricher := enrich.NewEnricher(
		lookup.NewResolver(p.client, p.logger),
		webfetch.NewFetcher(p.logger,
			webfetch.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second}),
			webfetch.WithMaxChars(cfg.Fetch.MaxContentChars)),
		scoring.NewScorer(p.client, p.logger),
		p.client,
		logos.NewResolver(p.client, p.logger,
			logos.WithHeadTimeout(time.Duration(cfg.Logos.HeadTimeoutSeconds)*time.Second)),
		p.logger,
	)

	var remote runner.RemoteStore
	if p.remote != nil {
		remote = p.remote
	}
	return runner.New(enricher, p.snapshot, remote, cfg.Workflow.MaxConcurrent, p.logger)
}
