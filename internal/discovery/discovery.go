package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"techscout/internal/catalog"
	"techscout/internal/logging"
	"techscout/internal/services/gemini"
)

// TextGenerator is the slice of the model client discovery needs.
type TextGenerator interface {
	GenerateWithSearch(ctx context.Context, prompt string) (string, error)
}

// Source produces candidate technology names.
type Source interface {
	Discover(ctx context.Context) ([]string, error)
}

const trendPromptTemplate = `List the %d most trending software technologies, frameworks, languages, or developer tools right now.
Respond with ONLY a JSON array of technology names, for example:
["React", "Rust", "Kubernetes"]`

// TrendSource asks the model for currently trending technologies and merges
// the answer with the curated base list.
type TrendSource struct {
	generator TextGenerator
	count     int
	extra     []string
	logger    *slog.Logger
}

// NewTrendSource builds the default candidate source. count controls how
// many trending names are requested; extra names from configuration are
// appended after the trend results and before the curated base.
func NewTrendSource(generator TextGenerator, count int, extra []string, logger *slog.Logger) *TrendSource {
	if count <= 0 {
		count = 15
	}
	return &TrendSource{
		generator: generator,
		count:     count,
		extra:     extra,
		logger:    logging.NewComponentLogger(logger, "discovery"),
	}
}

// Discover returns the merged candidate list in priority order: trending
// names first, then configured extras, then the curated base. Duplicate
// names are removed while preserving first occurrence. A trend lookup
// failure is logged and the remaining sources are used alone.
func (s *TrendSource) Discover(ctx context.Context) ([]string, error) {
	var merged []string

	trending, err := s.fetchTrending(ctx)
	if err != nil {
		s.logger.Warn("trend lookup failed, using curated list", logging.Error(err))
	} else {
		s.logger.Info("trend lookup complete", logging.Int("count", len(trending)))
		merged = append(merged, trending...)
	}

	merged = append(merged, s.extra...)
	merged = append(merged, curatedBase...)

	return dedupeNames(merged), nil
}

func (s *TrendSource) fetchTrending(ctx context.Context) ([]string, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("discovery: no text generator configured")
	}
	raw, err := s.generator.GenerateWithSearch(ctx, fmt.Sprintf(trendPromptTemplate, s.count))
	if err != nil {
		return nil, fmt.Errorf("discovery: trend request: %w", err)
	}
	var names []string
	if err := gemini.DecodeModelJSON(raw, &names); err != nil {
		return nil, fmt.Errorf("discovery: trend response: %w", err)
	}
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			cleaned = append(cleaned, name)
		}
	}
	return cleaned, nil
}

// dedupeNames removes duplicates by canonical slug, keeping first occurrence.
func dedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		slug := catalog.Slugify(name)
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, name)
	}
	return out
}

// SelectEligible filters candidates down to the names that still need
// enrichment. Candidates whose slug already exists in the store are
// dropped, duplicates collapse to their first occurrence, and the result
// is capped at limit. Filtering happens before the cap so a run always
// gets up to limit genuinely new technologies.
func SelectEligible(candidates []string, existingSlugs map[string]struct{}, limit int) []string {
	if limit < 1 {
		limit = 1
	}
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, limit)
	for _, name := range candidates {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		slug := catalog.Slugify(name)
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		if _, ok := existingSlugs[slug]; ok {
			continue
		}
		out = append(out, name)
		if len(out) == limit {
			break
		}
	}
	return out
}
