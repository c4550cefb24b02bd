// Package scoring estimates a 0-100 popularity score for a technology.
//
// The score comes from the language model with a fixed rubric. The response
// is parsed leniently: the first run of digits in the reply is taken as the
// score and clamped into range, since models sometimes answer "around 85"
// instead of a bare number. Callers substitute a neutral default of 50 when
// scoring fails entirely.
package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"techscout/internal/catalog"
	"techscout/internal/logging"
)

// DefaultScore is the neutral popularity used when scoring fails.
const DefaultScore = 50

// TextGenerator is the slice of the model client scoring needs.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Scorer asks the model to rate how widely adopted a technology is.
type Scorer struct {
	generator TextGenerator
	logger    *slog.Logger
}

// NewScorer builds a model-backed popularity scorer.
func NewScorer(generator TextGenerator, logger *slog.Logger) *Scorer {
	return &Scorer{
		generator: generator,
		logger:    logging.NewComponentLogger(logger, "scoring"),
	}
}

const scorePromptTemplate = `Rate the current popularity of the technology "%s" among software developers on a scale of 0 to 100, where:
- 90-100: dominant, used by most teams in its category
- 70-89: mainstream, very widely adopted
- 40-69: established with a solid community
- 10-39: niche or emerging
- 0-9: obscure or abandoned
Respond with ONLY the number.`

var digitsPattern = regexp.MustCompile(`\d+`)

// Score returns the popularity for name, clamped to [0, 100].
func (s *Scorer) Score(ctx context.Context, name string) (int, error) {
	if s.generator == nil {
		return 0, fmt.Errorf("scoring: no text generator configured")
	}
	raw, err := s.generator.Generate(ctx, fmt.Sprintf(scorePromptTemplate, name))
	if err != nil {
		return 0, fmt.Errorf("scoring %q: %w", name, err)
	}
	score, err := parseScore(raw)
	if err != nil {
		return 0, fmt.Errorf("scoring %q: %w", name, err)
	}
	s.logger.Debug("popularity scored",
		logging.String(logging.FieldTech, name),
		logging.Int("popularity", score))
	return score, nil
}

// parseScore extracts the first number in the reply and clamps it.
func parseScore(raw string) (int, error) {
	match := digitsPattern.FindString(raw)
	if match == "" {
		return 0, fmt.Errorf("no number in response %q", raw)
	}
	value, err := strconv.Atoi(match)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", match, err)
	}
	return catalog.ClampPopularity(value), nil
}
