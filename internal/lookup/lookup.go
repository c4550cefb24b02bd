// Package lookup resolves the homepage and source repository for a
// technology via the language model.
package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"techscout/internal/logging"
	"techscout/internal/services/gemini"
)

// TextGenerator is the slice of the model client lookup needs.
type TextGenerator interface {
	GenerateWithSearch(ctx context.Context, prompt string) (string, error)
}

// Info holds the resolved project links for a technology.
type Info struct {
	Homepage string `json:"homepage"`
	Repo     string `json:"repo"`
}

// Resolver answers homepage and repository questions about technologies.
type Resolver struct {
	generator TextGenerator
	logger    *slog.Logger
}

// NewResolver builds a model-backed link resolver.
func NewResolver(generator TextGenerator, logger *slog.Logger) *Resolver {
	return &Resolver{
		generator: generator,
		logger:    logging.NewComponentLogger(logger, "lookup"),
	}
}

const infoPromptTemplate = `Find the official homepage URL and the main source code repository URL for the technology "%s".
Respond with ONLY a JSON object:
{"homepage": "https://...", "repo": "https://..."}
Use an empty string for any URL you cannot determine.`

// Resolve returns the homepage and repository for name. Either field may be
// empty when the model cannot determine it. URLs come back with a scheme;
// bare hosts are corrected to https.
func (r *Resolver) Resolve(ctx context.Context, name string) (Info, error) {
	if r.generator == nil {
		return Info{}, fmt.Errorf("lookup: no text generator configured")
	}
	raw, err := r.generator.GenerateWithSearch(ctx, fmt.Sprintf(infoPromptTemplate, name))
	if err != nil {
		return Info{}, fmt.Errorf("lookup %q: %w", name, err)
	}
	var info Info
	if err := gemini.DecodeModelJSON(raw, &info); err != nil {
		return Info{}, fmt.Errorf("lookup %q: %w", name, err)
	}
	info.Homepage = normalizeURL(info.Homepage)
	info.Repo = normalizeURL(info.Repo)
	r.logger.Debug("links resolved",
		logging.String(logging.FieldTech, name),
		logging.String("homepage", info.Homepage),
		logging.String("repo", info.Repo))
	return info, nil
}

// normalizeURL trims whitespace and adds an https scheme to bare hosts.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}
