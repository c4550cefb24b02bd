// Package logos resolves a logo image URL for a technology.
//
// Resolution walks a chain of sources in order of reliability: the devicon
// CDN, the Simple Icons CDN, then a model lookup as last resort. CDN
// candidates are verified with a cheap HEAD request before being accepted;
// the model answer is accepted only when it looks like an SVG URL. A
// technology with no resolvable logo gets an empty URL, never an error.
package logos

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"techscout/internal/logging"
)

const (
	deviconURLTemplate    = "https://cdn.jsdelivr.net/gh/devicons/devicon/icons/%s/%s-original.svg"
	simpleIconsURLPattern = "https://cdn.simpleicons.org/%s"

	defaultHeadTimeout = 5 * time.Second
)

// TextGenerator is the slice of the model client the fallback needs.
type TextGenerator interface {
	GenerateWithSearch(ctx context.Context, prompt string) (string, error)
}

// Resolver finds logo URLs.
type Resolver struct {
	httpClient *http.Client
	generator  TextGenerator
	logger     *slog.Logger
}

// Option customizes the resolver.
type Option func(*Resolver)

// WithHTTPClient overrides the HTTP client used for HEAD checks.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		if client != nil {
			r.httpClient = client
		}
	}
}

// WithHeadTimeout sets the reachability check timeout.
func WithHeadTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.httpClient.Timeout = d
		}
	}
}

// NewResolver builds a logo resolver. generator may be nil, which disables
// the model fallback.
func NewResolver(generator TextGenerator, logger *slog.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		httpClient: &http.Client{Timeout: defaultHeadTimeout},
		generator:  generator,
		logger:     logging.NewComponentLogger(logger, "logos"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

const logoPromptTemplate = `Find a direct URL to an official SVG logo for the technology "%s".
Respond with ONLY the URL, nothing else. The URL must start with http and end with .svg.
If you cannot find one, respond with the single word NONE.`

// Resolve returns a logo URL for the technology, or an empty string when no
// source yields one. slug is the canonical identifier used to build CDN
// candidate URLs; name is the display name used in the model prompt.
func (r *Resolver) Resolve(ctx context.Context, name, slug string) string {
	for _, candidate := range []string{
		fmt.Sprintf(deviconURLTemplate, slug, slug),
		fmt.Sprintf(simpleIconsURLPattern, slug),
	} {
		if r.reachable(ctx, candidate) {
			r.logger.Debug("logo resolved from cdn",
				logging.String(logging.FieldSlug, slug),
				logging.String("logo_url", candidate))
			return candidate
		}
	}

	if url := r.fromModel(ctx, name); url != "" {
		r.logger.Debug("logo resolved from model",
			logging.String(logging.FieldSlug, slug),
			logging.String("logo_url", url))
		return url
	}

	r.logger.Debug("no logo found", logging.String(logging.FieldSlug, slug))
	return ""
}

func (r *Resolver) reachable(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (r *Resolver) fromModel(ctx context.Context, name string) string {
	if r.generator == nil {
		return ""
	}
	raw, err := r.generator.GenerateWithSearch(ctx, fmt.Sprintf(logoPromptTemplate, name))
	if err != nil {
		r.logger.Debug("model logo lookup failed",
			logging.String(logging.FieldTech, name),
			logging.Error(err))
		return ""
	}
	url := strings.TrimSpace(raw)
	if !strings.HasPrefix(url, "http") || !strings.HasSuffix(url, ".svg") {
		return ""
	}
	return url
}
