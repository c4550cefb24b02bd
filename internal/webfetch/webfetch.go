// Package webfetch downloads a technology's homepage and reduces it to
// markdown suitable for prompting.
package webfetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"techscout/internal/logging"
	"techscout/internal/services"
)

const (
	// DefaultMaxChars caps the markdown handed to the model.
	DefaultMaxChars = 20000

	// TruncationMarker is appended when page content exceeds the cap.
	TruncationMarker = "...(truncated)"

	defaultTimeout = 30 * time.Second

	// Generous raw-body ceiling; markdown conversion shrinks it further.
	maxBodyBytes = 4 << 20

	userAgent = "techscout/1.0"
)

// Fetcher downloads pages and converts them to bounded markdown.
type Fetcher struct {
	httpClient  *http.Client
	mdConverter *converter.Converter
	maxChars    int
	logger      *slog.Logger
}

// Option customizes the fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithMaxChars overrides the markdown length cap.
func WithMaxChars(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxChars = n
		}
	}
}

// NewFetcher builds a page fetcher.
func NewFetcher(logger *slog.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{Timeout: defaultTimeout},
		mdConverter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		maxChars: DefaultMaxChars,
		logger:   logging.NewComponentLogger(logger, "webfetch"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads rawURL and returns its content as markdown, truncated to
// the configured cap. Bare hosts get an https scheme before the request.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	target := NormalizeURL(rawURL)
	if target == "" {
		return "", fmt.Errorf("webfetch: url required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("webfetch: new request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "webfetch", "fetch", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", services.Wrap(services.ErrExternalService, "webfetch", "fetch",
			fmt.Sprintf("%s: http %d", target, resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "webfetch", "fetch", "read body", err)
	}

	bounded, truncated := Truncate(f.toMarkdown(string(body), target), f.maxChars)
	f.logger.Debug("page fetched",
		logging.String("url", target),
		logging.Int("chars", len(bounded)),
		logging.Bool("truncated", truncated))
	return bounded, nil
}

func (f *Fetcher) toMarkdown(html, sourceURL string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	result, err := f.mdConverter.ConvertString(html, converter.WithDomain(sourceURL))
	if err != nil || strings.TrimSpace(result) == "" {
		// A page the converter cannot handle still has prompt value raw.
		return strings.TrimSpace(html)
	}
	return strings.TrimSpace(result)
}

// NormalizeURL trims whitespace and prefixes bare hosts with https.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// Truncate caps s at maxChars runes, appending the truncation marker when
// content was dropped. The second return reports whether truncation happened.
func Truncate(s string, maxChars int) (string, bool) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s, false
	}
	return string(runes[:maxChars]) + TruncationMarker, true
}
