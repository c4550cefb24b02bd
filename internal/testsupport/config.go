// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"techscout/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = base
	cfg.Paths.SnapshotPath = filepath.Join(base, "stacks.json")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Gemini.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithGeminiKey sets the Gemini API key on the test config.
func WithGeminiKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Gemini.APIKey = key
	}
}

// WithRemoteDSN enables the remote store on the test config.
func WithRemoteDSN(dsn string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Remote.DSN = dsn
	}
}
