package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. A missing Gemini API key is
// not rejected here: discovery can fall back to the static list and the CLI
// decides per command whether the key is mandatory.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateRemote(); err != nil {
		return err
	}
	return nil
}

// RequireGemini reports a configuration error when the generation
// collaborator credential is missing. Enrichment cannot produce any record
// without it.
func (c *Config) RequireGemini() error {
	if strings.TrimSpace(c.Gemini.APIKey) != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/techscout/config.toml"
	}
	return fmt.Errorf("gemini.api_key is required. Set GEMINI_API_KEY env var or edit %s (create with 'techscout config init')", defaultPath)
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.SnapshotPath) == "" {
		return errors.New("paths.snapshot_path must be set")
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.MaxConcurrent < 1 {
		return errors.New("workflow.max_concurrent must be at least 1")
	}
	if c.Workflow.MaxConcurrent > 32 {
		return errors.New("workflow.max_concurrent above 32 would overwhelm rate-limited collaborators")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.MaxContentChars < 1000 {
		return errors.New("fetch.max_content_chars must be at least 1000")
	}
	return nil
}

func (c *Config) validateRemote() error {
	if c.Remote.DSN == "" {
		return nil
	}
	if !strings.HasPrefix(c.Remote.DSN, "postgres://") && !strings.HasPrefix(c.Remote.DSN, "postgresql://") && !strings.Contains(c.Remote.DSN, "=") {
		return errors.New("remote.dsn must be a postgres URL or key/value DSN")
	}
	return nil
}
