package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGemini()
	c.normalizeRemote()
	c.normalizeDiscovery()
	c.normalizeFetch()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SnapshotPath) == "" {
		c.Paths.SnapshotPath = defaultSnapshotPath
	}
	if c.Paths.SnapshotPath, err = expandPath(c.Paths.SnapshotPath); err != nil {
		return fmt.Errorf("paths.snapshot_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeGemini() {
	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	if c.Gemini.APIKey == "" {
		if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			c.Gemini.APIKey = strings.TrimSpace(value)
		}
	}
	c.Gemini.BaseURL = strings.TrimRight(strings.TrimSpace(c.Gemini.BaseURL), "/")
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = defaultGeminiBaseURL
	}
	c.Gemini.Model = strings.TrimSpace(c.Gemini.Model)
	if c.Gemini.Model == "" {
		c.Gemini.Model = defaultGeminiModel
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		c.Gemini.TimeoutSeconds = defaultGeminiTimeout
	}
}

func (c *Config) normalizeRemote() {
	c.Remote.DSN = strings.TrimSpace(c.Remote.DSN)
	if c.Remote.DSN == "" {
		if value, ok := os.LookupEnv("TECHSCOUT_REMOTE_DSN"); ok {
			c.Remote.DSN = strings.TrimSpace(value)
		}
	}
	c.Remote.Table = strings.TrimSpace(c.Remote.Table)
	if c.Remote.Table == "" {
		c.Remote.Table = defaultRemoteTable
	}
	c.Remote.UpsertFunction = strings.TrimSpace(c.Remote.UpsertFunction)
	if c.Remote.UpsertFunction == "" {
		c.Remote.UpsertFunction = defaultRemoteFunction
	}
	if c.Remote.TimeoutSeconds <= 0 {
		c.Remote.TimeoutSeconds = defaultRemoteTimeout
	}
}

func (c *Config) normalizeDiscovery() {
	if c.Discovery.TrendCount <= 0 {
		c.Discovery.TrendCount = defaultTrendCount
	}
	extras := make([]string, 0, len(c.Discovery.ExtraTechnologies))
	seen := make(map[string]struct{}, len(c.Discovery.ExtraTechnologies))
	for _, name := range c.Discovery.ExtraTechnologies {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		extras = append(extras, trimmed)
	}
	c.Discovery.ExtraTechnologies = extras
}

func (c *Config) normalizeFetch() {
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = defaultFetchTimeout
	}
	if c.Fetch.MaxContentChars <= 0 {
		c.Fetch.MaxContentChars = defaultMaxContentChars
	}
	if c.Logos.HeadTimeoutSeconds <= 0 {
		c.Logos.HeadTimeoutSeconds = defaultLogoHeadTimeout
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.MaxConcurrent <= 0 {
		c.Workflow.MaxConcurrent = defaultMaxConcurrent
	}
	if !c.Workflow.LimitedMode {
		if value, ok := os.LookupEnv("LIMITED_MODE"); ok {
			c.Workflow.LimitedMode = strings.EqualFold(strings.TrimSpace(value), "true")
		}
	}
	if c.Workflow.MaxTechs <= 0 {
		if value, ok := os.LookupEnv("TECHSCOUT_MAX_TECHS"); ok {
			if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				c.Workflow.MaxTechs = parsed
			}
		}
	}
	if c.Workflow.MaxTechs < 0 {
		c.Workflow.MaxTechs = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
