// Package config loads, normalizes, and validates the techscout TOML
// configuration. Secrets can be supplied via environment variables so the
// config file on disk never needs to hold credentials.
package config
