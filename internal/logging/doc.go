// Package logging configures slog output for techscout: a human-oriented
// key=value console handler for interactive use and a JSON handler for
// machine consumption, plus helpers that derive standard fields from the
// pipeline context.
package logging
