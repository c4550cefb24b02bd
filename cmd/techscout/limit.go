package main

import "techscout/internal/config"

// resolveLimit decides how many technologies a run may process. Precedence:
// the --max-techs flag, then the workflow.max_techs setting (which absorbs
// the TECHSCOUT_MAX_TECHS env var during config load), then the limited-mode
// default. Zero means unlimited; explicit values below one clamp to one.
func resolveLimit(flagValue int, flagSet bool, cfg *config.Config) int {
	if flagSet {
		if flagValue < 1 {
			return 1
		}
		return flagValue
	}
	if cfg.Workflow.MaxTechs > 0 {
		return cfg.Workflow.MaxTechs
	}
	if cfg.Workflow.LimitedMode {
		return config.LimitedModeDefault
	}
	return 0
}
