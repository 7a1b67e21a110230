package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateResolver(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSources() error {
	for name, raw := range map[string]string{
		"sources.stats_url":       c.Sources.StatsURL,
		"sources.roster_url":      c.Sources.RosterURL,
		"sources.all_players_url": c.Sources.AllPlayersURL,
		"sources.injury_url":      c.Sources.InjuryURL,
	} {
		if raw == "" {
			return fmt.Errorf("%s must be set", name)
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if c.Sources.Season < 0 {
		return errors.New("sources.season must be zero (current year) or a positive year")
	}
	if len(c.Sources.SeasonTypes) == 0 {
		return errors.New("sources.season_types must list at least one segment")
	}
	switch c.Sources.Renderer {
	case RendererHTTP, RendererBrowser:
	default:
		return fmt.Errorf("sources.renderer must be %q or %q, got %q", RendererHTTP, RendererBrowser, c.Sources.Renderer)
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.TimeoutSeconds <= 0 {
		return errors.New("fetch.timeout_seconds must be positive")
	}
	if c.Fetch.MaxRetries < 1 {
		return errors.New("fetch.max_retries must be at least 1")
	}
	if c.Fetch.BackoffSeconds < 0 {
		return errors.New("fetch.backoff_seconds must not be negative")
	}
	if c.Fetch.PolitenessDelaySeconds < 0 {
		return errors.New("fetch.politeness_delay_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateResolver() error {
	for name, v := range map[string]int{
		"resolver.roster":   c.Resolver.RosterThreshold,
		"resolver.all_time": c.Resolver.AllTimeThreshold,
		"resolver.injury":   c.Resolver.InjuryThreshold,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s must be between 0 and 100", name)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
}
