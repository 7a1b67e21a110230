package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSources()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.DatabaseDir) == "" {
		c.Paths.DatabaseDir = defaultDatabaseDir
	}
	var err error
	if c.Paths.DatabaseDir, err = expandPath(strings.TrimSpace(c.Paths.DatabaseDir)); err != nil {
		return fmt.Errorf("paths.database_dir: %w", err)
	}
	c.Paths.BoxscoresFile = orDefault(c.Paths.BoxscoresFile, defaultBoxscoresFile)
	c.Paths.PlayerCacheFile = orDefault(c.Paths.PlayerCacheFile, defaultPlayerCacheFile)
	c.Paths.InjuriesFile = orDefault(c.Paths.InjuriesFile, defaultInjuriesFile)
	return nil
}

func (c *Config) normalizeSources() {
	c.Sources.StatsURL = strings.TrimSpace(c.Sources.StatsURL)
	c.Sources.RosterURL = strings.TrimSpace(c.Sources.RosterURL)
	c.Sources.AllPlayersURL = strings.TrimSpace(c.Sources.AllPlayersURL)
	c.Sources.InjuryURL = strings.TrimSpace(c.Sources.InjuryURL)
	c.Sources.LeagueID = orDefault(c.Sources.LeagueID, defaultLeagueID)
	c.Sources.UserAgent = orDefault(c.Sources.UserAgent, defaultUserAgent)
	c.Sources.Renderer = strings.ToLower(orDefault(c.Sources.Renderer, defaultRenderer))

	types := make([]string, 0, len(c.Sources.SeasonTypes))
	for _, st := range c.Sources.SeasonTypes {
		if st = strings.TrimSpace(st); st != "" {
			types = append(types, st)
		}
	}
	c.Sources.SeasonTypes = types
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(orDefault(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(orDefault(c.Logging.Level, defaultLogLevel))
	c.Publisher.Stream = orDefault(c.Publisher.Stream, defaultPublisherStream)
	c.Publisher.RedisURL = strings.TrimSpace(c.Publisher.RedisURL)
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
