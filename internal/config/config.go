package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths locates the canonical store on disk. File names are joined onto
// DatabaseDir unless they are absolute.
type Paths struct {
	DatabaseDir     string `toml:"database_dir"`
	BoxscoresFile   string `toml:"boxscores_file"`
	PlayerCacheFile string `toml:"player_cache_file"`
	InjuriesFile    string `toml:"injuries_file"`
}

// Sources names the upstream feeds and pages.
type Sources struct {
	StatsURL     string `toml:"stats_url"`
	StatsOrigin  string `toml:"stats_origin"`
	StatsReferer string `toml:"stats_referer"`
	LeagueID     string `toml:"league_id"`
	// Season is the season year to refresh. Zero means the current calendar year.
	Season        int      `toml:"season"`
	SeasonTypes   []string `toml:"season_types"`
	RosterURL     string   `toml:"roster_url"`
	AllPlayersURL string   `toml:"all_players_url"`
	InjuryURL     string   `toml:"injury_url"`
	UserAgent     string   `toml:"user_agent"`
	Renderer      string   `toml:"renderer"`
}

// Fetch controls timeouts, retries and request pacing.
type Fetch struct {
	TimeoutSeconds         int `toml:"timeout_seconds"`
	MaxRetries             int `toml:"max_retries"`
	BackoffSeconds         int `toml:"backoff_seconds"`
	PolitenessDelaySeconds int `toml:"politeness_delay_seconds"`
}

// Resolver holds the fuzzy-match acceptance thresholds (0-100) per source.
type Resolver struct {
	RosterThreshold  int `toml:"roster"`
	AllTimeThreshold int `toml:"all_time"`
	InjuryThreshold  int `toml:"injury"`
}

// Profiles configures the player profile job.
type Profiles struct {
	EnrichPositions bool `toml:"enrich_positions"`
}

// Publisher configures run announcements. An empty RedisURL disables them.
type Publisher struct {
	RedisURL string `toml:"redis_url"`
	Stream   string `toml:"stream"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for hoopsync.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Sources   Sources   `toml:"sources"`
	Fetch     Fetch     `toml:"fetch"`
	Resolver  Resolver  `toml:"resolver"`
	Profiles  Profiles  `toml:"profiles"`
	Publisher Publisher `toml:"publisher"`
	Logging   Logging   `toml:"logging"`
}

// Load locates, parses, and validates a configuration file. A missing file
// yields the defaults; the second and third results report the path that was
// considered and whether it existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// DefaultConfigPath returns the per-user config location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/hoopsync/config.toml")
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("hoopsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// CreateSample writes the annotated sample configuration to path. An existing
// file is never overwritten.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SeasonYear returns the configured season, or the year of now when unset.
func (c *Config) SeasonYear(now time.Time) int {
	if c.Sources.Season > 0 {
		return c.Sources.Season
	}
	return now.Year()
}

func (c *Config) BoxscoresPath() string { return c.storePath(c.Paths.BoxscoresFile) }

func (c *Config) PlayerCachePath() string { return c.storePath(c.Paths.PlayerCacheFile) }

func (c *Config) InjuriesPath() string { return c.storePath(c.Paths.InjuriesFile) }

// LockPath is the advisory lock guarding the store against concurrent runs.
func (c *Config) LockPath() string { return filepath.Join(c.Paths.DatabaseDir, ".hoopsync.lock") }

func (c *Config) storePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Paths.DatabaseDir, name)
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

func (c *Config) Backoff() time.Duration {
	return time.Duration(c.Fetch.BackoffSeconds) * time.Second
}

func (c *Config) PolitenessDelay() time.Duration {
	return time.Duration(c.Fetch.PolitenessDelaySeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
