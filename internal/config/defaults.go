package config

const (
	defaultDatabaseDir            = "database"
	defaultBoxscoresFile          = "wnba_all_player_boxscores.csv"
	defaultPlayerCacheFile        = "player_info_cache.json"
	defaultInjuriesFile           = "live_injuries.json"
	defaultStatsURL               = "https://stats.wnba.com/stats/playergamelogs"
	defaultLeagueID               = "10"
	defaultRosterURL              = "https://en.wikipedia.org/wiki/List_of_current_WNBA_team_rosters"
	defaultAllPlayersURL          = "https://en.wikipedia.org/wiki/List_of_Women%27s_National_Basketball_Association_players"
	defaultInjuryURL              = "https://www.covers.com/sport/basketball/wnba/injuries"
	defaultStatsOrigin            = "https://www.wnba.com"
	defaultStatsReferer           = "https://www.wnba.com/"
	defaultUserAgent              = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultRenderer               = RendererHTTP
	defaultTimeoutSeconds         = 45
	defaultMaxRetries             = 3
	defaultBackoffSeconds         = 5
	defaultPolitenessDelaySeconds = 2
	defaultRosterThreshold        = 88
	defaultAllTimeThreshold       = 95
	defaultInjuryThreshold        = 88
	defaultPublisherStream        = "hoopsync.refresh"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Renderer values accepted by sources.renderer.
const (
	RendererHTTP    = "http"
	RendererBrowser = "browser"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DatabaseDir:     defaultDatabaseDir,
			BoxscoresFile:   defaultBoxscoresFile,
			PlayerCacheFile: defaultPlayerCacheFile,
			InjuriesFile:    defaultInjuriesFile,
		},
		Sources: Sources{
			StatsURL:      defaultStatsURL,
			StatsOrigin:   defaultStatsOrigin,
			StatsReferer:  defaultStatsReferer,
			LeagueID:      defaultLeagueID,
			SeasonTypes:   []string{"Regular Season", "Playoffs"},
			RosterURL:     defaultRosterURL,
			AllPlayersURL: defaultAllPlayersURL,
			InjuryURL:     defaultInjuryURL,
			UserAgent:     defaultUserAgent,
			Renderer:      defaultRenderer,
		},
		Fetch: Fetch{
			TimeoutSeconds:         defaultTimeoutSeconds,
			MaxRetries:             defaultMaxRetries,
			BackoffSeconds:         defaultBackoffSeconds,
			PolitenessDelaySeconds: defaultPolitenessDelaySeconds,
		},
		Resolver: Resolver{
			RosterThreshold:  defaultRosterThreshold,
			AllTimeThreshold: defaultAllTimeThreshold,
			InjuryThreshold:  defaultInjuryThreshold,
		},
		Profiles: Profiles{
			EnrichPositions: true,
		},
		Publisher: Publisher{
			Stream: defaultPublisherStream,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
