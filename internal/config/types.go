package config

import "github.com/ziadkadry99/arcade/internal/embed"

// Config is the top-level arcade configuration, corresponding to arcade.yml.
type Config struct {
	SiteName   string           `yaml:"site_name" koanf:"site_name"`
	Logo       string           `yaml:"logo" koanf:"logo"`
	BasePath   string           `yaml:"base_path" koanf:"base_path"`
	Manifest   ManifestConfig   `yaml:"manifest" koanf:"manifest"`
	Server     ServerConfig     `yaml:"server" koanf:"server"`
	Embed      EmbedConfig      `yaml:"embed" koanf:"embed"`
	Routes     []embed.Route    `yaml:"routes" koanf:"routes"`
	LocalGames LocalGamesConfig `yaml:"local_games" koanf:"local_games"`
	Activity   ActivityConfig   `yaml:"activity" koanf:"activity"`
	Check      CheckConfig      `yaml:"check" koanf:"check"`
}

// ManifestConfig locates the game manifest.
type ManifestConfig struct {
	// Source is a file path or an http(s) URL.
	Source string `yaml:"source" koanf:"source"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// EmbedConfig tunes the game frame on host pages.
type EmbedConfig struct {
	GapRem           float64 `yaml:"gap_rem" koanf:"gap_rem"`
	FallbackHeaderPx int     `yaml:"fallback_header_px" koanf:"fallback_header_px"`
}

// LocalGamesConfig serves self-hosted game pages under /local/.
type LocalGamesConfig struct {
	Dir     string   `yaml:"dir" koanf:"dir"`
	Include []string `yaml:"include,omitempty" koanf:"include"`
	Exclude []string `yaml:"exclude,omitempty" koanf:"exclude"`
}

// ActivityConfig controls the optional interaction log.
type ActivityConfig struct {
	Enabled       bool   `yaml:"enabled" koanf:"enabled"`
	DBPath        string `yaml:"db_path" koanf:"db_path"`
	RetentionDays int    `yaml:"retention_days" koanf:"retention_days"`
}

// CheckConfig holds settings for the embed checker.
type CheckConfig struct {
	Concurrency    int `yaml:"concurrency" koanf:"concurrency"`
	TimeoutSeconds int `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}
