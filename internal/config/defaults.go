package config

import (
	"github.com/ziadkadry99/arcade/internal/embed"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "arcade.yml"

// DefaultLocalExcludes are hidden from the local games directory unless
// local_games.exclude is set.
var DefaultLocalExcludes = []string{
	"**/.*",
	"**/*.map",
	"**/node_modules/**",
}

// SampleRoutes are written by the init wizard as a starting point.
func SampleRoutes() []embed.Route {
	return []embed.Route{
		{
			Path:     "/SuperCarDriving",
			Title:    "Super Car Driving",
			EmbedURL: "https://cloud.onlinegames.io/games/2024/unity2/super-car-driving/index-og.html",
		},
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SiteName: "ReadingArcade",
		Logo:     "/favicon.ico",
		BasePath: "/",
		Manifest: ManifestConfig{
			Source: "public/games.json",
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Embed: EmbedConfig{
			GapRem:           embed.DefaultGapRem,
			FallbackHeaderPx: embed.DefaultFallbackHeaderPx,
		},
		LocalGames: LocalGamesConfig{
			Dir: "public/games",
		},
		Activity: ActivityConfig{
			Enabled:       false,
			DBPath:        ".arcade/activity.db",
			RetentionDays: 30,
		},
		Check: CheckConfig{
			Concurrency:    4,
			TimeoutSeconds: 10,
		},
	}
}

// Frame returns the iframe settings derived from the embed section.
func (c *Config) Frame() embed.Frame {
	f := embed.DefaultFrame()
	f.GapRem = c.Embed.GapRem
	f.FallbackHeaderPx = c.Embed.FallbackHeaderPx
	return f
}
