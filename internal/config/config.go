package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/arcade/internal/manifest"
)

// EnvPrefix is the prefix of environment overrides. A double underscore
// separates nested keys: ARCADE_SERVER__PORT -> server.port.
const EnvPrefix = "ARCADE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (ARCADE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Slices are filled in after unmarshalling so a configured list
	// replaces the default instead of merging into it.
	if cfg.LocalGames.Exclude == nil {
		cfg.LocalGames.Exclude = append([]string(nil), DefaultLocalExcludes...)
	}

	cfg.Manifest.Source = manifest.NormalizePath(cfg.Manifest.Source)
	cfg.BasePath = NormalizeBasePath(cfg.BasePath)
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// NormalizeBasePath returns p with exactly one leading and trailing slash.
func NormalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Manifest.Source) == "" {
		return fmt.Errorf("manifest.source is required")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}

	if c.Embed.GapRem < 0 {
		return fmt.Errorf("embed.gap_rem must be non-negative")
	}
	if c.Embed.FallbackHeaderPx < 0 {
		return fmt.Errorf("embed.fallback_header_px must be non-negative")
	}

	seen := make(map[string]bool, len(c.Routes))
	for _, r := range c.Routes {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("routes: %w", err)
		}
		if seen[r.Path] {
			return fmt.Errorf("routes: duplicate path %s", r.Path)
		}
		if isReservedPath(r.Path) {
			return fmt.Errorf("routes: path %s collides with a built-in route", r.Path)
		}
		seen[r.Path] = true
	}

	for _, p := range append(append([]string{}, c.LocalGames.Include...), c.LocalGames.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("local_games: invalid pattern %q", p)
		}
	}

	if c.Activity.Enabled && c.Activity.DBPath == "" {
		return fmt.Errorf("activity.db_path is required when activity is enabled")
	}
	if c.Activity.RetentionDays < 0 {
		return fmt.Errorf("activity.retention_days must be non-negative")
	}

	if c.Check.Concurrency < 0 {
		return fmt.Errorf("check.concurrency must be non-negative")
	}

	return nil
}

var reservedPrefixes = []string{
	"/search", "/tab/", "/play/", "/games.json", "/api/", "/local/", "/static/", "/ws/", "/healthz",
}

func isReservedPath(p string) bool {
	for _, prefix := range reservedPrefixes {
		if p == strings.TrimSuffix(prefix, "/") || strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
