package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/arcade/internal/embed"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Manifest.Source != "public/games.json" {
		t.Errorf("expected default manifest source, got %q", cfg.Manifest.Source)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Embed.GapRem != 0.75 {
		t.Errorf("expected default gap 0.75, got %v", cfg.Embed.GapRem)
	}
	if cfg.Activity.Enabled {
		t.Error("expected activity log disabled by default")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arcade.yml")

	original := DefaultConfig()
	original.SiteName = "Test Arcade"
	original.Manifest.Source = "https://cdn.example.com/games.JSON"
	original.Server.Port = 9090
	original.BasePath = "portal"
	original.Routes = []embed.Route{
		{Path: "/Alpha", Title: "Alpha", EmbedURL: "/local/alpha/index.html"},
		{Path: "/Beta", EmbedURL: "https://example.com/beta"},
	}

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.SiteName != "Test Arcade" {
		t.Errorf("site_name: got %q", loaded.SiteName)
	}
	if loaded.Manifest.Source != "https://cdn.example.com/games.json" {
		t.Errorf("manifest source not normalized: %q", loaded.Manifest.Source)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("port: got %d", loaded.Server.Port)
	}
	if loaded.BasePath != "/portal/" {
		t.Errorf("base_path: got %q", loaded.BasePath)
	}
	if len(loaded.Routes) != 2 {
		t.Fatalf("routes: got %d", len(loaded.Routes))
	}
	if loaded.Routes[1].Title != "" || loaded.Routes[1].EmbedURL != "https://example.com/beta" {
		t.Errorf("route[1]: got %+v", loaded.Routes[1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
	if cfg.BasePath != "/" {
		t.Errorf("expected root base path, got %q", cfg.BasePath)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arcade.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("ARCADE_SERVER__PORT", "7070")
	t.Setenv("ARCADE_SITE_NAME", "Env Arcade")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Server.Port != 7070 {
		t.Errorf("env override failed: got %d", loaded.Server.Port)
	}
	if loaded.SiteName != "Env Arcade" {
		t.Errorf("env override failed: got %q", loaded.SiteName)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arcade.yml")
	if err := os.WriteFile(path, []byte("server: [not: valid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestNormalizeBasePath(t *testing.T) {
	tests := map[string]string{
		"":          "/",
		"/":         "/",
		"arcade":    "/arcade/",
		"/arcade":   "/arcade/",
		"/a/b/":     "/a/b/",
		"  //x// ":  "/x/",
	}
	for in, want := range tests {
		if got := NormalizeBasePath(in); got != want {
			t.Errorf("NormalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Routes = SampleRoutes()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty manifest", func(c *Config) { c.Manifest.Source = " " }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"negative gap", func(c *Config) { c.Embed.GapRem = -0.5 }},
		{"negative fallback", func(c *Config) { c.Embed.FallbackHeaderPx = -1 }},
		{"relative route", func(c *Config) {
			c.Routes = []embed.Route{{Path: "Alpha", EmbedURL: "https://example.com"}}
		}},
		{"duplicate route", func(c *Config) {
			c.Routes = []embed.Route{
				{Path: "/Alpha", EmbedURL: "https://example.com"},
				{Path: "/Alpha", EmbedURL: "https://example.org"},
			}
		}},
		{"reserved route", func(c *Config) {
			c.Routes = []embed.Route{{Path: "/api/games", EmbedURL: "https://example.com"}}
		}},
		{"static route", func(c *Config) {
			c.Routes = []embed.Route{{Path: "/static/game", EmbedURL: "https://example.com"}}
		}},
		{"static root route", func(c *Config) {
			c.Routes = []embed.Route{{Path: "/static", EmbedURL: "https://example.com"}}
		}},
		{"bad pattern", func(c *Config) { c.LocalGames.Include = []string{"[unclosed"} }},
		{"activity without db", func(c *Config) {
			c.Activity.Enabled = true
			c.Activity.DBPath = ""
		}},
		{"negative concurrency", func(c *Config) { c.Check.Concurrency = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestFrameFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Embed.GapRem = 1
	cfg.Embed.FallbackHeaderPx = 80
	want := "calc(100svh - var(--header-h, 80px) - 1rem)"
	if got := cfg.Frame().HeightExpr(); got != want {
		t.Errorf("HeightExpr() = %q, want %q", got, want)
	}
}

func TestLocalExcludes(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.LocalGames.Exclude) != len(DefaultLocalExcludes) {
		t.Errorf("expected default excludes, got %v", cfg.LocalGames.Exclude)
	}

	path := filepath.Join(dir, "arcade.yml")
	if err := os.WriteFile(path, []byte("local_games:\n  exclude:\n    - \"*.md\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.LocalGames.Exclude) != 1 || cfg.LocalGames.Exclude[0] != "*.md" {
		t.Errorf("expected the configured list to replace the default, got %v", cfg.LocalGames.Exclude)
	}
	if DefaultLocalExcludes[0] != "**/.*" {
		t.Error("defaults were modified")
	}
}
