package cmd

import (
	"fmt"

	"github.com/ziadkadry99/arcade/internal/config"
	"github.com/ziadkadry99/arcade/internal/db"
	"github.com/ziadkadry99/arcade/internal/manifest"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `arcade init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLoader creates the manifest loader shared by every command.
func newLoader(cfg *config.Config) *manifest.Loader {
	return manifest.NewLoader(cfg.Manifest.Source, manifest.WithLogger(logger.Named("manifest")))
}

// openActivityDB opens the activity database at the configured path.
func openActivityDB(cfg *config.Config) (*db.DB, error) {
	database, err := db.Open(cfg.Activity.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening activity database: %w", err)
	}
	return database, nil
}
