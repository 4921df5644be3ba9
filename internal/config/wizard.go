package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/arcade/internal/manifest"
)

// RunWizard runs an interactive configuration wizard and saves the
// resulting Config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to arcade! Let's configure your portal.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Site name.
	namePrompt := promptui.Prompt{
		Label:   "Site name",
		Default: cfg.SiteName,
	}
	name, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site name: %w", err)
	}
	cfg.SiteName = strings.TrimSpace(name)

	// 2. Manifest location.
	sourcePrompt := promptui.Select{
		Label: "Where is games.json?",
		Items: []string{
			"local file (served from disk)",
			"remote URL (fetched over HTTP on every page load)",
		},
	}
	sourceIdx, _, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("manifest source: %w", err)
	}
	defaultSource := cfg.Manifest.Source
	if sourceIdx == 1 {
		defaultSource = "https://example.com/games.json"
	}
	locationPrompt := promptui.Prompt{
		Label:   "Manifest location",
		Default: defaultSource,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("manifest location is required")
			}
			if sourceIdx == 1 && !manifest.IsRemote(s) {
				return fmt.Errorf("expected an http(s) URL")
			}
			return nil
		},
	}
	location, err := locationPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("manifest location: %w", err)
	}
	cfg.Manifest.Source = manifest.NormalizePath(strings.TrimSpace(location))

	// 3. Port.
	portPrompt := promptui.Prompt{
		Label:   "Port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 4. Local games directory.
	localPrompt := promptui.Prompt{
		Label:   "Directory with self-hosted games (served under /local/)",
		Default: cfg.LocalGames.Dir,
	}
	localDir, err := localPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("local games dir: %w", err)
	}
	cfg.LocalGames.Dir = strings.TrimSpace(localDir)

	// 5. Activity log.
	activityPrompt := promptui.Select{
		Label: "Record plays and searches in a local activity log?",
		Items: []string{"no", "yes"},
	}
	activityIdx, _, err := activityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("activity log: %w", err)
	}
	cfg.Activity.Enabled = activityIdx == 1

	cfg.Routes = SampleRoutes()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
