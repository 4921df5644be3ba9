package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/arcade/internal/manifest"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config and manifest",
	Long: `Loads the config and the manifest and reports records the catalog will
show oddly: duplicate or missing ids, unknown categories, empty urls.
Exits non-zero only when the manifest cannot be loaded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		loader := newLoader(cfg)
		games, err := loader.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s", manifest.Message(err))
		}

		issues := manifest.Lint(games)
		fmt.Printf("%s: %d games, %d issues\n", loader.Source(), len(games), len(issues))
		for _, issue := range issues {
			fmt.Printf("  %s\n", issue)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
