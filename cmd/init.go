package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/arcade/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize arcade configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the portal and writes the config file (arcade.yml by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("Run `arcade serve` to start the portal on port %d.\n", cfg.Server.Port)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
