package cmd

import (
	"fmt"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/arcade/internal/catalog"
	"github.com/ziadkadry99/arcade/internal/tui"
)

var browseSearch string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog in the terminal",
	Long: `Opens a terminal version of the catalog page. Typing edits the search
field; Enter submits it. Picking a game prints its URL on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		initial := catalog.FromURL(url.Values{catalog.ParamSearch: {browseSearch}})
		model := tui.New(cmd.Context(), newLoader(cfg), initial, nil)

		final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		if err != nil {
			return fmt.Errorf("running browser: %w", err)
		}
		if g, ok := final.(tui.Model).Chosen(); ok {
			fmt.Println(g.URL)
		}
		return nil
	},
}

func init() {
	browseCmd.Flags().StringVar(&browseSearch, "search", "", "start with this search submitted")
	rootCmd.AddCommand(browseCmd)
}
