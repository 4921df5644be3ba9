package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/arcade/internal/catalog"
	"github.com/ziadkadry99/arcade/internal/export"
)

var (
	listCategory string
	listSearch   string
	listJSON     bool
	listXLSX     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the games the catalog page would show",
	Long: `Loads the manifest and applies the same filter as the catalog page.
A search overrides the category, exactly as on the page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		games, err := newLoader(cfg).Load(cmd.Context())
		if err != nil {
			return err
		}

		state := catalog.NewState()
		if c := catalog.Category(strings.ToLower(listCategory)); c != "" {
			if !c.IsFilter() {
				return fmt.Errorf("unknown category %q (want all, math, reading, science or fun)", listCategory)
			}
			state, _ = state.SelectTab(c)
		}
		if listSearch != "" {
			state = state.Type(listSearch).Submit()
		}
		visible := state.Visible(games)

		if listXLSX != "" {
			if err := export.WriteXLSX(listXLSX, visible); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %d games to %s\n", len(visible), listXLSX)
			return nil
		}

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(visible)
		}

		if len(visible) == 0 {
			fmt.Println("No games found")
			return nil
		}
		for _, g := range visible {
			fmt.Printf("%-24s %-8s %4s  %s\n", g.Title, g.Category, g.FormatRating(), g.URL)
		}
		fmt.Printf("\n%d of %d games\n", len(visible), len(games))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "category tab (all, math, reading, science, fun)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "search prefix (title or description)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")
	listCmd.Flags().StringVar(&listXLSX, "xlsx", "", "write an .xlsx spreadsheet to this path")
	rootCmd.AddCommand(listCmd)
}
