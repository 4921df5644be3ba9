package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/arcade/internal/activity"
)

var (
	activityGame   string
	activityAction string
	activityLimit  int
	activitySince  time.Duration
	activityTop    bool
	activityJSON   bool
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Query the activity log",
	Long:  `Prints recorded plays, random picks, searches and tab clicks. Requires activity.enabled in the config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Activity.Enabled {
			return fmt.Errorf("the activity log is disabled; set activity.enabled in %s", cfgFile)
		}

		database, err := openActivityDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		store := activity.NewStore(database)

		if activityTop {
			counts, err := store.CountByGame(cmd.Context(), activityLimit)
			if err != nil {
				return err
			}
			if activityJSON {
				return json.NewEncoder(os.Stdout).Encode(counts)
			}
			for _, c := range counts {
				fmt.Printf("%6d  %s\n", c.Count, c.GameID)
			}
			return nil
		}

		if activityAction != "" && !activity.Action(activityAction).Valid() {
			return fmt.Errorf("unknown action %q (want play, random, search or tab)", activityAction)
		}
		filter := activity.QueryFilter{
			Action: activity.Action(activityAction),
			GameID: activityGame,
			Limit:  activityLimit,
		}
		if activitySince > 0 {
			since := time.Now().Add(-activitySince)
			filter.Since = &since
		}

		entries, err := store.Query(cmd.Context(), filter)
		if err != nil {
			return err
		}
		if activityJSON {
			return json.NewEncoder(os.Stdout).Encode(entries)
		}
		for _, e := range entries {
			detail := e.GameID
			switch e.Action {
			case activity.ActionSearch:
				detail = e.Query
			case activity.ActionTab:
				detail = e.Category
			}
			fmt.Printf("%s  %-6s  %s\n", e.Timestamp.Local().Format(time.DateTime), e.Action, detail)
		}
		return nil
	},
}

func init() {
	activityCmd.Flags().StringVar(&activityGame, "game", "", "only entries for this game id")
	activityCmd.Flags().StringVar(&activityAction, "action", "", "only this action (play, random, search, tab)")
	activityCmd.Flags().IntVar(&activityLimit, "limit", 50, "maximum entries")
	activityCmd.Flags().DurationVar(&activitySince, "since", 0, "only entries newer than this, e.g. 24h")
	activityCmd.Flags().BoolVar(&activityTop, "top", false, "show launch counts per game")
	activityCmd.Flags().BoolVar(&activityJSON, "json", false, "print JSON")
	rootCmd.AddCommand(activityCmd)
}
