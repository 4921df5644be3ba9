package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/arcade/internal/check"
	"github.com/ziadkadry99/arcade/internal/manifest"
	"github.com/ziadkadry99/arcade/internal/progress"
)

var checkConcurrency int

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe external game pages for framing refusals",
	Long: `Fetches every route embed URL and every external game URL and reports
pages that refuse to be framed (X-Frame-Options or CSP frame-ancestors),
together with the page title. Those games show a blank frame on the site.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		games, err := newLoader(cfg).Load(cmd.Context())
		if err != nil {
			// Routes can still be checked.
			logger.Warn("manifest unavailable, checking routes only", zap.String("error", manifest.Message(err)))
		}

		targets := check.Targets(cfg.Routes, games)
		if len(targets) == 0 {
			fmt.Println("Nothing to check: no external routes or games.")
			return nil
		}

		concurrency := cfg.Check.Concurrency
		if cmd.Flags().Changed("concurrency") {
			concurrency = checkConcurrency
		}
		runner := check.NewRunner(
			check.WithConcurrency(concurrency),
			check.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Check.TimeoutSeconds) * time.Second}),
			check.WithLogger(logger.Named("check")),
			check.WithReporter(progress.NewReporter("Checking games")),
		)
		results, err := runner.Run(cmd.Context(), targets)
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			status := "ok"
			detail := r.Target.URL
			switch {
			case r.Err != nil:
				status, detail = "error", r.Err.Error()
			case r.Status < 200 || r.Status >= 300:
				status = fmt.Sprintf("http %d", r.Status)
			case !r.Frameable:
				status, detail = "refused", r.Reason
			}
			if status != "ok" {
				failed++
			}
			title := r.Title
			if title == "" {
				title = "-"
			}
			fmt.Printf("%-8s %-6s %-28s %-32s %s\n", status, r.Target.Kind, r.Target.Name, title, detail)
		}
		fmt.Printf("\n%d checked, %d with problems\n", len(results), failed)
		return nil
	},
}

func init() {
	checkCmd.Flags().IntVar(&checkConcurrency, "concurrency", 4, "probes in flight (overrides config)")
	rootCmd.AddCommand(checkCmd)
}
