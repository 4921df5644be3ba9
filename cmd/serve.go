package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/arcade/internal/activity"
	"github.com/ziadkadry99/arcade/internal/capslock"
	"github.com/ziadkadry99/arcade/internal/config"
	"github.com/ziadkadry99/arcade/internal/portal"
	"github.com/ziadkadry99/arcade/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portal server",
	Long:  `Serves the catalog page, the embed host pages, the manifest and the caps-lock channel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			BasePath: cfg.BasePath,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, logger.Named("server"))

		opts := portal.Options{
			SiteName:     cfg.SiteName,
			Logo:         cfg.Logo,
			BasePath:     cfg.BasePath,
			Routes:       cfg.Routes,
			Frame:        cfg.Frame(),
			LocalDir:     cfg.LocalGames.Dir,
			LocalInclude: cfg.LocalGames.Include,
			LocalExclude: cfg.LocalGames.Exclude,
			Logger:       logger.Named("portal"),
		}

		if cfg.Activity.Enabled {
			database, err := openActivityDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			store := activity.NewStore(database)
			opts.Recorder = store
			activity.RegisterRoutes(srv.Site(), store)
			go pruneActivity(ctx, store, cfg.Activity.RetentionDays)
		}

		p, err := portal.New(newLoader(cfg), opts)
		if err != nil {
			return fmt.Errorf("creating portal: %w", err)
		}
		p.RegisterRoutes(srv.Site())
		srv.Handle("/ws/capslock", capslock.NewHandler(logger.Named("capslock")))

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		logger.Info("arcade starting",
			zap.String("version", Version),
			zap.Int("port", cfg.Server.Port),
			zap.String("manifest", cfg.Manifest.Source),
			zap.Int("routes", len(cfg.Routes)),
			zap.Bool("activity", cfg.Activity.Enabled),
		)
		return srv.Start()
	},
}

// pruneActivity drops entries older than the retention window, once at
// startup and then daily.
func pruneActivity(ctx context.Context, store *activity.Store, days int) {
	if days <= 0 {
		return
	}
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		n, err := store.DeleteBefore(ctx, cutoff)
		if err != nil {
			logger.Warn("pruning activity log", zap.Error(err))
		} else if n > 0 {
			logger.Info("pruned activity log", zap.Int64("deleted", n))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultConfig().Server.Port, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
