package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/davarch/ci-dashboard/internal/application"
	"github.com/davarch/ci-dashboard/internal/domain"
	"github.com/davarch/ci-dashboard/internal/infrastructure/config"
	"github.com/davarch/ci-dashboard/internal/infrastructure/dashboard"
	"github.com/davarch/ci-dashboard/internal/infrastructure/logging"
	"github.com/davarch/ci-dashboard/internal/infrastructure/notify_libnotify"
	"github.com/davarch/ci-dashboard/internal/infrastructure/status_fs"
	"github.com/davarch/ci-dashboard/internal/transport/httpapi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Serve the dashboard and status API",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(cfgPath)
		log := logging.New(cfg.Log.Level, cfg.Log.Format)
		defer func() { _ = log.Sync() }()
		if err != nil {
			log.Fatal("config", zap.Error(err))
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		d := wire(log, cfg)

		doc, err := dashboard.Load(log, cfg.Server.Dashboard)
		if err != nil {
			log.Fatal("dashboard", zap.String("path", cfg.Server.Dashboard), zap.Error(err))
		}
		if err := doc.Watch(ctx); err != nil {
			log.Warn("dashboard watch disabled", zap.Error(err))
		}

		api := &httpapi.API{Log: log, Status: d.agg, Dashboard: doc, Metrics: cfg.Server.Metrics}
		if cfg.Trigger.Enabled {
			api.Triggers = d.triggers
		}

		if cfg.Warm.Schedule != "" {
			startWarmer(ctx, log, cfg, d.agg)
		}

		srv := httpapi.NewServer(log, cfg.Server.Addr, api.Handler())
		go func() {
			<-ctx.Done()
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			_ = srv.Shutdown(shutdownCtx)
		}()

		log.Info("start",
			zap.String("version", version),
			zap.Strings("apps", cfg.Roster()),
			zap.String("owner", cfg.GitHub.Owner),
			zap.Int("concurrency", cfg.Poll.Concurrency),
			zap.Bool("triggers", cfg.Trigger.Enabled),
			zap.String("warm", cfg.Warm.Schedule),
		)
		if err := srv.Start(); err != nil {
			log.Fatal("http server", zap.Error(err))
		}
		log.Info("stopped")
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func startWarmer(ctx context.Context, log *zap.Logger, cfg config.Config, agg *application.Aggregator) {
	sched, err := application.ParseSchedule(cfg.Warm.Schedule)
	if err != nil {
		log.Warn("warm schedule invalid, warmer disabled", zap.String("schedule", cfg.Warm.Schedule), zap.Error(err))
		return
	}

	var export domain.StatusExporter
	if cfg.Export.Path != "" {
		export = status_fs.New(cfg.Export.Path)
	}

	var note domain.Notifier
	if cfg.Warm.Notify {
		note = notify_libnotify.NewSoft().WithExpire(10 * time.Second)
	}

	w := application.NewWarmer(log, agg, sched, cfg.Warm.PauseFile, export, note,
		"https://github.com/"+cfg.GitHub.Owner)
	go w.Run(ctx)
}
