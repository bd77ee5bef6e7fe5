package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Freeeeeet/jadwal_sync/internal/app"
	"github.com/Freeeeeet/jadwal_sync/internal/config"
	"github.com/Freeeeeet/jadwal_sync/internal/controller/api"
	"github.com/Freeeeeet/jadwal_sync/internal/notifier"
	"github.com/Freeeeeet/jadwal_sync/internal/notion"
	"github.com/Freeeeeet/jadwal_sync/internal/portal"
	"github.com/Freeeeeet/jadwal_sync/internal/repository"
	"github.com/Freeeeeet/jadwal_sync/internal/schedule"
	"github.com/Freeeeeet/jadwal_sync/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger := app.NewLogger(cfg.Environment)
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting jadwal sync",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("time_zone", cfg.TimeZone),
		zap.Bool("history", cfg.HistoryEnabled()),
		zap.Bool("notifier", cfg.NotifierEnabled()),
	)

	portalClient := portal.NewClient(cfg.PortalBaseURL, cfg.HTTPTimeout, logger)
	notionClient := notion.NewClient(notion.Options{
		BaseURL:       cfg.NotionBaseURL,
		APIKey:        cfg.NotionAPIKey,
		DatabaseID:    cfg.NotionDatabaseID,
		Version:       cfg.NotionVersion,
		TitleProperty: cfg.NotionTitleProperty,
		DateProperty:  cfg.NotionDateProperty,
		TimeZone:      cfg.TimeZone,
		Timeout:       cfg.HTTPTimeout,
	}, logger)

	syncService := service.NewSyncService(portalClient, notionClient, schedule.NewParser(cfg.Location), logger)

	var history api.HistoryLister
	if cfg.HistoryEnabled() {
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		if err := migrate(ctx, pool, logger); err != nil {
			return err
		}

		runs := repository.NewSyncRunRepository(pool)
		syncService.WithHistory(runs)
		history = runs

		scheduler := app.NewScheduler(runs, cfg.HistoryRetention, logger)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	if cfg.NotifierEnabled() {
		tg, err := notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err != nil {
			return err
		}
		syncService.WithNotifier(tg)
	}

	server := api.NewServer(api.NewHandler(syncService, history, logger), logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Run(ctx)
}
