package main

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/Freeeeeet/jadwal_sync/internal/app"
	"github.com/Freeeeeet/jadwal_sync/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the sync history migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, _ := cmd.Flags().GetString("dsn")
		if dsn == "" {
			dsn = config.DatabaseDSN()
		}
		if dsn == "" {
			return errors.New("DB_DSN is required but not set")
		}

		env, _ := cmd.Flags().GetString("env")
		logger := app.NewLogger(env)
		defer logger.Sync()

		ctx := cmd.Context()

		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			return err
		}
		defer migrator.Close()

		if err := migrator.Run(ctx); err != nil {
			return err
		}

		version, err := migrator.Version(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().String("dsn", "", "Postgres DSN (defaults to DB_DSN)")
	migrateCmd.Flags().String("env", "development", "Logger environment")
}
