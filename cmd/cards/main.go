// Command cards manages the card catalog outside the API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ygodeck/internal/config"
	"ygodeck/internal/platform/logger"
	"ygodeck/internal/platform/postgres"
)

var (
	verbose bool

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cards",
	Short: "Manage the ygodeck card catalog",
	Long: `Import, export and sync the card catalog stored in PostgreSQL.

Connection settings come from the same environment and CONFIG_FILE as the API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnvFiles()
		var err error
		cfg, err = config.LoadForTools()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		level := cfg.App.LogLevel
		if verbose {
			level = "debug"
		}
		log, err = logger.New(level, cfg.App.Env)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(importCmd, exportCmd, syncCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Debug("database connection OK", zap.String("dsn", postgres.RedactDSN(cfg.Database.DSN)))
	return pool, nil
}
