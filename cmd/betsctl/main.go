package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/radieske/bets-core/internal/bankroll/cache"
	"github.com/radieske/bets-core/internal/bankroll/repo"
	"github.com/radieske/bets-core/internal/bankroll/service"
	"github.com/radieske/bets-core/internal/shared/config"
	"github.com/radieske/bets-core/internal/shared/logger"
)

var (
	cfgFile string
	debug   bool
	userID  string
)

var rootCmd = &cobra.Command{
	Use:   "betsctl",
	Short: "betsctl - bankroll ledger admin CLI",
	Long: `betsctl inspects a bankroll ledger directly from its store (Postgres or SQLite):
schema migration, dashboards, runs, picks and odds conversion.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withLedger abre o storage configurado e entrega um Ledger sem publisher
func withLedger(ctx context.Context, fn func(l *service.Ledger, store *repo.Store, log *zap.Logger) error) error {
	if cfgFile != "" {
		if err := os.Setenv("CONFIG_FILE", cfgFile); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := "warn"
	if debug {
		level = "debug"
	}
	log, err := logger.New("betsctl", cfg.Env, level)
	if err != nil {
		return err
	}
	defer log.Sync()

	store, conn, err := repo.Open(ctx, cfg.StoreDriver, cfg.PostgresDSN, cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer func(c *sql.DB) { _ = c.Close() }(conn)

	l := service.NewLedger(log, store, service.WithCache(cache.NewLocalCache(16, cfg.DashboardCacheTTL)))
	return fn(l, store, log)
}
