package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/radieske/bets-core/internal/bankroll/repo"
	"github.com/radieske/bets-core/internal/bankroll/service"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the ledger schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd.Context(), func(_ *service.Ledger, store *repo.Store, log *zap.Logger) error {
			log.Info("schema applied", zap.String("dialect", string(store.Dialect())))
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", store.Dialect())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
