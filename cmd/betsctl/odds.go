package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/radieske/bets-core/internal/bankroll/format"
	"github.com/radieske/bets-core/internal/ledger/odds"
)

var (
	americanFlag float64
	decimalFlag  float64
)

var oddsCmd = &cobra.Command{
	Use:   "odds",
	Short: "Odds utilities",
}

var oddsConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert odds between AMERICAN and DECIMAL",
	Example: `  betsctl odds convert --american -110
  betsctl odds convert --decimal 2.5`,
	RunE: runOddsConvert,
}

func init() {
	rootCmd.AddCommand(oddsCmd)
	oddsCmd.AddCommand(oddsConvertCmd)

	oddsConvertCmd.Flags().Float64Var(&americanFlag, "american", 0, "American odds (e.g. +150, -200)")
	oddsConvertCmd.Flags().Float64Var(&decimalFlag, "decimal", 0, "Decimal odds (e.g. 2.5)")
	oddsConvertCmd.MarkFlagsMutuallyExclusive("american", "decimal")
	oddsConvertCmd.MarkFlagsOneRequired("american", "decimal")
}

func runOddsConvert(cmd *cobra.Command, _ []string) error {
	var dec float64
	if cmd.Flags().Changed("american") {
		if americanFlag > -100 && americanFlag < 100 {
			return errors.New("american odds must be <= -100 or >= +100")
		}
		dec = odds.AmericanToDecimal(americanFlag)
	} else {
		if decimalFlag < odds.MinDecimal {
			return fmt.Errorf("decimal odds must be >= %.2f", odds.MinDecimal)
		}
		dec = decimalFlag
	}
	return renderOdds(cmd.OutOrStdout(), dec)
}

func renderOdds(w io.Writer, dec float64) error {
	table := tablewriter.NewWriter(w)
	table.Header("Decimal", "American", "Implied %")
	if err := table.Append(
		format.Odds(dec, format.OddsDecimal),
		format.Odds(dec, format.OddsAmerican),
		fmt.Sprintf("%.2f%%", 100/dec),
	); err != nil {
		return err
	}
	return table.Render()
}
