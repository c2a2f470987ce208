package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/radieske/bets-core/internal/bankroll/format"
	"github.com/radieske/bets-core/internal/bankroll/repo"
	"github.com/radieske/bets-core/internal/bankroll/service"
	"github.com/radieske/bets-core/internal/ledger"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show run and lifetime stats for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd.Context(), func(l *service.Ledger, _ *repo.Store, _ *zap.Logger) error {
			d, err := l.Refresh(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return renderDashboard(cmd.OutOrStdout(), d)
		})
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List a user's runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd.Context(), func(l *service.Ledger, _ *repo.Store, _ *zap.Logger) error {
			runs, err := l.ListRuns(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return renderRuns(cmd.OutOrStdout(), runs)
		})
	},
}

var picksCmd = &cobra.Command{
	Use:   "picks",
	Short: "List a user's picks, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd.Context(), func(l *service.Ledger, _ *repo.Store, _ *zap.Logger) error {
			picks, err := l.ListPicks(cmd.Context(), userID)
			if err != nil {
				return err
			}
			prefs, err := l.Preferences(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return renderPicks(cmd.OutOrStdout(), picks, prefs)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{dashboardCmd, runsCmd, picksCmd} {
		c.Flags().StringVarP(&userID, "user", "u", "", "user id")
		_ = c.MarkFlagRequired("user")
		rootCmd.AddCommand(c)
	}
}

func renderDashboard(w io.Writer, d service.Dashboard) error {
	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Run", "Lifetime")

	run := func(v string) string {
		if d.Run == nil {
			return "-"
		}
		return v
	}
	rows := [][]string{
		{"Currency", d.Display.Currency, d.Display.Currency},
		{"Initial bank / Net invested", run(d.Display.InitialBank), d.Display.NetInvested},
		{"Equity", run(d.Display.Equity), "-"},
		{"Profit", run(d.Display.Profit), d.Display.NetProfit},
		{"Available bankroll", run(d.Display.AvailableBankroll), "-"},
		{"Pending stake", run(d.Display.PendingStake), "-"},
		{"Turnover", "-", d.Display.Turnover},
		{"ROI", run(d.Display.RunROI), d.Display.LifetimeROI},
		{"Win rate", run(d.Display.RunWinRate), d.Display.LifetimeWinRate},
		{"Best sport", bestSport(d.Insights.Run), bestSport(d.Insights.Lifetime)},
		{"Current streak", streak(d.Insights.Run), streak(d.Insights.Lifetime)},
	}
	for _, r := range rows {
		if err := table.Append(r); err != nil {
			return err
		}
	}
	return table.Render()
}

func bestSport(s service.ScopeInsights) string {
	if s.BestSport == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%d bets)", s.BestSport.Sport, s.BestSport.TotalBets)
}

func streak(s service.ScopeInsights) string {
	if s.Streak.CurrentStreak.Count == 0 {
		return "-"
	}
	return fmt.Sprintf("%s x%d", s.Streak.CurrentStreak.Type, s.Streak.CurrentStreak.Count)
}

func renderRuns(w io.Writer, runs []ledger.Run) error {
	if len(runs) == 0 {
		return errors.New("no runs found")
	}
	table := tablewriter.NewWriter(w)
	table.Header("Run", "Started", "Ended", "Active")
	for _, r := range runs {
		ended := "-"
		if r.EndedAt != nil {
			ended = r.EndedAt.Format(timeLayout)
		}
		if err := table.Append(r.ID, r.StartedAt.Format(timeLayout), ended, strconv.FormatBool(r.IsActive)); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderPicks(w io.Writer, picks []ledger.Pick, prefs format.Preferences) error {
	if len(picks) == 0 {
		return errors.New("no picks found")
	}
	prefs = prefs.WithDefaults()
	table := tablewriter.NewWriter(w)
	table.Header("Created", "Sport", "Selection", "Stake", "Odds", "Status")
	for _, p := range picks {
		if err := table.Append(
			p.CreatedAt.Format(timeLayout),
			p.Sport,
			p.Selection,
			format.Money(p.Stake, prefs.Currency),
			format.Odds(p.Odds, prefs.OddsFormat),
			string(p.Status),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

const timeLayout = "2006-01-02 15:04"
