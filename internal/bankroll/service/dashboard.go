package service

import (
	"fmt"
	"time"

	"github.com/radieske/bets-core/internal/bankroll/format"
	"github.com/radieske/bets-core/internal/ledger"
	"github.com/radieske/bets-core/internal/ledger/insights"
)

// Dashboard é a visão consolidada da banca de um usuário
type Dashboard struct {
	UserID      string               `json:"userId"`
	Preferences format.Preferences   `json:"preferences"`
	ActiveRun   *ledger.Run          `json:"activeRun"`
	Run         *ledger.RunStats     `json:"run"` // nil sem run ativa
	Lifetime    ledger.LifetimeStats `json:"lifetime"`
	Insights    Insights             `json:"insights"`
	Trend       Trend                `json:"trend"`
	Display     Display              `json:"display"`
	GeneratedAt time.Time            `json:"generatedAt"`
}

type ScopeInsights struct {
	BestSport *insights.BestSportInsight `json:"bestSport"`
	Streak    insights.StreakInsight     `json:"streak"`
}

type Insights struct {
	Run      ScopeInsights `json:"run"`
	Lifetime ScopeInsights `json:"lifetime"`
}

type Trend struct {
	Run      []ledger.ChartPoint `json:"run"`
	Lifetime []ledger.ChartPoint `json:"lifetime"`
}

// Display traz os valores já formatados na moeda do usuário
type Display struct {
	Currency          string `json:"currency"`
	InitialBank       string `json:"initialBank,omitempty"`
	Equity            string `json:"equity,omitempty"`
	Profit            string `json:"profit,omitempty"`
	AvailableBankroll string `json:"availableBankroll,omitempty"`
	PendingStake      string `json:"pendingStake,omitempty"`
	RunROI            string `json:"runRoi,omitempty"`
	RunWinRate        string `json:"runWinRate,omitempty"`
	NetInvested       string `json:"netInvested"`
	NetProfit         string `json:"netProfit"`
	Turnover          string `json:"turnover"`
	LifetimeROI       string `json:"lifetimeRoi"`
	LifetimeWinRate   string `json:"lifetimeWinRate"`
}

// BuildDashboard calcula o dashboard a partir de um snapshot consistente
func BuildDashboard(userID string, snap ledger.Snapshot, prefs format.Preferences) Dashboard {
	prefs = prefs.WithDefaults()
	life := snap.Lifetime()

	out := Dashboard{
		UserID:      userID,
		Preferences: prefs,
		ActiveRun:   snap.ActiveRun,
		Lifetime:    ledger.CalculateLifetimeStats(life.Picks, life.Transactions),
		Insights: Insights{
			Lifetime: scopeInsights(life.Picks),
		},
	}
	out.Trend.Lifetime = ledger.BuildTrend(life.Picks, out.Lifetime.NetInvested, ledger.ByCreation)

	if run, ok := snap.RunPartition(); ok {
		stats := ledger.CalculateRunStats(run.Picks, run.Transactions)
		out.Run = &stats
		out.Insights.Run = scopeInsights(run.Picks)
		out.Trend.Run = ledger.BuildTrend(run.Picks, stats.InitialBank, ledger.ByCreation)
	}

	out.Display = display(out, prefs.Currency)
	return out
}

func scopeInsights(picks []ledger.Pick) ScopeInsights {
	return ScopeInsights{
		BestSport: insights.CalculateBestSport(picks),
		Streak:    insights.CalculateStreak(picks),
	}
}

func percent(v float64) string { return fmt.Sprintf("%.2f%%", v) }

func display(d Dashboard, currency string) Display {
	out := Display{
		Currency:        currency,
		NetInvested:     format.Money(d.Lifetime.NetInvested, currency),
		NetProfit:       format.Money(d.Lifetime.NetProfit, currency),
		Turnover:        format.Money(d.Lifetime.Turnover, currency),
		LifetimeROI:     percent(d.Lifetime.ROI),
		LifetimeWinRate: percent(d.Lifetime.WinRate),
	}
	if r := d.Run; r != nil {
		out.InitialBank = format.Money(r.InitialBank, currency)
		out.Equity = format.Money(r.Equity, currency)
		out.Profit = format.Money(r.Profit, currency)
		out.AvailableBankroll = format.Money(r.AvailableBankroll, currency)
		out.PendingStake = format.Money(r.PendingStake, currency)
		out.RunROI = percent(r.ROI)
		out.RunWinRate = percent(r.WinRate)
	}
	return out
}
