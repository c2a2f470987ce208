package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/radieske/bets-core/internal/ledger/odds"
)

// StartLabel marca o ponto sintético inicial da série
const StartLabel = "Start"

const dayLayout = "2006-01-02"

// ChartPoint é um ponto da série de saldo
type ChartPoint struct {
	Date    string          `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// TrendKey escolhe o instante usado para ordenar e agrupar as apostas
type TrendKey func(Pick) time.Time

var (
	ByCreation  TrendKey = func(p Pick) time.Time { return p.CreatedAt }
	ByMatchDate TrendKey = func(p Pick) time.Time { return p.MatchDate }
)

// BuildTrend gera a série diária do saldo a partir de initial.
// Cada dia (UTC) recebe o saldo acumulado após o último evento daquele dia.
// Apostas pendentes são ignoradas; PUSH não altera o saldo.
func BuildTrend(picks []Pick, initial decimal.Decimal, key TrendKey) []ChartPoint {
	if key == nil {
		key = ByCreation
	}

	settled := make([]Pick, 0, len(picks))
	for _, p := range picks {
		if p.Status.Settled() {
			settled = append(settled, p)
		}
	}
	sort.SliceStable(settled, func(i, j int) bool {
		return key(settled[i]).Before(key(settled[j]))
	})

	points := []ChartPoint{{Date: StartLabel, Balance: initial.Round(2)}}

	balance := initial
	for _, p := range settled {
		switch p.Status {
		case StatusWon:
			balance = balance.Add(odds.PotentialProfit(p.Stake, p.Odds, p.Bonus))
		case StatusLost:
			balance = balance.Sub(p.Stake)
		}

		day := key(p).UTC().Format(dayLayout)
		last := &points[len(points)-1]
		if last.Date == day {
			last.Balance = balance.Round(2) // sobrescreve: fica o último saldo do dia
			continue
		}
		points = append(points, ChartPoint{Date: day, Balance: balance.Round(2)})
	}
	return points
}
