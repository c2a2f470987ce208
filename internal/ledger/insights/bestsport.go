package insights

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/radieske/bets-core/internal/ledger"
	"github.com/radieske/bets-core/internal/ledger/odds"
)

// MinBets é o mínimo de apostas liquidadas, no total e por esporte
const MinBets = 5

var hundred = decimal.NewFromInt(100)

type BestSportInsight struct {
	Sport     string          `json:"sport"`
	Profit    decimal.Decimal `json:"profit"`
	WinRate   float64         `json:"winRate"`
	TotalBets int             `json:"totalBets"`
}

type sportTally struct {
	sport   string
	bets    int
	wins    int
	wagered decimal.Decimal
	profit  decimal.Decimal
}

func (s sportTally) winRate() float64 {
	if s.bets == 0 {
		return 0
	}
	return float64(s.wins) / float64(s.bets) * 100
}

func (s sportTally) roi() float64 {
	if !s.wagered.IsPositive() {
		return 0
	}
	return s.profit.Div(s.wagered).Mul(hundred).InexactFloat64()
}

// CalculateBestSport retorna o esporte mais lucrativo ou nil quando a amostra
// não atinge MinBets. Empate: lucro, depois ROI, depois win rate.
func CalculateBestSport(picks []ledger.Pick) *BestSportInsight {
	var settled []ledger.Pick
	for _, p := range picks {
		if p.Status.Settled() {
			settled = append(settled, p)
		}
	}
	if len(settled) < MinBets {
		return nil
	}

	index := map[string]int{}
	var tallies []sportTally
	for _, p := range settled {
		i, ok := index[p.Sport]
		if !ok {
			i = len(tallies)
			index[p.Sport] = i
			tallies = append(tallies, sportTally{sport: p.Sport})
		}
		t := &tallies[i]
		t.bets++
		t.wagered = t.wagered.Add(p.Stake)

		switch p.Status {
		case ledger.StatusWon:
			t.wins++
			t.profit = t.profit.Add(odds.PotentialProfit(p.Stake, p.Odds, p.Bonus))
		case ledger.StatusLost:
			t.profit = t.profit.Sub(p.Stake)
		}
	}

	candidates := tallies[:0]
	for _, t := range tallies {
		if t.bets >= MinBets {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if c := a.profit.Cmp(b.profit); c != 0 {
			return c > 0
		}
		if ra, rb := a.roi(), b.roi(); ra != rb {
			return ra > rb
		}
		return a.winRate() > b.winRate()
	})

	best := candidates[0]
	return &BestSportInsight{
		Sport:     best.sport,
		Profit:    best.profit.Round(2),
		WinRate:   round2(best.winRate()),
		TotalBets: best.bets,
	}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
