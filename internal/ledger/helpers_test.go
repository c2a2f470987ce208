package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

var t0 = time.Date(2025, 9, 7, 12, 0, 0, 0, time.UTC)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func pick(runID string, status PickStatus, stake, decimalOdds float64, at time.Time) Pick {
	p := Pick{
		ID:          "p-" + at.Format(time.RFC3339Nano),
		UserID:      "u1",
		RunID:       runID,
		MatchDate:   at,
		Sport:       "NFL",
		Stake:       dec(stake),
		Odds:        decimalOdds,
		Status:      status,
		Legs:        1,
		Composition: CompositionSingle,
		Entry:       ManualEntry{EventDescription: "game"},
		CreatedAt:   at,
	}
	if status.Settled() {
		settled := at.Add(3 * time.Hour)
		p.SettledAt = &settled
	}
	return p
}

func tx(runID string, typ TransactionType, amount float64, at time.Time) Transaction {
	return Transaction{
		ID:        "t-" + at.Format(time.RFC3339Nano),
		UserID:    "u1",
		RunID:     runID,
		Type:      typ,
		Amount:    dec(amount),
		CreatedAt: at,
	}
}

func equalDec(a, b decimal.Decimal) bool { return a.Equal(b) }
