package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/radieske/bets-core/internal/ledger/odds"
)

var hundred = decimal.NewFromInt(100)

// RunStats são as métricas da run ativa: performance (equity) e liquidez
type RunStats struct {
	// Performance
	InitialBank decimal.Decimal `json:"initialBank"` // primeiro depósito da run
	Equity      decimal.Decimal `json:"equity"`      // initialBank + profit
	Profit      decimal.Decimal `json:"profit"`
	ROI         float64         `json:"roi"`

	// Liquidez
	AvailableBankroll decimal.Decimal `json:"availableBankroll"`
	PendingStake      decimal.Decimal `json:"pendingStake"`
	TotalDeposits     decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals  decimal.Decimal `json:"totalWithdrawals"`

	// Meta
	TotalBets   int             `json:"totalBets"`
	SettledBets int             `json:"settledBets"`
	Wins        int             `json:"wins"`
	WinRate     float64         `json:"winRate"`
	Turnover    decimal.Decimal `json:"turnover"`
	IsProfit    bool            `json:"isProfit"`
}

// LifetimeStats agrega todas as runs; é puramente histórico
type LifetimeStats struct {
	TotalDeposits    decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals decimal.Decimal `json:"totalWithdrawals"`
	NetInvested      decimal.Decimal `json:"netInvested"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	ROI              float64         `json:"roi"`
	TotalBets        int             `json:"totalBets"`
	WinRate          float64         `json:"winRate"`
	Turnover         decimal.Decimal `json:"turnover"`
}

// settlement acumula a aritmética de liquidação comum a run e lifetime
type settlement struct {
	wagered  decimal.Decimal // só apostas liquidadas
	returned decimal.Decimal
	pending  decimal.Decimal
	wins     int
	settled  int
}

func settle(picks []Pick) settlement {
	var s settlement
	for _, p := range picks {
		if !p.Status.Settled() {
			s.pending = s.pending.Add(p.Stake)
			continue
		}

		s.wagered = s.wagered.Add(p.Stake)
		s.settled++

		switch p.Status {
		case StatusWon:
			s.returned = s.returned.Add(odds.Payout(p.Stake, p.Odds, p.Bonus))
			s.wins++
		case StatusPush:
			s.returned = s.returned.Add(p.Stake)
		}
		// LOST: nada volta
	}
	return s
}

func (s settlement) profit() decimal.Decimal { return s.returned.Sub(s.wagered) }

func (s settlement) roi() float64 {
	if s.wagered.IsZero() {
		return 0
	}
	return s.profit().Div(s.wagered).Mul(hundred).InexactFloat64()
}

func (s settlement) winRate() float64 {
	if s.settled == 0 {
		return 0
	}
	return float64(s.wins) / float64(s.settled) * 100
}

type cashflow struct {
	deposits    decimal.Decimal
	withdrawals decimal.Decimal
}

func sumCashflow(txs []Transaction) cashflow {
	var c cashflow
	for _, t := range txs {
		switch t.Type {
		case Deposit:
			c.deposits = c.deposits.Add(t.Amount)
		case Withdrawal:
			c.withdrawals = c.withdrawals.Add(t.Amount)
		}
	}
	return c
}

// initialBank é o valor do primeiro depósito (não a soma). A entrada não é reordenada.
// O storage grava created_at estritamente crescente por usuário; se houver empate,
// vale a ordem de entrada.
func initialBank(txs []Transaction) decimal.Decimal {
	deposits := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Type == Deposit {
			deposits = append(deposits, t)
		}
	}
	if len(deposits) == 0 {
		return decimal.Zero
	}
	sort.SliceStable(deposits, func(i, j int) bool {
		return deposits[i].CreatedAt.Before(deposits[j].CreatedAt)
	})
	return deposits[0].Amount
}

// CalculateRunStats calcula as métricas de uma run a partir dos seus picks e transações
func CalculateRunStats(picks []Pick, txs []Transaction) RunStats {
	cash := sumCashflow(txs)
	s := settle(picks)

	initial := initialBank(txs)
	profit := s.profit()

	available := cash.deposits.Sub(cash.withdrawals).Sub(s.pending)
	if available.IsNegative() {
		available = decimal.Zero
	}

	return RunStats{
		InitialBank: initial,
		Equity:      initial.Add(profit),
		Profit:      profit,
		ROI:         s.roi(),

		AvailableBankroll: available,
		PendingStake:      s.pending,
		TotalDeposits:     cash.deposits,
		TotalWithdrawals:  cash.withdrawals,

		TotalBets:   len(picks),
		SettledBets: s.settled,
		Wins:        s.wins,
		WinRate:     s.winRate(),
		Turnover:    s.wagered,
		IsProfit:    !profit.IsNegative(),
	}
}

// CanStake diz se uma nova aposta cabe na banca disponível da run
func CanStake(stats RunStats, stake decimal.Decimal) bool {
	return stake.IsPositive() && stake.LessThanOrEqual(stats.AvailableBankroll)
}

// CalculateLifetimeStats aplica a mesma aritmética sobre todas as runs
func CalculateLifetimeStats(picks []Pick, txs []Transaction) LifetimeStats {
	cash := sumCashflow(txs)
	s := settle(picks)

	return LifetimeStats{
		TotalDeposits:    cash.deposits,
		TotalWithdrawals: cash.withdrawals,
		NetInvested:      cash.deposits.Sub(cash.withdrawals),
		NetProfit:        s.profit(),
		ROI:              s.roi(),
		TotalBets:        len(picks),
		WinRate:          s.winRate(),
		Turnover:         s.wagered,
	}
}
