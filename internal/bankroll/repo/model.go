package repo

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/radieske/bets-core/internal/bankroll/format"
	"github.com/radieske/bets-core/internal/ledger"
)

// PickInput são os dados de uma nova aposta; odds já em formato decimal
type PickInput struct {
	MatchDate   time.Time
	Sport       string
	Stake       decimal.Decimal
	Odds        float64
	Bonus       decimal.Decimal
	Selection   string
	IsParlay    bool
	Legs        int
	Composition string
	Entry       ledger.Entry
}

// Account guarda preferências e o estado de onboarding do usuário
type Account struct {
	UserID      string             `json:"userId"`
	Preferences format.Preferences `json:"preferences"`
	Onboarded   bool               `json:"onboarded"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// Movement é o resultado de um depósito ou saque e o efeito sobre a run
type Movement struct {
	Transaction ledger.Transaction
	Run         ledger.Run
	RunOpened   bool
	RunClosed   bool
}
