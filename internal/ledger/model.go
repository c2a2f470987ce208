// Package ledger é o motor de contabilidade da banca: funções puras que
// transformam picks e transações em métricas (equity, lucro, ROI, banca
// disponível) e em séries para gráficos. Nada aqui acessa storage ou relógio.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// PickStatus é o estado de uma aposta. PENDING é o único estado não terminal.
type PickStatus string

const (
	StatusPending PickStatus = "PENDING"
	StatusWon     PickStatus = "WON"
	StatusLost    PickStatus = "LOST"
	StatusPush    PickStatus = "PUSH"
)

// Settled indica se o status é terminal (WON, LOST ou PUSH)
func (s PickStatus) Settled() bool {
	return s == StatusWon || s == StatusLost || s == StatusPush
}

// Valid indica se o status é conhecido
func (s PickStatus) Valid() bool {
	return s == StatusPending || s.Settled()
}

// TransactionType é o tipo de movimentação de caixa
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
)

// Valid indica se o tipo é conhecido
func (t TransactionType) Valid() bool {
	return t == Deposit || t == Withdrawal
}

const (
	CompositionSingle = "SINGLE"
	LeagueCustom      = "CUSTOM"
)

// Entry descreve como a aposta foi registrada: texto livre ou confronto estruturado.
// A aritmética do ledger nunca lê a Entry.
type Entry interface {
	Kind() string
}

// ManualEntry é uma aposta descrita livremente pelo usuário
type ManualEntry struct {
	EventDescription string `json:"eventDescription"`
}

// Kind implementa Entry
func (ManualEntry) Kind() string { return "MANUAL" }

// MatchupEntry é uma aposta sobre um confronto mandante x visitante
type MatchupEntry struct {
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
	League   string `json:"league"`
}

// Kind implementa Entry
func (MatchupEntry) Kind() string { return "SMART" }

// Pick é uma aposta. RunID vazio marca registros anteriores ao sistema de runs.
type Pick struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	RunID       string          `json:"runId,omitempty"`
	MatchDate   time.Time       `json:"matchDate"`
	Sport       string          `json:"sport"`
	Stake       decimal.Decimal `json:"stake"`
	Odds        float64         `json:"odds"` // decimal, >= 1.01
	Bonus       decimal.Decimal `json:"bonus"`
	Selection   string          `json:"selection"`
	Status      PickStatus      `json:"status"`
	IsParlay    bool            `json:"isParlay"`
	Legs        int             `json:"legs"`
	Composition string          `json:"composition"`
	Entry       Entry           `json:"entry,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	SettledAt   *time.Time      `json:"settledAt,omitempty"`
}

// Transaction é um depósito ou saque
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	RunID       string          `json:"runId,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Run é um ciclo de banca: aberto por um depósito, fechado por um saque
type Run struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	IsActive  bool       `json:"isActive"`
}
