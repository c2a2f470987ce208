package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Valores monetários aceitam número ou string JSON ("100.50")

type OnboardingRequest struct {
	UserID          string          `json:"userId" validate:"required"`
	InitialBankroll decimal.Decimal `json:"initialBankroll" validate:"gt=0"`
	Currency        string          `json:"currency" validate:"omitempty,iso4217"`
	OddsFormat      string          `json:"oddsFormat" validate:"omitempty,oneof=AMERICAN DECIMAL"`
}

type PreferencesRequest struct {
	UserID     string `json:"userId" validate:"required"`
	Currency   string `json:"currency" validate:"required,iso4217"`
	OddsFormat string `json:"oddsFormat" validate:"required,oneof=AMERICAN DECIMAL"`
}

type TransactionRequest struct {
	UserID      string          `json:"userId" validate:"required"`
	Type        string          `json:"type" validate:"required,oneof=DEPOSIT WITHDRAWAL"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Description string          `json:"description" validate:"max=255"`
}

// CreatePickRequest: Odds no formato de OddsFormat (padrão DECIMAL).
// Entrada MANUAL usa EventDescription; SMART usa HomeTeam/AwayTeam/League.
type CreatePickRequest struct {
	UserID      string          `json:"userId" validate:"required"`
	MatchDate   time.Time       `json:"matchDate" validate:"required"`
	Sport       string          `json:"sport" validate:"required,max=32"`
	Stake       decimal.Decimal `json:"stake" validate:"gt=0"`
	Odds        float64         `json:"odds" validate:"required"`
	OddsFormat  string          `json:"oddsFormat" validate:"omitempty,oneof=AMERICAN DECIMAL"`
	Bonus       decimal.Decimal `json:"bonus" validate:"gte=0"`
	Selection   string          `json:"selection" validate:"required,max=255"`
	IsParlay    bool            `json:"isParlay"`
	Legs        int             `json:"legs" validate:"gte=0"` // parlay exige >= 2
	Composition string          `json:"composition" validate:"max=64"`

	EntryKind        string `json:"entryKind" validate:"omitempty,oneof=MANUAL SMART"`
	EventDescription string `json:"eventDescription" validate:"max=255"`
	HomeTeam         string `json:"homeTeam" validate:"required_if=EntryKind SMART,max=128"`
	AwayTeam         string `json:"awayTeam" validate:"required_if=EntryKind SMART,max=128"`
	League           string `json:"league" validate:"max=64"`
}

type SettlePickRequest struct {
	UserID string `json:"userId" validate:"required"`
	Status string `json:"status" validate:"required,oneof=WON LOST PUSH"`
}
