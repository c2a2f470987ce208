package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/radieske/bets-core/internal/bankroll/format"
	"github.com/radieske/bets-core/internal/ledger"
	"github.com/radieske/bets-core/internal/ledger/odds"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MovementResponse struct {
	Transaction ledger.Transaction `json:"transaction"`
	Run         ledger.Run         `json:"run"`
	RunOpened   bool               `json:"runOpened"`
	RunClosed   bool               `json:"runClosed"`
}

// PickResponse achata a Entry e traz odds/valores formatados
type PickResponse struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"`
	RunID       string            `json:"runId,omitempty"`
	MatchDate   time.Time         `json:"matchDate"`
	Sport       string            `json:"sport"`
	Stake       decimal.Decimal   `json:"stake"`
	Odds        float64           `json:"odds"`
	Bonus       decimal.Decimal   `json:"bonus"`
	Selection   string            `json:"selection"`
	Status      ledger.PickStatus `json:"status"`
	IsParlay    bool              `json:"isParlay"`
	Legs        int               `json:"legs"`
	Composition string            `json:"composition"`
	EntryKind   string            `json:"entryKind"`

	EventDescription string `json:"eventDescription,omitempty"` // MANUAL
	HomeTeam         string `json:"homeTeam,omitempty"`         // SMART
	AwayTeam         string `json:"awayTeam,omitempty"`
	League           string `json:"league,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	SettledAt *time.Time `json:"settledAt,omitempty"`

	DisplayOdds   string `json:"displayOdds"`
	DisplayStake  string `json:"displayStake"`
	DisplayPayout string `json:"displayPayout"`
}

func NewPickResponse(p ledger.Pick, prefs format.Preferences) PickResponse {
	prefs = prefs.WithDefaults()
	out := PickResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		RunID:       p.RunID,
		MatchDate:   p.MatchDate,
		Sport:       p.Sport,
		Stake:       p.Stake,
		Odds:        p.Odds,
		Bonus:       p.Bonus,
		Selection:   p.Selection,
		Status:      p.Status,
		IsParlay:    p.IsParlay,
		Legs:        p.Legs,
		Composition: p.Composition,
		CreatedAt:   p.CreatedAt,
		SettledAt:   p.SettledAt,

		DisplayOdds:   format.Odds(p.Odds, prefs.OddsFormat),
		DisplayStake:  format.Money(p.Stake, prefs.Currency),
		DisplayPayout: format.Money(odds.Payout(p.Stake, p.Odds, p.Bonus), prefs.Currency),
	}
	switch e := p.Entry.(type) {
	case ledger.ManualEntry:
		out.EntryKind = e.Kind()
		out.EventDescription = e.EventDescription
	case ledger.MatchupEntry:
		out.EntryKind = e.Kind()
		out.HomeTeam, out.AwayTeam, out.League = e.HomeTeam, e.AwayTeam, e.League
	}
	return out
}

func NewPickResponses(picks []ledger.Pick, prefs format.Preferences) []PickResponse {
	out := make([]PickResponse, 0, len(picks))
	for _, p := range picks {
		out = append(out, NewPickResponse(p, prefs))
	}
	return out
}

// OddsConversion é a resposta do conversor de odds
type OddsConversion struct {
	Decimal  float64 `json:"decimal"`
	American int     `json:"american"`
	Display  string  `json:"display"` // formato americano com sinal
}
