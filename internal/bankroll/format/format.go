// Package format converte valores do ledger para exibição conforme as
// preferências do usuário. Nenhuma função aqui altera o ledger.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/radieske/bets-core/internal/ledger/odds"
)

type OddsFormat string

const (
	OddsAmerican OddsFormat = "AMERICAN"
	OddsDecimal  OddsFormat = "DECIMAL"
)

const (
	DefaultCurrency   = "MXN"
	DefaultOddsFormat = OddsDecimal
)

// Preferences é somente leitura para a camada de apresentação
type Preferences struct {
	Currency   string     `json:"currency"`
	OddsFormat OddsFormat `json:"oddsFormat"`
}

func DefaultPreferences() Preferences {
	return Preferences{Currency: DefaultCurrency, OddsFormat: DefaultOddsFormat}
}

// WithDefaults preenche campos vazios
func (p Preferences) WithDefaults() Preferences {
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if p.OddsFormat == "" {
		p.OddsFormat = DefaultOddsFormat
	}
	return p
}

func ParseOddsFormat(s string) (OddsFormat, error) {
	switch OddsFormat(strings.ToUpper(strings.TrimSpace(s))) {
	case OddsAmerican:
		return OddsAmerican, nil
	case OddsDecimal:
		return OddsDecimal, nil
	}
	return "", fmt.Errorf("unknown odds format %q", s)
}

// IsCurrency informa se o código ISO é conhecido
func IsCurrency(code string) bool {
	return money.GetCurrency(strings.ToUpper(code)) != nil
}

// Money formata um valor na moeda informada; código desconhecido cai em "$0.00"
func Money(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return "$" + amount.StringFixed(2)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

// Odds exibe odds decimais no formato pedido
func Odds(decimalOdds float64, f OddsFormat) string {
	if f == OddsAmerican {
		a := odds.DecimalToAmerican(decimalOdds)
		if a > 0 {
			return "+" + strconv.Itoa(a)
		}
		return strconv.Itoa(a)
	}
	return strconv.FormatFloat(decimalOdds, 'f', 2, 64)
}

// ToDecimalOdds converte a entrada do usuário para odds decimais
func ToDecimalOdds(value float64, f OddsFormat) float64 {
	if f == OddsAmerican {
		return odds.AmericanToDecimal(value)
	}
	return value
}
