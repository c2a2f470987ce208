// Package odds converte formatos de odds e calcula retorno de apostas.
// Todas as funções são totais: entradas degeneradas caem em valores sentinela
// em vez de erro.
package odds

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// MinDecimal é a menor odd decimal aceita pela camada de validação
	MinDecimal = 1.01

	// AmericanFloor é devolvido para odds decimais degeneradas (< MinDecimal)
	AmericanFloor = -1000
)

// AmericanToDecimal converte odds americanas (+150, -200) para decimais (2.5, 1.5).
// Valores entre -100 e 100 não são odds americanas válidas e retornam 1.0.
func AmericanToDecimal(american float64) float64 {
	switch {
	case american >= 100:
		return american/100 + 1
	case american <= -100:
		return 100/math.Abs(american) + 1
	default:
		return 1.0
	}
}

// DecimalToAmerican converte odds decimais para americanas.
// O arredondamento segue "half up" (x.5 sobe), inclusive para negativos.
func DecimalToAmerican(dec float64) int {
	if dec < MinDecimal {
		return AmericanFloor
	}
	if dec >= 2.0 {
		return roundHalfUp((dec - 1) * 100)
	}
	return roundHalfUp(-100 / (dec - 1))
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// PotentialProfit retorna apenas o lucro de uma aposta vencedora (sem o principal):
// stake*odds + bonus - stake
func PotentialProfit(stake decimal.Decimal, decimalOdds float64, bonus decimal.Decimal) decimal.Decimal {
	return stake.Mul(decimal.NewFromFloat(decimalOdds)).Add(bonus).Sub(stake)
}

// Payout é o valor total devolvido numa vitória (principal + lucro)
func Payout(stake decimal.Decimal, decimalOdds float64, bonus decimal.Decimal) decimal.Decimal {
	return stake.Add(PotentialProfit(stake, decimalOdds, bonus))
}
