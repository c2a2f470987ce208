package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$1,500.50", Money(decimal.RequireFromString("1500.5"), "USD"))
	assert.Equal(t, "$1,500.51", Money(decimal.RequireFromString("1500.505"), "usd"))
	assert.Equal(t, "$12.30", Money(decimal.RequireFromString("12.3"), "ZZZ"))
}

func TestOdds(t *testing.T) {
	tests := []struct {
		odds float64
		f    OddsFormat
		want string
	}{
		{2.5, OddsAmerican, "+150"},
		{1.5, OddsAmerican, "-200"},
		{1.0, OddsAmerican, "-1000"},
		{2.5, OddsDecimal, "2.50"},
		{1.909, OddsDecimal, "1.91"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Odds(tt.odds, tt.f), "%v %s", tt.odds, tt.f)
	}
}

func TestToDecimalOdds(t *testing.T) {
	assert.Equal(t, 2.5, ToDecimalOdds(150, OddsAmerican))
	assert.Equal(t, 1.8, ToDecimalOdds(1.8, OddsDecimal))
}

func TestParseOddsFormat(t *testing.T) {
	f, err := ParseOddsFormat(" american ")
	require.NoError(t, err)
	assert.Equal(t, OddsAmerican, f)

	_, err = ParseOddsFormat("fractional")
	assert.Error(t, err)
}

func TestPreferencesDefaults(t *testing.T) {
	assert.Equal(t, Preferences{Currency: "MXN", OddsFormat: OddsDecimal}, DefaultPreferences())
	assert.Equal(t, Preferences{Currency: "USD", OddsFormat: OddsDecimal}, Preferences{Currency: "USD"}.WithDefaults())
	assert.True(t, IsCurrency("mxn"))
	assert.False(t, IsCurrency("ZZZ"))
}

func TestNormalizeSport(t *testing.T) {
	assert.Equal(t, "NBA", NormalizeSport(" nba"))
	assert.Equal(t, "OTHER", NormalizeSport("cricket"))
	assert.Equal(t, "OTHER", NormalizeSport(""))
}
