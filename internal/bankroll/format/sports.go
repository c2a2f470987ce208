package format

import "strings"

const SportOther = "OTHER"

var Sports = []string{"NFL", "BASEBALL", "SOCCER", "NBA", "MLB", "F1", "TENNIS", "UFC", SportOther}

// NormalizeSport devolve o esporte conhecido em caixa alta ou OTHER
func NormalizeSport(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, known := range Sports {
		if s == known {
			return s
		}
	}
	return SportOther
}
