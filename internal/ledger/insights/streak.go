package insights

import (
	"encoding/json"
	"sort"

	"github.com/radieske/bets-core/internal/ledger"
)

// streakFloor: sequências de 1 não são exibidas
const streakFloor = 2

type StreakType string

const (
	StreakNone StreakType = ""
	StreakWin  StreakType = "WIN"
	StreakLoss StreakType = "LOSS"
)

// MarshalJSON serializa StreakNone como null
func (s StreakType) MarshalJSON() ([]byte, error) {
	if s == StreakNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

func (s *StreakType) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = StreakNone
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = StreakType(v)
	return nil
}

type CurrentStreak struct {
	Type  StreakType `json:"type"`
	Count int        `json:"count"`
}

type StreakInsight struct {
	CurrentStreak   CurrentStreak `json:"currentStreak"`
	BestWinStreak   int           `json:"bestWinStreak"`
	WorstLoseStreak int           `json:"worstLoseStreak"`
}

// CalculateStreak percorre as apostas liquidadas em ordem de SettledAt.
// PUSH zera as duas contagens.
func CalculateStreak(picks []ledger.Pick) StreakInsight {
	settled := make([]ledger.Pick, 0, len(picks))
	for _, p := range picks {
		if p.Status.Settled() && p.SettledAt != nil {
			settled = append(settled, p)
		}
	}
	sort.SliceStable(settled, func(i, j int) bool {
		return settled[i].SettledAt.Before(*settled[j].SettledAt)
	})

	var win, loss, bestWin, worstLoss int
	for _, p := range settled {
		switch p.Status {
		case ledger.StatusPush:
			win, loss = 0, 0
		case ledger.StatusWon:
			win++
			loss = 0
			bestWin = max(bestWin, win)
		case ledger.StatusLost:
			loss++
			win = 0
			worstLoss = max(worstLoss, loss)
		}
	}

	out := StreakInsight{
		BestWinStreak:   floor(bestWin),
		WorstLoseStreak: floor(worstLoss),
	}
	switch {
	case win >= streakFloor:
		out.CurrentStreak = CurrentStreak{Type: StreakWin, Count: win}
	case loss >= streakFloor:
		out.CurrentStreak = CurrentStreak{Type: StreakLoss, Count: loss}
	}
	return out
}

func floor(n int) int {
	if n < streakFloor {
		return 0
	}
	return n
}
