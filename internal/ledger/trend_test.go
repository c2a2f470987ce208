package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTrend_Empty(t *testing.T) {
	points := BuildTrend(nil, dec(500), ByCreation)

	require.Len(t, points, 1)
	assert.Equal(t, StartLabel, points[0].Date)
	assert.True(t, points[0].Balance.Equal(dec(500)))
}

func TestBuildTrend_SameDayKeepsLastRunningBalance(t *testing.T) {
	day1 := time.Date(2025, 9, 7, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 9, 8, 9, 0, 0, 0, time.UTC)

	picks := []Pick{
		pick("r1", StatusLost, 50, 2.0, day1.Add(5*time.Hour)), // 1050
		pick("r1", StatusWon, 100, 2.0, day1),                  // 1100
		pick("r1", StatusPending, 300, 2.0, day1.Add(time.Hour)),
		pick("r1", StatusPush, 20, 2.0, day2),
		pick("r1", StatusWon, 10, 1.5, day2.Add(time.Hour)), // 1055
	}

	points := BuildTrend(picks, dec(1000), ByCreation)

	require.Len(t, points, 3)
	assert.Equal(t, "Start", points[0].Date)
	assert.Equal(t, "2025-09-07", points[1].Date)
	assert.True(t, points[1].Balance.Equal(dec(1050)), "day1 %s", points[1].Balance)
	assert.Equal(t, "2025-09-08", points[2].Date)
	assert.True(t, points[2].Balance.Equal(dec(1055)), "day2 %s", points[2].Balance)
}

func TestBuildTrend_ByMatchDate(t *testing.T) {
	created := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	p := pick("r1", StatusWon, 100, 2.0, created)
	p.MatchDate = time.Date(2025, 9, 14, 18, 0, 0, 0, time.UTC)

	points := BuildTrend([]Pick{p}, dec(0), ByMatchDate)

	require.Len(t, points, 2)
	assert.Equal(t, "2025-09-14", points[1].Date)
}

func TestBuildTrend_RoundsForDisplay(t *testing.T) {
	picks := []Pick{
		pick("r1", StatusWon, 10, 1.3333, t0),
		pick("r1", StatusWon, 10, 1.3333, t0.Add(24*time.Hour)),
	}

	points := BuildTrend(picks, dec(0), nil)

	require.Len(t, points, 3)
	assert.Equal(t, "3.33", points[1].Balance.StringFixed(2))
	// 3.333 + 3.333 acumulado sem arredondar
	assert.Equal(t, "6.67", points[2].Balance.StringFixed(2))
}
