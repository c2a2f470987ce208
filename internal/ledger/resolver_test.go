package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionByRun(t *testing.T) {
	picks := []Pick{
		pick("r1", StatusWon, 10, 2, t0),
		pick("r2", StatusLost, 10, 2, t0.Add(time.Hour)),
		pick("", StatusWon, 10, 2, t0.Add(2*time.Hour)),
	}
	txs := []Transaction{
		tx("r1", Deposit, 100, t0),
		tx("", Deposit, 999, t0),
	}

	parts := PartitionByRun(picks, txs)

	require.Len(t, parts, 2)
	assert.Len(t, parts["r1"].Picks, 1)
	assert.Len(t, parts["r1"].Transactions, 1)
	assert.Len(t, parts["r2"].Picks, 1)
	assert.Empty(t, parts["r2"].Transactions)
}

func TestActiveRun(t *testing.T) {
	ended := t0.Add(time.Hour)
	runs := []Run{
		{ID: "old", StartedAt: t0, EndedAt: &ended},
		{ID: "cur", StartedAt: t0.Add(2 * time.Hour), IsActive: true},
	}

	got := ActiveRun(runs)
	require.NotNil(t, got)
	assert.Equal(t, "cur", got.ID)

	assert.Nil(t, ActiveRun(runs[:1]))
	assert.Nil(t, ActiveRun(nil))
}

func TestActiveRun_MalformedPicksLatest(t *testing.T) {
	runs := []Run{
		{ID: "a", StartedAt: t0.Add(time.Hour), IsActive: true},
		{ID: "b", StartedAt: t0, IsActive: true},
	}

	assert.Equal(t, "a", ActiveRun(runs).ID)
}

func TestSnapshot_Scopes(t *testing.T) {
	snap := Snapshot{
		Picks: []Pick{
			pick("r1", StatusWon, 10, 2, t0),
			pick("r2", StatusWon, 10, 2, t0),
			pick("", StatusWon, 10, 2, t0),
		},
		Transactions: []Transaction{
			tx("r2", Deposit, 50, t0),
			tx("", Deposit, 50, t0),
		},
		ActiveRun: &Run{ID: "r2", IsActive: true},
	}

	run, ok := snap.RunPartition()
	require.True(t, ok)
	assert.Len(t, run.Picks, 1)
	assert.Len(t, run.Transactions, 1)

	life := snap.Lifetime()
	assert.Len(t, life.Picks, 2)
	assert.Len(t, life.Transactions, 1)

	snap.ActiveRun = nil
	_, ok = snap.RunPartition()
	assert.False(t, ok)
}
