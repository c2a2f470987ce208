package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/radieske/bets-core/internal/bankroll/format"
	"github.com/radieske/bets-core/internal/bankroll/repo"
	"github.com/radieske/bets-core/internal/ledger"
	"github.com/radieske/bets-core/internal/ledger/insights"
	"github.com/radieske/bets-core/internal/shared/db"
	"github.com/radieske/bets-core/internal/shared/metrics"
	"github.com/radieske/bets-core/pkg/contracts/events"
)

var fixedNow = time.Date(2025, 9, 7, 12, 0, 0, 0, time.UTC)

type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
	fail  error
}

func newMemCache() *memCache { return &memCache{items: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, userID string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return false, c.fail
	}
	b, ok := c.items[userID]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) Set(_ context.Context, userID string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[userID] = b
	return nil
}

func (c *memCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, userID)
	return nil
}

func (c *memCache) has(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[userID]
	return ok
}

type recordingPublisher struct {
	mu   sync.Mutex
	evs  []events.LedgerEvent
	fail error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.evs = append(p.evs, ev)
	return nil
}

func (p *recordingPublisher) types() []events.LedgerEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.LedgerEventType, len(p.evs))
	for i, ev := range p.evs {
		out[i] = ev.Type
	}
	return out
}

type fixture struct {
	svc   *Ledger
	store *repo.Store
	cache *memCache
	pub   *recordingPublisher
	reg   *prometheus.Registry
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn, err := db.ConnectSQLite(filepath.Join(t.TempDir(), "bets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, repo.Migrate(context.Background(), conn, repo.SQLite))

	var mu sync.Mutex
	cur := fixedNow
	store := repo.New(conn, repo.SQLite).WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Minute)
		return cur
	})

	f := fixture{store: store, cache: newMemCache(), pub: &recordingPublisher{}, reg: prometheus.NewRegistry()}
	f.svc = NewLedger(zaptest.NewLogger(t), store,
		WithCache(f.cache),
		WithPublisher(f.pub),
		WithMetrics(metrics.NewLedger(f.reg)),
		WithClock(func() time.Time { return fixedNow }),
	)
	return f
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func pickInput(stake string, odds float64) repo.PickInput {
	return repo.PickInput{
		MatchDate: fixedNow.Add(24 * time.Hour),
		Sport:     "NFL",
		Stake:     money(stake),
		Odds:      odds,
		Selection: "Eagles ML",
		Entry:     ledger.MatchupEntry{HomeTeam: "Eagles", AwayTeam: "Cowboys"},
	}
}

func TestLedger_SingleWinScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Deposit(ctx, "u1", money("1000"), "")
	require.NoError(t, err)
	p, err := f.svc.CreatePick(ctx, "u1", pickInput("100", 2.0))
	require.NoError(t, err)
	_, err = f.svc.SettlePick(ctx, "u1", p.ID, ledger.StatusWon)
	require.NoError(t, err)

	d, err := f.svc.Dashboard(ctx, "u1")
	require.NoError(t, err)

	require.NotNil(t, d.Run)
	assert.True(t, d.Run.Profit.Equal(money("100")))
	assert.True(t, d.Run.Equity.Equal(money("1100")))
	assert.Equal(t, 100.0, d.Run.ROI)
	assert.True(t, d.Run.AvailableBankroll.Equal(money("1000")))
	assert.Equal(t, "MXN", d.Display.Currency)
	assert.Equal(t, "100.00%", d.Display.RunROI)

	assert.Equal(t, []events.LedgerEventType{
		events.RunOpened, events.DepositRecorded, events.PickCreated, events.PickSettled,
	}, f.pub.types())
}

func TestLedger_DashboardCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Deposit(ctx, "u1", money("500"), "")
	require.NoError(t, err)
	assert.False(t, f.cache.has("u1"))

	first, err := f.svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, f.cache.has("u1"))

	second, err := f.svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, second.Run)
	assert.True(t, first.Run.Equity.Equal(second.Run.Equity))
	assert.Equal(t, first.Trend.Run[0].Date, second.Trend.Run[0].Date)

	_, err = f.svc.CreatePick(ctx, "u1", pickInput("50", 1.9))
	require.NoError(t, err)
	assert.False(t, f.cache.has("u1"), "write invalidates cached dashboard")

	third, err := f.svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, third.Run.PendingStake.Equal(money("50")))
}

// racingStore executa afterSnapshot uma vez, logo depois da leitura do snapshot
type racingStore struct {
	Store
	once          sync.Once
	afterSnapshot func()
}

func (s *racingStore) Snapshot(ctx context.Context, userID string) (ledger.Snapshot, error) {
	snap, err := s.Store.Snapshot(ctx, userID)
	s.once.Do(s.afterSnapshot)
	return snap, err
}

func TestLedger_RefreshDoesNotCacheStaleDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.store.RecordTransaction(ctx, "u1", ledger.Deposit, money("1000"), "")
	require.NoError(t, err)

	var svc *Ledger
	rs := &racingStore{Store: f.store}
	rs.afterSnapshot = func() {
		_, err := svc.Deposit(ctx, "u1", money("500"), "")
		require.NoError(t, err)
	}
	svc = NewLedger(zaptest.NewLogger(t), rs,
		WithCache(f.cache),
		WithClock(func() time.Time { return fixedNow }),
	)

	first, err := svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, first.Lifetime.TotalDeposits.Equal(money("1000")))
	assert.False(t, f.cache.has("u1"), "dashboard read before the deposit must not be cached")

	second, err := svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, second.Lifetime.TotalDeposits.Equal(money("1500")))
	assert.True(t, f.cache.has("u1"))

	third, err := svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, third.Lifetime.TotalDeposits.Equal(money("1500")))
}

func TestLedger_CacheErrorsFallBackToStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.cache.fail = errors.New("redis down")

	_, err := f.svc.Deposit(ctx, "u1", money("10"), "")
	require.NoError(t, err)

	d, err := f.svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, d.Run.TotalDeposits.Equal(money("10")))
}

func TestLedger_PublishFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.pub.fail = errors.New("kafka down")

	mv, err := f.svc.Deposit(ctx, "u1", money("10"), "")
	require.NoError(t, err)
	assert.True(t, mv.RunOpened)
}

func TestLedger_WithdrawClosesRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Deposit(ctx, "u1", money("1000"), "")
	require.NoError(t, err)
	p, err := f.svc.CreatePick(ctx, "u1", pickInput("100", 2.0))
	require.NoError(t, err)
	_, err = f.svc.SettlePick(ctx, "u1", p.ID, ledger.StatusWon)
	require.NoError(t, err)

	mv, err := f.svc.Withdraw(ctx, "u1", money("1100"), "cash out")
	require.NoError(t, err)
	assert.True(t, mv.RunClosed)

	d, err := f.svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, d.ActiveRun)
	assert.Nil(t, d.Run)
	assert.Nil(t, d.Trend.Run)
	assert.True(t, d.Lifetime.NetProfit.Equal(money("100")))
	assert.True(t, d.Lifetime.NetInvested.Equal(money("-100")))

	types := f.pub.types()
	assert.Equal(t, []events.LedgerEventType{events.WithdrawalRecorded, events.RunClosed}, types[len(types)-2:])

	_, err = f.svc.CreatePick(ctx, "u1", pickInput("1", 2.0))
	assert.ErrorIs(t, err, repo.ErrNoActiveRun)
}

func TestLedger_RejectionsAreCounted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Deposit(ctx, "u1", money("10"), "")
	require.NoError(t, err)
	_, err = f.svc.CreatePick(ctx, "u1", pickInput("11", 2.0))
	require.ErrorIs(t, err, repo.ErrInsufficientFunds)

	expected := `
# HELP bankroll_rejections_total escritas recusadas por regra de negócio
# TYPE bankroll_rejections_total counter
bankroll_rejections_total{reason="insufficient_funds"} 1
`
	require.NoError(t, testutil.GatherAndCompare(f.reg, strings.NewReader(expected), "bankroll_rejections_total"))
	assert.Equal(t, "insufficient_funds", RejectionReason(err))
	assert.Equal(t, "", RejectionReason(errors.New("boom")))
}

func TestLedger_SettleTwicePublishesOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Deposit(ctx, "u1", money("100"), "")
	require.NoError(t, err)
	p, err := f.svc.CreatePick(ctx, "u1", pickInput("10", 2.0))
	require.NoError(t, err)

	_, err = f.svc.SettlePick(ctx, "u1", p.ID, ledger.StatusPush)
	require.NoError(t, err)
	_, err = f.svc.SettlePick(ctx, "u1", p.ID, ledger.StatusPush)
	require.NoError(t, err)

	settled := 0
	for _, typ := range f.pub.types() {
		if typ == events.PickSettled {
			settled++
		}
	}
	assert.Equal(t, 1, settled)
}

func TestLedger_OnboardAndPreferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Onboard(ctx, "u1", money("300"), format.Preferences{Currency: "USD", OddsFormat: format.OddsAmerican})
	require.NoError(t, err)
	assert.Equal(t, []events.LedgerEventType{events.UserOnboarded, events.RunOpened, events.DepositRecorded}, f.pub.types())

	d, err := f.svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "$300.00", d.Display.Equity)

	prefs, err := f.svc.UpdatePreferences(ctx, "u1", format.Preferences{Currency: "MXN", OddsFormat: format.OddsDecimal})
	require.NoError(t, err)
	assert.Equal(t, format.DefaultPreferences(), prefs)

	got, err := f.svc.Preferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, prefs, got)
}

func TestBuildDashboard_NoActiveRun(t *testing.T) {
	d := BuildDashboard("u1", ledger.Snapshot{}, format.Preferences{})

	assert.Nil(t, d.Run)
	assert.Nil(t, d.Trend.Run)
	require.Len(t, d.Trend.Lifetime, 1)
	assert.Equal(t, ledger.StartLabel, d.Trend.Lifetime[0].Date)
	assert.Equal(t, insights.StreakInsight{}, d.Insights.Lifetime.Streak)
	assert.Nil(t, d.Insights.Lifetime.BestSport)
	assert.Equal(t, "0.00%", d.Display.LifetimeROI)
	assert.Empty(t, d.Display.Equity)
	assert.Equal(t, format.DefaultPreferences(), d.Preferences)
}

func TestBuildDashboard_ScopesSeparately(t *testing.T) {
	at := fixedNow
	settled := at.Add(time.Hour)
	mk := func(id, runID, sport string, status ledger.PickStatus) ledger.Pick {
		p := ledger.Pick{ID: id, RunID: runID, Sport: sport, Stake: money("10"), Odds: 2.0, Status: status, CreatedAt: at}
		if status.Settled() {
			s := settled.Add(time.Duration(len(id)) * time.Minute)
			p.SettledAt = &s
		}
		return p
	}
	snap := ledger.Snapshot{
		Picks: []ledger.Pick{
			mk("a", "old", "NBA", ledger.StatusWon),
			mk("bb", "old", "NBA", ledger.StatusWon),
			mk("ccc", "cur", "NBA", ledger.StatusLost),
			mk("legacy", "", "NBA", ledger.StatusWon),
		},
		Transactions: []ledger.Transaction{
			{ID: "t1", RunID: "old", Type: ledger.Deposit, Amount: money("100"), CreatedAt: at},
			{ID: "t2", RunID: "old", Type: ledger.Withdrawal, Amount: money("120"), CreatedAt: at.Add(2 * time.Hour)},
			{ID: "t3", RunID: "cur", Type: ledger.Deposit, Amount: money("50"), CreatedAt: at.Add(3 * time.Hour)},
		},
		ActiveRun: &ledger.Run{ID: "cur", IsActive: true, StartedAt: at.Add(3 * time.Hour)},
	}

	d := BuildDashboard("u1", snap, format.DefaultPreferences())

	require.NotNil(t, d.Run)
	assert.True(t, d.Run.InitialBank.Equal(money("50")))
	assert.True(t, d.Run.Equity.Equal(money("40")))
	assert.Equal(t, 3, d.Lifetime.TotalBets, "legacy pick excluded")
	assert.True(t, d.Lifetime.NetProfit.Equal(money("10")))
	assert.Equal(t, insights.StreakInsight{WorstLoseStreak: 0, BestWinStreak: 2}, d.Insights.Lifetime.Streak)
	assert.Equal(t, insights.StreakInsight{}, d.Insights.Run.Streak)
}
