// Package service orquestra o storage, o cache do dashboard, a publicação de
// eventos e as métricas em volta do motor puro de internal/ledger.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/bets-core/internal/bankroll/format"
	"github.com/radieske/bets-core/internal/bankroll/repo"
	"github.com/radieske/bets-core/internal/ledger"
	"github.com/radieske/bets-core/internal/shared/metrics"
	"github.com/radieske/bets-core/pkg/contracts/events"
)

// Store é o storage transacional do ledger (repo.Store)
type Store interface {
	Onboard(ctx context.Context, userID string, initial decimal.Decimal, prefs format.Preferences) (repo.Movement, error)
	Preferences(ctx context.Context, userID string) (format.Preferences, error)
	UpdatePreferences(ctx context.Context, userID string, prefs format.Preferences) (format.Preferences, error)
	RecordTransaction(ctx context.Context, userID string, typ ledger.TransactionType, amount decimal.Decimal, description string) (repo.Movement, error)
	CreatePick(ctx context.Context, userID string, in repo.PickInput) (ledger.Pick, error)
	SettlePick(ctx context.Context, userID, pickID string, status ledger.PickStatus) (ledger.Pick, bool, error)
	DeletePick(ctx context.Context, userID, pickID string) (ledger.Pick, error)
	Snapshot(ctx context.Context, userID string) (ledger.Snapshot, error)
	ListPicks(ctx context.Context, userID string) ([]ledger.Pick, error)
	ListTransactions(ctx context.Context, userID string) ([]ledger.Transaction, error)
	ListRuns(ctx context.Context, userID string) ([]ledger.Run, error)
}

// Publisher publica eventos do ledger (Kafka)
type Publisher interface {
	Publish(ctx context.Context, ev events.LedgerEvent) error
}

// DashboardCache guarda o dashboard calculado (Redis)
type DashboardCache interface {
	Get(ctx context.Context, userID string, dst any) (bool, error)
	Set(ctx context.Context, userID string, v any) error
	Invalidate(ctx context.Context, userID string) error
}

type Option func(*Ledger)

func WithCache(c DashboardCache) Option { return func(l *Ledger) { l.cache = c } }
func WithPublisher(p Publisher) Option { return func(l *Ledger) { l.pub = p } }
func WithMetrics(m *metrics.Ledger) Option { return func(l *Ledger) { l.metrics = m } }
func WithClock(now func() time.Time) Option { return func(l *Ledger) { l.now = now } }

// Ledger expõe as operações de escrita e leitura da banca.
// Cache e publisher são opcionais; falhas neles não desfazem a escrita.
type Ledger struct {
	log     *zap.Logger
	store   Store
	cache   DashboardCache
	pub     Publisher
	metrics *metrics.Ledger
	now     func() time.Time

	// gens conta as escritas por usuário; Refresh não grava no cache um
	// dashboard lido antes de uma escrita concorrente.
	genMu sync.Mutex
	gens  map[string]uint64
}

func NewLedger(log *zap.Logger, store Store, opts ...Option) *Ledger {
	l := &Ledger{log: log, store: store, now: time.Now, gens: map[string]uint64{}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) Onboard(ctx context.Context, userID string, initial decimal.Decimal, prefs format.Preferences) (mv repo.Movement, err error) {
	defer l.observe("onboard", time.Now(), &err)

	if mv, err = l.store.Onboard(ctx, userID, initial, prefs); err != nil {
		return repo.Movement{}, err
	}
	l.log.Info("user onboarded", zap.String("userId", userID), zap.String("runId", mv.Run.ID),
		zap.String("initialBankroll", initial.String()))

	l.afterWrite(ctx, userID,
		l.event(events.UserOnboarded, userID, mv.Run.ID, "", "", ""),
		l.movementEvents(mv)...)
	return mv, nil
}

func (l *Ledger) Preferences(ctx context.Context, userID string) (format.Preferences, error) {
	return l.store.Preferences(ctx, userID)
}

func (l *Ledger) UpdatePreferences(ctx context.Context, userID string, prefs format.Preferences) (out format.Preferences, err error) {
	defer l.observe("update_preferences", time.Now(), &err)

	if out, err = l.store.UpdatePreferences(ctx, userID, prefs); err != nil {
		return format.Preferences{}, err
	}
	l.afterWrite(ctx, userID, l.event(events.PreferencesUpdated, userID, "", "", "", ""))
	return out, nil
}

// Deposit registra um depósito; abre uma run quando não há run ativa
func (l *Ledger) Deposit(ctx context.Context, userID string, amount decimal.Decimal, description string) (repo.Movement, error) {
	return l.recordTransaction(ctx, "deposit", userID, ledger.Deposit, amount, description)
}

// Withdraw registra um saque e encerra a run ativa
func (l *Ledger) Withdraw(ctx context.Context, userID string, amount decimal.Decimal, description string) (repo.Movement, error) {
	return l.recordTransaction(ctx, "withdraw", userID, ledger.Withdrawal, amount, description)
}

func (l *Ledger) recordTransaction(ctx context.Context, op, userID string, typ ledger.TransactionType, amount decimal.Decimal, description string) (mv repo.Movement, err error) {
	defer l.observe(op, time.Now(), &err)

	if mv, err = l.store.RecordTransaction(ctx, userID, typ, amount, description); err != nil {
		return repo.Movement{}, err
	}
	l.log.Info("transaction recorded", zap.String("userId", userID), zap.String("type", string(typ)),
		zap.String("amount", amount.String()), zap.String("runId", mv.Run.ID),
		zap.Bool("runOpened", mv.RunOpened), zap.Bool("runClosed", mv.RunClosed))

	evs := l.movementEvents(mv)
	l.afterWrite(ctx, userID, evs[0], evs[1:]...)
	return mv, nil
}

// movementEvents: abertura de run antes do depósito, fechamento depois do saque
func (l *Ledger) movementEvents(mv repo.Movement) []events.LedgerEvent {
	t := mv.Transaction
	evType := events.DepositRecorded
	if t.Type == ledger.Withdrawal {
		evType = events.WithdrawalRecorded
	}
	tx := l.event(evType, t.UserID, t.RunID, t.ID, "", t.Amount.String())

	var out []events.LedgerEvent
	if mv.RunOpened {
		out = append(out, l.event(events.RunOpened, t.UserID, mv.Run.ID, mv.Run.ID, "", ""))
	}
	out = append(out, tx)
	if mv.RunClosed {
		out = append(out, l.event(events.RunClosed, t.UserID, mv.Run.ID, mv.Run.ID, "", ""))
	}
	return out
}

// CreatePick registra uma aposta pendente se a banca disponível comportar a stake
func (l *Ledger) CreatePick(ctx context.Context, userID string, in repo.PickInput) (p ledger.Pick, err error) {
	defer l.observe("create_pick", time.Now(), &err)

	if p, err = l.store.CreatePick(ctx, userID, in); err != nil {
		return ledger.Pick{}, err
	}
	l.log.Info("pick created", zap.String("userId", userID), zap.String("pickId", p.ID),
		zap.String("stake", p.Stake.String()), zap.Float64("odds", p.Odds))

	l.afterWrite(ctx, userID, l.event(events.PickCreated, userID, p.RunID, p.ID, string(p.Status), p.Stake.String()))
	return p, nil
}

func (l *Ledger) SettlePick(ctx context.Context, userID, pickID string, status ledger.PickStatus) (p ledger.Pick, err error) {
	defer l.observe("settle_pick", time.Now(), &err)

	p, changed, err := l.store.SettlePick(ctx, userID, pickID, status)
	if err != nil {
		return ledger.Pick{}, err
	}
	if !changed {
		l.log.Debug("pick already settled with same status", zap.String("pickId", pickID))
		return p, nil
	}
	l.log.Info("pick settled", zap.String("userId", userID), zap.String("pickId", p.ID), zap.String("status", string(p.Status)))

	l.afterWrite(ctx, userID, l.event(events.PickSettled, userID, p.RunID, p.ID, string(p.Status), p.Stake.String()))
	return p, nil
}

func (l *Ledger) DeletePick(ctx context.Context, userID, pickID string) (err error) {
	defer l.observe("delete_pick", time.Now(), &err)

	p, err := l.store.DeletePick(ctx, userID, pickID)
	if err != nil {
		return err
	}
	l.log.Info("pick deleted", zap.String("userId", userID), zap.String("pickId", p.ID))

	l.afterWrite(ctx, userID, l.event(events.PickDeleted, userID, p.RunID, p.ID, string(p.Status), p.Stake.String()))
	return nil
}

func (l *Ledger) ListPicks(ctx context.Context, userID string) ([]ledger.Pick, error) {
	return l.store.ListPicks(ctx, userID)
}

func (l *Ledger) ListTransactions(ctx context.Context, userID string) ([]ledger.Transaction, error) {
	return l.store.ListTransactions(ctx, userID)
}

func (l *Ledger) ListRuns(ctx context.Context, userID string) ([]ledger.Run, error) {
	return l.store.ListRuns(ctx, userID)
}

// Dashboard devolve o dashboard do cache ou recalcula
func (l *Ledger) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	if l.cache != nil {
		var cached Dashboard
		ok, err := l.cache.Get(ctx, userID, &cached)
		switch {
		case err != nil:
			l.metrics.CacheResult("error")
			l.log.Warn("dashboard cache get failed", zap.String("userId", userID), zap.Error(err))
		case ok:
			l.metrics.CacheResult("hit")
			return cached, nil
		default:
			l.metrics.CacheResult("miss")
		}
	}
	return l.Refresh(ctx, userID)
}

// Refresh recalcula o dashboard a partir do storage e atualiza o cache
func (l *Ledger) Refresh(ctx context.Context, userID string) (d Dashboard, err error) {
	defer l.observe("refresh_dashboard", time.Now(), &err)

	gen := l.generation(userID)
	snap, err := l.store.Snapshot(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	prefs, err := l.store.Preferences(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}

	d = BuildDashboard(userID, snap, prefs)
	d.GeneratedAt = l.now().UTC()

	if l.cache != nil {
		l.cacheIfCurrent(ctx, userID, gen, d)
	}
	return d, nil
}

func (l *Ledger) generation(userID string) uint64 {
	l.genMu.Lock()
	defer l.genMu.Unlock()
	return l.gens[userID]
}

func (l *Ledger) bump(userID string) {
	l.genMu.Lock()
	l.gens[userID]++
	l.genMu.Unlock()
}

// cacheIfCurrent grava d só se nenhuma escrita aconteceu desde gen.
// O lock cobre checagem e Set; afterWrite incrementa sob o mesmo lock e só
// depois invalida, então um Set que passou na checagem é sempre invalidado.
func (l *Ledger) cacheIfCurrent(ctx context.Context, userID string, gen uint64, d Dashboard) {
	l.genMu.Lock()
	defer l.genMu.Unlock()

	if l.gens[userID] != gen {
		l.log.Debug("dashboard changed during refresh, skipping cache set", zap.String("userId", userID))
		return
	}
	if err := l.cache.Set(ctx, userID, d); err != nil {
		l.log.Warn("dashboard cache set failed", zap.String("userId", userID), zap.Error(err))
	}
}

func (l *Ledger) event(typ events.LedgerEventType, userID, runID, entityID, status, amount string) events.LedgerEvent {
	return events.LedgerEvent{
		EventID:  uuid.NewString(),
		Type:     typ,
		UserID:   userID,
		RunID:    runID,
		EntityID: entityID,
		Status:   status,
		Amount:   amount,
		Ts:       l.now().UTC(),
	}
}

// afterWrite invalida o cache e publica os eventos. Best effort: só loga falhas.
func (l *Ledger) afterWrite(ctx context.Context, userID string, first events.LedgerEvent, rest ...events.LedgerEvent) {
	l.bump(userID)
	if l.cache != nil {
		if err := l.cache.Invalidate(ctx, userID); err != nil {
			l.log.Warn("dashboard cache invalidate failed", zap.String("userId", userID), zap.Error(err))
		}
	}
	if l.pub == nil {
		return
	}
	for _, ev := range append([]events.LedgerEvent{first}, rest...) {
		if err := l.pub.Publish(ctx, ev); err != nil {
			l.log.Warn("ledger event publish failed", zap.String("userId", userID),
				zap.String("type", string(ev.Type)), zap.Error(err))
		}
	}
}

func (l *Ledger) observe(op string, started time.Time, errp *error) {
	err := *errp
	l.metrics.Observe(op, started, err)
	if reason := RejectionReason(err); reason != "" {
		l.metrics.Reject(reason)
	}
}

// RejectionReason classifica erros de regra de negócio; "" para os demais
func RejectionReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, repo.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, repo.ErrNoActiveRun):
		return "no_active_run"
	case errors.Is(err, repo.ErrRunClosed):
		return "run_closed"
	case errors.Is(err, repo.ErrAlreadySettled):
		return "already_settled"
	case errors.Is(err, repo.ErrAlreadyOnboarded):
		return "already_onboarded"
	case errors.Is(err, repo.ErrInvalidStatus), errors.Is(err, repo.ErrInvalidAmount):
		return "invalid_input"
	}
	return ""
}
