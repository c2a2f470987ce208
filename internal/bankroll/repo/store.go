package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/radieske/bets-core/internal/bankroll/format"
	"github.com/radieske/bets-core/internal/ledger"
)

const initialDepositDescription = "Initial bankroll deposit"

// Store implementa a persistência do ledger. Toda escrita roda em uma transação
// que trava a linha do usuário em accounts, então checagem de saldo e
// abertura/fechamento de run são atômicas.
type Store struct {
	db  *sql.DB
	d   Dialect
	now func() time.Time
}

func New(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, d: d, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock troca o relógio usado em created_at/settled_at
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Dialect() Dialect { return s.d }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// clock normaliza para a precisão do Postgres
func (s *Store) clock() time.Time { return s.now().UTC().Truncate(time.Microsecond) }

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// lockAccount garante a linha do usuário e a trava até o fim da transação
func (s *Store) lockAccount(ctx context.Context, tx *sql.Tx, userID string) (Account, error) {
	def := format.DefaultPreferences()
	if _, err := tx.ExecContext(ctx, s.d.Rebind(`
		INSERT INTO accounts(user_id, currency, odds_format, onboarded, created_at)
		VALUES(?,?,?,?,?) ON CONFLICT (user_id) DO NOTHING`),
		userID, def.Currency, string(def.OddsFormat), false, s.clock()); err != nil {
		return Account{}, fmt.Errorf("ensure account: %w", err)
	}

	acct, err := s.account(ctx, tx, userID, true)
	if err != nil {
		return Account{}, fmt.Errorf("lock account: %w", err)
	}
	return acct, nil
}

func (s *Store) account(ctx context.Context, q queryer, userID string, lock bool) (Account, error) {
	query := `SELECT user_id, currency, odds_format, onboarded, created_at FROM accounts WHERE user_id=?`
	if lock {
		query += s.d.forUpdate()
	}
	var (
		a    Account
		odds string
	)
	err := q.QueryRowContext(ctx, s.d.Rebind(query), userID).
		Scan(&a.UserID, &a.Preferences.Currency, &odds, &a.Onboarded, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, err
	}
	a.Preferences.OddsFormat = format.OddsFormat(odds)
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}

// Account devolve a conta do usuário ou ErrNotFound
func (s *Store) Account(ctx context.Context, userID string) (Account, error) {
	return s.account(ctx, s.db, userID, false)
}

// Preferences devolve as preferências salvas ou os padrões
func (s *Store) Preferences(ctx context.Context, userID string) (format.Preferences, error) {
	a, err := s.Account(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return format.DefaultPreferences(), nil
	}
	if err != nil {
		return format.Preferences{}, err
	}
	return a.Preferences.WithDefaults(), nil
}

func (s *Store) UpdatePreferences(ctx context.Context, userID string, prefs format.Preferences) (format.Preferences, error) {
	prefs = prefs.WithDefaults()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return format.Preferences{}, err
	}
	defer tx.Rollback()

	if _, err = s.lockAccount(ctx, tx, userID); err != nil {
		return format.Preferences{}, err
	}
	if _, err = tx.ExecContext(ctx, s.d.Rebind(`UPDATE accounts SET currency=?, odds_format=? WHERE user_id=?`),
		prefs.Currency, string(prefs.OddsFormat), userID); err != nil {
		return format.Preferences{}, err
	}
	if err = tx.Commit(); err != nil {
		return format.Preferences{}, err
	}
	return prefs, nil
}

// Onboard salva as preferências, abre a primeira run e registra o depósito inicial
func (s *Store) Onboard(ctx context.Context, userID string, initial decimal.Decimal, prefs format.Preferences) (Movement, error) {
	if !initial.IsPositive() {
		return Movement{}, ErrInvalidAmount
	}
	prefs = prefs.WithDefaults()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Movement{}, err
	}
	defer tx.Rollback()

	acct, err := s.lockAccount(ctx, tx, userID)
	if err != nil {
		return Movement{}, err
	}
	if acct.Onboarded {
		return Movement{}, ErrAlreadyOnboarded
	}

	if _, err = tx.ExecContext(ctx, s.d.Rebind(`UPDATE accounts SET currency=?, odds_format=?, onboarded=? WHERE user_id=?`),
		prefs.Currency, string(prefs.OddsFormat), true, userID); err != nil {
		return Movement{}, err
	}

	mv, err := s.deposit(ctx, tx, userID, initial, initialDepositDescription)
	if err != nil {
		return Movement{}, err
	}

	if err = tx.Commit(); err != nil {
		return Movement{}, err
	}
	return mv, nil
}

// RecordTransaction registra um depósito ou saque.
// Depósito sem run ativa abre uma nova; saque exige run ativa e a encerra.
func (s *Store) RecordTransaction(ctx context.Context, userID string, typ ledger.TransactionType, amount decimal.Decimal, description string) (Movement, error) {
	if !amount.IsPositive() {
		return Movement{}, ErrInvalidAmount
	}
	if !typ.Valid() {
		return Movement{}, fmt.Errorf("unknown transaction type %q", typ)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Movement{}, err
	}
	defer tx.Rollback()

	if _, err = s.lockAccount(ctx, tx, userID); err != nil {
		return Movement{}, err
	}

	var mv Movement
	switch typ {
	case ledger.Deposit:
		mv, err = s.deposit(ctx, tx, userID, amount, description)
	case ledger.Withdrawal:
		mv, err = s.withdraw(ctx, tx, userID, amount, description)
	}
	if err != nil {
		return Movement{}, err
	}

	if err = tx.Commit(); err != nil {
		return Movement{}, err
	}
	return mv, nil
}

func (s *Store) deposit(ctx context.Context, tx *sql.Tx, userID string, amount decimal.Decimal, description string) (Movement, error) {
	var mv Movement
	run, err := s.activeRun(ctx, tx, userID)
	if err != nil {
		return mv, err
	}
	if run == nil {
		opened, err := s.openRun(ctx, tx, userID)
		if err != nil {
			return mv, err
		}
		run = &opened
		mv.RunOpened = true
	}

	t := ledger.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		RunID:       run.ID,
		Type:        ledger.Deposit,
		Amount:      amount,
		Description: description,
	}
	if t.CreatedAt, err = s.transactionTime(ctx, tx, userID); err != nil {
		return mv, err
	}
	if err = s.insertTransaction(ctx, tx, t); err != nil {
		return mv, err
	}
	mv.Transaction, mv.Run = t, *run
	return mv, nil
}

// withdraw não limita o saque à banca disponível; o saque encerra a run
func (s *Store) withdraw(ctx context.Context, tx *sql.Tx, userID string, amount decimal.Decimal, description string) (Movement, error) {
	run, err := s.activeRun(ctx, tx, userID)
	if err != nil {
		return Movement{}, err
	}
	if run == nil {
		return Movement{}, ErrNoActiveRun
	}

	now, err := s.transactionTime(ctx, tx, userID)
	if err != nil {
		return Movement{}, err
	}
	t := ledger.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		RunID:       run.ID,
		Type:        ledger.Withdrawal,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
	}
	if err = s.insertTransaction(ctx, tx, t); err != nil {
		return Movement{}, err
	}

	if _, err = tx.ExecContext(ctx, s.d.Rebind(`UPDATE runs SET is_active=?, ended_at=? WHERE id=?`), false, now, run.ID); err != nil {
		return Movement{}, fmt.Errorf("close run: %w", err)
	}
	run.IsActive = false
	run.EndedAt = &now

	return Movement{Transaction: t, Run: *run, RunClosed: true}, nil
}

// transactionTime devolve um created_at estritamente maior que o da última
// transação do usuário. Roda sob o lock da conta.
func (s *Store) transactionTime(ctx context.Context, tx *sql.Tx, userID string) (time.Time, error) {
	now := s.clock()
	var last time.Time
	err := tx.QueryRowContext(ctx, s.d.Rebind(
		`SELECT created_at FROM transactions WHERE user_id=? ORDER BY created_at DESC LIMIT 1`), userID).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return now, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("last transaction: %w", err)
	}
	if last = last.UTC(); !now.After(last) {
		now = last.Add(time.Microsecond)
	}
	return now, nil
}

func (s *Store) insertTransaction(ctx context.Context, tx *sql.Tx, t ledger.Transaction) error {
	_, err := tx.ExecContext(ctx, s.d.Rebind(`
		INSERT INTO transactions(id, user_id, run_id, type, amount, description, created_at)
		VALUES(?,?,?,?,?,?,?)`),
		t.ID, t.UserID, nullString(t.RunID), string(t.Type), t.Amount, t.Description, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *Store) openRun(ctx context.Context, tx *sql.Tx, userID string) (ledger.Run, error) {
	r := ledger.Run{ID: uuid.NewString(), UserID: userID, StartedAt: s.clock(), IsActive: true}
	if _, err := tx.ExecContext(ctx, s.d.Rebind(`INSERT INTO runs(id, user_id, started_at, is_active) VALUES(?,?,?,?)`),
		r.ID, r.UserID, r.StartedAt, true); err != nil {
		return ledger.Run{}, fmt.Errorf("open run: %w", err)
	}
	return r, nil
}

func (s *Store) activeRun(ctx context.Context, q queryer, userID string) (*ledger.Run, error) {
	row := q.QueryRowContext(ctx, s.d.Rebind(`SELECT `+runColumns+` FROM runs
		WHERE user_id=? AND is_active ORDER BY started_at DESC LIMIT 1`), userID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("active run: %w", err)
	}
	return &r, nil
}

// CreatePick registra uma aposta PENDING na run ativa.
// A stake é validada contra a banca disponível calculada dentro da mesma transação.
func (s *Store) CreatePick(ctx context.Context, userID string, in PickInput) (ledger.Pick, error) {
	if !in.Stake.IsPositive() {
		return ledger.Pick{}, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ledger.Pick{}, err
	}
	defer tx.Rollback()

	if _, err = s.lockAccount(ctx, tx, userID); err != nil {
		return ledger.Pick{}, err
	}

	run, err := s.activeRun(ctx, tx, userID)
	if err != nil {
		return ledger.Pick{}, err
	}
	if run == nil {
		return ledger.Pick{}, ErrNoActiveRun
	}

	picks, err := s.picks(ctx, tx, `user_id=? AND run_id=?`, userID, run.ID)
	if err != nil {
		return ledger.Pick{}, err
	}
	txs, err := s.transactions(ctx, tx, `user_id=? AND run_id=?`, userID, run.ID)
	if err != nil {
		return ledger.Pick{}, err
	}

	stats := ledger.CalculateRunStats(picks, txs)
	if !ledger.CanStake(stats, in.Stake) {
		return ledger.Pick{}, fmt.Errorf("%w: available %s", ErrInsufficientFunds, stats.AvailableBankroll.StringFixed(2))
	}

	p := newPick(userID, run.ID, in, s.clock())
	if err = s.insertPick(ctx, tx, p); err != nil {
		return ledger.Pick{}, err
	}

	if err = tx.Commit(); err != nil {
		return ledger.Pick{}, err
	}
	return p, nil
}

func newPick(userID, runID string, in PickInput, now time.Time) ledger.Pick {
	p := ledger.Pick{
		ID:          uuid.NewString(),
		UserID:      userID,
		RunID:       runID,
		MatchDate:   in.MatchDate.UTC(),
		Sport:       format.NormalizeSport(in.Sport),
		Stake:       in.Stake,
		Odds:        in.Odds,
		Bonus:       in.Bonus,
		Selection:   in.Selection,
		Status:      ledger.StatusPending,
		IsParlay:    in.IsParlay,
		Legs:        in.Legs,
		Composition: in.Composition,
		Entry:       in.Entry,
		CreatedAt:   now,
	}
	if !p.IsParlay {
		p.Legs = 1
		p.Composition = ledger.CompositionSingle
	}
	if p.Entry == nil {
		p.Entry = ledger.ManualEntry{}
	}
	if m, ok := p.Entry.(ledger.MatchupEntry); ok && m.League == "" {
		m.League = p.Sport
		p.Entry = m
	}
	return p
}

func (s *Store) insertPick(ctx context.Context, tx *sql.Tx, p ledger.Pick) error {
	var (
		eventDesc, home, away sql.NullString
		league                = ledger.LeagueCustom
	)
	switch e := p.Entry.(type) {
	case ledger.ManualEntry:
		eventDesc = sql.NullString{String: e.EventDescription, Valid: true}
	case ledger.MatchupEntry:
		home = sql.NullString{String: e.HomeTeam, Valid: true}
		away = sql.NullString{String: e.AwayTeam, Valid: true}
		league = e.League
	}

	_, err := tx.ExecContext(ctx, s.d.Rebind(`
		INSERT INTO picks(`+pickColumns+`)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`),
		p.ID, p.UserID, nullString(p.RunID), p.MatchDate, p.Sport, p.Stake, p.Odds, p.Bonus, p.Selection,
		string(p.Status), p.IsParlay, p.Legs, p.Composition, p.Entry.Kind(), eventDesc, home, away, league,
		p.CreatedAt, nullTime(p.SettledAt))
	if err != nil {
		return fmt.Errorf("insert pick: %w", err)
	}
	return nil
}

// lockedPick carrega a aposta do usuário e recusa alterações em runs encerradas
func (s *Store) lockedPick(ctx context.Context, tx *sql.Tx, userID, pickID string) (ledger.Pick, error) {
	row := tx.QueryRowContext(ctx, s.d.Rebind(`SELECT `+pickColumns+` FROM picks WHERE id=? AND user_id=?`+s.d.forUpdate()), pickID, userID)
	p, err := scanPick(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Pick{}, ErrNotFound
	}
	if err != nil {
		return ledger.Pick{}, err
	}
	return p, nil
}

func (s *Store) runClosed(ctx context.Context, tx *sql.Tx, runID string) (bool, error) {
	if runID == "" {
		return false, nil
	}
	var active bool
	err := tx.QueryRowContext(ctx, s.d.Rebind(`SELECT is_active FROM runs WHERE id=?`), runID).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !active, nil
}

// SettlePick leva a aposta a um status terminal e grava settled_at uma única vez.
// Repetir o mesmo status é idempotente (changed=false). Apostas pendentes de uma
// run encerrada ainda podem ser liquidadas.
func (s *Store) SettlePick(ctx context.Context, userID, pickID string, status ledger.PickStatus) (p ledger.Pick, changed bool, err error) {
	if !status.Settled() {
		return ledger.Pick{}, false, ErrInvalidStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ledger.Pick{}, false, err
	}
	defer tx.Rollback()

	if _, err = s.lockAccount(ctx, tx, userID); err != nil {
		return ledger.Pick{}, false, err
	}
	if p, err = s.lockedPick(ctx, tx, userID, pickID); err != nil {
		return ledger.Pick{}, false, err
	}

	if p.Status.Settled() {
		if p.Status == status {
			return p, false, nil
		}
		return ledger.Pick{}, false, fmt.Errorf("%w: %s", ErrAlreadySettled, p.Status)
	}

	now := s.clock()
	if _, err = tx.ExecContext(ctx, s.d.Rebind(`UPDATE picks SET status=?, settled_at=? WHERE id=? AND status=?`),
		string(status), now, p.ID, string(ledger.StatusPending)); err != nil {
		return ledger.Pick{}, false, fmt.Errorf("settle pick: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return ledger.Pick{}, false, err
	}
	p.Status = status
	p.SettledAt = &now
	return p, true, nil
}

// DeletePick remove a aposta; apostas de runs encerradas são histórico imutável
func (s *Store) DeletePick(ctx context.Context, userID, pickID string) (ledger.Pick, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ledger.Pick{}, err
	}
	defer tx.Rollback()

	if _, err = s.lockAccount(ctx, tx, userID); err != nil {
		return ledger.Pick{}, err
	}
	p, err := s.lockedPick(ctx, tx, userID, pickID)
	if err != nil {
		return ledger.Pick{}, err
	}

	closed, err := s.runClosed(ctx, tx, p.RunID)
	if err != nil {
		return ledger.Pick{}, err
	}
	if closed {
		return ledger.Pick{}, ErrRunClosed
	}

	if _, err = tx.ExecContext(ctx, s.d.Rebind(`DELETE FROM picks WHERE id=?`), p.ID); err != nil {
		return ledger.Pick{}, fmt.Errorf("delete pick: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return ledger.Pick{}, err
	}
	return p, nil
}

// Snapshot lê picks, transações e a run ativa do usuário numa única transação
func (s *Store) Snapshot(ctx context.Context, userID string) (ledger.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, s.d.snapshotTx())
	if err != nil {
		return ledger.Snapshot{}, err
	}
	defer tx.Rollback()

	var snap ledger.Snapshot
	if snap.Picks, err = s.picks(ctx, tx, `user_id=?`, userID); err != nil {
		return ledger.Snapshot{}, err
	}
	if snap.Transactions, err = s.transactions(ctx, tx, `user_id=?`, userID); err != nil {
		return ledger.Snapshot{}, err
	}
	if snap.ActiveRun, err = s.activeRun(ctx, tx, userID); err != nil {
		return ledger.Snapshot{}, err
	}
	return snap, tx.Commit()
}

func (s *Store) ListPicks(ctx context.Context, userID string) ([]ledger.Pick, error) {
	return s.picks(ctx, s.db, `user_id=?`, userID)
}

func (s *Store) ListTransactions(ctx context.Context, userID string) ([]ledger.Transaction, error) {
	return s.transactions(ctx, s.db, `user_id=?`, userID)
}

// ListRuns devolve as runs do usuário, mais recente primeiro
func (s *Store) ListRuns(ctx context.Context, userID string) ([]ledger.Run, error) {
	rows, err := s.db.QueryContext(ctx, s.d.Rebind(`SELECT `+runColumns+` FROM runs WHERE user_id=? ORDER BY started_at DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []ledger.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) picks(ctx context.Context, q queryer, where string, args ...any) ([]ledger.Pick, error) {
	rows, err := q.QueryContext(ctx, s.d.Rebind(`SELECT `+pickColumns+` FROM picks WHERE `+where+` ORDER BY created_at DESC, id`), args...)
	if err != nil {
		return nil, fmt.Errorf("query picks: %w", err)
	}
	defer rows.Close()

	var out []ledger.Pick
	for rows.Next() {
		p, err := scanPick(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) transactions(ctx context.Context, q queryer, where string, args ...any) ([]ledger.Transaction, error) {
	rows, err := q.QueryContext(ctx, s.d.Rebind(`SELECT `+transactionColumns+` FROM transactions WHERE `+where+` ORDER BY created_at DESC, id`), args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
