package repo

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/radieske/bets-core/internal/ledger"
)

const (
	pickColumns = `id, user_id, run_id, match_date, sport, stake, odds, bonus, selection, status,
		is_parlay, legs, composition, entry_kind, event_description, home_team, away_team, league,
		created_at, settled_at`
	transactionColumns = `id, user_id, run_id, type, amount, description, created_at`
	runColumns         = `id, user_id, started_at, ended_at, is_active`
)

type scanner interface {
	Scan(dest ...any) error
}

func scanPick(row scanner) (ledger.Pick, error) {
	var (
		p                            ledger.Pick
		runID, eventDesc, home, away sql.NullString
		kind, league                 string
		settled                      sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.UserID, &runID, &p.MatchDate, &p.Sport, &p.Stake, &p.Odds, &p.Bonus,
		&p.Selection, &p.Status, &p.IsParlay, &p.Legs, &p.Composition, &kind, &eventDesc, &home, &away,
		&league, &p.CreatedAt, &settled); err != nil {
		return ledger.Pick{}, err
	}

	p.RunID = runID.String
	p.MatchDate = p.MatchDate.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	p.SettledAt = timePtr(settled)

	switch kind {
	case ledger.MatchupEntry{}.Kind():
		p.Entry = ledger.MatchupEntry{HomeTeam: home.String, AwayTeam: away.String, League: league}
	case ledger.ManualEntry{}.Kind():
		p.Entry = ledger.ManualEntry{EventDescription: eventDesc.String}
	default:
		return ledger.Pick{}, fmt.Errorf("pick %s: unknown entry kind %q", p.ID, kind)
	}
	return p, nil
}

func scanTransaction(row scanner) (ledger.Transaction, error) {
	var (
		t     ledger.Transaction
		runID sql.NullString
	)
	if err := row.Scan(&t.ID, &t.UserID, &runID, &t.Type, &t.Amount, &t.Description, &t.CreatedAt); err != nil {
		return ledger.Transaction{}, err
	}
	t.RunID = runID.String
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func scanRun(row scanner) (ledger.Run, error) {
	var (
		r     ledger.Run
		ended sql.NullTime
	)
	if err := row.Scan(&r.ID, &r.UserID, &r.StartedAt, &ended, &r.IsActive); err != nil {
		return ledger.Run{}, err
	}
	r.StartedAt = r.StartedAt.UTC()
	r.EndedAt = timePtr(ended)
	return r, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
