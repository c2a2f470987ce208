package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS accounts (
	user_id     TEXT PRIMARY KEY,
	currency    TEXT NOT NULL,
	odds_format TEXT NOT NULL,
	onboarded   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES accounts(user_id),
	started_at {{ts}} NOT NULL,
	ended_at   {{ts}},
	is_active  BOOLEAN NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS runs_one_active_per_user ON runs(user_id) WHERE is_active;

CREATE TABLE IF NOT EXISTS transactions (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL REFERENCES accounts(user_id),
	run_id      TEXT REFERENCES runs(id),
	type        TEXT NOT NULL,
	amount      {{money}} NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  {{ts}} NOT NULL
);

CREATE INDEX IF NOT EXISTS transactions_user_idx ON transactions(user_id, created_at);

CREATE TABLE IF NOT EXISTS picks (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL REFERENCES accounts(user_id),
	run_id            TEXT REFERENCES runs(id),
	match_date        {{ts}} NOT NULL,
	sport             TEXT NOT NULL,
	stake             {{money}} NOT NULL,
	odds              {{float}} NOT NULL,
	bonus             {{money}} NOT NULL,
	selection         TEXT NOT NULL,
	status            TEXT NOT NULL,
	is_parlay         BOOLEAN NOT NULL,
	legs              INTEGER NOT NULL,
	composition       TEXT NOT NULL,
	entry_kind        TEXT NOT NULL,
	event_description TEXT,
	home_team         TEXT,
	away_team         TEXT,
	league            TEXT NOT NULL,
	created_at        {{ts}} NOT NULL,
	settled_at        {{ts}}
);

CREATE INDEX IF NOT EXISTS picks_user_idx ON picks(user_id, created_at);
`

// Schema devolve o DDL no dialeto informado
func Schema(d Dialect) string {
	return strings.NewReplacer(
		"{{ts}}", d.timestampType(),
		"{{money}}", d.moneyType(),
		"{{float}}", d.floatType(),
	).Replace(schemaTemplate)
}

// Migrate cria as tabelas se não existirem
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	for _, stmt := range strings.Split(Schema(d), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
