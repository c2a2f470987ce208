package repo

import (
	"context"
	"database/sql"

	"github.com/radieske/bets-core/internal/shared/db"
)

// Open conecta no storage configurado e aplica o schema
func Open(ctx context.Context, driver, dsn, sqlitePath string) (*Store, *sql.DB, error) {
	d, err := ParseDialect(driver)
	if err != nil {
		return nil, nil, err
	}
	conn, err := db.Connect(string(d), dsn, sqlitePath)
	if err != nil {
		return nil, nil, err
	}
	if err := Migrate(ctx, conn, d); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return New(conn, d), conn, nil
}
