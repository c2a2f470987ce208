package repo

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Dialect seleciona as diferenças de SQL entre Postgres e SQLite
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(s)) {
	case Postgres, "pg":
		return Postgres, nil
	case SQLite, "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("unknown store driver %q", s)
}

// Rebind troca os placeholders ? por $n no Postgres
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// forUpdate: SQLite serializa pela conexão única, não tem lock de linha
func (d Dialect) forUpdate() string {
	if d == Postgres {
		return " FOR UPDATE"
	}
	return ""
}

// snapshotTx: leitura consistente entre as consultas do Snapshot
func (d Dialect) snapshotTx() *sql.TxOptions {
	if d == Postgres {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}

func (d Dialect) timestampType() string {
	if d == Postgres {
		return "TIMESTAMPTZ"
	}
	return "TIMESTAMP"
}

// moneyType: SQLite guarda TEXT para não perder precisão em REAL
func (d Dialect) moneyType() string {
	if d == Postgres {
		return "NUMERIC(20,4)"
	}
	return "TEXT"
}

func (d Dialect) floatType() string {
	if d == Postgres {
		return "DOUBLE PRECISION"
	}
	return "REAL"
}
