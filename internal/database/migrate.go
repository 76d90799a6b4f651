package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"
)

// Migration is one versioned schema change. Statements run in order; MySQL
// DDL auto-commits, so a migration must be written to be safe to re-run if
// the process dies between statements (IF NOT EXISTS everywhere).
type Migration struct {
	Version    string
	Name       string
	Statements []string
}

const versionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    VARCHAR(32)  NOT NULL PRIMARY KEY,
	name       VARCHAR(255) NOT NULL,
	applied_at DATETIME     NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// Migrate applies every registered migration that has not been recorded in
// schema_migrations yet, in version order, and returns how many were
// applied. It is invoked by the `migrate` CLI command once per deployment,
// never at serve time.
func Migrate(ctx context.Context, db *sql.DB) (int, error) {
	if _, err := db.ExecContext(ctx, versionTable); err != nil {
		return 0, fmt.Errorf("ensure version table: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, m := range Migrations {
		if applied[m.Version] {
			continue
		}
		log.Printf("migrate: applying %s %s", m.Version, m.Name)
		for _, stmt := range m.Statements {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return n, fmt.Errorf("migration %s: %w", m.Version, err)
			}
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?,?,?)",
			m.Version, m.Name, time.Now().UTC()); err != nil {
			return n, fmt.Errorf("record migration %s: %w", m.Version, err)
		}
		n++
	}
	return n, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}
	defer rows.Close()

	versions := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions[v] = true
	}
	return versions, rows.Err()
}
