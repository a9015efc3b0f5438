package sqlite

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	up      string
}

// migrations holds the ordered migrations per schema. Each schema keeps its
// own version history in schema_migrations, so one file can carry both.
var migrations = map[Schema][]migration{
	SchemaCache: {
		{
			version: 1,
			name:    "create_cache_entries_table",
			up: `
				CREATE TABLE IF NOT EXISTS cache_entries (
					key TEXT PRIMARY KEY,
					value BLOB NOT NULL,
					updated_at TIMESTAMP NOT NULL
				);
			`,
		},
	},
	SchemaStore: {
		{
			version: 1,
			name:    "create_records_table",
			up: `
				CREATE TABLE IF NOT EXISTS records (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					kind TEXT NOT NULL,
					body TEXT NOT NULL,
					created_at TIMESTAMP NOT NULL
				);

				CREATE INDEX IF NOT EXISTS idx_records_kind
				ON records(kind, id);
			`,
		},
	},
}

func runMigrations(conn *sql.DB, schema Schema) error {
	pending, ok := migrations[schema]
	if !ok {
		return fmt.Errorf("unknown schema %q", schema)
	}

	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			schema_name TEXT NOT NULL,
			version INTEGER NOT NULL,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (schema_name, version)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	currentVersion := 0
	err = conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations WHERE schema_name = ?", string(schema)).Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, m := range pending {
		if m.version <= currentVersion {
			continue
		}

		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", m.version, err)
		}

		if _, err := tx.Exec(m.up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d (%s): %w", m.version, m.name, err)
		}

		_, err = tx.Exec("INSERT INTO schema_migrations (schema_name, version, name) VALUES (?, ?, ?)", string(schema), m.version, m.name)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
	}

	return nil
}
