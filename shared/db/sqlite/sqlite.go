package sqlite

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/dfryer1193/travelcatalog/shared/db"
	_ "modernc.org/sqlite"
)

// Schema selects which set of migrations a database receives.
type Schema string

const (
	// SchemaCache is the on-device cache used by the catalog client.
	SchemaCache Schema = "cache"
	// SchemaStore is the record store behind the reference REST service.
	SchemaStore Schema = "store"
)

const (
	pathEnv     = "SQLITE_DB_PATH"
	defaultPath = "./catalog-cache.db"
)

type SQLiteConfig struct {
	Path   string
	Schema Schema
}

// DefaultPath returns SQLITE_DB_PATH when it is set, otherwise fallback.
func DefaultPath(fallback string) string {
	if path := os.Getenv(pathEnv); path != "" {
		return path
	}
	return fallback
}

// NewSQLiteConfig builds a config for path. An empty path falls back to
// SQLITE_DB_PATH and then ./catalog-cache.db.
func NewSQLiteConfig(schema Schema, path string) *SQLiteConfig {
	if path == "" {
		path = DefaultPath(defaultPath)
	}

	return &SQLiteConfig{
		Path:   path,
		Schema: schema,
	}
}

// SQLiteDB implements db.Database for SQLite.
type SQLiteDB struct {
	dbPath string
	schema Schema
	db     *sql.DB
}

var _ db.Database = (*SQLiteDB)(nil)

func NewSQLiteDB(cfg *SQLiteConfig) *SQLiteDB {
	return &SQLiteDB{
		dbPath: cfg.Path,
		schema: cfg.Schema,
	}
}

// Connect opens the database, applies pragmas and runs pending migrations.
func (s *SQLiteDB) Connect() error {
	if s.db != nil {
		return fmt.Errorf("database already connected")
	}

	conn, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if s.dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := runMigrations(conn, s.schema); err != nil {
		conn.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = conn
	return nil
}

func (s *SQLiteDB) Close() error {
	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	return err
}

// DB returns the underlying *sql.DB, nil before Connect.
func (s *SQLiteDB) DB() *sql.DB {
	return s.db
}

// Open is NewSQLiteDB followed by Connect.
func Open(cfg *SQLiteConfig) (*SQLiteDB, error) {
	database := NewSQLiteDB(cfg)
	if err := database.Connect(); err != nil {
		return nil, err
	}
	return database, nil
}
