package db

import (
	"database/sql"
)

// Database is a connectable SQL backend.
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
}
