package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dfryer1193/travelcatalog/catalog/domain"
	"github.com/dfryer1193/travelcatalog/shared/db"
)

// StoredRecord is one row of the reference store. Body is the JSON encoding
// of the record without its id.
type StoredRecord struct {
	ID        int64
	Kind      domain.ResourceType
	Body      []byte
	CreatedAt time.Time
}

// SQLiteRecordRepository persists catalog records for the reference REST
// service. Identifiers come from the AUTOINCREMENT rowid.
type SQLiteRecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new SQLiteRecordRepository from a standard sql.DB
func NewRecordRepository(sqlDB *sql.DB) *SQLiteRecordRepository {
	return &SQLiteRecordRepository{
		db: sqlDB,
	}
}

const insertRecordQuery = `
	INSERT INTO records (kind, body, created_at)
	VALUES (?, ?, ?)
`

// Insert stores body under kind and returns the assigned id.
func (r *SQLiteRecordRepository) Insert(ctx context.Context, kind domain.ResourceType, body []byte) (int64, error) {
	if kind == "" {
		return 0, fmt.Errorf("record kind cannot be empty")
	}

	result, err := db.GetExecutor(ctx, r.db).ExecContext(ctx, insertRecordQuery, string(kind), string(body), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read record id: %w", err)
	}
	return id, nil
}

const getRecordQuery = `
	SELECT id, kind, body, created_at
	FROM records
	WHERE kind = ? AND id = ?
`

// Get retrieves a single record. A missing record yields domain.ErrNotFound.
func (r *SQLiteRecordRepository) Get(ctx context.Context, kind domain.ResourceType, id int64) (*StoredRecord, error) {
	var row recordRow
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx, getRecordQuery, string(kind), id).Scan(
		&row.ID,
		&row.Kind,
		&row.Body,
		&row.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return row.toStored(), nil
}

const listRecordsQuery = `
	SELECT id, kind, body, created_at
	FROM records
	WHERE kind = ?
	ORDER BY id
`

// List returns every record of kind in insertion order.
func (r *SQLiteRecordRepository) List(ctx context.Context, kind domain.ResourceType) ([]*StoredRecord, error) {
	rows, err := db.GetExecutor(ctx, r.db).QueryContext(ctx, listRecordsQuery, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	records := make([]*StoredRecord, 0)
	for rows.Next() {
		var row recordRow
		if err := rows.Scan(&row.ID, &row.Kind, &row.Body, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		records = append(records, row.toStored())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record rows: %w", err)
	}

	return records, nil
}

const deleteRecordQuery = `
	DELETE FROM records WHERE kind = ? AND id = ?
`

// Delete removes a record. A missing record yields domain.ErrNotFound.
func (r *SQLiteRecordRepository) Delete(ctx context.Context, kind domain.ResourceType, id int64) error {
	result, err := db.GetExecutor(ctx, r.db).ExecContext(ctx, deleteRecordQuery, string(kind), id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}

// recordRow is a private struct used to scan database rows
type recordRow struct {
	ID        int64        `db:"id"`
	Kind      string       `db:"kind"`
	Body      string       `db:"body"`
	CreatedAt sql.NullTime `db:"created_at"`
}

func (rr *recordRow) toStored() *StoredRecord {
	rec := &StoredRecord{
		ID:   rr.ID,
		Kind: domain.ResourceType(rr.Kind),
		Body: []byte(rr.Body),
	}
	if rr.CreatedAt.Valid {
		rec.CreatedAt = rr.CreatedAt.Time
	}
	return rec
}
