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

var _ domain.Cache = (*SQLiteCacheRepository)(nil)

// SQLiteCacheRepository implements domain.Cache on the cache_entries table.
type SQLiteCacheRepository struct {
	db *sql.DB
}

// NewCacheRepository creates a new SQLiteCacheRepository from a standard sql.DB
func NewCacheRepository(sqlDB *sql.DB) *SQLiteCacheRepository {
	return &SQLiteCacheRepository{
		db: sqlDB,
	}
}

const upsertCacheEntryQuery = `
	INSERT INTO cache_entries (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
`

// Put replaces the entry stored under key.
func (r *SQLiteCacheRepository) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("cache key cannot be empty")
	}
	if value == nil {
		value = []byte{}
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		if _, err := executor.ExecContext(txCtx, upsertCacheEntryQuery, key, value, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to upsert cache entry: %w", err)
		}
		return nil
	})
}

const getCacheEntryQuery = `
	SELECT value FROM cache_entries WHERE key = ?
`

// Get returns the entry stored under key and whether it exists.
func (r *SQLiteCacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, fmt.Errorf("cache key cannot be empty")
	}

	var value []byte
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx, getCacheEntryQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}

	return value, true, nil
}

const deleteCacheEntryQuery = `
	DELETE FROM cache_entries WHERE key = ?
`

// Delete removes the entry stored under key.
func (r *SQLiteCacheRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("cache key cannot be empty")
	}

	if _, err := db.GetExecutor(ctx, r.db).ExecContext(ctx, deleteCacheEntryQuery, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

const listCacheEntriesQuery = `
	SELECT key, LENGTH(value), updated_at FROM cache_entries ORDER BY key
`

// CacheEntryInfo describes one cache entry without its value.
type CacheEntryInfo struct {
	Key       string    `json:"key" yaml:"key"`
	Size      int64     `json:"size" yaml:"size"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Entries lists every cache entry.
func (r *SQLiteCacheRepository) Entries(ctx context.Context) ([]CacheEntryInfo, error) {
	rows, err := r.db.QueryContext(ctx, listCacheEntriesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}
	defer rows.Close()

	entries := make([]CacheEntryInfo, 0)
	for rows.Next() {
		var info CacheEntryInfo
		var updatedAt sql.NullTime
		if err := rows.Scan(&info.Key, &info.Size, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		if updatedAt.Valid {
			info.UpdatedAt = updatedAt.Time
		}
		entries = append(entries, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cache entries: %w", err)
	}
	return entries, nil
}

const clearCacheQuery = `
	DELETE FROM cache_entries
`

// Clear drops every cache entry.
func (r *SQLiteCacheRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, clearCacheQuery); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
