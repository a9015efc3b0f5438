package application

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/dfryer1193/travelcatalog/catalog/domain"
	"github.com/rs/zerolog/log"
)

// RemoteStore is the authoritative backend for one resource type.
type RemoteStore[T domain.Record] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, rec T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Store owns the in-memory collection of one resource type and keeps the
// local cache equal to it. Reads are served from memory; loading is
// cache-first and every successful mutation is written through.
//
// The mutex is never held across a remote call, so concurrent creates land
// in response-arrival order.
type Store[T domain.Record] struct {
	kind   domain.ResourceType
	remote RemoteStore[T]
	cache  domain.Cache

	mu        sync.Mutex
	records   []T
	loaded    bool
	onCreated []func(T)
	onDeleted []func(int64)
}

func NewStore[T domain.Record](kind domain.ResourceType, remote RemoteStore[T], cache domain.Cache) *Store[T] {
	return &Store[T]{
		kind:   kind,
		remote: remote,
		cache:  cache,
	}
}

func (s *Store[T]) cacheKey() string {
	return string(s.kind)
}

// Load populates the collection once per process. A warm cache is used as
// is. Otherwise the remote collection is fetched and written to the cache;
// if that fetch fails the store starts empty and the cache stays cold so
// the next session tries again.
func (s *Store[T]) Load(ctx context.Context) error {
	if s.isLoaded() {
		return nil
	}

	if records, ok := s.readCache(ctx); ok {
		s.replace(records)
		log.Debug().Str("resource", s.kind.String()).Int("records", len(records)).Msg("Loaded collection from cache")
		return nil
	}

	records, err := s.remote.List(ctx)
	if err != nil {
		log.Warn().Err(err).Str("resource", s.kind.String()).Msg("Failed to fetch collection, starting empty")
		s.replace([]T{})
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nonNil(slices.Clone(records))
	s.loaded = true
	log.Debug().Str("resource", s.kind.String()).Int("records", len(records)).Msg("Loaded collection from remote store")

	return s.writeCacheLocked(ctx)
}

// Reload refetches the remote collection and overwrites memory and cache.
// On failure the current state is kept.
func (s *Store[T]) Reload(ctx context.Context) error {
	records, err := s.remote.List(ctx)
	if err != nil {
		return s.remoteError("list", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nonNil(slices.Clone(records))
	s.loaded = true
	return s.writeCacheLocked(ctx)
}

// List returns a snapshot of the collection in insertion order.
func (s *Store[T]) List() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

// Get returns the record with the given id.
func (s *Store[T]) Get(id int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.GetID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Create validates draft, submits it and appends the record returned by the
// remote store. Validation and remote failures leave memory and cache
// untouched. A *domain.CacheError is returned together with the created
// record when only the cache write failed.
func (s *Store[T]) Create(ctx context.Context, draft T) (T, error) {
	var zero T

	if !s.isLoaded() {
		return zero, fmt.Errorf("%s: %w", s.kind, domain.ErrNotLoaded)
	}

	if err := draft.Validate(); err != nil {
		return zero, err
	}

	created, err := s.remote.Create(ctx, draft)
	if err != nil {
		return zero, s.remoteError("create", err)
	}

	s.mu.Lock()
	s.records = append(slices.Clone(s.records), created)
	cacheErr := s.writeCacheLocked(ctx)
	hooks := slices.Clone(s.onCreated)
	s.mu.Unlock()

	log.Info().Str("resource", s.kind.String()).Int64("id", created.GetID()).Str("label", created.Label()).Msg("Created record")

	for _, hook := range hooks {
		hook(created)
	}

	return created, cacheErr
}

// Delete removes a record once the remote store confirms it is gone.
func (s *Store[T]) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.NewValidationError(s.kind, "id", fmt.Sprintf("invalid identifier %d", id))
	}

	if !s.isLoaded() {
		return fmt.Errorf("%s: %w", s.kind, domain.ErrNotLoaded)
	}

	if err := s.remote.Delete(ctx, id); err != nil {
		return s.remoteError("delete", err)
	}

	s.mu.Lock()
	s.records = slices.DeleteFunc(slices.Clone(s.records), func(r T) bool {
		return r.GetID() == id
	})
	cacheErr := s.writeCacheLocked(ctx)
	hooks := slices.Clone(s.onDeleted)
	s.mu.Unlock()

	log.Info().Str("resource", s.kind.String()).Int64("id", id).Msg("Deleted record")

	for _, hook := range hooks {
		hook(id)
	}

	return cacheErr
}

// OnCreated registers fn to run synchronously after each successful Create.
func (s *Store[T]) OnCreated(fn func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCreated = append(s.onCreated, fn)
}

// OnDeleted registers fn to run synchronously after each successful Delete.
func (s *Store[T]) OnDeleted(fn func(id int64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDeleted = append(s.onDeleted, fn)
}

func (s *Store[T]) isLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *Store[T]) replace(records []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.loaded = true
}

// readCache reports a miss for absent, unreadable or corrupt entries.
func (s *Store[T]) readCache(ctx context.Context) ([]T, bool) {
	raw, ok, err := s.cache.Get(ctx, s.cacheKey())
	if err != nil {
		log.Warn().Err(err).Str("key", s.cacheKey()).Msg("Failed to read cache entry")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Warn().Err(err).Str("key", s.cacheKey()).Msg("Ignoring corrupt cache entry")
		return nil, false
	}
	return nonNil(records), true
}

// writeCacheLocked rewrites the whole cache entry from s.records. When the
// write fails the entry is dropped so the next Load refetches. Callers hold
// s.mu.
func (s *Store[T]) writeCacheLocked(ctx context.Context) error {
	key := s.cacheKey()

	raw, err := json.Marshal(s.records)
	if err == nil {
		err = s.cache.Put(ctx, key, raw)
	}
	if err == nil {
		return nil
	}

	log.Error().Err(err).Str("key", key).Msg("Failed to write cache entry")
	if delErr := s.cache.Delete(ctx, key); delErr != nil {
		log.Error().Err(delErr).Str("key", key).Msg("Failed to invalidate cache entry")
	}
	return &domain.CacheError{Op: "write", Key: key, Err: err}
}

func (s *Store[T]) remoteError(op string, err error) error {
	if domain.IsRemote(err) {
		return err
	}
	return &domain.RemoteError{Op: op, Resource: s.kind, Err: err}
}

// nonNil keeps an empty collection encoding as [] rather than null.
func nonNil[T any](records []T) []T {
	if records == nil {
		return []T{}
	}
	return records
}
