// Package app wires one catalogctl session: the local cache, the remote
// resources, the three stores and the coordinator.
package app

import (
	"context"
	"fmt"

	"github.com/dfryer1193/travelcatalog/catalog/application"
	"github.com/dfryer1193/travelcatalog/catalog/domain"
	"github.com/dfryer1193/travelcatalog/catalog/persistence"
	"github.com/dfryer1193/travelcatalog/internal/config"
	"github.com/dfryer1193/travelcatalog/shared/db/sqlite"
	"github.com/dfryer1193/travelcatalog/shared/remote"
	"github.com/rs/zerolog/log"
)

type App struct {
	Config      *config.Client
	Cache       *persistence.SQLiteCacheRepository
	Coordinator *application.Coordinator

	db *sqlite.SQLiteDB
}

// New opens the cache and builds the stores without loading them.
func New(cfg *config.Client) (*App, error) {
	database, err := sqlite.Open(sqlite.NewSQLiteConfig(sqlite.SchemaCache, cfg.CachePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	cache := persistence.NewCacheRepository(database.DB())

	client := remote.NewClient(cfg.APIURL, remote.WithTimeout(cfg.RequestTimeout))
	coordinator := application.NewCoordinator(
		application.NewStore[domain.Category](domain.ResourceCategories,
			remote.NewResource[domain.Category](client, domain.ResourceCategories), cache),
		application.NewStore[domain.Province](domain.ResourceProvinces,
			remote.NewResource[domain.Province](client, domain.ResourceProvinces), cache),
		application.NewStore[domain.Food](domain.ResourceFood,
			remote.NewResource[domain.Food](client, domain.ResourceFood), cache),
	)

	coordinator.Subscribe(func(e application.Event) {
		log.Debug().Str("event", e.Kind.String()).Int64("id", e.ID).Msg("Catalog changed")
	})

	return &App{
		Config:      cfg,
		Cache:       cache,
		Coordinator: coordinator,
		db:          database,
	}, nil
}

// Open builds a session and loads every store cache-first.
func Open(ctx context.Context, cfg *config.Client) (*App, error) {
	a, err := New(cfg)
	if err != nil {
		return nil, err
	}

	if err := a.Coordinator.Load(ctx); err != nil {
		// a cache write failure still leaves a usable session
		log.Warn().Err(err).Msg("Catalog loaded with errors")
	}
	return a, nil
}

func (a *App) Close() error {
	return a.db.Close()
}
