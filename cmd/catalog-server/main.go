package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dfryer1193/travelcatalog/catalog/persistence"
	"github.com/dfryer1193/travelcatalog/internal/config"
	"github.com/dfryer1193/travelcatalog/internal/rest"
	"github.com/dfryer1193/travelcatalog/shared/db/sqlite"
	"github.com/dfryer1193/travelcatalog/shared/logging"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configFile := flag.String("config", "", "path to a catalog.yaml config file")
	flag.Parse()

	cfg, err := config.LoadServer(config.New(*configFile))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Configure(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(gin.ReleaseMode)

	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(
			provideDatabase,
			provideRepository,
			provideRouter,
			provideServer,
		),
		fx.Invoke(startServer),
		fx.NopLogger,
	)
	app.Run()
}

func provideDatabase(lc fx.Lifecycle, cfg *config.Server) (*sqlite.SQLiteDB, error) {
	database, err := sqlite.Open(sqlite.NewSQLiteConfig(sqlite.SchemaStore, cfg.DBPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return database.Close()
		},
	})
	return database, nil
}

func provideRepository(database *sqlite.SQLiteDB) rest.RecordRepository {
	return persistence.NewRecordRepository(database.DB())
}

func provideRouter(repo rest.RecordRepository) *gin.Engine {
	return rest.NewRouter(repo)
}

func provideServer(cfg *config.Server, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func startServer(lc fx.Lifecycle, srv *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}

			go func() {
				log.Info().Str("addr", srv.Addr).Msg("Starting server")
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down server...")
			ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("failed to shutdown server: %w", err)
			}
			log.Info().Msg("Server stopped")
			return nil
		},
	})
}
