// Command riot-proxy hosts the Riot client behind a small JSON API with
// health, readiness and metrics endpoints.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Sternrassler/riot-match-client/internal/config"
	"github.com/Sternrassler/riot-match-client/pkg/cache"
	"github.com/Sternrassler/riot-match-client/pkg/client"
	"github.com/Sternrassler/riot-match-client/pkg/logging"
	"github.com/Sternrassler/riot-match-client/pkg/pagination"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const shutdownTimeout = 10 * time.Second

func main() {
	fx.New(
		fx.Provide(newLogger),
		config.Module,
		fx.Provide(newCacheStore),
		fx.Provide(newRiotClient),
		fx.Provide(NewServer),
		fx.Invoke(runServer),
	).Run()
}

// newLogger builds the process logger before .env is read, so only the
// real environment can change its level.
func newLogger() zerolog.Logger {
	pretty, _ := strconv.ParseBool(os.Getenv("LOG_PRETTY"))
	return logging.Setup(logging.Config{
		Level:   logging.LogLevel(os.Getenv("LOG_LEVEL")),
		Pretty:  pretty,
		Output:  os.Stderr,
		Service: "riot-proxy",
	})
}

func newCacheStore(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) *cache.Store {
	store := cache.Connect(context.Background(), cfg.Redis, logger.With().Str("component", "cache").Logger())

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := store.Close(); err != nil && !errors.Is(err, cache.ErrDisabled) {
				logger.Warn().Err(err).Msg("error closing redis connection")
			}
			return nil
		},
	})
	return store
}

func newRiotClient(lc fx.Lifecycle, cfg *config.Config, store *cache.Store, logger zerolog.Logger) (*client.Client, error) {
	clientCfg := client.DefaultConfig(store, cfg.APIKey)
	clientCfg.RegionalBaseURL = cfg.RegionalBaseURL
	clientCfg.PlatformBaseURL = cfg.PlatformBaseURL
	clientCfg.Logger = &logger
	if cfg.ClientMode == config.ModeSync {
		clientCfg.Executor = pagination.Sequential{}
	}

	riot, err := client.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create riot client: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return riot.Close()
		},
	})
	return riot, nil
}

func runServer(lc fx.Lifecycle, srv *Server, cfg *config.Config, logger zerolog.Logger) {
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", httpServer.Addr).Msg("server starting")
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
