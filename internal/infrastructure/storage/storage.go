// Package storage opens the StateStore selected by configuration.
package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/iho/wealthledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/wealthledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/wealthledger/internal/adapter/repository/redis"
	sqliteRepo "github.com/iho/wealthledger/internal/adapter/repository/sqlite"
	"github.com/iho/wealthledger/internal/infrastructure/config"
	"github.com/iho/wealthledger/internal/infrastructure/postgres"
	"github.com/iho/wealthledger/internal/infrastructure/redis"
	"github.com/iho/wealthledger/internal/infrastructure/sqlite"
	"github.com/iho/wealthledger/internal/usecase"
)

// Store is an opened StateStore and the function that releases its resources.
type Store struct {
	usecase.StateStore
	Backend string
	close   func() error
}

// Close releases the backend connection.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the configured backend, running migrations for SQL backends.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Store, error) {
	logger = logger.With().Str("storage_backend", cfg.StorageBackend).Logger()

	switch cfg.StorageBackend {
	case config.StorageMemory:
		logger.Warn().Msg("using in-memory storage, state is lost on restart")
		return &Store{StateStore: memory.NewStateStore(), Backend: cfg.StorageBackend}, nil

	case config.StorageRedis:
		client, err := redis.NewClient(ctx, redis.ClientConfig{
			URL:         cfg.RedisURL,
			PoolSize:    cfg.RedisPoolSize,
			DialTimeout: cfg.RedisDialTimeout,
		})
		if err != nil {
			return nil, err
		}
		logger.Info().Msg("connected to redis")
		return &Store{StateStore: redisRepo.NewStateStore(client), Backend: cfg.StorageBackend, close: client.Close}, nil

	case config.StoragePostgres:
		migrations := filepath.Join(cfg.MigrationsPath, "postgres")
		if err := postgres.RunMigrations(cfg.DatabaseURL, migrations, logger); err != nil {
			return nil, err
		}
		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, err
		}
		logger.Info().Msg("connected to postgres")
		store := postgresRepo.NewStateStore(pool, postgresRepo.NewRetrier(logger))
		return &Store{StateStore: store, Backend: cfg.StorageBackend, close: func() error {
			pool.Close()
			return nil
		}}, nil

	case config.StorageSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.RunMigrations(db, filepath.Join(cfg.MigrationsPath, "sqlite"), logger); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite database")
		return &Store{StateStore: sqliteRepo.NewStateStore(db), Backend: cfg.StorageBackend, close: db.Close}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
