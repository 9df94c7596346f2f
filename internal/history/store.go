package history

import (
	"context"
	"fmt"

	"github.com/ASEODA/narashop-estimate/internal/history/repository"
	apphttp "github.com/ASEODA/narashop-estimate/internal/http"
	"github.com/ASEODA/narashop-estimate/platform/config"
	"github.com/ASEODA/narashop-estimate/platform/db"
	"github.com/ASEODA/narashop-estimate/platform/logger"
)

// StoreConfig combines the settings needed to open any history backend.
type StoreConfig interface {
	config.HistoryConfig
	config.RedisConfig
	config.DatabaseConfig
}

// Backend is an opened history store with its health check and release hook.
// Health is nil for the in-process store.
type Backend struct {
	Store  repository.Store
	Health apphttp.HealthChecker
	Close  func()
}

// Shared reports whether other processes see the same entries.
func (b Backend) Shared() bool {
	return b.Health != nil
}

// OpenStore connects the backend selected by HISTORY_BACKEND. The postgres
// backend applies pending migrations before returning.
func OpenStore(ctx context.Context, cfg StoreConfig, log *logger.Logger) (Backend, error) {
	limit := cfg.GetHistoryLimit()

	switch cfg.GetHistoryBackend() {
	case config.HistoryBackendRedis:
		client, err := db.NewRedisClient(ctx, cfg)
		if err != nil {
			return Backend{}, fmt.Errorf("connect redis: %w", err)
		}
		log.Info("history store ready", "backend", "redis", "key", cfg.GetHistoryKey(), "limit", limit)
		return Backend{
			Store:  repository.NewRedisStore(client, cfg.GetHistoryKey(), limit),
			Health: db.RedisHealth{Client: client},
			Close:  func() { _ = client.Close() },
		}, nil

	case config.HistoryBackendPostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return Backend{}, fmt.Errorf("connect database: %w", err)
		}
		if err := db.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return Backend{}, fmt.Errorf("run migrations: %w", err)
		}
		log.Info("history store ready", "backend", "postgres", "limit", limit)
		return Backend{
			Store:  repository.NewPostgresStore(pool, limit),
			Health: pool,
			Close:  pool.Close,
		}, nil

	default:
		log.Info("history store ready", "backend", "memory", "limit", limit)
		return Backend{
			Store: repository.NewMemoryStore(limit),
			Close: func() {},
		}, nil
	}
}
