package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/customerhub/backend/internal/infrastructure/config"
)

// Factory builds the customer cache selected by configuration
type Factory struct {
	cfg                   config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	pingTimeout           time.Duration
}

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) { f.logger = logger }
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory cache. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) { f.allowInMemoryFallback = allow }
}

// NewFactory creates a cache factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		cfg:                   cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		pingTimeout:           5 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewRedisClient opens a client for cfg and checks it with PING
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// Create returns the Redis cache when Redis is enabled and reachable,
// otherwise the in-memory cache.
func (f *Factory) Create(ctx context.Context) (CustomerCache, error) {
	if !f.cfg.Enabled {
		f.logger.Info("using in-memory customer cache")
		return NewInMemoryCustomerCache(f.cfg.CacheTTL, DefaultCleanupInterval), nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, f.pingTimeout)
	defer cancel()

	client, err := NewRedisClient(pingCtx, f.cfg)
	if err == nil {
		f.logger.Info("using Redis customer cache", zap.String("addr", f.cfg.Addr()))
		return NewRedisCustomerCache(client, f.cfg.CacheTTL, DefaultKeyPrefix), nil
	}

	if !f.allowInMemoryFallback {
		return nil, err
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory customer cache", zap.Error(err))
	return NewInMemoryCustomerCache(f.cfg.CacheTTL, DefaultCleanupInterval), nil
}
