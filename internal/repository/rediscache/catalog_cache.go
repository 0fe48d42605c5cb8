// Package rediscache puts a Redis read-through cache in front of the catalog source.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"workcompliance/internal/config"
	"workcompliance/internal/model"
	"workcompliance/internal/repository"
)

const catalogKey = "compliance:catalog:v1"

// redisClient is the subset of *goredis.Client the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
}

// NewClient connects to Redis and pings it before returning.
func NewClient(cfg config.RedisConfig, logger *zap.Logger) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	logger.Info("redis connected", zap.String("component", "rediscache"), zap.String("addr", cfg.Addr))
	return rdb, nil
}

// CatalogCache serves ListDocumentTypes from Redis and falls back to the
// wrapped source on a miss. Redis failures degrade to the source and are logged.
type CatalogCache struct {
	next   repository.CatalogRepository
	rdb    redisClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewCatalogCache(next repository.CatalogRepository, rdb redisClient, ttl time.Duration, logger *zap.Logger) *CatalogCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogCache{next: next, rdb: rdb, ttl: ttl, logger: logger.With(zap.String("component", "rediscache"))}
}

func (c *CatalogCache) ListDocumentTypes(ctx context.Context) ([]model.DocumentTypeDefinition, error) {
	raw, err := c.rdb.Get(ctx, catalogKey).Bytes()
	switch {
	case err == nil:
		var defs []model.DocumentTypeDefinition
		uerr := json.Unmarshal(raw, &defs)
		if uerr == nil {
			return defs, nil
		}
		c.logger.Warn("discarding corrupt catalog entry", zap.String("event", "cache_decode"), zap.Error(uerr))
	case errors.Is(err, goredis.Nil):
	default:
		c.logger.Warn("catalog cache read failed", zap.String("event", "cache_get"), zap.Error(err))
	}

	defs, err := c.next.ListDocumentTypes(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(defs)
	if err != nil {
		return defs, nil
	}
	if err := c.rdb.Set(ctx, catalogKey, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed", zap.String("event", "cache_set"), zap.Error(err))
	}
	return defs, nil
}
