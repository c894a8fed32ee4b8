package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"desaku-api/internal/config"

	"github.com/go-redis/redis/v8"
)

// RedisCache stores responses in Redis
type RedisCache struct {
	client *redis.Client
}

// New returns a Redis-backed cache, or Noop when no address is configured
func New(ctx context.Context, cfg config.RedisConfig) (Cache, error) {
	if cfg.Addr == "" {
		log.Println("⚠️ REDIS_ADDR not set, response cache disabled")
		return Noop{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("✅ Redis connected: %s (db %d)", cfg.Addr, cfg.DB)
	return &RedisCache{client: client}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return val, err
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
