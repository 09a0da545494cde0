package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

const keyPrefix = "learnnow:displayname:"

type Config struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// NameCache stores directory display names keyed by user object id.
type NameCache struct {
	log *logger.Logger
	rdb goredis.UniversalClient
}

func NewNameCache(log *logger.Logger, cfg Config) (*NameCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewUniversalClient(&goredis.UniversalOptions{
		Addrs:       []string{addr},
		Username:    cfg.Username,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to instrument redis: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &NameCache{log: log.With("service", "RedisNameCache"), rdb: rdb}, nil
}

// GetMany returns the cached names for ids. Missing ids are absent from the
// result.
func (c *NameCache) GetMany(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyPrefix + id
	}
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[ids[i]] = s
		}
	}
	return out, nil
}

func (c *NameCache) SetMany(ctx context.Context, names map[string]string, ttl time.Duration) error {
	if len(names) == 0 {
		return nil
	}
	pipe := c.rdb.Pipeline()
	for id, name := range names {
		pipe.Set(ctx, keyPrefix+id, name, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline: %w", err)
	}
	return nil
}

func (c *NameCache) Close() error {
	return c.rdb.Close()
}

// Client exposes the underlying connection for health probes.
func (c *NameCache) Client() goredis.UniversalClient {
	return c.rdb
}
