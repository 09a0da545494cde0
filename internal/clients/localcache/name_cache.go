package localcache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// NameCache keeps display names in process memory. It is used when no Redis
// address is configured.
type NameCache struct {
	c *gocache.Cache
}

func NewNameCache(defaultTTL time.Duration) *NameCache {
	return &NameCache{c: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (n *NameCache) GetMany(_ context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if v, ok := n.c.Get(id); ok {
			if s, ok := v.(string); ok {
				out[id] = s
			}
		}
	}
	return out, nil
}

func (n *NameCache) SetMany(_ context.Context, names map[string]string, ttl time.Duration) error {
	for id, name := range names {
		n.c.Set(id, name, ttl)
	}
	return nil
}
