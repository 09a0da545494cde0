package graph

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

// NameCache is the storage behind CachedDirectory.
type NameCache interface {
	GetMany(ctx context.Context, ids []string) (map[string]string, error)
	SetMany(ctx context.Context, names map[string]string, ttl time.Duration) error
}

type nameSource interface {
	DisplayNames(ctx context.Context, token string, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// CachedDirectory serves display names from cache and only asks the
// directory for the ids it is missing. Cache failures degrade to a direct
// lookup.
type CachedDirectory struct {
	log   *logger.Logger
	src   nameSource
	cache NameCache
	ttl   time.Duration
}

func NewCachedDirectory(log *logger.Logger, src nameSource, cache NameCache, ttl time.Duration) *CachedDirectory {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedDirectory{log: log.With("client", "CachedDirectory"), src: src, cache: cache, ttl: ttl}
}

func (d *CachedDirectory) DisplayNames(ctx context.Context, token string, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	ids = distinctIDs(ids)
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	cached, err := d.cache.GetMany(ctx, keys)
	if err != nil {
		d.log.Warn("Name cache read failed", "error", err)
		cached = nil
	}

	var missing []uuid.UUID
	for _, id := range ids {
		if name, ok := cached[id.String()]; ok {
			out[id] = name
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := d.src.DisplayNames(ctx, token, missing)
	if err != nil {
		return nil, err
	}
	toCache := make(map[string]string, len(fetched))
	for id, name := range fetched {
		out[id] = name
		toCache[id.String()] = name
	}
	if err := d.cache.SetMany(ctx, toCache, d.ttl); err != nil {
		d.log.Warn("Name cache write failed", "error", err)
	}
	return out, nil
}
