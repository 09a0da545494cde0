package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/learnnow-backend/internal/clients/graph"
	"github.com/yungbote/learnnow-backend/internal/clients/imagesearch"
	"github.com/yungbote/learnnow-backend/internal/clients/localcache"
	"github.com/yungbote/learnnow-backend/internal/clients/redis"
	"github.com/yungbote/learnnow-backend/internal/platform/apierr"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
	"github.com/yungbote/learnnow-backend/internal/services"
)

type Clients struct {
	Graph       *graph.Client
	Directory   services.Directory
	Blobs       services.BlobStore
	ImageSearch services.ImageSearcher
	// Redis is nil when names are cached in process.
	Redis *redis.NameCache
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	graphClient := graph.NewClient(log, cfg.Graph)

	// Display-name cache: Redis when configured, process memory otherwise.
	var (
		cache     graph.NameCache
		nameRedis *redis.NameCache
	)
	if cfg.Redis.Addr != "" {
		rc, err := redis.NewNameCache(log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis name cache: %w", err)
		}
		cache, nameRedis = rc, rc
	} else {
		log.Info("REDIS_ADDR not set; caching display names in process")
		cache = localcache.NewNameCache(cfg.NameCacheTTL)
	}
	directory := graph.NewCachedDirectory(log, graphClient, cache, cfg.NameCacheTTL)

	blobs, err := resolveBlobStore(log, cfg)
	if err != nil {
		if nameRedis != nil {
			_ = nameRedis.Close()
		}
		return Clients{}, err
	}

	var searcher services.ImageSearcher = disabledImageSearch{}
	if cfg.ImageSearch.APIKey != "" {
		is, err := imagesearch.NewClient(ctx, log, cfg.ImageSearch)
		if err != nil {
			if nameRedis != nil {
				_ = nameRedis.Close()
			}
			return Clients{}, fmt.Errorf("init image search: %w", err)
		}
		searcher = is
	} else {
		log.Warn("Image search disabled (no api key configured)")
	}

	return Clients{
		Graph:       graphClient,
		Directory:   directory,
		Blobs:       blobs,
		ImageSearch: searcher,
		Redis:       nameRedis,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}

type disabledImageSearch struct{}

func (disabledImageSearch) Search(context.Context, string) ([]string, error) {
	return nil, apierr.New(http.StatusServiceUnavailable, "image_search_disabled", errors.New("image search is not configured"))
}
