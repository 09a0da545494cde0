package imagesearch

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

type Config struct {
	APIKey string
	// EngineID is the programmable search engine id (cx).
	EngineID string
	// Endpoint overrides the API base URL.
	Endpoint string
	Results  int64
}

// Client finds cover images for resources and learning modules through the
// Custom Search JSON API.
type Client struct {
	log     *logger.Logger
	svc     *customsearch.Service
	cx      string
	results int64
}

func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.EngineID) == "" {
		return nil, fmt.Errorf("image search requires an api key and engine id")
	}
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create custom search service: %w", err)
	}
	results := cfg.Results
	if results <= 0 || results > 10 {
		results = 10
	}
	return &Client{
		log:     log.With("client", "ImageSearch"),
		svc:     svc,
		cx:      cfg.EngineID,
		results: results,
	}, nil
}

// Search returns image links matching text, best match first.
func (c *Client) Search(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}, nil
	}
	res, err := c.svc.Cse.List().
		Context(ctx).
		Cx(c.cx).
		Q(text).
		SearchType("image").
		Safe("active").
		Num(c.results).
		Do()
	if err != nil {
		c.log.Warn("Image search failed", "error", err)
		return nil, fmt.Errorf("image search: %w", err)
	}
	out := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		if item == nil || strings.TrimSpace(item.Link) == "" {
			continue
		}
		out = append(out, item.Link)
	}
	return out, nil
}
