package graph

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type directoryObject struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// DisplayNames resolves user object ids to display names. Ids the directory
// does not know are left out of the result.
func (c *Client) DisplayNames(ctx context.Context, token string, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	ids = distinctIDs(ids)
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for start := 0; start < len(ids); start += c.batchSize {
		end := start + c.batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]
		g.Go(func() error {
			names, err := c.getByIDs(gctx, token, batch)
			if err != nil {
				return err
			}
			mu.Lock()
			for id, name := range names {
				out[id] = name
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.log.Warn("Directory lookup failed", "error", err, "ids", len(ids))
		return nil, err
	}
	return out, nil
}

func (c *Client) getByIDs(ctx context.Context, token string, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	req := struct {
		IDs   []string `json:"ids"`
		Types []string `json:"types"`
	}{Types: []string{"user"}}
	for _, id := range ids {
		req.IDs = append(req.IDs, id.String())
	}
	var resp struct {
		Value []directoryObject `json:"value"`
	}
	if err := c.postJSON(ctx, token, "/directoryObjects/getByIds", req, &resp); err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]string, len(resp.Value))
	for _, obj := range resp.Value {
		id, err := uuid.Parse(strings.TrimSpace(obj.ID))
		if err != nil {
			continue
		}
		out[id] = obj.DisplayName
	}
	return out, nil
}

func distinctIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
