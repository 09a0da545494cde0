package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gojek/heimdall/v7/httpclient"

	"github.com/yungbote/learnnow-backend/internal/pkg/httpx"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

const maxRetryWait = 10 * time.Second

type Config struct {
	BaseURL string
	Timeout time.Duration
	// BatchSize caps ids per directoryObjects/getByIds call.
	BatchSize int
	// Parallelism caps concurrent batch calls.
	Parallelism int
	// MaxRetries bounds extra attempts on throttling and server errors.
	MaxRetries   int
	RetryBackoff time.Duration
}

// Client talks to Microsoft Graph on behalf of the calling user, whose bearer
// token is forwarded on every request.
type Client struct {
	log         *logger.Logger
	http        *httpclient.Client
	baseURL     string
	batchSize   int
	parallelism int
	maxRetries  int
	backoff     time.Duration
}

func NewClient(log *logger.Logger, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	batch := cfg.BatchSize
	if batch <= 0 || batch > 1000 {
		batch = 1000
	}
	par := cfg.Parallelism
	if par <= 0 {
		par = 4
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	return &Client{
		log:         log.With("client", "GraphClient"),
		http:        httpclient.NewClient(httpclient.WithHTTPTimeout(timeout), httpclient.WithRetryCount(0)),
		baseURL:     base,
		batchSize:   batch,
		parallelism: par,
		maxRetries:  retries,
		backoff:     backoff,
	}
}

type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graph: status %d: %s", e.Status, e.Body)
}

// postJSON retries throttled (429) and 5xx responses, honouring Retry-After.
func (c *Client) postJSON(ctx context.Context, token, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("graph: encode request: %w", err)
	}
	for attempt := 0; ; attempt++ {
		wait, err := c.tryPost(ctx, token, path, body, out)
		if err == nil {
			return nil
		}
		if wait < 0 || attempt >= c.maxRetries {
			return err
		}
		c.log.Warn("Graph call failed, retrying", "path", path, "attempt", attempt+1, "wait", wait, "error", err)
		if err := httpx.Sleep(ctx, wait); err != nil {
			return fmt.Errorf("graph: %s: %w", path, err)
		}
	}
}

// tryPost makes one attempt. A negative wait means the error is final.
func (c *Client) tryPost(ctx context.Context, token, path string, body []byte, out interface{}) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return -1, fmt.Errorf("graph: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil && resp == nil {
		if httpx.IsRetryableError(err) {
			return httpx.Jitter(c.backoff), fmt.Errorf("graph: %s: %w", path, err)
		}
		return -1, fmt.Errorf("graph: %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		se := &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
		if httpx.IsRetryableStatus(resp.StatusCode) {
			return httpx.RetryAfter(resp, httpx.Jitter(c.backoff), maxRetryWait), se
		}
		return -1, se
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return -1, fmt.Errorf("graph: decode %s: %w", path, err)
	}
	return 0, nil
}
