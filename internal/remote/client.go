package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultParallelism bounds concurrent batch uploads per index.
const DefaultParallelism = 4

// Client talks to an external search engine over HTTP. Errors are logged
// and returned to the caller; there are no automatic retries.
type Client struct {
	base        string
	http        *http.Client
	logger      *zap.Logger
	parallelism int
}

// NewClient creates a client for the engine at baseURL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		base:        strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
		parallelism: DefaultParallelism,
	}
}

// WithParallelism bounds concurrent batch uploads.
func (c *Client) WithParallelism(n int) *Client {
	if n > 0 {
		c.parallelism = n
	}
	return c
}

// Index returns a handle for one named index on the engine.
func (c *Client) Index(name string) *Index {
	return &Index{client: c, name: name}
}

// Index addresses one remote index by name.
type Index struct {
	client *Client
	name   string
}

// Name returns the remote index name.
func (ix *Index) Name() string { return ix.name }

// Reset drops every document in the remote index.
func (ix *Index) Reset(ctx context.Context) error {
	err := ix.client.call(ctx, http.MethodDelete, "/index/"+ix.name, nil, nil)
	if err != nil {
		ix.client.logger.Error("resetting remote index failed",
			zap.String("index", ix.name), zap.Error(err))
		return err
	}
	return nil
}

// Add uploads one batch of documents.
func (ix *Index) Add(ctx context.Context, docs any) error {
	err := ix.client.call(ctx, http.MethodPost, "/index/"+ix.name, docs, nil)
	if err != nil {
		ix.client.logger.Error("indexing batch failed",
			zap.String("index", ix.name), zap.Error(err))
		return err
	}
	return nil
}

// AddBatches uploads batches with the client's fixed parallelism factor,
// bounding concurrent requests against the engine. The first error wins;
// remaining in-flight batches still complete.
func (ix *Index) AddBatches(ctx context.Context, batches []any) error {
	if len(batches) == 0 {
		return nil
	}

	sem := make(chan struct{}, ix.client.parallelism)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, batch := range batches {
		wg.Add(1)
		sem <- struct{}{}
		go func(batch any) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := ix.Add(ctx, batch); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(batch)
	}

	wg.Wait()
	return firstErr
}

// Search runs a search against the remote index.
func (ix *Index) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	var resp SearchResponse
	err := ix.client.call(ctx, http.MethodPost, "/index/"+ix.name+"/search", req, &resp)
	if err != nil {
		ix.client.logger.Error("remote search failed",
			zap.String("index", ix.name), zap.Error(err))
		return SearchResponse{}, err
	}
	return resp, nil
}

// call issues one JSON request. A non-2xx status is an error carrying the
// response body.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
