// Package fetch is the HTTP client side of the products endpoint.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/mkoller/restock/internal/database"
)

// Client fetches the product catalog from the backend. Transient failures
// (connection errors, 5xx) are retried with fibonacci backoff; client errors
// and malformed payloads are not.
type Client struct {
	baseURL    string
	maxRetries uint64
	client     *http.Client
}

// NewClient creates a catalog client. baseURL is the backend root, without
// the /api/products path.
func NewClient(baseURL string, timeout time.Duration, maxRetries int) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxRetries: uint64(maxRetries),
		client:     &http.Client{Timeout: timeout},
	}
}

// Products fetches the whole catalog in one request. The response is fully
// parsed before it is returned; callers never observe a partial list.
func (c *Client) Products(ctx context.Context) ([]database.Product, error) {
	var products []database.Product

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		products, err = c.fetchOnce(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching products from %s: %w", c.baseURL, err)
	}

	log.Printf("fetched %d products from %s", len(products), c.baseURL)
	return products, nil
}

func (c *Client) fetchOnce(ctx context.Context) ([]database.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "restock/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		// Connection-level failures are worth retrying.
		return nil, retry.RetryableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return nil, retry.RetryableError(fmt.Errorf("backend returned %s", resp.Status))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned %s", resp.Status)
	}

	var products []database.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decoding products: %w", err)
	}
	return products, nil
}
