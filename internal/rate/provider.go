// Package rate supplies the ARS/USD exchange rate used to derive USD
// amounts. The remote quote is best-effort: any failure inside the bounded
// timeout falls back to a configured constant, never an error.
package rate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"finanzas/internal/cache"
)

// DefaultURL is the informal "blue" quote endpoint the dashboard has always
// used.
const DefaultURL = "https://dolarapi.com/v1/dolares/blue"

const cacheKey = "blue"

type (
	// Provider yields the current ARS-per-USD rate. Implementations never
	// return an error; the fallback constant caps the failure mode.
	Provider interface {
		Rate(ctx context.Context) float64
	}

	// Config holds client configuration.
	Config struct {
		URL      string
		Fallback float64
		Timeout  time.Duration
	}

	// Client fetches the quote over HTTP.
	Client struct {
		http     *http.Client
		url      string
		fallback float64
	}

	// CachedProvider wraps a Provider with a TTL cache so repeated
	// dashboard loads within the TTL reuse one quote. The cache is an
	// explicit object owned by the caller, not process-wide state.
	CachedProvider struct {
		inner Provider
		cache *cache.LRUCache[float64]
	}
)

var _ Provider = (*Client)(nil)
var _ Provider = (*CachedProvider)(nil)
var _ cache.Cleaner = (*CachedProvider)(nil)

// quote mirrors the fields we need from the dolarapi payload.
type quote struct {
	Venta float64 `json:"venta"`
}

// NewClient builds an HTTP rate client with a bounded overall timeout.
func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	dialer := &net.Dialer{Timeout: cfg.Timeout, KeepAlive: 30 * time.Second}
	return &Client{
		http: &http.Client{
			Transport: &http.Transport{
				DialContext:           dialer.DialContext,
				TLSHandshakeTimeout:   cfg.Timeout,
				ResponseHeaderTimeout: cfg.Timeout,
				ForceAttemptHTTP2:     true,
			},
			Timeout: cfg.Timeout,
		},
		url:      cfg.URL,
		fallback: cfg.Fallback,
	}
}

// Rate returns the remote sell quote, or the fallback constant when the
// fetch fails or yields a non-positive value.
func (c *Client) Rate(ctx context.Context) float64 {
	v, err := c.fetch(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Rate fetch failed, using fallback",
			"url", c.url, "fallback", c.fallback, "error", err)
		return c.fallback
	}
	return v
}

func (c *Client) fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate endpoint status %d", resp.StatusCode)
	}
	var q quote
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return 0, fmt.Errorf("decode rate payload: %w", err)
	}
	if q.Venta <= 0 {
		return 0, fmt.Errorf("non-positive rate %f", q.Venta)
	}
	return q.Venta, nil
}

// NewCached wraps a provider with a TTL cache.
func NewCached(inner Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cache: cache.NewLRUCache[float64](1, ttl),
	}
}

// Rate returns the cached quote when fresh, otherwise fetches and caches.
func (p *CachedProvider) Rate(ctx context.Context) float64 {
	if v, ok := p.cache.Get(cacheKey); ok {
		return v
	}
	v := p.inner.Rate(ctx)
	p.cache.Set(cacheKey, v)
	return v
}

// CleanExpired lets the cache manager reap the stale quote.
func (p *CachedProvider) CleanExpired() int {
	return p.cache.CleanExpired()
}

// Constant is a fixed-rate provider, handy for tests and offline use.
type Constant float64

func (c Constant) Rate(context.Context) float64 {
	return float64(c)
}
