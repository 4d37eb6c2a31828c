package markets

import (
	"context"
	"fmt"
	"time"

	"github.com/Polymarket/polymarket-cli/internal/orders"
	"github.com/Polymarket/polymarket-cli/pkg/cache"
)

// CachedMetadataClient wraps MetadataClient with caching. Tick size and
// minimum order size change rarely; top-of-book prices do not, so cached
// entries keep a short TTL.
type CachedMetadataClient struct {
	client *MetadataClient
	cache  cache.Cache
	ttl    time.Duration
}

// NewCachedMetadataClient creates a cached metadata client.
func NewCachedMetadataClient(client *MetadataClient, cache cache.Cache) *CachedMetadataClient {
	return &CachedMetadataClient{
		client: client,
		cache:  cache,
		ttl:    30 * time.Second,
	}
}

// GetMarketInfo fetches market metadata, serving from cache when fresh.
func (c *CachedMetadataClient) GetMarketInfo(ctx context.Context, tokenID string) (orders.MarketInfo, error) {
	cacheKey := fmt.Sprintf("metadata:%s", tokenID)

	if c.cache != nil {
		if cached, ok := c.cache.Get(cacheKey); ok {
			if info, ok := cached.(orders.MarketInfo); ok {
				return info, nil
			}
		}
	}

	info, err := c.client.FetchMarketInfo(ctx, tokenID)
	if err != nil {
		return info, err
	}

	if c.cache != nil {
		c.cache.Set(cacheKey, info, c.ttl)
	}

	return info, nil
}

// UpdateTickSize updates the cached tick size for a token in place. Called
// when a tick_size_change websocket event arrives. A token not in cache is
// a no-op; the next access fetches the current value.
func (c *CachedMetadataClient) UpdateTickSize(tokenID string, newTickSize float64) {
	if c.cache == nil || newTickSize <= 0 {
		return
	}

	cacheKey := fmt.Sprintf("metadata:%s", tokenID)
	if cached, ok := c.cache.Get(cacheKey); ok {
		if info, ok := cached.(orders.MarketInfo); ok {
			info.TickSize = newTickSize
			c.cache.Set(cacheKey, info, c.ttl)
		}
	}
}
