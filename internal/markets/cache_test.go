package markets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Polymarket/polymarket-cli/pkg/cache"
)

type mapCache struct {
	entries map[string]interface{}
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]interface{})}
}

func (c *mapCache) Get(key string) (interface{}, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapCache) Set(key string, value interface{}, _ time.Duration) bool {
	c.entries[key] = value
	return true
}

func (c *mapCache) Delete(key string) { delete(c.entries, key) }
func (c *mapCache) Clear()            { c.entries = make(map[string]interface{}) }
func (c *mapCache) Close()            {}

var _ cache.Cache = (*mapCache)(nil)

func TestGetMarketInfoCachesResult(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		switch r.URL.Path {
		case "/tick-size":
			json.NewEncoder(w).Encode(map[string]float64{"minimum_tick_size": 0.01})
		case "/fee-rate":
			json.NewEncoder(w).Encode(map[string]int64{"base_fee": 100})
		case "/book":
			json.NewEncoder(w).Encode(map[string]interface{}{"min_order_size": "5"})
		}
	}))
	defer server.Close()

	cached := NewCachedMetadataClient(NewMetadataClient(server.URL), newMapCache())

	first, err := cached.GetMarketInfo(context.Background(), "token-123")
	require.NoError(t, err)
	afterFirst := atomic.LoadInt64(&hits)
	assert.Equal(t, int64(3), afterFirst)

	second, err := cached.GetMarketInfo(context.Background(), "token-123")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(100), second.FeeRateBps)
	assert.Equal(t, afterFirst, atomic.LoadInt64(&hits))
}

func TestGetMarketInfoNilCache(t *testing.T) {
	server := newMetadataServer(t, 0.01, 0, nil)
	defer server.Close()

	cached := NewCachedMetadataClient(NewMetadataClient(server.URL), nil)
	info, err := cached.GetMarketInfo(context.Background(), "token-123")
	require.NoError(t, err)
	assert.Equal(t, 0.01, info.TickSize)
}

func TestUpdateTickSize(t *testing.T) {
	server := newMetadataServer(t, 0.01, 0, nil)
	defer server.Close()

	store := newMapCache()
	cached := NewCachedMetadataClient(NewMetadataClient(server.URL), store)

	_, err := cached.GetMarketInfo(context.Background(), "token-123")
	require.NoError(t, err)

	cached.UpdateTickSize("token-123", 0.001)
	info, err := cached.GetMarketInfo(context.Background(), "token-123")
	require.NoError(t, err)
	assert.Equal(t, 0.001, info.TickSize)

	// Unknown token is a no-op.
	cached.UpdateTickSize("token-999", 0.1)
	_, ok := store.Get("metadata:token-999")
	assert.False(t, ok)
}
