package markets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Polymarket/polymarket-cli/pkg/types"
)

func newMetadataServer(t *testing.T, tickSize float64, feeBps int64, book *types.OrderBook) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tick-size":
			json.NewEncoder(w).Encode(map[string]float64{"minimum_tick_size": tickSize})
		case "/fee-rate":
			json.NewEncoder(w).Encode(map[string]int64{"base_fee": feeBps})
		case "/book":
			if book == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(book)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestFetchTickSize(t *testing.T) {
	tests := []struct {
		name         string
		responseCode int
		responseBody string
		want         float64
		wantErr      bool
	}{
		{name: "valid", responseCode: http.StatusOK, responseBody: `{"minimum_tick_size": 0.01}`, want: 0.01},
		{name: "fine tick", responseCode: http.StatusOK, responseBody: `{"minimum_tick_size": 0.001}`, want: 0.001},
		{name: "not found", responseCode: http.StatusNotFound, wantErr: true},
		{name: "bad body", responseCode: http.StatusOK, responseBody: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "token-123", r.URL.Query().Get("token_id"))
				w.WriteHeader(tt.responseCode)
				w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			client := NewMetadataClient(server.URL)
			got, err := client.FetchTickSize(context.Background(), "token-123")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetchBook(t *testing.T) {
	book := &types.OrderBook{
		AssetID:  "token-123",
		MinSize:  "15",
		TickSize: "0.001",
		NegRisk:  true,
		Bids: []types.BookLevel{
			{Price: "0.40", Size: "100"},
			{Price: "0.45", Size: "50"},
		},
		Asks: []types.BookLevel{
			{Price: "0.55", Size: "80"},
			{Price: "0.50", Size: "20"},
		},
	}
	server := newMetadataServer(t, 0.001, 0, book)
	defer server.Close()

	client := NewMetadataClient(server.URL)
	got, err := client.FetchBook(context.Background(), "token-123")
	require.NoError(t, err)
	assert.True(t, got.NegRisk)
	assert.Len(t, got.Bids, 2)
	assert.Len(t, got.Asks, 2)
}

func TestFetchMarketInfo(t *testing.T) {
	book := &types.OrderBook{
		MinSize: "15",
		NegRisk: true,
		Bids: []types.BookLevel{
			{Price: "0.40", Size: "100"},
			{Price: "0.45", Size: "50"},
		},
		Asks: []types.BookLevel{
			{Price: "0.55", Size: "80"},
			{Price: "0.50", Size: "20"},
		},
	}
	server := newMetadataServer(t, 0.001, 100, book)
	defer server.Close()

	client := NewMetadataClient(server.URL)
	info, err := client.FetchMarketInfo(context.Background(), "token-123")
	require.NoError(t, err)

	assert.Equal(t, 0.001, info.TickSize)
	assert.Equal(t, 15.0, info.MinOrderSize)
	assert.True(t, info.NegRisk)
	assert.Equal(t, int64(100), info.FeeRateBps)
	assert.Equal(t, 0.45, info.BestBid)
	assert.Equal(t, 0.50, info.BestAsk)
}

func TestFetchFeeRateBps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fee-rate", r.URL.Path)
		assert.Equal(t, "token-123", r.URL.Query().Get("token_id"))
		json.NewEncoder(w).Encode(map[string]int64{"base_fee": 100})
	}))
	defer server.Close()

	client := NewMetadataClient(server.URL)
	got, err := client.FetchFeeRateBps(context.Background(), "token-123")
	require.NoError(t, err)
	assert.Equal(t, int64(100), got)
}

func TestFetchMarketInfoFeeUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tick-size":
			json.NewEncoder(w).Encode(map[string]float64{"minimum_tick_size": 0.01})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewMetadataClient(server.URL)
	info, err := client.FetchMarketInfo(context.Background(), "token-123")
	require.NoError(t, err)
	assert.Zero(t, info.FeeRateBps)
}

func TestFetchMarketInfoDefaultsWhenBookUnavailable(t *testing.T) {
	server := newMetadataServer(t, 0, 0, nil)
	defer server.Close()

	client := NewMetadataClient(server.URL)
	info, err := client.FetchMarketInfo(context.Background(), "token-123")
	require.NoError(t, err)

	assert.Equal(t, defaultTickSize, info.TickSize)
	assert.Equal(t, defaultMinOrderSize, info.MinOrderSize)
	assert.False(t, info.NegRisk)
	assert.Zero(t, info.BestBid)
	assert.Zero(t, info.BestAsk)
}
