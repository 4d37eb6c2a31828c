package markets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Polymarket/polymarket-cli/internal/orders"
	"github.com/Polymarket/polymarket-cli/pkg/types"
)

const (
	defaultTickSize     = 0.01
	defaultMinOrderSize = 5.0
)

// MetadataClient fetches market metadata from the CLOB's public endpoints.
type MetadataClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewMetadataClient creates a metadata client against the given CLOB base URL.
func NewMetadataClient(baseURL string) *MetadataClient {
	return &MetadataClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchTickSize fetches the minimum tick size for a token.
func (c *MetadataClient) FetchTickSize(ctx context.Context, tokenID string) (float64, error) {
	endpoint := fmt.Sprintf("%s/tick-size?token_id=%s", c.baseURL, url.QueryEscape(tokenID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch tick size: status %d", resp.StatusCode)
	}

	var data struct {
		MinimumTickSize float64 `json:"minimum_tick_size"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, err
	}

	return data.MinimumTickSize, nil
}

// FetchFeeRateBps fetches the maker fee rate for a token in basis points.
func (c *MetadataClient) FetchFeeRateBps(ctx context.Context, tokenID string) (int64, error) {
	endpoint := fmt.Sprintf("%s/fee-rate?token_id=%s", c.baseURL, url.QueryEscape(tokenID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch fee rate: status %d", resp.StatusCode)
	}

	var data struct {
		BaseFee int64 `json:"base_fee"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, err
	}

	return data.BaseFee, nil
}

// FetchBook fetches the current orderbook snapshot for a token.
func (c *MetadataClient) FetchBook(ctx context.Context, tokenID string) (*types.OrderBook, error) {
	endpoint := fmt.Sprintf("%s/book?token_id=%s", c.baseURL, url.QueryEscape(tokenID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch book: status %d", resp.StatusCode)
	}

	var book types.OrderBook
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		return nil, err
	}

	return &book, nil
}

// FetchMarketInfo assembles the metadata an order is built against: tick
// size, minimum order size, neg-risk routing and top-of-book prices.
// Missing values fall back to the exchange defaults rather than failing,
// so order construction still works when an endpoint is degraded.
func (c *MetadataClient) FetchMarketInfo(ctx context.Context, tokenID string) (orders.MarketInfo, error) {
	info := orders.MarketInfo{
		TickSize:     defaultTickSize,
		MinOrderSize: defaultMinOrderSize,
	}

	if tickSize, err := c.FetchTickSize(ctx, tokenID); err == nil && tickSize > 0 {
		info.TickSize = tickSize
	}

	if feeBps, err := c.FetchFeeRateBps(ctx, tokenID); err == nil && feeBps > 0 {
		info.FeeRateBps = feeBps
	}

	book, err := c.FetchBook(ctx, tokenID)
	if err != nil {
		return info, nil
	}

	info.NegRisk = book.NegRisk
	if minSize, err := strconv.ParseFloat(book.MinSize, 64); err == nil && minSize > 0 {
		info.MinOrderSize = minSize
	}
	info.BestBid, info.BestAsk = topOfBook(book)

	return info, nil
}

// topOfBook scans both sides rather than assuming server-side ordering.
func topOfBook(book *types.OrderBook) (bestBid, bestAsk float64) {
	for _, level := range book.Bids {
		price, err := strconv.ParseFloat(level.Price, 64)
		if err != nil {
			continue
		}
		if price > bestBid {
			bestBid = price
		}
	}
	for _, level := range book.Asks {
		price, err := strconv.ParseFloat(level.Price, 64)
		if err != nil {
			continue
		}
		if bestAsk == 0 || price < bestAsk {
			bestAsk = price
		}
	}
	return bestBid, bestAsk
}
