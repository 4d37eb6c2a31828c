package clobapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Polymarket/polymarket-cli/internal/auth"
	"github.com/Polymarket/polymarket-cli/pkg/types"
)

// Client talks to the CLOB REST API. Public endpoints need no headers;
// private endpoints carry per-request HMAC headers built from the caller's
// credentials. The client holds no credential state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

// NewClient creates a CLOB API client against the given base URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
		now:    time.Now,
	}
}

// DeriveOrCreateCreds obtains API credentials for a key using L1
// authentication. It first asks the server to create a credential set;
// when one already exists the server rejects the create and the existing
// set is derived instead. Both paths sign the same attestation.
func (c *Client) DeriveOrCreateCreds(ctx context.Context, key *auth.KeyMaterial, chainID int64, nonce int64) (*types.APICredentials, error) {
	headers, err := auth.BuildL1Headers(key, chainID, c.now().Unix(), nonce)
	if err != nil {
		return nil, err
	}

	creds, createErr := c.credRequest(ctx, http.MethodPost, "/auth/api-key", headers)
	if createErr == nil {
		return creds, nil
	}

	c.logger.Debug("create-api-key-failed-deriving-existing", zap.Error(createErr))

	creds, deriveErr := c.credRequest(ctx, http.MethodGet, "/auth/derive-api-key", headers)
	if deriveErr != nil {
		return nil, types.WrapError(types.CredentialDerivationFailed, deriveErr,
			"derive API credentials (create also failed: %v)", createErr)
	}

	return creds, nil
}

func (c *Client) credRequest(ctx context.Context, method, path string, headers map[string]string) (*types.APICredentials, error) {
	var creds types.APICredentials
	if err := c.do(ctx, method, path, "", headers, "", &creds); err != nil {
		return nil, err
	}
	if creds.APIKey == "" || creds.Secret == "" || creds.Passphrase == "" {
		return nil, fmt.Errorf("server returned incomplete credentials")
	}
	return &creds, nil
}

// PostOrder submits a single signed order. A server-side rejection comes
// back as *types.OrderError so callers can branch on the error code.
func (c *Client) PostOrder(ctx context.Context, address string, creds types.APICredentials, req types.OrderSubmissionRequest) (*types.OrderSubmissionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	var resp types.OrderSubmissionResponse
	if err := c.private(ctx, address, creds, http.MethodPost, "/order", "", string(body), &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return &resp, &types.OrderError{
			Code:    orderErrorCode(resp.ErrorMsg),
			Message: resp.ErrorMsg,
			OrderID: resp.OrderID,
		}
	}
	return &resp, nil
}

// orderErrorCode extracts a known error code from the server's message.
func orderErrorCode(errorMsg string) string {
	for _, code := range []string{
		types.ErrInvalidMinTickSize,
		types.ErrNotEnoughBalance,
		types.ErrFOKNotFilled,
		types.ErrMarketNotReady,
		types.ErrUnmatched,
	} {
		if strings.Contains(errorMsg, code) {
			return code
		}
	}
	return types.ErrUnknownStatus
}

// CancelOrders cancels orders by id. Cancellation is per-item; the result
// lists which ids canceled and which did not, and the call succeeds even
// when some ids fail.
func (c *Client) CancelOrders(ctx context.Context, address string, creds types.APICredentials, orderIDs []string) (*types.CancelResult, error) {
	body, err := json.Marshal(orderIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal order ids: %w", err)
	}

	var result types.CancelResult
	if err := c.private(ctx, address, creds, http.MethodDelete, "/orders", "", string(body), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelAll cancels every open order for the credential's owner.
func (c *Client) CancelAll(ctx context.Context, address string, creds types.APICredentials) (*types.CancelResult, error) {
	var result types.CancelResult
	if err := c.private(ctx, address, creds, http.MethodDelete, "/cancel-all", "", "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// OpenOrders lists the caller's open orders, optionally filtered by market
// or asset id.
func (c *Client) OpenOrders(ctx context.Context, address string, creds types.APICredentials, market, assetID string) ([]types.OpenOrder, error) {
	query := url.Values{}
	if market != "" {
		query.Set("market", market)
	}
	if assetID != "" {
		query.Set("asset_id", assetID)
	}

	var orders []types.OpenOrder
	if err := c.private(ctx, address, creds, http.MethodGet, "/data/orders", query.Encode(), "", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Balance fetches the exchange-visible balance and allowance for the
// caller's funding wallet. assetType is COLLATERAL or CONDITIONAL; tokenID
// is required for CONDITIONAL.
func (c *Client) Balance(ctx context.Context, address string, creds types.APICredentials, assetType, tokenID string, signatureType int) (*types.BalanceAllowance, error) {
	query := url.Values{}
	query.Set("asset_type", assetType)
	query.Set("signature_type", fmt.Sprintf("%d", signatureType))
	if tokenID != "" {
		query.Set("token_id", tokenID)
	}

	var balance types.BalanceAllowance
	if err := c.private(ctx, address, creds, http.MethodGet, "/balance-allowance", query.Encode(), "", &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// private performs an authenticated request. The HMAC covers the path
// without the query string, matching the server's verification.
func (c *Client) private(ctx context.Context, address string, creds types.APICredentials, method, path, query, body string, out interface{}) error {
	headers, err := auth.BuildL2Headers(address, creds, c.now().Unix(), method, path, body)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, query, headers, body, out)
}

func (c *Client) do(ctx context.Context, method, path, query string, headers map[string]string, body string, out interface{}) error {
	endpoint := c.baseURL + path
	if query != "" {
		endpoint += "?" + query
	}

	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	requestID := uuid.New().String()
	c.logger.Debug("clob-request",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("clob-response",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apiError(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// apiError surfaces the server's error message when it sends one.
func apiError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("API error (status %d): %s", status, payload.Error)
	}
	return fmt.Errorf("API error (status %d): %s", status, strings.TrimSpace(string(body)))
}
