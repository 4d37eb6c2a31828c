package types

// APICredentials is the symmetric credential set for the CLOB's private
// endpoints, obtained via L1 signature exchange. Treated as secret material:
// never logged, persisted only on explicit user request.
type APICredentials struct {
	APIKey     string `json:"apiKey"`
	Secret     string `json:"secret"`
	Passphrase string `json:"passphrase"`
}

// SignedOrderJSON represents a signed order in the format expected by the CLOB API.
// Fields match the EIP-712 order structure after signing.
type SignedOrderJSON struct {
	Salt          int64  `json:"salt"`          // Integer per API spec (not string)
	Maker         string `json:"maker"`         // Funder address
	Signer        string `json:"signer"`        // Signing address (EOA)
	Taker         string `json:"taker"`         // Operator address (0x0000... for public)
	TokenID       string `json:"tokenId"`       // ERC1155 token ID
	MakerAmount   string `json:"makerAmount"`   // Raw amount (6 decimals for USDC)
	TakerAmount   string `json:"takerAmount"`   // Raw token amount
	Side          string `json:"side"`          // "BUY" or "SELL"
	Expiration    string `json:"expiration"`    // Unix timestamp (0 for no expiry)
	Nonce         string `json:"nonce"`         // Nonce value
	FeeRateBps    string `json:"feeRateBps"`    // Fee rate in basis points
	SignatureType int    `json:"signatureType"` // Integer: 0=EOA, 1=POLY_PROXY, 2=GNOSIS_SAFE
	Signature     string `json:"signature"`     // Hex-encoded signature with 0x prefix
}

// OrderSubmissionRequest represents a single order submission wrapped with metadata.
type OrderSubmissionRequest struct {
	Order     SignedOrderJSON `json:"order"`     // Signed order data
	Owner     string          `json:"owner"`     // API key (not maker address!)
	OrderType string          `json:"orderType"` // GTC, FOK, GTD, or FAK
}

// OrderSubmissionResponse represents the response from POST /order.
type OrderSubmissionResponse struct {
	Success      bool     `json:"success"`      // Server-side success indicator
	ErrorMsg     string   `json:"errorMsg"`     // Error message if success=false
	OrderID      string   `json:"orderId"`      // Note: lowercase 'd' per API spec
	OrderHashes  []string `json:"orderHashes"`  // Settlement transaction hashes
	Status       string   `json:"status"`       // matched, live, delayed, unmatched
	TakingAmount string   `json:"takingAmount"` // Amount being taken (as string)
	MakingAmount string   `json:"makingAmount"` // Amount being made (as string)
}

// OpenOrder represents one entry from GET /data/orders.
type OpenOrder struct {
	OrderID      string `json:"id"`
	Status       string `json:"status"`
	TokenID      string `json:"asset_id"`
	Price        string `json:"price"`
	OriginalSize string `json:"original_size"`
	SizeMatched  string `json:"size_matched"`
	Side         string `json:"side"`
	CreatedAt    int64  `json:"created_at"`
	Expiration   string `json:"expiration"`
	OrderType    string `json:"order_type"`
	Market       string `json:"market"`
	Outcome      string `json:"outcome"`
	Owner        string `json:"owner"`
	MakerAddress string `json:"maker_address"`
}

// CancelResult represents the response from DELETE /orders.
// Cancellation is per-item: some orders may cancel while others fail.
type CancelResult struct {
	Canceled    []string          `json:"canceled"`
	NotCanceled map[string]string `json:"not_canceled"`
}

// BalanceAllowance represents the response from GET /balance-allowance.
type BalanceAllowance struct {
	Balance   string `json:"balance"`
	Allowance string `json:"allowance"`
}

// BookLevel is a single price level of an orderbook side.
type BookLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// OrderBook represents the response from GET /book.
type OrderBook struct {
	Market    string      `json:"market"`
	AssetID   string      `json:"asset_id"`
	Timestamp string      `json:"timestamp"`
	Bids      []BookLevel `json:"bids"`
	Asks      []BookLevel `json:"asks"`
	MinSize   string      `json:"min_order_size"`
	TickSize  string      `json:"tick_size"`
	NegRisk   bool        `json:"neg_risk"`
}

// BookMessage is one event from the market websocket channel.
type BookMessage struct {
	EventType string      `json:"event_type"`
	AssetID   string      `json:"asset_id"`
	Market    string      `json:"market"`
	Timestamp string      `json:"timestamp"`
	Bids      []BookLevel `json:"bids"`
	Asks      []BookLevel `json:"asks"`
}
