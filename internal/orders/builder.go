package orders

import (
	"fmt"
	"math"
	"math/big"

	"github.com/polymarket/go-order-utils/pkg/builder"
	"github.com/polymarket/go-order-utils/pkg/model"

	"github.com/Polymarket/polymarket-cli/internal/auth"
	"github.com/Polymarket/polymarket-cli/pkg/types"
)

const zeroAddress = "0x0000000000000000000000000000000000000000"

// Side of an order.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// ParseSide accepts the wire names case-insensitively.
func ParseSide(s string) (Side, error) {
	switch s {
	case "BUY", "buy", "Buy":
		return Buy, nil
	case "SELL", "sell", "Sell":
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown side %q (want buy or sell)", s)
	}
}

// OrderType is the time-in-force of an order.
type OrderType string

const (
	GTC OrderType = "GTC"
	GTD OrderType = "GTD"
	FOK OrderType = "FOK"
	FAK OrderType = "FAK"
)

// ParseOrderType validates a time-in-force value.
func ParseOrderType(s string) (OrderType, error) {
	switch OrderType(s) {
	case GTC, GTD, FOK, FAK:
		return OrderType(s), nil
	default:
		return "", fmt.Errorf("unknown order type %q (want GTC, GTD, FOK or FAK)", s)
	}
}

// Intent is the user's requested order before normalization. For limit
// orders Size carries outcome tokens; for market orders Size is zero and
// Notional carries the USDC amount to trade.
type Intent struct {
	TokenID    string
	Side       Side
	Price      float64
	Size       float64
	Notional   float64
	Type       OrderType
	Expiration int64 // unix seconds, 0 = no expiration
	Nonce      string
}

// MarketInfo is the metadata snapshot an order is built against.
type MarketInfo struct {
	TickSize     float64
	MinOrderSize float64
	NegRisk      bool
	FeeRateBps   int64
	BestBid      float64
	BestAsk      float64
}

// Builder assembles and signs exchange orders.
type Builder struct {
	chainID  int64
	exchange builder.ExchangeOrderBuilder
}

// NewBuilder creates a builder with random per-order salts.
func NewBuilder(chainID int64) *Builder {
	return NewBuilderWithSalt(chainID, nil)
}

// NewBuilderWithSalt creates a builder with an injected salt generator.
// A fixed generator makes signing fully deterministic; tests rely on this.
func NewBuilderWithSalt(chainID int64, saltGen func() int64) *Builder {
	return &Builder{
		chainID:  chainID,
		exchange: builder.NewExchangeOrderBuilderImpl(big.NewInt(chainID), saltGen),
	}
}

// NormalizePrice rounds a requested price to the instrument's tick size.
// Idempotent: an aligned price passes through unchanged. Prices outside
// (0, 1) after rounding are rejected.
func NormalizePrice(price, tickSize float64) (float64, error) {
	if tickSize <= 0 {
		tickSize = 0.01
	}

	decimals := tickDecimals(tickSize)
	normalized := roundAmount(math.Round(price/tickSize)*tickSize, decimals)

	if normalized <= 0 || normalized >= 1 {
		return 0, types.NewError(types.PriceOutOfRange,
			"price %.6f is outside (0, 1) after rounding to tick %.4f", price, tickSize)
	}

	return normalized, nil
}

// Build produces a fully populated, signed order from an intent. All fields
// are fixed before signing; any later mutation invalidates the signature,
// so failed submissions are reconstructed, never patched.
func (b *Builder) Build(identity *auth.EffectiveIdentity, intent Intent, market MarketInfo) (*model.SignedOrder, error) {
	price := intent.Price
	size := intent.Size

	if intent.Size == 0 && intent.Notional > 0 {
		marketPrice, err := marketablePrice(intent.Side, market)
		if err != nil {
			return nil, err
		}
		price = marketPrice
		size = intent.Notional / marketPrice
	}

	price, err := NormalizePrice(price, market.TickSize)
	if err != nil {
		return nil, err
	}

	if intent.Type == GTD && intent.Expiration == 0 {
		return nil, types.NewError(types.MissingExpiration, "GTD orders require --expiration")
	}

	sizePrecision, amountPrecision := roundingConfig(market.TickSize)
	size = roundAmount(size, sizePrecision)
	if size <= 0 {
		return nil, types.NewError(types.EncodingFailed, "order size must be positive")
	}
	if market.MinOrderSize > 0 && size < market.MinOrderSize {
		return nil, fmt.Errorf("order size %.2f below market minimum %.2f", size, market.MinOrderSize)
	}

	usdc := roundAmount(size*price, amountPrecision)

	var makerAmount, takerAmount string
	var side model.Side
	if intent.Side == Buy {
		// Spending USDC for outcome tokens
		makerAmount = toRawAmount(usdc)
		takerAmount = toRawAmount(size)
		side = model.BUY
	} else {
		// Selling outcome tokens for USDC
		makerAmount = toRawAmount(size)
		takerAmount = toRawAmount(usdc)
		side = model.SELL
	}

	nonce := intent.Nonce
	if nonce == "" {
		nonce = "0"
	}

	orderData := &model.OrderData{
		Maker:         identity.Maker.Hex(),
		Taker:         zeroAddress,
		TokenId:       intent.TokenID,
		MakerAmount:   makerAmount,
		TakerAmount:   takerAmount,
		Side:          side,
		FeeRateBps:    fmt.Sprintf("%d", market.FeeRateBps),
		Nonce:         nonce,
		Signer:        identity.Key.Address().Hex(),
		Expiration:    fmt.Sprintf("%d", intent.Expiration),
		SignatureType: identity.SignatureType.Model(),
	}

	contract := model.CTFExchange
	if market.NegRisk {
		contract = model.NegRiskCTFExchange
	}

	signed, err := b.exchange.BuildSignedOrder(identity.Key.ECDSA(), orderData, contract)
	if err != nil {
		return nil, types.WrapError(types.SigningFailed, err, "build signed order")
	}

	return signed, nil
}

// marketablePrice picks the opposing best price a market order would cross:
// the ask when buying, the bid when selling. Sizing from a single snapshot
// accepts slippage by construction.
func marketablePrice(side Side, market MarketInfo) (float64, error) {
	if side == Buy {
		if market.BestAsk <= 0 {
			return 0, fmt.Errorf("no asks available to price market buy")
		}
		return market.BestAsk, nil
	}
	if market.BestBid <= 0 {
		return 0, fmt.Errorf("no bids available to price market sell")
	}
	return market.BestBid, nil
}

// roundingConfig returns size and amount precision per tick size,
// matching the exchange's published rounding table.
func roundingConfig(tickSize float64) (sizePrecision int, amountPrecision int) {
	switch tickSize {
	case 0.1:
		return 2, 3
	case 0.01:
		return 2, 4
	case 0.001:
		return 2, 5
	case 0.0001:
		return 2, 6
	default:
		return 2, 4
	}
}

func tickDecimals(tickSize float64) int {
	switch tickSize {
	case 0.1:
		return 1
	case 0.001:
		return 3
	case 0.0001:
		return 4
	default:
		return 2
	}
}

func roundAmount(value float64, decimals int) float64 {
	multiplier := math.Pow10(decimals)
	return math.Round(value*multiplier) / multiplier
}

// toRawAmount converts a USDC or token amount to base units (6 decimals).
func toRawAmount(value float64) string {
	return fmt.Sprintf("%d", int64(math.Round(value*1e6)))
}
