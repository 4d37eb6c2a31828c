package orders

import (
	"testing"

	"github.com/polymarket/go-order-utils/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Polymarket/polymarket-cli/internal/auth"
	"github.com/Polymarket/polymarket-cli/pkg/types"
)

const testTokenID = "71321045679252212594626385532706912750332728571942532289631379312455583992563"

func testIdentity(t *testing.T) *auth.EffectiveIdentity {
	t.Helper()
	key, err := auth.ParseKey("0x0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(t, err)
	return &auth.EffectiveIdentity{
		Key:           key,
		SignatureType: auth.EOA,
		Maker:         key.Address(),
		ChainID:       137,
	}
}

func fixedSalt() int64 { return 479249096354 }

func TestParseSide(t *testing.T) {
	side, err := ParseSide("buy")
	require.NoError(t, err)
	assert.Equal(t, Buy, side)

	side, err = ParseSide("SELL")
	require.NoError(t, err)
	assert.Equal(t, Sell, side)

	_, err = ParseSide("hold")
	assert.Error(t, err)
}

func TestParseOrderType(t *testing.T) {
	for _, s := range []string{"GTC", "GTD", "FOK", "FAK"} {
		got, err := ParseOrderType(s)
		require.NoError(t, err)
		assert.Equal(t, OrderType(s), got)
	}

	_, err := ParseOrderType("IOC")
	assert.Error(t, err)
}

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		tickSize float64
		want     float64
		wantErr  bool
	}{
		{name: "rounds to tick", price: 0.503, tickSize: 0.01, want: 0.50},
		{name: "aligned passes through", price: 0.55, tickSize: 0.01, want: 0.55},
		{name: "coarse tick", price: 0.347, tickSize: 0.1, want: 0.3},
		{name: "fine tick", price: 0.1234, tickSize: 0.001, want: 0.123},
		{name: "zero tick defaults", price: 0.503, tickSize: 0, want: 0.50},
		{name: "rounds to zero", price: 0.004, tickSize: 0.01, wantErr: true},
		{name: "rounds to one", price: 0.996, tickSize: 0.01, wantErr: true},
		{name: "negative", price: -0.5, tickSize: 0.01, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePrice(tt.price, tt.tickSize)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, types.IsKind(err, types.PriceOutOfRange))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNormalizePriceIdempotent(t *testing.T) {
	once, err := NormalizePrice(0.503, 0.01)
	require.NoError(t, err)
	twice, err := NormalizePrice(once, 0.01)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestBuildLimitBuy(t *testing.T) {
	id := testIdentity(t)
	b := NewBuilderWithSalt(id.ChainID, fixedSalt)

	signed, err := b.Build(id, Intent{
		TokenID: testTokenID,
		Side:    Buy,
		Price:   0.503,
		Size:    10,
		Type:    GTC,
	}, MarketInfo{TickSize: 0.01, MinOrderSize: 5, FeeRateBps: 100})
	require.NoError(t, err)

	// Price normalizes to 0.50, so 10 tokens cost 5 USDC.
	assert.Zero(t, signed.MakerAmount.Int64()-5_000_000)
	assert.Zero(t, signed.TakerAmount.Int64()-10_000_000)
	assert.Equal(t, uint64(model.BUY), signed.Side.Uint64())
	assert.Equal(t, int64(100), signed.FeeRateBps.Int64())
	assert.Equal(t, id.Maker.Hex(), signed.Maker.Hex())
	assert.Equal(t, id.Key.Address().Hex(), signed.Signer.Hex())
	assert.Len(t, signed.Signature, 65)
}

func TestBuildLimitSellInvertsAmounts(t *testing.T) {
	id := testIdentity(t)
	b := NewBuilderWithSalt(id.ChainID, fixedSalt)

	signed, err := b.Build(id, Intent{
		TokenID: testTokenID,
		Side:    Sell,
		Price:   0.50,
		Size:    10,
		Type:    GTC,
	}, MarketInfo{TickSize: 0.01})
	require.NoError(t, err)

	assert.Zero(t, signed.MakerAmount.Int64()-10_000_000)
	assert.Zero(t, signed.TakerAmount.Int64()-5_000_000)
	assert.Equal(t, uint64(model.SELL), signed.Side.Uint64())
}

func TestBuildDeterministicWithFixedSalt(t *testing.T) {
	id := testIdentity(t)
	intent := Intent{TokenID: testTokenID, Side: Buy, Price: 0.50, Size: 10, Type: GTC}
	market := MarketInfo{TickSize: 0.01}

	first, err := NewBuilderWithSalt(id.ChainID, fixedSalt).Build(id, intent, market)
	require.NoError(t, err)
	second, err := NewBuilderWithSalt(id.ChainID, fixedSalt).Build(id, intent, market)
	require.NoError(t, err)

	assert.Equal(t, first.Salt.String(), second.Salt.String())
	assert.Equal(t, first.Signature, second.Signature)
}

func TestBuildRandomSaltsDiffer(t *testing.T) {
	id := testIdentity(t)
	b := NewBuilder(id.ChainID)
	intent := Intent{TokenID: testTokenID, Side: Buy, Price: 0.50, Size: 10, Type: GTC}
	market := MarketInfo{TickSize: 0.01}

	first, err := b.Build(id, intent, market)
	require.NoError(t, err)
	second, err := b.Build(id, intent, market)
	require.NoError(t, err)

	assert.NotEqual(t, first.Salt.String(), second.Salt.String())
}

func TestBuildGTDRequiresExpiration(t *testing.T) {
	id := testIdentity(t)
	b := NewBuilderWithSalt(id.ChainID, fixedSalt)

	_, err := b.Build(id, Intent{
		TokenID: testTokenID,
		Side:    Buy,
		Price:   0.50,
		Size:    10,
		Type:    GTD,
	}, MarketInfo{TickSize: 0.01})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.MissingExpiration))
}

func TestBuildMarketOrderSizesFromNotional(t *testing.T) {
	id := testIdentity(t)
	b := NewBuilderWithSalt(id.ChainID, fixedSalt)

	// 20 USDC at best ask 0.40 buys 50 tokens.
	signed, err := b.Build(id, Intent{
		TokenID:  testTokenID,
		Side:     Buy,
		Notional: 20,
		Type:     FAK,
	}, MarketInfo{TickSize: 0.01, BestBid: 0.38, BestAsk: 0.40})
	require.NoError(t, err)

	assert.Zero(t, signed.TakerAmount.Int64()-50_000_000)
	assert.Zero(t, signed.MakerAmount.Int64()-20_000_000)
}

func TestBuildMarketOrderNeedsOpposingSide(t *testing.T) {
	id := testIdentity(t)
	b := NewBuilderWithSalt(id.ChainID, fixedSalt)

	_, err := b.Build(id, Intent{
		TokenID:  testTokenID,
		Side:     Buy,
		Notional: 20,
		Type:     FAK,
	}, MarketInfo{TickSize: 0.01, BestBid: 0.38})
	assert.Error(t, err)
}

func TestBuildRejectsBelowMinimumSize(t *testing.T) {
	id := testIdentity(t)
	b := NewBuilderWithSalt(id.ChainID, fixedSalt)

	_, err := b.Build(id, Intent{
		TokenID: testTokenID,
		Side:    Buy,
		Price:   0.50,
		Size:    1,
		Type:    GTC,
	}, MarketInfo{TickSize: 0.01, MinOrderSize: 5})
	assert.Error(t, err)
}

func TestToWire(t *testing.T) {
	id := testIdentity(t)
	b := NewBuilderWithSalt(id.ChainID, fixedSalt)

	signed, err := b.Build(id, Intent{
		TokenID: testTokenID,
		Side:    Sell,
		Price:   0.50,
		Size:    10,
		Type:    GTC,
		Nonce:   "7",
	}, MarketInfo{TickSize: 0.01, FeeRateBps: 100})
	require.NoError(t, err)

	wire := ToWire(signed)
	assert.Equal(t, signed.Salt.Int64(), wire.Salt)
	assert.Equal(t, id.Maker.Hex(), wire.Maker)
	assert.Equal(t, testTokenID, wire.TokenID)
	assert.Equal(t, "SELL", wire.Side)
	assert.Equal(t, "7", wire.Nonce)
	assert.Equal(t, "100", wire.FeeRateBps)
	assert.Equal(t, 0, wire.SignatureType)
	assert.Equal(t, "0x", wire.Signature[:2])
	assert.Len(t, wire.Signature, 132)
}
