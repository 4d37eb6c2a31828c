package orders

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/polymarket/go-order-utils/pkg/model"

	"github.com/Polymarket/polymarket-cli/pkg/types"
)

// ToWire converts a signed order to the JSON shape the CLOB API expects.
func ToWire(order *model.SignedOrder) types.SignedOrderJSON {
	side := string(Buy)
	if order.Side.Uint64() == uint64(model.SELL) {
		side = string(Sell)
	}

	return types.SignedOrderJSON{
		Salt:          order.Salt.Int64(),
		Maker:         order.Maker.Hex(),
		Signer:        order.Signer.Hex(),
		Taker:         order.Taker.Hex(),
		TokenID:       order.TokenId.String(),
		MakerAmount:   order.MakerAmount.String(),
		TakerAmount:   order.TakerAmount.String(),
		Side:          side,
		Expiration:    order.Expiration.String(),
		Nonce:         order.Nonce.String(),
		FeeRateBps:    order.FeeRateBps.String(),
		SignatureType: int(order.SignatureType.Int64()),
		Signature:     "0x" + common.Bytes2Hex(order.Signature),
	}
}
