package orders

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/polymarket/go-order-utils/pkg/model"

	"github.com/Polymarket/polymarket-cli/internal/chain"
	"github.com/Polymarket/polymarket-cli/pkg/types"
)

// Exchange order typed-data domain, fixed by the deployed verifier.
const (
	exchangeDomainName    = "Polymarket CTF Exchange"
	exchangeDomainVersion = "1"
)

// HashOrder recomputes the EIP-712 digest of a signed order, independently
// of the signing library. Byte-identical hashing across implementations is
// the interoperability contract with the exchange's verifier.
func HashOrder(order *model.SignedOrder, chainID int64, negRisk bool) (common.Hash, error) {
	cfg, err := chain.ForChain(chainID)
	if err != nil {
		return common.Hash{}, err
	}

	verifyingContract := cfg.CTFExchange
	if negRisk {
		verifyingContract = cfg.NegRiskCTFExchange
	}

	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Order": []apitypes.Type{
				{Name: "salt", Type: "uint256"},
				{Name: "maker", Type: "address"},
				{Name: "signer", Type: "address"},
				{Name: "taker", Type: "address"},
				{Name: "tokenId", Type: "uint256"},
				{Name: "makerAmount", Type: "uint256"},
				{Name: "takerAmount", Type: "uint256"},
				{Name: "expiration", Type: "uint256"},
				{Name: "nonce", Type: "uint256"},
				{Name: "feeRateBps", Type: "uint256"},
				{Name: "side", Type: "uint8"},
				{Name: "signatureType", Type: "uint8"},
			},
		},
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              exchangeDomainName,
			Version:           exchangeDomainVersion,
			ChainId:           math.NewHexOrDecimal256(chainID),
			VerifyingContract: verifyingContract.Hex(),
		},
		Message: map[string]interface{}{
			"salt":          order.Salt.String(),
			"maker":         order.Maker.Hex(),
			"signer":        order.Signer.Hex(),
			"taker":         order.Taker.Hex(),
			"tokenId":       order.TokenId.String(),
			"makerAmount":   order.MakerAmount.String(),
			"takerAmount":   order.TakerAmount.String(),
			"expiration":    order.Expiration.String(),
			"nonce":         order.Nonce.String(),
			"feeRateBps":    order.FeeRateBps.String(),
			"side":          order.Side.String(),
			"signatureType": order.SignatureType.String(),
		},
	}

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return common.Hash{}, fmt.Errorf("hash order domain: %w", err)
	}

	structHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return common.Hash{}, fmt.Errorf("hash order struct: %w", err)
	}

	return crypto.Keccak256Hash([]byte("\x19\x01"), domainSeparator, structHash), nil
}

// VerifyOrderSignature recovers the signer from an order's signature and
// checks it against the order's signer field. Every order this program
// produces must pass; a mismatch means a field was mutated after signing.
func VerifyOrderSignature(order *model.SignedOrder, chainID int64, negRisk bool) error {
	digest, err := HashOrder(order, chainID, negRisk)
	if err != nil {
		return err
	}

	if len(order.Signature) != 65 {
		return types.NewError(types.SigningFailed, "signature must be 65 bytes, got %d", len(order.Signature))
	}

	sig := make([]byte, 65)
	copy(sig, order.Signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pub, err := crypto.SigToPub(digest.Bytes(), sig)
	if err != nil {
		return types.WrapError(types.SigningFailed, err, "recover signer")
	}

	recovered := crypto.PubkeyToAddress(*pub)
	if !bytes.Equal(recovered.Bytes(), order.Signer.Bytes()) {
		return types.NewError(types.SigningFailed,
			"signature recovers %s, order signer is %s", recovered.Hex(), order.Signer.Hex())
	}

	return nil
}
