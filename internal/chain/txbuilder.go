package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/Polymarket/polymarket-cli/pkg/types"
)

// ERC20 approve function ABI
const erc20ApproveABI = `[{"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"}]`

// ERC1155 setApprovalForAll ABI
const erc1155ApprovalABI = `[{"constant":false,"inputs":[{"name":"operator","type":"address"},{"name":"approved","type":"bool"}],"name":"setApprovalForAll","outputs":[],"type":"function"}]`

// Conditional tokens split/merge/redeem ABIs
const ctfABI = `[
	{"constant":false,"inputs":[{"name":"collateralToken","type":"address"},{"name":"parentCollectionId","type":"bytes32"},{"name":"conditionId","type":"bytes32"},{"name":"partition","type":"uint256[]"},{"name":"amount","type":"uint256"}],"name":"splitPosition","outputs":[],"type":"function"},
	{"constant":false,"inputs":[{"name":"collateralToken","type":"address"},{"name":"parentCollectionId","type":"bytes32"},{"name":"conditionId","type":"bytes32"},{"name":"partition","type":"uint256[]"},{"name":"amount","type":"uint256"}],"name":"mergePositions","outputs":[],"type":"function"},
	{"constant":false,"inputs":[{"name":"collateralToken","type":"address"},{"name":"parentCollectionId","type":"bytes32"},{"name":"conditionId","type":"bytes32"},{"name":"indexSets","type":"uint256[]"}],"name":"redeemPositions","outputs":[],"type":"function"}
]`

// Negative-risk adapter redemption ABI
const negRiskAdapterABI = `[{"constant":false,"inputs":[{"name":"conditionId","type":"bytes32"},{"name":"amounts","type":"uint256[]"}],"name":"redeemPositions","outputs":[],"type":"function"}]`

// Proxy wallet passthrough ABI
const proxyExecABI = `[{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"data","type":"bytes"}],"name":"exec","outputs":[],"type":"function"}]`

var (
	erc20Parsed   = mustABI(erc20ApproveABI)
	erc1155Parsed = mustABI(erc1155ApprovalABI)
	ctfParsed     = mustABI(ctfABI)
	adapterParsed = mustABI(negRiskAdapterABI)
	proxyParsed   = mustABI(proxyExecABI)
)

func mustABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// MaxUint256 is the unlimited approval amount.
var MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Call is one encoded contract call, ready for the transport layer.
// Built once, never mutated.
type Call struct {
	To    common.Address
	Data  []byte
	Label string
}

// ApprovalCalls encodes the full approval set for trading: the collateral
// token and the conditional-token contract each approve the regular
// exchange, the neg-risk exchange and the neg-risk adapter's exchange path.
// Six independent, idempotent calls; no pre-checks, this is purely an
// encoder.
func ApprovalCalls(cfg *ChainConfig) ([]Call, error) {
	spenders := []struct {
		addr common.Address
		name string
	}{
		{cfg.CTFExchange, "CTF Exchange"},
		{cfg.NegRiskCTFExchange, "Neg Risk CTF Exchange"},
		{cfg.NegRiskAdapter, "Neg Risk Adapter"},
	}

	calls := make([]Call, 0, 6)
	for _, spender := range spenders {
		data, err := erc20Parsed.Pack("approve", spender.addr, MaxUint256)
		if err != nil {
			return nil, types.WrapError(types.EncodingFailed, err, "pack USDC approve for %s", spender.name)
		}
		calls = append(calls, Call{
			To:    cfg.Collateral,
			Data:  data,
			Label: "USDC approve -> " + spender.name,
		})

		data, err = erc1155Parsed.Pack("setApprovalForAll", spender.addr, true)
		if err != nil {
			return nil, types.WrapError(types.EncodingFailed, err, "pack CTF approval for %s", spender.name)
		}
		calls = append(calls, Call{
			To:    cfg.ConditionalTokens,
			Data:  data,
			Label: "CTF setApprovalForAll -> " + spender.name,
		})
	}

	return calls, nil
}

// DefaultBinaryPartition is the index-set partition of a binary market.
func DefaultBinaryPartition() []*big.Int {
	return []*big.Int{big.NewInt(1), big.NewInt(2)}
}

// SplitCall encodes splitting collateral into a full outcome-token set.
// A nil partition defaults to the binary partition {1, 2}.
func SplitCall(cfg *ChainConfig, conditionID common.Hash, partition []*big.Int, amount *big.Int) (Call, error) {
	return ctfPositionCall(cfg, "splitPosition", conditionID, partition, amount)
}

// MergeCall encodes merging a full outcome-token set back into collateral.
func MergeCall(cfg *ChainConfig, conditionID common.Hash, partition []*big.Int, amount *big.Int) (Call, error) {
	return ctfPositionCall(cfg, "mergePositions", conditionID, partition, amount)
}

func ctfPositionCall(cfg *ChainConfig, method string, conditionID common.Hash, partition []*big.Int, amount *big.Int) (Call, error) {
	if amount == nil || amount.Sign() <= 0 {
		return Call{}, types.NewError(types.EncodingFailed, "%s amount must be positive", method)
	}
	if len(partition) == 0 {
		partition = DefaultBinaryPartition()
	}

	data, err := ctfParsed.Pack(method, cfg.Collateral, [32]byte{}, [32]byte(conditionID), partition, amount)
	if err != nil {
		return Call{}, types.WrapError(types.EncodingFailed, err, "pack %s", method)
	}

	return Call{To: cfg.ConditionalTokens, Data: data, Label: method}, nil
}

// RedeemCall encodes redemption of resolved outcome tokens. A nil indexSets
// defaults to the binary partition.
func RedeemCall(cfg *ChainConfig, conditionID common.Hash, indexSets []*big.Int) (Call, error) {
	if len(indexSets) == 0 {
		indexSets = DefaultBinaryPartition()
	}

	data, err := ctfParsed.Pack("redeemPositions", cfg.Collateral, [32]byte{}, [32]byte(conditionID), indexSets)
	if err != nil {
		return Call{}, types.WrapError(types.EncodingFailed, err, "pack redeemPositions")
	}

	return Call{To: cfg.ConditionalTokens, Data: data, Label: "redeemPositions"}, nil
}

// RedeemNegRiskCall encodes redemption through the neg-risk adapter, which
// takes explicit per-outcome amounts instead of index sets.
func RedeemNegRiskCall(cfg *ChainConfig, conditionID common.Hash, amounts []*big.Int) (Call, error) {
	if len(amounts) == 0 {
		return Call{}, types.NewError(types.EncodingFailed, "neg-risk redemption requires per-outcome amounts")
	}
	for i, amount := range amounts {
		if amount == nil || amount.Sign() < 0 {
			return Call{}, types.NewError(types.EncodingFailed, "neg-risk amount %d must be non-negative", i)
		}
	}

	data, err := adapterParsed.Pack("redeemPositions", [32]byte(conditionID), amounts)
	if err != nil {
		return Call{}, types.WrapError(types.EncodingFailed, err, "pack neg-risk redeemPositions")
	}

	return Call{To: cfg.NegRiskAdapter, Data: data, Label: "redeemPositions (neg-risk)"}, nil
}

// WrapProxyExec routes a call through the proxy wallet's exec passthrough,
// so the proxy is the on-chain caller rather than the owner key.
func WrapProxyExec(proxy common.Address, call Call) (Call, error) {
	data, err := proxyParsed.Pack("exec", call.To, call.Data)
	if err != nil {
		return Call{}, types.WrapError(types.EncodingFailed, err, "pack proxy exec")
	}

	return Call{To: proxy, Data: data, Label: call.Label + " via proxy"}, nil
}
