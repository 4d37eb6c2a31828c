package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ChainConfig maps contract roles to deployed addresses for one chain.
// Immutable for the process; it selects both the typed-data domain and the
// targets of on-chain calls.
type ChainConfig struct {
	ChainID int64

	Collateral         common.Address // USDC
	ConditionalTokens  common.Address // CTF ERC1155
	CTFExchange        common.Address
	NegRiskCTFExchange common.Address
	NegRiskAdapter     common.Address
}

// Polygon mainnet deployment.
var polygonMainnet = &ChainConfig{
	ChainID:            137,
	Collateral:         common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"),
	ConditionalTokens:  common.HexToAddress("0x4D97DCd97eC945f40cF65F87097ACe5EA0476045"),
	CTFExchange:        common.HexToAddress("0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E"),
	NegRiskCTFExchange: common.HexToAddress("0xC5d563A36AE78145C45a50134d48A1215220f80a"),
	NegRiskAdapter:     common.HexToAddress("0xd91E80cF2E7be2e162c6513ceD06f1dD0dA35296"),
}

// ForChain returns the contract addresses for a chain id.
func ForChain(chainID int64) (*ChainConfig, error) {
	if chainID == 137 {
		return polygonMainnet, nil
	}
	return nil, fmt.Errorf("no contract deployment known for chain id %d", chainID)
}
