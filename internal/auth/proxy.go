package auth

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Polymarket proxy-wallet factory deployment on Polygon. The init code hash
// must match the deployed factory's creation code bit for bit; an incorrect
// value derives an address that can never receive funds.
var (
	ProxyWalletFactory = common.HexToAddress("0xaB45c5A4B0c941a2F231C04C3f49182e1A254052")
	SafeFactory        = common.HexToAddress("0xaacFeEa03eb1561C4e67d661e40682Bd20E3541b")

	proxyWalletInitCodeHash = common.HexToHash("0xd2e1d8b73c04e54e41d11c7e35b648a11dce82a35222c34d5e2cd288ac7951b1")
)

// DeriveProxyWallet computes the CREATE2 address of the proxy wallet the
// factory deploys for owner. Pure and offline: the result is stable for the
// lifetime of the owner key whether or not the wallet has been deployed yet.
func DeriveProxyWallet(owner common.Address) common.Address {
	salt := crypto.Keccak256(owner.Bytes())
	return crypto.CreateAddress2(ProxyWalletFactory, common.BytesToHash(salt), proxyWalletInitCodeHash.Bytes())
}
