package auth

import (
	"fmt"
	"strings"

	"github.com/polymarket/go-order-utils/pkg/model"
)

// SignatureType selects how the exchange maps a signature to a maker
// address. The set is exchange-defined and closed.
type SignatureType int

const (
	// EOA: the owner key signs for its own address.
	EOA SignatureType = iota
	// Proxy: the owner key signs for its deterministic proxy wallet.
	Proxy
	// GnosisSafe: the owner key signs for a pre-existing Safe contract.
	GnosisSafe
)

// DefaultSignatureType is used when no source configures one.
const DefaultSignatureType = Proxy

// ParseSignatureType accepts the canonical names and the wire integers.
func ParseSignatureType(s string) (SignatureType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eoa", "0":
		return EOA, nil
	case "proxy", "poly-proxy", "1":
		return Proxy, nil
	case "safe", "gnosis-safe", "2":
		return GnosisSafe, nil
	default:
		return 0, fmt.Errorf("unknown signature type %q (want eoa, proxy or safe)", s)
	}
}

func (t SignatureType) String() string {
	switch t {
	case EOA:
		return "eoa"
	case Proxy:
		return "proxy"
	case GnosisSafe:
		return "safe"
	default:
		return fmt.Sprintf("signature-type(%d)", int(t))
	}
}

// Model maps to the wire representation used by the order signing library
// and the CLOB API: 0=EOA, 1=POLY_PROXY, 2=GNOSIS_SAFE.
func (t SignatureType) Model() model.SignatureType {
	return model.SignatureType(int(t))
}
