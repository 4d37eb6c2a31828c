package chain

import (
	"math/big"
	"strings"

	"github.com/Polymarket/polymarket-cli/pkg/types"
)

// USDCDecimals is the collateral token's base-unit scale.
const USDCDecimals = 6

// ParseUSDC converts a decimal string to base units (6 decimals). Rejects
// non-positive values and more than 6 fractional digits: silently dropping
// precision on an amount that moves funds is worse than refusing it.
func ParseUSDC(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, types.NewError(types.EncodingFailed, "amount is empty")
	}
	if strings.HasPrefix(s, "-") {
		return nil, types.NewError(types.EncodingFailed, "amount %q must be positive", s)
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) > USDCDecimals {
		return nil, types.NewError(types.EncodingFailed,
			"amount %q has more than %d decimal places", s, USDCDecimals)
	}
	frac += strings.Repeat("0", USDCDecimals-len(frac))
	if whole == "" {
		whole = "0"
	}

	value, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, types.NewError(types.EncodingFailed, "amount %q is not a decimal number", s)
	}
	if value.Sign() <= 0 {
		return nil, types.NewError(types.EncodingFailed, "amount %q must be positive", s)
	}

	return value, nil
}

// FormatUSDC renders base units as a decimal string.
func FormatUSDC(raw *big.Int) string {
	scale := big.NewInt(1_000_000)
	whole := new(big.Int).Quo(raw, scale)
	frac := new(big.Int).Abs(new(big.Int).Rem(raw, scale))

	if frac.Sign() == 0 {
		return whole.String()
	}

	fracStr := strings.TrimRight(
		strings.Repeat("0", USDCDecimals-len(frac.String()))+frac.String(), "0")

	return whole.String() + "." + fracStr
}
