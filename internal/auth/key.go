package auth

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Polymarket/polymarket-cli/pkg/types"
)

// KeyMaterial holds a signing key and its derived address. The address is
// always computed from the secret, never stored independently. Instances are
// never serialized and never logged; call Zero when the key is no longer
// needed.
type KeyMaterial struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// ParseKey validates a hex-encoded private key (with or without 0x prefix)
// and derives its address. The scalar must be 32 bytes, nonzero and below
// the secp256k1 curve order.
func ParseKey(hexKey string) (*KeyMaterial, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")

	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, types.WrapError(types.InvalidKeyFormat, err, "private key is not valid hex")
	}
	if len(raw) != 32 {
		zeroBytes(raw)
		return nil, types.NewError(types.InvalidKeyFormat, "private key must be 32 bytes, got %d", len(raw))
	}

	key, err := crypto.ToECDSA(raw)
	zeroBytes(raw)
	if err != nil {
		return nil, types.WrapError(types.InvalidKeyFormat, err, "private key scalar out of range")
	}

	return &KeyMaterial{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// GenerateKey creates fresh random key material.
func GenerateKey() (*KeyMaterial, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, types.WrapError(types.SigningFailed, err, "generate key")
	}

	return &KeyMaterial{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Address returns the address derived from the secret.
func (k *KeyMaterial) Address() common.Address {
	return k.address
}

// ECDSA exposes the underlying key for signing. Callers must not retain
// the pointer past the operation that needed it.
func (k *KeyMaterial) ECDSA() *ecdsa.PrivateKey {
	return k.key
}

// Hex returns the 0x-prefixed hex encoding of the secret. Used only by
// explicit persistence and export paths.
func (k *KeyMaterial) Hex() string {
	return hexutil.Encode(crypto.FromECDSA(k.key))
}

// Zero wipes the scalar in place. The KeyMaterial must not be used after.
func (k *KeyMaterial) Zero() {
	if k.key == nil {
		return
	}
	bits := k.key.D.Bits()
	for i := range bits {
		bits[i] = 0
	}
	k.key = nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
