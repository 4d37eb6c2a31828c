package auth

import (
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Polymarket/polymarket-cli/pkg/config"
	"github.com/Polymarket/polymarket-cli/pkg/types"
)

// Environment variables consulted during resolution.
const (
	EnvPrivateKey    = "POLYMARKET_PRIVATE_KEY"
	EnvSignatureType = "POLYMARKET_SIGNATURE_TYPE"
	EnvSafeAddress   = "POLYMARKET_SAFE_ADDRESS"
)

// Source labels where a resolved value came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "environment"
	SourceFile    Source = "config file"
	SourceDefault Source = "default"
)

// Inputs carries the candidate values for identity resolution. Flag values
// are empty when the flag was not passed; File may be nil.
type Inputs struct {
	FlagKey           string
	FlagSignatureType string
	FlagSafeAddress   string
	FlagChainID       int64
	File              *config.FileConfig
}

// EffectiveIdentity is the resolved signing identity for one invocation.
// Maker equals the key's address only under EOA signing.
type EffectiveIdentity struct {
	Key           *KeyMaterial
	SignatureType SignatureType
	Maker         common.Address
	ChainID       int64
	KeySource     Source
	TypeSource    Source
}

// Zero wipes the identity's key material.
func (id *EffectiveIdentity) Zero() {
	if id.Key != nil {
		id.Key.Zero()
	}
}

// ResolveKey returns the first present key candidate, flag > environment >
// config file, validated as a well-formed private key. Resolution never
// writes configuration.
func ResolveKey(flagValue string, file *config.FileConfig) (*KeyMaterial, Source, error) {
	if flagValue != "" {
		key, err := ParseKey(flagValue)
		return key, SourceFlag, err
	}
	if env := os.Getenv(EnvPrivateKey); env != "" {
		key, err := ParseKey(env)
		return key, SourceEnv, err
	}
	if file != nil && file.PrivateKey != "" {
		key, err := ParseKey(file.PrivateKey)
		return key, SourceFile, err
	}

	return nil, "", types.NewError(types.NoSigningKey,
		"no signing key: pass --private-key, set %s, or run 'wallet import'", EnvPrivateKey)
}

// ResolveSignatureType follows the same precedence as key resolution and
// defaults to proxy when no source configures one.
func ResolveSignatureType(flagValue string, file *config.FileConfig) (SignatureType, Source, error) {
	if flagValue != "" {
		t, err := ParseSignatureType(flagValue)
		return t, SourceFlag, err
	}
	if env := os.Getenv(EnvSignatureType); env != "" {
		t, err := ParseSignatureType(env)
		return t, SourceEnv, err
	}
	if file != nil && file.SignatureType != "" {
		t, err := ParseSignatureType(file.SignatureType)
		return t, SourceFile, err
	}

	return DefaultSignatureType, SourceDefault, nil
}

// ResolveIdentity resolves key, signature type, chain id and the effective
// maker address in one pass. On any error no partially resolved key material
// escapes.
func ResolveIdentity(in Inputs) (*EffectiveIdentity, error) {
	key, keySource, err := ResolveKey(in.FlagKey, in.File)
	if err != nil {
		return nil, err
	}

	sigType, typeSource, err := ResolveSignatureType(in.FlagSignatureType, in.File)
	if err != nil {
		key.Zero()
		return nil, err
	}

	chainID := in.FlagChainID
	if chainID == 0 && in.File != nil {
		chainID = in.File.ChainID
	}
	if chainID == 0 {
		chainID = 137
	}

	maker, err := resolveMaker(key.Address(), sigType, in)
	if err != nil {
		key.Zero()
		return nil, err
	}

	return &EffectiveIdentity{
		Key:           key,
		SignatureType: sigType,
		Maker:         maker,
		ChainID:       chainID,
		KeySource:     keySource,
		TypeSource:    typeSource,
	}, nil
}

func resolveMaker(owner common.Address, sigType SignatureType, in Inputs) (common.Address, error) {
	switch sigType {
	case EOA:
		return owner, nil
	case Proxy:
		return DeriveProxyWallet(owner), nil
	case GnosisSafe:
		safe := in.FlagSafeAddress
		if safe == "" {
			safe = os.Getenv(EnvSafeAddress)
		}
		if safe == "" && in.File != nil {
			safe = in.File.SafeAddress
		}
		if safe == "" {
			return common.Address{}, types.NewError(types.MissingSafeAddress,
				"signature type safe requires a safe address (--safe-address, %s, or config file)", EnvSafeAddress)
		}
		if !common.IsHexAddress(safe) {
			return common.Address{}, types.NewError(types.MissingSafeAddress,
				"invalid safe address %q", safe)
		}
		return common.HexToAddress(safe), nil
	default:
		return common.Address{}, types.NewError(types.EncodingFailed, "unknown signature type %d", int(sigType))
	}
}
