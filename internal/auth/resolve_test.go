package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Polymarket/polymarket-cli/pkg/config"
	"github.com/Polymarket/polymarket-cli/pkg/types"
)

const (
	keyOne = "0x0000000000000000000000000000000000000000000000000000000000000001"
	keyTwo = "0x0000000000000000000000000000000000000000000000000000000000000002"
)

func TestResolveKeyPrecedence(t *testing.T) {
	file := &config.FileConfig{PrivateKey: keyTwo}

	t.Run("flag wins over env and file", func(t *testing.T) {
		t.Setenv(EnvPrivateKey, keyTwo)

		key, source, err := ResolveKey(keyOne, file)
		require.NoError(t, err)
		defer key.Zero()

		assert.Equal(t, SourceFlag, source)
		assert.Equal(t, "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf", key.Address().Hex())
	})

	t.Run("env wins over file", func(t *testing.T) {
		t.Setenv(EnvPrivateKey, keyOne)

		key, source, err := ResolveKey("", file)
		require.NoError(t, err)
		defer key.Zero()

		assert.Equal(t, SourceEnv, source)
		assert.Equal(t, "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf", key.Address().Hex())
	})

	t.Run("file when flag and env absent", func(t *testing.T) {
		t.Setenv(EnvPrivateKey, "")

		key, source, err := ResolveKey("", file)
		require.NoError(t, err)
		defer key.Zero()

		assert.Equal(t, SourceFile, source)
	})

	t.Run("no source at all", func(t *testing.T) {
		t.Setenv(EnvPrivateKey, "")

		_, _, err := ResolveKey("", &config.FileConfig{})
		require.Error(t, err)
		assert.True(t, types.IsKind(err, types.NoSigningKey))
	})

	t.Run("invalid flag value is not skipped", func(t *testing.T) {
		t.Setenv(EnvPrivateKey, keyOne)

		_, _, err := ResolveKey("not-a-key", file)
		require.Error(t, err)
		assert.True(t, types.IsKind(err, types.InvalidKeyFormat))
	})
}

func TestResolveSignatureType(t *testing.T) {
	t.Run("defaults to proxy", func(t *testing.T) {
		t.Setenv(EnvSignatureType, "")

		sigType, source, err := ResolveSignatureType("", &config.FileConfig{})
		require.NoError(t, err)
		assert.Equal(t, Proxy, sigType)
		assert.Equal(t, SourceDefault, source)
	})

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(EnvSignatureType, "proxy")

		sigType, source, err := ResolveSignatureType("eoa", &config.FileConfig{SignatureType: "safe"})
		require.NoError(t, err)
		assert.Equal(t, EOA, sigType)
		assert.Equal(t, SourceFlag, source)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv(EnvSignatureType, "safe")

		sigType, source, err := ResolveSignatureType("", &config.FileConfig{SignatureType: "eoa"})
		require.NoError(t, err)
		assert.Equal(t, GnosisSafe, sigType)
		assert.Equal(t, SourceEnv, source)
	})

	t.Run("unknown value", func(t *testing.T) {
		_, _, err := ResolveSignatureType("multisig", nil)
		assert.Error(t, err)
	})
}

func TestResolveIdentityMaker(t *testing.T) {
	t.Setenv(EnvPrivateKey, "")
	t.Setenv(EnvSignatureType, "")
	t.Setenv(EnvSafeAddress, "")

	t.Run("eoa maker equals owner", func(t *testing.T) {
		id, err := ResolveIdentity(Inputs{FlagKey: keyOne, FlagSignatureType: "eoa"})
		require.NoError(t, err)
		defer id.Zero()

		assert.Equal(t, id.Key.Address(), id.Maker)
		assert.Equal(t, int64(137), id.ChainID)
	})

	t.Run("proxy maker is derived and distinct", func(t *testing.T) {
		id, err := ResolveIdentity(Inputs{FlagKey: keyOne, FlagSignatureType: "proxy"})
		require.NoError(t, err)
		defer id.Zero()

		assert.Equal(t, DeriveProxyWallet(id.Key.Address()), id.Maker)
		assert.NotEqual(t, id.Key.Address(), id.Maker)
	})

	t.Run("safe requires an address before any signing", func(t *testing.T) {
		_, err := ResolveIdentity(Inputs{FlagKey: keyOne, FlagSignatureType: "safe"})
		require.Error(t, err)
		assert.True(t, types.IsKind(err, types.MissingSafeAddress))
	})

	t.Run("safe maker from flag", func(t *testing.T) {
		safe := "0x2B5AD5c4795c026514f8317c7a215E218DcCD6cF"
		id, err := ResolveIdentity(Inputs{
			FlagKey:           keyOne,
			FlagSignatureType: "safe",
			FlagSafeAddress:   safe,
		})
		require.NoError(t, err)
		defer id.Zero()

		assert.Equal(t, safe, id.Maker.Hex())
	})

	t.Run("chain id from file", func(t *testing.T) {
		id, err := ResolveIdentity(Inputs{
			FlagKey:           keyOne,
			FlagSignatureType: "eoa",
			File:              &config.FileConfig{ChainID: 80002},
		})
		require.NoError(t, err)
		defer id.Zero()

		assert.Equal(t, int64(80002), id.ChainID)
	})
}
