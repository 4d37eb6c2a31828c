package auth

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildClobAuthSignatureDeterministic(t *testing.T) {
	key, err := ParseKey(keyOne)
	require.NoError(t, err)
	defer key.Zero()

	first, err := BuildClobAuthSignature(key, 137, 1700000000, 0)
	require.NoError(t, err)

	second, err := BuildClobAuthSignature(key, 137, 1700000000, 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	raw, err := hexutil.Decode(first)
	require.NoError(t, err)
	assert.Len(t, raw, 65)
	assert.GreaterOrEqual(t, raw[64], byte(27))
}

func TestBuildClobAuthSignatureVaries(t *testing.T) {
	key, err := ParseKey(keyOne)
	require.NoError(t, err)
	defer key.Zero()

	base, err := BuildClobAuthSignature(key, 137, 1700000000, 0)
	require.NoError(t, err)

	otherTime, err := BuildClobAuthSignature(key, 137, 1700000001, 0)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherTime)

	otherChain, err := BuildClobAuthSignature(key, 80002, 1700000000, 0)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherChain)

	otherNonce, err := BuildClobAuthSignature(key, 137, 1700000000, 1)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherNonce)
}

func TestBuildClobAuthSignatureRecovers(t *testing.T) {
	key, err := ParseKey(keyOne)
	require.NoError(t, err)
	defer key.Zero()

	sigHex, err := BuildClobAuthSignature(key, 137, 1700000000, 0)
	require.NoError(t, err)

	sig, err := hexutil.Decode(sigHex)
	require.NoError(t, err)
	sig[64] -= 27

	digest, err := clobAuthDigest(key.Address(), 137, 1700000000, 0)
	require.NoError(t, err)

	pub, err := crypto.SigToPub(digest, sig)
	require.NoError(t, err)

	assert.Equal(t, key.Address(), crypto.PubkeyToAddress(*pub))
}

func TestBuildL1Headers(t *testing.T) {
	key, err := ParseKey(keyOne)
	require.NoError(t, err)
	defer key.Zero()

	headers, err := BuildL1Headers(key, 137, 1700000000, 0)
	require.NoError(t, err)

	assert.Equal(t, key.Address().Hex(), headers[HeaderPolyAddress])
	assert.Equal(t, "1700000000", headers[HeaderPolyTimestamp])
	assert.Equal(t, "0", headers[HeaderPolyNonce])
	assert.NotEmpty(t, headers[HeaderPolySignature])
}
