package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Polymarket/polymarket-cli/pkg/types"
)

func TestBuildHMACSignatureKnownVector(t *testing.T) {
	// Vector from the reference clob-client test suite.
	sig, err := BuildHMACSignature(
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=",
		1000000,
		"test-sign",
		"/orders",
		`{"hash": "0x123"}`,
	)
	require.NoError(t, err)
	assert.Equal(t, "ZwAdJKvoYRlEKDkNMwd5BuwNNtg93kNaR_oU2HrfVvc=", sig)
}

func TestBuildHMACSignatureDeterministic(t *testing.T) {
	first, err := BuildHMACSignature("c2VjcmV0LWtleQ==", 1700000000, "GET", "/data/orders", "")
	require.NoError(t, err)

	second, err := BuildHMACSignature("c2VjcmV0LWtleQ==", 1700000000, "GET", "/data/orders", "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildHMACSignatureVariesPerInput(t *testing.T) {
	base, err := BuildHMACSignature("c2VjcmV0LWtleQ==", 1700000000, "GET", "/data/orders", "")
	require.NoError(t, err)

	tests := []struct {
		name      string
		secret    string
		timestamp int64
		method    string
		path      string
		body      string
	}{
		{"different secret", "b3RoZXItc2VjcmV0", 1700000000, "GET", "/data/orders", ""},
		{"different timestamp", "c2VjcmV0LWtleQ==", 1700000001, "GET", "/data/orders", ""},
		{"different method", "c2VjcmV0LWtleQ==", 1700000000, "POST", "/data/orders", ""},
		{"different path", "c2VjcmV0LWtleQ==", 1700000000, "GET", "/order", ""},
		{"different body", "c2VjcmV0LWtleQ==", 1700000000, "GET", "/data/orders", "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := BuildHMACSignature(tt.secret, tt.timestamp, tt.method, tt.path, tt.body)
			require.NoError(t, err)
			assert.NotEqual(t, base, sig)
		})
	}
}

func TestBuildHMACSignatureSecretEncodings(t *testing.T) {
	// The same key bytes encoded standard vs URL-safe must verify
	// identically.
	std, err := BuildHMACSignature("+/+/AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=", 1, "GET", "/", "")
	require.NoError(t, err)

	urlSafe, err := BuildHMACSignature("-_-_AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=", 1, "GET", "/", "")
	require.NoError(t, err)

	assert.Equal(t, std, urlSafe)

	unpadded, err := BuildHMACSignature("-_-_AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", 1, "GET", "/", "")
	require.NoError(t, err)
	assert.Equal(t, std, unpadded)
}

func TestBuildHMACSignatureBadSecret(t *testing.T) {
	_, err := BuildHMACSignature("!!not base64!!", 1, "GET", "/", "")
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.CredentialDerivationFailed))
}

func TestBuildL2Headers(t *testing.T) {
	creds := types.APICredentials{
		APIKey:     "key-id",
		Secret:     "c2VjcmV0LWtleQ==",
		Passphrase: "passphrase",
	}

	headers, err := BuildL2Headers("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf", creds, 1700000000, "POST", "/order", `{"order":{}}`)
	require.NoError(t, err)

	assert.Equal(t, "key-id", headers[HeaderAPIKey])
	assert.Equal(t, "1700000000", headers[HeaderTimestamp])
	assert.Equal(t, "passphrase", headers[HeaderPassphrase])
	assert.Equal(t, "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf", headers[HeaderAddress])
	assert.NotEmpty(t, headers[HeaderSignature])

	expected, err := BuildHMACSignature(creds.Secret, 1700000000, "POST", "/order", `{"order":{}}`)
	require.NoError(t, err)
	assert.Equal(t, expected, headers[HeaderSignature])
}
