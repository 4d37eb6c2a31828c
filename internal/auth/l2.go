package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/Polymarket/polymarket-cli/pkg/types"
)

// Headers required on every authenticated endpoint.
const (
	HeaderAPIKey     = "X-API-KEY"
	HeaderTimestamp  = "X-TIMESTAMP"
	HeaderSignature  = "X-SIGNATURE"
	HeaderPassphrase = "X-PASSPHRASE"
	HeaderAddress    = "X-ADDRESS"
)

// BuildHMACSignature computes the keyed hash over the canonical request
// string timestamp + method + path + body. Deterministic for fixed inputs;
// the timestamp is part of the signed content, so results are never reused
// across requests.
func BuildHMACSignature(secret string, timestamp int64, method, path, body string) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", types.WrapError(types.CredentialDerivationFailed, err, "decode API secret")
	}

	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%d%s%s%s", timestamp, method, path, body)

	return base64.URLEncoding.EncodeToString(mac.Sum(nil)), nil
}

// BuildL2Headers produces the per-request header set for the private API.
// Pure and stateless: recomputed for every request, never cached.
func BuildL2Headers(address string, creds types.APICredentials, timestamp int64, method, path, body string) (map[string]string, error) {
	signature, err := BuildHMACSignature(creds.Secret, timestamp, method, path, body)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		HeaderAPIKey:     creds.APIKey,
		HeaderTimestamp:  fmt.Sprintf("%d", timestamp),
		HeaderSignature:  signature,
		HeaderPassphrase: creds.Passphrase,
		HeaderAddress:    address,
	}, nil
}

// decodeSecret accepts both URL-safe and standard base64 secrets, padded or
// not; servers have issued all of these encodings over time.
func decodeSecret(secret string) ([]byte, error) {
	s := strings.TrimSpace(secret)

	if b, err := base64.URLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}

	s = strings.TrimRight(s, "=")
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(s); err == nil {
		return b, nil
	}

	return nil, fmt.Errorf("secret is not valid base64")
}
