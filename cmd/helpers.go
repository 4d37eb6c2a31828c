package cmd

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Polymarket/polymarket-cli/internal/auth"
	"github.com/Polymarket/polymarket-cli/pkg/config"
	"github.com/Polymarket/polymarket-cli/pkg/types"
)

// API credential environment variables, consulted before the config file.
const (
	envAPIKey     = "POLYMARKET_API_KEY"
	envAPISecret  = "POLYMARKET_SECRET"
	envPassphrase = "POLYMARKET_PASSPHRASE"
)

func newLogger() (*zap.Logger, error) {
	return config.NewLogger()
}

// resolveIdentity builds the effective signing identity from the persistent
// flags, the environment and the config file. Callers must Zero() it.
func resolveIdentity() (*auth.EffectiveIdentity, error) {
	file, err := config.LoadFile()
	if err != nil {
		return nil, err
	}

	return auth.ResolveIdentity(auth.Inputs{
		FlagKey:           flagPrivateKey,
		FlagSignatureType: flagSignatureType,
		FlagSafeAddress:   flagSafeAddress,
		FlagChainID:       flagChainID,
		File:              file,
	})
}

// resolveCreds loads API credentials, environment > config file.
func resolveCreds() (types.APICredentials, error) {
	creds := types.APICredentials{
		APIKey:     os.Getenv(envAPIKey),
		Secret:     os.Getenv(envAPISecret),
		Passphrase: os.Getenv(envPassphrase),
	}

	if creds.APIKey == "" || creds.Secret == "" || creds.Passphrase == "" {
		file, err := config.LoadFile()
		if err != nil {
			return creds, err
		}
		if creds.APIKey == "" {
			creds.APIKey = file.APIKey
		}
		if creds.Secret == "" {
			creds.Secret = file.APISecret
		}
		if creds.Passphrase == "" {
			creds.Passphrase = file.Passphrase
		}
	}

	if creds.APIKey == "" || creds.Secret == "" || creds.Passphrase == "" {
		return creds, fmt.Errorf("missing API credentials: set %s/%s/%s or run 'derive-api-creds --save'",
			envAPIKey, envAPISecret, envPassphrase)
	}

	return creds, nil
}
