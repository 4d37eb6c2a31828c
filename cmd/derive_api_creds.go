package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Polymarket/polymarket-cli/internal/clobapi"
	"github.com/Polymarket/polymarket-cli/pkg/config"
)

var deriveAPICredsCmd = &cobra.Command{
	Use:   "derive-api-creds",
	Short: "Derive API credentials using L1 authentication",
	Long: `Signs a wallet-control attestation with the resolved key and exchanges it
for the API key, secret and passphrase used by the private endpoints.

The credentials are printed once. With --save they are persisted to the
config file instead of your shell history.`,
	RunE: runDeriveAPICreds,
}

var (
	deriveNonce int64
	deriveSave  bool
)

func init() {
	rootCmd.AddCommand(deriveAPICredsCmd)

	deriveAPICredsCmd.Flags().Int64Var(&deriveNonce, "nonce", 0, "Credential nonce; each nonce maps to a distinct credential set")
	deriveAPICredsCmd.Flags().BoolVar(&deriveSave, "save", false, "Persist the credentials to the config file")
}

func runDeriveAPICreds(cmd *cobra.Command, args []string) error {
	identity, err := resolveIdentity()
	if err != nil {
		return err
	}
	defer identity.Zero()

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := config.LoadFromEnv()
	client := clobapi.NewClient(cfg.ClobURL, logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	creds, err := client.DeriveOrCreateCreds(ctx, identity.Key, identity.ChainID, deriveNonce)
	if err != nil {
		return err
	}

	if deriveSave {
		file, err := config.LoadFile()
		if err != nil {
			return err
		}
		file.APIKey = creds.APIKey
		file.APISecret = creds.Secret
		file.Passphrase = creds.Passphrase

		path, err := config.SaveFile(file)
		if err != nil {
			return err
		}
		fmt.Printf("API key: %s\n", creds.APIKey)
		fmt.Printf("Credentials saved to %s\n", path)
		return nil
	}

	fmt.Printf("%s=%s\n", envAPIKey, creds.APIKey)
	fmt.Printf("%s=%s\n", envAPISecret, creds.Secret)
	fmt.Printf("%s=%s\n", envPassphrase, creds.Passphrase)
	return nil
}
