package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "polymarket",
	Short: "Polymarket trading CLI",
	Long: `Command-line client for Polymarket's CLOB exchange.

Manages signing keys, derives API credentials, builds and submits EIP-712
signed orders, encodes on-chain approval and conditional-token transactions,
and computes condition, collection and position ids offline.

Identity resolution for every command: flag > environment > config file.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional; flags and real env vars win over .env entries.
		_ = godotenv.Load()
	},
	SilenceUsage: true,
}

// Persistent identity flags, shared by every command that signs.
var (
	flagPrivateKey    string
	flagSignatureType string
	flagSafeAddress   string
	flagChainID       int64
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().StringVar(&flagPrivateKey, "private-key", "", "Signing key as hex (overrides environment and config file)")
	rootCmd.PersistentFlags().StringVar(&flagSignatureType, "signature-type", "", "Signature type: eoa, proxy or safe")
	rootCmd.PersistentFlags().StringVar(&flagSafeAddress, "safe-address", "", "Gnosis Safe address (required with --signature-type safe)")
	rootCmd.PersistentFlags().Int64Var(&flagChainID, "chain-id", 0, "Chain id (default 137)")
}
