package cmd

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"

	"github.com/Polymarket/polymarket-cli/internal/chain"
	"github.com/Polymarket/polymarket-cli/internal/clobapi"
	"github.com/Polymarket/polymarket-cli/pkg/config"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the exchange-visible balance and allowance",
	Long: `Fetches the balance and allowance the exchange sees for the resolved
funding wallet. Collateral by default; pass --token for a conditional
token position.`,
	RunE: runBalance,
}

var balanceToken string

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().StringVar(&balanceToken, "token", "", "Conditional token id (default: collateral)")
}

func runBalance(cmd *cobra.Command, args []string) error {
	identity, err := resolveIdentity()
	if err != nil {
		return err
	}
	defer identity.Zero()

	creds, err := resolveCreds()
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := config.LoadFromEnv()
	client := clobapi.NewClient(cfg.ClobURL, logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	assetType := "COLLATERAL"
	if balanceToken != "" {
		assetType = "CONDITIONAL"
	}

	balance, err := client.Balance(ctx, identity.Key.Address().Hex(), creds, assetType, balanceToken, int(identity.SignatureType))
	if err != nil {
		return err
	}

	fmt.Printf("Wallet:    %s\n", identity.Maker.Hex())
	fmt.Printf("Balance:   %s\n", formatRaw(balance.Balance))
	fmt.Printf("Allowance: %s\n", formatRaw(balance.Allowance))
	return nil
}

// formatRaw renders a raw 6-decimal amount as a decimal string; unparseable
// values pass through untouched.
func formatRaw(raw string) string {
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return raw
	}
	return chain.FormatUSDC(v)
}
