package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Polymarket/polymarket-cli/internal/clobapi"
	"github.com/Polymarket/polymarket-cli/pkg/config"
	"github.com/Polymarket/polymarket-cli/pkg/types"
)

var cancelOrdersCmd = &cobra.Command{
	Use:   "cancel-orders [order-id...]",
	Short: "Cancel open orders by id",
	Long: `Cancels the given order ids, or every open order with --all. Cancellation
is per-item: the report lists ids that canceled and ids that did not, with
the server's reason.`,
	RunE: runCancelOrders,
}

var cancelAll bool

func init() {
	rootCmd.AddCommand(cancelOrdersCmd)

	cancelOrdersCmd.Flags().BoolVar(&cancelAll, "all", false, "Cancel every open order")
}

func runCancelOrders(cmd *cobra.Command, args []string) error {
	if !cancelAll && len(args) == 0 {
		return fmt.Errorf("pass order ids or --all")
	}
	if cancelAll && len(args) > 0 {
		return fmt.Errorf("--all takes no order ids")
	}

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

	address := identity.Key.Address().Hex()

	var result *types.CancelResult
	if cancelAll {
		result, err = client.CancelAll(ctx, address, creds)
	} else {
		result, err = client.CancelOrders(ctx, address, creds, args)
	}
	if err != nil {
		return err
	}

	for _, id := range result.Canceled {
		fmt.Printf("canceled %s\n", id)
	}
	for id, reason := range result.NotCanceled {
		fmt.Printf("not canceled %s: %s\n", id, reason)
	}

	if len(result.NotCanceled) > 0 {
		return fmt.Errorf("%d orders not canceled", len(result.NotCanceled))
	}
	return nil
}
