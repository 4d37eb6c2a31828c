package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Polymarket/polymarket-cli/internal/clobapi"
	"github.com/Polymarket/polymarket-cli/pkg/config"
)

var listOrdersCmd = &cobra.Command{
	Use:   "list-orders",
	Short: "List open orders",
	RunE:  runListOrders,
}

var (
	listMarket string
	listToken  string
)

func init() {
	rootCmd.AddCommand(listOrdersCmd)

	listOrdersCmd.Flags().StringVar(&listMarket, "market", "", "Filter by market (condition id)")
	listOrdersCmd.Flags().StringVar(&listToken, "token", "", "Filter by outcome token id")
}

func runListOrders(cmd *cobra.Command, args []string) error {
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

	orders, err := client.OpenOrders(ctx, identity.Key.Address().Hex(), creds, listMarket, listToken)
	if err != nil {
		return err
	}

	if len(orders) == 0 {
		fmt.Println("no open orders")
		return nil
	}

	for _, o := range orders {
		fmt.Printf("%s  %-4s %s @ %s  filled %s/%s  %s\n",
			o.OrderID, o.Side, o.TokenID, o.Price, o.SizeMatched, o.OriginalSize, o.Status)
	}
	return nil
}
