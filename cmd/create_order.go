package cmd

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/Polymarket/polymarket-cli/internal/clobapi"
	"github.com/Polymarket/polymarket-cli/internal/markets"
	"github.com/Polymarket/polymarket-cli/internal/orders"
	"github.com/Polymarket/polymarket-cli/pkg/config"
	"github.com/Polymarket/polymarket-cli/pkg/types"
)

var createOrderCmd = &cobra.Command{
	Use:   "create-order",
	Short: "Build, sign and submit one order",
	Long: `Builds an EIP-712 signed order against the resolved identity and submits
it. The signed wire JSON is printed either way; --dry-run skips submission.

A limit order takes --price and --size. A market order takes --notional and
prices against the current top of book.`,
	RunE: runCreateOrder,
}

var (
	orderToken      string
	orderSide       string
	orderPrice      float64
	orderSize       float64
	orderNotional   float64
	orderTIF        string
	orderExpiration int64
	orderNonce      string
	orderFeeBps     int64
	orderTickSize   float64
	orderNegRisk    bool
	orderDryRun     bool
)

func init() {
	rootCmd.AddCommand(createOrderCmd)

	createOrderCmd.Flags().StringVar(&orderToken, "token", "", "Outcome token id")
	createOrderCmd.Flags().StringVar(&orderSide, "side", "buy", "Order side: buy or sell")
	createOrderCmd.Flags().Float64Var(&orderPrice, "price", 0, "Limit price in (0, 1)")
	createOrderCmd.Flags().Float64Var(&orderSize, "size", 0, "Order size in outcome tokens")
	createOrderCmd.Flags().Float64Var(&orderNotional, "notional", 0, "Market order size in USDC (instead of --price/--size)")
	createOrderCmd.Flags().StringVar(&orderTIF, "type", "GTC", "Time in force: GTC, GTD, FOK or FAK")
	createOrderCmd.Flags().Int64Var(&orderExpiration, "expiration", 0, "Unix expiration, required for GTD")
	createOrderCmd.Flags().StringVar(&orderNonce, "nonce", "0", "Maker nonce")
	createOrderCmd.Flags().Int64Var(&orderFeeBps, "fee-rate-bps", 0, "Fee rate override in basis points")
	createOrderCmd.Flags().Float64Var(&orderTickSize, "tick-size", 0, "Tick size override; skips the metadata fetch")
	createOrderCmd.Flags().BoolVar(&orderNegRisk, "neg-risk", false, "Route to the neg-risk exchange (with --tick-size)")
	createOrderCmd.Flags().BoolVar(&orderDryRun, "dry-run", false, "Build and print the order without submitting")

	createOrderCmd.MarkFlagRequired("token")
}

func runCreateOrder(cmd *cobra.Command, args []string) error {
	side, err := orders.ParseSide(orderSide)
	if err != nil {
		return err
	}
	tif, err := orders.ParseOrderType(orderTIF)
	if err != nil {
		return err
	}

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

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	market, err := fetchMarketInfo(ctx, cfg)
	if err != nil {
		return err
	}
	if orderFeeBps > 0 {
		market.FeeRateBps = orderFeeBps
	}

	signed, err := orders.NewBuilder(identity.ChainID).Build(identity, orders.Intent{
		TokenID:    orderToken,
		Side:       side,
		Price:      orderPrice,
		Size:       orderSize,
		Notional:   orderNotional,
		Type:       tif,
		Expiration: orderExpiration,
		Nonce:      orderNonce,
	}, market)
	if err != nil {
		return err
	}

	wire := orders.ToWire(signed)
	encoded, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))

	if orderDryRun {
		return nil
	}

	creds, err := resolveCreds()
	if err != nil {
		return err
	}

	client := clobapi.NewClient(cfg.ClobURL, logger)
	resp, err := client.PostOrder(ctx, identity.Key.Address().Hex(), creds, types.OrderSubmissionRequest{
		Order:     wire,
		Owner:     creds.APIKey,
		OrderType: string(tif),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Order %s: %s\n", resp.OrderID, resp.Status)
	return nil
}

// fetchMarketInfo uses the tick-size override when given, otherwise asks
// the CLOB's public endpoints.
func fetchMarketInfo(ctx context.Context, cfg *config.Config) (orders.MarketInfo, error) {
	if orderTickSize > 0 {
		return orders.MarketInfo{
			TickSize:   orderTickSize,
			NegRisk:    orderNegRisk,
			FeeRateBps: orderFeeBps,
		}, nil
	}

	client := markets.NewCachedMetadataClient(markets.NewMetadataClient(cfg.ClobURL), nil)
	return client.GetMarketInfo(ctx, orderToken)
}
