package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/Polymarket/polymarket-cli/internal/auth"
	"github.com/Polymarket/polymarket-cli/internal/clobapi"
	"github.com/Polymarket/polymarket-cli/internal/markets"
	"github.com/Polymarket/polymarket-cli/internal/orders"
	"github.com/Polymarket/polymarket-cli/pkg/cache"
	"github.com/Polymarket/polymarket-cli/pkg/config"
	"github.com/Polymarket/polymarket-cli/pkg/types"
)

var postOrdersCmd = &cobra.Command{
	Use:   "post-orders [file]",
	Short: "Sign and submit a batch of order intents",
	Long: `Reads newline-delimited JSON order intents from a file or stdin, signs
each against the resolved identity and submits them one by one. Each order
succeeds or fails independently; a per-item report is printed at the end.

Intent format per line:
  {"token_id": "...", "side": "buy", "price": 0.5, "size": 10, "type": "GTC"}`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPostOrders,
}

func init() {
	rootCmd.AddCommand(postOrdersCmd)
}

// orderIntentJSON is one line of batch input.
type orderIntentJSON struct {
	TokenID    string  `json:"token_id"`
	Side       string  `json:"side"`
	Price      float64 `json:"price"`
	Size       float64 `json:"size"`
	Notional   float64 `json:"notional"`
	Type       string  `json:"type"`
	Expiration int64   `json:"expiration"`
	Nonce      string  `json:"nonce"`
}

func runPostOrders(cmd *cobra.Command, args []string) error {
	var input io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
	}

	intents, err := readIntents(input)
	if err != nil {
		return err
	}
	if len(intents) == 0 {
		return fmt.Errorf("no order intents in input")
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

	// Batches often repeat tokens; cache metadata across items.
	metadataCache, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer metadataCache.Close()

	metadata := markets.NewCachedMetadataClient(markets.NewMetadataClient(cfg.ClobURL), metadataCache)
	builder := orders.NewBuilder(identity.ChainID)

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	var failed int
	for i, intent := range intents {
		if err := postOne(ctx, client, metadata, builder, identity, creds, intent); err != nil {
			failed++
			fmt.Printf("[%d] FAILED %s %s: %v\n", i+1, intent.Side, intent.TokenID, err)
			continue
		}
	}

	fmt.Printf("%d submitted, %d failed\n", len(intents)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d orders failed", failed, len(intents))
	}
	return nil
}

func readIntents(input io.Reader) ([]orderIntentJSON, error) {
	var intents []orderIntentJSON

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var intent orderIntentJSON
		if err := json.Unmarshal([]byte(line), &intent); err != nil {
			return nil, fmt.Errorf("parse intent %q: %w", line, err)
		}
		intents = append(intents, intent)
	}

	return intents, scanner.Err()
}

func postOne(
	ctx context.Context,
	client *clobapi.Client,
	metadata *markets.CachedMetadataClient,
	builder *orders.Builder,
	identity *auth.EffectiveIdentity,
	creds types.APICredentials,
	raw orderIntentJSON,
) error {
	side, err := orders.ParseSide(raw.Side)
	if err != nil {
		return err
	}

	tif := orders.GTC
	if raw.Type != "" {
		tif, err = orders.ParseOrderType(raw.Type)
		if err != nil {
			return err
		}
	}

	market, err := metadata.GetMarketInfo(ctx, raw.TokenID)
	if err != nil {
		return err
	}

	signed, err := builder.Build(identity, orders.Intent{
		TokenID:    raw.TokenID,
		Side:       side,
		Price:      raw.Price,
		Size:       raw.Size,
		Notional:   raw.Notional,
		Type:       tif,
		Expiration: raw.Expiration,
		Nonce:      raw.Nonce,
	}, market)
	if err != nil {
		return err
	}

	resp, err := client.PostOrder(ctx, identity.Key.Address().Hex(), creds, types.OrderSubmissionRequest{
		Order:     orders.ToWire(signed),
		Owner:     creds.APIKey,
		OrderType: string(tif),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Order %s: %s\n", resp.OrderID, resp.Status)
	return nil
}
