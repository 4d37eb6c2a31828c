package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Polymarket/polymarket-cli/internal/stream"
	"github.com/Polymarket/polymarket-cli/pkg/config"
	"github.com/Polymarket/polymarket-cli/pkg/types"
)

var watchBookCmd = &cobra.Command{
	Use:   "watch-book <token-id...>",
	Short: "Stream live orderbook events for one or more tokens",
	Long: `Subscribes to the market websocket channel and prints each book event
as it arrives. Reconnects automatically; the server replays a full book
snapshot on every resubscribe. Stop with Ctrl-C.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatchBook,
}

func init() {
	rootCmd.AddCommand(watchBookCmd)
}

func runWatchBook(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := config.LoadFromEnv()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := stream.NewClient(cfg.WSURL, args, logger)
	err = client.Run(ctx, printBookEvent)
	if err == context.Canceled {
		return nil
	}
	return err
}

func printBookEvent(msg *types.BookMessage) {
	bid, ask := "-", "-"
	if len(msg.Bids) > 0 {
		bid = msg.Bids[len(msg.Bids)-1].Price
	}
	if len(msg.Asks) > 0 {
		ask = msg.Asks[len(msg.Asks)-1].Price
	}
	fmt.Printf("%s  %s  bid %s  ask %s\n", msg.EventType, msg.AssetID, bid, ask)
}
