package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/Polymarket/polymarket-cli/internal/auth"
	"github.com/Polymarket/polymarket-cli/internal/chain"
	"github.com/Polymarket/polymarket-cli/pkg/config"
)

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Approve the exchange contracts to move your funds",
	Long: `Encodes and sends the full approval set required for trading: USDC
approvals and conditional-token operator approvals for the CTF Exchange,
the Neg Risk CTF Exchange and the Neg Risk Adapter, six transactions in
total.

Under proxy signing each call is routed through the proxy wallet's exec.
With --dry-run the encoded calldata is printed and nothing is sent.`,
	RunE: runApprove,
}

var approveDryRun bool

func init() {
	rootCmd.AddCommand(approveCmd)

	approveCmd.Flags().BoolVar(&approveDryRun, "dry-run", false, "Print the encoded calls without sending")
}

func runApprove(cmd *cobra.Command, args []string) error {
	identity, err := resolveIdentity()
	if err != nil {
		return err
	}
	defer identity.Zero()

	chainCfg, err := chain.ForChain(identity.ChainID)
	if err != nil {
		return err
	}

	calls, err := chain.ApprovalCalls(chainCfg)
	if err != nil {
		return err
	}

	// Proxy-held funds: approvals must come from the proxy wallet itself.
	if identity.SignatureType == auth.Proxy {
		proxy := auth.DeriveProxyWallet(identity.Key.Address())
		for i, call := range calls {
			wrapped, err := chain.WrapProxyExec(proxy, call)
			if err != nil {
				return err
			}
			calls[i] = wrapped
		}
	}

	if approveDryRun {
		for _, call := range calls {
			fmt.Printf("%s\n  to:   %s\n  data: %s\n", call.Label, call.To.Hex(), hexutil.Encode(call.Data))
		}
		return nil
	}

	// Safe execution goes through the Safe's own transaction flow.
	if identity.SignatureType == auth.GnosisSafe {
		return fmt.Errorf("safe signing cannot send directly; rerun with --dry-run and execute the calls through the safe")
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := config.LoadFromEnv()
	sender, err := chain.NewSender(cfg.RPCURL, logger)
	if err != nil {
		return err
	}
	defer sender.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	for _, call := range calls {
		receipt, err := sender.Send(ctx, identity.Key.ECDSA(), call)
		if err != nil {
			return fmt.Errorf("%s: %w", call.Label, err)
		}
		if receipt.Status != 1 {
			return fmt.Errorf("%s: transaction reverted", call.Label)
		}
		fmt.Printf("%s: confirmed in block %d\n", call.Label, receipt.BlockNumber.Uint64())
	}

	fmt.Println("all approvals confirmed")
	return nil
}
