package cmd

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/Polymarket/polymarket-cli/internal/auth"
	"github.com/Polymarket/polymarket-cli/internal/chain"
	"github.com/Polymarket/polymarket-cli/pkg/config"
)

var ctfCmd = &cobra.Command{
	Use:   "ctf",
	Short: "Conditional-token operations: split, merge, redeem and id math",
}

var ctfSplitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split collateral into a full outcome token set",
	RunE:  runCTFSplit,
}

var ctfMergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge a full outcome token set back into collateral",
	RunE:  runCTFMerge,
}

var ctfRedeemCmd = &cobra.Command{
	Use:   "redeem",
	Short: "Redeem winning outcome tokens after resolution",
	RunE:  runCTFRedeem,
}

var ctfRedeemNegRiskCmd = &cobra.Command{
	Use:   "redeem-neg-risk",
	Short: "Redeem positions through the neg-risk adapter",
	RunE:  runCTFRedeemNegRisk,
}

var ctfConditionIDCmd = &cobra.Command{
	Use:   "condition-id",
	Short: "Compute a condition id offline",
	RunE:  runCTFConditionID,
}

var ctfCollectionIDCmd = &cobra.Command{
	Use:   "collection-id",
	Short: "Compute a collection id offline",
	RunE:  runCTFCollectionID,
}

var ctfPositionIDCmd = &cobra.Command{
	Use:   "position-id",
	Short: "Compute an ERC1155 position id offline",
	RunE:  runCTFPositionID,
}

var (
	ctfCondition  string
	ctfAmount     string
	ctfPartition  string
	ctfIndexSets  string
	ctfAmounts    string
	ctfOracle     string
	ctfQuestionID string
	ctfOutcomes   uint
	ctfParent     string
	ctfIndexSet   int64
	ctfCollection string
	ctfCollateral string
	ctfDryRun     bool
)

func init() {
	rootCmd.AddCommand(ctfCmd)
	ctfCmd.AddCommand(ctfSplitCmd)
	ctfCmd.AddCommand(ctfMergeCmd)
	ctfCmd.AddCommand(ctfRedeemCmd)
	ctfCmd.AddCommand(ctfRedeemNegRiskCmd)
	ctfCmd.AddCommand(ctfConditionIDCmd)
	ctfCmd.AddCommand(ctfCollectionIDCmd)
	ctfCmd.AddCommand(ctfPositionIDCmd)

	for _, c := range []*cobra.Command{ctfSplitCmd, ctfMergeCmd, ctfRedeemCmd, ctfRedeemNegRiskCmd} {
		c.Flags().StringVar(&ctfCondition, "condition", "", "Condition id (bytes32 hex)")
		c.Flags().BoolVar(&ctfDryRun, "dry-run", false, "Print the encoded call without sending")
		c.MarkFlagRequired("condition")
	}

	ctfSplitCmd.Flags().StringVar(&ctfAmount, "amount", "", "Collateral amount in USDC")
	ctfSplitCmd.Flags().StringVar(&ctfPartition, "partition", "", "Comma-separated index sets (default 1,2)")
	ctfSplitCmd.MarkFlagRequired("amount")

	ctfMergeCmd.Flags().StringVar(&ctfAmount, "amount", "", "Collateral amount in USDC")
	ctfMergeCmd.Flags().StringVar(&ctfPartition, "partition", "", "Comma-separated index sets (default 1,2)")
	ctfMergeCmd.MarkFlagRequired("amount")

	ctfRedeemCmd.Flags().StringVar(&ctfIndexSets, "index-sets", "", "Comma-separated index sets (default 1,2)")

	ctfRedeemNegRiskCmd.Flags().StringVar(&ctfAmounts, "amounts", "", "Comma-separated position amounts in USDC units")
	ctfRedeemNegRiskCmd.Flags().UintVar(&ctfOutcomes, "outcomes", 2, "Outcome slot count; --amounts must supply one per slot")
	ctfRedeemNegRiskCmd.MarkFlagRequired("amounts")

	ctfConditionIDCmd.Flags().StringVar(&ctfOracle, "oracle", "", "Oracle address")
	ctfConditionIDCmd.Flags().StringVar(&ctfQuestionID, "question-id", "", "Question id (bytes32 hex)")
	ctfConditionIDCmd.Flags().UintVar(&ctfOutcomes, "outcomes", 2, "Outcome slot count")
	ctfConditionIDCmd.MarkFlagRequired("oracle")
	ctfConditionIDCmd.MarkFlagRequired("question-id")

	ctfCollectionIDCmd.Flags().StringVar(&ctfParent, "parent", "", "Parent collection id (default zero)")
	ctfCollectionIDCmd.Flags().StringVar(&ctfCondition, "condition", "", "Condition id (bytes32 hex)")
	ctfCollectionIDCmd.Flags().Int64Var(&ctfIndexSet, "index-set", 1, "Outcome index set bitmap")
	ctfCollectionIDCmd.MarkFlagRequired("condition")

	ctfPositionIDCmd.Flags().StringVar(&ctfCollateral, "collateral", "", "Collateral token address (default USDC)")
	ctfPositionIDCmd.Flags().StringVar(&ctfCollection, "collection", "", "Collection id (bytes32 hex)")
	ctfPositionIDCmd.MarkFlagRequired("collection")
}

func runCTFSplit(cmd *cobra.Command, args []string) error {
	return sendCTFPositionCall(cmd, chain.SplitCall)
}

func runCTFMerge(cmd *cobra.Command, args []string) error {
	return sendCTFPositionCall(cmd, chain.MergeCall)
}

func sendCTFPositionCall(
	cmd *cobra.Command,
	build func(*chain.ChainConfig, common.Hash, []*big.Int, *big.Int) (chain.Call, error),
) error {
	condition, err := parseBytes32(ctfCondition)
	if err != nil {
		return err
	}

	amount, err := chain.ParseUSDC(ctfAmount)
	if err != nil {
		return err
	}

	partition, err := parseBigIntList(ctfPartition)
	if err != nil {
		return err
	}

	return sendChainCall(cmd, func(cfg *chain.ChainConfig) (chain.Call, error) {
		return build(cfg, condition, partition, amount)
	})
}

func runCTFRedeem(cmd *cobra.Command, args []string) error {
	condition, err := parseBytes32(ctfCondition)
	if err != nil {
		return err
	}

	indexSets, err := parseBigIntList(ctfIndexSets)
	if err != nil {
		return err
	}

	return sendChainCall(cmd, func(cfg *chain.ChainConfig) (chain.Call, error) {
		return chain.RedeemCall(cfg, condition, indexSets)
	})
}

func runCTFRedeemNegRisk(cmd *cobra.Command, args []string) error {
	condition, err := parseBytes32(ctfCondition)
	if err != nil {
		return err
	}

	var amounts []*big.Int
	for _, part := range strings.Split(ctfAmounts, ",") {
		part = strings.TrimSpace(part)
		// Losing slots redeem zero.
		if part == "0" {
			amounts = append(amounts, big.NewInt(0))
			continue
		}
		amount, err := chain.ParseUSDC(part)
		if err != nil {
			return err
		}
		amounts = append(amounts, amount)
	}
	if len(amounts) != int(ctfOutcomes) {
		return fmt.Errorf("got %d amounts for %d outcome slots", len(amounts), ctfOutcomes)
	}

	return sendChainCall(cmd, func(cfg *chain.ChainConfig) (chain.Call, error) {
		return chain.RedeemNegRiskCall(cfg, condition, amounts)
	})
}

// sendChainCall runs the shared encode/route/send pipeline for on-chain
// subcommands, including proxy exec routing and --dry-run.
func sendChainCall(cmd *cobra.Command, build func(*chain.ChainConfig) (chain.Call, error)) error {
	identity, err := resolveIdentity()
	if err != nil {
		return err
	}
	defer identity.Zero()

	cfg, err := chain.ForChain(identity.ChainID)
	if err != nil {
		return err
	}

	call, err := build(cfg)
	if err != nil {
		return err
	}

	if identity.SignatureType == auth.Proxy {
		proxy := auth.DeriveProxyWallet(identity.Key.Address())
		call, err = chain.WrapProxyExec(proxy, call)
		if err != nil {
			return err
		}
	}

	if ctfDryRun {
		fmt.Printf("%s\n  to:   %s\n  data: %s\n", call.Label, call.To.Hex(), hexutil.Encode(call.Data))
		return nil
	}

	// Safe execution goes through the Safe's own transaction flow.
	if identity.SignatureType == auth.GnosisSafe {
		return fmt.Errorf("safe signing cannot send directly; rerun with --dry-run and execute the call through the safe")
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	envCfg := config.LoadFromEnv()
	sender, err := chain.NewSender(envCfg.RPCURL, logger)
	if err != nil {
		return err
	}
	defer sender.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	receipt, err := sender.Send(ctx, identity.Key.ECDSA(), call)
	if err != nil {
		return err
	}
	if receipt.Status != 1 {
		return fmt.Errorf("%s: transaction reverted", call.Label)
	}

	fmt.Printf("%s: confirmed in block %d\n", call.Label, receipt.BlockNumber.Uint64())
	return nil
}

func runCTFConditionID(cmd *cobra.Command, args []string) error {
	if !common.IsHexAddress(ctfOracle) {
		return fmt.Errorf("invalid oracle address %q", ctfOracle)
	}

	questionID, err := parseBytes32(ctfQuestionID)
	if err != nil {
		return err
	}

	id := chain.ConditionID(common.HexToAddress(ctfOracle), questionID, ctfOutcomes)
	fmt.Println(id.Hex())
	return nil
}

func runCTFCollectionID(cmd *cobra.Command, args []string) error {
	parent := common.Hash{}
	if ctfParent != "" {
		var err error
		parent, err = parseBytes32(ctfParent)
		if err != nil {
			return err
		}
	}

	condition, err := parseBytes32(ctfCondition)
	if err != nil {
		return err
	}

	if ctfIndexSet <= 0 {
		return fmt.Errorf("index set must be positive")
	}

	id, err := chain.CollectionID(parent, condition, big.NewInt(ctfIndexSet))
	if err != nil {
		return err
	}

	fmt.Println(id.Hex())
	return nil
}

func runCTFPositionID(cmd *cobra.Command, args []string) error {
	collateral := ctfCollateral
	if collateral == "" {
		cfg, err := chain.ForChain(effectiveChainID())
		if err != nil {
			return err
		}
		collateral = cfg.Collateral.Hex()
	}
	if !common.IsHexAddress(collateral) {
		return fmt.Errorf("invalid collateral address %q", collateral)
	}

	collection, err := parseBytes32(ctfCollection)
	if err != nil {
		return err
	}

	id := chain.PositionID(common.HexToAddress(collateral), collection)
	fmt.Println(id.String())
	return nil
}

// effectiveChainID resolves the chain id without requiring a signing key;
// the id subcommands are pure computation.
func effectiveChainID() int64 {
	if flagChainID != 0 {
		return flagChainID
	}
	if file, err := config.LoadFile(); err == nil && file.ChainID != 0 {
		return file.ChainID
	}
	return 137
}

func parseBytes32(s string) (common.Hash, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") || len(s) != 66 {
		return common.Hash{}, fmt.Errorf("expected 0x-prefixed bytes32, got %q", s)
	}
	return common.HexToHash(s), nil
}

func parseBigIntList(s string) ([]*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var values []*big.Int
	for _, part := range strings.Split(s, ",") {
		v, ok := new(big.Int).SetString(strings.TrimSpace(part), 10)
		if !ok || v.Sign() <= 0 {
			return nil, fmt.Errorf("invalid index set %q", part)
		}
		values = append(values, v)
	}
	return values, nil
}
