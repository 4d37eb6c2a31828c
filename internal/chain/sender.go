package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

const senderGasLimit = 300000

// Sender broadcasts encoded calls as signed transactions.
type Sender struct {
	client *ethclient.Client
	logger *zap.Logger
}

// NewSender connects to an RPC endpoint.
func NewSender(rpcURL string, logger *zap.Logger) (*Sender, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("connect to RPC %s: %w", rpcURL, err)
	}

	return &Sender{client: client, logger: logger}, nil
}

// Close releases the RPC connection.
func (s *Sender) Close() {
	s.client.Close()
}

// Send signs and broadcasts one call, then waits for its receipt.
func (s *Sender) Send(ctx context.Context, key *ecdsa.PrivateKey, call Call) (*ethtypes.Receipt, error) {
	from := crypto.PubkeyToAddress(key.PublicKey)

	nonce, err := s.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("get nonce: %w", err)
	}

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("get gas price: %w", err)
	}

	tx := ethtypes.NewTransaction(
		nonce,
		call.To,
		big.NewInt(0),
		senderGasLimit,
		gasPrice,
		call.Data,
	)

	chainID, err := s.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("get chain ID: %w", err)
	}

	signedTx, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(chainID), key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	s.logger.Info("sending-transaction",
		zap.String("label", call.Label),
		zap.String("to", call.To.Hex()),
		zap.String("hash", signedTx.Hash().Hex()),
		zap.Uint64("nonce", nonce))

	if err := s.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}

	return s.waitForReceipt(ctx, signedTx.Hash())
}

func (s *Sender) waitForReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	for i := 0; i < 60; i++ {
		receipt, err := s.client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	return nil, fmt.Errorf("timeout waiting for receipt %s", txHash.Hex())
}
