// Package chain talks to EVM JSON-RPC nodes: filling transaction defaults,
// broadcasting signed transactions and waiting for receipts.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"compass-earn/internal/compass"
	"compass-earn/internal/config"
	"compass-earn/internal/poll"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	evmTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/zeromicro/go-zero/core/logx"
)

// ErrReverted is returned when a mined transaction has a failed status.
var ErrReverted = errors.New("chain: transaction reverted")

// Client is the subset of ethclient.Client this package needs.
type Client interface {
	ethereum.TransactionSender
	ethereum.TransactionReader
	ethereum.GasEstimator
	ethereum.GasPricer
	ethereum.GasPricer1559
	ethereum.PendingStateReader
	HeaderByNumber(ctx context.Context, number *big.Int) (*evmTypes.Header, error)
}

// Dial connects to the chain's RPC endpoint.
func Dial(ctx context.Context, c config.ChainConf) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, c.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.Name, err)
	}
	return client, nil
}

const (
	minGasLimit       = 21000
	gasBufferPercent  = 120
	defaultGasLimit   = 300000
	baseFeeMultiplier = 2
)

// FillDefaults fills nonce, gas limit and fee fields the API left empty.
func FillDefaults(ctx context.Context, client Client, tx *compass.UnsignedTransaction) error {
	logger := logx.WithContext(ctx)
	from := tx.From

	if !tx.Nonce.IsSet() {
		if from == (common.Address{}) {
			return errors.New("cannot fill nonce without from address")
		}
		nonce, err := client.PendingNonceAt(ctx, from)
		if err != nil {
			return fmt.Errorf("failed to get nonce: %w", err)
		}
		tx.Nonce = compass.NewQuantity(new(big.Int).SetUint64(nonce))
		logger.Infof("获取 nonce 成功: %d", nonce)
	}

	if !tx.Gas.IsSet() || tx.Gas.Uint64() == 0 {
		to := tx.To
		gasLimit, err := client.EstimateGas(ctx, ethereum.CallMsg{
			From:  from,
			To:    &to,
			Value: tx.Value.Big(),
			Data:  tx.Data,
		})
		if err != nil {
			logger.Infof("Gas 估算失败，使用默认值: %v", err)
			gasLimit = defaultGasLimit
		}
		if gasLimit < minGasLimit {
			gasLimit = minGasLimit
		}
		gasLimit = gasLimit * gasBufferPercent / 100
		tx.Gas = compass.NewQuantity(new(big.Int).SetUint64(gasLimit))
	}

	if tx.IsLegacy() || (tx.MaxFeePerGas.IsSet() && tx.MaxPriorityFeePerGas.IsSet()) {
		return nil
	}

	tip, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		return fmt.Errorf("failed to get gas tip cap: %w", err)
	}
	head, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to get latest header: %w", err)
	}
	if head.BaseFee == nil {
		price, err := client.SuggestGasPrice(ctx)
		if err != nil {
			return fmt.Errorf("failed to get gas price: %w", err)
		}
		tx.GasPrice = compass.NewQuantity(price)
		return nil
	}
	feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(baseFeeMultiplier)))
	tx.MaxPriorityFeePerGas = compass.NewQuantity(tip)
	tx.MaxFeePerGas = compass.NewQuantity(feeCap)
	return nil
}

// Filler fills transaction defaults from a node before signing.
type Filler struct {
	Client Client
}

func (f Filler) Prepare(ctx context.Context, tx *compass.UnsignedTransaction) error {
	return FillDefaults(ctx, f.Client, tx)
}

// BroadcastClient sends transactions and can look them up again.
type BroadcastClient interface {
	ethereum.TransactionSender
	TransactionByHash(ctx context.Context, hash common.Hash) (tx *evmTypes.Transaction, isPending bool, err error)
}

// Broadcaster submits signed transactions to an RPC node.
type Broadcaster struct {
	client BroadcastClient
}

func NewBroadcaster(client BroadcastClient) *Broadcaster {
	return &Broadcaster{client: client}
}

// Broadcast sends tx and returns its hash.
func (b *Broadcaster) Broadcast(ctx context.Context, tx *evmTypes.Transaction) (common.Hash, error) {
	err := b.client.SendTransaction(ctx, tx)
	if err == nil {
		return tx.Hash(), nil
	}
	// some RPC providers report an accepted transaction as an error carrying its
	// result; it only counts as sent when the node knows the hash
	if isMisleadingSendError(err) {
		if _, _, lookupErr := b.client.TransactionByHash(ctx, tx.Hash()); lookupErr == nil {
			logx.WithContext(ctx).Infof("RPC 返回误导性错误，但节点已收到交易 %s: %v", tx.Hash().Hex(), err)
			return tx.Hash(), nil
		}
	}
	return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
}

func isMisleadingSendError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "result") && strings.Contains(msg, "0x")
}

// ReceiptWaiter polls for a transaction receipt.
type ReceiptWaiter struct {
	client ethereum.TransactionReader
	poll   poll.Config
}

func NewReceiptWaiter(client ethereum.TransactionReader, c poll.Config) *ReceiptWaiter {
	return &ReceiptWaiter{client: client, poll: c}
}

// Confirm waits until hash is mined. A mined but failed transaction returns its
// receipt together with ErrReverted.
func (w *ReceiptWaiter) Confirm(ctx context.Context, hash common.Hash) (*evmTypes.Receipt, error) {
	logger := logx.WithContext(ctx)
	receipt, err := poll.Until(ctx, w.poll, func(ctx context.Context) (*evmTypes.Receipt, error) {
		receipt, err := w.client.TransactionReceipt(ctx, hash)
		if errors.Is(err, ethereum.NotFound) {
			logger.Infof("交易尚未确认，继续等待... %s", hash.Hex())
			return nil, poll.ErrNotReady
		}
		return receipt, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to confirm %s: %w", hash.Hex(), err)
	}
	if receipt.Status != evmTypes.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s in block %d", ErrReverted, hash.Hex(), receipt.BlockNumber.Uint64())
	}
	logger.Infof("交易确认成功 %s, 区块: %d", hash.Hex(), receipt.BlockNumber.Uint64())
	return receipt, nil
}
