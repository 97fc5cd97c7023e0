// Package pipeline runs the signed-transaction submission pattern: fetch an
// unsigned payload, sign it locally, broadcast it and wait for confirmation.
// Each step runs at most once per Run and the first failing step ends the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"compass-earn/internal/compass"
	"compass-earn/internal/constant"
	"compass-earn/internal/receipt"

	"github.com/ethereum/go-ethereum/common"
	evmTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/zeromicro/go-zero/core/logx"
)

// ErrSignerRequired is returned when a flow needs a key that is not configured.
var ErrSignerRequired = errors.New("pipeline: signer required")

// TransactionSource fetches the unsigned transaction to submit.
type TransactionSource interface {
	UnsignedTransaction(ctx context.Context) (*compass.UnsignedTransaction, error)
}

// SourceFunc adapts a function to TransactionSource.
type SourceFunc func(ctx context.Context) (*compass.UnsignedTransaction, error)

func (f SourceFunc) UnsignedTransaction(ctx context.Context) (*compass.UnsignedTransaction, error) {
	return f(ctx)
}

// Static returns a source that yields tx.
func Static(tx *compass.UnsignedTransaction) TransactionSource {
	return SourceFunc(func(context.Context) (*compass.UnsignedTransaction, error) {
		return tx, nil
	})
}

type TransactionSigner interface {
	Address() common.Address
	SignTransaction(tx *evmTypes.Transaction, chainID *big.Int) (*evmTypes.Transaction, error)
}

// Preparer completes a fetched payload (nonce, gas, fees) before signing.
type Preparer interface {
	Prepare(ctx context.Context, tx *compass.UnsignedTransaction) error
}

type Broadcaster interface {
	Broadcast(ctx context.Context, tx *evmTypes.Transaction) (common.Hash, error)
}

type Confirmer interface {
	Confirm(ctx context.Context, hash common.Hash) (*evmTypes.Receipt, error)
}

// Submission describes a broadcast transaction for a Recorder.
type Submission struct {
	Hash   common.Hash
	Chain  string
	Action constant.Action
	Owner  string
	From   common.Address
	To     common.Address
}

// Recorder persists submissions. Recording failures are logged and never fail a run.
type Recorder interface {
	Submitted(ctx context.Context, s *Submission) error
	Finished(ctx context.Context, hash common.Hash, status string, blockNumber uint64) error
}

// Meta labels a run for logs and records.
type Meta struct {
	Chain  string
	Action constant.Action
	Owner  string
}

type Result struct {
	Hash    common.Hash
	Receipt *evmTypes.Receipt
	Events  []receipt.Event
}

// Submitter runs one transaction through sign, submit and confirm.
type Submitter struct {
	Signer      TransactionSigner
	Preparer    Preparer
	Broadcaster Broadcaster
	Confirmer   Confirmer
	Recorder    Recorder
}

// Run fetches from source and submits the result. When confirmation reports a
// reverted transaction, the partial Result is returned alongside the error.
func (s *Submitter) Run(ctx context.Context, meta Meta, source TransactionSource) (*Result, error) {
	if s.Signer == nil {
		return nil, ErrSignerRequired
	}
	logger := logx.WithContext(ctx)

	logger.Infof("步骤 1: 获取未签名交易 [%s %s]", meta.Action, meta.Chain)
	unsigned, err := source.UnsignedTransaction(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch unsigned transaction: %w", err)
	}
	if err := unsigned.Validate(); err != nil {
		return nil, err
	}
	if unsigned.From != (common.Address{}) && unsigned.From != s.Signer.Address() {
		return nil, fmt.Errorf("transaction sender %s does not match signer %s", unsigned.From.Hex(), s.Signer.Address().Hex())
	}
	if unsigned.From == (common.Address{}) {
		unsigned.From = s.Signer.Address()
	}
	if s.Preparer != nil {
		if err := s.Preparer.Prepare(ctx, unsigned); err != nil {
			return nil, fmt.Errorf("prepare transaction: %w", err)
		}
	}
	tx, err := unsigned.ToTransaction()
	if err != nil {
		return nil, err
	}

	logger.Infof("步骤 2: 本地签名 from=%s", s.Signer.Address().Hex())
	signed, err := s.Signer.SignTransaction(tx, unsigned.ChainId.Big())
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	logger.Infof("步骤 3: 广播交易")
	hash, err := s.Broadcaster.Broadcast(ctx, signed)
	if err != nil {
		return nil, fmt.Errorf("broadcast transaction: %w", err)
	}
	logger.Infof("交易已发送: %s", hash.Hex())
	s.record(ctx, func(r Recorder) error {
		return r.Submitted(ctx, &Submission{
			Hash:   hash,
			Chain:  meta.Chain,
			Action: meta.Action,
			Owner:  meta.Owner,
			From:   s.Signer.Address(),
			To:     unsigned.To,
		})
	})

	logger.Infof("步骤 4: 等待交易确认")
	rcpt, err := s.Confirmer.Confirm(ctx, hash)
	if err != nil {
		result := &Result{Hash: hash, Receipt: rcpt}
		if rcpt != nil {
			result.Events = receipt.ParseLogs(rcpt)
			s.record(ctx, func(r Recorder) error {
				return r.Finished(ctx, hash, constant.StatusFailed, blockOf(rcpt))
			})
		}
		return result, fmt.Errorf("confirm transaction: %w", err)
	}
	s.record(ctx, func(r Recorder) error {
		return r.Finished(ctx, hash, constant.StatusConfirmed, blockOf(rcpt))
	})

	return &Result{
		Hash:    hash,
		Receipt: rcpt,
		Events:  receipt.ParseLogs(rcpt),
	}, nil
}

func (s *Submitter) record(ctx context.Context, fn func(Recorder) error) {
	if s.Recorder == nil {
		return
	}
	if err := fn(s.Recorder); err != nil {
		logx.WithContext(ctx).Errorf("记录交易失败: %v", err)
	}
}

func blockOf(r *evmTypes.Receipt) uint64 {
	if r == nil || r.BlockNumber == nil {
		return 0
	}
	return r.BlockNumber.Uint64()
}
