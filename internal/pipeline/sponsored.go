package pipeline

import (
	"context"
	"fmt"

	"compass-earn/internal/compass"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/zeromicro/go-zero/core/logx"
)

// TypedDataSource fetches the EIP-712 payload the owner authorizes off-chain.
type TypedDataSource interface {
	TypedData(ctx context.Context) (*compass.TypedData, error)
}

// TypedDataFunc adapts a function to TypedDataSource.
type TypedDataFunc func(ctx context.Context) (*compass.TypedData, error)

func (f TypedDataFunc) TypedData(ctx context.Context) (*compass.TypedData, error) {
	return f(ctx)
}

type TypedDataSigner interface {
	Address() common.Address
	SignTypedData(td apitypes.TypedData) (string, error)
}

// SponsorPreparer turns a signed authorization into a transaction the sponsor pays for.
type SponsorPreparer interface {
	PrepareSponsored(ctx context.Context, req *compass.SponsorRequest) (*compass.UnsignedTransaction, error)
}

// Sponsored is the gas-sponsored variant: the owner signs typed data only and the
// sponsor's Submitter signs and pays for the resulting transaction.
type Sponsored struct {
	Owner     TypedDataSigner
	Sponsor   SponsorPreparer
	Submitter *Submitter
}

// Run fetches typed data, has the owner sign it and submits the sponsored transaction.
func (s *Sponsored) Run(ctx context.Context, meta Meta, source TypedDataSource) (*Result, error) {
	if s.Owner == nil {
		return nil, ErrSignerRequired
	}
	logger := logx.WithContext(ctx)

	logger.Infof("获取待签名 EIP-712 数据 [%s %s]", meta.Action, meta.Chain)
	td, err := source.TypedData(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch typed data: %w", err)
	}
	if err := td.Validate(); err != nil {
		return nil, err
	}

	signature, err := s.Owner.SignTypedData(td.TypedData)
	if err != nil {
		return nil, fmt.Errorf("owner sign typed data: %w", err)
	}
	logger.Infof("owner 签名完成: %s", s.Owner.Address().Hex())

	return s.Submit(ctx, meta, s.Owner.Address(), td, signature)
}

// Submit hands an already signed authorization to the sponsor.
func (s *Sponsored) Submit(ctx context.Context, meta Meta, owner common.Address, td *compass.TypedData, signature string) (*Result, error) {
	if s.Submitter == nil || s.Submitter.Signer == nil {
		return nil, ErrSignerRequired
	}
	sponsor := s.Submitter.Signer.Address()
	source := SourceFunc(func(ctx context.Context) (*compass.UnsignedTransaction, error) {
		return s.Sponsor.PrepareSponsored(ctx, &compass.SponsorRequest{
			Owner:     owner.Hex(),
			Chain:     meta.Chain,
			Sender:    sponsor.Hex(),
			TypedData: td,
			Signature: signature,
		})
	})
	if meta.Owner == "" {
		meta.Owner = owner.Hex()
	}
	return s.Submitter.Run(ctx, meta, source)
}
