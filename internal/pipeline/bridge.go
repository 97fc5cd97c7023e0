package pipeline

import (
	"context"
	"fmt"

	"compass-earn/internal/cctp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zeromicro/go-zero/core/logx"
)

type Attester interface {
	WaitForAttestation(ctx context.Context, sourceDomain uint32, txHash common.Hash) (*cctp.Message, error)
}

// BridgeRequest describes one CCTP transfer. Mint is called with the attested
// message once the burn is final.
type BridgeRequest struct {
	SourceDomain    uint32
	SourceMeta      Meta
	DestinationMeta Meta
	// Approval is optional and runs before the burn.
	Approval TransactionSource
	Burn     TransactionSource
	Mint     func(msg *cctp.Message) TransactionSource
}

type BridgeResult struct {
	Approval *Result
	Burn     *Result
	Message  *cctp.Message
	Mint     *Result
}

// Bridge moves USDC across chains: burn on the source chain, wait for Circle's
// attestation, then mint on the destination chain.
type Bridge struct {
	Source      *Submitter
	Destination *Submitter
	Attester    Attester
}

// Run executes the legs in order and stops at the first failure. The returned
// result holds every leg that completed.
func (b *Bridge) Run(ctx context.Context, req *BridgeRequest) (*BridgeResult, error) {
	logger := logx.WithContext(ctx)
	result := &BridgeResult{}

	if req.Approval != nil {
		logger.Infof("CCTP: 授权 USDC")
		res, err := b.Source.Run(ctx, req.SourceMeta, req.Approval)
		result.Approval = res
		if err != nil {
			return result, fmt.Errorf("approve: %w", err)
		}
	}

	logger.Infof("CCTP: 在 %s 上销毁 USDC", req.SourceMeta.Chain)
	res, err := b.Source.Run(ctx, req.SourceMeta, req.Burn)
	result.Burn = res
	if err != nil {
		return result, fmt.Errorf("burn: %w", err)
	}

	msg, err := b.Attester.WaitForAttestation(ctx, req.SourceDomain, res.Hash)
	if err != nil {
		return result, fmt.Errorf("wait for attestation: %w", err)
	}
	result.Message = msg

	logger.Infof("CCTP: 在 %s 上铸造 USDC", req.DestinationMeta.Chain)
	res, err = b.Destination.Run(ctx, req.DestinationMeta, req.Mint(msg))
	result.Mint = res
	if err != nil {
		return result, fmt.Errorf("mint: %w", err)
	}
	return result, nil
}
