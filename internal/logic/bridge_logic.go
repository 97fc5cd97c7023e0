package logic

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"compass-earn/internal/cctp"
	"compass-earn/internal/compass"
	"compass-earn/internal/constant"
	"compass-earn/internal/errorx"
	"compass-earn/internal/format"
	"compass-earn/internal/pipeline"
	"compass-earn/internal/poll"
	"compass-earn/internal/receipt"
	"compass-earn/internal/svc"
	"compass-earn/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

const usdcDecimals = 6

// BridgeLogic CCTP 跨链 USDC: 源链销毁, 等待 Circle attestation, 目标链铸造
type BridgeLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

// NewBridgeLogic 创建跨链逻辑实例
func NewBridgeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *BridgeLogic {
	return &BridgeLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Bridge moves USDC from req.FromChain to req.ToChain with the configured signer
// paying gas on both chains.
func (l *BridgeLogic) Bridge(req *types.BridgeReq) (*types.BridgeResp, error) {
	l.Infof("--- 开始 CCTP 跨链 %s -> %s amount=%s ---", req.FromChain, req.ToChain, req.Amount)
	s := l.svcCtx.Signer
	if s == nil {
		return nil, pipeline.ErrSignerRequired
	}
	if req.FromChain == req.ToChain {
		return nil, errors.New("source and destination chain must differ")
	}
	srcConf, err := l.svcCtx.Config.Chain(req.FromChain)
	if err != nil {
		return nil, err
	}
	if _, err := l.svcCtx.Config.Chain(req.ToChain); err != nil {
		return nil, err
	}
	units, err := format.ParseUnits(req.Amount, usdcDecimals)
	if err != nil || units.Sign() <= 0 {
		return nil, errorx.BadRequest("amount must be a positive USDC amount with at most 6 decimals")
	}
	amount := format.FormatUnits(units, usdcDecimals)
	sender := s.Address().Hex()
	recipient := sender
	if req.Recipient != "" {
		if recipient, err = requireAddress("recipient", req.Recipient); err != nil {
			return nil, err
		}
	}

	burn, err := l.svcCtx.Compass.CctpBurn(l.ctx, &compass.CctpBurnRequest{
		Chain:                req.FromChain,
		DestinationChain:     req.ToChain,
		Sender:               sender,
		Recipient:            recipient,
		Amount:               amount,
		DepositToEarnAccount: req.DepositToEarnAccount,
	})
	if err != nil {
		l.Errorf("获取 CCTP burn 交易失败: %v", err)
		return nil, err
	}

	source, closeSrc, err := l.svcCtx.Submitter(l.ctx, req.FromChain, s)
	if err != nil {
		return nil, err
	}
	defer closeSrc()
	destination, closeDst, err := l.svcCtx.Submitter(l.ctx, req.ToChain, s)
	if err != nil {
		return nil, err
	}
	defer closeDst()

	bridgeReq := &pipeline.BridgeRequest{
		SourceDomain:    srcConf.CctpDomain,
		SourceMeta:      pipeline.Meta{Chain: req.FromChain, Action: constant.ActionCctpBurn, Owner: sender},
		DestinationMeta: pipeline.Meta{Chain: req.ToChain, Action: constant.ActionCctpMint, Owner: recipient},
		Burn:            pipeline.Static(burn.Transaction),
		Mint: func(msg *cctp.Message) pipeline.TransactionSource {
			return pipeline.SourceFunc(func(ctx context.Context) (*compass.UnsignedTransaction, error) {
				message, err := msg.MessageBytes()
				if err != nil {
					return nil, fmt.Errorf("decode cctp message: %w", err)
				}
				attestation, err := msg.AttestationBytes()
				if err != nil {
					return nil, fmt.Errorf("decode attestation: %w", err)
				}
				return l.svcCtx.Compass.CctpMint(ctx, &compass.CctpMintRequest{
					Chain:       req.ToChain,
					Sender:      sender,
					Message:     message,
					Attestation: attestation,
				})
			})
		},
	}
	if burn.Approval != nil {
		bridgeReq.Approval = pipeline.Static(burn.Approval)
	}

	flow := &pipeline.Bridge{Source: source, Destination: destination, Attester: l.svcCtx.Circle}
	res, err := flow.Run(l.ctx, bridgeReq)

	resp := &types.BridgeResp{
		Message: fmt.Sprintf("bridged %s USDC from %s to %s", amount, req.FromChain, req.ToChain),
	}
	if res != nil && res.Burn != nil {
		resp.BurnTxHash = res.Burn.Hash.Hex()
		resp.BurnTxLink = srcConf.ExplorerTxUrl(resp.BurnTxHash)
		for _, ev := range res.Burn.Events {
			if ev.EventType != receipt.EventDepositForBurn {
				continue
			}
			if burned, ok := new(big.Int).SetString(ev.Amount, 10); ok {
				l.Infof("已销毁 %s USDC, 目标 domain %d", format.FormatUnits(burned, usdcDecimals), ev.DestinationDomain)
			}
		}
	}
	if res != nil && res.Message != nil {
		resp.Attestation = res.Message.Attestation
	}
	if res != nil && res.Mint != nil {
		resp.MintTxHash = res.Mint.Hash.Hex()
		if dstConf, err := l.svcCtx.Config.Chain(req.ToChain); err == nil {
			resp.MintTxLink = dstConf.ExplorerTxUrl(resp.MintTxHash)
		}
	}

	if err != nil {
		l.Errorf("CCTP 跨链失败: %v", err)
		if resp.BurnTxHash == "" {
			return nil, err
		}
		// the burn is on-chain; report how far the transfer got
		resp.Message = fmt.Sprintf("bridge of %s USDC from %s to %s incomplete", amount, req.FromChain, req.ToChain)
		return resp, errorx.Wrap(http.StatusGatewayTimeout, resp.Message, resp, err)
	}
	l.Infof("✅ CCTP 跨链完成: burn=%s mint=%s", resp.BurnTxHash, resp.MintTxHash)
	return resp, nil
}

// AttestationStatus checks a burn's attestation once without waiting.
func (l *BridgeLogic) AttestationStatus(req *types.AttestationReq) (*types.AttestationResp, error) {
	chainConf, err := l.svcCtx.Config.Chain(req.Chain)
	if err != nil {
		return nil, errorx.BadRequest(err.Error())
	}
	hash, err := requireTxHash(req.TxHash)
	if err != nil {
		return nil, err
	}

	msg, err := l.svcCtx.Circle.Message(l.ctx, chainConf.CctpDomain, hash)
	switch {
	case errors.Is(err, poll.ErrNotReady):
		status := constant.AttestationPending
		if msg != nil {
			status = msg.Status
		}
		return &types.AttestationResp{Status: status}, nil
	case err != nil:
		l.Errorf("查询 attestation 失败: %v", err)
		return nil, err
	}
	return &types.AttestationResp{
		Status:      msg.Status,
		Ready:       true,
		Message:     msg.Message,
		Attestation: msg.Attestation,
	}, nil
}
