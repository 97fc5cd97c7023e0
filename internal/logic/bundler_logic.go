package logic

import (
	"context"
	"errors"
	"fmt"

	"compass-earn/internal/compass"
	"compass-earn/internal/constant"
	"compass-earn/internal/pipeline"
	"compass-earn/internal/signer"
	"compass-earn/internal/svc"
	"compass-earn/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

// BundlerLogic 通过 EIP-7702 授权把多个操作打包成一笔交易
type BundlerLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewBundlerLogic(ctx context.Context, svcCtx *svc.ServiceContext) *BundlerLogic {
	return &BundlerLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Authorize signs the delegation the API asks for and submits the bundle of actions.
func (l *BundlerLogic) Authorize(chainName string, actions []compass.BundlerAction) (*types.SubmitResp, error) {
	s := l.svcCtx.Signer
	if s == nil {
		return nil, pipeline.ErrSignerRequired
	}
	if err := requireChain(chainName); err != nil {
		return nil, err
	}
	if len(actions) == 0 {
		return nil, errors.New("at least one action is required")
	}
	sender := s.Address().Hex()

	submitter, closeFn, err := l.svcCtx.Submitter(l.ctx, chainName, s)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	source := pipeline.SourceFunc(func(ctx context.Context) (*compass.UnsignedTransaction, error) {
		signed, err := l.signedAuthorization(ctx, s, chainName)
		if err != nil {
			return nil, err
		}
		return l.svcCtx.Compass.BundlerExecute(ctx, &compass.BundlerExecuteRequest{
			Chain:               chainName,
			Sender:              sender,
			SignedAuthorization: *signed,
			Actions:             actions,
		})
	})

	meta := pipeline.Meta{Chain: chainName, Action: constant.ActionBundle, Owner: sender}
	res, err := submitter.Run(l.ctx, meta, source)
	return buildSubmitResp(l.Logger, l.svcCtx, chainName, string(constant.ActionBundle), res, err)
}

func (l *BundlerLogic) signedAuthorization(ctx context.Context, s *signer.Signer, chainName string) (*compass.SignedAuthorization, error) {
	auth, err := l.svcCtx.Compass.BundlerAuthorization(ctx, chainName, s.Address().Hex())
	if err != nil {
		return nil, err
	}
	chainID, nonce := auth.ChainId.Uint64(), auth.Nonce.Uint64()
	l.Infof("签署 EIP-7702 授权: contract=%s nonce=%d chainId=%d", auth.Address.Hex(), nonce, chainID)

	sig, err := s.SignAuthorization(chainID, auth.Address, nonce)
	if err != nil {
		return nil, err
	}
	tuple, err := signer.ParseSignature(sig, nonce, auth.Address, chainID)
	if err != nil {
		return nil, fmt.Errorf("parse authorization signature: %w", err)
	}
	signed := compass.NewSignedAuthorization(chainID, auth.Address, nonce, &tuple.R, &tuple.S, tuple.V)
	return &signed, nil
}
